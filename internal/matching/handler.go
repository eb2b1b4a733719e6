package matching

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"match-engine/internal/extract"
	"match-engine/internal/provider"
	"match-engine/internal/shared/server/respond"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// Handler wires HTTP handlers to the matching service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches matching routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract", h.extractProfile)
	rg.POST("/match", h.matchOne)
	rg.POST("/match/batch", h.matchBatch)
}

func (h *Handler) extractProfile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusBadRequest, "file_too_large", "file exceeds the 10MB limit", nil)
		return
	}

	format := c.PostForm("format")
	if format == "" {
		format = formatFromFilename(fileHeader.Filename)
	}
	format = extract.NormalizeFormat(format)

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read uploaded file", nil)
		return
	}

	prof, err := h.Svc.ExtractProfile(data, format)
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_format", "format must be pdf, docx or txt", nil)
		case errors.Is(err, extract.ErrExtractionFailed):
			respond.Error(c, http.StatusUnprocessableEntity, "extraction_failed", "document could not be parsed", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to extract profile", nil)
		}
		return
	}

	respond.OK(c, gin.H{"profile": prof})
}

type matchRequest struct {
	ResumeText     string   `json:"resumeText"`
	ResumeSkills   []string `json:"resumeSkills"`
	JobText        string   `json:"jobText"`
	RequiredSkills []string `json:"requiredSkills"`
	TimeoutSeconds int      `json:"timeoutSeconds"`
}

func (h *Handler) matchOne(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	if strings.TrimSpace(req.ResumeText) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resumeText is required", nil)
		return
	}
	if strings.TrimSpace(req.JobText) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobText is required", nil)
		return
	}

	ctx := c.Request.Context()
	if req.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	out := h.Svc.Match(ctx, provider.MatchRequest{
		ResumeText:     req.ResumeText,
		ResumeSkills:   req.ResumeSkills,
		JobText:        req.JobText,
		RequiredSkills: req.RequiredSkills,
	})

	respond.OK(c, gin.H{
		"result":     out.Result,
		"tier":       out.Attempt.Tier,
		"confidence": out.Attempt.Confidence,
	})
}

type batchRequest struct {
	JobText        string        `json:"jobText"`
	RequiredSkills []string      `json:"requiredSkills"`
	Resumes        []BatchResume `json:"resumes"`
}

func (h *Handler) matchBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid JSON body", nil)
		return
	}
	if strings.TrimSpace(req.JobText) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jobText is required", nil)
		return
	}
	if len(req.Resumes) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "at least one resume is required", nil)
		return
	}

	items := h.Svc.BatchMatch(c.Request.Context(), req.Resumes, req.JobText, req.RequiredSkills)
	respond.OK(c, gin.H{"items": items})
}

func formatFromFilename(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}
