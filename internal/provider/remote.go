package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"match-engine/internal/match"
)

// Generator produces raw model output for a prompt. Each vendor adapter
// (Gemini, chat-completions-compatible HTTP APIs) implements this.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Remote is a language-model tier. It owns the translation from its vendor's
// response into the uniform match.Result shape, so vendor heterogeneity
// never reaches the aggregator or the caller.
type Remote struct {
	name string
	gen  Generator
}

// NewRemote wraps a generator as a chain tier.
func NewRemote(name string, gen Generator) *Remote {
	return &Remote{name: name, gen: gen}
}

// Name implements Tier.
func (r *Remote) Name() string { return r.name }

// Confidence implements Tier.
func (r *Remote) Confidence() float64 { return remoteConfidence }

// Match implements Tier. A nil generator means the tier is not configured.
func (r *Remote) Match(ctx context.Context, req MatchRequest) (match.Result, error) {
	if r.gen == nil {
		return match.Result{}, fmt.Errorf("%w: %s is not configured", ErrUnavailable, r.name)
	}

	raw, err := r.gen.Generate(ctx, buildMatchPrompt(req))
	if err != nil {
		return match.Result{}, fmt.Errorf("%s: %w", r.name, err)
	}
	result, err := parseMatchPayload(raw)
	if err != nil {
		return match.Result{}, fmt.Errorf("%s: %w", r.name, err)
	}
	return result, nil
}

func buildMatchPrompt(req MatchRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert HR analyst. Score how well the resume matches the job.\n\n")
	b.WriteString("RESUME:\n")
	b.WriteString(req.ResumeText)
	b.WriteString("\n\nJOB DESCRIPTION:\n")
	b.WriteString(req.JobText)
	if len(req.RequiredSkills) > 0 {
		b.WriteString("\n\nREQUIRED SKILLS: ")
		b.WriteString(strings.Join(req.RequiredSkills, ", "))
	}
	b.WriteString("\n\nRespond with only a JSON object in this exact shape:\n")
	b.WriteString(`{"overall_score": 0-100, "lexical_similarity": 0-100, "skill_overlap_ratio": 0-100, "matched_skills": ["..."], "missing_skills": ["..."], "explanation": "..."}`)
	return b.String()
}

type matchPayload struct {
	OverallScore      float64  `json:"overall_score"`
	LexicalSimilarity float64  `json:"lexical_similarity"`
	SkillOverlapRatio float64  `json:"skill_overlap_ratio"`
	MatchedSkills     []string `json:"matched_skills"`
	MissingSkills     []string `json:"missing_skills"`
	Explanation       string   `json:"explanation"`
}

var jsonObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)

// parseMatchPayload turns raw model output into a match.Result. Models wrap
// JSON in prose or code fences often enough that the first object-looking
// span is extracted before unmarshalling. Anything that does not validate is
// a tier failure so the chain can advance.
func parseMatchPayload(raw string) (match.Result, error) {
	blob := jsonObjectPattern.FindString(raw)
	if blob == "" {
		return match.Result{}, fmt.Errorf("no JSON object in model response")
	}

	var payload matchPayload
	if err := json.Unmarshal([]byte(blob), &payload); err != nil {
		return match.Result{}, fmt.Errorf("decode model response: %w", err)
	}
	if payload.OverallScore < 0 || payload.OverallScore > 100 {
		return match.Result{}, fmt.Errorf("overall_score out of range: %f", payload.OverallScore)
	}

	result := match.Result{
		OverallScore:      payload.OverallScore,
		LexicalSimilarity: clampPct(payload.LexicalSimilarity),
		SkillOverlapRatio: clampPct(payload.SkillOverlapRatio),
		MatchedSkills:     normalizeList(payload.MatchedSkills),
		MissingSkills:     normalizeList(payload.MissingSkills),
		Explanation:       strings.TrimSpace(payload.Explanation),
	}
	return result, nil
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func normalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		clean := strings.ToLower(strings.TrimSpace(item))
		if clean != "" {
			out = append(out, clean)
		}
	}
	return out
}
