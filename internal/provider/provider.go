package provider

import (
	"context"
	"errors"
	"net"
	"strings"

	"match-engine/internal/match"
)

var (
	// ErrUnavailable marks a tier that is unconfigured or cannot be reached.
	// It is recovered by advancing to the next tier, never retried and never
	// surfaced to the end caller.
	ErrUnavailable = errors.New("provider unavailable")
	// ErrTimeout marks a tier that exceeded its deadline. It is retried
	// within the tier's attempt budget, then the chain advances.
	ErrTimeout = errors.New("provider timeout")
)

// MatchRequest carries one (resume, job) pair through the chain.
type MatchRequest struct {
	ResumeText     string
	ResumeSkills   []string
	JobText        string
	RequiredSkills []string
}

// Attempt tags a result with the tier that produced it. Confidence is
// observability metadata only; it never alters scoring semantics.
type Attempt struct {
	Tier       string  `json:"tier"`
	Confidence float64 `json:"confidence"`
}

// Outcome is a match result plus its provenance.
type Outcome struct {
	Result  match.Result `json:"result"`
	Attempt Attempt      `json:"attempt"`
}

// Tier is one provider level in the fallback chain.
type Tier interface {
	Name() string
	Confidence() float64
	Match(ctx context.Context, req MatchRequest) (match.Result, error)
}

// shouldRetry reports whether a tier failure looks transient. Unavailable
// and auth/config errors advance immediately; timeouts, 5xx and connection
// drops are worth another attempt.
func shouldRetry(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrUnavailable) {
		return false
	}
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "http status 5") || strings.Contains(msg, "server_error") {
		return true
	}
	if strings.Contains(msg, "timeout") || strings.Contains(msg, "client.timeout") {
		return true
	}
	if strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "unexpected eof") {
		return true
	}

	return false
}
