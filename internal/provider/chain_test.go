package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"match-engine/internal/lexicon"
	"match-engine/internal/match"
	"match-engine/internal/profile"
)

type stubTier struct {
	name   string
	calls  int
	errs   []error
	result match.Result
}

func (s *stubTier) Name() string        { return s.name }
func (s *stubTier) Confidence() float64 { return remoteConfidence }

func (s *stubTier) Match(_ context.Context, _ MatchRequest) (match.Result, error) {
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return match.Result{}, s.errs[idx]
	}
	return s.result, nil
}

func newTestOffline() *Offline {
	lex := lexicon.Default()
	return NewOffline(profile.NewExtractor(lex), match.NewAggregator(lex))
}

func testRequest() MatchRequest {
	return MatchRequest{
		ResumeText:     "Python developer with 5+ years of experience in Django and PostgreSQL.",
		JobText:        "Looking for a Python engineer with Django and AWS.",
		RequiredSkills: []string{"python", "django", "aws"},
	}
}

func TestChainFirstTierWins(t *testing.T) {
	want := match.Result{OverallScore: 88, Explanation: "strong match"}
	first := &stubTier{name: "gemini", result: want}
	second := &stubTier{name: "openai"}

	chain := NewChain(newTestOffline(), first, second)
	out := chain.Match(context.Background(), testRequest())

	if out.Attempt.Tier != "gemini" {
		t.Fatalf("tier = %q, want gemini", out.Attempt.Tier)
	}
	if out.Attempt.Confidence != remoteConfidence {
		t.Errorf("confidence = %f, want %f", out.Attempt.Confidence, remoteConfidence)
	}
	if out.Result.OverallScore != want.OverallScore {
		t.Errorf("score = %f, want %f", out.Result.OverallScore, want.OverallScore)
	}
	if second.calls != 0 {
		t.Errorf("second tier called %d times, want 0", second.calls)
	}
}

func TestChainFallsBackToOffline(t *testing.T) {
	failing := &stubTier{
		name: "gemini",
		errs: []error{ErrUnavailable, ErrUnavailable, ErrUnavailable},
	}

	chain := NewChain(newTestOffline(), failing)
	out := chain.Match(context.Background(), testRequest())

	if out.Attempt.Tier != "offline" {
		t.Fatalf("tier = %q, want offline", out.Attempt.Tier)
	}
	if out.Attempt.Confidence != offlineConfidence {
		t.Errorf("confidence = %f, want %f", out.Attempt.Confidence, offlineConfidence)
	}
	if out.Result.OverallScore <= 0 {
		t.Errorf("offline score = %f, want > 0", out.Result.OverallScore)
	}
}

func TestChainNoTiersRunsOffline(t *testing.T) {
	chain := NewChain(newTestOffline())
	out := chain.Match(context.Background(), testRequest())
	if out.Attempt.Tier != "offline" {
		t.Fatalf("tier = %q, want offline", out.Attempt.Tier)
	}
}

func TestChainUnavailableSkipsRetries(t *testing.T) {
	unavailable := &stubTier{
		name: "openai",
		errs: []error{fmt.Errorf("%w: openai is not configured", ErrUnavailable)},
	}

	chain := NewChain(newTestOffline(), unavailable).WithRetryPolicy(3, time.Millisecond)
	out := chain.Match(context.Background(), testRequest())

	if unavailable.calls != 1 {
		t.Fatalf("unavailable tier called %d times, want 1", unavailable.calls)
	}
	if out.Attempt.Tier != "offline" {
		t.Errorf("tier = %q, want offline", out.Attempt.Tier)
	}
}

func TestChainRetriesTransientThenSucceeds(t *testing.T) {
	flaky := &stubTier{
		name:   "deepseek",
		errs:   []error{errors.New("http status 503 from upstream"), ErrTimeout},
		result: match.Result{OverallScore: 72},
	}

	chain := NewChain(newTestOffline(), flaky).WithRetryPolicy(3, time.Millisecond)
	out := chain.Match(context.Background(), testRequest())

	if flaky.calls != 3 {
		t.Fatalf("flaky tier called %d times, want 3", flaky.calls)
	}
	if out.Attempt.Tier != "deepseek" {
		t.Errorf("tier = %q, want deepseek", out.Attempt.Tier)
	}
	if out.Result.OverallScore != 72 {
		t.Errorf("score = %f, want 72", out.Result.OverallScore)
	}
}

func TestChainRetryBudgetExhausted(t *testing.T) {
	flaky := &stubTier{
		name: "deepseek",
		errs: []error{ErrTimeout, ErrTimeout, ErrTimeout},
	}

	chain := NewChain(newTestOffline(), flaky).WithRetryPolicy(3, time.Millisecond)
	out := chain.Match(context.Background(), testRequest())

	if flaky.calls != 3 {
		t.Fatalf("flaky tier called %d times, want 3", flaky.calls)
	}
	if out.Attempt.Tier != "offline" {
		t.Errorf("tier = %q, want offline", out.Attempt.Tier)
	}
}

func TestChainNonTransientFailsFast(t *testing.T) {
	broken := &stubTier{
		name: "gemini",
		errs: []error{errors.New("decode model response: invalid character")},
	}

	chain := NewChain(newTestOffline(), broken).WithRetryPolicy(3, time.Millisecond)
	chain.Match(context.Background(), testRequest())

	if broken.calls != 1 {
		t.Fatalf("broken tier called %d times, want 1", broken.calls)
	}
}

func TestChainExpiredContextDropsToOffline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	first := &stubTier{name: "gemini", errs: []error{ErrTimeout, ErrTimeout, ErrTimeout}}
	second := &stubTier{name: "openai", result: match.Result{OverallScore: 90}}

	chain := NewChain(newTestOffline(), first, second).WithRetryPolicy(3, time.Millisecond)
	out := chain.Match(ctx, testRequest())

	if out.Attempt.Tier != "offline" {
		t.Fatalf("tier = %q, want offline", out.Attempt.Tier)
	}
	if second.calls != 0 {
		t.Errorf("second tier called %d times after deadline, want 0", second.calls)
	}
}

func TestShouldRetryTaxonomy(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrUnavailable, false},
		{fmt.Errorf("wrap: %w", ErrUnavailable), false},
		{ErrTimeout, true},
		{context.DeadlineExceeded, true},
		{errors.New("http status 502 from https://api.openai.com/v1"), true},
		{errors.New("read tcp: connection reset by peer"), true},
		{errors.New("Post \"x\": net/http: TLS handshake timeout"), true},
		{errors.New("decode model response: unexpected token"), false},
		{errors.New("chat api error: invalid api key (auth_error)"), false},
	}
	for _, tc := range cases {
		if got := shouldRetry(tc.err); got != tc.want {
			t.Errorf("shouldRetry(%v) = %v, want %v", tc.err, got, tc.want)
		}
	}
}
