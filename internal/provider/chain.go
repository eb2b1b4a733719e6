package provider

import (
	"context"
	"time"

	"match-engine/internal/match"
	"match-engine/internal/shared/metrics"
	"match-engine/internal/shared/telemetry"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 300 * time.Millisecond
)

// Chain walks an ordered list of remote tiers and falls back to the offline
// tier, which is never skippable and never fails. The first tier to succeed
// wins; every failure mode (error, timeout, malformed response, exhausted
// deadline) advances the chain instead of surfacing to the caller.
type Chain struct {
	tiers       []Tier
	offline     *Offline
	maxAttempts int
	baseDelay   time.Duration
}

// NewChain builds a chain over the given remote tiers, in priority order.
// Unconfigured callers may pass no tiers at all; the offline tier alone is a
// valid chain.
func NewChain(offline *Offline, tiers ...Tier) *Chain {
	return &Chain{
		tiers:       tiers,
		offline:     offline,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
	}
}

// WithRetryPolicy overrides the per-tier attempt budget and initial backoff
// delay. Values below 1 attempt are clamped; a non-positive delay keeps the
// default.
func (c *Chain) WithRetryPolicy(maxAttempts int, baseDelay time.Duration) *Chain {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	c.maxAttempts = maxAttempts
	if baseDelay > 0 {
		c.baseDelay = baseDelay
	}
	return c
}

// Match runs the request through the chain and always produces an outcome.
// The caller-supplied context bounds the remote tiers; once it expires the
// chain drops straight to the offline tier, which needs no deadline.
func (c *Chain) Match(ctx context.Context, req MatchRequest) Outcome {
	for _, tier := range c.tiers {
		result, err := c.attemptTier(ctx, tier, req)
		if err == nil {
			return Outcome{
				Result:  result,
				Attempt: Attempt{Tier: tier.Name(), Confidence: tier.Confidence()},
			}
		}
		metrics.IncTierFallback()
		telemetry.Info("provider.fallback", map[string]any{
			"tier":  tier.Name(),
			"error": err.Error(),
		})
		if ctx.Err() != nil {
			break
		}
	}

	result, _ := c.offline.Match(ctx, req)
	return Outcome{
		Result:  result,
		Attempt: Attempt{Tier: c.offline.Name(), Confidence: c.offline.Confidence()},
	}
}

// attemptTier runs one tier with bounded retries and exponential backoff.
// Only transient-looking failures are retried; unavailable or misconfigured
// tiers fail fast.
func (c *Chain) attemptTier(ctx context.Context, tier Tier, req MatchRequest) (result match.Result, err error) {
	delay := c.baseDelay
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if lastErr != nil {
				return result, lastErr
			}
			return result, ctxErr
		}

		res, tierErr := tier.Match(ctx, req)
		if tierErr == nil {
			return res, nil
		}
		lastErr = tierErr
		if !shouldRetry(tierErr) {
			return result, tierErr
		}
		if attempt == c.maxAttempts {
			break
		}

		telemetry.Info("provider.retry", map[string]any{
			"tier":    tier.Name(),
			"attempt": attempt,
			"error":   tierErr.Error(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return result, lastErr
		}
		delay *= 2
	}
	return result, lastErr
}
