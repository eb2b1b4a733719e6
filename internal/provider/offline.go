package provider

import (
	"context"

	"match-engine/internal/match"
	"match-engine/internal/profile"
)

const (
	offlineTierName   = "offline"
	offlineConfidence = 0.8
	remoteConfidence  = 0.9
)

// Offline is the deterministic terminal tier: entity extraction plus the
// similarity scorer and aggregator. It has no external dependency and never
// fails, which is what lets the chain guarantee a result.
type Offline struct {
	extractor  *profile.Extractor
	aggregator *match.Aggregator
}

// NewOffline constructs the offline tier.
func NewOffline(extractor *profile.Extractor, aggregator *match.Aggregator) *Offline {
	return &Offline{extractor: extractor, aggregator: aggregator}
}

// Name implements Tier.
func (o *Offline) Name() string { return offlineTierName }

// Confidence implements Tier.
func (o *Offline) Confidence() float64 { return offlineConfidence }

// Match implements Tier. The error is always nil; the signature exists so
// the offline tier can stand in anywhere a Tier is expected.
func (o *Offline) Match(_ context.Context, req MatchRequest) (match.Result, error) {
	skills := req.ResumeSkills
	if len(skills) == 0 {
		skills = o.extractor.Skills(req.ResumeText)
	}
	return o.aggregator.Aggregate(req.ResumeText, skills, req.JobText, req.RequiredSkills), nil
}
