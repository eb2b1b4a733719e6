package matching

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"match-engine/internal/extract"
	"match-engine/internal/match"
	"match-engine/internal/profile"
	"match-engine/internal/provider"
	"match-engine/internal/shared/metrics"
)

const defaultBatchWorkers = 4

// Service glues document extraction, profile building and the provider
// chain into the operations the handlers expose.
type Service struct {
	extractor    *profile.Extractor
	chain        *provider.Chain
	offline      *provider.Offline
	timeout      time.Duration
	batchWorkers int
}

// NewService constructs a Service. timeout bounds a single chain run; zero
// means the caller's context is used as-is.
func NewService(extractor *profile.Extractor, chain *provider.Chain, offline *provider.Offline, timeout time.Duration) *Service {
	return &Service{
		extractor:    extractor,
		chain:        chain,
		offline:      offline,
		timeout:      timeout,
		batchWorkers: defaultBatchWorkers,
	}
}

// ExtractProfile converts a raw document into a structured candidate profile.
func (s *Service) ExtractProfile(data []byte, format string) (profile.Profile, error) {
	text, err := extract.Text(data, format)
	if err != nil {
		metrics.IncExtractFailed()
		return profile.Profile{}, fmt.Errorf("extract document: %w", err)
	}
	return s.extractor.Extract(text), nil
}

// Match runs the provider chain for one resume/job pair. It always returns
// a usable outcome; the offline tier is the floor.
func (s *Service) Match(ctx context.Context, req provider.MatchRequest) provider.Outcome {
	metrics.IncMatchStarted()
	start := time.Now()

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	out := s.chain.Match(ctx, req)

	metrics.IncMatchCompleted()
	metrics.ObserveMatchDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	return out
}

// BatchResume is one resume in a batch ranking request.
type BatchResume struct {
	ID           string   `json:"id"`
	ResumeText   string   `json:"resumeText"`
	ResumeSkills []string `json:"resumeSkills"`
}

// BatchItem is one ranked entry in a batch response. Entries are ordered by
// score descending; Rank is 1-based.
type BatchItem struct {
	ID     string       `json:"id"`
	Rank   int          `json:"rank"`
	Result match.Result `json:"result"`
}

// BatchMatch scores many resumes against one job using the offline pipeline
// and returns them ranked by overall score. Items are scored independently
// on a bounded worker pool; one bad resume never poisons the batch.
func (s *Service) BatchMatch(ctx context.Context, resumes []BatchResume, jobText string, requiredSkills []string) []BatchItem {
	items := make([]BatchItem, len(resumes))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.batchWorkers)
	for i, r := range resumes {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, r BatchResume) {
			defer wg.Done()
			defer func() { <-sem }()
			result, _ := s.offline.Match(ctx, provider.MatchRequest{
				ResumeText:     r.ResumeText,
				ResumeSkills:   r.ResumeSkills,
				JobText:        jobText,
				RequiredSkills: requiredSkills,
			})
			items[i] = BatchItem{ID: r.ID, Result: result}
		}(i, r)
	}
	wg.Wait()

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Result.OverallScore > items[b].Result.OverallScore
	})
	for i := range items {
		items[i].Rank = i + 1
	}
	return items
}
