package match

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"match-engine/internal/lexicon"
	"match-engine/internal/similarity"
)

// Weighting of the overall score. Fixed design constants; expected outputs
// depend on them being exactly 70/30.
const (
	similarityWeight = 0.7
	overlapWeight    = 0.3
)

// Result is the explainable compatibility score for one (resume, job) pair.
// It is computed fresh per request and never persisted here.
type Result struct {
	OverallScore      float64  `json:"overallScore"`
	LexicalSimilarity float64  `json:"lexicalSimilarity"`
	SkillOverlapRatio float64  `json:"skillOverlapRatio"`
	MatchedSkills     []string `json:"matchedSkills"`
	MissingSkills     []string `json:"missingSkills"`
	Explanation       string   `json:"explanation"`
}

// Aggregator combines entity extraction output with lexical similarity into
// one Result. It is stateless apart from the read-only lexicon and is safe
// for concurrent use.
type Aggregator struct {
	lex *lexicon.Lexicon
}

// NewAggregator constructs an Aggregator over the given lexicon.
func NewAggregator(lex *lexicon.Lexicon) *Aggregator {
	return &Aggregator{lex: lex}
}

// Aggregate scores a resume against a job. requiredSkills is the job's
// declared skill list; when empty, the required set is derived by scanning
// the job text against the lexicon. Likewise an empty resumeSkills list is
// backed by whole-phrase lookups of each required skill in the resume text.
// A job with no required skills at all
// gets a neutral overlap ratio of 0, making the overall score
// similarity-only. This function never fails for well-formed inputs: an
// internal similarity failure degrades to 0 similarity.
func (a *Aggregator) Aggregate(resumeText string, resumeSkills []string, jobText string, requiredSkills []string) Result {
	required := normalizeSkills(requiredSkills)
	if len(required) == 0 {
		required = a.lex.Scan(jobText)
	}

	resumeSet := make(map[string]bool, len(resumeSkills))
	for _, s := range normalizeSkills(resumeSkills) {
		resumeSet[s] = true
	}

	// With no declared resume skills, fall back to a whole-phrase check of
	// each required skill against the resume text itself.
	matched := make([]string, 0, len(required))
	missing := make([]string, 0, len(required))
	for _, skill := range required {
		hit := resumeSet[skill]
		if !hit && len(resumeSet) == 0 {
			hit = a.lex.MatchesIn(skill, resumeText)
		}
		if hit {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	overlap := 0.0
	if len(required) > 0 {
		overlap = 100 * float64(len(matched)) / float64(len(required))
	}

	sim := safeSimilarity(resumeText, jobText)

	result := Result{
		OverallScore:      CombineScores(sim, overlap),
		LexicalSimilarity: round2(sim),
		SkillOverlapRatio: round2(overlap),
		MatchedSkills:     matched,
		MissingSkills:     missing,
	}
	result.Explanation = fmt.Sprintf(
		"Found %d matching skills out of %d required skills. Lexical similarity: %.1f%%.",
		len(matched), len(required), result.LexicalSimilarity,
	)
	return result
}

// CombineScores applies the fixed 70/30 weighting and rounds to two
// decimals.
func CombineScores(lexicalSimilarity, skillOverlapRatio float64) float64 {
	return round2(lexicalSimilarity*similarityWeight + skillOverlapRatio*overlapWeight)
}

// safeSimilarity shields the aggregator from scorer panics: a degraded match
// result is preferable to no result when ranking many candidates.
func safeSimilarity(resumeText, jobText string) (score float64) {
	defer func() {
		if recover() != nil {
			score = 0
		}
	}()
	return similarity.Score(resumeText, jobText)
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := make(map[string]bool, len(skills))
	for _, s := range skills {
		clean := strings.ToLower(strings.TrimSpace(s))
		if clean == "" || seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, clean)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
