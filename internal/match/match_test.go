package match

import (
	"reflect"
	"testing"

	"match-engine/internal/lexicon"
)

func newTestAggregator() *Aggregator {
	return NewAggregator(lexicon.Default())
}

func TestCombineScoresFixedWeighting(t *testing.T) {
	if got := CombineScores(80.0, 50.0); got != 71.0 {
		t.Fatalf("expected round(80*0.7+50*0.3,2) = 71.0, got %f", got)
	}
	if got := CombineScores(0, 0); got != 0 {
		t.Fatalf("expected 0, got %f", got)
	}
	if got := CombineScores(100, 100); got != 100 {
		t.Fatalf("expected 100, got %f", got)
	}
}

func TestAggregateEndToEnd(t *testing.T) {
	agg := newTestAggregator()
	resume := "Experienced Python developer with 6 years building Django and PostgreSQL backends on AWS"
	resumeSkills := []string{"python", "django", "postgresql", "aws"}
	job := "We need a backend developer for our Django stack"
	required := []string{"python", "django", "postgresql", "aws", "docker"}

	res := agg.Aggregate(resume, resumeSkills, job, required)

	wantMatched := []string{"aws", "django", "postgresql", "python"}
	if !reflect.DeepEqual(res.MatchedSkills, wantMatched) {
		t.Fatalf("matched: expected %v, got %v", wantMatched, res.MatchedSkills)
	}
	if !reflect.DeepEqual(res.MissingSkills, []string{"docker"}) {
		t.Fatalf("missing: expected [docker], got %v", res.MissingSkills)
	}
	if res.SkillOverlapRatio != 80.0 {
		t.Fatalf("overlap: expected 80.0, got %f", res.SkillOverlapRatio)
	}
	if res.OverallScore < 0 || res.OverallScore > 100 {
		t.Fatalf("overall score out of range: %f", res.OverallScore)
	}
	if res.Explanation == "" {
		t.Fatal("expected an explanation")
	}
}

func TestAggregateInvariants(t *testing.T) {
	agg := newTestAggregator()
	resumeSkills := []string{"go", "docker", "redis"}
	required := []string{"go", "kubernetes", "docker", "terraform"}

	res := agg.Aggregate("Go developer using Docker and Redis", resumeSkills, "job", required)

	resumeSet := toSet(resumeSkills)
	requiredSet := toSet(required)
	for _, s := range res.MatchedSkills {
		if !resumeSet[s] {
			t.Fatalf("matched skill %q not in resume skills", s)
		}
		if !requiredSet[s] {
			t.Fatalf("matched skill %q not in required skills", s)
		}
	}
	missingSet := toSet(res.MissingSkills)
	for _, s := range required {
		matched := false
		for _, m := range res.MatchedSkills {
			if m == s {
				matched = true
			}
		}
		if matched == missingSet[s] {
			t.Fatalf("skill %q must be exactly one of matched or missing", s)
		}
	}
	if res.OverallScore < 0 || res.OverallScore > 100 {
		t.Fatalf("overall score out of range: %f", res.OverallScore)
	}
}

func TestAggregateRequiredSkillsDerivedFromJobText(t *testing.T) {
	agg := newTestAggregator()
	res := agg.Aggregate(
		"Python and Django developer",
		[]string{"python", "django"},
		"Looking for Python engineers with Kubernetes experience",
		nil,
	)
	if !toSet(res.MatchedSkills)["python"] {
		t.Fatalf("expected python matched from scanned job text, got %v", res.MatchedSkills)
	}
	if !toSet(res.MissingSkills)["kubernetes"] {
		t.Fatalf("expected kubernetes missing, got %v", res.MissingSkills)
	}
}

func TestAggregateEmptyResumeSkillsFallsBackToResumeText(t *testing.T) {
	agg := newTestAggregator()
	res := agg.Aggregate(
		"Shipped Python services and Django apps for five years",
		nil,
		"job",
		[]string{"python", "django", "go"},
	)
	if !toSet(res.MatchedSkills)["python"] || !toSet(res.MatchedSkills)["django"] {
		t.Fatalf("expected python and django matched from resume text, got %v", res.MatchedSkills)
	}
	if !toSet(res.MissingSkills)["go"] {
		t.Fatalf("expected go missing, got %v", res.MissingSkills)
	}

	// A declared skill list wins over the text: skills not on it stay
	// missing even when the text mentions them.
	res = agg.Aggregate(
		"Shipped Python services and Django apps",
		[]string{"python"},
		"job",
		[]string{"python", "django"},
	)
	if toSet(res.MatchedSkills)["django"] {
		t.Fatalf("django must not match outside the declared skill list, got %v", res.MatchedSkills)
	}
}

func TestAggregateZeroRequiredSkillsNeutralDefault(t *testing.T) {
	agg := newTestAggregator()
	// Job text with no lexicon skills and no declared requirements: the
	// overlap ratio takes its neutral default of 0 and the overall score is
	// similarity-only.
	res := agg.Aggregate("some resume text", nil, "we hire nice people", nil)
	if res.SkillOverlapRatio != 0 {
		t.Fatalf("neutral overlap must be 0, got %f", res.SkillOverlapRatio)
	}
	if res.OverallScore != CombineScores(res.LexicalSimilarity, 0) {
		t.Fatalf("overall must be similarity-only, got %f", res.OverallScore)
	}
	if len(res.MatchedSkills) != 0 || len(res.MissingSkills) != 0 {
		t.Fatalf("no skills expected, got %v / %v", res.MatchedSkills, res.MissingSkills)
	}
}

func TestAggregateEmptyInputsNeverFail(t *testing.T) {
	agg := newTestAggregator()
	res := agg.Aggregate("", nil, "", nil)
	if res.OverallScore != 0 || res.LexicalSimilarity != 0 {
		t.Fatalf("empty inputs must degrade to zero scores, got %+v", res)
	}
}

func TestAggregateSkillMatchIsCaseInsensitive(t *testing.T) {
	agg := newTestAggregator()
	res := agg.Aggregate("resume", []string{"Python", "AWS"}, "job", []string{"python", "aws"})
	if res.SkillOverlapRatio != 100.0 {
		t.Fatalf("expected full overlap, got %f", res.SkillOverlapRatio)
	}
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, s := range items {
		out[s] = true
	}
	return out
}
