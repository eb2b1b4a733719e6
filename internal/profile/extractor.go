package profile

import (
	"regexp"
	"strconv"
	"strings"

	"match-engine/internal/lexicon"
)

const (
	maxExperienceYears = 30
	maxHeuristicYears  = 15
	maxEducation       = 5
	maxCertifications  = 5
)

// Ordered by priority: the first pattern with a parseable integer wins,
// regardless of where later patterns would match in the text.
var experiencePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)\+?\s*years?\s*(?:of\s*)?experience`),
	regexp.MustCompile(`(\d+)\+?\s*years?\s+in\b`),
	regexp.MustCompile(`experience\s*[:\-]\s*(\d+)\+?\s*years?`),
	regexp.MustCompile(`over\s+(\d+)\s+years?`),
	regexp.MustCompile(`more\s+than\s+(\d+)\s+years?`),
}

// Job-title keywords for the experience fallback heuristic. Deliberately
// excludes seniority qualifiers (senior, lead, junior) so a single title
// counts once.
var jobTitlePattern = regexp.MustCompile(`\b(engineer|developer|programmer|architect|analyst|manager|director|specialist|consultant|administrator)\b`)

var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`bachelor(?:'s)?(?:\s+(?:of\s+)?(?:science|arts|engineering|business))?[^\n]*`),
	regexp.MustCompile(`master(?:'s)?(?:\s+(?:of\s+)?(?:science|arts|engineering|business))?[^\n]*`),
	regexp.MustCompile(`(?:phd|doctorate|doctoral)[^\n]*`),
	regexp.MustCompile(`mba[^\n]*`),
	regexp.MustCompile(`associate(?:'s)?\s+degree[^\n]*`),
	regexp.MustCompile(`diploma[^\n]*`),
}

var institutionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`university\s+of\s+[^\n,.]+`),
	regexp.MustCompile(`[^\s][^\n,.]*\s+university`),
	regexp.MustCompile(`[^\s][^\n,.]*\s+college`),
	regexp.MustCompile(`[^\s][^\n,.]*\s+institute`),
}

var certificationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:aws|microsoft|google|cisco)\s+certified[^\n,.]*`),
	regexp.MustCompile(`certified\s+[^\n,.]+`),
	regexp.MustCompile(`certification\s+in\s+[^\n,.]+`),
	regexp.MustCompile(`pmp\s+certified`),
	regexp.MustCompile(`scrum\s+master\s+certified`),
}

var (
	emailPattern    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern    = regexp.MustCompile(`\+?1?[-.\s]?\(?(\d{3})\)?[-.\s]?(\d{3})[-.\s]?(\d{4})\b`)
	linkedinPattern = regexp.MustCompile(`linkedin\.com/in/([A-Za-z0-9\-]+)`)
	githubPattern   = regexp.MustCompile(`github\.com/([A-Za-z0-9\-]+)`)
)

// Extractor applies pattern-based rules over normalized text. It holds only
// the read-only lexicon, so one instance serves any number of concurrent
// callers.
type Extractor struct {
	lex *lexicon.Lexicon
}

// NewExtractor constructs an Extractor over the given lexicon.
func NewExtractor(lex *lexicon.Lexicon) *Extractor {
	return &Extractor{lex: lex}
}

// Extract pulls skills, experience, education, certifications and contact
// details out of the text. Malformed or empty input yields a Profile with
// all-default fields; this function never fails.
func (e *Extractor) Extract(text string) Profile {
	lowered := strings.ToLower(text)

	p := Profile{
		Skills:          e.lex.Scan(text),
		ExperienceYears: extractExperienceYears(lowered),
		Education:       extractBounded(lowered, degreePatterns, institutionPatterns, maxEducation),
		Certifications:  extractBounded(lowered, certificationPatterns, nil, maxCertifications),
		Contact:         extractContact(text),
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Education == nil {
		p.Education = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	p.Summary = e.buildSummary(p)
	p.Strengths = buildStrengths(p)
	p.Recommendations = buildRecommendations(p)
	return p
}

// Skills runs only the lexicon scan, used for deriving a job's required
// skills from its description.
func (e *Extractor) Skills(text string) []string {
	return e.lex.Scan(text)
}

func extractExperienceYears(lowered string) int {
	for _, pattern := range experiencePatterns {
		m := pattern.FindStringSubmatch(lowered)
		if m == nil {
			continue
		}
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if years < 0 {
			continue
		}
		if years > maxExperienceYears {
			return maxExperienceYears
		}
		return years
	}

	// Crude fallback: two years per job-title mention. Callers must treat
	// this as a heuristic, not a precise signal.
	hits := len(jobTitlePattern.FindAllString(lowered, -1))
	if hits*2 > maxHeuristicYears {
		return maxHeuristicYears
	}
	return hits * 2
}

func extractBounded(lowered string, primary, secondary []*regexp.Regexp, limit int) []string {
	var out []string
	seen := make(map[string]bool)

	collect := func(patterns []*regexp.Regexp) {
		for _, pattern := range patterns {
			for _, m := range pattern.FindAllString(lowered, -1) {
				entry := titleCase(strings.TrimSpace(m))
				if entry == "" || seen[entry] {
					continue
				}
				seen[entry] = true
				out = append(out, entry)
				if len(out) >= limit {
					return
				}
			}
			if len(out) >= limit {
				return
			}
		}
	}

	collect(primary)
	if len(out) < limit && secondary != nil {
		collect(secondary)
	}
	return out
}

func extractContact(text string) Contact {
	var c Contact
	if m := emailPattern.FindString(text); m != "" {
		c.Email = m
	}
	if m := phonePattern.FindStringSubmatch(text); m != nil {
		c.Phone = "(" + m[1] + ") " + m[2] + "-" + m[3]
	}
	lowered := strings.ToLower(text)
	if m := linkedinPattern.FindStringSubmatch(lowered); m != nil {
		c.LinkedIn = "linkedin.com/in/" + m[1]
	}
	if m := githubPattern.FindStringSubmatch(lowered); m != nil {
		c.GitHub = "github.com/" + m[1]
	}
	return c
}

// titleCase uppercases the first letter of each word. The matched substrings
// are lowercase, so this restores a readable casing for display.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 && r[0] >= 'a' && r[0] <= 'z' {
			r[0] = r[0] - 'a' + 'A'
			words[i] = string(r)
		}
	}
	return strings.Join(words, " ")
}

func (e *Extractor) buildSummary(p Profile) string {
	area := e.primaryArea(p.Skills)
	var parts []string
	if p.ExperienceYears > 0 {
		parts = append(parts, strconv.Itoa(p.ExperienceYears)+" years of experience")
	}
	if len(p.Skills) > 0 {
		top := p.Skills
		if len(top) > 3 {
			top = top[:3]
		}
		parts = append(parts, "skilled in "+strings.Join(top, ", "))
	}
	if len(p.Education) > 0 {
		parts = append(parts, "with relevant educational background")
	}
	if len(parts) == 0 {
		return "Candidate in " + area + "."
	}
	return "Candidate with " + strings.Join(parts, ", ") + " in " + area + "."
}

// primaryArea labels the candidate's field from the lexicon category of
// their skills. Data science wins over web wins over mobile when skills span
// categories.
func (e *Extractor) primaryArea(skills []string) string {
	switch {
	case e.anySkillIn(skills, lexicon.CategoryDataScience):
		return "Data Science"
	case e.anySkillIn(skills, lexicon.CategoryFrameworks):
		return "Web Development"
	case e.anySkillIn(skills, lexicon.CategoryMobile):
		return "Mobile Development"
	default:
		return "Technology"
	}
}

func (e *Extractor) anySkillIn(skills []string, cat lexicon.Category) bool {
	members := make(map[string]bool)
	for _, phrase := range e.lex.Category(cat) {
		members[phrase] = true
	}
	for _, s := range skills {
		if members[s] {
			return true
		}
	}
	return false
}

const maxRecommendations = 5

// buildRecommendations produces screening guidance for a recruiter from the
// extracted signals, most specific first, capped at five entries.
func buildRecommendations(p Profile) []string {
	recs := make([]string, 0, maxRecommendations)
	switch {
	case p.ExperienceYears < 2:
		recs = append(recs, "Junior level - may need mentoring")
	case p.ExperienceYears > 10:
		recs = append(recs, "Senior level - good for leadership roles")
	}
	if len(p.Skills) < 5 {
		recs = append(recs, "Limited technical skills listed - verify in interview")
	}
	recs = append(recs,
		"Verify technical skills through practical assessment",
		"Check cultural fit and communication skills",
		"Validate experience claims with references",
	)
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

func buildStrengths(p Profile) []string {
	strengths := make([]string, 0, 5)
	switch {
	case p.ExperienceYears >= 5:
		strengths = append(strengths, "Experienced professional")
	case p.ExperienceYears >= 2:
		strengths = append(strengths, "Mid-level experience")
	}
	switch {
	case len(p.Skills) >= 10:
		strengths = append(strengths, "Diverse technical skill set")
	case len(p.Skills) >= 5:
		strengths = append(strengths, "Good technical foundation")
	}
	for _, edu := range p.Education {
		low := strings.ToLower(edu)
		if strings.Contains(low, "master") || strings.Contains(low, "phd") || strings.Contains(low, "doctorate") {
			strengths = append(strengths, "Advanced education")
			break
		}
		if strings.Contains(low, "bachelor") {
			strengths = append(strengths, "Strong educational foundation")
			break
		}
	}
	return strengths
}
