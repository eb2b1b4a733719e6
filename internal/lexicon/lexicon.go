package lexicon

import (
	"regexp"
	"sort"
	"strings"
)

// Category groups related skill phrases.
type Category string

const (
	CategoryLanguages   Category = "languages"
	CategoryFrameworks  Category = "frameworks"
	CategoryDatabases   Category = "databases"
	CategoryCloud       Category = "cloud"
	CategoryDevOps      Category = "devops"
	CategoryDataScience Category = "data-science"
	CategoryMobile      Category = "mobile"
	CategoryMethodology Category = "methodology"
)

// Lexicon is an immutable catalog of known skill phrases with precompiled
// whole-phrase matchers. Build it once at startup; it is safe for concurrent
// readers.
type Lexicon struct {
	categories map[Category][]string
	matchers   map[string]*regexp.Regexp
	phrases    []string
}

var defaultCategories = map[Category][]string{
	CategoryLanguages: {
		"python", "javascript", "typescript", "java", "c++", "c#", "php",
		"ruby", "go", "rust", "swift", "kotlin", "scala", "r", "matlab",
		"perl", "bash",
	},
	CategoryFrameworks: {
		"react", "angular", "vue", "django", "flask", "fastapi", "spring",
		"express", "laravel", "rails", "asp.net", "nextjs",
	},
	CategoryDatabases: {
		"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "oracle",
		"sqlite", "cassandra", "dynamodb", "neo4j", "sql",
	},
	CategoryCloud: {
		"aws", "azure", "gcp", "google cloud", "heroku", "vercel", "netlify",
		"firebase",
	},
	CategoryDevOps: {
		"docker", "kubernetes", "jenkins", "terraform", "ansible", "git",
		"gitlab", "github actions", "linux", "ci/cd",
	},
	CategoryDataScience: {
		"machine learning", "deep learning", "data science", "pandas",
		"numpy", "tensorflow", "pytorch", "scikit-learn", "jupyter",
		"tableau", "power bi",
	},
	CategoryMobile: {
		"android", "ios", "react native", "flutter", "xamarin", "ionic",
	},
	CategoryMethodology: {
		"agile", "scrum", "microservices", "rest", "graphql", "api",
		"unit testing", "tdd",
	},
}

// Default builds the lexicon from the built-in skill catalog.
func Default() *Lexicon {
	return New(defaultCategories)
}

// New builds a lexicon from the given category map. Phrases are lowercased
// and deduplicated across categories.
func New(categories map[Category][]string) *Lexicon {
	lex := &Lexicon{
		categories: make(map[Category][]string, len(categories)),
		matchers:   make(map[string]*regexp.Regexp),
	}
	for cat, phrases := range categories {
		kept := make([]string, 0, len(phrases))
		for _, phrase := range phrases {
			p := strings.ToLower(strings.TrimSpace(phrase))
			if p == "" {
				continue
			}
			kept = append(kept, p)
			if _, ok := lex.matchers[p]; ok {
				continue
			}
			lex.matchers[p] = compilePhrase(p)
			lex.phrases = append(lex.phrases, p)
		}
		lex.categories[cat] = kept
	}
	sort.Strings(lex.phrases)
	return lex
}

// compilePhrase builds a whole-phrase matcher. RE2 has no lookaround, so the
// boundary is an explicit non-alphanumeric (or string edge) on both sides.
// This keeps "go" from matching inside "going" while still matching phrases
// like "c++" that \b would reject.
func compilePhrase(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^a-z0-9])(` + regexp.QuoteMeta(phrase) + `)(?:[^a-z0-9]|$)`)
}

// Contains reports whether the exact phrase is in the lexicon.
// Matching is case-insensitive.
func (l *Lexicon) Contains(phrase string) bool {
	_, ok := l.matchers[strings.ToLower(strings.TrimSpace(phrase))]
	return ok
}

// Phrases returns all known phrases in alphabetical order.
func (l *Lexicon) Phrases() []string {
	out := make([]string, len(l.phrases))
	copy(out, l.phrases)
	return out
}

// Category returns the phrases registered under the given category.
func (l *Lexicon) Category(cat Category) []string {
	phrases := l.categories[cat]
	out := make([]string, len(phrases))
	copy(out, phrases)
	return out
}

// Scan returns every lexicon phrase present in the text as a whole phrase,
// ordered by first occurrence (ties alphabetical). The result is
// deterministic for a given text.
func (l *Lexicon) Scan(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lowered := strings.ToLower(text)

	type hit struct {
		phrase string
		pos    int
	}
	hits := make([]hit, 0, 16)
	for _, phrase := range l.phrases {
		loc := l.matchers[phrase].FindStringSubmatchIndex(lowered)
		if loc == nil {
			continue
		}
		hits = append(hits, hit{phrase: phrase, pos: loc[2]})
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].phrase < hits[j].phrase
	})
	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.phrase)
	}
	return out
}

// MatchesIn reports whether the phrase occurs in the text as a whole phrase,
// regardless of lexicon membership.
func (l *Lexicon) MatchesIn(phrase, text string) bool {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return false
	}
	re, ok := l.matchers[p]
	if !ok {
		re = compilePhrase(p)
	}
	return re.MatchString(strings.ToLower(text))
}
