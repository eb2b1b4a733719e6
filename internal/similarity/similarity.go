package similarity

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

const maxVocabulary = 5000

// Score computes the lexical similarity between two texts as a percentage in
// [0,100]. It builds a TF-IDF vector space over the two-document corpus using
// unigrams and bigrams with English stop-words removed, then takes the cosine
// between the two vectors. The vector space is local to the call; nothing is
// cached across calls.
//
// If either text is empty after tokenization (including stop-word-only
// input), the score is 0 rather than a division by zero.
func Score(a, b string) float64 {
	termsA := ngrams(tokenize(a))
	termsB := ngrams(tokenize(b))
	if len(termsA) == 0 || len(termsB) == 0 {
		return 0
	}

	countsA := termCounts(termsA)
	countsB := termCounts(termsB)
	vocab := buildVocabulary(countsA, countsB)
	if len(vocab) == 0 {
		return 0
	}

	vecA := vectorize(countsA, countsB, vocab, true)
	vecB := vectorize(countsA, countsB, vocab, false)

	cos := cosine(vecA, vecB)
	pct := cos * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// tokenize lowercases the text and splits it into alphanumeric tokens,
// dropping stop-words and single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 {
			continue
		}
		if stopWords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// ngrams expands a token sequence into unigrams plus adjacent bigrams.
func ngrams(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens)*2-1)
	out = append(out, tokens...)
	for i := 0; i+1 < len(tokens); i++ {
		out = append(out, tokens[i]+" "+tokens[i+1])
	}
	return out
}

func termCounts(terms []string) map[string]int {
	counts := make(map[string]int, len(terms))
	for _, t := range terms {
		counts[t]++
	}
	return counts
}

// buildVocabulary unions both documents' terms, capped at maxVocabulary by
// total frequency (ties alphabetical) so the result is deterministic.
func buildVocabulary(countsA, countsB map[string]int) []string {
	totals := make(map[string]int, len(countsA)+len(countsB))
	for t, n := range countsA {
		totals[t] += n
	}
	for t, n := range countsB {
		totals[t] += n
	}
	vocab := make([]string, 0, len(totals))
	for t := range totals {
		vocab = append(vocab, t)
	}
	sort.Slice(vocab, func(i, j int) bool {
		if totals[vocab[i]] != totals[vocab[j]] {
			return totals[vocab[i]] > totals[vocab[j]]
		}
		return vocab[i] < vocab[j]
	})
	if len(vocab) > maxVocabulary {
		vocab = vocab[:maxVocabulary]
	}
	return vocab
}

// vectorize computes the L2-normalized TF-IDF weights for one document of
// the two-document corpus, using smoothed inverse document frequency.
func vectorize(countsA, countsB map[string]int, vocab []string, first bool) []float64 {
	counts := countsA
	if !first {
		counts = countsB
	}
	const docs = 2.0
	vec := make([]float64, len(vocab))
	for i, term := range vocab {
		tf := float64(counts[term])
		if tf == 0 {
			continue
		}
		df := 0.0
		if countsA[term] > 0 {
			df++
		}
		if countsB[term] > 0 {
			df++
		}
		idf := math.Log((1+docs)/(1+df)) + 1
		vec[i] = tf * idf
	}
	normalize(vec)
	return vec
}

func normalize(vec []float64) {
	var sum float64
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] /= norm
	}
}

func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}
