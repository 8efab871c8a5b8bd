package search

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Pattern is a query prepared for repeated matching.
type Pattern struct {
	full   string
	tokens []string
}

// Empty reports whether no token survived the minimum length cut, in which
// case the pattern cannot match anything.
func (p Pattern) Empty() bool {
	return len(p.tokens) == 0
}

// Matcher scores approximate, case-insensitive, location-independent
// occurrences of a pattern in a text.
type Matcher struct {
	threshold          float64
	minMatchCharLength int
}

// NewMatcher creates a matcher accepting scores up to threshold and
// ignoring query fragments shorter than minMatchCharLength runes.
func NewMatcher(threshold float64, minMatchCharLength int) *Matcher {
	if minMatchCharLength < 1 {
		minMatchCharLength = 1
	}
	return &Matcher{threshold: threshold, minMatchCharLength: minMatchCharLength}
}

// Compile lowercases and tokenizes the query.
func (m *Matcher) Compile(query string) Pattern {
	full := strings.ToLower(strings.TrimSpace(query))
	p := Pattern{}
	for _, tok := range tokenize(full) {
		if utf8.RuneCountInString(tok) >= m.minMatchCharLength {
			p.tokens = append(p.tokens, tok)
		}
	}
	if utf8.RuneCountInString(full) >= m.minMatchCharLength {
		p.full = full
	}
	return p
}

// Score returns the distance of p against text in [0,1] (0 is a perfect
// match) and whether it is within the threshold.
func (m *Matcher) Score(p Pattern, text string) (float64, bool) {
	if p.Empty() {
		return 1, false
	}
	lower := strings.ToLower(text)
	if p.full != "" && strings.Contains(lower, p.full) {
		return 0, true
	}

	words := tokenize(lower)
	if len(words) == 0 {
		return 1, false
	}

	var total float64
	for _, tok := range p.tokens {
		best := 1.0
		for _, w := range words {
			if d := tokenDistance(tok, w); d < best {
				best = d
				if best == 0 {
					break
				}
			}
		}
		total += best
	}

	score := total / float64(len(p.tokens))
	return score, score <= m.threshold
}

// tokenDistance is the edit distance between a query token and a text word
// relative to the token length. A token contained in the word, or equal to
// the word's prefix, is an exact match.
func tokenDistance(tok, word string) float64 {
	if strings.Contains(word, tok) {
		return 0
	}
	n := utf8.RuneCountInString(tok)
	d := fuzzy.LevenshteinDistance(tok, word)
	if wr := []rune(word); len(wr) > n {
		if pd := fuzzy.LevenshteinDistance(tok, string(wr[:n])); pd < d {
			d = pd
		}
	}
	return math.Min(1, float64(d)/float64(n))
}

// fieldNorm weights short field values above long ones: 1/sqrt(words),
// rounded to three decimals.
func fieldNorm(text string) float64 {
	n := len(strings.Fields(text))
	if n == 0 {
		return 1
	}
	return math.Round(1000/math.Sqrt(float64(n))) / 1000
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
