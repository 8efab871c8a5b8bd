package search

import (
	"math"
	"sort"
	"strings"

	"github.com/soundprediction/kgview/pkg/types"
)

// epsilon stands in for a zero score so a perfect match does not collapse
// the whole product to zero regardless of weight.
const epsilon = 0x1p-52

// Field is one weighted, searchable part of a record.
type Field struct {
	Name   string
	Weight float64
	Values func(r *types.QARecord) []string
}

// DefaultFields returns question (0.6), answer (0.3), topics (0.05) and
// citation titles (0.05).
func DefaultFields() []Field {
	return []Field{
		{Name: "question", Weight: 0.6, Values: func(r *types.QARecord) []string { return []string{r.Question} }},
		{Name: "answer", Weight: 0.3, Values: func(r *types.QARecord) []string { return []string{r.Answer} }},
		{Name: "topics", Weight: 0.05, Values: func(r *types.QARecord) []string { return r.Topics }},
		{Name: "citations.title", Weight: 0.05, Values: func(r *types.QARecord) []string {
			titles := make([]string, len(r.Citations))
			for i, c := range r.Citations {
				titles[i] = c.Title
			}
			return titles
		}},
	}
}

// Config tunes the fuzzy stage.
type Config struct {
	Threshold          float64
	MinMatchCharLength int
	MinConfidence      float64
	MaxConfidence      float64
	Fields             []Field
}

// DefaultConfig returns the tuning used by the search page: threshold 0.35,
// two-character minimum fragments and confidence clamped to [0.6, 0.99].
func DefaultConfig() Config {
	return Config{
		Threshold:          0.35,
		MinMatchCharLength: 2,
		MinConfidence:      0.6,
		MaxConfidence:      0.99,
		Fields:             DefaultFields(),
	}
}

// Searcher ranks corpora. It is stateless and safe for concurrent use.
type Searcher struct {
	config  Config
	matcher *Matcher
	weights []float64
}

// NewSearcher creates a searcher. Missing fields fall back to the defaults
// and field weights are normalised to sum to one.
func NewSearcher(config Config) *Searcher {
	def := DefaultConfig()
	if config.Threshold <= 0 {
		config.Threshold = def.Threshold
	}
	if config.MinMatchCharLength <= 0 {
		config.MinMatchCharLength = def.MinMatchCharLength
	}
	if config.MaxConfidence <= 0 || config.MaxConfidence > 1 {
		config.MaxConfidence = def.MaxConfidence
	}
	if config.MinConfidence < 0 || config.MinConfidence > config.MaxConfidence {
		config.MinConfidence = def.MinConfidence
	}
	if len(config.Fields) == 0 {
		config.Fields = def.Fields
	}

	var sum float64
	for _, f := range config.Fields {
		sum += f.Weight
	}
	weights := make([]float64, len(config.Fields))
	for i, f := range config.Fields {
		if sum > 0 {
			weights[i] = f.Weight / sum
		} else {
			weights[i] = 1 / float64(len(config.Fields))
		}
	}

	return &Searcher{
		config:  config,
		matcher: NewMatcher(config.Threshold, config.MinMatchCharLength),
		weights: weights,
	}
}

var defaultSearcher = NewSearcher(DefaultConfig())

// Rank ranks corpus with the default configuration.
func Rank(corpus []types.QARecord, query string, criteria types.SearchFilterCriteria) []types.QARecord {
	return defaultSearcher.Rank(corpus, query, criteria)
}

type scored struct {
	record types.QARecord
	score  float64
}

// Rank filters corpus by criteria and, for a non-blank query, fuzzily
// matches, re-scores and sorts the survivors. The result never aliases
// corpus and is never nil.
func (s *Searcher) Rank(corpus []types.QARecord, query string, criteria types.SearchFilterCriteria) []types.QARecord {
	filtered := FilterBySource(corpus, criteria.Source)
	filtered = FilterByDateRange(filtered, criteria.StartDate, criteria.EndDate)

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		out := types.CloneRecords(filtered)
		if out == nil {
			out = []types.QARecord{}
		}
		return out
	}

	pattern := s.matcher.Compile(trimmed)
	matches := make([]scored, 0, len(filtered))
	for i := range filtered {
		score, ok := s.scoreRecord(pattern, &filtered[i])
		if !ok {
			continue
		}
		rec := filtered[i].Clone()
		rec.Confidence = s.toConfidence(score)
		matches = append(matches, scored{record: rec, score: score})
	}

	// Confidence descending, raw score ascending, then encounter order.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].record.Confidence != matches[j].record.Confidence {
			return matches[i].record.Confidence > matches[j].record.Confidence
		}
		return matches[i].score < matches[j].score
	})

	out := make([]types.QARecord, len(matches))
	for i, m := range matches {
		out[i] = m.record
	}
	return out
}

// scoreRecord multiplies score^(weight*norm) over every matching field
// value. The record matches when at least one value does.
func (s *Searcher) scoreRecord(p Pattern, r *types.QARecord) (float64, bool) {
	total := 1.0
	matched := false
	for i, f := range s.config.Fields {
		for _, v := range f.Values(r) {
			score, ok := s.matcher.Score(p, v)
			if !ok {
				continue
			}
			matched = true
			if score == 0 {
				score = epsilon
			}
			total *= math.Pow(score, s.weights[i]*fieldNorm(v))
		}
	}
	return total, matched
}

// toConfidence inverts a distance score into a confidence and clamps it.
func (s *Searcher) toConfidence(score float64) float64 {
	inverted := 1 - math.Min(math.Max(score, 0), 1)
	return math.Max(s.config.MinConfidence, math.Min(s.config.MaxConfidence, inverted))
}
