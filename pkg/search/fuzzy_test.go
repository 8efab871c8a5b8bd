package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatcherScore(t *testing.T) {
	m := NewMatcher(0.35, 2)

	tests := []struct {
		name      string
		query     string
		text      string
		wantMatch bool
		wantZero  bool
	}{
		{"exact substring", "deploy", "How do we deploy to staging?", true, true},
		{"case insensitive", "DEPLOY", "how do we deploy", true, true},
		{"word prefix", "deploymen", "deployment", true, true},
		{"single edit", "stagng", "deploy to staging", true, false},
		{"word order independent", "staging deploy", "deploy to staging", true, true},
		{"unrelated", "kubernetes", "database backups", false, false},
		{"empty text", "deploy", "", false, false},
		{"fragment below minimum", "a", "a b c", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, ok := m.Score(m.Compile(tt.query), tt.text)
			assert.Equal(t, tt.wantMatch, ok, "score %v", score)
			if tt.wantZero {
				assert.Zero(t, score)
			}
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		})
	}
}

func TestMatcherTypoScoreIsRelativeToTokenLength(t *testing.T) {
	m := NewMatcher(0.35, 2)
	score, ok := m.Score(m.Compile("deploymen"), "How do we deploy to staging?")
	assert.True(t, ok)
	assert.InDelta(t, 3.0/9.0, score, 1e-9)
}

func TestCompileDropsShortTokens(t *testing.T) {
	m := NewMatcher(0.35, 2)
	p := m.Compile("  a deploy b ")
	assert.Equal(t, []string{"deploy"}, p.tokens)
	assert.False(t, p.Empty())
	assert.True(t, m.Compile("x").Empty())
}

func TestFieldNorm(t *testing.T) {
	assert.Equal(t, 1.0, fieldNorm("deployment"))
	assert.Equal(t, 0.5, fieldNorm("one two three four"))
	assert.Equal(t, 1.0, fieldNorm(""))
}
