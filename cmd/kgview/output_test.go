package kgview

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/kgview"
	"github.com/soundprediction/kgview/pkg/graph"
	"github.com/soundprediction/kgview/pkg/search"
	"github.com/soundprediction/kgview/pkg/types"
)

func init() {
	color.NoColor = true
}

func TestSearchCriteria(t *testing.T) {
	searchSource, searchStart, searchEnd = "github", "2025-01-01", "2025-06-30"
	t.Cleanup(func() { searchSource, searchStart, searchEnd = "", "", "" })

	criteria, err := searchCriteria()
	require.NoError(t, err)
	assert.Equal(t, types.SourceGitHub, criteria.Source)
	require.NotNil(t, criteria.StartDate)
	require.NotNil(t, criteria.EndDate)

	searchStart, searchEnd = "2025-07-01", "2025-06-30"
	_, err = searchCriteria()
	assert.ErrorIs(t, err, types.ErrInvalidDateRange)

	searchSource = "jira"
	_, err = searchCriteria()
	assert.ErrorIs(t, err, types.ErrInvalidSourceType)
}

func TestPrintSearchResults(t *testing.T) {
	records := []types.QARecord{{
		ID:         "Q001",
		Question:   "How do we deploy to staging?",
		Answer:     "Merge to main.",
		Confidence: 0.92,
		Citations:  []types.Citation{{Source: types.SourceGitHub, Title: "Deploy pipeline", URL: "https://example.com"}},
		Related:    []string{"How do we rollback a deploy?"},
	}}
	var buf bytes.Buffer
	printSearchResults(&buf, &kgview.SearchResults{
		Page:     search.Paginate(records, 1, 10),
		State:    types.Loaded(1),
		ShareURL: kgview.ShareURL("deploy"),
	})

	out := buf.String()
	assert.Contains(t, out, "1. How do we deploy to staging? (92% confidence)")
	assert.Contains(t, out, "[GitHub] Deploy pipeline")
	assert.Contains(t, out, "Related: How do we rollback a deploy?")
	assert.Contains(t, out, "Page 1, 1 of 1 results")
	assert.Contains(t, out, "Share: /search?q=deploy")

	buf.Reset()
	printSearchResults(&buf, &kgview.SearchResults{Page: search.Paginate[types.QARecord](nil, 1, 10), State: types.Loaded(0)})
	assert.Contains(t, buf.String(), "No results found")
}

func TestPrintView(t *testing.T) {
	nodes := []types.GraphNode{
		{ID: "t1", Type: types.TopicNodeType, Label: "React"},
		{ID: "d1", Type: types.DocumentNodeType, Label: "Style Guide"},
		{ID: "p1", Type: types.PersonNodeType, Label: "Sarah Chen"},
	}
	edges := []types.GraphEdge{
		{ID: "e1", Source: "d1", Target: "t1", Relation: "mentions"},
		{ID: "e2", Source: "p1", Target: "d1", Relation: "authored"},
	}
	view := graph.ComputeVisible(nodes, edges, graph.AllEnabled(), "")

	var buf bytes.Buffer
	printView(&buf, &view)
	out := buf.String()
	assert.Contains(t, out, "Style Guide --> React mentions")
	assert.Contains(t, out, "Sarah Chen ~~> Style Guide authored")
	assert.Contains(t, out, "3 nodes, 2 edges")

	empty := graph.ComputeVisible(nodes, edges, graph.Toggles{}, "")
	buf.Reset()
	printView(&buf, &empty)
	assert.Contains(t, buf.String(), "No nodes match")
}
