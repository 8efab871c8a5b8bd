package fixtures

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/kgview/pkg/types"
)

// copyEmbedded writes the embedded fixtures into a fresh directory.
func copyEmbedded(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range []string{"dashboard.json", "search.json", "graph.json"} {
		data, err := fs.ReadFile(embedded, "data/"+name)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadEmbedded(t *testing.T) {
	loader, err := NewLoader("", nil)
	require.NoError(t, err)
	assert.Empty(t, loader.Dir())

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1250, snap.Dashboard.Metrics.DocsIndexed)
	assert.NotEmpty(t, snap.Dashboard.SearchVolume)
	require.Len(t, snap.Corpus, 8)
	assert.Equal(t, "Q001", snap.Corpus[0].ID)
	assert.Equal(t, "How do we deploy to staging?", snap.Corpus[0].Question)
	assert.Len(t, snap.Graph.Nodes, 11)
	assert.Len(t, snap.Graph.Edges, 10)
	assert.False(t, snap.LoadedAt.IsZero())

	for _, r := range snap.Corpus {
		assert.NoError(t, r.Validate())
	}
	assert.NoError(t, snap.Graph.Validate())
}

func TestLoadFromDirectory(t *testing.T) {
	dir := copyEmbedded(t)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, dir, loader.Dir())

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, snap.Corpus, 8)
}

func TestNewLoaderRejectsMissingDirectory(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing"), nil)
	assert.Error(t, err)
}

func TestLoadYAMLFixture(t *testing.T) {
	dir := copyEmbedded(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "graph.json")))
	writeFile(t, dir, "graph.yaml", `
nodes:
  - id: t1
    type: topic
    label: React
  - id: d1
    type: document
    label: Deploy Guide
    meta:
      url: https://example.com/deploy
edges:
  - id: e1
    source: d1
    target: t1
    relation: mentions
    weight: 0.5
`)

	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	g, err := loader.LoadGraph(context.Background())
	require.NoError(t, err)

	require.Len(t, g.Nodes, 2)
	assert.Equal(t, types.DocumentNodeType, g.Nodes[1].Type)
	url, ok := g.Nodes[1].MetaString("url")
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/deploy", url)
	require.Len(t, g.Edges, 1)
	require.NotNil(t, g.Edges[0].Weight)
	assert.Equal(t, 0.5, *g.Edges[0].Weight)
}

func TestLoadYAMLCorpus(t *testing.T) {
	dir := copyEmbedded(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "search.json")))
	writeFile(t, dir, "search.yml", `
- id: Y1
  question: How do we deploy?
  answer: Push to main
  confidence: 0.8
  date: 2025-08-17T10:05:00Z
  topics: [deployment]
  sourceTypes: [GitHub]
`)

	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	corpus, err := loader.LoadCorpus(context.Background())
	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, 2025, corpus[0].Date.Year())
	assert.Equal(t, []types.SourceType{types.SourceGitHub}, corpus[0].SourceTypes)
}

func TestLoadRepairsMalformedJSON(t *testing.T) {
	dir := copyEmbedded(t)
	writeFile(t, dir, "search.json", `[
  {"id": "Q1", "question": "How do we deploy?", "confidence": 0.5, "sourceTypes": ["Slack"],},
]`)

	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	corpus, err := loader.LoadCorpus(context.Background())
	require.NoError(t, err)
	require.Len(t, corpus, 1)
	assert.Equal(t, "Q1", corpus[0].ID)
}

func TestLoadRejectsInvalidRecords(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"confidence out of range", `[{"id": "Q1", "question": "q", "confidence": 1.5}]`},
		{"missing question", `[{"id": "Q1", "confidence": 0.5}]`},
		{"unknown source", `[{"id": "Q1", "question": "q", "confidence": 0.5, "sourceTypes": ["Jira"]}]`},
		{"wrong shape", `{"id": "Q1"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := copyEmbedded(t)
			writeFile(t, dir, "search.json", tt.content)
			loader, err := NewLoader(dir, nil)
			require.NoError(t, err)

			_, err = loader.LoadCorpus(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidFixture)
		})
	}
}

func TestLoadRejectsInvalidDashboardDate(t *testing.T) {
	dir := copyEmbedded(t)
	writeFile(t, dir, "dashboard.json", `{"metrics": {"healthScore": 50}, "searchVolume": [{"date": "yesterday", "count": 1}]}`)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)

	_, err = loader.LoadDashboard(context.Background())
	assert.ErrorIs(t, err, ErrInvalidFixture)
}

func TestLoadGraphToleratesDanglingEdges(t *testing.T) {
	dir := copyEmbedded(t)
	writeFile(t, dir, "graph.json", `{
  "nodes": [{"id": "t1", "type": "topic", "label": "React"}],
  "edges": [{"id": "e1", "source": "t1", "target": "ghost", "relation": "mentions"}]
}`)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)

	g, err := loader.LoadGraph(context.Background())
	require.NoError(t, err)
	assert.Len(t, g.Edges, 1)
}

func TestLoadGraphRejectsDuplicateNodes(t *testing.T) {
	dir := copyEmbedded(t)
	writeFile(t, dir, "graph.json", `{
  "nodes": [{"id": "t1", "type": "topic", "label": "A"}, {"id": "t1", "type": "topic", "label": "B"}],
  "edges": []
}`)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)

	_, err = loader.LoadGraph(context.Background())
	assert.ErrorIs(t, err, types.ErrDuplicateNodeID)
}

func TestLoadMissingFixture(t *testing.T) {
	dir := copyEmbedded(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "dashboard.json")))
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)

	_, err = loader.Load(context.Background())
	assert.ErrorIs(t, err, ErrFixtureNotFound)
}

func TestLoadHonoursCancelledContext(t *testing.T) {
	loader, err := NewLoader("", nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = loader.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStoreReturnsCopies(t *testing.T) {
	loader, err := NewLoader("", nil)
	require.NoError(t, err)
	store, err := NewStore(context.Background(), loader, nil)
	require.NoError(t, err)
	assert.True(t, store.Ready())

	ctx := context.Background()
	corpus, err := store.Corpus(ctx)
	require.NoError(t, err)
	corpus[0].Question = "changed"
	corpus[0].Topics[0] = "changed"

	again, err := store.Corpus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "How do we deploy to staging?", again[0].Question)
	assert.Equal(t, "deployment", again[0].Topics[0])

	g, err := store.Graph(ctx)
	require.NoError(t, err)
	g.Nodes[4].Meta["url"] = "changed"
	g2, err := store.Graph(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "changed", g2.Nodes[4].Meta["url"])
}

func TestStoreCollection(t *testing.T) {
	loader, err := NewLoader("", nil)
	require.NoError(t, err)
	store, err := NewStore(context.Background(), loader, nil)
	require.NoError(t, err)

	ctx := context.Background()
	for _, ep := range Endpoints() {
		v, err := store.Collection(ctx, ep)
		require.NoError(t, err, ep)
		assert.NotNil(t, v)
	}
	v, err := store.Collection(ctx, SearchEndpoint)
	require.NoError(t, err)
	assert.IsType(t, []types.QARecord{}, v)

	_, err = store.Collection(ctx, Endpoint("/people"))
	assert.ErrorIs(t, err, ErrFixtureNotFound)
}

func TestStoreReloadKeepsSnapshotOnFailure(t *testing.T) {
	dir := copyEmbedded(t)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	store, err := NewStore(context.Background(), loader, nil)
	require.NoError(t, err)

	var reloaded int
	store.OnReload(func(*Snapshot) { reloaded++ })

	writeFile(t, dir, "search.json", `[{"id": "Q1", "question": "q", "confidence": 7}]`)
	require.Error(t, store.Reload(context.Background()))
	assert.Zero(t, reloaded)

	corpus, err := store.Corpus(context.Background())
	require.NoError(t, err)
	assert.Len(t, corpus, 8)

	writeFile(t, dir, "search.json", `[{"id": "Q1", "question": "q", "confidence": 0.7}]`)
	require.NoError(t, store.Reload(context.Background()))
	assert.Equal(t, 1, reloaded)

	corpus, err = store.Corpus(context.Background())
	require.NoError(t, err)
	assert.Len(t, corpus, 1)
}

func TestStoreReloadsOneAtATime(t *testing.T) {
	dir := copyEmbedded(t)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	store, err := NewStore(context.Background(), loader, nil)
	require.NoError(t, err)

	store.reloadMu.Lock()
	done := make(chan error, 1)
	go func() { done <- store.Reload(context.Background()) }()

	select {
	case <-done:
		t.Fatal("reload ran while another reload was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	// the pending reload must pick up what is on disk once it may proceed
	writeFile(t, dir, "search.json", `[{"id": "Q1", "question": "q", "confidence": 0.7}]`)
	store.reloadMu.Unlock()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reload did not finish")
	}
	corpus, err := store.Corpus(context.Background())
	require.NoError(t, err)
	assert.Len(t, corpus, 1)
}

func TestStoreConcurrentReloadsKeepLatest(t *testing.T) {
	dir := copyEmbedded(t)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	store, err := NewStore(context.Background(), loader, nil)
	require.NoError(t, err)

	var order []int
	store.OnReload(func(snap *Snapshot) { order = append(order, len(snap.Corpus)) })

	writeFile(t, dir, "search.json", `[{"id": "Q1", "question": "q", "confidence": 0.7}]`)
	errs := make(chan error, 8)
	for range 8 {
		go func() { errs <- store.Reload(context.Background()) }()
	}
	for range 8 {
		require.NoError(t, <-errs)
	}

	assert.Len(t, order, 8)
	corpus, err := store.Corpus(context.Background())
	require.NoError(t, err)
	assert.Len(t, corpus, 1)
}

func TestWatcherReloadsOnChange(t *testing.T) {
	dir := copyEmbedded(t)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	store, err := NewStore(context.Background(), loader, nil)
	require.NoError(t, err)

	w, err := NewWatcher(store, 20*time.Millisecond, nil)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Close()

	writeFile(t, dir, "search.json", `[{"id": "W1", "question": "Watched?", "confidence": 0.5}]`)

	assert.Eventually(t, func() bool {
		corpus, err := store.Corpus(context.Background())
		return err == nil && len(corpus) == 1 && corpus[0].ID == "W1"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestWatcherRejectsEmbeddedFixtures(t *testing.T) {
	loader, err := NewLoader("", nil)
	require.NoError(t, err)
	store, err := NewStore(context.Background(), loader, nil)
	require.NoError(t, err)

	_, err = NewWatcher(store, 0, nil)
	assert.ErrorIs(t, err, ErrEmbeddedFixtures)
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	dir := copyEmbedded(t)
	loader, err := NewLoader(dir, nil)
	require.NoError(t, err)
	store, err := NewStore(context.Background(), loader, nil)
	require.NoError(t, err)

	w, err := NewWatcher(store, 0, nil)
	require.NoError(t, err)
	w.Start(context.Background())
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
