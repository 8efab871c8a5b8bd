package avatar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundprediction/kgview/pkg/config"
	"github.com/soundprediction/kgview/pkg/metrics"
	"github.com/soundprediction/kgview/pkg/types"
)

func person(id, label string, meta map[string]any) types.GraphNode {
	return types.GraphNode{ID: id, Type: types.PersonNodeType, Label: label, Meta: meta}
}

func TestResolvePrefersMetadata(t *testing.T) {
	r, err := New(config.AvatarConfig{})
	require.NoError(t, err)
	defer r.Close()

	got := r.Resolve(context.Background(), person("p1", "Priya", map[string]any{"avatarUrl": "https://img.example.com/p.png"}))
	assert.Equal(t, "https://img.example.com/p.png", got)
}

func TestResolveFallsBackToRobohash(t *testing.T) {
	r, err := New(config.AvatarConfig{})
	require.NoError(t, err)
	defer r.Close()

	got := r.Resolve(context.Background(), person("p sarah", "Sarah Chen", nil))
	assert.Equal(t, "https://robohash.org/p+sarah.png?size=96x96&bgset=bg1", got)

	got = r.Resolve(context.Background(), person("", "Sarah Chen", nil))
	assert.Equal(t, "https://robohash.org/Sarah+Chen.png?size=96x96&bgset=bg1", got)
}

func TestResolveUsesLookupAndCaches(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		calls.Add(1)
		assert.Equal(t, "p1", req.URL.Query().Get("seed"))
		assert.Equal(t, "picture", req.URL.Query().Get("inc"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"picture":{"large":"https://img.example.com/large.jpg"}}]}`))
	}))
	defer srv.Close()

	m := metrics.NewCollector("test")
	r, err := New(config.AvatarConfig{LookupEnabled: true, LookupURL: srv.URL}, WithMetrics(m), WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer r.Close()

	for range 3 {
		got := r.Resolve(context.Background(), person("p1", "Sarah", nil))
		assert.Equal(t, "https://img.example.com/large.jpg", got)
	}
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMisses))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CacheHits))
}

func TestResolveLookupFailureFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) }},
		{"bad json", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("not json")) }},
		{"no results", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"results":[]}`)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			r, err := New(config.AvatarConfig{LookupEnabled: true, LookupURL: srv.URL, FallbackURL: "https://bots.example.com"})
			require.NoError(t, err)
			defer r.Close()

			got := r.Resolve(context.Background(), person("p2", "Miguel", nil))
			assert.Equal(t, "https://bots.example.com/p2.png?size=96x96&bgset=bg1", got)
		})
	}
}

func TestResolveRetriesAfterFailedLookup(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"results":[{"picture":{"large":"https://img.example.com/p1.jpg"}}]}`))
	}))
	defer srv.Close()

	r, err := New(config.AvatarConfig{LookupEnabled: true, LookupURL: srv.URL}, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer r.Close()

	node := person("p1", "Sarah", nil)
	assert.Equal(t, r.FallbackURL("p1"), r.Resolve(context.Background(), node))
	assert.Equal(t, "https://img.example.com/p1.jpg", r.Resolve(context.Background(), node))
	assert.Equal(t, "https://img.example.com/p1.jpg", r.Resolve(context.Background(), node))
	assert.Equal(t, int32(2), calls.Load())
}

func TestResolveCancelledLookupIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"results":[{"picture":{"large":"https://img.example.com/p2.jpg"}}]}`))
	}))
	defer srv.Close()

	r, err := New(config.AvatarConfig{LookupEnabled: true, LookupURL: srv.URL}, WithHTTPClient(srv.Client()))
	require.NoError(t, err)
	defer r.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	node := person("p2", "Miguel", nil)
	assert.Equal(t, r.FallbackURL("p2"), r.Resolve(ctx, node))
	assert.Equal(t, "https://img.example.com/p2.jpg", r.Resolve(context.Background(), node))
}

func TestSeed(t *testing.T) {
	assert.Equal(t, "p-1", Seed(person("p-1", "x", nil)))
	assert.Equal(t, "a%26b", Seed(person("a&b", "x", nil)))
	assert.Equal(t, "Jane+Doe", Seed(person("", "Jane Doe", nil)))
}
