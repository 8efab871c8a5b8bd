// Package avatar picks the decorative picture shown for person nodes.
//
// Resolution order: the node's own avatarUrl metadata, the cache, an
// optional remote lookup, and finally a deterministic robohash URL. Every
// result except explicit metadata is cached per seed in a bounded cache
// owned by the Resolver.
package avatar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/soundprediction/kgview/pkg/config"
	"github.com/soundprediction/kgview/pkg/metrics"
	"github.com/soundprediction/kgview/pkg/types"
)

const (
	DefaultLookupURL   = "https://randomuser.me/api/"
	DefaultFallbackURL = "https://robohash.org/"
	defaultCacheSize   = 1000
	maxResponseBytes   = 64 << 10
)

// lookupResponse is the part of a randomuser-style response we read.
type lookupResponse struct {
	Results []struct {
		Picture struct {
			Large string `json:"large"`
		} `json:"picture"`
	} `json:"results"`
}

// Resolver resolves avatar URLs for person nodes.
type Resolver struct {
	cache         *ristretto.Cache[string, string]
	client        *http.Client
	lookupEnabled bool
	lookupURL     string
	fallbackURL   string
	metrics       *metrics.Collector
	logger        *slog.Logger
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithHTTPClient replaces the client used for remote lookups.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Resolver) { r.client = c }
}

// WithMetrics records cache hits and misses.
func WithMetrics(m *metrics.Collector) Option {
	return func(r *Resolver) { r.metrics = m }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// New creates a resolver from cfg.
func New(cfg config.AvatarConfig, opts ...Option) (*Resolver, error) {
	size := cfg.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := ristretto.NewCache(&ristretto.Config[string, string]{
		NumCounters:        size * 10,
		MaxCost:            size,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create avatar cache: %w", err)
	}

	timeout := time.Duration(cfg.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 2 * time.Second
	}

	r := &Resolver{
		cache:         cache,
		client:        &http.Client{Timeout: timeout},
		lookupEnabled: cfg.LookupEnabled,
		lookupURL:     cfg.LookupURL,
		fallbackURL:   cfg.FallbackURL,
		logger:        slog.Default(),
	}
	if r.lookupURL == "" {
		r.lookupURL = DefaultLookupURL
	}
	if r.fallbackURL == "" {
		r.fallbackURL = DefaultFallbackURL
	}
	if !strings.HasSuffix(r.fallbackURL, "/") {
		r.fallbackURL += "/"
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With("component", "avatar")
	return r, nil
}

// Seed is the cache key and lookup seed for a node: its id, or its label
// when the id is empty, query-escaped.
func Seed(node types.GraphNode) string {
	s := node.ID
	if s == "" {
		s = node.Label
	}
	return url.QueryEscape(s)
}

// FallbackURL returns the deterministic robohash picture for seed.
func (r *Resolver) FallbackURL(seed string) string {
	return r.fallbackURL + seed + ".png?size=96x96&bgset=bg1"
}

// Resolve returns the avatar URL for node. It never fails: lookup errors
// fall through to the deterministic fallback, which is not cached.
func (r *Resolver) Resolve(ctx context.Context, node types.GraphNode) string {
	if u, ok := node.MetaString("avatarUrl"); ok && u != "" {
		return u
	}

	seed := Seed(node)
	if !r.lookupEnabled {
		return r.FallbackURL(seed)
	}
	if u, ok := r.cache.Get(seed); ok {
		r.hit()
		return u
	}
	r.miss()

	// only successful lookups are cached; a failed one is retried next time
	u, err := r.lookup(ctx, seed)
	if err != nil {
		r.logger.DebugContext(ctx, "Avatar lookup failed, using fallback", "seed", seed, "error", err)
		return r.FallbackURL(seed)
	}
	r.cache.Set(seed, u, 1)
	r.cache.Wait()
	return u
}

func (r *Resolver) lookup(ctx context.Context, seed string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.lookupURL+"?seed="+seed+"&inc=picture&noinfo", nil)
	if err != nil {
		return "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("lookup returned status %d", resp.StatusCode)
	}

	var body lookupResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if len(body.Results) == 0 || body.Results[0].Picture.Large == "" {
		return "", fmt.Errorf("lookup response has no picture")
	}
	return body.Results[0].Picture.Large, nil
}

func (r *Resolver) hit() {
	if r.metrics != nil {
		r.metrics.CacheHits.Inc()
	}
}

func (r *Resolver) miss() {
	if r.metrics != nil {
		r.metrics.CacheMisses.Inc()
	}
}

// Close releases the cache.
func (r *Resolver) Close() {
	r.cache.Close()
}
