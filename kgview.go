package kgview

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/soundprediction/kgview/pkg/alert"
	"github.com/soundprediction/kgview/pkg/avatar"
	"github.com/soundprediction/kgview/pkg/config"
	"github.com/soundprediction/kgview/pkg/fixtures"
	"github.com/soundprediction/kgview/pkg/graph"
	"github.com/soundprediction/kgview/pkg/metrics"
	"github.com/soundprediction/kgview/pkg/preferences"
	"github.com/soundprediction/kgview/pkg/search"
	"github.com/soundprediction/kgview/pkg/transport"
	"github.com/soundprediction/kgview/pkg/types"
)

// Operation names carried by types.OperationError.
const (
	OpDashboard = "dashboard"
	OpSearch    = "search"
	OpGraph     = "graph"
	OpNode      = "node"
	OpTheme     = "theme"
)

// KGView is the main interface for reading the mocked knowledge graph.
// Every data method goes through the simulated transport, so it may fail
// with a types.OperationError carrying the message to display.
type KGView interface {
	// Dashboard returns the dashboard metrics and chart series.
	Dashboard(ctx context.Context) (types.DashboardData, error)

	// Search filters and ranks the Q&A corpus and returns one page of it.
	// Options may be nil for the first page at the default size.
	Search(ctx context.Context, query string, criteria types.SearchFilterCriteria, options *SearchOptions) (*SearchResults, error)

	// Graph returns the full node/edge snapshot.
	Graph(ctx context.Context) (types.Graph, error)

	// VisibleGraph returns the subset of the graph visible under toggles and
	// the label filter, with its layout.
	VisibleGraph(ctx context.Context, toggles graph.Toggles, labelText string) (*graph.View, error)

	// NodeDetails returns what the details drawer shows for one node.
	NodeDetails(ctx context.Context, nodeID string) (*types.NodeDetails, error)

	// Theme returns the current theme preference.
	Theme() types.Theme

	// SetTheme persists a theme preference.
	SetTheme(theme types.Theme) error

	// ToggleTheme flips and persists the theme preference.
	ToggleTheme() (types.Theme, error)

	// Ready reports whether fixtures are loaded and the preference store
	// answers.
	Ready(ctx context.Context) error

	// Close releases the preference store and the avatar cache.
	Close() error
}

// Config holds configuration for the kgview client.
type Config struct {
	// Search tunes the fuzzy ranking stage
	Search search.Config
	// DefaultPageSize applies when a search does not ask for a page size
	DefaultPageSize int
}

// NewDefaultConfig returns the ranking defaults and ten results per page.
func NewDefaultConfig() *Config {
	return &Config{
		Search:          search.DefaultConfig(),
		DefaultPageSize: 10,
	}
}

// SearchOptions selects a page of results. Zero values mean the first page
// and the default page size.
type SearchOptions struct {
	Page     int
	PageSize int
}

// SearchResults is one page of ranked results together with the view state
// and the shareable URL of the query.
type SearchResults struct {
	Query    string                     `json:"query"`
	Criteria types.SearchFilterCriteria `json:"criteria"`
	search.Page[types.QARecord]
	State    types.ViewState `json:"state"`
	ShareURL string          `json:"share_url,omitempty"`
}

var _ KGView = (*Client)(nil)

// Client is the main implementation of the KGView interface.
type Client struct {
	store       *fixtures.Store
	transport   *transport.Shim
	searcher    *search.Searcher
	preferences *preferences.Store
	avatars     *avatar.Resolver
	config      *Config
	logger      *slog.Logger
}

// NewClient creates a client over already constructed components. The
// client takes ownership of prefs and avatars.
func NewClient(store *fixtures.Store, shim *transport.Shim, prefs *preferences.Store, avatars *avatar.Resolver, config *Config, logger *slog.Logger) (*Client, error) {
	if store == nil {
		return nil, errors.New("fixture store is required")
	}
	if shim == nil {
		return nil, errors.New("transport is required")
	}
	if prefs == nil {
		return nil, errors.New("preference store is required")
	}
	if config == nil {
		config = NewDefaultConfig()
	}
	if config.DefaultPageSize <= 0 {
		config.DefaultPageSize = 10
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		store:       store,
		transport:   shim,
		searcher:    search.NewSearcher(config.Search),
		preferences: prefs,
		avatars:     avatars,
		config:      config,
		logger:      logger,
	}, nil
}

// Open builds every component from the application configuration and
// returns a ready client. m may be nil to skip metrics.
func Open(ctx context.Context, cfg *config.Config, m *metrics.Collector, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loader, err := fixtures.NewLoader(cfg.Fixtures.Dir, logger)
	if err != nil {
		return nil, err
	}
	store, err := fixtures.NewStore(ctx, loader, logger)
	if err != nil {
		return nil, err
	}

	opts := transport.OptionsFromConfig(cfg.Transport, cfg.CircuitBreaker)
	opts.Alerter = alert.New(cfg.Alert, logger)
	opts.Metrics = m
	opts.Logger = logger
	shim := transport.New(opts)

	prefs, err := preferences.Open(cfg.Preferences, logger)
	if err != nil {
		return nil, err
	}

	avatarOpts := []avatar.Option{avatar.WithLogger(logger)}
	if m != nil {
		avatarOpts = append(avatarOpts, avatar.WithMetrics(m))
	}
	avatars, err := avatar.New(cfg.Avatar, avatarOpts...)
	if err != nil {
		prefs.Close()
		return nil, err
	}

	searchCfg := search.DefaultConfig()
	searchCfg.Threshold = cfg.Search.Threshold
	searchCfg.MinMatchCharLength = cfg.Search.MinMatchCharLength

	return NewClient(store, shim, prefs, avatars, &Config{
		Search:          searchCfg,
		DefaultPageSize: cfg.Search.DefaultPageSize,
	}, logger)
}

// Fixtures returns the fixture store, for reload wiring.
func (c *Client) Fixtures() *fixtures.Store {
	return c.store
}

// Transport returns the simulated transport.
func (c *Client) Transport() *transport.Shim {
	return c.transport
}

// Dashboard returns the dashboard payload.
func (c *Client) Dashboard(ctx context.Context) (types.DashboardData, error) {
	data, err := transport.Fetch(ctx, c.transport, string(fixtures.DashboardEndpoint), c.store.Dashboard)
	if err != nil {
		return types.DashboardData{}, c.fail(ctx, OpDashboard, err)
	}
	return data, nil
}

// Search fetches the corpus, ranks it and returns the requested page.
func (c *Client) Search(ctx context.Context, query string, criteria types.SearchFilterCriteria, options *SearchOptions) (*SearchResults, error) {
	if err := criteria.Validate(); err != nil {
		return nil, types.NewOperationError(OpSearch, err)
	}
	page, pageSize := 1, c.config.DefaultPageSize
	if options != nil {
		if options.Page < 0 || options.PageSize < 0 {
			return nil, types.NewOperationError(OpSearch, types.ErrInvalidPageRequest)
		}
		if options.Page > 0 {
			page = options.Page
		}
		if options.PageSize > 0 {
			pageSize = options.PageSize
		}
	}

	corpus, err := transport.Fetch(ctx, c.transport, string(fixtures.SearchEndpoint), c.store.Corpus)
	if err != nil {
		return nil, c.fail(ctx, OpSearch, err)
	}

	ranked := c.searcher.Rank(corpus, query, criteria)
	c.logger.DebugContext(ctx, "Ranked corpus", "query", query, "corpus", len(corpus), "results", len(ranked))

	return &SearchResults{
		Query:    strings.TrimSpace(query),
		Criteria: criteria,
		Page:     search.Paginate(ranked, page, pageSize),
		State:    types.Loaded(len(ranked)),
		ShareURL: ShareURL(query),
	}, nil
}

// ShareURL mirrors a query into the shareable search URL. A blank query
// yields an empty string.
func ShareURL(query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return ""
	}
	return "/search?" + url.Values{"q": {q}}.Encode()
}

// Graph returns the full graph snapshot.
func (c *Client) Graph(ctx context.Context) (types.Graph, error) {
	g, err := transport.Fetch(ctx, c.transport, string(fixtures.GraphEndpoint), c.store.Graph)
	if err != nil {
		return types.Graph{}, c.fail(ctx, OpGraph, err)
	}
	return g, nil
}

// VisibleGraph fetches the graph and computes its visible subset.
func (c *Client) VisibleGraph(ctx context.Context, toggles graph.Toggles, labelText string) (*graph.View, error) {
	g, err := c.Graph(ctx)
	if err != nil {
		return nil, err
	}
	view := graph.ComputeVisible(g.Nodes, g.Edges, toggles, labelText)
	return &view, nil
}

// NodeDetails returns the node with its metadata, the source link of a
// document and the avatar of a person.
func (c *Client) NodeDetails(ctx context.Context, nodeID string) (*types.NodeDetails, error) {
	g, err := c.Graph(ctx)
	if err != nil {
		return nil, err
	}
	node, ok := g.Node(nodeID)
	if !ok {
		return nil, types.NewOperationError(OpNode, fmt.Errorf("%w: %s", types.ErrNodeNotFound, nodeID))
	}

	details := &types.NodeDetails{
		Node:     node,
		Metadata: types.MetadataEntries(node.Meta),
	}
	switch node.Type {
	case types.DocumentNodeType:
		if u, ok := node.MetaString("url"); ok {
			details.SourceURL = u
		}
	case types.PersonNodeType:
		if c.avatars != nil {
			details.AvatarURL = c.avatars.Resolve(ctx, node)
		}
	}
	return details, nil
}

// Theme returns the current theme.
func (c *Client) Theme() types.Theme {
	return c.preferences.Theme()
}

// SetTheme persists theme.
func (c *Client) SetTheme(theme types.Theme) error {
	if err := c.preferences.Set(theme); err != nil {
		return types.NewOperationError(OpTheme, err)
	}
	return nil
}

// ToggleTheme flips the theme and returns the new value.
func (c *Client) ToggleTheme() (types.Theme, error) {
	t, err := c.preferences.Toggle()
	if err != nil {
		return "", types.NewOperationError(OpTheme, err)
	}
	return t, nil
}

// Ready checks the fixture snapshot and the preference store.
func (c *Client) Ready(_ context.Context) error {
	if !c.store.Ready() {
		return fixtures.ErrNotLoaded
	}
	return c.preferences.Ping()
}

// Close closes the preference store and the avatar cache.
func (c *Client) Close() error {
	if c.avatars != nil {
		c.avatars.Close()
	}
	return c.preferences.Close()
}

func (c *Client) fail(ctx context.Context, op string, err error) error {
	if !errors.Is(err, context.Canceled) {
		c.logger.WarnContext(ctx, "Request failed", "operation", op, "error", err)
	}
	return types.NewOperationError(op, err)
}
