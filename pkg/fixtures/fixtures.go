package fixtures

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kaptinlin/jsonrepair"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/soundprediction/kgview/pkg/types"
)

//go:embed data/*.json
var embedded embed.FS

// Endpoint is the logical name a fixture collection is requested by.
type Endpoint string

const (
	DashboardEndpoint Endpoint = "/dashboard"
	SearchEndpoint    Endpoint = "/search"
	GraphEndpoint     Endpoint = "/graph"
)

// Endpoints returns every fixture endpoint.
func Endpoints() []Endpoint {
	return []Endpoint{DashboardEndpoint, SearchEndpoint, GraphEndpoint}
}

// baseName is the file name, without extension, backing the endpoint.
func (e Endpoint) baseName() string {
	return strings.TrimPrefix(string(e), "/")
}

// Extensions tried, in order, for each fixture file.
var extensions = []string{".json", ".yaml", ".yml"}

var (
	// ErrFixtureNotFound is returned when no file backs an endpoint.
	ErrFixtureNotFound = errors.New("fixture not found")
	// ErrInvalidFixture wraps decoding and validation failures.
	ErrInvalidFixture = errors.New("invalid fixture")
)

// Snapshot is one consistent load of every fixture collection.
type Snapshot struct {
	Dashboard types.DashboardData
	Corpus    []types.QARecord
	Graph     types.Graph
	LoadedAt  time.Time
}

// Clone returns a deep copy; snapshots handed out never share memory.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Dashboard: s.Dashboard.Clone(),
		Corpus:    types.CloneRecords(s.Corpus),
		Graph:     s.Graph.Clone(),
		LoadedAt:  s.LoadedAt,
	}
}

// Loader reads fixtures from a directory or, when no directory is set, from
// the copies embedded in the binary.
type Loader struct {
	dir      string
	fsys     fs.FS
	validate *validator.Validate
	logger   *slog.Logger
}

// NewLoader creates a loader for dir. An empty dir selects the embedded
// fixtures.
func NewLoader(dir string, logger *slog.Logger) (*Loader, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			return nil, fmt.Errorf("failed to open embedded fixtures: %w", err)
		}
		fsys = sub
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("fixtures directory %s: %w", dir, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("fixtures path %s is not a directory", dir)
		}
		fsys = os.DirFS(dir)
	}

	return &Loader{
		dir:      dir,
		fsys:     fsys,
		validate: validator.New(),
		logger:   logger.With("component", "fixtures"),
	}, nil
}

// Dir returns the fixtures directory, or "" for the embedded set.
func (l *Loader) Dir() string {
	return l.dir
}

// Load reads all three collections concurrently. Any failure fails the
// whole load.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d, err := l.LoadDashboard(ctx)
		snap.Dashboard = d
		return err
	})
	g.Go(func() error {
		c, err := l.LoadCorpus(ctx)
		snap.Corpus = c
		return err
	})
	g.Go(func() error {
		gr, err := l.LoadGraph(ctx)
		snap.Graph = gr
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	snap.LoadedAt = time.Now()

	l.logger.Info("Fixtures loaded",
		"source", l.source(),
		"records", len(snap.Corpus),
		"nodes", len(snap.Graph.Nodes),
		"edges", len(snap.Graph.Edges))
	return snap, nil
}

// LoadDashboard reads and validates the dashboard fixture.
func (l *Loader) LoadDashboard(ctx context.Context) (types.DashboardData, error) {
	var d types.DashboardData
	if err := l.decode(ctx, DashboardEndpoint, &d); err != nil {
		return types.DashboardData{}, err
	}
	if err := l.validateStruct(DashboardEndpoint, &d); err != nil {
		return types.DashboardData{}, err
	}
	return d, nil
}

// LoadCorpus reads and validates the Q&A corpus.
func (l *Loader) LoadCorpus(ctx context.Context) ([]types.QARecord, error) {
	var records []types.QARecord
	if err := l.decode(ctx, SearchEndpoint, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []types.QARecord{}
	}

	seen := make(map[string]struct{}, len(records))
	for i := range records {
		if err := l.validateStruct(SearchEndpoint, &records[i]); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		if err := records[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w %s: record %d: %w", ErrInvalidFixture, SearchEndpoint, i, err)
		}
		if _, dup := seen[records[i].ID]; dup {
			l.logger.Warn("Duplicate record id in corpus", "id", records[i].ID)
		}
		seen[records[i].ID] = struct{}{}
	}
	return records, nil
}

// LoadGraph reads and validates the graph fixture. Edges pointing at
// unknown nodes are kept and logged; they are never rendered.
func (l *Loader) LoadGraph(ctx context.Context) (types.Graph, error) {
	var g types.Graph
	if err := l.decode(ctx, GraphEndpoint, &g); err != nil {
		return types.Graph{}, err
	}
	if g.Nodes == nil {
		g.Nodes = []types.GraphNode{}
	}
	if g.Edges == nil {
		g.Edges = []types.GraphEdge{}
	}
	if err := l.validateStruct(GraphEndpoint, &g); err != nil {
		return types.Graph{}, err
	}
	if err := g.Validate(); err != nil {
		if !errors.Is(err, types.ErrDanglingEdge) {
			return types.Graph{}, fmt.Errorf("%w %s: %w", ErrInvalidFixture, GraphEndpoint, err)
		}
		l.logger.Warn("Graph fixture has dangling edges", "error", err)
	}
	return g, nil
}

func (l *Loader) source() string {
	if l.dir == "" {
		return "embedded"
	}
	return l.dir
}

// open finds the first file backing endpoint.
func (l *Loader) open(endpoint Endpoint) (string, []byte, error) {
	for _, ext := range extensions {
		name := endpoint.baseName() + ext
		data, err := fs.ReadFile(l.fsys, name)
		if err == nil {
			return name, data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
	}
	return "", nil, fmt.Errorf("%w: %s in %s", ErrFixtureNotFound, endpoint, l.source())
}

func (l *Loader) decode(ctx context.Context, endpoint Endpoint, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name, data, err := l.open(endpoint)
	if err != nil {
		return err
	}

	switch path.Ext(name) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("%w %s: %w", ErrInvalidFixture, name, err)
		}
		return nil
	}

	err = json.Unmarshal(data, v)
	if err == nil {
		return nil
	}

	var syntaxErr *json.SyntaxError
	if !errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w %s: %w", ErrInvalidFixture, name, err)
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidFixture, name, err)
	}
	if err := json.Unmarshal([]byte(repaired), v); err != nil {
		return fmt.Errorf("%w %s: %w", ErrInvalidFixture, name, err)
	}
	l.logger.Warn("Repaired malformed JSON fixture", "file", name, "offset", syntaxErr.Offset)
	return nil
}

func (l *Loader) validateStruct(endpoint Endpoint, v any) error {
	if err := l.validate.Struct(v); err != nil {
		return fmt.Errorf("%w %s: %s", ErrInvalidFixture, endpoint, formatValidationError(err))
	}
	return nil
}

// formatValidationError flattens validator errors into one readable line.
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", field, e.Param()))
		case "gte", "lte":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", field, e.Tag(), e.Param()))
		case "datetime":
			msgs = append(msgs, fmt.Sprintf("%s must be a %s date", field, e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
