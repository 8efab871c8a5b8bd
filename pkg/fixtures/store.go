package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/soundprediction/kgview/pkg/types"
)

// ErrNotLoaded is returned before the first successful load.
var ErrNotLoaded = errors.New("fixtures not loaded")

// Store holds the current snapshot. Readers always get deep copies, so a
// reload never changes data a caller already holds.
type Store struct {
	// reloadMu serializes Reload so the snapshot installed last is the one
	// loaded last.
	reloadMu sync.Mutex

	mu     sync.RWMutex
	snap   *Snapshot
	loader *Loader
	logger *slog.Logger

	onReload []func(*Snapshot)
}

// NewStore creates a store and performs the initial load.
func NewStore(ctx context.Context, loader *Loader, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{
		loader: loader,
		logger: logger.With("component", "fixture_store"),
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload loads every collection again. On failure the previous snapshot is
// kept and the error returned. Concurrent reloads run one at a time, and
// reload callbacks must not call Reload.
func (s *Store) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	snap, err := s.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load fixtures: %w", err)
	}

	s.mu.Lock()
	s.snap = snap
	callbacks := append([]func(*Snapshot){}, s.onReload...)
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(snap.Clone())
	}
	return nil
}

// OnReload registers a callback run with a copy of every new snapshot, in
// reload order.
func (s *Store) OnReload(cb func(*Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReload = append(s.onReload, cb)
}

// Snapshot returns a deep copy of the current snapshot.
func (s *Store) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return s.snap.Clone(), nil
}

// Ready reports whether a snapshot is available.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap != nil
}

// Loader returns the loader the store reads through.
func (s *Store) Loader() *Loader {
	return s.loader
}

// Dashboard returns a copy of the dashboard collection.
func (s *Store) Dashboard(_ context.Context) (types.DashboardData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return types.DashboardData{}, ErrNotLoaded
	}
	return s.snap.Dashboard.Clone(), nil
}

// Corpus returns a copy of the Q&A corpus.
func (s *Store) Corpus(_ context.Context) ([]types.QARecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return nil, ErrNotLoaded
	}
	return types.CloneRecords(s.snap.Corpus), nil
}

// Graph returns a copy of the graph collection.
func (s *Store) Graph(_ context.Context) (types.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		return types.Graph{}, ErrNotLoaded
	}
	return s.snap.Graph.Clone(), nil
}

// Collection returns the collection backing endpoint.
func (s *Store) Collection(ctx context.Context, endpoint Endpoint) (any, error) {
	switch endpoint {
	case DashboardEndpoint:
		return s.Dashboard(ctx)
	case SearchEndpoint:
		return s.Corpus(ctx)
	case GraphEndpoint:
		return s.Graph(ctx)
	}
	return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, endpoint)
}
