// Package preferences persists the user's light/dark theme choice.
//
// The store is read once when opened and written on every change; callers
// hold the *Store explicitly instead of reaching for global state.
package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/soundprediction/kgview/pkg/config"
	"github.com/soundprediction/kgview/pkg/types"
)

var themeKey = []byte("preferences/theme")

// ErrClosed is returned by writes after Close.
var ErrClosed = errors.New("preference store closed")

type themeRecord struct {
	Theme     types.Theme `json:"theme"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Store keeps the current theme in memory and mirrors every change to a
// badger database. An empty path keeps the database in memory.
type Store struct {
	mu           sync.RWMutex
	db           *badger.DB
	path         string
	defaultTheme types.Theme
	current      types.Theme
	stored       bool
	logger       *slog.Logger
}

// Open opens the store described by cfg and loads the persisted theme.
func Open(cfg config.PreferencesConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}

	defaultTheme := types.ThemeLight
	if cfg.DefaultTheme != "" {
		t, err := types.ParseTheme(cfg.DefaultTheme)
		if err != nil {
			return nil, err
		}
		defaultTheme = t
	}

	opts := badger.DefaultOptions(cfg.Path).WithLogger(nil)
	if cfg.Path == "" {
		opts = opts.WithInMemory(true)
	} else if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create preferences directory: %w", err)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}

	s := &Store{
		db:           db,
		path:         cfg.Path,
		defaultTheme: defaultTheme,
		current:      defaultTheme,
		logger:       logger.With("component", "preferences"),
	}
	if _, err := s.Load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Load reads the persisted theme. Without a stored value the default
// theme applies.
func (s *Store) Load() (types.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return "", ErrClosed
	}

	var rec themeRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(themeKey)
		if err != nil {
			return err
		}
		val, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		return json.Unmarshal(val, &rec)
	})

	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		s.current, s.stored = s.defaultTheme, false
	case err != nil:
		return "", fmt.Errorf("failed to read theme: %w", err)
	default:
		t, perr := types.ParseTheme(string(rec.Theme))
		if perr != nil {
			s.logger.Warn("Ignoring invalid stored theme", "theme", rec.Theme)
			s.current, s.stored = s.defaultTheme, false
			break
		}
		s.current, s.stored = t, true
	}
	return s.current, nil
}

// Theme returns the active theme.
func (s *Store) Theme() types.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsStored reports whether the active theme was chosen explicitly rather
// than taken from the default.
func (s *Store) IsStored() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stored
}

// Set persists theme and makes it active.
func (s *Store) Set(theme types.Theme) error {
	t, err := types.ParseTheme(string(theme))
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(t)
}

// Toggle flips between light and dark and persists the result.
func (s *Store) Toggle() (types.Theme, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.current.Toggle()
	if err := s.setLocked(next); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Store) setLocked(t types.Theme) error {
	if s.db == nil {
		return ErrClosed
	}
	val, err := json.Marshal(themeRecord{Theme: t, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(themeKey, val)
	}); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	s.current, s.stored = t, true
	s.logger.Debug("Theme saved", "theme", t)
	return nil
}

// Ping reports whether the store is usable.
func (s *Store) Ping() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.db == nil || s.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

// Close closes the database. Further writes fail with ErrClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
