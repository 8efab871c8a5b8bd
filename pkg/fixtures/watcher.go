package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/soundprediction/kgview/pkg/utils"
)

// DefaultDebounce collapses bursts of file events into one reload.
const DefaultDebounce = 500 * time.Millisecond

// ErrEmbeddedFixtures is returned when watching a store that reads the
// embedded fixtures.
var ErrEmbeddedFixtures = errors.New("embedded fixtures cannot be watched")

// Watcher reloads a store when fixture files in its directory change.
type Watcher struct {
	store    *Store
	dir      string
	debounce time.Duration
	logger   *slog.Logger

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// NewWatcher watches the store's fixtures directory. A debounce of zero
// uses DefaultDebounce.
func NewWatcher(store *Store, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	dir := store.Loader().Dir()
	if dir == "" {
		return nil, ErrEmbeddedFixtures
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	return &Watcher{
		store:    store,
		dir:      dir,
		debounce: debounce,
		logger:   logger.With("component", "fixture_watcher"),
		fsw:      fsw,
		stopCh:   make(chan struct{}),
	}, nil
}

// Start runs the watch loop until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer utils.RecoverWithCallback(func(err error) {
			w.logger.Error("Fixture watcher stopped", "error", err)
		})
		w.loop(ctx)
	}()
	w.logger.Info("Watching fixtures", "dir", w.dir)
}

func (w *Watcher) loop(ctx context.Context) {
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 || !isFixtureFile(event.Name) {
				continue
			}
			w.logger.Debug("Fixture file changed", "file", event.Name, "op", event.Op.String())
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Fixture watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	defer utils.RecoverWithCallback(nil)
	if err := w.store.Reload(ctx); err != nil {
		w.logger.Error("Fixture reload failed, keeping previous snapshot", "error", err)
		return
	}
	w.logger.Info("Fixtures reloaded", "dir", w.dir)
}

// Close stops the loop and releases the file watcher.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.stopCh)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

func isFixtureFile(name string) bool {
	switch filepath.Ext(name) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
