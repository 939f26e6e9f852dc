package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/drafterkit/drafter/internal/logging"
)

const reloadDebounce = 100 * time.Millisecond

// Watcher monitors the config file via fsnotify and delivers reloaded
// configurations on Updates. Editors often emit bursts of write events, so
// reloads are debounced.
type Watcher struct {
	path    string
	updates chan Config

	mu       sync.Mutex
	debounce *time.Timer
}

// NewWatcher watches the config file at path; an empty path uses the default
// location.
func NewWatcher(path string) (*Watcher, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:    resolved,
		updates: make(chan Config, 1),
	}, nil
}

// Updates delivers reloaded configurations. A slow consumer only ever misses
// intermediate states, never the latest one queued.
func (w *Watcher) Updates() <-chan Config {
	return w.updates
}

// Run watches until the context is cancelled. It is a no-op when the config
// directory cannot be watched.
func (w *Watcher) Run(ctx context.Context) {
	logger := logging.Logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn().Err(err).Msg("config watcher unavailable")
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		logger.Warn().Err(err).Str("dir", filepath.Dir(w.path)).Msg("config watch failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.scheduleReload()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn().Err(err).Msg("config watcher error")
		}
	}
}

func (w *Watcher) scheduleReload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(reloadDebounce, w.reload)
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logger := logging.Logger()
		logger.Warn().Err(err).Str("file", w.path).Msg("config reload failed")
		return
	}

	// Replace a queued update rather than blocking the fsnotify loop.
	select {
	case w.updates <- cfg:
	default:
		select {
		case <-w.updates:
		default:
		}
		w.updates <- cfg
	}
}
