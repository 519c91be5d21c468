package policy

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a policy directory when its YAML files change. Bursts of
// events within the debounce window collapse into one reload.
type Watcher struct {
	dir      string
	debounce time.Duration
	fs       *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
}

func NewWatcher(dir string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, debounce: debounce, fs: fs}, nil
}

// Run blocks until ctx is cancelled, calling onChange after each settled
// burst of relevant file events.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context) error) error {
	defer w.stopTimer()
	slog.Info("policy watcher started", "dir", w.dir, "debounce", w.debounce)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			slog.Debug("policy file event", "path", event.Name, "op", event.Op.String())
			w.schedule(ctx, onChange)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			slog.Warn("policy watcher error", "err", err)
		}
	}
}

func (w *Watcher) Close() error {
	w.stopTimer()
	return w.fs.Close()
}

func (w *Watcher) schedule(ctx context.Context, onChange func(context.Context) error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		if err := onChange(ctx); err != nil {
			slog.Warn("policy reload failed", "dir", w.dir, "err", err)
		}
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

func relevant(event fsnotify.Event) bool {
	if !isPolicyFile(filepath.Base(event.Name)) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
