package daemon

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/docpublish/internal/logfields"
)

// Watcher emits a trigger after filesystem changes under the watched paths,
// debounced so one burst of writes causes one publish.
type Watcher struct {
	paths    []string
	debounce time.Duration
	trigger  func()
}

// NewWatcher creates a watcher that calls trigger after changes settle.
func NewWatcher(paths []string, debounce time.Duration, trigger func()) *Watcher {
	return &Watcher{paths: paths, debounce: debounce, trigger: trigger}
}

// Start begins watching and returns once all paths are registered. The watch
// loop runs until the context is canceled. Directories are watched
// recursively; directories created later are added on the fly.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	for _, path := range w.paths {
		if err := addRecursive(fsw, path); err != nil {
			_ = fsw.Close()
			return err
		}
		slog.Info("Watching for changes", logfields.Path(path))
	}

	go w.loop(ctx, fsw)
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer func() {
		_ = fsw.Close()
	}()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(fsw, event.Name)
				}
			}
			slog.Debug("Filesystem change", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.trigger()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", logfields.Error(err))
		}
	}
}

func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path == root {
			return fsw.Add(path)
		}
		return nil
	})
}
