package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Handler re-runs the pipeline after the store file changed.
type Handler func(ctx context.Context) error

// Watcher follows one store file and calls its handler once the file has
// been quiet for the debounce period. Changes seen within one debounce
// period after a handler run are ignored, so a handler that saves the file
// itself does not trigger another run.
type Watcher struct {
	path     string
	debounce time.Duration
	handle   Handler
	logger   *zap.Logger
}

func New(path string, debounce time.Duration, handle Handler, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		path:     filepath.Clean(path),
		debounce: debounce,
		handle:   handle,
		logger:   logger,
	}
}

// Run blocks until ctx is done. The parent directory is watched rather
// than the file, since spreadsheet tools replace files on save.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.logger.Info("watching store", zap.String("path", w.path), zap.Duration("debounce", w.debounce))

	var (
		timer      *time.Timer
		fire       <-chan time.Time
		quietUntil time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(evt) || time.Now().Before(quietUntil) {
				continue
			}
			w.logger.Debug("store changed", zap.String("op", evt.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := w.handle(ctx); err != nil {
				w.logger.Error("re-run failed", zap.Error(err))
			}
			quietUntil = time.Now().Add(w.debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if filepath.Clean(evt.Name) != w.path {
		return false
	}
	return evt.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}
