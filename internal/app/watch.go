package app

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchDir nudges p whenever a file in dir is created or written, so new
// lines are picked up before the next tick. The watcher runs until ctx is
// done.
func watchDir(ctx context.Context, dir string, p *Poller, logger *zap.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					p.Nudge()
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("directory watcher error", zap.Error(err))
			}
		}
	}()
	return nil
}
