package icongen

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/k1LoW/errors"
)

const watchDebounce = 300 * time.Millisecond

// Watch generates once and then regenerates whenever the local source file changes, until ctx is done.
// Failed regenerations are logged and do not stop watching.
func (g *Generator) Watch(ctx context.Context, source string) (err error) {
	defer func() {
		err = errors.WithStack(err)
	}()
	if isRemote(source) {
		return fmt.Errorf("cannot watch remote source: %s", source)
	}
	if _, err := g.Generate(ctx, source); err != nil {
		return err
	}

	abs, err := filepath.Abs(source)
	if err != nil {
		return fmt.Errorf("failed to resolve source path: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer w.Close()
	// Watch the directory: editors often replace the file instead of writing it in place.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	g.logger.Info("watching source", slog.String("source", source))

	changed := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
		case <-changed:
			g.logger.Info("source changed", slog.String("source", source))
			if _, err := g.Generate(ctx, source); err != nil {
				g.logger.Error("failed to regenerate icons", slog.String("error", err.Error()))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("watcher error", slog.String("error", err.Error()))
		}
	}
}
