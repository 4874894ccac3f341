package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last change before a
// watched run starts.
const DefaultDebounce = 200 * time.Millisecond

type watchConfig struct {
	debounce time.Duration
	log      *slog.Logger
	done     func(error)
}

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

// WithDebounce sets the quiet period before a run.
func WithDebounce(d time.Duration) WatchOption {
	return func(c *watchConfig) {
		if d > 0 {
			c.debounce = d
		}
	}
}

// WithWatchLogger sets the logger of watch events.
func WithWatchLogger(l *slog.Logger) WatchOption {
	return func(c *watchConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// OnRun registers a callback invoked with the result of every run.
func OnRun(fn func(error)) WatchOption {
	return func(c *watchConfig) { c.done = fn }
}

// Watch calls run once, then again whenever one of paths changes, until
// ctx is done. A path is either a file or a directory whose direct entries
// are watched. Run failures are logged and do not stop watching.
func Watch(ctx context.Context, paths []string, run func(context.Context) error, opts ...WatchOption) error {
	c := &watchConfig{debounce: DefaultDebounce, log: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("flute: create watcher: %w", err)
	}
	defer w.Close()

	files := make(map[string]bool)
	dirs := make(map[string]bool)
	watched := make(map[string]bool)
	for _, p := range paths {
		p = filepath.Clean(p)
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs[p] = true
			watched[p] = true
		} else {
			files[p] = true
			watched[filepath.Dir(p)] = true
		}
	}
	for d := range watched {
		if err := w.Add(d); err != nil {
			return fmt.Errorf("flute: watch %s: %w", d, err)
		}
	}
	relevant := func(name string) bool {
		name = filepath.Clean(name)
		return files[name] || dirs[filepath.Dir(name)]
	}

	trigger := func() {
		err := run(ctx)
		if err != nil {
			c.log.Error("generation failed", "error", err)
		} else {
			c.log.Info("generation finished")
		}
		if c.done != nil {
			c.done(err)
		}
	}
	trigger()

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op == fsnotify.Chmod || !relevant(ev.Name) {
				continue
			}
			c.log.Debug("change detected", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(c.debounce)
			} else {
				timer.Reset(c.debounce)
			}
			fire = timer.C
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("watch error", "error", err)
		case <-fire:
			fire = nil
			trigger()
		}
	}
}
