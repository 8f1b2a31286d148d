// Package watch processes recordings as they appear in a directory.
//
// A recorder writing into the watched directory produces a create event
// long before the file is complete, so every new file is polled until its
// size settles before the handler sees it.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// ErrNotStable is returned when a file keeps changing or stays empty
// beyond the settle timeout.
var ErrNotStable = errors.New("watch: file did not settle")

// Handler processes one settled recording.
type Handler func(ctx context.Context, path string) error

// Default settle parameters.
const (
	DefaultSettleInterval = time.Second
	DefaultSettleTimeout  = 6 * time.Minute
)

// queueSize bounds how many discovered files wait for the worker.
const queueSize = 64

// Config controls a [Watcher].
type Config struct {
	SettleInterval  time.Duration
	SettleTimeout   time.Duration
	DeleteProcessed bool
	Existing        bool
	Logger          *slog.Logger
}

// Option mutates a Config.
type Option func(*Config)

// WithSettle sets the size polling interval and the overall timeout.
func WithSettle(interval, timeout time.Duration) Option {
	return func(cfg *Config) {
		if interval > 0 {
			cfg.SettleInterval = interval
		}
		if timeout > 0 {
			cfg.SettleTimeout = timeout
		}
	}
}

// WithDelete removes each recording after its handler succeeds.
func WithDelete(enabled bool) Option {
	return func(cfg *Config) {
		cfg.DeleteProcessed = enabled
	}
}

// WithExisting also processes recordings already present when Run starts.
func WithExisting(enabled bool) Option {
	return func(cfg *Config) {
		cfg.Existing = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if logger != nil {
			cfg.Logger = logger
		}
	}
}

// Watcher feeds settled WAV files from one directory to a handler, one at
// a time.
type Watcher struct {
	dir    string
	handle Handler
	cfg    Config

	mu     sync.Mutex
	queued map[string]struct{}
}

// New creates a watcher for dir.
func New(dir string, handle Handler, opts ...Option) *Watcher {
	cfg := Config{
		SettleInterval: DefaultSettleInterval,
		SettleTimeout:  DefaultSettleTimeout,
		Logger:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Watcher{
		dir:    dir,
		handle: handle,
		cfg:    cfg,
		queued: make(map[string]struct{}),
	}
}

// IsWAV reports whether name carries a .wav extension.
func IsWAV(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".wav")
}

// Run watches the directory until ctx is cancelled. Handler failures are
// logged and do not stop the watcher. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.dir); err != nil {
		return fmt.Errorf("watch: add %q: %w", w.dir, err)
	}

	jobs := make(chan string, queueSize)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)

		if w.cfg.Existing {
			existing, err := w.scan()
			if err != nil {
				return err
			}
			for _, path := range existing {
				if !w.enqueue(gctx, jobs, path) {
					return nil
				}
			}
		}

		for {
			select {
			case <-gctx.Done():
				return nil
			case event, ok := <-fsw.Events:
				if !ok {
					return errors.New("watch: event stream closed")
				}
				if event.Op&fsnotify.Create == fsnotify.Create && IsWAV(event.Name) {
					if !w.enqueue(gctx, jobs, event.Name) {
						return nil
					}
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return errors.New("watch: error stream closed")
				}
				w.cfg.Logger.Warn("watcher error", "dir", w.dir, "err", err)
			}
		}
	})

	g.Go(func() error {
		for path := range jobs {
			w.process(gctx, path)
			w.release(path)
		}
		return nil
	})

	return g.Wait()
}

func (w *Watcher) scan() ([]string, error) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return nil, fmt.Errorf("watch: scan %q: %w", w.dir, err)
	}

	var paths []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsWAV(e.Name()) {
			paths = append(paths, filepath.Join(w.dir, e.Name()))
		}
	}
	slices.Sort(paths)

	return paths, nil
}

// enqueue queues path unless it is already pending. It returns false when
// ctx ends first.
func (w *Watcher) enqueue(ctx context.Context, jobs chan<- string, path string) bool {
	w.mu.Lock()
	if _, dup := w.queued[path]; dup {
		w.mu.Unlock()
		return true
	}
	w.queued[path] = struct{}{}
	w.mu.Unlock()

	select {
	case jobs <- path:
		return true
	case <-ctx.Done():
		return false
	}
}

func (w *Watcher) release(path string) {
	w.mu.Lock()
	delete(w.queued, path)
	w.mu.Unlock()
}

func (w *Watcher) process(ctx context.Context, path string) {
	log := w.cfg.Logger.With("file", filepath.Base(path))

	size, err := WaitStable(ctx, path, w.cfg.SettleInterval, w.cfg.SettleTimeout)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn("skipping recording", "err", err)
		}
		return
	}
	log.Debug("recording settled", "bytes", size)

	if err := w.handle(ctx, path); err != nil {
		log.Error("processing failed", "err", err)
		return
	}

	if w.cfg.DeleteProcessed {
		if err := os.Remove(path); err != nil {
			log.Warn("delete failed", "err", err)
			return
		}
		log.Debug("recording deleted")
	}
}

// WaitStable polls the size of path every interval until two consecutive
// readings agree on a non-zero size, and returns that size. It fails with
// [ErrNotStable] after timeout and with the stat error when the file
// disappears.
func WaitStable(ctx context.Context, path string, interval, timeout time.Duration) (int64, error) {
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := int64(-1)
	for {
		info, err := os.Stat(path)
		if err != nil {
			return 0, fmt.Errorf("watch: %w", err)
		}

		size := info.Size()
		if size > 0 && size == last {
			return size, nil
		}
		last = size

		if time.Now().After(deadline) {
			return 0, fmt.Errorf("%w: %s after %s", ErrNotStable, filepath.Base(path), timeout)
		}

		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
		}
	}
}
