package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDelay is how long a burst of file events is coalesced before callers
// are told to refetch.
const watchDelay = 100 * time.Millisecond

// Watch signals on the returned channel whenever stored records change. A
// burst of writes produces a single signal. The channel is closed once ctx is
// done or the watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := os.MkdirAll(s.base, 0o700); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("storage: create watcher: %w", err)
	}

	dirs, err := s.collectDirs()
	if err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("storage: enumerate directories: %w", err)
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("storage: watch %s: %w", dir, err)
		}
	}

	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
			// A signal is already pending; the reader will refetch anyway.
		}
	}

	go func() {
		defer close(changes)
		defer watcher.Close()

		watched := make(map[string]struct{}, len(dirs))
		for _, dir := range dirs {
			watched[dir] = struct{}{}
		}

		coalesce := newCoalescer(watchDelay, notify)
		defer coalesce.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				fmt.Fprintf(os.Stderr, "Warning: storage watcher: %v\n", err)
				coalesce.Trigger()
			case evt, ok := <-watcher.Events:
				if !ok {
					return
				}
				if s.ignored(evt.Name) {
					continue
				}
				if evt.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						dir := filepath.Clean(evt.Name)
						if _, found := watched[dir]; !found {
							if err := watcher.Add(dir); err != nil {
								fmt.Fprintf(os.Stderr, "Warning: storage watch %s: %v\n", dir, err)
							} else {
								watched[dir] = struct{}{}
							}
						}
					}
				}
				coalesce.Trigger()
			}
		}
	}()

	return changes, nil
}

// ignored reports whether path is scratch space rather than a record file.
func (s *Store) ignored(path string) bool {
	rel, err := filepath.Rel(s.base, path)
	if err != nil {
		return true
	}
	return rel == tempDir || strings.HasPrefix(rel, tempDir+string(os.PathSeparator)) ||
		strings.HasSuffix(rel, ".corrupt")
}

func (s *Store) collectDirs() ([]string, error) {
	dirs := []string{s.base}
	err := filepath.WalkDir(s.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() || path == s.base {
			return nil
		}
		if s.ignored(path) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	return dirs, err
}

// coalescer runs fn once per burst of Trigger calls.
type coalescer struct {
	mu      sync.Mutex
	timer   *time.Timer
	delay   time.Duration
	fn      func()
	stopped bool
}

func newCoalescer(delay time.Duration, fn func()) *coalescer {
	return &coalescer{delay: delay, fn: fn}
}

func (c *coalescer) Trigger() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer == nil && !c.stopped {
		c.timer = time.AfterFunc(c.delay, c.fire)
	}
}

// fire holds the lock while calling fn so that fn never runs after Stop returns.
func (c *coalescer) fire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = nil
	if !c.stopped {
		c.fn()
	}
}

func (c *coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}
