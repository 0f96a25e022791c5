package fs

import (
	"context"
	"fmt"
	iofs "io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/TheReal-Flo/SaveMyMind/pkg/core"
)

// debounceWindow coalesces the burst of fsnotify events produced by an
// atomic write (create temp, write, rename) into a single logical change.
const debounceWindow = 50 * time.Millisecond

// Watch emits an Event whenever a key matching pattern changes on disk
// outside this process. The pattern uses doublestar glob syntax against
// slash-separated keys (e.g. "notes", "asset/*", "**").
//
// The returned channel closes when ctx is cancelled. Watching is advisory:
// it tells a caller to re-read, it is not a sync mechanism.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan core.Event, error) {
	if pattern == "" {
		pattern = "**"
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("fs: invalid watch pattern %q", pattern)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fs: failed to create watcher: %w", err)
	}
	if err := s.addRecursive(watcher); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	events := make(chan core.Event)
	deb := newDebouncer(debounceWindow)

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(events)
		defer watcher.Close()
		defer deb.stop()

		for {
			select {
			case <-ctx.Done():
				return nil

			case ev, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				key, etype, match := s.classify(ev, pattern)
				if !match {
					continue
				}
				deb.add(key, func() {
					select {
					case events <- core.Event{Type: etype, ID: key, Timestamp: time.Now().Unix()}:
					case <-ctx.Done():
					}
				})

			case werr, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				s.logger.Error("fsnotify error", "error", werr)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.logger.Error("watch loop panic", "error", err)
	}))

	return events, nil
}

// addRecursive registers the root and every existing subdirectory.
func (s *Store) addRecursive(watcher *fsnotify.Watcher) error {
	return filepath.WalkDir(s.path, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				return fmt.Errorf("fs: failed to watch %s: %w", path, err)
			}
		}
		return nil
	})
}

// classify maps a filesystem event onto a key-level store event.
func (s *Store) classify(ev fsnotify.Event, pattern string) (key string, etype core.EventType, match bool) {
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, TempFilePrefix) {
		return "", "", false
	}

	rel, err := filepath.Rel(s.path, ev.Name)
	if err != nil {
		return "", "", false
	}
	key = filepath.ToSlash(rel)

	ok, err := doublestar.Match(pattern, key)
	if err != nil || !ok {
		return "", "", false
	}

	switch {
	case ev.Has(fsnotify.Create):
		return key, core.EventCreate, true
	case ev.Has(fsnotify.Write):
		return key, core.EventModify, true
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		return key, core.EventDelete, true
	default:
		return "", "", false
	}
}

// debouncer collapses rapid repeated events per key into the last one.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	timers  map[string]*time.Timer
	stopped bool
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window, timers: make(map[string]*time.Timer)}
}

// add schedules fn for key, replacing any pending invocation for the same
// key. Only the last fn within the window runs.
func (d *debouncer) add(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	d.timers[key] = time.AfterFunc(d.window, func() {
		d.mu.Lock()
		delete(d.timers, key)
		stopped := d.stopped
		d.mu.Unlock()
		if !stopped {
			fn()
		}
	})
}

// stop cancels all pending timers and rejects further events.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}
