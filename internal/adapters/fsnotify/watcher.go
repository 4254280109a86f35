// Package fsnotify implements the ports.FileWatcher interface using
// github.com/fsnotify/fsnotify. It watches the directory containing a
// rules file rather than the file itself — editors commonly save by
// rename-and-replace, which would silently detach a direct file watch —
// and debounces rapid events (several writes can land per save).
package fsnotify

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const debounceInterval = 200 * time.Millisecond

// Watcher implements ports.FileWatcher using fsnotify.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex
}

// NewWatcher creates a new rules-file watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring path. onChange fires, debounced, after every
// write, create, or rename touching the file.
func (w *Watcher) Watch(path string, onChange func()) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := w.fw.Add(filepath.Dir(absPath)); err != nil {
		return err
	}

	var dmu sync.Mutex
	var lastFired time.Time

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if event.Name != absPath {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
					!event.Has(fsnotify.Rename) {
					continue
				}

				dmu.Lock()
				now := time.Now()
				if now.Sub(lastFired) < debounceInterval {
					dmu.Unlock()
					continue
				}
				lastFired = now
				dmu.Unlock()

				onChange()

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}
				// Errors are swallowed — fsnotify recovers automatically

			case <-w.done:
				return
			}
		}
	}()

	return nil
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
