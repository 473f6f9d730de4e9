// Package watcher reports debounced changes of a set of files.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher calls OnChange once a watched file has been quiet for the
// debounce interval after a write or create.
type Watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	onChange func(path string)
	onError  func(err error)

	mu     sync.Mutex
	files  map[string]bool
	timers map[string]*time.Timer
}

// New creates a watcher. onError may be nil
func New(debounce time.Duration, onChange func(path string), onError func(err error)) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if onError == nil {
		onError = func(error) {}
	}
	return &Watcher{
		fs:       fs,
		debounce: debounce,
		onChange: onChange,
		onError:  onError,
		files:    make(map[string]bool),
		timers:   make(map[string]*time.Timer),
	}, nil
}

// Add starts watching files. Directories are watched rather than the files
// themselves so editors that replace files on save are still noticed.
func (w *Watcher) Add(files ...string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", file, err)
		}
		if err := w.fs.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", abs, err)
		}
		w.files[abs] = true
	}
	return nil
}

// Files returns the number of watched files
func (w *Watcher) Files() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.files)
}

// Run dispatches events until ctx is done, then releases the watcher
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.schedule(filepath.Clean(event.Name))
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.onError(err)
		}
	}
}

// schedule restarts the debounce timer of a watched file
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[path] {
		return
	}
	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.onChange(path)
	})
}

// Close stops pending callbacks and releases the watcher
func (w *Watcher) Close() error {
	w.mu.Lock()
	for _, timer := range w.timers {
		timer.Stop()
	}
	w.timers = make(map[string]*time.Timer)
	w.mu.Unlock()

	return w.fs.Close()
}
