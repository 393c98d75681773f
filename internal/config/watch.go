package config

import (
	"context"
	"os"
	"sync"
	"time"
)

// FileWatcher polls file modification times and calls onChange for each file
// that changed since the previous scan. Files that appear after Start count
// as changed.
type FileWatcher struct {
	paths    []string
	interval time.Duration
	onChange func(string)

	stopOnce sync.Once
	stopCh   chan struct{}
	done     chan struct{}

	lastMTime map[string]time.Time
}

func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	return &FileWatcher{
		paths:     append([]string(nil), paths...),
		interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		done:      make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// Start primes the mtimes synchronously, then polls in a goroutine until ctx
// is done or Stop is called.
func (w *FileWatcher) Start(ctx context.Context) {
	w.scan(true)
	ticker := time.NewTicker(w.interval)
	go func() {
		defer close(w.done)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.scan(false)
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates polling and waits for the goroutine to exit. Call it only
// after Start; calling it twice is fine.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.done
}

func (w *FileWatcher) scan(prime bool) {
	for _, p := range w.paths {
		fi, err := os.Stat(p)
		if err != nil {
			continue // missing: keep the last known mtime
		}
		mt := fi.ModTime()
		last, seen := w.lastMTime[p]
		w.lastMTime[p] = mt
		if prime || (seen && !mt.After(last)) {
			continue
		}
		if w.onChange != nil {
			w.onChange(p)
		}
	}
}
