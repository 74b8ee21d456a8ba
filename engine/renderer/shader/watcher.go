package shader

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-probe/common"
	"github.com/fsnotify/fsnotify"
)

// watcher is the implementation of the Watcher interface.
type watcher struct {
	fs      *fsnotify.Watcher
	mu      *sync.Mutex
	pending map[string]struct{}
	done    chan struct{}
}

// Watcher reports WGSL files that changed on disk. Changes are collected in the background
// and drained by the render loop between frames, so programs are never swapped mid-frame.
type Watcher interface {
	// Drain returns the paths of WGSL files modified since the previous call, sorted.
	//
	// Returns:
	//   - []string: changed file paths, empty when nothing changed
	Drain() []string

	// Close stops watching and releases the underlying file watcher.
	//
	// Returns:
	//   - error: an error from the file watcher
	Close() error
}

var _ Watcher = &watcher{}

// NewWatcher starts watching dir for WGSL file writes.
//
// Parameters:
//   - dir: the shader directory
//
// Returns:
//   - Watcher: the running watcher
//   - error: an error if the directory cannot be watched
func NewWatcher(dir string) (Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("shader: failed to create file watcher: %w", err)
	}
	if err := fs.Add(dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("shader: failed to watch %q: %w", dir, err)
	}
	w := &watcher{
		fs:      fs,
		mu:      &sync.Mutex{},
		pending: make(map[string]struct{}),
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".wgsl") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = struct{}{}
			w.mu.Unlock()
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			common.Logger().Warn("shader watcher error", "error", err)
		}
	}
}

func (w *watcher) Drain() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.pending))
	for p := range w.pending {
		out = append(out, p)
	}
	clear(w.pending)
	slices.Sort(out)
	return out
}

func (w *watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}
