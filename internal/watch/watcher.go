// Package watch notices entries appearing or disappearing below an opened
// directory and asks the shell to resend its tree.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"phodit/internal/ipc"
	"phodit/internal/logger"
	"phodit/internal/tree"
)

const DefaultDebounce = 250 * time.Millisecond

type Watcher struct {
	mu       sync.Mutex
	current  *fsnotify.Watcher
	cancel   context.CancelFunc
	root     string
	sender   ipc.Sender
	debounce time.Duration
	logger   logger.Logger
}

func New(sender ipc.Sender, debounce time.Duration, log logger.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		sender:   sender,
		debounce: debounce,
		logger:   log,
	}
}

// Watch replaces the watched set with dirs. Changes anywhere in it are
// reported as a single PathChanged message carrying root.
func (w *Watcher) Watch(root string, dirs []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopLocked()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	if err := fsw.Add(root); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	for _, dir := range dirs {
		if dir == root {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			w.logger.Warning("Watcher", "cannot watch directory", map[string]interface{}{
				"path":  dir,
				"error": err.Error(),
			})
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	w.current = fsw
	w.cancel = cancel
	w.root = root

	go w.loop(ctx, fsw, root)

	w.logger.Debug("Watcher", "watching directory", map[string]interface{}{
		"root":  root,
		"count": len(fsw.WatchList()),
	})
	return nil
}

func (w *Watcher) Root() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.root
}

func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopLocked()
}

func (w *Watcher) Shutdown() {
	w.Stop()
}

func (w *Watcher) stopLocked() {
	if w.cancel != nil {
		w.cancel()
		w.cancel = nil
	}
	if w.current != nil {
		w.current.Close()
		w.current = nil
	}
	w.root = ""
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, root string) {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warning("Watcher", "watch error", map[string]interface{}{
				"root":  root,
				"error": err.Error(),
			})

		case <-pending:
			pending = nil
			w.sender.Send(ipc.PathChanged, root)
		}
	}
}

// Only changes to the set of entries alter the tree.
func relevant(event fsnotify.Event) bool {
	if tree.Excluded(filepath.Base(event.Name)) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
