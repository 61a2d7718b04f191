// Package shell routes native application events and view messages to the
// filesystem, the settings store and the version-control provider, and
// sends the results back to the view.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"phodit/internal/fsgate"
	"phodit/internal/ipc"
	"phodit/internal/logger"
	"phodit/internal/settings"
	"phodit/internal/tree"
	"phodit/internal/vcs"
)

var (
	ErrMultipleSelection = errors.New("multiple selection is not supported")
	ErrUnsupportedEntry  = errors.New("not a regular file or directory")
)

const statusTimeout = 10 * time.Second

// Window is the part of the window controller the router drives.
type Window interface {
	SetTitle(title string)
	SetRepresentedFile(path string)
	AddRecentDocument(path string)
}

type TreeWatcher interface {
	Watch(root string, dirs []string) error
	Stop()
}

type Subscriber interface {
	Subscribe(channel string, handler ipc.Handler) func()
}

type Dependencies struct {
	Store   settings.Store
	FS      fsgate.FileSystem
	VCS     vcs.Provider
	Sender  ipc.Sender
	Watcher TreeWatcher
	Logger  logger.Logger
	Now     func() time.Time
	Context context.Context
}

type Router struct {
	session *Session
	store   settings.Store
	fs      fsgate.FileSystem
	builder *tree.Builder
	vcs     vcs.Provider
	sender  ipc.Sender
	watcher TreeWatcher
	window  Window
	logger  logger.Logger
	now     func() time.Time
	ctx     context.Context
}

func NewRouter(deps Dependencies) *Router {
	if deps.FS == nil {
		deps.FS = fsgate.OS{}
	}
	if deps.Logger == nil {
		deps.Logger = logger.NoOpLogger{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Context == nil {
		deps.Context = context.Background()
	}

	return &Router{
		session: NewSession(),
		store:   deps.Store,
		fs:      deps.FS,
		builder: tree.NewBuilder(deps.FS),
		vcs:     deps.VCS,
		sender:  deps.Sender,
		watcher: deps.Watcher,
		logger:  deps.Logger,
		now:     deps.Now,
		ctx:     deps.Context,
	}
}

func (r *Router) Session() *Session {
	return r.session
}

// SetWindow attaches the current window, or detaches it with nil once closed.
func (r *Router) SetWindow(w Window) {
	r.window = w
}

// Open dispatches a picker selection. An empty selection is a cancelled dialog.
func (r *Router) Open(paths []string) error {
	switch len(paths) {
	case 0:
		return nil
	case 1:
	default:
		r.logger.Warning("Router", "rejecting multiple selection", map[string]interface{}{
			"count": len(paths),
		})
		r.sender.Send(ipc.OpenError, ipc.ErrorPayload{
			Path:  paths[0],
			Error: ErrMultipleSelection.Error(),
		})
		return ErrMultipleSelection
	}

	path := paths[0]
	info, err := r.fs.Lstat(path)
	if err != nil {
		r.reportOpenError(path, err)
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	switch {
	case info.IsDir():
		return r.OpenPath(path)
	case info.Mode().IsRegular():
		return r.OpenFile(path)
	}
	return r.rejectEntry(path, info)
}

// checkOpenable rejects entries that exist but are not regular files.
// Missing entries pass and fail later on read.
func (r *Router) checkOpenable(path string) error {
	info, err := r.fs.Lstat(path)
	if err != nil || info.Mode().IsRegular() {
		return nil
	}
	return r.rejectEntry(path, info)
}

// rejectEntry reports the entry to the view without touching state.
func (r *Router) rejectEntry(path string, info fs.FileInfo) error {
	err := fmt.Errorf("cannot open %s (%s): %w", path, info.Mode().Type(), ErrUnsupportedEntry)
	r.reportOpenError(path, err)
	return err
}

// OpenFile remembers path, makes it the save target and sends its text to
// the view. State is not rolled back when the read fails.
func (r *Router) OpenFile(path string) error {
	if r.window != nil {
		r.window.SetTitle(filepath.Base(path))
		r.window.SetRepresentedFile(path)
	}

	r.remember(settings.KeyLastFile, settings.KeyLastPath, path)
	r.session.currentFile = path

	data, err := r.fs.ReadFile(path)
	if err != nil {
		r.reportOpenError(path, err)
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if r.window != nil {
		r.window.AddRecentDocument(path)
	}

	r.logger.Info("Router", "file opened", map[string]interface{}{
		"path":  path,
		"bytes": len(data),
	})
	r.sender.Send(ipc.OneFileOpened, string(data))
	return nil
}

// OpenPath remembers path and sends its status and tree to the view.
func (r *Router) OpenPath(path string) error {
	r.remember(settings.KeyLastPath, settings.KeyLastFile, path)
	r.session.currentPath = path

	root, err := r.sendPath(path)
	if err != nil {
		return err
	}

	r.logger.Info("Router", "path opened", map[string]interface{}{
		"path":  path,
		"nodes": tree.Count(root),
	})

	if r.watcher != nil {
		if err := r.watcher.Watch(path, tree.Dirs(root)); err != nil {
			r.logger.Warning("Router", "directory will not be watched", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
	return nil
}

// RefreshPath resends the tree of the open directory after it changed on disk.
// Notifications for a directory that is no longer open are ignored.
func (r *Router) RefreshPath(path string) error {
	if path == "" || path != r.session.currentPath {
		return nil
	}

	root, err := r.sendPath(path)
	if err != nil {
		return err
	}

	if r.watcher != nil {
		if err := r.watcher.Watch(path, tree.Dirs(root)); err != nil {
			r.logger.Warning("Router", "directory will not be watched", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
	}
	return nil
}

func (r *Router) sendPath(path string) (*tree.Node, error) {
	root, err := r.builder.Build(path)
	if err != nil {
		if r.watcher != nil {
			r.watcher.Stop()
		}
		r.reportOpenError(path, err)
		return nil, err
	}

	r.sender.Send(ipc.GitStatus, r.status(path))
	r.sender.Send(ipc.PathOpened, tree.NewPayload(root))
	return root, nil
}

func (r *Router) status(path string) *vcs.Status {
	if r.vcs == nil {
		return &vcs.Status{Path: path, Clean: true}
	}

	ctx, cancel := context.WithTimeout(r.ctx, statusTimeout)
	defer cancel()

	status, err := r.vcs.Status(ctx, path)
	if err != nil {
		r.logger.Warning("Router", "version control status unavailable", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return &vcs.Status{Path: path, Clean: true}
	}
	return status
}

// Save overwrites the current file with content. Without an open file it
// does nothing.
func (r *Router) Save(content string) error {
	path := r.session.currentFile
	if path == "" {
		r.logger.Debug("Router", "save ignored, no file open", nil)
		return nil
	}

	if err := r.fs.WriteFile(path, []byte(content)); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	r.logger.Info("Router", "file saved", map[string]interface{}{
		"path":  path,
		"bytes": len(content),
	})
	r.sender.Send(ipc.FileSaved, ipc.SavedPayload{Path: path, Bytes: len(content)})
	return nil
}

// remember stores path under key and forgets other, so that exactly one
// target is restored on the next start.
func (r *Router) remember(key, other, path string) {
	if err := r.store.Set(key, settings.Record{File: path, SavedAt: r.now()}); err != nil {
		r.logger.Error("Router", err, map[string]interface{}{"key": key})
	}
	if err := r.store.Remove(other); err != nil {
		r.logger.Error("Router", err, map[string]interface{}{"key": other})
	}
}

func (r *Router) reportOpenError(path string, err error) {
	r.logger.Error("Router", err, map[string]interface{}{"path": path})
	r.sender.Send(ipc.OpenError, ipc.ErrorPayload{Path: path, Error: err.Error()})
}
