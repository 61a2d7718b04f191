package shell

import (
	"errors"
	"fmt"

	"phodit/internal/settings"
)

// Restore reopens the target remembered from the previous run. When both a
// file and a path are remembered, only the newer one is reopened (the file
// on a tie) and the stale key is dropped.
func (r *Router) Restore() error {
	file, hasFile, err := r.lookup(settings.KeyLastFile)
	if err != nil {
		return err
	}
	path, hasPath, err := r.lookup(settings.KeyLastPath)
	if err != nil {
		return err
	}

	if hasFile && hasPath {
		if path.SavedAt.After(file.SavedAt) {
			hasFile = false
			r.forget(settings.KeyLastFile)
		} else {
			hasPath = false
			r.forget(settings.KeyLastPath)
		}
	}

	switch {
	case hasFile:
		r.logger.Info("Router", "restoring file", map[string]interface{}{"path": file.File})
		return r.OpenFile(file.File)
	case hasPath:
		r.logger.Info("Router", "restoring path", map[string]interface{}{"path": path.File})
		return r.OpenPath(path.File)
	}
	return nil
}

func (r *Router) lookup(key string) (settings.Record, bool, error) {
	record, err := r.store.Get(key)
	if errors.Is(err, settings.ErrNotFound) {
		return record, false, nil
	}
	if err != nil {
		return record, false, fmt.Errorf("failed to restore %s: %w", key, err)
	}
	return record, record.File != "", nil
}

func (r *Router) forget(key string) {
	if err := r.store.Remove(key); err != nil {
		r.logger.Error("Router", err, map[string]interface{}{"key": key})
	}
}
