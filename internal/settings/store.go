// Package settings persists the shell's remembered targets as one JSON
// document per key inside the data directory.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	KeyLastFile = "storage.last.file"
	KeyLastPath = "storage.last.path"
)

var (
	ErrNotFound   = errors.New("settings key not found")
	ErrInvalidKey = errors.New("invalid settings key")
)

// Record is the value stored under both remembered-target keys.
type Record struct {
	File    string    `json:"file"`
	SavedAt time.Time `json:"savedAt,omitempty"`
}

type Store interface {
	Get(key string) (Record, error)
	Set(key string, record Record) error
	Remove(key string) error
}

type FileStore struct {
	dir string
	mu  sync.Mutex
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".json"), nil
}

// Get returns ErrNotFound when nothing was stored under key.
func (s *FileStore) Get(key string) (Record, error) {
	var record Record

	path, err := s.path(key)
	if err != nil {
		return record, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return record, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return record, fmt.Errorf("failed to read %s: %w", key, err)
	}

	if err := json.Unmarshal(data, &record); err != nil {
		return record, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return record, nil
}

func (s *FileStore) Set(key string, record Record) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, "."+key+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes key; removing a missing key succeeds.
func (s *FileStore) Remove(key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
