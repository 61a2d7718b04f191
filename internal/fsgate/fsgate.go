// Package fsgate is the shell's only route to the host filesystem.
package fsgate

import (
	"errors"
	"io/fs"
	"os"
)

// FileSystem abstracts the calls the shell makes so the router can be
// exercised against fakes.
type FileSystem interface {
	Lstat(path string) (fs.FileInfo, error)
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]fs.DirEntry, error)
	WriteFile(path string, data []byte) error
}

const defaultFileMode fs.FileMode = 0644

type OS struct{}

func (OS) Lstat(path string) (fs.FileInfo, error) {
	return os.Lstat(path)
}

func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OS) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// WriteFile overwrites path in place, keeping the permissions of an existing file.
func (OS) WriteFile(path string, data []byte) error {
	mode := defaultFileMode
	info, err := os.Stat(path)
	switch {
	case err == nil:
		mode = info.Mode().Perm()
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}
	return os.WriteFile(path, data, mode)
}
