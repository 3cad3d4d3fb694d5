// Package fsys is the local filesystem collaborator consumed by the
// sync executor.
package fsys

import (
	"fmt"
	"os"
)

type Entry struct {
	Name  string
	IsDir bool
	Size  int64
}

type FS interface {
	// ListDir enumerates the immediate entries of a directory.
	ListDir(path string) ([]Entry, error)
	ReadFile(path string) ([]byte, error)
	DirExists(path string) bool
}

type OS struct{}

func (OS) ListDir(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		entry := Entry{Name: de.Name(), IsDir: de.IsDir()}
		if info, err := de.Info(); err == nil {
			entry.Size = info.Size()
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (OS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (OS) DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
