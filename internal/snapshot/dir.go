package snapshot

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DirBackend stores each kind as <dir>/<kind>.json.
type DirBackend struct {
	dir string
}

// NewDirBackend returns a backend rooted at dir. The directory is created
// lazily on first write.
func NewDirBackend(dir string) *DirBackend {
	return &DirBackend{dir: dir}
}

// Path returns the file backing kind.
func (d *DirBackend) Path(kind string) string {
	return filepath.Join(d.dir, kind+".json")
}

func (d *DirBackend) Read(kind string) ([]byte, error) {
	data, err := os.ReadFile(d.Path(kind))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoRecord
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrNoRecord
	}
	return data, nil
}

// Write replaces the file via a temp file and rename.
func (d *DirBackend) Write(kind string, data []byte) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	path := d.Path(kind)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (d *DirBackend) Remove(kind string) error {
	if err := os.Remove(d.Path(kind)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (d *DirBackend) Close() error { return nil }
