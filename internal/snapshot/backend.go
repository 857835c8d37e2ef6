package snapshot

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
)

// ErrNoRecord is returned by Backend.Read when nothing is stored for a kind.
var ErrNoRecord = errors.New("snapshot: no record")

// Backend persists opaque snapshot payloads keyed by cache kind.
type Backend interface {
	Read(kind string) ([]byte, error)
	Write(kind string, data []byte) error
	// Remove deletes the record for kind; removing an absent record is not an error.
	Remove(kind string) error
	Close() error
}

// Backend names understood by Open.
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// Open constructs the named backend rooted at dir.
func Open(name, dir string) (Backend, error) {
	switch name {
	case BackendFile, "":
		return NewDirBackend(dir), nil
	case BackendBolt:
		return OpenBolt(filepath.Join(dir, "cache.bolt"))
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dir, "cache.db"))
	default:
		return nil, fmt.Errorf("unknown cache backend %q", name)
	}
}

// MemoryBackend keeps payloads in process memory.
type MemoryBackend struct {
	mu      sync.RWMutex
	records map[string][]byte
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string][]byte)}
}

func (m *MemoryBackend) Read(kind string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.records[kind]
	if !ok {
		return nil, ErrNoRecord
	}
	return append([]byte(nil), data...), nil
}

func (m *MemoryBackend) Write(kind string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[kind] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryBackend) Remove(kind string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, kind)
	return nil
}

func (m *MemoryBackend) Close() error { return nil }

// discardBackend stores nothing.
type discardBackend struct{}

func (discardBackend) Read(string) ([]byte, error) { return nil, ErrNoRecord }
func (discardBackend) Write(string, []byte) error  { return nil }
func (discardBackend) Remove(string) error         { return nil }
func (discardBackend) Close() error                { return nil }
