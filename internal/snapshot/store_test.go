package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/7otion/s7forge/internal/services"
)

func fixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

func TestStoreSaveThenLoadAcrossBackends(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	backends := map[string]func(t *testing.T) Backend{
		"memory": func(*testing.T) Backend { return NewMemoryBackend() },
		"file":   func(t *testing.T) Backend { return NewDirBackend(t.TempDir()) },
		"bolt": func(t *testing.T) Backend {
			b, err := OpenBolt(filepath.Join(t.TempDir(), "cache.bolt"))
			if err != nil {
				t.Fatalf("OpenBolt: %v", err)
			}
			return b
		},
		"sqlite": func(t *testing.T) Backend {
			b, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.db"))
			if err != nil {
				t.Fatalf("OpenSQLite: %v", err)
			}
			return b
		},
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			backend := open(t)
			t.Cleanup(func() { _ = backend.Close() })

			store := NewStore[uint64, string](backend, KindWorkshopItems, 24*time.Hour, WithClock(fixedClock(now)))
			if snap := store.Load(); snap.Timestamp != 0 || len(snap.Records) != 0 {
				t.Fatalf("expected empty snapshot before first save, got %+v", snap)
			}

			snap := New[uint64, string]()
			snap.Put(7, "seven")
			snap.MarkMissing(8)
			snap.Touch(now)
			if err := store.Write(snap); err != nil {
				t.Fatalf("Write: %v", err)
			}

			loaded := store.Load()
			if v, status := store.Get(loaded, 7); status != Hit || v != "seven" {
				t.Fatalf("Get(7) = %q, %s", v, status)
			}
			if _, status := store.Get(loaded, 8); status != NegativeHit {
				t.Fatalf("Get(8) = %s", status)
			}

			if err := store.Clear(); err != nil {
				t.Fatalf("Clear: %v", err)
			}
			if err := store.Clear(); err != nil {
				t.Fatalf("second Clear should be a no-op: %v", err)
			}
			if _, err := store.Read(); !errors.Is(err, ErrNoRecord) {
				t.Fatalf("expected ErrNoRecord after clear, got %v", err)
			}
		})
	}
}

func TestStoreLoadFailsOpenOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	backend := NewDirBackend(dir)
	if err := os.WriteFile(backend.Path(KindLibraryPaths), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	store := NewStore[string, []string](backend, KindLibraryPaths, time.Hour)
	_, err := store.Read()
	if !errors.Is(err, services.ErrSerialization) {
		t.Fatalf("expected serialization error, got %v", err)
	}
	if Classify(err) != Corrupt {
		t.Fatalf("expected corrupt outcome, got %s", Classify(err))
	}

	snap := store.Load()
	if snap.Timestamp != 0 || len(snap.Records) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
	if store.Valid(snap) {
		t.Fatal("empty snapshot must not be valid")
	}
}

type failingBackend struct{}

func (failingBackend) Read(string) ([]byte, error) { return nil, errors.New("disk on fire") }
func (failingBackend) Write(string, []byte) error  { return errors.New("read-only") }
func (failingBackend) Remove(string) error         { return nil }
func (failingBackend) Close() error                { return nil }

func TestStoreSwallowsBackendFailures(t *testing.T) {
	store := NewStore[string, string](failingBackend{}, KindWorkshopPaths, time.Hour)

	_, err := store.Read()
	if !errors.Is(err, services.ErrCacheIO) || Classify(err) != Unreadable {
		t.Fatalf("expected cache io error, got %v", err)
	}
	if snap := store.Load(); len(snap.Records) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}

	snap := New[string, string]()
	snap.Put("4000", "/steam/workshop/content/4000")
	store.Save(snap)
	if err := store.Write(snap); !errors.Is(err, services.ErrCacheIO) {
		t.Fatalf("expected cache io error from Write, got %v", err)
	}
}

func TestDirBackendLayout(t *testing.T) {
	dir := t.TempDir()
	backend := NewDirBackend(filepath.Join(dir, "nested"))
	if err := backend.Write(KindAppInstallPaths, []byte(`{}`)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested", "app_install_paths.json")); err != nil {
		t.Fatalf("expected cache file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested", "app_install_paths.json.tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file should be renamed away, stat err=%v", err)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestNilBackendDiscards(t *testing.T) {
	store := NewStore[string, string](nil, KindWorkshopPaths, time.Hour)
	snap := New[string, string]()
	snap.Put("a", "b")
	if err := store.Write(snap); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := store.Read(); !errors.Is(err, ErrNoRecord) {
		t.Fatalf("expected ErrNoRecord, got %v", err)
	}
}
