package snapshot

import (
	"errors"
	"log/slog"
	"time"

	"github.com/7otion/s7forge/internal/logging"
	"github.com/7otion/s7forge/internal/services"
)

// Cache kinds. Each kind is one persisted record.
const (
	KindWorkshopItems   = "workshop_items"
	KindAppInstallPaths = "app_install_paths"
	KindLibraryPaths    = "library_paths"
	KindWorkshopPaths   = "workshop_paths"
)

// Kinds lists every cache kind s7forge maintains.
var Kinds = []string{KindWorkshopItems, KindAppInstallPaths, KindLibraryPaths, KindWorkshopPaths}

// LoadOutcome classifies why a load produced an empty snapshot.
type LoadOutcome int

const (
	// Loaded means the stored record decoded successfully.
	Loaded LoadOutcome = iota
	// Absent means nothing has been stored for the kind yet.
	Absent
	// Unreadable means the backend failed to read (ErrCacheIO).
	Unreadable
	// Corrupt means the stored bytes did not decode (ErrSerialization).
	Corrupt
)

func (o LoadOutcome) String() string {
	switch o {
	case Loaded:
		return "loaded"
	case Absent:
		return "absent"
	case Unreadable:
		return "unreadable"
	default:
		return "corrupt"
	}
}

// Classify maps a Read error onto the fail-open policy. Every outcome other
// than Loaded downgrades to an empty snapshot.
func Classify(err error) LoadOutcome {
	switch {
	case err == nil:
		return Loaded
	case errors.Is(err, ErrNoRecord):
		return Absent
	case errors.Is(err, services.ErrSerialization):
		return Corrupt
	default:
		return Unreadable
	}
}

// Store loads and saves one snapshot kind through a Backend.
type Store[K Key, V any] struct {
	backend Backend
	kind    string
	ttl     time.Duration
	clock   Clock
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*storeOptions)

type storeOptions struct {
	clock  Clock
	logger *slog.Logger
}

// WithClock overrides the wall clock.
func WithClock(clock Clock) Option {
	return func(o *storeOptions) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *storeOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewStore creates a store for kind with the given TTL. A nil backend behaves
// like an empty, write-discarding cache.
func NewStore[K Key, V any](backend Backend, kind string, ttl time.Duration, opts ...Option) *Store[K, V] {
	o := storeOptions{clock: SystemClock{}, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if backend == nil {
		backend = discardBackend{}
	}
	return &Store[K, V]{
		backend: backend,
		kind:    kind,
		ttl:     ttl,
		clock:   o.clock,
		logger:  logging.NewComponentLogger(o.logger, "snapshot").With(logging.String("kind", kind)),
	}
}

// TTL returns the validity window applied to this kind.
func (s *Store[K, V]) TTL() time.Duration { return s.ttl }

// Now returns the store clock's current time.
func (s *Store[K, V]) Now() time.Time { return s.clock.Now() }

// Valid reports whether snap is still within the store TTL.
func (s *Store[K, V]) Valid(snap Snapshot[K, V]) bool {
	return snap.Valid(s.ttl, s.clock.Now())
}

// Get looks key up in snap, reporting Miss whenever snap has expired.
func (s *Store[K, V]) Get(snap Snapshot[K, V], key K) (V, Status) {
	return snap.Lookup(key, s.ttl, s.clock.Now())
}

// Read returns the stored snapshot or a typed error: ErrNoRecord when absent,
// services.ErrCacheIO when the backend fails, services.ErrSerialization when
// the bytes do not decode.
func (s *Store[K, V]) Read() (Snapshot[K, V], error) {
	data, err := s.backend.Read(s.kind)
	if err != nil {
		if errors.Is(err, ErrNoRecord) {
			return New[K, V](), err
		}
		return New[K, V](), services.Wrap(services.ErrCacheIO, "snapshot", "read", s.kind, err)
	}
	snap, err := decode[K, V](data)
	if err != nil {
		return New[K, V](), services.Wrap(services.ErrSerialization, "snapshot", "decode", s.kind, err)
	}
	return snap, nil
}

// Load returns the stored snapshot, or an empty one with a zero timestamp if
// anything goes wrong. Failures are logged at debug level only.
func (s *Store[K, V]) Load() Snapshot[K, V] {
	snap, err := s.Read()
	switch outcome := Classify(err); outcome {
	case Loaded:
		s.logger.Debug("loaded snapshot",
			logging.Int("records", len(snap.Records)),
			logging.Int("negative", len(snap.Negative)),
			logging.Bool("valid", s.Valid(snap)))
		return snap
	case Absent:
		s.logger.Debug("no snapshot stored")
	default:
		s.logger.Debug("discarding snapshot",
			logging.String("outcome", outcome.String()),
			logging.Error(err))
	}
	return New[K, V]()
}

// Write encodes snap and overwrites the stored record.
func (s *Store[K, V]) Write(snap Snapshot[K, V]) error {
	data, err := encode(snap)
	if err != nil {
		return services.Wrap(services.ErrSerialization, "snapshot", "encode", s.kind, err)
	}
	if err := s.backend.Write(s.kind, data); err != nil {
		return services.Wrap(services.ErrCacheIO, "snapshot", "write", s.kind, err)
	}
	return nil
}

// Save is Write with failures swallowed: the cache is disposable.
func (s *Store[K, V]) Save(snap Snapshot[K, V]) {
	if err := s.Write(snap); err != nil {
		s.logger.Debug("snapshot not persisted", logging.Error(err))
		return
	}
	s.logger.Debug("saved snapshot",
		logging.Int("records", len(snap.Records)),
		logging.Int("negative", len(snap.Negative)))
}

// Clear removes the stored record for this kind.
func (s *Store[K, V]) Clear() error {
	if err := s.backend.Remove(s.kind); err != nil {
		return services.Wrap(services.ErrCacheIO, "snapshot", "remove", s.kind, err)
	}
	return nil
}
