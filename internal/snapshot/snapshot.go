package snapshot

import (
	"maps"
	"time"
)

// Key constrains snapshot keys to types encoding/json can use as object keys.
type Key interface {
	~string | ~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Status reports the outcome of a snapshot lookup.
type Status int

const (
	// Miss means the key is unknown or the snapshot is no longer valid.
	Miss Status = iota
	// Hit means a positive record was found.
	Hit
	// NegativeHit means the key was confirmed absent when the snapshot was taken.
	NegativeHit
)

func (s Status) String() string {
	switch s {
	case Hit:
		return "hit"
	case NegativeHit:
		return "negative_hit"
	default:
		return "miss"
	}
}

// Snapshot is the in-memory materialization of one cache record: positive
// records, confirmed-missing keys, and the UNIX second the record was taken.
// Validity applies to the whole snapshot, never to single entries.
type Snapshot[K Key, V any] struct {
	Records   map[K]V
	Negative  map[K]struct{}
	Timestamp uint64
}

// New returns an empty snapshot with a zero timestamp, which is never valid.
func New[K Key, V any]() Snapshot[K, V] {
	return Snapshot[K, V]{
		Records:  make(map[K]V),
		Negative: make(map[K]struct{}),
	}
}

// Valid reports whether now - Timestamp < ttl. A timestamp later than now
// breaks the load invariant and is treated as invalid.
func (s Snapshot[K, V]) Valid(ttl time.Duration, now time.Time) bool {
	nowSecs := UnixSeconds(now)
	if s.Timestamp == 0 || s.Timestamp > nowSecs {
		return false
	}
	return nowSecs-s.Timestamp < uint64(ttl/time.Second)
}

// Lookup returns a positive or negative hit only while the snapshot is valid.
func (s Snapshot[K, V]) Lookup(key K, ttl time.Duration, now time.Time) (V, Status) {
	var zero V
	if !s.Valid(ttl, now) {
		return zero, Miss
	}
	if v, ok := s.Records[key]; ok {
		return v, Hit
	}
	if _, ok := s.Negative[key]; ok {
		return zero, NegativeHit
	}
	return zero, Miss
}

// Known reports whether key has either a positive or a negative entry,
// ignoring validity.
func (s Snapshot[K, V]) Known(key K) bool {
	if _, ok := s.Records[key]; ok {
		return true
	}
	_, ok := s.Negative[key]
	return ok
}

// Put stores a positive record, replacing any previous value or negative marker.
func (s *Snapshot[K, V]) Put(key K, value V) {
	s.ensure()
	s.Records[key] = value
	delete(s.Negative, key)
}

// MarkMissing records key as confirmed absent.
func (s *Snapshot[K, V]) MarkMissing(key K) {
	s.ensure()
	delete(s.Records, key)
	s.Negative[key] = struct{}{}
}

// Touch stamps the snapshot with now.
func (s *Snapshot[K, V]) Touch(now time.Time) {
	s.Timestamp = UnixSeconds(now)
}

// Clone returns a copy whose maps can be mutated independently. Values are
// copied shallowly.
func (s Snapshot[K, V]) Clone() Snapshot[K, V] {
	out := New[K, V]()
	maps.Copy(out.Records, s.Records)
	maps.Copy(out.Negative, s.Negative)
	out.Timestamp = s.Timestamp
	return out
}

func (s *Snapshot[K, V]) ensure() {
	if s.Records == nil {
		s.Records = make(map[K]V)
	}
	if s.Negative == nil {
		s.Negative = make(map[K]struct{})
	}
}

// UnixSeconds converts t to unsigned UNIX seconds, clamping pre-epoch times to zero.
func UnixSeconds(t time.Time) uint64 {
	secs := t.Unix()
	if secs < 0 {
		return 0
	}
	return uint64(secs)
}
