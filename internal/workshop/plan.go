package workshop

import (
	"time"

	"github.com/7otion/s7forge/internal/snapshot"
)

// ItemSnapshot is the cached view of workshop items keyed by published file id.
type ItemSnapshot = snapshot.Snapshot[uint64, Item]

// Plan returns the ids that must be fetched, deduplicated in first-seen
// order. An expired snapshot contributes nothing, so every requested id is
// fetched; a valid one excludes ids it already knows, found or missing.
func Plan(requested []uint64, snap ItemSnapshot, ttl time.Duration, now time.Time) []uint64 {
	if len(requested) == 0 {
		return nil
	}
	valid := snap.Valid(ttl, now)
	seen := make(map[uint64]struct{}, len(requested))
	delta := make([]uint64, 0, len(requested))
	for _, id := range requested {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if valid && snap.Known(id) {
			continue
		}
		delta = append(delta, id)
	}
	return delta
}
