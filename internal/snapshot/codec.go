package snapshot

import (
	"encoding/json"
	"slices"
)

// record is the persisted shape of a snapshot. It carries no version field;
// content that does not decode is treated as an empty cache.
type record[K Key, V any] struct {
	Records   map[K]V `json:"records"`
	Negative  []K     `json:"negative,omitempty"`
	Timestamp uint64  `json:"timestamp"`
}

func encode[K Key, V any](snap Snapshot[K, V]) ([]byte, error) {
	rec := record[K, V]{
		Records:   snap.Records,
		Timestamp: snap.Timestamp,
	}
	if rec.Records == nil {
		rec.Records = map[K]V{}
	}
	if len(snap.Negative) > 0 {
		rec.Negative = make([]K, 0, len(snap.Negative))
		for k := range snap.Negative {
			rec.Negative = append(rec.Negative, k)
		}
		// sorted so equal snapshots encode identically
		slices.Sort(rec.Negative)
	}
	return json.Marshal(rec)
}

func decode[K Key, V any](data []byte) (Snapshot[K, V], error) {
	var rec record[K, V]
	if err := json.Unmarshal(data, &rec); err != nil {
		return Snapshot[K, V]{}, err
	}
	snap := New[K, V]()
	for k, v := range rec.Records {
		snap.Records[k] = v
	}
	for _, k := range rec.Negative {
		snap.Negative[k] = struct{}{}
	}
	snap.Timestamp = rec.Timestamp
	return snap, nil
}
