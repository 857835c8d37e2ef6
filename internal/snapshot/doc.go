// Package snapshot implements the disposable, time-bounded caches behind
// s7forge commands.
//
// A Snapshot holds positive records, a set of keys confirmed missing, and the
// UNIX second it was taken. The TTL applies to the whole snapshot: once it
// lapses every lookup is a Miss no matter what the maps contain.
//
// Store[K, V] reads one snapshot per command invocation and writes it back at
// most once. Loading is fail-open: a missing record, an unreadable backend,
// or undecodable bytes all produce an empty snapshot, classified by Classify
// and logged at debug level only. Saving swallows errors the same way.
//
// Backends are interchangeable: DirBackend (one JSON file per kind, the
// default), BoltBackend, SQLiteBackend, and MemoryBackend for tests. None of
// them lock across processes; concurrent invocations race with last writer
// wins.
package snapshot
