// Package workshop answers Steam Workshop item requests through a
// time-bounded cache.
//
// Service.Items is the orchestrator: it loads the item snapshot, asks Plan
// which ids the cache cannot answer, fetches only those through a Bridge,
// folds the result back with Merge, rebuilds the response with OrderOutput,
// and attaches creator names with one NameResolver call.
//
// The Bridge adapts a callback-driven Session to a blocking call. A worker
// goroutine issues the query and polls for completion, signalling "pump
// needed" on a bounded channel; the calling goroutine performs each pump, so
// RunCallbacks is never concurrent. The worker enforces the hard timeout
// itself. Every fetch ends in exactly one of Completed, Failed, TimedOut, or
// InternalTaskError, and nothing is retried.
package workshop
