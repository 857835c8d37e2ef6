package workshop

import "context"

// QueryOptions tunes a batched item query.
type QueryOptions struct {
	// IncludeChildren asks the platform to list child items (collection members).
	IncludeChildren bool
}

// FetchResult is delivered to a query handler exactly once. Items holds one
// slot per requested id; nil slots are ids the platform did not return.
type FetchResult struct {
	Items []*Item
	Err   error
}

// Session is a callback-driven platform client. QueryItems only registers the
// request: handler runs later, on the goroutine that calls RunCallbacks.
// ctx bounds the request itself. RunCallbacks must never be called
// concurrently on one session.
type Session interface {
	QueryItems(ctx context.Context, ids []uint64, opts QueryOptions, handler func(FetchResult)) error
	RunCallbacks() error
}

// SessionProvider hands out the session bound to an app id.
type SessionProvider interface {
	Session(ctx context.Context, appID uint32) (Session, error)
}
