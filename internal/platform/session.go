package platform

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/7otion/s7forge/internal/workshop"
)

// ErrConcurrentPump is returned when RunCallbacks is entered while another
// call on the same session is still running.
var ErrConcurrentPump = errors.New("platform: concurrent RunCallbacks on one session")

// Session is a callback-driven view of the Web API bound to one app id.
// Requests run in the background under the context passed to QueryItems;
// their handlers are queued and only run inside RunCallbacks, on the
// caller's goroutine.
type Session struct {
	appID  uint32
	client *Client

	mu      sync.Mutex
	pending []func()
	pumping atomic.Bool
	flights sync.WaitGroup
}

var _ workshop.Session = (*Session)(nil)

func newSession(appID uint32, client *Client) *Session {
	return &Session{appID: appID, client: client}
}

// QueryItems starts a GetDetails request for ids. handler is invoked exactly
// once, from a later RunCallbacks call.
func (s *Session) QueryItems(ctx context.Context, ids []uint64, opts workshop.QueryOptions, handler func(workshop.FetchResult)) error {
	if len(ids) == 0 {
		return errors.New("query items: no ids")
	}
	if handler == nil {
		return errors.New("query items: nil handler")
	}
	batch := append([]uint64(nil), ids...)

	s.flights.Add(1)
	go func() {
		defer s.flights.Done()
		items, err := s.client.GetDetails(ctx, batch, opts.IncludeChildren)
		if err != nil {
			err = fmt.Errorf("%s: %w", appLabel(s.appID), err)
		}
		result := workshop.FetchResult{Items: items, Err: err}
		s.enqueue(func() { handler(result) })
	}()
	return nil
}

// RunCallbacks delivers every completion queued so far.
func (s *Session) RunCallbacks() error {
	if !s.pumping.CompareAndSwap(false, true) {
		return ErrConcurrentPump
	}
	defer s.pumping.Store(false)

	s.mu.Lock()
	ready := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range ready {
		fn()
	}
	return nil
}

// Wait blocks until every in-flight request has queued its completion.
func (s *Session) Wait() {
	s.flights.Wait()
}

func (s *Session) enqueue(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}
