package workshop

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Sleep advances simulated time instead of blocking.
func (c *fakeClock) Sleep(d time.Duration) {
	c.Advance(d)
	runtime.Gosched()
}

// fakeSession answers queries from a catalog, delivering results only when
// pumped.
type fakeSession struct {
	mu       sync.Mutex
	catalog  map[uint64]Item
	queryErr error
	fetchErr error
	pumpErr  error
	silent   bool
	panics   bool
	queries  [][]uint64
	pending  []func()

	pumps      atomic.Int64
	inPump     atomic.Bool
	concurrent atomic.Bool
}

func newFakeSession(items ...Item) *fakeSession {
	s := &fakeSession{catalog: make(map[uint64]Item)}
	for _, item := range items {
		s.catalog[item.PublishedFileID] = item
	}
	return s
}

func (s *fakeSession) QueryItems(_ context.Context, ids []uint64, _ QueryOptions, handler func(FetchResult)) error {
	if s.panics {
		panic("query exploded")
	}
	if s.queryErr != nil {
		return s.queryErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queries = append(s.queries, append([]uint64(nil), ids...))
	if s.silent {
		return nil
	}
	result := FetchResult{Err: s.fetchErr}
	if s.fetchErr == nil {
		result.Items = make([]*Item, len(ids))
		for i, id := range ids {
			if item, ok := s.catalog[id]; ok {
				result.Items[i] = &item
			}
		}
	}
	s.pending = append(s.pending, func() { handler(result) })
	return nil
}

func (s *fakeSession) RunCallbacks() error {
	if s.inPump.Swap(true) {
		s.concurrent.Store(true)
	}
	defer s.inPump.Store(false)
	s.pumps.Add(1)
	if s.pumpErr != nil {
		return s.pumpErr
	}
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return nil
}

func (s *fakeSession) Queries() [][]uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]uint64(nil), s.queries...)
}

type fakeProvider struct {
	session *fakeSession
	err     error
	calls   int
}

func (p *fakeProvider) Session(context.Context, uint32) (Session, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

type fakeResolver struct {
	names map[uint64]string
	err   error
	// partial returns the known names alongside err instead of nothing.
	partial bool
	calls   [][]uint64
}

func (r *fakeResolver) ResolveNames(_ context.Context, ids []uint64, _ uint32) (map[uint64]string, error) {
	r.calls = append(r.calls, append([]uint64(nil), ids...))
	if r.err != nil && !r.partial {
		return nil, r.err
	}
	out := make(map[uint64]string)
	for _, id := range ids {
		if name, ok := r.names[id]; ok {
			out[id] = name
		}
	}
	return out, r.err
}

var errBoom = errors.New("boom")

func communityItem(id, owner uint64) Item {
	return Item{
		PublishedFileID: id,
		Title:           "item",
		FileType:        "Community",
		Owner:           Owner{SteamID64: owner},
		Tags:            []string{"Maps"},
	}
}

func fastBridgeConfig() BridgeConfig {
	cfg := DefaultBridgeConfig()
	cfg.PollInterval = time.Millisecond
	cfg.Timeout = 5 * time.Second
	return cfg
}
