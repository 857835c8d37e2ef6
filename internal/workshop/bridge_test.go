package workshop

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/7otion/s7forge/internal/services"
)

func TestBridgeFetchFiltersPrimaryFileType(t *testing.T) {
	collection := communityItem(3, 1)
	collection.FileType = "Collection"
	session := newFakeSession(communityItem(1, 1), collection)

	var (
		mu     sync.Mutex
		states []State
	)
	bridge := NewBridge(session, fastBridgeConfig(), WithStateObserver(func(s State) {
		mu.Lock()
		states = append(states, s)
		mu.Unlock()
	}))

	items, err := bridge.Fetch(context.Background(), []uint64{1, 2, 3})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(items) != 1 || items[0].PublishedFileID != 1 {
		t.Fatalf("expected only community item 1, got %+v", items)
	}
	if bridge.State() != Completed {
		t.Fatalf("state = %s", bridge.State())
	}
	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(states, []State{Fetching, Completed}) {
		t.Fatalf("transitions = %v", states)
	}
	if session.pumps.Load() == 0 {
		t.Fatal("expected at least one pump")
	}
	if session.concurrent.Load() {
		t.Fatal("pumps overlapped")
	}
}

func TestBridgeTimesOutAtConfiguredLimit(t *testing.T) {
	clock := newFakeClock()
	session := newFakeSession()
	session.silent = true

	bridge := NewBridge(session, DefaultBridgeConfig(), WithBridgeClock(clock.Now), WithSleeper(clock.Sleep))
	start := clock.Now()

	_, err := bridge.Fetch(context.Background(), []uint64{1})
	if !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if errors.Is(err, services.ErrExternalAPI) {
		t.Fatal("timeout must not be reported as an external api error")
	}
	elapsed := clock.Now().Sub(start)
	if elapsed < 30*time.Second {
		t.Fatalf("timed out early after %s", elapsed)
	}
	if elapsed > 31*time.Second {
		t.Fatalf("timed out late after %s", elapsed)
	}
	if bridge.State() != TimedOut {
		t.Fatalf("state = %s", bridge.State())
	}
	if !strings.Contains(err.Error(), "timed out waiting for Steam response") {
		t.Fatalf("unexpected message %q", err)
	}
}

func TestBridgePropagatesPlatformError(t *testing.T) {
	session := newFakeSession()
	session.fetchErr = errors.New("k_EResultAccessDenied")

	bridge := NewBridge(session, fastBridgeConfig())
	_, err := bridge.Fetch(context.Background(), []uint64{1})
	if !errors.Is(err, services.ErrExternalAPI) {
		t.Fatalf("expected external api error, got %v", err)
	}
	if !strings.Contains(err.Error(), "k_EResultAccessDenied") {
		t.Fatalf("platform message lost: %v", err)
	}
	if bridge.State() != Failed {
		t.Fatalf("state = %s", bridge.State())
	}
}

func TestBridgeReportsPumpFailureAsExternalAPI(t *testing.T) {
	session := newFakeSession(communityItem(1, 1))
	session.pumpErr = errBoom

	bridge := NewBridge(session, fastBridgeConfig())
	_, err := bridge.Fetch(context.Background(), []uint64{1})
	if !errors.Is(err, services.ErrExternalAPI) || !errors.Is(err, errBoom) {
		t.Fatalf("expected wrapped pump error, got %v", err)
	}
	if bridge.State() != Failed {
		t.Fatalf("state = %s", bridge.State())
	}
}

func TestBridgeRecoversWorkerPanic(t *testing.T) {
	session := newFakeSession()
	session.panics = true

	bridge := NewBridge(session, fastBridgeConfig())
	_, err := bridge.Fetch(context.Background(), []uint64{1})
	if !errors.Is(err, services.ErrInternalTask) {
		t.Fatalf("expected internal task error, got %v", err)
	}
	if bridge.State() != InternalTaskError {
		t.Fatalf("state = %s", bridge.State())
	}
}

func TestBridgeQuerySetupFailureIsInternal(t *testing.T) {
	session := newFakeSession()
	session.queryErr = errBoom

	_, err := NewBridge(session, fastBridgeConfig()).Fetch(context.Background(), []uint64{1})
	if !errors.Is(err, services.ErrInternalTask) || !errors.Is(err, errBoom) {
		t.Fatalf("expected internal task error, got %v", err)
	}
}

func TestBridgeCancelledContext(t *testing.T) {
	session := newFakeSession()
	session.silent = true
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bridge := NewBridge(session, fastBridgeConfig())
	_, err := bridge.Fetch(ctx, []uint64{1})
	if !errors.Is(err, services.ErrInternalTask) || !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation as internal task error, got %v", err)
	}
}

func TestBridgeEmptyBatchIsNoop(t *testing.T) {
	session := newFakeSession()
	bridge := NewBridge(session, fastBridgeConfig())
	items, err := bridge.Fetch(context.Background(), nil)
	if err != nil || items != nil {
		t.Fatalf("expected nil, nil; got %v, %v", items, err)
	}
	if len(session.Queries()) != 0 || bridge.State() != Idle {
		t.Fatal("empty batch must not query")
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{Completed, Failed, TimedOut, InternalTaskError} {
		if !s.Terminal() {
			t.Fatalf("%s should be terminal", s)
		}
	}
	for _, s := range []State{Idle, Fetching} {
		if s.Terminal() {
			t.Fatalf("%s should not be terminal", s)
		}
	}
}
