package workshop

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/7otion/s7forge/internal/logging"
	"github.com/7otion/s7forge/internal/services"
)

// State is a position in the fetch state machine.
type State int

const (
	Idle State = iota
	Fetching
	Completed
	Failed
	TimedOut
	InternalTaskError
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	case TimedOut:
		return "timed_out"
	case InternalTaskError:
		return "internal_task_error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether s ends a fetch.
func (s State) Terminal() bool {
	return s >= Completed
}

// BridgeConfig holds the timing and filtering knobs of a Bridge.
type BridgeConfig struct {
	Timeout         time.Duration
	PollInterval    time.Duration
	QueueSize       int
	PrimaryFileType string
	IncludeChildren bool
}

// DefaultBridgeConfig mirrors the shipped configuration defaults.
func DefaultBridgeConfig() BridgeConfig {
	return BridgeConfig{
		Timeout:         30 * time.Second,
		PollInterval:    10 * time.Millisecond,
		QueueSize:       32,
		PrimaryFileType: "Community",
		IncludeChildren: true,
	}
}

func (c BridgeConfig) withDefaults() BridgeConfig {
	def := DefaultBridgeConfig()
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
	if c.PollInterval <= 0 {
		c.PollInterval = def.PollInterval
	}
	if c.QueueSize <= 0 {
		c.QueueSize = def.QueueSize
	}
	if c.PrimaryFileType == "" {
		c.PrimaryFileType = def.PrimaryFileType
	}
	return c
}

// BridgeOption customizes a Bridge.
type BridgeOption func(*Bridge)

// WithBridgeClock replaces time.Now for timeout measurement.
func WithBridgeClock(now func() time.Time) BridgeOption {
	return func(b *Bridge) {
		if now != nil {
			b.now = now
		}
	}
}

// WithSleeper replaces time.Sleep between worker polls.
func WithSleeper(sleep func(time.Duration)) BridgeOption {
	return func(b *Bridge) {
		if sleep != nil {
			b.sleep = sleep
		}
	}
}

// WithBridgeLogger attaches a logger.
func WithBridgeLogger(logger *slog.Logger) BridgeOption {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithStateObserver registers a callback invoked on every state transition.
func WithStateObserver(fn func(State)) BridgeOption {
	return func(b *Bridge) {
		b.observe = fn
	}
}

// Bridge runs one blocking, callback-driven fetch at a time against a
// Session. A worker goroutine owns the query and decides when a pump is
// needed; the calling goroutine performs every pump.
type Bridge struct {
	session Session
	cfg     BridgeConfig
	now     func() time.Time
	sleep   func(time.Duration)
	logger  *slog.Logger
	observe func(State)

	mu    sync.Mutex
	state State
}

// NewBridge binds a bridge to session.
func NewBridge(session Session, cfg BridgeConfig, opts ...BridgeOption) *Bridge {
	b := &Bridge{
		session: session,
		cfg:     cfg.withDefaults(),
		now:     time.Now,
		sleep:   time.Sleep,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = logging.NewComponentLogger(b.logger, "bridge")
	return b
}

// State returns the state of the most recent fetch.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Bridge) transition(next State) {
	b.mu.Lock()
	b.state = next
	b.mu.Unlock()
	if b.observe != nil {
		b.observe(next)
	}
}

// workerResult is what the worker goroutine hands back on exit.
type workerResult struct {
	state State
	items []*Item
	err   error
}

// Fetch queries ids and returns the items whose file type matches the
// primary classification. It blocks until the worker finishes, the pump
// fails, or ctx ends. Errors carry services.ErrExternalAPI, ErrTimeout, or
// ErrInternalTask.
func (b *Bridge) Fetch(ctx context.Context, ids []uint64) ([]Item, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if b.session == nil {
		return nil, services.Wrap(services.ErrInternalTask, "bridge", "fetch", "no platform session", nil)
	}
	logger := logging.WithContext(ctx, b.logger)

	b.transition(Fetching)
	logger.Debug("fetch started", logging.Int("ids", len(ids)))
	started := b.now()

	pump := make(chan struct{}, b.cfg.QueueSize)
	done := make(chan workerResult, 1)
	stop := make(chan struct{})
	defer close(stop)

	go func() {
		done <- b.work(ctx, ids, pump, stop)
	}()

	for {
		select {
		case <-pump:
			if err := b.session.RunCallbacks(); err != nil {
				b.transition(Failed)
				logger.Debug("pump failed", logging.Error(err))
				return nil, services.Wrap(services.ErrExternalAPI, "bridge", "run callbacks", "", err)
			}
		case res := <-done:
			b.transition(res.state)
			logger.Debug("fetch finished",
				logging.String("state", res.state.String()),
				logging.Duration("elapsed", b.now().Sub(started)))
			if res.err != nil {
				return nil, res.err
			}
			return b.filter(res.items), nil
		case <-ctx.Done():
			b.transition(InternalTaskError)
			return nil, services.Wrap(services.ErrInternalTask, "bridge", "fetch", "cancelled", ctx.Err())
		}
	}
}

// work is the worker goroutine body. It never pumps; it only asks for pumps.
func (b *Bridge) work(ctx context.Context, ids []uint64, pump chan<- struct{}, stop <-chan struct{}) (res workerResult) {
	defer func() {
		if r := recover(); r != nil {
			res = workerResult{
				state: InternalTaskError,
				err:   services.Wrap(services.ErrInternalTask, "bridge", "worker", fmt.Sprintf("panic: %v", r), nil),
			}
		}
	}()

	results := make(chan FetchResult, 1)
	handler := func(r FetchResult) {
		select {
		case results <- r:
		default:
		}
	}
	if err := b.session.QueryItems(ctx, ids, QueryOptions{IncludeChildren: b.cfg.IncludeChildren}, handler); err != nil {
		return workerResult{
			state: InternalTaskError,
			err:   services.Wrap(services.ErrInternalTask, "bridge", "create query", "", err),
		}
	}

	start := b.now()
	for {
		select {
		case pump <- struct{}{}:
		default:
		}

		select {
		case r := <-results:
			if r.Err != nil {
				return workerResult{
					state: Failed,
					err:   services.Wrap(services.ErrExternalAPI, "bridge", "query", "", r.Err),
				}
			}
			return workerResult{state: Completed, items: r.Items}
		default:
		}

		if b.now().Sub(start) >= b.cfg.Timeout {
			err := services.Wrap(services.ErrTimeout, "bridge", "fetch", "operation timed out waiting for Steam response", nil)
			return workerResult{state: TimedOut, err: err}
		}

		select {
		case <-stop:
			err := services.Wrap(services.ErrInternalTask, "bridge", "worker", "abandoned", nil)
			return workerResult{state: InternalTaskError, err: err}
		default:
		}

		b.sleep(b.cfg.PollInterval)
	}
}

func (b *Bridge) filter(slots []*Item) []Item {
	items := make([]Item, 0, len(slots))
	for _, slot := range slots {
		if slot == nil || slot.FileType != b.cfg.PrimaryFileType {
			continue
		}
		items = append(items, slot.Clone())
	}
	return items
}
