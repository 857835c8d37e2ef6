package workshop

import (
	"context"
	"log/slog"

	"github.com/7otion/s7forge/internal/logging"
	"github.com/7otion/s7forge/internal/services"
	"github.com/7otion/s7forge/internal/snapshot"
)

// ItemStore is the persisted item snapshot.
type ItemStore = snapshot.Store[uint64, Item]

// Service answers workshop item requests from the cache, fetching only what
// the cache cannot answer.
type Service struct {
	store    *ItemStore
	sessions SessionProvider
	resolver NameResolver
	cfg      BridgeConfig
	unknown  string
	logger   *slog.Logger
	bridge   []BridgeOption
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithLogger attaches a logger to the service and the bridges it creates.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithUnknownName overrides the creator name used when resolution fails.
func WithUnknownName(name string) ServiceOption {
	return func(s *Service) {
		if name != "" {
			s.unknown = name
		}
	}
}

// WithBridgeOptions forwards options to every bridge the service creates.
func WithBridgeOptions(opts ...BridgeOption) ServiceOption {
	return func(s *Service) {
		s.bridge = append(s.bridge, opts...)
	}
}

// NewService wires the cache, the platform sessions, and the name resolver.
func NewService(store *ItemStore, sessions SessionProvider, resolver NameResolver, cfg BridgeConfig, opts ...ServiceOption) *Service {
	s := &Service{
		store:    store,
		sessions: sessions,
		resolver: resolver,
		cfg:      cfg,
		unknown:  UnknownCreator,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Items returns the enriched items for ids in request order. Ids the platform
// does not know, or that are not of the primary file type, are left out.
// An empty request returns an empty list without touching the cache, the
// platform, or the resolver.
func (s *Service) Items(ctx context.Context, appID uint32, ids []uint64) ([]EnrichedItem, error) {
	if len(ids) == 0 {
		return []EnrichedItem{}, nil
	}
	ctx = services.WithAppID(ctx, appID)
	logger := logging.WithContext(ctx, logging.NewComponentLogger(s.logger, "workshop"))

	snap := s.store.Load()
	now := s.store.Now()
	if !s.store.Valid(snap) {
		snap = snapshot.New[uint64, Item]()
	}

	delta := Plan(ids, snap, s.store.TTL(), now)
	logger.Debug("planned fetch",
		logging.Int("requested", len(ids)),
		logging.Int("delta", len(delta)),
		logging.Int("cached", len(snap.Records)),
		logging.Int("negative", len(snap.Negative)))

	if len(delta) > 0 {
		fetched, err := s.fetch(ctx, appID, delta)
		if err != nil {
			return nil, err
		}
		snap = Merge(snap, delta, fetched, s.store.Now())
		s.store.Save(snap)
		logger.Debug("merged fetch",
			logging.Int("fetched", len(fetched)),
			logging.Int("missing", len(delta)-len(fetched)))
	}

	items, omitted := OrderOutput(ids, snap)
	if len(omitted) > 0 {
		logger.Info("items not available", logging.Int("count", len(omitted)), logging.Any("ids", omitted))
	}

	enricher := Enricher{Resolver: s.resolver, Unknown: s.unknown, Logger: s.logger}
	return enricher.Enrich(ctx, appID, items), nil
}

func (s *Service) fetch(ctx context.Context, appID uint32, delta []uint64) ([]Item, error) {
	if s.sessions == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workshop", "fetch", "no platform configured", nil)
	}
	session, err := s.sessions.Session(ctx, appID)
	if err != nil {
		return nil, err
	}
	opts := append([]BridgeOption{WithBridgeLogger(s.logger)}, s.bridge...)
	return NewBridge(session, s.cfg, opts...).Fetch(ctx, delta)
}
