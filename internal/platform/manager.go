package platform

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/7otion/s7forge/internal/logging"
	"github.com/7otion/s7forge/internal/services"
	"github.com/7otion/s7forge/internal/workshop"
)

// Manager lazily creates one Session per app id and shares a single Web API
// client between sessions and the persona resolver.
type Manager struct {
	apiKey  string
	baseURL string
	opts    []Option
	logger  *slog.Logger

	mu       sync.Mutex
	client   *Client
	sessions map[uint32]*Session
}

var _ workshop.SessionProvider = (*Manager)(nil)

// NewManager records the credentials; nothing is validated until a session
// or resolver is first needed.
func NewManager(apiKey, baseURL string, logger *slog.Logger, opts ...Option) *Manager {
	return &Manager{
		apiKey:   apiKey,
		baseURL:  baseURL,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "platform"),
		sessions: make(map[uint32]*Session),
	}
}

// Session returns the session for appID, creating it on first use.
func (m *Manager) Session(ctx context.Context, appID uint32) (workshop.Session, error) {
	if appID == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "platform", "session", "app id is required", nil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if session, ok := m.sessions[appID]; ok {
		return session, nil
	}
	client, err := m.clientLocked()
	if err != nil {
		return nil, err
	}
	session := newSession(appID, client)
	m.sessions[appID] = session
	logging.WithContext(ctx, m.logger).Debug("platform session initialized", logging.Uint64(logging.FieldAppID, uint64(appID)))
	return session, nil
}

// Resolver returns a persona resolver backed by the shared client.
func (m *Manager) Resolver() (*PersonaResolver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	client, err := m.clientLocked()
	if err != nil {
		return nil, err
	}
	return NewPersonaResolver(client), nil
}

// LazyResolver defers client construction to the first lookup, so commands
// answered from cache never need an API key.
func (m *Manager) LazyResolver() workshop.NameResolver {
	return lazyResolver{m: m}
}

func (m *Manager) clientLocked() (*Client, error) {
	if m.client != nil {
		return m.client, nil
	}
	client, err := NewClient(m.apiKey, m.baseURL, m.opts...)
	if err != nil {
		return nil, err
	}
	m.client = client
	return client, nil
}

type lazyResolver struct {
	m *Manager
}

func (l lazyResolver) ResolveNames(ctx context.Context, ownerIDs []uint64, appID uint32) (map[uint64]string, error) {
	resolver, err := l.m.Resolver()
	if err != nil {
		return nil, err
	}
	return resolver.ResolveNames(ctx, ownerIDs, appID)
}

func appLabel(appID uint32) string {
	return "app " + strconv.FormatUint(uint64(appID), 10)
}
