package auth

// Package auth contains simple hand-written test doubles for session ports.
// These are lightweight and suitable for unit tests without codegen.

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.AuthGateway    = (*MockAuthGateway)(nil)
	_ ports.ProfileFetcher = (*MockProfileFetcher)(nil)
	_ ports.TokenStore     = (*MemoryTokenStore)(nil)
	_ ports.Navigator      = (*RecordingNavigator)(nil)
	_ ports.Notifier       = (*RecordingNotifier)(nil)
	_ ports.ProfileCache   = (*MemoryProfileCache)(nil)
)

// MockAuthGateway simulates the login and register endpoints.
type MockAuthGateway struct {
	LoginFunc    func(ctx context.Context, creds ports.Credentials) (string, error)
	RegisterFunc func(ctx context.Context, reg ports.Registration) (string, error)

	// Token is returned when no func override is set.
	Token string

	mu            sync.Mutex
	registrations []ports.Registration
}

func (m *MockAuthGateway) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, creds)
	}
	return m.Token, nil
}

func (m *MockAuthGateway) Register(ctx context.Context, reg ports.Registration) (string, error) {
	m.mu.Lock()
	m.registrations = append(m.registrations, reg)
	m.mu.Unlock()
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, reg)
	}
	return m.Token, nil
}

// Registrations returns the payloads seen by Register.
func (m *MockAuthGateway) Registrations() []ports.Registration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.Registration(nil), m.registrations...)
}

// MockProfileFetcher returns profiles per token and counts calls.
// When Gate is non-nil every fetch blocks until the channel is closed or receives,
// which lets tests hold a fetch in flight.
type MockProfileFetcher struct {
	FetchFunc func(ctx context.Context, token string) (domainauth.UserProfile, error)
	Profiles  map[string]domainauth.UserProfile
	Gate      chan struct{}
	// Started, when set, receives the token as soon as a fetch begins.
	Started chan string

	calls  atomic.Int32
	mu     sync.Mutex
	tokens []string
}

func (m *MockProfileFetcher) FetchProfile(ctx context.Context, token string) (domainauth.UserProfile, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.tokens = append(m.tokens, token)
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- token
	}
	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return domainauth.UserProfile{}, ctx.Err()
		}
	}
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, token)
	}
	p, ok := m.Profiles[token]
	if !ok {
		return domainauth.UserProfile{}, ErrNotFound
	}
	return p, nil
}

// Calls returns how many fetches were issued.
func (m *MockProfileFetcher) Calls() int { return int(m.calls.Load()) }

// Tokens returns the bearer tokens used, in call order.
func (m *MockProfileFetcher) Tokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.tokens...)
}

// MemoryTokenStore is an in-memory durable token store for unit tests.
type MemoryTokenStore struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	LoadErr   error
	saves     int
	clears    int
}

// NewMemoryTokenStore creates a store pre-populated with token (may be empty).
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (m *MemoryTokenStore) Load(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return "", m.LoadErr
	}
	return m.token, nil
}

func (m *MemoryTokenStore) Save(_ context.Context, token string, expiresAt time.Time) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.expiresAt = expiresAt
	m.saves++
	return nil
}

func (m *MemoryTokenStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.expiresAt = time.Time{}
	m.clears++
	return nil
}

// Token returns the persisted token.
func (m *MemoryTokenStore) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// ExpiresAt returns the expiry of the persisted token.
func (m *MemoryTokenStore) ExpiresAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.expiresAt
}

// Clears returns how many times Clear was called.
func (m *MemoryTokenStore) Clears() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

// RecordingNavigator records navigation intents.
type RecordingNavigator struct {
	mu     sync.Mutex
	routes []domainauth.Route
}

func (n *RecordingNavigator) Navigate(route domainauth.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.routes = append(n.routes, route)
}

// Routes returns every route navigated to, in order.
func (n *RecordingNavigator) Routes() []domainauth.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domainauth.Route(nil), n.routes...)
}

// Last returns the most recent route, or "" when nothing was navigated.
func (n *RecordingNavigator) Last() domainauth.Route {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.routes) == 0 {
		return ""
	}
	return n.routes[len(n.routes)-1]
}

// RecordingNotifier records notifications.
type RecordingNotifier struct {
	mu    sync.Mutex
	items []ports.Notification
}

func (n *RecordingNotifier) Notify(note ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, note)
}

// All returns every notification, in order.
func (n *RecordingNotifier) All() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ports.Notification(nil), n.items...)
}

// Count returns how many notifications of the given level were recorded.
func (n *RecordingNotifier) Count(level ports.NotificationLevel) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, it := range n.items {
		if it.Level == level {
			c++
		}
	}
	return c
}

// MemoryProfileCache is an in-memory ProfileCache for unit tests. TTLs are recorded but not enforced.
type MemoryProfileCache struct {
	mu       sync.Mutex
	profiles map[string]domainauth.UserProfile
	ttls     map[string]time.Duration
	GetErr   error
}

// NewMemoryProfileCache creates an empty cache.
func NewMemoryProfileCache() *MemoryProfileCache {
	return &MemoryProfileCache{
		profiles: make(map[string]domainauth.UserProfile),
		ttls:     make(map[string]time.Duration),
	}
}

func (m *MemoryProfileCache) Get(_ context.Context, key string) (domainauth.UserProfile, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return domainauth.UserProfile{}, false, m.GetErr
	}
	p, ok := m.profiles[key]
	return p, ok, nil
}

func (m *MemoryProfileCache) Set(_ context.Context, key string, profile domainauth.UserProfile, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[key] = profile
	m.ttls[key] = ttl
	return nil
}

func (m *MemoryProfileCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.profiles, key)
	delete(m.ttls, key)
	return nil
}

// Keys returns the cached keys.
func (m *MemoryProfileCache) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.profiles))
	for k := range m.profiles {
		keys = append(keys, k)
	}
	return keys
}

// TTL returns the ttl recorded for key.
func (m *MemoryProfileCache) TTL(key string) time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ttls[key]
}

// ErrNotFound is returned by mocks when an entity is not present.
type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var ErrNotFound error = notFoundError{}
