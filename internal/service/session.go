package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	apperrors "github.com/target/libris-ui/internal/errors"
	obserrors "github.com/target/libris-ui/internal/observability/errors"
	"github.com/target/libris-ui/internal/ports"
)

// User-visible notification texts.
const (
	MsgLoginSuccess       = "Login successful!"
	MsgLoginFailed        = "Login failed. Please check your credentials."
	MsgLogoutSuccess      = "Logout successful!"
	MsgRegisterFailed     = "Registration failed. Please try again."
	MsgSessionExpired     = "Session expired. Please login again."
	MsgProfileUnavailable = "Could not load your profile. Please login again."
	MsgAccessDenied       = "Access denied. Admin privileges required."
	MsgRequestTimedOut    = "Request timed out"
)

// DefaultTokenTTL is how long a persisted token is kept by the client.
const DefaultTokenTTL = 7 * 24 * time.Hour

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	Auth      ports.AuthGateway
	Profiles  ports.ProfileFetcher
	Store     ports.TokenStore
	Navigator ports.Navigator
	Notifier  ports.Notifier

	// TokenTTL is the expiry window for persisted tokens (default 7 days).
	TokenTTL time.Duration
	// MinTokenLength is the syntactic minimum for a token (default 10).
	MinTokenLength int
	// Now overrides the clock in tests.
	Now    func() time.Time
	Logger *slog.Logger
}

// SessionView is the read-only face of the session handed to pages.
// Pages may only signal failures back; they never write token or profile.
type SessionView interface {
	Snapshot() domainauth.Snapshot
	Token() string
	User() *domainauth.UserProfile
	HandleAuthError(ctx context.Context)
	HandleForbidden(ctx context.Context)
}

// profileInvalidator is implemented by fetchers that cache profiles.
type profileInvalidator interface {
	Invalidate(ctx context.Context, token string) error
}

// SessionManager owns the bearer token, the current profile and the readiness flag.
// It is the single writer of the persisted token. All operations resolve to a state
// change plus navigation/notification side effects; none of them return errors.
// A SessionManager is safe for concurrent use.
type SessionManager struct {
	auth     ports.AuthGateway
	profiles ports.ProfileFetcher
	store    ports.TokenStore
	nav      ports.Navigator
	notifier ports.Notifier

	tokenTTL    time.Duration
	minTokenLen int
	now         func() time.Time
	log         *slog.Logger

	mu            sync.Mutex
	token         string
	user          *domainauth.UserProfile
	readiness     domainauth.Readiness
	fetchInFlight bool
	retryArmed    bool
	initialized   bool
}

var _ SessionView = (*SessionManager)(nil)

// NewSessionManager constructs a SessionManager in the Initializing state.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	minLen := opts.MinTokenLength
	if minLen <= 0 {
		minLen = domainauth.MinTokenLength
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		auth:        opts.Auth,
		profiles:    opts.Profiles,
		store:       opts.Store,
		nav:         opts.Navigator,
		notifier:    opts.Notifier,
		tokenTTL:    ttl,
		minTokenLen: minLen,
		now:         now,
		log:         opts.Logger,
		readiness:   domainauth.Initializing,
	}
}

func (m *SessionManager) logger() *slog.Logger {
	if m != nil && m.log != nil {
		return m.log
	}
	return slog.Default()
}

// Snapshot returns a copy of the current state.
func (m *SessionManager) Snapshot() domainauth.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return domainauth.Snapshot{Token: m.token, User: copyProfile(m.user), Readiness: m.readiness}
}

// Token returns the current bearer token, or "" when signed out.
func (m *SessionManager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns a copy of the current profile, or nil.
func (m *SessionManager) User() *domainauth.UserProfile {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyProfile(m.user)
}

// Readiness returns the readiness flag.
func (m *SessionManager) Readiness() domainauth.Readiness {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.readiness
}

// IsReady reports whether initial auth resolution has completed.
func (m *SessionManager) IsReady() bool { return m.Readiness() == domainauth.Ready }

// View returns the read-only view handed to pages.
func (m *SessionManager) View() SessionView { return m }

// Initialize reads the persisted token and resolves the session. It runs once;
// later calls are no-ops.
func (m *SessionManager) Initialize(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.initialized = true
	m.mu.Unlock()

	token, err := m.store.Load(ctx)
	if err != nil {
		m.logger().WarnContext(ctx, "load persisted token failed", "error", err)
		token = ""
	}

	if token == "" {
		m.mu.Lock()
		m.token = ""
		m.user = nil
		m.readiness = domainauth.Ready
		m.mu.Unlock()
		m.navigate(domainauth.RouteLogin)
		return
	}

	if vErr := domainauth.ValidateTokenSyntax(token, m.minTokenLen); vErr != nil {
		m.logger().InfoContext(ctx, "persisted token rejected", "reason", vErr.Error())
		m.handleAuthError(ctx, MsgSessionExpired)
		return
	}

	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	m.RefreshProfile(ctx)
}

// Login exchanges credentials for a token, persists it and loads the profile.
// Concurrent logins are not deduplicated; the last one to finish wins.
func (m *SessionManager) Login(ctx context.Context, email, password string) {
	token, err := m.auth.Login(ctx, ports.Credentials{Email: strings.TrimSpace(email), Password: password})
	if err == nil {
		err = domainauth.ValidateTokenSyntax(token, m.minTokenLen)
	}
	if err != nil {
		m.logger().InfoContext(ctx, "login failed", "error_type", obserrors.Classify(err))
		m.handleAuthError(ctx, loginFailureMessage(err))
		return
	}

	if !m.adoptToken(ctx, token) {
		m.handleAuthError(ctx, MsgLoginFailed)
		return
	}
	m.RefreshProfile(ctx)

	if m.Token() == token {
		m.notify(ports.NotifySuccess, MsgLoginSuccess)
	}
}

// Register creates an account, then behaves like Login. A failed registration
// leaves the current session untouched.
func (m *SessionManager) Register(ctx context.Context, reg ports.Registration) {
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Role == "" {
		reg.Role = domainauth.RoleUser
	}
	if reg.Role != domainauth.RoleAdmin {
		reg.AdminCode = ""
	}

	token, err := m.auth.Register(ctx, reg)
	if err == nil {
		err = domainauth.ValidateTokenSyntax(token, m.minTokenLen)
	}
	if err != nil {
		m.logger().InfoContext(ctx, "registration failed", "error_type", obserrors.Classify(err))
		m.notify(ports.NotifyError, apperrors.UserMessage(err, MsgRegisterFailed))
		return
	}

	if !m.adoptToken(ctx, token) {
		m.notify(ports.NotifyError, MsgRegisterFailed)
		return
	}
	m.RefreshProfile(ctx)

	if m.Token() == token {
		m.notify(ports.NotifySuccess, registrationMessage(reg.Role))
	}
}

// RefreshProfile fetches the profile for the current token. While a fetch is
// outstanding further calls are dropped. A result that arrives after the token
// changed is discarded.
func (m *SessionManager) RefreshProfile(ctx context.Context) {
	m.mu.Lock()
	if m.fetchInFlight {
		m.mu.Unlock()
		return
	}
	token := m.token
	if token == "" {
		m.user = nil
		m.readiness = domainauth.Ready
		m.mu.Unlock()
		return
	}
	m.fetchInFlight = true
	m.mu.Unlock()

	profile, err := m.profiles.FetchProfile(ctx, token)
	if err == nil && !profile.Role.Valid() {
		err = apperrors.Malformedf("unrecognized role %q", profile.Role)
	}

	m.mu.Lock()
	m.fetchInFlight = false
	if m.token != token {
		// The session moved on while the fetch was outstanding.
		if m.token != "" && m.user == nil {
			m.readiness = domainauth.Ready
			m.retryArmed = true
		}
		m.mu.Unlock()
		m.logger().DebugContext(ctx, "discarding stale profile result")
		return
	}

	if err != nil {
		kind := apperrors.ProfileKindOf(err)
		if kind == apperrors.KindTransientNetwork {
			m.user = nil
			m.readiness = domainauth.Ready
			m.retryArmed = true
			m.mu.Unlock()
			m.logger().WarnContext(ctx, "profile fetch interrupted", "error_type", obserrors.Classify(err))
			m.notify(ports.NotifyError, apperrors.UserMessage(err, MsgRequestTimedOut))
			return
		}
		m.mu.Unlock()
		m.logger().InfoContext(ctx, "profile fetch rejected", "error_type", obserrors.Classify(err))
		msg := MsgProfileUnavailable
		if apperrors.IsUnauthenticated(err) {
			msg = MsgSessionExpired
		}
		m.handleAuthError(ctx, msg)
		return
	}

	p := profile
	m.user = &p
	m.readiness = domainauth.Ready
	m.retryArmed = false
	m.mu.Unlock()

	m.navigate(domainauth.HomeFor(p.Role))
}

// Mount performs the Ready+NoProfile -> FetchingProfile transition: when a token is
// held without a profile and nothing is in flight, the profile fetch is retried once.
// The retry is re-armed only when the session re-enters that state.
func (m *SessionManager) Mount(ctx context.Context) {
	m.mu.Lock()
	shouldRetry := m.retryArmed &&
		m.readiness == domainauth.Ready &&
		m.token != "" &&
		m.user == nil &&
		!m.fetchInFlight
	if shouldRetry {
		m.retryArmed = false
	}
	m.mu.Unlock()

	if shouldRetry {
		m.RefreshProfile(ctx)
	}
}

// HandleAuthError is the single recovery path for authentication failures:
// it clears the session, evicts the persisted token and routes to login.
func (m *SessionManager) HandleAuthError(ctx context.Context) {
	m.handleAuthError(ctx, MsgSessionExpired)
}

// HandleForbidden reacts to a 403 from an admin endpoint by routing to the
// non-privileged dashboard. The session is kept.
func (m *SessionManager) HandleForbidden(ctx context.Context) {
	m.logger().InfoContext(ctx, "admin endpoint refused")
	m.notify(ports.NotifyError, MsgAccessDenied)
	m.navigate(domainauth.RouteUserHome)
}

// Logout clears the session unconditionally. It cannot fail and is idempotent.
func (m *SessionManager) Logout(ctx context.Context) {
	m.clear(ctx)
	m.notify(ports.NotifySuccess, MsgLogoutSuccess)
	m.navigate(domainauth.RouteLogin)
}

func (m *SessionManager) handleAuthError(ctx context.Context, message string) {
	m.clear(ctx)
	if message != "" {
		m.notify(ports.NotifyError, message)
	}
	m.navigate(domainauth.RouteLogin)
}

// clear resets in-memory state and evicts the persisted token.
func (m *SessionManager) clear(ctx context.Context) {
	m.mu.Lock()
	previous := m.token
	m.token = ""
	m.user = nil
	m.readiness = domainauth.Ready
	m.retryArmed = false
	m.mu.Unlock()

	if err := m.store.Clear(ctx); err != nil {
		m.logger().WarnContext(ctx, "clear persisted token failed", "error", err)
	}
	if inv, ok := m.profiles.(profileInvalidator); ok && previous != "" {
		if err := inv.Invalidate(ctx, previous); err != nil {
			m.logger().WarnContext(ctx, "invalidate cached profile failed", "error", err)
		}
	}
}

// adoptToken persists token and makes it current, dropping any previous profile.
func (m *SessionManager) adoptToken(ctx context.Context, token string) bool {
	if err := m.store.Save(ctx, token, m.now().Add(m.tokenTTL)); err != nil {
		m.logger().ErrorContext(ctx, "persist token failed", "error", err)
		return false
	}
	m.mu.Lock()
	m.token = token
	m.user = nil
	m.retryArmed = false
	m.mu.Unlock()
	return true
}

func (m *SessionManager) navigate(route domainauth.Route) {
	if m.nav != nil {
		m.nav.Navigate(route)
	}
}

func (m *SessionManager) notify(level ports.NotificationLevel, message string) {
	if m.notifier != nil {
		m.notifier.Notify(ports.Notification{Level: level, Message: message})
	}
}

func loginFailureMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != apperrors.ErrCodeMalformed && appErr.Message != "" {
		return appErr.Message
	}
	if apperrors.KindOf(err) == apperrors.KindTransientNetwork {
		return MsgRequestTimedOut
	}
	return MsgLoginFailed
}

func registrationMessage(role domainauth.Role) string {
	if role == domainauth.RoleAdmin {
		return "Registration successful! Welcome to the library as an administrator."
	}
	return "Registration successful! Welcome to the library."
}

func copyProfile(p *domainauth.UserProfile) *domainauth.UserProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
