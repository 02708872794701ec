package httpx

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/observability/metrics"
	"github.com/target/libris-ui/internal/observability/statsd"
	"github.com/target/libris-ui/internal/ports"
	"github.com/target/libris-ui/internal/service"
)

// SessionGateConfig wires the per-request session manager.
type SessionGateConfig struct {
	Auth     ports.AuthGateway
	Profiles ports.ProfileFetcher
	Cookies  CookieOptions

	TokenTTL       time.Duration
	MinTokenLength int
	Now            func() time.Time

	Metrics statsd.Sink
	Logger  *slog.Logger
}

// requestNavigator records the last navigation intent raised during a request.
type requestNavigator struct {
	mu     sync.Mutex
	route  domainauth.Route
	exists bool
}

func (n *requestNavigator) Navigate(route domainauth.Route) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.route, n.exists = route, true
}

// take returns the pending intent and forgets it.
func (n *requestNavigator) take() (domainauth.Route, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	route, ok := n.route, n.exists
	n.route, n.exists = "", false
	return route, ok
}

// requestNotifier queues notifications until the response is written.
type requestNotifier struct {
	mu    sync.Mutex
	notes []ports.Notification
}

func (n *requestNotifier) Notify(note ports.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notes = append(n.notes, note)
}

func (n *requestNotifier) drain() []ports.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.notes
	n.notes = nil
	return out
}

// RequestSession is the session state attached to a request by SessionGate.
type RequestSession struct {
	Manager *service.SessionManager

	nav     *requestNavigator
	notes   *requestNotifier
	cookies CookieOptions
}

// View returns the read-only session handed to pages.
func (s *RequestSession) View() service.SessionView { return s.Manager.View() }

// Notify queues a toast for this response.
func (s *RequestSession) Notify(level ports.NotificationLevel, message string) {
	s.notes.Notify(ports.Notification{Level: level, Message: message})
}

// SessionGate resolves the session before any page handler runs. The manager is
// initialized against the request cookies and, if it asks for a navigation the
// request does not already satisfy, the request is answered with a redirect.
func SessionGate(cfg SessionGateConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			rs := &RequestSession{nav: &requestNavigator{}, notes: &requestNotifier{}, cookies: cfg.Cookies}

			if cookieValue(r, FlashCookieName) != "" {
				rs.notes.notes = append(rs.notes.notes, readFlash(r)...)
				expireCookie(w, r, FlashCookieName, cfg.Cookies)
			}

			rs.Manager = service.NewSessionManager(service.SessionManagerOptions{
				Auth:           cfg.Auth,
				Profiles:       cfg.Profiles,
				Store:          newCookieTokenStore(w, r, cfg.Cookies, cfg.Now),
				Navigator:      rs.nav,
				Notifier:       rs.notes,
				TokenTTL:       cfg.TokenTTL,
				MinTokenLength: cfg.MinTokenLength,
				Now:            cfg.Now,
				Logger:         logger,
			})
			rs.Manager.Initialize(ctx)
			rs.Manager.Mount(ctx)

			outcome := sessionOutcome(rs.Manager.Snapshot())
			if route, ok := rs.nav.take(); ok && !intentSatisfied(route, r) {
				logger.DebugContext(ctx, "session gate redirect",
					"path", r.URL.Path, "target", string(route), "outcome", outcome)
				metrics.EmitSessionResolve(cfg.Metrics, metrics.SessionOutcome{Outcome: outcome, Redirected: true})
				rs.redirect(w, r, string(route))
				return
			}

			metrics.EmitSessionResolve(cfg.Metrics, metrics.SessionOutcome{Outcome: outcome})
			next.ServeHTTP(w, r.WithContext(withRequestSession(ctx, rs)))
		})
	}
}

// intentSatisfied reports whether serving r already honours a navigation to route.
// Auth actions (login, register, logout, status) are always let through; the
// sign-in page itself is only served to anonymous visitors. Admins may also use
// the member area, members never see the admin area.
func intentSatisfied(route domainauth.Route, r *http.Request) bool {
	path := r.URL.Path
	switch {
	case domainauth.RouteLogin.Contains(path):
		isSignInPage := path == string(domainauth.RouteLogin) && r.Method == http.MethodGet
		return route == domainauth.RouteLogin || !isSignInPage
	case route == domainauth.RouteAdminHome:
		return route.Contains(path) || domainauth.RouteUserHome.Contains(path)
	case route == domainauth.RouteUserHome:
		return route.Contains(path)
	default:
		return false
	}
}

func sessionOutcome(s domainauth.Snapshot) string {
	switch {
	case s.Authenticated():
		return "authenticated"
	case s.Token != "":
		return "token_only"
	default:
		return "anonymous"
	}
}

// redirect sends the browser to target. Pending notifications ride along in
// the flash cookie.
func (s *RequestSession) redirect(w http.ResponseWriter, r *http.Request, target string) {
	writeFlash(w, r, s.cookies, s.notes.drain())
	if IsHTMX(r) {
		HTMX(w).Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// respondNavigation answers with a redirect when a manager operation raised a
// navigation intent during the handler. It reports whether it wrote a response.
func (s *RequestSession) respondNavigation(w http.ResponseWriter, r *http.Request) bool {
	route, ok := s.nav.take()
	if !ok {
		return false
	}
	s.redirect(w, r, string(route))
	return true
}
