package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	libris "github.com/target/libris-ui"
	"github.com/target/libris-ui/internal/observability/statsd"
	"github.com/target/libris-ui/internal/ports"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      ports.AuthGateway    // Required
	Profiles  ports.ProfileFetcher // Required
	Catalog   CatalogService       // Required
	Borrowing BorrowingService     // Required
	Dashboard DashboardService     // Required

	// Session lifetime settings; zero values fall back to the manager defaults.
	TokenTTL       time.Duration
	MinTokenLength int

	CookieDomain string
	// SecureCookies forces the Secure attribute on every cookie (production).
	SecureCookies bool

	// HealthChecks are probed by /readyz.
	HealthChecks map[string]HealthCheck

	// TemplateFS and StaticFS override where templates and assets are read from.
	// When nil, dev mode reads from disk and production uses the embedded copies.
	TemplateFS fs.FS
	StaticFS   fs.FS

	Now     func() time.Time
	Metrics statsd.Sink
	IsDev   bool         // Development mode flag for template hot reloading
	Logger  *slog.Logger // Logger for template and HTTP errors (optional)
}

func (s RouterServices) validate() error {
	switch {
	case s.Auth == nil:
		return errors.New("auth gateway is required")
	case s.Profiles == nil:
		return errors.New("profile fetcher is required")
	case s.Catalog == nil, s.Borrowing == nil, s.Dashboard == nil:
		return errors.New("library services are required")
	}
	return nil
}

// NewRouter creates the browser-facing router. Every page and action runs
// behind CSRF protection and the session gate; health checks and static
// assets do not.
func NewRouter(services RouterServices) (http.Handler, error) {
	if err := services.validate(); err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := resolveAssets(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		DevMode:    services.IsDev,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	ui := &UIHandlers{
		T:         tr,
		Catalog:   services.Catalog,
		Borrowing: services.Borrowing,
		Dashboard: services.Dashboard,
		IsDev:     services.IsDev,
		Logger:    logger,
	}
	auth := &AuthHandlers{T: tr, IsDev: services.IsDev, Logger: logger}

	cookies := CookieOptions{Domain: services.CookieDomain, Secure: services.SecureCookies}
	csrf := CSRFProtection(CSRFConfig{
		CookieDomain:  services.CookieDomain,
		SecureCookies: services.SecureCookies,
		Logger:        logger,
	})
	gate := SessionGate(SessionGateConfig{
		Auth:           services.Auth,
		Profiles:       services.Profiles,
		Cookies:        cookies,
		TokenTTL:       services.TokenTTL,
		MinTokenLength: services.MinTokenLength,
		Now:            services.Now,
		Metrics:        services.Metrics,
		Logger:         logger,
	})
	app := func(h http.HandlerFunc) http.Handler {
		return NoStore(csrf(gate(h)))
	}

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	ready := readinessHandler(services.HealthChecks, logger)
	mux.Handle("GET /readyz", ready)
	mux.Handle("HEAD /readyz", ready)
	mux.Handle("GET /static/", staticWithCacheHeaders(
		http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))), services.IsDev))

	mux.Handle("GET /{$}", app(ui.Index))
	registerAuthRoutes(mux, auth, app)
	registerAdminRoutes(mux, ui, app)
	registerUserRoutes(mux, ui, app)

	return &notFoundHandler{mux: mux, notFound: NoStore(http.HandlerFunc(ui.NotFound))}, nil
}

type wrapFunc func(http.HandlerFunc) http.Handler

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers, wrap wrapFunc) {
	mux.Handle("GET /auth", wrap(h.Page))
	mux.Handle("POST /auth/login", wrap(h.Login))
	mux.Handle("POST /auth/register", wrap(h.Register))
	mux.Handle("POST /auth/logout", wrap(h.Logout))
	mux.Handle("GET /auth/status", wrap(h.Status))
}

// registerAdminRoutes wires the admin area. Members never reach it: the
// session gate sends them to their own home first.
func registerAdminRoutes(mux *http.ServeMux, h *UIHandlers, wrap wrapFunc) {
	mux.Handle("GET /dashboard", wrap(h.AdminDashboard))
	mux.Handle("GET /dashboard/stats", wrap(h.StatsFragment))
	mux.Handle("GET /dashboard/books", wrap(h.Books))
	mux.Handle("GET /dashboard/books/new", wrap(h.BookNew))
	mux.Handle("GET /dashboard/books/{id}/edit", wrap(h.BookEdit))
	mux.Handle("POST /dashboard/books", wrap(h.BookCreate))
	mux.Handle("POST /dashboard/books/{id}", wrap(h.BookUpdate))
	mux.Handle("DELETE /dashboard/books/{id}", wrap(h.BookDelete))
	mux.Handle("GET /dashboard/borrowed", wrap(h.Borrowed))
	mux.Handle("POST /dashboard/borrowed/{id}/return", wrap(h.BorrowedReturn))
}

func registerUserRoutes(mux *http.ServeMux, h *UIHandlers, wrap wrapFunc) {
	mux.Handle("GET /user-dashboard", wrap(h.UserDashboard))
	mux.Handle("GET /user-dashboard/books", wrap(h.UserBooks))
	mux.Handle("POST /user-dashboard/books/{id}/borrow", wrap(h.UserBorrow))
	mux.Handle("POST /user-dashboard/books/{id}/return", wrap(h.UserReturn))
}

// resolveAssets picks the template and static filesystems.
// Dev mode: serve from disk for hot reloading. Prod mode: serve from the embedded FS.
func resolveAssets(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if services.IsDev {
		if templateFS == nil {
			templateFS = os.DirFS(TemplatePathFromRoot)
		}
		if staticFS == nil {
			staticFS = os.DirFS(StaticPathFromRoot)
		}
		return templateFS, staticFS, nil
	}

	if templateFS == nil {
		sub, err := fs.Sub(libris.TemplateFS, TemplatePathFromRoot)
		if err != nil {
			return nil, nil, fmt.Errorf("embedded templates: %w", err)
		}
		templateFS = sub
	}
	if staticFS == nil {
		sub, err := fs.Sub(libris.StaticFS, StaticPathFromRoot)
		if err != nil {
			return nil, nil, fmt.Errorf("embedded static assets: %w", err)
		}
		staticFS = sub
	}
	return templateFS, staticFS, nil
}

// hashedFilePattern matches content-hashed filenames including optional .map
// (e.g., app.abc123de.js, app.abc123de.js.map).
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders wraps a static file handler to add appropriate cache headers.
func staticWithCacheHeaders(handler http.Handler, isDev bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case hashedFilePattern.MatchString(r.URL.Path):
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		case isDev:
			w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
			w.Header().Set("Pragma", "no-cache")
			w.Header().Set("Expires", "0")
		default:
			w.Header().Set("Cache-Control", "public, max-age=300")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux      *http.ServeMux
	notFound http.Handler
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Missing static assets keep the file server's plain response.
	if _, pattern := h.mux.Handler(r); pattern != "" || strings.HasPrefix(r.URL.Path, "/static/") {
		h.mux.ServeHTTP(w, r)
		return
	}

	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status == http.StatusNotFound {
		h.notFound.ServeHTTP(w, r)
		return
	}
	// 405 and redirects from the mux pass through unchanged.
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	_, _ = w.Write(c.buf.Bytes())
}
