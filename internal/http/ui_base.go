package httpx

import (
	"bytes"
	"context"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/http/ui/viewmodel"
	obserrors "github.com/target/libris-ui/internal/observability/errors"
	"github.com/target/libris-ui/internal/ports"
	"github.com/target/libris-ui/internal/service"
)

// User-visible toast texts for consumer pages.
const (
	msgUnexpected       = "An unexpected error occurred"
	msgFetchBooks       = "Failed to fetch books"
	msgFetchBorrowed    = "Failed to fetch borrowed books"
	msgFetchStats       = "Failed to load dashboard stats"
	msgSaveBook         = "Failed to save book"
	msgDeleteBook       = "Failed to delete book"
	msgBorrowBook       = "Failed to borrow book"
	msgReturnBook       = "Failed to return book"
	msgBookAdded        = "Book added successfully"
	msgBookUpdated      = "Book updated successfully"
	msgBookDeleted      = "Book deleted successfully"
	msgBookBorrowed     = "Book borrowed successfully!"
	msgBookReturned     = "Book returned successfully!"
	msgBookNotFound     = "Book not found"
	msgAccessDenied     = "Access denied"
	errMsgFixBelow      = "Please fix the errors below."
)

// CatalogService is the admin catalog surface used by the UI.
type CatalogService interface {
	List(ctx context.Context, token string, q model.BookQuery) ([]model.Book, error)
	Get(ctx context.Context, token string, id int64) (model.Book, error)
	Create(ctx context.Context, token string, in model.BookInput) (model.Book, error)
	Update(ctx context.Context, token string, id int64, in model.BookInput) (model.Book, error)
	Delete(ctx context.Context, token string, id int64) error
}

// BorrowingService is the loan surface used by the UI.
type BorrowingService interface {
	ListBorrowed(ctx context.Context, token, search string) ([]model.Book, error)
	Borrow(ctx context.Context, token string, id int64) error
	Return(ctx context.Context, token string, id int64) error
	UserOverview(ctx context.Context, token string) (model.UserOverview, error)
}

// DashboardService is the admin overview surface used by the UI.
type DashboardService interface {
	Stats(ctx context.Context, token string) (model.DashboardStats, error)
	AdminOverview(ctx context.Context, token string) (model.AdminOverview, error)
}

var (
	_ CatalogService   = (*service.CatalogService)(nil)
	_ BorrowingService = (*service.BorrowingService)(nil)
	_ DashboardService = (*service.DashboardService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T         *TemplateRenderer
	Catalog   CatalogService
	Borrowing BorrowingService
	Dashboard DashboardService
	IsDev     bool // Development mode flag for enhanced error reporting
	Logger    *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}
	if u := CurrentUser(r.Context()); u != nil {
		layout.IsAuthenticated = true
		layout.User = &viewmodel.User{Name: u.Name, Email: u.Email, Role: string(u.Role)}
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CSRFToken":       layout.CSRFToken,
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// PageSpec defines metadata and an optional fetch for page-specific data.
// ErrorMessage is the toast shown when Fetch fails with an error the API did not explain.
type PageSpec struct {
	Meta         PageMeta
	ErrorMessage string
	Fetch        func(ctx context.Context, sess service.SessionView, data map[string]any) error
}

// Page builds base data, runs the fetch, applies the error policy and renders.
// A fetch failure that moves the session (401, 403) ends in a redirect instead.
func (h *UIHandlers) Page(w http.ResponseWriter, r *http.Request, spec PageSpec) {
	rs, ok := RequestSessionFrom(r.Context())
	if !ok {
		h.logger().ErrorContext(r.Context(), "page served without session gate", "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	data := basePageData(r, spec.Meta)
	if spec.Fetch != nil {
		if err := spec.Fetch(r.Context(), rs.View(), data); err != nil {
			h.handleAPIError(r, rs, err, spec.ErrorMessage)
			markPageError(data, apperrors.UserMessage(err, spec.ErrorMessage))
		}
	}
	if rs.respondNavigation(w, r) {
		return
	}
	h.renderPage(w, r, rs, data)
}

// handleAPIError applies the consumer error policy: authentication failures
// end the session, privilege failures outside the member area send the user
// there and everything else becomes a toast. A 403 inside the member area has
// nowhere to go, so it stays on the page.
func (h *UIHandlers) handleAPIError(r *http.Request, rs *RequestSession, err error, fallback string) {
	ctx := r.Context()
	if fallback == "" {
		fallback = msgUnexpected
	}
	kind := apperrors.KindOf(err)
	h.logger().InfoContext(ctx, "library api call failed",
		"path", r.URL.Path, "kind", string(kind), "error_type", obserrors.Classify(err), "error", err)

	switch kind {
	case apperrors.KindAuth:
		rs.View().HandleAuthError(ctx)
	case apperrors.KindAuthorization:
		if domainauth.RouteUserHome.Contains(r.URL.Path) {
			rs.Notify(ports.NotifyError, msgAccessDenied)
			return
		}
		rs.View().HandleForbidden(ctx)
	case apperrors.KindTransientNetwork:
		rs.Notify(ports.NotifyError, apperrors.UserMessage(err, service.MsgRequestTimedOut))
	case apperrors.KindValidation:
		rs.Notify(ports.NotifyError, apperrors.UserMessage(err, fallback))
	default:
		rs.Notify(ports.NotifyError, fallback)
	}
}

func markPageError(data map[string]any, msg string) {
	data["Error"] = true
	if msg == "" {
		msg = "An unexpected error occurred. Please try again."
	}
	if _, ok := data["ErrorMessage"]; !ok {
		data["ErrorMessage"] = msg
	}
}

// renderPage renders a page with proper htmx partial support. Full renders show
// queued notifications inline; partial renders deliver them through HX-Trigger.
func (h *UIHandlers) renderPage(w http.ResponseWriter, r *http.Request, rs *RequestSession, data map[string]any) {
	h.renderPageStatus(w, r, rs, http.StatusOK, data)
}

func (h *UIHandlers) renderPageStatus(
	w http.ResponseWriter,
	r *http.Request,
	rs *RequestSession,
	status int,
	data map[string]any,
) {
	if !WantsPartial(r) {
		data["Toasts"] = rs.notes.drain()
		if err := h.T.RenderStatus(w, status, "layout", data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	layout := layoutFromMap(data)
	var buf bytes.Buffer
	// Include a <title> element so htmx updates document.title on partial swaps.
	buf.WriteString(`<title>` + html.EscapeString(layout.Title) + `</title>`)
	buf.WriteString(`<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` +
		html.EscapeString(layout.PageTitle) + `</h1>`)
	if err := h.T.templates().ExecuteTemplate(&buf, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
		return
	}

	flushToasts(w, rs)
	HTMX(w).Trigger("nav:activate", map[string]string{"path": r.URL.Path})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderFragment answers an htmx request with a single named template and
// delivers queued toasts. Navigation raised by the handler wins over the fragment.
func (h *UIHandlers) renderFragment(w http.ResponseWriter, r *http.Request, rs *RequestSession, name string, data any) {
	if rs.respondNavigation(w, r) {
		return
	}
	flushToasts(w, rs)
	if err := h.T.Render(w, name, data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "fragment render")
	}
}

// flushToasts moves queued notifications onto the Hx-Trigger header.
// htmx dispatches one showToast event per trigger key, so several toasts are sent as a list.
func flushToasts(w http.ResponseWriter, rs *RequestSession) {
	notes := rs.notes.drain()
	switch len(notes) {
	case 0:
	case 1:
		HTMX(w).Toast(notes[0].Message, string(notes[0].Level))
	default:
		HTMX(w).Trigger(toastEvent, notes)
	}
}

func layoutFromMap(data map[string]any) viewmodel.Layout {
	layout := viewmodel.Layout{}
	if v, ok := data["Title"].(string); ok {
		layout.Title = v
	}
	if v, ok := data["PageTitle"].(string); ok {
		layout.PageTitle = v
	}
	if v, ok := data["CurrentPage"].(string); ok {
		layout.CurrentPage = v
	}
	return layout
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().ErrorContext(r.Context(), "template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`<div class="dev-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`))
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// requestSession fetches the gate's session or answers 500. Every UI route sits
// behind SessionGate, so a miss is a wiring bug.
func (h *UIHandlers) requestSession(w http.ResponseWriter, r *http.Request) (*RequestSession, bool) {
	rs, ok := RequestSessionFrom(r.Context())
	if !ok {
		h.logger().ErrorContext(r.Context(), "request served without session gate", "path", r.URL.Path)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
	return rs, ok
}

// requireProfile is the render gate for consumer pages: a session that holds
// a token but no profile (the profile call timed out) gets the retry page.
func (h *UIHandlers) requireProfile(w http.ResponseWriter, r *http.Request) (*RequestSession, bool) {
	rs, ok := h.requestSession(w, r)
	if !ok {
		return nil, false
	}
	if rs.Manager.User() != nil {
		return rs, true
	}
	if rs.respondNavigation(w, r) {
		return nil, false
	}
	if IsHTMX(r) {
		flushToasts(w, rs)
		HTMX(w).Refresh()
		w.WriteHeader(http.StatusNoContent)
		return nil, false
	}
	h.renderUnavailable(w, r, rs)
	return nil, false
}
