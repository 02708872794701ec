package httpx

import (
	"net/http"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
)

// Index serves "/". Signed-in users are already sent to their home by the
// session gate, so this only answers sessions the gate let through: a token
// whose profile could not be loaded gets the retry page, anything else is
// routed by role.
func (h *UIHandlers) Index(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requestSession(w, r)
	if !ok {
		return
	}
	if u := rs.Manager.User(); u != nil {
		rs.redirect(w, r, string(domainauth.HomeFor(u.Role)))
		return
	}
	if rs.Manager.Token() == "" {
		rs.redirect(w, r, string(domainauth.RouteLogin))
		return
	}
	h.renderUnavailable(w, r, rs)
}

// renderUnavailable shows the page offered when the profile service timed out.
// The token is kept, so a retry usually succeeds without signing in again.
func (h *UIHandlers) renderUnavailable(w http.ResponseWriter, r *http.Request, rs *RequestSession) {
	retry := "/"
	if r.Method == http.MethodGet {
		retry = r.URL.RequestURI()
	}
	data := NewTemplateData(r, PageMeta{
		Title:       "Service unavailable - Libris",
		PageTitle:   "We could not load your profile",
		CurrentPage: PageUnavailable,
	}).With("RetryURL", retry).Build()
	h.renderPage(w, r, rs, data)
}

// NotFound renders the 404 page for browser requests.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		HTMX(w).Reswap("none").Toast("Page not found", "error")
		w.WriteHeader(http.StatusNotFound)
		return
	}
	data := basePageData(r, PageMeta{Title: "Page not found - Libris", PageTitle: "Page not found"})
	data["Status"] = http.StatusNotFound
	data["Message"] = "The page you requested does not exist."
	if err := h.T.RenderError(w, http.StatusNotFound, data); err != nil {
		h.logger().ErrorContext(r.Context(), "not found page render failed", "error", err)
		http.NotFound(w, r)
	}
}
