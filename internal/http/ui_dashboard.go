package httpx

import (
	"context"
	"net/http"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/http/ui/viewmodel"
	"github.com/target/libris-ui/internal/ports"
	"github.com/target/libris-ui/internal/service"
)

func newBookList(all []model.Book, q model.BookQuery) viewmodel.BookList {
	return viewmodel.BookList{
		Books:  model.FilterBooks(all, q),
		Query:  q.Search,
		Status: string(q.Status),
		Total:  len(all),
	}
}

// AdminDashboard serves GET /dashboard: stats cards above the searchable catalog.
// The catalog still renders when only the stats call failed.
func (h *UIHandlers) AdminDashboard(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	q := model.BookQuery{Search: searchQuery(r)}

	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Admin Dashboard - Libris",
			PageTitle:   "Admin Dashboard",
			CurrentPage: PageDashboard,
		},
		ErrorMessage: msgFetchBooks,
		Fetch: func(ctx context.Context, sess service.SessionView, data map[string]any) error {
			data["Stats"] = viewmodel.StatsCard{Unavailable: true}
			data["Books"] = viewmodel.BookList{Query: q.Search, Error: msgFetchBooks}

			overview, err := h.Dashboard.AdminOverview(ctx, sess.Token())
			if err != nil {
				return err
			}
			card := viewmodel.StatsCard{Stats: overview.Stats}
			if overview.StatsError != nil {
				card.Unavailable = true
				h.handleAPIError(r, rs, overview.StatsError, msgFetchStats)
			}
			data["Stats"] = card
			data["Books"] = newBookList(overview.Books, q)
			return nil
		},
	})
}

// StatsFragment serves GET /dashboard/stats for the periodic htmx refresh.
func (h *UIHandlers) StatsFragment(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	card := viewmodel.StatsCard{Unavailable: true}
	stats, err := h.Dashboard.Stats(r.Context(), rs.Manager.Token())
	if err != nil {
		h.handleAPIError(r, rs, err, msgFetchStats)
	} else {
		card = viewmodel.StatsCard{Stats: stats}
	}
	h.renderFragment(w, r, rs, fragmentStats, card)
}

// Books serves GET /dashboard/books. htmx searches get only the table.
func (h *UIHandlers) Books(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	q := model.BookQuery{Search: searchQuery(r)}

	if WantsPartial(r) && HXTarget(r) == fragmentBookTable {
		h.renderFragment(w, r, rs, fragmentBookTable, h.loadCatalog(r, rs, q))
		return
	}

	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Books - Libris",
			PageTitle:   "Books",
			CurrentPage: PageBooks,
		},
		ErrorMessage: msgFetchBooks,
		Fetch: func(ctx context.Context, sess service.SessionView, data map[string]any) error {
			data["Books"] = viewmodel.BookList{Query: q.Search, Error: msgFetchBooks}
			all, err := h.Catalog.List(ctx, sess.Token(), model.BookQuery{})
			if err != nil {
				return err
			}
			data["Books"] = newBookList(all, q)
			return nil
		},
	})
}

// loadCatalog fetches the catalog for a table fragment. Failures are reported
// through the session and leave an empty table with an inline error.
func (h *UIHandlers) loadCatalog(r *http.Request, rs *RequestSession, q model.BookQuery) viewmodel.BookList {
	all, err := h.Catalog.List(r.Context(), rs.Manager.Token(), model.BookQuery{})
	if err != nil {
		h.handleAPIError(r, rs, err, msgFetchBooks)
		return viewmodel.BookList{Query: q.Search, Error: msgFetchBooks}
	}
	return newBookList(all, q)
}

// BookDelete serves DELETE /dashboard/books/{id} and answers with the refreshed table.
func (h *UIHandlers) BookDelete(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		h.badRequest(w, r, rs, msgBookNotFound)
		return
	}

	if err := h.Catalog.Delete(r.Context(), rs.Manager.Token(), id); err != nil {
		h.handleAPIError(r, rs, err, msgDeleteBook)
	} else {
		rs.Notify(ports.NotifySuccess, msgBookDeleted)
	}
	if rs.respondNavigation(w, r) {
		return
	}
	if !IsHTMX(r) {
		rs.redirect(w, r, "/dashboard/books")
		return
	}
	h.renderFragment(w, r, rs, fragmentBookTable, h.loadCatalog(r, rs, model.BookQuery{Search: searchQuery(r)}))
}

// badRequest reports a malformed action request. htmx callers keep their page.
func (h *UIHandlers) badRequest(w http.ResponseWriter, r *http.Request, rs *RequestSession, msg string) {
	rs.Notify(ports.NotifyError, msg)
	if IsHTMX(r) {
		flushToasts(w, rs)
		HTMX(w).Reswap("none")
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	rs.redirect(w, r, routeBack(r))
}

// routeBack picks the area list a failed plain-form action returns to.
func routeBack(r *http.Request) string {
	if domainauth.RouteUserHome.Contains(r.URL.Path) {
		return "/user-dashboard/books"
	}
	return "/dashboard/books"
}

// apiFieldError maps a validation failure the API tied to a form field.
func apiFieldError(err error) (field, msg string, ok bool) {
	if apperrors.KindOf(err) != apperrors.KindValidation {
		return "", "", false
	}
	field = apperrors.GetField(err)
	if field == "" {
		return "", "", false
	}
	return field, apperrors.UserMessage(err, msgSaveBook), true
}
