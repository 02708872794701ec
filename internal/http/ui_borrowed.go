package httpx

import (
	"context"
	"net/http"

	"github.com/target/libris-ui/internal/http/ui/viewmodel"
	"github.com/target/libris-ui/internal/ports"
	"github.com/target/libris-ui/internal/service"
)

// Borrowed serves GET /dashboard/borrowed, the admin list of open loans.
func (h *UIHandlers) Borrowed(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	search := searchQuery(r)

	if WantsPartial(r) && HXTarget(r) == fragmentBorrowedTable {
		h.renderFragment(w, r, rs, fragmentBorrowedTable, h.loadBorrowed(r, rs, search))
		return
	}

	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Borrowed Books - Libris",
			PageTitle:   "Borrowed Books",
			CurrentPage: PageBorrowed,
		},
		ErrorMessage: msgFetchBorrowed,
		Fetch: func(ctx context.Context, sess service.SessionView, data map[string]any) error {
			data["Borrowed"] = viewmodel.BookList{Query: search, Error: msgFetchBorrowed}
			books, err := h.Borrowing.ListBorrowed(ctx, sess.Token(), search)
			if err != nil {
				return err
			}
			data["Borrowed"] = viewmodel.BookList{Books: books, Query: search, Total: len(books)}
			return nil
		},
	})
}

func (h *UIHandlers) loadBorrowed(r *http.Request, rs *RequestSession, search string) viewmodel.BookList {
	books, err := h.Borrowing.ListBorrowed(r.Context(), rs.Manager.Token(), search)
	if err != nil {
		h.handleAPIError(r, rs, err, msgFetchBorrowed)
		return viewmodel.BookList{Query: search, Error: msgFetchBorrowed}
	}
	return viewmodel.BookList{Books: books, Query: search, Total: len(books)}
}

// BorrowedReturn serves POST /dashboard/borrowed/{id}/return: an admin closes
// a loan and gets the refreshed table.
func (h *UIHandlers) BorrowedReturn(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		h.badRequest(w, r, rs, msgBookNotFound)
		return
	}

	if err := h.Borrowing.Return(r.Context(), rs.Manager.Token(), id); err != nil {
		h.handleAPIError(r, rs, err, msgReturnBook)
	} else {
		rs.Notify(ports.NotifySuccess, msgBookReturned)
	}
	if rs.respondNavigation(w, r) {
		return
	}
	if !IsHTMX(r) {
		rs.redirect(w, r, "/dashboard/borrowed")
		return
	}
	h.renderFragment(w, r, rs, fragmentBorrowedTable, h.loadBorrowed(r, rs, searchQuery(r)))
}
