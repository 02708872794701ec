package httpx

import (
	"context"
	"net/http"

	"github.com/target/libris-ui/internal/domain/model"
	"github.com/target/libris-ui/internal/http/ui/viewmodel"
	"github.com/target/libris-ui/internal/ports"
	"github.com/target/libris-ui/internal/service"
)

const availablePreviewSize = 6

func newMemberHome(overview model.UserOverview, viewerID int64) viewmodel.MemberHome {
	home := viewmodel.MemberHome{
		TotalBooks: overview.TotalBooks,
		Borrowed:   viewmodel.BookList{Books: overview.Borrowed, Total: len(overview.Borrowed), ViewerID: viewerID},
		Available:  overview.Available,
	}
	if len(home.Available) > availablePreviewSize {
		home.MoreAvailable = len(home.Available) - availablePreviewSize
		home.Available = home.Available[:availablePreviewSize]
	}
	return home
}

func viewerID(rs *RequestSession) int64 {
	if u := rs.Manager.User(); u != nil {
		return u.ID
	}
	return 0
}

// UserDashboard serves GET /user-dashboard: the member's loans and a preview
// of what is available.
func (h *UIHandlers) UserDashboard(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	meta := PageMeta{Title: "My Library - Libris", PageTitle: "My Library", CurrentPage: PageUserDashboard}
	if u := rs.Manager.User(); u != nil && u.Name != "" {
		meta.PageTitle = "Welcome, " + u.Name + "!"
	}

	h.Page(w, r, PageSpec{
		Meta:         meta,
		ErrorMessage: msgFetchBooks,
		Fetch: func(ctx context.Context, sess service.SessionView, data map[string]any) error {
			data["Home"] = viewmodel.MemberHome{Borrowed: viewmodel.BookList{Error: msgFetchBooks}}
			overview, err := h.Borrowing.UserOverview(ctx, sess.Token())
			if err != nil {
				return err
			}
			data["Home"] = newMemberHome(overview, viewerID(rs))
			return nil
		},
	})
}

// UserBooks serves GET /user-dashboard/books with search and status filter.
// htmx filter changes get only the grid.
func (h *UIHandlers) UserBooks(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	q := bookQuery(r)

	if WantsPartial(r) && HXTarget(r) == fragmentUserBooks {
		h.renderFragment(w, r, rs, fragmentUserBooks, h.loadMemberCatalog(r, rs, q))
		return
	}

	h.Page(w, r, PageSpec{
		Meta: PageMeta{
			Title:       "Books - Libris",
			PageTitle:   "Books",
			CurrentPage: PageUserBooks,
		},
		ErrorMessage: msgFetchBooks,
		Fetch: func(ctx context.Context, sess service.SessionView, data map[string]any) error {
			data["StatusOptions"] = viewmodel.StatusOptions()
			data["Books"] = viewmodel.BookList{Query: q.Search, Status: string(q.Status), Error: msgFetchBooks}
			all, err := h.Catalog.List(ctx, sess.Token(), model.BookQuery{})
			if err != nil {
				return err
			}
			list := newBookList(all, q)
			list.ViewerID = viewerID(rs)
			data["Books"] = list
			return nil
		},
	})
}

func (h *UIHandlers) loadMemberCatalog(r *http.Request, rs *RequestSession, q model.BookQuery) viewmodel.BookList {
	list := h.loadCatalog(r, rs, q)
	list.Status = string(q.Status)
	list.ViewerID = viewerID(rs)
	return list
}

func (h *UIHandlers) loadMemberLoans(r *http.Request, rs *RequestSession) viewmodel.BookList {
	overview, err := h.Borrowing.UserOverview(r.Context(), rs.Manager.Token())
	if err != nil {
		h.handleAPIError(r, rs, err, msgFetchBorrowed)
		return viewmodel.BookList{Error: msgFetchBorrowed}
	}
	return newMemberHome(overview, viewerID(rs)).Borrowed
}

// UserBorrow serves POST /user-dashboard/books/{id}/borrow.
func (h *UIHandlers) UserBorrow(w http.ResponseWriter, r *http.Request) {
	h.memberLoanAction(w, r, h.Borrowing.Borrow, msgBookBorrowed, msgBorrowBook)
}

// UserReturn serves POST /user-dashboard/books/{id}/return.
func (h *UIHandlers) UserReturn(w http.ResponseWriter, r *http.Request) {
	h.memberLoanAction(w, r, h.Borrowing.Return, msgBookReturned, msgReturnBook)
}

// memberLoanAction runs a borrow or return and re-renders whichever list the
// action came from: the loans table on the dashboard or the books grid.
func (h *UIHandlers) memberLoanAction(
	w http.ResponseWriter,
	r *http.Request,
	action func(ctx context.Context, token string, id int64) error,
	okMsg, failMsg string,
) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		h.badRequest(w, r, rs, msgBookNotFound)
		return
	}

	if err := action(r.Context(), rs.Manager.Token(), id); err != nil {
		h.handleAPIError(r, rs, err, failMsg)
	} else {
		rs.Notify(ports.NotifySuccess, okMsg)
	}
	if rs.respondNavigation(w, r) {
		return
	}

	switch {
	case !IsHTMX(r):
		rs.redirect(w, r, "/user-dashboard/books")
	case HXTarget(r) == fragmentUserBorrowed:
		h.renderFragment(w, r, rs, fragmentUserBorrowed, h.loadMemberLoans(r, rs))
	default:
		h.renderFragment(w, r, rs, fragmentUserBooks, h.loadMemberCatalog(r, rs, bookQuery(r)))
	}
}
