package httpx

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/http/ui/viewmodel"
	"github.com/target/libris-ui/internal/http/validation"
	"github.com/target/libris-ui/internal/ports"
)

const (
	maxTitleLen     = 255
	maxAuthorLen    = 255
	maxPublisherLen = 255
)

var isbnPattern = regexp.MustCompile(`^[0-9Xx\- ]{10,17}$`)

func bookFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit Book - Libris", PageTitle: "Edit Book", CurrentPage: PageBookForm}
	}
	return PageMeta{Title: "Add Book - Libris", PageTitle: "Add Book", CurrentPage: PageBookForm}
}

// BookNew serves GET /dashboard/books/new.
func (h *UIHandlers) BookNew(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	form := viewmodel.BookForm{
		Mode:  string(FormModeCreate),
		Input: model.BookInput{Availability: model.AvailabilityAvailable},
	}
	h.renderBookForm(w, r, rs, form, http.StatusOK)
}

// BookEdit serves GET /dashboard/books/{id}/edit.
func (h *UIHandlers) BookEdit(w http.ResponseWriter, r *http.Request) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		h.badRequest(w, r, rs, msgBookNotFound)
		return
	}

	book, err := h.Catalog.Get(r.Context(), rs.Manager.Token(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			rs.Notify(ports.NotifyError, msgBookNotFound)
		} else {
			h.handleAPIError(r, rs, err, msgFetchBooks)
		}
		if !rs.respondNavigation(w, r) {
			rs.redirect(w, r, "/dashboard/books")
		}
		return
	}

	form := viewmodel.BookForm{
		Mode: string(FormModeEdit),
		ID:   book.ID,
		Input: model.BookInput{
			Title:        book.Title,
			Author:       book.Author,
			Publisher:    book.Publisher,
			ISBN:         book.ISBN,
			Availability: book.Availability,
		},
	}
	if form.Input.Availability == "" {
		form.Input.Availability = model.AvailabilityUnavailable
		if book.IsAvailable() {
			form.Input.Availability = model.AvailabilityAvailable
		}
	}
	h.renderBookForm(w, r, rs, form, http.StatusOK)
}

// BookCreate serves POST /dashboard/books.
func (h *UIHandlers) BookCreate(w http.ResponseWriter, r *http.Request) {
	h.saveBook(w, r, FormModeCreate)
}

// BookUpdate serves POST /dashboard/books/{id}.
func (h *UIHandlers) BookUpdate(w http.ResponseWriter, r *http.Request) {
	h.saveBook(w, r, FormModeEdit)
}

func (h *UIHandlers) saveBook(w http.ResponseWriter, r *http.Request, mode FormMode) {
	rs, ok := h.requireProfile(w, r)
	if !ok {
		return
	}
	var id int64
	if mode == FormModeEdit {
		if id, ok = pathID(r, "id"); !ok {
			h.badRequest(w, r, rs, msgBookNotFound)
			return
		}
	}
	if err := r.ParseForm(); err != nil {
		h.badRequest(w, r, rs, msgSaveBook)
		return
	}

	in := bookInputFromForm(r)
	form := viewmodel.BookForm{Mode: string(mode), ID: id, Input: in}

	v := validateBookForm(in)
	if v.HasErrors() {
		form.Errors = v.Errors()
		h.renderBookForm(w, r, rs, form, http.StatusUnprocessableEntity)
		return
	}

	token := rs.Manager.Token()
	var err error
	if mode == FormModeEdit {
		_, err = h.Catalog.Update(r.Context(), token, id, in)
	} else {
		_, err = h.Catalog.Create(r.Context(), token, in)
	}
	if err != nil {
		if field, msg, isField := apiFieldError(err); isField {
			form.Errors = validation.New().Add(field, msg).Errors()
			h.renderBookForm(w, r, rs, form, http.StatusUnprocessableEntity)
			return
		}
		h.handleAPIError(r, rs, err, msgSaveBook)
		if rs.respondNavigation(w, r) {
			return
		}
		h.renderBookForm(w, r, rs, form, http.StatusBadGateway)
		return
	}

	if mode == FormModeEdit {
		rs.Notify(ports.NotifySuccess, msgBookUpdated)
	} else {
		rs.Notify(ports.NotifySuccess, msgBookAdded)
	}
	rs.redirect(w, r, "/dashboard")
}

func bookInputFromForm(r *http.Request) model.BookInput {
	in := model.BookInput{
		Title:        r.PostFormValue("title"),
		Author:       r.PostFormValue("author"),
		Publisher:    r.PostFormValue("publisher"),
		ISBN:         r.PostFormValue("isbn"),
		Availability: r.PostFormValue("availability"),
	}
	in.Normalize()
	// The select may post either casing; the API expects the canonical label.
	switch {
	case strings.EqualFold(in.Availability, model.AvailabilityAvailable):
		in.Availability = model.AvailabilityAvailable
	case strings.EqualFold(in.Availability, model.AvailabilityUnavailable):
		in.Availability = model.AvailabilityUnavailable
	}
	return in
}

func validateBookForm(in model.BookInput) *validation.FieldValidator {
	return validation.New().
		Validate("title", in.Title, validation.Required("Title", maxTitleLen)).
		Validate("author", in.Author, validation.Required("Author", maxAuthorLen)).
		Validate("publisher", in.Publisher, validation.Optional("Publisher", maxPublisherLen)).
		Validate("isbn", in.ISBN, validation.Pattern("ISBN", isbnPattern)).
		Validate("availability", in.Availability, validation.OneOf("Availability", []string{
			model.AvailabilityAvailable, model.AvailabilityUnavailable,
		}))
}

// renderBookForm renders the form as a page, or as the main content for htmx.
func (h *UIHandlers) renderBookForm(
	w http.ResponseWriter,
	r *http.Request,
	rs *RequestSession,
	form viewmodel.BookForm,
	status int,
) {
	if form.Errors == nil {
		form.Errors = map[string]string{}
	}
	b := NewTemplateData(r, bookFormMeta(FormMode(form.Mode))).
		WithFieldErrors(form.Errors).
		With("Form", form).
		With("AvailabilityOptions", viewmodel.AvailabilityOptions())
	if len(form.Errors) > 0 {
		b.WithError(errMsgFixBelow)
	}
	h.renderPageStatus(w, r, rs, status, b.Build())
}
