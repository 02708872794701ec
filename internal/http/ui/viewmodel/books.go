package viewmodel

import (
	"strconv"

	"github.com/target/libris-ui/internal/domain/model"
)

// BookForm is the state of the create/edit form.
type BookForm struct {
	Mode   string // "create" or "edit"
	ID     int64
	Input  model.BookInput
	Errors map[string]string
}

// Action is where the form posts.
func (f BookForm) Action() string {
	if f.Mode == "edit" && f.ID > 0 {
		return "/dashboard/books/" + strconv.FormatInt(f.ID, 10)
	}
	return "/dashboard/books"
}

// StatsCard is the admin stats fragment.
type StatsCard struct {
	Stats model.DashboardStats
	// Unavailable is set when the stats call failed but the page still rendered.
	Unavailable bool
}

// BookList is a searchable table fragment.
type BookList struct {
	Books  []model.Book
	Query  string
	Status string
	// Total is the count before the search narrowed the list.
	Total int
	Error string
	// ViewerID is the signed-in member, used to offer returns on their own loans.
	ViewerID int64
}

// Empty reports whether nothing matched.
func (l BookList) Empty() bool { return len(l.Books) == 0 }

// BorrowedByViewer reports whether b is on loan to the signed-in member.
func (l BookList) BorrowedByViewer(b model.Book) bool {
	return l.ViewerID > 0 && b.BorrowedBy != nil && *b.BorrowedBy == l.ViewerID && !b.IsAvailable()
}

// Filtered reports whether a search or status filter is active.
func (l BookList) Filtered() bool { return l.Query != "" || (l.Status != "" && l.Status != "all") }

// MemberHome is the member dashboard.
type MemberHome struct {
	TotalBooks int
	Borrowed   BookList
	// Available is a short preview; the full list lives on the books page.
	Available []model.Book
	// MoreAvailable is how many available books the preview left out.
	MoreAvailable int
}

// StatusOptions are the choices of the member status filter.
func StatusOptions() []Option {
	return []Option{
		{Value: "all", Label: "All Books"},
		{Value: "available", Label: "Available"},
		{Value: "borrowed", Label: "Borrowed"},
	}
}

// AvailabilityOptions are the choices of the admin availability select.
func AvailabilityOptions() []Option {
	return []Option{
		{Value: model.AvailabilityAvailable, Label: model.AvailabilityAvailable},
		{Value: model.AvailabilityUnavailable, Label: model.AvailabilityUnavailable},
	}
}

// Option is a select choice.
type Option struct {
	Value string
	Label string
}
