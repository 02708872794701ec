//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"
	"time"
)

// BookStatus is the borrow state reported on the user-facing catalog.
type BookStatus string

const (
	BookStatusAvailable BookStatus = "available"
	BookStatusBorrowed  BookStatus = "borrowed"
)

// Availability values used by the admin catalog form.
const (
	AvailabilityAvailable   = "Available"
	AvailabilityUnavailable = "Unavailable"
)

// Book is a catalog record as returned by the library API.
// Admin endpoints populate Availability, user endpoints populate Status and the borrow fields.
type Book struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Author       string     `json:"author"`
	Publisher    string     `json:"publisher,omitempty"`
	ISBN         string     `json:"isbn,omitempty"`
	Availability string     `json:"availability,omitempty"`
	Status       BookStatus `json:"status,omitempty"`
	BorrowedBy   *int64     `json:"borrowed_by,omitempty"`
	BorrowedAt   string     `json:"borrowed_at,omitempty"`
	ReturnDate   string     `json:"return_date,omitempty"`
}

// IsAvailable reports whether the book can be borrowed.
// Status wins when present; otherwise the free-form availability label is consulted.
func (b Book) IsAvailable() bool {
	if b.Status != "" {
		return b.Status == BookStatusAvailable
	}
	return strings.EqualFold(strings.TrimSpace(b.Availability), AvailabilityAvailable)
}

// BookInput is the create/update payload for POST /books and PUT /books/{id}.
type BookInput struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Publisher    string `json:"publisher"`
	ISBN         string `json:"isbn,omitempty"`
	Availability string `json:"availability"`
}

// Normalize trims user input and applies the default availability.
func (in *BookInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Publisher = strings.TrimSpace(in.Publisher)
	in.ISBN = strings.TrimSpace(in.ISBN)
	in.Availability = strings.TrimSpace(in.Availability)
	if in.Availability == "" {
		in.Availability = AvailabilityAvailable
	}
}

// StatusFilter narrows a book list by borrow state.
type StatusFilter string

const (
	FilterAll       StatusFilter = "all"
	FilterAvailable StatusFilter = "available"
	FilterBorrowed  StatusFilter = "borrowed"
)

// ParseStatusFilter normalizes a query value, defaulting to FilterAll.
func ParseStatusFilter(v string) StatusFilter {
	switch StatusFilter(strings.ToLower(strings.TrimSpace(v))) {
	case FilterAvailable:
		return FilterAvailable
	case FilterBorrowed:
		return FilterBorrowed
	default:
		return FilterAll
	}
}

// BookQuery holds the client-side search options for a book list.
type BookQuery struct {
	Search string
	Status StatusFilter
}

// Matches reports whether b satisfies the query.
// Search is a case-insensitive substring match over title, author, publisher and ISBN.
func (q BookQuery) Matches(b Book) bool {
	switch q.Status {
	case FilterAvailable:
		if !b.IsAvailable() {
			return false
		}
	case FilterBorrowed:
		if b.IsAvailable() {
			return false
		}
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	if needle == "" {
		return true
	}
	for _, field := range []string{b.Title, b.Author, b.Publisher, b.ISBN} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

// FilterBooks returns the books matching q, preserving order.
func FilterBooks(books []Book, q BookQuery) []Book {
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if q.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}

// DashboardStats are the aggregate counts from GET /dashboard/stats.
type DashboardStats struct {
	TotalBooks     int       `json:"totalBooks"`
	TotalUsers     int       `json:"totalUsers"`
	AvailableBooks int       `json:"availableBooks"`
	BorrowedBooks  int       `json:"borrowedBooks"`
	LastUpdated    time.Time `json:"-"`
}

// AvailabilityPercent returns the share of available books, 0 when the catalog is empty.
func (s DashboardStats) AvailabilityPercent() float64 {
	if s.TotalBooks <= 0 {
		return 0
	}
	return float64(s.AvailableBooks) / float64(s.TotalBooks) * 100
}

// AdminOverview is the data behind the admin dashboard.
type AdminOverview struct {
	Stats      DashboardStats
	Books      []Book
	StatsError error
}

// UserOverview is the data behind the user dashboard.
type UserOverview struct {
	TotalBooks int
	Borrowed   []Book
	Available  []Book
}
