// Package viewmodel holds the shapes handed to templates.
package viewmodel

import "github.com/target/libris-ui/internal/ports"

// User represents the signed-in user exposed to templates.
type User struct {
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether the admin navigation should be shown.
func (u *User) IsAdmin() bool { return u != nil && u.Role == "admin" }

// Initial returns the avatar letter for the header.
func (u *User) Initial() string {
	if u == nil {
		return ""
	}
	for _, src := range []string{u.Name, u.Email} {
		for _, r := range src {
			return string(r)
		}
	}
	return "?"
}

// Layout captures shared chrome metadata (titles, navigation state, auth flags).
type Layout struct {
	Title           string
	PageTitle       string
	CurrentPage     string
	CSRFToken       string
	IsAuthenticated bool
	User            *User
	Toasts          []ports.Notification
}

