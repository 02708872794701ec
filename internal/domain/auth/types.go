package auth

// Package auth contains domain-level types for the client session: who is signed in,
// which role they hold and where the dashboard should send them.
// It is pure and free of framework/adapter concerns.

import (
	"errors"
	"strings"
	"time"
)

// Role represents the role reported by the library API for a profile.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether r is one of the roles the dashboard knows how to route.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// UserStatus is the account status reported by the API.
type UserStatus string

const (
	StatusActive   UserStatus = "active"
	StatusInactive UserStatus = "inactive"
)

// UserProfile is the profile returned by GET /profile.
// It is replaced wholesale on every refresh and never mutated in place.
type UserProfile struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	Status    UserStatus `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsAdmin returns true if the profile carries the admin role.
func (p UserProfile) IsAdmin() bool { return p.Role == RoleAdmin }

// Readiness gates rendering until the initial auth resolution completes.
type Readiness int

const (
	Initializing Readiness = iota
	Ready
)

func (r Readiness) String() string {
	if r == Ready {
		return "ready"
	}
	return "initializing"
}

// Snapshot is a read-only copy of the session state handed to consumers.
type Snapshot struct {
	Token     string
	User      *UserProfile
	Readiness Readiness
}

// Authenticated reports whether the snapshot carries both a token and a profile.
func (s Snapshot) Authenticated() bool { return s.Token != "" && s.User != nil }

// Route is a navigation target inside the dashboard.
type Route string

const (
	RouteLogin     Route = "/auth"
	RouteAdminHome Route = "/dashboard"
	RouteUserHome  Route = "/user-dashboard"
)

// HomeFor returns the landing route for a role. Unknown roles land on the login route.
func HomeFor(role Role) Route {
	switch role {
	case RoleAdmin:
		return RouteAdminHome
	case RoleUser:
		return RouteUserHome
	default:
		return RouteLogin
	}
}

// Contains reports whether path lies inside the area rooted at r.
func (r Route) Contains(path string) bool {
	root := string(r)
	return path == root || strings.HasPrefix(path, root+"/")
}

// MinTokenLength is the shortest token accepted by the syntactic check.
const MinTokenLength = 10

var (
	ErrEmptyToken    = errors.New("token is empty")
	ErrTokenTooShort = errors.New("token is too short")
)

// ValidateTokenSyntax performs the client-side sanity check on a bearer token.
// No cryptographic verification happens here; the API is the authority.
func ValidateTokenSyntax(token string, minLength int) error {
	if minLength <= 0 {
		minLength = MinTokenLength
	}
	t := strings.TrimSpace(token)
	if t == "" {
		return ErrEmptyToken
	}
	if len(t) < minLength {
		return ErrTokenTooShort
	}
	return nil
}
