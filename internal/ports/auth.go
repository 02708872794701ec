package ports

// Package ports defines interfaces (hexagonal ports) for session and library behavior.
// Implementations live in internal/adapters and internal/http; orchestration in internal/service.

import (
	"context"
	"time"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
)

// Credentials carries the login form values.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration carries the registration form values.
// AdminCode is forwarded untouched; the API decides whether it is required.
type Registration struct {
	Name                 string          `json:"name"`
	Email                string          `json:"email"`
	Password             string          `json:"password"`
	PasswordConfirmation string          `json:"password_confirmation"`
	Role                 domainauth.Role `json:"role"`
	AdminCode            string          `json:"admin_code,omitempty"`
}

// AuthGateway exchanges credentials for a bearer token.
type AuthGateway interface {
	Login(ctx context.Context, creds Credentials) (string, error)
	Register(ctx context.Context, reg Registration) (string, error)
}

// ProfileFetcher loads the profile that belongs to a bearer token.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, token string) (domainauth.UserProfile, error)
}

// TokenStore is the durable client-side storage for the bearer token.
// The session manager is its only writer.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string, expiresAt time.Time) error
	Clear(ctx context.Context) error
}

// Navigator receives navigation intents from the session manager.
type Navigator interface {
	Navigate(route domainauth.Route)
}

// NotificationLevel is the severity of a user-visible notification.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyError   NotificationLevel = "error"
	NotifyInfo    NotificationLevel = "info"
)

// Notification is a toast shown to the user.
type Notification struct {
	Level   NotificationLevel `json:"type"`
	Message string            `json:"message"`
}

// Notifier shows notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// ProfileCache stores profiles keyed by an opaque token fingerprint.
// Get returns found=false on a miss.
type ProfileCache interface {
	Get(ctx context.Context, key string) (domainauth.UserProfile, bool, error)
	Set(ctx context.Context, key string, profile domainauth.UserProfile, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
