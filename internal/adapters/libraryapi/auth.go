package libraryapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	jmespath "github.com/jmespath-community/go-jmespath"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/ports"
)

const (
	pathLogin    = "/login"
	pathRegister = "/register"
	pathProfile  = "/profile"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds ports.Credentials) (string, error) {
	doc, err := c.do(ctx, call{method: http.MethodPost, path: pathLogin, anonymous: true, body: creds})
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(stringAt(doc, "token"))
	if token == "" {
		return "", apperrors.Malformed("Login response missing authentication token")
	}
	return token, nil
}

// Register creates an account and returns its bearer token.
func (c *Client) Register(ctx context.Context, reg ports.Registration) (string, error) {
	if reg.Role != domainauth.RoleAdmin {
		reg.AdminCode = ""
	}
	doc, err := c.do(ctx, call{method: http.MethodPost, path: pathRegister, anonymous: true, body: reg})
	if err != nil {
		return "", err
	}
	if !truthy(doc, "status") {
		return "", apperrors.Validation(fallback(messageOf(doc), "Registration failed. Please try again."))
	}
	token := strings.TrimSpace(stringAt(doc, "token"))
	if token == "" {
		return "", apperrors.Malformed("Registration response missing authentication token")
	}
	return token, nil
}

// profileRecord tolerates the loose timestamp formats the API emits.
type profileRecord struct {
	ID        int64                 `json:"id"`
	Name      string                `json:"name"`
	Email     string                `json:"email"`
	Role      domainauth.Role       `json:"role"`
	Status    domainauth.UserStatus `json:"status"`
	CreatedAt string                `json:"created_at"`
}

var createdAtLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02"}

// FetchProfile loads the profile of the token's user. The envelope must be
// {status: "success", data: {...}}. The role is passed on as sent; the session
// rejects anything but an exact "admin" or "user".
func (c *Client) FetchProfile(ctx context.Context, token string) (domainauth.UserProfile, error) {
	doc, err := c.do(ctx, call{method: http.MethodGet, path: pathProfile, token: token})
	if err != nil {
		return domainauth.UserProfile{}, err
	}
	if !statusSucceeded(doc) {
		return domainauth.UserProfile{}, apperrors.Malformed("Profile fetch returned invalid data")
	}
	data, err := jmespath.Search("data", doc)
	if err != nil || data == nil {
		return domainauth.UserProfile{}, apperrors.Malformed("Profile fetch returned invalid data")
	}

	var rec profileRecord
	if err := convert(data, &rec); err != nil {
		return domainauth.UserProfile{}, apperrors.Wrap(err, apperrors.ErrCodeMalformed, "Profile fetch returned invalid data")
	}

	p := domainauth.UserProfile{
		ID:     rec.ID,
		Name:   rec.Name,
		Email:  rec.Email,
		Role:   rec.Role,
		Status: rec.Status,
	}
	for _, layout := range createdAtLayouts {
		if ts, perr := time.Parse(layout, rec.CreatedAt); perr == nil {
			p.CreatedAt = ts
			break
		}
	}
	return p, nil
}
