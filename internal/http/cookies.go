package httpx

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/target/libris-ui/internal/ports"
)

const (
	// AuthCookieName holds the bearer token issued by the library API.
	AuthCookieName = "authToken"
	// FlashCookieName carries notifications across a redirect.
	FlashCookieName = "flash"

	maxFlashNotes   = 5
	maxFlashMessage = 300
)

// CookieOptions are the attributes shared by the auth and flash cookies.
type CookieOptions struct {
	Domain string
	// Secure forces the Secure attribute. Requests that arrived over TLS get it anyway.
	Secure bool
}

func (o CookieOptions) secureFor(r *http.Request) bool {
	return o.Secure || isSecureRequest(r)
}

// cookieTokenStore is the durable token storage for one request. Writes go to
// the response; later reads in the same request observe them.
type cookieTokenStore struct {
	w    http.ResponseWriter
	r    *http.Request
	opts CookieOptions
	now  func() time.Time

	written bool
	saved   bool
	token   string
}

var _ ports.TokenStore = (*cookieTokenStore)(nil)

// newCookieTokenStore measures cookie lifetimes against now, which defaults to
// the wall clock.
func newCookieTokenStore(w http.ResponseWriter, r *http.Request, opts CookieOptions, now func() time.Time) *cookieTokenStore {
	if now == nil {
		now = time.Now
	}
	return &cookieTokenStore{w: w, r: r, opts: opts, now: now}
}

func (s *cookieTokenStore) Load(context.Context) (string, error) {
	if s.written {
		return s.token, nil
	}
	return cookieValue(s.r, AuthCookieName), nil
}

func (s *cookieTokenStore) Save(_ context.Context, token string, expiresAt time.Time) error {
	maxAge := int(expiresAt.Sub(s.now()) / time.Second)
	if maxAge <= 0 {
		return s.Clear(context.Background())
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     AuthCookieName,
		Value:    token,
		Path:     "/",
		Domain:   s.opts.Domain,
		Expires:  expiresAt.UTC(),
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.opts.secureFor(s.r),
		SameSite: http.SameSiteStrictMode,
	})
	s.written, s.saved, s.token = true, true, token
	return nil
}

func (s *cookieTokenStore) Clear(context.Context) error {
	s.written, s.token = true, ""
	if cookieValue(s.r, AuthCookieName) == "" && !s.saved {
		return nil
	}
	s.saved = false
	expireCookie(s.w, s.r, AuthCookieName, s.opts)
	return nil
}

func expireCookie(w http.ResponseWriter, r *http.Request, name string, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.secureFor(r),
		SameSite: http.SameSiteStrictMode,
	})
}

// writeFlash stores notifications for the next page render.
func writeFlash(w http.ResponseWriter, r *http.Request, opts CookieOptions, notes []ports.Notification) {
	if len(notes) == 0 {
		return
	}
	if len(notes) > maxFlashNotes {
		notes = notes[len(notes)-maxFlashNotes:]
	}
	trimmed := make([]ports.Notification, 0, len(notes))
	for _, n := range notes {
		if runes := []rune(n.Message); len(runes) > maxFlashMessage {
			n.Message = string(runes[:maxFlashMessage])
		}
		trimmed = append(trimmed, n)
	}
	b, err := json.Marshal(trimmed)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		Domain:   opts.Domain,
		MaxAge:   60,
		HttpOnly: true,
		Secure:   opts.secureFor(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// readFlash decodes the flash cookie. A tampered or stale cookie yields nothing.
func readFlash(r *http.Request) []ports.Notification {
	raw := cookieValue(r, FlashCookieName)
	if raw == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var notes []ports.Notification
	if err := json.Unmarshal(b, &notes); err != nil {
		return nil
	}
	out := notes[:0]
	for _, n := range notes {
		switch n.Level {
		case ports.NotifySuccess, ports.NotifyError, ports.NotifyInfo:
		default:
			continue
		}
		if n.Message != "" {
			out = append(out, n)
		}
	}
	if len(out) > maxFlashNotes {
		out = out[:maxFlashNotes]
	}
	return out
}
