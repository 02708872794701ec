package httpx

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"
)

const (
	// CSRFCookieName holds the double-submit token. It is readable by scripts so
	// htmx can echo it in CSRFHeaderName.
	CSRFCookieName = "csrf_token"
	// CSRFHeaderName is the header htmx requests carry (canonical form).
	CSRFHeaderName = "X-Csrf-Token"
	// CSRFFormField is the hidden input used by plain form posts.
	CSRFFormField = "csrf_token"

	csrfTokenBytes = 32
	csrfCookieTTL  = 12 * time.Hour
	maxFormMemory  = 1 << 20

	msgCSRFRejected = "Your form has expired. Please reload the page and try again."
)

// CSRFConfig holds configuration for CSRF protection middleware.
type CSRFConfig struct {
	CookieDomain string
	// SecureCookies forces the Secure attribute regardless of how the request arrived.
	SecureCookies bool
	Logger        *slog.Logger
}

// CSRFProtection implements the double-submit cookie pattern. A token is issued
// on first contact and every unsafe method must echo it in the X-Csrf-Token
// header or the csrf_token form field.
func CSRFProtection(cfg CSRFConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookieValue(r, CSRFCookieName)
			if token == "" {
				var err error
				if token, err = generateCSRFToken(); err != nil {
					logger.ErrorContext(r.Context(), "csrf token generation failed", "error", err)
					http.Error(w, "unable to generate CSRF token", http.StatusInternalServerError)
					return
				}
				http.SetCookie(w, &http.Cookie{
					Name:     CSRFCookieName,
					Value:    token,
					Path:     "/",
					Domain:   cfg.CookieDomain,
					Secure:   cfg.SecureCookies || isSecureRequest(r),
					SameSite: http.SameSiteStrictMode,
					MaxAge:   int(csrfCookieTTL / time.Second),
				})
			}

			r = r.WithContext(setCSRFTokenInContext(r.Context(), token))

			if requiresCSRFValidation(r.Method) && !validCSRFToken(r, token) {
				logger.WarnContext(r.Context(), "csrf validation failed",
					"method", r.Method, "path", r.URL.Path, "htmx", IsHTMX(r))
				rejectCSRF(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// rejectCSRF answers htmx callers with a toast so the page stays usable.
func rejectCSRF(w http.ResponseWriter, r *http.Request) {
	if IsHTMX(r) {
		HTMX(w).Reswap("none").Toast(msgCSRFRejected, "error")
		w.WriteHeader(http.StatusForbidden)
		return
	}
	http.Error(w, "CSRF token validation failed", http.StatusForbidden)
}

func requiresCSRFValidation(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return false
	default:
		return true
	}
}

func generateCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// validCSRFToken compares the submitted token to the cookie in constant time.
// The header wins over the form field; the body is only parsed for form posts.
func validCSRFToken(r *http.Request, cookieToken string) bool {
	if cookieToken == "" {
		return false
	}
	submitted := r.Header.Get(CSRFHeaderName)
	if submitted == "" {
		submitted = formCSRFToken(r)
	}
	if submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(submitted), []byte(cookieToken)) == 1
}

func formCSRFToken(r *http.Request) string {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	switch mediaType {
	case "application/x-www-form-urlencoded":
		err = r.ParseForm()
	case "multipart/form-data":
		err = r.ParseMultipartForm(maxFormMemory)
	default:
		return ""
	}
	if err != nil {
		return ""
	}
	return r.PostFormValue(CSRFFormField)
}

type csrfTokenKey struct{}

func setCSRFTokenInContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfTokenKey{}, token)
}

// GetCSRFToken returns the token issued for this request, for templates.
func GetCSRFToken(r *http.Request) string {
	token, _ := r.Context().Value(csrfTokenKey{}).(string)
	return token
}
