package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/ports"
	"github.com/target/libris-ui/internal/service"
)

func flashNotes(t *testing.T, rec interface{ Result() *http.Response }) []ports.Notification {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == FlashCookieName && c.MaxAge > 0 {
			return decodeFlash(t, c.Value)
		}
	}
	return nil
}

func TestAuthPage(t *testing.T) {
	app := newTestApp(t)

	t.Run("sign in", func(t *testing.T) {
		rec := app.do(t, testRequest{Path: "/auth"})
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.True(t, ContainsAll(body, []string{`action="/auth/login"`, `name="csrf_token" value="` + testCSRFToken + `"`, "<title>Sign in - Libris</title>"}), body)
		assert.NotContains(t, body, `action="/auth/register"`)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("register mode", func(t *testing.T) {
		rec := app.do(t, testRequest{Path: "/auth?mode=register"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, ContainsAll(rec.Body.String(), []string{`action="/auth/register"`, `name="admin_code"`}))
	})

	t.Run("signed in users go home", func(t *testing.T) {
		rec := app.do(t, testRequest{Path: "/auth", Token: testMemberToken})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/user-dashboard", rec.Header().Get("Location"))
	})
}

func TestAuthLogin(t *testing.T) {
	t.Run("success stores token and lands on home", func(t *testing.T) {
		app := newTestApp(t)
		var seen ports.Credentials
		app.auth.LoginFunc = func(_ context.Context, creds ports.Credentials) (string, error) {
			seen = creds
			return testAdminToken, nil
		}

		rec := app.do(t, testRequest{
			Method: http.MethodPost, Path: "/auth/login",
			Form: url.Values{"email": {"  ada@example.com "}, "password": {" secret "}},
		})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		assert.Equal(t, "ada@example.com", seen.Email)
		assert.Equal(t, " secret ", seen.Password, "passwords are sent as typed")

		token := responseCookie(rec, AuthCookieName)
		require.NotNil(t, token)
		assert.Equal(t, testAdminToken, token.Value)
		assert.True(t, token.HttpOnly)

		notes := flashNotes(t, rec)
		require.Len(t, notes, 1)
		assert.Equal(t, service.MsgLoginSuccess, notes[0].Message)
	})

	t.Run("member lands on member home", func(t *testing.T) {
		app := newTestApp(t)
		app.auth.Token = testMemberToken
		rec := app.do(t, testRequest{
			Method: http.MethodPost, Path: "/auth/login",
			Form: url.Values{"email": {"max@example.com"}, "password": {"pw"}},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/user-dashboard", rec.Header().Get("Location"))
	})

	t.Run("invalid form re-renders with 422", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.do(t, testRequest{
			Method: http.MethodPost, Path: "/auth/login",
			Form: url.Values{"email": {"not-an-email"}},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.True(t, ContainsAll(body, []string{"field-error", `value="not-an-email"`, errMsgFixBelow}), body)
		assert.Nil(t, responseCookie(rec, AuthCookieName))
	})

	t.Run("rejected credentials go back to sign in", func(t *testing.T) {
		app := newTestApp(t)
		app.auth.LoginFunc = func(context.Context, ports.Credentials) (string, error) {
			return "", apperrors.Unauthenticated("Invalid credentials")
		}
		rec := app.do(t, testRequest{
			Method: http.MethodPost, Path: "/auth/login",
			Form: url.Values{"email": {"ada@example.com"}, "password": {"wrong"}},
		})
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/auth", rec.Header().Get("Location"))
		notes := flashNotes(t, rec)
		require.Len(t, notes, 1)
		assert.Equal(t, ports.NotifyError, notes[0].Level)
		assert.Equal(t, "Invalid credentials", notes[0].Message)
	})

	t.Run("htmx login redirects client side", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.do(t, testRequest{
			Method: http.MethodPost, Path: "/auth/login", HTMX: true,
			Form: url.Values{"email": {"ada@example.com"}, "password": {"pw"}},
		})
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("HX-Redirect"))
	})

	t.Run("missing csrf token is refused", func(t *testing.T) {
		app := newTestApp(t)
		rec := app.do(t, testRequest{
			Method: http.MethodPost, Path: "/auth/login", NoCSRF: true,
			Form: url.Values{"email": {"ada@example.com"}, "password": {"pw"}},
		})
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Nil(t, responseCookie(rec, AuthCookieName))
	})
}

func TestAuthRegister(t *testing.T) {
	validForm := func() url.Values {
		return url.Values{
			"name":                  {"Max Member"},
			"email":                 {"max@example.com"},
			"password":              {"hunter22"},
			"password_confirmation": {"hunter22"},
			"admin_code":            {"ignored"},
		}
	}

	t.Run("member account", func(t *testing.T) {
		app := newTestApp(t)
		app.auth.Token = testMemberToken
		rec := app.do(t, testRequest{Method: http.MethodPost, Path: "/auth/register", Form: validForm()})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/user-dashboard", rec.Header().Get("Location"))
		regs := app.auth.Registrations()
		require.Len(t, regs, 1)
		assert.Equal(t, domainauth.RoleUser, regs[0].Role)
		assert.Empty(t, regs[0].AdminCode, "admin code only travels with admin registrations")
	})

	t.Run("admin account carries the code", func(t *testing.T) {
		app := newTestApp(t)
		form := validForm()
		form.Set("role", "Admin")
		form.Set("admin_code", "letmein")
		rec := app.do(t, testRequest{Method: http.MethodPost, Path: "/auth/register", Form: form})

		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/dashboard", rec.Header().Get("Location"))
		regs := app.auth.Registrations()
		require.Len(t, regs, 1)
		assert.Equal(t, domainauth.RoleAdmin, regs[0].Role)
		assert.Equal(t, "letmein", regs[0].AdminCode)
	})

	t.Run("mismatched passwords", func(t *testing.T) {
		app := newTestApp(t)
		form := validForm()
		form.Set("password_confirmation", "different")
		rec := app.do(t, testRequest{Method: http.MethodPost, Path: "/auth/register", Form: form})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Contains(t, rec.Body.String(), "Passwords do not match.")
		assert.Empty(t, app.auth.Registrations())
	})

	t.Run("unknown role", func(t *testing.T) {
		app := newTestApp(t)
		form := validForm()
		form.Set("role", "librarian")
		rec := app.do(t, testRequest{Method: http.MethodPost, Path: "/auth/register", Form: form})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.Empty(t, app.auth.Registrations())
	})

	t.Run("api refusal keeps the form", func(t *testing.T) {
		app := newTestApp(t)
		app.auth.RegisterFunc = func(context.Context, ports.Registration) (string, error) {
			return "", apperrors.Validation("The email has already been taken.")
		}
		rec := app.do(t, testRequest{Method: http.MethodPost, Path: "/auth/register", Form: validForm()})

		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		body := rec.Body.String()
		assert.True(t, ContainsAll(body, []string{`value="max@example.com"`, "The email has already been taken."}), body)
		assert.NotContains(t, body, "hunter22")
	})
}

func TestAuthLogout(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, testRequest{Method: http.MethodPost, Path: "/auth/logout", Token: testAdminToken})

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth", rec.Header().Get("Location"))
	cleared := responseCookie(rec, AuthCookieName)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
	notes := flashNotes(t, rec)
	require.Len(t, notes, 1)
	assert.Equal(t, service.MsgLogoutSuccess, notes[0].Message)
}

func TestAuthStatus(t *testing.T) {
	app := newTestApp(t)

	t.Run("anonymous", func(t *testing.T) {
		rec := app.do(t, testRequest{Path: "/auth/status"})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"authenticated":false,"ready":true}`, rec.Body.String())
		assert.Nil(t, responseCookie(rec, FlashCookieName))
	})

	t.Run("signed in", func(t *testing.T) {
		rec := app.do(t, testRequest{Path: "/auth/status", Token: testMemberToken})
		require.Equal(t, http.StatusOK, rec.Code)
		var got statusResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.Authenticated)
		require.NotNil(t, got.User)
		assert.Equal(t, statusUser{ID: 2, Name: "Max Member", Email: "max@example.com", Role: "user", Status: "active"}, *got.User)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	})

	t.Run("pending flash survives polling", func(t *testing.T) {
		note := ports.Notification{Level: ports.NotifySuccess, Message: msgBookAdded}
		seed := httptest.NewRecorder()
		writeFlash(seed, httptest.NewRequest(http.MethodGet, "/", nil), CookieOptions{}, []ports.Notification{note})

		rec := app.do(t, testRequest{Path: "/auth/status", Token: testAdminToken, Cookies: []*http.Cookie{responseCookie(seed, FlashCookieName)}})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []ports.Notification{note}, flashNotes(t, rec))
	})
}
