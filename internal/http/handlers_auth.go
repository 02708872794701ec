package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/http/validation"
	"github.com/target/libris-ui/internal/ports"
)

const (
	authModeLogin    = "login"
	authModeRegister = "register"

	maxNameLen  = 255
	maxEmailLen = 255
)

// AuthHandlers serves the sign-in page and the session actions behind it.
type AuthHandlers struct {
	T      *TemplateRenderer
	IsDev  bool
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// authForm is the sticky state of the login and registration forms. Passwords
// are never echoed back.
type authForm struct {
	Mode  string
	Name  string
	Email string
	Role  string
}

func authMeta(mode string) PageMeta {
	if mode == authModeRegister {
		return PageMeta{Title: "Create account - Libris", PageTitle: "Create account", CurrentPage: PageAuth}
	}
	return PageMeta{Title: "Sign in - Libris", PageTitle: "Sign in", CurrentPage: PageAuth}
}

// Page renders the sign-in page. GET /auth?mode=register shows the registration form.
func (h *AuthHandlers) Page(w http.ResponseWriter, r *http.Request) {
	mode := authModeLogin
	if r.URL.Query().Get("mode") == authModeRegister {
		mode = authModeRegister
	}
	h.render(w, r, http.StatusOK, authForm{Mode: mode, Role: string(domainauth.RoleUser)}, nil)
}

// Login handles POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	rs, ok := RequestSessionFrom(r.Context())
	if !ok {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	form := authForm{Mode: authModeLogin, Email: email}

	v := validation.New().
		Validate("email", email, validation.Required("Email", maxEmailLen), validation.Email("Email")).
		Validate("password", password, validation.Present("Password"))
	if v.HasErrors() {
		h.render(w, r, http.StatusUnprocessableEntity, form, v)
		return
	}

	rs.Manager.Login(r.Context(), email, password)
	h.finish(w, r, rs)
}

// Register handles POST /auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	rs, ok := RequestSessionFrom(r.Context())
	if !ok {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	reg := ports.Registration{
		Name:                 strings.TrimSpace(r.PostFormValue("name")),
		Email:                strings.TrimSpace(r.PostFormValue("email")),
		Password:             r.PostFormValue("password"),
		PasswordConfirmation: r.PostFormValue("password_confirmation"),
		Role:                 domainauth.Role(strings.ToLower(strings.TrimSpace(r.PostFormValue("role")))),
		AdminCode:            strings.TrimSpace(r.PostFormValue("admin_code")),
	}
	if reg.Role == "" {
		reg.Role = domainauth.RoleUser
	}
	form := authForm{Mode: authModeRegister, Name: reg.Name, Email: reg.Email, Role: string(reg.Role)}

	v := validation.New().
		Validate("name", reg.Name, validation.Required("Name", maxNameLen)).
		Validate("email", reg.Email, validation.Required("Email", maxEmailLen), validation.Email("Email")).
		Validate("password", reg.Password, validation.Present("Password")).
		Validate("password_confirmation", reg.PasswordConfirmation,
			validation.Present("Password confirmation"),
			validation.Equals(reg.Password, "Passwords do not match.")).
		Validate("role", string(reg.Role), validation.OneOf("Role", []string{
			string(domainauth.RoleUser), string(domainauth.RoleAdmin),
		}))
	if v.HasErrors() {
		h.render(w, r, http.StatusUnprocessableEntity, form, v)
		return
	}

	before := rs.Manager.Token()
	rs.Manager.Register(r.Context(), reg)
	if rs.respondNavigation(w, r) {
		return
	}
	if token := rs.Manager.Token(); token != "" && token != before {
		// Account created but the profile is not loaded yet.
		rs.redirect(w, r, "/")
		return
	}
	h.render(w, r, http.StatusUnprocessableEntity, form, nil)
}

// Logout handles POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	rs, ok := RequestSessionFrom(r.Context())
	if !ok {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	rs.Manager.Logout(r.Context())
	h.finish(w, r, rs)
}

// finish follows the navigation raised by a session action. A session left
// holding a token without a profile goes to the index, which offers a retry.
func (h *AuthHandlers) finish(w http.ResponseWriter, r *http.Request, rs *RequestSession) {
	if rs.respondNavigation(w, r) {
		return
	}
	rs.redirect(w, r, "/")
}

// statusUser is the public face of a profile in /auth/status.
type statusUser struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status,omitempty"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	Ready         bool        `json:"ready"`
	User          *statusUser `json:"user,omitempty"`
}

// Status handles GET /auth/status for scripts that need the session state.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	rs, ok := RequestSessionFrom(r.Context())
	if !ok {
		WriteJSON(w, http.StatusOK, statusResponse{})
		return
	}
	snap := rs.Manager.Snapshot()
	resp := statusResponse{Authenticated: snap.Authenticated(), Ready: snap.Readiness == domainauth.Ready}
	if u := snap.User; u != nil {
		resp.User = &statusUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role), Status: string(u.Status)}
	}
	// Navigation raised while resolving the session is irrelevant to a JSON caller.
	// Pending notifications go back into the flash cookie for the next page.
	rs.nav.take()
	writeFlash(w, r, rs.cookies, rs.notes.drain())
	w.Header().Set("Cache-Control", "no-store")
	WriteJSON(w, http.StatusOK, resp)
}

func (h *AuthHandlers) render(w http.ResponseWriter, r *http.Request, status int, form authForm, v *validation.FieldValidator) {
	b := NewTemplateData(r, authMeta(form.Mode)).With("Form", form)
	if v != nil {
		b.WithValidator(v)
	} else {
		b.WithFieldErrors(nil)
	}
	data := b.Build()

	if rs, ok := RequestSessionFrom(r.Context()); ok {
		if WantsPartial(r) {
			flushToasts(w, rs)
		} else {
			data["Toasts"] = rs.notes.drain()
		}
	}

	name := "layout"
	if WantsPartial(r) {
		name = ContentTemplateFor(PageAuth)
	}
	if err := h.T.RenderStatus(w, status, name, data); err != nil {
		h.logger().ErrorContext(r.Context(), "auth page render failed", "error", err)
	}
}
