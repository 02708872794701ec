package httpx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/target/libris-ui/internal/http/ui/viewmodel"
	"github.com/target/libris-ui/internal/http/validation"
)

func TestNewTemplateData(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	meta := PageMeta{
		Title:       "Test Title",
		PageTitle:   "Test Page",
		CurrentPage: "test",
	}

	data := NewTemplateData(r, meta).Build()

	if data["Title"] != "Test Title" {
		t.Errorf("Title = %v, want %v", data["Title"], "Test Title")
	}
	if data["PageTitle"] != "Test Page" {
		t.Errorf("PageTitle = %v, want %v", data["PageTitle"], "Test Page")
	}
	if data["CurrentPage"] != "test" {
		t.Errorf("CurrentPage = %v, want %v", data["CurrentPage"], "test")
	}
	if data["IsAuthenticated"] != false {
		t.Errorf("IsAuthenticated = %v, want %v", data["IsAuthenticated"], false)
	}
	if _, ok := data["User"]; ok {
		t.Error("User should not be set for anonymous requests")
	}
}

func TestNewTemplateData_SignedIn(t *testing.T) {
	rs, _ := gateSession(t, testMemberToken, "/user-dashboard")
	if rs == nil {
		t.Fatal("gate did not pass the member through")
	}
	r := httptest.NewRequest(http.MethodGet, "/user-dashboard", nil)
	r = r.WithContext(setCSRFTokenInContext(withRequestSession(context.Background(), rs), "tok"))

	data := NewTemplateData(r, PageMeta{Title: "Home"}).Build()

	if data["IsAuthenticated"] != true {
		t.Errorf("IsAuthenticated = %v, want true", data["IsAuthenticated"])
	}
	if data["CSRFToken"] != "tok" {
		t.Errorf("CSRFToken = %v, want tok", data["CSRFToken"])
	}
	u, ok := data["User"].(*viewmodel.User)
	if !ok {
		t.Fatalf("User = %T, want *viewmodel.User", data["User"])
	}
	if u.Name != "Max Member" || u.IsAdmin() {
		t.Errorf("User = %+v, want non-admin Max Member", u)
	}
}

func TestTemplateDataBuilder_WithError(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)
	data := NewTemplateData(r, PageMeta{Title: "Test"}).
		WithError("Something went wrong").
		Build()

	if data["Error"] != true {
		t.Errorf("Error = %v, want %v", data["Error"], true)
	}
	if data["ErrorMessage"] != "Something went wrong" {
		t.Errorf("ErrorMessage = %v, want %v", data["ErrorMessage"], "Something went wrong")
	}
}

func TestTemplateDataBuilder_WithFieldErrors(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	t.Run("with errors", func(t *testing.T) {
		data := NewTemplateData(r, PageMeta{}).
			WithFieldErrors(map[string]string{"title": "Title is required"}).
			Build()
		errs, ok := data["Errors"].(map[string]string)
		if !ok {
			t.Fatal("Errors is not a map[string]string")
		}
		if errs["title"] != "Title is required" {
			t.Errorf("Errors[title] = %v", errs["title"])
		}
	})

	t.Run("nil errors still indexable", func(t *testing.T) {
		data := NewTemplateData(r, PageMeta{}).WithFieldErrors(nil).Build()
		errs, ok := data["Errors"].(map[string]string)
		if !ok || errs == nil || len(errs) != 0 {
			t.Errorf("Errors = %#v, want empty map", data["Errors"])
		}
	})
}

func TestTemplateDataBuilder_WithValidator(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/test", nil)

	t.Run("valid form has no banner", func(t *testing.T) {
		v := validation.New().Validate("title", "Dune", validation.Required("Title", 255))
		data := NewTemplateData(r, PageMeta{}).WithValidator(v).Build()
		if _, ok := data["Error"]; ok {
			t.Error("Error should not be set for a valid form")
		}
	})

	t.Run("invalid form gets the banner", func(t *testing.T) {
		v := validation.New().Validate("title", "", validation.Required("Title", 255))
		data := NewTemplateData(r, PageMeta{}).WithValidator(v).Build()
		if data["ErrorMessage"] != errMsgFixBelow {
			t.Errorf("ErrorMessage = %v, want %v", data["ErrorMessage"], errMsgFixBelow)
		}
		errs, _ := data["Errors"].(map[string]string)
		if errs["title"] == "" {
			t.Error("expected a title error")
		}
	})
}

func TestTemplateDataBuilder_Chaining(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard/books?q=dune", nil)
	data := NewTemplateData(r, PageMeta{Title: "Books", CurrentPage: PageBooks}).
		With("Books", viewmodel.BookList{Query: "dune"}).
		With("Count", 42).
		WithError("Test error").
		Build()

	if data["Count"] != 42 {
		t.Errorf("Count = %v, want 42", data["Count"])
	}
	if list, ok := data["Books"].(viewmodel.BookList); !ok || list.Query != "dune" {
		t.Errorf("Books = %#v", data["Books"])
	}
	if data["ErrorMessage"] != "Test error" {
		t.Error("ErrorMessage not set correctly in chaining")
	}
	if data["CurrentPage"] != PageBooks {
		t.Error("base data lost in chaining")
	}
}
