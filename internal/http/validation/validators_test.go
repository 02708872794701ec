package validation

import (
	"regexp"
	"strings"
	"testing"
)

const errTitleRequired = "Title is required."

func TestRequired(t *testing.T) {
	tests := []struct {
		name   string
		maxLen int
		value  string
		errMsg string
	}{
		{name: "valid input", maxLen: 10, value: "Dune"},
		{name: "empty string", maxLen: 10, value: "", errMsg: errTitleRequired},
		{name: "whitespace only", maxLen: 10, value: "   ", errMsg: errTitleRequired},
		{name: "exactly max length", maxLen: 4, value: "Dune"},
		{name: "exceeds max length", maxLen: 3, value: "Dune", errMsg: "Title cannot exceed 3 characters."},
		{name: "unicode counted by rune", maxLen: 4, value: "Ñañá"},
		{name: "trimmed before length check", maxLen: 4, value: "  Dune  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Required("Title", tt.maxLen)(tt.value); got != tt.errMsg {
				t.Errorf("Required() = %q, want %q", got, tt.errMsg)
			}
		})
	}
}

func TestPresent(t *testing.T) {
	if got := Present("Password")(""); got != "Password is required." {
		t.Errorf("Present(\"\") = %q", got)
	}
	if got := Present("Password")("  "); got != "" {
		t.Errorf("whitespace passwords are kept as typed, got %q", got)
	}
}

func TestOptional(t *testing.T) {
	v := Optional("Publisher", 5)
	if got := v(""); got != "" {
		t.Errorf("empty optional should pass, got %q", got)
	}
	if got := v("Tor"); got != "" {
		t.Errorf("short value should pass, got %q", got)
	}
	if got := v("Penguin Random House"); got != "Publisher cannot exceed 5 characters." {
		t.Errorf("long value: %q", got)
	}
}

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{value: "reader@example.com", ok: true},
		{value: "  reader@example.com  ", ok: true},
		{value: "first.last+tag@library.org", ok: true},
		{value: "", ok: true},
		{value: "reader", ok: false},
		{value: "reader@localhost", ok: false},
		{value: "Reader <reader@example.com>", ok: false},
		{value: "@example.com", ok: false},
	}
	for _, tt := range tests {
		got := Email("Email")(tt.value)
		if tt.ok && got != "" {
			t.Errorf("Email(%q) = %q, want ok", tt.value, got)
		}
		if !tt.ok && got != "Enter a valid email." {
			t.Errorf("Email(%q) = %q, want error", tt.value, got)
		}
	}
}

func TestEquals(t *testing.T) {
	v := Equals("secret123", "Passwords do not match.")
	if got := v("secret123"); got != "" {
		t.Errorf("matching value: %q", got)
	}
	if got := v("secret124"); got != "Passwords do not match." {
		t.Errorf("mismatch: %q", got)
	}
}

func TestOneOf(t *testing.T) {
	v := OneOf("Availability", []string{"Available", "Unavailable"})
	for _, ok := range []string{"Available", "unavailable", " AVAILABLE "} {
		if got := v(ok); got != "" {
			t.Errorf("OneOf(%q) = %q", ok, got)
		}
	}
	got := v("Lost")
	if !strings.HasPrefix(got, "Availability must be one of: Available, Unavailable") {
		t.Errorf("OneOf(Lost) = %q", got)
	}
}

func TestPattern(t *testing.T) {
	isbn := regexp.MustCompile(`^[0-9Xx-]{10,17}$`)
	v := Pattern("ISBN", isbn)
	if got := v(""); got != "" {
		t.Errorf("empty is allowed, got %q", got)
	}
	if got := v("978-0-441-17271-9"); got != "" {
		t.Errorf("valid isbn: %q", got)
	}
	if got := v("not-an-isbn"); got != "ISBN has an invalid format." {
		t.Errorf("invalid isbn: %q", got)
	}
}

func TestFieldValidator(t *testing.T) {
	fv := New().
		Validate("title", "", Required("Title", 10)).
		Validate("author", "Herbert", Required("Author", 10)).
		Validate("email", "bad", Required("Email", 50), Email("Email"))

	if !fv.HasErrors() {
		t.Fatal("expected errors")
	}
	errs := fv.Errors()
	if errs["title"] != errTitleRequired {
		t.Errorf("title error = %q", errs["title"])
	}
	if _, ok := errs["author"]; ok {
		t.Error("author should pass")
	}
	if errs["email"] != "Enter a valid email." {
		t.Errorf("email error = %q", errs["email"])
	}
}

func TestFieldValidator_StopsAtFirstError(t *testing.T) {
	fv := New().Validate("title", "", Required("Title", 10), Required("Other", 10))
	if got := fv.Errors()["title"]; got != errTitleRequired {
		t.Errorf("expected first validator to win, got %q", got)
	}

	fv.Validate("title", "x", Equals("y", "later"))
	if got := fv.Errors()["title"]; got != errTitleRequired {
		t.Errorf("a second pass must not overwrite, got %q", got)
	}
}

func TestFieldValidator_Add(t *testing.T) {
	fv := New().Add("email", "The email has already been taken.").Add("email", "ignored").Add("", "ignored")
	if got := fv.Errors()["email"]; got != "The email has already been taken." {
		t.Errorf("Add kept %q", got)
	}
	if len(fv.Errors()) != 1 {
		t.Errorf("unexpected errors: %v", fv.Errors())
	}
	if New().HasErrors() {
		t.Error("fresh validator should be clean")
	}
}
