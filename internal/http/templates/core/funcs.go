// Package core provides the template helpers shared by every page.
package core

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/target/libris-ui/internal/domain/model"
	"github.com/target/libris-ui/internal/http/uiutil"
)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	// Now is the clock used by relativeTime. Defaults to time.Now.
	Now func() time.Time
}

// Funcs returns the template.FuncMap used by the layout, pages and partials.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return template.FuncMap{
		"sectionTmpl":   deps.ContentTemplateFor,
		"renderSection": renderSection(deps),
		"friendlyTime":  friendlyTime,
		"relativeTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return uiutil.FriendlyRelativeTime(t, now())
		},
		"apiDate":           uiutil.FormatAPIDate,
		"formatNumber":      FormatNumber,
		"percent":           Percent,
		"availabilityClass": AvailabilityClass,
		"availabilityLabel": AvailabilityLabel,
		"toastClass":        ToastClass,
		"truncateText":      TruncateText,
		"add":               func(a, b int) int { return a + b },
		"eq64":              func(a, b int64) bool { return a == b },
	}
}

func renderSection(deps Deps) func(string, any) (template.HTML, error) {
	return func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - produced by our own html/template set; values were escaped during execution.
		return template.HTML(buf.String()), nil
	}
}

func friendlyTime(t time.Time) string { return uiutil.FormatFriendlyDateTime(t) }

// FormatNumber formats an integer with comma separators for thousands.
func FormatNumber(v any) string {
	var n int64
	switch x := v.(type) {
	case int:
		n = int64(x)
	case int64:
		n = x
	case int32:
		n = int64(x)
	default:
		return fmt.Sprint(v)
	}

	neg := n < 0
	digits := strconv.FormatInt(n, 10)
	if neg {
		digits = digits[1:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// Percent renders a share with one decimal, dropping a trailing ".0".
func Percent(v float64) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	return strings.TrimSuffix(s, ".0") + "%"
}

// AvailabilityClass picks the badge style for a book row.
func AvailabilityClass(b model.Book) string {
	if b.IsAvailable() {
		return "badge-success"
	}
	return "badge-muted"
}

// AvailabilityLabel is the badge text for a book row.
func AvailabilityLabel(b model.Book) string {
	switch {
	case b.Status == model.BookStatusBorrowed:
		return "Borrowed"
	case b.Status == model.BookStatusAvailable:
		return "Available"
	case strings.TrimSpace(b.Availability) != "":
		return strings.TrimSpace(b.Availability)
	default:
		return "Unknown"
	}
}

// ToastClass maps a notification level to its CSS modifier.
func ToastClass(level string) string {
	switch level {
	case "success":
		return "toast-success"
	case "error":
		return "toast-error"
	default:
		return "toast-info"
	}
}

// TruncateText truncates a string to a maximum number of runes, adding an ellipsis.
func TruncateText(s string, maxLen int) string {
	return uiutil.TruncateWithEllipsis(s, maxLen)
}
