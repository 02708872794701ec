package httpx

import (
	"net/http"

	"github.com/target/libris-ui/internal/http/validation"
)

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors. Errors is always present
// so templates can index it without a nil check.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if errs == nil {
		errs = map[string]string{}
	}
	b.data["Errors"] = errs
	return b
}

// WithValidator copies the validator's field errors and, when any exist, the
// generic "fix below" banner.
func (b *TemplateDataBuilder) WithValidator(v *validation.FieldValidator) *TemplateDataBuilder {
	b.WithFieldErrors(v.Errors())
	if v.HasErrors() {
		b.WithError(errMsgFixBelow)
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}
