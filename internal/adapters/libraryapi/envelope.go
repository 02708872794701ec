package libraryapi

import (
	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
)

// The API is inconsistent about list envelopes: {data: [...]}, {books: [...]} and
// bare arrays all occur.
const (
	listExpr   = "data || books || @"
	recordExpr = "data || book || @"
)

// decodeBooks extracts a book list. Anything that is not an array decodes as empty.
func decodeBooks(doc any) ([]model.Book, error) {
	if doc == nil {
		return []model.Book{}, nil
	}
	v, err := jmespath.Search(listExpr, doc)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMalformed, "Invalid response format from server")
	}
	items, ok := v.([]any)
	if !ok {
		return []model.Book{}, nil
	}
	books := make([]model.Book, 0, len(items))
	if err := convert(items, &books); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMalformed, "Invalid book data from server")
	}
	return books, nil
}

// decodeBook extracts a single book record, falling back to fallbackBook when the
// API answers without a usable body.
func decodeBook(doc any, fallbackBook model.Book) (model.Book, error) {
	if doc == nil {
		return fallbackBook, nil
	}
	v, err := jmespath.Search(recordExpr, doc)
	if err != nil {
		return fallbackBook, nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return fallbackBook, nil
	}
	var b model.Book
	if err := convert(obj, &b); err != nil {
		return model.Book{}, apperrors.Wrap(err, apperrors.ErrCodeMalformed, "Invalid book data from server")
	}
	if b.ID == 0 && b.Title == "" {
		return fallbackBook, nil
	}
	return b, nil
}

// truthy evaluates a boolean-ish envelope flag (true, "success", 1).
func truthy(doc any, expr string) bool {
	if doc == nil {
		return false
	}
	v, err := jmespath.Search(expr, doc)
	if err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "success" || t == "true"
	case float64:
		return t != 0
	default:
		return false
	}
}

// statusSucceeded reports whether the envelope carries status "success" exactly.
func statusSucceeded(doc any) bool {
	return stringAt(doc, "status") == "success"
}

func stringAt(doc any, expr string) string {
	if doc == nil {
		return ""
	}
	v, err := jmespath.Search(expr, doc)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
