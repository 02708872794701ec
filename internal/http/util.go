package httpx

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/target/libris-ui/internal/domain/model"
)

// pathID parses a positive integer path value such as {id}.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.PathValue(name)), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// searchQuery returns the trimmed q parameter, bounded so a pasted blob cannot
// be echoed back into every row filter. Form posts may carry it in the body.
func searchQuery(r *http.Request) string {
	const maxSearchLen = 200
	q := strings.TrimSpace(r.FormValue("q"))
	if runes := []rune(q); len(runes) > maxSearchLen {
		q = string(runes[:maxSearchLen])
	}
	return q
}

// bookQuery reads the search and status filter of a book list request.
func bookQuery(r *http.Request) model.BookQuery {
	return model.BookQuery{Search: searchQuery(r), Status: model.ParseStatusFilter(r.FormValue("status"))}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// isSecureRequest reports whether the request arrived over TLS directly or
// through a proxy that set X-Forwarded-Proto (comma-separated values allowed).
func isSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	for _, proto := range strings.Split(r.Header.Get("X-Forwarded-Proto"), ",") {
		if strings.EqualFold(strings.TrimSpace(proto), "https") {
			return true
		}
	}
	return false
}
