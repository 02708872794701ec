package libraryapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	jmespath "github.com/jmespath-community/go-jmespath"

	apperrors "github.com/target/libris-ui/internal/errors"
)

// messageExpr pulls the human message out of an error envelope.
const messageExpr = "message || error"

// statusError maps a non-2xx answer onto an application error.
func statusError(status int, msg string) error {
	var err *apperrors.AppError
	switch {
	case status == http.StatusUnauthorized:
		err = apperrors.Unauthenticated(fallback(msg, "Unauthenticated"))
	case status == http.StatusForbidden:
		err = apperrors.Forbidden(fallback(msg, "Admin privileges required"))
	case status == http.StatusNotFound:
		err = apperrors.NotFound(fallback(msg, "Record not found."))
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		err = apperrors.Validation(fallback(msg, "The request was rejected"))
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		err = apperrors.Transient("Request timed out")
	default:
		err = apperrors.Upstream(fallback(msg, fmt.Sprintf("HTTP error! status: %d", status)))
	}
	return err.WithStatus(status)
}

// transportError maps a failed round trip. Timeouts and unreachable hosts are transient.
func transportError(err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return apperrors.Wrap(err, apperrors.ErrCodeTransient, "Request timed out")
	case errors.Is(err, context.Canceled):
		return apperrors.Wrap(err, apperrors.ErrCodeTransient, "Request cancelled")
	default:
		return apperrors.Wrap(err, apperrors.ErrCodeTransient, "Unable to reach the library service")
	}
}

// messageOf extracts a message from a decoded error body, or "".
func messageOf(doc any) string {
	if doc == nil {
		return ""
	}
	v, err := jmespath.Search(messageExpr, doc)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
