package libraryapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
)

const (
	pathBorrowed      = "/books/borrowed"
	pathUserBorrowed  = "/user/borrowed"
	pathUserAvailable = "/user/available"

	msgRecordNotFound = "Record not found."
)

// emptyOnNotFound treats "nothing borrowed" answers as an empty list.
func emptyOnNotFound(status int, msg string) bool {
	return status == http.StatusNotFound || msg == msgRecordNotFound
}

// ListBorrowed returns every outstanding loan (admin).
func (c *Client) ListBorrowed(ctx context.Context, token string) ([]model.Book, error) {
	doc, err := c.do(ctx, call{method: http.MethodGet, path: pathBorrowed, token: token, onError: emptyOnNotFound})
	if err != nil {
		return nil, err
	}
	if messageOf(doc) == msgRecordNotFound {
		return []model.Book{}, nil
	}
	return decodeBooks(doc)
}

// ListUserBorrowed returns the token user's loans.
func (c *Client) ListUserBorrowed(ctx context.Context, token string) ([]model.Book, error) {
	doc, err := c.do(ctx, call{method: http.MethodGet, path: pathUserBorrowed, token: token, onError: emptyOnNotFound})
	if err != nil {
		return nil, err
	}
	return decodeBooks(doc)
}

// ListUserAvailable returns the books the token user may borrow.
func (c *Client) ListUserAvailable(ctx context.Context, token string) ([]model.Book, error) {
	doc, err := c.do(ctx, call{method: http.MethodGet, path: pathUserAvailable, token: token})
	if err != nil {
		return nil, err
	}
	return decodeBooks(doc)
}

// BorrowBook loans a book to the token user.
func (c *Client) BorrowBook(ctx context.Context, token string, id int64) error {
	return c.loanAction(ctx, token, id, "borrow", "Failed to borrow book")
}

// ReturnBook closes a loan.
func (c *Client) ReturnBook(ctx context.Context, token string, id int64) error {
	return c.loanAction(ctx, token, id, "return", "Failed to return book")
}

func (c *Client) loanAction(ctx context.Context, token string, id int64, action, failMsg string) error {
	if id <= 0 {
		return apperrors.ValidationField("id", "invalid book id")
	}
	doc, err := c.do(ctx, call{
		method: http.MethodPost,
		path:   fmt.Sprintf("%s/%s", bookPath(id), action),
		token:  token,
		body:   struct{}{},
	})
	if err != nil {
		return err
	}
	if !truthy(doc, "success") {
		return apperrors.Validation(fallback(messageOf(doc), failMsg))
	}
	return nil
}
