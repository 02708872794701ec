package libraryapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
)

const pathBooks = "/books"

func bookPath(id int64) string { return fmt.Sprintf("%s/%d", pathBooks, id) }

// ListBooks returns the whole catalog.
func (c *Client) ListBooks(ctx context.Context, token string) ([]model.Book, error) {
	doc, err := c.do(ctx, call{method: http.MethodGet, path: pathBooks, token: token})
	if err != nil {
		return nil, err
	}
	return decodeBooks(doc)
}

// CreateBook adds a book.
func (c *Client) CreateBook(ctx context.Context, token string, in model.BookInput) (model.Book, error) {
	doc, err := c.do(ctx, call{method: http.MethodPost, path: pathBooks, token: token, body: in})
	if err != nil {
		return model.Book{}, err
	}
	return decodeBook(doc, bookFromInput(0, in))
}

// UpdateBook replaces a book.
func (c *Client) UpdateBook(ctx context.Context, token string, id int64, in model.BookInput) (model.Book, error) {
	if id <= 0 {
		return model.Book{}, apperrors.ValidationField("id", "invalid book id")
	}
	doc, err := c.do(ctx, call{method: http.MethodPut, path: bookPath(id), token: token, body: in})
	if err != nil {
		return model.Book{}, err
	}
	return decodeBook(doc, bookFromInput(id, in))
}

// DeleteBook removes a book.
func (c *Client) DeleteBook(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return apperrors.ValidationField("id", "invalid book id")
	}
	_, err := c.do(ctx, call{method: http.MethodDelete, path: bookPath(id), token: token})
	return err
}

func bookFromInput(id int64, in model.BookInput) model.Book {
	return model.Book{
		ID:           id,
		Title:        in.Title,
		Author:       in.Author,
		Publisher:    in.Publisher,
		ISBN:         in.ISBN,
		Availability: in.Availability,
	}
}
