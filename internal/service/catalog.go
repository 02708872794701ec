package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/ports"
)

// CatalogServiceOptions groups dependencies for CatalogService.
type CatalogServiceOptions struct {
	Gateway ports.LibraryGateway // Required
	Logger  *slog.Logger         // Optional
}

// CatalogService manages the admin book catalog.
type CatalogService struct {
	gateway ports.LibraryGateway
	logger  *slog.Logger
}

// NewCatalogService constructs a new CatalogService.
func NewCatalogService(opts CatalogServiceOptions) *CatalogService {
	if opts.Gateway == nil {
		panic("LibraryGateway is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &CatalogService{gateway: opts.Gateway, logger: logger.With("component", "catalog_service")}
}

// List returns the catalog narrowed by q.
func (s *CatalogService) List(ctx context.Context, token string, q model.BookQuery) ([]model.Book, error) {
	books, err := s.gateway.ListBooks(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return model.FilterBooks(books, q), nil
}

// Get returns a single book. The API has no item endpoint so the list is scanned.
func (s *CatalogService) Get(ctx context.Context, token string, id int64) (model.Book, error) {
	books, err := s.gateway.ListBooks(ctx, token)
	if err != nil {
		return model.Book{}, fmt.Errorf("get book: %w", err)
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Book{}, apperrors.NotFoundf("book %d not found", id)
}

// Create validates and adds a book.
func (s *CatalogService) Create(ctx context.Context, token string, in model.BookInput) (model.Book, error) {
	in.Normalize()
	if err := ValidateBookInput(in); err != nil {
		return model.Book{}, err
	}
	b, err := s.gateway.CreateBook(ctx, token, in)
	if err != nil {
		return model.Book{}, fmt.Errorf("create book: %w", err)
	}
	s.logger.InfoContext(ctx, "book created", "book_id", b.ID)
	return b, nil
}

// Update validates and replaces a book.
func (s *CatalogService) Update(ctx context.Context, token string, id int64, in model.BookInput) (model.Book, error) {
	if id <= 0 {
		return model.Book{}, apperrors.ValidationField("id", "invalid book id")
	}
	in.Normalize()
	if err := ValidateBookInput(in); err != nil {
		return model.Book{}, err
	}
	b, err := s.gateway.UpdateBook(ctx, token, id, in)
	if err != nil {
		return model.Book{}, fmt.Errorf("update book %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "book updated", "book_id", id)
	return b, nil
}

// Delete removes a book.
func (s *CatalogService) Delete(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return apperrors.ValidationField("id", "invalid book id")
	}
	if err := s.gateway.DeleteBook(ctx, token, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "book deleted", "book_id", id)
	return nil
}

// ValidateBookInput enforces the locally required fields of a book form.
func ValidateBookInput(in model.BookInput) error {
	switch {
	case in.Title == "":
		return apperrors.ValidationField("title", "Title is required")
	case in.Author == "":
		return apperrors.ValidationField("author", "Author is required")
	case in.Availability != model.AvailabilityAvailable && in.Availability != model.AvailabilityUnavailable:
		return apperrors.ValidationField("availability", "Availability must be Available or Unavailable")
	}
	return nil
}
