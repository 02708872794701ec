package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/ports"
)

// BorrowingServiceOptions groups dependencies for BorrowingService.
type BorrowingServiceOptions struct {
	Gateway ports.LibraryGateway // Required
	Logger  *slog.Logger         // Optional
}

// BorrowingService handles loans for both admin and member pages.
type BorrowingService struct {
	gateway ports.LibraryGateway
	logger  *slog.Logger
}

// NewBorrowingService constructs a new BorrowingService.
func NewBorrowingService(opts BorrowingServiceOptions) *BorrowingService {
	if opts.Gateway == nil {
		panic("LibraryGateway is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &BorrowingService{gateway: opts.Gateway, logger: logger.With("component", "borrowing_service")}
}

// ListBorrowed returns every outstanding loan (admin view), narrowed by search.
func (s *BorrowingService) ListBorrowed(ctx context.Context, token, search string) ([]model.Book, error) {
	books, err := s.gateway.ListBorrowed(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("list borrowed: %w", err)
	}
	return model.FilterBooks(books, model.BookQuery{Search: search}), nil
}

// Borrow loans a book to the token's user.
func (s *BorrowingService) Borrow(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return apperrors.ValidationField("id", "invalid book id")
	}
	if err := s.gateway.BorrowBook(ctx, token, id); err != nil {
		return fmt.Errorf("borrow book %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "book borrowed", "book_id", id)
	return nil
}

// Return closes a loan.
func (s *BorrowingService) Return(ctx context.Context, token string, id int64) error {
	if id <= 0 {
		return apperrors.ValidationField("id", "invalid book id")
	}
	if err := s.gateway.ReturnBook(ctx, token, id); err != nil {
		return fmt.Errorf("return book %d: %w", id, err)
	}
	s.logger.InfoContext(ctx, "book returned", "book_id", id)
	return nil
}

// UserOverview loads the member dashboard. The three calls run concurrently and
// the first failure cancels the rest.
func (s *BorrowingService) UserOverview(ctx context.Context, token string) (model.UserOverview, error) {
	var (
		all       []model.Book
		borrowed  []model.Book
		available []model.Book
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = s.gateway.ListBooks(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		borrowed, err = s.gateway.ListUserBorrowed(gctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		available, err = s.gateway.ListUserAvailable(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.UserOverview{}, fmt.Errorf("user overview: %w", err)
	}

	return model.UserOverview{TotalBooks: len(all), Borrowed: borrowed, Available: available}, nil
}
