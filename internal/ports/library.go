package ports

import (
	"context"

	"github.com/target/libris-ui/internal/domain/model"
)

// LibraryGateway is the bearer-authenticated surface of the library API.
// Every method acts on behalf of the token it is given.
type LibraryGateway interface {
	ListBooks(ctx context.Context, token string) ([]model.Book, error)
	CreateBook(ctx context.Context, token string, in model.BookInput) (model.Book, error)
	UpdateBook(ctx context.Context, token string, id int64, in model.BookInput) (model.Book, error)
	DeleteBook(ctx context.Context, token string, id int64) error

	ListBorrowed(ctx context.Context, token string) ([]model.Book, error)
	BorrowBook(ctx context.Context, token string, id int64) error
	ReturnBook(ctx context.Context, token string, id int64) error

	ListUserBorrowed(ctx context.Context, token string) ([]model.Book, error)
	ListUserAvailable(ctx context.Context, token string) ([]model.Book, error)

	DashboardStats(ctx context.Context, token string) (model.DashboardStats, error)
}
