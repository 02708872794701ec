package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
	"github.com/target/libris-ui/internal/mocks"
)

const libToken = "lib-token-0123456789"

func sampleBooks() []model.Book {
	return []model.Book{
		{ID: 1, Title: "The Go Programming Language", Author: "Donovan", Publisher: "Addison-Wesley", ISBN: "9780134190440", Availability: "Available"},
		{ID: 2, Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton", ISBN: "9780441013593", Availability: "Unavailable"},
		{ID: 3, Title: "Neuromancer", Author: "William Gibson", Publisher: "Ace", Availability: "Available"},
	}
}

func TestCatalogService_List_Filters(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw})
	ctx := context.Background()

	gw.EXPECT().ListBooks(ctx, libToken).Return(sampleBooks(), nil).Times(2)

	got, err := svc.List(ctx, libToken, model.BookQuery{Search: "HERBERT", Status: model.FilterAll})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	got, err = svc.List(ctx, libToken, model.BookQuery{Status: model.FilterAvailable})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCatalogService_List_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw})

	gw.EXPECT().ListBooks(gomock.Any(), libToken).Return(nil, apperrors.Unauthenticated("Unauthenticated."))

	_, err := svc.List(context.Background(), libToken, model.BookQuery{})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestCatalogService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw})
	ctx := context.Background()

	gw.EXPECT().ListBooks(ctx, libToken).Return(sampleBooks(), nil).Times(2)

	b, err := svc.Get(ctx, libToken, 3)
	require.NoError(t, err)
	assert.Equal(t, "Neuromancer", b.Title)

	_, err = svc.Get(ctx, libToken, 99)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCatalogService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw})
	ctx := context.Background()

	want := model.BookInput{Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton", Availability: "Available"}
	gw.EXPECT().CreateBook(ctx, libToken, want).Return(model.Book{ID: 10, Title: "Dune"}, nil)

	b, err := svc.Create(ctx, libToken, model.BookInput{Title: " Dune ", Author: "Frank Herbert", Publisher: " Chilton"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.ID)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw})

	tests := []struct {
		name      string
		in        model.BookInput
		wantField string
	}{
		{name: "missing title", in: model.BookInput{Author: "A"}, wantField: "title"},
		{name: "blank author", in: model.BookInput{Title: "T", Author: "   "}, wantField: "author"},
		{name: "bad availability", in: model.BookInput{Title: "T", Author: "A", Availability: "Lost"}, wantField: "availability"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), libToken, tt.in)
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.wantField, apperrors.GetField(err))
		})
	}
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewCatalogService(CatalogServiceOptions{Gateway: gw})
	ctx := context.Background()

	gw.EXPECT().UpdateBook(ctx, libToken, int64(2), gomock.AssignableToTypeOf(model.BookInput{})).
		DoAndReturn(func(_ context.Context, _ string, id int64, in model.BookInput) (model.Book, error) {
			assert.Equal(t, "Unavailable", in.Availability)
			return model.Book{ID: id, Title: in.Title}, nil
		})
	gw.EXPECT().DeleteBook(ctx, libToken, int64(2)).Return(nil)

	b, err := svc.Update(ctx, libToken, 2, model.BookInput{Title: "Dune", Author: "Herbert", Availability: "Unavailable"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), b.ID)

	require.NoError(t, svc.Delete(ctx, libToken, 2))

	assert.True(t, apperrors.IsValidation(svc.Delete(ctx, libToken, 0)))
	_, err = svc.Update(ctx, libToken, -1, model.BookInput{Title: "x", Author: "y"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestNewCatalogService_PanicsWithoutGateway(t *testing.T) {
	assert.Panics(t, func() { NewCatalogService(CatalogServiceOptions{}) })
	assert.Panics(t, func() { NewBorrowingService(BorrowingServiceOptions{}) })
	assert.Panics(t, func() { NewDashboardService(DashboardServiceOptions{}) })
}

func TestBorrowingService_BorrowReturn(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewBorrowingService(BorrowingServiceOptions{Gateway: gw})
	ctx := context.Background()

	gw.EXPECT().BorrowBook(ctx, libToken, int64(3)).Return(nil)
	gw.EXPECT().ReturnBook(ctx, libToken, int64(3)).Return(apperrors.Validation("Book is not borrowed"))

	require.NoError(t, svc.Borrow(ctx, libToken, 3))

	err := svc.Return(ctx, libToken, 3)
	require.Error(t, err)
	assert.Equal(t, "Book is not borrowed", apperrors.UserMessage(err, ""))

	assert.True(t, apperrors.IsValidation(svc.Borrow(ctx, libToken, 0)))
}

func TestBorrowingService_ListBorrowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewBorrowingService(BorrowingServiceOptions{Gateway: gw})

	gw.EXPECT().ListBorrowed(gomock.Any(), libToken).Return(sampleBooks()[1:], nil)

	got, err := svc.ListBorrowed(context.Background(), libToken, "gibson")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Neuromancer", got[0].Title)
}

func TestBorrowingService_UserOverview(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewBorrowingService(BorrowingServiceOptions{Gateway: gw})

	books := sampleBooks()
	gw.EXPECT().ListBooks(gomock.Any(), libToken).Return(books, nil)
	gw.EXPECT().ListUserBorrowed(gomock.Any(), libToken).Return(books[1:2], nil)
	gw.EXPECT().ListUserAvailable(gomock.Any(), libToken).Return([]model.Book{books[0], books[2]}, nil)

	ov, err := svc.UserOverview(context.Background(), libToken)
	require.NoError(t, err)
	assert.Equal(t, 3, ov.TotalBooks)
	assert.Len(t, ov.Borrowed, 1)
	assert.Len(t, ov.Available, 2)
}

func TestBorrowingService_UserOverview_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewBorrowingService(BorrowingServiceOptions{Gateway: gw})

	gw.EXPECT().ListBooks(gomock.Any(), libToken).Return(sampleBooks(), nil).AnyTimes()
	gw.EXPECT().ListUserBorrowed(gomock.Any(), libToken).Return(nil, apperrors.Unauthenticated("Unauthenticated.")).AnyTimes()
	gw.EXPECT().ListUserAvailable(gomock.Any(), libToken).Return(nil, nil).AnyTimes()

	_, err := svc.UserOverview(context.Background(), libToken)
	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthenticated(err))
}

func TestDashboardService_AdminOverview(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	now := time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC)
	svc := NewDashboardService(DashboardServiceOptions{Gateway: gw, Now: func() time.Time { return now }})

	stats := model.DashboardStats{TotalBooks: 1250, TotalUsers: 340, AvailableBooks: 980, BorrowedBooks: 270}
	gw.EXPECT().DashboardStats(gomock.Any(), libToken).Return(stats, nil)
	gw.EXPECT().ListBooks(gomock.Any(), libToken).Return(sampleBooks(), nil)

	ov, err := svc.AdminOverview(context.Background(), libToken)
	require.NoError(t, err)
	assert.Equal(t, 1250, ov.Stats.TotalBooks)
	assert.Equal(t, now, ov.Stats.LastUpdated)
	assert.Len(t, ov.Books, 3)
	assert.NoError(t, ov.StatsError)
}

func TestDashboardService_AdminOverview_StatsFailureIsSoft(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewDashboardService(DashboardServiceOptions{Gateway: gw})

	gw.EXPECT().DashboardStats(gomock.Any(), libToken).Return(model.DashboardStats{}, apperrors.Upstream("boom").WithStatus(500))
	gw.EXPECT().ListBooks(gomock.Any(), libToken).Return(sampleBooks(), nil)

	ov, err := svc.AdminOverview(context.Background(), libToken)
	require.NoError(t, err)
	require.Error(t, ov.StatsError)
	assert.True(t, apperrors.IsUpstream(ov.StatsError))
	assert.Len(t, ov.Books, 3)
}

func TestDashboardService_AdminOverview_ForbiddenAborts(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewDashboardService(DashboardServiceOptions{Gateway: gw})

	gw.EXPECT().DashboardStats(gomock.Any(), libToken).Return(model.DashboardStats{}, apperrors.Forbidden("Admin privileges required"))
	gw.EXPECT().ListBooks(gomock.Any(), libToken).Return(sampleBooks(), nil).AnyTimes()

	_, err := svc.AdminOverview(context.Background(), libToken)
	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
}

func TestDashboardService_AdminOverview_BooksFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	gw := mocks.NewMockLibraryGateway(ctrl)
	svc := NewDashboardService(DashboardServiceOptions{Gateway: gw})

	gw.EXPECT().DashboardStats(gomock.Any(), libToken).Return(model.DashboardStats{}, nil).AnyTimes()
	gw.EXPECT().ListBooks(gomock.Any(), libToken).Return(nil, errors.New("connection reset"))

	_, err := svc.AdminOverview(context.Background(), libToken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
