// Package mocks provides gomock implementations of the library ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	gw := mocks.NewMockLibraryGateway(ctrl)
//	gw.EXPECT().ListBooks(gomock.Any(), "token").Return(books, nil)
package mocks

// LibraryGateway: ListBooks, CreateBook, UpdateBook, DeleteBook, ListBorrowed,
// BorrowBook, ReturnBook, ListUserBorrowed, ListUserAvailable, DashboardStats
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=library_gateway_mock.go github.com/target/libris-ui/internal/ports LibraryGateway

// AuthGateway: Login, Register
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_gateway_mock.go github.com/target/libris-ui/internal/ports AuthGateway
