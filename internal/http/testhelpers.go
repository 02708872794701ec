package httpx

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	domainauth "github.com/target/libris-ui/internal/domain/auth"
	"github.com/target/libris-ui/internal/domain/model"
	apperrors "github.com/target/libris-ui/internal/errors"
	authmocks "github.com/target/libris-ui/internal/mocks/auth"
	"github.com/target/libris-ui/internal/testutil"
)

const (
	testAdminToken  = "admin-token-0001"
	testMemberToken = "member-token-0002"
	testCSRFToken   = "csrf-test-token"
	staticPathTest  = "../../frontend/static"
)

var errNotFoundForTest = apperrors.NotFound("book not found")

func discardLogger() *slog.Logger { return testutil.DiscardLogger() }

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Logger:     discardLogger(),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

func adminProfile() domainauth.UserProfile {
	return domainauth.UserProfile{
		ID: 1, Name: "Ada Admin", Email: "ada@example.com",
		Role: domainauth.RoleAdmin, Status: domainauth.StatusActive,
		CreatedAt: testutil.TestTime(),
	}
}

func memberProfile() domainauth.UserProfile {
	return domainauth.UserProfile{
		ID: 2, Name: "Max Member", Email: "max@example.com",
		Role: domainauth.RoleUser, Status: domainauth.StatusActive,
		CreatedAt: testutil.TestTime(),
	}
}

func int64Ptr(v int64) *int64 { return &v }

func sampleBooks() []model.Book {
	return []model.Book{
		{ID: 10, Title: "Dune", Author: "Frank Herbert", Publisher: "Chilton", ISBN: "978-0441172719",
			Availability: model.AvailabilityAvailable, Status: model.BookStatusAvailable},
		{ID: 11, Title: "Neuromancer", Author: "William Gibson", Publisher: "Ace",
			Availability: model.AvailabilityUnavailable, Status: model.BookStatusBorrowed,
			BorrowedBy: int64Ptr(2), BorrowedAt: "2026-01-01", ReturnDate: "2026-01-15"},
		{ID: 12, Title: "Hyperion", Author: "Dan Simmons", Publisher: "Doubleday",
			Availability: model.AvailabilityAvailable, Status: model.BookStatusAvailable},
	}
}

// fakeCatalog is a CatalogService whose behaviour is set per test.
type fakeCatalog struct {
	ListFunc   func(ctx context.Context, token string, q model.BookQuery) ([]model.Book, error)
	GetFunc    func(ctx context.Context, token string, id int64) (model.Book, error)
	CreateFunc func(ctx context.Context, token string, in model.BookInput) (model.Book, error)
	UpdateFunc func(ctx context.Context, token string, id int64, in model.BookInput) (model.Book, error)
	DeleteFunc func(ctx context.Context, token string, id int64) error

	mu      sync.Mutex
	created []model.BookInput
	deleted []int64
}

func (f *fakeCatalog) List(ctx context.Context, token string, q model.BookQuery) ([]model.Book, error) {
	if f.ListFunc != nil {
		return f.ListFunc(ctx, token, q)
	}
	return model.FilterBooks(sampleBooks(), q), nil
}

func (f *fakeCatalog) Get(ctx context.Context, token string, id int64) (model.Book, error) {
	if f.GetFunc != nil {
		return f.GetFunc(ctx, token, id)
	}
	for _, b := range sampleBooks() {
		if b.ID == id {
			return b, nil
		}
	}
	return model.Book{}, errNotFoundForTest
}

func (f *fakeCatalog) Create(ctx context.Context, token string, in model.BookInput) (model.Book, error) {
	f.mu.Lock()
	f.created = append(f.created, in)
	f.mu.Unlock()
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, token, in)
	}
	return model.Book{ID: 99, Title: in.Title, Author: in.Author}, nil
}

func (f *fakeCatalog) Update(ctx context.Context, token string, id int64, in model.BookInput) (model.Book, error) {
	if f.UpdateFunc != nil {
		return f.UpdateFunc(ctx, token, id, in)
	}
	return model.Book{ID: id, Title: in.Title, Author: in.Author}, nil
}

func (f *fakeCatalog) Delete(ctx context.Context, token string, id int64) error {
	f.mu.Lock()
	f.deleted = append(f.deleted, id)
	f.mu.Unlock()
	if f.DeleteFunc != nil {
		return f.DeleteFunc(ctx, token, id)
	}
	return nil
}

func (f *fakeCatalog) Created() []model.BookInput {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.BookInput(nil), f.created...)
}

func (f *fakeCatalog) Deleted() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.deleted...)
}

// fakeBorrowing is a BorrowingService whose behaviour is set per test.
type fakeBorrowing struct {
	ListBorrowedFunc func(ctx context.Context, token, search string) ([]model.Book, error)
	BorrowFunc       func(ctx context.Context, token string, id int64) error
	ReturnFunc       func(ctx context.Context, token string, id int64) error
	OverviewFunc     func(ctx context.Context, token string) (model.UserOverview, error)

	mu       sync.Mutex
	borrowed []int64
	returned []int64
}

func (f *fakeBorrowing) ListBorrowed(ctx context.Context, token, search string) ([]model.Book, error) {
	if f.ListBorrowedFunc != nil {
		return f.ListBorrowedFunc(ctx, token, search)
	}
	q := model.BookQuery{Search: search, Status: model.FilterBorrowed}
	return model.FilterBooks(sampleBooks(), q), nil
}

func (f *fakeBorrowing) Borrow(ctx context.Context, token string, id int64) error {
	f.mu.Lock()
	f.borrowed = append(f.borrowed, id)
	f.mu.Unlock()
	if f.BorrowFunc != nil {
		return f.BorrowFunc(ctx, token, id)
	}
	return nil
}

func (f *fakeBorrowing) Return(ctx context.Context, token string, id int64) error {
	f.mu.Lock()
	f.returned = append(f.returned, id)
	f.mu.Unlock()
	if f.ReturnFunc != nil {
		return f.ReturnFunc(ctx, token, id)
	}
	return nil
}

func (f *fakeBorrowing) UserOverview(ctx context.Context, token string) (model.UserOverview, error) {
	if f.OverviewFunc != nil {
		return f.OverviewFunc(ctx, token)
	}
	books := sampleBooks()
	return model.UserOverview{
		TotalBooks: len(books),
		Borrowed:   model.FilterBooks(books, model.BookQuery{Status: model.FilterBorrowed}),
		Available:  model.FilterBooks(books, model.BookQuery{Status: model.FilterAvailable}),
	}, nil
}

func (f *fakeBorrowing) Borrowed() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.borrowed...)
}

func (f *fakeBorrowing) Returned() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.returned...)
}

// fakeDashboard is a DashboardService whose behaviour is set per test.
type fakeDashboard struct {
	StatsFunc    func(ctx context.Context, token string) (model.DashboardStats, error)
	OverviewFunc func(ctx context.Context, token string) (model.AdminOverview, error)
}

func sampleStats() model.DashboardStats {
	return model.DashboardStats{TotalBooks: 3, TotalUsers: 7, AvailableBooks: 2, BorrowedBooks: 1, LastUpdated: testutil.TestTime()}
}

func (f *fakeDashboard) Stats(ctx context.Context, token string) (model.DashboardStats, error) {
	if f.StatsFunc != nil {
		return f.StatsFunc(ctx, token)
	}
	return sampleStats(), nil
}

func (f *fakeDashboard) AdminOverview(ctx context.Context, token string) (model.AdminOverview, error) {
	if f.OverviewFunc != nil {
		return f.OverviewFunc(ctx, token)
	}
	return model.AdminOverview{Stats: sampleStats(), Books: sampleBooks()}, nil
}

// testApp is a fully wired router backed by in-memory fakes.
type testApp struct {
	handler   http.Handler
	auth      *authmocks.MockAuthGateway
	profiles  *authmocks.MockProfileFetcher
	catalog   *fakeCatalog
	borrowing *fakeBorrowing
	dashboard *fakeDashboard
}

type testAppOption func(*RouterServices)

func newTestApp(t *testing.T, opts ...testAppOption) *testApp {
	t.Helper()
	app := &testApp{
		auth: &authmocks.MockAuthGateway{Token: testAdminToken},
		profiles: &authmocks.MockProfileFetcher{Profiles: map[string]domainauth.UserProfile{
			testAdminToken:  adminProfile(),
			testMemberToken: memberProfile(),
		}},
		catalog:   &fakeCatalog{},
		borrowing: &fakeBorrowing{},
		dashboard: &fakeDashboard{},
	}
	if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
	}
	services := RouterServices{
		Auth:       app.auth,
		Profiles:   app.profiles,
		Catalog:    app.catalog,
		Borrowing:  app.borrowing,
		Dashboard:  app.dashboard,
		TemplateFS: os.DirFS(TemplatePathFromTest),
		StaticFS:   os.DirFS(staticPathTest),
		Logger:     discardLogger(),
	}
	for _, opt := range opts {
		opt(&services)
	}
	h, err := NewRouter(services)
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	app.handler = h
	return app
}

// testRequest describes one browser request against the test app.
type testRequest struct {
	Method string
	Path   string
	Token  string
	Form   url.Values
	HTMX   bool
	Target string
	// NoCSRF leaves out the double-submit token.
	NoCSRF  bool
	Cookies []*http.Cookie
}

func (a *testApp) do(t *testing.T, tr testRequest) *httptest.ResponseRecorder {
	t.Helper()
	method := tr.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if tr.Form != nil {
		body = strings.NewReader(tr.Form.Encode())
	}
	req := httptest.NewRequest(method, tr.Path, body)
	if tr.Form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if tr.Token != "" {
		req.AddCookie(&http.Cookie{Name: AuthCookieName, Value: tr.Token})
	}
	if !tr.NoCSRF {
		req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: testCSRFToken})
		req.Header.Set(CSRFHeaderName, testCSRFToken)
	}
	if tr.HTMX {
		req.Header.Set("HX-Request", "true")
	}
	if tr.Target != "" {
		req.Header.Set("HX-Target", tr.Target)
	}
	for _, c := range tr.Cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

// responseCookie returns the named cookie set on the response, or nil.
func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
