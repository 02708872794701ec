package httpx

// CurrentPage constants identify pages in templates and navigation.
const (
	PageAuth          = "auth"
	PageUnavailable   = "unavailable"
	PageDashboard     = "dashboard"
	PageBooks         = "books"
	PageBookForm      = "book-form"
	PageBorrowed      = "borrowed"
	PageUserDashboard = "user-dashboard"
	PageUserBooks     = "user-books"
)

// Asset paths used for loading templates and static files in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

// Fragment templates rendered on their own for htmx swaps.
const (
	fragmentStats         = "stats-cards"
	fragmentBookTable     = "book-table"
	fragmentBorrowedTable = "borrowed-table"
	fragmentUserBooks     = "user-books"
	fragmentUserBorrowed  = "user-borrowed"
)

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageAuth:          "auth-content",
	PageUnavailable:   "unavailable-content",
	PageDashboard:     "dashboard-content",
	PageBooks:         "books-content",
	PageBookForm:      "book-form-content",
	PageBorrowed:      "borrowed-content",
	PageUserDashboard: "user-dashboard-content",
	PageUserBooks:     "user-books-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage.
// Unknown pages fall back to the sign-in page.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "auth-content"
}
