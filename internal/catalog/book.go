/*
Package catalog implements the book catalog: the authoritative store of book
records and their copy counts.

It owns Book identity and static fields. Copy counts are mutated only through
the lending ledger (borrow/return) and the admin edit operations in this
package — never directly by handlers.

# Readiness

The catalog starts in the Loading state while the remote supplier runs.
Searches and borrow attempts against a loading catalog degrade gracefully
(empty results, failed preconditions) instead of erroring.
*/
package catalog

import "time"

// Book represents a single title in the library catalog.
//
// Invariant: 0 <= AvailableCopies <= TotalCopies, and
// IsAvailable == (AvailableCopies > 0). Constructors and mutating operations
// re-derive IsAvailable so it can never drift from the copy count.
type Book struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	ISBN            string    `json:"isbn"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	CoverImage      string    `json:"cover_image"`
	IsAvailable     bool      `json:"is_available"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	PublishedYear   int       `json:"published_year"`
	Rating          float64   `json:"rating"` // 0.0 - 5.0 inclusive
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Normalize re-derives the dependent fields after a mutation.
//
// AvailableCopies is clamped into [0, TotalCopies] and IsAvailable is
// recomputed. It never returns an error: invariant repair is by construction.
func (book *Book) Normalize() {
	if book.TotalCopies < 0 {
		book.TotalCopies = 0
	}
	if book.AvailableCopies < 0 {
		book.AvailableCopies = 0
	}
	if book.AvailableCopies > book.TotalCopies {
		book.AvailableCopies = book.TotalCopies
	}
	book.IsAvailable = book.AvailableCopies > 0
}

// Filter holds the parameters for a catalog listing.
type Filter struct {
	Query      string   // Case-insensitive substring against title, author, isbn
	Author     string   // Exact author name
	Categories []string // Any-of category names
	Year       int      // Published year, 0 means any
}

// State is the two-state readiness gate of the catalog.
//
// Emptiness of the book list is NOT used to infer readiness: an empty but
// Ready catalog and a Loading catalog are different situations.
type State int

const (
	// StateLoading means ingestion has not completed yet.
	StateLoading State = iota

	// StateReady means the catalog holds its final initial dataset
	// (remote or fallback) and normal operation may proceed.
	StateReady
)

// String returns the wire form of the state.
func (s State) String() string {
	if s == StateReady {
		return "ready"
	}
	return "loading"
}

// Global field names for validation
const (
	FieldTitle       = "title"
	FieldAuthor      = "author"
	FieldISBN        = "isbn"
	FieldCategory    = "category"
	FieldDescription = "description"
	FieldCoverImage  = "cover_image"
	FieldTotalCopies = "total_copies"
	FieldYear        = "published_year"
	FieldRating      = "rating"
)
