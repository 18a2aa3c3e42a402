package catalog

import "context"

// Repository defines the data access contract for the book catalog.
//
// AdjustCopies is the single entry point for copy-count changes driven by the
// lending ledger; admin edits go through Update, which re-normalizes the
// record. Implementations must apply each call atomically.
type Repository interface {
	// List returns a filtered page of books plus the total match count.
	List(context context.Context, f Filter, limit, offset int) ([]*Book, int, error)

	// All returns a snapshot of every book in the catalog.
	All(context context.Context) ([]*Book, error)

	// Get returns the book with the given ID.
	Get(context context.Context, id string) (*Book, error)

	// Insert adds a new book to the catalog.
	Insert(context context.Context, book *Book) error

	// Update replaces the stored record for book.ID.
	Update(context context.Context, book *Book) error

	// Delete removes the book with the given ID.
	Delete(context context.Context, id string) error

	// AdjustCopies changes AvailableCopies by delta, refusing a decrement
	// below zero and clamping an increment at TotalCopies. It returns the
	// updated record.
	AdjustCopies(context context.Context, id string, delta int) (*Book, error)

	// Authors returns the distinct author vocabulary, sorted.
	Authors(context context.Context) ([]string, error)

	// Categories returns the distinct category vocabulary, sorted.
	Categories(context context.Context) ([]string, error)

	// ReplaceAll swaps the whole catalog content (supplier ingestion).
	ReplaceAll(context context.Context, books []*Book) error

	// State reports the readiness gate.
	State() State

	// SetState moves the readiness gate.
	SetState(s State)
}
