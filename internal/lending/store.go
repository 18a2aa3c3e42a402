package lending

import "context"

// LoanRepository defines the data access contract for the ACTIVE loan set.
//
// Closed loans never appear here; return archives them through the
// [HistoryArchiver] and removes them from this set.
type LoanRepository interface {
	// Insert adds a new active loan.
	Insert(context context.Context, loan *Loan) error

	// Get returns the active loan with the given ID, or nil when unknown.
	Get(context context.Context, id string) (*Loan, error)

	// Update replaces the stored record for loan.ID.
	Update(context context.Context, loan *Loan) error

	// Remove deletes the loan from the active set.
	Remove(context context.Context, id string) error

	// ListByActor returns every active loan held by one actor.
	ListByActor(context context.Context, actorID string) ([]*Loan, error)

	// ListAll returns a snapshot of the whole active set.
	ListAll(context context.Context) ([]*Loan, error)

	// FindByActorAndBook returns the active loan for an (actor, book) pair,
	// or nil when the pair has none.
	FindByActorAndBook(context context.Context, actorID, bookID string) (*Loan, error)
}

// HistoryArchiver receives closed loans for permanent archival into the
// actor's borrow history. Implemented by the user directory.
type HistoryArchiver interface {
	Archive(context context.Context, loan *Loan) error
}
