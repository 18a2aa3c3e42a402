package lending

import (
	"context"
	"sync"

	"github.com/mavlib/libris/internal/platform/apperr"
)

// MemoryLoanRepository is the in-memory implementation of [LoanRepository].
//
// Reads return copies so callers never alias ledger-owned records.
type MemoryLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*Loan
}

// NewMemoryLoanRepository creates an empty active-loan set.
func NewMemoryLoanRepository() *MemoryLoanRepository {
	return &MemoryLoanRepository{loans: make(map[string]*Loan)}
}

// Insert adds a new active loan.
func (repository *MemoryLoanRepository) Insert(_ context.Context, loan *Loan) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.loans[loan.ID]; exists {
		return apperr.Conflict("Loan with this id already exists")
	}

	clone := *loan
	repository.loans[loan.ID] = &clone
	return nil
}

// Get returns the active loan with the given ID, or nil when unknown.
func (repository *MemoryLoanRepository) Get(_ context.Context, id string) (*Loan, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	loan, found := repository.loans[id]
	if !found {
		return nil, nil
	}
	clone := *loan
	return &clone, nil
}

// Update replaces the stored record for loan.ID.
func (repository *MemoryLoanRepository) Update(_ context.Context, loan *Loan) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, found := repository.loans[loan.ID]
	if !found {
		return apperr.NotFound("Loan")
	}

	*existing = *loan
	return nil
}

// Remove deletes the loan from the active set.
func (repository *MemoryLoanRepository) Remove(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, found := repository.loans[id]; !found {
		return apperr.NotFound("Loan")
	}
	delete(repository.loans, id)
	return nil
}

// ListByActor returns every active loan held by one actor.
func (repository *MemoryLoanRepository) ListByActor(_ context.Context, actorID string) ([]*Loan, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	loans := make([]*Loan, 0)
	for _, loan := range repository.loans {
		if loan.ActorID == actorID {
			clone := *loan
			loans = append(loans, &clone)
		}
	}
	return loans, nil
}

// ListAll returns a snapshot of the whole active set.
func (repository *MemoryLoanRepository) ListAll(_ context.Context) ([]*Loan, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	loans := make([]*Loan, 0, len(repository.loans))
	for _, loan := range repository.loans {
		clone := *loan
		loans = append(loans, &clone)
	}
	return loans, nil
}

// FindByActorAndBook returns the active loan for an (actor, book) pair.
func (repository *MemoryLoanRepository) FindByActorAndBook(_ context.Context, actorID, bookID string) (*Loan, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, loan := range repository.loans {
		if loan.ActorID == actorID && loan.BookID == bookID {
			clone := *loan
			return &clone, nil
		}
	}
	return nil, nil
}
