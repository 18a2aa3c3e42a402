package lending

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/mavlib/libris/internal/catalog"
	"github.com/mavlib/libris/pkg/pointer"
	"github.com/mavlib/libris/pkg/uuid"
)

// Service is the lending ledger.
//
// # Single-Writer Discipline
//
// All mutating operations — user-driven borrow/return/renew, the periodic
// overdue sweep, and the admin-triggered snapshot sync — serialize through
// one mutex. The sweep and a return can therefore never interleave on the
// same loan, even though they run on different goroutines.
type Service struct {
	mu      sync.Mutex
	loans   LoanRepository
	catalog catalog.Repository
	history HistoryArchiver
	logger  *slog.Logger

	// now is the injected clock; tests pin it to verify date arithmetic.
	now func() time.Time
}

// NewService constructs the lending ledger.
func NewService(loans LoanRepository, catalogRepo catalog.Repository, history HistoryArchiver, logger *slog.Logger) *Service {
	return &Service{
		loans:   loans,
		catalog: catalogRepo,
		history: history,
		logger:  logger,
		now:     time.Now,
	}
}

// WithClock overrides the ledger clock. Intended for tests.
func (service *Service) WithClock(clock func() time.Time) *Service {
	service.now = clock
	return service
}

// # Lending Operations

// Borrow moves one copy of a book from the catalog into a new active loan.
//
// Preconditions, checked in order: the book exists, a copy is available, and
// the actor holds no active loan for this book. The copy decrement happens
// through the catalog's atomic AdjustCopies, so availableCopies can never go
// negative even under precondition races.
func (service *Service) Borrow(context context.Context, actorID, bookID string) (Outcome, *Loan) {
	service.mu.Lock()
	defer service.mu.Unlock()

	book, err := service.catalog.Get(context, bookID)
	if err != nil {
		return OutcomeBookNotFound, nil
	}
	if book.AvailableCopies <= 0 {
		return OutcomeNoCopies, nil
	}

	if existing, _ := service.loans.FindByActorAndBook(context, actorID, bookID); existing != nil {
		return OutcomeAlreadyBorrowed, nil
	}

	if _, err := service.catalog.AdjustCopies(context, bookID, -1); err != nil {
		return OutcomeNoCopies, nil
	}

	borrowTime := service.now()
	loan := &Loan{
		ID:           uuid.New(),
		BookID:       bookID,
		ActorID:      actorID,
		// Snapshot the record as the actor saw it on the shelf, before the
		// copy decrement.
		Book:         *book,
		BorrowDate:   borrowTime,
		DueDate:      borrowTime.Add(LoanPeriod),
		IsOverdue:    false,
		RenewalCount: 0,
	}

	if err := service.loans.Insert(context, loan); err != nil {
		// Roll the copy back; the borrow never happened.
		_, _ = service.catalog.AdjustCopies(context, bookID, +1)
		service.logger.Error("loan_insert_failed", slog.Any("error", err))
		return OutcomeBookNotFound, nil
	}

	service.logger.Info("book_borrowed",
		slog.String("loan_id", loan.ID),
		slog.String("user_id", actorID),
		slog.String("book_id", bookID),
	)
	return OutcomeOK, loan
}

// Return closes an active loan: the copy goes back to the catalog (clamped at
// TotalCopies), the loan is stamped with a return date and archived into the
// actor's history, then removed from the active set.
func (service *Service) Return(context context.Context, loanID string) Outcome {
	service.mu.Lock()
	defer service.mu.Unlock()

	loan, err := service.loans.Get(context, loanID)
	if err != nil || loan == nil {
		return OutcomeLoanNotFound
	}

	// AdjustCopies clamps at TotalCopies, so a return can follow an admin
	// edit that shrank the copy pool without breaking the invariant.
	if _, err := service.catalog.AdjustCopies(context, loan.BookID, +1); err != nil {
		// A missing book here must not block the return.
		service.logger.Warn("return_copy_restore_skipped",
			slog.String("book_id", loan.BookID),
			slog.Any("error", err),
		)
	}

	loan.ReturnDate = pointer.To(service.now())
	if err := service.history.Archive(context, loan); err != nil {
		service.logger.Error("loan_archive_failed",
			slog.String("loan_id", loan.ID),
			slog.Any("error", err),
		)
	}

	if err := service.loans.Remove(context, loanID); err != nil {
		return OutcomeLoanNotFound
	}

	service.logger.Info("book_returned",
		slog.String("loan_id", loanID),
		slog.String("user_id", loan.ActorID),
		slog.String("book_id", loan.BookID),
	)
	return OutcomeOK
}

// Renew extends an active loan by one loan period, up to [MaxRenewals].
//
// On failure the due date and counter are left untouched.
func (service *Service) Renew(context context.Context, loanID string) (Outcome, *Loan) {
	service.mu.Lock()
	defer service.mu.Unlock()

	loan, err := service.loans.Get(context, loanID)
	if err != nil || loan == nil {
		return OutcomeLoanNotFound, nil
	}
	if loan.RenewalCount >= MaxRenewals {
		return OutcomeRenewalLimit, nil
	}

	loan.DueDate = loan.DueDate.Add(LoanPeriod)
	loan.RenewalCount++
	loan.IsOverdue = loan.DueDate.Before(service.now())

	if err := service.loans.Update(context, loan); err != nil {
		return OutcomeLoanNotFound, nil
	}

	service.logger.Info("loan_renewed",
		slog.String("loan_id", loanID),
		slog.Int("renewal_count", loan.RenewalCount),
	)
	return OutcomeOK, loan
}

// # Queries

// IsBorrowedByActor reports whether an ACTIVE loan exists for the pair.
func (service *Service) IsBorrowedByActor(context context.Context, actorID, bookID string) bool {
	loan, err := service.loans.FindByActorAndBook(context, actorID, bookID)
	return err == nil && loan != nil
}

// HasActiveLoanForBook reports whether any actor currently holds the book.
// It implements [catalog.LoanGuard] for the delete-refusal invariant.
func (service *Service) HasActiveLoanForBook(context context.Context, bookID string) bool {
	loans, err := service.loans.ListAll(context)
	if err != nil {
		// Failing open would let a referenced book be deleted.
		return true
	}
	for _, loan := range loans {
		if loan.BookID == bookID {
			return true
		}
	}
	return false
}

// ListByActor returns the actor's active loans, oldest borrow first.
func (service *Service) ListByActor(context context.Context, actorID string) ([]*Loan, error) {
	loans, err := service.loans.ListByActor(context, actorID)
	if err != nil {
		return nil, err
	}

	sort.Slice(loans, func(i, j int) bool {
		return loans[i].BorrowDate.Before(loans[j].BorrowDate)
	})
	return loans, nil
}

// # Maintenance Passes

// RecomputeOverdue re-derives IsOverdue for every active loan against the
// current clock. It is idempotent and touches nothing but the flag.
// Returns the number of loans whose flag changed.
func (service *Service) RecomputeOverdue(context context.Context) int {
	service.mu.Lock()
	defer service.mu.Unlock()

	loans, err := service.loans.ListAll(context)
	if err != nil {
		service.logger.Error("overdue_sweep_list_failed", slog.Any("error", err))
		return 0
	}

	currentTime := service.now()
	changed := 0

	for _, loan := range loans {
		overdue := loan.DueDate.Before(currentTime)
		if overdue == loan.IsOverdue {
			continue
		}
		loan.IsOverdue = overdue
		if err := service.loans.Update(context, loan); err != nil {
			continue
		}
		changed++
	}

	return changed
}

// SyncBookSnapshot pushes an edited catalog record into the snapshot held by
// every active loan of that book — an explicit bulk pass, never a side effect
// of aliasing. It implements [catalog.SnapshotSyncer] and returns the number
// of loans updated.
func (service *Service) SyncBookSnapshot(context context.Context, book *catalog.Book) int {
	service.mu.Lock()
	defer service.mu.Unlock()

	loans, err := service.loans.ListAll(context)
	if err != nil {
		service.logger.Error("snapshot_sync_list_failed", slog.Any("error", err))
		return 0
	}

	synced := 0
	for _, loan := range loans {
		if loan.BookID != book.ID {
			continue
		}
		loan.Book = *book
		if err := service.loans.Update(context, loan); err != nil {
			continue
		}
		synced++
	}

	return synced
}
