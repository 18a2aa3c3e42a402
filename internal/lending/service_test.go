package lending_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavlib/libris/internal/catalog"
	"github.com/mavlib/libris/internal/lending"
	"github.com/mavlib/libris/internal/users/directory"
)

// testClock is a controllable clock for date arithmetic assertions.
type testClock struct {
	current time.Time
}

func (clock *testClock) Now() time.Time { return clock.current }

func (clock *testClock) Advance(d time.Duration) { clock.current = clock.current.Add(d) }

type fixture struct {
	ledger    *lending.Service
	catalog   *catalog.MemoryRepository
	history   *directory.MemoryRepository
	directory *directory.Service
	clock     *testClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := &testClock{current: time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)}

	catalogRepo := catalog.NewMemoryRepository()
	historyRepo := directory.NewMemoryRepository()
	directoryService := directory.NewService(historyRepo, logger)

	ledger := lending.NewService(lending.NewMemoryLoanRepository(), catalogRepo, directoryService, logger)
	ledger.WithClock(clock.Now)

	return &fixture{
		ledger:    ledger,
		catalog:   catalogRepo,
		history:   historyRepo,
		directory: directoryService,
		clock:     clock,
	}
}

func (f *fixture) addBook(t *testing.T, id, title string, copies int) *catalog.Book {
	t.Helper()

	book := &catalog.Book{
		ID:          id,
		Title:       title,
		Author:      "Frank Herbert",
		ISBN:        "9780441013593",
		Category:    "Science Fiction",
		TotalCopies: copies,
	}
	book.AvailableCopies = copies
	book.Normalize()
	require.NoError(t, f.catalog.Insert(context.Background(), book))
	return book
}

/*
TestBorrow_RoundTrip verifies the borrow/return law: an immediate return
restores the available count exactly and moves the loan into history.
*/
func TestBorrow_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addBook(t, "book-1", "Dune", 3)

	// 1. Borrow decrements by exactly one
	outcome, loan := f.ledger.Borrow(ctx, "user-1", "book-1")
	require.Equal(t, lending.OutcomeOK, outcome)
	require.NotNil(t, loan)

	book, err := f.catalog.Get(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 2, book.AvailableCopies)
	assert.True(t, book.IsAvailable)

	// 2. The loan carries the due date and an untouched renewal counter
	assert.Equal(t, f.clock.Now().Add(lending.LoanPeriod), loan.DueDate)
	assert.Equal(t, 0, loan.RenewalCount)
	assert.False(t, loan.IsOverdue)

	// 3. The snapshot records the shelf as the actor saw it, before the
	// decrement
	assert.Equal(t, "Dune", loan.Book.Title)
	assert.Equal(t, 3, loan.Book.AvailableCopies)

	// 4. isBorrowedByActor flips true right after borrow
	assert.True(t, f.ledger.IsBorrowedByActor(ctx, "user-1", "book-1"))

	// 5. Return restores the pre-borrow count exactly
	require.Equal(t, lending.OutcomeOK, f.ledger.Return(ctx, loan.ID))

	book, err = f.catalog.Get(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 3, book.AvailableCopies)

	// 6. ...and flips isBorrowedByActor back to false
	assert.False(t, f.ledger.IsBorrowedByActor(ctx, "user-1", "book-1"))

	// 7. The completed loan is archived with a return date and the snapshot
	history, err := f.history.HistoryByActor(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Dune", history[0].BookTitle)
	assert.Equal(t, f.clock.Now(), history[0].ReturnDate)
}

/*
TestBorrow_Preconditions covers the failure outcomes: unknown book, exhausted
copies, and duplicate active loans. Failures never create a loan.
*/
func TestBorrow_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addBook(t, "book-1", "Dune", 1)

	t.Run("unknown_book", func(t *testing.T) {
		outcome, loan := f.ledger.Borrow(ctx, "user-1", "no-such-book")
		assert.Equal(t, lending.OutcomeBookNotFound, outcome)
		assert.Nil(t, loan)
	})

	t.Run("duplicate_active_loan", func(t *testing.T) {
		outcome, _ := f.ledger.Borrow(ctx, "user-1", "book-1")
		require.Equal(t, lending.OutcomeOK, outcome)

		outcome, loan := f.ledger.Borrow(ctx, "user-1", "book-1")
		assert.Equal(t, lending.OutcomeAlreadyBorrowed, outcome)
		assert.Nil(t, loan)
	})

	t.Run("no_copies_left", func(t *testing.T) {
		// The single copy is held by user-1; user-2 finds the shelf empty.
		outcome, loan := f.ledger.Borrow(ctx, "user-2", "book-1")
		assert.Equal(t, lending.OutcomeNoCopies, outcome)
		assert.Nil(t, loan)
		assert.False(t, f.ledger.IsBorrowedByActor(ctx, "user-2", "book-1"))

		book, err := f.catalog.Get(ctx, "book-1")
		require.NoError(t, err)
		assert.Equal(t, 0, book.AvailableCopies)
		assert.False(t, book.IsAvailable)
	})
}

/*
TestRenew_Limit verifies the renewal cap: two renewals extend the due date,
a third attempt fails and leaves due date and counter unchanged.
*/
func TestRenew_Limit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addBook(t, "book-1", "Dune", 1)

	outcome, loan := f.ledger.Borrow(ctx, "user-1", "book-1")
	require.Equal(t, lending.OutcomeOK, outcome)
	originalDue := loan.DueDate

	// 1. First renewal
	outcome, renewed := f.ledger.Renew(ctx, loan.ID)
	require.Equal(t, lending.OutcomeOK, outcome)
	assert.Equal(t, originalDue.Add(lending.LoanPeriod), renewed.DueDate)
	assert.Equal(t, 1, renewed.RenewalCount)

	// 2. Second renewal
	outcome, renewed = f.ledger.Renew(ctx, loan.ID)
	require.Equal(t, lending.OutcomeOK, outcome)
	assert.Equal(t, originalDue.Add(2*lending.LoanPeriod), renewed.DueDate)
	assert.Equal(t, 2, renewed.RenewalCount)

	// 3. Third attempt must fail with the ledger untouched
	outcome, renewed = f.ledger.Renew(ctx, loan.ID)
	assert.Equal(t, lending.OutcomeRenewalLimit, outcome)
	assert.Nil(t, renewed)

	loans, err := f.ledger.ListByActor(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, originalDue.Add(2*lending.LoanPeriod), loans[0].DueDate)
	assert.Equal(t, 2, loans[0].RenewalCount)
}

/*
TestRenew_UnknownLoan verifies the loan-not-found outcome.
*/
func TestRenew_UnknownLoan(t *testing.T) {
	f := newFixture(t)

	outcome, loan := f.ledger.Renew(context.Background(), "no-such-loan")
	assert.Equal(t, lending.OutcomeLoanNotFound, outcome)
	assert.Nil(t, loan)
	assert.Equal(t, lending.OutcomeLoanNotFound, f.ledger.Return(context.Background(), "no-such-loan"))
}

/*
TestRecomputeOverdue verifies the sweep marks exactly the loans whose due
date has passed, and is idempotent.
*/
func TestRecomputeOverdue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addBook(t, "book-1", "Dune", 1)
	f.addBook(t, "book-2", "Foundation", 1)

	outcome, early := f.ledger.Borrow(ctx, "user-1", "book-1")
	require.Equal(t, lending.OutcomeOK, outcome)

	// The second loan starts a week later, so its due date is a week further out.
	f.clock.Advance(7 * 24 * time.Hour)
	outcome, late := f.ledger.Borrow(ctx, "user-1", "book-2")
	require.Equal(t, lending.OutcomeOK, outcome)

	// 1. Nothing is overdue yet
	assert.Equal(t, 0, f.ledger.RecomputeOverdue(ctx))

	// 2. Past the first due date, before the second
	f.clock.Advance(8 * 24 * time.Hour)
	assert.Equal(t, 1, f.ledger.RecomputeOverdue(ctx))

	loans, err := f.ledger.ListByActor(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, loans, 2)
	for _, loan := range loans {
		switch loan.ID {
		case early.ID:
			assert.True(t, loan.IsOverdue)
		case late.ID:
			assert.False(t, loan.IsOverdue)
		}
	}

	// 3. Re-running the sweep changes nothing
	assert.Equal(t, 0, f.ledger.RecomputeOverdue(ctx))
}

/*
TestDeleteGuard verifies book deletion is refused while an active loan
references the book and succeeds after the return.
*/
func TestDeleteGuard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	catalogService := catalog.NewService(f.catalog, logger)
	catalogService.Attach(f.ledger, f.ledger)

	f.addBook(t, "book-1", "Dune", 1)

	outcome, loan := f.ledger.Borrow(ctx, "user-1", "book-1")
	require.Equal(t, lending.OutcomeOK, outcome)

	// 1. Refused while borrowed
	err := catalogService.DeleteBook(ctx, "book-1")
	require.Error(t, err)

	// 2. Allowed once the loan is returned
	require.Equal(t, lending.OutcomeOK, f.ledger.Return(ctx, loan.ID))
	require.NoError(t, catalogService.DeleteBook(ctx, "book-1"))

	_, err = f.catalog.Get(ctx, "book-1")
	assert.Error(t, err)
}

/*
TestSnapshotSync verifies the copy-on-borrow snapshot semantics: an admin
edit leaves existing snapshots alone until the explicit sync pass runs.
*/
func TestSnapshotSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.addBook(t, "book-1", "Dune", 2)

	outcome, loan := f.ledger.Borrow(ctx, "user-1", "book-1")
	require.Equal(t, lending.OutcomeOK, outcome)
	assert.Equal(t, "Dune", loan.Book.Title)

	// 1. Editing the canonical record does not rewrite the snapshot
	book.Title = "Dune (Deluxe Edition)"
	require.NoError(t, f.catalog.Update(ctx, book))

	loans, err := f.ledger.ListByActor(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune", loans[0].Book.Title)

	// 2. The explicit bulk pass propagates the edit
	synced := f.ledger.SyncBookSnapshot(ctx, book)
	assert.Equal(t, 1, synced)

	loans, err = f.ledger.ListByActor(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Dune (Deluxe Edition)", loans[0].Book.Title)

	// 3. Loans of other books are untouched by the pass
	f.addBook(t, "book-2", "Foundation", 1)
	outcome, _ = f.ledger.Borrow(ctx, "user-1", "book-2")
	require.Equal(t, lending.OutcomeOK, outcome)
	assert.Equal(t, 1, f.ledger.SyncBookSnapshot(ctx, book))
}

/*
TestReturn_ClampsAtTotal verifies a return never pushes availableCopies
above totalCopies, even after an admin shrank the copy pool.
*/
func TestReturn_ClampsAtTotal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	book := f.addBook(t, "book-1", "Dune", 2)

	outcome, loan := f.ledger.Borrow(ctx, "user-1", "book-1")
	require.Equal(t, lending.OutcomeOK, outcome)

	// Admin shrinks the pool to one copy while the loan is out.
	book.TotalCopies = 1
	book.AvailableCopies = 1
	book.Normalize()
	require.NoError(t, f.catalog.Update(ctx, book))

	require.Equal(t, lending.OutcomeOK, f.ledger.Return(ctx, loan.ID))

	updated, err := f.catalog.Get(ctx, "book-1")
	require.NoError(t, err)
	assert.Equal(t, 1, updated.AvailableCopies)
	assert.LessOrEqual(t, updated.AvailableCopies, updated.TotalCopies)
}
