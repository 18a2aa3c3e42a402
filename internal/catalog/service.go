package catalog

import (
	"context"
	"log/slog"

	"github.com/mavlib/libris/internal/platform/apperr"
	"github.com/mavlib/libris/internal/platform/validate"
	"github.com/mavlib/libris/pkg/uuid"
)

// LoanGuard answers whether any active loan still references a book.
//
// Implemented by the lending ledger; injected here so book deletion can honor
// the "never delete a borrowed book" invariant without a package cycle.
type LoanGuard interface {
	HasActiveLoanForBook(context context.Context, bookID string) bool
}

// SnapshotSyncer pushes an edited book record into the denormalized snapshots
// embedded in active loans.
//
// The sync is a deliberate bulk pass: loan snapshots are copies taken at
// borrow time, so an admin edit must be propagated explicitly rather than
// leaking through aliasing.
type SnapshotSyncer interface {
	SyncBookSnapshot(context context.Context, book *Book) int
}

type Service struct {
	repo   Repository
	guard  LoanGuard
	syncer SnapshotSyncer
	logger *slog.Logger
}

// NewService constructs the catalog service.
//
// The guard and syncer are wired in a second step ([Service.Attach]) because
// the lending ledger, which implements both, is itself constructed against
// the catalog repository.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Attach wires the lending-side collaborators.
func (service *Service) Attach(guard LoanGuard, syncer SnapshotSyncer) {
	service.guard = guard
	service.syncer = syncer
}

// State reports the catalog readiness gate.
func (service *Service) State() State {
	return service.repo.State()
}

// ListBooks returns a filtered page of books plus the total match count.
func (service *Service) ListBooks(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// GetBook returns the book with the given ID.
func (service *Service) GetBook(context context.Context, id string) (*Book, error) {
	return service.repo.Get(context, id)
}

// Authors returns the distinct author vocabulary.
func (service *Service) Authors(context context.Context) ([]string, error) {
	return service.repo.Authors(context)
}

// Categories returns the distinct category vocabulary.
func (service *Service) Categories(context context.Context) ([]string, error) {
	return service.repo.Categories(context)
}

// AddBook creates a new catalog record.
//
// AvailableCopies always starts at TotalCopies: a freshly added title has no
// outstanding loans by definition.
func (service *Service) AddBook(context context.Context, book *Book) error {
	if err := validateBook(book); err != nil {
		return err
	}

	book.ID = uuid.New()
	book.AvailableCopies = book.TotalCopies
	book.Normalize()

	if err := service.repo.Insert(context, book); err != nil {
		return err
	}

	service.logger.Info("book_added",
		slog.String("book_id", book.ID),
		slog.String("title", book.Title),
	)
	return nil
}

// UpdateBook replaces the canonical record and then synchronizes the
// denormalized snapshot held by every active loan of this book.
func (service *Service) UpdateBook(context context.Context, id string, book *Book) error {
	book.ID = id
	if err := validateBook(book); err != nil {
		return err
	}

	if err := service.repo.Update(context, book); err != nil {
		return err
	}

	synced := 0
	if service.syncer != nil {
		synced = service.syncer.SyncBookSnapshot(context, book)
	}

	service.logger.Info("book_updated",
		slog.String("book_id", id),
		slog.Int("loan_snapshots_synced", synced),
	)
	return nil
}

// DeleteBook removes a book, refusing while any active loan references it.
func (service *Service) DeleteBook(context context.Context, id string) error {
	if service.guard != nil && service.guard.HasActiveLoanForBook(context, id) {
		return apperr.Conflict("Cannot delete a book that is currently borrowed")
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Warn("book_deleted", slog.String("book_id", id))
	return nil
}

// validateBook applies the field rules shared by add and update.
func validateBook(book *Book) error {
	validator := &validate.Validator{}

	validator.Required(FieldTitle, book.Title).MaxLen(FieldTitle, book.Title, 300)
	validator.Required(FieldAuthor, book.Author).MaxLen(FieldAuthor, book.Author, 200)
	validator.Required(FieldISBN, book.ISBN).MaxLen(FieldISBN, book.ISBN, 32)
	validator.Required(FieldCategory, book.Category).MaxLen(FieldCategory, book.Category, 100)
	validator.Custom(FieldTotalCopies, book.TotalCopies < 0, "Must be zero or positive")
	validator.Custom(FieldRating, book.Rating < 0 || book.Rating > 5, "Must be between 0.0 and 5.0")
	if book.PublishedYear != 0 {
		validator.Range(FieldYear, book.PublishedYear, 1000, 2100)
	}

	return validator.Err()
}
