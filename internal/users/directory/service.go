// Copyright (c) 2026 Libris. All rights reserved.

package directory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mavlib/libris/internal/lending"
)

// Service exposes the member directory use cases and receives archived
// loans from the lending ledger.
type Service struct {
	repository Repository
	logger     *slog.Logger
}

// NewService constructs a directory [Service].
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
	}
}

// # Ledger Callback

/*
Archive records a completed loan into the member's history.

Description: Implements [lending.HistoryArchiver]. The loan's book snapshot
is flattened into denormalized history columns so later catalogue edits
never rewrite what was actually borrowed.

Parameters:
  - context: context.Context
  - loan: *lending.Loan (must carry a ReturnDate)

Returns:
  - error: Persistence failures
*/
func (service *Service) Archive(context context.Context, loan *lending.Loan) error {
	if loan.ReturnDate == nil {
		return fmt.Errorf("directory: cannot archive a loan without a return date")
	}

	archived := &ArchivedLoan{
		ID:           loan.ID,
		UserID:       loan.ActorID,
		BookID:       loan.BookID,
		BookTitle:    loan.Book.Title,
		BookAuthor:   loan.Book.Author,
		BookISBN:     loan.Book.ISBN,
		BookCategory: loan.Book.Category,
		BorrowDate:   loan.BorrowDate,
		DueDate:      loan.DueDate,
		RenewalCount: loan.RenewalCount,
		ReturnDate:   *loan.ReturnDate,
	}

	if err := service.repository.InsertHistory(context, archived); err != nil {
		return err
	}

	service.logger.Info("loan_archived",
		slog.String("loan_id", loan.ID),
		slog.String("user_id", loan.ActorID),
	)
	return nil
}

// # Directory Queries

// ListActors returns a page of members plus the total count.
func (service *Service) ListActors(context context.Context, limit, offset int) ([]*Actor, int, error) {
	return service.repository.ListActors(context, limit, offset)
}

// AllActors returns every member for the search engine's directory scan.
func (service *Service) AllActors(context context.Context) ([]Actor, error) {
	return service.repository.AllActors(context)
}

// GetProfile returns a member together with their borrowing history.
func (service *Service) GetProfile(context context.Context, actorID string) (*Profile, error) {
	actor, err := service.repository.FindActor(context, actorID)
	if err != nil {
		return nil, err
	}

	history, err := service.repository.HistoryByActor(context, actorID)
	if err != nil {
		return nil, err
	}
	if history == nil {
		history = []*ArchivedLoan{}
	}

	return &Profile{
		Actor:         actor,
		BorrowHistory: history,
	}, nil
}
