// Copyright (c) 2026 Libris. All rights reserved.

package directory

import "context"

// Repository defines the data access contract for the member directory.
type Repository interface {

	/*
		ListActors returns a page of members plus the total count.

		Parameters:
		  - context: context.Context
		  - limit: int
		  - offset: int

		Returns:
		  - []*Actor: Page of members
		  - int: Total member count
		  - error: Database retrieval failures
	*/
	ListActors(context context.Context, limit, offset int) ([]*Actor, int, error)

	/*
		AllActors returns every member. Used by the search engine, which
		scans the directory in memory.

		Parameters:
		  - context: context.Context

		Returns:
		  - []Actor: All members
		  - error: Database retrieval failures
	*/
	AllActors(context context.Context) ([]Actor, error)

	/*
		FindActor returns the member with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Actor: Hydrated member
		  - error: apperr.NotFound or database failures
	*/
	FindActor(context context.Context, id string) (*Actor, error)

	/*
		HistoryByActor returns a member's completed loans, most recent
		return first.

		Parameters:
		  - context: context.Context
		  - actorID: string

		Returns:
		  - []*ArchivedLoan: Completed loans
		  - error: Database retrieval failures
	*/
	HistoryByActor(context context.Context, actorID string) ([]*ArchivedLoan, error)

	/*
		InsertHistory appends a completed loan to the history. Called only
		by the lending ledger at return time.

		Parameters:
		  - context: context.Context
		  - loan: *ArchivedLoan

		Returns:
		  - error: Persistence failures
	*/
	InsertHistory(context context.Context, loan *ArchivedLoan) error
}
