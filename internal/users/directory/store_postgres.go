// Copyright (c) 2026 Libris. All rights reserved.

package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mavlib/libris/internal/platform/database/schema"
	"github.com/mavlib/libris/internal/platform/dberr"
)

// PostgresRepository implements the directory [Repository] using pgx.
// Members are read from the same users.account table the auth package
// writes; history lives in library.loan_history.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

/*
ListActors returns a page of members ordered by membership date, newest first.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Actor: Page of members
  - int: Total member count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListActors(context context.Context, limit, offset int) ([]*Actor, int, error) {
	table := schema.UserAccount

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM %s WHERE %s IS NULL",
		table.Table, table.DeletedAt,
	)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s IS NULL
		ORDER BY %s DESC
		LIMIT $1 OFFSET $2`,
		table.ID, table.Name, table.Email, table.Role, table.MembershipDate,
		table.Table,
		table.DeletedAt,
		table.MembershipDate,
	)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	var actors []*Actor
	for rows.Next() {
		actor := &Actor{}
		if err := rows.Scan(&actor.ID, &actor.Name, &actor.Email, &actor.Role, &actor.MembershipDate); err != nil {
			return nil, 0, dberr.Wrap(err, "User")
		}
		actors = append(actors, actor)
	}

	return actors, total, rows.Err()
}

/*
AllActors returns every member for in-memory scanning by the search engine.

Parameters:
  - context: context.Context

Returns:
  - []Actor: All members
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) AllActors(context context.Context) ([]Actor, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s IS NULL`,
		table.ID, table.Name, table.Email, table.Role, table.MembershipDate,
		table.Table,
		table.DeletedAt,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	var actors []Actor
	for rows.Next() {
		var actor Actor
		if err := rows.Scan(&actor.ID, &actor.Name, &actor.Email, &actor.Role, &actor.MembershipDate); err != nil {
			return nil, dberr.Wrap(err, "User")
		}
		actors = append(actors, actor)
	}

	return actors, rows.Err()
}

/*
FindActor returns the member with the given ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Actor: Hydrated member
  - error: apperr.NotFound or database failures
*/
func (repository *PostgresRepository) FindActor(context context.Context, id string) (*Actor, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NULL`,
		table.ID, table.Name, table.Email, table.Role, table.MembershipDate,
		table.Table,
		table.ID, table.DeletedAt,
	)

	actor := &Actor{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&actor.ID, &actor.Name, &actor.Email, &actor.Role, &actor.MembershipDate,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return actor, nil
}

/*
HistoryByActor returns a member's completed loans, most recent return first.

Parameters:
  - context: context.Context
  - actorID: string

Returns:
  - []*ArchivedLoan: Completed loans
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) HistoryByActor(context context.Context, actorID string) ([]*ArchivedLoan, error) {
	table := schema.LoanHistory
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC`,
		table.ID, table.UserID, table.BookID,
		table.BookTitle, table.BookAuthor, table.BookISBN, table.BookCategory,
		table.BorrowDate, table.DueDate, table.RenewalCount, table.ReturnDate, table.CreatedAt,
		table.Table,
		table.UserID,
		table.ReturnDate,
	)

	rows, err := repository.pool.Query(context, query, actorID)
	if err != nil {
		return nil, dberr.Wrap(err, "Loan history")
	}
	defer rows.Close()

	var history []*ArchivedLoan
	for rows.Next() {
		loan := &ArchivedLoan{}
		err := rows.Scan(
			&loan.ID, &loan.UserID, &loan.BookID,
			&loan.BookTitle, &loan.BookAuthor, &loan.BookISBN, &loan.BookCategory,
			&loan.BorrowDate, &loan.DueDate, &loan.RenewalCount, &loan.ReturnDate, &loan.CreatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Loan history")
		}
		history = append(history, loan)
	}

	return history, rows.Err()
}

/*
InsertHistory appends a completed loan to the history table.

Parameters:
  - context: context.Context
  - loan: *ArchivedLoan

Returns:
  - error: Persistence failures
*/
func (repository *PostgresRepository) InsertHistory(context context.Context, loan *ArchivedLoan) error {
	table := schema.LoanHistory
	query := fmt.Sprintf(`
		INSERT INTO %s (
			%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		table.Table,
		table.ID, table.UserID, table.BookID,
		table.BookTitle, table.BookAuthor, table.BookISBN, table.BookCategory,
		table.BorrowDate, table.DueDate, table.RenewalCount, table.ReturnDate, table.CreatedAt,
	)

	if loan.CreatedAt.IsZero() {
		loan.CreatedAt = time.Now()
	}

	_, err := repository.pool.Exec(context, query,
		loan.ID, loan.UserID, loan.BookID,
		loan.BookTitle, loan.BookAuthor, loan.BookISBN, loan.BookCategory,
		loan.BorrowDate, loan.DueDate, loan.RenewalCount, loan.ReturnDate, loan.CreatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Loan history")
	}

	return nil
}
