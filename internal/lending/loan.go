/*
Package lending implements the lending ledger: the state machine for active
loans and the sole mutator of catalog copy counts.

# State Machine

	ACTIVE --(renew, count < 2)--> ACTIVE   (due date +14d, counter +1)
	ACTIVE --(return)------------> CLOSED   (archived into actor history)

There are no transitions out of CLOSED. Closed loans leave the active set and
live on only in the user directory's history.

# Failure Semantics

Lending preconditions are ordinary business outcomes, not errors: every
mutating operation returns an [Outcome] the caller branches on. Errors are
reserved for infrastructure faults (history archival, storage).
*/
package lending

import (
	"time"

	"github.com/mavlib/libris/internal/catalog"
)

// # Lending Policy

const (
	// LoanPeriod is the shelf time granted by a borrow or a renewal.
	LoanPeriod = 14 * 24 * time.Hour

	// MaxRenewals is the hard cap on renewals per loan.
	MaxRenewals = 2
)

// Loan represents one active borrowing of one copy of a book.
//
// Book is a denormalized snapshot taken at borrow time — NOT a live reference
// into the catalog. Later edits to the canonical record reach active loans
// only through an explicit SyncBookSnapshot pass.
type Loan struct {
	ID           string       `json:"id"`
	BookID       string       `json:"book_id"`
	ActorID      string       `json:"user_id"`
	Book         catalog.Book `json:"book"`
	BorrowDate   time.Time    `json:"borrow_date"`
	DueDate      time.Time    `json:"due_date"`
	IsOverdue    bool         `json:"is_overdue"`
	RenewalCount int          `json:"renewal_count"`
	ReturnDate   *time.Time   `json:"return_date,omitempty"`
}

// # Operation Outcomes

// Outcome enumerates the result of a lending operation.
//
// Presentation layers map these to declarative user messages; the ledger
// itself never produces message text.
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeBookNotFound
	OutcomeNoCopies
	OutcomeAlreadyBorrowed
	OutcomeLoanNotFound
	OutcomeRenewalLimit
	OutcomeNotPermitted
)

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o == OutcomeOK }

// String returns a machine-readable code for logs and API payloads.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeBookNotFound:
		return "book_not_found"
	case OutcomeNoCopies:
		return "no_copies"
	case OutcomeAlreadyBorrowed:
		return "already_borrowed"
	case OutcomeLoanNotFound:
		return "loan_not_found"
	case OutcomeRenewalLimit:
		return "renewal_limit"
	case OutcomeNotPermitted:
		return "not_permitted"
	default:
		return "unknown"
	}
}
