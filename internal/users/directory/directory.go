// Copyright (c) 2026 Libris. All rights reserved.

/*
Package directory holds the member directory: the read-side view of library
members and each member's completed loan history.

The lending ledger is the only writer of history records; it archives a loan
here at return time with the book snapshot it carried. The directory never
mutates an archived record.
*/
package directory

import (
	"time"

	"github.com/mavlib/libris/internal/platform/sec"
)

// Actor is the directory view of a member. It deliberately omits credential
// fields; identity management lives in the auth package.
type Actor struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Role           sec.UserRole `json:"role"`
	MembershipDate time.Time    `json:"membership_date"`
}

// ArchivedLoan is a completed loan as written by the ledger at return time.
// The Book* fields are the borrow-time snapshot, not the current catalogue
// record.
type ArchivedLoan struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	BookID       string    `json:"book_id"`
	BookTitle    string    `json:"book_title"`
	BookAuthor   string    `json:"book_author"`
	BookISBN     string    `json:"book_isbn"`
	BookCategory string    `json:"book_category"`
	BorrowDate   time.Time `json:"borrow_date"`
	DueDate      time.Time `json:"due_date"`
	RenewalCount int       `json:"renewal_count"`
	ReturnDate   time.Time `json:"return_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile bundles a member with their borrowing history for the profile view.
type Profile struct {
	Actor         *Actor          `json:"user"`
	BorrowHistory []*ArchivedLoan `json:"borrow_history"`
}
