package schema

// LoanHistoryTable represents the 'library.loan_history' table
type LoanHistoryTable struct {
	Table        string
	ID           string
	UserID       string
	BookID       string
	BookTitle    string
	BookAuthor   string
	BookISBN     string
	BookCategory string
	BorrowDate   string
	DueDate      string
	RenewalCount string
	ReturnDate   string
	CreatedAt    string
}

// LoanHistory is the schema definition for library.loan_history.
//
// Book columns are a denormalized snapshot taken at borrow time: later edits
// to the canonical book record must not rewrite history.
var LoanHistory = LoanHistoryTable{
	Table:        "library.loan_history",
	ID:           "id",
	UserID:       "userid",
	BookID:       "bookid",
	BookTitle:    "booktitle",
	BookAuthor:   "bookauthor",
	BookISBN:     "bookisbn",
	BookCategory: "bookcategory",
	BorrowDate:   "borrowdate",
	DueDate:      "duedate",
	RenewalCount: "renewalcount",
	ReturnDate:   "returndate",
	CreatedAt:    "createdat",
}
