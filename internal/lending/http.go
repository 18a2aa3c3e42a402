// Copyright (c) 2026 Libris. All rights reserved.

package lending

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mavlib/libris/internal/platform/apperr"
	"github.com/mavlib/libris/internal/platform/middleware"
	requestutil "github.com/mavlib/libris/internal/platform/request"
	"github.com/mavlib/libris/internal/platform/respond"
	"github.com/mavlib/libris/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for the lending ledger.
// Every endpoint requires an authenticated session; the acting user is
// always taken from the token claims, never from the payload.
type Handler struct {
	service *Service
}

// NewHandler constructs a new lending [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the lending endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireAuth)

	router.Get("/", handler.listLoans)
	router.Post("/", handler.borrowBook)
	router.Post("/{id}/return", handler.returnBook)
	router.Post("/{id}/renew", handler.renewLoan)

	return router
}

// outcomeError translates a ledger [Outcome] into the API error taxonomy.
// OutcomeOK maps to nil.
func outcomeError(outcome Outcome) error {
	switch outcome {
	case OutcomeOK:
		return nil
	case OutcomeBookNotFound:
		return apperr.NotFound("Book")
	case OutcomeLoanNotFound:
		return apperr.NotFound("Loan")
	case OutcomeNoCopies:
		return apperr.Conflict("No copies of this book are currently available")
	case OutcomeAlreadyBorrowed:
		return apperr.Conflict("You already have an active loan for this book")
	case OutcomeRenewalLimit:
		return apperr.Unprocessable("Maximum renewals reached")
	case OutcomeNotPermitted:
		return apperr.Forbidden("You can only manage your own loans")
	default:
		return apperr.Unprocessable(outcome.String())
	}
}

// # Loan Endpoints

/*
GET /api/v1/loans.

Description: Lists the calling user's active loans, oldest borrow first.

Response:
  - 200: []Loan: Active loans with their book snapshots
  - 401: 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) listLoans(writer http.ResponseWriter, request *http.Request) {
	claims := requestutil.Claims(request)

	loans, err := handler.service.ListByActor(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loans)
}

// borrowRequest defines the inbound JSON schema for borrowing.
type borrowRequest struct {
	BookID string `json:"book_id"`
}

/*
POST /api/v1/loans.

Description: Borrows one copy of a book for the calling user. The loan
carries a snapshot of the book and is due fourteen days from now.

Request (Body):
  - book_id: string (UUID)

Response:
  - 201: Loan: The new active loan
  - 404: 404: ErrNotFound: Book not found
  - 409: 409: ErrConflict: No copies available, or already borrowed
*/
func (handler *Handler) borrowBook(writer http.ResponseWriter, request *http.Request) {
	claims := requestutil.Claims(request)

	var input borrowRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	if input.BookID == "" {
		respond.Error(writer, request, apperr.ValidationError("book_id is required"))
		return
	}

	outcome, loan := handler.service.Borrow(request.Context(), claims.UserID, input.BookID)
	if err := outcomeError(outcome); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, loan)
}

/*
POST /api/v1/loans/{id}/return.

Description: Returns an active loan. The copy goes back to the catalogue
and the loan moves into the user's borrowing history.

Request:
  - id: string (Loan UUID)

Response:
  - 204: No Content: Success
  - 403: 403: ErrForbidden: Loan belongs to another user
  - 404: 404: ErrNotFound: Loan not found
*/
func (handler *Handler) returnBook(writer http.ResponseWriter, request *http.Request) {
	loanID := requestutil.ID(request, "id")

	outcome := handler.authorizeLoanAccess(request, loanID)
	if outcome.OK() {
		outcome = handler.service.Return(request.Context(), loanID)
	}
	if err := outcomeError(outcome); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
POST /api/v1/loans/{id}/renew.

Description: Extends an active loan by fourteen days. A loan can be
renewed at most twice; further attempts leave it untouched.

Request:
  - id: string (Loan UUID)

Response:
  - 200: Loan: The renewed loan
  - 403: 403: ErrForbidden: Loan belongs to another user
  - 404: 404: ErrNotFound: Loan not found
  - 422: 422: ErrUnprocessable: Maximum renewals reached
*/
func (handler *Handler) renewLoan(writer http.ResponseWriter, request *http.Request) {
	loanID := requestutil.ID(request, "id")

	outcome := handler.authorizeLoanAccess(request, loanID)
	var loan *Loan
	if outcome.OK() {
		outcome, loan = handler.service.Renew(request.Context(), loanID)
	}
	if err := outcomeError(outcome); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, loan)
}

// authorizeLoanAccess checks that the caller may act on the loan.
// Users manage their own loans; staff and admins may manage any loan.
func (handler *Handler) authorizeLoanAccess(request *http.Request, loanID string) Outcome {
	claims := requestutil.Claims(request)
	if claims == nil {
		return OutcomeNotPermitted
	}
	if sec.UserRole(claims.Role).AtLeast(sec.RoleStaff) {
		return OutcomeOK
	}

	loan, err := handler.service.loans.Get(request.Context(), loanID)
	if err != nil || loan == nil {
		return OutcomeLoanNotFound
	}
	if loan.ActorID != claims.UserID {
		return OutcomeNotPermitted
	}
	return OutcomeOK
}
