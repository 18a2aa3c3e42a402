// Copyright (c) 2026 Libris. All rights reserved.

package directory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mavlib/libris/internal/platform/middleware"
	requestutil "github.com/mavlib/libris/internal/platform/request"
	"github.com/mavlib/libris/internal/platform/respond"
	"github.com/mavlib/libris/internal/platform/sec"
	"github.com/mavlib/libris/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer for the member directory.
type Handler struct {
	service *Service
}

// NewHandler constructs a new directory [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with the directory's admin
// endpoints. The self-service profile endpoint is mounted separately via
// [Handler.Me].
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequireRole(sec.RoleAdmin))

	router.Get("/", handler.listMembers)
	router.Get("/{id}", handler.getMember)

	return router
}

/*
GET /api/v1/users.

Description: Retrieves a paginated roster of members, newest first.
Admin only.

Request:
  - limit: int
  - page: int

Response:
  - 200: []Actor: Paginated member list
  - 403: 403: ErrForbidden: Insufficient permissions
*/
func (handler *Handler) listMembers(writer http.ResponseWriter, request *http.Request) {
	// Pagination extraction using pkg/pagination
	paginationParams := pagination.FromRequest(request)

	actors, total, err := handler.service.ListActors(request.Context(), paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, actors, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

/*
GET /api/v1/users/{id}.

Description: Retrieves one member's profile with borrowing history.
Admin only.

Request:
  - id: string (UUID)

Response:
  - 200: Profile: Member with history
  - 404: 404: ErrNotFound: Member not found
*/
func (handler *Handler) getMember(writer http.ResponseWriter, request *http.Request) {
	actorID := requestutil.ID(request, "id")

	profile, err := handler.service.GetProfile(request.Context(), actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
Me serves GET /api/v1/me.

Description: Returns the calling member's own profile and borrowing history.

Response:
  - 200: Profile: Own profile with history
  - 401: 401: ErrUnauthorized: Missing or invalid token
*/
func (handler *Handler) Me(writer http.ResponseWriter, request *http.Request) {
	claims := requestutil.Claims(request)

	profile, err := handler.service.GetProfile(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}
