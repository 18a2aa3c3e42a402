// Copyright (c) 2026 Libris. All rights reserved.

package search

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mavlib/libris/internal/platform/request"
	"github.com/mavlib/libris/internal/platform/respond"
	"github.com/mavlib/libris/internal/platform/sec"
)

// # Handler Implementation

// Handler implements the HTTP layer for search.
type Handler struct {
	engine *Engine
}

// NewHandler constructs a new search [Handler] with its engine dependency.
func NewHandler(engine *Engine) *Handler {
	return &Handler{engine: engine}
}

// Routes returns a [chi.Router] configured with the search endpoint.
// Search is public; role-gated candidates are filtered per request.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.search)

	return router
}

/*
GET /api/v1/search.

Description: Evaluates a free-text query across books, authors, categories,
pages, features, and (for admins) members. Guests search with no role.

Request:
  - q: string (Free-text query)

Response:
  - 200: Grouped: Ranked, type-grouped results; empty groups for an empty query
*/
func (handler *Handler) search(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query().Get("q")

	// The caller's CURRENT role decides the restricted candidates.
	var role sec.UserRole
	if claims := requestutil.Claims(request); claims != nil {
		role = sec.UserRole(claims.Role)
	}

	results, err := handler.engine.Search(request.Context(), query, role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, results)
}
