package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mavlib/libris/internal/platform/middleware"
	requestutil "github.com/mavlib/libris/internal/platform/request"
	"github.com/mavlib/libris/internal/platform/respond"
	"github.com/mavlib/libris/internal/platform/sec"
	"github.com/mavlib/libris/pkg/convert"
	"github.com/mavlib/libris/pkg/pagination"
	"github.com/mavlib/libris/pkg/query"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the catalog route group.
//
// # Endpoints
//   - GET    /        : Paginated, filterable book listing (public).
//   - GET    /{id}    : Single book (public).
//   - POST   /        : Add a book (staff).
//   - PATCH  /{id}    : Edit a book (staff).
//   - DELETE /{id}    : Delete a book (admin, refused while borrowed).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public
	router.Get("/", handler.listBooks)
	router.Get("/{id}", handler.getBook)

	// Staff/Admin Only
	router.Group(func(staffRoute chi.Router) {
		staffRoute.Use(middleware.RequireRole(sec.RoleStaff))

		staffRoute.Post("/", handler.addBook)
		staffRoute.Patch("/{id}", handler.updateBook)

		// Admin strict only
		staffRoute.With(middleware.RequireRole(sec.RoleAdmin)).Delete("/{id}", handler.deleteBook)
	})

	return router
}

func (handler *Handler) listBooks(writer http.ResponseWriter, request *http.Request) {
	paginationParams := pagination.FromRequest(request)
	params := request.URL.Query()

	filter := Filter{
		Query:      params.Get("q"),
		Author:     params.Get("author"),
		Categories: query.StringSlice(params.Get("category")),
		Year:       convert.ToInt(params.Get("year")),
	}

	books, total, err := handler.service.ListBooks(request.Context(), filter, paginationParams.Limit, paginationParams.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, books, pagination.NewMeta(paginationParams.Page, paginationParams.Limit, total))
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	book, err := handler.service.GetBook(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, book)
}

func (handler *Handler) addBook(writer http.ResponseWriter, request *http.Request) {
	var input Book
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.AddBook(request.Context(), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, input)
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	var input Book
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.UpdateBook(request.Context(), requestutil.ID(request, "id"), &input); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, input)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	if err := handler.service.DeleteBook(request.Context(), requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}

// VocabularyHandler serves the distinct author/category vocabulary derived
// from the catalog. Mounted as its own top-level routes so the navigation
// sidebar can load them without fetching books.
type VocabularyHandler struct {
	service *Service
}

func NewVocabularyHandler(service *Service) *VocabularyHandler {
	return &VocabularyHandler{service: service}
}

func (handler *VocabularyHandler) Authors(writer http.ResponseWriter, request *http.Request) {
	authors, err := handler.service.Authors(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, authors)
}

func (handler *VocabularyHandler) Categories(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.Categories(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}
