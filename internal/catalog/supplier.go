package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Supplier ingests the initial book dataset from the Open Library search API.
//
// # Failure Policy
//
// Supplier failures are recovered locally: a network error, a bad payload, or
// an empty result all fall back to the bundled default set. Ingestion never
// surfaces an error to the rest of the system — the catalog simply flips from
// Loading to Ready with whatever dataset it could get.
type Supplier struct {
	baseURL  string
	client   *http.Client
	repo     Repository
	logger   *slog.Logger
	genres   []string
	perGenre int
}

// NewSupplier constructs a catalog supplier.
func NewSupplier(baseURL string, repo Repository, genres []string, perGenre int, logger *slog.Logger) *Supplier {
	return &Supplier{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 15 * time.Second},
		repo:     repo,
		logger:   logger,
		genres:   genres,
		perGenre: perGenre,
	}
}

// searchResponse mirrors the subset of the Open Library search payload we read.
type searchResponse struct {
	Docs []searchDoc `json:"docs"`
}

type searchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	ISBN             []string `json:"isbn"`
	CoverEditionKey  string   `json:"cover_edition_key"`
	FirstSentence    any      `json:"first_sentence"` // string or []string depending on the work
	CoverID          int      `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
}

// Ingest fetches books for every configured genre and installs them into the
// catalog, falling back to the bundled default set when nothing was fetched.
// It always leaves the catalog in the Ready state.
func (supplier *Supplier) Ingest(context context.Context) {
	startTime := time.Now()
	books := make([]*Book, 0, len(supplier.genres)*supplier.perGenre)

	for _, genre := range supplier.genres {
		fetched, err := supplier.fetchGenre(context, genre)
		if err != nil {
			// Per-genre failures are tolerated; the remaining genres still load.
			supplier.logger.Warn("catalog_genre_fetch_failed",
				slog.String("genre", genre),
				slog.Any("error", err),
			)
			continue
		}
		books = append(books, fetched...)
	}

	source := "remote"
	if len(books) == 0 {
		books = DefaultBooks()
		source = "fallback"
	}

	if err := supplier.repo.ReplaceAll(context, books); err != nil {
		supplier.logger.Error("catalog_install_failed", slog.Any("error", err))
	}
	supplier.repo.SetState(StateReady)

	supplier.logger.Info("catalog_ready",
		slog.String("source", source),
		slog.Int("books", len(books)),
		slog.Int64("elapsed_ms", time.Since(startTime).Milliseconds()),
	)
}

// fetchGenre queries the Open Library subject search for a single genre.
func (supplier *Supplier) fetchGenre(context context.Context, genre string) ([]*Book, error) {
	subject := strings.ReplaceAll(strings.ToLower(genre), " ", "_")
	endpoint := fmt.Sprintf("%s/search.json?subject=%s&limit=%d",
		supplier.baseURL, url.QueryEscape(subject), supplier.perGenre)

	request, err := http.NewRequestWithContext(context, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to build supplier request: %w", err)
	}

	response, err := supplier.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("catalog: supplier request failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog: supplier returned status %d", response.StatusCode)
	}

	var payload searchResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("catalog: failed to decode supplier payload: %w", err)
	}

	books := make([]*Book, 0, len(payload.Docs))
	for _, doc := range payload.Docs {
		if doc.Title == "" {
			continue
		}
		books = append(books, normalizeDoc(doc, genre))
	}
	return books, nil
}

// normalizeDoc maps a raw Open Library document onto a catalog [Book].
func normalizeDoc(doc searchDoc, genre string) *Book {
	book := &Book{
		ID:              docID(doc),
		Title:           doc.Title,
		Author:          "Unknown",
		ISBN:            docISBN(doc),
		Category:        genre,
		Description:     docDescription(doc),
		TotalCopies:     5,
		AvailableCopies: 5,
		PublishedYear:   2000,
		// Seed titles get a plausible shelf rating in the 3.0-5.0 band.
		Rating: float64(int((rand.Float64()*2+3)*10)) / 10,
	}

	if len(doc.AuthorName) > 0 {
		book.Author = doc.AuthorName[0]
	}
	if doc.CoverID != 0 {
		book.CoverImage = fmt.Sprintf("https://covers.openlibrary.org/b/id/%d-L.jpg", doc.CoverID)
	}
	if doc.FirstPublishYear != 0 {
		book.PublishedYear = doc.FirstPublishYear
	}

	book.Normalize()
	return book
}

// docID derives a stable catalog ID from a work key.
func docID(doc searchDoc) string {
	if doc.Key != "" {
		return strings.TrimPrefix(doc.Key, "/works/")
	}
	if doc.CoverEditionKey != "" {
		return doc.CoverEditionKey
	}
	return doc.Title
}

// docISBN picks the best available identifier for the record.
func docISBN(doc searchDoc) string {
	if len(doc.ISBN) > 0 {
		return doc.ISBN[0]
	}
	if doc.CoverEditionKey != "" {
		return doc.CoverEditionKey
	}
	if doc.Key != "" {
		return doc.Key
	}
	return doc.Title
}

// docDescription unwraps first_sentence, which the API serves either as a
// plain string or as a list of strings.
func docDescription(doc searchDoc) string {
	switch v := doc.FirstSentence.(type) {
	case string:
		return v
	case []any:
		if len(v) > 0 {
			if s, ok := v[0].(string); ok {
				return s
			}
		}
	}
	return "No description available."
}
