package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/mavlib/libris/internal/platform/apperr"
	"github.com/mavlib/libris/pkg/fold"
)

// MemoryRepository is the in-memory implementation of [Repository].
//
// # Concurrency
//
// A single RWMutex serializes every mutation, including the ledger-driven
// AdjustCopies calls and the background supplier swap. Readers get copies of
// the stored records, so a caller can never alias catalog-owned state.
type MemoryRepository struct {
	mu    sync.RWMutex
	books []*Book
	index map[string]*Book
	state State
}

// NewMemoryRepository creates an empty catalog in the Loading state.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		index: make(map[string]*Book),
		state: StateLoading,
	}
}

// List returns a filtered page of books plus the total match count.
func (repository *MemoryRepository) List(_ context.Context, f Filter, limit, offset int) ([]*Book, int, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	matched := make([]*Book, 0, len(repository.books))
	for _, book := range repository.books {
		if matches(book, f) {
			matched = append(matched, book)
		}
	}

	total := len(matched)
	if offset >= total {
		return []*Book{}, total, nil
	}

	end := offset + limit
	if limit <= 0 || end > total {
		end = total
	}

	page := make([]*Book, 0, end-offset)
	for _, book := range matched[offset:end] {
		page = append(page, copyOf(book))
	}

	return page, total, nil
}

// All returns a snapshot of every book in the catalog.
func (repository *MemoryRepository) All(_ context.Context) ([]*Book, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	snapshot := make([]*Book, 0, len(repository.books))
	for _, book := range repository.books {
		snapshot = append(snapshot, copyOf(book))
	}
	return snapshot, nil
}

// Get returns the book with the given ID.
func (repository *MemoryRepository) Get(_ context.Context, id string) (*Book, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	book, found := repository.index[id]
	if !found {
		return nil, apperr.NotFound("Book")
	}
	return copyOf(book), nil
}

// Insert adds a new book to the front of the catalog, matching the
// "newest first" presentation of admin-added titles.
func (repository *MemoryRepository) Insert(_ context.Context, book *Book) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.index[book.ID]; exists {
		return apperr.Conflict("Book with this id already exists")
	}

	stored := copyOf(book)
	stored.Normalize()

	repository.books = append([]*Book{stored}, repository.books...)
	repository.index[stored.ID] = stored
	return nil
}

// Update replaces the stored record for book.ID.
func (repository *MemoryRepository) Update(_ context.Context, book *Book) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, found := repository.index[book.ID]
	if !found {
		return apperr.NotFound("Book")
	}

	updated := copyOf(book)
	updated.CreatedAt = existing.CreatedAt
	updated.Normalize()

	*existing = *updated
	return nil
}

// Delete removes the book with the given ID.
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, found := repository.index[id]; !found {
		return apperr.NotFound("Book")
	}

	delete(repository.index, id)
	for i, book := range repository.books {
		if book.ID == id {
			repository.books = append(repository.books[:i], repository.books[i+1:]...)
			break
		}
	}
	return nil
}

// AdjustCopies changes AvailableCopies by delta under the store lock.
//
// A decrement that would drive the count negative is refused; an increment is
// clamped at TotalCopies. The copy-count invariant therefore holds by
// construction, not by after-the-fact detection.
func (repository *MemoryRepository) AdjustCopies(_ context.Context, id string, delta int) (*Book, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	book, found := repository.index[id]
	if !found {
		return nil, apperr.NotFound("Book")
	}

	next := book.AvailableCopies + delta
	if next < 0 {
		return nil, apperr.Conflict("No available copies")
	}

	book.AvailableCopies = next
	book.Normalize()
	return copyOf(book), nil
}

// Authors returns the distinct author vocabulary, sorted.
func (repository *MemoryRepository) Authors(_ context.Context) ([]string, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return distinct(repository.books, func(b *Book) string { return b.Author }), nil
}

// Categories returns the distinct category vocabulary, sorted.
func (repository *MemoryRepository) Categories(_ context.Context) ([]string, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return distinct(repository.books, func(b *Book) string { return b.Category }), nil
}

// ReplaceAll swaps the whole catalog content.
func (repository *MemoryRepository) ReplaceAll(_ context.Context, books []*Book) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	repository.books = make([]*Book, 0, len(books))
	repository.index = make(map[string]*Book, len(books))

	for _, book := range books {
		stored := copyOf(book)
		stored.Normalize()
		if _, exists := repository.index[stored.ID]; exists {
			continue // supplier feeds can repeat works across genres
		}
		repository.books = append(repository.books, stored)
		repository.index[stored.ID] = stored
	}
	return nil
}

// State reports the readiness gate.
func (repository *MemoryRepository) State() State {
	repository.mu.RLock()
	defer repository.mu.RUnlock()
	return repository.state
}

// SetState moves the readiness gate.
func (repository *MemoryRepository) SetState(s State) {
	repository.mu.Lock()
	defer repository.mu.Unlock()
	repository.state = s
}

// # Internals

// matches applies a [Filter] to a single book.
func matches(book *Book, f Filter) bool {
	if f.Query != "" {
		q := f.Query
		if !fold.Contains(book.Title, q) &&
			!fold.Contains(book.Author, q) &&
			!strings.Contains(book.ISBN, q) &&
			!fold.Contains(book.Category, q) {
			return false
		}
	}

	if f.Author != "" && !fold.Equals(book.Author, f.Author) {
		return false
	}

	if len(f.Categories) > 0 {
		hit := false
		for _, category := range f.Categories {
			if fold.Equals(book.Category, category) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}

	if f.Year != 0 && book.PublishedYear != f.Year {
		return false
	}

	return true
}

// distinct extracts a sorted, de-duplicated projection of the books.
func distinct(books []*Book, project func(*Book) string) []string {
	seen := make(map[string]struct{}, len(books))
	values := make([]string, 0, len(books))

	for _, book := range books {
		value := project(book)
		if value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		values = append(values, value)
	}

	sort.Strings(values)
	return values
}

// copyOf returns a detached copy of a book record.
func copyOf(book *Book) *Book {
	clone := *book
	return &clone
}
