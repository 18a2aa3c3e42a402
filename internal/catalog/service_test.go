package catalog_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavlib/libris/internal/catalog"
)

// stubGuard is a LoanGuard with a fixed answer.
type stubGuard struct{ borrowed bool }

func (guard stubGuard) HasActiveLoanForBook(_ context.Context, _ string) bool {
	return guard.borrowed
}

// recordingSyncer records the snapshot-sync calls the service makes.
type recordingSyncer struct {
	calls []*catalog.Book
}

func (syncer *recordingSyncer) SyncBookSnapshot(_ context.Context, book *catalog.Book) int {
	syncer.calls = append(syncer.calls, book)
	return 1
}

func newService(t *testing.T) (*catalog.Service, *catalog.MemoryRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repository := catalog.NewMemoryRepository()
	repository.SetState(catalog.StateReady)
	return catalog.NewService(repository, logger), repository
}

func validBook() *catalog.Book {
	return &catalog.Book{
		Title:       "Dune",
		Author:      "Frank Herbert",
		ISBN:        "9780441013593",
		Category:    "Science Fiction",
		TotalCopies: 3,
		Rating:      4.5,
	}
}

/*
TestAddBook verifies a new title gets an identity and starts with every copy
on the shelf, regardless of what the caller put in AvailableCopies.
*/
func TestAddBook(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	book := validBook()
	book.AvailableCopies = 99

	require.NoError(t, service.AddBook(ctx, book))
	require.NotEmpty(t, book.ID)

	stored, err := service.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.TotalCopies)
	assert.Equal(t, 3, stored.AvailableCopies)
	assert.True(t, stored.IsAvailable)
}

func TestAddBook_Validation(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*catalog.Book)
	}{
		{"missing_title", func(b *catalog.Book) { b.Title = "" }},
		{"missing_author", func(b *catalog.Book) { b.Author = "" }},
		{"missing_isbn", func(b *catalog.Book) { b.ISBN = "" }},
		{"negative_copies", func(b *catalog.Book) { b.TotalCopies = -1 }},
		{"rating_out_of_range", func(b *catalog.Book) { b.Rating = 5.5 }},
		{"implausible_year", func(b *catalog.Book) { b.PublishedYear = 512 }},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			book := validBook()
			testCase.mutate(book)
			assert.Error(t, service.AddBook(ctx, book))
		})
	}
}

/*
TestUpdateBook verifies an edit replaces the canonical record and pushes the
new field values through the snapshot syncer.
*/
func TestUpdateBook(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	book := validBook()
	require.NoError(t, service.AddBook(ctx, book))

	syncer := &recordingSyncer{}
	service.Attach(stubGuard{}, syncer)

	edited := validBook()
	edited.Title = "Dune Messiah"
	require.NoError(t, service.UpdateBook(ctx, book.ID, edited))

	stored, err := service.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", stored.Title)

	require.Len(t, syncer.calls, 1)
	assert.Equal(t, "Dune Messiah", syncer.calls[0].Title)
	assert.Equal(t, book.ID, syncer.calls[0].ID)
}

func TestUpdateBook_Unknown(t *testing.T) {
	service, _ := newService(t)
	assert.Error(t, service.UpdateBook(context.Background(), "no-such-id", validBook()))
}

/*
TestDeleteBook verifies the loan guard: a borrowed book cannot be removed,
and the record survives the refused attempt.
*/
func TestDeleteBook(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	book := validBook()
	require.NoError(t, service.AddBook(ctx, book))

	service.Attach(stubGuard{borrowed: true}, &recordingSyncer{})
	require.Error(t, service.DeleteBook(ctx, book.ID))

	_, err := service.GetBook(ctx, book.ID)
	require.NoError(t, err)

	service.Attach(stubGuard{borrowed: false}, &recordingSyncer{})
	require.NoError(t, service.DeleteBook(ctx, book.ID))

	_, err = service.GetBook(ctx, book.ID)
	assert.Error(t, err)
}

/*
TestListBooks verifies filtering and pagination against a small seeded
catalogue.
*/
func TestListBooks(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	seed := []*catalog.Book{
		{Title: "Dune", Author: "Frank Herbert", ISBN: "9780441013593", Category: "Science Fiction", TotalCopies: 1, PublishedYear: 1965},
		{Title: "Emma", Author: "Jane Austen", ISBN: "9780141439587", Category: "Romance", TotalCopies: 1, PublishedYear: 1815},
		{Title: "Persuasion", Author: "Jane Austen", ISBN: "9780141439686", Category: "Romance", TotalCopies: 1, PublishedYear: 1817},
	}
	for _, book := range seed {
		require.NoError(t, service.AddBook(ctx, book))
	}

	t.Run("query_matches_title_case_insensitively", func(t *testing.T) {
		books, total, err := service.ListBooks(ctx, catalog.Filter{Query: "dUnE"}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("author_filter_is_exact", func(t *testing.T) {
		_, total, err := service.ListBooks(ctx, catalog.Filter{Author: "Jane Austen"}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("category_filter_is_any_of", func(t *testing.T) {
		_, total, err := service.ListBooks(ctx, catalog.Filter{Categories: []string{"Romance", "Fantasy"}}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("year_filter", func(t *testing.T) {
		books, total, err := service.ListBooks(ctx, catalog.Filter{Year: 1965}, 10, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, books, 1)
		assert.Equal(t, "Dune", books[0].Title)
	})

	t.Run("pagination_reports_full_total", func(t *testing.T) {
		books, total, err := service.ListBooks(ctx, catalog.Filter{}, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, 3, total)
		assert.Len(t, books, 1)
	})
}

func TestVocabulary(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	for _, book := range []*catalog.Book{
		{Title: "Dune", Author: "Frank Herbert", ISBN: "1", Category: "Science Fiction", TotalCopies: 1},
		{Title: "Emma", Author: "Jane Austen", ISBN: "2", Category: "Romance", TotalCopies: 1},
		{Title: "Persuasion", Author: "Jane Austen", ISBN: "3", Category: "Romance", TotalCopies: 1},
	} {
		require.NoError(t, service.AddBook(ctx, book))
	}

	authors, err := service.Authors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Frank Herbert", "Jane Austen"}, authors)

	categories, err := service.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Romance", "Science Fiction"}, categories)
}
