// Copyright (c) 2026 Libris. All rights reserved.

package search_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mavlib/libris/internal/catalog"
	"github.com/mavlib/libris/internal/platform/sec"
	"github.com/mavlib/libris/internal/search"
	"github.com/mavlib/libris/internal/users/directory"
)

func newEngine(t *testing.T) (*search.Engine, *catalog.MemoryRepository, *directory.MemoryRepository) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalogRepo := catalog.NewMemoryRepository()
	members := directory.NewMemoryRepository()

	seed := []*catalog.Book{
		{
			ID:       "book-dune",
			Title:    "Dune",
			Author:   "Frank Herbert",
			ISBN:     "044101359X",
			Category: "Science Fiction",
		},
		{
			ID:       "book-emma",
			Title:    "Emma",
			Author:   "Jane Austen",
			ISBN:     "9780141439587",
			Category: "Romance",
		},
		{
			ID:       "book-hobbit",
			Title:    "The Hobbit",
			Author:   "J.R.R. Tolkien",
			ISBN:     "9780547928227",
			Category: "Fantasy",
		},
	}
	for _, book := range seed {
		book.TotalCopies = 2
		book.AvailableCopies = 2
		book.Normalize()
		require.NoError(t, catalogRepo.Insert(context.Background(), book))
	}
	catalogRepo.SetState(catalog.StateReady)

	members.SeedActors(
		directory.Actor{ID: "user-1", Name: "Frank Miller", Email: "frank@libris.app", Role: sec.RoleReader},
		directory.Actor{ID: "user-2", Name: "Ada Lovelace", Email: "ada@libris.app", Role: sec.RoleAdmin},
	)

	return search.NewEngine(catalogRepo, members, logger), catalogRepo, members
}

/*
TestSearch_EmptyQuery verifies both the empty and the whitespace-only query
yield all-empty groups rather than the full catalogue.
*/
func TestSearch_EmptyQuery(t *testing.T) {
	engine, _, _ := newEngine(t)

	for _, query := range []string{"", "   "} {
		results, err := engine.Search(context.Background(), query, sec.RoleReader)
		require.NoError(t, err)
		assert.Empty(t, results.Books)
		assert.Empty(t, results.Authors)
		assert.Empty(t, results.Categories)
		assert.Empty(t, results.Users)
		assert.Empty(t, results.Pages)
		assert.Empty(t, results.Features)
		assert.Empty(t, results.All)
	}
}

/*
TestSearch_ExactTitleRanksFirst verifies an exact case-insensitive title
match gets priority zero and heads the flat list.
*/
func TestSearch_ExactTitleRanksFirst(t *testing.T) {
	engine, _, _ := newEngine(t)

	results, err := engine.Search(context.Background(), "dUNe", sec.RoleReader)
	require.NoError(t, err)

	require.Len(t, results.Books, 1)
	assert.Equal(t, "Dune", results.Books[0].Title)
	assert.Equal(t, search.PriorityExact, results.Books[0].Priority)

	require.NotEmpty(t, results.All)
	assert.Equal(t, "Dune", results.All[0].Title)
}

/*
TestSearch_AuthorSubstring verifies a query matching an author surfaces both
the book (via its author field) and the author vocabulary entry, ordered by
priority.
*/
func TestSearch_AuthorSubstring(t *testing.T) {
	engine, _, _ := newEngine(t)

	results, err := engine.Search(context.Background(), "herbert", sec.RoleReader)
	require.NoError(t, err)

	require.Len(t, results.Books, 1)
	assert.Equal(t, "Dune", results.Books[0].Title)
	assert.Equal(t, search.PriorityBook, results.Books[0].Priority)

	require.Len(t, results.Authors, 1)
	assert.Equal(t, "Frank Herbert", results.Authors[0].Title)
	assert.Equal(t, search.PriorityAuthor, results.Authors[0].Priority)

	// Books (1) sort ahead of authors (2) in the flat list
	require.Len(t, results.All, 2)
	assert.Equal(t, search.TypeBook, results.All[0].Type)
	assert.Equal(t, search.TypeAuthor, results.All[1].Type)
}

/*
TestSearch_ISBNCaseSensitive verifies the ISBN field matches verbatim while
every other field folds case.
*/
func TestSearch_ISBNCaseSensitive(t *testing.T) {
	engine, _, _ := newEngine(t)

	// The trailing check digit is an uppercase X.
	results, err := engine.Search(context.Background(), "044101359X", sec.RoleReader)
	require.NoError(t, err)
	require.Len(t, results.Books, 1)
	assert.Equal(t, "Dune", results.Books[0].Title)

	results, err = engine.Search(context.Background(), "044101359x", sec.RoleReader)
	require.NoError(t, err)
	assert.Empty(t, results.Books)
}

/*
TestSearch_RoleGating verifies members and the admin page are only visible
to admin callers, evaluated per query.
*/
func TestSearch_RoleGating(t *testing.T) {
	engine, _, _ := newEngine(t)
	ctx := context.Background()

	t.Run("reader_sees_no_members", func(t *testing.T) {
		results, err := engine.Search(ctx, "frank", sec.RoleReader)
		require.NoError(t, err)
		assert.Empty(t, results.Users)
	})

	t.Run("guest_sees_no_admin_page", func(t *testing.T) {
		results, err := engine.Search(ctx, "admin", "")
		require.NoError(t, err)
		assert.Empty(t, results.Pages)
		assert.Empty(t, results.Users)
	})

	t.Run("admin_sees_members_and_admin_page", func(t *testing.T) {
		results, err := engine.Search(ctx, "frank", sec.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, results.Users, 1)
		assert.Equal(t, "Frank Miller", results.Users[0].Title)

		results, err = engine.Search(ctx, "admin panel", sec.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, results.Pages, 1)
		assert.Equal(t, "Admin Panel", results.Pages[0].Title)
		assert.Equal(t, search.PriorityExact, results.Pages[0].Priority)
	})
}

/*
TestSearch_StaticRegistry verifies pages and features match by title only,
with their base priorities. Descriptions are display text and must never
pull an entry into the results.
*/
func TestSearch_StaticRegistry(t *testing.T) {
	engine, _, _ := newEngine(t)

	results, err := engine.Search(context.Background(), "dashboard", sec.RoleReader)
	require.NoError(t, err)

	require.Len(t, results.Pages, 1)
	assert.Equal(t, "Dashboard", results.Pages[0].Title)
	assert.Equal(t, search.PriorityExact, results.Pages[0].Priority)

	results, err = engine.Search(context.Background(), "borrow", sec.RoleReader)
	require.NoError(t, err)
	require.Len(t, results.Features, 1)
	assert.Equal(t, "Borrow Books", results.Features[0].Title)
	assert.Equal(t, search.PriorityFeature, results.Features[0].Priority)
	// The Dashboard page mentions borrowing only in its description.
	assert.Empty(t, results.Pages)

	// "history" appears in the Dashboard description and nowhere in a title.
	results, err = engine.Search(context.Background(), "history", sec.RoleReader)
	require.NoError(t, err)
	assert.Empty(t, results.Pages)
	assert.Empty(t, results.Features)
	assert.Empty(t, results.All)
}

/*
TestSearch_FlatListCap verifies the flat list stops at the cap while the
typed groups keep everything.
*/
func TestSearch_FlatListCap(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalogRepo := catalog.NewMemoryRepository()
	members := directory.NewMemoryRepository()

	for i := 0; i < 20; i++ {
		book := &catalog.Book{
			ID:       fmt.Sprintf("book-%02d", i),
			Title:    fmt.Sprintf("Chronicle Volume %02d", i),
			Author:   "Anonymous",
			ISBN:     fmt.Sprintf("978000000%04d", i),
			Category: "History",
		}
		book.TotalCopies = 1
		book.AvailableCopies = 1
		book.Normalize()
		require.NoError(t, catalogRepo.Insert(context.Background(), book))
	}
	catalogRepo.SetState(catalog.StateReady)

	engine := search.NewEngine(catalogRepo, members, logger)
	results, err := engine.Search(context.Background(), "chronicle", sec.RoleReader)
	require.NoError(t, err)

	assert.Len(t, results.Books, 20)
	assert.Len(t, results.All, search.AllResultsCap)

	// Deterministic order: equal priority and type fall back to title.
	for i := 1; i < len(results.Books); i++ {
		assert.LessOrEqual(t, results.Books[i-1].Title, results.Books[i].Title)
	}
}

/*
TestSearch_CatalogLoading verifies the readiness gate: while the catalogue
is still loading every query yields empty groups.
*/
func TestSearch_CatalogLoading(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	catalogRepo := catalog.NewMemoryRepository()
	engine := search.NewEngine(catalogRepo, directory.NewMemoryRepository(), logger)

	results, err := engine.Search(context.Background(), "dune", sec.RoleReader)
	require.NoError(t, err)
	assert.Empty(t, results.All)
}

/*
TestSearch_NoMatches verifies a miss is an empty result, not an error.
*/
func TestSearch_NoMatches(t *testing.T) {
	engine, _, _ := newEngine(t)

	results, err := engine.Search(context.Background(), "zzzzzz", sec.RoleReader)
	require.NoError(t, err)
	assert.Empty(t, results.Books)
	assert.Empty(t, results.All)
}
