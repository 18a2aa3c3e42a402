// Copyright (c) 2026 Libris. All rights reserved.

package search

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strings"

	"github.com/mavlib/libris/internal/catalog"
	"github.com/mavlib/libris/internal/platform/sec"
	"github.com/mavlib/libris/internal/users/directory"
	"github.com/mavlib/libris/pkg/fold"
)

// MemberSource supplies the directory records the engine may surface for
// admin callers. Satisfied by [directory.Service].
type MemberSource interface {
	AllActors(context context.Context) ([]directory.Actor, error)
}

// Engine evaluates search queries. It reads the catalogue and the member
// directory and performs no writes.
type Engine struct {
	catalog catalog.Repository
	members MemberSource
	logger  *slog.Logger
}

// NewEngine constructs a search [Engine].
func NewEngine(catalogRepo catalog.Repository, members MemberSource, logger *slog.Logger) *Engine {
	return &Engine{
		catalog: catalogRepo,
		members: members,
		logger:  logger,
	}
}

/*
Search evaluates a free-text query for a caller with the given role.

The caller's CURRENT role gates the restricted candidates (users, the admin
page), so a role change takes effect on the very next query. An empty query,
or a catalogue still loading, yields all-empty groups rather than an error.

Parameters:
  - context: Request-scoped context.
  - query: Free-text query, matched case-insensitively (ISBN excepted).
  - role: The caller's current role; guests pass the zero value.

Returns:
  - A [Grouped] result set; never an error for a mere lack of matches.
*/
func (engine *Engine) Search(context context.Context, query string, role sec.UserRole) (Grouped, error) {
	trimmed := strings.TrimSpace(query)
	folded := fold.Casefold(trimmed)
	if folded == "" {
		return emptyGrouped(), nil
	}
	if engine.catalog.State() != catalog.StateReady {
		return emptyGrouped(), nil
	}

	var candidates []Result

	books, err := engine.catalog.All(context)
	if err != nil {
		return emptyGrouped(), err
	}
	candidates = append(candidates, engine.matchBooks(books, trimmed, folded)...)
	candidates = append(candidates, engine.matchVocabulary(context, folded)...)
	candidates = append(candidates, engine.matchRegistry(folded, role)...)

	if role == sec.RoleAdmin {
		candidates = append(candidates, engine.matchMembers(context, folded)...)
	}

	// Fixed total order: priority, then type name, then title. Ranking must
	// never depend on container insertion order.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Priority != candidates[j].Priority {
			return candidates[i].Priority < candidates[j].Priority
		}
		if candidates[i].Type != candidates[j].Type {
			return candidates[i].Type < candidates[j].Type
		}
		return candidates[i].Title < candidates[j].Title
	})

	return groupResults(candidates), nil
}

// matchBooks filters the catalogue. Every text field matches case
// insensitively except ISBN, which is an identifier and matches verbatim.
func (engine *Engine) matchBooks(books []*catalog.Book, trimmed, folded string) []Result {
	var results []Result
	for _, book := range books {
		matched := fold.Contains(book.Title, folded) ||
			fold.Contains(book.Author, folded) ||
			fold.Contains(book.Category, folded) ||
			strings.Contains(book.ISBN, trimmed)
		if !matched {
			continue
		}

		priority := PriorityBook
		if fold.Equals(book.Title, folded) {
			priority = PriorityExact
		}

		results = append(results, Result{
			ID:          book.ID,
			Type:        TypeBook,
			Title:       book.Title,
			Subtitle:    book.Author,
			Description: book.Description,
			Route:       "/books/" + book.ID,
			Priority:    priority,
		})
	}
	return results
}

// matchVocabulary searches the distinct author and category sets derived
// from the catalogue.
func (engine *Engine) matchVocabulary(context context.Context, folded string) []Result {
	var results []Result

	authors, err := engine.catalog.Authors(context)
	if err != nil {
		engine.logger.Warn("search_author_vocabulary_failed", slog.Any("error", err))
	}
	for _, author := range authors {
		if !fold.Contains(author, folded) {
			continue
		}
		priority := PriorityAuthor
		if fold.Equals(author, folded) {
			priority = PriorityExact
		}
		results = append(results, Result{
			ID:       "author-" + author,
			Type:     TypeAuthor,
			Title:    author,
			Subtitle: "Author",
			Route:    "/?author=" + url.QueryEscape(author),
			Priority: priority,
		})
	}

	categories, err := engine.catalog.Categories(context)
	if err != nil {
		engine.logger.Warn("search_category_vocabulary_failed", slog.Any("error", err))
	}
	for _, category := range categories {
		if !fold.Contains(category, folded) {
			continue
		}
		priority := PriorityCategory
		if fold.Equals(category, folded) {
			priority = PriorityExact
		}
		results = append(results, Result{
			ID:       "category-" + category,
			Type:     TypeCategory,
			Title:    category,
			Subtitle: "Category",
			Route:    "/?category=" + url.QueryEscape(category),
			Priority: priority,
		})
	}

	return results
}

// matchRegistry searches the static page and feature registry by title.
// Descriptions are display text, not match targets. Admin-only entries are
// invisible to everyone else.
func (engine *Engine) matchRegistry(folded string, role sec.UserRole) []Result {
	var results []Result
	for _, entry := range navigationRegistry {
		if entry.AdminOnly && role != sec.RoleAdmin {
			continue
		}
		if !fold.Contains(entry.Title, folded) {
			continue
		}

		priority := PriorityPage
		if entry.Type == TypeFeature {
			priority = PriorityFeature
		}
		if fold.Equals(entry.Title, folded) {
			priority = PriorityExact
		}

		results = append(results, Result{
			ID:          entry.ID,
			Type:        entry.Type,
			Title:       entry.Title,
			Description: entry.Description,
			Route:       entry.Route,
			Priority:    priority,
		})
	}
	return results
}

// matchMembers searches the directory by name and email. Only reached for
// admin callers.
func (engine *Engine) matchMembers(context context.Context, folded string) []Result {
	members, err := engine.members.AllActors(context)
	if err != nil {
		engine.logger.Warn("search_directory_failed", slog.Any("error", err))
		return nil
	}

	var results []Result
	for _, member := range members {
		if !fold.Contains(member.Name, folded) && !fold.Contains(member.Email, folded) {
			continue
		}
		priority := PriorityUser
		if fold.Equals(member.Name, folded) || fold.Equals(member.Email, folded) {
			priority = PriorityExact
		}
		results = append(results, Result{
			ID:       member.ID,
			Type:     TypeUser,
			Title:    member.Name,
			Subtitle: member.Email,
			Route:    "/admin/users/" + member.ID,
			Priority: priority,
		})
	}
	return results
}

// groupResults partitions an already-sorted candidate list into the fixed
// named buckets and fills the capped flat list.
func groupResults(sorted []Result) Grouped {
	grouped := emptyGrouped()

	for _, result := range sorted {
		switch result.Type {
		case TypeBook:
			grouped.Books = append(grouped.Books, result)
		case TypeAuthor:
			grouped.Authors = append(grouped.Authors, result)
		case TypeCategory:
			grouped.Categories = append(grouped.Categories, result)
		case TypeUser:
			grouped.Users = append(grouped.Users, result)
		case TypePage:
			grouped.Pages = append(grouped.Pages, result)
		case TypeFeature:
			grouped.Features = append(grouped.Features, result)
		}

		if len(grouped.All) < AllResultsCap {
			grouped.All = append(grouped.All, result)
		}
	}

	return grouped
}
