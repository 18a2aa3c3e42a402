// Copyright (c) 2026 Libris. All rights reserved.

/*
Package search implements cross-entity lookup over the catalogue, the member
directory, and the application's navigable surface.

A single query is matched against books, authors, categories, users, pages,
and features. Matches are ranked by priority, grouped by entity type, and a
flat capped list is kept for compact presentation.

# Ranking

Exact case-insensitive title matches always rank first. Otherwise each entity
type carries a fixed base priority, so books surface ahead of authors, which
surface ahead of categories, and so on.
*/
package search

// Entity types, in ranking order.
const (
	TypeBook     = "book"
	TypeAuthor   = "author"
	TypeCategory = "category"
	TypeUser     = "user"
	TypePage     = "page"
	TypeFeature  = "feature"
)

// Base priority per entity type. An exact title match overrides these with
// [PriorityExact].
const (
	PriorityExact    = 0
	PriorityBook     = 1
	PriorityAuthor   = 2
	PriorityCategory = 3
	PriorityUser     = 2
	PriorityPage     = 4
	PriorityFeature  = 5
)

// AllResultsCap bounds the flat cross-entity list returned with each query.
const AllResultsCap = 15

// Result is a single ranked match. Route points at the in-app destination
// the match navigates to.
type Result struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle,omitempty"`
	Description string `json:"description,omitempty"`
	Route       string `json:"route"`
	Priority    int    `json:"priority"`
}

// Grouped is the full response shape: per-type buckets plus the capped
// flat list. Every slice is non-nil so empty groups serialize as [].
type Grouped struct {
	Books      []Result `json:"books"`
	Authors    []Result `json:"authors"`
	Categories []Result `json:"categories"`
	Users      []Result `json:"users"`
	Pages      []Result `json:"pages"`
	Features   []Result `json:"features"`
	All        []Result `json:"all"`
}

// emptyGrouped returns a Grouped with every bucket allocated and empty.
func emptyGrouped() Grouped {
	return Grouped{
		Books:      []Result{},
		Authors:    []Result{},
		Categories: []Result{},
		Users:      []Result{},
		Pages:      []Result{},
		Features:   []Result{},
		All:        []Result{},
	}
}
