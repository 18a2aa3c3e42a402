// Copyright (c) 2026 Libris. All rights reserved.

package search

// registryEntry is a static navigable surface: a page or a feature.
// AdminOnly entries are withheld from non-admin callers entirely, so
// their names never leak through search.
type registryEntry struct {
	ID          string
	Type        string
	Title       string
	Description string
	Route       string
	AdminOnly   bool
}

// navigationRegistry lists every searchable page and feature. The set is
// fixed at compile time; routes mirror the web client's routing table.
var navigationRegistry = []registryEntry{
	{
		ID:          "page-home",
		Type:        TypePage,
		Title:       "Home",
		Description: "Browse the full catalogue",
		Route:       "/",
	},
	{
		ID:          "page-dashboard",
		Type:        TypePage,
		Title:       "Dashboard",
		Description: "Your active loans and borrowing history",
		Route:       "/dashboard",
	},
	{
		ID:          "page-categories",
		Type:        TypePage,
		Title:       "Categories",
		Description: "Browse books by category",
		Route:       "/categories",
	},
	{
		ID:          "page-admin",
		Type:        TypePage,
		Title:       "Admin Panel",
		Description: "Manage the catalogue and members",
		Route:       "/admin",
		AdminOnly:   true,
	},
	{
		ID:          "feature-borrow",
		Type:        TypeFeature,
		Title:       "Borrow Books",
		Description: "Borrow an available book from the catalogue",
		Route:       "/",
	},
	{
		ID:          "feature-return",
		Type:        TypeFeature,
		Title:       "Return Books",
		Description: "Return or renew your active loans",
		Route:       "/dashboard",
	},
}
