// Copyright (c) 2026 Libris. All rights reserved.

// Package fold normalizes arbitrary Unicode strings for case-insensitive
// substring matching.
//
// # Usage
//
// The search engine folds both the query and the candidate fields through
// [Casefold] so that "Brontë" and "bronte" rank against each other.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Casefold converts a Unicode string into its canonical lowercase form.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
//
// Whitespace and punctuation are preserved, so substring positions survive
// the fold.
func Casefold(s string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, s)
	if err != nil {
		// Malformed input falls back to plain lowercasing.
		result = s
	}

	// 2. Lowercase
	return strings.ToLower(result)
}

// Contains reports whether folded(s) contains folded(substr).
func Contains(s, substr string) bool {
	return strings.Contains(Casefold(s), Casefold(substr))
}

// Equals reports whether two strings are equal after folding.
func Equals(a, b string) bool {
	return Casefold(a) == Casefold(b)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
