// Copyright (c) 2026 Libris. All rights reserved.

package fold_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mavlib/libris/pkg/fold"
)

func TestCasefold(t *testing.T) {
	cases := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty", "", ""},
		{"already_folded", "dune", "dune"},
		{"uppercase", "DUNE", "dune"},
		{"accents_removed", "Brontë", "bronte"},
		{"composed_and_decomposed_agree", "Café", "cafe"},
		{"whitespace_preserved", "  Jane  Austen ", "  jane  austen "},
		{"punctuation_preserved", "J.R.R. Tolkien", "j.r.r. tolkien"},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, fold.Casefold(testCase.input))
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, fold.Contains("Wuthering Heights", "WUTHER"))
	assert.True(t, fold.Contains("Emily Brontë", "bronte"))
	assert.True(t, fold.Contains("bronte", "Brontë"))
	assert.False(t, fold.Contains("Emma", "emmaline"))
}

func TestEquals(t *testing.T) {
	assert.True(t, fold.Equals("Dune", "dUNe"))
	assert.True(t, fold.Equals("Brontë", "bronte"))
	assert.False(t, fold.Equals("Dune", "Dune Messiah"))
}
