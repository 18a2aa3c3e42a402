package catalog

// DefaultBooks returns the bundled fallback dataset installed when the remote
// supplier fails or yields nothing. The core is never left with zero books.
func DefaultBooks() []*Book {
	books := []*Book{
		{
			ID:            "fallback-dune",
			Title:         "Dune",
			Author:        "Frank Herbert",
			ISBN:          "9780441172719",
			Category:      "Science Fiction",
			Description:   "A stunning blend of adventure and mysticism, environmentalism and politics.",
			TotalCopies:   5,
			PublishedYear: 1965,
			Rating:        4.7,
		},
		{
			ID:            "fallback-mockingbird",
			Title:         "To Kill a Mockingbird",
			Author:        "Harper Lee",
			ISBN:          "9780060935467",
			Category:      "Fiction",
			Description:   "A gripping, heart-wrenching tale of coming-of-age in a South poisoned by prejudice.",
			TotalCopies:   4,
			PublishedYear: 1960,
			Rating:        4.8,
		},
		{
			ID:            "fallback-1984",
			Title:         "Nineteen Eighty-Four",
			Author:        "George Orwell",
			ISBN:          "9780451524935",
			Category:      "Fiction",
			Description:   "A startling and haunting vision of the world under omnipresent surveillance.",
			TotalCopies:   6,
			PublishedYear: 1949,
			Rating:        4.6,
		},
		{
			ID:            "fallback-sapiens",
			Title:         "Sapiens: A Brief History of Humankind",
			Author:        "Yuval Noah Harari",
			ISBN:          "9780062316097",
			Category:      "History",
			Description:   "How Homo sapiens became Earth's dominant species.",
			TotalCopies:   3,
			PublishedYear: 2011,
			Rating:        4.4,
		},
		{
			ID:            "fallback-hobbit",
			Title:         "The Hobbit",
			Author:        "J. R. R. Tolkien",
			ISBN:          "9780547928227",
			Category:      "Fantasy",
			Description:   "Bilbo Baggins is swept into a quest to reclaim the lost Dwarf Kingdom of Erebor.",
			TotalCopies:   5,
			PublishedYear: 1937,
			Rating:        4.7,
		},
		{
			ID:            "fallback-murder-orient",
			Title:         "Murder on the Orient Express",
			Author:        "Agatha Christie",
			ISBN:          "9780062693662",
			Category:      "Mystery",
			Description:   "Hercule Poirot investigates a murder aboard a snowbound train.",
			TotalCopies:   4,
			PublishedYear: 1934,
			Rating:        4.3,
		},
		{
			ID:            "fallback-frankenstein",
			Title:         "Frankenstein",
			Author:        "Mary Shelley",
			ISBN:          "9780486282114",
			Category:      "Horror",
			Description:   "The original tale of a scientist who creates a sapient creature.",
			TotalCopies:   3,
			PublishedYear: 1818,
			Rating:        4.2,
		},
		{
			ID:            "fallback-leaves",
			Title:         "Leaves of Grass",
			Author:        "Walt Whitman",
			ISBN:          "9780140421996",
			Category:      "Poetry",
			Description:   "Whitman's landmark celebration of the body and the self.",
			TotalCopies:   2,
			PublishedYear: 1855,
			Rating:        4.1,
		},
	}

	for _, book := range books {
		book.AvailableCopies = book.TotalCopies
		book.Normalize()
	}
	return books
}
