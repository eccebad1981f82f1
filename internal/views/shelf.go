// Package views computes derived read-only views over shelf snapshots.
// Everything here is a pure function: callers pass in the books and logs
// they fetched and get back the shape the UI renders.
package views

import (
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/quietshelf/quietshelf-server/internal/domain"
)

// FilterAll is the sentinel filter value meaning "do not filter".
const FilterAll = "all"

// StatusCounts tallies books per reading status.
func StatusCounts(books []*domain.Book) map[domain.BookStatus]int {
	counts := make(map[domain.BookStatus]int)
	for _, book := range books {
		counts[book.Status]++
	}
	return counts
}

// sortedUniverse returns the distinct values produced by extract across
// all books, sorted case-insensitively, with FilterAll prepended.
func sortedUniverse(books []*domain.Book, extract func(*domain.Book) []string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, book := range books {
		for _, v := range extract(book) {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
	}

	collate.New(language.English, collate.IgnoreCase).SortStrings(values)

	return append([]string{FilterAll}, values...)
}

// TagUniverse returns every distinct tag across books, sorted
// case-insensitively, with the "all" sentinel first.
func TagUniverse(books []*domain.Book) []string {
	return sortedUniverse(books, func(b *domain.Book) []string { return b.Tags })
}

// GenreUniverse returns every distinct genre across books, sorted
// case-insensitively, with the "all" sentinel first.
func GenreUniverse(books []*domain.Book) []string {
	return sortedUniverse(books, func(b *domain.Book) []string { return b.Genres })
}

// FilterBooks applies the shelf filters conjunctively. A status or tag of
// "all" (or empty) disables that filter; an empty query disables the text
// search. The query matches as a case-insensitive substring of the book's
// combined search text (title, authors, and tags joined by spaces).
func FilterBooks(books []*domain.Book, status, tag, query string) []*domain.Book {
	query = strings.ToLower(strings.TrimSpace(query))

	filtered := make([]*domain.Book, 0, len(books))
	for _, book := range books {
		if status != "" && status != FilterAll && string(book.Status) != status {
			continue
		}
		if tag != "" && tag != FilterAll && !book.HasTag(tag) {
			continue
		}
		if query != "" && !strings.Contains(searchText(book), query) {
			continue
		}
		filtered = append(filtered, book)
	}
	return filtered
}

// searchText joins title, authors, and tags into one lowercased haystack so
// a query can span field boundaries ("dune frank" matches title + author).
func searchText(book *domain.Book) string {
	parts := make([]string, 0, 1+len(book.Authors)+len(book.Tags))
	parts = append(parts, book.Title)
	parts = append(parts, book.Authors...)
	parts = append(parts, book.Tags...)
	return strings.ToLower(strings.Join(parts, " "))
}
