package book_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindfolio/mindfolio-server/internal/library/book"
)

/*
TestParseSortKey verifies the sort whitelist: every supported token maps
to itself and everything else falls back to the default ordering.
*/
func TestParseSortKey(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected book.SortKey
	}{
		{"default on empty", "", book.SortUpdatedDesc},
		{"updated desc", "-updated_at", book.SortUpdatedDesc},
		{"created desc", "-created_at", book.SortCreatedDesc},
		{"title asc", "title", book.SortTitleAsc},
		{"author asc", "author", book.SortAuthorAsc},
		{"rating desc", "-overall_rating", book.SortRatingDesc},
		{"finished desc", "-finished_at", book.SortFinishedDesc},
		{"garbage falls back", "garbage", book.SortUpdatedDesc},
		{"sql injection falls back", "title; DROP TABLE library.book", book.SortUpdatedDesc},
		{"wrong direction falls back", "updated_at", book.SortUpdatedDesc},
		{"case sensitive", "Title", book.SortUpdatedDesc},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, book.ParseSortKey(testCase.raw))
		})
	}
}
