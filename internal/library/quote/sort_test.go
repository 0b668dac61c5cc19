package quote_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mindfolio/mindfolio-server/internal/library/quote"
)

/*
TestParseSortKey verifies the quotes view sort whitelist and its
newest-first fallback.
*/
func TestParseSortKey(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected quote.SortKey
	}{
		{"default on empty", "", quote.SortNewest},
		{"newest", "-created_at", quote.SortNewest},
		{"oldest", "created_at", quote.SortOldest},
		{"book title", "book__title", quote.SortBookTitle},
		{"page number", "page_number", quote.SortPage},
		{"garbage falls back", "random", quote.SortNewest},
		{"book field falls back", "book__author", quote.SortNewest},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, quote.ParseSortKey(testCase.raw))
		})
	}
}
