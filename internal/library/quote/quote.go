// Package quote implements captured passages: per-book CRUD and the
// global quotes view with its own filter and sort surface.
package quote

import "time"

// TagRef is the tag projection embedded in quote payloads.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Quote is a captured passage. BookTitle and BookAuthor are read-only
// display columns hydrated from the parent book.
type Quote struct {
	ID         string    `json:"id"`
	BookID     string    `json:"book_id"`
	UserID     string    `json:"-"`
	QuoteText  string    `json:"quote_text"`
	PageNumber *int      `json:"page_number,omitempty"`
	MyComment  *string   `json:"my_comment,omitempty"`
	Tags       []TagRef  `json:"tags"`
	BookTitle  string    `json:"book_title"`
	BookAuthor string    `json:"book_author"`
	CreatedAt  time.Time `json:"created_at"`
}

// Filter describes the global quotes view's query surface.
type Filter struct {
	BookID string
	TagID  string
	Query  string
	Sort   SortKey
}

const (
	FieldQuoteText  = "quote_text"
	FieldPageNumber = "page_number"
)
