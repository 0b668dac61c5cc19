// Package book implements the library catalogue: the filtered list view,
// the hydrated detail view, and book lifecycle writes. Every operation is
// scoped to the owning user; a book owned by someone else behaves exactly
// like a book that does not exist.
package book

import "time"

// Reading status values stored in library.book.status. The list filter
// applies whatever status string the client sends without validating it
// against this set; an unknown value simply matches nothing.
const (
	StatusToRead    = "TO_READ"
	StatusReading   = "READING"
	StatusFinished  = "FINISHED"
	StatusAbandoned = "ABANDONED"
)

// Primary format values for library.book.primaryformat.
const (
	FormatPDF   = "PDF"
	FormatEPUB  = "EPUB"
	FormatOther = "OTHER"
)

// AuthorRef is the author projection embedded in book payloads.
type AuthorRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagRef is the tag projection embedded in book payloads.
type TagRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Book is a catalogued title together with its author, tags, and the
// attachment counters the detail page shows.
type Book struct {
	ID              string     `json:"id"`
	UserID          string     `json:"-"`
	Title           string     `json:"title"`
	Author          AuthorRef  `json:"author"`
	PublicationYear *int       `json:"publication_year,omitempty"`
	Status          string     `json:"status"`
	OverallRating   *float64   `json:"overall_rating,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	PrimaryFormat   string     `json:"primary_format"`
	CoverPath       *string    `json:"cover_path,omitempty"`
	Tags            []TagRef   `json:"tags"`
	NoteCount       int        `json:"note_count"`
	QuoteCount      int        `json:"quote_count"`
	FileCount       int        `json:"file_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Filter describes the library list view's query surface. Zero values
// mean "not applied"; fields compose with AND.
type Filter struct {
	Status      string
	TagID       string
	RatingFloor *float64
	Query       string
	Sort        SortKey
}

// StatusCounts are the shelf counters shown above the list, always
// computed over the full owned set regardless of active filters.
type StatusCounts struct {
	Total    int `json:"total"`
	ToRead   int `json:"to_read"`
	Reading  int `json:"reading"`
	Finished int `json:"finished"`
}

// TagCount pairs a tag with how many of the user's books carry it.
type TagCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Facets feeds the filter sidebar: shelf counters plus per-tag counts
// for every tag the user owns, zero-count tags included.
type Facets struct {
	StatusCounts StatusCounts `json:"status_counts"`
	TagCounts    []TagCount   `json:"tag_counts"`
}

// Field names reported in validation error details.
const (
	FieldTitle         = "title"
	FieldAuthorName    = "author_name"
	FieldStatus        = "status"
	FieldOverallRating = "overall_rating"
	FieldPrimaryFormat = "primary_format"
	FieldYear          = "publication_year"
	FieldRating        = "rating"
)
