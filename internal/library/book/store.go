package book

import "context"

// Repository is the storage contract for the catalogue. Every method
// takes the owner's user ID and folds it into the WHERE clause.
type Repository interface {
	// ListBooks returns the filtered, sorted, paginated slice of the
	// user's books plus the total row count of the filtered set.
	ListBooks(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Book, int, error)

	// GetBook returns one hydrated book (tags, attachment counters).
	GetBook(ctx context.Context, userID, id string) (*Book, error)

	// CreateBook inserts the book and links it to tagIDs, keeping only
	// tags the owner actually has.
	CreateBook(ctx context.Context, b *Book, tagIDs []string) error

	// UpdateBook rewrites the book row and replaces its tag set in one
	// transaction. Refreshes updatedat.
	UpdateBook(ctx context.Context, b *Book, tagIDs []string) error

	// DeleteBook removes the book; files, notes, quotes, and junction
	// rows go with it via ON DELETE CASCADE. Returns the blob paths
	// (attachments plus cover) that the caller must remove from disk
	// after the transaction commits.
	DeleteBook(ctx context.Context, userID, id string) ([]string, error)

	// Facets computes the sidebar counters over the full owned set.
	Facets(ctx context.Context, userID string) (*Facets, error)
}
