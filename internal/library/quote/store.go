package quote

import "context"

// Repository is the storage contract for quotes. Creation verifies the
// parent book's ownership inside the INSERT, the same gate the note
// store uses.
type Repository interface {
	// List returns a filtered page of the user's quotes across all
	// books plus the total count of the filtered set.
	List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Quote, int, error)

	ListByBook(ctx context.Context, userID, bookID string) ([]*Quote, error)

	// Create inserts the quote and links it to tagIDs, keeping only
	// tags the owner actually has.
	Create(ctx context.Context, q *Quote, tagIDs []string) error

	// Update rewrites the quote and replaces its tag set in one
	// transaction.
	Update(ctx context.Context, q *Quote, tagIDs []string) error

	Delete(ctx context.Context, userID, id string) error
}
