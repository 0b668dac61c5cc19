package author

import "context"

type Repository interface {
	// ListAuthors returns every author owned by userID, ordered by name.
	ListAuthors(ctx context.Context, userID string) ([]*Author, error)

	// GetOrCreate returns the author whose name matches case-insensitively
	// for this user, creating it when absent. The boolean reports whether a
	// new row was inserted. Concurrent callers with the same name converge
	// on a single row.
	GetOrCreate(ctx context.Context, userID, name string) (*Author, bool, error)
}
