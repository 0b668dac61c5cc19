package note

import "context"

// Repository is the storage contract for notes. Creation verifies the
// parent book's ownership inside the INSERT itself; a book the user does
// not own reads as NOT_FOUND.
type Repository interface {
	ListByBook(ctx context.Context, userID, bookID string) ([]*Note, error)
	Create(ctx context.Context, n *Note) error
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, userID, id string) error
}
