package bookfile

import "context"

// Repository is the storage contract for attachment rows. Every method
// proves ownership through the parent book's userid; a file hanging off
// another user's book reads as NOT_FOUND.
type Repository interface {
	ListByBook(ctx context.Context, userID, bookID string) ([]*BookFile, error)
	Get(ctx context.Context, userID, id string) (*BookFile, error)
	Create(ctx context.Context, userID string, f *BookFile) error

	// Delete removes the row and returns its storage path so the
	// caller can clear the blob after the delete lands.
	Delete(ctx context.Context, userID, id string) (string, error)

	// SetCoverPath swaps the parent book's cover and returns the
	// previous path, empty when the book had none.
	SetCoverPath(ctx context.Context, userID, bookID, coverPath string) (string, error)
}
