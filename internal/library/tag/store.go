package tag

import "context"

// Repository is the storage contract for the per-user tag registry.
type Repository interface {
	// ListTags returns every tag the user owns, ordered by folded name.
	ListTags(ctx context.Context, userID string) ([]*Tag, error)

	// GetOrCreate resolves a normalized name to the user's tag with that
	// name (compared case-insensitively), creating it when absent. The
	// bool reports whether a row was inserted. Safe under concurrent
	// calls for the same name.
	GetOrCreate(ctx context.Context, userID, name string) (*Tag, bool, error)
}
