package author

import "time"

// Author is a per-user registry entry for a book's writer. Rows are
// created implicitly the first time a user enters a name; the same name
// in any letter case resolves to the same row.
type Author struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Global field names for validation
const (
	FieldName = "name"
)
