package tag

import "time"

// Tag is a user-scoped label. Names are unique per user ignoring case.
type Tag struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

const FieldName = "name"
