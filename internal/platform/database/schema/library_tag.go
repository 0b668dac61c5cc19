package schema

// LibraryTagTable represents the 'library.tag' table
type LibraryTagTable struct {
	Table     string
	ID        string
	UserID    string
	Name      string
	CreatedAt string
}

// LibraryTag is the schema definition for library.tag
var LibraryTag = LibraryTagTable{
	Table:     "library.tag",
	ID:        "id",
	UserID:    "userid",
	Name:      "name",
	CreatedAt: "createdat",
}

func (t LibraryTagTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Name, t.CreatedAt}
}
