package schema

// LibraryAuthorTable represents the 'library.author' table
type LibraryAuthorTable struct {
	Table     string
	ID        string
	UserID    string
	Name      string
	CreatedAt string
}

// LibraryAuthor is the schema definition for library.author
var LibraryAuthor = LibraryAuthorTable{
	Table:     "library.author",
	ID:        "id",
	UserID:    "userid",
	Name:      "name",
	CreatedAt: "createdat",
}

func (t LibraryAuthorTable) Columns() []string {
	return []string{t.ID, t.UserID, t.Name, t.CreatedAt}
}
