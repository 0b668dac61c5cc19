package schema

// LibraryNoteTable represents the 'library.note' table
type LibraryNoteTable struct {
	Table     string
	ID        string
	BookID    string
	UserID    string
	NoteType  string
	Title     string
	Body      string
	PageStart string
	PageEnd   string
	CreatedAt string
	UpdatedAt string
}

// LibraryNote is the schema definition for library.note
var LibraryNote = LibraryNoteTable{
	Table:     "library.note",
	ID:        "id",
	BookID:    "bookid",
	UserID:    "userid",
	NoteType:  "notetype",
	Title:     "title",
	Body:      "body",
	PageStart: "pagestart",
	PageEnd:   "pageend",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t LibraryNoteTable) Columns() []string {
	return []string{
		t.ID, t.BookID, t.UserID, t.NoteType, t.Title, t.Body,
		t.PageStart, t.PageEnd, t.CreatedAt, t.UpdatedAt,
	}
}
