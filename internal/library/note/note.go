// Package note implements reading notes attached to a book.
package note

import "time"

// Note type values for library.note.notetype.
const (
	TypeSummary    = "SUMMARY"
	TypeReflection = "REFLECTION"
	TypeGeneral    = "GENERAL"
)

type Note struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"-"`
	NoteType  string    `json:"note_type"`
	Title     *string   `json:"title,omitempty"`
	Body      string    `json:"body"`
	PageStart *int      `json:"page_start,omitempty"`
	PageEnd   *int      `json:"page_end,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const (
	FieldNoteType  = "note_type"
	FieldTitle     = "title"
	FieldBody      = "body"
	FieldPageStart = "page_start"
	FieldPageEnd   = "page_end"
)
