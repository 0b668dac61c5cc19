// Package bookfile implements file attachments: upload to local blob
// storage, inline viewing or download, and cover images.
package bookfile

import "time"

// File type values for library.book_file.filetype.
const (
	TypeSourcePDF  = "SOURCE_PDF"
	TypeSourceEPUB = "SOURCE_EPUB"
	TypeSummary    = "SUMMARY"
	TypeMindmap    = "MINDMAP"
	TypeOther      = "OTHER"
)

// BookFile is a stored attachment. StoragePath is the blob's location
// relative to the media root and never leaves the server.
type BookFile struct {
	ID               string    `json:"id"`
	BookID           string    `json:"book_id"`
	FileType         string    `json:"file_type"`
	StoragePath      string    `json:"-"`
	OriginalFilename string    `json:"original_filename"`
	MimeType         string    `json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

const FieldFileType = "file_type"
const FieldFile = "file"
