package bookfile_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfolio/mindfolio-server/internal/library/bookfile"
	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
)

// fakeRepository serves one canned file row per ID.
type fakeRepository struct {
	files map[string]*bookfile.BookFile
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{files: map[string]*bookfile.BookFile{}}
}

func (f *fakeRepository) ListByBook(ctx context.Context, userID, bookID string) ([]*bookfile.BookFile, error) {
	return nil, nil
}

func (f *fakeRepository) Get(ctx context.Context, userID, id string) (*bookfile.BookFile, error) {
	file, ok := f.files[id]
	if !ok {
		return nil, apperr.NotFound("file")
	}
	return file, nil
}

func (f *fakeRepository) Create(ctx context.Context, userID string, file *bookfile.BookFile) error {
	f.files[file.ID] = file
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, userID, id string) (string, error) {
	file, ok := f.files[id]
	if !ok {
		return "", apperr.NotFound("file")
	}
	delete(f.files, id)
	return file.StoragePath, nil
}

func (f *fakeRepository) SetCoverPath(ctx context.Context, userID, bookID, coverPath string) (string, error) {
	return "", nil
}

func newTestService(t *testing.T, repo *fakeRepository) (*bookfile.Service, *bookfile.LocalStore) {
	t.Helper()
	blobs := bookfile.NewLocalStore(t.TempDir())
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return bookfile.NewService(repo, blobs, logger), blobs
}

// seedFile stores a blob on disk and registers a row pointing at it.
func seedFile(t *testing.T, repo *fakeRepository, blobs *bookfile.LocalStore, id, originalFilename, mimeType string) {
	t.Helper()
	storagePath, _, err := blobs.Save("books/user-1/book-1", originalFilename, strings.NewReader("content"))
	require.NoError(t, err)
	repo.files[id] = &bookfile.BookFile{
		ID:               id,
		BookID:           "book-1",
		FileType:         bookfile.TypeOther,
		StoragePath:      storagePath,
		OriginalFilename: originalFilename,
		MimeType:         mimeType,
	}
}

/*
TestService_View_ContentTypeResolution verifies the resolution chain:
the stored mime type wins, a blank one falls back to the extension
guess, and an unguessable extension lands on octet-stream. Only an
exact application/pdf renders inline.
*/
func TestService_View_ContentTypeResolution(t *testing.T) {
	testCases := []struct {
		name         string
		filename     string
		storedMime   string
		expectedType string
		expectInline bool
	}{
		{
			name:         "stored pdf renders inline",
			filename:     "paper.pdf",
			storedMime:   "application/pdf",
			expectedType: "application/pdf",
			expectInline: true,
		},
		{
			name:         "stored epub downloads",
			filename:     "novel.epub",
			storedMime:   "application/epub+zip",
			expectedType: "application/epub+zip",
			expectInline: false,
		},
		{
			name:         "blank mime falls back to extension guess",
			filename:     "paper.pdf",
			storedMime:   "",
			expectedType: "application/pdf",
			expectInline: true,
		},
		{
			name:         "unguessable extension falls back to octet-stream",
			filename:     "notes.xyzdata",
			storedMime:   "",
			expectedType: "application/octet-stream",
			expectInline: false,
		},
		{
			name:         "stored type beats pdf extension",
			filename:     "export.pdf",
			storedMime:   "application/zip",
			expectedType: "application/zip",
			expectInline: false,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			repo := newFakeRepository()
			service, blobs := newTestService(t, repo)
			seedFile(t, repo, blobs, "file-1", testCase.filename, testCase.storedMime)

			view, err := service.View(context.Background(), "user-1", "file-1")
			require.NoError(t, err)
			defer view.Blob.Close()

			assert.Equal(t, testCase.expectedType, view.ContentType)
			assert.Equal(t, testCase.expectInline, view.Inline)
			assert.Equal(t, testCase.filename, view.Meta.OriginalFilename)
		})
	}
}

/*
TestService_View_MissingBlob verifies that a row whose blob has
disappeared from disk reads as NOT_FOUND, not an internal error.
*/
func TestService_View_MissingBlob(t *testing.T) {
	repo := newFakeRepository()
	service, _ := newTestService(t, repo)
	repo.files["file-1"] = &bookfile.BookFile{
		ID:          "file-1",
		StoragePath: "books/user-1/book-1/gone.pdf",
		MimeType:    "application/pdf",
	}

	_, err := service.View(context.Background(), "user-1", "file-1")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)
}

/*
TestService_Upload verifies the happy path: the blob lands on disk, the
mime type is pinned from the filename, and the size is recorded.
*/
func TestService_Upload(t *testing.T) {
	repo := newFakeRepository()
	service, blobs := newTestService(t, repo)

	uploaded, err := service.Upload(
		context.Background(), "user-1", "book-1",
		bookfile.TypeSourcePDF, "thesis.pdf", strings.NewReader("%PDF-1.7 data"),
	)

	require.NoError(t, err)
	assert.Equal(t, "application/pdf", uploaded.MimeType)
	assert.Equal(t, "thesis.pdf", uploaded.OriginalFilename)
	assert.Equal(t, int64(len("%PDF-1.7 data")), uploaded.SizeBytes)

	blob, err := blobs.Open(uploaded.StoragePath)
	require.NoError(t, err)
	blob.Close()
}

/*
TestService_Upload_RejectsUnknownFileType verifies the file_type enum
check on upload.
*/
func TestService_Upload_RejectsUnknownFileType(t *testing.T) {
	repo := newFakeRepository()
	service, _ := newTestService(t, repo)

	_, err := service.Upload(
		context.Background(), "user-1", "book-1",
		"SCREENSHOT", "shot.png", strings.NewReader("png"),
	)

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

/*
TestLocalStore_PathEscape verifies that blob paths cannot climb out of
the media root.
*/
func TestLocalStore_PathEscape(t *testing.T) {
	blobs := bookfile.NewLocalStore(t.TempDir())

	_, err := blobs.Open("../../etc/passwd")
	require.Error(t, err)

	err = blobs.Remove("/etc/passwd")
	require.Error(t, err)
}
