package bookfile

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/internal/platform/validate"
	"github.com/mindfolio/mindfolio-server/pkg/uuidv7"
)

const octetStream = "application/octet-stream"

type Service struct {
	repo   Repository
	blobs  *LocalStore
	logger *slog.Logger
}

func NewService(repo Repository, blobs *LocalStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		blobs:  blobs,
		logger: logger,
	}
}

func (service *Service) ListByBook(ctx context.Context, userID, bookID string) ([]*BookFile, error) {
	return service.repo.ListByBook(ctx, userID, bookID)
}

/*
Upload stores the blob under books/{user}/{book}/ and records the row.

The mime type is pinned at upload time: filename extension first, then
content sniffing of the stored bytes, then the octet-stream fallback.
When no original filename arrives the blob's basename stands in for it.
The ownership check happens inside the row insert; if it fails the blob
is unlinked again so disk and database stay aligned.
*/
func (service *Service) Upload(ctx context.Context, userID, bookID, fileType, originalFilename string, content io.Reader) (*BookFile, error) {
	if fileType == "" {
		fileType = TypeOther
	}
	validator := &validate.Validator{}
	validator.OneOf(FieldFileType, fileType, TypeSourcePDF, TypeSourceEPUB, TypeSummary, TypeMindmap, TypeOther)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	dir := filepath.Join("books", userID, bookID)
	storagePath, size, err := service.blobs.Save(dir, originalFilename, content)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if originalFilename == "" {
		originalFilename = filepath.Base(storagePath)
	}

	f := &BookFile{
		ID:               uuidv7.New(),
		BookID:           bookID,
		FileType:         fileType,
		StoragePath:      storagePath,
		OriginalFilename: filepath.Base(originalFilename),
		MimeType:         service.detectMime(originalFilename, storagePath),
		SizeBytes:        size,
	}
	if err := service.repo.Create(ctx, userID, f); err != nil {
		if removeErr := service.blobs.Remove(storagePath); removeErr != nil {
			service.logger.Warn("blob_cleanup_failed",
				slog.String("path", storagePath),
				slog.String("error", removeErr.Error()),
			)
		}
		return nil, err
	}

	service.logger.Info("file_uploaded",
		slog.String("file_id", f.ID),
		slog.String("book_id", bookID),
		slog.String("mime_type", f.MimeType),
		slog.Int64("size_bytes", size),
	)
	return f, nil
}

func (service *Service) detectMime(originalFilename, storagePath string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(originalFilename)); byExt != "" {
		return byExt
	}
	if absFile, err := service.blobs.Open(storagePath); err == nil {
		defer absFile.Close()
		if detected, err := mimetype.DetectReader(absFile); err == nil {
			return detected.String()
		}
	}
	return octetStream
}

// ViewFile is an open attachment ready to stream: the blob handle plus
// the resolved Content-Type and whether it may render inline.
type ViewFile struct {
	Meta        *BookFile
	Blob        *os.File
	ContentType string
	Inline      bool
}

/*
View resolves the attachment for streaming.

Content type resolution: the stored mime type wins; a blank one falls
back to guessing from the original filename's extension, then to
octet-stream. Exactly application/pdf renders inline; every other type
downloads under its original filename. A row whose blob has gone
missing from disk reports NOT_FOUND rather than a server error.
*/
func (service *Service) View(ctx context.Context, userID, id string) (*ViewFile, error) {
	f, err := service.repo.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	blob, err := service.blobs.Open(f.StoragePath)
	if err != nil {
		if os.IsNotExist(err) {
			service.logger.Warn("blob_missing",
				slog.String("file_id", f.ID),
				slog.String("path", f.StoragePath),
			)
			return nil, apperr.NotFound("file")
		}
		return nil, apperr.Internal(err)
	}

	contentType := f.MimeType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(f.OriginalFilename))
	}
	if contentType == "" {
		contentType = octetStream
	}

	return &ViewFile{
		Meta:        f,
		Blob:        blob,
		ContentType: contentType,
		Inline:      contentType == "application/pdf",
	}, nil
}

func (service *Service) Delete(ctx context.Context, userID, id string) error {
	storagePath, err := service.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}

	if err := service.blobs.Remove(storagePath); err != nil {
		service.logger.Warn("blob_cleanup_failed",
			slog.String("path", storagePath),
			slog.String("error", err.Error()),
		)
	}

	service.logger.Info("file_deleted", slog.String("file_id", id))
	return nil
}

// UploadCover stores a new cover blob under covers/{user}/ and swaps it
// onto the book, clearing the replaced blob afterwards.
func (service *Service) UploadCover(ctx context.Context, userID, bookID, originalFilename string, content io.Reader) (string, error) {
	dir := filepath.Join("covers", userID)
	storagePath, _, err := service.blobs.Save(dir, originalFilename, content)
	if err != nil {
		return "", apperr.Internal(err)
	}

	previous, err := service.repo.SetCoverPath(ctx, userID, bookID, storagePath)
	if err != nil {
		if removeErr := service.blobs.Remove(storagePath); removeErr != nil {
			service.logger.Warn("blob_cleanup_failed",
				slog.String("path", storagePath),
				slog.String("error", removeErr.Error()),
			)
		}
		return "", err
	}

	if previous != "" {
		if err := service.blobs.Remove(previous); err != nil {
			service.logger.Warn("blob_cleanup_failed",
				slog.String("path", previous),
				slog.String("error", err.Error()),
			)
		}
	}

	service.logger.Info("cover_uploaded", slog.String("book_id", bookID))
	return storagePath, nil
}
