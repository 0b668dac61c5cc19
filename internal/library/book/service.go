package book

import (
	"context"
	"log/slog"
	"time"

	"github.com/mindfolio/mindfolio-server/internal/library/author"
	"github.com/mindfolio/mindfolio-server/internal/platform/validate"
	"github.com/mindfolio/mindfolio-server/pkg/uuidv7"
)

// AuthorResolver turns a free-text author name into a registry row,
// creating it on first use.
type AuthorResolver interface {
	GetOrCreate(ctx context.Context, userID, rawName string) (*author.Author, error)
}

// TagResolver maps raw tag names to owned tag IDs, creating missing tags.
type TagResolver interface {
	ResolveNames(ctx context.Context, userID string, rawNames []string) ([]string, error)
}

// BlobRemover deletes a stored blob by its storage path. Removal errors
// after a committed delete are logged, not surfaced.
type BlobRemover interface {
	Remove(storagePath string) error
}

type Service struct {
	repo    Repository
	authors AuthorResolver
	tags    TagResolver
	blobs   BlobRemover
	logger  *slog.Logger
}

func NewService(repo Repository, authors AuthorResolver, tags TagResolver, blobs BlobRemover, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		authors: authors,
		tags:    tags,
		blobs:   blobs,
		logger:  logger,
	}
}

// WriteInput is the create/edit form payload. The author arrives as free
// text and the tags as names; both resolve through their registries.
type WriteInput struct {
	Title           string     `json:"title"`
	AuthorName      string     `json:"author_name"`
	PublicationYear *int       `json:"publication_year"`
	Status          string     `json:"status"`
	OverallRating   *float64   `json:"overall_rating"`
	StartedAt       *time.Time `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at"`
	PrimaryFormat   string     `json:"primary_format"`
	TagNames        []string   `json:"tags"`
}

func (service *Service) validateWrite(input *WriteInput) error {
	if input.Status == "" {
		input.Status = StatusToRead
	}
	if input.PrimaryFormat == "" {
		input.PrimaryFormat = FormatPDF
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).MaxLen(FieldTitle, input.Title, 500)
	validator.Required(FieldAuthorName, input.AuthorName)
	validator.OneOf(FieldStatus, input.Status, StatusToRead, StatusReading, StatusFinished, StatusAbandoned)
	validator.OneOf(FieldPrimaryFormat, input.PrimaryFormat, FormatPDF, FormatEPUB, FormatOther)
	if input.OverallRating != nil {
		validator.FloatRange(FieldOverallRating, *input.OverallRating, 0.5, 5.0)
		validator.HalfStep(FieldOverallRating, *input.OverallRating)
	}
	if input.PublicationYear != nil {
		validator.Range(FieldYear, *input.PublicationYear, 1, 2100)
	}
	return validator.Err()
}

func (service *Service) List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Book, int, error) {
	books, total, err := service.repo.ListBooks(ctx, userID, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if books == nil {
		books = []*Book{}
	}
	return books, total, nil
}

func (service *Service) Get(ctx context.Context, userID, id string) (*Book, error) {
	return service.repo.GetBook(ctx, userID, id)
}

func (service *Service) Facets(ctx context.Context, userID string) (*Facets, error) {
	return service.repo.Facets(ctx, userID)
}

func (service *Service) Create(ctx context.Context, userID string, input *WriteInput) (*Book, error) {
	if err := service.validateWrite(input); err != nil {
		return nil, err
	}

	resolvedAuthor, err := service.authors.GetOrCreate(ctx, userID, input.AuthorName)
	if err != nil {
		return nil, err
	}
	tagIDs, err := service.tags.ResolveNames(ctx, userID, input.TagNames)
	if err != nil {
		return nil, err
	}

	b := &Book{
		ID:              uuidv7.New(),
		UserID:          userID,
		Title:           input.Title,
		Author:          AuthorRef{ID: resolvedAuthor.ID, Name: resolvedAuthor.Name},
		PublicationYear: input.PublicationYear,
		Status:          input.Status,
		OverallRating:   input.OverallRating,
		StartedAt:       input.StartedAt,
		FinishedAt:      input.FinishedAt,
		PrimaryFormat:   input.PrimaryFormat,
	}
	if err := service.repo.CreateBook(ctx, b, tagIDs); err != nil {
		return nil, err
	}

	service.logger.Info("book_created",
		slog.String("book_id", b.ID),
		slog.String("title", b.Title),
	)

	// Re-read for the hydrated tag set.
	return service.repo.GetBook(ctx, userID, b.ID)
}

func (service *Service) Update(ctx context.Context, userID, id string, input *WriteInput) (*Book, error) {
	if err := service.validateWrite(input); err != nil {
		return nil, err
	}

	resolvedAuthor, err := service.authors.GetOrCreate(ctx, userID, input.AuthorName)
	if err != nil {
		return nil, err
	}
	tagIDs, err := service.tags.ResolveNames(ctx, userID, input.TagNames)
	if err != nil {
		return nil, err
	}

	b := &Book{
		ID:              id,
		UserID:          userID,
		Title:           input.Title,
		Author:          AuthorRef{ID: resolvedAuthor.ID, Name: resolvedAuthor.Name},
		PublicationYear: input.PublicationYear,
		Status:          input.Status,
		OverallRating:   input.OverallRating,
		StartedAt:       input.StartedAt,
		FinishedAt:      input.FinishedAt,
		PrimaryFormat:   input.PrimaryFormat,
	}
	if err := service.repo.UpdateBook(ctx, b, tagIDs); err != nil {
		return nil, err
	}

	service.logger.Info("book_updated", slog.String("book_id", id))

	return service.repo.GetBook(ctx, userID, id)
}

// Delete removes the book row (the database cascades to attachments,
// notes, quotes, and tag links) and then clears the orphaned blobs from
// disk. A blob that fails to unlink only logs a warning since the
// database state is already committed.
func (service *Service) Delete(ctx context.Context, userID, id string) error {
	blobPaths, err := service.repo.DeleteBook(ctx, userID, id)
	if err != nil {
		return err
	}

	for _, path := range blobPaths {
		if err := service.blobs.Remove(path); err != nil {
			service.logger.Warn("blob_cleanup_failed",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
		}
	}

	service.logger.Info("book_deleted", slog.String("book_id", id))
	return nil
}
