package note

import (
	"context"
	"log/slog"

	"github.com/mindfolio/mindfolio-server/internal/platform/validate"
	"github.com/mindfolio/mindfolio-server/pkg/uuidv7"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// WriteInput is the note form payload for create and edit.
type WriteInput struct {
	NoteType  string  `json:"note_type"`
	Title     *string `json:"title"`
	Body      string  `json:"body"`
	PageStart *int    `json:"page_start"`
	PageEnd   *int    `json:"page_end"`
}

func validateWrite(input *WriteInput) error {
	if input.NoteType == "" {
		input.NoteType = TypeGeneral
	}

	validator := &validate.Validator{}
	validator.Required(FieldBody, input.Body)
	validator.OneOf(FieldNoteType, input.NoteType, TypeSummary, TypeReflection, TypeGeneral)
	if input.Title != nil {
		validator.MaxLen(FieldTitle, *input.Title, 300)
	}
	if input.PageStart != nil {
		validator.Custom(FieldPageStart, *input.PageStart < 1, "must be positive")
	}
	if input.PageEnd != nil {
		validator.Custom(FieldPageEnd, *input.PageEnd < 1, "must be positive")
	}
	if input.PageStart != nil && input.PageEnd != nil {
		validator.Custom(FieldPageEnd, *input.PageEnd < *input.PageStart, "must not precede page_start")
	}
	return validator.Err()
}

func (service *Service) ListByBook(ctx context.Context, userID, bookID string) ([]*Note, error) {
	return service.repo.ListByBook(ctx, userID, bookID)
}

func (service *Service) Create(ctx context.Context, userID, bookID string, input *WriteInput) (*Note, error) {
	if err := validateWrite(input); err != nil {
		return nil, err
	}

	n := &Note{
		ID:        uuidv7.New(),
		BookID:    bookID,
		UserID:    userID,
		NoteType:  input.NoteType,
		Title:     input.Title,
		Body:      input.Body,
		PageStart: input.PageStart,
		PageEnd:   input.PageEnd,
	}
	if err := service.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	service.logger.Info("note_created",
		slog.String("note_id", n.ID),
		slog.String("book_id", bookID),
	)
	return n, nil
}

func (service *Service) Update(ctx context.Context, userID, id string, input *WriteInput) (*Note, error) {
	if err := validateWrite(input); err != nil {
		return nil, err
	}

	n := &Note{
		ID:        id,
		UserID:    userID,
		NoteType:  input.NoteType,
		Title:     input.Title,
		Body:      input.Body,
		PageStart: input.PageStart,
		PageEnd:   input.PageEnd,
	}
	if err := service.repo.Update(ctx, n); err != nil {
		return nil, err
	}

	service.logger.Info("note_updated", slog.String("note_id", id))
	return n, nil
}

func (service *Service) Delete(ctx context.Context, userID, id string) error {
	if err := service.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	service.logger.Info("note_deleted", slog.String("note_id", id))
	return nil
}
