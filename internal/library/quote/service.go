package quote

import (
	"context"
	"log/slog"

	"github.com/mindfolio/mindfolio-server/internal/platform/validate"
	"github.com/mindfolio/mindfolio-server/pkg/uuidv7"
)

// TagResolver maps raw tag names to owned tag IDs, creating missing tags.
type TagResolver interface {
	ResolveNames(ctx context.Context, userID string, rawNames []string) ([]string, error)
}

type Service struct {
	repo   Repository
	tags   TagResolver
	logger *slog.Logger
}

func NewService(repo Repository, tags TagResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		tags:   tags,
		logger: logger,
	}
}

// WriteInput is the quote form payload for create and edit.
type WriteInput struct {
	QuoteText  string   `json:"quote_text"`
	PageNumber *int     `json:"page_number"`
	MyComment  *string  `json:"my_comment"`
	TagNames   []string `json:"tags"`
}

func validateWrite(input *WriteInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldQuoteText, input.QuoteText)
	if input.PageNumber != nil {
		validator.Custom(FieldPageNumber, *input.PageNumber < 1, "must be positive")
	}
	return validator.Err()
}

func (service *Service) List(ctx context.Context, userID string, filter Filter, limit, offset int) ([]*Quote, int, error) {
	return service.repo.List(ctx, userID, filter, limit, offset)
}

func (service *Service) ListByBook(ctx context.Context, userID, bookID string) ([]*Quote, error) {
	return service.repo.ListByBook(ctx, userID, bookID)
}

func (service *Service) Create(ctx context.Context, userID, bookID string, input *WriteInput) (*Quote, error) {
	if err := validateWrite(input); err != nil {
		return nil, err
	}

	tagIDs, err := service.tags.ResolveNames(ctx, userID, input.TagNames)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		ID:         uuidv7.New(),
		BookID:     bookID,
		UserID:     userID,
		QuoteText:  input.QuoteText,
		PageNumber: input.PageNumber,
		MyComment:  input.MyComment,
	}
	if err := service.repo.Create(ctx, q, tagIDs); err != nil {
		return nil, err
	}

	service.logger.Info("quote_created",
		slog.String("quote_id", q.ID),
		slog.String("book_id", bookID),
	)
	return q, nil
}

func (service *Service) Update(ctx context.Context, userID, id string, input *WriteInput) (*Quote, error) {
	if err := validateWrite(input); err != nil {
		return nil, err
	}

	tagIDs, err := service.tags.ResolveNames(ctx, userID, input.TagNames)
	if err != nil {
		return nil, err
	}

	q := &Quote{
		ID:         id,
		UserID:     userID,
		QuoteText:  input.QuoteText,
		PageNumber: input.PageNumber,
		MyComment:  input.MyComment,
	}
	if err := service.repo.Update(ctx, q, tagIDs); err != nil {
		return nil, err
	}

	service.logger.Info("quote_updated", slog.String("quote_id", id))
	return q, nil
}

func (service *Service) Delete(ctx context.Context, userID, id string) error {
	if err := service.repo.Delete(ctx, userID, id); err != nil {
		return err
	}
	service.logger.Info("quote_deleted", slog.String("quote_id", id))
	return nil
}
