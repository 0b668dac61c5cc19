package author

import (
	"context"
	"log/slog"

	"github.com/mindfolio/mindfolio-server/internal/platform/validate"
	"github.com/mindfolio/mindfolio-server/pkg/textnorm"
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

func (service *Service) ListAuthors(ctx context.Context, userID string) ([]*Author, error) {
	return service.repo.ListAuthors(ctx, userID)
}

// GetOrCreate normalizes the submitted name and resolves it through the
// per-user registry. "Tolkien" and "tolkien " land on the same row.
func (service *Service) GetOrCreate(ctx context.Context, userID, rawName string) (*Author, error) {
	name := textnorm.Name(rawName)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 300)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	resolved, created, err := service.repo.GetOrCreate(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	if created {
		service.logger.Info("author_created", slog.String("name", resolved.Name))
	}
	return resolved, nil
}
