package tag

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

func (service *Service) ListTags(ctx context.Context, userID string) ([]*Tag, error) {
	return service.repo.ListTags(ctx, userID)
}

func (service *Service) GetOrCreate(ctx context.Context, userID, rawName string) (*Tag, error) {
	name := textnorm.Name(rawName)

	validator := &validate.Validator{}
	validator.Required(FieldName, name).MaxLen(FieldName, name, 100)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	resolved, created, err := service.repo.GetOrCreate(ctx, userID, name)
	if err != nil {
		return nil, err
	}

	if created {
		service.logger.Info("tag_created", slog.String("name", resolved.Name))
	}
	return resolved, nil
}

// ResolveNames maps a raw name list to tag IDs, creating missing tags.
// Blank entries are dropped and duplicates (after case folding) collapse
// to a single tag, so "go, Go , " yields one ID.
func (service *Service) ResolveNames(ctx context.Context, userID string, rawNames []string) ([]string, error) {
	seen := make(map[string]struct{}, len(rawNames))
	ids := make([]string, 0, len(rawNames))

	for _, raw := range rawNames {
		name := textnorm.Name(raw)
		if name == "" {
			continue
		}
		folded := textnorm.Fold(name)
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}

		resolved, err := service.GetOrCreate(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, resolved.ID)
	}

	return ids, nil
}
