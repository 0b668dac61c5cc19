package tag_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfolio/mindfolio-server/internal/library/tag"
)

// fakeRepository hands out deterministic IDs and records created names.
type fakeRepository struct {
	created []string
	nextID  int
}

func (f *fakeRepository) ListTags(ctx context.Context, userID string) ([]*tag.Tag, error) {
	return nil, nil
}

func (f *fakeRepository) GetOrCreate(ctx context.Context, userID, name string) (*tag.Tag, bool, error) {
	f.nextID++
	f.created = append(f.created, name)
	return &tag.Tag{ID: name, UserID: userID, Name: name}, true, nil
}

func newTestService(repo *fakeRepository) *tag.Service {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return tag.NewService(repo, logger)
}

/*
TestService_GetOrCreate_Normalization verifies that submitted names are
trimmed and inner whitespace collapses before the registry lookup, and
that a blank name is rejected.
*/
func TestService_GetOrCreate_Normalization(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestService(repo)

	resolved, err := service.GetOrCreate(context.Background(), "user-1", "  science   fiction  ")
	require.NoError(t, err)
	assert.Equal(t, "science fiction", resolved.Name)

	_, err = service.GetOrCreate(context.Background(), "user-1", "   ")
	require.Error(t, err)
}

/*
TestService_ResolveNames verifies the tag form input handling: blanks
drop out and case-folded duplicates collapse to a single tag.
*/
func TestService_ResolveNames(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestService(repo)

	ids, err := service.ResolveNames(context.Background(), "user-1", []string{
		"go", "Go ", "", "  ", "databases", "GO",
	})

	require.NoError(t, err)
	assert.Len(t, ids, 2)
	assert.Equal(t, []string{"go", "databases"}, repo.created)
}
