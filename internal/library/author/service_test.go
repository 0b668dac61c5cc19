package author_test

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfolio/mindfolio-server/internal/library/author"
	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
)

// fakeRepository matches names case-insensitively per user, like the
// database unique index does.
type fakeRepository struct {
	authors []*author.Author
}

func (f *fakeRepository) ListAuthors(ctx context.Context, userID string) ([]*author.Author, error) {
	var owned []*author.Author
	for _, a := range f.authors {
		if a.UserID == userID {
			owned = append(owned, a)
		}
	}
	return owned, nil
}

func (f *fakeRepository) GetOrCreate(ctx context.Context, userID, name string) (*author.Author, bool, error) {
	for _, a := range f.authors {
		if a.UserID == userID && strings.EqualFold(a.Name, name) {
			return a, false, nil
		}
	}
	created := &author.Author{ID: "author-" + name, UserID: userID, Name: name}
	f.authors = append(f.authors, created)
	return created, true, nil
}

func newTestService(repo *fakeRepository) *author.Service {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return author.NewService(repo, logger)
}

/*
TestService_GetOrCreate_Normalization verifies that names are trimmed
and whitespace-collapsed before lookup, so re-submissions of the same
author under sloppier spelling converge on one row.
*/
func TestService_GetOrCreate_Normalization(t *testing.T) {
	repo := &fakeRepository{}
	service := newTestService(repo)
	ctx := context.Background()

	// 1. First submission creates the row under the normalized name.
	first, err := service.GetOrCreate(ctx, "user-1", "  Ursula   K.  Le Guin ")
	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", first.Name)

	// 2. A differently cased re-submission lands on the same row.
	second, err := service.GetOrCreate(ctx, "user-1", "ursula k. le guin")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, repo.authors, 1)

	// 3. Another user's identical name gets its own row.
	other, err := service.GetOrCreate(ctx, "user-2", "Ursula K. Le Guin")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestService_GetOrCreate_RejectsBlankName(t *testing.T) {
	service := newTestService(&fakeRepository{})

	_, err := service.GetOrCreate(context.Background(), "user-1", "   ")

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
