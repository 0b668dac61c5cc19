package book_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfolio/mindfolio-server/internal/library/author"
	"github.com/mindfolio/mindfolio-server/internal/library/book"
	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/pkg/pointer"
)

// fakeRepository records calls and serves canned books, keyed by owner.
type fakeRepository struct {
	books        map[string]*book.Book
	lastUserID   string
	lastFilter   book.Filter
	lastTagIDs   []string
	deletedPaths []string
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{books: map[string]*book.Book{}}
}

func (f *fakeRepository) ListBooks(ctx context.Context, userID string, filter book.Filter, limit, offset int) ([]*book.Book, int, error) {
	f.lastUserID = userID
	f.lastFilter = filter
	var owned []*book.Book
	for _, b := range f.books {
		if b.UserID == userID {
			owned = append(owned, b)
		}
	}
	return owned, len(owned), nil
}

func (f *fakeRepository) GetBook(ctx context.Context, userID, id string) (*book.Book, error) {
	f.lastUserID = userID
	b, ok := f.books[id]
	if !ok || b.UserID != userID {
		return nil, apperr.NotFound("book")
	}
	return b, nil
}

func (f *fakeRepository) CreateBook(ctx context.Context, b *book.Book, tagIDs []string) error {
	f.lastTagIDs = tagIDs
	f.books[b.ID] = b
	return nil
}

func (f *fakeRepository) UpdateBook(ctx context.Context, b *book.Book, tagIDs []string) error {
	existing, ok := f.books[b.ID]
	if !ok || existing.UserID != b.UserID {
		return apperr.NotFound("book")
	}
	f.lastTagIDs = tagIDs
	f.books[b.ID] = b
	return nil
}

func (f *fakeRepository) DeleteBook(ctx context.Context, userID, id string) ([]string, error) {
	b, ok := f.books[id]
	if !ok || b.UserID != userID {
		return nil, apperr.NotFound("book")
	}
	delete(f.books, id)
	return []string{"books/u/b/file.pdf", "covers/u/cover.jpg"}, nil
}

func (f *fakeRepository) Facets(ctx context.Context, userID string) (*book.Facets, error) {
	f.lastUserID = userID
	return &book.Facets{}, nil
}

type fakeAuthorResolver struct {
	lastName string
}

func (f *fakeAuthorResolver) GetOrCreate(ctx context.Context, userID, rawName string) (*author.Author, error) {
	f.lastName = rawName
	return &author.Author{ID: "author-1", UserID: userID, Name: rawName}, nil
}

type fakeTagResolver struct {
	ids []string
}

func (f *fakeTagResolver) ResolveNames(ctx context.Context, userID string, rawNames []string) ([]string, error) {
	return f.ids, nil
}

type fakeBlobRemover struct {
	removed []string
}

func (f *fakeBlobRemover) Remove(storagePath string) error {
	f.removed = append(f.removed, storagePath)
	return nil
}

func newTestService(repo *fakeRepository, blobs *fakeBlobRemover) *book.Service {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	return book.NewService(repo, &fakeAuthorResolver{}, &fakeTagResolver{ids: []string{"tag-1"}}, blobs, logger)
}


/*
TestService_Create_Validation verifies the write-side field rules: title
and author are required, the rating must land on a half step inside
[0.5, 5.0], and blank status/format fall back to their defaults.
*/
func TestService_Create_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		input   book.WriteInput
		wantErr bool
	}{
		{
			name:    "missing title",
			input:   book.WriteInput{AuthorName: "Le Guin"},
			wantErr: true,
		},
		{
			name:    "missing author",
			input:   book.WriteInput{Title: "The Dispossessed"},
			wantErr: true,
		},
		{
			name:    "rating above range",
			input:   book.WriteInput{Title: "The Dispossessed", AuthorName: "Le Guin", OverallRating: pointer.To(5.5)},
			wantErr: true,
		},
		{
			name:    "rating below range",
			input:   book.WriteInput{Title: "The Dispossessed", AuthorName: "Le Guin", OverallRating: pointer.To(0.0)},
			wantErr: true,
		},
		{
			name:    "rating off the half step",
			input:   book.WriteInput{Title: "The Dispossessed", AuthorName: "Le Guin", OverallRating: pointer.To(3.7)},
			wantErr: true,
		},
		{
			name:    "unknown status",
			input:   book.WriteInput{Title: "The Dispossessed", AuthorName: "Le Guin", Status: "WISHLIST"},
			wantErr: true,
		},
		{
			name:  "valid with half-step rating",
			input: book.WriteInput{Title: "The Dispossessed", AuthorName: "Le Guin", OverallRating: pointer.To(4.5)},
		},
		{
			name:  "valid minimal",
			input: book.WriteInput{Title: "The Dispossessed", AuthorName: "Le Guin"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			service := newTestService(newFakeRepository(), &fakeBlobRemover{})
			created, err := service.Create(context.Background(), "user-1", &testCase.input)

			if testCase.wantErr {
				require.Error(t, err)
				appErr := apperr.As(err)
				require.NotNil(t, appErr)
				assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, book.StatusToRead, created.Status)
			assert.Equal(t, book.FormatPDF, created.PrimaryFormat)
		})
	}
}

/*
TestService_Create_ResolvesAuthorAndTags verifies that the free-text
author name and tag names flow through their registries and land on the
stored book.
*/
func TestService_Create_ResolvesAuthorAndTags(t *testing.T) {
	repo := newFakeRepository()
	resolver := &fakeAuthorResolver{}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	service := book.NewService(repo, resolver, &fakeTagResolver{ids: []string{"tag-1", "tag-2"}}, &fakeBlobRemover{}, logger)

	input := &book.WriteInput{
		Title:      "A Wizard of Earthsea",
		AuthorName: "Ursula K. Le Guin",
		TagNames:   []string{"fantasy", "classics"},
	}
	created, err := service.Create(context.Background(), "user-1", input)

	require.NoError(t, err)
	assert.Equal(t, "Ursula K. Le Guin", resolver.lastName)
	assert.Equal(t, "author-1", created.Author.ID)
	assert.Equal(t, []string{"tag-1", "tag-2"}, repo.lastTagIDs)
	assert.Equal(t, "user-1", created.UserID)
}

/*
TestService_OwnershipScope verifies that a book owned by another user is
indistinguishable from a missing book on read, update, and delete.
*/
func TestService_OwnershipScope(t *testing.T) {
	repo := newFakeRepository()
	repo.books["book-1"] = &book.Book{ID: "book-1", UserID: "owner", Title: "Theirs"}
	service := newTestService(repo, &fakeBlobRemover{})

	// 1. Read by a stranger
	_, err := service.Get(context.Background(), "stranger", "book-1")
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// 2. Update by a stranger
	_, err = service.Update(context.Background(), "stranger", "book-1", &book.WriteInput{
		Title: "Mine now", AuthorName: "Someone",
	})
	appErr = apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// 3. Delete by a stranger
	err = service.Delete(context.Background(), "stranger", "book-1")
	appErr = apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "NOT_FOUND", appErr.Code)

	// 4. The owner still sees the book
	owned, err := service.Get(context.Background(), "owner", "book-1")
	require.NoError(t, err)
	assert.Equal(t, "Theirs", owned.Title)
}

/*
TestService_Delete_CleansBlobs verifies that blob paths reported by the
repository are removed from disk after a successful delete.
*/
func TestService_Delete_CleansBlobs(t *testing.T) {
	repo := newFakeRepository()
	repo.books["book-1"] = &book.Book{ID: "book-1", UserID: "user-1"}
	blobs := &fakeBlobRemover{}
	service := newTestService(repo, blobs)

	require.NoError(t, service.Delete(context.Background(), "user-1", "book-1"))
	assert.ElementsMatch(t, []string{"books/u/b/file.pdf", "covers/u/cover.jpg"}, blobs.removed)
}
