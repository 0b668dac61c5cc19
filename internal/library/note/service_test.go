package note_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfolio/mindfolio-server/internal/library/note"
	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	"github.com/mindfolio/mindfolio-server/pkg/pointer"
)

type fakeRepository struct {
	created *note.Note
}

func (f *fakeRepository) ListByBook(ctx context.Context, userID, bookID string) ([]*note.Note, error) {
	return nil, nil
}

func (f *fakeRepository) Create(ctx context.Context, n *note.Note) error {
	f.created = n
	return nil
}

func (f *fakeRepository) Update(ctx context.Context, n *note.Note) error { return nil }

func (f *fakeRepository) Delete(ctx context.Context, userID, id string) error { return nil }


/*
TestService_Create_Validation verifies the note form rules: body is
required, the type must come from the known set, and a page range may
not run backwards.
*/
func TestService_Create_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		input   note.WriteInput
		wantErr bool
	}{
		{
			name:    "missing body",
			input:   note.WriteInput{NoteType: note.TypeSummary},
			wantErr: true,
		},
		{
			name:    "unknown type",
			input:   note.WriteInput{Body: "text", NoteType: "DIARY"},
			wantErr: true,
		},
		{
			name:    "backwards page range",
			input:   note.WriteInput{Body: "text", PageStart: pointer.To(50), PageEnd: pointer.To(10)},
			wantErr: true,
		},
		{
			name:    "zero page",
			input:   note.WriteInput{Body: "text", PageStart: pointer.To(0)},
			wantErr: true,
		},
		{
			name:  "valid with range",
			input: note.WriteInput{Body: "text", PageStart: pointer.To(10), PageEnd: pointer.To(50)},
		},
		{
			name:  "valid single page",
			input: note.WriteInput{Body: "text", PageStart: pointer.To(10)},
		},
		{
			name:  "valid body only defaults to general",
			input: note.WriteInput{Body: "text"},
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			repo := &fakeRepository{}
			logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			service := note.NewService(repo, logger)

			created, err := service.Create(context.Background(), "user-1", "book-1", &testCase.input)

			if testCase.wantErr {
				require.Error(t, err)
				appErr := apperr.As(err)
				require.NotNil(t, appErr)
				assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, note.TypeGeneral, created.NoteType)
			assert.Equal(t, "user-1", repo.created.UserID)
			assert.Equal(t, "book-1", repo.created.BookID)
		})
	}
}
