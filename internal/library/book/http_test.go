package book_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindfolio/mindfolio-server/internal/library/book"
	"github.com/mindfolio/mindfolio-server/internal/platform/ctxutil"
	"github.com/mindfolio/mindfolio-server/internal/platform/respond"
	"github.com/mindfolio/mindfolio-server/internal/platform/sec"
)

func newTestRouter(repo *fakeRepository) chi.Router {
	handler := book.NewHandler(newTestService(repo, &fakeBlobRemover{}), nil, nil, nil)
	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router
}

func getLibrary(router chi.Router, target string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, target, nil)
	ctx := ctxutil.WithAuthUser(request.Context(), &sec.AuthClaims{UserID: "user-1"})
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request.WithContext(ctx))
	return recorder
}

/*
TestHandler_ListLibrary_RatingFilter verifies the rating query
parameter at the HTTP boundary: a non-numeric value is a request error
with the validation envelope, a numeric one reaches the repository as
the rating floor, and an absent one leaves the floor unset.
*/
func TestHandler_ListLibrary_RatingFilter(t *testing.T) {
	// 1. A non-numeric rating is a 400, not a silently empty filter.
	repo := newFakeRepository()
	recorder := getLibrary(newTestRouter(repo), "/?rating=abc")

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	envelope := respond.ErrorEnvelope{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION_ERROR", envelope.Code)
	require.Len(t, envelope.Details, 1)
	assert.Equal(t, book.FieldRating, envelope.Details[0].Field)

	// 2. A numeric rating becomes the filter's floor.
	repo = newFakeRepository()
	recorder = getLibrary(newTestRouter(repo), "/?rating=3.5")

	require.Equal(t, http.StatusOK, recorder.Code)
	require.NotNil(t, repo.lastFilter.RatingFloor)
	assert.Equal(t, 3.5, *repo.lastFilter.RatingFloor)

	// 3. No rating parameter means no floor at all.
	repo = newFakeRepository()
	recorder = getLibrary(newTestRouter(repo), "/?status=READING")

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Nil(t, repo.lastFilter.RatingFloor)
	assert.Equal(t, "READING", repo.lastFilter.Status)
}
