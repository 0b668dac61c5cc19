package book

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mindfolio/mindfolio-server/internal/library/bookfile"
	"github.com/mindfolio/mindfolio-server/internal/library/note"
	"github.com/mindfolio/mindfolio-server/internal/library/quote"
	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	requestutil "github.com/mindfolio/mindfolio-server/internal/platform/request"
	"github.com/mindfolio/mindfolio-server/internal/platform/respond"
	"github.com/mindfolio/mindfolio-server/pkg/pagination"
)

// The detail page shows the book's notes, quotes, and files in tabs;
// these narrow interfaces let the handler pull them without owning
// those services.
type (
	NoteLister interface {
		ListByBook(ctx context.Context, userID, bookID string) ([]*note.Note, error)
	}
	QuoteLister interface {
		ListByBook(ctx context.Context, userID, bookID string) ([]*quote.Quote, error)
	}
	FileLister interface {
		ListByBook(ctx context.Context, userID, bookID string) ([]*bookfile.BookFile, error)
	}
)

type Handler struct {
	service *Service
	notes   NoteLister
	quotes  QuoteLister
	files   FileLister
}

func NewHandler(service *Service, notes NoteLister, quotes QuoteLister, files FileLister) *Handler {
	return &Handler{
		service: service,
		notes:   notes,
		quotes:  quotes,
		files:   files,
	}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", handler.listLibrary)
	router.Post("/book/create/", handler.createBook)
	router.Get("/book/{id}/", handler.getBook)
	router.Post("/book/{id}/edit/", handler.updateBook)
	router.Post("/book/{id}/delete/", handler.deleteBook)
}

// LibraryView is the full list payload: the page of books plus the
// sidebar facets. Fragment requests get only the paginated list.
type LibraryView struct {
	Books  []*Book         `json:"books"`
	Meta   pagination.Meta `json:"meta"`
	Facets *Facets         `json:"facets"`
}

// Detail is the book page payload with its tab contents.
type Detail struct {
	Book   *Book                `json:"book"`
	Notes  []*note.Note         `json:"notes"`
	Quotes []*quote.Quote       `json:"quotes"`
	Files  []*bookfile.BookFile `json:"files"`
}

func parseFilter(request *http.Request) (Filter, error) {
	values := request.URL.Query()
	filter := Filter{
		Status: values.Get("status"),
		TagID:  values.Get("tag"),
		Query:  values.Get("q"),
		Sort:   ParseSortKey(values.Get("sort")),
	}

	if raw := values.Get("rating"); raw != "" {
		floor, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return filter, apperr.ValidationError("invalid filter", apperr.FieldError{
				Field:   FieldRating,
				Message: "must be a number",
			})
		}
		filter.RatingFloor = &floor
	}
	return filter, nil
}

func (handler *Handler) listLibrary(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	filter, err := parseFilter(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	page := pagination.FromRequest(request)
	books, total, err := handler.service.List(request.Context(), userID, filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	meta := pagination.NewMeta(page.Page, page.Limit, total)

	// Fragment refreshes replace only the list; the facets panel keeps
	// its previous render.
	if requestutil.WantsFragment(request) {
		respond.Paginated(writer, books, meta)
		return
	}

	facets, err := handler.service.Facets(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, LibraryView{Books: books, Meta: meta, Facets: facets})
}

func (handler *Handler) createBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := &WriteInput{}
	if err := requestutil.DecodeJSON(request, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	created, err := handler.service.Create(request.Context(), userID, input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) getBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	bookID := requestutil.Param(request, "id")

	b, err := handler.service.Get(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	notes, err := handler.notes.ListByBook(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	quotes, err := handler.quotes.ListByBook(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	files, err := handler.files.ListByBook(request.Context(), userID, bookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, Detail{Book: b, Notes: notes, Quotes: quotes, Files: files})
}

func (handler *Handler) updateBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := &WriteInput{}
	if err := requestutil.DecodeJSON(request, input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.service.Update(request.Context(), userID, requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

func (handler *Handler) deleteBook(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.Delete(request.Context(), userID, requestutil.Param(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
