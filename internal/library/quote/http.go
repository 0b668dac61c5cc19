package quote

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindfolio/mindfolio-server/internal/library/tag"
	requestutil "github.com/mindfolio/mindfolio-server/internal/platform/request"
	"github.com/mindfolio/mindfolio-server/internal/platform/respond"
	"github.com/mindfolio/mindfolio-server/pkg/pagination"
)

// TagLister supplies the tag dropdown for the full quotes view.
type TagLister interface {
	ListTags(ctx context.Context, userID string) ([]*tag.Tag, error)
}

type Handler struct {
	service *Service
	tags    TagLister
}

func NewHandler(service *Service, tags TagLister) *Handler {
	return &Handler{service: service, tags: tags}
}

// QuotesView is the full quotes page payload: the page of quotes plus
// the tag dropdown. Fragment requests get only the paginated list.
type QuotesView struct {
	Quotes []*Quote        `json:"quotes"`
	Meta   pagination.Meta `json:"meta"`
	Tags   []*tag.Tag      `json:"tags"`
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/quotes/", handler.listQuotes)
	router.Post("/book/{id}/quote/create/", handler.createQuote)
	router.Post("/quote/{id}/edit/", handler.updateQuote)
	router.Post("/quote/{id}/delete/", handler.deleteQuote)
}

func (handler *Handler) listQuotes(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	values := request.URL.Query()
	filter := Filter{
		BookID: values.Get("book"),
		TagID:  values.Get("tag"),
		Query:  values.Get("q"),
		Sort:   ParseSortKey(values.Get("sort")),
	}

	page := pagination.FromRequest(request)
	quotes, total, err := handler.service.List(request.Context(), userID, filter, page.Limit, page.Offset())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	meta := pagination.NewMeta(page.Page, page.Limit, total)

	if requestutil.WantsFragment(request) {
		respond.Paginated(writer, quotes, meta)
		return
	}

	tags, err := handler.tags.ListTags(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, QuotesView{Quotes: quotes, Meta: meta, Tags: tags})
}

func (handler *Handler) createQuote(writer http.ResponseWriter, request *http.Request) {
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

	created, err := handler.service.Create(request.Context(), userID, requestutil.Param(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, created)
}

func (handler *Handler) updateQuote(writer http.ResponseWriter, request *http.Request) {
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

func (handler *Handler) deleteQuote(writer http.ResponseWriter, request *http.Request) {
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
