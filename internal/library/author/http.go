package author

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/mindfolio/mindfolio-server/internal/platform/request"
	"github.com/mindfolio/mindfolio-server/internal/platform/respond"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	// Datalist suggestions for the book form's author field.
	router.Get("/authors/", handler.listAuthors)
}

func (handler *Handler) listAuthors(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	authors, err := handler.service.ListAuthors(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, authors)
}
