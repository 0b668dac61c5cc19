package bookfile

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mindfolio/mindfolio-server/internal/platform/apperr"
	requestutil "github.com/mindfolio/mindfolio-server/internal/platform/request"
	"github.com/mindfolio/mindfolio-server/internal/platform/respond"
)

// maxUploadBytes caps multipart memory buffering; larger parts spill to
// temp files.
const maxUploadBytes = 32 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (handler *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/book/{id}/file/upload/", handler.uploadFile)
	router.Post("/book/{id}/cover/", handler.uploadCover)
	router.Get("/file/{id}/view/", handler.viewFile)
	router.Post("/file/{id}/delete/", handler.deleteFile)
}

func (handler *Handler) uploadFile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("invalid multipart form", apperr.FieldError{
			Field:   FieldFile,
			Message: "malformed upload",
		}))
		return
	}

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("missing file", apperr.FieldError{
			Field:   FieldFile,
			Message: "a file part is required",
		}))
		return
	}
	defer file.Close()

	uploaded, err := handler.service.Upload(
		request.Context(),
		userID,
		requestutil.Param(request, "id"),
		request.FormValue(FieldFileType),
		header.Filename,
		file,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, uploaded)
}

func (handler *Handler) uploadCover(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := request.ParseMultipartForm(maxUploadBytes); err != nil {
		respond.Error(writer, request, apperr.ValidationError("invalid multipart form", apperr.FieldError{
			Field:   FieldFile,
			Message: "malformed upload",
		}))
		return
	}

	file, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, apperr.ValidationError("missing file", apperr.FieldError{
			Field:   FieldFile,
			Message: "a file part is required",
		}))
		return
	}
	defer file.Close()

	coverPath, err := handler.service.UploadCover(
		request.Context(),
		userID,
		requestutil.Param(request, "id"),
		header.Filename,
		file,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{"cover_path": coverPath})
}

// viewFile streams the blob. PDFs render inline in the browser tab;
// everything else downloads under its original filename. ServeContent
// handles range requests, which PDF viewers lean on.
func (handler *Handler) viewFile(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	view, err := handler.service.View(request.Context(), userID, requestutil.Param(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	defer view.Blob.Close()

	writer.Header().Set("Content-Type", view.ContentType)
	if view.Inline {
		writer.Header().Set("Content-Disposition", "inline")
	} else {
		writer.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", view.Meta.OriginalFilename))
	}

	http.ServeContent(writer, request, view.Meta.OriginalFilename, view.Meta.UploadedAt, view.Blob)
}

func (handler *Handler) deleteFile(writer http.ResponseWriter, request *http.Request) {
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
