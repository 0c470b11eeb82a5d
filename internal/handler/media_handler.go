package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
)

// maxUploadBytes bounds in-memory multipart parsing.
const maxUploadBytes = 32 << 20 // 32 MiB

// MediaHandler handles media upload and deletion requests.
type MediaHandler struct {
	mediaService *service.MediaService
	authorizer   *auth.Authorizer
	logger       zerolog.Logger
}

// NewMediaHandler creates a new MediaHandler.
func NewMediaHandler(mediaService *service.MediaService, authorizer *auth.Authorizer, logger zerolog.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		authorizer:   authorizer,
		logger:       logger.With().Str("handler", "media").Logger(),
	}
}

// RegisterRoutes registers media routes.
func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.Post("/media", h.handleUpload)
	r.Get("/media", h.handleList)
	r.Get("/media/{id}", h.handleGet)
	r.Delete("/media/{id}", h.handleDelete)
}

func (h *MediaHandler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermMediaUpload); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, h.logger, fmt.Errorf("%w: missing file field", domain.ErrValidation))
		return
	}
	defer file.Close()

	p := auth.PrincipalFromContext(r.Context())
	item, err := h.mediaService.Upload(r.Context(), *p.UserID, service.UploadInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Content:     file,
		Size:        header.Size,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *MediaHandler) handleList(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	pageNumber, pageSize := pageParams(r)
	rows, total, err := h.mediaService.ListMedia(r.Context(), userID, pageNumber, pageSize)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: rows, Total: total, PageNumber: pageNumber, PageSize: pageSize})
}

func (h *MediaHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	item, err := h.mediaService.GetMedia(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *MediaHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if err := h.authorizer.RequireOwnership(r.Context(), rawID, auth.PermMediaDelete, h.mediaService.OwnerOf); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(rawID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.mediaService.DeleteMedia(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
