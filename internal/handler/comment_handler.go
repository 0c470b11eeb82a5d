package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
)

// CommentHandler handles comment requests.
type CommentHandler struct {
	commentService *service.CommentService
	authorizer     *auth.Authorizer
	logger         zerolog.Logger
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *service.CommentService, authorizer *auth.Authorizer, logger zerolog.Logger) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		authorizer:     authorizer,
		logger:         logger.With().Str("handler", "comment").Logger(),
	}
}

// RegisterRoutes registers comment routes.
func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Get("/posts/{id}/comments", h.handleList)
	r.Post("/posts/{id}/comments", h.handleAdd)
	r.Put("/comments/{id}", h.handleEdit)
	r.Delete("/comments/{id}", h.handleDelete)
}

type commentRequest struct {
	Content  string `json:"content"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

func (h *CommentHandler) handleList(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	comments, err := h.commentService.ListComments(r.Context(), postID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermCommentsCreate); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	comment, err := h.commentService.AddComment(r.Context(), service.AddCommentInput{
		PostID:   postID,
		AuthorID: *p.UserID,
		ParentID: req.ParentID,
		Content:  req.Content,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) handleEdit(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if err := h.authorizer.RequireOwnership(r.Context(), rawID, auth.PermCommentsModerate, h.commentService.OwnerOf); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(rawID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	comment, err := h.commentService.EditComment(r.Context(), id, req.Content)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if err := h.authorizer.RequireOwnership(r.Context(), rawID, auth.PermCommentsModerate, h.commentService.OwnerOf); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(rawID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.commentService.DeleteComment(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
