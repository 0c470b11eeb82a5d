package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
)

// PostHandler handles post CRUD and publication requests.
type PostHandler struct {
	postService *service.PostService
	authorizer  *auth.Authorizer
	logger      zerolog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *service.PostService, authorizer *auth.Authorizer, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		authorizer:  authorizer,
		logger:      logger.With().Str("handler", "post").Logger(),
	}
}

// RegisterRoutes registers post routes.
func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Get("/posts", h.handleList)
	r.Post("/posts", h.handleCreate)
	r.Get("/posts/{id}", h.handleGet)
	r.Put("/posts/{id}", h.handleUpdate)
	r.Delete("/posts/{id}", h.handleDelete)
	r.Post("/posts/{id}/publish", h.handlePublish)
	r.Post("/posts/{id}/unpublish", h.handleUnpublish)
	r.Get("/posts/slug/{slug}", h.handleGetBySlug)
}

type postRequest struct {
	Title       string  `json:"title"`
	Slug        string  `json:"slug"`
	Summary     string  `json:"summary"`
	Content     string  `json:"content"`
	CategoryIDs []int64 `json:"category_ids"`
	TagIDs      []int64 `json:"tag_ids"`
	Publish     bool    `json:"publish"`
}

func (h *PostHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermPostsCreate); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	post, err := h.postService.CreatePost(r.Context(), service.CreatePostInput{
		Title:       req.Title,
		Slug:        req.Slug,
		Summary:     req.Summary,
		Content:     req.Content,
		AuthorID:    *p.UserID,
		CategoryIDs: req.CategoryIDs,
		TagIDs:      req.TagIDs,
		Publish:     req.Publish,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) handleList(w http.ResponseWriter, r *http.Request) {
	pageNumber, pageSize := pageParams(r)
	authorID, _ := strconv.ParseInt(r.URL.Query().Get("author"), 10, 64)

	input := service.ListPostsInput{
		PublishedOnly: true,
		AuthorID:      authorID,
		PageNumber:    pageNumber,
		PageSize:      pageSize,
	}

	// Drafts are visible only to their author or a post editor.
	if r.URL.Query().Get("drafts") == "true" {
		if err := h.authorizer.RequirePermission(r.Context(), auth.PermPostsEdit); err != nil {
			p := auth.PrincipalFromContext(r.Context())
			if !p.IsAuthenticated {
				writeError(w, r, h.logger, err)
				return
			}
			input.AuthorID = *p.UserID
		}
		input.PublishedOnly = false
	}

	out, err := h.postService.ListPosts(r.Context(), input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{
		Items:      out.Posts,
		Total:      out.Total,
		PageNumber: pageNumber,
		PageSize:   pageSize,
	})
}

func (h *PostHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	post, err := h.postService.GetPost(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) handleGetBySlug(w http.ResponseWriter, r *http.Request) {
	post, err := h.postService.GetPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if err := h.authorizer.RequireOwnership(r.Context(), rawID, auth.PermPostsEdit, h.postService.OwnerOf); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(rawID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req postRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	post, err := h.postService.UpdatePost(r.Context(), id, service.UpdatePostInput{
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		CategoryIDs: req.CategoryIDs,
		TagIDs:      req.TagIDs,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	rawID := chi.URLParam(r, "id")
	if err := h.authorizer.RequireOwnership(r.Context(), rawID, auth.PermPostsDelete, h.postService.OwnerOf); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(rawID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	var actorID int64
	if p.UserID != nil {
		actorID = *p.UserID
	}
	if err := h.postService.DeletePost(r.Context(), id, actorID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PostHandler) handlePublish(w http.ResponseWriter, r *http.Request) {
	h.togglePublication(w, r, h.postService.PublishPost)
}

func (h *PostHandler) handleUnpublish(w http.ResponseWriter, r *http.Request) {
	h.togglePublication(w, r, h.postService.UnpublishPost)
}

func (h *PostHandler) togglePublication(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id int64) (*domain.Post, error)) {
	rawID := chi.URLParam(r, "id")
	if err := h.authorizer.RequireOwnership(r.Context(), rawID, auth.PermPostsPublish, h.postService.OwnerOf); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(rawID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	post, err := op(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}
