package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
)

// TaxonomyHandler handles category and tag requests. Reads are public;
// writes require the manage permissions.
type TaxonomyHandler struct {
	categoryService *service.CategoryService
	tagService      *service.TagService
	authorizer      *auth.Authorizer
	logger          zerolog.Logger
}

// NewTaxonomyHandler creates a new TaxonomyHandler.
func NewTaxonomyHandler(
	categoryService *service.CategoryService,
	tagService *service.TagService,
	authorizer *auth.Authorizer,
	logger zerolog.Logger,
) *TaxonomyHandler {
	return &TaxonomyHandler{
		categoryService: categoryService,
		tagService:      tagService,
		authorizer:      authorizer,
		logger:          logger.With().Str("handler", "taxonomy").Logger(),
	}
}

// RegisterRoutes registers category and tag routes.
func (h *TaxonomyHandler) RegisterRoutes(r chi.Router) {
	r.Get("/categories", h.handleListCategories)
	r.Post("/categories", h.handleCreateCategory)
	r.Get("/categories/{slug}", h.handleGetCategory)
	r.Put("/categories/{id}", h.handleUpdateCategory)
	r.Delete("/categories/{id}", h.handleDeleteCategory)

	r.Get("/tags", h.handleListTags)
	r.Post("/tags", h.handleCreateTag)
	r.Get("/tags/{slug}", h.handleGetTag)
	r.Delete("/tags/{id}", h.handleDeleteTag)
}

// =============================================================================
// Categories
// =============================================================================

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *TaxonomyHandler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryService.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, categories)
}

func (h *TaxonomyHandler) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	category, err := h.categoryService.GetCategory(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *TaxonomyHandler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermCategoriesManage); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	category, err := h.categoryService.CreateCategory(r.Context(), service.CreateCategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, category)
}

func (h *TaxonomyHandler) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermCategoriesManage); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	category, err := h.categoryService.UpdateCategory(r.Context(), id, req.Name, req.Description)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, category)
}

func (h *TaxonomyHandler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermCategoriesManage); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.categoryService.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Tags
// =============================================================================

type tagRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *TaxonomyHandler) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.ListTags(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (h *TaxonomyHandler) handleGetTag(w http.ResponseWriter, r *http.Request) {
	tag, err := h.tagService.GetTag(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, tag)
}

func (h *TaxonomyHandler) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermTagsManage); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req tagRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	tag, err := h.tagService.CreateTag(r.Context(), req.Name, req.Slug)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, tag)
}

func (h *TaxonomyHandler) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermTagsManage); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.tagService.DeleteTag(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
