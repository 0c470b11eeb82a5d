package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/domain"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
)

// SocialHandler handles likes, follows, and saved posts. These operations
// are self-scoped: any authenticated user acts on their own behalf.
type SocialHandler struct {
	likeService  *service.LikeService
	followSvc    *service.FollowService
	savedPostSvc *service.SavedPostService
	logger       zerolog.Logger
}

// NewSocialHandler creates a new SocialHandler.
func NewSocialHandler(
	likeService *service.LikeService,
	followSvc *service.FollowService,
	savedPostSvc *service.SavedPostService,
	logger zerolog.Logger,
) *SocialHandler {
	return &SocialHandler{
		likeService:  likeService,
		followSvc:    followSvc,
		savedPostSvc: savedPostSvc,
		logger:       logger.With().Str("handler", "social").Logger(),
	}
}

// RegisterRoutes registers social routes.
func (h *SocialHandler) RegisterRoutes(r chi.Router) {
	r.Post("/likes/{entityType}/{id}", h.handleLike)
	r.Delete("/likes/{entityType}/{id}", h.handleUnlike)
	r.Get("/likes/{entityType}/{id}/count", h.handleLikeCount)

	r.Post("/users/{id}/follow", h.handleFollow)
	r.Delete("/users/{id}/follow", h.handleUnfollow)
	r.Get("/users/{id}/followers", h.handleFollowers)
	r.Get("/users/{id}/following", h.handleFollowing)

	r.Post("/posts/{id}/save", h.handleSave)
	r.Delete("/posts/{id}/save", h.handleUnsave)
	r.Get("/saved-posts", h.handleListSaved)
}

// requireUser returns the authenticated user id or ErrUnauthenticated.
func requireUser(r *http.Request) (int64, error) {
	p := auth.PrincipalFromContext(r.Context())
	if !p.IsAuthenticated {
		return 0, domain.ErrUnauthenticated
	}
	return *p.UserID, nil
}

// =============================================================================
// Likes
// =============================================================================

func (h *SocialHandler) handleLike(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	entityID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	like, err := h.likeService.Like(r.Context(), userID, chi.URLParam(r, "entityType"), entityID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, like)
}

func (h *SocialHandler) handleUnlike(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	entityID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.likeService.Unlike(r.Context(), userID, chi.URLParam(r, "entityType"), entityID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SocialHandler) handleLikeCount(w http.ResponseWriter, r *http.Request) {
	entityID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	count, err := h.likeService.Count(r.Context(), chi.URLParam(r, "entityType"), entityID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"count": count})
}

// =============================================================================
// Follows
// =============================================================================

func (h *SocialHandler) handleFollow(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	targetID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	follower, err := h.followSvc.Follow(r.Context(), userID, targetID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, follower)
}

func (h *SocialHandler) handleUnfollow(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	targetID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.followSvc.Unfollow(r.Context(), userID, targetID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SocialHandler) handleFollowers(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	pageNumber, pageSize := pageParams(r)
	rows, total, err := h.followSvc.Followers(r.Context(), userID, pageNumber, pageSize)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: rows, Total: total, PageNumber: pageNumber, PageSize: pageSize})
}

func (h *SocialHandler) handleFollowing(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	pageNumber, pageSize := pageParams(r)
	rows, total, err := h.followSvc.Following(r.Context(), userID, pageNumber, pageSize)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: rows, Total: total, PageNumber: pageNumber, PageSize: pageSize})
}

// =============================================================================
// Saved posts
// =============================================================================

func (h *SocialHandler) handleSave(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	saved, err := h.savedPostSvc.Save(r.Context(), userID, postID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (h *SocialHandler) handleUnsave(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	postID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.savedPostSvc.Unsave(r.Context(), userID, postID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SocialHandler) handleListSaved(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	pageNumber, pageSize := pageParams(r)
	rows, total, err := h.savedPostSvc.List(r.Context(), userID, pageNumber, pageSize)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: rows, Total: total, PageNumber: pageNumber, PageSize: pageSize})
}
