package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
)

// UserHandler handles profile and notification requests.
type UserHandler struct {
	userService *service.UserService
	authorizer  *auth.Authorizer
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService *service.UserService, authorizer *auth.Authorizer, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		authorizer:  authorizer,
		logger:      logger.With().Str("handler", "user").Logger(),
	}
}

// RegisterRoutes registers user routes.
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{id}", h.handleGet)
	r.Get("/users/username/{username}", h.handleGetByUsername)
	r.Get("/me", h.handleMe)
	r.Put("/me", h.handleUpdateProfile)
	r.Post("/users/{id}/deactivate", h.handleDeactivate)
	r.Post("/users/{id}/reactivate", h.handleReactivate)

	r.Get("/notifications", h.handleListNotifications)
	r.Post("/notifications/{id}/read", h.handleMarkRead)
}

func (h *UserHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleGetByUsername(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.GetUserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleMe(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var input service.UpdateProfileInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// handleDeactivate requires the users-manage permission, or the user may
// deactivate their own account.
func (h *UserHandler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if userID != id {
		if err := h.authorizer.RequirePermission(r.Context(), auth.PermUsersManage); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
	}

	if err := h.userService.DeactivateUser(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handleReactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.authorizer.RequirePermission(r.Context(), auth.PermUsersManage); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.userService.ReactivateUser(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	pageNumber, pageSize := pageParams(r)
	unreadOnly := r.URL.Query().Get("unread") == "true"

	rows, total, err := h.userService.ListNotifications(r.Context(), userID, unreadOnly, pageNumber, pageSize)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pagedResponse{Items: rows, Total: total, PageNumber: pageNumber, PageSize: pageSize})
}

func (h *UserHandler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.userService.MarkNotificationRead(r.Context(), userID, id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
