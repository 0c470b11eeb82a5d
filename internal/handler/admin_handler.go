package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/auth"
	"github.com/NguyenNhutQuoc/blogging-api-sub001/internal/service"
)

// AdminHandler handles role, permission, and grant administration. Every
// route requires the roles-manage permission.
type AdminHandler struct {
	permissionService *service.PermissionService
	authorizer        *auth.Authorizer
	logger            zerolog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(permissionService *service.PermissionService, authorizer *auth.Authorizer, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		permissionService: permissionService,
		authorizer:        authorizer,
		logger:            logger.With().Str("handler", "admin").Logger(),
	}
}

// RegisterRoutes registers administration routes.
func (h *AdminHandler) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireRolesManage)

		r.Get("/permissions", h.handleListPermissions)
		r.Post("/permissions", h.handleCreatePermission)
		r.Delete("/permissions/{id}", h.handleDeletePermission)

		r.Get("/roles", h.handleListRoles)
		r.Post("/roles", h.handleCreateRole)
		r.Get("/roles/{id}", h.handleGetRole)
		r.Delete("/roles/{id}", h.handleDeleteRole)
		r.Post("/roles/{id}/permissions/{permissionID}", h.handleGrantToRole)
		r.Delete("/roles/{id}/permissions/{permissionID}", h.handleRevokeFromRole)

		r.Post("/users/{id}/roles/{roleID}", h.handleAssignRole)
		r.Delete("/users/{id}/roles/{roleID}", h.handleUnassignRole)
		r.Put("/users/{id}/permissions/{permissionID}", h.handleSetUserGrant)
		r.Delete("/users/{id}/permissions/{permissionID}", h.handleRemoveUserGrant)

		r.Get("/users/{id}/resolve", h.handleResolve)
	})
}

func (h *AdminHandler) requireRolesManage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.authorizer.RequirePermission(r.Context(), auth.PermRolesManage); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// Permissions
// =============================================================================

type permissionRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Module      string `json:"module"`
	Description string `json:"description"`
}

func (h *AdminHandler) handleListPermissions(w http.ResponseWriter, r *http.Request) {
	permissions, err := h.permissionService.ListPermissions(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, permissions)
}

func (h *AdminHandler) handleCreatePermission(w http.ResponseWriter, r *http.Request) {
	var req permissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	permission, err := h.permissionService.CreatePermission(r.Context(), service.CreatePermissionInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Module:      req.Module,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, permission)
}

func (h *AdminHandler) handleDeletePermission(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.permissionService.DeletePermission(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Roles
// =============================================================================

type roleRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
}

func (h *AdminHandler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles, err := h.permissionService.ListRoles(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, roles)
}

func (h *AdminHandler) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	role, err := h.permissionService.CreateRole(r.Context(), service.CreateRoleInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, role)
}

func (h *AdminHandler) handleGetRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	role, err := h.permissionService.GetRole(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, role)
}

func (h *AdminHandler) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.permissionService.DeleteRole(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Grants
// =============================================================================

// pathPair parses the two numeric route parameters used by grant routes.
func pathPair(r *http.Request, second string) (int64, int64, error) {
	first, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		return 0, 0, err
	}
	other, err := pathID(chi.URLParam(r, second))
	if err != nil {
		return 0, 0, err
	}
	return first, other, nil
}

func (h *AdminHandler) handleGrantToRole(w http.ResponseWriter, r *http.Request) {
	roleID, permissionID, err := pathPair(r, "permissionID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.permissionService.GrantPermissionToRole(r.Context(), roleID, permissionID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleRevokeFromRole(w http.ResponseWriter, r *http.Request) {
	roleID, permissionID, err := pathPair(r, "permissionID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.permissionService.RevokePermissionFromRole(r.Context(), roleID, permissionID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	userID, roleID, err := pathPair(r, "roleID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.permissionService.AssignRole(r.Context(), userID, roleID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleUnassignRole(w http.ResponseWriter, r *http.Request) {
	userID, roleID, err := pathPair(r, "roleID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.permissionService.UnassignRole(r.Context(), userID, roleID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type userGrantRequest struct {
	IsGranted bool `json:"is_granted"`
}

func (h *AdminHandler) handleSetUserGrant(w http.ResponseWriter, r *http.Request) {
	userID, permissionID, err := pathPair(r, "permissionID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	var req userGrantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.permissionService.SetUserGrant(r.Context(), userID, permissionID, req.IsGranted); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleRemoveUserGrant(w http.ResponseWriter, r *http.Request) {
	userID, permissionID, err := pathPair(r, "permissionID")
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	if err := h.permissionService.RemoveUserGrant(r.Context(), userID, permissionID); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) handleResolve(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	resolved, err := h.permissionService.Resolve(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resolved)
}
