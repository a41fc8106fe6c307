package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/rbac"
	"github.com/go-chi/chi/v5"
)

type PermissionHandler interface {
	ListGrants(w http.ResponseWriter, r *http.Request)
	Grant(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
}

type permissionHandlerImpl struct {
	policies rbac.PolicyManager
}

func NewPermissionHandler(policies rbac.PolicyManager) PermissionHandler {
	return &permissionHandlerImpl{policies: policies}
}

type roleGrantsResponse struct {
	Role        user.Role         `json:"role"`
	Permissions []user.Permission `json:"permissions"`
}

// ListGrants implements PermissionHandler.
func (h *permissionHandlerImpl) ListGrants(w http.ResponseWriter, r *http.Request) {
	grants := h.policies.Grants()

	result := make([]roleGrantsResponse, 0, len(user.Roles))
	for _, role := range user.Roles {
		result = append(result, roleGrantsResponse{Role: role, Permissions: grants[role]})
	}
	response.Success(w, result)
}

// Grant implements PermissionHandler.
func (h *permissionHandlerImpl) Grant(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "granted", h.policies.Grant)
}

// Revoke implements PermissionHandler.
func (h *permissionHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	h.change(w, r, "revoked", h.policies.Revoke)
}

func (h *permissionHandlerImpl) change(w http.ResponseWriter, r *http.Request, verb string, apply func(user.Role, user.Permission) error) {
	id, ok := identity(w, r)
	if !ok {
		return
	}

	role := user.Role(chi.URLParam(r, "role"))
	permission := user.Permission(chi.URLParam(r, "permission"))
	if err := apply(role, permission); err != nil {
		response.HandleError(w, err)
		return
	}

	slog.InfoContext(r.Context(), "Permission "+verb, "role", role, "permission", permission, "by", id.UserID)
	response.SuccessWithMessage(w, "Permission "+verb, roleGrantsResponse{
		Role:        role,
		Permissions: h.policies.Grants()[role],
	})
}
