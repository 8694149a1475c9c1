package http

import (
	"net/http"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/sacsdk"
)

// ValidateTokenHandler is the endpoint sibling modules call to trust a
// token without re-implementing permission resolution. The bearer token has
// already passed the session gate; this reports what it may do inside the
// requesting module.
type ValidateTokenHandler struct {
	Resolver *service.Resolver
	Users    *service.UserService
	Store    store.Store
}

type validateTokenRequest struct {
	ModuleID string `json:"module_id" validate:"required"`
}

func (h *ValidateTokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req validateTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.Store.Modules().GetModuleByID(ctx, req.ModuleID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	// No role in the module means no entry, even with a live session.
	hasAccess, err := h.Resolver.HasModuleAccess(ctx, userID, req.ModuleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if !hasAccess {
		httpx.ErrForbidden.WriteTo(w)
		return
	}

	user, err := h.Users.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	roles, err := h.Resolver.RolesInModule(ctx, userID, req.ModuleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	perms, err := h.Resolver.PermissionsInModule(ctx, userID, req.ModuleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	permissionNames := make([]string, 0, len(perms))
	for _, p := range perms {
		permissionNames = append(permissionNames, p.Name)
	}

	isAdmin, err := h.Resolver.IsAdministratorInModule(ctx, userID, req.ModuleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sacsdk.ValidateTokenResponse{
		Valid:           true,
		User:            toUserPayload(user, resolveSite(ctx, h.Store, user)),
		Roles:           toRolePayloads(roles),
		Permissions:     permissionNames,
		IsAdministrator: isAdmin,
	})
}

type VerifyPermissionHandler struct {
	Resolver *service.Resolver
	Store    store.Store
}

type verifyPermissionRequest struct {
	Permission string `json:"permission" validate:"required"`
	ModuleID   string `json:"module_id" validate:"required"`
}

func (h *VerifyPermissionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req verifyPermissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if _, err := h.Store.Modules().GetModuleByID(ctx, req.ModuleID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	has, err := h.Resolver.HasPermission(ctx, userID, req.Permission, req.ModuleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sacsdk.VerifyPermissionResponse{
		HasPermission: has,
	})
}
