package http

import (
	"net/http"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/sacsdk"
)

// AdminRolesHandler is the role catalog surface, including the replace-all
// permission grant operation.
type AdminRolesHandler struct {
	Roles       *service.RoleService
	Assignments *service.AssignmentService
}

func (h *AdminRolesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	roles, err := h.Roles.ListRoles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.Role{"roles": toRolePayloads(roles)})
}

type roleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (h *AdminRolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	role, err := h.Roles.CreateRole(r.Context(), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toRolePayload(role))
}

// HandleGet returns one role with its full, unscoped permission set.
func (h *AdminRolesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	role, err := h.Roles.GetRole(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	perms, err := h.Assignments.PermissionsOfRole(r.Context(), role.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"role":        toRolePayload(role),
		"permissions": toPermissionPayloads(perms),
	})
}

func (h *AdminRolesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	role, err := h.Roles.UpdateRole(r.Context(), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRolePayload(role))
}

func (h *AdminRolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Roles.DeleteRole(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminRolesHandler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	role, err := h.Roles.ToggleStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toRolePayload(role))
}

type setRolePermissionsRequest struct {
	PermissionIDs []string `json:"permission_ids" validate:"required"`
}

// HandleSetPermissions atomically replaces the role's permission set.
func (h *AdminRolesHandler) HandleSetPermissions(w http.ResponseWriter, r *http.Request) {
	roleID := r.PathValue("id")

	var req setRolePermissionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Assignments.SetRolePermissions(r.Context(), roleID, req.PermissionIDs); err != nil {
		writeServiceError(w, r, err)
		return
	}

	perms, err := h.Assignments.PermissionsOfRole(r.Context(), roleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.Permission{
		"permissions": toPermissionPayloads(perms),
	})
}

// HandleUsers lists the users holding the role in any module.
func (h *AdminRolesHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Roles.UsersWithRole(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	payloads := make([]sacsdk.User, 0, len(users))
	for _, u := range users {
		payloads = append(payloads, toUserPayload(u, nil))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.User{"users": payloads})
}
