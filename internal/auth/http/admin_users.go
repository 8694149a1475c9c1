package http

import (
	"net/http"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/sacsdk"
)

// AdminUsersHandler is the account administration surface. Every route is
// behind the admin gate.
type AdminUsersHandler struct {
	Users       *service.UserService
	Assignments *service.AssignmentService
	Store       store.Store
}

func (h *AdminUsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.Users.ListUsers(ctx)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	payloads := make([]sacsdk.User, 0, len(users))
	for _, u := range users {
		payloads = append(payloads, toUserPayload(u, resolveSite(ctx, h.Store, u)))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.User{"users": payloads})
}

type createUserRequest struct {
	RUT       string  `json:"rut" validate:"required,max=20"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=8,max=128"`
	SiteID    *string `json:"site_id" validate:"omitempty"`
}

func (h *AdminUsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.CreateUser(r.Context(), service.CreateUserInput{
		RUT:       req.RUT,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		SiteID:    req.SiteID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toUserPayload(user, resolveSite(r.Context(), h.Store, user)))
}

// HandleGet returns one user together with their role grants grouped per
// module.
func (h *AdminUsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Users.GetUser(ctx, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	grants, err := h.Assignments.GrantsOf(ctx, user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	grantPayloads := make([]sacsdk.ModuleRoles, 0, len(grants))
	for _, g := range grants {
		grantPayloads = append(grantPayloads, sacsdk.ModuleRoles{
			Module: toModulePayload(g.Module),
			Roles:  toRolePayloads(g.Roles),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"user":   toUserPayload(user, resolveSite(ctx, h.Store, user)),
		"grants": grantPayloads,
	})
}

type updateUserRequest struct {
	RUT       string  `json:"rut" validate:"required,max=20"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"required,max=100"`
	Email     string  `json:"email" validate:"required,email"`
	SiteID    *string `json:"site_id" validate:"omitempty"`
	Password  string  `json:"password" validate:"omitempty,min=8,max=128"`
}

func (h *AdminUsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	targetID := r.PathValue("id")

	var req updateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.UpdateUser(ctx, targetID, service.UpdateUserInput{
		RUT:       req.RUT,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		SiteID:    req.SiteID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	// An admin reset closes every session the target holds.
	if req.Password != "" {
		if err := h.Users.SetPassword(ctx, targetID, req.Password); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	httpx.WriteJSON(w, http.StatusOK, toUserPayload(user, resolveSite(ctx, h.Store, user)))
}

func (h *AdminUsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actorID := httpx.UserIDFromContext(r.Context())

	if err := h.Users.DeleteUser(r.Context(), actorID, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleStatus flips the target's active flag. Deactivation revokes
// every session the target holds; acting on yourself is forbidden.
func (h *AdminUsersHandler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actorID := httpx.UserIDFromContext(ctx)

	user, err := h.Users.ToggleStatus(ctx, actorID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserPayload(user, resolveSite(ctx, h.Store, user)))
}

type assignRolesRequest struct {
	ModuleID string   `json:"module_id" validate:"required"`
	RoleIDs  []string `json:"role_ids" validate:"required"`
}

// HandleAssignRoles atomically replaces the user's role set inside one
// module.
func (h *AdminUsersHandler) HandleAssignRoles(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")

	var req assignRolesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Assignments.SetUserRolesInModule(r.Context(), targetID, req.ModuleID, req.RoleIDs); err != nil {
		writeServiceError(w, r, err)
		return
	}

	roles, err := h.Assignments.RolesOf(r.Context(), targetID, req.ModuleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.Role{"roles": toRolePayloads(roles)})
}

type removeRoleRequest struct {
	RoleID   string `json:"role_id" validate:"required"`
	ModuleID string `json:"module_id" validate:"required"`
}

// HandleRemoveRole deletes a single grant; removing an absent grant
// succeeds.
func (h *AdminUsersHandler) HandleRemoveRole(w http.ResponseWriter, r *http.Request) {
	targetID := r.PathValue("id")

	var req removeRoleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Assignments.RemoveAssignment(r.Context(), targetID, req.RoleID, req.ModuleID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleRoles lists the target's grants grouped per module.
func (h *AdminUsersHandler) HandleRoles(w http.ResponseWriter, r *http.Request) {
	if _, err := h.Users.GetUser(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}

	grants, err := h.Assignments.GrantsOf(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	payloads := make([]sacsdk.ModuleRoles, 0, len(grants))
	for _, g := range grants {
		payloads = append(payloads, sacsdk.ModuleRoles{
			Module: toModulePayload(g.Module),
			Roles:  toRolePayloads(g.Roles),
		})
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.ModuleRoles{"grants": payloads})
}
