package http

import (
	"net/http"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/sacsdk"
)

// AdminModulesHandler manages the registered module catalog.
type AdminModulesHandler struct {
	Catalog *service.CatalogService
}

func (h *AdminModulesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	modules, err := h.Catalog.ListModules(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.Module{
		"modules": toModulePayloads(modules),
	})
}

type moduleRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
	URL         string `json:"url" validate:"omitempty,url,max=255"`
	Icon        string `json:"icon" validate:"omitempty,max=100"`
}

func (h *AdminModulesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	module, err := h.Catalog.CreateModule(r.Context(), service.ModuleInput{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		Icon:        req.Icon,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toModulePayload(module))
}

// HandleGet returns one module with the permissions it owns and the users
// holding any role in it.
func (h *AdminModulesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moduleID := r.PathValue("id")

	module, err := h.Catalog.GetModule(ctx, moduleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	perms, err := h.Catalog.ModulePermissions(ctx, moduleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	users, err := h.Catalog.ModuleUsers(ctx, moduleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	userPayloads := make([]sacsdk.User, 0, len(users))
	for _, u := range users {
		userPayloads = append(userPayloads, toUserPayload(u, nil))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"module":      toModulePayload(module),
		"permissions": toPermissionPayloads(perms),
		"users":       userPayloads,
	})
}

func (h *AdminModulesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req moduleRequest
	if !decodeBody(w, r, &req) {
		return
	}

	module, err := h.Catalog.UpdateModule(r.Context(), r.PathValue("id"), service.ModuleInput{
		Name:        req.Name,
		Description: req.Description,
		URL:         req.URL,
		Icon:        req.Icon,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toModulePayload(module))
}

func (h *AdminModulesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteModule(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleToggleStatus hides or restores the module in the picker. Grants are
// untouched either way.
func (h *AdminModulesHandler) HandleToggleStatus(w http.ResponseWriter, r *http.Request) {
	module, err := h.Catalog.ToggleModuleStatus(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toModulePayload(module))
}

// AdminPermissionsHandler manages the permission catalog. A permission's
// owning module is fixed at creation.
type AdminPermissionsHandler struct {
	Catalog *service.CatalogService
}

func (h *AdminPermissionsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	perms, err := h.Catalog.ListPermissions(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.Permission{
		"permissions": toPermissionPayloads(perms),
	})
}

type createPermissionRequest struct {
	ModuleID    string `json:"module_id" validate:"required"`
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (h *AdminPermissionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createPermissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	perm, err := h.Catalog.CreatePermission(r.Context(), req.ModuleID, req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toPermissionPayload(perm))
}

func (h *AdminPermissionsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	perm, err := h.Catalog.GetPermission(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPermissionPayload(perm))
}

type updatePermissionRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"omitempty,max=255"`
}

func (h *AdminPermissionsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req updatePermissionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	perm, err := h.Catalog.UpdatePermission(r.Context(), r.PathValue("id"), req.Name, req.Description)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toPermissionPayload(perm))
}

func (h *AdminPermissionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeletePermission(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminSitesHandler manages the site catalog. Sites carry no authorization
// weight, they only label users.
type AdminSitesHandler struct {
	Catalog *service.CatalogService
}

type siteRequest struct {
	Location string `json:"location" validate:"required,max=100"`
	Detail   string `json:"detail" validate:"omitempty,max=255"`
	Color    string `json:"color" validate:"omitempty,hexcolor"`
}

func (h *AdminSitesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	site, err := h.Catalog.CreateSite(r.Context(), service.SiteInput{
		Location: req.Location,
		Detail:   req.Detail,
		Color:    req.Color,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, toSitePayload(site))
}

func (h *AdminSitesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req siteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	site, err := h.Catalog.UpdateSite(r.Context(), r.PathValue("id"), service.SiteInput{
		Location: req.Location,
		Detail:   req.Detail,
		Color:    req.Color,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSitePayload(site))
}

func (h *AdminSitesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Catalog.DeleteSite(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DashboardHandler serves the admin landing page counters.
type DashboardHandler struct {
	Catalog *service.CatalogService
}

func (h *DashboardHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Catalog.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, stats)
}
