package http

import (
	"net/http"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/sacsdk"
)

// ModulesHandler serves the authenticated module picker: the active modules
// the caller holds a role in, plus their effective permissions per module.
type ModulesHandler struct {
	Resolver *service.Resolver
	Catalog  *service.CatalogService
}

func (h *ModulesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	modules, err := h.Resolver.AccessibleModules(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.Module{
		"modules": toModulePayloads(modules),
	})
}

// HandlePermissions returns the caller's effective permissions inside one
// module: role-union filtered to the permissions that module owns.
func (h *ModulesHandler) HandlePermissions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)
	moduleID := r.PathValue("id")

	if _, err := h.Catalog.GetModule(ctx, moduleID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	perms, err := h.Resolver.PermissionsInModule(ctx, userID, moduleID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	names := make([]string, 0, len(perms))
	for _, p := range perms {
		names = append(names, p.Name)
	}

	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"module_id":   moduleID,
		"permissions": names,
	})
}

// SitesHandler is the read-only site catalog available to any
// authenticated user.
type SitesHandler struct {
	Catalog *service.CatalogService
}

func (h *SitesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sites, err := h.Catalog.ListSites(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	payloads := make([]sacsdk.Site, 0, len(sites))
	for _, s := range sites {
		payloads = append(payloads, toSitePayload(s))
	}

	httpx.WriteJSON(w, http.StatusOK, map[string][]sacsdk.Site{"sites": payloads})
}

func (h *SitesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	site, err := h.Catalog.GetSite(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toSitePayload(site))
}
