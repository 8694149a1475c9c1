package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	gate  *Gate

	SessionService    *service.SessionService
	Resolver          *service.Resolver
	UserService       *service.UserService
	RoleService       *service.RoleService
	AssignmentService *service.AssignmentService
	CatalogService    *service.CatalogService
}

func NewRouter(buildVersion string, st store.Store, logger *slog.Logger) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.gate = &Gate{
		Sessions: r.SessionService,
		Resolver: r.Resolver,
	}

	r.registerAuth()
	r.registerVerify()
	r.registerProfile()
	r.registerCatalog()
	r.registerAdminUsers()
	r.registerAdminRoles()
	r.registerAdminCatalog()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// secured wraps a handler with the session gate and a per-user rate limit.
func (r *Router) secured(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		r.gate.RequireSession,
		httpx.RateLimitByUser(limit),
	)
}

// admin wraps a handler with the session gate, the unscoped administrator
// check and a per-user rate limit.
func (r *Router) admin(h http.Handler, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		r.gate.RequireSession,
		r.gate.RequireAdmin,
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	// POST /login - strict rate limit by IP (credential guessing surface)
	loginHandler := &LoginHandler{Sessions: r.SessionService, Store: r.store}
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(loginHandler,
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	logoutHandler := &LogoutHandler{Sessions: r.SessionService}
	r.Mux.Handle("POST /v1/auth/logout", r.secured(logoutHandler, httpx.LenientLimit))

	refreshHandler := &RefreshHandler{Sessions: r.SessionService, Store: r.store}
	r.Mux.Handle("POST /v1/auth/refresh", r.secured(refreshHandler, httpx.ModerateLimit))

	userInfoHandler := &UserInfoHandler{
		Users:    r.UserService,
		Resolver: r.Resolver,
		Store:    r.store,
	}
	r.Mux.Handle("GET /v1/auth/user", r.secured(userInfoHandler, httpx.LenientLimit))
}

func (r *Router) registerVerify() {
	// The endpoints sibling modules poll on every request, so the limits
	// stay lenient.
	validateHandler := &ValidateTokenHandler{
		Resolver: r.Resolver,
		Users:    r.UserService,
		Store:    r.store,
	}
	r.Mux.Handle("POST /v1/auth/validate-token", r.secured(validateHandler, httpx.LenientLimit))

	verifyHandler := &VerifyPermissionHandler{Resolver: r.Resolver, Store: r.store}
	r.Mux.Handle("POST /v1/auth/verify-permission", r.secured(verifyHandler, httpx.LenientLimit))
}

func (r *Router) registerProfile() {
	h := &ProfileHandler{Users: r.UserService, Store: r.store}

	r.Mux.Handle("GET /v1/profile", r.secured(http.HandlerFunc(h.HandleGet), httpx.LenientLimit))
	r.Mux.Handle("PUT /v1/profile", r.secured(http.HandlerFunc(h.HandlePut), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/profile/stats", r.secured(http.HandlerFunc(h.HandleStats), httpx.LenientLimit))

	// Password changes are strict: the current password is verified here, so
	// the endpoint doubles as a guessing surface.
	r.Mux.Handle("PUT /v1/profile/password", r.secured(http.HandlerFunc(h.HandlePassword), httpx.StrictLimit))
}

func (r *Router) registerCatalog() {
	modulesHandler := &ModulesHandler{Resolver: r.Resolver, Catalog: r.CatalogService}
	r.Mux.Handle("GET /v1/modules", r.secured(http.HandlerFunc(modulesHandler.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/modules/{id}/permissions", r.secured(http.HandlerFunc(modulesHandler.HandlePermissions), httpx.LenientLimit))

	sitesHandler := &SitesHandler{Catalog: r.CatalogService}
	r.Mux.Handle("GET /v1/sites", r.secured(http.HandlerFunc(sitesHandler.HandleList), httpx.LenientLimit))
	r.Mux.Handle("GET /v1/sites/{id}", r.secured(http.HandlerFunc(sitesHandler.HandleGet), httpx.LenientLimit))
}

func (r *Router) registerAdminUsers() {
	h := &AdminUsersHandler{
		Users:       r.UserService,
		Assignments: r.AssignmentService,
		Store:       r.store,
	}

	r.Mux.Handle("GET /v1/admin/users", r.admin(http.HandlerFunc(h.HandleList), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/users", r.admin(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admin/users/{id}", r.admin(http.HandlerFunc(h.HandleGet), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admin/users/{id}", r.admin(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admin/users/{id}", r.admin(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/users/{id}/toggle-status", r.admin(http.HandlerFunc(h.HandleToggleStatus), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admin/users/{id}/roles", r.admin(http.HandlerFunc(h.HandleRoles), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/users/{id}/assign-roles", r.admin(http.HandlerFunc(h.HandleAssignRoles), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/users/{id}/remove-role", r.admin(http.HandlerFunc(h.HandleRemoveRole), httpx.ModerateLimit))
}

func (r *Router) registerAdminRoles() {
	h := &AdminRolesHandler{
		Roles:       r.RoleService,
		Assignments: r.AssignmentService,
	}

	r.Mux.Handle("GET /v1/admin/roles", r.admin(http.HandlerFunc(h.HandleList), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/roles", r.admin(http.HandlerFunc(h.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admin/roles/{id}", r.admin(http.HandlerFunc(h.HandleGet), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admin/roles/{id}", r.admin(http.HandlerFunc(h.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admin/roles/{id}", r.admin(http.HandlerFunc(h.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/roles/{id}/toggle-status", r.admin(http.HandlerFunc(h.HandleToggleStatus), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admin/roles/{id}/permissions", r.admin(http.HandlerFunc(h.HandleSetPermissions), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admin/roles/{id}/users", r.admin(http.HandlerFunc(h.HandleUsers), httpx.ModerateLimit))
}

func (r *Router) registerAdminCatalog() {
	modules := &AdminModulesHandler{Catalog: r.CatalogService}
	r.Mux.Handle("GET /v1/admin/modules", r.admin(http.HandlerFunc(modules.HandleList), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/modules", r.admin(http.HandlerFunc(modules.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admin/modules/{id}", r.admin(http.HandlerFunc(modules.HandleGet), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admin/modules/{id}", r.admin(http.HandlerFunc(modules.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admin/modules/{id}", r.admin(http.HandlerFunc(modules.HandleDelete), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/modules/{id}/toggle-status", r.admin(http.HandlerFunc(modules.HandleToggleStatus), httpx.ModerateLimit))

	permissions := &AdminPermissionsHandler{Catalog: r.CatalogService}
	r.Mux.Handle("GET /v1/admin/permissions", r.admin(http.HandlerFunc(permissions.HandleList), httpx.ModerateLimit))
	r.Mux.Handle("POST /v1/admin/permissions", r.admin(http.HandlerFunc(permissions.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("GET /v1/admin/permissions/{id}", r.admin(http.HandlerFunc(permissions.HandleGet), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admin/permissions/{id}", r.admin(http.HandlerFunc(permissions.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admin/permissions/{id}", r.admin(http.HandlerFunc(permissions.HandleDelete), httpx.ModerateLimit))

	sites := &AdminSitesHandler{Catalog: r.CatalogService}
	r.Mux.Handle("POST /v1/admin/sites", r.admin(http.HandlerFunc(sites.HandleCreate), httpx.ModerateLimit))
	r.Mux.Handle("PUT /v1/admin/sites/{id}", r.admin(http.HandlerFunc(sites.HandleUpdate), httpx.ModerateLimit))
	r.Mux.Handle("DELETE /v1/admin/sites/{id}", r.admin(http.HandlerFunc(sites.HandleDelete), httpx.ModerateLimit))

	dashboard := &DashboardHandler{Catalog: r.CatalogService}
	r.Mux.Handle("GET /v1/admin/dashboard/stats", r.admin(dashboard, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
