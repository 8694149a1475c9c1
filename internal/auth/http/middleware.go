package http

import (
	"net/http"
	"strings"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/slogx"
)

// Gate is the fixed authenticate-then-authorize pipeline every protected
// route goes through. Authentication always runs first; the admin check,
// when required, runs before any finer-grained permission check.
type Gate struct {
	Sessions *service.SessionService
	Resolver *service.Resolver
}

// extractBearer pulls the opaque token out of the Authorization header.
func extractBearer(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireSession authenticates the request. A missing or malformed header is
// unauthenticated; a known-but-dead token is session_expired, kept distinct
// so frontends can say "your session ended" instead of "please log in".
func (g *Gate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearer(r)
		if token == "" {
			httpx.ErrUnauthenticated.WriteTo(w)
			return
		}

		user, _, err := g.Sessions.Validate(r.Context(), token)
		if err != nil {
			switch err {
			case service.ErrTokenExpired, service.ErrTokenNotFound, service.ErrAccountDisabled:
				httpx.ErrSessionExpired.WriteTo(w)
			default:
				// Store trouble is a server fault, never a forced logout.
				slogx.FromContext(r.Context()).Error("session validation failed", "err", err)
				httpx.ErrServer.WriteTo(w)
			}
			return
		}

		ctx := httpx.ContextWithUserID(r.Context(), user.ID)
		ctx = httpx.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin authorizes system administrators. The check is unscoped:
// holding the administrator role in any module opens every admin route.
// Must run inside RequireSession.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := httpx.UserIDFromContext(r.Context())
		if userID == "" {
			httpx.ErrUnauthenticated.WriteTo(w)
			return
		}

		isAdmin, err := g.Resolver.IsAdministrator(r.Context(), userID)
		if err != nil {
			slogx.FromContext(r.Context()).Error("admin check failed", "err", err)
			httpx.ErrServer.WriteTo(w)
			return
		}
		if !isAdmin {
			httpx.ErrForbidden.WriteTo(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePermission authorizes a module-scoped permission. moduleID is
// resolved per request so routes can derive it from the path.
// Must run inside RequireSession.
func (g *Gate) RequirePermission(permission string, moduleID func(*http.Request) string) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := httpx.UserIDFromContext(r.Context())
			if userID == "" {
				httpx.ErrUnauthenticated.WriteTo(w)
				return
			}

			has, err := g.Resolver.HasPermission(r.Context(), userID, permission, moduleID(r))
			if err != nil {
				slogx.FromContext(r.Context()).Error("permission check failed", "err", err)
				httpx.ErrServer.WriteTo(w)
				return
			}
			if !has {
				httpx.ErrForbidden.WriteTo(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
