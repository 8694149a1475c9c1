package http

import (
	"net/http"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/sacsdk"
)

type LoginHandler struct {
	Sessions *service.SessionService
	Store    store.Store
}

type loginRequest struct {
	RUT        string `json:"rut" validate:"required"`
	Password   string `json:"password" validate:"required"`
	DeviceName string `json:"device_name" validate:"omitempty,max=100"`
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	session, user, err := h.Sessions.Login(r.Context(), req.RUT, req.Password, req.DeviceName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sacsdk.LoginResponse{
		Token:     session.Token,
		TokenType: session.TokenType,
		ExpiresAt: session.ExpiresAt,
		User:      toUserPayload(user, resolveSite(r.Context(), h.Store, user)),
	})
}

type LogoutHandler struct {
	Sessions *service.SessionService
}

// ServeHTTP revokes exactly the presented token; other devices stay
// logged in.
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := httpx.TokenFromContext(r.Context())

	if err := h.Sessions.Logout(r.Context(), token); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type RefreshHandler struct {
	Sessions *service.SessionService
	Store    store.Store
}

type refreshRequest struct {
	DeviceName string `json:"device_name" validate:"omitempty,max=100"`
}

// ServeHTTP rotates the presented token: the old one dies and a fresh one
// takes its place in a single transaction.
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := httpx.TokenFromContext(r.Context())

	var req refreshRequest
	if r.ContentLength > 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}

	session, user, err := h.Sessions.Refresh(r.Context(), token, req.DeviceName)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sacsdk.LoginResponse{
		Token:     session.Token,
		TokenType: session.TokenType,
		ExpiresAt: session.ExpiresAt,
		User:      toUserPayload(user, resolveSite(r.Context(), h.Store, user)),
	})
}

type UserInfoHandler struct {
	Users    *service.UserService
	Resolver *service.Resolver
	Store    store.Store
}

// ServeHTTP returns the caller's identity snapshot: profile, the active
// modules they can enter, and whether they are an administrator.
func (h *UserInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	user, err := h.Users.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	modules, err := h.Resolver.AccessibleModules(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	isAdmin, err := h.Resolver.IsAdministrator(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, sacsdk.UserInfoResponse{
		User:            toUserPayload(user, resolveSite(ctx, h.Store, user)),
		Modules:         toModulePayloads(modules),
		IsAdministrator: isAdmin,
	})
}
