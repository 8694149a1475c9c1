package http

import (
	"net/http"

	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/httpx"
)

type ProfileHandler struct {
	Users *service.UserService
	Store store.Store
}

func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	user, err := h.Users.GetUser(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserPayload(user, resolveSite(ctx, h.Store, user)))
}

type updateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
}

func (h *ProfileHandler) HandlePut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	var req updateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.Users.UpdateProfile(ctx, userID, req.FirstName, req.LastName, req.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, toUserPayload(user, resolveSite(ctx, h.Store, user)))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=128"`
}

// HandlePassword changes the caller's password and revokes every session
// except the one making this request.
func (h *ProfileHandler) HandlePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)
	token := httpx.TokenFromContext(ctx)

	var req changePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Users.ChangePassword(ctx, userID, req.CurrentPassword, req.NewPassword, token); err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ProfileHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := httpx.UserIDFromContext(ctx)

	stats, err := h.Users.Stats(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, stats)
}
