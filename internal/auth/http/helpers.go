package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/minerasur/sac/internal/auth/domain"
	"github.com/minerasur/sac/internal/auth/service"
	"github.com/minerasur/sac/internal/auth/store"
	"github.com/minerasur/sac/pkg/httpx"
	"github.com/minerasur/sac/pkg/sacsdk"
	"github.com/minerasur/sac/pkg/slogx"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeBody decodes and validates a JSON request body. On failure it writes
// the validation_error response itself and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httpx.ValidationError("request body must be valid JSON").WriteTo(w)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		httpx.ValidationError(validationMessage(err)).WriteTo(w)
		return false
	}
	return true
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		switch first.Tag() {
		case "required":
			return "field '" + first.Field() + "' is required"
		case "email":
			return "field '" + first.Field() + "' must be a valid email address"
		case "min":
			return "field '" + first.Field() + "' is too short"
		case "max":
			return "field '" + first.Field() + "' is too long"
		default:
			return "field '" + first.Field() + "' is invalid"
		}
	}
	return "invalid request"
}

// writeServiceError maps service and store sentinels onto the stable API
// error taxonomy. Anything unmapped is a server error and gets logged; the
// response never leaks storage internals.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.ErrInvalidCredentials.WriteTo(w)
	case errors.Is(err, service.ErrAccountDisabled):
		httpx.ErrAccountDisabled.WriteTo(w)
	case errors.Is(err, service.ErrTokenExpired), errors.Is(err, service.ErrTokenNotFound):
		httpx.ErrSessionExpired.WriteTo(w)
	case errors.Is(err, service.ErrAdminRoleProtected):
		httpx.Forbidden("the administrator role cannot be modified").WriteTo(w)
	case errors.Is(err, service.ErrSelfAction):
		httpx.Forbidden("you cannot perform this action on your own account").WriteTo(w)
	case errors.Is(err, service.ErrRoleAssigned):
		httpx.Forbidden("the role is still assigned to users").WriteTo(w)
	case errors.Is(err, service.ErrNoModuleAccess):
		httpx.ErrForbidden.WriteTo(w)
	case errors.Is(err, store.ErrNotFound):
		httpx.ErrNotFound.WriteTo(w)
	case errors.Is(err, store.ErrAlreadyExists):
		httpx.ErrConflict.WriteTo(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "err", err, "path", r.URL.Path)
		httpx.ErrServer.WriteTo(w)
	}
}

func toUserPayload(u domain.User, site *domain.Site) sacsdk.User {
	payload := sacsdk.User{
		ID:        u.ID,
		RUT:       u.RUT,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Active:    u.Active,
	}
	if site != nil {
		s := toSitePayload(*site)
		payload.Site = &s
	}
	return payload
}

func toSitePayload(s domain.Site) sacsdk.Site {
	return sacsdk.Site{
		ID:       s.ID,
		Location: s.Location,
		Detail:   s.Detail,
		Color:    s.Color,
		Active:   s.Active,
	}
}

func toModulePayload(m domain.Module) sacsdk.Module {
	return sacsdk.Module{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		URL:         m.URL,
		Icon:        m.Icon,
		Active:      m.Active,
	}
}

func toModulePayloads(modules []domain.Module) []sacsdk.Module {
	out := make([]sacsdk.Module, 0, len(modules))
	for _, m := range modules {
		out = append(out, toModulePayload(m))
	}
	return out
}

func toRolePayload(r domain.Role) sacsdk.Role {
	return sacsdk.Role{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Active:      r.Active,
	}
}

func toRolePayloads(roles []domain.Role) []sacsdk.Role {
	out := make([]sacsdk.Role, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRolePayload(role))
	}
	return out
}

func toPermissionPayload(p domain.Permission) sacsdk.Permission {
	return sacsdk.Permission{
		ID:          p.ID,
		ModuleID:    p.ModuleID,
		Name:        p.Name,
		Description: p.Description,
	}
}

func toPermissionPayloads(perms []domain.Permission) []sacsdk.Permission {
	out := make([]sacsdk.Permission, 0, len(perms))
	for _, p := range perms {
		out = append(out, toPermissionPayload(p))
	}
	return out
}

// resolveSite loads the user's site when one is set; a dangling reference
// degrades to no site rather than failing the request.
func resolveSite(ctx context.Context, st store.Store, u domain.User) *domain.Site {
	if u.SiteID == nil {
		return nil
	}
	site, err := st.Sites().GetSiteByID(ctx, *u.SiteID)
	if err != nil {
		return nil
	}
	return &site
}
