/*
Package handler provides HTTP handler functions for the display identity profile.
*/
package handler

import (
	"net/http"

	"aurafeed/internal/pkg/auth/jwt"
	"aurafeed/internal/pkg/errs"
	"aurafeed/internal/pkg/logx"
	"aurafeed/internal/pkg/resp"
)

// HandleGetProfile returns the resolved display identity of the authenticated user.
// Resolution lazily persists a profile from signup metadata on first access.
func HandleGetProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		user, err := deps.Users.GetByID(r.Context(), payload.ID)
		if err != nil {
			logx.Error(err, "get_profile: user fetch failed", "user_id", payload.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if user == nil {
			logx.Warn("get_profile: user not found", "user_id", payload.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		ident := deps.Resolver.Resolve(r.Context(), authUserFrom(user))

		resp.RespondSuccess(w, r, map[string]any{
			"identity": ident,
		})
	}
}
