package controllers

import (
	"net/http"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	"github.com/angelmondragon/pricepanel-backend/api/validators"
	"github.com/angelmondragon/pricepanel-backend/internal/auth"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

// AdminAuthLogin trades the configured admin credentials for a bearer token.
func AdminAuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")

		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var creds auth.LoginRequest
		if err := validators.DecodeJSONBody(r, &creds); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		session, err := svc.Login(r.Context(), creds)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithActor(r.Context(), session.Email)
			logg.Info(logg.WithField(ctx, "actor_role", string(session.Role)), "admin.login.succeeded")
		}
		responses.WriteSuccess(w, session)
	}
}
