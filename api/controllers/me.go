package controllers

import (
	"net/http"

	"github.com/angelmondragon/pricepanel-backend/api/middleware"
	"github.com/angelmondragon/pricepanel-backend/api/responses"
)

// AdminMe echoes the authenticated operator so the admin UI can check its session.
func AdminMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{
			"actor": middleware.ActorFromContext(r.Context()),
			"role":  string(middleware.RoleFromContext(r.Context())),
		})
	}
}
