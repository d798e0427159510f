package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	pkgAuth "github.com/angelmondragon/pricepanel-backend/pkg/auth"
	"github.com/angelmondragon/pricepanel-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

const bearerScheme = "bearer"

// Auth admits requests carrying a valid admin access token and stores the
// actor and role on the request context.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := authenticate(cfg, r)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := WithActor(r.Context(), claims.Subject, claims.Role)
			if logg != nil {
				ctx = logg.WithFields(logg.WithActor(ctx, claims.Subject), map[string]any{
					"actor_role": string(claims.Role),
				})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(cfg config.JWTConfig, r *http.Request) (*pkgAuth.AccessTokenClaims, error) {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}

	claims, err := pkgAuth.ParseAccessToken(cfg, token)
	switch {
	case errors.Is(err, pkgAuth.ErrTokenExpired):
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "token expired")
	case err != nil:
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	case claims.Subject == "":
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing subject")
	case !claims.Role.IsValid():
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown role")
	}
	return claims, nil
}

// bearerToken accepts "Bearer <token>" in any case, or a bare token.
func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if scheme, rest, _ := strings.Cut(header, " "); strings.EqualFold(scheme, bearerScheme) {
		return strings.TrimSpace(rest)
	}
	return header
}
