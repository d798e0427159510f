package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

// devicePathPrefix marks the TV client surface, which expects flat error bodies.
const devicePathPrefix = "/api/v1/"

// Recoverer turns handler panics into 500 responses in the shape the caller
// expects: flat JSON for devices, the error envelope for everything else.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err := pkgerrors.Wrap(pkgerrors.CodeInternal, fmt.Errorf("panic: %v", rec), "panic")
				ctx := r.Context()
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{
						"panic":  fmt.Sprint(rec),
						"method": r.Method,
						"path":   r.URL.Path,
					})
					logg.Error(ctx, "panic.recovered", err)
				}

				if strings.HasPrefix(r.URL.Path, devicePathPrefix) {
					responses.WriteDeviceError(ctx, nil, w, err)
					return
				}
				responses.WriteError(ctx, nil, w, err)
			}()
			next.ServeHTTP(w, r)
		})
	}
}
