package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

var localOrigins = []string{
	"http://localhost:3000", // admin ui
	"http://localhost:5173", // tv client dev server
}

// CORS applies two policies. The device API is read by TV browsers served from
// arbitrary kiosk origins, so any origin may call it without credentials. The
// admin API and everything else only answer the configured origins.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = localOrigins
	}

	device := cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         3600,
	})
	admin := cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", idempotencyHeader, requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader, "Retry-After", "Idempotent-Replayed"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return func(next http.Handler) http.Handler {
		deviceNext, adminNext := device(next), admin(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, devicePathPrefix) {
				deviceNext.ServeHTTP(w, r)
				return
			}
			adminNext.ServeHTTP(w, r)
		})
	}
}
