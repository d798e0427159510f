package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/pricepanel-backend/api/controllers"
	"github.com/angelmondragon/pricepanel-backend/api/middleware"
	"github.com/angelmondragon/pricepanel-backend/internal/advertisements"
	"github.com/angelmondragon/pricepanel-backend/internal/auth"
	"github.com/angelmondragon/pricepanel-backend/internal/devices"
	"github.com/angelmondragon/pricepanel-backend/internal/ingest"
	"github.com/angelmondragon/pricepanel-backend/internal/playlist"
	"github.com/angelmondragon/pricepanel-backend/internal/products"
	"github.com/angelmondragon/pricepanel-backend/internal/templates"
	"github.com/angelmondragon/pricepanel-backend/pkg/config"
	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/redis"
)

// redisStore covers what the admin middleware needs from redis.
type redisStore interface {
	redis.IdempotencyStore
	redis.RateLimiter
	redis.Pinger
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisClient redisStore,
	gatherer prometheus.Gatherer,
	authService auth.Service,
	productService products.Service,
	templateService templates.Service,
	advertisementService advertisements.Service,
	deviceService devices.Service,
	composer playlist.Composer,
	ingestService ingest.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.LoginRateLimitPolicy(cfg.AuthRateLimit)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    dbP,
			"redis": redisClient,
		}))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	// TV client surface: flat JSON, no credentials.
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/pairing/resolve", controllers.ResolvePairing(deviceService, logg))
		r.Get("/playlist/{deviceId}", controllers.DevicePlaylist(composer, logg))
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).Post("/login", controllers.AdminAuthLogin(authService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(logg, enums.AdminRoleAdmin))
		r.Use(middleware.Idempotency(redisClient, cfg.Ingest.MaxUploadBytes(), logg))

		r.Get("/me", controllers.AdminMe())
		r.Post("/imports", controllers.AdminImportCatalog(ingestService, cfg.Ingest.MaxUploadBytes(), logg))
		r.Get("/families", controllers.AdminListFamilies(productService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminListProducts(productService, logg))
			r.Post("/", controllers.AdminCreateProduct(productService, logg))
			r.Get("/{productId}", controllers.AdminGetProduct(productService, logg))
			r.Patch("/{productId}", controllers.AdminUpdateProduct(productService, logg))
			r.Delete("/{productId}", controllers.AdminDeleteProduct(productService, logg))
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", controllers.AdminListTemplates(templateService, logg))
			r.Post("/", controllers.AdminCreateTemplate(templateService, logg))
			r.Get("/{templateId}", controllers.AdminGetTemplate(templateService, logg))
			r.Patch("/{templateId}", controllers.AdminUpdateTemplate(templateService, logg))
			r.Put("/{templateId}/layout", controllers.AdminUpdateTemplate(templateService, logg))
			r.Delete("/{templateId}", controllers.AdminDeleteTemplate(templateService, logg))
			r.Get("/{templateId}/preview", controllers.AdminPreviewTemplate(templateService, logg))
		})

		r.Route("/advertisements", func(r chi.Router) {
			r.Get("/", controllers.AdminListAdvertisements(advertisementService, logg))
			r.Post("/", controllers.AdminCreateAdvertisement(advertisementService, logg))
			r.Get("/{advertisementId}", controllers.AdminGetAdvertisement(advertisementService, logg))
			r.Patch("/{advertisementId}", controllers.AdminUpdateAdvertisement(advertisementService, logg))
			r.Delete("/{advertisementId}", controllers.AdminDeleteAdvertisement(advertisementService, logg))
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/", controllers.AdminListDevices(deviceService, logg))
			r.Post("/", controllers.AdminCreateDevice(deviceService, logg))
			r.Get("/{deviceId}", controllers.AdminGetDevice(deviceService, logg))
			r.Patch("/{deviceId}", controllers.AdminUpdateDevice(deviceService, logg))
			r.Delete("/{deviceId}", controllers.AdminDeleteDevice(deviceService, logg))
		})
	})

	return r
}
