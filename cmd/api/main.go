package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/pricepanel-backend/api/routes"
	"github.com/angelmondragon/pricepanel-backend/internal/advertisements"
	"github.com/angelmondragon/pricepanel-backend/internal/auth"
	"github.com/angelmondragon/pricepanel-backend/internal/devices"
	"github.com/angelmondragon/pricepanel-backend/internal/ingest"
	"github.com/angelmondragon/pricepanel-backend/internal/playlist"
	"github.com/angelmondragon/pricepanel-backend/internal/products"
	"github.com/angelmondragon/pricepanel-backend/internal/templates"
	"github.com/angelmondragon/pricepanel-backend/pkg/assets"
	"github.com/angelmondragon/pricepanel-backend/pkg/config"
	"github.com/angelmondragon/pricepanel-backend/pkg/db"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/metrics"
	"github.com/angelmondragon/pricepanel-backend/pkg/migrate"
	"github.com/angelmondragon/pricepanel-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Env:         cfg.App.Env,
		Format:      cfg.App.LogFormat,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)

	defer func() {
		if err := multierr.Combine(redisClient.Close(), dbClient.Close()); err != nil {
			logg.Error(context.Background(), "error closing resources", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	panelMetrics := metrics.NewPanelMetrics(registry)

	resolver, err := assets.NewResolver(cfg.Assets.BaseURL)
	requireResource(ctx, logg, "asset resolver", err)

	conn := dbClient.DB()
	productRepo := products.NewRepository(conn)
	templateRepo := templates.NewRepository(conn)
	deviceRepo := devices.NewRepository(conn)

	productService, err := products.NewService(productRepo, templateRepo)
	requireResource(ctx, logg, "product service", err)

	templateService, err := templates.NewService(templateRepo, productRepo, resolver)
	requireResource(ctx, logg, "template service", err)

	advertisementService, err := advertisements.NewService(advertisements.NewRepository(conn), resolver)
	requireResource(ctx, logg, "advertisement service", err)

	deviceService, err := devices.NewService(deviceRepo, dbClient, logg, panelMetrics)
	requireResource(ctx, logg, "device service", err)

	composer, err := playlist.NewComposer(deviceRepo, productRepo, resolver, logg, panelMetrics)
	requireResource(ctx, logg, "playlist composer", err)

	ingestService, err := ingest.NewService(productService, logg, panelMetrics)
	requireResource(ctx, logg, "ingest service", err)

	authService, err := auth.NewService(auth.ServiceParams{
		Admin:     cfg.Admin,
		JWTConfig: cfg.JWT,
	})
	requireResource(ctx, logg, "auth service", err)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithField(ctx, "addr", addr)

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			authService,
			productService,
			templateService,
			advertisementService,
			deviceService,
			composer,
			ingestService,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
