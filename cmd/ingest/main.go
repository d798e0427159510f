package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/pricepanel-backend/internal/ingest"
	"github.com/angelmondragon/pricepanel-backend/internal/products"
	"github.com/angelmondragon/pricepanel-backend/internal/templates"
	"github.com/angelmondragon/pricepanel-backend/pkg/config"
	"github.com/angelmondragon/pricepanel-backend/pkg/db"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "ingest"})

	_ = godotenv.Load()

	file := flag.String("file", "", "catalog spreadsheet (.xlsx or .csv)")
	format := flag.String("format", "", "override format detection: xlsx|csv")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "missing -file")
		os.Exit(2)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "ingest",
		Env:         cfg.App.Env,
		Format:      cfg.App.LogFormat,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "file", *file)

	fileFormat, err := resolveFormat(*file, *format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	conn := dbClient.DB()
	productService, err := products.NewService(products.NewRepository(conn), templates.NewRepository(conn))
	requireResource(ctx, logg, "product service", err)

	svc, err := ingest.NewService(productService, logg, nil)
	requireResource(ctx, logg, "ingest service", err)

	f, err := os.Open(*file)
	requireResource(ctx, logg, "catalog file", err)
	defer f.Close()

	result, err := svc.Ingest(ctx, f, fileFormat)
	if err != nil {
		logg.Error(ctx, "catalog ingestion failed", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logg.Error(ctx, "failed to print result", err)
		os.Exit(1)
	}
}

func resolveFormat(file, override string) (ingest.Format, error) {
	if override == "" {
		return ingest.FormatFromFilename(file)
	}
	return ingest.FormatFromFilename("catalog." + override)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
