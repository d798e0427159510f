package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/pricepanel-backend/pkg/config"
	"github.com/angelmondragon/pricepanel-backend/pkg/db"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/migrate"
)

type options struct {
	cmd      string
	dir      string
	name     string
	version  string
	embedded bool
}

// dbCommand runs against a live database.
type dbCommand func(ctx context.Context, sqlDB *sql.DB, dialect string, opts options) error

var dbCommands = map[string]dbCommand{
	"up":      gooseCommand,
	"down":    gooseCommand,
	"status":  gooseCommand,
	"version": toVersion,
}

func main() {
	var opts options
	flag.StringVar(&opts.cmd, "cmd", "up", "up|down|status|version|create|validate")
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "migrations directory on disk")
	flag.StringVar(&opts.name, "name", "", "migration name, for -cmd=create")
	flag.StringVar(&opts.version, "version", "", "target version YYYYMMDDHHMMSS, for -cmd=version")
	flag.BoolVar(&opts.embedded, "embedded", false, "apply the migrations compiled into this binary (up only)")
	flag.Parse()

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "migrate %s: %v\n", opts.cmd, err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	// create and validate only touch the directory; they need no config.
	switch opts.cmd {
	case "create":
		if opts.name == "" {
			return errors.New("-name is required")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return err
		}
		fmt.Println("created", path)
		return nil
	case "validate":
		if err := migrate.ValidateDir(opts.dir); err != nil {
			return err
		}
		fmt.Println("migrations valid:", opts.dir)
		return nil
	}

	command, ok := dbCommands[opts.cmd]
	if !ok {
		return fmt.Errorf("unknown command %q", opts.cmd)
	}
	if opts.embedded && opts.cmd != "up" {
		return errors.New("-embedded only supports -cmd=up")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logg := logger.New(logger.Options{
		ServiceName: "migrate",
		Env:         cfg.App.Env,
		Format:      cfg.App.LogFormat,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	dialect := migrate.DialectFor(cfg.DB)
	ctx = logg.WithFields(ctx, map[string]any{"cmd": opts.cmd, "dir": opts.dir, "dialect": dialect})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer dbClient.Close()

	sqlDB, err := dbClient.SQL()
	if err != nil {
		return err
	}

	if opts.embedded {
		applied, err := migrate.ApplyEmbedded(ctx, sqlDB, dialect)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "applied", applied), "migrate.completed")
		return nil
	}

	if err := command(ctx, sqlDB, dialect, opts); err != nil {
		return err
	}
	logg.Info(ctx, "migrate.completed")
	return nil
}

func gooseCommand(ctx context.Context, sqlDB *sql.DB, dialect string, opts options) error {
	return migrate.Run(ctx, sqlDB, dialect, opts.dir, opts.cmd)
}

func toVersion(ctx context.Context, sqlDB *sql.DB, dialect string, opts options) error {
	if opts.version == "" {
		return errors.New("-version is required")
	}
	return migrate.MigrateToVersion(ctx, sqlDB, dialect, opts.dir, opts.version)
}
