package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/config"
)

func TestPanelSchemaMigrationContainsTables(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_panel_schema.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no panel schema migration found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS product_families",
		"CREATE TABLE IF NOT EXISTS video_templates",
		"CREATE TABLE IF NOT EXISTS products",
		"CREATE TABLE IF NOT EXISTS advertisements",
		"CREATE TABLE IF NOT EXISTS devices",
		"CREATE TABLE IF NOT EXISTS device_families",
		"CREATE TABLE IF NOT EXISTS device_advertisements",
		"CONSTRAINT products_code_key UNIQUE (code)",
		"CONSTRAINT devices_pairing_code_key UNIQUE (pairing_code)",
		"price NUMERIC(10,2) NOT NULL CHECK (price >= 0)",
		"CHECK (title_top BETWEEN 0 AND 100)",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	require.NoError(t, ValidateDir("migrations"))
}

func TestValidateDirRejectsBadNames(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_init.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.Error(t, ValidateDir(dir))
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Device Notes!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_device_notes.sql"), path)
	require.NoError(t, ValidateDir(dir))
}

func TestCreateSQLMigrationRefusesExistingVersion(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	path, err := createSQLMigration(dir, "device notes", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260301120000_device_notes.sql"), path)

	_, err = createSQLMigration(dir, "device notes", now)
	require.ErrorContains(t, err, "already exists")

	_, err = createSQLMigration(dir, "!!!", now)
	require.Error(t, err)
}

func TestValidateDirRejectsNonPortableSQL(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "extension", body: "-- +goose Up\nCREATE EXTENSION pgcrypto;\n-- +goose Down\n", want: "CREATE EXTENSION"},
		{name: "uuid default", body: "-- +goose Up\nCREATE TABLE x (id UUID DEFAULT gen_random_uuid());\n-- +goose Down\n", want: "GEN_RANDOM_UUID("},
		{name: "down first", body: "-- +goose Down\n-- +goose Up\n", want: "Down before Up"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "20260301120000_bad.sql"), []byte(tt.body), 0o644))
			err := ValidateDir(dir)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDialectFor(t *testing.T) {
	require.Equal(t, DialectSQLite, DialectFor(config.DBConfig{Driver: "sqlite"}))
	require.Equal(t, DialectPostgres, DialectFor(config.DBConfig{Driver: "postgres"}))
}

func TestRunUpOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)

	require.NoError(t, Run(context.Background(), sqlDB, DialectSQLite, "migrations", "up"))

	for _, table := range []string{"products", "devices", "device_families"} {
		require.True(t, tableExists(t, sqlDB, table), "expected table %s", table)
	}
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&count)
	require.NoError(t, err)
	return count == 1
}

func TestApplyEmbeddedIsIdempotent(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)

	applied, err := ApplyEmbedded(context.Background(), sqlDB, DialectSQLite)
	require.NoError(t, err)
	require.NotEmpty(t, applied)
	require.True(t, tableExists(t, sqlDB, "advertisements"))

	again, err := ApplyEmbedded(context.Background(), sqlDB, DialectSQLite)
	require.NoError(t, err)
	require.Empty(t, again, "nothing left to apply")
}

func TestEmbeddedMigrationsMatchDisk(t *testing.T) {
	onDisk, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	require.NoError(t, err)

	compiled, err := fs.Glob(Migrations(), "*.sql")
	require.NoError(t, err)
	require.Len(t, compiled, len(onDisk))
}
