package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// nonPortable lists postgres-only constructs. Every migration also runs on
// sqlite3 when the SQLite flag is on.
var nonPortable = []string{
	"CREATE EXTENSION",
	"GEN_RANDOM_UUID(",
	"UUID_GENERATE_V4(",
	" SERIAL",
	"BIGSERIAL",
	"CREATE TYPE",
}

// ValidateDir checks migration file names, goose annotations and dialect
// portability.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		full := filepath.Join(dir, name)
		b, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("read file %q: %w", full, err)
		}
		if err := validateMigration(name, string(b)); err != nil {
			return err
		}
	}
	return nil
}

func validateMigration(name, txt string) error {
	up := strings.Index(txt, "-- +goose Up")
	down := strings.Index(txt, "-- +goose Down")
	switch {
	case up < 0:
		return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
	case down < 0:
		return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
	case down < up:
		return fmt.Errorf("migration %q has Down before Up", name)
	}

	upper := strings.ToUpper(txt)
	for _, construct := range nonPortable {
		if strings.Contains(upper, construct) {
			return fmt.Errorf("migration %q uses %q, which sqlite3 cannot run", name, strings.TrimSpace(construct))
		}
	}
	return nil
}
