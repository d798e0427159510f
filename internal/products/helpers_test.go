package products

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	return conn
}

type stubTemplates struct {
	known map[uuid.UUID]bool
	err   error
}

func (s stubTemplates) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.known[id], nil
}

func newTestService(t *testing.T, conn *gorm.DB, templates ...uuid.UUID) Service {
	t.Helper()
	known := map[uuid.UUID]bool{}
	for _, id := range templates {
		known[id] = true
	}
	svc, err := NewService(NewRepository(conn), stubTemplates{known: known})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}
