package templates

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/pricepanel-backend/pkg/assets"
	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:tpl_%s?mode=memory&cache=shared", name)), &gorm.Config{
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

func testResolver(t *testing.T) *assets.Resolver {
	t.Helper()
	r, err := assets.NewResolver("https://cdn.test/media/")
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	return r
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }
