package devices

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/pricepanel-backend/pkg/db"
	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/metrics"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:dev_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:                 gormlogger.Discard,
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))
	return conn
}

func newTestService(t *testing.T, conn *gorm.DB, m *metrics.PanelMetrics) *service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
	svc, err := NewService(NewRepository(conn), db.NewFromConn(conn), logg, m)
	require.NoError(t, err)
	return svc.(*service)
}

func seedFamily(t *testing.T, conn *gorm.DB, name string) models.ProductFamily {
	t.Helper()
	f := models.ProductFamily{Name: name}
	require.NoError(t, conn.Create(&f).Error)
	return f
}

func seedAd(t *testing.T, conn *gorm.DB, desc string) models.Advertisement {
	t.Helper()
	ad := models.Advertisement{Description: desc, VideoPath: desc + ".mp4", DurationSeconds: 10, Active: true}
	require.NoError(t, conn.Create(&ad).Error)
	return ad
}

func TestNewServiceRequiresDeps(t *testing.T) {
	logg := logger.New(logger.Options{Output: &bytes.Buffer{}})
	_, err := NewService(nil, db.NewFromConn(nil), logg, nil)
	require.Error(t, err)
	_, err = NewService(&Repository{}, nil, logg, nil)
	require.Error(t, err)
	_, err = NewService(&Repository{}, db.NewFromConn(nil), nil, nil)
	require.Error(t, err)
}

func TestCreateDeviceGeneratesPairingCode(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)
	bebidas := seedFamily(t, conn, "BEBIDAS")
	ad := seedAd(t, conn, "institucional")

	created, err := svc.CreateDevice(ctx, CreateDeviceInput{
		Name:             "Corredor 3",
		FamilyIDs:        []uuid.UUID{bebidas.ID, bebidas.ID},
		AdvertisementIDs: []uuid.UUID{ad.ID},
	})
	require.NoError(t, err)
	assert.Len(t, created.PairingCode, PairingCodeLength)
	for _, r := range created.PairingCode {
		assert.True(t, strings.ContainsRune(PairingCodeAlphabet, r), "unexpected symbol %q", r)
	}
	assert.Equal(t, enums.OrientationHorizontal, created.Orientation)
	assert.Equal(t, enums.DisplayModeMixed, created.DisplayMode)
	require.Len(t, created.Families, 1)
	assert.Equal(t, "BEBIDAS", created.Families[0].Label)
	require.Len(t, created.Advertisements, 1)

	_, err = svc.CreateDevice(ctx, CreateDeviceInput{Name: "x", FamilyIDs: []uuid.UUID{uuid.New()}})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.CreateDevice(ctx, CreateDeviceInput{Name: "x", Orientation: "diagonal"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = svc.CreateDevice(ctx, CreateDeviceInput{Name: "  "})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestCreateDeviceRetriesOnCodeCollision(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)

	codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	svc.generate = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	first, err := svc.CreateDevice(ctx, CreateDeviceInput{Name: "Um"})
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", first.PairingCode)

	second, err := svc.CreateDevice(ctx, CreateDeviceInput{Name: "Dois"})
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", second.PairingCode)
	assert.Empty(t, codes)
}

func TestCreateDeviceKeepsDrawingUntilCodeIsFree(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)

	calls := 0
	svc.generate = func() (string, error) {
		calls++
		if calls <= 35 {
			return "AAAAAA", nil
		}
		return "BBBBBB", nil
	}

	_, err := svc.CreateDevice(ctx, CreateDeviceInput{Name: "Um"})
	require.NoError(t, err)

	second, err := svc.CreateDevice(ctx, CreateDeviceInput{Name: "Dois"})
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", second.PairingCode)
	assert.Equal(t, 36, calls)
}

func TestCreateDeviceStopsWhenContextEnds(t *testing.T) {
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)
	svc.generate = func() (string, error) { return "AAAAAA", nil }

	_, err := svc.CreateDevice(context.Background(), CreateDeviceInput{Name: "Um"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	svc.generate = func() (string, error) {
		calls++
		if calls == 5 {
			cancel()
		}
		return "AAAAAA", nil
	}
	_, err = svc.CreateDevice(ctx, CreateDeviceInput{Name: "Dois"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 5, calls)
}

// commitFails runs fn in a real transaction and then rolls it back.
type commitFails struct {
	conn *gorm.DB
}

func (c commitFails) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := fn(tx); err != nil {
			return err
		}
		return errors.New("boom")
	})
}

func TestCreateDeviceLeavesStoreUnchangedOnFailure(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)
	fam := seedFamily(t, conn, "HORTIFRUTI")
	ad := seedAd(t, conn, "ofertas")
	svc.tx = commitFails{conn: conn}

	_, err := svc.CreateDevice(ctx, CreateDeviceInput{
		Name:             "Caixa 1",
		FamilyIDs:        []uuid.UUID{fam.ID},
		AdvertisementIDs: []uuid.UUID{ad.ID},
	})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency), "expected dependency error, got %v", err)

	for _, table := range []string{"devices", "device_families", "device_advertisements"} {
		var count int64
		require.NoError(t, conn.Table(table).Count(&count).Error)
		assert.Zero(t, count, "rows left in %s", table)
	}
}

func TestResolvePairingNormalizesInput(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	reg := prometheus.NewRegistry()
	svc := newTestService(t, conn, metrics.NewPanelMetrics(reg))
	svc.generate = func() (string, error) { return "AB12CD", nil }

	created, err := svc.CreateDevice(ctx, CreateDeviceInput{Name: "Padaria"})
	require.NoError(t, err)

	for _, typed := range []string{"AB12CD", " ab12cd ", "Ab12Cd\n"} {
		got, err := svc.ResolvePairing(ctx, typed)
		require.NoError(t, err, typed)
		assert.Equal(t, created.ID, got.DeviceID)
		assert.Equal(t, "Padaria", got.DeviceName)
	}

	_, err = svc.ResolvePairing(ctx, "ZZZZZZ")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = svc.ResolvePairing(ctx, "   ")
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	assert.Equal(t, 3.0, pairingCount(t, reg, "matched"))
	assert.Equal(t, 2.0, pairingCount(t, reg, "unknown_code"))
}

func pairingCount(t *testing.T, reg *prometheus.Registry, result string) float64 {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range mfs {
		if mf.GetName() != "pricepanel_pairing_attempts_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			if hasLabel(m, "result", result) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func TestUpdateDeviceKeepsIdentityAndReplacesSubscriptions(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)
	a := seedFamily(t, conn, "A")
	b := seedFamily(t, conn, "B")
	ad := seedAd(t, conn, "promo")

	created, err := svc.CreateDevice(ctx, CreateDeviceInput{Name: "Tela", FamilyIDs: []uuid.UUID{a.ID}, AdvertisementIDs: []uuid.UUID{ad.ID}})
	require.NoError(t, err)

	name := "Tela Nova"
	orientation := "vertical_left"
	mode := "table"
	families := []uuid.UUID{b.ID}
	updated, err := svc.UpdateDevice(ctx, created.ID, UpdateDeviceInput{
		Name: &name, Orientation: &orientation, DisplayMode: &mode, FamilyIDs: &families,
	})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.PairingCode, updated.PairingCode)
	assert.Equal(t, "Tela Nova", updated.Name)
	assert.Equal(t, enums.OrientationVerticalLeft, updated.Orientation)
	assert.Equal(t, enums.DisplayModeTable, updated.DisplayMode)
	require.Len(t, updated.Families, 1)
	assert.Equal(t, b.ID, updated.Families[0].ID)
	require.Len(t, updated.Advertisements, 1, "nil slice leaves ads untouched")

	empty := []uuid.UUID{}
	cleared, err := svc.UpdateDevice(ctx, created.ID, UpdateDeviceInput{AdvertisementIDs: &empty})
	require.NoError(t, err)
	assert.Empty(t, cleared.Advertisements)
	assert.Len(t, cleared.Families, 1)

	bad := "sideways"
	_, err = svc.UpdateDevice(ctx, created.ID, UpdateDeviceInput{DisplayMode: &bad})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestListAndDeleteDevices(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)
	fam := seedFamily(t, conn, "HORTI")

	for _, name := range []string{"Zeta", "Alfa"} {
		_, err := svc.CreateDevice(ctx, CreateDeviceInput{Name: name, FamilyIDs: []uuid.UUID{fam.ID}})
		require.NoError(t, err)
	}
	list, err := svc.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alfa", list[0].Name)

	require.NoError(t, svc.DeleteDevice(ctx, list[0].ID))
	_, err = svc.GetDevice(ctx, list[0].ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	require.True(t, pkgerrors.IsCode(svc.DeleteDevice(ctx, list[0].ID), pkgerrors.CodeNotFound))

	var links int64
	require.NoError(t, conn.Table("device_families").Where("device_id = ?", list[0].ID).Count(&links).Error)
	assert.Zero(t, links)
}

func TestListDevicesOrdersAdvertisementsLikeGet(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := newTestService(t, conn, nil)

	older := models.Advertisement{
		ID:              uuid.MustParse("ffffffff-ffff-4fff-bfff-ffffffffffff"),
		Description:     "older",
		VideoPath:       "older.mp4",
		DurationSeconds: 10,
		Active:          true,
		CreatedAt:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	newer := models.Advertisement{
		ID:              uuid.MustParse("00000000-0000-4000-8000-000000000001"),
		Description:     "newer",
		VideoPath:       "newer.mp4",
		DurationSeconds: 10,
		Active:          true,
		CreatedAt:       time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, conn.Create(&older).Error)
	require.NoError(t, conn.Create(&newer).Error)

	created, err := svc.CreateDevice(ctx, CreateDeviceInput{Name: "Tela", AdvertisementIDs: []uuid.UUID{newer.ID, older.ID}})
	require.NoError(t, err)
	require.Len(t, created.Advertisements, 2)
	assert.Equal(t, "older", created.Advertisements[0].Label)

	list, err := svc.ListDevices(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.Advertisements, list[0].Advertisements)
}
