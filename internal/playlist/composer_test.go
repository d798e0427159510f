package playlist

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/pricepanel-backend/internal/devices"
	"github.com/angelmondragon/pricepanel-backend/internal/products"
	"github.com/angelmondragon/pricepanel-backend/pkg/assets"
	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

type stubDevices map[uuid.UUID]*models.Device

func (s stubDevices) FindWithSubscriptions(_ context.Context, id uuid.UUID) (*models.Device, error) {
	d, ok := s[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return d, nil
}

type stubProducts struct {
	rows      []models.Product
	gotFamily []uuid.UUID
}

func (s *stubProducts) ListForPanel(_ context.Context, familyIDs []uuid.UUID) ([]models.Product, error) {
	s.gotFamily = familyIDs
	out := make([]models.Product, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: &bytes.Buffer{}})
}

func testURLs(t *testing.T) *assets.Resolver {
	t.Helper()
	r, err := assets.NewResolver("/media/")
	require.NoError(t, err)
	return r
}

func newTemplate(name string, duration int) *models.VideoTemplate {
	tpl := models.NewVideoTemplate(name, "templates/"+name+".mp4")
	tpl.ID = uuid.New()
	tpl.DurationSeconds = duration
	return &tpl
}

func newProduct(code, desc, family string, order int, tpl *models.VideoTemplate) models.Product {
	p := models.Product{
		ID:           uuid.New(),
		Code:         code,
		Description:  desc,
		Price:        decimal.RequireFromString("10.5"),
		Family:       &models.ProductFamily{Name: family},
		DisplayOrder: order,
		OnPanel:      true,
	}
	if tpl != nil {
		p.VideoTemplateID = &tpl.ID
		p.VideoTemplate = tpl
	}
	return p
}

func TestNewComposerRequiresDeps(t *testing.T) {
	urls := testURLs(t)
	_, err := NewComposer(nil, &stubProducts{}, urls, testLogger(), nil)
	require.Error(t, err)
	_, err = NewComposer(stubDevices{}, nil, urls, testLogger(), nil)
	require.Error(t, err)
	_, err = NewComposer(stubDevices{}, &stubProducts{}, nil, testLogger(), nil)
	require.Error(t, err)
	_, err = NewComposer(stubDevices{}, &stubProducts{}, urls, nil, nil)
	require.Error(t, err)
}

func TestComposePlaylistUnknownDevice(t *testing.T) {
	c, err := NewComposer(stubDevices{}, &stubProducts{}, testURLs(t), testLogger(), nil)
	require.NoError(t, err)
	_, err = c.ComposePlaylist(context.Background(), uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name   string
		device models.Device
		want   string
	}{
		{name: "single family", device: models.Device{Name: "Tela 1", Families: []models.ProductFamily{{Name: "Bebidas"}}}, want: "BEBIDAS"},
		{name: "many families", device: models.Device{Name: "corredor 2", Families: []models.ProductFamily{{Name: "A"}, {Name: "B"}}}, want: "CORREDOR 2"},
		{name: "no families", device: models.Device{Name: "padaria"}, want: "PADARIA"},
		{name: "nothing", device: models.Device{Name: "  "}, want: DefaultTitle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Title(&tt.device))
		})
	}
}

func TestComposePlaylistMergesStablyByOrder(t *testing.T) {
	tplA := newTemplate("a", 12)
	tplB := newTemplate("b", 20)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	device := &models.Device{
		ID:          uuid.New(),
		Name:        "Corredor",
		DisplayMode: enums.DisplayModeMixed,
		Orientation: enums.OrientationVerticalRight,
		Families:    []models.ProductFamily{{ID: uuid.New(), Name: "Bebidas"}, {ID: uuid.New(), Name: "Frios"}},
		Advertisements: []models.Advertisement{
			{ID: uuid.New(), Description: "ad-zero-late", VideoPath: "ads/late.mp4", DurationSeconds: 8, Order: 0, Active: true, CreatedAt: base.Add(time.Hour)},
			{ID: uuid.New(), Description: "ad-off", VideoPath: "ads/off.mp4", DurationSeconds: 8, Order: 0, Active: false, CreatedAt: base},
			{ID: uuid.New(), Description: "ad-first", VideoPath: "ads/first.mp4", DurationSeconds: 5, Order: -1, Active: true, CreatedAt: base},
			{ID: uuid.New(), Description: "ad-zero-early", VideoPath: "ads/early.mp4", DurationSeconds: 8, Order: 0, Active: true, CreatedAt: base},
		},
	}
	catalog := &stubProducts{rows: []models.Product{
		newProduct("3", "Suco", "BEBIDAS", 0, tplB),
		newProduct("1", "Agua", "BEBIDAS", 0, tplA),
		newProduct("4", "Queijo", "FRIOS", 2, tplA),
		newProduct("2", "Cerveja", "BEBIDAS", 0, nil),
	}}

	c, err := NewComposer(stubDevices{device.ID: device}, catalog, testURLs(t), testLogger(), nil)
	require.NoError(t, err)

	got, err := c.ComposePlaylist(context.Background(), device.ID)
	require.NoError(t, err)
	require.Len(t, catalog.gotFamily, 2)

	assert.Equal(t, Config{
		Name:        "Corredor",
		DisplayMode: enums.DisplayModeMixed,
		Orientation: enums.OrientationVerticalRight,
		Title:       "CORREDOR",
		DeviceID:    device.ID.String(),
	}, got.Config)

	var table []string
	for _, row := range got.Products {
		table = append(table, row.Description)
	}
	assert.Equal(t, []string{"Agua", "Cerveja", "Suco", "Queijo"}, table, "template-less products stay in the table")
	assert.Equal(t, "R$ 10,50", got.Products[0].PriceFormatted)
	assert.False(t, got.Products[1].HasVideo)

	var sequence []string
	for _, item := range got.Playlist {
		sequence = append(sequence, item.Description)
	}
	assert.Equal(t, []string{"ad-first", "Agua", "Suco", "ad-zero-early", "ad-zero-late", "Queijo"}, sequence)

	agua := got.Playlist[1]
	assert.Equal(t, enums.PlaylistItemProduct, agua.Kind)
	assert.Equal(t, 12, agua.Duration, "duration comes from the template")
	assert.Equal(t, "/media/templates/a.mp4", agua.VideoURL)
	require.NotNil(t, agua.Overlay)
	assert.Equal(t, "R$ 10,50", agua.Overlay.Price.Formatted)
	require.NotNil(t, agua.Product)
	assert.Equal(t, "1", agua.Product.Code)

	ad := got.Playlist[0]
	assert.Equal(t, enums.PlaylistItemAdvertisement, ad.Kind)
	assert.Equal(t, "/media/ads/first.mp4", ad.VideoURL)
	assert.Nil(t, ad.Overlay)

	for i := 0; i < 5; i++ {
		again, err := c.ComposePlaylist(context.Background(), device.ID)
		require.NoError(t, err)
		assert.Equal(t, got.Playlist, again.Playlist)
	}
}

func TestComposePlaylistEmptyCatalog(t *testing.T) {
	device := &models.Device{ID: uuid.New()}
	c, err := NewComposer(stubDevices{device.ID: device}, &stubProducts{}, testURLs(t), testLogger(), nil)
	require.NoError(t, err)

	got, err := c.ComposePlaylist(context.Background(), device.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultTitle, got.Config.Title)
	assert.NotNil(t, got.Products)
	assert.NotNil(t, got.Playlist)
	assert.Empty(t, got.Playlist)
}

func TestComposePlaylistAgainstStore(t *testing.T) {
	ctx := context.Background()
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	conn, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:pl_%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(models.All()...))

	bebidas := models.ProductFamily{Name: "BEBIDAS"}
	frios := models.ProductFamily{Name: "FRIOS"}
	require.NoError(t, conn.Create(&bebidas).Error)
	require.NoError(t, conn.Create(&frios).Error)

	tpl := models.NewVideoTemplate("oferta", "templates/oferta.mp4")
	require.NoError(t, conn.Create(&tpl).Error)

	seed := []models.Product{
		{Code: "1", Description: "Refrigerante", Price: decimal.RequireFromString("7.99"), FamilyID: bebidas.ID, OnPanel: true, VideoTemplateID: &tpl.ID},
		{Code: "2", Description: "Agua", Price: decimal.RequireFromString("2.50"), FamilyID: bebidas.ID, OnPanel: true},
		{Code: "3", Description: "Hidden", Price: decimal.RequireFromString("1"), FamilyID: bebidas.ID, OnPanel: false, VideoTemplateID: &tpl.ID},
		{Code: "4", Description: "Presunto", Price: decimal.RequireFromString("30"), FamilyID: frios.ID, OnPanel: true, VideoTemplateID: &tpl.ID},
	}
	for i := range seed {
		require.NoError(t, conn.Create(&seed[i]).Error)
	}
	ad := models.Advertisement{Description: "inst", VideoPath: "ads/inst.mp4", DurationSeconds: 10, Order: 5, Active: true}
	require.NoError(t, conn.Create(&ad).Error)

	device := models.Device{
		Name: "tela", PairingCode: "QWE123",
		Orientation: enums.OrientationHorizontal, DisplayMode: enums.DisplayModeVideo,
		Families:       []models.ProductFamily{bebidas},
		Advertisements: []models.Advertisement{ad},
	}
	require.NoError(t, conn.Omit("Families.*", "Advertisements.*").Create(&device).Error)

	c, err := NewComposer(devices.NewRepository(conn), products.NewRepository(conn), testURLs(t), testLogger(), nil)
	require.NoError(t, err)

	got, err := c.ComposePlaylist(ctx, device.ID)
	require.NoError(t, err)
	assert.Equal(t, "BEBIDAS", got.Config.Title)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "Agua", got.Products[0].Description)
	assert.Equal(t, "Refrigerante", got.Products[1].Description)

	require.Len(t, got.Playlist, 2)
	assert.Equal(t, "Refrigerante", got.Playlist[0].Description)
	assert.Equal(t, models.DefaultTemplateDurationSeconds, got.Playlist[0].Duration)
	assert.Equal(t, "inst", got.Playlist[1].Description)
}
