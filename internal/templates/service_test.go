package templates

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

type finderFunc func(ctx context.Context, templateID uuid.UUID) (*models.Product, error)

func (f finderFunc) FirstUsingTemplate(ctx context.Context, templateID uuid.UUID) (*models.Product, error) {
	return f(ctx, templateID)
}

func noProducts() finderFunc {
	return func(context.Context, uuid.UUID) (*models.Product, error) {
		return nil, gorm.ErrRecordNotFound
	}
}

func newTestService(t *testing.T, conn *gorm.DB, finder exemplarFinder) Service {
	t.Helper()
	svc, err := NewService(NewRepository(conn), finder, testResolver(t))
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresDeps(t *testing.T) {
	_, err := NewService(nil, noProducts(), testResolver(t))
	require.Error(t, err)
	_, err = NewService(&Repository{}, nil, testResolver(t))
	require.Error(t, err)
	_, err = NewService(&Repository{}, noProducts(), nil)
	require.Error(t, err)
}

func TestCreateTemplateAppliesDefaultsAndOverrides(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, openTestDB(t), noProducts())

	created, err := svc.CreateTemplate(ctx, CreateTemplateInput{
		Name:      " Padaria ",
		VideoPath: "videos/padaria.mp4",
		Layout: LayoutInput{
			PriceColor:     strPtr("#FF0000"),
			StyleOverrides: map[string]string{"fontFamily": "Anton"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Padaria", created.Name)
	assert.Equal(t, models.DefaultTemplateDurationSeconds, created.DurationSeconds)
	assert.Equal(t, models.DefaultTitleTop, created.Title.Top)
	assert.Equal(t, "#FF0000", created.Price.Color)
	assert.Equal(t, "Anton", created.StyleOverrides["fontFamily"])
	assert.Equal(t, "https://cdn.test/media/videos/padaria.mp4", created.VideoURL)

	fetched, err := svc.GetTemplate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anton", fetched.StyleOverrides["fontFamily"])
	assert.NotNil(t, fetched.ExtraElements)

	_, err = svc.CreateTemplate(ctx, CreateTemplateInput{Name: "x"})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateTemplateRejectsOutOfRangeWithoutSaving(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, openTestDB(t), noProducts())

	created, err := svc.CreateTemplate(ctx, CreateTemplateInput{Name: "Hortifruti", VideoPath: "videos/horti.mp4"})
	require.NoError(t, err)

	_, err = svc.UpdateTemplate(ctx, created.ID, UpdateTemplateInput{Layout: LayoutInput{PriceTop: intPtr(150)}})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "got %v", err)

	unchanged, err := svc.GetTemplate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPriceTop, unchanged.Price.Top)

	updated, err := svc.UpdateTemplate(ctx, created.ID, UpdateTemplateInput{
		Name:   strPtr("Hortifruti Novo"),
		Layout: LayoutInput{PriceTop: intPtr(100), TitleLeft: intPtr(0)},
	})
	require.NoError(t, err)
	assert.Equal(t, "Hortifruti Novo", updated.Name)
	assert.Equal(t, 100, updated.Price.Top)
	assert.Equal(t, 0, updated.Title.Left)
	assert.Equal(t, models.DefaultPriceLeft, updated.Price.Left)

	_, err = svc.UpdateTemplate(ctx, uuid.New(), UpdateTemplateInput{})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListAndDeleteTemplates(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, openTestDB(t), noProducts())

	for _, name := range []string{"Bebidas", "Açougue"} {
		_, err := svc.CreateTemplate(ctx, CreateTemplateInput{Name: name, VideoPath: "videos/x.mp4"})
		require.NoError(t, err)
	}
	list, err := svc.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.DeleteTemplate(ctx, list[0].ID))
	err = svc.DeleteTemplate(ctx, list[0].ID)
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteTemplateUnlinksProducts(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)
	svc := newTestService(t, conn, noProducts())

	created, err := svc.CreateTemplate(ctx, CreateTemplateInput{Name: "Frios", VideoPath: "videos/frios.mp4"})
	require.NoError(t, err)

	family := models.ProductFamily{Name: "FRIOS"}
	require.NoError(t, conn.Create(&family).Error)
	product := models.Product{
		Code: "300", Description: "Queijo", Price: decimal.RequireFromString("9.90"),
		FamilyID: family.ID, OnPanel: true, VideoTemplateID: &created.ID,
	}
	require.NoError(t, conn.Create(&product).Error)

	require.NoError(t, svc.DeleteTemplate(ctx, created.ID))

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	assert.Nil(t, reloaded.VideoTemplateID)
}

func TestPreviewUsesFirstProductOrPlaceholder(t *testing.T) {
	ctx := context.Background()
	conn := openTestDB(t)

	empty := newTestService(t, conn, noProducts())
	created, err := empty.CreateTemplate(ctx, CreateTemplateInput{Name: "Laticinios", VideoPath: "videos/lat.mp4"})
	require.NoError(t, err)

	preview, err := empty.Preview(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, preview.Placeholder)
	assert.Equal(t, PlaceholderDescription, preview.Overlay.Title.Text)
	assert.Equal(t, "0.00", preview.Exemplar.Price)

	image := "products/iogurte.png"
	withProduct := newTestService(t, conn, finderFunc(func(_ context.Context, id uuid.UUID) (*models.Product, error) {
		assert.Equal(t, created.ID, id)
		return &models.Product{
			Code:        "77",
			Description: "Iogurte Natural",
			Price:       decimal.RequireFromString("3.5"),
			Family:      &models.ProductFamily{Name: "LATICINIOS"},
			ImagePath:   &image,
		}, nil
	}))
	preview, err = withProduct.Preview(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, preview.Placeholder)
	assert.Equal(t, "Iogurte Natural", preview.Overlay.Title.Text)
	assert.Equal(t, "R$ 3,50", preview.Overlay.Price.Formatted)
	assert.Equal(t, "LATICINIOS", preview.Exemplar.Family)
	assert.Equal(t, "https://cdn.test/media/products/iogurte.png", preview.Exemplar.ImageURL)

	_, err = withProduct.Preview(ctx, uuid.New())
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
