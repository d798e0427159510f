package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

func TestValidateGeometryBounds(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.VideoTemplate)
		field   string
		wantErr bool
	}{
		{name: "defaults", mutate: func(*models.VideoTemplate) {}},
		{name: "zero edge", mutate: func(tpl *models.VideoTemplate) { tpl.TitleTop = 0; tpl.ImageWidth = 0 }},
		{name: "hundred edge", mutate: func(tpl *models.VideoTemplate) { tpl.PriceLeft = 100; tpl.ImageLeft = 100 }},
		{name: "price top above range", mutate: func(tpl *models.VideoTemplate) { tpl.PriceTop = 150 }, field: "price_top", wantErr: true},
		{name: "negative left", mutate: func(tpl *models.VideoTemplate) { tpl.TitleLeft = -1 }, field: "title_left", wantErr: true},
		{name: "named color", mutate: func(tpl *models.VideoTemplate) { tpl.TitleColor = "white"; tpl.PriceColor = "red" }},
		{name: "short hex color", mutate: func(tpl *models.VideoTemplate) { tpl.PriceColor = "#FD0" }},
		{name: "color wider than column", mutate: func(tpl *models.VideoTemplate) { tpl.TitleColor = "rgba(0,0,0,1)" }, field: "title_color", wantErr: true},
		{name: "empty color", mutate: func(tpl *models.VideoTemplate) { tpl.PriceColor = "" }, field: "price_color", wantErr: true},
		{name: "empty font size", mutate: func(tpl *models.VideoTemplate) { tpl.PriceFontSize = "" }, field: "price_font_size", wantErr: true},
		{name: "zero duration", mutate: func(tpl *models.VideoTemplate) { tpl.DurationSeconds = 0 }, field: "duration_seconds", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := models.NewVideoTemplate("Oferta", "videos/oferta.mp4")
			tt.mutate(&tpl)
			err := ValidateGeometry(&tpl)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
			details, ok := appErr.Details().(map[string]string)
			require.True(t, ok, "expected field details, got %T", appErr.Details())
			assert.Contains(t, details, tt.field)
		})
	}
}
