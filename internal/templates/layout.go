package templates

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// geometry mirrors the persisted layout with the write-time rules attached.
// Percentages are rejected outside [0,100], never clamped. Colors are any
// CSS color that fits the 7-character column.
type geometry struct {
	DurationSeconds int    `json:"duration_seconds" validate:"gte=1,lte=600"`
	TitleTop        int    `json:"title_top" validate:"gte=0,lte=100"`
	TitleLeft       int    `json:"title_left" validate:"gte=0,lte=100"`
	TitleColor      string `json:"title_color" validate:"required,max=7"`
	TitleFontSize   string `json:"title_font_size" validate:"required,max=10"`
	PriceTop        int    `json:"price_top" validate:"gte=0,lte=100"`
	PriceLeft       int    `json:"price_left" validate:"gte=0,lte=100"`
	PriceColor      string `json:"price_color" validate:"required,max=7"`
	PriceFontSize   string `json:"price_font_size" validate:"required,max=10"`
	ImageTop        int    `json:"image_top" validate:"gte=0,lte=100"`
	ImageLeft       int    `json:"image_left" validate:"gte=0,lte=100"`
	ImageWidth      int    `json:"image_width" validate:"gte=0,lte=100"`
}

// ValidateGeometry checks every coordinate and style field of tpl.
func ValidateGeometry(tpl *models.VideoTemplate) error {
	g := geometry{
		DurationSeconds: tpl.DurationSeconds,
		TitleTop:        tpl.TitleTop,
		TitleLeft:       tpl.TitleLeft,
		TitleColor:      tpl.TitleColor,
		TitleFontSize:   tpl.TitleFontSize,
		PriceTop:        tpl.PriceTop,
		PriceLeft:       tpl.PriceLeft,
		PriceColor:      tpl.PriceColor,
		PriceFontSize:   tpl.PriceFontSize,
		ImageTop:        tpl.ImageTop,
		ImageLeft:       tpl.ImageLeft,
		ImageWidth:      tpl.ImageWidth,
	}
	err := validate.Struct(g)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid template layout")
	}
	details := map[string]string{}
	for _, fe := range errs {
		details[fe.Field()] = geometryMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid template layout").WithDetails(details)
}

func geometryMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gte", "lte":
		if fe.Field() == "duration_seconds" {
			return "must be between 1 and 600 seconds"
		}
		return fmt.Sprintf("must be between 0 and 100, got %v", fe.Value())
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	}
	return "is invalid"
}
