package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/types"
)

const (
	DefaultTemplateDurationSeconds = 15

	DefaultTitleTop      = 10
	DefaultTitleLeft     = 50
	DefaultTitleColor    = "#FFFFFF"
	DefaultTitleFontSize = "5vw"

	DefaultPriceTop      = 50
	DefaultPriceLeft     = 50
	DefaultPriceColor    = "#FFD700"
	DefaultPriceFontSize = "8vw"

	DefaultImageTop   = 30
	DefaultImageLeft  = 10
	DefaultImageWidth = 20
)

// VideoTemplate is a background video plus the overlay geometry drawn on top of it.
// Coordinates are percentages of the screen.
type VideoTemplate struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name            string    `gorm:"column:name;not null"`
	VideoPath       string    `gorm:"column:video_path;not null"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null"`

	TitleTop      int    `gorm:"column:title_top;not null"`
	TitleLeft     int    `gorm:"column:title_left;not null"`
	TitleColor    string `gorm:"column:title_color;not null"`
	TitleFontSize string `gorm:"column:title_font_size;not null"`

	PriceTop      int    `gorm:"column:price_top;not null"`
	PriceLeft     int    `gorm:"column:price_left;not null"`
	PriceColor    string `gorm:"column:price_color;not null"`
	PriceFontSize string `gorm:"column:price_font_size;not null"`

	ImageTop   int `gorm:"column:image_top;not null"`
	ImageLeft  int `gorm:"column:image_left;not null"`
	ImageWidth int `gorm:"column:image_width;not null"`

	StyleOverrides types.StyleMap    `gorm:"column:style_overrides;type:jsonb;not null"`
	ExtraElements  types.ElementList `gorm:"column:extra_elements;type:jsonb;not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// NewVideoTemplate returns a template with the stock layout applied.
func NewVideoTemplate(name, videoPath string) VideoTemplate {
	return VideoTemplate{
		Name:            name,
		VideoPath:       videoPath,
		DurationSeconds: DefaultTemplateDurationSeconds,
		TitleTop:        DefaultTitleTop,
		TitleLeft:       DefaultTitleLeft,
		TitleColor:      DefaultTitleColor,
		TitleFontSize:   DefaultTitleFontSize,
		PriceTop:        DefaultPriceTop,
		PriceLeft:       DefaultPriceLeft,
		PriceColor:      DefaultPriceColor,
		PriceFontSize:   DefaultPriceFontSize,
		ImageTop:        DefaultImageTop,
		ImageLeft:       DefaultImageLeft,
		ImageWidth:      DefaultImageWidth,
		StyleOverrides:  types.StyleMap{},
		ExtraElements:   types.ElementList{},
	}
}

func (v *VideoTemplate) BeforeCreate(*gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
