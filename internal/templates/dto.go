package templates

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

// TemplateDTO is the admin view of a template.
type TemplateDTO struct {
	ID              uuid.UUID         `json:"id"`
	Name            string            `json:"name"`
	VideoPath       string            `json:"video_path"`
	VideoURL        string            `json:"video_url"`
	DurationSeconds int               `json:"duration_seconds"`
	Title           TextLayoutDTO     `json:"title"`
	Price           TextLayoutDTO     `json:"price"`
	Image           ImageLayoutDTO    `json:"image"`
	StyleOverrides  map[string]string `json:"style_overrides"`
	ExtraElements   []map[string]any  `json:"extra_elements"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

type TextLayoutDTO struct {
	Top      int    `json:"top"`
	Left     int    `json:"left"`
	Color    string `json:"color"`
	FontSize string `json:"font_size"`
}

type ImageLayoutDTO struct {
	Top   int `json:"top"`
	Left  int `json:"left"`
	Width int `json:"width"`
}

// PreviewDTO feeds the visual editor: the template, the product drawn on it
// and the rendered overlay.
type PreviewDTO struct {
	Template    TemplateDTO `json:"template"`
	Exemplar    ExemplarDTO `json:"exemplar"`
	Overlay     Overlay     `json:"overlay"`
	Placeholder bool        `json:"placeholder"`
}

type ExemplarDTO struct {
	Code        string `json:"code,omitempty"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Family      string `json:"family,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
	OnOffer     bool   `json:"on_offer"`
}

func NewTemplateDTO(tpl *models.VideoTemplate, urls URLResolver) TemplateDTO {
	styles := map[string]string{}
	for k, v := range tpl.StyleOverrides {
		styles[k] = v
	}
	extras := []map[string]any{}
	extras = append(extras, tpl.ExtraElements...)

	return TemplateDTO{
		ID:              tpl.ID,
		Name:            tpl.Name,
		VideoPath:       tpl.VideoPath,
		VideoURL:        resolve(urls, tpl.VideoPath),
		DurationSeconds: tpl.DurationSeconds,
		Title: TextLayoutDTO{
			Top: tpl.TitleTop, Left: tpl.TitleLeft, Color: tpl.TitleColor, FontSize: tpl.TitleFontSize,
		},
		Price: TextLayoutDTO{
			Top: tpl.PriceTop, Left: tpl.PriceLeft, Color: tpl.PriceColor, FontSize: tpl.PriceFontSize,
		},
		Image: ImageLayoutDTO{
			Top: tpl.ImageTop, Left: tpl.ImageLeft, Width: tpl.ImageWidth,
		},
		StyleOverrides: styles,
		ExtraElements:  extras,
		CreatedAt:      tpl.CreatedAt,
		UpdatedAt:      tpl.UpdatedAt,
	}
}

func newExemplarDTO(ex Exemplar, urls URLResolver) ExemplarDTO {
	dto := ExemplarDTO{
		Code:        ex.Code(),
		Description: ex.Description(),
		Price:       ex.Price().StringFixed(2),
		Family:      ex.FamilyName(),
		OnOffer:     ex.OnOffer(),
	}
	if path := ex.ImagePath(); path != "" {
		dto.ImageURL = resolve(urls, path)
	}
	return dto
}
