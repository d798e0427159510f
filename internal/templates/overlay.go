package templates

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

// URLResolver maps stored media paths to public URLs.
type URLResolver interface {
	URL(path string) string
}

type TextOverlay struct {
	Text     string `json:"text"`
	Top      int    `json:"top"`
	Left     int    `json:"left"`
	Color    string `json:"color"`
	FontSize string `json:"fontSize"`
}

type PriceOverlay struct {
	Value     string `json:"value"`
	Formatted string `json:"formatted"`
	Top       int    `json:"top"`
	Left      int    `json:"left"`
	Color     string `json:"color"`
	FontSize  string `json:"fontSize"`
}

type ImageOverlay struct {
	URL   string `json:"url"`
	Top   int    `json:"top"`
	Left  int    `json:"left"`
	Width int    `json:"width"`
}

// Overlay is the render payload a screen needs to draw one product over a template video.
type Overlay struct {
	TemplateID    string            `json:"templateId"`
	VideoURL      string            `json:"videoUrl"`
	Duration      int               `json:"duration"`
	Title         TextOverlay       `json:"title"`
	Price         PriceOverlay      `json:"price"`
	Image         *ImageOverlay     `json:"image,omitempty"`
	Styles        map[string]string `json:"styles"`
	ExtraElements []map[string]any  `json:"extraElements"`
}

// RenderOverlay places the exemplar on the template geometry.
func RenderOverlay(ex Exemplar, tpl *models.VideoTemplate, urls URLResolver) Overlay {
	price := ex.Price().Round(2)
	out := Overlay{
		TemplateID: tpl.ID.String(),
		VideoURL:   resolve(urls, tpl.VideoPath),
		Duration:   tpl.DurationSeconds,
		Title: TextOverlay{
			Text:     ex.Description(),
			Top:      tpl.TitleTop,
			Left:     tpl.TitleLeft,
			Color:    tpl.TitleColor,
			FontSize: tpl.TitleFontSize,
		},
		Price: PriceOverlay{
			Value:     price.StringFixed(2),
			Formatted: FormatBRL(price),
			Top:       tpl.PriceTop,
			Left:      tpl.PriceLeft,
			Color:     tpl.PriceColor,
			FontSize:  tpl.PriceFontSize,
		},
		Styles:        map[string]string{},
		ExtraElements: []map[string]any{},
	}
	if path := ex.ImagePath(); path != "" {
		out.Image = &ImageOverlay{
			URL:   resolve(urls, path),
			Top:   tpl.ImageTop,
			Left:  tpl.ImageLeft,
			Width: tpl.ImageWidth,
		}
	}
	for k, v := range tpl.StyleOverrides {
		out.Styles[k] = v
	}
	if len(tpl.ExtraElements) > 0 {
		out.ExtraElements = append(out.ExtraElements, tpl.ExtraElements...)
	}
	return out
}

// FormatBRL renders a price the way the store shelves show it: R$ 1.234,56.
func FormatBRL(v decimal.Decimal) string {
	fixed := v.Round(2).StringFixed(2)
	negative := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + frac
	if negative {
		out = "-" + out
	}
	return out
}

func resolve(urls URLResolver, path string) string {
	if urls == nil {
		return path
	}
	return urls.URL(path)
}
