package playlist

import (
	"github.com/angelmondragon/pricepanel-backend/internal/templates"
	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
)

// Playlist is the body a screen polls. The table renderer reads Products and
// the video player reads Playlist; neither depends on the other.
type Playlist struct {
	Config   Config       `json:"config"`
	Products []ProductRow `json:"products"`
	Playlist []Item       `json:"playlist"`
}

type Config struct {
	Name        string            `json:"name"`
	DisplayMode enums.DisplayMode `json:"displayMode"`
	Orientation enums.Orientation `json:"orientation"`
	Title       string            `json:"title"`
	DeviceID    string            `json:"deviceId"`
}

// ProductRow is one line of the price table.
type ProductRow struct {
	ID             string `json:"id"`
	Code           string `json:"code"`
	Description    string `json:"description"`
	Price          string `json:"price"`
	PriceFormatted string `json:"priceFormatted"`
	Family         string `json:"family"`
	ImageURL       string `json:"imageUrl,omitempty"`
	OnOffer        bool   `json:"onOffer"`
	Order          int    `json:"order"`
	HasVideo       bool   `json:"hasVideo"`
}

// Item is one entry of the video sequence. Product items carry the row and the
// rendered overlay; advertisement items only the video fields.
type Item struct {
	Kind        enums.PlaylistItemKind `json:"kind"`
	Order       int                    `json:"order"`
	Duration    int                    `json:"duration"`
	VideoURL    string                 `json:"videoUrl"`
	Description string                 `json:"description"`
	Product     *ProductRow            `json:"product,omitempty"`
	Overlay     *templates.Overlay     `json:"overlay,omitempty"`
}
