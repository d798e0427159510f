package playlist

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/internal/templates"
	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/metrics"
)

// DefaultTitle is shown when neither a single family nor the device name is available.
const DefaultTitle = "OFERTAS ESPECIAIS"

// DeviceNotFoundMessage is the error text the TV client shows for an unknown screen.
const DeviceNotFoundMessage = "device not found"

type deviceFinder interface {
	FindWithSubscriptions(ctx context.Context, id uuid.UUID) (*models.Device, error)
}

type productLister interface {
	ListForPanel(ctx context.Context, familyIDs []uuid.UUID) ([]models.Product, error)
}

// Composer builds device playlists from the current catalog. It keeps no state
// between calls.
type Composer interface {
	ComposePlaylist(ctx context.Context, deviceID uuid.UUID) (*Playlist, error)
}

type composer struct {
	devices  deviceFinder
	products productLister
	urls     templates.URLResolver
	logg     *logger.Logger
	metrics  *metrics.PanelMetrics
}

// NewComposer wires the composer. m may be nil.
func NewComposer(devices deviceFinder, products productLister, urls templates.URLResolver, logg *logger.Logger, m *metrics.PanelMetrics) (Composer, error) {
	if devices == nil {
		return nil, fmt.Errorf("device finder required")
	}
	if products == nil {
		return nil, fmt.Errorf("product lister required")
	}
	if urls == nil {
		return nil, fmt.Errorf("url resolver required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &composer{devices: devices, products: products, urls: urls, logg: logg, metrics: m}, nil
}

func (c *composer) ComposePlaylist(ctx context.Context, deviceID uuid.UUID) (*Playlist, error) {
	ctx = c.logg.WithDeviceID(ctx, deviceID.String())

	device, err := c.devices.FindWithSubscriptions(ctx, deviceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.metrics.PlaylistNotFound()
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, DeviceNotFoundMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load device")
	}

	familyIDs := make([]uuid.UUID, 0, len(device.Families))
	for _, f := range device.Families {
		familyIDs = append(familyIDs, f.ID)
	}
	products, err := c.products.ListForPanel(ctx, familyIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load panel products")
	}
	sortForTable(products)

	out := &Playlist{
		Config: Config{
			Name:        device.Name,
			DisplayMode: device.DisplayMode,
			Orientation: device.Orientation,
			Title:       Title(device),
			DeviceID:    device.ID.String(),
		},
		Products: make([]ProductRow, 0, len(products)),
	}

	var items []Item
	for i := range products {
		p := &products[i]
		row := c.productRow(p)
		out.Products = append(out.Products, row)
		if p.VideoTemplate == nil {
			continue
		}
		overlay := templates.RenderOverlay(templates.FromProduct(p), p.VideoTemplate, c.urls)
		items = append(items, Item{
			Kind:        enums.PlaylistItemProduct,
			Order:       p.DisplayOrder,
			Duration:    p.VideoTemplate.DurationSeconds,
			VideoURL:    overlay.VideoURL,
			Description: p.Description,
			Product:     &row,
			Overlay:     &overlay,
		})
	}

	for _, ad := range activeAdvertisements(device.Advertisements) {
		items = append(items, Item{
			Kind:        enums.PlaylistItemAdvertisement,
			Order:       ad.Order,
			Duration:    ad.DurationSeconds,
			VideoURL:    c.urls.URL(ad.VideoPath),
			Description: ad.Description,
		})
	}

	// Equal orders keep insertion sequence: products first, then ads.
	slices.SortStableFunc(items, func(a, b Item) int {
		return cmp.Compare(a.Order, b.Order)
	})
	if items == nil {
		items = []Item{}
	}
	out.Playlist = items

	c.metrics.PlaylistServed(len(out.Products), len(out.Playlist))
	c.logg.Debug(ctx, "playlist.composed")
	return out, nil
}

// Title picks the heading shown above the price table.
func Title(device *models.Device) string {
	if len(device.Families) == 1 {
		if name := strings.TrimSpace(device.Families[0].Name); name != "" {
			return strings.ToUpper(name)
		}
	}
	if name := strings.TrimSpace(device.Name); name != "" {
		return strings.ToUpper(name)
	}
	return DefaultTitle
}

func (c *composer) productRow(p *models.Product) ProductRow {
	price := p.Price.Round(2)
	row := ProductRow{
		ID:             p.ID.String(),
		Code:           p.Code,
		Description:    p.Description,
		Price:          price.StringFixed(2),
		PriceFormatted: templates.FormatBRL(price),
		OnOffer:        p.OnOffer,
		Order:          p.DisplayOrder,
		HasVideo:       p.VideoTemplate != nil,
	}
	if p.Family != nil {
		row.Family = p.Family.Name
	}
	if p.ImagePath != nil {
		row.ImageURL = c.urls.URL(*p.ImagePath)
	}
	return row
}

// sortForTable orders by family name then description. The store already
// returns this order; sorting again keeps output independent of collation.
func sortForTable(products []models.Product) {
	slices.SortStableFunc(products, func(a, b models.Product) int {
		if n := strings.Compare(familyName(a), familyName(b)); n != 0 {
			return n
		}
		return strings.Compare(a.Description, b.Description)
	})
}

func familyName(p models.Product) string {
	if p.Family == nil {
		return ""
	}
	return p.Family.Name
}

// activeAdvertisements keeps active ads in (order, created_at, id) sequence.
func activeAdvertisements(ads []models.Advertisement) []models.Advertisement {
	out := make([]models.Advertisement, 0, len(ads))
	for _, ad := range ads {
		if ad.Active {
			out = append(out, ad)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Advertisement) int {
		if a.Order != b.Order {
			return cmp.Compare(a.Order, b.Order)
		}
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.ID.String(), b.ID.String())
	})
	return out
}
