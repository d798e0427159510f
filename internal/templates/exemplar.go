package templates

import (
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

const PlaceholderDescription = "NOME DO PRODUTO (MODELO)"

// Exemplar is anything that can be drawn on top of a template: a real
// product or the editor placeholder.
type Exemplar interface {
	Code() string
	Description() string
	Price() decimal.Decimal
	FamilyName() string
	ImagePath() string
	OnOffer() bool
}

type productExemplar struct {
	p *models.Product
}

// FromProduct adapts a persisted product. The family should be preloaded.
func FromProduct(p *models.Product) Exemplar {
	return productExemplar{p: p}
}

func (e productExemplar) Code() string           { return e.p.Code }
func (e productExemplar) Description() string    { return e.p.Description }
func (e productExemplar) Price() decimal.Decimal { return e.p.Price.Round(2) }
func (e productExemplar) OnOffer() bool          { return e.p.OnOffer }

func (e productExemplar) FamilyName() string {
	if e.p.Family == nil {
		return ""
	}
	return e.p.Family.Name
}

func (e productExemplar) ImagePath() string {
	if e.p.ImagePath == nil {
		return ""
	}
	return *e.p.ImagePath
}

type placeholder struct{}

// Placeholder is shown in the editor when no product uses the template yet.
func Placeholder() Exemplar {
	return placeholder{}
}

func (placeholder) Code() string           { return "" }
func (placeholder) Description() string    { return PlaceholderDescription }
func (placeholder) Price() decimal.Decimal { return decimal.Zero }
func (placeholder) FamilyName() string     { return "" }
func (placeholder) ImagePath() string      { return "" }
func (placeholder) OnOffer() bool          { return false }
