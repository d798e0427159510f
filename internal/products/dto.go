package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

// FamilyDTO is the admin view of a product family.
type FamilyDTO struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ProductDTO is the admin view of a catalog product.
type ProductDTO struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Family          FamilyDTO       `json:"family"`
	ImagePath       *string         `json:"image_path,omitempty"`
	DisplayOrder    int             `json:"display_order"`
	OnPanel         bool            `json:"on_panel"`
	OnOffer         bool            `json:"on_offer"`
	VideoTemplateID *uuid.UUID      `json:"video_template_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

func NewFamilyDTO(f *models.ProductFamily) FamilyDTO {
	if f == nil {
		return FamilyDTO{}
	}
	return FamilyDTO{ID: f.ID, Name: f.Name}
}

// NewProductDTO builds a DTO from a product loaded with its family.
func NewProductDTO(p *models.Product) *ProductDTO {
	dto := &ProductDTO{
		ID:              p.ID,
		Code:            p.Code,
		Description:     p.Description,
		Price:           p.Price.Round(2),
		ImagePath:       p.ImagePath,
		DisplayOrder:    p.DisplayOrder,
		OnPanel:         p.OnPanel,
		OnOffer:         p.OnOffer,
		VideoTemplateID: p.VideoTemplateID,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
	if p.Family != nil {
		dto.Family = NewFamilyDTO(p.Family)
	} else {
		dto.Family = FamilyDTO{ID: p.FamilyID}
	}
	return dto
}
