package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog entry keyed by its ERP code.
type Product struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Code            string          `gorm:"column:code;not null;uniqueIndex:products_code_key"`
	Description     string          `gorm:"column:description;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	FamilyID        uuid.UUID       `gorm:"column:family_id;type:uuid;not null;index"`
	Family          *ProductFamily  `gorm:"foreignKey:FamilyID;references:ID"`
	ImagePath       *string         `gorm:"column:image_path"`
	DisplayOrder    int             `gorm:"column:display_order;not null"`
	OnPanel         bool            `gorm:"column:on_panel;not null"`
	OnOffer         bool            `gorm:"column:on_offer;not null"`
	VideoTemplateID *uuid.UUID      `gorm:"column:video_template_id;type:uuid;index"`
	VideoTemplate   *VideoTemplate  `gorm:"foreignKey:VideoTemplateID;references:ID;constraint:OnDelete:SET NULL"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
