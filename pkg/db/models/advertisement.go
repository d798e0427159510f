package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Advertisement is an institutional video played between product offers.
type Advertisement struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Description     string    `gorm:"column:description;not null"`
	VideoPath       string    `gorm:"column:video_path;not null"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null"`
	Order           int       `gorm:"column:sort_order;not null"`
	Active          bool      `gorm:"column:active;not null"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (a *Advertisement) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
