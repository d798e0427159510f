package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
)

// Device is a paired screen. ID and PairingCode never change after creation.
type Device struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name           string            `gorm:"column:name;not null"`
	PairingCode    string            `gorm:"column:pairing_code;not null;uniqueIndex:devices_pairing_code_key"`
	Orientation    enums.Orientation `gorm:"column:orientation;not null"`
	DisplayMode    enums.DisplayMode `gorm:"column:display_mode;not null"`
	Families       []ProductFamily   `gorm:"many2many:device_families;joinForeignKey:DeviceID;joinReferences:FamilyID"`
	Advertisements []Advertisement   `gorm:"many2many:device_advertisements;joinForeignKey:DeviceID;joinReferences:AdvertisementID"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (d *Device) BeforeCreate(*gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
