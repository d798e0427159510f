package devices

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
)

type DeviceDTO struct {
	ID             uuid.UUID         `json:"id"`
	Name           string            `json:"name"`
	PairingCode    string            `json:"pairing_code"`
	Orientation    enums.Orientation `json:"orientation"`
	DisplayMode    enums.DisplayMode `json:"display_mode"`
	Families       []SubscriptionDTO `json:"families"`
	Advertisements []SubscriptionDTO `json:"advertisements"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// SubscriptionDTO is a family or advertisement the device follows.
type SubscriptionDTO struct {
	ID    uuid.UUID `json:"id"`
	Label string    `json:"label"`
}

// PairingDTO is what a screen receives after typing its code. Field names
// follow the device client contract.
type PairingDTO struct {
	DeviceID   uuid.UUID `json:"deviceId"`
	DeviceName string    `json:"deviceName"`
}

func NewDeviceDTO(d *models.Device) DeviceDTO {
	dto := DeviceDTO{
		ID:             d.ID,
		Name:           d.Name,
		PairingCode:    d.PairingCode,
		Orientation:    d.Orientation,
		DisplayMode:    d.DisplayMode,
		Families:       make([]SubscriptionDTO, 0, len(d.Families)),
		Advertisements: make([]SubscriptionDTO, 0, len(d.Advertisements)),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for _, f := range d.Families {
		dto.Families = append(dto.Families, SubscriptionDTO{ID: f.ID, Label: f.Name})
	}
	for _, ad := range d.Advertisements {
		dto.Advertisements = append(dto.Advertisements, SubscriptionDTO{ID: ad.ID, Label: ad.Description})
	}
	return dto
}
