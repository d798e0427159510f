package advertisements

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

type AdvertisementDTO struct {
	ID              uuid.UUID `json:"id"`
	Description     string    `json:"description"`
	VideoPath       string    `json:"video_path"`
	VideoURL        string    `json:"video_url"`
	DurationSeconds int       `json:"duration_seconds"`
	Order           int       `json:"order"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewAdvertisementDTO(ad *models.Advertisement, urls URLResolver) AdvertisementDTO {
	videoURL := ad.VideoPath
	if urls != nil {
		videoURL = urls.URL(ad.VideoPath)
	}
	return AdvertisementDTO{
		ID:              ad.ID,
		Description:     ad.Description,
		VideoPath:       ad.VideoPath,
		VideoURL:        videoURL,
		DurationSeconds: ad.DurationSeconds,
		Order:           ad.Order,
		Active:          ad.Active,
		CreatedAt:       ad.CreatedAt,
		UpdatedAt:       ad.UpdatedAt,
	}
}
