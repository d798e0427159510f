package advertisements

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

const maxDurationSeconds = 600

// URLResolver maps stored media paths to public URLs.
type URLResolver interface {
	URL(path string) string
}

// Service manages the institutional videos interleaved with product offers.
type Service interface {
	CreateAdvertisement(ctx context.Context, input CreateAdvertisementInput) (*AdvertisementDTO, error)
	UpdateAdvertisement(ctx context.Context, id uuid.UUID, input UpdateAdvertisementInput) (*AdvertisementDTO, error)
	GetAdvertisement(ctx context.Context, id uuid.UUID) (*AdvertisementDTO, error)
	ListAdvertisements(ctx context.Context, activeOnly bool) ([]AdvertisementDTO, error)
	DeleteAdvertisement(ctx context.Context, id uuid.UUID) error
}

type CreateAdvertisementInput struct {
	Description     string
	VideoPath       string
	DurationSeconds int
	Order           int
	Active          *bool
}

type UpdateAdvertisementInput struct {
	Description     *string
	VideoPath       *string
	DurationSeconds *int
	Order           *int
	Active          *bool
}

type service struct {
	repo *Repository
	urls URLResolver
}

func NewService(repo *Repository, urls URLResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("advertisement repository required")
	}
	if urls == nil {
		return nil, fmt.Errorf("url resolver required")
	}
	return &service{repo: repo, urls: urls}, nil
}

func (s *service) CreateAdvertisement(ctx context.Context, input CreateAdvertisementInput) (*AdvertisementDTO, error) {
	ad := models.Advertisement{
		Description:     strings.TrimSpace(input.Description),
		VideoPath:       strings.TrimSpace(input.VideoPath),
		DurationSeconds: input.DurationSeconds,
		Order:           input.Order,
		Active:          true,
	}
	if input.Active != nil {
		ad.Active = *input.Active
	}
	if err := validateAdvertisement(&ad); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &ad); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert advertisement")
	}
	dto := NewAdvertisementDTO(&ad, s.urls)
	return &dto, nil
}

func (s *service) UpdateAdvertisement(ctx context.Context, id uuid.UUID, input UpdateAdvertisementInput) (*AdvertisementDTO, error) {
	ad, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		ad.Description = strings.TrimSpace(*input.Description)
	}
	if input.VideoPath != nil {
		ad.VideoPath = strings.TrimSpace(*input.VideoPath)
	}
	if input.DurationSeconds != nil {
		ad.DurationSeconds = *input.DurationSeconds
	}
	if input.Order != nil {
		ad.Order = *input.Order
	}
	if input.Active != nil {
		ad.Active = *input.Active
	}
	if err := validateAdvertisement(ad); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, ad); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update advertisement")
	}
	dto := NewAdvertisementDTO(ad, s.urls)
	return &dto, nil
}

func (s *service) GetAdvertisement(ctx context.Context, id uuid.UUID) (*AdvertisementDTO, error) {
	ad, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewAdvertisementDTO(ad, s.urls)
	return &dto, nil
}

func (s *service) ListAdvertisements(ctx context.Context, activeOnly bool) ([]AdvertisementDTO, error) {
	ads, err := s.repo.List(ctx, activeOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list advertisements")
	}
	out := make([]AdvertisementDTO, 0, len(ads))
	for i := range ads {
		out = append(out, NewAdvertisementDTO(&ads[i], s.urls))
	}
	return out, nil
}

func (s *service) DeleteAdvertisement(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete advertisement")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Advertisement, error) {
	ad, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "advertisement not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load advertisement")
	}
	return ad, nil
}

func validateAdvertisement(ad *models.Advertisement) error {
	details := map[string]string{}
	if ad.Description == "" {
		details["description"] = "is required"
	}
	if ad.VideoPath == "" {
		details["video_path"] = "is required"
	}
	if ad.DurationSeconds < 1 || ad.DurationSeconds > maxDurationSeconds {
		details["duration_seconds"] = fmt.Sprintf("must be between 1 and %d seconds", maxDurationSeconds)
	}
	if len(details) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, "invalid advertisement").WithDetails(details)
}
