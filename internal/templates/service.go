package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/types"
)

// Service manages video templates and the editor preview.
type Service interface {
	CreateTemplate(ctx context.Context, input CreateTemplateInput) (*TemplateDTO, error)
	UpdateTemplate(ctx context.Context, id uuid.UUID, input UpdateTemplateInput) (*TemplateDTO, error)
	GetTemplate(ctx context.Context, id uuid.UUID) (*TemplateDTO, error)
	ListTemplates(ctx context.Context) ([]TemplateDTO, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error
	Preview(ctx context.Context, id uuid.UUID) (*PreviewDTO, error)
}

type CreateTemplateInput struct {
	Name            string
	VideoPath       string
	DurationSeconds *int
	Layout          LayoutInput
}

// LayoutInput carries the editable geometry; nil fields keep their current value.
type LayoutInput struct {
	TitleTop       *int
	TitleLeft      *int
	TitleColor     *string
	TitleFontSize  *string
	PriceTop       *int
	PriceLeft      *int
	PriceColor     *string
	PriceFontSize  *string
	ImageTop       *int
	ImageLeft      *int
	ImageWidth     *int
	StyleOverrides map[string]string
	ExtraElements  []map[string]any
}

type UpdateTemplateInput struct {
	Name            *string
	VideoPath       *string
	DurationSeconds *int
	Layout          LayoutInput
}

type exemplarFinder interface {
	FirstUsingTemplate(ctx context.Context, templateID uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     *Repository
	products exemplarFinder
	urls     URLResolver
}

func NewService(repo *Repository, products exemplarFinder, urls URLResolver) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("template repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if urls == nil {
		return nil, fmt.Errorf("url resolver required")
	}
	return &service{repo: repo, products: products, urls: urls}, nil
}

func (s *service) CreateTemplate(ctx context.Context, input CreateTemplateInput) (*TemplateDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	videoPath := strings.TrimSpace(input.VideoPath)
	if videoPath == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "video_path is required")
	}

	tpl := models.NewVideoTemplate(name, videoPath)
	if input.DurationSeconds != nil {
		tpl.DurationSeconds = *input.DurationSeconds
	}
	applyLayout(&tpl, input.Layout)
	if err := ValidateGeometry(&tpl); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, &tpl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert video template")
	}
	dto := NewTemplateDTO(&tpl, s.urls)
	return &dto, nil
}

func (s *service) UpdateTemplate(ctx context.Context, id uuid.UUID, input UpdateTemplateInput) (*TemplateDTO, error) {
	tpl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		tpl.Name = name
	}
	if input.VideoPath != nil {
		videoPath := strings.TrimSpace(*input.VideoPath)
		if videoPath == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "video_path cannot be empty")
		}
		tpl.VideoPath = videoPath
	}
	if input.DurationSeconds != nil {
		tpl.DurationSeconds = *input.DurationSeconds
	}
	applyLayout(tpl, input.Layout)
	if err := ValidateGeometry(tpl); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, tpl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update video template")
	}
	dto := NewTemplateDTO(tpl, s.urls)
	return &dto, nil
}

func (s *service) GetTemplate(ctx context.Context, id uuid.UUID) (*TemplateDTO, error) {
	tpl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewTemplateDTO(tpl, s.urls)
	return &dto, nil
}

func (s *service) ListTemplates(ctx context.Context) ([]TemplateDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list video templates")
	}
	out := make([]TemplateDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewTemplateDTO(&rows[i], s.urls))
	}
	return out, nil
}

func (s *service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "video template not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete video template")
	}
	return nil
}

// Preview renders the template with the first product that uses it, or the placeholder.
func (s *service) Preview(ctx context.Context, id uuid.UUID) (*PreviewDTO, error) {
	tpl, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	exemplar := Placeholder()
	isPlaceholder := true
	product, err := s.products.FirstUsingTemplate(ctx, id)
	switch {
	case err == nil:
		exemplar = FromProduct(product)
		isPlaceholder = false
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load exemplar product")
	}

	return &PreviewDTO{
		Template:    NewTemplateDTO(tpl, s.urls),
		Exemplar:    newExemplarDTO(exemplar, s.urls),
		Overlay:     RenderOverlay(exemplar, tpl, s.urls),
		Placeholder: isPlaceholder,
	}, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.VideoTemplate, error) {
	tpl, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "video template not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load video template")
	}
	return tpl, nil
}

func applyLayout(tpl *models.VideoTemplate, in LayoutInput) {
	setInt(&tpl.TitleTop, in.TitleTop)
	setInt(&tpl.TitleLeft, in.TitleLeft)
	setString(&tpl.TitleColor, in.TitleColor)
	setString(&tpl.TitleFontSize, in.TitleFontSize)
	setInt(&tpl.PriceTop, in.PriceTop)
	setInt(&tpl.PriceLeft, in.PriceLeft)
	setString(&tpl.PriceColor, in.PriceColor)
	setString(&tpl.PriceFontSize, in.PriceFontSize)
	setInt(&tpl.ImageTop, in.ImageTop)
	setInt(&tpl.ImageLeft, in.ImageLeft)
	setInt(&tpl.ImageWidth, in.ImageWidth)
	if in.StyleOverrides != nil {
		tpl.StyleOverrides = types.StyleMap(in.StyleOverrides)
	}
	if in.ExtraElements != nil {
		tpl.ExtraElements = types.ElementList(in.ExtraElements)
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
