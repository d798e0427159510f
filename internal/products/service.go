package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db"
	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/pagination"
)

const duplicateCodeMessage = "a product with this code already exists"

// Service exposes catalog management for the admin API and the ingestion pipeline.
type Service interface {
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	ListFamilies(ctx context.Context) ([]FamilyDTO, error)
	GetOrCreateFamily(ctx context.Context, name string) (*models.ProductFamily, error)
	UpsertByCode(ctx context.Context, row CatalogRow) (UpsertOutcome, error)
}

type CreateProductInput struct {
	Code            string
	Description     string
	Price           decimal.Decimal
	FamilyID        *uuid.UUID
	FamilyName      string
	ImagePath       *string
	DisplayOrder    int
	OnPanel         *bool
	OnOffer         bool
	VideoTemplateID *uuid.UUID
}

// UpdateProductInput holds optional mutations; nil fields are left untouched.
type UpdateProductInput struct {
	Description     *string
	Price           *decimal.Decimal
	FamilyID        *uuid.UUID
	ImagePath       *string
	DisplayOrder    *int
	OnPanel         *bool
	OnOffer         *bool
	SetTemplate     bool
	VideoTemplateID *uuid.UUID
}

type ListProductsInput struct {
	FamilyID   *uuid.UUID
	OnPanel    *bool
	Query      string
	Pagination pagination.Params
}

type ProductListResult struct {
	Products   []ProductDTO `json:"products"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type templateChecker interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type service struct {
	repo      *Repository
	templates templateChecker
}

// NewService constructs a product service instance.
func NewService(repo *Repository, templates templateChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if templates == nil {
		return nil, fmt.Errorf("template checker required")
	}
	return &service{repo: repo, templates: templates}, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	code := strings.TrimSpace(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "description is required")
	}
	if err := checkCatalogFields(code, description); err != nil {
		return nil, err
	}
	price, err := normalizePrice(input.Price)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, duplicateCodeMessage)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product code")
	}

	family, err := s.resolveFamily(ctx, input.FamilyID, input.FamilyName)
	if err != nil {
		return nil, err
	}
	if err := s.ensureTemplate(ctx, input.VideoTemplateID); err != nil {
		return nil, err
	}

	onPanel := true
	if input.OnPanel != nil {
		onPanel = *input.OnPanel
	}

	product := &models.Product{
		Code:            code,
		Description:     description,
		Price:           price,
		FamilyID:        family.ID,
		ImagePath:       trimOptional(input.ImagePath),
		DisplayOrder:    input.DisplayOrder,
		OnPanel:         onPanel,
		OnOffer:         input.OnOffer,
		VideoTemplateID: input.VideoTemplateID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, duplicateCodeMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	product.Family = family
	return NewProductDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "description cannot be empty")
		}
		if err := checkLength("description", description, MaxDescriptionLength); err != nil {
			return nil, err
		}
		product.Description = description
	}
	if input.Price != nil {
		price, err := normalizePrice(*input.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if input.FamilyID != nil {
		family, err := s.resolveFamily(ctx, input.FamilyID, "")
		if err != nil {
			return nil, err
		}
		product.FamilyID = family.ID
		product.Family = family
	}
	if input.ImagePath != nil {
		product.ImagePath = trimOptional(input.ImagePath)
	}
	if input.DisplayOrder != nil {
		product.DisplayOrder = *input.DisplayOrder
	}
	if input.OnPanel != nil {
		product.OnPanel = *input.OnPanel
	}
	if input.OnOffer != nil {
		product.OnOffer = *input.OnOffer
	}
	if input.SetTemplate {
		if err := s.ensureTemplate(ctx, input.VideoTemplateID); err != nil {
			return nil, err
		}
		product.VideoTemplateID = input.VideoTemplateID
	}

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return NewProductDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewProductDTO(product), nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)

	rows, err := s.repo.List(ctx, ListFilter{
		FamilyID: input.FamilyID,
		OnPanel:  input.OnPanel,
		Query:    input.Query,
	}, cursor, pagination.LimitWithBuffer(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	rows, next := pagination.Page(rows, limit, func(p models.Product) pagination.Cursor {
		return pagination.Cursor{Key: p.Description, ID: p.ID}
	})
	result := &ProductListResult{Products: make([]ProductDTO, 0, len(rows)), NextCursor: next}
	for i := range rows {
		result.Products = append(result.Products, *NewProductDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) ListFamilies(ctx context.Context) ([]FamilyDTO, error) {
	rows, err := s.repo.ListFamilies(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list families")
	}
	out := make([]FamilyDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewFamilyDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) resolveFamily(ctx context.Context, id *uuid.UUID, name string) (*models.ProductFamily, error) {
	if id != nil {
		family, err := s.repo.FindFamilyByID(ctx, *id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "family not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load family")
		}
		return family, nil
	}
	if strings.TrimSpace(name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "family is required")
	}
	return s.GetOrCreateFamily(ctx, name)
}

func (s *service) ensureTemplate(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.templates.Exists(ctx, *id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load video template")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "video template not found")
	}
	return nil
}

func normalizePrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	price = price.Round(2)
	if price.GreaterThan(MaxPrice) {
		return decimal.Decimal{}, pkgerrors.Newf(pkgerrors.CodeValidation, "price exceeds %s", MaxPrice.StringFixed(2))
	}
	return price, nil
}

func trimOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
