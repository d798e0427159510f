package products

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db"
	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
)

// CatalogRow is one normalized spreadsheet line.
type CatalogRow struct {
	Code        string
	Description string
	Price       decimal.Decimal
	Family      string
}

type UpsertOutcome int

const (
	UpsertCreated UpsertOutcome = iota + 1
	UpsertUpdated
)

func (o UpsertOutcome) String() string {
	switch o {
	case UpsertCreated:
		return "created"
	case UpsertUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// NormalizeFamilyName trims and uppercases a family label.
func NormalizeFamilyName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// GetOrCreateFamily returns the family with the normalized name, creating it on first sighting.
func (s *service) GetOrCreateFamily(ctx context.Context, name string) (*models.ProductFamily, error) {
	normalized := NormalizeFamilyName(name)
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "family name is required")
	}
	if err := checkLength("family", normalized, MaxFamilyNameLength); err != nil {
		return nil, err
	}

	family, err := s.repo.FindFamilyByName(ctx, normalized)
	if err == nil {
		return family, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup family")
	}

	family = &models.ProductFamily{Name: normalized}
	if err := s.repo.CreateFamily(ctx, family); err != nil {
		if db.IsUniqueViolation(err, "") {
			// created concurrently
			existing, findErr := s.repo.FindFamilyByName(ctx, normalized)
			if findErr == nil {
				return existing, nil
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "reload family")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert family")
	}
	return family, nil
}

// UpsertByCode creates the product or updates its description, price and family.
// Presentation fields (order, template, flags, image) are never touched here.
func (s *service) UpsertByCode(ctx context.Context, row CatalogRow) (UpsertOutcome, error) {
	code := strings.TrimSpace(row.Code)
	if code == "" {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}
	row.Description = strings.TrimSpace(row.Description)
	if err := checkCatalogFields(code, row.Description); err != nil {
		return 0, err
	}
	price, err := normalizePrice(row.Price)
	if err != nil {
		return 0, err
	}
	row.Code = code
	row.Price = price

	family, err := s.GetOrCreateFamily(ctx, row.Family)
	if err != nil {
		return 0, err
	}

	existing, err := s.repo.FindByCode(ctx, code)
	switch {
	case err == nil:
		return s.updateCatalogRow(ctx, existing, row, family)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product code")
	}

	product := &models.Product{
		Code:        code,
		Description: row.Description,
		Price:       price,
		FamilyID:    family.ID,
		OnPanel:     true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if !db.IsUniqueViolation(err, "") {
			return 0, catalogWriteError(err, "db: insert product")
		}
		// lost a race with a concurrent import; last write wins
		existing, findErr := s.repo.FindByCode(ctx, code)
		if findErr != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, findErr, "reload product")
		}
		return s.updateCatalogRow(ctx, existing, row, family)
	}
	return UpsertCreated, nil
}

func (s *service) updateCatalogRow(ctx context.Context, existing *models.Product, row CatalogRow, family *models.ProductFamily) (UpsertOutcome, error) {
	if err := s.repo.UpdateCatalogFields(ctx, existing.ID, row, family.ID); err != nil {
		return 0, catalogWriteError(err, "db: update product")
	}
	return UpsertUpdated, nil
}

// catalogWriteError reports values the database refused to store as
// validation errors so a catalog import skips only the offending row.
func catalogWriteError(err error, msg string) error {
	if db.IsDataException(err) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "value does not fit the catalog columns")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}
