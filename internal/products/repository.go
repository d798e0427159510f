package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	"github.com/angelmondragon/pricepanel-backend/pkg/pagination"
)

// Repository persists families and products.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) FindFamilyByName(ctx context.Context, name string) (*models.ProductFamily, error) {
	var family models.ProductFamily
	if err := r.db.WithContext(ctx).First(&family, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *Repository) FindFamilyByID(ctx context.Context, id uuid.UUID) (*models.ProductFamily, error) {
	var family models.ProductFamily
	if err := r.db.WithContext(ctx).First(&family, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &family, nil
}

func (r *Repository) FindFamiliesByIDs(ctx context.Context, ids []uuid.UUID) ([]models.ProductFamily, error) {
	var rows []models.ProductFamily
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("name ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) CreateFamily(ctx context.Context, family *models.ProductFamily) error {
	return r.db.WithContext(ctx).Create(family).Error
}

func (r *Repository) ListFamilies(ctx context.Context) ([]models.ProductFamily, error) {
	var rows []models.ProductFamily
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// FindByID loads the product with its family.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Family").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Save writes every column of product, including zero values.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit("Family", "VideoTemplate").Save(product).Error
}

// UpdateCatalogFields touches only the columns owned by spreadsheet imports.
func (r *Repository) UpdateCatalogFields(ctx context.Context, id uuid.UUID, row CatalogRow, familyID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"description": row.Description,
			"price":       row.Price,
			"family_id":   familyID,
		}).Error
}

// Delete removes the product and reports gorm.ErrRecordNotFound when nothing matched.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListFilter narrows the admin product listing.
type ListFilter struct {
	FamilyID *uuid.UUID
	OnPanel  *bool
	Query    string
}

// List pages products ordered by (description, id).
func (r *Repository) List(ctx context.Context, filter ListFilter, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{}).Preload("Family")
	if filter.FamilyID != nil {
		q = q.Where("family_id = ?", *filter.FamilyID)
	}
	if filter.OnPanel != nil {
		q = q.Where("on_panel = ?", *filter.OnPanel)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToUpper(term) + "%"
		q = q.Where("(UPPER(description) LIKE ? OR UPPER(code) LIKE ?)", like, like)
	}
	if cursor != nil {
		q = q.Where("(description > ?) OR (description = ? AND id > ?)", cursor.Key, cursor.Key, cursor.ID)
	}

	var rows []models.Product
	err := q.Order("description ASC").Order("id ASC").Limit(limit).Find(&rows).Error
	return rows, err
}

// ListForPanel returns on-panel products, restricted to familyIDs when non-empty,
// ordered by family name then description. Family and template are preloaded.
func (r *Repository) ListForPanel(ctx context.Context, familyIDs []uuid.UUID) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN product_families ON product_families.id = products.family_id").
		Preload("Family").
		Preload("VideoTemplate").
		Where("products.on_panel = ?", true)
	if len(familyIDs) > 0 {
		q = q.Where("products.family_id IN ?", familyIDs)
	}

	var rows []models.Product
	err := q.Order("product_families.name ASC").
		Order("products.description ASC").
		Order("products.id ASC").
		Find(&rows).Error
	return rows, err
}

// FirstUsingTemplate returns the earliest product linked to the template.
func (r *Repository) FirstUsingTemplate(ctx context.Context, templateID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Family").
		Where("video_template_id = ?", templateID).
		Order("created_at ASC").
		Order("id ASC").
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}
