package templates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

// Repository persists video templates.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, tpl *models.VideoTemplate) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *Repository) Save(ctx context.Context, tpl *models.VideoTemplate) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.VideoTemplate, error) {
	var tpl models.VideoTemplate
	if err := r.db.WithContext(ctx).First(&tpl, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

// Exists reports whether a template with id is stored.
func (r *Repository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.VideoTemplate{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) List(ctx context.Context) ([]models.VideoTemplate, error) {
	var rows []models.VideoTemplate
	err := r.db.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

// Delete unlinks products from the template and removes it.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("video_template_id = ?", id).
		Update("video_template_id", nil).Error; err != nil {
		return err
	}
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.VideoTemplate{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
