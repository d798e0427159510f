package advertisements

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

// Repository persists institutional videos.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, ad *models.Advertisement) error {
	return r.db.WithContext(ctx).Create(ad).Error
}

func (r *Repository) Save(ctx context.Context, ad *models.Advertisement) error {
	return r.db.WithContext(ctx).Save(ad).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Advertisement, error) {
	var ad models.Advertisement
	if err := r.db.WithContext(ctx).First(&ad, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ad, nil
}

// FindByIDs returns the advertisements matching ids; unknown ids are ignored.
func (r *Repository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Advertisement, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ads []models.Advertisement
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&ads).Error
	return ads, err
}

// List returns ads in playlist enumeration order: sort_order, created_at, id.
func (r *Repository) List(ctx context.Context, activeOnly bool) ([]models.Advertisement, error) {
	q := r.db.WithContext(ctx).Model(&models.Advertisement{})
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var ads []models.Advertisement
	err := q.Order("sort_order ASC").Order("created_at ASC").Order("id ASC").Find(&ads).Error
	return ads, err
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM device_advertisements WHERE advertisement_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Advertisement{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
