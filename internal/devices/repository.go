package devices

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
)

// Repository persists devices and their subscriptions.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, device *models.Device) error {
	return r.db.WithContext(ctx).Omit("Families", "Advertisements").Create(device).Error
}

// SaveProfile updates the mutable scalar fields. Identifier and pairing code stay fixed.
func (r *Repository) SaveProfile(ctx context.Context, device *models.Device) error {
	return r.db.WithContext(ctx).
		Model(&models.Device{ID: device.ID}).
		Select("name", "orientation", "display_mode", "updated_at").
		Updates(device).Error
}

func (r *Repository) ReplaceFamilies(ctx context.Context, device *models.Device, families []models.ProductFamily) error {
	return r.db.WithContext(ctx).Model(device).Association("Families").Replace(families)
}

func (r *Repository) ReplaceAdvertisements(ctx context.Context, device *models.Device, ads []models.Advertisement) error {
	return r.db.WithContext(ctx).Model(device).Association("Advertisements").Replace(ads)
}

// withSubscriptions preloads families by name and advertisements in
// playlist order.
func (r *Repository) withSubscriptions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Families", func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") }).
		Preload("Advertisements", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC").Order("created_at ASC").Order("id ASC")
		})
}

// FindWithSubscriptions loads a device with its families and advertisements.
func (r *Repository) FindWithSubscriptions(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	var device models.Device
	err := r.withSubscriptions(ctx).First(&device, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *Repository) FindByPairingCode(ctx context.Context, code string) (*models.Device, error) {
	var device models.Device
	if err := r.db.WithContext(ctx).Where("pairing_code = ?", code).First(&device).Error; err != nil {
		return nil, err
	}
	return &device, nil
}

func (r *Repository) PairingCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Device{}).Where("pairing_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *Repository) List(ctx context.Context) ([]models.Device, error) {
	var rows []models.Device
	err := r.withSubscriptions(ctx).Order("name ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *Repository) FindFamilies(ctx context.Context, ids []uuid.UUID) ([]models.ProductFamily, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.ProductFamily
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

func (r *Repository) FindAdvertisements(ctx context.Context, ids []uuid.UUID) ([]models.Advertisement, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Advertisement
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error
	return rows, err
}

// Delete removes the device and its subscription links.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM device_families WHERE device_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM device_advertisements WHERE device_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Device{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
