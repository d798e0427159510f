package devices

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepanel-backend/pkg/db"
	"github.com/angelmondragon/pricepanel-backend/pkg/db/models"
	"github.com/angelmondragon/pricepanel-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/metrics"
)

// Service manages screens and resolves their pairing codes.
type Service interface {
	CreateDevice(ctx context.Context, input CreateDeviceInput) (*DeviceDTO, error)
	UpdateDevice(ctx context.Context, id uuid.UUID, input UpdateDeviceInput) (*DeviceDTO, error)
	GetDevice(ctx context.Context, id uuid.UUID) (*DeviceDTO, error)
	ListDevices(ctx context.Context) ([]DeviceDTO, error)
	DeleteDevice(ctx context.Context, id uuid.UUID) error
	ResolvePairing(ctx context.Context, code string) (*PairingDTO, error)
}

type CreateDeviceInput struct {
	Name             string
	Orientation      string
	DisplayMode      string
	FamilyIDs        []uuid.UUID
	AdvertisementIDs []uuid.UUID
}

// UpdateDeviceInput holds optional changes. A non-nil slice replaces the
// whole subscription set; an empty one clears it.
type UpdateDeviceInput struct {
	Name             *string
	Orientation      *string
	DisplayMode      *string
	FamilyIDs        *[]uuid.UUID
	AdvertisementIDs *[]uuid.UUID
}

type service struct {
	repo     *Repository
	tx       txRunner
	logg     *logger.Logger
	metrics  *metrics.PanelMetrics
	generate func() (string, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// NewService constructs a device service. m may be nil.
func NewService(repo *Repository, tx txRunner, logg *logger.Logger, m *metrics.PanelMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("device repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		logg:     logg,
		metrics:  m,
		generate: generatePairingCode,
	}, nil
}

func (s *service) CreateDevice(ctx context.Context, input CreateDeviceInput) (*DeviceDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	orientation := enums.OrientationHorizontal
	if input.Orientation != "" {
		parsed, err := enums.ParseOrientation(input.Orientation)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid orientation")
		}
		orientation = parsed
	}
	mode := enums.DisplayModeMixed
	if input.DisplayMode != "" {
		parsed, err := enums.ParseDisplayMode(input.DisplayMode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid display mode")
		}
		mode = parsed
	}

	families, err := s.resolveFamilies(ctx, input.FamilyIDs)
	if err != nil {
		return nil, err
	}
	ads, err := s.resolveAdvertisements(ctx, input.AdvertisementIDs)
	if err != nil {
		return nil, err
	}

	device := models.Device{
		Name:        name,
		Orientation: orientation,
		DisplayMode: mode,
	}
	if err := s.insertWithUniqueCode(ctx, &device, families, ads); err != nil {
		return nil, err
	}

	ctx = s.logg.WithDeviceID(ctx, device.ID.String())
	s.logg.Info(ctx, "device.created")
	return s.GetDevice(ctx, device.ID)
}

// insertWithUniqueCode draws pairing codes until one is free, then stores the
// device and its subscriptions in one transaction. The pre-check keeps
// retries cheap; the unique index settles races between creators, and a
// collision there restarts the whole transaction with a fresh code.
func (s *service) insertWithUniqueCode(ctx context.Context, device *models.Device, families []models.ProductFamily, ads []models.Advertisement) error {
	for {
		if err := ctx.Err(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate pairing code")
		}
		code, err := s.generate()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate pairing code")
		}
		taken, err := s.repo.PairingCodeExists(ctx, code)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check pairing code")
		}
		if taken {
			continue
		}

		device.ID = uuid.Nil
		device.PairingCode = code
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			repo := s.repo.WithTx(tx)
			if err := repo.Create(ctx, device); err != nil {
				return err
			}
			if len(families) > 0 {
				if err := repo.ReplaceFamilies(ctx, device, families); err != nil {
					return err
				}
			}
			if len(ads) > 0 {
				return repo.ReplaceAdvertisements(ctx, device, ads)
			}
			return nil
		})
		if err == nil {
			return nil
		}
		if db.IsUniqueViolation(err, "devices_pairing_code_key") {
			continue
		}
		device.ID = uuid.Nil
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert device")
	}
}

func (s *service) UpdateDevice(ctx context.Context, id uuid.UUID, input UpdateDeviceInput) (*DeviceDTO, error) {
	device, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		device.Name = name
	}
	if input.Orientation != nil {
		parsed, err := enums.ParseOrientation(*input.Orientation)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid orientation")
		}
		device.Orientation = parsed
	}
	if input.DisplayMode != nil {
		parsed, err := enums.ParseDisplayMode(*input.DisplayMode)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid display mode")
		}
		device.DisplayMode = parsed
	}

	var families *[]models.ProductFamily
	if input.FamilyIDs != nil {
		resolved, err := s.resolveFamilies(ctx, *input.FamilyIDs)
		if err != nil {
			return nil, err
		}
		families = &resolved
	}
	var ads *[]models.Advertisement
	if input.AdvertisementIDs != nil {
		resolved, err := s.resolveAdvertisements(ctx, *input.AdvertisementIDs)
		if err != nil {
			return nil, err
		}
		ads = &resolved
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.SaveProfile(ctx, device); err != nil {
			return err
		}
		if families != nil {
			if err := repo.ReplaceFamilies(ctx, device, *families); err != nil {
				return err
			}
		}
		if ads != nil {
			if err := repo.ReplaceAdvertisements(ctx, device, *ads); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update device")
	}
	return s.GetDevice(ctx, id)
}

func (s *service) GetDevice(ctx context.Context, id uuid.UUID) (*DeviceDTO, error) {
	device, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewDeviceDTO(device)
	return &dto, nil
}

func (s *service) ListDevices(ctx context.Context) ([]DeviceDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list devices")
	}
	out := make([]DeviceDTO, 0, len(rows))
	for i := range rows {
		out = append(out, NewDeviceDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) DeleteDevice(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete device")
	}
	s.logg.Info(s.logg.WithDeviceID(ctx, id.String()), "device.deleted")
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Device, error) {
	device, err := s.repo.FindWithSubscriptions(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "device not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load device")
	}
	return device, nil
}

func (s *service) resolveFamilies(ctx context.Context, ids []uuid.UUID) ([]models.ProductFamily, error) {
	ids = dedupe(ids)
	rows, err := s.repo.FindFamilies(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load families")
	}
	if len(rows) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown family in subscription list")
	}
	return rows, nil
}

func (s *service) resolveAdvertisements(ctx context.Context, ids []uuid.UUID) ([]models.Advertisement, error) {
	ids = dedupe(ids)
	rows, err := s.repo.FindAdvertisements(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load advertisements")
	}
	if len(rows) != len(ids) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown advertisement in subscription list")
	}
	return rows, nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
