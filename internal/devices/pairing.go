package devices

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/security"
)

const (
	PairingCodeLength   = 6
	PairingCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NormalizePairingCode trims and uppercases what a user typed on the screen.
func NormalizePairingCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func generatePairingCode() (string, error) {
	return security.RandomString(PairingCodeAlphabet, PairingCodeLength)
}

// ResolvePairing maps a typed code to the device identifier. Codes are
// durable: resolving has no side effects and can be repeated.
func (s *service) ResolvePairing(ctx context.Context, code string) (*PairingDTO, error) {
	normalized := NormalizePairingCode(code)
	if normalized == "" {
		s.metrics.PairingResolved(false)
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid code")
	}

	device, err := s.repo.FindByPairingCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.PairingResolved(false)
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invalid code")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup pairing code")
	}

	s.metrics.PairingResolved(true)
	return &PairingDTO{DeviceID: device.ID, DeviceName: device.Name}, nil
}
