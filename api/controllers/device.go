package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	"github.com/angelmondragon/pricepanel-backend/api/validators"
	"github.com/angelmondragon/pricepanel-backend/internal/devices"
	"github.com/angelmondragon/pricepanel-backend/internal/playlist"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

const maxPairingBody = 1 << 10

// PairingResolver is the slice of the device service the TV client can reach.
type PairingResolver interface {
	ResolvePairing(ctx context.Context, code string) (*devices.PairingDTO, error)
}

type pairingRequest struct {
	Code string `json:"code"`
}

// ResolvePairing answers the TV pairing screen with {"deviceId","deviceName"}.
func ResolvePairing(svc PairingResolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteDeviceError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pairing unavailable"))
			return
		}

		var body pairingRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, maxPairingBody)).Decode(&body); err != nil {
			responses.WriteDeviceError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request body"))
			return
		}

		// blank codes resolve to "invalid code" like any other miss
		code := validators.SanitizeString(body.Code, devices.PairingCodeLength*2)
		result, err := svc.ResolvePairing(r.Context(), code)
		if err != nil {
			responses.WriteDeviceError(r.Context(), logg, w, err)
			return
		}
		responses.WriteDevice(w, http.StatusOK, result)
	}
}

// DevicePlaylist serves the composed playlist a screen polls for.
func DevicePlaylist(composer playlist.Composer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if composer == nil {
			responses.WriteDeviceError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "playlist unavailable"))
			return
		}

		raw := strings.TrimSpace(chi.URLParam(r, "deviceId"))
		deviceID, err := uuid.Parse(raw)
		if err != nil {
			responses.WriteDeviceError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, playlist.DeviceNotFoundMessage))
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithDeviceID(ctx, deviceID.String())
		}

		result, err := composer.ComposePlaylist(ctx, deviceID)
		if err != nil {
			responses.WriteDeviceError(ctx, logg, w, err)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		responses.WriteDevice(w, http.StatusOK, result)
	}
}
