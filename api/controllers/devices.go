package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	"github.com/angelmondragon/pricepanel-backend/api/validators"
	"github.com/angelmondragon/pricepanel-backend/internal/devices"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

type createDeviceRequest struct {
	Name             string      `json:"name" validate:"required,max=100"`
	Orientation      string      `json:"orientation,omitempty" validate:"omitempty,oneof=horizontal vertical_left vertical_right"`
	DisplayMode      string      `json:"display_mode,omitempty" validate:"omitempty,oneof=table video mixed"`
	FamilyIDs        []uuid.UUID `json:"family_ids,omitempty"`
	AdvertisementIDs []uuid.UUID `json:"advertisement_ids,omitempty"`
}

type updateDeviceRequest struct {
	Name             *string      `json:"name,omitempty" validate:"omitempty,max=100"`
	Orientation      *string      `json:"orientation,omitempty" validate:"omitempty,oneof=horizontal vertical_left vertical_right"`
	DisplayMode      *string      `json:"display_mode,omitempty" validate:"omitempty,oneof=table video mixed"`
	FamilyIDs        *[]uuid.UUID `json:"family_ids,omitempty"`
	AdvertisementIDs *[]uuid.UUID `json:"advertisement_ids,omitempty"`
}

// AdminCreateDevice registers a screen and returns its generated pairing code.
func AdminCreateDevice(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		var payload createDeviceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		device, err := svc.CreateDevice(r.Context(), devices.CreateDeviceInput{
			Name:             validators.SanitizeString(payload.Name, 120),
			Orientation:      payload.Orientation,
			DisplayMode:      payload.DisplayMode,
			FamilyIDs:        payload.FamilyIDs,
			AdvertisementIDs: payload.AdvertisementIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusCreated, "device created", device)
	}
}

// AdminUpdateDevice edits the profile and subscriptions; id and pairing code stay fixed.
func AdminUpdateDevice(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		deviceID, err := uuidParam(r, "deviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateDeviceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		device, err := svc.UpdateDevice(r.Context(), deviceID, devices.UpdateDeviceInput{
			Name:             payload.Name,
			Orientation:      payload.Orientation,
			DisplayMode:      payload.DisplayMode,
			FamilyIDs:        payload.FamilyIDs,
			AdvertisementIDs: payload.AdvertisementIDs,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusOK, "device updated", device)
	}
}

func AdminGetDevice(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		deviceID, err := uuidParam(r, "deviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		device, err := svc.GetDevice(r.Context(), deviceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, device)
	}
}

func AdminListDevices(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		list, err := svc.ListDevices(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminDeleteDevice(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		deviceID, err := uuidParam(r, "deviceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteDevice(r.Context(), deviceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusOK, "device deleted", map[string]string{"id": deviceID.String()})
	}
}
