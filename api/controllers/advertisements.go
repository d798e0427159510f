package controllers

import (
	"net/http"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	"github.com/angelmondragon/pricepanel-backend/api/validators"
	"github.com/angelmondragon/pricepanel-backend/internal/advertisements"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

type createAdvertisementRequest struct {
	Description     string `json:"description" validate:"required,max=200"`
	VideoPath       string `json:"video_path" validate:"required,max=512"`
	DurationSeconds int    `json:"duration_seconds" validate:"required,min=1"`
	Order           int    `json:"order"`
	Active          *bool  `json:"active,omitempty"`
}

type updateAdvertisementRequest struct {
	Description     *string `json:"description,omitempty" validate:"omitempty,max=200"`
	VideoPath       *string `json:"video_path,omitempty" validate:"omitempty,max=512"`
	DurationSeconds *int    `json:"duration_seconds,omitempty" validate:"omitempty,min=1"`
	Order           *int    `json:"order,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

func AdminCreateAdvertisement(svc advertisements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "advertisement service unavailable"))
			return
		}

		var payload createAdvertisementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ad, err := svc.CreateAdvertisement(r.Context(), advertisements.CreateAdvertisementInput{
			Description:     payload.Description,
			VideoPath:       payload.VideoPath,
			DurationSeconds: payload.DurationSeconds,
			Order:           payload.Order,
			Active:          payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusCreated, "advertisement created", ad)
	}
}

func AdminUpdateAdvertisement(svc advertisements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "advertisement service unavailable"))
			return
		}

		adID, err := uuidParam(r, "advertisementId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateAdvertisementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ad, err := svc.UpdateAdvertisement(r.Context(), adID, advertisements.UpdateAdvertisementInput{
			Description:     payload.Description,
			VideoPath:       payload.VideoPath,
			DurationSeconds: payload.DurationSeconds,
			Order:           payload.Order,
			Active:          payload.Active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusOK, "advertisement updated", ad)
	}
}

func AdminGetAdvertisement(svc advertisements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "advertisement service unavailable"))
			return
		}

		adID, err := uuidParam(r, "advertisementId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ad, err := svc.GetAdvertisement(r.Context(), adID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, ad)
	}
}

// AdminListAdvertisements lists every video; ?active=true narrows to active ones.
func AdminListAdvertisements(svc advertisements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "advertisement service unavailable"))
			return
		}

		active, err := validators.ParseQueryBool(r, "active")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListAdvertisements(r.Context(), active != nil && *active)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminDeleteAdvertisement(svc advertisements.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "advertisement service unavailable"))
			return
		}

		adID, err := uuidParam(r, "advertisementId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteAdvertisement(r.Context(), adID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusOK, "advertisement deleted", map[string]string{"id": adID.String()})
	}
}
