package controllers

import (
	"net/http"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	"github.com/angelmondragon/pricepanel-backend/api/validators"
	"github.com/angelmondragon/pricepanel-backend/internal/templates"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
)

type textLayoutRequest struct {
	Top      *int    `json:"top,omitempty"`
	Left     *int    `json:"left,omitempty"`
	Color    *string `json:"color,omitempty"`
	FontSize *string `json:"font_size,omitempty"`
}

type imageLayoutRequest struct {
	Top   *int `json:"top,omitempty"`
	Left  *int `json:"left,omitempty"`
	Width *int `json:"width,omitempty"`
}

type layoutRequest struct {
	Title          *textLayoutRequest  `json:"title,omitempty"`
	Price          *textLayoutRequest  `json:"price,omitempty"`
	Image          *imageLayoutRequest `json:"image,omitempty"`
	StyleOverrides map[string]string   `json:"style_overrides,omitempty"`
	ExtraElements  []map[string]any    `json:"extra_elements,omitempty"`
}

func (l layoutRequest) toInput() templates.LayoutInput {
	in := templates.LayoutInput{
		StyleOverrides: l.StyleOverrides,
		ExtraElements:  l.ExtraElements,
	}
	if l.Title != nil {
		in.TitleTop, in.TitleLeft, in.TitleColor, in.TitleFontSize = l.Title.Top, l.Title.Left, l.Title.Color, l.Title.FontSize
	}
	if l.Price != nil {
		in.PriceTop, in.PriceLeft, in.PriceColor, in.PriceFontSize = l.Price.Top, l.Price.Left, l.Price.Color, l.Price.FontSize
	}
	if l.Image != nil {
		in.ImageTop, in.ImageLeft, in.ImageWidth = l.Image.Top, l.Image.Left, l.Image.Width
	}
	return in
}

type createTemplateRequest struct {
	Name            string `json:"name" validate:"required,max=100"`
	VideoPath       string `json:"video_path" validate:"required,max=512"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"`
	layoutRequest
}

type updateTemplateRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,max=100"`
	VideoPath       *string `json:"video_path,omitempty" validate:"omitempty,max=512"`
	DurationSeconds *int    `json:"duration_seconds,omitempty"`
	layoutRequest
}

func AdminCreateTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "template service unavailable"))
			return
		}

		var payload createTemplateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tpl, err := svc.CreateTemplate(r.Context(), templates.CreateTemplateInput{
			Name:            payload.Name,
			VideoPath:       payload.VideoPath,
			DurationSeconds: payload.DurationSeconds,
			Layout:          payload.layoutRequest.toInput(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusCreated, "template created", tpl)
	}
}

// AdminUpdateTemplate applies metadata and layout edits from the visual editor.
func AdminUpdateTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "template service unavailable"))
			return
		}

		templateID, err := uuidParam(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateTemplateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tpl, err := svc.UpdateTemplate(r.Context(), templateID, templates.UpdateTemplateInput{
			Name:            payload.Name,
			VideoPath:       payload.VideoPath,
			DurationSeconds: payload.DurationSeconds,
			Layout:          payload.layoutRequest.toInput(),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusOK, "layout saved", tpl)
	}
}

func AdminGetTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "template service unavailable"))
			return
		}

		templateID, err := uuidParam(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		tpl, err := svc.GetTemplate(r.Context(), templateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, tpl)
	}
}

func AdminListTemplates(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "template service unavailable"))
			return
		}

		list, err := svc.ListTemplates(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminDeleteTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "template service unavailable"))
			return
		}

		templateID, err := uuidParam(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteTemplate(r.Context(), templateID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteMutation(w, http.StatusOK, "template deleted", map[string]string{"id": templateID.String()})
	}
}

// AdminPreviewTemplate renders the template over its exemplar product.
func AdminPreviewTemplate(svc templates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "template service unavailable"))
			return
		}

		templateID, err := uuidParam(r, "templateId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		preview, err := svc.Preview(r.Context(), templateID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, preview)
	}
}
