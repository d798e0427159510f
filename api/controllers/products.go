package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pricepanel-backend/api/responses"
	"github.com/angelmondragon/pricepanel-backend/api/validators"
	productsvc "github.com/angelmondragon/pricepanel-backend/internal/products"
	pkgerrors "github.com/angelmondragon/pricepanel-backend/pkg/errors"
	"github.com/angelmondragon/pricepanel-backend/pkg/logger"
	"github.com/angelmondragon/pricepanel-backend/pkg/pagination"
	"github.com/angelmondragon/pricepanel-backend/pkg/types"
)

type createProductRequest struct {
	Code            string           `json:"code" validate:"required,max=50"`
	Description     string           `json:"description" validate:"required,max=200"`
	Price           *decimal.Decimal `json:"price" validate:"required,gte=0"`
	FamilyID        *uuid.UUID       `json:"family_id,omitempty"`
	FamilyName      string           `json:"family,omitempty" validate:"omitempty,max=100"`
	ImagePath       *string          `json:"image_path,omitempty"`
	DisplayOrder    int              `json:"display_order" validate:"min=0"`
	OnPanel         *bool            `json:"on_panel,omitempty"`
	OnOffer         bool             `json:"on_offer"`
	VideoTemplateID *uuid.UUID       `json:"video_template_id,omitempty"`
}

func (r createProductRequest) toInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		Code:            r.Code,
		Description:     r.Description,
		Price:           *r.Price,
		FamilyID:        r.FamilyID,
		FamilyName:      r.FamilyName,
		ImagePath:       r.ImagePath,
		DisplayOrder:    r.DisplayOrder,
		OnPanel:         r.OnPanel,
		OnOffer:         r.OnOffer,
		VideoTemplateID: r.VideoTemplateID,
	}
}

type updateProductRequest struct {
	Description     *string                `json:"description,omitempty" validate:"omitempty,max=200"`
	Price           *decimal.Decimal       `json:"price,omitempty" validate:"omitempty,gte=0"`
	FamilyID        *uuid.UUID             `json:"family_id,omitempty"`
	ImagePath       *string                `json:"image_path,omitempty"`
	DisplayOrder    *int                   `json:"display_order,omitempty" validate:"omitempty,min=0"`
	OnPanel         *bool                  `json:"on_panel,omitempty"`
	OnOffer         *bool                  `json:"on_offer,omitempty"`
	VideoTemplateID types.Patch[uuid.UUID] `json:"video_template_id"`
}

func (r updateProductRequest) toInput() productsvc.UpdateProductInput {
	return productsvc.UpdateProductInput{
		Description:     r.Description,
		Price:           r.Price,
		FamilyID:        r.FamilyID,
		ImagePath:       r.ImagePath,
		DisplayOrder:    r.DisplayOrder,
		OnPanel:         r.OnPanel,
		OnOffer:         r.OnOffer,
		SetTemplate:     r.VideoTemplateID.Set,
		VideoTemplateID: r.VideoTemplateID.Value,
	}
}

// AdminCreateProduct registers a product by hand.
func AdminCreateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMutation(w, http.StatusCreated, "product created", product)
	}
}

func AdminUpdateProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMutation(w, http.StatusOK, "product updated", product)
	}
}

func AdminDeleteProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteMutation(w, http.StatusOK, "product deleted", map[string]string{"id": productID.String()})
	}
}

func AdminGetProduct(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := uuidParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// AdminListProducts pages through the catalog ordered by description.
func AdminListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		familyID, err := validators.ParseQueryUUID(r, "family_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		onPanel, err := validators.ParseQueryBool(r, "on_panel")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), productsvc.ListProductsInput{
			FamilyID: familyID,
			OnPanel:  onPanel,
			Query:    validators.SanitizeString(r.URL.Query().Get("q"), 120),
			Pagination: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminListFamilies(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		families, err := svc.ListFamilies(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, families)
	}
}
