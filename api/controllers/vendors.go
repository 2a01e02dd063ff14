package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/middleware"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/responses"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/validators"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/vendors"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
)

type createVendorPayload struct {
	Name    string  `json:"name" validate:"required,min=1,max=120"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// VendorCreate handles POST /api/v1/vendors.
func VendorCreate(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		var payload createVendorPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		vendor, err := svc.Create(ctx, vendors.CreateVendorInput{
			PartnerID: middleware.PartnerIDFromContext(ctx),
			Name:      payload.Name,
			Phone:     payload.Phone,
			Address:   payload.Address,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, vendor)
	}
}

// VendorList handles GET /api/v1/vendors.
func VendorList(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		rows, err := svc.List(ctx, middleware.PartnerIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// VendorSoftDelete handles DELETE /api/v1/vendors/{vendorID}.
func VendorSoftDelete(svc vendors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendor service unavailable"))
			return
		}

		vendorID, err := uuid.Parse(chi.URLParam(r, "vendorID"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "vendor id must be a uuid"))
			return
		}

		if err := svc.SoftDelete(ctx, middleware.PartnerIDFromContext(ctx), vendorID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
