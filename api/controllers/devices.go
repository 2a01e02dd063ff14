package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/middleware"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/responses"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/devices"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
)

func deviceIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "deviceID")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "device id must be a uuid")
	}
	return id, nil
}

// DeviceLifecycle handles GET /api/v1/devices/{deviceID}/lifecycle.
func DeviceLifecycle(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		deviceID, err := deviceIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state, err := svc.Lifecycle(ctx, middleware.PartnerIDFromContext(ctx), deviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"state": string(state)})
	}
}

// DeviceToggleActive handles POST /api/v1/devices/{deviceID}/toggle-active.
func DeviceToggleActive(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		deviceID, err := deviceIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		active, err := svc.ToggleActive(ctx, middleware.PartnerIDFromContext(ctx), deviceID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"is_active": active})
	}
}

// DeviceSoftDelete handles DELETE /api/v1/devices/{deviceID}.
func DeviceSoftDelete(svc devices.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "device service unavailable"))
			return
		}

		deviceID, err := deviceIDFromRequest(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		err = svc.SoftDelete(ctx, devices.SoftDeleteInput{
			PartnerID:  middleware.PartnerIDFromContext(ctx),
			DeviceID:   deviceID,
			AuthorType: middleware.AuthorTypeFromContext(ctx),
			AuthorID:   middleware.AuthorIDFromContext(ctx),
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}
