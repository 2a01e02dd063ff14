package controllers

import (
	"net/http"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/middleware"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/responses"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/dashboard"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
)

// DashboardStats handles GET /api/v1/dashboard.
func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dashboard service unavailable"))
			return
		}

		stats, err := svc.Stats(ctx, middleware.PartnerIDFromContext(ctx))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
