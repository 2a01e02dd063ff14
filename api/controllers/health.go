package controllers

import (
	"context"
	"net/http"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/responses"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/config"
	pkgerrors "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/errors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
)

// Pinger matches the connectivity checks exposed by the db and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PartnerCRM-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every wired dependency answers a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-PartnerCRM-Env", cfg.App.Env)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
