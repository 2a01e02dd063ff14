package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/controllers"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/api/middleware"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/dashboard"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/devices"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/ledger"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/internal/vendors"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/config"
	"github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/logger"
	pkgredis "github.com/ahmed-zikrabyte/partner-crm-sub000/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisClient *pkgredis.Client,
	ledgerService ledger.Service,
	dashboardService dashboard.Service,
	deviceService devices.Service,
	vendorService vendors.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": dbPinger,
			"redis":    pingerOrNil(redisClient),
		}))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(storeOrNil(redisClient), logg))

		r.Route("/transactions", func(r chi.Router) {
			r.Post("/", controllers.RecordTransaction(ledgerService, logg))
			r.Get("/", controllers.ListTransactions(ledgerService, logg))
			r.Get("/export", controllers.ExportTransactions(ledgerService, logg))
		})

		r.Get("/dashboard", controllers.DashboardStats(dashboardService, logg))

		r.Route("/vendors", func(r chi.Router) {
			r.Post("/", controllers.VendorCreate(vendorService, logg))
			r.Get("/", controllers.VendorList(vendorService, logg))
			r.Delete("/{vendorID}", controllers.VendorSoftDelete(vendorService, logg))
		})

		r.Route("/devices", func(r chi.Router) {
			r.Get("/{deviceID}/lifecycle", controllers.DeviceLifecycle(deviceService, logg))
			r.Post("/{deviceID}/toggle-active", controllers.DeviceToggleActive(deviceService, logg))
			r.Delete("/{deviceID}", controllers.DeviceSoftDelete(deviceService, logg))
		})
	})

	return r
}

// typed nils must not reach interface-valued parameters
func pingerOrNil(client *pkgredis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}

func storeOrNil(client *pkgredis.Client) pkgredis.IdempotencyStore {
	if client == nil {
		return nil
	}
	return client
}
