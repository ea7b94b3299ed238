package health

import (
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"poolshop_server/services"
	"poolshop_server/store"
)

var registerOnce sync.Once

// RegisterMetrics registers every collector of the service with the default
// registry. Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HttpDuration,
			HttpRequests,
			HttpInFlight,
			store.ActionDuration,
			store.ActionsTotal,
			services.NotificationsTotal,
			services.PurchaseOrdersTotal,
		)
	})
}

type HealthRoutesManager struct {
	healthService *services.HealthService
}

func NewHealthRoutesManager(healthService *services.HealthService) *HealthRoutesManager {
	return &HealthRoutesManager{
		healthService: healthService,
	}
}

func (hrm *HealthRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/health/server", hrm.GetServerHealth)
	r.Get("/health/store", hrm.GetStoreHealth)

	// Prometheus metrics endpoint
	RegisterMetrics()
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}
