package api

import (
	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"

	"poolshop_server/api/admin"
	"poolshop_server/api/health"
	"poolshop_server/api/orders"
	"poolshop_server/api/products"
	"poolshop_server/services"
)

type routerManager struct {
	productRoutes *products.ProductRoutesManager
	healthRoutes  *health.HealthRoutesManager
	adminRoutes   *admin.AdminRoutesManager
	orderRoutes   *orders.OrderRoutesManager
}

func NewRouterManager(logger *gecho.Logger, sm *services.ServiceManager) *routerManager {
	return &routerManager{
		productRoutes: products.NewProductRoutesManager(logger, sm.ProductService),
		healthRoutes:  health.NewHealthRoutesManager(sm.HealthService),
		adminRoutes:   admin.NewAdminRoutesManager(logger, sm),
		orderRoutes:   orders.NewOrderRoutesManager(logger, sm.OrderService, sm.PaymentService),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.productRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.adminRoutes.RegisterRoutes(r)
	rm.orderRoutes.RegisterRoutes(r)
}
