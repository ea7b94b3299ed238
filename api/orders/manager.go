package orders

import (
	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"

	"poolshop_server/services"
)

type OrderRoutesManager struct {
	logger         *gecho.Logger
	orderService   *services.OrderService
	paymentService *services.PaymentService
}

func NewOrderRoutesManager(logger *gecho.Logger, orderService *services.OrderService, paymentService *services.PaymentService) *OrderRoutesManager {
	return &OrderRoutesManager{
		logger:         logger,
		orderService:   orderService,
		paymentService: paymentService,
	}
}

func (orm *OrderRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/orders", func(r chi.Router) {
		r.Post("/checkout", orm.Checkout)
		r.Get("/payment-methods", orm.ListPaymentMethods)
		r.Get("/{number}", orm.GetOrder)
	})
}
