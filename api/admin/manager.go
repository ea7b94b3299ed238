package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"poolshop_server/handling"
	"poolshop_server/services"
)

// AdminRoutesManager serves the back-office. Authentication is left to the
// deployment (reverse proxy or private network).
type AdminRoutesManager struct {
	logger   *gecho.Logger
	services *services.ServiceManager
}

func NewAdminRoutesManager(
	logger *gecho.Logger,
	sm *services.ServiceManager,
) *AdminRoutesManager {
	return &AdminRoutesManager{
		logger:   logger,
		services: sm,
	}
}

func (ar *AdminRoutesManager) RegisterRoutes(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Get("/dashboard", ar.GetDashboard)

		// Order management routes
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", ar.ListOrders)
			r.Get("/{id}", ar.GetOrderDetails)
			r.Put("/{id}/status", ar.UpdateOrderStatus)
			r.Put("/{id}/supplier-status", ar.UpdateSupplierStatus)
			r.Put("/{id}/tracking", ar.SetTrackingNumber)
			r.Put("/{id}/customer", ar.UpdateOrderCustomer)
			r.Post("/{id}/purchase-orders", ar.GeneratePurchaseOrders)
			r.Post("/{id}/purchase-orders/supplier", ar.GetOrCreatePurchaseOrder)
			r.Post("/{id}/invoice", ar.CreateInvoiceFromOrder)
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Get("/", ar.ListPurchaseOrders)
			r.Get("/{id}", ar.GetPurchaseOrder)
			r.Post("/{id}/send", ar.SendPurchaseOrder)
			r.Post("/{id}/mark-sent", ar.MarkPurchaseOrderSent)
			r.Put("/{id}/status", ar.UpdatePurchaseOrderStatus)
		})

		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", ar.ListInvoices)
			r.Post("/", ar.CreateInvoice)
			r.Get("/{id}", ar.GetInvoice)
			r.Put("/{id}", ar.UpdateInvoice)
			r.Delete("/{id}", ar.DeleteInvoice)
			r.Post("/{id}/send", ar.SendInvoice)
			r.Post("/{id}/pay", ar.MarkInvoicePaid)
			r.Post("/{id}/cancel", ar.CancelInvoice)
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", ar.ListSuppliers)
			r.Post("/", ar.CreateSupplier)
			r.Get("/{id}", ar.GetSupplier)
			r.Put("/{id}", ar.UpdateSupplier)
			r.Delete("/{id}", ar.DeleteSupplier)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", ar.ListAllProducts)
			r.Post("/", ar.CreateProduct)
			r.Get("/low-stock", ar.ListLowStock)
			r.Get("/export", ar.ExportCatalog)
			r.Post("/import", ar.ImportCatalog)
			r.Get("/{id}", ar.GetProduct)
			r.Put("/{id}", ar.UpdateProduct)
			r.Delete("/{id}", ar.DeleteProduct)
			r.Post("/{id}/stock", ar.AdjustStock)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", ar.ListCategories)
			r.Post("/", ar.CreateCategory)
			r.Put("/{id}", ar.UpdateCategory)
			r.Delete("/{id}", ar.DeleteCategory)
		})

		r.Route("/templates", func(r chi.Router) {
			r.Get("/", ar.ListTemplates)
			r.Get("/{id}", ar.GetTemplate)
			r.Put("/{id}", ar.SaveTemplate)
			r.Put("/{id}/enabled", ar.SetTemplateEnabled)
			r.Post("/{id}/preview", ar.PreviewTemplate)
			r.Post("/{id}/test", ar.SendTestEmail)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", ar.ListNotifications)
			r.Post("/", ar.SendCustomNotification)
		})

		r.Get("/payment-methods", ar.ListPaymentMethods)
		r.Put("/payment-methods", ar.UpsertPaymentMethod)

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", ar.ListCustomers)
			r.Post("/campaign", ar.SendCampaign)
			r.Get("/{email}", ar.GetCustomer)
		})
	})
}

// idParam parses the {id} URL parameter, answering 400 when it is not a UUID.
func (ar *AdminRoutesManager) idParam(w http.ResponseWriter, r *http.Request, area string) (uuid.UUID, bool) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error."+area+".invalidId"),
			gecho.WithData(map[string]string{"error": err.Error()}),
			gecho.Send(),
		)
		return uuid.Nil, false
	}
	return id, true
}

func (ar *AdminRoutesManager) invalidQuery(w http.ResponseWriter, err error) {
	ar.logger.Warn("Failed to parse list options", gecho.Field("error", err))
	gecho.BadRequest(w,
		gecho.WithMessage("error.invalidQueryParameters"),
		gecho.WithData(map[string]string{"error": err.Error()}),
		gecho.Send(),
	)
}
