package services

import (
	"poolshop_server/store"
	"poolshop_server/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	HealthService        *HealthService
	TemplateEngine       *TemplateEngine
	NotificationService  *NotificationService
	EmailService         *EmailService
	FulfillmentService   *FulfillmentService
	PurchaseOrderService *PurchaseOrderService
	PaymentService       *PaymentService
	OrderService         *OrderService
	InvoiceService       *InvoiceService
	SupplierService      *SupplierService
	ProductService       *ProductService
	CatalogImportService *CatalogImportService
	CustomerService      *CustomerService
	DashboardService     *DashboardService
	SeedService          *SeedService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, st *store.Store) *ServiceManager {
	healthService := NewHealthService(logger, st)
	templateEngine := NewTemplateEngine(logger, cfg)
	notificationService := NewNotificationService(logger, st, templateEngine)
	emailService := NewEmailService(logger, cfg, st, templateEngine, notificationService)
	fulfillmentService := NewFulfillmentService(logger, cfg, st, notificationService)
	purchaseOrderService := NewPurchaseOrderService(logger, cfg, st, notificationService, fulfillmentService)
	paymentService := NewPaymentService(logger, st)
	orderService := NewOrderService(logger, cfg, st, notificationService, paymentService)
	invoiceService := NewInvoiceService(logger, cfg, st, notificationService)
	supplierService := NewSupplierService(logger, st)
	productService := NewProductService(logger, cfg, st)
	catalogImportService := NewCatalogImportService(logger, st, supplierService)
	customerService := NewCustomerService(logger, st, notificationService)
	dashboardService := NewDashboardService(logger, cfg, st, customerService)
	seedService := NewSeedService(logger, cfg, st, emailService, paymentService, supplierService, productService)

	return &ServiceManager{
		HealthService:        healthService,
		TemplateEngine:       templateEngine,
		NotificationService:  notificationService,
		EmailService:         emailService,
		FulfillmentService:   fulfillmentService,
		PurchaseOrderService: purchaseOrderService,
		PaymentService:       paymentService,
		OrderService:         orderService,
		InvoiceService:       invoiceService,
		SupplierService:      supplierService,
		ProductService:       productService,
		CatalogImportService: catalogImportService,
		CustomerService:      customerService,
		DashboardService:     dashboardService,
		SeedService:          seedService,
	}
}
