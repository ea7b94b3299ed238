package services

import (
	"context"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

// SeedService fills an empty store at startup.
type SeedService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	store     *store.Store
	email     *EmailService
	payments  *PaymentService
	suppliers *SupplierService
	products  *ProductService
}

func NewSeedService(
	logger *gecho.Logger,
	cfg *structs.Config,
	st *store.Store,
	email *EmailService,
	payments *PaymentService,
	suppliers *SupplierService,
	products *ProductService,
) *SeedService {
	return &SeedService{
		logger:    logger,
		cfg:       cfg,
		store:     st,
		email:     email,
		payments:  payments,
		suppliers: suppliers,
		products:  products,
	}
}

// Seed installs default templates and payment methods, and the demo catalog
// when enabled and the catalog is empty.
func (ss *SeedService) Seed(ctx context.Context) error {
	if _, err := ss.email.EnsureDefaults(ctx); err != nil {
		return err
	}
	if err := ss.seedPaymentMethods(ctx); err != nil {
		return err
	}
	if !ss.cfg.Shop.SeedDemoData || len(ss.store.Products()) > 0 {
		return nil
	}
	return ss.seedCatalog(ctx)
}

func (ss *SeedService) seedPaymentMethods(ctx context.Context) error {
	if len(ss.store.PaymentMethods()) > 0 {
		return nil
	}

	defaults := []*tables.PaymentMethod{
		{
			Type:    tables.PaymentBankTransfer,
			Label:   paymentLabels[tables.PaymentBankTransfer],
			Enabled: true,
			Config: tables.BankTransferConfig{
				AccountHolder: ss.cfg.Shop.Name,
				IBAN:          "FR7630006000011234567890189",
				BIC:           "AGRIFRPP",
				Instructions:  "Indiquez le numéro de commande en référence du virement.",
			},
		},
		{
			Type:    tables.PaymentCashOnDelivery,
			Label:   paymentLabels[tables.PaymentCashOnDelivery],
			Enabled: false,
			Config: tables.CashOnDeliveryConfig{
				Fee:            decimal.RequireFromString("4.90"),
				MaxOrderAmount: decimal.NewFromInt(500),
			},
		},
	}
	for _, pm := range defaults {
		if _, err := ss.payments.Upsert(ctx, pm); err != nil {
			return err
		}
	}
	return nil
}

type demoProduct struct {
	sku, name, category   string
	price, purchase, rate string
	stock                 int
	dropship              bool
}

var demoProducts = []demoProduct{
	{"CHL-GAL-5KG", "Chlore galets 5 kg", "Traitement de l'eau", "39.90", "21.00", "0.20", 24, false},
	{"PH-MOINS-6KG", "pH moins micro-billes 6 kg", "Traitement de l'eau", "24.90", "12.50", "0.20", 3, false},
	{"FLT-SABLE-25", "Sable de filtration 25 kg", "Filtration", "19.90", "8.40", "0.20", 40, false},
	{"PMP-1CV", "Pompe de filtration 1 CV", "Filtration", "289.00", "190.00", "0.20", 0, true},
	{"ROB-ELEC-X5", "Robot électrique X5", "Robots", "749.00", "520.00", "0.20", 0, true},
}

func (ss *SeedService) seedCatalog(ctx context.Context) error {
	supplier, err := ss.suppliers.Create(ctx, &structs.SupplierRequest{
		Name:  "AquaDistri",
		Email: "commandes@aquadistri.fr",
		Phone: "0491000000",
	})
	if err != nil {
		return err
	}

	categories := make(map[string]uuid.UUID)
	for _, p := range demoProducts {
		if _, ok := categories[p.category]; ok {
			continue
		}
		c, err := ss.products.SaveCategory(ctx, uuid.Nil, &structs.CategoryRequest{Name: p.category})
		if err != nil {
			return err
		}
		categories[p.category] = c.Id
	}

	for _, p := range demoProducts {
		categoryId := categories[p.category]
		req := &structs.ProductRequest{
			SKU:           p.sku,
			Name:          p.name,
			CategoryId:    &categoryId,
			Price:         decimal.RequireFromString(p.price),
			PurchasePrice: decimal.RequireFromString(p.purchase),
			TaxRate:       decimal.RequireFromString(p.rate),
			Stock:         p.stock,
		}
		if p.dropship {
			req.SupplierId = &supplier.Id
		}
		if _, err := ss.products.CreateProduct(ctx, req); err != nil {
			return err
		}
	}

	ss.logger.Info("Demo catalog seeded",
		gecho.Field("products", len(demoProducts)),
		gecho.Field("categories", len(categories)))
	return nil
}
