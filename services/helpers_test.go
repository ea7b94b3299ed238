package services

import (
	"context"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

var testNow = time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:     "PoolShop",
			Environment: "test",
			FrontendURL: "https://shop.example.fr/",
		},
		Cors: &structs.CorsConfig{},
		Shop: &structs.ShopConfig{
			Name:              "PiscinePro",
			SupportEmail:      "contact@piscinepro.fr",
			CurrencyLocale:    "fr-FR",
			CurrencySymbol:    "€",
			LowStockThreshold: 5,
		},
		Fulfillment: &structs.FulfillmentConfig{},
		RateLimit:   &structs.RateLimitConfig{},
	}
}

func testLogger() *gecho.Logger {
	return gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
}

type testEnv struct {
	ctx      context.Context
	store    *store.Store
	sm       *ServiceManager
	supplier *tables.Supplier
	other    *tables.Supplier
	owned    *tables.Product
	dropship *tables.Product
	pump     *tables.Product
}

// newTestEnv builds the services over a store with default templates, two
// suppliers, one owned and two dropshipped products.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	st := store.New(store.WithClock(func() time.Time { return testNow }))
	sm := NewServiceManager(testLogger(), testConfig(), st)

	_, err := sm.EmailService.EnsureDefaults(ctx)
	require.NoError(t, err)

	supplier, err := sm.SupplierService.Create(ctx, &structs.SupplierRequest{Name: "AquaDistri", Email: "commandes@aquadistri.fr"})
	require.NoError(t, err)
	other, err := sm.SupplierService.Create(ctx, &structs.SupplierRequest{Name: "PoolTech", Email: "orders@pooltech.eu"})
	require.NoError(t, err)

	owned, err := sm.ProductService.CreateProduct(ctx, &structs.ProductRequest{
		SKU: "CHL-5KG", Name: "Chlore lent 5kg", Price: decimal.RequireFromString("39.90"),
		TaxRate: decimal.RequireFromString("0.20"), Stock: 10,
	})
	require.NoError(t, err)
	dropship, err := sm.ProductService.CreateProduct(ctx, &structs.ProductRequest{
		SKU: "ROB-X5", Name: "Robot X5", Price: decimal.RequireFromString("700"),
		PurchasePrice: decimal.RequireFromString("500"), TaxRate: decimal.RequireFromString("0.20"),
		SupplierId: &supplier.Id,
	})
	require.NoError(t, err)
	pump, err := sm.ProductService.CreateProduct(ctx, &structs.ProductRequest{
		SKU: "PMP-1CV", Name: "Pompe 1CV", Price: decimal.RequireFromString("250"),
		PurchasePrice: decimal.RequireFromString("180"), TaxRate: decimal.RequireFromString("0.20"),
		SupplierId: &other.Id,
	})
	require.NoError(t, err)

	return &testEnv{ctx: ctx, store: st, sm: sm, supplier: supplier, other: other, owned: owned, dropship: dropship, pump: pump}
}

func (e *testEnv) checkout(t *testing.T, email string, items ...structs.CheckoutItem) *tables.Order {
	t.Helper()
	order, err := e.sm.OrderService.Checkout(e.ctx, &structs.CheckoutRequest{
		CustomerName:  "Jean Dupont",
		CustomerEmail: email,
		ShippingAddress: tables.Address{
			Street: "1 rue du Port", PostalCode: "13002", City: "Marseille", Country: "France",
		},
		Items: items,
	})
	require.NoError(t, err)
	return order
}

func item(id uuid.UUID, qty int) structs.CheckoutItem {
	return structs.CheckoutItem{ProductId: id, Quantity: qty}
}

// notificationsFor returns the notifications recorded for a template, oldest first.
func (e *testEnv) notificationsFor(templateId string) []tables.Notification {
	out := make([]tables.Notification, 0)
	for _, n := range e.store.Notifications() {
		if n.TemplateId == templateId {
			out = append(out, n)
		}
	}
	return out
}
