package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolshop_server/services"
	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

func testConfig() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:     "PoolShop",
			Environment: "test",
			FrontendURL: "https://shop.example.fr/",
		},
		Cors: &structs.CorsConfig{AllowedOrigins: []string{"https://shop.example.fr"}},
		Shop: &structs.ShopConfig{
			Name:              "PiscinePro",
			SupportEmail:      "contact@piscinepro.fr",
			CurrencyLocale:    "fr-FR",
			CurrencySymbol:    "€",
			LowStockThreshold: 5,
			SeedDemoData:      true,
		},
		Fulfillment: &structs.FulfillmentConfig{},
		RateLimit:   &structs.RateLimitConfig{},
	}
}

type testApp struct {
	router chi.Router
	sm     *services.ServiceManager
	store  *store.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	cfg := testConfig()
	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	st := store.New()
	sm := services.NewServiceManager(logger, cfg, st)
	require.NoError(t, sm.SeedService.Seed(context.Background()))

	return &testApp{router: App(cfg, sm), sm: sm, store: st}
}

func (a *testApp) do(method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) product(t *testing.T, sku string) *tables.Product {
	t.Helper()
	var out *tables.Product
	a.store.Read(func(st *store.State) {
		if p, ok := st.ProductBySKU(sku); ok {
			out = p.Clone()
		}
	})
	require.NotNil(t, out, sku)
	return out
}

func TestApp_HealthAndFallback(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/health/server", "").Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/health/store", "").Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/", "").Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/nowhere", "").Code)

	w := app.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "poolshop_http_requests_total")
}

func TestApp_StorefrontCatalog(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/products?search=chlore", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CHL-GAL-5KG")
	assert.NotContains(t, w.Body.String(), "purchase_price")

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/products?page=two", "").Code)
	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, "/products/categories", "").Code)
}

func TestApp_CheckoutFlow(t *testing.T) {
	app := newTestApp(t)
	chlore := app.product(t, "CHL-GAL-5KG")
	robot := app.product(t, "ROB-ELEC-X5")

	body := `{
		"customer_name": "Jean Dupont",
		"customer_email": "jean@example.fr",
		"shipping_address": {"street": "1 rue du Port", "postal_code": "13002", "city": "Marseille"},
		"payment_method": "bank_transfer",
		"items": [
			{"product_id": "` + chlore.ID.String() + `", "quantity": 2},
			{"product_id": "` + robot.ID.String() + `", "quantity": 1}
		]
	}`

	w := app.do(http.MethodPost, "/orders/checkout", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "CMD-")
	assert.NotContains(t, w.Body.String(), "purchase_price")

	orders := app.store.Orders()
	require.Len(t, orders, 1)
	order := orders[0]
	assert.True(t, order.IsDropshipping)
	assert.Equal(t, 22, app.product(t, "CHL-GAL-5KG").Stock)

	w = app.do(http.MethodGet, "/orders/"+order.OrderNumber, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/orders/CMD-0000-XXXXX", "").Code)

	// Back-office side: one purchase order for the robot supplier
	w = app.do(http.MethodPost, "/admin/orders/"+order.Id.String()+"/purchase-orders", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	pos := app.store.PurchaseOrders()
	require.Len(t, pos, 1)

	_, err := app.sm.EmailService.SetTemplateEnabled(context.Background(), services.TemplateSupplierPurchaseOrder, false)
	require.NoError(t, err)
	w = app.do(http.MethodPost, "/admin/purchase-orders/"+pos[0].Id.String()+"/send", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "success.purchaseOrder.sentWithoutEmail")

	w = app.do(http.MethodGet, "/admin/orders/"+order.Id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SentToSupplier")
}

func TestApp_CheckoutRejections(t *testing.T) {
	app := newTestApp(t)
	ph := app.product(t, "PH-MOINS-6KG")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"items": [`, http.StatusBadRequest},
		{"missing items", `{"customer_name": "Jean Dupont", "customer_email": "jean@example.fr"}`, http.StatusBadRequest},
		{
			"not enough stock",
			`{"customer_name": "Jean Dupont", "customer_email": "jean@example.fr",
			"shipping_address": {"street": "1 rue du Port", "postal_code": "13002", "city": "Marseille"},
			"items": [{"product_id": "` + ph.ID.String() + `", "quantity": 4}]}`,
			http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, app.do(http.MethodPost, "/orders/checkout", tt.body).Code)
		})
	}
	assert.Empty(t, app.store.Orders())
}

func TestApp_PaidInvoiceIsLocked(t *testing.T) {
	app := newTestApp(t)
	ctx := context.Background()

	invoice, err := app.sm.InvoiceService.Create(ctx, &structs.InvoiceRequest{
		CustomerName:  "Marie Curie",
		CustomerEmail: "marie@example.fr",
		Items: []tables.InvoiceItem{
			{Description: "Mise en service", Quantity: 1, UnitPrice: decimal.NewFromInt(120), TaxRate: decimal.RequireFromString("0.20")},
		},
	})
	require.NoError(t, err)

	target := "/admin/invoices/" + invoice.Id.String()
	w := app.do(http.MethodPost, target+"/send", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success.invoice.sent")
	assert.NotContains(t, w.Body.String(), "sentWithoutEmail")
	require.Equal(t, http.StatusOK, app.do(http.MethodPost, target+"/pay", "").Code)

	update := `{"customer_name": "Marie Curie", "customer_email": "marie@example.fr",
		"items": [{"description": "Mise en service", "quantity": 2, "unit_price": "120", "tax_rate": "0.2"}]}`
	w = app.do(http.MethodPut, target, update)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "error.invoice.invoiceLocked")

	assert.Equal(t, http.StatusConflict, app.do(http.MethodDelete, target, "").Code)
}

func TestApp_AdminValidation(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/admin/orders/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error.order.invalidId")

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/admin/invoices?overdue=maybe", "").Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/admin/templates/nope", "").Code)

	// The seeded supplier still has products
	suppliers := app.store.Suppliers()
	require.Len(t, suppliers, 1)
	assert.Equal(t, http.StatusConflict, app.do(http.MethodDelete, "/admin/suppliers/"+suppliers[0].Id.String(), "").Code)

	w = app.do(http.MethodPut, "/admin/payment-methods", `{"type": "card", "label": "Carte", "enabled": true, "config": {"provider": "stripe", "publishable_key": "pk_test_123", "secret_key": "sk_test_secret"}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotContains(t, w.Body.String(), "sk_test_secret")
}

func TestApp_CatalogExport(t *testing.T) {
	app := newTestApp(t)

	w := app.do(http.MethodGet, "/admin/products/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "catalogue.csv")
	assert.Contains(t, w.Body.String(), "ROB-ELEC-X5")

	w = app.do(http.MethodPost, "/admin/products/import", "Référence produit (SKU);Nom du produit;Stock\nPH-MOINS-6KG;pH moins micro-billes 6 kg;12\n")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 12, app.product(t, "PH-MOINS-6KG").Stock)

	w = app.do(http.MethodGet, "/admin/products/export?format=xlsx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, services.WorkbookContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "catalogue.xlsx")
	workbook := w.Body.Bytes()
	assert.True(t, services.IsWorkbook(workbook))

	// The downloaded workbook imports as is
	products := len(app.store.Products())
	w = app.do(http.MethodPost, "/admin/products/import", string(workbook))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, app.store.Products(), products)
	assert.Equal(t, 12, app.product(t, "PH-MOINS-6KG").Stock)

	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/admin/products/export?format=ods", "").Code)
}
