package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"poolshop_server/structs/tables"
)

func newTestEngine() *TemplateEngine {
	return NewTemplateEngine(testLogger(), testConfig())
}

func TestRender_CustomerNameAndTotal(t *testing.T) {
	te := newTestEngine()
	order := &tables.Order{CustomerName: "Jean", Total: decimal.RequireFromString("42.5")}

	out := te.Render(TemplateParts{Body: "Hello {{customerName}}, total {{orderTotal}}"}, &TemplateContext{Order: order})

	assert.Equal(t, "Hello Jean, total 42,50 €", out.Body)
}

func TestRender_UnknownTokensStayLiteral(t *testing.T) {
	te := newTestEngine()

	tests := []struct {
		name string
		in   string
		tctx *TemplateContext
	}{
		{"nil context", "Bonjour {{customerName}} {{orderTotal}}", nil},
		{"empty context", "{{cartItemsList}}{{supplierName}}", &TemplateContext{}},
		{"unknown key", "{{doesNotExist}} and {{ spaced }}", &TemplateContext{Values: map[string]string{}}},
		{"unterminated", "{{customerName", &TemplateContext{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				out := te.Render(TemplateParts{Subject: tt.in, Body: tt.in}, tt.tctx)
				assert.Equal(t, tt.in, out.Subject)
				assert.Equal(t, tt.in, out.Body)
			})
		})
	}
}

func TestRender_ValuesFallback(t *testing.T) {
	te := newTestEngine()
	tctx := &TemplateContext{Values: map[string]string{"poNumber": "BC-2606-ABCDE", "customerName": "ignored"}}
	order := &tables.Order{CustomerName: "Marie"}
	tctx.Order = order

	out := te.Render(TemplateParts{Subject: "{{poNumber}} pour {{customerName}}"}, tctx)

	assert.Equal(t, "BC-2606-ABCDE pour Marie", out.Subject)
}

func TestRender_WellKnownTokens(t *testing.T) {
	te := newTestEngine()
	supplierId := uuid.New()
	order := &tables.Order{
		Id:           uuid.New(),
		OrderNumber:  "CMD-2606-K7P2Q",
		CustomerName: "Jean Dupont",
		ShippingAddress: tables.Address{
			Street: "1 rue du Port", PostalCode: "13002", City: "Marseille", Country: "France",
		},
		Items: []tables.CartItem{
			{ProductName: "Chlore", Quantity: 2, UnitPrice: decimal.RequireFromString("10"), TaxRate: decimal.RequireFromString("0.2")},
		},
	}

	tests := []struct {
		token string
		tctx  *TemplateContext
		want  string
	}{
		{"{{orderId}}", &TemplateContext{Order: order}, "CMD-2606-K7P2Q"},
		{"{{shippingAddress}}", &TemplateContext{Order: order}, "1 rue du Port, 13002 Marseille, France"},
		{"{{customerShippingAddress}}", &TemplateContext{Order: order}, "<p>Jean Dupont<br>1 rue du Port<br>13002 Marseille<br>France</p>"},
		{"{{trackingNumber}}", &TemplateContext{Order: order}, "N/A"},
		{"{{resetLink}}", nil, "https://shop.example.fr/reset-password"},
		{"{{supplierName}}", &TemplateContext{Supplier: &tables.Supplier{Id: supplierId, Name: "AquaDistri"}}, "AquaDistri"},
		{"{{invoiceBody}}", &TemplateContext{InvoiceBody: "<h2>Facture</h2>"}, "<h2>Facture</h2>"},
		{
			"{{cartItemsList}}", &TemplateContext{Order: order},
			`<table style="width:100%;border-collapse:collapse"><tr><th>Qté</th><th>Produit</th><th>Total</th></tr>` +
				"<tr><td>2</td><td>Chlore</td><td>24,00 €</td></tr></table>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			assert.Equal(t, tt.want, te.Render(TemplateParts{Body: tt.token}, tt.tctx).Body)
		})
	}
}

func TestRender_PurchaseOrderSnapshotWins(t *testing.T) {
	te := newTestEngine()
	order := &tables.Order{
		CustomerName:    "Jean Dupont",
		TrackingNumber:  "ORDER-TRACK",
		ShippingAddress: tables.Address{Street: "Nouvelle adresse", PostalCode: "75001", City: "Paris"},
	}
	po := &tables.PurchaseOrder{
		CustomerName:    "Jean Dupont",
		TrackingNumber:  "PO-TRACK",
		ShippingAddress: tables.Address{Street: "1 rue du Port", PostalCode: "13002", City: "Marseille"},
	}

	out := te.Render(TemplateParts{Body: "{{trackingNumber}} {{shippingAddress}}"}, &TemplateContext{Order: order, PurchaseOrder: po})

	assert.Equal(t, "PO-TRACK 1 rue du Port, 13002 Marseille", out.Body)
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders(TemplateParts{
		Subject: "Commande {{orderId}}",
		Body:    "{{customerName}} {{ orderId }} {{cartItemsList}}",
	})
	assert.Equal(t, []string{"orderId", "customerName", "cartItemsList"}, got)
}

func TestUnrecognizedPlaceholders(t *testing.T) {
	got := UnrecognizedPlaceholders([]string{"customerName", "custmerName", "shopName", "poNumber", "trackingNumbre"})
	assert.Equal(t, []string{"custmerName", "trackingNumbre"}, got)
}

func TestDefaultTemplates_UseRecognizedPlaceholders(t *testing.T) {
	e := newTestEnv(t)
	for _, tpl := range e.sm.EmailService.DefaultTemplates() {
		assert.Empty(t, tpl.Unrecognized, tpl.Id)
	}
}
