package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolshop_server/lib"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

func invoiceRequest(discount *tables.Discount) *structs.InvoiceRequest {
	return &structs.InvoiceRequest{
		CustomerName:  "Jean Dupont",
		CustomerEmail: "Jean@Example.fr",
		Items: []tables.InvoiceItem{
			{Description: "Entretien piscine", Quantity: 1, UnitPrice: decimal.NewFromInt(100), TaxRate: decimal.RequireFromString("0.21")},
		},
		Discount: discount,
	}
}

func TestInvoiceService_CreateComputesTotals(t *testing.T) {
	e := newTestEnv(t)

	inv, err := e.sm.InvoiceService.Create(e.ctx, invoiceRequest(nil))
	require.NoError(t, err)

	totals := NewInvoiceView(inv).Totals
	assert.Equal(t, "100.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "21.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "121.00", totals.Total.StringFixed(2))
	assert.Equal(t, tables.InvoiceStatusDraft, inv.Status)
	assert.Equal(t, "jean@example.fr", inv.CustomerEmail)
	require.NotNil(t, inv.DueAt)

	discounted, err := e.sm.InvoiceService.Update(e.ctx, inv.Id, invoiceRequest(&tables.Discount{
		Type: tables.DiscountPercent, Value: decimal.NewFromInt(10),
	}))
	require.NoError(t, err)
	assert.Equal(t, "108.90", discounted.Totals().Total.StringFixed(2))
}

func TestInvoiceService_Validation(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name   string
		mutate func(r *structs.InvoiceRequest)
	}{
		{"negative price", func(r *structs.InvoiceRequest) { r.Items[0].UnitPrice = decimal.NewFromInt(-1) }},
		{"tax above 100%", func(r *structs.InvoiceRequest) { r.Items[0].TaxRate = decimal.NewFromInt(2) }},
		{"discount above 100%", func(r *structs.InvoiceRequest) {
			r.Discount = &tables.Discount{Type: tables.DiscountPercent, Value: decimal.NewFromInt(150)}
		}},
		{"no items", func(r *structs.InvoiceRequest) { r.Items = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := invoiceRequest(nil)
			tt.mutate(req)
			_, err := e.sm.InvoiceService.Create(e.ctx, req)
			var ve *lib.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
	assert.Empty(t, e.store.Invoices())
}

func TestInvoiceService_PaidInvoiceIsLocked(t *testing.T) {
	e := newTestEnv(t)
	inv, err := e.sm.InvoiceService.Create(e.ctx, invoiceRequest(nil))
	require.NoError(t, err)

	_, err = e.sm.InvoiceService.MarkPaid(e.ctx, inv.Id)
	assert.ErrorIs(t, err, lib.ErrInvalidTransition)

	_, _, err = e.sm.InvoiceService.Send(e.ctx, inv.Id)
	require.NoError(t, err)
	paid, err := e.sm.InvoiceService.MarkPaid(e.ctx, inv.Id)
	require.NoError(t, err)
	assert.NotNil(t, paid.PaidAt)

	_, err = e.sm.InvoiceService.Update(e.ctx, inv.Id, invoiceRequest(nil))
	assert.ErrorIs(t, err, lib.ErrInvoiceLocked)
	assert.ErrorIs(t, e.sm.InvoiceService.Delete(e.ctx, inv.Id), lib.ErrInvoiceLocked)

	stored, err := e.sm.InvoiceService.Get(inv.Id)
	require.NoError(t, err)
	assert.Equal(t, tables.InvoiceStatusPaid, stored.Status)
}

func TestInvoiceService_SendRecordsInvoiceEmail(t *testing.T) {
	e := newTestEnv(t)
	inv, err := e.sm.InvoiceService.Create(e.ctx, invoiceRequest(nil))
	require.NoError(t, err)

	sent, emailed, err := e.sm.InvoiceService.Send(e.ctx, inv.Id)
	require.NoError(t, err)
	assert.True(t, emailed)
	assert.Equal(t, tables.InvoiceStatusSent, sent.Status)

	emails := e.notificationsFor(TemplateInvoice)
	require.Len(t, emails, 1)
	assert.Equal(t, "jean@example.fr", emails[0].Recipient)
	assert.Equal(t, "Votre facture "+inv.InvoiceNumber, emails[0].Subject)
	assert.Contains(t, emails[0].Body, "Entretien piscine")
	assert.Contains(t, emails[0].Body, "121,00 €")
	assert.NotContains(t, emails[0].Body, "{{invoiceBody}}")
}

func TestInvoiceService_CreateFromOrder(t *testing.T) {
	e := newTestEnv(t)
	order := e.checkout(t, "jean@example.fr", item(e.owned.ID, 2))

	inv, err := e.sm.InvoiceService.CreateFromOrder(e.ctx, order.Id)
	require.NoError(t, err)

	require.NotNil(t, inv.OrderId)
	assert.Equal(t, order.Id, *inv.OrderId)
	assert.Equal(t, order.ShippingAddress, inv.BillingAddress)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, "Chlore lent 5kg (CHL-5KG)", inv.Items[0].Description)
	assert.True(t, order.Total.Equal(inv.Totals().Total))

	list := e.sm.InvoiceService.List(&InvoiceListOptions{OrderId: &order.Id})
	require.Len(t, list.Data, 1)
	assert.Equal(t, inv.Id, list.Data[0].Id)
}

func TestInvoiceService_SendWithTemplateDisabled(t *testing.T) {
	e := newTestEnv(t)
	inv, err := e.sm.InvoiceService.Create(e.ctx, invoiceRequest(nil))
	require.NoError(t, err)
	_, err = e.sm.EmailService.SetTemplateEnabled(e.ctx, TemplateInvoice, false)
	require.NoError(t, err)

	sent, emailed, err := e.sm.InvoiceService.Send(e.ctx, inv.Id)
	require.NoError(t, err)
	assert.False(t, emailed)
	assert.Equal(t, tables.InvoiceStatusSent, sent.Status)
	assert.Empty(t, e.notificationsFor(TemplateInvoice))
}
