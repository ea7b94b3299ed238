package services

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolshop_server/lib"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

func checkoutRequest(method tables.PaymentMethodType, items ...structs.CheckoutItem) *structs.CheckoutRequest {
	return &structs.CheckoutRequest{
		CustomerName:  "Jean Dupont",
		CustomerEmail: "jean@example.fr",
		ShippingAddress: tables.Address{
			Street: "1 rue du Port", PostalCode: "13002", City: "Marseille", Country: "France",
		},
		PaymentMethod: method,
		Items:         items,
	}
}

func savePaymentMethod(t *testing.T, e *testEnv, raw string) {
	t.Helper()
	pm, err := ParsePaymentMethod([]byte(raw))
	require.NoError(t, err)
	_, err = e.sm.PaymentService.Upsert(e.ctx, pm)
	require.NoError(t, err)
}

func TestCheckout_SnapshotsProducts(t *testing.T) {
	e := newTestEnv(t)

	order, err := e.sm.OrderService.Checkout(e.ctx, checkoutRequest("", item(e.owned.ID, 3), item(e.dropship.ID, 1)))
	require.NoError(t, err)

	assert.Equal(t, tables.OrderStatusPending, order.Status)
	assert.True(t, order.IsDropshipping)
	assert.Equal(t, tables.SupplierStatusPending, order.SupplierStatus)
	assert.Regexp(t, `^CMD-\d{4}-[A-Z2-9]{5}$`, order.OrderNumber)
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Chlore lent 5kg", order.Items[0].ProductName)
	assert.Nil(t, order.Items[0].SupplierId)
	require.NotNil(t, order.Items[1].SupplierId)
	assert.Equal(t, e.supplier.Id, *order.Items[1].SupplierId)
	// (3 x 39.90 + 700) x 1.2
	assert.Equal(t, "983.64", order.Total.StringFixed(2))

	owned, err := e.sm.ProductService.GetProductByID(e.owned.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, owned.Stock)

	byNumber, err := e.sm.OrderService.GetOrderByNumber(order.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, order.Id, byNumber.Id)
	assert.Len(t, e.notificationsFor(TemplateOrderConfirmation), 1)
}

func TestCheckout_Rejections(t *testing.T) {
	e := newTestEnv(t)
	savePaymentMethod(t, e, `{"type":"cash_on_delivery","enabled":true,"config":{"fee":"4.90","max_order_amount":"100"}}`)
	savePaymentMethod(t, e, `{"type":"paypal","enabled":false,"config":{"client_id":"client-123","client_secret":"secret-123"}}`)

	inactive := false
	_, err := e.sm.ProductService.UpdateProduct(e.ctx, e.pump.ID, &structs.ProductRequest{
		SKU: e.pump.SKU, Name: e.pump.Name, Price: e.pump.Price, TaxRate: e.pump.TaxRate,
		SupplierId: e.pump.SupplierId, IsActive: &inactive,
	})
	require.NoError(t, err)

	t.Run("insufficient stock", func(t *testing.T) {
		_, err := e.sm.OrderService.Checkout(e.ctx, checkoutRequest("", item(e.owned.ID, 6), item(e.owned.ID, 5)))
		assert.ErrorIs(t, err, lib.ErrInsufficientStock)
	})

	t.Run("inactive product", func(t *testing.T) {
		_, err := e.sm.OrderService.Checkout(e.ctx, checkoutRequest("", item(e.pump.ID, 1)))
		assert.ErrorIs(t, err, lib.ErrProductInactive)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := e.sm.OrderService.Checkout(e.ctx, checkoutRequest("", item(uuid.New(), 1)))
		assert.ErrorIs(t, err, lib.ErrNotFound)
	})

	t.Run("disabled payment method", func(t *testing.T) {
		_, err := e.sm.OrderService.Checkout(e.ctx, checkoutRequest(tables.PaymentPayPal, item(e.owned.ID, 1)))
		var ve *lib.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	t.Run("cash on delivery over its limit", func(t *testing.T) {
		_, err := e.sm.OrderService.Checkout(e.ctx, checkoutRequest(tables.PaymentCashOnDelivery, item(e.dropship.ID, 1)))
		assert.ErrorContains(t, err, "100.00")
	})

	t.Run("invalid request", func(t *testing.T) {
		req := checkoutRequest("", item(e.owned.ID, 1))
		req.CustomerEmail = "not-an-email"
		_, err := e.sm.OrderService.Checkout(e.ctx, req)
		var ve *lib.ValidationError
		assert.ErrorAs(t, err, &ve)
	})

	// Nothing was placed and stock is untouched
	assert.Empty(t, e.store.Orders())
	owned, err := e.sm.ProductService.GetProductByID(e.owned.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, owned.Stock)

	order, err := e.sm.OrderService.Checkout(e.ctx, checkoutRequest(tables.PaymentCashOnDelivery, item(e.owned.ID, 1)))
	require.NoError(t, err)
	assert.Equal(t, tables.PaymentCashOnDelivery, order.PaymentMethod)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	e := newTestEnv(t)
	order := e.checkout(t, "jean@example.fr", item(e.owned.ID, 4))

	cancelled, err := e.sm.OrderService.UpdateStatus(e.ctx, order.Id, tables.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusCancelled, cancelled.Status)

	owned, err := e.sm.ProductService.GetProductByID(e.owned.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, owned.Stock, "cancelling restores stock")

	_, err = e.sm.OrderService.UpdateStatus(e.ctx, order.Id, tables.OrderStatusCompleted)
	assert.ErrorIs(t, err, lib.ErrOrderLocked)
	_, err = e.sm.OrderService.UpdateStatus(e.ctx, order.Id, tables.OrderStatusCancelled)
	assert.ErrorIs(t, err, lib.ErrStatusUnchanged)
	_, err = e.sm.OrderService.UpdateStatus(e.ctx, uuid.New(), tables.OrderStatusCompleted)
	assert.ErrorIs(t, err, lib.ErrNotFound)

	_, err = e.sm.OrderService.UpdateCustomer(e.ctx, order.Id, &structs.OrderCustomerRequest{CustomerName: "Jean Martin"})
	assert.ErrorIs(t, err, lib.ErrOrderLocked)
}

func TestOrderService_UpdateCustomer(t *testing.T) {
	e := newTestEnv(t)
	order := e.checkout(t, "jean@example.fr", item(e.dropship.ID, 1))
	po, _, err := e.sm.PurchaseOrderService.GetOrCreate(e.ctx, order.Id, e.supplier.Id)
	require.NoError(t, err)

	updated, err := e.sm.OrderService.UpdateCustomer(e.ctx, order.Id, &structs.OrderCustomerRequest{
		CustomerEmail:   "Jean.Martin@Example.fr",
		ShippingAddress: &tables.Address{Street: "2 quai Rive Neuve", PostalCode: "13007", City: "Marseille", Country: "France"},
	})
	require.NoError(t, err)
	assert.Equal(t, "jean.martin@example.fr", updated.CustomerEmail)
	assert.Equal(t, "Jean Dupont", updated.CustomerName)
	assert.Equal(t, "2 quai Rive Neuve", updated.ShippingAddress.Street)

	// The purchase order keeps the address it was created with
	stored, err := e.store.PurchaseOrder(po.Id)
	require.NoError(t, err)
	assert.Equal(t, "1 rue du Port", stored.ShippingAddress.Street)
}

func TestOrderService_ListOrders(t *testing.T) {
	e := newTestEnv(t)
	first := e.checkout(t, "jean@example.fr", item(e.owned.ID, 1))
	e.checkout(t, "marie@example.fr", item(e.dropship.ID, 1))
	e.checkout(t, "luc@example.fr", item(e.owned.ID, 2))

	dropship := true
	list := e.sm.OrderService.ListOrders(&OrderListOptions{Dropshipping: &dropship})
	require.Len(t, list.Data, 1)
	assert.Equal(t, "marie@example.fr", list.Data[0].CustomerEmail)

	byTotal := e.sm.OrderService.ListOrders(&OrderListOptions{SortBy: "total", SortDirection: "asc"})
	require.Len(t, byTotal.Data, 3)
	assert.Equal(t, first.Id, byTotal.Data[0].Id)

	search := e.sm.OrderService.ListOrders(&OrderListOptions{SearchTerm: first.OrderNumber})
	require.Len(t, search.Data, 1)

	body, err := json.Marshal(search.Pagination)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"total":1`)
}
