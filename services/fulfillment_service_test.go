package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

func TestUpdateSupplierStatus_ShippedNotifiesCustomer(t *testing.T) {
	e := newTestEnv(t)
	order := e.checkout(t, "jean@example.fr", item(e.dropship.ID, 1))

	shipped, err := e.sm.FulfillmentService.UpdateSupplierStatus(e.ctx, order.Id, tables.SupplierStatusShipped, "TRK123")
	require.NoError(t, err)
	assert.Equal(t, tables.SupplierStatusShipped, shipped.SupplierStatus)
	assert.Equal(t, "TRK123", shipped.TrackingNumber)

	emails := e.notificationsFor(TemplateShippingNotification)
	require.Len(t, emails, 1)
	assert.Equal(t, "jean@example.fr", emails[0].Recipient)
	assert.Contains(t, emails[0].Body, "TRK123")

	_, err = e.sm.FulfillmentService.UpdateSupplierStatus(e.ctx, order.Id, tables.SupplierStatusPending, "")
	assert.ErrorIs(t, err, lib.ErrInvalidTransition)
	_, err = e.sm.FulfillmentService.UpdateSupplierStatus(e.ctx, order.Id, tables.SupplierStatusShipped, "")
	assert.ErrorIs(t, err, lib.ErrStatusUnchanged)
	assert.Len(t, e.notificationsFor(TemplateShippingNotification), 1)
}

func TestUpdateSupplierStatus_WithoutTrackingNumberStaysQuiet(t *testing.T) {
	e := newTestEnv(t)
	order := e.checkout(t, "jean@example.fr", item(e.dropship.ID, 1))

	_, err := e.sm.FulfillmentService.UpdateSupplierStatus(e.ctx, order.Id, tables.SupplierStatusShipped, "")
	require.NoError(t, err)
	assert.Empty(t, e.notificationsFor(TemplateShippingNotification))
}

func TestUpdateSupplierStatus_Rejections(t *testing.T) {
	e := newTestEnv(t)
	owned := e.checkout(t, "jean@example.fr", item(e.owned.ID, 1))
	dropship := e.checkout(t, "marie@example.fr", item(e.dropship.ID, 1))

	_, err := e.sm.FulfillmentService.UpdateSupplierStatus(e.ctx, owned.Id, tables.SupplierStatusSentToSupplier, "")
	assert.ErrorIs(t, err, lib.ErrInvalidTransition)

	_, err = e.sm.FulfillmentService.UpdateSupplierStatus(e.ctx, dropship.Id, tables.SupplierStatus("Lost"), "")
	assert.ErrorIs(t, err, lib.ErrInvalidStatus)

	stored, err := e.store.Order(owned.Id)
	require.NoError(t, err)
	assert.NotEqual(t, tables.SupplierStatusSentToSupplier, stored.SupplierStatus)
}

func TestSetTrackingNumber(t *testing.T) {
	e := newTestEnv(t)
	order := e.checkout(t, "jean@example.fr", item(e.dropship.ID, 1))

	// Not shipped yet: stored silently
	updated, err := e.sm.FulfillmentService.SetTrackingNumber(e.ctx, order.Id, "TRK1")
	require.NoError(t, err)
	assert.Equal(t, "TRK1", updated.TrackingNumber)
	assert.Empty(t, e.notificationsFor(TemplateShippingNotification))

	_, err = e.sm.FulfillmentService.UpdateSupplierStatus(e.ctx, order.Id, tables.SupplierStatusShipped, "")
	require.NoError(t, err)
	require.Len(t, e.notificationsFor(TemplateShippingNotification), 1)

	// Same number again: nothing new to tell
	_, err = e.sm.FulfillmentService.SetTrackingNumber(e.ctx, order.Id, "TRK1")
	require.NoError(t, err)
	assert.Len(t, e.notificationsFor(TemplateShippingNotification), 1)

	_, err = e.sm.FulfillmentService.SetTrackingNumber(e.ctx, order.Id, "TRK2")
	require.NoError(t, err)
	emails := e.notificationsFor(TemplateShippingNotification)
	require.Len(t, emails, 2)
	assert.Contains(t, emails[1].Body, "TRK2")

	_, err = e.sm.FulfillmentService.SetTrackingNumber(e.ctx, order.Id, "")
	var ve *lib.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestManualShipThenPurchaseOrderShipped_NotifiesOnce(t *testing.T) {
	e := newTestEnv(t)
	order := e.checkout(t, "jean@example.fr", item(e.dropship.ID, 1))
	po, _, err := e.sm.PurchaseOrderService.GetOrCreate(e.ctx, order.Id, e.supplier.Id)
	require.NoError(t, err)
	_, err = e.sm.PurchaseOrderService.MarkSent(e.ctx, po.Id)
	require.NoError(t, err)

	_, err = e.sm.FulfillmentService.UpdateSupplierStatus(e.ctx, order.Id, tables.SupplierStatusShipped, "COLIS-9")
	require.NoError(t, err)
	_, err = e.sm.PurchaseOrderService.UpdateStatus(e.ctx, po.Id, tables.PurchaseOrderStatusShipped, "COLIS-9")
	require.NoError(t, err)

	assert.Len(t, e.notificationsFor(TemplateShippingNotification), 1)
}
