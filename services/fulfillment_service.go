package services

import (
	"context"
	"errors"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

const (
	TemplateOrderConfirmation     = "order-confirmation"
	TemplateShippingNotification  = "shipping-notification"
	TemplateSupplierPurchaseOrder = "supplier-purchase-order"
	TemplateInvoice               = "invoice"
	TemplatePasswordReset         = "password-reset"
)

// FulfillmentService drives the dropshipping status of orders and its
// customer-facing side effects.
type FulfillmentService struct {
	logger        *gecho.Logger
	store         *store.Store
	notifications *NotificationService
	allowBackward bool
}

func NewFulfillmentService(logger *gecho.Logger, cfg *structs.Config, st *store.Store, notifications *NotificationService) *FulfillmentService {
	return &FulfillmentService{
		logger:        logger,
		store:         st,
		notifications: notifications,
		allowBackward: cfg.Fulfillment.AllowBackward,
	}
}

// UpdateSupplierStatus moves the supplier status of an order. Reaching
// Shipped with a tracking number notifies the customer.
func (fs *FulfillmentService) UpdateSupplierStatus(ctx context.Context, orderId uuid.UUID, status tables.SupplierStatus, trackingNumber string) (*tables.Order, error) {
	action := &store.SetSupplierStatus{
		OrderId:        orderId,
		Status:         status,
		TrackingNumber: trackingNumber,
		AllowBackward:  fs.allowBackward,
	}
	if err := fs.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}

	order := action.Result
	fs.logger.Info("Supplier status updated",
		gecho.Field("order", order.OrderNumber),
		gecho.Field("from", action.Previous),
		gecho.Field("to", order.SupplierStatus))

	if order.SupplierStatus == tables.SupplierStatusShipped && order.TrackingNumber != "" {
		fs.notifyShipped(ctx, order, nil)
	}
	return order, nil
}

// SetTrackingNumber stores a tracking number on the order. When the order is
// already shipped and the number changed, the customer is told about it.
func (fs *FulfillmentService) SetTrackingNumber(ctx context.Context, orderId uuid.UUID, trackingNumber string) (*tables.Order, error) {
	action := &store.SetTrackingNumber{OrderId: orderId, TrackingNumber: trackingNumber}
	if err := fs.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}

	order := action.Result
	if order.SupplierStatus == tables.SupplierStatusShipped && action.Previous != order.TrackingNumber {
		fs.notifyShipped(ctx, order, nil)
	}
	return order, nil
}

// notifyShipped is fire-and-forget: a missing template or recipient is
// logged by the sink and never reported to the caller.
func (fs *FulfillmentService) notifyShipped(ctx context.Context, order *tables.Order, po *tables.PurchaseOrder) {
	tctx := &TemplateContext{Order: order, PurchaseOrder: po}
	recipient := order.CustomerEmail
	if po != nil {
		if supplier, err := fs.store.Supplier(po.SupplierId); err == nil {
			tctx.Supplier = supplier
		}
		recipient = po.CustomerEmail
	}
	fs.notifications.SendTemplate(ctx, TemplateShippingNotification, recipient, tctx)
}

// SyncSupplierStatus derives the order supplier status from its purchase
// orders: any PO sent moves the order to SentToSupplier, every supplier
// shipped moves it to Shipped. It only moves forward.
func (fs *FulfillmentService) SyncSupplierStatus(ctx context.Context, orderId uuid.UUID) {
	order, err := fs.store.Order(orderId)
	if err != nil || !order.IsDropshipping || order.Status == tables.OrderStatusCancelled {
		return
	}

	suppliers := order.SupplierIds()
	byStatus := make(map[tables.PurchaseOrderStatus]int)
	trackingNumber := ""
	fs.store.Read(func(st *store.State) {
		for _, supplierId := range suppliers {
			po, ok := st.PurchaseOrderFor(orderId, supplierId)
			if !ok {
				continue
			}
			byStatus[po.Status]++
			if trackingNumber == "" {
				trackingNumber = po.TrackingNumber
			}
		}
	})

	target := order.SupplierStatus
	switch {
	case byStatus[tables.PurchaseOrderStatusShipped] == len(suppliers):
		target = tables.SupplierStatusShipped
	case byStatus[tables.PurchaseOrderStatusSent]+byStatus[tables.PurchaseOrderStatusShipped] > 0:
		target = tables.SupplierStatusSentToSupplier
	}
	if target == order.SupplierStatus || !order.SupplierStatus.CanTransitionTo(target, false) {
		return
	}

	action := &store.SetSupplierStatus{OrderId: orderId, Status: target}
	if order.TrackingNumber == "" {
		action.TrackingNumber = trackingNumber
	}
	if err := fs.store.Dispatch(ctx, action); err != nil {
		if !errors.Is(err, lib.ErrStatusUnchanged) {
			fs.logger.Warn("Failed to sync supplier status",
				gecho.Field("error", err),
				gecho.Field("order", order.OrderNumber))
		}
		return
	}

	fs.logger.Debug("Supplier status synced from purchase orders",
		gecho.Field("order", order.OrderNumber),
		gecho.Field("status", target))
}
