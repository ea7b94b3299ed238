package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

var PurchaseOrdersTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "poolshop",
		Subsystem: "purchase_orders",
		Name:      "events_total",
		Help:      "Purchase order lifecycle events",
	},
	[]string{"event"},
)

// SupplierGroup holds the items of an order that one supplier ships.
type SupplierGroup struct {
	SupplierId uuid.UUID         `json:"supplier_id"`
	Items      []tables.CartItem `json:"items"`
}

// GroupBySupplier groups dropshipped items by supplier, in order of first
// appearance. Items without a supplier are not part of any group.
func GroupBySupplier(order *tables.Order) []SupplierGroup {
	groups := make([]SupplierGroup, 0)
	index := make(map[uuid.UUID]int)
	for _, item := range order.Items {
		if item.SupplierId == nil || *item.SupplierId == uuid.Nil {
			continue
		}
		i, ok := index[*item.SupplierId]
		if !ok {
			i = len(groups)
			index[*item.SupplierId] = i
			groups = append(groups, SupplierGroup{SupplierId: *item.SupplierId})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

type PurchaseOrderService struct {
	logger        *gecho.Logger
	cfg           *structs.Config
	store         *store.Store
	notifications *NotificationService
	fulfillment   *FulfillmentService
	currency      *lib.CurrencyFormatter
}

func NewPurchaseOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	st *store.Store,
	notifications *NotificationService,
	fulfillment *FulfillmentService,
) *PurchaseOrderService {
	return &PurchaseOrderService{
		logger:        logger,
		cfg:           cfg,
		store:         st,
		notifications: notifications,
		fulfillment:   fulfillment,
		currency:      lib.NewCurrencyFormatter(cfg.Shop.CurrencyLocale, cfg.Shop.CurrencySymbol),
	}
}

// buildPurchaseOrder runs under the store lock; it must stay free of I/O.
func buildPurchaseOrder(order *tables.Order, supplier *tables.Supplier) (*tables.PurchaseOrder, error) {
	var items []tables.PurchaseOrderItem
	for _, group := range GroupBySupplier(order) {
		if group.SupplierId != supplier.Id {
			continue
		}
		for _, item := range group.Items {
			items = append(items, tables.PurchaseOrderItem{
				ProductId:         item.ProductId,
				ProductName:       item.ProductName,
				SKU:               item.SKU,
				Quantity:          item.Quantity,
				SupplierUnitPrice: item.SupplierPrice,
			})
		}
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("order %s, supplier %s: %w", order.OrderNumber, supplier.Name, lib.ErrNoSupplierItems)
	}

	return &tables.PurchaseOrder{
		PONumber:        lib.GenerateReference(lib.PrefixPurchaseOrder),
		Status:          tables.PurchaseOrderStatusToSend,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		ShippingAddress: order.ShippingAddress,
		Items:           items,
	}, nil
}

// GetOrCreate returns the purchase order of (orderId, supplierId), creating
// it when missing. Concurrent calls for the same pair yield a single PO.
func (ps *PurchaseOrderService) GetOrCreate(ctx context.Context, orderId, supplierId uuid.UUID) (*tables.PurchaseOrder, bool, error) {
	action := &store.GetOrCreatePurchaseOrder{
		OrderId:    orderId,
		SupplierId: supplierId,
		Build:      buildPurchaseOrder,
	}
	if err := ps.store.Dispatch(ctx, action); err != nil {
		if errors.Is(err, lib.ErrUnknownSupplier) {
			ps.logger.Error("Purchase order requested for unknown supplier",
				gecho.Field("order_id", orderId),
				gecho.Field("supplier_id", supplierId))
		}
		return nil, false, err
	}

	if action.Created {
		PurchaseOrdersTotal.WithLabelValues("created").Inc()
		ps.logger.Info("Purchase order created",
			gecho.Field("po", action.Result.PONumber),
			gecho.Field("order_id", orderId),
			gecho.Field("supplier_id", supplierId),
			gecho.Field("items", len(action.Result.Items)))
	}
	return action.Result, action.Created, nil
}

// GenerateForOrder makes sure every supplier of the order has its purchase order.
func (ps *PurchaseOrderService) GenerateForOrder(ctx context.Context, orderId uuid.UUID) ([]*tables.PurchaseOrder, error) {
	order, err := ps.store.Order(orderId)
	if err != nil {
		return nil, err
	}

	groups := GroupBySupplier(order)
	if len(groups) == 0 {
		return nil, fmt.Errorf("order %s: %w", order.OrderNumber, lib.ErrNoSupplierItems)
	}

	out := make([]*tables.PurchaseOrder, 0, len(groups))
	for _, group := range groups {
		po, _, err := ps.GetOrCreate(ctx, orderId, group.SupplierId)
		if err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	return out, nil
}

// SendToSupplier emails the purchase order to the supplier and marks it Sent.
// Sending again re-emails without moving the status. The returned flag is
// false when no email went out, e.g. because the template is disabled; the
// status still moves.
func (ps *PurchaseOrderService) SendToSupplier(ctx context.Context, poId uuid.UUID) (*tables.PurchaseOrder, bool, error) {
	po, err := ps.store.PurchaseOrder(poId)
	if err != nil {
		return nil, false, err
	}
	supplier, err := ps.store.Supplier(po.SupplierId)
	if err != nil {
		return nil, false, fmt.Errorf("purchase order %s: %w", po.PONumber, lib.ErrUnknownSupplier)
	}
	order, err := ps.store.Order(po.OrderId)
	if err != nil {
		return nil, false, err
	}

	emailed := ps.notifications.SendTemplate(ctx, TemplateSupplierPurchaseOrder, supplier.Email, &TemplateContext{
		Order:         order,
		Supplier:      supplier,
		PurchaseOrder: po,
		Values: map[string]string{
			"poNumber":   po.PONumber,
			"poTotal":    ps.currency.Format(po.Total()),
			"shopName":   ps.cfg.Shop.Name,
			"shopEmail":  ps.cfg.Shop.SupportEmail,
			"itemsCount": fmt.Sprint(len(po.Items)),
		},
	}) != nil
	if emailed {
		PurchaseOrdersTotal.WithLabelValues("emailed").Inc()
	} else {
		ps.logger.Warn("Purchase order not emailed to supplier",
			gecho.Field("po", po.PONumber),
			gecho.Field("supplier", supplier.Name))
	}

	if po.Status != tables.PurchaseOrderStatusToSend {
		return po, emailed, nil
	}
	po, err = ps.UpdateStatus(ctx, poId, tables.PurchaseOrderStatusSent, "")
	if err != nil {
		return nil, false, err
	}
	return po, emailed, nil
}

// MarkSent records a purchase order as sent without emailing it, for orders
// passed to the supplier by phone or portal.
func (ps *PurchaseOrderService) MarkSent(ctx context.Context, poId uuid.UUID) (*tables.PurchaseOrder, error) {
	return ps.UpdateStatus(ctx, poId, tables.PurchaseOrderStatusSent, "")
}

// UpdateStatus moves a purchase order. Shipped with a tracking number
// notifies the customer.
func (ps *PurchaseOrderService) UpdateStatus(ctx context.Context, poId uuid.UUID, status tables.PurchaseOrderStatus, trackingNumber string) (*tables.PurchaseOrder, error) {
	action := &store.SetPurchaseOrderStatus{
		Id:             poId,
		Status:         status,
		TrackingNumber: trackingNumber,
		AllowBackward:  ps.cfg.Fulfillment.AllowBackward,
	}
	if err := ps.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}

	po := action.Result
	PurchaseOrdersTotal.WithLabelValues(string(po.Status)).Inc()
	ps.logger.Info("Purchase order status updated",
		gecho.Field("po", po.PONumber),
		gecho.Field("from", action.Previous),
		gecho.Field("to", po.Status))

	if po.Status == tables.PurchaseOrderStatusShipped && po.TrackingNumber != "" {
		// An order already shipped by hand under this number was notified then
		if order, err := ps.store.Order(po.OrderId); err == nil && !order.ShippedWith(po.TrackingNumber) {
			ps.fulfillment.notifyShipped(ctx, order, po)
		}
	}

	ps.fulfillment.SyncSupplierStatus(ctx, po.OrderId)
	return po, nil
}

func (ps *PurchaseOrderService) Get(id uuid.UUID) (*tables.PurchaseOrder, error) {
	return ps.store.PurchaseOrder(id)
}

// ListByOrder returns the purchase orders of an order in supplier order.
func (ps *PurchaseOrderService) ListByOrder(orderId uuid.UUID) ([]*tables.PurchaseOrder, error) {
	order, err := ps.store.Order(orderId)
	if err != nil {
		return nil, err
	}

	out := make([]*tables.PurchaseOrder, 0)
	ps.store.Read(func(st *store.State) {
		for _, supplierId := range order.SupplierIds() {
			if po, ok := st.PurchaseOrderFor(orderId, supplierId); ok {
				out = append(out, po.Clone())
			}
		}
	})
	return out, nil
}

type PurchaseOrderListOptions struct {
	Page       int
	PageSize   int
	Status     tables.PurchaseOrderStatus
	SupplierId *uuid.UUID
	OrderId    *uuid.UUID
}

// List returns purchase orders, newest first.
func (ps *PurchaseOrderService) List(opts *PurchaseOrderListOptions) *store.PaginationResult[*tables.PurchaseOrder] {
	if opts == nil {
		opts = &PurchaseOrderListOptions{}
	}

	q := store.From(ps.store.PurchaseOrders()).
		WhereIf(opts.Status != "", func(po *tables.PurchaseOrder) bool { return po.Status == opts.Status }).
		WhereIf(opts.SupplierId != nil, func(po *tables.PurchaseOrder) bool { return po.SupplierId == *opts.SupplierId }).
		WhereIf(opts.OrderId != nil, func(po *tables.PurchaseOrder) bool { return po.OrderId == *opts.OrderId }).
		OrderBy(func(a, b *tables.PurchaseOrder) int { return a.CreatedAt.Compare(b.CreatedAt) }, store.DESC).
		OrderBy(func(a, b *tables.PurchaseOrder) int { return strings.Compare(a.PONumber, b.PONumber) }, store.ASC)

	return store.Paginate(q, opts.Page, opts.PageSize)
}
