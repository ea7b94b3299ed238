package store

import (
	"fmt"

	"github.com/google/uuid"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

// PurchaseOrderBuilder builds a new purchase order from copies of the order and supplier.
type PurchaseOrderBuilder func(order *tables.Order, supplier *tables.Supplier) (*tables.PurchaseOrder, error)

// GetOrCreatePurchaseOrder returns the purchase order of (OrderId, SupplierId),
// creating it with Build when none exists. Lookup and insert happen under the
// same lock, so concurrent callers never create duplicates.
type GetOrCreatePurchaseOrder struct {
	OrderId    uuid.UUID
	SupplierId uuid.UUID
	Build      PurchaseOrderBuilder

	Result  *tables.PurchaseOrder
	Created bool
}

func (a *GetOrCreatePurchaseOrder) Name() string { return "GetOrCreatePurchaseOrder" }

func (a *GetOrCreatePurchaseOrder) Apply(st *State) error {
	order, ok := st.Orders[a.OrderId]
	if !ok {
		return fmt.Errorf("order %s: %w", a.OrderId, lib.ErrNotFound)
	}

	if existing, ok := st.PurchaseOrderFor(a.OrderId, a.SupplierId); ok {
		a.Result = existing.Clone()
		a.Created = false
		return nil
	}

	supplier, ok := st.Suppliers[a.SupplierId]
	if !ok {
		return fmt.Errorf("supplier %s: %w", a.SupplierId, lib.ErrUnknownSupplier)
	}
	if order.Status == tables.OrderStatusCancelled {
		return fmt.Errorf("order %s is %s: %w", order.OrderNumber, order.Status, lib.ErrOrderLocked)
	}

	po, err := a.Build(order.Clone(), supplier.Clone())
	if err != nil {
		return err
	}
	if po.Id == uuid.Nil {
		po.Id = uuid.New()
	}
	po.OrderId = a.OrderId
	po.SupplierId = a.SupplierId
	po.CreatedAt = st.Now()
	po.UpdatedAt = po.CreatedAt

	st.PurchaseOrders[po.Id] = po
	st.poIndex[poKey{a.OrderId, a.SupplierId}] = po.Id
	a.Result = po.Clone()
	a.Created = true
	return nil
}

// SetPurchaseOrderStatus moves a purchase order along ToSend -> Sent -> Shipped.
type SetPurchaseOrderStatus struct {
	Id             uuid.UUID
	Status         tables.PurchaseOrderStatus
	TrackingNumber string
	AllowBackward  bool

	Previous tables.PurchaseOrderStatus
	Result   *tables.PurchaseOrder
}

func (a *SetPurchaseOrderStatus) Name() string { return "SetPurchaseOrderStatus" }

func (a *SetPurchaseOrderStatus) Apply(st *State) error {
	po, ok := st.PurchaseOrders[a.Id]
	if !ok {
		return fmt.Errorf("purchase order %s: %w", a.Id, lib.ErrNotFound)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", lib.ErrInvalidStatus, a.Status)
	}
	if po.Status == a.Status {
		return lib.ErrStatusUnchanged
	}
	if !po.Status.CanTransitionTo(a.Status, a.AllowBackward) {
		return fmt.Errorf("%w from %s to %s", lib.ErrInvalidTransition, po.Status, a.Status)
	}

	now := st.Now()
	a.Previous = po.Status
	po.Status = a.Status
	switch a.Status {
	case tables.PurchaseOrderStatusSent:
		po.SentAt = &now
	case tables.PurchaseOrderStatusShipped:
		po.ShippedAt = &now
		if po.SentAt == nil {
			po.SentAt = &now
		}
	}
	if a.TrackingNumber != "" {
		po.TrackingNumber = a.TrackingNumber
	}
	po.UpdatedAt = now
	a.Result = po.Clone()
	return nil
}
