package store

import (
	"fmt"

	"github.com/google/uuid"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

// CreateOrder places an order. Items only need ProductId and Quantity; the
// product snapshot (name, price, tax, supplier) is taken here, under the lock,
// and stock is decremented.
type CreateOrder struct {
	Order *tables.Order

	Result *tables.Order
}

func (a *CreateOrder) Name() string { return "CreateOrder" }

func (a *CreateOrder) Apply(st *State) error {
	o := a.Order.Clone()
	if o == nil || len(o.Items) == 0 {
		return lib.NewValidationError("items", "is required")
	}
	if o.OrderNumber == "" {
		return lib.NewValidationError("order_number", "is required")
	}
	if _, taken := st.orderNumbers[o.OrderNumber]; taken {
		return fmt.Errorf("order number %s: %w", o.OrderNumber, lib.ErrConflict)
	}

	// Validate everything before touching stock
	needed := make(map[uuid.UUID]int)
	for i := range o.Items {
		item := &o.Items[i]
		if item.Quantity < 1 {
			return lib.NewValidationError("quantity", "must be greater than or equal to 1")
		}

		product, ok := st.Products[item.ProductId]
		if !ok {
			return fmt.Errorf("product %s: %w", item.ProductId, lib.ErrNotFound)
		}
		if !product.IsActive {
			return fmt.Errorf("product %s (%s): %w", product.Name, product.SKU, lib.ErrProductInactive)
		}
		if product.SupplierId != nil {
			if _, known := st.Suppliers[*product.SupplierId]; !known {
				return fmt.Errorf("product %s references supplier %s: %w", product.SKU, product.SupplierId, lib.ErrUnknownSupplier)
			}
		}

		needed[product.ID] += item.Quantity
		// Dropshipped products are not held in stock
		if product.SupplierId == nil && needed[product.ID] > product.Stock {
			return fmt.Errorf("product %s: %w", product.SKU, lib.ErrInsufficientStock)
		}

		item.ProductName = product.Name
		item.SKU = product.SKU
		item.UnitPrice = product.Price
		item.TaxRate = product.TaxRate
		item.SupplierPrice = product.PurchasePrice
		item.SupplierId = nil
		if product.SupplierId != nil {
			id := *product.SupplierId
			item.SupplierId = &id
		}
	}

	for productId, qty := range needed {
		if p := st.Products[productId]; p.SupplierId == nil {
			p.Stock -= qty
			p.UpdatedAt = st.Now()
		}
	}

	if o.Id == uuid.Nil {
		o.Id = uuid.New()
	}
	o.Status = tables.OrderStatusPending
	o.IsDropshipping = len(o.SupplierIds()) > 0
	o.SupplierStatus = ""
	if o.IsDropshipping {
		o.SupplierStatus = tables.SupplierStatusPending
	}
	o.RecalculateTotals()
	o.CreatedAt = st.Now()
	o.UpdatedAt = o.CreatedAt

	st.Orders[o.Id] = o
	st.orderNumbers[o.OrderNumber] = o.Id
	a.Result = o.Clone()
	return nil
}

// SetOrderStatus moves an order to Completed or Cancelled. Cancelling puts
// owned stock back.
type SetOrderStatus struct {
	OrderId uuid.UUID
	Status  tables.OrderStatus

	Result *tables.Order
}

func (a *SetOrderStatus) Name() string { return "SetOrderStatus" }

func (a *SetOrderStatus) Apply(st *State) error {
	o, ok := st.Orders[a.OrderId]
	if !ok {
		return fmt.Errorf("order %s: %w", a.OrderId, lib.ErrNotFound)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", lib.ErrInvalidStatus, a.Status)
	}
	if o.Status == a.Status {
		return lib.ErrStatusUnchanged
	}
	if o.IsLocked() {
		return fmt.Errorf("order %s is %s: %w", o.OrderNumber, o.Status, lib.ErrOrderLocked)
	}
	if !o.Status.CanTransitionTo(a.Status) {
		return fmt.Errorf("%w from %s to %s", lib.ErrInvalidTransition, o.Status, a.Status)
	}

	if a.Status == tables.OrderStatusCancelled {
		for _, item := range o.Items {
			if p, ok := st.Products[item.ProductId]; ok && item.SupplierId == nil {
				p.Stock += item.Quantity
				p.UpdatedAt = st.Now()
			}
		}
	}

	o.Status = a.Status
	o.UpdatedAt = st.Now()
	a.Result = o.Clone()
	return nil
}

// SetSupplierStatus moves the dropshipping status of an order.
type SetSupplierStatus struct {
	OrderId        uuid.UUID
	Status         tables.SupplierStatus
	TrackingNumber string
	AllowBackward  bool

	Previous tables.SupplierStatus
	Result   *tables.Order
}

func (a *SetSupplierStatus) Name() string { return "SetSupplierStatus" }

func (a *SetSupplierStatus) Apply(st *State) error {
	o, ok := st.Orders[a.OrderId]
	if !ok {
		return fmt.Errorf("order %s: %w", a.OrderId, lib.ErrNotFound)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", lib.ErrInvalidStatus, a.Status)
	}
	if !o.IsDropshipping {
		return fmt.Errorf("order %s is not a dropshipping order: %w", o.OrderNumber, lib.ErrInvalidTransition)
	}
	if o.Status == tables.OrderStatusCancelled {
		return fmt.Errorf("order %s is %s: %w", o.OrderNumber, o.Status, lib.ErrOrderLocked)
	}
	if o.SupplierStatus == a.Status {
		return lib.ErrStatusUnchanged
	}
	if !o.SupplierStatus.CanTransitionTo(a.Status, a.AllowBackward) {
		return fmt.Errorf("%w from %s to %s", lib.ErrInvalidTransition, o.SupplierStatus, a.Status)
	}

	a.Previous = o.SupplierStatus
	o.SupplierStatus = a.Status
	if a.TrackingNumber != "" {
		o.TrackingNumber = a.TrackingNumber
	}
	o.UpdatedAt = st.Now()
	a.Result = o.Clone()
	return nil
}

// UpdateOrderCustomer edits the customer and shipping details of a pending
// order. Existing purchase orders keep their snapshot.
type UpdateOrderCustomer struct {
	OrderId         uuid.UUID
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress tables.Address

	Result *tables.Order
}

func (a *UpdateOrderCustomer) Name() string { return "UpdateOrderCustomer" }

func (a *UpdateOrderCustomer) Apply(st *State) error {
	o, ok := st.Orders[a.OrderId]
	if !ok {
		return fmt.Errorf("order %s: %w", a.OrderId, lib.ErrNotFound)
	}
	if o.IsLocked() {
		return fmt.Errorf("order %s is %s: %w", o.OrderNumber, o.Status, lib.ErrOrderLocked)
	}

	if a.CustomerName != "" {
		o.CustomerName = a.CustomerName
	}
	if a.CustomerEmail != "" {
		o.CustomerEmail = a.CustomerEmail
	}
	if a.CustomerPhone != "" {
		o.CustomerPhone = a.CustomerPhone
	}
	if !a.ShippingAddress.IsZero() {
		o.ShippingAddress = a.ShippingAddress
	}
	o.UpdatedAt = st.Now()
	a.Result = o.Clone()
	return nil
}

// SetTrackingNumber records the carrier tracking number of an order without
// moving any status.
type SetTrackingNumber struct {
	OrderId        uuid.UUID
	TrackingNumber string

	Previous string
	Result   *tables.Order
}

func (a *SetTrackingNumber) Name() string { return "SetTrackingNumber" }

func (a *SetTrackingNumber) Apply(st *State) error {
	o, ok := st.Orders[a.OrderId]
	if !ok {
		return fmt.Errorf("order %s: %w", a.OrderId, lib.ErrNotFound)
	}
	if o.Status == tables.OrderStatusCancelled {
		return fmt.Errorf("order %s is %s: %w", o.OrderNumber, o.Status, lib.ErrOrderLocked)
	}
	if a.TrackingNumber == "" {
		return lib.NewValidationError("tracking_number", "is required")
	}
	a.Previous = o.TrackingNumber
	o.TrackingNumber = a.TrackingNumber
	o.UpdatedAt = st.Now()
	a.Result = o.Clone()
	return nil
}
