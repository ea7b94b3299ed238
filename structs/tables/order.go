package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Order struct {
	// Identifiers
	Id          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`

	// Customer Data
	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`
	CustomerPhone string `json:"customer_phone,omitempty"`
	Note          string `json:"note,omitempty"`

	ShippingAddress Address    `json:"shipping_address"`
	Items           []CartItem `json:"items"`

	PaymentMethod PaymentMethodType `json:"payment_method,omitempty"`

	// Totals computed at checkout
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`

	// Fulfillment
	Status         OrderStatus    `json:"status"`
	IsDropshipping bool           `json:"is_dropshipping"`
	SupplierStatus SupplierStatus `json:"supplier_status,omitempty"`
	TrackingNumber string         `json:"tracking_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CartItem struct {
	ProductId   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"` // excl. tax
	TaxRate     decimal.Decimal `json:"tax_rate"`   // 0.20 for 20%

	// Dropshipping
	SupplierId    *uuid.UUID      `json:"supplier_id,omitempty"`
	SupplierPrice decimal.Decimal `json:"supplier_price"` // purchase price when ordered
}

func (ci CartItem) LineSubtotal() decimal.Decimal {
	return ci.UnitPrice.Mul(decimal.NewFromInt(int64(ci.Quantity)))
}

func (ci CartItem) LineTax() decimal.Decimal {
	return ci.LineSubtotal().Mul(ci.TaxRate)
}

func (ci CartItem) LineTotal() decimal.Decimal {
	return ci.LineSubtotal().Add(ci.LineTax())
}

// RecalculateTotals sets Subtotal, Tax and Total from the items.
func (o *Order) RecalculateTotals() {
	subtotal, tax := decimal.Zero, decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineSubtotal())
		tax = tax.Add(item.LineTax())
	}
	o.Subtotal = subtotal.Round(2)
	o.Tax = tax.Round(2)
	o.Total = o.Subtotal.Add(o.Tax)
}

// IsLocked reports whether the order accepts no further edits.
func (o *Order) IsLocked() bool {
	return o.Status == OrderStatusCompleted || o.Status == OrderStatusCancelled
}

// ShippedWith reports whether the order is already shipped under this
// tracking number.
func (o *Order) ShippedWith(trackingNumber string) bool {
	return o.SupplierStatus == SupplierStatusShipped && o.TrackingNumber == trackingNumber
}

// SupplierIds returns the distinct supplier ids of the items in first-appearance order.
func (o *Order) SupplierIds() []uuid.UUID {
	seen := make(map[uuid.UUID]bool)
	ids := make([]uuid.UUID, 0)
	for _, item := range o.Items {
		if item.SupplierId == nil || seen[*item.SupplierId] {
			continue
		}
		seen[*item.SupplierId] = true
		ids = append(ids, *item.SupplierId)
	}
	return ids
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	c.Items = make([]CartItem, len(o.Items))
	for i, item := range o.Items {
		if item.SupplierId != nil {
			id := *item.SupplierId
			item.SupplierId = &id
		}
		c.Items[i] = item
	}
	return &c
}

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusCompleted OrderStatus = "Completed"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

type SupplierStatus string

const (
	SupplierStatusPending        SupplierStatus = "Pending"
	SupplierStatusSentToSupplier SupplierStatus = "SentToSupplier"
	SupplierStatusShipped        SupplierStatus = "Shipped"
)
