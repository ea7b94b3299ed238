package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrder asks a supplier to ship items of an order directly to the customer.
// There is at most one purchase order per (OrderId, SupplierId).
type PurchaseOrder struct {
	Id         uuid.UUID           `json:"id"`
	PONumber   string              `json:"po_number"`
	OrderId    uuid.UUID           `json:"order_id"`
	SupplierId uuid.UUID           `json:"supplier_id"`
	Status     PurchaseOrderStatus `json:"status"`

	// Snapshot of the customer at creation time, never refreshed.
	CustomerName    string  `json:"customer_name"`
	CustomerEmail   string  `json:"customer_email"`
	ShippingAddress Address `json:"shipping_address"`

	Items []PurchaseOrderItem `json:"items"`

	TrackingNumber string     `json:"tracking_number,omitempty"`
	SentAt         *time.Time `json:"sent_at,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type PurchaseOrderItem struct {
	ProductId         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	SKU               string          `json:"sku,omitempty"`
	Quantity          int             `json:"quantity"`
	SupplierUnitPrice decimal.Decimal `json:"supplier_unit_price"`
}

func (poi PurchaseOrderItem) LineTotal() decimal.Decimal {
	return poi.SupplierUnitPrice.Mul(decimal.NewFromInt(int64(poi.Quantity)))
}

func (po *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

func (po *PurchaseOrder) Clone() *PurchaseOrder {
	if po == nil {
		return nil
	}
	c := *po
	c.Items = append([]PurchaseOrderItem(nil), po.Items...)
	if po.SentAt != nil {
		t := *po.SentAt
		c.SentAt = &t
	}
	if po.ShippedAt != nil {
		t := *po.ShippedAt
		c.ShippedAt = &t
	}
	return &c
}

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusToSend  PurchaseOrderStatus = "ToSend"
	PurchaseOrderStatusSent    PurchaseOrderStatus = "Sent"
	PurchaseOrderStatusShipped PurchaseOrderStatus = "Shipped"
)
