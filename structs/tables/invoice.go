package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	Id            uuid.UUID     `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	OrderId       *uuid.UUID    `json:"order_id,omitempty"`
	Status        InvoiceStatus `json:"status"`

	CustomerName   string  `json:"customer_name"`
	CustomerEmail  string  `json:"customer_email"`
	BillingAddress Address `json:"billing_address"`

	Items    []InvoiceItem `json:"items"`
	Discount *Discount     `json:"discount,omitempty"`
	Notes    string        `json:"notes,omitempty"`

	IssuedAt  time.Time  `json:"issued_at"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type InvoiceItem struct {
	Description string          `json:"description" validate:"required,min=1,max=200"`
	Quantity    int             `json:"quantity" validate:"required,min=1"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type Discount struct {
	Type  DiscountType    `json:"type" validate:"required,oneof=percent fixed"`
	Value decimal.Decimal `json:"value"`
}

type InvoiceTotals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
}

// Totals computes subtotal + tax - discount. A percent discount applies to
// subtotal + tax; the total never drops below zero.
func (inv *Invoice) Totals() InvoiceTotals {
	subtotal, tax := decimal.Zero, decimal.Zero
	for _, item := range inv.Items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(line)
		tax = tax.Add(line.Mul(item.TaxRate))
	}

	gross := subtotal.Add(tax)
	discount := decimal.Zero
	if inv.Discount != nil {
		switch inv.Discount.Type {
		case DiscountPercent:
			discount = gross.Mul(inv.Discount.Value).Div(decimal.NewFromInt(100))
		case DiscountFixed:
			discount = inv.Discount.Value
		}
	}
	if discount.GreaterThan(gross) {
		discount = gross
	}

	return InvoiceTotals{
		Subtotal: subtotal.Round(2),
		Tax:      tax.Round(2),
		Discount: discount.Round(2),
		Total:    gross.Sub(discount).Round(2),
	}
}

// IsLocked reports whether the invoice reached a terminal status.
func (inv *Invoice) IsLocked() bool {
	return inv.Status == InvoiceStatusPaid || inv.Status == InvoiceStatusCancelled
}

func (inv *Invoice) Clone() *Invoice {
	if inv == nil {
		return nil
	}
	c := *inv
	c.Items = append([]InvoiceItem(nil), inv.Items...)
	if inv.OrderId != nil {
		id := *inv.OrderId
		c.OrderId = &id
	}
	if inv.Discount != nil {
		d := *inv.Discount
		c.Discount = &d
	}
	if inv.DueAt != nil {
		t := *inv.DueAt
		c.DueAt = &t
	}
	if inv.PaidAt != nil {
		t := *inv.PaidAt
		c.PaidAt = &t
	}
	return &c
}

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "Draft"
	InvoiceStatusSent      InvoiceStatus = "Sent"
	InvoiceStatusPaid      InvoiceStatus = "Paid"
	InvoiceStatusCancelled InvoiceStatus = "Cancelled"
)
