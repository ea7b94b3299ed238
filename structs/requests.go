package structs

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"poolshop_server/structs/tables"
)

type CheckoutItem struct {
	ProductId uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1,max=999"`
}

type CheckoutRequest struct {
	CustomerName    string                   `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail   string                   `json:"customer_email" validate:"required,email"`
	CustomerPhone   string                   `json:"customer_phone" validate:"omitempty,min=6,max=20"`
	Note            string                   `json:"note" validate:"omitempty,max=1000"`
	ShippingAddress tables.Address           `json:"shipping_address"`
	PaymentMethod   tables.PaymentMethodType `json:"payment_method" validate:"omitempty,oneof=bank_transfer card paypal cash_on_delivery"`
	Items           []CheckoutItem           `json:"items" validate:"required,min=1,dive"`
}

type OrderStatusRequest struct {
	Status tables.OrderStatus `json:"status" validate:"required"`
}

type SupplierStatusRequest struct {
	Status         tables.SupplierStatus `json:"status" validate:"required"`
	TrackingNumber string                `json:"tracking_number" validate:"omitempty,max=100"`
}

type TrackingRequest struct {
	TrackingNumber string `json:"tracking_number" validate:"required,max=100"`
}

type OrderCustomerRequest struct {
	CustomerName    string          `json:"customer_name" validate:"omitempty,min=2,max=100"`
	CustomerEmail   string          `json:"customer_email" validate:"omitempty,email"`
	CustomerPhone   string          `json:"customer_phone" validate:"omitempty,min=6,max=20"`
	ShippingAddress *tables.Address `json:"shipping_address" validate:"omitempty"`
}

type PurchaseOrderStatusRequest struct {
	Status         tables.PurchaseOrderStatus `json:"status" validate:"required"`
	TrackingNumber string                     `json:"tracking_number" validate:"omitempty,max=100"`
}

type GetOrCreatePurchaseOrderRequest struct {
	SupplierId uuid.UUID `json:"supplier_id" validate:"required"`
}

type InvoiceRequest struct {
	OrderId        *uuid.UUID           `json:"order_id"`
	CustomerName   string               `json:"customer_name" validate:"required,min=2,max=100"`
	CustomerEmail  string               `json:"customer_email" validate:"required,email"`
	BillingAddress *tables.Address      `json:"billing_address" validate:"omitempty"`
	Items          []tables.InvoiceItem `json:"items" validate:"required,min=1,dive"`
	Discount       *tables.Discount     `json:"discount"`
	Notes          string               `json:"notes" validate:"omitempty,max=2000"`
	DueAt          *time.Time           `json:"due_at"`
}

type SupplierRequest struct {
	Name  string `json:"name" validate:"required,min=2,max=100"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"omitempty,min=6,max=20"`
}

type ProductRequest struct {
	SKU           string          `json:"sku" validate:"required,min=1,max=64"`
	Name          string          `json:"name" validate:"required,min=1,max=200"`
	Description   string          `json:"description" validate:"omitempty,max=5000"`
	CategoryId    *uuid.UUID      `json:"category_id"`
	Price         decimal.Decimal `json:"price"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Stock         int             `json:"stock" validate:"gte=0"`
	LowStockAt    int             `json:"low_stock_at" validate:"gte=0"`
	SupplierId    *uuid.UUID      `json:"supplier_id"`
	IsActive      *bool           `json:"is_active"`
}

type StockAdjustmentRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type CategoryRequest struct {
	Name        string     `json:"name" validate:"required,min=1,max=100"`
	Description string     `json:"description" validate:"omitempty,max=1000"`
	ParentId    *uuid.UUID `json:"parent_id"`
}

type TemplateRequest struct {
	Name     string                  `json:"name" validate:"required,min=1,max=100"`
	Subject  string                  `json:"subject" validate:"required,max=200"`
	Body     string                  `json:"body" validate:"required"`
	Category tables.TemplateCategory `json:"category" validate:"required,oneof=transactional marketing lifecycle"`
	Enabled  bool                    `json:"enabled"`
}

type TemplatePreviewRequest struct {
	OrderId *uuid.UUID        `json:"order_id"`
	Values  map[string]string `json:"values"`
}

type CustomNotificationRequest struct {
	Recipient string `json:"recipient" validate:"required,email"`
	Subject   string `json:"subject" validate:"required,max=200"`
	Body      string `json:"body" validate:"required"`
}

type CampaignRequest struct {
	TemplateId string         `json:"template_id" validate:"required"`
	Segment    tables.Segment `json:"segment" validate:"required,oneof=New Loyal VIP Inactive At-risk"`
}
