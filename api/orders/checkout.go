package orders

import (
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

// orderItemView is a cart line without supplier prices.
type orderItemView struct {
	ProductName string          `json:"product_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// orderView is what a customer sees of an order.
type orderView struct {
	OrderNumber     string                   `json:"order_number"`
	Status          tables.OrderStatus       `json:"status"`
	CustomerName    string                   `json:"customer_name"`
	ShippingAddress tables.Address           `json:"shipping_address"`
	PaymentMethod   tables.PaymentMethodType `json:"payment_method,omitempty"`
	TrackingNumber  string                   `json:"tracking_number,omitempty"`
	Items           []orderItemView          `json:"items"`
	Subtotal        decimal.Decimal          `json:"subtotal"`
	Tax             decimal.Decimal          `json:"tax"`
	Total           decimal.Decimal          `json:"total"`
	CreatedAt       time.Time                `json:"created_at"`
}

func newOrderView(o *tables.Order) *orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemView{
			ProductName: item.ProductName,
			SKU:         item.SKU,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
			LineTotal:   item.LineTotal(),
		})
	}
	return &orderView{
		OrderNumber:     o.OrderNumber,
		Status:          o.Status,
		CustomerName:    o.CustomerName,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		TrackingNumber:  o.TrackingNumber,
		Items:           items,
		Subtotal:        o.Subtotal,
		Tax:             o.Tax,
		Total:           o.Total,
		CreatedAt:       o.CreatedAt,
	}
}

// Checkout handles POST /orders/checkout
func (orm *OrderRoutesManager) Checkout(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.CheckoutRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "order", w)
		return
	}

	order, err := orm.orderService.Checkout(r.Context(), body)
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.created"),
		gecho.WithData(newOrderView(order)),
		gecho.Send(),
	)
}

// GetOrder handles GET /orders/{number}
func (orm *OrderRoutesManager) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := orm.orderService.GetOrderByNumber(chi.URLParam(r, "number"))
	if err != nil {
		handling.HandleServiceError(err, "order", orm.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(newOrderView(order)),
		gecho.Send(),
	)
}

// ListPaymentMethods handles GET /orders/payment-methods; only enabled
// methods are offered.
func (orm *OrderRoutesManager) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(orm.paymentService.Enabled()),
		gecho.Send(),
	)
}
