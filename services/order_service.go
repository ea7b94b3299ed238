package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

const maxOrderNumberAttempts = 5

type OrderService struct {
	logger        *gecho.Logger
	cfg           *structs.Config
	store         *store.Store
	notifications *NotificationService
	payments      *PaymentService
}

func NewOrderService(
	logger *gecho.Logger,
	cfg *structs.Config,
	st *store.Store,
	notifications *NotificationService,
	payments *PaymentService,
) *OrderService {
	return &OrderService{
		logger:        logger,
		cfg:           cfg,
		store:         st,
		notifications: notifications,
		payments:      payments,
	}
}

// Checkout places an order and sends the confirmation email.
func (os *OrderService) Checkout(ctx context.Context, req *structs.CheckoutRequest) (*tables.Order, error) {
	startTime := time.Now()

	if err := lib.ValidateStruct(req); err != nil {
		return nil, err
	}

	if req.PaymentMethod != "" {
		if err := os.payments.CheckAvailable(req.PaymentMethod, os.quote(req.Items)); err != nil {
			return nil, err
		}
	}

	items := make([]tables.CartItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, tables.CartItem{ProductId: item.ProductId, Quantity: item.Quantity})
	}

	var order *tables.Order
	for attempt := 1; ; attempt++ {
		action := &store.CreateOrder{Order: &tables.Order{
			OrderNumber:     lib.GenerateReference(lib.PrefixOrder),
			CustomerName:    strings.TrimSpace(req.CustomerName),
			CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
			CustomerPhone:   req.CustomerPhone,
			Note:            req.Note,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Items:           items,
		}}

		err := os.store.Dispatch(ctx, action)
		if err == nil {
			order = action.Result
			break
		}
		if !errors.Is(err, lib.ErrConflict) || attempt == maxOrderNumberAttempts {
			if errors.Is(err, lib.ErrUnknownSupplier) {
				os.logger.Error("Checkout rejected: product references an unknown supplier", gecho.Field("error", err))
			}
			return nil, err
		}
		os.logger.Warn("Order number collision, retrying", gecho.Field("attempt", attempt))
	}

	os.logger.Info("Order placed",
		gecho.Field("order", order.OrderNumber),
		gecho.Field("total", order.Total.StringFixed(2)),
		gecho.Field("dropshipping", order.IsDropshipping),
		gecho.Field("duration", time.Since(startTime)))

	os.notifications.SendTemplate(ctx, TemplateOrderConfirmation, order.CustomerEmail, &TemplateContext{
		Order: order,
		Values: map[string]string{
			"shopName":  os.cfg.Shop.Name,
			"shopEmail": os.cfg.Shop.SupportEmail,
		},
	})

	return order, nil
}

// quote estimates the order total from current prices, for payment limits.
func (os *OrderService) quote(items []structs.CheckoutItem) decimal.Decimal {
	total := decimal.Zero
	os.store.Read(func(st *store.State) {
		for _, item := range items {
			if p, ok := st.Products[item.ProductId]; ok {
				line := tables.CartItem{Quantity: item.Quantity, UnitPrice: p.Price, TaxRate: p.TaxRate}
				total = total.Add(line.LineTotal())
			}
		}
	})
	return total.Round(2)
}

func (os *OrderService) GetOrder(id uuid.UUID) (*tables.Order, error) {
	return os.store.Order(id)
}

func (os *OrderService) GetOrderByNumber(number string) (*tables.Order, error) {
	return os.store.OrderByNumber(number)
}

// OrderListOptions contains filtering and pagination options for order queries
type OrderListOptions struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	Status         tables.OrderStatus    `json:"status,omitempty"`
	SupplierStatus tables.SupplierStatus `json:"supplier_status,omitempty"`
	Dropshipping   *bool                 `json:"dropshipping,omitempty"`
	Email          string                `json:"email,omitempty"`
	SearchTerm     string                `json:"search_term,omitempty"` // order number or customer name
	CreatedAfter   *time.Time            `json:"created_after,omitempty"`
	CreatedBefore  *time.Time            `json:"created_before,omitempty"`

	SortBy        string `json:"sort_by"`        // created_at, total, order_number
	SortDirection string `json:"sort_direction"` // ASC or DESC
}

func (os *OrderService) ListOrders(opts *OrderListOptions) *store.PaginationResult[*tables.Order] {
	if opts == nil {
		opts = &OrderListOptions{}
	}
	search := strings.ToLower(opts.SearchTerm)

	q := store.From(os.store.Orders()).
		WhereIf(opts.Status != "", func(o *tables.Order) bool { return o.Status == opts.Status }).
		WhereIf(opts.SupplierStatus != "", func(o *tables.Order) bool { return o.SupplierStatus == opts.SupplierStatus }).
		WhereIf(opts.Dropshipping != nil, func(o *tables.Order) bool { return o.IsDropshipping == *opts.Dropshipping }).
		WhereIf(opts.Email != "", func(o *tables.Order) bool { return strings.EqualFold(o.CustomerEmail, opts.Email) }).
		WhereIf(search != "", func(o *tables.Order) bool {
			return strings.Contains(strings.ToLower(o.OrderNumber), search) ||
				strings.Contains(strings.ToLower(o.CustomerName), search)
		}).
		WhereIf(opts.CreatedAfter != nil, func(o *tables.Order) bool { return o.CreatedAt.After(*opts.CreatedAfter) }).
		WhereIf(opts.CreatedBefore != nil, func(o *tables.Order) bool { return o.CreatedAt.Before(*opts.CreatedBefore) })

	direction := store.DESC
	if strings.EqualFold(opts.SortDirection, string(store.ASC)) {
		direction = store.ASC
	}
	switch opts.SortBy {
	case "total":
		q = q.OrderBy(func(a, b *tables.Order) int { return a.Total.Cmp(b.Total) }, direction)
	case "order_number":
		q = q.OrderBy(func(a, b *tables.Order) int { return strings.Compare(a.OrderNumber, b.OrderNumber) }, direction)
	default:
		q = q.OrderBy(func(a, b *tables.Order) int { return a.CreatedAt.Compare(b.CreatedAt) }, direction)
	}

	return store.Paginate(q, opts.Page, opts.PageSize)
}

// UpdateStatus completes or cancels an order.
func (os *OrderService) UpdateStatus(ctx context.Context, orderId uuid.UUID, status tables.OrderStatus) (*tables.Order, error) {
	action := &store.SetOrderStatus{OrderId: orderId, Status: status}
	if err := os.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}
	os.logger.Info("Order status updated",
		gecho.Field("order", action.Result.OrderNumber),
		gecho.Field("status", action.Result.Status))
	return action.Result, nil
}

// UpdateCustomer edits contact and shipping details of a pending order.
func (os *OrderService) UpdateCustomer(ctx context.Context, orderId uuid.UUID, req *structs.OrderCustomerRequest) (*tables.Order, error) {
	if err := lib.ValidateStruct(req); err != nil {
		return nil, err
	}

	action := &store.UpdateOrderCustomer{
		OrderId:       orderId,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone: req.CustomerPhone,
	}
	if req.ShippingAddress != nil {
		action.ShippingAddress = *req.ShippingAddress
	}
	if err := os.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}
