package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/services"
)

// ListOrders returns a paginated list of orders with filtering options
func (ar *AdminRoutesManager) ListOrders(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseOrderListOptions(r)
	if err != nil {
		ar.invalidQuery(w, err)
		return
	}

	result := ar.services.OrderService.ListOrders(opts)

	gecho.Success(w,
		gecho.WithData(result),
		gecho.WithMessage("success.orders.retrieved"),
		gecho.Send(),
	)
}

// GetOrderDetails returns an order with its purchase orders and invoices
func (ar *AdminRoutesManager) GetOrderDetails(w http.ResponseWriter, r *http.Request) {
	orderId, ok := ar.idParam(w, r, "order")
	if !ok {
		return
	}

	order, err := ar.services.OrderService.GetOrder(orderId)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	purchaseOrders, err := ar.services.PurchaseOrderService.ListByOrder(orderId)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	invoices := ar.services.InvoiceService.List(&services.InvoiceListOptions{OrderId: &orderId, PageSize: 100})

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"order":           order,
			"purchase_orders": purchaseOrders,
			"supplier_groups": services.GroupBySupplier(order),
			"invoices":        invoices.Data,
		}),
		gecho.Send(),
	)
}
