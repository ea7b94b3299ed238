package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/services"
	"poolshop_server/structs"
)

// UpdateOrderStatus completes or cancels an order
func (ar *AdminRoutesManager) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderId, ok := ar.idParam(w, r, "order")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderStatusRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "order", w)
		return
	}

	order, err := ar.services.OrderService.UpdateStatus(r.Context(), orderId, body.Status)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.statusUpdated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// UpdateSupplierStatus moves the dropshipping status of an order
func (ar *AdminRoutesManager) UpdateSupplierStatus(w http.ResponseWriter, r *http.Request) {
	orderId, ok := ar.idParam(w, r, "order")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.SupplierStatusRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "order", w)
		return
	}

	order, err := ar.services.FulfillmentService.UpdateSupplierStatus(r.Context(), orderId, body.Status, body.TrackingNumber)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.supplierStatusUpdated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// SetTrackingNumber records the carrier tracking number of an order
func (ar *AdminRoutesManager) SetTrackingNumber(w http.ResponseWriter, r *http.Request) {
	orderId, ok := ar.idParam(w, r, "order")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.TrackingRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "order", w)
		return
	}

	order, err := ar.services.FulfillmentService.SetTrackingNumber(r.Context(), orderId, body.TrackingNumber)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.trackingUpdated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// UpdateOrderCustomer edits the contact and shipping details of a pending order
func (ar *AdminRoutesManager) UpdateOrderCustomer(w http.ResponseWriter, r *http.Request) {
	orderId, ok := ar.idParam(w, r, "order")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.OrderCustomerRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "order", w)
		return
	}

	order, err := ar.services.OrderService.UpdateCustomer(r.Context(), orderId, body)
	if err != nil {
		handling.HandleServiceError(err, "order", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.order.customerUpdated"),
		gecho.WithData(order),
		gecho.Send(),
	)
}

// CreateInvoiceFromOrder bills an order
func (ar *AdminRoutesManager) CreateInvoiceFromOrder(w http.ResponseWriter, r *http.Request) {
	orderId, ok := ar.idParam(w, r, "order")
	if !ok {
		return
	}

	invoice, err := ar.services.InvoiceService.CreateFromOrder(r.Context(), orderId)
	if err != nil {
		handling.HandleServiceError(err, "invoice", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.invoice.created"),
		gecho.WithData(services.NewInvoiceView(invoice)),
		gecho.Send(),
	)
}
