package admin

import (
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/structs"
)

func (ar *AdminRoutesManager) ListPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParsePurchaseOrderListOptions(r)
	if err != nil {
		ar.invalidQuery(w, err)
		return
	}

	gecho.Success(w,
		gecho.WithData(ar.services.PurchaseOrderService.List(opts)),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	poId, ok := ar.idParam(w, r, "purchaseOrder")
	if !ok {
		return
	}

	po, err := ar.services.PurchaseOrderService.Get(poId)
	if err != nil {
		handling.HandleServiceError(err, "purchaseOrder", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"purchase_order": po,
			"total":          po.Total(),
		}),
		gecho.Send(),
	)
}

// GeneratePurchaseOrders creates the missing purchase orders of an order,
// one per supplier.
func (ar *AdminRoutesManager) GeneratePurchaseOrders(w http.ResponseWriter, r *http.Request) {
	orderId, ok := ar.idParam(w, r, "order")
	if !ok {
		return
	}

	pos, err := ar.services.PurchaseOrderService.GenerateForOrder(r.Context(), orderId)
	if err != nil {
		handling.HandleServiceError(err, "purchaseOrder", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.purchaseOrder.generated"),
		gecho.WithData(pos),
		gecho.Send(),
	)
}

// GetOrCreatePurchaseOrder returns the purchase order of an order for one
// supplier, creating it on first call.
func (ar *AdminRoutesManager) GetOrCreatePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	orderId, ok := ar.idParam(w, r, "order")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.GetOrCreatePurchaseOrderRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "purchaseOrder", w)
		return
	}

	po, created, err := ar.services.PurchaseOrderService.GetOrCreate(r.Context(), orderId, body.SupplierId)
	if err != nil {
		handling.HandleServiceError(err, "purchaseOrder", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"purchase_order": po,
			"created":        created,
		}),
		gecho.Send(),
	)
}

// SendPurchaseOrder emails the purchase order to the supplier
func (ar *AdminRoutesManager) SendPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	poId, ok := ar.idParam(w, r, "purchaseOrder")
	if !ok {
		return
	}

	po, emailed, err := ar.services.PurchaseOrderService.SendToSupplier(r.Context(), poId)
	if err != nil {
		handling.HandleServiceError(err, "purchaseOrder", ar.logger, w)
		return
	}

	message := "success.purchaseOrder.sent"
	if !emailed {
		message = "success.purchaseOrder.sentWithoutEmail"
	}
	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.WithData(map[string]any{
			"purchase_order": po,
			"emailed":        emailed,
		}),
		gecho.Send(),
	)
}

// MarkPurchaseOrderSent records a purchase order sent outside the app
func (ar *AdminRoutesManager) MarkPurchaseOrderSent(w http.ResponseWriter, r *http.Request) {
	poId, ok := ar.idParam(w, r, "purchaseOrder")
	if !ok {
		return
	}

	po, err := ar.services.PurchaseOrderService.MarkSent(r.Context(), poId)
	if err != nil {
		handling.HandleServiceError(err, "purchaseOrder", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.purchaseOrder.markedSent"),
		gecho.WithData(po),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdatePurchaseOrderStatus(w http.ResponseWriter, r *http.Request) {
	poId, ok := ar.idParam(w, r, "purchaseOrder")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.PurchaseOrderStatusRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "purchaseOrder", w)
		return
	}

	po, err := ar.services.PurchaseOrderService.UpdateStatus(r.Context(), poId, body.Status, body.TrackingNumber)
	if err != nil {
		handling.HandleServiceError(err, "purchaseOrder", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.purchaseOrder.statusUpdated"),
		gecho.WithData(po),
		gecho.Send(),
	)
}
