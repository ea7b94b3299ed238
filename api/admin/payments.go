package admin

import (
	"io"
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/handling"
	"poolshop_server/services"
)

// ListPaymentMethods returns every method with provider secrets redacted
func (ar *AdminRoutesManager) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(ar.services.PaymentService.List()),
		gecho.Send(),
	)
}

// UpsertPaymentMethod stores a method keyed by its type. The configuration
// must match the variant of the type.
func (ar *AdminRoutesManager) UpsertPaymentMethod(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		handling.HandleBodyError(err, "paymentMethod", w)
		return
	}

	pm, err := services.ParsePaymentMethod(raw)
	if err != nil {
		handling.HandleBodyError(err, "paymentMethod", w)
		return
	}

	saved, err := ar.services.PaymentService.Upsert(r.Context(), pm)
	if err != nil {
		handling.HandleServiceError(err, "paymentMethod", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.paymentMethod.saved"),
		gecho.WithData(saved),
		gecho.Send(),
	)
}
