package admin

import (
	"context"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"

	"poolshop_server/handling"
	"poolshop_server/lib"
	"poolshop_server/services"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

func (ar *AdminRoutesManager) ListInvoices(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseInvoiceListOptions(r)
	if err != nil {
		ar.invalidQuery(w, err)
		return
	}

	gecho.Success(w,
		gecho.WithData(ar.services.InvoiceService.List(opts)),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceId, ok := ar.idParam(w, r, "invoice")
	if !ok {
		return
	}

	invoice, err := ar.services.InvoiceService.Get(invoiceId)
	if err != nil {
		handling.HandleServiceError(err, "invoice", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(services.NewInvoiceView(invoice)),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.InvoiceRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "invoice", w)
		return
	}

	invoice, err := ar.services.InvoiceService.Create(r.Context(), body)
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

// UpdateInvoice replaces the content of an invoice. Paid and cancelled
// invoices answer 409.
func (ar *AdminRoutesManager) UpdateInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceId, ok := ar.idParam(w, r, "invoice")
	if !ok {
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.InvoiceRequest](r)
	if err != nil {
		handling.HandleBodyError(err, "invoice", w)
		return
	}

	invoice, err := ar.services.InvoiceService.Update(r.Context(), invoiceId, body)
	if err != nil {
		handling.HandleServiceError(err, "invoice", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.invoice.updated"),
		gecho.WithData(services.NewInvoiceView(invoice)),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceId, ok := ar.idParam(w, r, "invoice")
	if !ok {
		return
	}

	if err := ar.services.InvoiceService.Delete(r.Context(), invoiceId); err != nil {
		handling.HandleServiceError(err, "invoice", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("success.invoice.deleted"),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) SendInvoice(w http.ResponseWriter, r *http.Request) {
	invoiceId, ok := ar.idParam(w, r, "invoice")
	if !ok {
		return
	}

	invoice, emailed, err := ar.services.InvoiceService.Send(r.Context(), invoiceId)
	if err != nil {
		handling.HandleServiceError(err, "invoice", ar.logger, w)
		return
	}

	message := "success.invoice.sent"
	if !emailed {
		message = "success.invoice.sentWithoutEmail"
	}
	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.WithData(map[string]any{
			"invoice": services.NewInvoiceView(invoice),
			"emailed": emailed,
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) MarkInvoicePaid(w http.ResponseWriter, r *http.Request) {
	ar.invoiceAction(w, r, "success.invoice.paid", ar.services.InvoiceService.MarkPaid)
}

func (ar *AdminRoutesManager) CancelInvoice(w http.ResponseWriter, r *http.Request) {
	ar.invoiceAction(w, r, "success.invoice.cancelled", ar.services.InvoiceService.Cancel)
}

func (ar *AdminRoutesManager) invoiceAction(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	action func(ctx context.Context, id uuid.UUID) (*tables.Invoice, error),
) {
	invoiceId, ok := ar.idParam(w, r, "invoice")
	if !ok {
		return
	}

	invoice, err := action(r.Context(), invoiceId)
	if err != nil {
		handling.HandleServiceError(err, "invoice", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage(message),
		gecho.WithData(services.NewInvoiceView(invoice)),
		gecho.Send(),
	)
}
