package handling

import (
	"errors"
	"net/http"

	"github.com/MonkyMars/gecho"

	"poolshop_server/lib"
)

func HandleError(err error, msg string, logger *gecho.Logger, w http.ResponseWriter) {
	logger.Error("An error occurred", gecho.Field("error", err), gecho.Field("msg", msg), gecho.WithCallerSkip(3))

	gecho.InternalServerError(w, gecho.Send())
}

type errorMapping struct {
	err    error
	status int
	key    string
}

// Checked in order; the first match wins.
var serviceErrors = []errorMapping{
	{lib.ErrNotFound, http.StatusNotFound, "notFound"},
	{lib.ErrTemplateNotFound, http.StatusNotFound, "templateNotFound"},

	{lib.ErrInvalidStatus, http.StatusBadRequest, "invalidStatus"},
	{lib.ErrNoSupplierItems, http.StatusBadRequest, "noSupplierItems"},
	{lib.ErrUnknownSupplier, http.StatusBadRequest, "unknownSupplier"},
	{lib.ErrCategoryCycle, http.StatusBadRequest, "categoryCycle"},

	{lib.ErrOrderLocked, http.StatusConflict, "orderLocked"},
	{lib.ErrInvoiceLocked, http.StatusConflict, "invoiceLocked"},
	{lib.ErrSupplierInUse, http.StatusConflict, "supplierInUse"},
	{lib.ErrInvalidTransition, http.StatusConflict, "invalidStatusTransition"},
	{lib.ErrStatusUnchanged, http.StatusConflict, "statusUnchanged"},
	{lib.ErrDuplicateSKU, http.StatusConflict, "duplicateSku"},
	{lib.ErrInsufficientStock, http.StatusConflict, "insufficientStock"},
	{lib.ErrProductInactive, http.StatusConflict, "productInactive"},
	{lib.ErrTemplateDisabled, http.StatusConflict, "templateDisabled"},
	{lib.ErrConflict, http.StatusConflict, "conflict"},
}

// StatusFor returns the HTTP status and message key of a service error.
// Unknown errors map to 500.
func StatusFor(err error) (int, string) {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, "invalidRequest"
	}
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			return m.status, m.key
		}
	}
	return http.StatusInternalServerError, "unexpected"
}

// HandleServiceError writes the response for an error returned by a service.
// Messages read error.<area>.<key>.
func HandleServiceError(err error, area string, logger *gecho.Logger, w http.ResponseWriter) {
	status, key := StatusFor(err)
	message := "error." + area + "." + key

	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		logger.Debug("Request rejected by validation", gecho.Field("area", area), gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage(message), gecho.WithData(ve), gecho.Send())
		return
	}

	data := map[string]string{"error": err.Error()}
	switch status {
	case http.StatusBadRequest:
		logger.Debug("Request rejected", gecho.Field("area", area), gecho.Field("error", err))
		gecho.BadRequest(w, gecho.WithMessage(message), gecho.WithData(data), gecho.Send())
	case http.StatusNotFound:
		gecho.NotFound(w, gecho.WithMessage(message), gecho.WithData(data), gecho.Send())
	case http.StatusConflict:
		logger.Info("Request conflicts with current state", gecho.Field("area", area), gecho.Field("error", err))
		gecho.Conflict(w, gecho.WithMessage(message), gecho.WithData(data), gecho.Send())
	default:
		HandleError(err, message, logger, w)
	}
}

// HandleBodyError answers a request whose body could not be decoded or
// validated.
func HandleBodyError(err error, area string, w http.ResponseWriter) {
	var ve *lib.ValidationError
	if errors.As(err, &ve) {
		gecho.BadRequest(w,
			gecho.WithMessage("error."+area+".invalidRequest"),
			gecho.WithData(ve),
			gecho.Send(),
		)
		return
	}
	gecho.BadRequest(w,
		gecho.WithMessage("error."+area+".invalidRequestBody"),
		gecho.WithData(map[string]string{"error": err.Error()}),
		gecho.Send(),
	)
}
