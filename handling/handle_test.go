package handling

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"

	"poolshop_server/lib"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		key    string
	}{
		{"validation", lib.NewValidationError("name", "is required"), http.StatusBadRequest, "invalidRequest"},
		{"wrapped not found", fmt.Errorf("order 42: %w", lib.ErrNotFound), http.StatusNotFound, "notFound"},
		{"paid invoice", fmt.Errorf("invoice FAC-1: %w", lib.ErrInvoiceLocked), http.StatusConflict, "invoiceLocked"},
		{"backward move", lib.ErrInvalidTransition, http.StatusConflict, "invalidStatusTransition"},
		{"unknown supplier", lib.ErrUnknownSupplier, http.StatusBadRequest, "unknownSupplier"},
		{"order number taken", lib.ErrConflict, http.StatusConflict, "conflict"},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, "unexpected"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, key := StatusFor(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.key, key)
		})
	}
}

func TestHandleServiceError_WritesStatus(t *testing.T) {
	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))

	tests := []struct {
		err  error
		want int
	}{
		{lib.NewValidationError("email", "must be a valid email address"), http.StatusBadRequest},
		{lib.ErrTemplateNotFound, http.StatusNotFound},
		{lib.ErrSupplierInUse, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleServiceError(tt.err, "test", logger, w)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestHandleBodyError(t *testing.T) {
	w := httptest.NewRecorder()
	HandleBodyError(errors.New("unexpected EOF"), "orders", w)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error.orders.invalidRequestBody")
}
