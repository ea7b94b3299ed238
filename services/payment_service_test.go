package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

func TestParsePaymentMethod(t *testing.T) {
	t.Run("defaults the label", func(t *testing.T) {
		pm, err := ParsePaymentMethod([]byte(`{"type":"bank_transfer","enabled":true,"config":{"account_holder":"PiscinePro SARL","iban":"FR7630006000011234567890189","bic":"AGRIFRPP"}}`))
		require.NoError(t, err)
		assert.Equal(t, "Virement bancaire", pm.Label)
		assert.Equal(t, "AGRIFRPP", pm.Config.(tables.BankTransferConfig).BIC)
	})

	tests := []struct {
		name  string
		raw   string
		field string
	}{
		{"unknown type", `{"type":"bitcoin","config":{}}`, "type"},
		{"empty config", `{"type":"card"}`, "provider"},
		{"iban without country code", `{"type":"bank_transfer","config":{"account_holder":"PiscinePro","iban":"7630006000011234567890189","bic":"AGRIFRPP"}}`, "iban"},
		{"unknown provider", `{"type":"card","config":{"provider":"acme","publishable_key":"pk_live_1234","secret_key":"sk_live_1234"}}`, "provider"},
		{"field of another variant", `{"type":"paypal","config":{"iban":"FR76"}}`, "config"},
		{"negative fee", `{"type":"cash_on_delivery","config":{"fee":"-1"}}`, "fee"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePaymentMethod([]byte(tt.raw))
			var ve *lib.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Errors[0].Field)
		})
	}
}

func TestPaymentService_ListRedactsSecrets(t *testing.T) {
	e := newTestEnv(t)
	savePaymentMethod(t, e, `{"type":"card","enabled":true,"config":{"provider":"stripe","publishable_key":"pk_live_abcd","secret_key":"sk_live_abcdef1234"}}`)
	savePaymentMethod(t, e, `{"type":"paypal","enabled":false,"config":{"client_id":"client-123","client_secret":"secret-123"}}`)

	methods := e.sm.PaymentService.List()
	require.Len(t, methods, 2)
	assert.Equal(t, tables.PaymentCard, methods[0].Type)
	card := methods[0].Config.(tables.CardConfig)
	assert.NotContains(t, card.SecretKey, "abcdef")
	assert.Equal(t, "pk_live_abcd", card.PublishableKey)

	enabled := e.sm.PaymentService.Enabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, tables.PaymentCard, enabled[0].Type)

	// The store keeps the real secret
	stored := e.store.PaymentMethods()
	for _, pm := range stored {
		if cfg, ok := pm.Config.(tables.CardConfig); ok {
			assert.Equal(t, "sk_live_abcdef1234", cfg.SecretKey)
		}
	}
}

func TestPaymentService_CheckAvailable(t *testing.T) {
	e := newTestEnv(t)
	savePaymentMethod(t, e, `{"type":"cash_on_delivery","enabled":true,"config":{"fee":"4.90","max_order_amount":"500"}}`)

	assert.NoError(t, e.sm.PaymentService.CheckAvailable(tables.PaymentCashOnDelivery, decimal.NewFromInt(500)))
	assert.Error(t, e.sm.PaymentService.CheckAvailable(tables.PaymentCashOnDelivery, decimal.RequireFromString("500.01")))
	assert.Error(t, e.sm.PaymentService.CheckAvailable(tables.PaymentCard, decimal.NewFromInt(1)))
}
