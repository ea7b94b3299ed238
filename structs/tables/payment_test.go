package tables

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentMethod_UnmarshalJSON(t *testing.T) {
	t.Run("bank_transfer", func(t *testing.T) {
		var pm PaymentMethod
		err := json.Unmarshal([]byte(`{"type":"bank_transfer","label":"Virement","enabled":true,
			"config":{"account_holder":"PiscinePro SARL","iban":"FR7630006000011234567890189","bic":"AGRIFRPP"}}`), &pm)
		require.NoError(t, err)

		cfg, ok := pm.Config.(BankTransferConfig)
		require.True(t, ok)
		assert.Equal(t, PaymentBankTransfer, pm.Type)
		assert.Equal(t, "AGRIFRPP", cfg.BIC)
	})

	t.Run("unknown_type", func(t *testing.T) {
		var pm PaymentMethod
		err := json.Unmarshal([]byte(`{"type":"crypto","config":{}}`), &pm)
		assert.ErrorIs(t, err, ErrUnknownPaymentType)
	})

	t.Run("field_from_other_variant", func(t *testing.T) {
		var pm PaymentMethod
		err := json.Unmarshal([]byte(`{"type":"paypal","config":{"iban":"FR76"}}`), &pm)
		assert.Error(t, err)
	})

	t.Run("redacted_secret", func(t *testing.T) {
		var pm PaymentMethod
		err := json.Unmarshal([]byte(`{"type":"card","config":{"provider":"stripe","publishable_key":"pk_live_123456","secret_key":"sk_live_abcdef1234"}}`), &pm)
		require.NoError(t, err)

		redacted := pm.Config.Redacted().(CardConfig)
		assert.Equal(t, strings.Repeat("*", 14)+"1234", redacted.SecretKey)
		assert.Equal(t, "sk_live_abcdef1234", pm.Config.(CardConfig).SecretKey)
	})
}

func TestAddress_Flatten(t *testing.T) {
	a := Address{Street: "12 rue des Lilas", PostalCode: "34000", City: "Montpellier", Country: "France"}
	assert.Equal(t, "12 rue des Lilas, 34000 Montpellier, France", a.Flatten())
	assert.Equal(t, "Montpellier", Address{City: "Montpellier"}.Flatten())
	assert.True(t, Address{}.IsZero())
}
