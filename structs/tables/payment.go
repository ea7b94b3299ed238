package tables

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type PaymentMethodType string

const (
	PaymentBankTransfer   PaymentMethodType = "bank_transfer"
	PaymentCard           PaymentMethodType = "card"
	PaymentPayPal         PaymentMethodType = "paypal"
	PaymentCashOnDelivery PaymentMethodType = "cash_on_delivery"
)

var ErrUnknownPaymentType = errors.New("unknown payment method type")

// PaymentConfig is implemented by every payment method variant.
type PaymentConfig interface {
	MethodType() PaymentMethodType
	// Redacted returns a copy safe to expose to the admin UI.
	Redacted() PaymentConfig
}

type BankTransferConfig struct {
	AccountHolder string `json:"account_holder" validate:"required,min=2,max=100"`
	IBAN          string `json:"iban" validate:"required,alphanum,min=15,max=34"`
	BIC           string `json:"bic" validate:"required,alphanum,min=8,max=11"`
	Instructions  string `json:"instructions,omitempty" validate:"omitempty,max=500"`
}

func (BankTransferConfig) MethodType() PaymentMethodType { return PaymentBankTransfer }
func (c BankTransferConfig) Redacted() PaymentConfig     { return c }

type CardConfig struct {
	Provider       string `json:"provider" validate:"required,oneof=stripe sumup payplug"`
	PublishableKey string `json:"publishable_key" validate:"required,min=8"`
	SecretKey      string `json:"secret_key" validate:"required,min=8"`
	ThreeDSecure   bool   `json:"three_d_secure"`
}

func (CardConfig) MethodType() PaymentMethodType { return PaymentCard }
func (c CardConfig) Redacted() PaymentConfig {
	c.SecretKey = mask(c.SecretKey)
	return c
}

type PayPalConfig struct {
	ClientId     string `json:"client_id" validate:"required,min=8"`
	ClientSecret string `json:"client_secret" validate:"required,min=8"`
	Sandbox      bool   `json:"sandbox"`
}

func (PayPalConfig) MethodType() PaymentMethodType { return PaymentPayPal }
func (c PayPalConfig) Redacted() PaymentConfig {
	c.ClientSecret = mask(c.ClientSecret)
	return c
}

type CashOnDeliveryConfig struct {
	Fee            decimal.Decimal `json:"fee"`
	MaxOrderAmount decimal.Decimal `json:"max_order_amount"` // zero means no limit
}

func (CashOnDeliveryConfig) MethodType() PaymentMethodType { return PaymentCashOnDelivery }
func (c CashOnDeliveryConfig) Redacted() PaymentConfig     { return c }

// PaymentMethod is a tagged union keyed by Type; Config always holds the
// variant matching Type.
type PaymentMethod struct {
	Type    PaymentMethodType `json:"type"`
	Label   string            `json:"label"`
	Enabled bool              `json:"enabled"`
	Config  PaymentConfig     `json:"config"`
}

type paymentMethodEnvelope struct {
	Type    PaymentMethodType `json:"type"`
	Label   string            `json:"label"`
	Enabled bool              `json:"enabled"`
	Config  json.RawMessage   `json:"config"`
}

func (pm *PaymentMethod) UnmarshalJSON(data []byte) error {
	var env paymentMethodEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	cfg, err := newPaymentConfig(env.Type)
	if err != nil {
		return err
	}

	if len(env.Config) > 0 && string(env.Config) != "null" {
		dec := json.NewDecoder(strings.NewReader(string(env.Config)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("invalid %s config: %w", env.Type, err)
		}
	}

	pm.Type = env.Type
	pm.Label = env.Label
	pm.Enabled = env.Enabled
	pm.Config = derefConfig(cfg)
	return nil
}

func (pm *PaymentMethod) Clone() *PaymentMethod {
	if pm == nil {
		return nil
	}
	c := *pm
	return &c
}

func newPaymentConfig(t PaymentMethodType) (any, error) {
	switch t {
	case PaymentBankTransfer:
		return &BankTransferConfig{}, nil
	case PaymentCard:
		return &CardConfig{}, nil
	case PaymentPayPal:
		return &PayPalConfig{}, nil
	case PaymentCashOnDelivery:
		return &CashOnDeliveryConfig{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPaymentType, t)
	}
}

func derefConfig(cfg any) PaymentConfig {
	switch c := cfg.(type) {
	case *BankTransferConfig:
		return *c
	case *CardConfig:
		return *c
	case *PayPalConfig:
		return *c
	case *CashOnDeliveryConfig:
		return *c
	}
	return nil
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
