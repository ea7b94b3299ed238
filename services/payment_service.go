package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs/tables"
)

var paymentLabels = map[tables.PaymentMethodType]string{
	tables.PaymentBankTransfer:   "Virement bancaire",
	tables.PaymentCard:           "Carte bancaire",
	tables.PaymentPayPal:         "PayPal",
	tables.PaymentCashOnDelivery: "Paiement à la livraison",
}

// PaymentService stores the payment method settings shown at checkout.
// No payment is ever processed.
type PaymentService struct {
	logger *gecho.Logger
	store  *store.Store
}

func NewPaymentService(logger *gecho.Logger, st *store.Store) *PaymentService {
	return &PaymentService{logger: logger, store: st}
}

// ParsePaymentMethod decodes {"type": ..., "config": {...}} and validates
// the config of the selected variant.
func ParsePaymentMethod(data []byte) (*tables.PaymentMethod, error) {
	var pm tables.PaymentMethod
	if err := json.Unmarshal(data, &pm); err != nil {
		if errors.Is(err, tables.ErrUnknownPaymentType) {
			return nil, lib.NewValidationError("type", "must be one of: bank_transfer card paypal cash_on_delivery")
		}
		return nil, lib.NewValidationError("config", err.Error())
	}
	if pm.Config == nil {
		return nil, lib.NewValidationError("config", "is required")
	}
	if err := lib.ValidateStruct(pm.Config); err != nil {
		return nil, err
	}
	if err := validateVariant(pm.Config); err != nil {
		return nil, err
	}
	if strings.TrimSpace(pm.Label) == "" {
		pm.Label = paymentLabels[pm.Type]
	}
	return &pm, nil
}

// validateVariant holds the rules struct tags cannot express.
func validateVariant(cfg tables.PaymentConfig) error {
	switch c := cfg.(type) {
	case tables.BankTransferConfig:
		if !isLetters(c.IBAN[:2]) {
			return lib.NewValidationError("iban", "must start with a country code")
		}
	case tables.CashOnDeliveryConfig:
		if c.Fee.IsNegative() {
			return lib.NewValidationError("fee", "must be greater than or equal to 0")
		}
		if c.MaxOrderAmount.IsNegative() {
			return lib.NewValidationError("max_order_amount", "must be greater than or equal to 0")
		}
	}
	return nil
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func (ps *PaymentService) Upsert(ctx context.Context, pm *tables.PaymentMethod) (*tables.PaymentMethod, error) {
	action := &store.UpsertPaymentMethod{Method: pm}
	if err := ps.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}
	ps.logger.Info("Payment method saved",
		gecho.Field("type", pm.Type),
		gecho.Field("enabled", pm.Enabled))
	return redact(action.Result), nil
}

// List returns every configured method with secrets masked.
func (ps *PaymentService) List() []*tables.PaymentMethod {
	methods := ps.store.PaymentMethods()
	slices.SortFunc(methods, func(a, b *tables.PaymentMethod) int {
		return strings.Compare(string(a.Type), string(b.Type))
	})
	for i, pm := range methods {
		methods[i] = redact(pm)
	}
	return methods
}

// Enabled lists the methods a customer can pick at checkout.
func (ps *PaymentService) Enabled() []*tables.PaymentMethod {
	return slices.DeleteFunc(ps.List(), func(pm *tables.PaymentMethod) bool { return !pm.Enabled })
}

// CheckAvailable rejects a checkout whose payment method is unknown,
// disabled, or over its amount limit.
func (ps *PaymentService) CheckAvailable(method tables.PaymentMethodType, total decimal.Decimal) error {
	var pm *tables.PaymentMethod
	ps.store.Read(func(st *store.State) {
		pm = st.PaymentMethods[method].Clone()
	})
	if pm == nil || !pm.Enabled {
		return lib.NewValidationError("payment_method", fmt.Sprintf("%s is not available", method))
	}

	if cod, ok := pm.Config.(tables.CashOnDeliveryConfig); ok {
		if cod.MaxOrderAmount.IsPositive() && total.GreaterThan(cod.MaxOrderAmount) {
			return lib.NewValidationError("payment_method",
				fmt.Sprintf("cash on delivery is limited to orders up to %s", cod.MaxOrderAmount.StringFixed(2)))
		}
	}
	return nil
}

func redact(pm *tables.PaymentMethod) *tables.PaymentMethod {
	out := pm.Clone()
	if out != nil && out.Config != nil {
		out.Config = out.Config.Redacted()
	}
	return out
}
