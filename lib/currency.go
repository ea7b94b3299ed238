package lib

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencyFormatter renders amounts with two decimals in a fixed locale,
// e.g. "42,50 €" for fr-FR or "€42.50" for en-IE.
type CurrencyFormatter struct {
	printer      *message.Printer
	symbol       string
	symbolPrefix bool
}

func NewCurrencyFormatter(locale, symbol string) *CurrencyFormatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.French
	}
	base, _ := tag.Base()

	return &CurrencyFormatter{
		printer:      message.NewPrinter(tag),
		symbol:       symbol,
		symbolPrefix: base.String() == "en",
	}
}

func (cf *CurrencyFormatter) Format(amount decimal.Decimal) string {
	value := cf.printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
	if cf.symbol == "" {
		return value
	}
	if cf.symbolPrefix {
		if strings.HasPrefix(value, "-") {
			return "-" + cf.symbol + value[1:]
		}
		return cf.symbol + value
	}
	return value + " " + cf.symbol
}

var defaultFormatter = NewCurrencyFormatter("fr-FR", "€")

// FormatCurrency formats with the shop default locale (fr-FR, euro).
func FormatCurrency(amount decimal.Decimal) string {
	return defaultFormatter.Format(amount)
}
