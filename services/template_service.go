package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MonkyMars/gecho"

	"poolshop_server/lib"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

var tokenPattern = regexp.MustCompile(`\{\{\s*(\w+)\s*\}\}`)

// TemplateParts is a renderable subject/body pair.
type TemplateParts struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// TemplateContext carries the data placeholders resolve against. Every field
// is optional.
type TemplateContext struct {
	Order         *tables.Order
	Customer      *tables.Customer
	Supplier      *tables.Supplier
	PurchaseOrder *tables.PurchaseOrder
	InvoiceBody   string
	Values        map[string]string
}

type tokenResolver func(te *TemplateEngine, tctx *TemplateContext) (string, bool)

// Well-known placeholders. Anything else is looked up in TemplateContext.Values.
var tokenResolvers = map[string]tokenResolver{
	"customerName": func(_ *TemplateEngine, tctx *TemplateContext) (string, bool) {
		if tctx.Order != nil && tctx.Order.CustomerName != "" {
			return tctx.Order.CustomerName, true
		}
		if tctx.Customer != nil && tctx.Customer.Name != "" {
			return tctx.Customer.Name, true
		}
		return "", false
	},
	"orderId": func(_ *TemplateEngine, tctx *TemplateContext) (string, bool) {
		if tctx.Order == nil {
			return "", false
		}
		if tctx.Order.OrderNumber != "" {
			return tctx.Order.OrderNumber, true
		}
		return tctx.Order.Id.String(), true
	},
	"orderTotal": func(te *TemplateEngine, tctx *TemplateContext) (string, bool) {
		if tctx.Order == nil {
			return "", false
		}
		return te.currency.Format(tctx.Order.Total), true
	},
	"shippingAddress": func(_ *TemplateEngine, tctx *TemplateContext) (string, bool) {
		addr, ok := shippingAddressOf(tctx)
		if !ok {
			return "", false
		}
		return addr.Flatten(), true
	},
	"customerShippingAddress": func(_ *TemplateEngine, tctx *TemplateContext) (string, bool) {
		addr, ok := shippingAddressOf(tctx)
		if !ok {
			return "", false
		}
		name := ""
		if tctx.PurchaseOrder != nil {
			name = tctx.PurchaseOrder.CustomerName
		} else if tctx.Order != nil {
			name = tctx.Order.CustomerName
		}
		return fmt.Sprintf("<p>%s<br>%s<br>%s %s<br>%s</p>",
			name, addr.Street, addr.PostalCode, addr.City, addr.Country), true
	},
	"trackingNumber": func(_ *TemplateEngine, tctx *TemplateContext) (string, bool) {
		if tctx.PurchaseOrder != nil && tctx.PurchaseOrder.TrackingNumber != "" {
			return tctx.PurchaseOrder.TrackingNumber, true
		}
		if tctx.Order != nil && tctx.Order.TrackingNumber != "" {
			return tctx.Order.TrackingNumber, true
		}
		return "N/A", true
	},
	"resetLink": func(te *TemplateEngine, _ *TemplateContext) (string, bool) {
		return strings.TrimRight(te.frontendURL, "/") + "/reset-password", true
	},
	"cartItemsList": func(te *TemplateEngine, tctx *TemplateContext) (string, bool) {
		if tctx.PurchaseOrder != nil {
			return te.purchaseOrderItemsTable(tctx.PurchaseOrder), true
		}
		if tctx.Order != nil {
			return te.cartItemsTable(tctx.Order.Items), true
		}
		return "", false
	},
	"supplierName": func(_ *TemplateEngine, tctx *TemplateContext) (string, bool) {
		if tctx.Supplier == nil {
			return "", false
		}
		return tctx.Supplier.Name, true
	},
	"invoiceBody": func(_ *TemplateEngine, tctx *TemplateContext) (string, bool) {
		if tctx.InvoiceBody == "" {
			return "", false
		}
		return tctx.InvoiceBody, true
	},
}

// shippingAddressOf prefers the purchase order snapshot over the live order.
func shippingAddressOf(tctx *TemplateContext) (tables.Address, bool) {
	if tctx.PurchaseOrder != nil && !tctx.PurchaseOrder.ShippingAddress.IsZero() {
		return tctx.PurchaseOrder.ShippingAddress, true
	}
	if tctx.Order != nil && !tctx.Order.ShippingAddress.IsZero() {
		return tctx.Order.ShippingAddress, true
	}
	return tables.Address{}, false
}

// TemplateEngine substitutes {{placeholder}} tokens. It never fails: tokens
// it cannot resolve are left in the output untouched. Values are inserted
// without HTML escaping.
type TemplateEngine struct {
	logger      *gecho.Logger
	currency    *lib.CurrencyFormatter
	frontendURL string
}

func NewTemplateEngine(logger *gecho.Logger, cfg *structs.Config) *TemplateEngine {
	return &TemplateEngine{
		logger:      logger,
		currency:    lib.NewCurrencyFormatter(cfg.Shop.CurrencyLocale, cfg.Shop.CurrencySymbol),
		frontendURL: cfg.Server.FrontendURL,
	}
}

// Render resolves the tokens of subject and body against tctx.
func (te *TemplateEngine) Render(tpl TemplateParts, tctx *TemplateContext) TemplateParts {
	if tctx == nil {
		tctx = &TemplateContext{}
	}
	return TemplateParts{
		Subject: te.renderString(tpl.Subject, tctx),
		Body:    te.renderString(tpl.Body, tctx),
	}
}

// RenderTemplate renders a stored email template.
func (te *TemplateEngine) RenderTemplate(tpl *tables.EmailTemplate, tctx *TemplateContext) TemplateParts {
	return te.Render(TemplateParts{Subject: tpl.Subject, Body: tpl.Body}, tctx)
}

func (te *TemplateEngine) renderString(s string, tctx *TemplateContext) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return tokenPattern.ReplaceAllStringFunc(s, func(token string) string {
		key := tokenPattern.FindStringSubmatch(token)[1]
		if value, ok := te.resolve(key, tctx); ok {
			return value
		}
		te.logger.Debug("Unresolved template placeholder", gecho.Field("placeholder", key))
		return token
	})
}

func (te *TemplateEngine) resolve(key string, tctx *TemplateContext) (string, bool) {
	if resolver, ok := tokenResolvers[key]; ok {
		if value, ok := resolver(te, tctx); ok {
			return value, true
		}
	}
	value, ok := tctx.Values[key]
	return value, ok
}

// Placeholders lists the distinct tokens used in tpl, in order of appearance.
func Placeholders(tpl TemplateParts) []string {
	seen := make(map[string]bool)
	keys := make([]string, 0)
	for _, s := range []string{tpl.Subject, tpl.Body} {
		for _, m := range tokenPattern.FindAllStringSubmatch(s, -1) {
			if !seen[m[1]] {
				seen[m[1]] = true
				keys = append(keys, m[1])
			}
		}
	}
	return keys
}

// Keys the services put in TemplateContext.Values.
var contextValueKeys = map[string]bool{
	"shopName":      true,
	"shopEmail":     true,
	"poNumber":      true,
	"poTotal":       true,
	"itemsCount":    true,
	"invoiceNumber": true,
	"invoiceTotal":  true,
}

// UnrecognizedPlaceholders returns the keys that are neither well-known
// placeholders nor filled in by any sender.
func UnrecognizedPlaceholders(keys []string) []string {
	out := make([]string, 0)
	for _, key := range keys {
		if _, ok := tokenResolvers[key]; ok || contextValueKeys[key] {
			continue
		}
		out = append(out, key)
	}
	return out
}

func (te *TemplateEngine) cartItemsTable(items []tables.CartItem) string {
	var b strings.Builder
	b.WriteString(`<table style="width:100%;border-collapse:collapse">`)
	b.WriteString("<tr><th>Qté</th><th>Produit</th><th>Total</th></tr>")
	for _, item := range items {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td></tr>",
			item.Quantity, item.ProductName, te.currency.Format(item.LineTotal()))
	}
	b.WriteString("</table>")
	return b.String()
}

func (te *TemplateEngine) purchaseOrderItemsTable(po *tables.PurchaseOrder) string {
	var b strings.Builder
	b.WriteString(`<table style="width:100%;border-collapse:collapse">`)
	b.WriteString("<tr><th>Qté</th><th>Produit</th><th>Total</th></tr>")
	for _, item := range po.Items {
		fmt.Fprintf(&b, "<tr><td>%d</td><td>%s</td><td>%s</td></tr>",
			item.Quantity, item.ProductName, te.currency.Format(item.LineTotal()))
	}
	b.WriteString("</table>")
	return b.String()
}
