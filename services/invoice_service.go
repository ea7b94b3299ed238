package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

const defaultPaymentTerm = 30 * 24 * time.Hour

type InvoiceService struct {
	logger        *gecho.Logger
	cfg           *structs.Config
	store         *store.Store
	notifications *NotificationService
	currency      *lib.CurrencyFormatter
}

func NewInvoiceService(logger *gecho.Logger, cfg *structs.Config, st *store.Store, notifications *NotificationService) *InvoiceService {
	return &InvoiceService{
		logger:        logger,
		cfg:           cfg,
		store:         st,
		notifications: notifications,
		currency:      lib.NewCurrencyFormatter(cfg.Shop.CurrencyLocale, cfg.Shop.CurrencySymbol),
	}
}

// validateInvoice checks what the struct tags cannot: amounts and rates.
func validateInvoice(req *structs.InvoiceRequest) error {
	if err := lib.ValidateStruct(req); err != nil {
		return err
	}
	for _, item := range req.Items {
		if item.UnitPrice.IsNegative() {
			return lib.NewValidationError("unit_price", "must be greater than or equal to 0")
		}
		if item.TaxRate.IsNegative() || item.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
			return lib.NewValidationError("tax_rate", "must be between 0 and 1")
		}
	}
	if d := req.Discount; d != nil {
		if err := lib.ValidateStruct(d); err != nil {
			return err
		}
		if d.Value.IsNegative() {
			return lib.NewValidationError("discount", "must be greater than or equal to 0")
		}
		if d.Type == tables.DiscountPercent && d.Value.GreaterThan(decimal.NewFromInt(100)) {
			return lib.NewValidationError("discount", "must be less than or equal to 100")
		}
	}
	return nil
}

func invoiceFromRequest(req *structs.InvoiceRequest) *tables.Invoice {
	inv := &tables.Invoice{
		OrderId:       req.OrderId,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		Items:         req.Items,
		Discount:      req.Discount,
		Notes:         req.Notes,
		DueAt:         req.DueAt,
	}
	if req.BillingAddress != nil {
		inv.BillingAddress = *req.BillingAddress
	}
	return inv
}

func (is *InvoiceService) now() (now time.Time) {
	is.store.Read(func(st *store.State) { now = st.Now() })
	return now
}

// Create registers a draft invoice.
func (is *InvoiceService) Create(ctx context.Context, req *structs.InvoiceRequest) (*tables.Invoice, error) {
	if err := validateInvoice(req); err != nil {
		return nil, err
	}

	inv := invoiceFromRequest(req)
	inv.InvoiceNumber = lib.GenerateReference(lib.PrefixInvoice)
	if inv.DueAt == nil {
		due := is.now().Add(defaultPaymentTerm)
		inv.DueAt = &due
	}

	action := &store.CreateInvoice{Invoice: inv}
	if err := is.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}

	is.logger.Info("Invoice created",
		gecho.Field("invoice", action.Result.InvoiceNumber),
		gecho.Field("total", action.Result.Totals().Total.StringFixed(2)))
	return action.Result, nil
}

// CreateFromOrder bills an order: one line per cart item, billed to the
// shipping address.
func (is *InvoiceService) CreateFromOrder(ctx context.Context, orderId uuid.UUID) (*tables.Invoice, error) {
	order, err := is.store.Order(orderId)
	if err != nil {
		return nil, err
	}

	items := make([]tables.InvoiceItem, 0, len(order.Items))
	for _, item := range order.Items {
		description := item.ProductName
		if item.SKU != "" {
			description = fmt.Sprintf("%s (%s)", item.ProductName, item.SKU)
		}
		items = append(items, tables.InvoiceItem{
			Description: description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			TaxRate:     item.TaxRate,
		})
	}

	address := order.ShippingAddress
	return is.Create(ctx, &structs.InvoiceRequest{
		OrderId:        &order.Id,
		CustomerName:   order.CustomerName,
		CustomerEmail:  order.CustomerEmail,
		BillingAddress: &address,
		Items:          items,
		Notes:          fmt.Sprintf("Commande %s", order.OrderNumber),
	})
}

// Update replaces the editable fields of a draft or sent invoice.
func (is *InvoiceService) Update(ctx context.Context, id uuid.UUID, req *structs.InvoiceRequest) (*tables.Invoice, error) {
	if err := validateInvoice(req); err != nil {
		return nil, err
	}

	inv := invoiceFromRequest(req)
	inv.Id = id
	action := &store.UpdateInvoice{Invoice: inv}
	if err := is.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

func (is *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := is.store.Dispatch(ctx, &store.DeleteInvoice{Id: id}); err != nil {
		return err
	}
	is.logger.Info("Invoice deleted", gecho.Field("invoice_id", id))
	return nil
}

// Send emails a draft invoice to the customer and marks it Sent. The
// returned flag is false when no email went out.
func (is *InvoiceService) Send(ctx context.Context, id uuid.UUID) (*tables.Invoice, bool, error) {
	inv, err := is.setStatus(ctx, id, tables.InvoiceStatusSent)
	if err != nil {
		return nil, false, err
	}

	tctx := &TemplateContext{
		InvoiceBody: is.RenderInvoiceBody(inv),
		Values: map[string]string{
			"customerName":  inv.CustomerName,
			"invoiceNumber": inv.InvoiceNumber,
			"invoiceTotal":  is.currency.Format(inv.Totals().Total),
			"shopName":      is.cfg.Shop.Name,
		},
	}
	if inv.OrderId != nil {
		if order, err := is.store.Order(*inv.OrderId); err == nil {
			tctx.Order = order
		}
	}
	emailed := is.notifications.SendTemplate(ctx, TemplateInvoice, inv.CustomerEmail, tctx) != nil
	if !emailed {
		is.logger.Warn("Invoice marked sent without email", gecho.Field("invoice", inv.InvoiceNumber))
	}
	return inv, emailed, nil
}

func (is *InvoiceService) MarkPaid(ctx context.Context, id uuid.UUID) (*tables.Invoice, error) {
	return is.setStatus(ctx, id, tables.InvoiceStatusPaid)
}

func (is *InvoiceService) Cancel(ctx context.Context, id uuid.UUID) (*tables.Invoice, error) {
	return is.setStatus(ctx, id, tables.InvoiceStatusCancelled)
}

func (is *InvoiceService) setStatus(ctx context.Context, id uuid.UUID, status tables.InvoiceStatus) (*tables.Invoice, error) {
	action := &store.SetInvoiceStatus{Id: id, Status: status}
	if err := is.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}
	is.logger.Info("Invoice status updated",
		gecho.Field("invoice", action.Result.InvoiceNumber),
		gecho.Field("status", status))
	return action.Result, nil
}

func (is *InvoiceService) Get(id uuid.UUID) (*tables.Invoice, error) {
	return is.store.Invoice(id)
}

// InvoiceView is an invoice with its computed totals.
type InvoiceView struct {
	*tables.Invoice
	Totals tables.InvoiceTotals `json:"totals"`
}

func NewInvoiceView(inv *tables.Invoice) *InvoiceView {
	return &InvoiceView{Invoice: inv, Totals: inv.Totals()}
}

type InvoiceListOptions struct {
	Page     int
	PageSize int
	Status   tables.InvoiceStatus
	OrderId  *uuid.UUID
	Overdue  bool
}

// List returns invoices, most recently issued first.
func (is *InvoiceService) List(opts *InvoiceListOptions) *store.PaginationResult[*InvoiceView] {
	if opts == nil {
		opts = &InvoiceListOptions{}
	}
	now := is.now()

	q := store.From(is.store.Invoices()).
		WhereIf(opts.Status != "", func(inv *tables.Invoice) bool { return inv.Status == opts.Status }).
		WhereIf(opts.OrderId != nil, func(inv *tables.Invoice) bool {
			return inv.OrderId != nil && *inv.OrderId == *opts.OrderId
		}).
		WhereIf(opts.Overdue, func(inv *tables.Invoice) bool {
			return inv.Status == tables.InvoiceStatusSent && inv.DueAt != nil && inv.DueAt.Before(now)
		}).
		OrderBy(func(a, b *tables.Invoice) int { return a.IssuedAt.Compare(b.IssuedAt) }, store.DESC)

	page := store.Paginate(q, opts.Page, opts.PageSize)
	views := make([]*InvoiceView, 0, len(page.Data))
	for _, inv := range page.Data {
		views = append(views, NewInvoiceView(inv))
	}
	return &store.PaginationResult[*InvoiceView]{Data: views, Pagination: page.Pagination}
}

// RenderInvoiceBody renders the invoice lines and totals as HTML, inserted
// in the invoice template through {{invoiceBody}}.
func (is *InvoiceService) RenderInvoiceBody(inv *tables.Invoice) string {
	totals := inv.Totals()

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Facture %s</h2>", inv.InvoiceNumber)
	fmt.Fprintf(&b, "<p>Date : %s", inv.IssuedAt.Format("02/01/2006"))
	if inv.DueAt != nil {
		fmt.Fprintf(&b, "<br>Échéance : %s", inv.DueAt.Format("02/01/2006"))
	}
	b.WriteString("</p>")
	b.WriteString(`<table style="width:100%;border-collapse:collapse">`)
	b.WriteString("<tr><th>Description</th><th>Qté</th><th>Prix unitaire HT</th><th>TVA</th><th>Total HT</th></tr>")
	for _, item := range inv.Items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%d</td><td>%s</td><td>%s %%</td><td>%s</td></tr>",
			item.Description, item.Quantity,
			is.currency.Format(item.UnitPrice),
			item.TaxRate.Mul(decimal.NewFromInt(100)).String(),
			is.currency.Format(line))
	}
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p>Sous-total HT : %s<br>TVA : %s", is.currency.Format(totals.Subtotal), is.currency.Format(totals.Tax))
	if totals.Discount.IsPositive() {
		fmt.Fprintf(&b, "<br>Remise : -%s", is.currency.Format(totals.Discount))
	}
	fmt.Fprintf(&b, "<br><strong>Total TTC : %s</strong></p>", is.currency.Format(totals.Total))
	if inv.Notes != "" {
		fmt.Fprintf(&b, "<p>%s</p>", inv.Notes)
	}
	return b.String()
}
