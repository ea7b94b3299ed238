package services

import (
	"context"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"

	"poolshop_server/lib"
	"poolshop_server/store"
	"poolshop_server/structs/tables"
)

// Segment thresholds
const (
	vipOrderCount   = 5
	loyalOrderCount = 2
	atRiskAfter     = 90 * 24 * time.Hour
	inactiveAfter   = 180 * 24 * time.Hour
)

var vipSpent = decimal.NewFromInt(1000)

// CustomerService derives customers from the order history. There is no
// customer entity: the email address is the key.
type CustomerService struct {
	logger        *gecho.Logger
	store         *store.Store
	notifications *NotificationService
}

func NewCustomerService(logger *gecho.Logger, st *store.Store, notifications *NotificationService) *CustomerService {
	return &CustomerService{
		logger:        logger,
		store:         st,
		notifications: notifications,
	}
}

// ClassifySegment applies the segment rules, first match wins.
func ClassifySegment(c *tables.Customer, now time.Time) tables.Segment {
	since := now.Sub(c.LastOrderAt)
	switch {
	case c.OrderCount >= vipOrderCount || c.TotalSpent.GreaterThanOrEqual(vipSpent):
		return tables.SegmentVIP
	case since > inactiveAfter:
		return tables.SegmentInactive
	case since > atRiskAfter:
		return tables.SegmentAtRisk
	case c.OrderCount >= loyalOrderCount:
		return tables.SegmentLoyal
	default:
		return tables.SegmentNew
	}
}

// Customers aggregates the orders per customer email. Cancelled orders do
// not count.
func (cs *CustomerService) Customers() []*tables.Customer {
	var (
		orders []*tables.Order
		now    time.Time
	)
	cs.store.Read(func(st *store.State) {
		now = st.Now()
		orders = make([]*tables.Order, 0, len(st.Orders))
		for _, o := range st.Orders {
			if o.Status != tables.OrderStatusCancelled {
				orders = append(orders, o.Clone())
			}
		}
	})
	return aggregateCustomers(orders, now)
}

func aggregateCustomers(orders []*tables.Order, now time.Time) []*tables.Customer {
	byEmail := make(map[string]*tables.Customer)
	for _, o := range orders {
		key := strings.ToLower(strings.TrimSpace(o.CustomerEmail))
		if key == "" {
			continue
		}
		c, ok := byEmail[key]
		if !ok {
			c = &tables.Customer{Email: key, FirstOrderAt: o.CreatedAt, TotalSpent: decimal.Zero}
			byEmail[key] = c
		}
		c.OrderCount++
		c.TotalSpent = c.TotalSpent.Add(o.Total)
		if o.CreatedAt.Before(c.FirstOrderAt) {
			c.FirstOrderAt = o.CreatedAt
		}
		// Contact details come from the latest order
		if !o.CreatedAt.Before(c.LastOrderAt) {
			c.LastOrderAt = o.CreatedAt
			c.Name = o.CustomerName
			if o.CustomerPhone != "" {
				c.Phone = o.CustomerPhone
			}
		}
	}

	customers := make([]*tables.Customer, 0, len(byEmail))
	for _, c := range byEmail {
		c.Segment = ClassifySegment(c, now)
		customers = append(customers, c)
	}
	return customers
}

type CustomerListOptions struct {
	Page       int
	PageSize   int
	Segment    tables.Segment
	SearchTerm string
}

// List returns customers, biggest spenders first.
func (cs *CustomerService) List(opts *CustomerListOptions) *store.PaginationResult[*tables.Customer] {
	if opts == nil {
		opts = &CustomerListOptions{}
	}
	search := strings.ToLower(strings.TrimSpace(opts.SearchTerm))

	q := store.From(cs.Customers()).
		WhereIf(opts.Segment != "", func(c *tables.Customer) bool { return c.Segment == opts.Segment }).
		WhereIf(search != "", func(c *tables.Customer) bool {
			return strings.Contains(c.Email, search) || strings.Contains(strings.ToLower(c.Name), search)
		}).
		OrderBy(func(a, b *tables.Customer) int { return a.TotalSpent.Cmp(b.TotalSpent) }, store.DESC).
		OrderBy(func(a, b *tables.Customer) int { return strings.Compare(a.Email, b.Email) }, store.ASC)

	return store.Paginate(q, opts.Page, opts.PageSize)
}

// Get returns the customer with the given email.
func (cs *CustomerService) Get(email string) (*tables.Customer, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	customer, ok := store.From(cs.Customers()).
		Where(func(c *tables.Customer) bool { return c.Email == email }).
		First()
	if !ok {
		return nil, lib.ErrNotFound
	}
	return customer, nil
}

// CampaignResult reports how many customers a campaign reached.
type CampaignResult struct {
	TemplateId string         `json:"template_id"`
	Segment    tables.Segment `json:"segment"`
	Targeted   int            `json:"targeted"`
	Sent       int            `json:"sent"`
}

// SendCampaign sends a template to every customer of a segment. The
// template must exist and be enabled, otherwise nothing is sent.
func (cs *CustomerService) SendCampaign(ctx context.Context, templateId string, segment tables.Segment) (*CampaignResult, error) {
	tpl, ok := cs.store.Template(templateId)
	if !ok {
		return nil, lib.ErrTemplateNotFound
	}
	if !tpl.Enabled {
		return nil, lib.ErrTemplateDisabled
	}

	result := &CampaignResult{TemplateId: templateId, Segment: segment}
	for _, c := range cs.Customers() {
		if c.Segment != segment {
			continue
		}
		result.Targeted++
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if cs.notifications.SendTemplate(ctx, templateId, c.Email, &TemplateContext{Customer: c}) != nil {
			result.Sent++
		}
	}

	cs.logger.Info("Campaign sent",
		gecho.Field("template", templateId),
		gecho.Field("segment", segment),
		gecho.Field("targeted", result.Targeted),
		gecho.Field("sent", result.Sent))
	return result, nil
}
