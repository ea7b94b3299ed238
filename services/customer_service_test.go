package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

func TestClassifySegment(t *testing.T) {
	day := 24 * time.Hour
	tests := []struct {
		name   string
		orders int
		spent  string
		since  time.Duration
		want   tables.Segment
	}{
		{"single recent order", 1, "50", day, tables.SegmentNew},
		{"two orders", 2, "120", 10 * day, tables.SegmentLoyal},
		{"five orders", 5, "300", day, tables.SegmentVIP},
		{"big spender", 1, "1000", day, tables.SegmentVIP},
		{"vip wins over inactive", 6, "2000", 400 * day, tables.SegmentVIP},
		{"quiet for four months", 2, "120", 120 * day, tables.SegmentAtRisk},
		{"quiet for a year", 1, "40", 365 * day, tables.SegmentInactive},
		{"exactly ninety days", 1, "40", 90 * day, tables.SegmentNew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &tables.Customer{
				OrderCount:  tt.orders,
				TotalSpent:  decimal.RequireFromString(tt.spent),
				LastOrderAt: testNow.Add(-tt.since),
			}
			assert.Equal(t, tt.want, ClassifySegment(c, testNow))
		})
	}
}

func TestCustomerService_AggregatesOrders(t *testing.T) {
	e := newTestEnv(t)
	e.checkout(t, "jean@example.fr", item(e.owned.ID, 1))
	e.checkout(t, "JEAN@example.fr", item(e.owned.ID, 1))
	e.checkout(t, "marie@example.fr", item(e.dropship.ID, 2))
	cancelled := e.checkout(t, "paul@example.fr", item(e.owned.ID, 1))
	_, err := e.sm.OrderService.UpdateStatus(e.ctx, cancelled.Id, tables.OrderStatusCancelled)
	require.NoError(t, err)

	list := e.sm.CustomerService.List(nil)
	require.Len(t, list.Data, 2)

	marie := list.Data[0]
	assert.Equal(t, "marie@example.fr", marie.Email)
	assert.Equal(t, "1680", marie.TotalSpent.String())
	assert.Equal(t, tables.SegmentVIP, marie.Segment)

	jean, err := e.sm.CustomerService.Get(" Jean@Example.fr ")
	require.NoError(t, err)
	assert.Equal(t, 2, jean.OrderCount)
	assert.Equal(t, tables.SegmentLoyal, jean.Segment)
	assert.Equal(t, "Jean Dupont", jean.Name)

	_, err = e.sm.CustomerService.Get("paul@example.fr")
	assert.ErrorIs(t, err, lib.ErrNotFound)

	loyal := e.sm.CustomerService.List(&CustomerListOptions{Segment: tables.SegmentLoyal})
	require.Len(t, loyal.Data, 1)
	assert.Equal(t, "jean@example.fr", loyal.Data[0].Email)
}

func TestCustomerService_SendCampaign(t *testing.T) {
	e := newTestEnv(t)
	e.checkout(t, "jean@example.fr", item(e.owned.ID, 1))
	e.checkout(t, "marie@example.fr", item(e.owned.ID, 1))
	e.checkout(t, "luc@example.fr", item(e.dropship.ID, 2))

	result, err := e.sm.CustomerService.SendCampaign(e.ctx, TemplateCampaign, tables.SegmentNew)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Targeted)
	assert.Equal(t, 2, result.Sent)

	emails := e.notificationsFor(TemplateCampaign)
	require.Len(t, emails, 2)
	recipients := []string{emails[0].Recipient, emails[1].Recipient}
	assert.ElementsMatch(t, []string{"jean@example.fr", "marie@example.fr"}, recipients)
	assert.Contains(t, emails[0].Subject, "Jean Dupont")

	_, err = e.sm.CustomerService.SendCampaign(e.ctx, "missing", tables.SegmentNew)
	assert.ErrorIs(t, err, lib.ErrTemplateNotFound)

	_, err = e.sm.EmailService.SetTemplateEnabled(e.ctx, TemplateCampaign, false)
	require.NoError(t, err)
	_, err = e.sm.CustomerService.SendCampaign(e.ctx, TemplateCampaign, tables.SegmentNew)
	assert.ErrorIs(t, err, lib.ErrTemplateDisabled)
}
