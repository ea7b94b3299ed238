package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolshop_server/structs/tables"
)

func TestDashboardStats(t *testing.T) {
	e := newTestEnv(t)
	first := e.checkout(t, "jean@example.fr", item(e.owned.ID, 6))
	e.checkout(t, "marie@example.fr", item(e.dropship.ID, 1))

	completed, err := e.sm.OrderService.UpdateStatus(e.ctx, first.Id, tables.OrderStatusCompleted)
	require.NoError(t, err)

	stats := e.sm.DashboardService.Stats()

	assert.Equal(t, 2, stats.OrderCount)
	assert.Equal(t, 1, stats.OrdersByStatus[tables.OrderStatusCompleted])
	assert.Equal(t, 1, stats.OrdersByStatus[tables.OrderStatusPending])
	assert.True(t, stats.Revenue.Equal(completed.Total))
	assert.Equal(t, 1, stats.DropshipOrders)
	assert.Equal(t, 2, stats.CustomerCount)
	assert.Equal(t, testNow, stats.GeneratedAt)

	// CHL-5KG went from 10 to 4; dropship products never count as low stock
	require.Len(t, stats.LowStock, 1)
	assert.Equal(t, "CHL-5KG", stats.LowStock[0].SKU)
	assert.Zero(t, stats.UnpaidInvoices)
}
