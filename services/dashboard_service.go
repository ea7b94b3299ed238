package services

import (
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/shopspring/decimal"

	"poolshop_server/store"
	"poolshop_server/structs"
	"poolshop_server/structs/tables"
)

type DashboardStats struct {
	Revenue          decimal.Decimal                    `json:"revenue"`
	OrderCount       int                                `json:"order_count"`
	OrdersByStatus   map[tables.OrderStatus]int         `json:"orders_by_status"`
	DropshipOrders   int                                `json:"dropship_orders"`
	BySupplierStatus map[tables.SupplierStatus]int      `json:"by_supplier_status"`
	POsToSend        int                                `json:"purchase_orders_to_send"`
	POsByStatus      map[tables.PurchaseOrderStatus]int `json:"purchase_orders_by_status"`
	LowStock         []*tables.Product                  `json:"low_stock"`
	UnpaidInvoices   int                                `json:"unpaid_invoices"`
	UnpaidTotal      decimal.Decimal                    `json:"unpaid_total"`
	OverdueInvoices  int                                `json:"overdue_invoices"`
	CustomerCount    int                                `json:"customer_count"`
	Segments         map[tables.Segment]int             `json:"segments"`
	GeneratedAt      time.Time                          `json:"generated_at"`
}

type DashboardService struct {
	logger    *gecho.Logger
	cfg       *structs.Config
	store     *store.Store
	customers *CustomerService
}

func NewDashboardService(logger *gecho.Logger, cfg *structs.Config, st *store.Store, customers *CustomerService) *DashboardService {
	return &DashboardService{
		logger:    logger,
		cfg:       cfg,
		store:     st,
		customers: customers,
	}
}

// Stats computes the back-office overview from a single consistent read.
func (ds *DashboardService) Stats() *DashboardStats {
	stats := &DashboardStats{
		Revenue:          decimal.Zero,
		OrdersByStatus:   make(map[tables.OrderStatus]int),
		BySupplierStatus: make(map[tables.SupplierStatus]int),
		POsByStatus:      make(map[tables.PurchaseOrderStatus]int),
		LowStock:         make([]*tables.Product, 0),
		UnpaidTotal:      decimal.Zero,
		Segments:         make(map[tables.Segment]int),
	}

	threshold := ds.cfg.Shop.LowStockThreshold
	ds.store.Read(func(st *store.State) {
		stats.GeneratedAt = st.Now()

		for _, o := range st.Orders {
			stats.OrderCount++
			stats.OrdersByStatus[o.Status]++
			if o.Status == tables.OrderStatusCompleted {
				stats.Revenue = stats.Revenue.Add(o.Total)
			}
			if o.IsDropshipping && o.Status != tables.OrderStatusCancelled {
				stats.DropshipOrders++
				stats.BySupplierStatus[o.SupplierStatus]++
			}
		}

		for _, po := range st.PurchaseOrders {
			stats.POsByStatus[po.Status]++
			if po.Status == tables.PurchaseOrderStatusToSend {
				stats.POsToSend++
			}
		}

		for _, p := range st.Products {
			if p.IsActive && p.SupplierId == nil && p.IsLowStock(threshold) {
				stats.LowStock = append(stats.LowStock, p.Clone())
			}
		}

		for _, inv := range st.Invoices {
			if inv.Status != tables.InvoiceStatusSent {
				continue
			}
			stats.UnpaidInvoices++
			stats.UnpaidTotal = stats.UnpaidTotal.Add(inv.Totals().Total)
			if inv.DueAt != nil && inv.DueAt.Before(stats.GeneratedAt) {
				stats.OverdueInvoices++
			}
		}
	})

	for _, c := range ds.customers.Customers() {
		stats.CustomerCount++
		stats.Segments[c.Segment]++
	}

	stats.LowStock = store.From(stats.LowStock).
		OrderBy(func(a, b *tables.Product) int { return a.Stock - b.Stock }, store.ASC).
		All()
	return stats
}
