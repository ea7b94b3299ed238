package handling

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"poolshop_server/structs/tables"
)

func TestParseProductListOptions(t *testing.T) {
	supplierId := uuid.New()
	r := httptest.NewRequest("GET", "/admin/products?page=2&page_size=50&is_active=true&low_stock=1"+
		"&min_price=12,50&max_price=100&skus=CHL-5KG,+PH-6KG&supplier_id="+supplierId.String()+
		"&sort_by=price&sort_direction=asc", nil)

	opts, err := ParseProductListOptions(r)
	require.NoError(t, err)

	assert.Equal(t, 2, opts.Page)
	assert.Equal(t, 50, opts.PageSize)
	require.NotNil(t, opts.IsActive)
	assert.True(t, *opts.IsActive)
	assert.True(t, opts.LowStock)
	assert.Equal(t, "12.5", opts.MinPrice.String())
	assert.Equal(t, "100", opts.MaxPrice.String())
	assert.Equal(t, []string{"CHL-5KG", "PH-6KG"}, opts.SKUs)
	assert.Equal(t, supplierId, *opts.SupplierId)
	assert.Equal(t, "ASC", opts.SortDirection)
}

func TestParseOptions_RejectsBadValues(t *testing.T) {
	product := func(r *http.Request) error {
		_, err := ParseProductListOptions(r)
		return err
	}
	order := func(r *http.Request) error {
		_, err := ParseOrderListOptions(r)
		return err
	}
	purchaseOrder := func(r *http.Request) error {
		_, err := ParsePurchaseOrderListOptions(r)
		return err
	}
	invoice := func(r *http.Request) error {
		_, err := ParseInvoiceListOptions(r)
		return err
	}

	tests := []struct {
		name   string
		parse  func(r *http.Request) error
		target string
	}{
		{"product page", product, "/?page=two"},
		{"product price", product, "/?min_price=cheap"},
		{"order date", order, "/?created_after=yesterday"},
		{"po supplier", purchaseOrder, "/?supplier_id=abc"},
		{"invoice overdue", invoice, "/?overdue=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, tt.parse(httptest.NewRequest(http.MethodGet, tt.target, nil)))
		})
	}
}

func TestParseOrderListOptions(t *testing.T) {
	r := httptest.NewRequest("GET", "/admin/orders?status=Pending&supplier_status=Shipped&dropshipping=true&search=CMD", nil)

	opts, err := ParseOrderListOptions(r)
	require.NoError(t, err)
	assert.Equal(t, tables.OrderStatusPending, opts.Status)
	assert.Equal(t, tables.SupplierStatusShipped, opts.SupplierStatus)
	require.NotNil(t, opts.Dropshipping)
	assert.True(t, *opts.Dropshipping)
	assert.Equal(t, "CMD", opts.SearchTerm)
}
