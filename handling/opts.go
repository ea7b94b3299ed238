package handling

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"poolshop_server/services"
	"poolshop_server/structs/tables"
)

// ParseProductListOptions parses HTTP query parameters into ProductListOptions
func ParseProductListOptions(r *http.Request) (*services.ProductListOptions, error) {
	query := r.URL.Query()

	// Early return if no query params
	if len(query) == 0 {
		return &services.ProductListOptions{}, nil
	}

	opts := &services.ProductListOptions{}
	var err error

	if opts.Page, opts.PageSize, err = parsePagination(query); err != nil {
		return nil, err
	}

	// Parse boolean filters
	if opts.IsActive, err = parseOptionalBool(query, "is_active"); err != nil {
		return nil, err
	}

	if lowStock := query.Get("low_stock"); lowStock != "" {
		if opts.LowStock, err = strconv.ParseBool(lowStock); err != nil {
			return nil, err
		}
	}

	if searchTerm := query.Get("search"); searchTerm != "" {
		opts.SearchTerm = searchTerm
	}

	// Parse price filters
	if opts.MinPrice, err = parseOptionalDecimal(query, "min_price"); err != nil {
		return nil, err
	}
	if opts.MaxPrice, err = parseOptionalDecimal(query, "max_price"); err != nil {
		return nil, err
	}

	if skus := query.Get("skus"); skus != "" {
		opts.SKUs = splitAndTrim(skus)
	}

	if excludeSKUs := query.Get("exclude_skus"); excludeSKUs != "" {
		opts.ExcludeSKUs = splitAndTrim(excludeSKUs)
	}

	if opts.CategoryId, err = parseOptionalUUID(query, "category_id"); err != nil {
		return nil, err
	}
	if opts.SupplierId, err = parseOptionalUUID(query, "supplier_id"); err != nil {
		return nil, err
	}

	// Parse date filters
	if opts.CreatedAfter, err = parseOptionalTime(query, "created_after"); err != nil {
		return nil, err
	}
	if opts.CreatedBefore, err = parseOptionalTime(query, "created_before"); err != nil {
		return nil, err
	}

	// Parse sorting parameters
	if sortBy := query.Get("sort_by"); sortBy != "" {
		opts.SortBy = sortBy
	}

	if sortDirection := query.Get("sort_direction"); sortDirection != "" {
		opts.SortDirection = strings.ToUpper(sortDirection)
	}

	return opts, nil
}

func ParseOrderListOptions(r *http.Request) (*services.OrderListOptions, error) {
	query := r.URL.Query()
	opts := &services.OrderListOptions{
		Status:         tables.OrderStatus(query.Get("status")),
		SupplierStatus: tables.SupplierStatus(query.Get("supplier_status")),
		Email:          query.Get("email"),
		SearchTerm:     query.Get("search"),
		SortBy:         query.Get("sort_by"),
		SortDirection:  query.Get("sort_direction"),
	}
	var err error

	if opts.Page, opts.PageSize, err = parsePagination(query); err != nil {
		return nil, err
	}
	if opts.Dropshipping, err = parseOptionalBool(query, "dropshipping"); err != nil {
		return nil, err
	}
	if opts.CreatedAfter, err = parseOptionalTime(query, "created_after"); err != nil {
		return nil, err
	}
	if opts.CreatedBefore, err = parseOptionalTime(query, "created_before"); err != nil {
		return nil, err
	}
	return opts, nil
}

func ParsePurchaseOrderListOptions(r *http.Request) (*services.PurchaseOrderListOptions, error) {
	query := r.URL.Query()
	opts := &services.PurchaseOrderListOptions{
		Status: tables.PurchaseOrderStatus(query.Get("status")),
	}
	var err error

	if opts.Page, opts.PageSize, err = parsePagination(query); err != nil {
		return nil, err
	}
	if opts.SupplierId, err = parseOptionalUUID(query, "supplier_id"); err != nil {
		return nil, err
	}
	if opts.OrderId, err = parseOptionalUUID(query, "order_id"); err != nil {
		return nil, err
	}
	return opts, nil
}

func ParseInvoiceListOptions(r *http.Request) (*services.InvoiceListOptions, error) {
	query := r.URL.Query()
	opts := &services.InvoiceListOptions{
		Status: tables.InvoiceStatus(query.Get("status")),
	}
	var err error

	if opts.Page, opts.PageSize, err = parsePagination(query); err != nil {
		return nil, err
	}
	if opts.OrderId, err = parseOptionalUUID(query, "order_id"); err != nil {
		return nil, err
	}
	if overdue := query.Get("overdue"); overdue != "" {
		if opts.Overdue, err = strconv.ParseBool(overdue); err != nil {
			return nil, err
		}
	}
	return opts, nil
}

func ParseCustomerListOptions(r *http.Request) (*services.CustomerListOptions, error) {
	query := r.URL.Query()
	opts := &services.CustomerListOptions{
		Segment:    tables.Segment(query.Get("segment")),
		SearchTerm: query.Get("search"),
	}
	var err error

	if opts.Page, opts.PageSize, err = parsePagination(query); err != nil {
		return nil, err
	}
	return opts, nil
}

func ParseNotificationListOptions(r *http.Request) (*services.NotificationListOptions, error) {
	query := r.URL.Query()
	opts := &services.NotificationListOptions{
		Recipient:  query.Get("recipient"),
		TemplateId: query.Get("template_id"),
	}
	var err error

	if opts.Page, opts.PageSize, err = parsePagination(query); err != nil {
		return nil, err
	}
	if opts.Since, err = parseOptionalTime(query, "since"); err != nil {
		return nil, err
	}
	return opts, nil
}

func parsePagination(query url.Values) (page, pageSize int, err error) {
	if v := query.Get("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return 0, 0, err
		}
	}
	if v := query.Get("page_size"); v != "" {
		if pageSize, err = strconv.Atoi(v); err != nil {
			return 0, 0, err
		}
	}
	return page, pageSize, nil
}

func parseOptionalBool(query url.Values, key string) (*bool, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// parseOptionalDecimal accepts both "12.50" and "12,50".
func parseOptionalDecimal(query url.Values, key string) (*decimal.Decimal, error) {
	v := strings.TrimSpace(query.Get(key))
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.Replace(v, ",", ".", 1))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func parseOptionalUUID(query url.Values, key string) (*uuid.UUID, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}
	id, err := uuid.Parse(v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalTime(query url.Values, key string) (*time.Time, error) {
	v := query.Get(key)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace efficiently
func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	// Trim in place to avoid extra allocations
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// URLParamUUID parses a chi URL parameter as a UUID.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}
