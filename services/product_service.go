package services

import (
	"context"
	"fmt"
	"slices"
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

type ProductService struct {
	logger *gecho.Logger
	cfg    *structs.Config
	store  *store.Store
}

func NewProductService(logger *gecho.Logger, cfg *structs.Config, st *store.Store) *ProductService {
	return &ProductService{
		logger: logger,
		cfg:    cfg,
		store:  st,
	}
}

// ProductListOptions contains filtering and pagination options for product queries
type ProductListOptions struct {
	// Pagination
	Page     int `json:"page"`
	PageSize int `json:"page_size"`

	// Filters
	IsActive      *bool            `json:"is_active,omitempty"`      // Filter by active status
	MinPrice      *decimal.Decimal `json:"min_price,omitempty"`      // Minimum public price
	MaxPrice      *decimal.Decimal `json:"max_price,omitempty"`      // Maximum public price
	SearchTerm    string           `json:"search_term,omitempty"`    // Search in name, description, SKU
	SKUs          []string         `json:"skus,omitempty"`           // Filter by specific SKUs
	ExcludeSKUs   []string         `json:"exclude_skus,omitempty"`   // Exclude specific SKUs
	CategoryId    *uuid.UUID       `json:"category_id,omitempty"`    // Products of this category
	SupplierId    *uuid.UUID       `json:"supplier_id,omitempty"`    // Products dropshipped by this supplier
	LowStock      bool             `json:"low_stock,omitempty"`      // Only products at or below their threshold
	CreatedAfter  *time.Time       `json:"created_after,omitempty"`  // Products created after this date
	CreatedBefore *time.Time       `json:"created_before,omitempty"` // Products created before this date

	// Sorting
	SortBy        string `json:"sort_by"`        // Field to sort by (created_at, updated_at, price, name, sku, stock)
	SortDirection string `json:"sort_direction"` // ASC or DESC
}

// ProductListResult wraps the product list response with metadata
type ProductListResult struct {
	Products   []*tables.Product  `json:"products"`
	Pagination store.Pagination   `json:"pagination"`
	Filters    ProductListOptions `json:"filters"`
	QueryTime  time.Duration      `json:"query_time"`
}

// GetAllProducts retrieves products with filtering, sorting and pagination
func (ps *ProductService) GetAllProducts(opts *ProductListOptions) (*ProductListResult, error) {
	startTime := time.Now()

	if opts == nil {
		opts = &ProductListOptions{}
	}
	ps.applyDefaultOptions(opts)

	if err := ps.validateOptions(opts); err != nil {
		ps.logger.Debug("Invalid product list options", gecho.Field("error", err))
		return nil, err
	}

	query := store.From(ps.store.Products())
	query = ps.applyFilters(query, opts)
	query = ps.applySorting(query, opts)

	result := store.Paginate(query, opts.Page, opts.PageSize)

	ps.logger.Debug("Products fetched successfully",
		gecho.Field("count", len(result.Data)),
		gecho.Field("total", result.Pagination.Total),
		gecho.Field("page", result.Pagination.Page),
		gecho.Field("duration", time.Since(startTime)))

	return &ProductListResult{
		Products:   result.Data,
		Pagination: result.Pagination,
		Filters:    *opts,
		QueryTime:  time.Since(startTime),
	}, nil
}

func (ps *ProductService) applyDefaultOptions(opts *ProductListOptions) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 20
	}
	if opts.PageSize > 100 {
		opts.PageSize = 100
	}
	if opts.SortBy == "" {
		opts.SortBy = "created_at"
	}
	if opts.SortDirection == "" {
		opts.SortDirection = "DESC"
	}
}

func (ps *ProductService) validateOptions(opts *ProductListOptions) error {
	validSortFields := map[string]bool{
		"created_at": true,
		"updated_at": true,
		"price":      true,
		"name":       true,
		"sku":        true,
		"stock":      true,
	}
	if !validSortFields[opts.SortBy] {
		return lib.NewValidationError("sort_by", "must be one of: created_at updated_at price name sku stock")
	}

	if opts.SortDirection != "ASC" && opts.SortDirection != "DESC" {
		return lib.NewValidationError("sort_direction", "must be one of: ASC DESC")
	}

	if opts.MinPrice != nil && opts.MaxPrice != nil && opts.MinPrice.GreaterThan(*opts.MaxPrice) {
		return lib.NewValidationError("min_price", "cannot be greater than max_price")
	}

	return nil
}

func (ps *ProductService) applyFilters(query *store.QueryBuilder[*tables.Product], opts *ProductListOptions) *store.QueryBuilder[*tables.Product] {
	search := strings.ToLower(strings.TrimSpace(opts.SearchTerm))
	threshold := ps.cfg.Shop.LowStockThreshold

	return query.
		WhereIf(opts.IsActive != nil, func(p *tables.Product) bool { return p.IsActive == *opts.IsActive }).
		WhereIf(opts.MinPrice != nil, func(p *tables.Product) bool { return p.Price.GreaterThanOrEqual(*opts.MinPrice) }).
		WhereIf(opts.MaxPrice != nil, func(p *tables.Product) bool { return p.Price.LessThanOrEqual(*opts.MaxPrice) }).
		WhereIf(search != "", func(p *tables.Product) bool {
			return strings.Contains(strings.ToLower(p.Name), search) ||
				strings.Contains(strings.ToLower(p.SKU), search) ||
				strings.Contains(strings.ToLower(p.Description), search)
		}).
		WhereIf(len(opts.SKUs) > 0, func(p *tables.Product) bool { return slices.Contains(opts.SKUs, p.SKU) }).
		WhereIf(len(opts.ExcludeSKUs) > 0, func(p *tables.Product) bool { return !slices.Contains(opts.ExcludeSKUs, p.SKU) }).
		WhereIf(opts.CategoryId != nil, func(p *tables.Product) bool {
			return p.CategoryId != nil && *p.CategoryId == *opts.CategoryId
		}).
		WhereIf(opts.SupplierId != nil, func(p *tables.Product) bool {
			return p.SupplierId != nil && *p.SupplierId == *opts.SupplierId
		}).
		WhereIf(opts.LowStock, func(p *tables.Product) bool {
			return p.SupplierId == nil && p.IsLowStock(threshold)
		}).
		WhereIf(opts.CreatedAfter != nil, func(p *tables.Product) bool { return p.CreatedAt.After(*opts.CreatedAfter) }).
		WhereIf(opts.CreatedBefore != nil, func(p *tables.Product) bool { return p.CreatedAt.Before(*opts.CreatedBefore) })
}

func (ps *ProductService) applySorting(query *store.QueryBuilder[*tables.Product], opts *ProductListOptions) *store.QueryBuilder[*tables.Product] {
	direction := store.DESC
	if opts.SortDirection == "ASC" {
		direction = store.ASC
	}

	var cmp func(a, b *tables.Product) int
	switch opts.SortBy {
	case "updated_at":
		cmp = func(a, b *tables.Product) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	case "price":
		cmp = func(a, b *tables.Product) int { return a.Price.Cmp(b.Price) }
	case "name":
		cmp = func(a, b *tables.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case "sku":
		cmp = func(a, b *tables.Product) int { return strings.Compare(a.SKU, b.SKU) }
	case "stock":
		cmp = func(a, b *tables.Product) int { return a.Stock - b.Stock }
	default:
		cmp = func(a, b *tables.Product) int { return a.CreatedAt.Compare(b.CreatedAt) }
	}

	// Secondary sort by SKU for consistent ordering
	return query.
		OrderBy(cmp, direction).
		OrderBy(func(a, b *tables.Product) int { return strings.Compare(a.SKU, b.SKU) }, store.ASC)
}

func (ps *ProductService) GetProductByID(id uuid.UUID) (*tables.Product, error) {
	return ps.store.Product(id)
}

// LowStockProducts lists owned products at or below their stock threshold,
// lowest stock first. Dropshipped products hold no stock and are skipped.
func (ps *ProductService) LowStockProducts() []*tables.Product {
	active := true
	return ps.applyFilters(store.From(ps.store.Products()), &ProductListOptions{IsActive: &active, LowStock: true}).
		OrderBy(func(a, b *tables.Product) int { return a.Stock - b.Stock }, store.ASC).
		OrderBy(func(a, b *tables.Product) int { return strings.Compare(a.SKU, b.SKU) }, store.ASC).
		All()
}

// validateProduct checks the rules the struct tags cannot express.
func validateProduct(req *structs.ProductRequest) error {
	if err := lib.ValidateStruct(req); err != nil {
		return err
	}
	if req.Price.IsNegative() {
		return lib.NewValidationError("price", "must be greater than or equal to 0")
	}
	if req.PurchasePrice.IsNegative() {
		return lib.NewValidationError("purchase_price", "must be greater than or equal to 0")
	}
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return lib.NewValidationError("tax_rate", "must be between 0 and 1")
	}
	return nil
}

func (ps *ProductService) CreateProduct(ctx context.Context, req *structs.ProductRequest) (*tables.Product, error) {
	return ps.saveProduct(ctx, uuid.Nil, req)
}

func (ps *ProductService) UpdateProduct(ctx context.Context, id uuid.UUID, req *structs.ProductRequest) (*tables.Product, error) {
	if _, err := ps.store.Product(id); err != nil {
		return nil, err
	}
	return ps.saveProduct(ctx, id, req)
}

func (ps *ProductService) saveProduct(ctx context.Context, id uuid.UUID, req *structs.ProductRequest) (*tables.Product, error) {
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	action := &store.UpsertProduct{Product: &tables.Product{
		ID:            id,
		SKU:           strings.TrimSpace(req.SKU),
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		CategoryId:    req.CategoryId,
		Price:         req.Price,
		PurchasePrice: req.PurchasePrice,
		TaxRate:       req.TaxRate,
		Stock:         req.Stock,
		LowStockAt:    req.LowStockAt,
		SupplierId:    req.SupplierId,
		IsActive:      isActive,
	}}
	if err := ps.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}

	ps.logger.Info("Product saved",
		gecho.Field("sku", action.Result.SKU),
		gecho.Field("created", action.Created))
	return action.Result, nil
}

func (ps *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if err := ps.store.Dispatch(ctx, &store.DeleteProduct{Id: id}); err != nil {
		return err
	}
	ps.logger.Info("Product deleted", gecho.Field("product_id", id))
	return nil
}

// AdjustStock adds delta to the stock of an owned product.
func (ps *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*tables.Product, error) {
	action := &store.AdjustStock{ProductId: id, Delta: delta}
	if err := ps.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}

	if action.Result.SupplierId == nil && action.Result.IsLowStock(ps.cfg.Shop.LowStockThreshold) {
		ps.logger.Warn("Product stock is low",
			gecho.Field("sku", action.Result.SKU),
			gecho.Field("stock", action.Result.Stock))
	}
	return action.Result, nil
}

func (ps *ProductService) SaveCategory(ctx context.Context, id uuid.UUID, req *structs.CategoryRequest) (*tables.Category, error) {
	if err := lib.ValidateStruct(req); err != nil {
		return nil, err
	}
	if id != uuid.Nil {
		if _, ok := ps.findCategory(id); !ok {
			return nil, fmt.Errorf("category %s: %w", id, lib.ErrNotFound)
		}
	}

	action := &store.UpsertCategory{Category: &tables.Category{
		Id:          id,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		ParentId:    req.ParentId,
	}}
	if err := ps.store.Dispatch(ctx, action); err != nil {
		return nil, err
	}
	return action.Result, nil
}

func (ps *ProductService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return ps.store.Dispatch(ctx, &store.DeleteCategory{Id: id})
}

func (ps *ProductService) findCategory(id uuid.UUID) (*tables.Category, bool) {
	var out *tables.Category
	ps.store.Read(func(st *store.State) {
		out = st.Categories[id].Clone()
	})
	return out, out != nil
}

// CategoryTree returns the category forest with product counts.
func (ps *ProductService) CategoryTree() []*tables.CategoryNode {
	return BuildCategoryTree(ps.store.Categories(), ps.store.Products())
}

// BuildCategoryTree groups categories by parent. A category whose parent is
// unknown, or whose ancestry loops, is placed at the root. ProductCount
// includes the products of sub categories.
func BuildCategoryTree(categories []*tables.Category, products []*tables.Product) []*tables.CategoryNode {
	byId := make(map[uuid.UUID]*tables.Category, len(categories))
	for _, c := range categories {
		byId[c.Id] = c
	}

	parentOf := func(c *tables.Category) *uuid.UUID {
		if c.ParentId == nil {
			return nil
		}
		if _, ok := byId[*c.ParentId]; !ok {
			return nil
		}
		seen := make(map[uuid.UUID]bool)
		for cur := c.ParentId; cur != nil; {
			if *cur == c.Id {
				return nil
			}
			if seen[*cur] {
				break
			}
			seen[*cur] = true
			parent, ok := byId[*cur]
			if !ok {
				break
			}
			cur = parent.ParentId
		}
		return c.ParentId
	}

	direct := make(map[uuid.UUID]int)
	for _, p := range products {
		if p.CategoryId != nil {
			direct[*p.CategoryId]++
		}
	}

	children := make(map[uuid.UUID][]*tables.Category)
	var roots []*tables.Category
	for _, c := range categories {
		if parent := parentOf(c); parent != nil {
			children[*parent] = append(children[*parent], c)
		} else {
			roots = append(roots, c)
		}
	}

	byName := func(a, b *tables.Category) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}

	var build func(c *tables.Category) *tables.CategoryNode
	build = func(c *tables.Category) *tables.CategoryNode {
		node := &tables.CategoryNode{Category: *c, ProductCount: direct[c.Id], Children: []*tables.CategoryNode{}}
		kids := children[c.Id]
		slices.SortFunc(kids, byName)
		for _, child := range kids {
			childNode := build(child)
			node.ProductCount += childNode.ProductCount
			node.Children = append(node.Children, childNode)
		}
		return node
	}

	slices.SortFunc(roots, byName)
	out := make([]*tables.CategoryNode, 0, len(roots))
	for _, c := range roots {
		out = append(out, build(c))
	}
	return out
}
