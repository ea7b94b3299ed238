package products

import (
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"poolshop_server/handling"
	"poolshop_server/structs/tables"
)

// productView hides purchase prices, stock figures and supplier links from
// the storefront.
type productView struct {
	ID           uuid.UUID       `json:"id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	CategoryId   *uuid.UUID      `json:"category_id,omitempty"`
	Price        decimal.Decimal `json:"price"`
	TaxRate      decimal.Decimal `json:"tax_rate"`
	PriceInclTax decimal.Decimal `json:"price_incl_tax"`
	InStock      bool            `json:"in_stock"`
	CreatedAt    time.Time       `json:"created_at"`
}

func newProductView(p *tables.Product) productView {
	return productView{
		ID:           p.ID,
		SKU:          p.SKU,
		Name:         p.Name,
		Description:  p.Description,
		CategoryId:   p.CategoryId,
		Price:        p.Price,
		TaxRate:      p.TaxRate,
		PriceInclTax: p.Price.Add(p.Price.Mul(p.TaxRate)).Round(2),
		// Dropshipped products ship from the supplier
		InStock:   p.SupplierId != nil || p.Stock > 0,
		CreatedAt: p.CreatedAt,
	}
}

// FetchAllProducts handles GET /products with filtering, pagination, and sorting.
// Only active products are listed.
func (p *ProductRoutesManager) FetchAllProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		p.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		gecho.BadRequest(w,
			gecho.WithMessage("error.invalidQueryParameters"),
			gecho.WithData(err.Error()),
			gecho.Send(),
		)
		return
	}
	active := true
	opts.IsActive = &active
	opts.LowStock = false
	opts.SupplierId = nil

	result, err := p.productService.GetAllProducts(opts)
	if err != nil {
		handling.HandleServiceError(err, "products", p.logger, w)
		return
	}

	products := make([]productView, 0, len(result.Products))
	for _, product := range result.Products {
		products = append(products, newProductView(product))
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   products,
			"pagination": result.Pagination,
			"meta": map[string]any{
				"query_time_ms": result.QueryTime.Milliseconds(),
				"count":         len(products),
			},
		}),
		gecho.Send(),
	)
}

// FetchProductByID handles GET /products/{id}
func (p *ProductRoutesManager) FetchProductByID(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil || id == uuid.Nil {
		gecho.BadRequest(w,
			gecho.WithMessage("error.products.invalidProductId"),
			gecho.Send(),
		)
		return
	}

	product, err := p.productService.GetProductByID(id)
	if err != nil {
		handling.HandleServiceError(err, "products", p.logger, w)
		return
	}
	if !product.IsActive {
		gecho.NotFound(w,
			gecho.WithMessage("error.products.notFound"),
			gecho.Send(),
		)
		return
	}

	gecho.Success(w,
		gecho.WithData(map[string]any{
			"product": newProductView(product),
		}),
		gecho.Send(),
	)
}

// FetchCategories handles GET /products/categories
func (p *ProductRoutesManager) FetchCategories(w http.ResponseWriter, r *http.Request) {
	gecho.Success(w,
		gecho.WithData(p.productService.CategoryTree()),
		gecho.Send(),
	)
}
