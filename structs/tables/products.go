package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"` // Stock Keeping Unit, unique
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	CategoryId    *uuid.UUID      `json:"category_id,omitempty"`
	Price         decimal.Decimal `json:"price"`          // public price excl. tax
	PurchasePrice decimal.Decimal `json:"purchase_price"` // supplier price
	TaxRate       decimal.Decimal `json:"tax_rate"`
	Stock         int             `json:"stock"`
	LowStockAt    int             `json:"low_stock_at"` // 0 falls back to the shop threshold
	SupplierId    *uuid.UUID      `json:"supplier_id,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// IsLowStock reports whether stock is at or below the product threshold,
// or defaultThreshold when the product has none.
func (p *Product) IsLowStock(defaultThreshold int) bool {
	threshold := p.LowStockAt
	if threshold <= 0 {
		threshold = defaultThreshold
	}
	return p.Stock <= threshold
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	if p.CategoryId != nil {
		id := *p.CategoryId
		c.CategoryId = &id
	}
	if p.SupplierId != nil {
		id := *p.SupplierId
		c.SupplierId = &id
	}
	return &c
}

type Category struct {
	Id          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	ParentId    *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (c *Category) Clone() *Category {
	if c == nil {
		return nil
	}
	cp := *c
	if c.ParentId != nil {
		id := *c.ParentId
		cp.ParentId = &id
	}
	return &cp
}

// CategoryNode is a category with its sub categories, used for the admin tree view.
type CategoryNode struct {
	Category
	ProductCount int             `json:"product_count"`
	Children     []*CategoryNode `json:"children"`
}
