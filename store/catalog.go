package store

import (
	"fmt"

	"github.com/google/uuid"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

type UpsertSupplier struct {
	Supplier *tables.Supplier

	Result *tables.Supplier
}

func (a *UpsertSupplier) Name() string { return "UpsertSupplier" }

func (a *UpsertSupplier) Apply(st *State) error {
	s := a.Supplier.Clone()
	if s == nil {
		return lib.NewValidationError("supplier", "is required")
	}

	now := st.Now()
	if s.Id == uuid.Nil {
		s.Id = uuid.New()
	}
	if existing, ok := st.Suppliers[s.Id]; ok {
		s.CreatedAt = existing.CreatedAt
	} else {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	st.Suppliers[s.Id] = s
	a.Result = s.Clone()
	return nil
}

// DeleteSupplier refuses to orphan references: a supplier used by a product,
// an order item or a purchase order cannot be deleted.
type DeleteSupplier struct {
	Id uuid.UUID
}

func (a *DeleteSupplier) Name() string { return "DeleteSupplier" }

func (a *DeleteSupplier) Apply(st *State) error {
	if _, ok := st.Suppliers[a.Id]; !ok {
		return fmt.Errorf("supplier %s: %w", a.Id, lib.ErrNotFound)
	}
	if st.supplierInUse(a.Id) {
		return fmt.Errorf("supplier %s: %w", a.Id, lib.ErrSupplierInUse)
	}
	delete(st.Suppliers, a.Id)
	return nil
}

func (st *State) supplierInUse(id uuid.UUID) bool {
	for _, p := range st.Products {
		if p.SupplierId != nil && *p.SupplierId == id {
			return true
		}
	}
	for _, po := range st.PurchaseOrders {
		if po.SupplierId == id {
			return true
		}
	}
	for _, o := range st.Orders {
		for _, item := range o.Items {
			if item.SupplierId != nil && *item.SupplierId == id {
				return true
			}
		}
	}
	return false
}

// UpsertProduct creates or replaces a product. SKUs are unique; referenced
// supplier and category must exist.
type UpsertProduct struct {
	Product *tables.Product

	Result  *tables.Product
	Created bool
}

func (a *UpsertProduct) Name() string { return "UpsertProduct" }

func (a *UpsertProduct) Apply(st *State) error {
	p := a.Product.Clone()
	if p == nil {
		return lib.NewValidationError("product", "is required")
	}
	if p.SupplierId != nil {
		if _, ok := st.Suppliers[*p.SupplierId]; !ok {
			return fmt.Errorf("supplier %s: %w", p.SupplierId, lib.ErrUnknownSupplier)
		}
	}
	if p.CategoryId != nil {
		if _, ok := st.Categories[*p.CategoryId]; !ok {
			return fmt.Errorf("category %s: %w", p.CategoryId, lib.ErrNotFound)
		}
	}
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if owner, taken := st.skus[p.SKU]; taken && owner != p.ID {
		return fmt.Errorf("sku %s: %w", p.SKU, lib.ErrDuplicateSKU)
	}

	now := st.Now()
	existing, exists := st.Products[p.ID]
	if exists {
		p.CreatedAt = existing.CreatedAt
		if existing.SKU != p.SKU {
			delete(st.skus, existing.SKU)
		}
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	st.Products[p.ID] = p
	st.skus[p.SKU] = p.ID
	a.Result = p.Clone()
	a.Created = !exists
	return nil
}

type DeleteProduct struct {
	Id uuid.UUID
}

func (a *DeleteProduct) Name() string { return "DeleteProduct" }

func (a *DeleteProduct) Apply(st *State) error {
	p, ok := st.Products[a.Id]
	if !ok {
		return fmt.Errorf("product %s: %w", a.Id, lib.ErrNotFound)
	}
	delete(st.skus, p.SKU)
	delete(st.Products, a.Id)
	return nil
}

// AdjustStock adds Delta (possibly negative) to the stock of a product.
type AdjustStock struct {
	ProductId uuid.UUID
	Delta     int

	Result *tables.Product
}

func (a *AdjustStock) Name() string { return "AdjustStock" }

func (a *AdjustStock) Apply(st *State) error {
	p, ok := st.Products[a.ProductId]
	if !ok {
		return fmt.Errorf("product %s: %w", a.ProductId, lib.ErrNotFound)
	}
	if p.Stock+a.Delta < 0 {
		return fmt.Errorf("product %s: %w", p.SKU, lib.ErrInsufficientStock)
	}
	p.Stock += a.Delta
	p.UpdatedAt = st.Now()
	a.Result = p.Clone()
	return nil
}

type UpsertCategory struct {
	Category *tables.Category

	Result *tables.Category
}

func (a *UpsertCategory) Name() string { return "UpsertCategory" }

func (a *UpsertCategory) Apply(st *State) error {
	c := a.Category.Clone()
	if c == nil {
		return lib.NewValidationError("category", "is required")
	}
	if c.Id == uuid.Nil {
		c.Id = uuid.New()
	}
	if c.ParentId != nil {
		if _, ok := st.Categories[*c.ParentId]; !ok {
			return fmt.Errorf("parent category %s: %w", c.ParentId, lib.ErrNotFound)
		}
		// Walk up from the new parent; reaching c means a cycle
		seen := make(map[uuid.UUID]bool)
		for cur := c.ParentId; cur != nil; {
			if *cur == c.Id {
				return lib.ErrCategoryCycle
			}
			if seen[*cur] {
				break
			}
			seen[*cur] = true
			parent, ok := st.Categories[*cur]
			if !ok {
				break
			}
			cur = parent.ParentId
		}
	}

	if existing, ok := st.Categories[c.Id]; ok {
		c.CreatedAt = existing.CreatedAt
	} else {
		c.CreatedAt = st.Now()
	}
	st.Categories[c.Id] = c
	a.Result = c.Clone()
	return nil
}

// DeleteCategory removes a category; its children move up to its parent and
// its products become uncategorized.
type DeleteCategory struct {
	Id uuid.UUID
}

func (a *DeleteCategory) Name() string { return "DeleteCategory" }

func (a *DeleteCategory) Apply(st *State) error {
	c, ok := st.Categories[a.Id]
	if !ok {
		return fmt.Errorf("category %s: %w", a.Id, lib.ErrNotFound)
	}
	for _, child := range st.Categories {
		if child.ParentId != nil && *child.ParentId == a.Id {
			child.ParentId = c.ParentId
		}
	}
	for _, p := range st.Products {
		if p.CategoryId != nil && *p.CategoryId == a.Id {
			p.CategoryId = nil
			p.UpdatedAt = st.Now()
		}
	}
	delete(st.Categories, a.Id)
	return nil
}
