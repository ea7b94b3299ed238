package store

import (
	"fmt"

	"github.com/google/uuid"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

// Snapshot helpers return deep copies; callers may mutate them freely.

func (s *Store) Order(id uuid.UUID) (*tables.Order, error) {
	var out *tables.Order
	s.Read(func(st *State) {
		if o, ok := st.Orders[id]; ok {
			out = o.Clone()
		}
	})
	if out == nil {
		return nil, fmt.Errorf("order %s: %w", id, lib.ErrNotFound)
	}
	return out, nil
}

func (s *Store) OrderByNumber(number string) (*tables.Order, error) {
	var out *tables.Order
	s.Read(func(st *State) {
		if o, ok := st.OrderByNumber(number); ok {
			out = o.Clone()
		}
	})
	if out == nil {
		return nil, fmt.Errorf("order %s: %w", number, lib.ErrNotFound)
	}
	return out, nil
}

func (s *Store) Orders() []*tables.Order {
	var out []*tables.Order
	s.Read(func(st *State) {
		out = make([]*tables.Order, 0, len(st.Orders))
		for _, o := range st.Orders {
			out = append(out, o.Clone())
		}
	})
	return out
}

func (s *Store) PurchaseOrder(id uuid.UUID) (*tables.PurchaseOrder, error) {
	var out *tables.PurchaseOrder
	s.Read(func(st *State) {
		if po, ok := st.PurchaseOrders[id]; ok {
			out = po.Clone()
		}
	})
	if out == nil {
		return nil, fmt.Errorf("purchase order %s: %w", id, lib.ErrNotFound)
	}
	return out, nil
}

func (s *Store) PurchaseOrders() []*tables.PurchaseOrder {
	var out []*tables.PurchaseOrder
	s.Read(func(st *State) {
		out = make([]*tables.PurchaseOrder, 0, len(st.PurchaseOrders))
		for _, po := range st.PurchaseOrders {
			out = append(out, po.Clone())
		}
	})
	return out
}

func (s *Store) Invoice(id uuid.UUID) (*tables.Invoice, error) {
	var out *tables.Invoice
	s.Read(func(st *State) {
		if inv, ok := st.Invoices[id]; ok {
			out = inv.Clone()
		}
	})
	if out == nil {
		return nil, fmt.Errorf("invoice %s: %w", id, lib.ErrNotFound)
	}
	return out, nil
}

func (s *Store) Invoices() []*tables.Invoice {
	var out []*tables.Invoice
	s.Read(func(st *State) {
		out = make([]*tables.Invoice, 0, len(st.Invoices))
		for _, inv := range st.Invoices {
			out = append(out, inv.Clone())
		}
	})
	return out
}

func (s *Store) Supplier(id uuid.UUID) (*tables.Supplier, error) {
	var out *tables.Supplier
	s.Read(func(st *State) {
		if sup, ok := st.Suppliers[id]; ok {
			out = sup.Clone()
		}
	})
	if out == nil {
		return nil, fmt.Errorf("supplier %s: %w", id, lib.ErrNotFound)
	}
	return out, nil
}

func (s *Store) Suppliers() []*tables.Supplier {
	var out []*tables.Supplier
	s.Read(func(st *State) {
		out = make([]*tables.Supplier, 0, len(st.Suppliers))
		for _, sup := range st.Suppliers {
			out = append(out, sup.Clone())
		}
	})
	return out
}

func (s *Store) Product(id uuid.UUID) (*tables.Product, error) {
	var out *tables.Product
	s.Read(func(st *State) {
		if p, ok := st.Products[id]; ok {
			out = p.Clone()
		}
	})
	if out == nil {
		return nil, fmt.Errorf("product %s: %w", id, lib.ErrNotFound)
	}
	return out, nil
}

func (s *Store) Products() []*tables.Product {
	var out []*tables.Product
	s.Read(func(st *State) {
		out = make([]*tables.Product, 0, len(st.Products))
		for _, p := range st.Products {
			out = append(out, p.Clone())
		}
	})
	return out
}

func (s *Store) Categories() []*tables.Category {
	var out []*tables.Category
	s.Read(func(st *State) {
		out = make([]*tables.Category, 0, len(st.Categories))
		for _, c := range st.Categories {
			out = append(out, c.Clone())
		}
	})
	return out
}

func (s *Store) Template(id string) (*tables.EmailTemplate, bool) {
	var out *tables.EmailTemplate
	s.Read(func(st *State) {
		out = st.Templates[id].Clone()
	})
	return out, out != nil
}

func (s *Store) Templates() []*tables.EmailTemplate {
	var out []*tables.EmailTemplate
	s.Read(func(st *State) {
		out = make([]*tables.EmailTemplate, 0, len(st.Templates))
		for _, t := range st.Templates {
			out = append(out, t.Clone())
		}
	})
	return out
}

// Notifications returns a copy of the notification list in insertion order.
func (s *Store) Notifications() []tables.Notification {
	var out []tables.Notification
	s.Read(func(st *State) {
		out = append([]tables.Notification(nil), st.Notifications...)
	})
	return out
}

func (s *Store) PaymentMethods() []*tables.PaymentMethod {
	var out []*tables.PaymentMethod
	s.Read(func(st *State) {
		out = make([]*tables.PaymentMethod, 0, len(st.PaymentMethods))
		for _, pm := range st.PaymentMethods {
			out = append(out, pm.Clone())
		}
	})
	return out
}
