package store

import (
	"fmt"

	"github.com/google/uuid"

	"poolshop_server/lib"
	"poolshop_server/structs/tables"
)

type CreateInvoice struct {
	Invoice *tables.Invoice

	Result *tables.Invoice
}

func (a *CreateInvoice) Name() string { return "CreateInvoice" }

func (a *CreateInvoice) Apply(st *State) error {
	inv := a.Invoice.Clone()
	if inv == nil {
		return lib.NewValidationError("invoice", "is required")
	}
	if inv.OrderId != nil {
		if _, ok := st.Orders[*inv.OrderId]; !ok {
			return fmt.Errorf("order %s: %w", inv.OrderId, lib.ErrNotFound)
		}
	}
	if inv.Id == uuid.Nil {
		inv.Id = uuid.New()
	}
	if _, exists := st.Invoices[inv.Id]; exists {
		return fmt.Errorf("invoice %s: %w", inv.Id, lib.ErrConflict)
	}

	inv.Status = tables.InvoiceStatusDraft
	inv.PaidAt = nil
	inv.CreatedAt = st.Now()
	inv.UpdatedAt = inv.CreatedAt
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = inv.CreatedAt
	}

	st.Invoices[inv.Id] = inv
	a.Result = inv.Clone()
	return nil
}

// UpdateInvoice replaces the editable fields of an invoice. Paid and
// cancelled invoices are immutable.
type UpdateInvoice struct {
	Invoice *tables.Invoice

	Result *tables.Invoice
}

func (a *UpdateInvoice) Name() string { return "UpdateInvoice" }

func (a *UpdateInvoice) Apply(st *State) error {
	current, ok := st.Invoices[a.Invoice.Id]
	if !ok {
		return fmt.Errorf("invoice %s: %w", a.Invoice.Id, lib.ErrNotFound)
	}
	if current.IsLocked() {
		return fmt.Errorf("invoice %s is %s: %w", current.InvoiceNumber, current.Status, lib.ErrInvoiceLocked)
	}

	next := a.Invoice.Clone()
	current.CustomerName = next.CustomerName
	current.CustomerEmail = next.CustomerEmail
	current.BillingAddress = next.BillingAddress
	current.Items = next.Items
	current.Discount = next.Discount
	current.Notes = next.Notes
	current.DueAt = next.DueAt
	current.UpdatedAt = st.Now()
	a.Result = current.Clone()
	return nil
}

type DeleteInvoice struct {
	Id uuid.UUID
}

func (a *DeleteInvoice) Name() string { return "DeleteInvoice" }

func (a *DeleteInvoice) Apply(st *State) error {
	inv, ok := st.Invoices[a.Id]
	if !ok {
		return fmt.Errorf("invoice %s: %w", a.Id, lib.ErrNotFound)
	}
	if inv.IsLocked() {
		return fmt.Errorf("invoice %s is %s: %w", inv.InvoiceNumber, inv.Status, lib.ErrInvoiceLocked)
	}
	delete(st.Invoices, a.Id)
	return nil
}

// SetInvoiceStatus moves an invoice along Draft -> Sent -> Paid, or to Cancelled.
type SetInvoiceStatus struct {
	Id     uuid.UUID
	Status tables.InvoiceStatus

	Result *tables.Invoice
}

func (a *SetInvoiceStatus) Name() string { return "SetInvoiceStatus" }

func (a *SetInvoiceStatus) Apply(st *State) error {
	inv, ok := st.Invoices[a.Id]
	if !ok {
		return fmt.Errorf("invoice %s: %w", a.Id, lib.ErrNotFound)
	}
	if !a.Status.Valid() {
		return fmt.Errorf("%w: %q", lib.ErrInvalidStatus, a.Status)
	}
	if inv.Status == a.Status {
		return lib.ErrStatusUnchanged
	}
	if inv.IsLocked() {
		return fmt.Errorf("invoice %s is %s: %w", inv.InvoiceNumber, inv.Status, lib.ErrInvoiceLocked)
	}
	if !inv.Status.CanTransitionTo(a.Status) {
		return fmt.Errorf("%w from %s to %s", lib.ErrInvalidTransition, inv.Status, a.Status)
	}

	now := st.Now()
	inv.Status = a.Status
	if a.Status == tables.InvoiceStatusPaid {
		inv.PaidAt = &now
	}
	inv.UpdatedAt = now
	a.Result = inv.Clone()
	return nil
}
