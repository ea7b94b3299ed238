package tables

import "slices"

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending: {
		OrderStatusCompleted,
		OrderStatusCancelled,
	},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	InvoiceStatusDraft: {
		InvoiceStatusSent,
		InvoiceStatusCancelled,
	},
	InvoiceStatusSent: {
		InvoiceStatusPaid,
		InvoiceStatusCancelled,
	},
	InvoiceStatusPaid:      {},
	InvoiceStatusCancelled: {},
}

// Supplier and purchase order statuses form a linear pipeline, so a
// transition is checked by rank.
var supplierStatusRank = map[SupplierStatus]int{
	SupplierStatusPending:        0,
	SupplierStatusSentToSupplier: 1,
	SupplierStatusShipped:        2,
}

var purchaseOrderStatusRank = map[PurchaseOrderStatus]int{
	PurchaseOrderStatusToSend:  0,
	PurchaseOrderStatusSent:    1,
	PurchaseOrderStatusShipped: 2,
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	return slices.Contains(orderTransitions[s], next)
}

func (s InvoiceStatus) Valid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

func (s InvoiceStatus) CanTransitionTo(next InvoiceStatus) bool {
	return slices.Contains(invoiceTransitions[s], next)
}

func (s SupplierStatus) Valid() bool {
	_, ok := supplierStatusRank[s]
	return ok
}

// CanTransitionTo allows forward moves, and backward ones only when allowBackward is set.
func (s SupplierStatus) CanTransitionTo(next SupplierStatus, allowBackward bool) bool {
	return canMoveRank(supplierStatusRank, s, next, allowBackward)
}

func (s PurchaseOrderStatus) Valid() bool {
	_, ok := purchaseOrderStatusRank[s]
	return ok
}

func (s PurchaseOrderStatus) CanTransitionTo(next PurchaseOrderStatus, allowBackward bool) bool {
	return canMoveRank(purchaseOrderStatusRank, s, next, allowBackward)
}

func canMoveRank[S comparable](ranks map[S]int, current, next S, allowBackward bool) bool {
	from, ok := ranks[current]
	if !ok {
		return false
	}
	to, ok := ranks[next]
	if !ok || from == to {
		return false
	}
	return to > from || allowBackward
}
