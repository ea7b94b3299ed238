package lib

import (
	"errors"
)

// Store errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Fulfillment errors
var (
	ErrUnknownSupplier   = errors.New("unknown supplier")
	ErrNoSupplierItems   = errors.New("order has no items for this supplier")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrStatusUnchanged   = errors.New("status is already set to the desired value")
	ErrInvalidStatus     = errors.New("invalid status")
)

// Locked entities
var (
	ErrOrderLocked   = errors.New("order is locked")
	ErrInvoiceLocked = errors.New("invoice is locked")
	ErrSupplierInUse = errors.New("supplier is referenced by products, orders or purchase orders")
)

// Catalog errors
var (
	ErrDuplicateSKU      = errors.New("sku already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrProductInactive   = errors.New("product is no longer available")
	ErrCategoryCycle     = errors.New("category cannot be its own ancestor")
)

// Notification errors
var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrTemplateDisabled = errors.New("template disabled")
)
