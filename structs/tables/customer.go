package tables

import (
	"time"

	"github.com/shopspring/decimal"
)

type Segment string

const (
	SegmentNew      Segment = "New"
	SegmentLoyal    Segment = "Loyal"
	SegmentVIP      Segment = "VIP"
	SegmentInactive Segment = "Inactive"
	SegmentAtRisk   Segment = "At-risk"
)

// Customer is derived from order history, keyed by email.
type Customer struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone,omitempty"`
	OrderCount   int             `json:"order_count"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
	FirstOrderAt time.Time       `json:"first_order_at"`
	LastOrderAt  time.Time       `json:"last_order_at"`
	Segment      Segment         `json:"segment"`
}
