package model

import "time"

// Status is the lifecycle state of an order line. The set is closed;
// anything else is rejected at parse time.
type Status string

const (
	StatusPlaced    Status = "PLACED"
	StatusShipped   Status = "SHIPPED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus reports whether s names a known status.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPlaced, StatusShipped, StatusCancelled:
		return Status(s), true
	}
	return "", false
}

// Order represents one validated input record. Values are immutable after
// construction by the parser; Timestamp is always UTC.
type Order struct {
	OrderID    string    `json:"orderId"`
	Timestamp  time.Time `json:"timestamp"`
	CustomerID string    `json:"customerId"`
	ItemID     string    `json:"itemId"`
	Qty        int64     `json:"qty"`
	Price      float64   `json:"price"`
	Currency   string    `json:"currency"`
	Status     Status    `json:"status"`
	// CouponCode is nil when the field was absent or empty on the wire.
	CouponCode *string `json:"couponCode,omitempty"`
}

// LineKey identifies one logical order line; multiple raw records may
// update the same key over time.
type LineKey struct {
	OrderID string
	ItemID  string
}

// LineKey returns the (orderId, itemId) key for o.
func (o Order) LineKey() LineKey {
	return LineKey{OrderID: o.OrderID, ItemID: o.ItemID}
}

// GMV returns qty * price for this order line.
func (o Order) GMV() float64 {
	return float64(o.Qty) * o.Price
}
