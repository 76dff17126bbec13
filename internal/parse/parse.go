// Package parse turns raw comma-separated order lines into validated
// model.Order values. Failures are reported as *Error with a Kind of
// either KindParse or KindValidation, scoped to the single line.
package parse

import (
	"strconv"
	"strings"

	"orderkpi/internal/model"
)

// minFields is the required positional field count:
// order_id,timestamp,customer_id,item_id,qty,price,currency,status.
// A ninth field carries an optional coupon code.
const minFields = 8

// Line parses one raw line into an Order. Fields are trimmed of
// surrounding whitespace. The returned error, when non-nil, is always a
// *Error.
func Line(line string) (model.Order, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < minFields {
		return model.Order{}, parseErrorf("expected >=%d fields, got %d: %q", minFields, len(parts), line)
	}

	qty, err := strconv.ParseInt(parts[4], 10, 64)
	if err != nil {
		return model.Order{}, validationErrorf("qty must be int, got %q", parts[4])
	}
	price, err := strconv.ParseFloat(parts[5], 64)
	if err != nil {
		return model.Order{}, validationErrorf("price must be number, got %q", parts[5])
	}
	if qty <= 0 {
		return model.Order{}, validationErrorf("qty must be > 0, got %d", qty)
	}
	if price < 0 {
		return model.Order{}, validationErrorf("price must be >= 0, got %g", price)
	}
	status, ok := model.ParseStatus(parts[7])
	if !ok {
		return model.Order{}, validationErrorf("unknown status %q", parts[7])
	}

	ts, err := ToUTC(parts[1])
	if err != nil {
		return model.Order{}, err
	}

	// An empty trailing field means no coupon, not an empty coupon.
	var coupon *string
	if len(parts) > minFields && parts[minFields] != "" {
		c := parts[minFields]
		coupon = &c
	}

	return model.Order{
		OrderID:    parts[0],
		Timestamp:  ts,
		CustomerID: parts[2],
		ItemID:     parts[3],
		Qty:        qty,
		Price:      price,
		Currency:   parts[6],
		Status:     status,
		CouponCode: coupon,
	}, nil
}
