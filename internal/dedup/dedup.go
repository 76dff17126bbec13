// Package dedup collapses repeated updates to the same logical order line,
// keeping only the latest record per (orderId, itemId) key.
package dedup

import (
	"sort"

	"orderkpi/internal/model"
)

// Latest returns the winning Order per line key. The winner is the record
// with the maximum timestamp; on equal timestamps the lexicographically
// smaller itemId wins, so the result is independent of arrival order.
// Output is sorted by (orderId, itemId, timestamp) ascending.
func Latest(orders []model.Order) []model.Order {
	best := make(map[model.LineKey]model.Order, len(orders))
	for _, o := range orders {
		k := o.LineKey()
		cur, ok := best[k]
		if !ok {
			best[k] = o
			continue
		}
		if o.Timestamp.After(cur.Timestamp) ||
			(o.Timestamp.Equal(cur.Timestamp) && o.ItemID < cur.ItemID) {
			best[k] = o
		}
	}

	out := make([]model.Order, 0, len(best))
	for _, o := range best {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.OrderID != b.OrderID {
			return a.OrderID < b.OrderID
		}
		if a.ItemID != b.ItemID {
			return a.ItemID < b.ItemID
		}
		return a.Timestamp.Before(b.Timestamp)
	})
	return out
}
