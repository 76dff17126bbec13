// Package kpi computes the business aggregates over a deduplicated order
// set. Each function is pure and independent of the others; map-valued
// results use day/week string keys whose lexicographic order is
// chronological.
package kpi

import (
	"fmt"
	"sort"

	"orderkpi/internal/model"
)

// rollingWindowDays is the number of *present* days a rolling value may
// span; calendar gaps do not occupy window slots.
const rollingWindowDays = 7

// DailyGMV sums qty*price per UTC calendar day, keyed YYYY-MM-DD.
func DailyGMV(orders []model.Order) map[string]float64 {
	totals := make(map[string]float64)
	for _, o := range orders {
		day := o.Timestamp.UTC().Format("2006-01-02")
		totals[day] += o.GMV()
	}
	return totals
}

// Rolling7d computes, for every day present in daily, the sum of that
// day's GMV and the up to 6 preceding present days. The window slides over
// the sorted sparse day list, not over calendar time.
func Rolling7d(daily map[string]float64) map[string]float64 {
	days := sortedKeys(daily)
	res := make(map[string]float64, len(days))

	var window []string
	running := 0.0
	for _, d := range days {
		window = append(window, d)
		running += daily[d]
		for len(window) > rollingWindowDays {
			running -= daily[window[0]]
			window = window[1:]
		}
		res[d] = running
	}
	return res
}

// ItemGMV is one ranked entry of the top-items aggregate.
type ItemGMV struct {
	ItemID string  `json:"item_id"`
	GMV    float64 `json:"gmv"`
}

// TopItems ranks items by summed qty*price descending, itemId ascending on
// ties, and returns the first n. n <= 0 yields an empty result; n beyond
// the number of distinct items returns all of them.
func TopItems(orders []model.Order, n int) []ItemGMV {
	totals := make(map[string]float64)
	for _, o := range orders {
		totals[o.ItemID] += o.GMV()
	}
	ranked := make([]ItemGMV, 0, len(totals))
	for item, gmv := range totals {
		ranked = append(ranked, ItemGMV{ItemID: item, GMV: gmv})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].GMV != ranked[j].GMV {
			return ranked[i].GMV > ranked[j].GMV
		}
		return ranked[i].ItemID < ranked[j].ItemID
	})
	if n < 0 {
		n = 0
	}
	if n > len(ranked) {
		n = len(ranked)
	}
	return ranked[:n]
}

// WeeklyCancelRate computes cancelled/total per ISO week, keyed YYYY-Www
// with the ISO week-numbering year (which may differ from the calendar
// year around January 1st). Every key comes from at least one order, so
// the rate is always defined and within [0,1].
func WeeklyCancelRate(orders []model.Order) map[string]float64 {
	total := make(map[string]int)
	cancelled := make(map[string]int)
	for _, o := range orders {
		y, w := o.Timestamp.UTC().ISOWeek()
		key := fmt.Sprintf("%d-W%02d", y, w)
		total[key]++
		if o.Status == model.StatusCancelled {
			cancelled[key]++
		}
	}
	out := make(map[string]float64, len(total))
	for k, n := range total {
		out[k] = float64(cancelled[k]) / float64(n)
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
