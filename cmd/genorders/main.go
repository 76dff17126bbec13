package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"
)

func main() {
	var (
		count      int
		outputFile string
		dupRate    float64
		badRate    float64
		seed       int64
	)
	flag.IntVar(&count, "count", 100, "number of order lines to generate")
	flag.StringVar(&outputFile, "output", "orders.csv", "output file")
	flag.Float64Var(&dupRate, "dup-rate", 0.2, "fraction of lines that update an earlier line key")
	flag.Float64Var(&badRate, "bad-rate", 0.05, "fraction of deliberately invalid lines")
	flag.Int64Var(&seed, "seed", 0, "rng seed (0 uses current time)")
	flag.Parse()

	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if err := generateLines(count, outputFile, dupRate, badRate, rand.New(rand.NewSource(seed))); err != nil {
		log.Fatalf("generation failed: %v", err)
	}
}

func generateLines(count int, outputFile string, dupRate, badRate float64, rng *rand.Rand) error {
	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer file.Close()

	customers := []string{"c1", "c2", "c3"}
	items := []string{"i1", "i2", "i3", "i4", "i5"}
	statuses := []string{"PLACED", "SHIPPED", "CANCELLED"}
	coupons := []string{"", "SAVE10", "VIP"}

	baseTime := time.Now().UTC().Add(-30 * 24 * time.Hour)

	w := bufio.NewWriter(file)
	type lineKey struct{ orderID, itemID string }
	var seen []lineKey
	for i := 0; i < count; i++ {
		ts := baseTime.Add(time.Duration(i) * 37 * time.Minute)

		if rng.Float64() < badRate {
			if _, err := fmt.Fprintf(w, "o%d,%s,c1,i1,0,9.0,USD,PLACED\n", i+1, ts.Format(time.RFC3339)); err != nil {
				return fmt.Errorf("write line %d: %w", i+1, err)
			}
			continue
		}

		orderID := fmt.Sprintf("o%d", i+1)
		itemID := items[rng.Intn(len(items))]
		if len(seen) > 0 && rng.Float64() < dupRate {
			// Re-emit an earlier line key with a later timestamp so the
			// deduplicator has work to do.
			k := seen[rng.Intn(len(seen))]
			orderID, itemID = k.orderID, k.itemID
		} else {
			seen = append(seen, lineKey{orderID: orderID, itemID: itemID})
		}

		// Mix epoch and ISO timestamps, both accepted by the parser.
		tsText := ts.Format(time.RFC3339)
		if rng.Intn(2) == 0 {
			tsText = fmt.Sprintf("%d", ts.Unix())
		}

		qty := 1 + rng.Intn(5)
		price := float64(100+rng.Intn(9900)) / 100.0
		status := statuses[rng.Intn(len(statuses))]
		coupon := coupons[rng.Intn(len(coupons))]

		if _, err := fmt.Fprintf(w, "%s,%s,%s,%s,%d,%.2f,USD,%s,%s\n",
			orderID, tsText, customers[rng.Intn(len(customers))], itemID, qty, price, status, coupon); err != nil {
			return fmt.Errorf("write line %d: %w", i+1, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	log.Printf("generated %d order lines to %s", count, outputFile)
	return nil
}
