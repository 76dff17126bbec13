// Package report orchestrates the batch pipeline: raw lines -> parse ->
// deduplicate -> aggregate. It performs no I/O; callers supply the line
// sequence and consume the Report value.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"orderkpi/internal/dedup"
	"orderkpi/internal/kpi"
	"orderkpi/internal/metrics"
	"orderkpi/internal/model"
	"orderkpi/internal/parse"
)

// errorsSampleSize bounds the errors_sample list in the report.
const errorsSampleSize = 3

// Counts summarizes batch volumes. InputLines is nil when the source was
// single-pass and the total line count is unknowable.
type Counts struct {
	InputLines   *int `json:"input_lines"`
	Parsed       int  `json:"parsed"`
	Deduplicated int  `json:"deduplicated"`
	Errors       int  `json:"errors"`
}

// Report is the assembled batch result. Map keys marshal in ascending
// order (encoding/json sorts string map keys).
type Report struct {
	Counts       Counts             `json:"counts"`
	DailyGMV     map[string]float64 `json:"daily_gmv"`
	Rolling7dGMV map[string]float64 `json:"rolling_7d_gmv"`
	TopItems     []kpi.ItemGMV      `json:"top_items"`
	CancelRate   map[string]float64 `json:"cancel_rate"`
	ErrorsSample []string           `json:"errors_sample"`
}

// Pipeline runs the full transform for one batch. A nil logger or
// registry disables that sink; neither is semantically observable.
type Pipeline struct {
	topN int
	log  *zap.Logger
	mreg *metrics.Registry
}

func New(topN int, log *zap.Logger, mreg *metrics.Registry) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{topN: topN, log: log, mreg: mreg}
}

// Compute runs the pipeline over a materialized line slice. Because the
// input is re-iterable, Counts.InputLines is populated.
func (p *Pipeline) Compute(lines []string) Report {
	n := len(lines)
	i := 0
	rep := p.compute(func() (string, bool) {
		if i >= len(lines) {
			return "", false
		}
		ln := lines[i]
		i++
		return ln, true
	})
	rep.Counts.InputLines = &n
	return rep
}

// ComputeScanner runs the pipeline over a single-pass scanner. The total
// line count cannot be recovered afterwards, so Counts.InputLines stays
// nil rather than under- or over-counting.
func (p *Pipeline) ComputeScanner(sc *bufio.Scanner) Report {
	return p.compute(func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	})
}

func (p *Pipeline) compute(next func() (string, bool)) Report {
	start := time.Now()

	var parsed []model.Order
	var errs []string
	for {
		line, ok := next()
		if !ok {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if p.mreg != nil {
			p.mreg.Lines.Inc()
		}
		o, err := parse.Line(line)
		if err != nil {
			p.recordError(err, &errs)
			continue
		}
		parsed = append(parsed, o)
		if p.mreg != nil {
			p.mreg.Parsed.Inc()
		}
	}

	deduped := dedup.Latest(parsed)
	if p.mreg != nil {
		p.mreg.DedupDropped.Add(float64(len(parsed) - len(deduped)))
	}

	daily := kpi.DailyGMV(deduped)
	rep := Report{
		Counts: Counts{
			Parsed:       len(parsed),
			Deduplicated: len(deduped),
			Errors:       len(errs),
		},
		DailyGMV:     daily,
		Rolling7dGMV: kpi.Rolling7d(daily),
		TopItems:     kpi.TopItems(deduped, p.topN),
		CancelRate:   kpi.WeeklyCancelRate(deduped),
		ErrorsSample: sample(errs, errorsSampleSize),
	}

	if p.mreg != nil {
		p.mreg.BatchSeconds.Observe(time.Since(start).Seconds())
	}
	p.log.Info("batch computed",
		zap.Int("parsed", rep.Counts.Parsed),
		zap.Int("deduplicated", rep.Counts.Deduplicated),
		zap.Int("errors", rep.Counts.Errors),
	)
	return rep
}

// recordError converts a per-line parse failure into an error message and
// keeps going. Anything that is not a *parse.Error is a programming
// defect, not part of normal operation, and must not be swallowed here.
func (p *Pipeline) recordError(err error, errs *[]string) {
	var pe *parse.Error
	if !errors.As(err, &pe) {
		panic(fmt.Sprintf("unexpected error from parser: %v", err))
	}
	msg := fmt.Sprintf("skip line due to %s", pe.Error())
	p.log.Debug("skip line", zap.String("kind", pe.Kind.String()), zap.String("reason", pe.Msg))
	*errs = append(*errs, msg)
	if p.mreg != nil {
		switch pe.Kind {
		case parse.KindParse:
			p.mreg.ParseErrors.Inc()
		case parse.KindValidation:
			p.mreg.ValidationErrors.Inc()
		}
	}
}

func sample(errs []string, n int) []string {
	if len(errs) < n {
		n = len(errs)
	}
	out := make([]string, n)
	copy(out, errs[:n])
	return out
}
