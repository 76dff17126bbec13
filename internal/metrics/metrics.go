package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg              *prometheus.Registry
	Lines            prometheus.Counter
	Parsed           prometheus.Counter
	ParseErrors      prometheus.Counter
	ValidationErrors prometheus.Counter
	DedupDropped     prometheus.Counter
	BatchSeconds     prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	lines := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderkpi_lines_total"})
	parsed := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderkpi_parsed_total"})
	parseErrs := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderkpi_parse_errors_total"})
	validationErrs := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderkpi_validation_errors_total"})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{Name: "orderkpi_dedup_dropped_total"})
	batch := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orderkpi_batch_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(lines, parsed, parseErrs, validationErrs, dropped, batch)
	return &Registry{
		reg:              r,
		Lines:            lines,
		Parsed:           parsed,
		ParseErrors:      parseErrs,
		ValidationErrors: validationErrs,
		DedupDropped:     dropped,
		BatchSeconds:     batch,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
