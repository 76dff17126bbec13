package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"orderkpi/internal/archive"
	"orderkpi/internal/ingest"
	"orderkpi/internal/metrics"
	"orderkpi/internal/publish"
	"orderkpi/internal/report"
)

// Config holds CLI flags for the batch run.
type Config struct {
	Input  string
	Source string // file|kafka
	TopN   int
	Debug  bool
	// Kafka input
	KafkaBootstrap string
	TopicOrders    string
	GroupID        string
	IdleSec        int
	// Report sinks
	ReportDir    string
	ReportSink   string // file|kafka|both|none
	TopicReports string
	// Archive
	ArchiveDir     string
	ArchiveBackend string // pebble|badger
	ListRuns       bool
	// Observability
	MetricsAddr string
}

func main() {
	cfg := readFlags()
	if err := run(cfg); err != nil {
		log.Fatalf("orderkpi failed: %v", err)
	}
}

func readFlags() Config {
	var cfg Config
	flag.StringVar(&cfg.Input, "input", "-", "input file with one order line per row, or - for stdin")
	flag.StringVar(&cfg.Source, "source", "file", "line source: file|kafka")
	flag.IntVar(&cfg.TopN, "top", 5, "number of top items to report")
	flag.BoolVar(&cfg.Debug, "debug", false, "log skipped lines at debug level")
	flag.StringVar(&cfg.KafkaBootstrap, "kafka-bootstrap", "localhost:9092", "kafka bootstrap servers")
	flag.StringVar(&cfg.TopicOrders, "topic-orders", "orders.raw", "kafka topic carrying raw order lines")
	flag.StringVar(&cfg.GroupID, "group-id", "orderkpi", "consumer group id")
	flag.IntVar(&cfg.IdleSec, "idle", 5, "seconds without messages that end a kafka batch")
	flag.StringVar(&cfg.ReportDir, "report-dir", "./reports", "directory for published reports")
	flag.StringVar(&cfg.ReportSink, "report-sink", "none", "report sink: file|kafka|both|none")
	flag.StringVar(&cfg.TopicReports, "topic-reports", "orders.kpi-reports", "kafka topic for reports (compacted)")
	flag.StringVar(&cfg.ArchiveDir, "archive-dir", "", "archive directory (empty disables archiving)")
	flag.StringVar(&cfg.ArchiveBackend, "archive-backend", "pebble", "archive backend: pebble|badger")
	flag.BoolVar(&cfg.ListRuns, "list-runs", false, "list archived run ids and exit")
	flag.StringVar(&cfg.MetricsAddr, "metrics", "", "listen address for /metrics (empty disables)")
	flag.Parse()
	return cfg
}

func run(cfg Config) error {
	logger, err := newLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	if cfg.ListRuns {
		return listRuns(cfg)
	}

	mreg := metrics.NewRegistry()
	if cfg.MetricsAddr != "" {
		go func() {
			http.Handle("/metrics", mreg.Handler())
			http.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
			})
			_ = http.ListenAndServe(cfg.MetricsAddr, nil)
		}()
	}

	lines, err := readLines(cfg)
	if err != nil {
		return err
	}
	logger.Info("batch loaded", zap.Int("lines", len(lines)), zap.String("source", cfg.Source))

	rep := report.New(cfg.TopN, logger, mreg).Compute(lines)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	runID := time.Now().UTC().Format(time.RFC3339)
	if err := publishReport(cfg, runID, rep); err != nil {
		return err
	}
	if err := archiveReport(cfg, logger, runID, rep); err != nil {
		return err
	}
	return nil
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	return config.Build()
}

func readLines(cfg Config) ([]string, error) {
	if cfg.Source == "kafka" {
		return ingest.KafkaLines(cfg.KafkaBootstrap, cfg.TopicOrders, cfg.GroupID, time.Duration(cfg.IdleSec)*time.Second)
	}
	return ingest.FileLines(cfg.Input)
}

func publishReport(cfg Config, runID string, rep report.Report) error {
	var pubs []publish.Publisher
	if cfg.ReportSink == "file" || cfg.ReportSink == "both" {
		pubs = append(pubs, publish.NewFilesystemPublisher(cfg.ReportDir))
	}
	if cfg.ReportSink == "kafka" || cfg.ReportSink == "both" {
		pubs = append(pubs, publish.NewKafkaPublisher(cfg.KafkaBootstrap, cfg.TopicReports))
	}
	if len(pubs) == 0 {
		return nil
	}
	if err := publish.MultiPublisher(pubs...).Publish(runID, rep); err != nil {
		return fmt.Errorf("publish report: %w", err)
	}
	return nil
}

func archiveReport(cfg Config, logger *zap.Logger, runID string, rep report.Report) error {
	if cfg.ArchiveDir == "" {
		return nil
	}
	st, closeFn, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	if err := st.Put(runID, rep); err != nil {
		return fmt.Errorf("archive report: %w", err)
	}
	logger.Info("report archived", zap.String("run_id", runID), zap.String("backend", cfg.ArchiveBackend))
	return nil
}

func listRuns(cfg Config) error {
	if cfg.ArchiveDir == "" {
		return fmt.Errorf("-list-runs requires -archive-dir")
	}
	st, closeFn, err := openArchive(cfg)
	if err != nil {
		return err
	}
	defer closeFn()
	return st.Range(func(runID string, rep report.Report) error {
		fmt.Printf("%s parsed=%d deduplicated=%d errors=%d\n",
			runID, rep.Counts.Parsed, rep.Counts.Deduplicated, rep.Counts.Errors)
		return nil
	})
}

func openArchive(cfg Config) (archive.Store, func(), error) {
	switch cfg.ArchiveBackend {
	case "badger":
		bs, err := archive.NewBadgerStore(cfg.ArchiveDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init badger: %w", err)
		}
		return bs, func() { _ = bs.Close() }, nil
	case "pebble":
		ps, err := archive.NewPebbleStore(cfg.ArchiveDir)
		if err != nil {
			return nil, nil, fmt.Errorf("init pebble: %w", err)
		}
		return ps, func() { _ = ps.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown archive backend %q", cfg.ArchiveBackend)
}
