// Package publish delivers a finished run report to downstream consumers:
// a report directory on disk, a compacted Kafka topic, or both.
package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/segmentio/kafka-go"

	"orderkpi/internal/report"
)

type Publisher interface {
	Publish(runID string, rep report.Report) error
}

// MultiPublisher writes to multiple publishers sequentially.
type MultiPublisherImpl struct {
	pubs []Publisher
}

func MultiPublisher(pubs ...Publisher) Publisher {
	return &MultiPublisherImpl{pubs: pubs}
}

func (m *MultiPublisherImpl) Publish(runID string, rep report.Report) error {
	for _, p := range m.pubs {
		if err := p.Publish(runID, rep); err != nil {
			return err
		}
	}
	return nil
}

// FilesystemPublisher writes <baseDir>/<runID>/report.json per run and
// keeps <baseDir>/report.latest.json pointing at the most recent run.
type FilesystemPublisher struct {
	baseDir string
}

func NewFilesystemPublisher(baseDir string) *FilesystemPublisher {
	return &FilesystemPublisher{baseDir: baseDir}
}

func (f *FilesystemPublisher) Publish(runID string, rep report.Report) error {
	if err := os.MkdirAll(filepath.Join(f.baseDir, runID), 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	if err := writeJSON(filepath.Join(f.baseDir, runID, "report.json"), &rep); err != nil {
		return err
	}
	return writeJSON(filepath.Join(f.baseDir, "report.latest.json"), &rep)
}

func writeJSON(path string, v any) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	defer out.Close()
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// KafkaPublisher publishes the report JSON keyed by run ID.
type KafkaPublisher struct {
	writer kafkaMessageWriter
}

// kafkaMessageWriter abstracts kafka.Writer for testability.
type kafkaMessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// NewKafkaPublisher creates a Kafka report publisher.
// bootstrap can be comma-separated brokers.
func NewKafkaPublisher(bootstrap string, topic string) *KafkaPublisher {
	addrs := strings.Split(bootstrap, ",")
	var brokers []string
	for _, a := range addrs {
		a = strings.TrimSpace(a)
		if a != "" {
			brokers = append(brokers, a)
		}
	}
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}}
}

func (k *KafkaPublisher) Publish(runID string, rep report.Report) error {
	b, err := json.Marshal(&rep)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return k.writer.WriteMessages(context.Background(), kafka.Message{Key: []byte(runID), Value: b})
}

// NewKafkaPublisherWith is only for tests to inject a fake writer.
func NewKafkaPublisherWith(w kafkaMessageWriter) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}
