package publish

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/segmentio/kafka-go"

	"orderkpi/internal/report"
)

func sampleReport() report.Report {
	n := 2
	return report.Report{
		Counts:       report.Counts{InputLines: &n, Parsed: 2, Deduplicated: 2},
		DailyGMV:     map[string]float64{"2025-03-01": 10},
		Rolling7dGMV: map[string]float64{"2025-03-01": 10},
		CancelRate:   map[string]float64{"2025-W09": 0},
	}
}

func TestFilesystemPublisher(t *testing.T) {
	dir := t.TempDir()
	p := NewFilesystemPublisher(dir)

	if err := p.Publish("run-1", sampleReport()); err != nil {
		t.Fatalf("publish: %v", err)
	}

	for _, path := range []string{
		filepath.Join(dir, "run-1", "report.json"),
		filepath.Join(dir, "report.latest.json"),
	} {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		var rep report.Report
		if err := json.Unmarshal(data, &rep); err != nil {
			t.Fatalf("unmarshal %s: %v", path, err)
		}
		if rep.Counts.Parsed != 2 || rep.DailyGMV["2025-03-01"] != 10 {
			t.Fatalf("bad report in %s: %+v", path, rep)
		}
	}
}

func TestFilesystemPublisher_LatestFollowsNewestRun(t *testing.T) {
	dir := t.TempDir()
	p := NewFilesystemPublisher(dir)

	first := sampleReport()
	if err := p.Publish("run-1", first); err != nil {
		t.Fatalf("publish 1: %v", err)
	}
	second := sampleReport()
	second.Counts.Parsed = 9
	if err := p.Publish("run-2", second); err != nil {
		t.Fatalf("publish 2: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "report.latest.json"))
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("unmarshal latest: %v", err)
	}
	if rep.Counts.Parsed != 9 {
		t.Fatalf("latest should reflect run-2: %+v", rep.Counts)
	}
}

// fakeKafkaWriter implements kafkaMessageWriter for tests
type fakeKafkaWriter struct {
	msgs []kafka.Message
	fail bool
}

func (f *fakeKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if f.fail {
		return errors.New("fail")
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func TestKafkaPublisher_Success(t *testing.T) {
	fk := &fakeKafkaWriter{}
	kp := NewKafkaPublisherWith(fk)
	if err := kp.Publish("run-1", sampleReport()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(fk.msgs) != 1 {
		t.Fatalf("want 1 msg, got %d", len(fk.msgs))
	}
	if string(fk.msgs[0].Key) != "run-1" {
		t.Fatalf("bad key: %s", string(fk.msgs[0].Key))
	}
	var rep report.Report
	if err := json.Unmarshal(fk.msgs[0].Value, &rep); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if rep.Counts.Parsed != 2 {
		t.Fatalf("bad payload: %+v", rep.Counts)
	}
}

func TestKafkaPublisher_Fail(t *testing.T) {
	fk := &fakeKafkaWriter{fail: true}
	kp := NewKafkaPublisherWith(fk)
	if err := kp.Publish("run-1", sampleReport()); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMultiPublisher_StopsOnFirstError(t *testing.T) {
	dir := t.TempDir()
	fs := NewFilesystemPublisher(dir)
	fk := &fakeKafkaWriter{fail: true}
	mp := MultiPublisher(fs, NewKafkaPublisherWith(fk))

	if err := mp.Publish("run-1", sampleReport()); err == nil {
		t.Fatalf("expected error from kafka leg")
	}
	// Filesystem leg ran before the failing kafka leg.
	if _, err := os.Stat(filepath.Join(dir, "run-1", "report.json")); err != nil {
		t.Fatalf("filesystem leg should have written: %v", err)
	}
}
