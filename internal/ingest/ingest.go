// Package ingest loads raw order lines for the CLI. The pipeline itself
// does no I/O; these helpers are the external collaborators that hand it
// a line batch.
package ingest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	ck "github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// FileLines reads all lines from path, or from stdin when path is "-".
func FileLines(path string) ([]string, error) {
	var r io.Reader
	if path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	return ReadLines(r)
}

// ReadLines collects every line of r into a slice.
func ReadLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan input: %w", err)
	}
	return lines, nil
}

// KafkaLines batch-consumes raw lines from a topic. One message value is
// one line. The batch ends when the consumer sees no message for idle;
// whatever was read so far is the batch.
func KafkaLines(bootstrap, topic, groupID string, idle time.Duration) ([]string, error) {
	c, err := ck.NewConsumer(&ck.ConfigMap{
		"bootstrap.servers":  bootstrap,
		"group.id":           groupID,
		"enable.auto.commit": true,
		"auto.offset.reset":  "earliest",
	})
	if err != nil {
		return nil, fmt.Errorf("consumer: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic}, nil); err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	var lines []string
	for {
		msg, err := c.ReadMessage(idle)
		if err != nil {
			if kerr, ok := err.(ck.Error); ok && kerr.Code() == ck.ErrTimedOut {
				break
			}
			return nil, fmt.Errorf("read message: %w", err)
		}
		lines = append(lines, string(msg.Value))
	}
	return lines, nil
}
