package archive

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/pebble"

	"orderkpi/internal/report"
)

// PebbleStore implements Store using PebbleDB.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	d, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: d}, nil
}

func (p *PebbleStore) Close() error { return p.db.Close() }

func encodeReport(rep report.Report) ([]byte, error) { return json.Marshal(rep) }
func decodeReport(val []byte) (report.Report, error) {
	var rep report.Report
	if err := json.Unmarshal(val, &rep); err != nil {
		return report.Report{}, err
	}
	return rep, nil
}

func (p *PebbleStore) Put(runID string, rep report.Report) error {
	b, err := encodeReport(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := p.db.Set([]byte(runID), b, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

func (p *PebbleStore) Get(runID string) (report.Report, bool) {
	v, closer, err := p.db.Get([]byte(runID))
	if err != nil {
		return report.Report{}, false
	}
	defer closer.Close()
	rep, err := decodeReport(v)
	if err != nil {
		return report.Report{}, false
	}
	return rep, true
}

func (p *PebbleStore) Range(fn func(runID string, rep report.Report) error) error {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return fmt.Errorf("pebble iter: %w", err)
	}
	defer it.Close()
	for it.First(); it.Valid(); it.Next() {
		k := append([]byte(nil), it.Key()...)
		v := append([]byte(nil), it.Value()...)
		rep, err := decodeReport(v)
		if err != nil {
			return err
		}
		if err := fn(string(k), rep); err != nil {
			return err
		}
	}
	return nil
}
