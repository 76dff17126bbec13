package archive

import (
	"fmt"
	"path/filepath"

	badger "github.com/dgraph-io/badger/v4"

	"orderkpi/internal/report"
)

// BadgerStore implements Store using BadgerDB.
type BadgerStore struct {
	db *badger.DB
}

func NewBadgerStore(dir string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(filepath.Clean(dir))
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Close() error { return b.db.Close() }

func (b *BadgerStore) Put(runID string, rep report.Report) error {
	bytes, err := encodeReport(rep)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(runID), bytes)
	})
	if err != nil {
		return fmt.Errorf("badger set: %w", err)
	}
	return nil
}

func (b *BadgerStore) Get(runID string) (report.Report, bool) {
	var rep report.Report
	err := b.db.View(func(txn *badger.Txn) error {
		item, e := txn.Get([]byte(runID))
		if e != nil {
			return e
		}
		v, e := item.ValueCopy(nil)
		if e != nil {
			return e
		}
		var dErr error
		rep, dErr = decodeReport(v)
		return dErr
	})
	if err != nil {
		return report.Report{}, false
	}
	return rep, true
}

func (b *BadgerStore) Range(fn func(runID string, rep report.Report) error) error {
	return b.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			k := item.KeyCopy(nil)
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			rep, err := decodeReport(v)
			if err != nil {
				return err
			}
			if err := fn(string(k), rep); err != nil {
				return err
			}
		}
		return nil
	})
}
