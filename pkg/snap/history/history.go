// Package history records completed folder-snap operations in a local
// Badger journal under the XDG data directory.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// recordPrefix namespaces journal records so other key spaces can live in
// the same database later.
const recordPrefix = "r:"

// Record is one completed operation.
type Record struct {
	// ID uniquely identifies the record.
	ID string `json:"id"`

	// Operation is the command that ran (pack, unpack, upgrade, watch).
	Operation string `json:"operation"`

	// Source is the folder or archive the operation read.
	Source string `json:"source"`

	// Target is where output went, when the operation wrote any.
	Target string `json:"target,omitempty"`

	// Format is the archive format version involved.
	Format string `json:"format,omitempty"`

	// Files and Directories are the entry counts of the archive.
	Files       int `json:"files"`
	Directories int `json:"directories"`

	// Warnings is the operation's recovered-failure tally.
	Warnings int `json:"warnings"`

	// Timestamp is when the operation completed, UTC.
	Timestamp time.Time `json:"timestamp"`
}

// Journal is the operation journal backed by Badger.
type Journal struct {
	db *badger.DB
}

// Open opens or creates the journal at dir.
func Open(dir string) (*Journal, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Badger's own logging is noise here

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// Close closes the journal.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Append records a completed operation. A missing ID or timestamp is
// filled in; the stored record is returned.
func (j *Journal) Append(rec Record) (*Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(&rec)
	if err != nil {
		return nil, fmt.Errorf("marshal history record: %w", err)
	}

	err = j.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(rec.Timestamp, rec.ID), data)
	})
	if err != nil {
		return nil, fmt.Errorf("write history record: %w", err)
	}
	return &rec, nil
}

// List returns records newest first. A non-positive limit returns all.
func (j *Journal) List(limit int) ([]Record, error) {
	var records []Record

	err := j.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					// Skip records that no longer decode.
					return nil
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}

	sort.Slice(records, func(i, k int) bool {
		return records[i].Timestamp.After(records[k].Timestamp)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}

// Get retrieves a record by ID. A unique ID prefix is accepted; an
// ambiguous prefix or an unknown ID is an error.
func (j *Journal) Get(id string) (*Record, error) {
	if id == "" {
		return nil, errors.New("record ID cannot be empty")
	}

	records, err := j.List(0)
	if err != nil {
		return nil, err
	}

	var match *Record
	for i := range records {
		if records[i].ID == id {
			return &records[i], nil
		}
		if strings.HasPrefix(records[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous record ID prefix: %s", id)
			}
			match = &records[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("record not found: %s", id)
	}
	return match, nil
}

// Cleanup removes records older than retentionDays and returns how many
// were removed.
func (j *Journal) Cleanup(retentionDays int) (int, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0

	err := j.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		var keysToDelete [][]byte
		prefix := []byte(recordPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var rec Record
				if err := json.Unmarshal(val, &rec); err != nil {
					// Undecodable records are dead weight.
					keysToDelete = append(keysToDelete, item.KeyCopy(nil))
					return nil
				}
				if rec.Timestamp.Before(cutoff) {
					keysToDelete = append(keysToDelete, item.KeyCopy(nil))
				}
				return nil
			})
			if err != nil {
				return err
			}
		}

		for _, key := range keysToDelete {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		removed = len(keysToDelete)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("clean history: %w", err)
	}
	return removed, nil
}

// recordKey builds a journal key ordered by timestamp, ID-suffixed for
// uniqueness.
func recordKey(ts time.Time, id string) []byte {
	return []byte(recordPrefix + ts.UTC().Format(time.RFC3339Nano) + ":" + id)
}
