// Package state manages devctl's persistent state using BoltDB.
// All writes are transactional; reads use read-only transactions to minimise contention.
package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"go.etcd.io/bbolt"

	v1 "github.com/f9-o/devctl/api/v1"
)

// Bucket names
var (
	bucketRuns = []byte("runs")
)

// DB wraps a BoltDB instance with typed accessor methods.
type DB struct {
	bolt *bbolt.DB
}

// Open opens (or creates) the state database at the given path.
func Open(path string) (*DB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open state db %q: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketRuns); err != nil {
			return fmt.Errorf("create bucket %q: %w", bucketRuns, err)
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init buckets: %w", err)
	}

	return &DB{bolt: db}, nil
}

// Close closes the underlying BoltDB file.
func (db *DB) Close() error {
	return db.bolt.Close()
}

// ─────────────────────────────────────────────────────────────────────────────
// Benchmark run history
// ─────────────────────────────────────────────────────────────────────────────

// PutRun stores a run record, replacing any record with the same ID.
func (db *DB) PutRun(rec v1.RunRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("run record has no id")
	}
	return db.putJSON(bucketRuns, rec.ID, rec)
}

// GetRun retrieves a run by ID. Returns nil, nil if not found.
func (db *DB) GetRun(id string) (*v1.RunRecord, error) {
	var rec v1.RunRecord
	found, err := db.getJSON(bucketRuns, id, &rec)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &rec, nil
}

// FindRun returns the run whose ID is id or starts with id. A prefix shared
// by several runs is an error. Returns nil, nil if nothing matches.
func (db *DB) FindRun(id string) (*v1.RunRecord, error) {
	if id == "" {
		return nil, fmt.Errorf("empty run id")
	}
	if rec, err := db.GetRun(id); err != nil || rec != nil {
		return rec, err
	}

	var (
		data    []byte
		matches int
	)
	prefix := []byte(id)
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketRuns).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			matches++
			data = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	switch matches {
	case 0:
		return nil, nil
	case 1:
		var rec v1.RunRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("unmarshal run: %w", err)
		}
		return &rec, nil
	default:
		return nil, fmt.Errorf("run id %q is ambiguous: %d runs match", id, matches)
	}
}

// ListRuns returns run records, newest first. limit <= 0 returns all.
func (db *DB) ListRuns(limit int) ([]v1.RunRecord, error) {
	var recs []v1.RunRecord
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
			var r v1.RunRecord
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("unmarshal run %q: %w", k, err)
			}
			recs = append(recs, r)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].StartedAt.After(recs[j].StartedAt)
	})
	if limit > 0 && len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// DeleteRun removes a run record.
func (db *DB) DeleteRun(id string) error {
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).Delete([]byte(id))
	})
}

// ─────────────────────────────────────────────────────────────────────────────
// Generic helpers
// ─────────────────────────────────────────────────────────────────────────────

func (db *DB) putJSON(bucket []byte, key string, val any) error {
	data, err := json.Marshal(val)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	return db.bolt.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (db *DB) getJSON(bucket []byte, key string, out any) (bool, error) {
	var found bool
	err := db.bolt.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return nil
		}
		found = true
		return json.Unmarshal(data, out)
	})
	return found, err
}
