// Package store implements the durable side of debtbook on top of bbolt:
// two record collections with secondary indexes, single-record atomic
// upsert/delete, and an additive-only schema upgrade so data written by
// older versions is preserved untouched.
package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

// SchemaVersion is the logical schema this code writes. Upgrades only ever
// create missing buckets; nothing existing is dropped or rewritten, so a
// database touched by a newer version stays readable by an older one.
const SchemaVersion = 2

const (
	metaBucket = "meta"
	versionKey = "schemaVersion"
)

// ErrUnavailable reports that the underlying database could not be opened
// or a read/write failed. Callers must not retry automatically: without
// coordination a retry risks duplicate or lost writes.
var ErrUnavailable = errors.New("store unavailable")

// index declares a secondary index over a string field of the record JSON.
type index struct {
	bucket string
	field  string
}

// collections maps the public collection names onto buckets and their
// secondary indexes.
var collections = map[string]struct {
	bucket  string
	indexes []index
}{
	"clients": {
		bucket:  "clients",
		indexes: []index{{"idx_clients_name", "name"}},
	},
	"tx": {
		bucket:  "tx",
		indexes: []index{{"idx_tx_debtorId", "debtorId"}, {"idx_tx_date", "date"}},
	},
}

// Store is a lazily opened bbolt database. The first operation of any kind
// opens and migrates the file; subsequent operations reuse the handle. Open
// failures are sticky, matching the no-automatic-retry policy.
type Store struct {
	path string

	once sync.Once
	db   *bolt.DB
	err  error
}

// New prepares a store at the given path without touching the file yet.
func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) handle() (*bolt.DB, error) {
	s.once.Do(func() {
		db, err := bolt.Open(s.path, 0o600, &bolt.Options{Timeout: time.Second})
		if err != nil {
			s.err = unavailable("open "+s.path, err)
			return
		}
		if err := migrate(db); err != nil {
			db.Close()
			s.err = unavailable("migrate "+s.path, err)
			return
		}
		s.db = db
	})
	return s.db, s.err
}

// migrate creates whatever the current schema needs and is missing. Bucket
// creation is idempotent and data already present under the known names is
// left exactly as written, even when the recorded version is newer than
// this code.
func migrate(db *bolt.DB) error {
	return db.Update(func(tx *bolt.Tx) error {
		for _, col := range collections {
			if _, err := tx.CreateBucketIfNotExists([]byte(col.bucket)); err != nil {
				return err
			}
			for _, idx := range col.indexes {
				if _, err := tx.CreateBucketIfNotExists([]byte(idx.bucket)); err != nil {
					return err
				}
			}
		}
		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		stored := readVersion(meta)
		if stored < SchemaVersion {
			return writeVersion(meta, SchemaVersion)
		}
		return nil
	})
}

func readVersion(meta *bolt.Bucket) int {
	v := meta.Get([]byte(versionKey))
	if len(v) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(v))
}

func writeVersion(meta *bolt.Bucket, version int) error {
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], uint64(version))
	return meta.Put([]byte(versionKey), v[:])
}

// Version reports the schema version recorded in the database file.
func (s *Store) Version() (int, error) {
	db, err := s.handle()
	if err != nil {
		return 0, err
	}
	var version int
	err = db.View(func(tx *bolt.Tx) error {
		version = readVersion(tx.Bucket([]byte(metaBucket)))
		return nil
	})
	if err != nil {
		return 0, unavailable("read version", err)
	}
	return version, nil
}

// ReadAll returns a copy of every record in the collection.
func (s *Store) ReadAll(ctx context.Context, collection string) ([][]byte, error) {
	col, ok := collections[collection]
	if !ok {
		return nil, fmt.Errorf("unknown collection %q", collection)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	db, err := s.handle()
	if err != nil {
		return nil, err
	}
	var records [][]byte
	err = db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(col.bucket)).ForEach(func(_, v []byte) error {
			records = append(records, bytes.Clone(v))
			return nil
		})
	})
	if err != nil {
		return nil, unavailable("read "+collection, err)
	}
	return records, nil
}

// Upsert replaces-or-inserts the record under the given id and keeps the
// collection's secondary indexes in step, all inside one database
// transaction. It never merges fields with an existing record.
func (s *Store) Upsert(ctx context.Context, collection, id string, record []byte) error {
	col, ok := collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	db, err := s.handle()
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(col.bucket))
		key := []byte(id)
		if old := bucket.Get(key); old != nil {
			if err := dropIndexEntries(tx, col.indexes, old, id); err != nil {
				return err
			}
		}
		for _, idx := range col.indexes {
			if value := stringField(record, idx.field); value != "" {
				if err := tx.Bucket([]byte(idx.bucket)).Put(indexKey(value, id), key); err != nil {
					return err
				}
			}
		}
		return bucket.Put(key, record)
	})
	if err != nil {
		return unavailable("upsert "+collection, err)
	}
	return nil
}

// Delete removes a record by id. Deleting an absent key is a no-op.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	col, ok := collections[collection]
	if !ok {
		return fmt.Errorf("unknown collection %q", collection)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	db, err := s.handle()
	if err != nil {
		return err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(col.bucket))
		key := []byte(id)
		old := bucket.Get(key)
		if old == nil {
			return nil
		}
		if err := dropIndexEntries(tx, col.indexes, old, id); err != nil {
			return err
		}
		return bucket.Delete(key)
	})
	if err != nil {
		return unavailable("delete "+collection, err)
	}
	return nil
}

// Close releases the database file. The store must not be used afterwards.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func dropIndexEntries(tx *bolt.Tx, indexes []index, record []byte, id string) error {
	for _, idx := range indexes {
		if value := stringField(record, idx.field); value != "" {
			if err := tx.Bucket([]byte(idx.bucket)).Delete(indexKey(value, id)); err != nil {
				return err
			}
		}
	}
	return nil
}

// indexKey builds a composite key: the indexed value, a NUL separator, then
// the record id so equal values stay unique.
func indexKey(value, id string) []byte {
	key := make([]byte, 0, len(value)+1+len(id))
	key = append(key, value...)
	key = append(key, 0)
	return append(key, id...)
}

// stringField extracts a top-level string field from a record. Records are
// JSON objects; anything else simply yields no index entry.
func stringField(record []byte, field string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(record, &obj); err != nil {
		return ""
	}
	var value string
	if err := json.Unmarshal(obj[field], &value); err != nil {
		return ""
	}
	return value
}

func unavailable(op string, err error) error {
	return fmt.Errorf("store: %s: %w", op, errors.Join(ErrUnavailable, err))
}
