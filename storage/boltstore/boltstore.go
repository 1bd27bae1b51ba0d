// Copyright 2026 The KipSQL Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package boltstore is the disk-backed storage.Storage implementation over
// github.com/boltdb/bolt, proving the contract in package storage is
// genuinely pluggable: every table gets its own bucket of primary-key ->
// gob-encoded-row entries, plus one bucket per unique index, and table
// metadata is itself persisted in a "_catalog" bucket so a Store reopened
// against the same file recovers its tables without replaying any DDL.
//
// Range scans (ReadByIndex) are implemented the same way
// storage/memstore's are: a full table read followed by an in-memory
// filter against the requested bounds. A true ordered bolt cursor walk
// would only pay off for the primary-key column, since secondary unique
// indices are stored in their own unordered-by-value bucket; the added
// complexity isn't justified for a reference backend whose only job is to
// demonstrate the contract is pluggable.
package boltstore

import (
	"bytes"
	"encoding/gob"
	"sync"

	bolt "github.com/boltdb/bolt"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/internal/metrics"
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

var metaBucket = []byte("_catalog")

func dataBucketName(table string) []byte { return []byte("data:" + table) }
func indexBucketName(table string, id catalog.IndexID) []byte {
	return []byte("idx:" + table + ":" + itoaIndexID(id))
}

func itoaIndexID(id catalog.IndexID) string {
	if id == 0 {
		return "0"
	}
	var digits []byte
	for id > 0 {
		digits = append([]byte{byte('0' + id%10)}, digits...)
		id /= 10
	}
	return string(digits)
}

// wireTable is the gob-persisted shadow of catalog.Table: only the
// declarative column shape and the originally-minted TableID are stored,
// since catalog.NewTable deterministically reassigns column ids and unique
// indices in declaration order, so replaying it on load reconstructs an
// identical *catalog.Table.
type wireTable struct {
	TableID string
	Name    string
	Columns []wireColumnDesc
}

type wireColumnDesc struct {
	Name      string
	Nullable  bool
	DataType  types.LogicalType
	IsPrimary bool
	IsUnique  bool
}

// Store is the boltdb-backed storage.Storage implementation.
type Store struct {
	db   *bolt.DB
	root *catalog.Root

	mu sync.Mutex
}

var _ storage.Storage = (*Store)(nil)

// Open opens (creating if absent) the bolt file at path and reloads any
// tables it already holds.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, dberr.ErrInternal.New("boltstore open: " + err.Error())
	}
	s := &Store{db: db, root: catalog.NewRoot()}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) load() error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(metaBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var wt wireTable
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(&wt); err != nil {
				return dberr.ErrInternal.New("boltstore catalog decode: " + err.Error())
			}
			cols := make([]*catalog.Column, len(wt.Columns))
			for i, wc := range wt.Columns {
				cols[i] = catalog.NewColumn(wc.Name, wc.Nullable, catalog.NewColumnDesc(wc.DataType, wc.IsPrimary, wc.IsUnique))
			}
			table, err := s.root.AddTable(wt.Name, cols)
			if err != nil {
				return err
			}
			table.ID = catalog.TableID(wt.TableID)
			return nil
		})
	})
}

func (s *Store) persistTable(table *catalog.Table) error {
	wt := wireTable{TableID: string(table.ID), Name: table.Name}
	for _, c := range table.Columns {
		wt.Columns = append(wt.Columns, wireColumnDesc{
			Name: c.Name, Nullable: c.Nullable,
			DataType: c.Desc.DataType, IsPrimary: c.Desc.IsPrimary, IsUnique: c.Desc.IsUnique,
		})
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wt); err != nil {
		return dberr.ErrInternal.New("boltstore catalog encode: " + err.Error())
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(table.Name), buf.Bytes()); err != nil {
			return err
		}
		_, err = tx.CreateBucketIfNotExists(dataBucketName(table.Name))
		return err
	})
}

func (s *Store) CreateTable(name string, columns []*catalog.Column) (catalog.TableID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, err := s.root.AddTable(name, columns)
	if err != nil {
		return "", err
	}
	if err := s.persistTable(table); err != nil {
		_ = s.root.DropTable(name)
		return "", err
	}
	return table.ID, nil
}

func (s *Store) DropTable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.root.DropTable(name); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(metaBucket); b != nil {
			_ = b.Delete([]byte(name))
		}
		if tx.Bucket(dataBucketName(name)) != nil {
			return tx.DeleteBucket(dataBucketName(name))
		}
		return nil
	})
}

func (s *Store) DropData(name string) error {
	table, ok := s.root.Table(name)
	if !ok {
		return nil
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(dataBucketName(table.Name)) != nil {
			if err := tx.DeleteBucket(dataBucketName(table.Name)); err != nil {
				return err
			}
		}
		for _, idx := range table.Indices {
			name := indexBucketName(table.Name, idx.ID)
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
		}
		_, err := tx.CreateBucketIfNotExists(dataBucketName(table.Name))
		return err
	})
}

func (s *Store) Table(name string) (*catalog.Table, bool) {
	return s.root.Table(name)
}

func (s *Store) Transaction(name string) (storage.Transaction, bool) {
	table, ok := s.root.Table(name)
	if !ok {
		return nil, false
	}
	return &txn{store: s, table: table}, true
}

func (s *Store) ShowTables() []string {
	return s.root.ShowTables()
}

// txn is exclusively owned by the operator that opened it, per the
// storage.Transaction contract. Its writable bolt.Tx is opened lazily on
// the first mutating call (Append, AddIndex, DelIndex, Delete); until then
// Read runs in a fresh read-only View. boltdb's MVCC snapshot isolation means a
// concurrent read against this table via a fresh Store.Transaction won't
// observe this txn's writes until Commit, the same "invisible until
// commit" guarantee storage/memstore enforces with an explicit lock.
type txn struct {
	store *Store
	table *catalog.Table

	tx        *bolt.Tx
	committed bool
}

var _ storage.Transaction = (*txn)(nil)

func (t *txn) ensureTx() (*bolt.Tx, error) {
	if t.committed {
		return nil, dberr.ErrTransactionCommitted.New()
	}
	if t.tx == nil {
		tx, err := t.store.db.Begin(true)
		if err != nil {
			return nil, dberr.ErrInternal.New("boltstore begin: " + err.Error())
		}
		if _, err := tx.CreateBucketIfNotExists(dataBucketName(t.table.Name)); err != nil {
			tx.Rollback()
			return nil, dberr.ErrInternal.New("boltstore begin: " + err.Error())
		}
		t.tx = tx
	}
	return t.tx, nil
}

func (t *txn) snapshot() ([]tuple.Tuple, error) {
	var rows []tuple.Tuple
	bucket := dataBucketName(t.table.Name)

	scan := func(b *bolt.Bucket) error {
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			values, err := decodeRow(v)
			if err != nil {
				return err
			}
			id := t.table.PrimaryColumn()
			var pk *types.Value
			if id != nil {
				for i, c := range t.table.Columns {
					if c.ID == id.ID {
						val := values[i]
						pk = &val
						break
					}
				}
			}
			rows = append(rows, tuple.Tuple{ID: pk, Columns: t.table.Columns, Values: values})
			return nil
		})
	}

	if t.tx != nil {
		return rows, scan(t.tx.Bucket(bucket))
	}
	err := t.store.db.View(func(tx *bolt.Tx) error {
		return scan(tx.Bucket(bucket))
	})
	return rows, err
}

func (t *txn) Read(bounds storage.Bounds, projections storage.Projections) (storage.Iter, error) {
	if t.committed {
		return nil, dberr.ErrTransactionCommitted.New()
	}
	rows, err := t.snapshot()
	if err != nil {
		return nil, err
	}
	return newIter(rows, bounds, projections), nil
}

func (t *txn) ReadByIndex(bounds storage.Bounds, projections storage.Projections, index *catalog.IndexMeta, ranges []storage.RangeValue) (storage.Iter, error) {
	it, err := t.Read(bounds, projections)
	if err != nil {
		return nil, err
	}
	bi := it.(*boltIter)
	if index != nil && len(index.ColumnIDs) == 1 && len(ranges) == 1 {
		colID := index.ColumnIDs[0]
		filtered := bi.rows[:0:0]
		for _, row := range bi.rows {
			v, ok := row.ValueOf(colID)
			if !ok || !inRange(v, ranges[0]) {
				continue
			}
			filtered = append(filtered, row)
		}
		bi.rows = filtered
	}
	return bi, nil
}

func inRange(v types.Value, r storage.RangeValue) bool {
	if v.IsNull() {
		return false
	}
	if r.Low != nil {
		c := v.Compare(*r.Low)
		if c < 0 || (c == 0 && !r.LowInclusive) {
			return false
		}
	}
	if r.High != nil {
		c := v.Compare(*r.High)
		if c > 0 || (c == 0 && !r.HighInclusive) {
			return false
		}
	}
	return true
}

func (t *txn) Append(row tuple.Tuple, overwrite bool) error {
	tx, err := t.ensureTx()
	if err != nil {
		return err
	}
	b := tx.Bucket(dataBucketName(t.table.Name))

	pkCol := t.table.PrimaryColumn()
	var pk types.Value
	for i, c := range row.Columns {
		if pkCol != nil && c.HasID() && c.ID == pkCol.ID {
			pk = row.Values[i]
		}
	}
	key, err := encodeKey(pk)
	if err != nil {
		return err
	}
	if !overwrite {
		if existing := b.Get(key); existing != nil {
			return dberr.ErrDuplicatePrimaryKey.New(pk.String())
		}
	}

	data, err := encodeRow(row.Values)
	if err != nil {
		return err
	}
	if err := b.Put(key, data); err != nil {
		return dberr.ErrInternal.New("boltstore append: " + err.Error())
	}
	metrics.RowsWritten.Inc()
	return nil
}

func (t *txn) AddIndex(index catalog.Index, tupleIDs []types.Value, isUnique bool) error {
	tx, err := t.ensureTx()
	if err != nil {
		return err
	}
	if len(index.ColumnValues) != 1 || len(tupleIDs) != 1 {
		return dberr.ErrInternal.New("boltstore only supports single-column unique indices")
	}
	name := indexBucketName(t.table.Name, index.ID)
	b, err := tx.CreateBucketIfNotExists(name)
	if err != nil {
		return dberr.ErrInternal.New("boltstore index: " + err.Error())
	}
	key, err := encodeKey(index.ColumnValues[0])
	if err != nil {
		return err
	}
	if isUnique {
		if existing := b.Get(key); existing != nil {
			tupleKey, err := encodeKey(tupleIDs[0])
			if err != nil {
				return err
			}
			if !bytes.Equal(existing, tupleKey) {
				return dberr.ErrDuplicateUniqueKey.New(index.ColumnValues[0])
			}
		}
	}
	tupleKey, err := encodeKey(tupleIDs[0])
	if err != nil {
		return err
	}
	return b.Put(key, tupleKey)
}

func (t *txn) DelIndex(index catalog.Index) error {
	tx, err := t.ensureTx()
	if err != nil {
		return err
	}
	name := indexBucketName(t.table.Name, index.ID)
	b := tx.Bucket(name)
	if b == nil || len(index.ColumnValues) != 1 {
		return nil
	}
	key, err := encodeKey(index.ColumnValues[0])
	if err != nil {
		return err
	}
	return b.Delete(key)
}

func (t *txn) Delete(tupleID types.Value) error {
	tx, err := t.ensureTx()
	if err != nil {
		return err
	}
	key, err := encodeKey(tupleID)
	if err != nil {
		return err
	}
	return tx.Bucket(dataBucketName(t.table.Name)).Delete(key)
}

func (t *txn) Commit() error {
	if t.committed {
		return dberr.ErrTransactionCommitted.New()
	}
	t.committed = true
	if t.tx == nil {
		metrics.TransactionsCommitted.Inc()
		return nil
	}
	if err := t.tx.Commit(); err != nil {
		metrics.TransactionsAborted.Inc()
		return dberr.ErrInternal.New("boltstore commit: " + err.Error())
	}
	metrics.TransactionsCommitted.Inc()
	return nil
}
