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

// Package memstore is the in-memory reference storage.Storage
// implementation required by spec.md §9 for testability. Unlike the
// original Rust reference (an `Arc<Cell<StorageInner>>` wrapped in `unsafe
// impl Send + Sync`), this implementation earns its concurrency safety with
// a sync.RWMutex guarding the table directory and one sync.Mutex per table
// serializing that table's mutations — exactly the "proper concurrency
// primitive" spec.md's design notes ask a production rewrite to substitute.
package memstore

import (
	"sync"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/internal/metrics"
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// Store is the in-memory reference storage.Storage implementation.
type Store struct {
	root *catalog.Root

	mu         sync.RWMutex
	tables     map[string]*memTable
	rowCapHint int
}

func New() *Store {
	return NewWithCapacity(0)
}

// NewWithCapacity is New, but every table's row slice is preallocated to
// capHint, for a host program that knows roughly how many rows it is about
// to load (internal/config's memstore_capacity_hint) and wants to skip the
// slice's early growth reallocations.
func NewWithCapacity(capHint int) *Store {
	return &Store{root: catalog.NewRoot(), tables: make(map[string]*memTable), rowCapHint: capHint}
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) CreateTable(name string, columns []*catalog.Column) (catalog.TableID, error) {
	table, err := s.root.AddTable(name, columns)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[table.Name] = newMemTable(table, s.rowCapHint)
	return table.ID, nil
}

func (s *Store) DropTable(name string) error {
	if err := s.root.DropTable(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, name)
	return nil
}

func (s *Store) DropData(name string) error {
	s.mu.RLock()
	t, ok := s.tables[name]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
	t.uniqueIndex = map[catalog.ColumnID]map[string]types.Value{}
	return nil
}

func (s *Store) Table(name string) (*catalog.Table, bool) {
	return s.root.Table(name)
}

func (s *Store) Transaction(name string) (storage.Transaction, bool) {
	table, ok := s.root.Table(name)
	if !ok {
		return nil, false
	}
	s.mu.RLock()
	mt, ok := s.tables[table.Name]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return newTxn(table, mt), true
}

func (s *Store) ShowTables() []string {
	return s.root.ShowTables()
}

// memTable is the row store backing one table: its mutation lock is held for
// the lifetime of a transaction's writes and released at commit.
type memTable struct {
	table *catalog.Table

	mu          sync.Mutex
	rows        []tuple.Tuple
	uniqueIndex map[catalog.ColumnID]map[string]types.Value // columnID -> value.String() -> tuple id
}

func newMemTable(table *catalog.Table, capHint int) *memTable {
	mt := &memTable{table: table, uniqueIndex: map[catalog.ColumnID]map[string]types.Value{}}
	if capHint > 0 {
		mt.rows = make([]tuple.Tuple, 0, capHint)
	}
	return mt
}

// txn implements storage.Transaction against a memTable. It buffers nothing
// extra beyond the locked memTable itself: Append/Delete mutate rows
// directly under the table's lock, and the lock is held from the first
// mutating call through Commit, which is how "mutations are not visible to
// read on other transactions until commit" is enforced for this backend —
// a concurrent transaction against the same table simply blocks.
type txn struct {
	table     *catalog.Table
	mt        *memTable
	committed bool
	locked    bool
}

func newTxn(table *catalog.Table, mt *memTable) *txn {
	return &txn{table: table, mt: mt}
}

var _ storage.Transaction = (*txn)(nil)

func (t *txn) lockOnce() {
	if !t.locked {
		t.mt.mu.Lock()
		t.locked = true
	}
}

func (t *txn) Read(bounds storage.Bounds, projections storage.Projections) (storage.Iter, error) {
	if t.committed {
		return nil, dberr.ErrTransactionCommitted.New()
	}
	t.mt.mu.Lock()
	snapshot := make([]tuple.Tuple, len(t.mt.rows))
	copy(snapshot, t.mt.rows)
	t.mt.mu.Unlock()

	return newIter(snapshot, bounds, projections), nil
}

func (t *txn) ReadByIndex(bounds storage.Bounds, projections storage.Projections, index *catalog.IndexMeta, ranges []storage.RangeValue) (storage.Iter, error) {
	it, err := t.Read(bounds, projections)
	if err != nil {
		return nil, err
	}
	mi := it.(*memIter)
	if index != nil && len(index.ColumnIDs) == 1 && len(ranges) == 1 {
		colID := index.ColumnIDs[0]
		filtered := mi.rows[:0:0]
		for _, row := range mi.rows {
			v, ok := row.ValueOf(colID)
			if !ok || !inRange(v, ranges[0]) {
				continue
			}
			filtered = append(filtered, row)
		}
		mi.rows = filtered
	}
	return mi, nil
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
	if t.committed {
		return dberr.ErrTransactionCommitted.New()
	}
	t.lockOnce()

	for i, existing := range t.mt.rows {
		if sameID(existing.ID, row.ID) {
			if !overwrite {
				return dberr.ErrDuplicatePrimaryKey.New(row.ID.String())
			}
			t.mt.rows[i] = row
			metrics.RowsWritten.Inc()
			return nil
		}
	}
	t.mt.rows = append(t.mt.rows, row)
	metrics.RowsWritten.Inc()
	return nil
}

func sameID(a, b *types.Value) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Equal(*b)
}

func (t *txn) AddIndex(index catalog.Index, tupleIDs []types.Value, isUnique bool) error {
	if t.committed {
		return dberr.ErrTransactionCommitted.New()
	}
	t.lockOnce()

	if len(index.ColumnValues) != 1 || len(tupleIDs) != 1 {
		return dberr.ErrInternal.New("memstore only supports single-column unique indices")
	}
	colID := indexColumnID(t.table, index.ID)
	bucket, ok := t.mt.uniqueIndex[colID]
	if !ok {
		bucket = map[string]types.Value{}
		t.mt.uniqueIndex[colID] = bucket
	}
	key := index.ColumnValues[0].String()
	if existingID, ok := bucket[key]; isUnique && ok && !existingID.Equal(tupleIDs[0]) {
		return dberr.ErrDuplicateUniqueKey.New(index.ColumnValues[0])
	}
	bucket[key] = tupleIDs[0]
	return nil
}

func indexColumnID(table *catalog.Table, id catalog.IndexID) catalog.ColumnID {
	for _, idx := range table.Indices {
		if idx.ID == id && len(idx.ColumnIDs) == 1 {
			return idx.ColumnIDs[0]
		}
	}
	return 0
}

func (t *txn) DelIndex(index catalog.Index) error {
	if t.committed {
		return dberr.ErrTransactionCommitted.New()
	}
	t.lockOnce()
	colID := indexColumnID(t.table, index.ID)
	if len(index.ColumnValues) == 1 {
		delete(t.mt.uniqueIndex[colID], index.ColumnValues[0].String())
	}
	return nil
}

func (t *txn) Delete(tupleID types.Value) error {
	if t.committed {
		return dberr.ErrTransactionCommitted.New()
	}
	t.lockOnce()

	filtered := t.mt.rows[:0:0]
	for _, row := range t.mt.rows {
		if row.ID != nil && row.ID.Equal(tupleID) {
			continue
		}
		filtered = append(filtered, row)
	}
	t.mt.rows = filtered
	return nil
}

func (t *txn) Commit() error {
	if t.committed {
		return dberr.ErrTransactionCommitted.New()
	}
	t.committed = true
	if t.locked {
		t.mt.mu.Unlock()
	}
	metrics.TransactionsCommitted.Inc()
	return nil
}
