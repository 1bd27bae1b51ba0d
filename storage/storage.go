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

// Package storage is the contract between operators and any concrete table
// store: table discovery, transactional append/index/commit, and a
// projected-range iterator. Two implementations live alongside this
// package: storage/memstore (the reference, in-memory implementation) and
// storage/boltstore (a disk-backed implementation over github.com/boltdb/bolt),
// demonstrating that the contract is genuinely pluggable.
package storage

import (
	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// Bounds is (offset, limit); either may be absent (nil meaning "no limit",
// offset treated as 0 when absent).
type Bounds struct {
	Offset *int64
	Limit  *int64
}

// Projections is the ordered list of scalar expressions applied to each raw
// tuple read from a table before it is yielded.
type Projections []expression.ScalarExpression

// RangeValue restricts an index scan to a single inclusive/exclusive bound
// on the index's leading column value. A nil Low/High means unbounded on
// that side.
type RangeValue struct {
	Low           *types.Value
	High          *types.Value
	LowInclusive  bool
	HighInclusive bool
}

// Storage is the top-level handle a binder/planner/executor holds. It knows
// about table metadata and can mint per-table transactions; it does not
// itself expose row data.
type Storage interface {
	CreateTable(name string, columns []*catalog.Column) (catalog.TableID, error)
	DropTable(name string) error
	DropData(name string) error
	Table(name string) (*catalog.Table, bool)
	Transaction(name string) (Transaction, bool)
	ShowTables() []string
}

// Iter is a projected-range iterator: it consumes `offset` rows from the
// underlying ordering, then yields up to `limit` rows after applying the
// projection expression list to each raw tuple, decrementing a
// remaining-limit counter per yield. Its lifetime must not outlive the
// transaction that produced it.
type Iter interface {
	Next() (*tuple.Tuple, error) // returns (nil, nil) at end of stream
	Close() error
}

// Transaction is exclusively owned by the operator that opened it. Its
// mutations are invisible to reads from other transactions until Commit,
// which consumes the transaction — any operation after Commit fails.
type Transaction interface {
	Read(bounds Bounds, projections Projections) (Iter, error)
	ReadByIndex(bounds Bounds, projections Projections, index *catalog.IndexMeta, ranges []RangeValue) (Iter, error)
	Append(t tuple.Tuple, overwrite bool) error
	AddIndex(index catalog.Index, tupleIDs []types.Value, isUnique bool) error
	DelIndex(index catalog.Index) error
	Delete(tupleID types.Value) error
	Commit() error
}
