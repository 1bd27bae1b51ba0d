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

package exec

import (
	"context"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/tuple"
)

// TableScan is the thin adapter between the operator pipeline (C6) and the
// storage iterator (C3): it forwards whatever bounds/projection the
// planner attached to a single storage.Transaction.Read call.
type TableScan struct {
	iter storage.Iter
}

func NewTableScan(txn storage.Transaction, bounds storage.Bounds, projections storage.Projections) (*TableScan, error) {
	iter, err := txn.Read(bounds, projections)
	if err != nil {
		return nil, err
	}
	return &TableScan{iter: iter}, nil
}

// NewIndexScan is the same adapter seeking via an index rather than a full
// scan, wired to storage.Transaction.ReadByIndex.
func NewIndexScan(txn storage.Transaction, bounds storage.Bounds, projections storage.Projections, index *catalog.IndexMeta, ranges []storage.RangeValue) (*TableScan, error) {
	iter, err := txn.ReadByIndex(bounds, projections, index, ranges)
	if err != nil {
		return nil, err
	}
	return &TableScan{iter: iter}, nil
}

var _ Operator = (*TableScan)(nil)

func (s *TableScan) Name() string { return "scan" }

func (s *TableScan) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, s, func(context.Context) (*tuple.Tuple, error) {
		return s.iter.Next()
	})
}

func (s *TableScan) Close() error { return s.iter.Close() }
