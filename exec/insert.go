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

	"github.com/hashicorp/go-multierror"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/internal/metrics"
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// Insert is the DML ingest operator: spec.md §4.4's algorithm, reconstructing
// each input tuple in the target table's catalog column order, casting and
// null-checking every column, then appending it and buffering unique-column
// values for a single index flush that happens strictly after the last
// append and strictly before commit (spec.md §5).
type Insert struct {
	table       *catalog.Table
	txn         storage.Transaction
	input       Operator
	isOverwrite bool

	done       bool
	rowsSeen   int64
	uniqueVals map[catalog.ColumnID][]uniquePair
}

type uniquePair struct {
	tupleID types.Value
	value   types.Value
}

func NewInsert(table *catalog.Table, txn storage.Transaction, input Operator, isOverwrite bool) *Insert {
	return &Insert{
		table:       table,
		txn:         txn,
		input:       input,
		isOverwrite: isOverwrite,
		uniqueVals:  map[catalog.ColumnID][]uniquePair{},
	}
}

var _ Operator = (*Insert)(nil)

func (ins *Insert) Name() string { return "insert" }

// RowsAffected reports how many input tuples were appended, valid once
// Next has drained the input to completion.
func (ins *Insert) RowsAffected() int64 { return ins.rowsSeen }

// Next drains the entire input on its first call, appending each row,
// flushing unique indices and committing, then yields nothing: Insert is a
// sink, not a row-producing operator, matching spec.md's framing of it as
// the consumer of a child stream.
func (ins *Insert) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, ins, func(ctx context.Context) (*tuple.Tuple, error) {
		if ins.done {
			return nil, nil
		}
		ins.done = true

		primary := ins.table.PrimaryColumn()
		allColumns := ins.table.AllColumnsByID()

		for {
			in, err := ins.input.Next(ctx)
			if err != nil {
				metrics.TransactionsAborted.Inc()
				return nil, err
			}
			if in == nil {
				break
			}
			row, err := ins.reconstruct(*in, allColumns, primary)
			if err != nil {
				metrics.TransactionsAborted.Inc()
				return nil, err
			}
			if err := ins.txn.Append(row, ins.isOverwrite); err != nil {
				metrics.TransactionsAborted.Inc()
				return nil, err
			}
			ins.rowsSeen++
		}

		for colID, pairs := range ins.uniqueVals {
			indexMeta, ok := ins.table.UniqueIndexFor(colID)
			if !ok {
				continue
			}
			for _, p := range pairs {
				idx := catalog.Index{ID: indexMeta.ID, ColumnValues: []types.Value{p.value}}
				if err := ins.txn.AddIndex(idx, []types.Value{p.tupleID}, true); err != nil {
					metrics.TransactionsAborted.Inc()
					return nil, err
				}
			}
		}

		if err := ins.txn.Commit(); err != nil {
			metrics.TransactionsAborted.Inc()
			return nil, err
		}
		return nil, nil
	})
}

// reconstruct builds the row in the target table's catalog column order: every
// declared column gets either the incoming value (cast to its declared
// type) or a NULL, with every NOT NULL violation across the whole row
// collected via go-multierror before the operator aborts.
func (ins *Insert) reconstruct(in tuple.Tuple, allColumns []*catalog.Column, primary *catalog.Column) (tuple.Tuple, error) {
	byID := map[catalog.ColumnID]types.Value{}
	for i, col := range in.Columns {
		if !col.HasID() {
			continue
		}
		cast, err := in.Values[i].Cast(col.DataType())
		if err != nil {
			return tuple.Tuple{}, dberr.Wrap(dberr.ClassType, err)
		}
		byID[col.ID] = cast
	}

	var primaryID types.Value
	if v, ok := byID[primary.ID]; ok {
		primaryID = v
	} else {
		primaryID = types.None(primary.DataType())
	}

	row := tuple.Tuple{
		ID:      &primaryID,
		Columns: make([]*catalog.Column, 0, len(allColumns)),
		Values:  make([]types.Value, 0, len(allColumns)),
	}

	var violations *multierror.Error
	for _, col := range allColumns {
		value, present := byID[col.ID]
		if !present {
			value = types.None(col.DataType())
		}

		if col.Desc.IsUnique && !value.IsNull() {
			ins.uniqueVals[col.ID] = append(ins.uniqueVals[col.ID], uniquePair{tupleID: primaryID, value: value})
		}
		if value.IsNull() && !col.Nullable {
			violations = multierror.Append(violations, dberr.ErrNotNullViolation.New(col.Name))
		}

		row.Columns = append(row.Columns, col)
		row.Values = append(row.Values, value)
	}

	if violations != nil {
		return tuple.Tuple{}, violations.ErrorOrNil()
	}
	return row, nil
}

func (ins *Insert) Close() error { return ins.input.Close() }
