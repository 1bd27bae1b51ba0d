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
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/internal/metrics"
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/tuple"
)

// Assignment pairs a target column with the expression that recomputes it,
// evaluated against the pre-update tuple.
type Assignment struct {
	Column *catalog.Column
	Value  expression.ScalarExpression
}

// Update is Insert's sibling for `UPDATE ... SET`: it shares Insert's
// transaction-per-statement, commit-once-at-end-of-stream discipline, but
// re-evaluates an assignment list per tuple instead of reconstructing a
// fresh row, and re-appends with overwrite=true.
type Update struct {
	txn         storage.Transaction
	input       Operator
	assignments []Assignment
	done        bool
	rowsSeen    int64
}

func NewUpdate(txn storage.Transaction, input Operator, assignments []Assignment) *Update {
	return &Update{txn: txn, input: input, assignments: assignments}
}

var _ Operator = (*Update)(nil)

func (u *Update) Name() string { return "update" }

// RowsAffected reports how many input tuples were re-appended, valid once
// Next has drained the input to completion.
func (u *Update) RowsAffected() int64 { return u.rowsSeen }

func (u *Update) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, u, func(ctx context.Context) (*tuple.Tuple, error) {
		if u.done {
			return nil, nil
		}
		u.done = true

		for {
			in, err := u.input.Next(ctx)
			if err != nil {
				metrics.TransactionsAborted.Inc()
				return nil, err
			}
			if in == nil {
				break
			}
			row := in.Clone()
			for _, a := range u.assignments {
				newVal, err := a.Value.EvalColumn(*in)
				if err != nil {
					metrics.TransactionsAborted.Inc()
					return nil, err
				}
				for i, c := range row.Columns {
					if c.HasID() && a.Column.HasID() && c.ID == a.Column.ID {
						row.Values[i] = newVal
					}
				}
			}
			if err := u.txn.Append(row, true); err != nil {
				metrics.TransactionsAborted.Inc()
				return nil, err
			}
			u.rowsSeen++
		}

		if err := u.txn.Commit(); err != nil {
			metrics.TransactionsAborted.Inc()
			return nil, err
		}
		return nil, nil
	})
}

func (u *Update) Close() error { return u.input.Close() }

// Delete removes each incoming tuple by primary-key id, sharing the same
// commit-once discipline as Insert/Update.
type Delete struct {
	txn      storage.Transaction
	input    Operator
	done     bool
	rowsSeen int64
}

func NewDelete(txn storage.Transaction, input Operator) *Delete {
	return &Delete{txn: txn, input: input}
}

var _ Operator = (*Delete)(nil)

func (d *Delete) Name() string { return "delete" }

// RowsAffected reports how many input tuples were deleted, valid once
// Next has drained the input to completion.
func (d *Delete) RowsAffected() int64 { return d.rowsSeen }

func (d *Delete) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, d, func(ctx context.Context) (*tuple.Tuple, error) {
		if d.done {
			return nil, nil
		}
		d.done = true

		for {
			in, err := d.input.Next(ctx)
			if err != nil {
				metrics.TransactionsAborted.Inc()
				return nil, err
			}
			if in == nil {
				break
			}
			if in.ID == nil {
				continue
			}
			if err := d.txn.Delete(*in.ID); err != nil {
				metrics.TransactionsAborted.Inc()
				return nil, err
			}
			d.rowsSeen++
		}

		if err := d.txn.Commit(); err != nil {
			metrics.TransactionsAborted.Inc()
			return nil, err
		}
		return nil, nil
	})
}

func (d *Delete) Close() error { return d.input.Close() }
