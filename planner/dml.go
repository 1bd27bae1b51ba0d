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

package planner

import (
	"github.com/lewiszlw/KipSQL/ast"
	"github.com/lewiszlw/KipSQL/binder"
	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/exec"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

func planInsert(s storage.Storage, n ast.Insert) (*Plan, error) {
	table, ok := s.Table(n.Table)
	if !ok {
		return nil, dberr.ErrInvalidTable.New(n.Table)
	}
	txn, ok := s.Transaction(table.Name)
	if !ok {
		return nil, dberr.ErrInvalidTable.New(n.Table)
	}

	targetCols, err := resolveTargetColumns(table, n.Columns)
	if err != nil {
		return nil, err
	}

	var source exec.Operator
	if n.Select != nil {
		plan, err := planSelect(s, *n.Select)
		if err != nil {
			return nil, err
		}
		if len(plan.Columns) != len(targetCols) {
			return nil, dberr.ErrPlan.New("insert column count does not match select list")
		}
		exprs := make([]expression.ScalarExpression, len(targetCols))
		for i, c := range targetCols {
			exprs[i] = expression.NewInputRef(i, c.DataType())
		}
		source = exec.NewProjection(plan.Operator, exprs, targetCols)
	} else {
		ctx := binder.NewBindContext(s)
		rows := make([][]types.Value, len(n.Rows))
		for ri, row := range n.Rows {
			if len(row.Values) != len(targetCols) {
				return nil, dberr.ErrPlan.New("insert value count does not match target columns")
			}
			values := make([]types.Value, len(row.Values))
			for ci, e := range row.Values {
				bound, err := binder.BindExpr(ctx, e)
				if err != nil {
					return nil, err
				}
				v, err := bound.EvalColumn(tuple.Tuple{})
				if err != nil {
					return nil, err
				}
				values[ci] = v
			}
			rows[ri] = values
		}
		source = exec.NewValues(targetCols, rows)
	}

	return &Plan{Operator: exec.NewInsert(table, txn, source, n.IsOverwrite)}, nil
}

func resolveTargetColumns(table *catalog.Table, names []string) ([]*catalog.Column, error) {
	if len(names) == 0 {
		return table.AllColumnsByID(), nil
	}
	cols := make([]*catalog.Column, len(names))
	for i, name := range names {
		c, ok := table.ColumnByName(name)
		if !ok {
			return nil, dberr.ErrInvalidColumn.New(name)
		}
		cols[i] = c
	}
	return cols, nil
}

func planUpdate(s storage.Storage, n ast.Update) (*Plan, error) {
	ctx := binder.NewBindContext(s)
	table, err := ctx.BindTable(n.Table, "", binder.RoleNone)
	if err != nil {
		return nil, err
	}
	txn, ok := s.Transaction(table.Name)
	if !ok {
		return nil, dberr.ErrInvalidTable.New(n.Table)
	}

	op, err := scanTable(s, table)
	if err != nil {
		return nil, err
	}
	if n.Where != nil {
		pred, err := binder.BindExpr(ctx, n.Where)
		if err != nil {
			return nil, err
		}
		op = exec.NewFilter(op, pred)
	}

	assignments := make([]exec.Assignment, len(n.Assignments))
	for i, a := range n.Assignments {
		col, ok := table.ColumnByName(a.Column)
		if !ok {
			return nil, dberr.ErrInvalidColumn.New(a.Column)
		}
		value, err := binder.BindExpr(ctx, a.Value)
		if err != nil {
			return nil, err
		}
		assignments[i] = exec.Assignment{Column: col, Value: value}
	}

	return &Plan{Operator: exec.NewUpdate(txn, op, assignments)}, nil
}

func planDelete(s storage.Storage, n ast.Delete) (*Plan, error) {
	ctx := binder.NewBindContext(s)
	table, err := ctx.BindTable(n.Table, "", binder.RoleNone)
	if err != nil {
		return nil, err
	}
	txn, ok := s.Transaction(table.Name)
	if !ok {
		return nil, dberr.ErrInvalidTable.New(n.Table)
	}

	op, err := scanTable(s, table)
	if err != nil {
		return nil, err
	}
	if n.Where != nil {
		pred, err := binder.BindExpr(ctx, n.Where)
		if err != nil {
			return nil, err
		}
		op = exec.NewFilter(op, pred)
	}

	return &Plan{Operator: exec.NewDelete(txn, op)}, nil
}
