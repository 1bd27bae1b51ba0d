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
)

// planSelect is the single, direct translation from an ast.Select to an
// operator tree: scan, left-deep hash-join chain, filter, optional
// aggregate, final projection. LIMIT/OFFSET are pushed into the initial
// table scan's storage.Bounds only for the no-join, no-filter, no-aggregate
// case (the one shape spec.md's storage contract actually bounds); beyond
// that shape there is no Limit/Offset operator in the component set, so a
// LIMIT/OFFSET on a joined or aggregated query is ErrUnsupportedExpr rather
// than silently ignored. ORDER BY has the same status: no Sort operator is
// part of the specified pipeline.
func planSelect(s storage.Storage, stmt ast.Select) (*Plan, error) {
	if len(stmt.OrderBy) > 0 {
		return nil, dberr.ErrUnsupportedExpr.New("ORDER BY")
	}

	ctx := binder.NewBindContext(s)
	baseTable, err := ctx.BindTable(stmt.From.Table, stmt.From.Alias, binder.RoleLeft)
	if err != nil {
		return nil, err
	}

	simple := len(stmt.Joins) == 0 && stmt.Where == nil && len(stmt.GroupBy) == 0 && stmt.Having == nil
	var op exec.Operator
	if simple && (stmt.Limit != nil || stmt.Offset != nil) {
		op, err = scanTableBounded(s, baseTable, storage.Bounds{Offset: stmt.Offset, Limit: stmt.Limit})
	} else {
		op, err = scanTable(s, baseTable)
	}
	if err != nil {
		return nil, err
	}

	leftIDs := map[catalog.ColumnID]bool{}
	for _, c := range baseTable.Columns {
		if c.HasID() {
			leftIDs[c.ID] = true
		}
	}

	for _, j := range stmt.Joins {
		if stmt.Limit != nil || stmt.Offset != nil {
			return nil, dberr.ErrUnsupportedExpr.New("LIMIT/OFFSET on a joined query")
		}
		var rightTable *catalog.Table
		op, rightTable, err = planJoin(ctx, op, leftIDs, j)
		if err != nil {
			return nil, err
		}
		for _, c := range rightTable.Columns {
			if c.HasID() {
				leftIDs[c.ID] = true
			}
		}
	}

	if stmt.Where != nil {
		if stmt.Limit != nil || stmt.Offset != nil {
			return nil, dberr.ErrUnsupportedExpr.New("LIMIT/OFFSET on a filtered query")
		}
		predicate, err := binder.BindExpr(ctx, stmt.Where)
		if err != nil {
			return nil, err
		}
		op = exec.NewFilter(op, predicate)
	}

	needsAgg := len(stmt.GroupBy) > 0
	boundItems := make([]expression.ScalarExpression, len(stmt.Projection))
	for i, item := range stmt.Projection {
		bound, err := binder.BindSelectItem(ctx, item)
		if err != nil {
			return nil, err
		}
		boundItems[i] = bound
		if containsAgg(bound) {
			needsAgg = true
		}
	}
	var boundHaving expression.ScalarExpression
	if stmt.Having != nil {
		boundHaving, err = binder.BindExpr(ctx, stmt.Having)
		if err != nil {
			return nil, err
		}
		needsAgg = true
	}

	if !needsAgg {
		outCols := make([]*catalog.Column, len(boundItems))
		for i, item := range stmt.Projection {
			outCols[i] = outputColumn(item, boundItems[i])
		}
		op = exec.NewProjection(op, boundItems, outCols)
		return &Plan{Operator: op, Columns: outCols, IsQuery: true}, nil
	}
	if stmt.Limit != nil || stmt.Offset != nil {
		return nil, dberr.ErrUnsupportedExpr.New("LIMIT/OFFSET on an aggregated query")
	}

	b := &aggBuilder{}
	for _, e := range stmt.GroupBy {
		bound, err := binder.BindExpr(ctx, e)
		if err != nil {
			return nil, err
		}
		if _, err := b.rewrite(bound); err != nil {
			return nil, err
		}
	}
	// A first pass registers every group key and aggregate call, so the
	// InputRef indices handed out by the second pass match the final layout.
	for _, bound := range boundItems {
		if _, err := b.rewrite(bound); err != nil {
			return nil, err
		}
	}
	if boundHaving != nil {
		if _, err := b.rewrite(boundHaving); err != nil {
			return nil, err
		}
	}
	projExprs := make([]expression.ScalarExpression, len(boundItems))
	for i, bound := range boundItems {
		rewritten, err := b.rewrite(bound)
		if err != nil {
			return nil, err
		}
		projExprs[i] = rewritten
	}
	var having expression.ScalarExpression
	if boundHaving != nil {
		having, err = b.rewrite(boundHaving)
		if err != nil {
			return nil, err
		}
	}

	aggOutCols := append(append([]*catalog.Column{}, b.groupCols...), b.aggCols...)
	op = exec.NewAggregate(op, b.groupExprs, b.aggCalls, aggOutCols, having)

	outCols := make([]*catalog.Column, len(stmt.Projection))
	for i, item := range stmt.Projection {
		outCols[i] = outputColumn(item, boundItems[i])
	}
	op = exec.NewProjection(op, projExprs, outCols)
	return &Plan{Operator: op, Columns: outCols, IsQuery: true}, nil
}

func scanTableBounded(s storage.Storage, table *catalog.Table, bounds storage.Bounds) (exec.Operator, error) {
	txn, ok := s.Transaction(table.Name)
	if !ok {
		return nil, dberr.ErrInvalidTable.New(table.Name)
	}
	projections := make(storage.Projections, len(table.Columns))
	for i, c := range table.Columns {
		projections[i] = expression.NewColumnRef(c)
	}
	return exec.NewTableScan(txn, bounds, projections)
}

// outputColumn names the display column for a projection item: its SQL
// alias if given, else the bound expression's rendered form (mirroring
// storage.ApplyProjection's synthesized-column convention for unnamed
// projections).
func outputColumn(item ast.SelectItem, bound expression.ScalarExpression) *catalog.Column {
	name := item.Alias
	if name == "" {
		name = bound.String()
	}
	if ref, ok := bound.(*expression.ColumnRef); ok && item.Alias == "" {
		return ref.Column
	}
	return catalog.NewColumn(name, true, catalog.NewColumnDesc(bound.ReturnType(), false, false))
}
