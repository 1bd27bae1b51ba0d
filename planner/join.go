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
	"github.com/lewiszlw/KipSQL/types"
)

var joinTypeTable = map[ast.JoinType]exec.JoinType{
	ast.JoinInner: exec.JoinInner, ast.JoinLeft: exec.JoinLeft,
	ast.JoinRight: exec.JoinRight, ast.JoinFull: exec.JoinFull,
	ast.JoinCross: exec.JoinCross,
}

// scanTable opens a transaction against table and wraps a full, unbounded
// scan projecting every declared column as itself, the base operator a
// join chain or a plain SELECT starts from.
func scanTable(s storage.Storage, table *catalog.Table) (exec.Operator, error) {
	txn, ok := s.Transaction(table.Name)
	if !ok {
		return nil, dberr.ErrInvalidTable.New(table.Name)
	}
	projections := make(storage.Projections, len(table.Columns))
	for i, c := range table.Columns {
		projections[i] = expression.NewColumnRef(c)
	}
	return exec.NewTableScan(txn, storage.Bounds{}, projections)
}

// columnIDSet collects every catalog.ColumnID a bound expression tree
// touches, used to classify which physical side of an accumulated join
// chain an ON-clause equality operand belongs to.
func columnIDSet(e expression.ScalarExpression, out map[catalog.ColumnID]bool) {
	switch n := e.(type) {
	case *expression.ColumnRef:
		if n.Column.HasID() {
			out[n.Column.ID] = true
		}
	case *expression.Binary:
		columnIDSet(n.Left, out)
		columnIDSet(n.Right, out)
	case *expression.Unary:
		columnIDSet(n.Expr, out)
	case *expression.Alias:
		columnIDSet(n.Expr, out)
	}
}

func subsetOf(small, big map[catalog.ColumnID]bool) bool {
	if len(small) == 0 {
		return false
	}
	for id := range small {
		if !big[id] {
			return false
		}
	}
	return true
}

// flattenAnd splits a bound expression into its top-level AND conjuncts.
func flattenAnd(e expression.ScalarExpression) []expression.ScalarExpression {
	if b, ok := e.(*expression.Binary); ok && b.Op == expression.And {
		return append(flattenAnd(b.Left), flattenAnd(b.Right)...)
	}
	return []expression.ScalarExpression{e}
}

func andAll(exprs []expression.ScalarExpression) expression.ScalarExpression {
	if len(exprs) == 0 {
		return nil
	}
	result := exprs[0]
	for _, e := range exprs[1:] {
		result = expression.NewBinary(expression.And, result, e, types.Boolean)
	}
	return result
}

// planJoin binds one JOIN clause's table and ON condition, classifies the
// ON clause's top-level equalities into on-keys (one operand per physical
// side) versus a residual filter, and builds the HashJoin operator. It is
// intentionally a single, direct translation pass: no predicate pushdown,
// no join reordering.
func planJoin(ctx *binder.BindContext, leftOp exec.Operator, leftIDs map[catalog.ColumnID]bool, j ast.JoinClause) (exec.Operator, *catalog.Table, error) {
	rightTable, err := ctx.BindTable(j.Table.Table, j.Table.Alias, binder.RoleRight)
	if err != nil {
		return nil, nil, err
	}
	rightOp, err := scanTable(ctx.Storage, rightTable)
	if err != nil {
		return nil, nil, err
	}

	ty, ok := joinTypeTable[j.Type]
	if !ok {
		return nil, nil, dberr.ErrPlan.New("unknown join type")
	}

	rightIDs := map[catalog.ColumnID]bool{}
	for _, c := range rightTable.Columns {
		if c.HasID() {
			rightIDs[c.ID] = true
		}
	}

	if j.On == nil {
		joined, err := exec.NewHashJoin(leftOp, rightOp, ty, exec.JoinCondition{})
		if err != nil {
			return nil, nil, err
		}
		return joined, rightTable, nil
	}

	bound, err := binder.BindExpr(ctx, j.On)
	if err != nil {
		return nil, nil, err
	}

	var onKeys []exec.OnKeyPair
	var residual []expression.ScalarExpression
	for _, conj := range flattenAnd(bound) {
		b, ok := conj.(*expression.Binary)
		if !ok || b.Op != expression.Eq {
			residual = append(residual, conj)
			continue
		}
		lIDs, rIDs := map[catalog.ColumnID]bool{}, map[catalog.ColumnID]bool{}
		columnIDSet(b.Left, lIDs)
		columnIDSet(b.Right, rIDs)
		switch {
		case subsetOf(lIDs, leftIDs) && subsetOf(rIDs, rightIDs):
			onKeys = append(onKeys, exec.OnKeyPair{Left: b.Left, Right: b.Right})
		case subsetOf(lIDs, rightIDs) && subsetOf(rIDs, leftIDs):
			onKeys = append(onKeys, exec.OnKeyPair{Left: b.Right, Right: b.Left})
		default:
			residual = append(residual, conj)
		}
	}

	cond := exec.JoinCondition{HasOn: len(onKeys) > 0, OnKeys: onKeys, Filter: andAll(residual)}
	joined, err := exec.NewHashJoin(leftOp, rightOp, ty, cond)
	if err != nil {
		return nil, nil, err
	}
	return joined, rightTable, nil
}
