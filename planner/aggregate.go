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
	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/expression"
)

// aggBuilder accumulates the distinct GROUP BY expressions and aggregate
// calls discovered while rewriting a SELECT/HAVING expression tree, so
// every occurrence of the same group column or the same aggregate call
// collapses onto one Aggregate-operator output slot.
type aggBuilder struct {
	groupExprs []expression.ScalarExpression
	groupCols  []*catalog.Column
	aggCalls   []*expression.AggCall
	aggCols    []*catalog.Column
}

func (b *aggBuilder) registerGroup(col *catalog.Column, expr expression.ScalarExpression) int {
	if col.HasID() {
		for i, e := range b.groupExprs {
			if existing, ok := e.(*expression.ColumnRef); ok && existing.Column.HasID() && existing.Column.ID == col.ID {
				return i
			}
		}
	}
	idx := len(b.groupExprs)
	b.groupExprs = append(b.groupExprs, expr)
	b.groupCols = append(b.groupCols, catalog.NewColumn(expr.String(), true, catalog.NewColumnDesc(expr.ReturnType(), false, false)))
	return idx
}

func (b *aggBuilder) registerAgg(call *expression.AggCall) int {
	for i, existing := range b.aggCalls {
		if existing.String() == call.String() {
			return i
		}
	}
	idx := len(b.aggCalls)
	b.aggCalls = append(b.aggCalls, call)
	b.aggCols = append(b.aggCols, catalog.NewColumn(call.String(), true, catalog.NewColumnDesc(call.Ty, false, false)))
	return idx
}

// rewrite walks a bound expression tree, replacing every AggCall with a
// positional InputRef into the eventual Aggregate operator's output tuple
// (index = len(groupExprs) + its slot) and every bare ColumnRef with a
// positional InputRef into the group-key slot it belongs to, registering
// new group keys on the fly for any column referenced outside an
// aggregate. This lets a single pass over the already-bound projection and
// HAVING expressions build the Aggregate operator's shape without
// re-deriving types from the AST.
func (b *aggBuilder) rewrite(e expression.ScalarExpression) (expression.ScalarExpression, error) {
	switch n := e.(type) {
	case *expression.AggCall:
		idx := b.registerAgg(n)
		return expression.NewInputRef(len(b.groupExprs)+idx, n.Ty), nil
	case *expression.ColumnRef:
		idx := b.registerGroup(n.Column, n)
		return expression.NewInputRef(idx, n.Column.DataType()), nil
	case *expression.Constant:
		return n, nil
	case *expression.Binary:
		left, err := b.rewrite(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := b.rewrite(n.Right)
		if err != nil {
			return nil, err
		}
		return expression.NewBinary(n.Op, left, right, n.Ty), nil
	case *expression.Unary:
		inner, err := b.rewrite(n.Expr)
		if err != nil {
			return nil, err
		}
		return expression.NewUnary(n.Op, inner, n.Ty), nil
	case *expression.Alias:
		inner, err := b.rewrite(n.Expr)
		if err != nil {
			return nil, err
		}
		return expression.NewAlias(inner, n.Name), nil
	default:
		return nil, dberr.ErrUnsupportedExpr.New("expression in aggregated query")
	}
}

// containsAgg reports whether a bound expression tree has an AggCall
// anywhere in it, used to decide whether a SELECT needs an Aggregate
// operator at all.
func containsAgg(e expression.ScalarExpression) bool {
	switch n := e.(type) {
	case *expression.AggCall:
		return true
	case *expression.Binary:
		return containsAgg(n.Left) || containsAgg(n.Right)
	case *expression.Unary:
		return containsAgg(n.Expr)
	case *expression.Alias:
		return containsAgg(n.Expr)
	default:
		return false
	}
}
