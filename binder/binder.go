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

package binder

import (
	"strconv"
	"strings"

	"github.com/lewiszlw/KipSQL/ast"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/types"
)

// BindExpr dispatches over every ast.Expr variant the binder recognizes,
// producing a fully typed expression.ScalarExpression or a BindError kind.
// Anything outside the enumerated node set is ErrUnsupportedExpr, never a
// panic, per spec.md §9's open question on unknown SQL features.
func BindExpr(ctx *BindContext, e ast.Expr) (expression.ScalarExpression, error) {
	switch n := e.(type) {
	case ast.Identifier:
		return resolveColumn(ctx, "", n.Name)
	case ast.CompoundIdentifier:
		return bindCompoundIdentifier(ctx, n)
	case ast.Value:
		return bindValue(n), nil
	case ast.Nested:
		return BindExpr(ctx, n.Expr)
	case ast.BinaryOp:
		return bindBinaryOp(ctx, n)
	case ast.UnaryOp:
		return bindUnaryOp(ctx, n)
	case ast.Between:
		return bindBetween(ctx, n)
	case ast.Function:
		return bindFunction(ctx, n)
	default:
		return nil, dberr.ErrUnsupportedExpr.New("unknown expression node")
	}
}

func bindCompoundIdentifier(ctx *BindContext, n ast.CompoundIdentifier) (expression.ScalarExpression, error) {
	switch len(n.Idents) {
	case 1:
		return resolveColumn(ctx, "", n.Idents[0])
	case 2:
		return resolveColumn(ctx, n.Idents[0], n.Idents[1])
	case 3:
		// schema.table.column: this single-catalog engine has no schema
		// namespace, so the schema segment is accepted and ignored.
		return resolveColumn(ctx, n.Idents[1], n.Idents[2])
	default:
		return nil, dberr.ErrUnsupportedExpr.New("identifier chain of length " + strconv.Itoa(len(n.Idents)))
	}
}

// resolveColumn implements spec.md §4.1's name-resolution algorithm: with a
// table qualifier the table must exist in scope; without one, search every
// bound table (ambiguous on ≥2 matches), then the alias map, else
// InvalidColumn.
func resolveColumn(ctx *BindContext, tableQualifier, colName string) (expression.ScalarExpression, error) {
	colName = strings.ToLower(colName)

	if tableQualifier != "" {
		table, ok := ctx.tableByAlias(tableQualifier)
		if !ok {
			return nil, dberr.ErrInvalidTable.New(tableQualifier)
		}
		col, ok := table.ColumnByName(colName)
		if !ok {
			return nil, dberr.ErrInvalidColumn.New(colName)
		}
		return expression.NewColumnRef(col), nil
	}

	var found *expression.ColumnRef
	matches := 0
	for _, bt := range ctx.Tables {
		if col, ok := bt.Table.ColumnByName(colName); ok {
			found = expression.NewColumnRef(col)
			matches++
		}
	}
	if matches > 1 {
		return nil, dberr.ErrAmbiguousColumn.New(colName)
	}
	if matches == 1 {
		return found, nil
	}
	if aliased, ok := ctx.Aliases[colName]; ok {
		return aliased, nil
	}
	return nil, dberr.ErrInvalidColumn.New(colName)
}

func bindValue(n ast.Value) expression.ScalarExpression {
	if n.IsNull {
		return expression.NewConstant(types.None(types.SqlNull))
	}
	return expression.NewConstant(types.ParseFromText(n.Text, n.IsString))
}

var binaryOpTable = map[ast.BinaryOperator]expression.BinaryOp{
	ast.OpPlus: expression.Plus, ast.OpMinus: expression.Minus,
	ast.OpMultiply: expression.Multiply, ast.OpDivide: expression.Divide,
	ast.OpModulo: expression.Modulo, ast.OpGt: expression.Gt, ast.OpLt: expression.Lt,
	ast.OpGtEq: expression.GtEq, ast.OpLtEq: expression.LtEq, ast.OpEq: expression.Eq,
	ast.OpNotEq: expression.NotEq, ast.OpAnd: expression.And, ast.OpOr: expression.Or,
	ast.OpXor: expression.Xor,
}

// bindBinaryOp implements spec.md §4.1's typing rule: arithmetic ops take
// max_logical_type(left, right); comparison and logical ops always yield
// Boolean.
func bindBinaryOp(ctx *BindContext, n ast.BinaryOp) (expression.ScalarExpression, error) {
	op, ok := binaryOpTable[n.Op]
	if !ok {
		return nil, dberr.ErrUnsupportedExpr.New("binary operator")
	}
	left, err := BindExpr(ctx, n.Left)
	if err != nil {
		return nil, err
	}
	right, err := BindExpr(ctx, n.Right)
	if err != nil {
		return nil, err
	}

	var ty types.LogicalType
	if op.IsArithmetic() {
		ty, err = types.MaxLogicalType(left.ReturnType(), right.ReturnType())
		if err != nil {
			return nil, err
		}
	} else {
		ty = types.Boolean
	}
	return expression.NewBinary(op, left, right, ty), nil
}

// bindUnaryOp implements spec.md §4.1: NOT/IS [NOT] NULL yield Boolean;
// numeric unary +/- preserve the operand's type.
func bindUnaryOp(ctx *BindContext, n ast.UnaryOp) (expression.ScalarExpression, error) {
	inner, err := BindExpr(ctx, n.Expr)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.OpNot:
		return expression.NewUnary(expression.Not, inner, types.Boolean), nil
	case ast.OpIsNull:
		return expression.NewUnary(expression.IsNull, inner, types.Boolean), nil
	case ast.OpIsNotNull:
		return expression.NewUnary(expression.IsNotNull, inner, types.Boolean), nil
	case ast.OpUnaryPlus:
		return expression.NewUnary(expression.UnaryPlus, inner, inner.ReturnType()), nil
	case ast.OpUnaryMinus:
		return expression.NewUnary(expression.UnaryMinus, inner, inner.ReturnType()), nil
	default:
		return nil, dberr.ErrUnsupportedExpr.New("unary operator")
	}
}

// bindBetween desugars `expr BETWEEN low AND high` into `expr >= low AND
// expr <= high` (negated with NOT for `NOT BETWEEN`), a form
// original_source supports as a first-class AST node that the distilled
// spec collapsed into "unsupported".
func bindBetween(ctx *BindContext, n ast.Between) (expression.ScalarExpression, error) {
	expr, err := BindExpr(ctx, n.Expr)
	if err != nil {
		return nil, err
	}
	low, err := BindExpr(ctx, n.Low)
	if err != nil {
		return nil, err
	}
	high, err := BindExpr(ctx, n.High)
	if err != nil {
		return nil, err
	}
	lowCmp := expression.NewBinary(expression.GtEq, expr, low, types.Boolean)
	highCmp := expression.NewBinary(expression.LtEq, expr, high, types.Boolean)
	conj := expression.NewBinary(expression.And, lowCmp, highCmp, types.Boolean)
	if n.Not {
		return expression.NewUnary(expression.Not, conj, types.Boolean), nil
	}
	return conj, nil
}

var aggKindTable = map[string]expression.AggKind{
	"count": expression.Count, "sum": expression.Sum,
	"min": expression.Min, "max": expression.Max, "avg": expression.Avg,
}

// bindFunction recognizes {count, sum, min, max, avg} case-folded;
// anything else is UnsupportedExpr. COUNT(*) substitutes the wildcard
// sentinel constant so evaluation has a uniform single-argument shape.
func bindFunction(ctx *BindContext, n ast.Function) (expression.ScalarExpression, error) {
	kind, ok := aggKindTable[strings.ToLower(n.Name)]
	if !ok {
		return nil, dberr.ErrUnsupportedExpr.New(n.Name)
	}
	args := make([]expression.ScalarExpression, len(n.Args))
	for i, a := range n.Args {
		if a.Wildcard {
			args[i] = expression.WildcardConstant()
			continue
		}
		bound, err := BindExpr(ctx, a.Expr)
		if err != nil {
			return nil, err
		}
		args[i] = bound
	}
	return expression.NewAggCall(kind, n.Distinct, args), nil
}

// BindSelectItem binds one projection item and, if it carries an output
// alias, registers the bound expression (unwrapped) in the context's alias
// map before wrapping it for display.
func BindSelectItem(ctx *BindContext, item ast.SelectItem) (expression.ScalarExpression, error) {
	bound, err := BindExpr(ctx, item.Expr)
	if err != nil {
		return nil, err
	}
	if item.Alias == "" {
		return bound, nil
	}
	ctx.AddAlias(item.Alias, bound)
	return expression.NewAlias(bound, strings.ToLower(item.Alias)), nil
}
