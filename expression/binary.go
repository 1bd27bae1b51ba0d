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

package expression

import (
	"github.com/shopspring/decimal"

	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

type BinaryOp int

const (
	Plus BinaryOp = iota
	Minus
	Multiply
	Divide
	Modulo
	Gt
	Lt
	GtEq
	LtEq
	Eq
	NotEq
	And
	Or
	Xor
)

func (op BinaryOp) String() string {
	switch op {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	case Modulo:
		return "%"
	case Gt:
		return ">"
	case Lt:
		return "<"
	case GtEq:
		return ">="
	case LtEq:
		return "<="
	case Eq:
		return "="
	case NotEq:
		return "!="
	case And:
		return "AND"
	case Or:
		return "OR"
	case Xor:
		return "XOR"
	default:
		return "?"
	}
}

func (op BinaryOp) IsArithmetic() bool {
	switch op {
	case Plus, Minus, Multiply, Divide, Modulo:
		return true
	default:
		return false
	}
}

// Binary is a typed binary expression; Ty is precomputed by the binder via
// either types.MaxLogicalType (arithmetic) or types.Boolean (comparison,
// logical).
type Binary struct {
	Op    BinaryOp
	Left  ScalarExpression
	Right ScalarExpression
	Ty    types.LogicalType
}

func NewBinary(op BinaryOp, left, right ScalarExpression, ty types.LogicalType) *Binary {
	return &Binary{Op: op, Left: left, Right: right, Ty: ty}
}

func (b *Binary) ReturnType() types.LogicalType { return b.Ty }

func (b *Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op.String() + " " + b.Right.String() + ")"
}

func (b *Binary) EvalColumn(t tuple.Tuple) (types.Value, error) {
	left, err := b.Left.EvalColumn(t)
	if err != nil {
		return types.Value{}, err
	}
	right, err := b.Right.EvalColumn(t)
	if err != nil {
		return types.Value{}, err
	}

	switch b.Op {
	case And:
		return evalAnd(left, right)
	case Or:
		return evalOr(left, right)
	}

	if b.Op.IsArithmetic() {
		if left.IsNull() || right.IsNull() {
			return types.None(b.Ty), nil
		}
		lc, err := left.Cast(b.Ty)
		if err != nil {
			return types.Value{}, err
		}
		rc, err := right.Cast(b.Ty)
		if err != nil {
			return types.Value{}, err
		}
		return evalArithmetic(b.Op, lc, rc, b.Ty)
	}

	// Comparison and XOR: NULL propagates.
	if left.IsNull() || right.IsNull() {
		return types.None(types.Boolean), nil
	}
	switch b.Op {
	case Xor:
		lb, err := left.Cast(types.Boolean)
		if err != nil {
			return types.Value{}, err
		}
		rb, err := right.Cast(types.Boolean)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewBoolean(lb.Raw().(bool) != rb.Raw().(bool)), nil
	default:
		commonTy, err := types.MaxLogicalType(left.LogicalType(), right.LogicalType())
		if err != nil {
			return types.Value{}, err
		}
		lc, err := left.Cast(commonTy)
		if err != nil {
			return types.Value{}, err
		}
		rc, err := right.Cast(commonTy)
		if err != nil {
			return types.Value{}, err
		}
		cmp := lc.Compare(rc)
		switch b.Op {
		case Gt:
			return types.NewBoolean(cmp > 0), nil
		case Lt:
			return types.NewBoolean(cmp < 0), nil
		case GtEq:
			return types.NewBoolean(cmp >= 0), nil
		case LtEq:
			return types.NewBoolean(cmp <= 0), nil
		case Eq:
			return types.NewBoolean(cmp == 0), nil
		case NotEq:
			return types.NewBoolean(cmp != 0), nil
		default:
			return types.Value{}, dberr.ErrUnsupportedExpr.New(b.Op.String())
		}
	}
}

// evalAnd implements three-valued AND: NULL AND false = false, everything
// else involving NULL = NULL.
func evalAnd(left, right types.Value) (types.Value, error) {
	lb, lNull := boolOrNull(left)
	rb, rNull := boolOrNull(right)
	if !lNull && !lb {
		return types.NewBoolean(false), nil
	}
	if !rNull && !rb {
		return types.NewBoolean(false), nil
	}
	if lNull || rNull {
		return types.None(types.Boolean), nil
	}
	return types.NewBoolean(lb && rb), nil
}

// evalOr implements three-valued OR: NULL OR true = true, everything else
// involving NULL = NULL.
func evalOr(left, right types.Value) (types.Value, error) {
	lb, lNull := boolOrNull(left)
	rb, rNull := boolOrNull(right)
	if !lNull && lb {
		return types.NewBoolean(true), nil
	}
	if !rNull && rb {
		return types.NewBoolean(true), nil
	}
	if lNull || rNull {
		return types.None(types.Boolean), nil
	}
	return types.NewBoolean(lb || rb), nil
}

func boolOrNull(v types.Value) (bool, bool) {
	if v.IsNull() {
		return false, true
	}
	b, err := v.Cast(types.Boolean)
	if err != nil {
		return false, true
	}
	return b.Raw().(bool), false
}

func evalArithmetic(op BinaryOp, left, right types.Value, ty types.LogicalType) (types.Value, error) {
	if ty == types.Decimal {
		l := left.Raw().(decimal.Decimal)
		r := right.Raw().(decimal.Decimal)
		var result decimal.Decimal
		switch op {
		case Plus:
			result = l.Add(r)
		case Minus:
			result = l.Sub(r)
		case Multiply:
			result = l.Mul(r)
		case Divide:
			if r.IsZero() {
				return types.None(ty), nil
			}
			result = l.Div(r)
		case Modulo:
			result = l.Mod(r)
		}
		return types.NewDecimal(result), nil
	}

	lf := asFloat(left)
	rf := asFloat(right)
	var result float64
	switch op {
	case Plus:
		result = lf + rf
	case Minus:
		result = lf - rf
	case Multiply:
		result = lf * rf
	case Divide:
		if rf == 0 {
			return types.None(ty), nil
		}
		result = lf / rf
	case Modulo:
		if rf == 0 {
			return types.None(ty), nil
		}
		result = float64(int64(lf) % int64(rf))
	}
	return types.NewDouble(result).Cast(ty)
}

func asFloat(v types.Value) float64 {
	f, err := v.Cast(types.Double)
	if err != nil {
		return 0
	}
	return f.Raw().(float64)
}
