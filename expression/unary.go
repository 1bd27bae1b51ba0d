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

	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

type UnaryOp int

const (
	Not UnaryOp = iota
	UnaryPlus
	UnaryMinus
	IsNull
	IsNotNull
)

func (op UnaryOp) String() string {
	switch op {
	case Not:
		return "NOT"
	case UnaryPlus:
		return "+"
	case UnaryMinus:
		return "-"
	case IsNull:
		return "IS NULL"
	case IsNotNull:
		return "IS NOT NULL"
	default:
		return "?"
	}
}

// Unary is a typed unary expression. NOT, IS NULL and IS NOT NULL always
// yield Boolean; numeric unary +/- preserve the operand's type.
type Unary struct {
	Op   UnaryOp
	Expr ScalarExpression
	Ty   types.LogicalType
}

func NewUnary(op UnaryOp, expr ScalarExpression, ty types.LogicalType) *Unary {
	return &Unary{Op: op, Expr: expr, Ty: ty}
}

func (u *Unary) ReturnType() types.LogicalType { return u.Ty }
func (u *Unary) String() string {
	if u.Op == IsNull || u.Op == IsNotNull {
		return u.Expr.String() + " " + u.Op.String()
	}
	return u.Op.String() + u.Expr.String()
}

func (u *Unary) EvalColumn(t tuple.Tuple) (types.Value, error) {
	v, err := u.Expr.EvalColumn(t)
	if err != nil {
		return types.Value{}, err
	}

	switch u.Op {
	case IsNull:
		return types.NewBoolean(v.IsNull()), nil
	case IsNotNull:
		return types.NewBoolean(!v.IsNull()), nil
	case Not:
		if v.IsNull() {
			return types.None(types.Boolean), nil
		}
		b, err := v.Cast(types.Boolean)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewBoolean(!b.Raw().(bool)), nil
	case UnaryPlus:
		return v, nil
	case UnaryMinus:
		if v.IsNull() {
			return types.None(u.Ty), nil
		}
		return negate(v)
	default:
		return types.Value{}, nil
	}
}

func negate(v types.Value) (types.Value, error) {
	switch p := v.Raw().(type) {
	case int8:
		return types.NewTinyInt(-p), nil
	case int16:
		return types.NewSmallInt(-p), nil
	case int32:
		return types.NewInteger(-p), nil
	case int64:
		return types.NewBigInt(-p), nil
	case float32:
		return types.NewFloat(-p), nil
	case float64:
		return types.NewDouble(-p), nil
	case decimal.Decimal:
		return types.NewDecimal(p.Neg()), nil
	default:
		f, err := v.Cast(types.Double)
		if err != nil {
			return types.Value{}, err
		}
		return types.NewDouble(-f.Raw().(float64)), nil
	}
}
