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

package types

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/lewiszlw/KipSQL/dberr"
)

// Value is a tagged, immutable runtime value parallel to LogicalType. A nil
// payload represents SQL NULL; once constructed a Value is never mutated, so
// it is safe to share across tuples and expressions.
type Value struct {
	ty      LogicalType
	payload interface{}
}

// None constructs a NULL value of the given logical type.
func None(ty LogicalType) Value {
	return Value{ty: ty}
}

func NewBoolean(v bool) Value     { return Value{ty: Boolean, payload: v} }
func NewTinyInt(v int8) Value     { return Value{ty: TinyInt, payload: v} }
func NewSmallInt(v int16) Value   { return Value{ty: SmallInt, payload: v} }
func NewInteger(v int32) Value    { return Value{ty: Integer, payload: v} }
func NewBigInt(v int64) Value     { return Value{ty: BigInt, payload: v} }
func NewFloat(v float32) Value    { return Value{ty: Float, payload: v} }
func NewDouble(v float64) Value   { return Value{ty: Double, payload: v} }
func NewUtf8(v string) Value      { return Value{ty: Utf8, payload: v} }
func NewDate(v time.Time) Value   { return Value{ty: Date, payload: v} }
func NewDateTime(v time.Time) Value {
	return Value{ty: DateTime, payload: v}
}
func NewDecimal(v decimal.Decimal) Value {
	return Value{ty: Decimal, payload: v}
}

func (v Value) LogicalType() LogicalType { return v.ty }
func (v Value) IsNull() bool             { return v.payload == nil }
func (v Value) Raw() interface{}         { return v.payload }

func (v Value) String() string {
	if v.IsNull() {
		return "NULL"
	}
	switch p := v.payload.(type) {
	case decimal.Decimal:
		return p.String()
	case time.Time:
		return p.Format(time.RFC3339)
	default:
		return fmt.Sprintf("%v", p)
	}
}

// Equal implements SQL equality semantics for values of the same type: NULL
// never equals anything, including another NULL.
func (v Value) Equal(other Value) bool {
	if v.IsNull() || other.IsNull() {
		return false
	}
	if v.ty != other.ty {
		return false
	}
	if d1, ok := v.payload.(decimal.Decimal); ok {
		d2 := other.payload.(decimal.Decimal)
		return d1.Equal(d2)
	}
	return v.payload == other.payload
}

// Compare gives a total ordering for equal-typed, non-null values: -1, 0, 1.
// It panics on a mismatched-type pair. Its result for a NULL operand is not
// defined (non-numeric types panic, numeric NULLs compare as 0); callers (the
// expression evaluator) must special-case NULLs before calling Compare.
func (v Value) Compare(other Value) int {
	if v.ty != other.ty {
		panic("types: Compare called on mismatched types")
	}
	switch v.ty {
	case Decimal:
		return v.payload.(decimal.Decimal).Cmp(other.payload.(decimal.Decimal))
	case Utf8:
		a, b := v.payload.(string), other.payload.(string)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		default:
			return 0
		}
	case Date, DateTime:
		a, b := v.payload.(time.Time), other.payload.(time.Time)
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		default:
			return 0
		}
	case Boolean:
		a, b := v.payload.(bool), other.payload.(bool)
		if a == b {
			return 0
		}
		if !a && b {
			return -1
		}
		return 1
	default:
		af, _ := cast.ToFloat64E(v.payload)
		bf, _ := cast.ToFloat64E(other.payload)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
}

// Cast converts the value to the target logical type, using
// github.com/spf13/cast for the numeric/string coercions. Casting a NULL
// value always yields a NULL of the target type. A value with no conversion
// to the target, or an integer outside a TinyInt/SmallInt/Integer target's
// range, fails with dberr.ErrCastFailed rather than silently truncating; a
// fractional part is dropped when casting to an integer type (Decimal
// sources are rounded to the nearest integer first).
func (v Value) Cast(to LogicalType) (Value, error) {
	if v.IsNull() || to == SqlNull {
		return None(to), nil
	}
	if v.ty == to {
		return v, nil
	}

	switch to {
	case Boolean:
		b, err := cast.ToBoolE(v.payload)
		if err != nil {
			return Value{}, dberr.ErrCastFailed.New(v.ty, to)
		}
		return NewBoolean(b), nil
	case TinyInt:
		i, err := castInt(v, 8)
		if err != nil {
			return Value{}, err
		}
		return NewTinyInt(int8(i)), nil
	case SmallInt:
		i, err := castInt(v, 16)
		if err != nil {
			return Value{}, err
		}
		return NewSmallInt(int16(i)), nil
	case Integer:
		i, err := castInt(v, 32)
		if err != nil {
			return Value{}, err
		}
		return NewInteger(int32(i)), nil
	case BigInt:
		i, err := castInt(v, 64)
		if err != nil {
			return Value{}, err
		}
		return NewBigInt(i), nil
	case Float:
		f, err := cast.ToFloat32E(v.payload)
		if err != nil {
			return Value{}, dberr.ErrCastFailed.New(v.ty, to)
		}
		return NewFloat(f), nil
	case Double:
		f, err := cast.ToFloat64E(v.payload)
		if err != nil {
			return Value{}, dberr.ErrCastFailed.New(v.ty, to)
		}
		return NewDouble(f), nil
	case Decimal:
		d, err := toDecimal(v)
		if err != nil {
			return Value{}, err
		}
		return NewDecimal(d), nil
	case Utf8:
		s, err := cast.ToStringE(v.payload)
		if err != nil {
			return Value{}, dberr.ErrCastFailed.New(v.ty, to)
		}
		return NewUtf8(s), nil
	default:
		return Value{}, dberr.ErrCastFailed.New(v.ty, to)
	}
}

func castInt(v Value, bits int) (int64, error) {
	var i int64
	if d, ok := v.payload.(decimal.Decimal); ok {
		i = d.Round(0).IntPart()
	} else {
		n, err := cast.ToInt64E(v.payload)
		if err != nil {
			return 0, dberr.ErrCastFailed.New(v.ty, fmt.Sprintf("int%d", bits))
		}
		i = n
	}
	if bits < 64 && (i < -(int64(1)<<(bits-1)) || i > int64(1)<<(bits-1)-1) {
		return 0, dberr.ErrCastFailed.New(v.ty, fmt.Sprintf("int%d", bits))
	}
	return i, nil
}

func toDecimal(v Value) (decimal.Decimal, error) {
	switch p := v.payload.(type) {
	case decimal.Decimal:
		return p, nil
	case string:
		d, err := decimal.NewFromString(p)
		if err != nil {
			return decimal.Decimal{}, dberr.ErrCastFailed.New(v.ty, Decimal)
		}
		return d, nil
	default:
		f, err := cast.ToFloat64E(p)
		if err != nil {
			return decimal.Decimal{}, dberr.ErrCastFailed.New(v.ty, Decimal)
		}
		return decimal.NewFromFloat(f), nil
	}
}

// ParseFromText builds a Value from the raw lexeme produced for an AST
// literal, used by the binder when it binds ast.Value nodes: a quoted lexeme
// is Utf8; an integer lexeme is Integer when it fits in 32 bits, else BigInt;
// any other numeric lexeme is Decimal; anything else falls back to Utf8.
func ParseFromText(text string, isString bool) Value {
	if isString {
		return NewUtf8(text)
	}
	if i, err := strconv.ParseInt(text, 10, 32); err == nil {
		return NewInteger(int32(i))
	}
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NewBigInt(i)
	}
	if d, err := decimal.NewFromString(text); err == nil {
		return NewDecimal(d)
	}
	return NewUtf8(text)
}
