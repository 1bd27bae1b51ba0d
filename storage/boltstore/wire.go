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

package boltstore

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/types"
)

// wireValue is the gob-encodable shadow of types.Value: Value keeps its
// payload behind an unexported interface{} field, so every boltstore read
// and write goes through this explicit, typed projection instead of
// encoding Value directly.
type wireValue struct {
	Type    types.LogicalType
	IsNull  bool
	Bool    bool
	Int64   int64
	Float64 float64
	Str     string
	Time    time.Time
	Decimal string
}

func encodeValue(v types.Value) wireValue {
	w := wireValue{Type: v.LogicalType(), IsNull: v.IsNull()}
	if w.IsNull {
		return w
	}
	switch p := v.Raw().(type) {
	case bool:
		w.Bool = p
	case int8:
		w.Int64 = int64(p)
	case int16:
		w.Int64 = int64(p)
	case int32:
		w.Int64 = int64(p)
	case int64:
		w.Int64 = p
	case float32:
		w.Float64 = float64(p)
	case float64:
		w.Float64 = p
	case string:
		w.Str = p
	case time.Time:
		w.Time = p
	case decimal.Decimal:
		w.Decimal = p.String()
	}
	return w
}

func decodeValue(w wireValue) (types.Value, error) {
	if w.IsNull {
		return types.None(w.Type), nil
	}
	switch w.Type {
	case types.Boolean:
		return types.NewBoolean(w.Bool), nil
	case types.TinyInt:
		return types.NewTinyInt(int8(w.Int64)), nil
	case types.SmallInt:
		return types.NewSmallInt(int16(w.Int64)), nil
	case types.Integer:
		return types.NewInteger(int32(w.Int64)), nil
	case types.BigInt:
		return types.NewBigInt(w.Int64), nil
	case types.Float:
		return types.NewFloat(float32(w.Float64)), nil
	case types.Double:
		return types.NewDouble(w.Float64), nil
	case types.Utf8:
		return types.NewUtf8(w.Str), nil
	case types.Date:
		return types.NewDate(w.Time), nil
	case types.DateTime:
		return types.NewDateTime(w.Time), nil
	case types.Decimal:
		d, err := decimal.NewFromString(w.Decimal)
		if err != nil {
			return types.Value{}, dberr.ErrInternal.New("corrupt decimal in boltstore row: " + err.Error())
		}
		return types.NewDecimal(d), nil
	default:
		return types.None(w.Type), nil
	}
}

// encodeRow gob-encodes an ordered slice of values, the wire format for one
// bucket entry's value half.
func encodeRow(values []types.Value) ([]byte, error) {
	wire := make([]wireValue, len(values))
	for i, v := range values {
		wire[i] = encodeValue(v)
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(wire); err != nil {
		return nil, dberr.ErrInternal.New("boltstore row encode: " + err.Error())
	}
	return buf.Bytes(), nil
}

func decodeRow(data []byte) ([]types.Value, error) {
	var wire []wireValue
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&wire); err != nil {
		return nil, dberr.ErrInternal.New("boltstore row decode: " + err.Error())
	}
	values := make([]types.Value, len(wire))
	for i, w := range wire {
		v, err := decodeValue(w)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

// encodeKey renders a single value as a bucket key. Integer keys go through
// orderedIntKey and sort numerically; string keys are their raw bytes;
// float and decimal keys are their text form, which does not sort
// numerically; Boolean/date keys fall back to their gob wire form. Key order
// is not relied on: ReadByIndex filters a full table read in memory.
func encodeKey(v types.Value) ([]byte, error) {
	switch p := v.Raw().(type) {
	case int8, int16, int32, int64:
		return []byte(orderedIntKey(toInt64(p))), nil
	case float32:
		return []byte(v.String()), nil
	case float64:
		return []byte(v.String()), nil
	case string:
		return []byte(p), nil
	case decimal.Decimal:
		return []byte(p.String()), nil
	default:
		w := encodeValue(v)
		var buf bytes.Buffer
		if err := gob.NewEncoder(&buf).Encode(w); err != nil {
			return nil, dberr.ErrInternal.New("boltstore key encode: " + err.Error())
		}
		return buf.Bytes(), nil
	}
}

func toInt64(v interface{}) int64 {
	switch p := v.(type) {
	case int8:
		return int64(p)
	case int16:
		return int64(p)
	case int32:
		return int64(p)
	case int64:
		return p
	default:
		return 0
	}
}

// orderedIntKey renders a signed integer as 8 big-endian bytes with the
// sign bit flipped, so bolt's native byte-ordered b-tree iteration doubles
// as a numeric range scan (two's complement order is wrong for negative
// values unless the sign bit is flipped first).
func orderedIntKey(n int64) string {
	shifted := uint64(n) ^ (uint64(1) << 63)
	return string([]byte{
		byte(shifted >> 56), byte(shifted >> 48), byte(shifted >> 40), byte(shifted >> 32),
		byte(shifted >> 24), byte(shifted >> 16), byte(shifted >> 8), byte(shifted),
	})
}
