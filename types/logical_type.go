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

// Package types holds the logical type system and runtime value
// representation shared by the catalog, the scalar expression tree and the
// storage layer.
package types

import "github.com/lewiszlw/KipSQL/dberr"

// LogicalType is a tagged variant over the primitive SQL types the engine
// understands. Values of this type are comparable and may be used as map
// keys.
type LogicalType int

const (
	Invalid LogicalType = iota
	SqlNull
	Boolean
	TinyInt
	SmallInt
	Integer
	BigInt
	Float
	Double
	Decimal
	Utf8
	Date
	DateTime
)

var typeNames = map[LogicalType]string{
	Invalid:  "invalid",
	SqlNull:  "null",
	Boolean:  "boolean",
	TinyInt:  "tinyint",
	SmallInt: "smallint",
	Integer:  "integer",
	BigInt:   "bigint",
	Float:    "float",
	Double:   "double",
	Decimal:  "decimal",
	Utf8:     "varchar",
	Date:     "date",
	DateTime: "datetime",
}

func (t LogicalType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// rank orders the numeric types from narrowest to widest so that
// MaxLogicalType can pick the least upper bound by comparing ranks. Types
// outside this ladder (Boolean, Utf8, Date, DateTime) are only promotable to
// themselves or SqlNull.
var numericRank = map[LogicalType]int{
	TinyInt:  1,
	SmallInt: 2,
	Integer:  3,
	BigInt:   4,
	Float:    5,
	Double:   6,
	Decimal:  7,
}

func (t LogicalType) isNumeric() bool {
	_, ok := numericRank[t]
	return ok
}

// MaxLogicalType returns the least upper bound of a and b: the minimal type
// into which both are losslessly castable. It fails with
// dberr.ErrTypeMismatch when no such coercion exists.
func MaxLogicalType(a, b LogicalType) (LogicalType, error) {
	if a == b {
		return a, nil
	}
	if a == SqlNull {
		return b, nil
	}
	if b == SqlNull {
		return a, nil
	}
	if a.isNumeric() && b.isNumeric() {
		if numericRank[a] >= numericRank[b] {
			return a, nil
		}
		return b, nil
	}
	return Invalid, dberr.ErrTypeMismatch.New(a, b)
}
