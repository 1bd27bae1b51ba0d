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

// Package tuple defines the Tuple type that flows between operators: a row
// plus the schema it was produced under.
package tuple

import (
	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/types"
)

// Tuple is a row plus the schema it was produced under. Columns and Values
// are always the same length; a Tuple may carry a strict subset of a
// table's columns (a projection), or a synthesized column list (a join
// output) with forced-nullable overrides.
type Tuple struct {
	ID      *types.Value // the primary-key value, nil if the tuple has none (e.g. join output)
	Columns []*catalog.Column
	Values  []types.Value
}

// ValueOf returns the value stored for the column with the given id, and
// whether that column was present in this tuple's schema at all. Tuples may
// carry a subset of a table's columns, so callers must be prepared for a
// miss and substitute a NULL of the expected type (see
// ScalarExpression.ColumnRef in package expression).
func (t Tuple) ValueOf(id catalog.ColumnID) (types.Value, bool) {
	for i, c := range t.Columns {
		if c.HasID() && c.ID == id {
			return t.Values[i], true
		}
	}
	return types.Value{}, false
}

// Clone returns a shallow copy of the tuple with independently mutable
// Columns/Values slices, used by operators (e.g. Update applying its
// assignments) that need to rewrite a subset of a tuple's values without
// disturbing the original.
func (t Tuple) Clone() Tuple {
	cols := make([]*catalog.Column, len(t.Columns))
	copy(cols, t.Columns)
	vals := make([]types.Value, len(t.Values))
	copy(vals, t.Values)
	return Tuple{ID: t.ID, Columns: cols, Values: vals}
}
