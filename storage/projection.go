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

package storage

import (
	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// ApplyProjection evaluates each projection expression against raw and
// returns the narrowed tuple, decrementing *remaining (when non-nil) by one.
// Shared by every Transaction implementation's Read iterator so the
// offset/limit/projection discipline in §4.3 is identical across backends.
func ApplyProjection(remaining *int64, projections Projections, raw tuple.Tuple) (tuple.Tuple, error) {
	if remaining != nil {
		*remaining--
	}
	if len(projections) == 0 {
		return raw, nil
	}

	cols := make([]*catalog.Column, len(projections))
	vals := make([]types.Value, len(projections))
	for i, expr := range projections {
		v, err := expr.EvalColumn(raw)
		if err != nil {
			return tuple.Tuple{}, err
		}
		vals[i] = v
		cols[i] = projectionColumn(expr)
	}
	return tuple.Tuple{ID: raw.ID, Columns: cols, Values: vals}, nil
}

// projectionColumn recovers a display column for a projected expression: a
// ColumnRef/Alias keeps its underlying catalog column, anything else
// synthesizes a nullable column named after the expression's rendered form
// and carrying its type.
func projectionColumn(expr expression.ScalarExpression) *catalog.Column {
	switch e := expr.(type) {
	case *expression.ColumnRef:
		return e.Column
	case *expression.Alias:
		col := projectionColumn(e.Expr)
		clone := *col
		clone.Name = e.Name
		return &clone
	default:
		return catalog.NewColumn(expr.String(), true, catalog.NewColumnDesc(expr.ReturnType(), false, false))
	}
}
