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

package exec

import (
	"context"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// Values yields a fixed in-memory row set typed by a column list: the
// source operator behind literal `INSERT ... VALUES (...)` statements, and
// the operator original_source's hash-join tests build their left/right
// inputs from directly.
type Values struct {
	columns []*catalog.Column
	rows    [][]types.Value
	pos     int
}

func NewValues(columns []*catalog.Column, rows [][]types.Value) *Values {
	return &Values{columns: columns, rows: rows}
}

var _ Operator = (*Values)(nil)

func (v *Values) Name() string { return "values" }

func (v *Values) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, v, func(context.Context) (*tuple.Tuple, error) {
		if v.pos >= len(v.rows) {
			return nil, nil
		}
		row := v.rows[v.pos]
		v.pos++
		return &tuple.Tuple{Columns: v.columns, Values: row}, nil
	})
}

func (v *Values) Close() error { return nil }
