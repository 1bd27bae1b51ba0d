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

package exec_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/exec"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/types"
)

func numbersFixture() ([]*catalog.Column, [][]types.Value) {
	n := catalog.NewColumn("n", false, catalog.NewColumnDesc(types.Integer, false, false)).WithID(1)
	cols := []*catalog.Column{n}
	rows := [][]types.Value{
		{types.NewInteger(1)},
		{types.NewInteger(2)},
		{types.NewInteger(3)},
		{types.NewInteger(4)},
	}
	return cols, rows
}

func TestFilter_DropsFalseAndNull(t *testing.T) {
	cols, rows := numbersFixture()
	rows = append(rows, []types.Value{types.None(types.Integer)})
	values := exec.NewValues(cols, rows)

	pred := expression.NewBinary(expression.Gt,
		expression.NewColumnRef(cols[0]),
		expression.NewConstant(types.NewInteger(2)),
		types.Boolean,
	)
	f := exec.NewFilter(values, pred)
	out, err := exec.Collect(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, types.NewInteger(3), out[0].Values[0])
	assert.Equal(t, types.NewInteger(4), out[1].Values[0])
}

func TestFilter_NonBooleanPredicateErrors(t *testing.T) {
	cols, rows := numbersFixture()
	values := exec.NewValues(cols, rows)

	f := exec.NewFilter(values, expression.NewColumnRef(cols[0]))
	_, err := exec.Collect(context.Background(), f)
	require.Error(t, err)
}

func TestProjection_EvaluatesExpressions(t *testing.T) {
	cols, rows := numbersFixture()
	values := exec.NewValues(cols, rows)

	doubled := expression.NewBinary(expression.Multiply,
		expression.NewColumnRef(cols[0]),
		expression.NewConstant(types.NewInteger(2)),
		types.Integer,
	)
	outCols := []*catalog.Column{catalog.NewColumn("doubled", false, catalog.NewColumnDesc(types.Integer, false, false))}
	p := exec.NewProjection(values, []expression.ScalarExpression{doubled}, outCols)

	out, err := exec.Collect(context.Background(), p)
	require.NoError(t, err)
	require.Len(t, out, 4)
	assert.Equal(t, types.NewInteger(8), out[3].Values[0])
}
