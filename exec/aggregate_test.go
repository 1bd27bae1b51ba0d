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

// salesFixture builds sales(region TEXT, amount INT) with two regions, so
// GROUP BY region exercises more than one accumulator bucket.
func salesFixture() ([]*catalog.Column, [][]types.Value) {
	region := catalog.NewColumn("region", false, catalog.NewColumnDesc(types.Utf8, false, false)).WithID(1)
	amount := catalog.NewColumn("amount", false, catalog.NewColumnDesc(types.Integer, false, false)).WithID(2)
	cols := []*catalog.Column{region, amount}
	rows := [][]types.Value{
		{types.NewUtf8("east"), types.NewInteger(10)},
		{types.NewUtf8("east"), types.NewInteger(20)},
		{types.NewUtf8("west"), types.NewInteger(5)},
	}
	return cols, rows
}

func TestAggregate_GroupBySum(t *testing.T) {
	cols, rows := salesFixture()
	values := exec.NewValues(cols, rows)

	groupExprs := []expression.ScalarExpression{expression.NewColumnRef(cols[0])}
	sumCall := expression.NewAggCall(expression.Sum, false, []expression.ScalarExpression{expression.NewColumnRef(cols[1])})
	outCols := []*catalog.Column{cols[0], catalog.NewColumn("sum_amount", true, catalog.NewColumnDesc(types.Integer, false, false)).WithID(3)}

	agg := exec.NewAggregate(values, groupExprs, []*expression.AggCall{sumCall}, outCols, nil)
	rowsOut, err := exec.Collect(context.Background(), agg)
	require.NoError(t, err)
	require.Len(t, rowsOut, 2)

	totals := map[string]types.Value{}
	for _, r := range rowsOut {
		totals[r.Values[0].String()] = r.Values[1]
	}
	assert.Equal(t, "30", totals["east"].String())
	assert.Equal(t, "5", totals["west"].String())
}

func TestAggregate_CountStar_EmptyInput(t *testing.T) {
	cols, _ := salesFixture()
	values := exec.NewValues(cols, nil)

	countCall := expression.NewAggCall(expression.Count, false, []expression.ScalarExpression{expression.WildcardConstant()})
	outCols := []*catalog.Column{catalog.NewColumn("n", false, catalog.NewColumnDesc(types.Integer, false, false)).WithID(1)}

	agg := exec.NewAggregate(values, nil, []*expression.AggCall{countCall}, outCols, nil)
	rowsOut, err := exec.Collect(context.Background(), agg)
	require.NoError(t, err)
	require.Len(t, rowsOut, 1, "no GROUP BY and no rows still yields one group")
	assert.Equal(t, types.NewInteger(0), rowsOut[0].Values[0])
}

func TestAggregate_Having(t *testing.T) {
	cols, rows := salesFixture()
	values := exec.NewValues(cols, rows)

	groupExprs := []expression.ScalarExpression{expression.NewColumnRef(cols[0])}
	sumCall := expression.NewAggCall(expression.Sum, false, []expression.ScalarExpression{expression.NewColumnRef(cols[1])})
	outCols := []*catalog.Column{cols[0], catalog.NewColumn("sum_amount", true, catalog.NewColumnDesc(types.Integer, false, false)).WithID(3)}

	having := expression.NewBinary(expression.Gt,
		expression.NewColumnRef(outCols[1]),
		expression.NewConstant(types.NewInteger(10)),
		types.Boolean,
	)

	agg := exec.NewAggregate(values, groupExprs, []*expression.AggCall{sumCall}, outCols, having)
	rowsOut, err := exec.Collect(context.Background(), agg)
	require.NoError(t, err)
	require.Len(t, rowsOut, 1)
	assert.Equal(t, "east", rowsOut[0].Values[0].String())
}

func TestAggregate_MinMaxDistinct(t *testing.T) {
	cols, rows := salesFixture()
	values := exec.NewValues(cols, rows)

	minCall := expression.NewAggCall(expression.Min, false, []expression.ScalarExpression{expression.NewColumnRef(cols[1])})
	maxCall := expression.NewAggCall(expression.Max, false, []expression.ScalarExpression{expression.NewColumnRef(cols[1])})
	countDistinct := expression.NewAggCall(expression.Count, true, []expression.ScalarExpression{expression.NewColumnRef(cols[0])})
	outCols := []*catalog.Column{
		catalog.NewColumn("min_amount", false, catalog.NewColumnDesc(types.Integer, false, false)).WithID(1),
		catalog.NewColumn("max_amount", false, catalog.NewColumnDesc(types.Integer, false, false)).WithID(2),
		catalog.NewColumn("distinct_regions", false, catalog.NewColumnDesc(types.Integer, false, false)).WithID(3),
	}

	agg := exec.NewAggregate(values, nil, []*expression.AggCall{minCall, maxCall, countDistinct}, outCols, nil)
	rowsOut, err := exec.Collect(context.Background(), agg)
	require.NoError(t, err)
	require.Len(t, rowsOut, 1)
	assert.Equal(t, types.NewInteger(5), rowsOut[0].Values[0])
	assert.Equal(t, types.NewInteger(20), rowsOut[0].Values[1])
	assert.Equal(t, types.NewInteger(2), rowsOut[0].Values[2])
}
