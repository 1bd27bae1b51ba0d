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

// t1(id INT, name TEXT) has rows {1,"a"},{2,"b"},{3,"c"}.
// t2(t1_id INT, score INT) has rows {1,10},{2,20},{4,40}.
// These are the exact fixture tables spec.md §8's join scenarios describe.
func joinFixtures() (left, right []*catalog.Column, leftRows, rightRows [][]types.Value) {
	id := catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)).WithID(1)
	name := catalog.NewColumn("name", false, catalog.NewColumnDesc(types.Utf8, false, false)).WithID(2)
	t1ID := catalog.NewColumn("t1_id", false, catalog.NewColumnDesc(types.Integer, false, false)).WithID(3)
	score := catalog.NewColumn("score", false, catalog.NewColumnDesc(types.Integer, false, false)).WithID(4)

	left = []*catalog.Column{id, name}
	right = []*catalog.Column{t1ID, score}
	leftRows = [][]types.Value{
		{types.NewInteger(1), types.NewUtf8("a")},
		{types.NewInteger(2), types.NewUtf8("b")},
		{types.NewInteger(3), types.NewUtf8("c")},
	}
	rightRows = [][]types.Value{
		{types.NewInteger(1), types.NewInteger(10)},
		{types.NewInteger(2), types.NewInteger(20)},
		{types.NewInteger(4), types.NewInteger(40)},
	}
	return
}

func buildJoin(t *testing.T, ty exec.JoinType) exec.Operator {
	t.Helper()
	leftCols, rightCols, leftRows, rightRows := joinFixtures()
	left := exec.NewValues(leftCols, leftRows)
	right := exec.NewValues(rightCols, rightRows)

	cond := exec.JoinCondition{
		HasOn: true,
		OnKeys: []exec.OnKeyPair{{
			Left:  expression.NewColumnRef(leftCols[0]),
			Right: expression.NewColumnRef(rightCols[0]),
		}},
	}
	hj, err := exec.NewHashJoin(left, right, ty, cond)
	require.NoError(t, err)
	return hj
}

func TestHashJoin_Inner(t *testing.T) {
	hj := buildJoin(t, exec.JoinInner)
	rows, err := exec.Collect(context.Background(), hj)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	for _, r := range rows {
		assert.False(t, r.Values[0].IsNull())
		assert.False(t, r.Values[2].IsNull())
	}
}

func TestHashJoin_Left(t *testing.T) {
	hj := buildJoin(t, exec.JoinLeft)
	rows, err := exec.Collect(context.Background(), hj)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	var nullRightCount int
	for _, r := range rows {
		if r.Values[2].IsNull() {
			nullRightCount++
		}
	}
	assert.Equal(t, 1, nullRightCount, "id=3 has no match on the right and must be null-padded")
}

func TestHashJoin_Right(t *testing.T) {
	hj := buildJoin(t, exec.JoinRight)
	rows, err := exec.Collect(context.Background(), hj)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	var nullLeftCount int
	for _, r := range rows {
		if r.Values[0].IsNull() {
			nullLeftCount++
		}
	}
	assert.Equal(t, 1, nullLeftCount, "t1_id=4 has no match on the left and must be null-padded")
}

func TestHashJoin_Full(t *testing.T) {
	hj := buildJoin(t, exec.JoinFull)
	rows, err := exec.Collect(context.Background(), hj)
	require.NoError(t, err)
	// 2 matched + 1 unmatched left (id=3) + 1 unmatched right (t1_id=4).
	assert.Len(t, rows, 4)
}

func TestHashJoin_CrossRejected(t *testing.T) {
	leftCols, rightCols, leftRows, rightRows := joinFixtures()
	left := exec.NewValues(leftCols, leftRows)
	right := exec.NewValues(rightCols, rightRows)
	_, err := exec.NewHashJoin(left, right, exec.JoinCross, exec.JoinCondition{HasOn: true})
	require.Error(t, err)
}

func TestHashJoin_MissingOnCondRejected(t *testing.T) {
	leftCols, rightCols, leftRows, rightRows := joinFixtures()
	left := exec.NewValues(leftCols, leftRows)
	right := exec.NewValues(rightCols, rightRows)
	_, err := exec.NewHashJoin(left, right, exec.JoinInner, exec.JoinCondition{HasOn: false})
	require.Error(t, err)
}

func TestHashJoin_FilterReapplication(t *testing.T) {
	leftCols, rightCols, leftRows, rightRows := joinFixtures()
	left := exec.NewValues(leftCols, leftRows)
	right := exec.NewValues(rightCols, rightRows)

	// score > 15 keeps only the t1_id=2/score=20 match under an Inner join.
	filter := expression.NewBinary(expression.Gt,
		expression.NewColumnRef(rightCols[1]),
		expression.NewConstant(types.NewInteger(15)),
		types.Boolean,
	)
	cond := exec.JoinCondition{
		HasOn: true,
		OnKeys: []exec.OnKeyPair{{
			Left:  expression.NewColumnRef(leftCols[0]),
			Right: expression.NewColumnRef(rightCols[0]),
		}},
		Filter: filter,
	}
	hj, err := exec.NewHashJoin(left, right, exec.JoinInner, cond)
	require.NoError(t, err)

	rows, err := exec.Collect(context.Background(), hj)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, types.NewInteger(20), rows[0].Values[3])
}
