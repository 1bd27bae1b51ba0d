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

package types_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewiszlw/KipSQL/types"
)

func TestMaxLogicalType_NumericLadder(t *testing.T) {
	cases := []struct {
		a, b, want types.LogicalType
	}{
		{types.TinyInt, types.SmallInt, types.SmallInt},
		{types.Integer, types.Decimal, types.Decimal},
		{types.BigInt, types.Float, types.Float},
		{types.Double, types.Integer, types.Double},
		{types.Integer, types.Integer, types.Integer},
	}
	for _, c := range cases {
		got, err := types.MaxLogicalType(c.a, c.b)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}
}

func TestMaxLogicalType_NullIsIdentity(t *testing.T) {
	got, err := types.MaxLogicalType(types.SqlNull, types.Utf8)
	require.NoError(t, err)
	assert.Equal(t, types.Utf8, got)

	got, err = types.MaxLogicalType(types.Boolean, types.SqlNull)
	require.NoError(t, err)
	assert.Equal(t, types.Boolean, got)
}

func TestMaxLogicalType_IncompatibleRejected(t *testing.T) {
	_, err := types.MaxLogicalType(types.Utf8, types.Integer)
	require.Error(t, err)

	_, err = types.MaxLogicalType(types.Boolean, types.Date)
	require.Error(t, err)
}

func TestValue_CastRoundTrips(t *testing.T) {
	v := types.NewInteger(42)
	big, err := v.Cast(types.BigInt)
	require.NoError(t, err)
	assert.Equal(t, types.NewBigInt(42), big)

	back, err := big.Cast(types.Integer)
	require.NoError(t, err)
	assert.Equal(t, v, back)
}

func TestValue_CastNullPreservesNullWithTargetType(t *testing.T) {
	null := types.None(types.Integer)
	cast, err := null.Cast(types.Decimal)
	require.NoError(t, err)
	assert.True(t, cast.IsNull())
	assert.Equal(t, types.Decimal, cast.LogicalType())
}

func TestValue_Compare(t *testing.T) {
	assert.True(t, types.NewInteger(1).Compare(types.NewInteger(2)) < 0)
	assert.True(t, types.NewInteger(5).Compare(types.NewInteger(5)) == 0)
	assert.True(t, types.NewUtf8("b").Compare(types.NewUtf8("a")) > 0)
}

func TestValue_EqualIgnoresNothingButValue(t *testing.T) {
	assert.True(t, types.NewInteger(7).Equal(types.NewInteger(7)))
	assert.False(t, types.NewInteger(7).Equal(types.NewInteger(8)))
}

func TestValue_ParseFromText(t *testing.T) {
	assert.Equal(t, types.Integer, types.ParseFromText("42", false).LogicalType())
	assert.Equal(t, types.Decimal, types.ParseFromText("3.14", false).LogicalType())
	assert.Equal(t, types.Utf8, types.ParseFromText("hello", true).LogicalType())
}
