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

package binder_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewiszlw/KipSQL/ast"
	"github.com/lewiszlw/KipSQL/binder"
	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/storage/memstore"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

func emptyTuple() tuple.Tuple { return tuple.Tuple{} }

func newTestStorage(t *testing.T) *memstore.Store {
	t.Helper()
	s := memstore.New()
	_, err := s.CreateTable("t1", []*catalog.Column{
		catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)),
		catalog.NewColumn("c1", true, catalog.NewColumnDesc(types.Integer, false, false)),
	})
	require.NoError(t, err)
	_, err = s.CreateTable("t2", []*catalog.Column{
		catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)),
		catalog.NewColumn("c1", true, catalog.NewColumnDesc(types.Decimal, false, false)),
	})
	require.NoError(t, err)
	return s
}

func TestResolveColumn_Unqualified(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	_, err := ctx.BindTable("t1", "", binder.RoleLeft)
	require.NoError(t, err)

	expr, err := binder.BindExpr(ctx, ast.Identifier{Name: "c1"})
	require.NoError(t, err)
	assert.Equal(t, types.Integer, expr.ReturnType())
}

func TestResolveColumn_Ambiguous(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	_, err := ctx.BindTable("t1", "", binder.RoleLeft)
	require.NoError(t, err)
	_, err = ctx.BindTable("t2", "", binder.RoleRight)
	require.NoError(t, err)

	_, err = binder.BindExpr(ctx, ast.Identifier{Name: "id"})
	require.Error(t, err)
	assert.True(t, dberr.ErrAmbiguousColumn.Is(err))
}

func TestResolveColumn_Qualified(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	_, err := ctx.BindTable("t1", "a", binder.RoleLeft)
	require.NoError(t, err)
	_, err = ctx.BindTable("t2", "b", binder.RoleRight)
	require.NoError(t, err)

	expr, err := binder.BindExpr(ctx, ast.CompoundIdentifier{Idents: []string{"b", "c1"}})
	require.NoError(t, err)
	assert.Equal(t, types.Decimal, expr.ReturnType())
}

func TestResolveColumn_InvalidTable(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	_, err := ctx.BindTable("t1", "a", binder.RoleLeft)
	require.NoError(t, err)

	_, err = binder.BindExpr(ctx, ast.CompoundIdentifier{Idents: []string{"nope", "c1"}})
	require.Error(t, err)
	assert.True(t, dberr.ErrInvalidTable.Is(err))
}

func TestResolveColumn_InvalidColumn(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	_, err := ctx.BindTable("t1", "", binder.RoleLeft)
	require.NoError(t, err)

	_, err = binder.BindExpr(ctx, ast.Identifier{Name: "nope"})
	require.Error(t, err)
	assert.True(t, dberr.ErrInvalidColumn.Is(err))
}

func TestBindBinaryOp_TypePromotion(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)

	expr, err := binder.BindExpr(ctx, ast.BinaryOp{
		Left:  ast.Value{Text: "1"},
		Op:    ast.OpPlus,
		Right: ast.Value{Text: "2.5"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.Decimal, expr.ReturnType())

	v, err := expr.EvalColumn(emptyTuple())
	require.NoError(t, err)
	assert.Equal(t, "3.5", v.String())
}

func TestBindBinaryOp_Comparison_IsBoolean(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	expr, err := binder.BindExpr(ctx, ast.BinaryOp{
		Left:  ast.Value{Text: "1"},
		Op:    ast.OpLt,
		Right: ast.Value{Text: "2"},
	})
	require.NoError(t, err)
	assert.Equal(t, types.Boolean, expr.ReturnType())
}

func TestBindBetween(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	expr, err := binder.BindExpr(ctx, ast.Between{
		Expr: ast.Value{Text: "5"},
		Low:  ast.Value{Text: "1"},
		High: ast.Value{Text: "10"},
	})
	require.NoError(t, err)
	v, err := expr.EvalColumn(emptyTuple())
	require.NoError(t, err)
	assert.Equal(t, types.NewBoolean(true), v)
}

func TestBindFunction_CountWildcard(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	expr, err := binder.BindExpr(ctx, ast.Function{
		Name: "count",
		Args: []ast.FunctionArg{{Wildcard: true}},
	})
	require.NoError(t, err)
	assert.Equal(t, types.Integer, expr.ReturnType())
}

func TestBindFunction_Unknown(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	_, err := binder.BindExpr(ctx, ast.Function{Name: "nope"})
	require.Error(t, err)
	assert.True(t, dberr.ErrUnsupportedExpr.Is(err))
}

func TestBindSelectItem_Alias(t *testing.T) {
	s := newTestStorage(t)
	ctx := binder.NewBindContext(s)
	_, err := ctx.BindTable("t1", "", binder.RoleLeft)
	require.NoError(t, err)

	bound, err := binder.BindSelectItem(ctx, ast.SelectItem{Expr: ast.Identifier{Name: "c1"}, Alias: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "c1 AS renamed", bound.String())

	// The alias is now resolvable as a bare identifier for e.g. a HAVING
	// clause referencing a SELECT alias.
	resolved, err := binder.BindExpr(ctx, ast.Identifier{Name: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, types.Integer, resolved.ReturnType())
}
