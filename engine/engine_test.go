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

package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewiszlw/KipSQL/ast"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/engine"
	"github.com/lewiszlw/KipSQL/internal/config"
	"github.com/lewiszlw/KipSQL/types"
)

func newEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.OpenMemory(config.Default())
}

func createUsers(t *testing.T, e *engine.Engine) {
	t.Helper()
	_, err := e.Run(context.Background(), ast.CreateTable{
		Table: "users",
		Columns: []ast.ColumnDef{
			{Name: "id", Type: types.Integer, IsPrimary: true},
			{Name: "name", Type: types.Utf8, Nullable: true},
		},
	})
	require.NoError(t, err)
}

func insertUser(t *testing.T, e *engine.Engine, id int64, name string) {
	t.Helper()
	_, err := e.Run(context.Background(), ast.Insert{
		Table: "users",
		Rows: []ast.InsertRow{{Values: []ast.Expr{
			ast.Value{Text: itoa(id)},
			ast.Value{Text: name, IsString: true},
		}}},
	})
	require.NoError(t, err)
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var digits []byte
	for v > 0 {
		digits = append([]byte{byte('0' + v%10)}, digits...)
		v /= 10
	}
	if neg {
		digits = append([]byte{'-'}, digits...)
	}
	return string(digits)
}

func TestEngine_CreateInsertSelect(t *testing.T) {
	e := newEngine(t)
	createUsers(t, e)
	insertUser(t, e, 1, "alice")
	insertUser(t, e, 2, "bob")

	result, err := e.Run(context.Background(), ast.Select{
		Projection: []ast.SelectItem{{Expr: ast.Identifier{Name: "name"}}},
		From:       ast.TableRef{Table: "users"},
	})
	require.NoError(t, err)
	assert.True(t, result.IsQuery)
	require.Len(t, result.Rows, 2)
}

func TestEngine_InsertReportsRowsAffected(t *testing.T) {
	e := newEngine(t)
	createUsers(t, e)

	result, err := e.Run(context.Background(), ast.Insert{
		Table: "users",
		Rows: []ast.InsertRow{
			{Values: []ast.Expr{ast.Value{Text: "1"}, ast.Value{Text: "alice", IsString: true}}},
			{Values: []ast.Expr{ast.Value{Text: "2"}, ast.Value{Text: "bob", IsString: true}}},
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsQuery)
	assert.EqualValues(t, 2, result.RowsAffected)
}

func TestEngine_WhereFiltersRows(t *testing.T) {
	e := newEngine(t)
	createUsers(t, e)
	insertUser(t, e, 1, "alice")
	insertUser(t, e, 2, "bob")

	result, err := e.Run(context.Background(), ast.Select{
		Projection: []ast.SelectItem{{Expr: ast.Identifier{Name: "id"}}},
		From:       ast.TableRef{Table: "users"},
		Where: ast.BinaryOp{
			Left:  ast.Identifier{Name: "id"},
			Op:    ast.OpEq,
			Right: ast.Value{Text: "2"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, types.NewInteger(2), result.Rows[0].Values[0])
}

func TestEngine_UnknownTable_ReturnsBindError(t *testing.T) {
	e := newEngine(t)
	_, err := e.Run(context.Background(), ast.Select{
		Projection: []ast.SelectItem{{Expr: ast.Identifier{Name: "id"}}},
		From:       ast.TableRef{Table: "ghost"},
	})
	require.Error(t, err)
	de, ok := err.(*dberr.DatabaseError)
	require.True(t, ok)
	assert.Equal(t, dberr.ClassBind, de.Class())
}

func TestEngine_DeleteReportsRowsAffected(t *testing.T) {
	e := newEngine(t)
	createUsers(t, e)
	insertUser(t, e, 1, "alice")
	insertUser(t, e, 2, "bob")

	result, err := e.Run(context.Background(), ast.Delete{
		Table: "users",
		Where: ast.BinaryOp{
			Left:  ast.Identifier{Name: "id"},
			Op:    ast.OpEq,
			Right: ast.Value{Text: "1"},
		},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.RowsAffected)

	remaining, err := e.Run(context.Background(), ast.Select{
		Projection: []ast.SelectItem{{Expr: ast.Identifier{Name: "id"}}},
		From:       ast.TableRef{Table: "users"},
	})
	require.NoError(t, err)
	require.Len(t, remaining.Rows, 1)
}
