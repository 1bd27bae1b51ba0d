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

package catalog_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/types"
)

func TestNewTable_AssignsSequentialColumnIDs(t *testing.T) {
	cols := []*catalog.Column{
		catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)),
		catalog.NewColumn("name", true, catalog.NewColumnDesc(types.Utf8, false, false)),
	}
	table, err := catalog.NewTable("widgets", cols)
	require.NoError(t, err)

	want := []*catalog.Column{
		catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)).WithID(1),
		catalog.NewColumn("name", true, catalog.NewColumnDesc(types.Utf8, false, false)).WithID(2),
	}
	if diff := cmp.Diff(want, table.Columns, cmp.AllowUnexported(catalog.Column{})); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTable_RequiresExactlyOnePrimaryKey(t *testing.T) {
	_, err := catalog.NewTable("nopk", []*catalog.Column{
		catalog.NewColumn("a", false, catalog.NewColumnDesc(types.Integer, false, false)),
	})
	require.Error(t, err)

	_, err = catalog.NewTable("twopk", []*catalog.Column{
		catalog.NewColumn("a", false, catalog.NewColumnDesc(types.Integer, true, false)),
		catalog.NewColumn("b", false, catalog.NewColumnDesc(types.Integer, true, false)),
	})
	require.Error(t, err)
}

func TestRoot_AddTable_RejectsDuplicateName(t *testing.T) {
	root := catalog.NewRoot()
	cols := []*catalog.Column{
		catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)),
	}
	_, err := root.AddTable("widgets", cols)
	require.NoError(t, err)

	_, err = root.AddTable("WIDGETS", cols)
	require.Error(t, err, "table names are matched case-insensitively")
}

func TestRoot_AddTable_BuildsUniqueIndices(t *testing.T) {
	root := catalog.NewRoot()
	cols := []*catalog.Column{
		catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)),
		catalog.NewColumn("email", false, catalog.NewColumnDesc(types.Utf8, false, true)),
	}
	table, err := root.AddTable("users", cols)
	require.NoError(t, err)

	require.Len(t, table.Indices, 1)
	idx, ok := table.UniqueIndexFor(table.Columns[1].ID)
	require.True(t, ok)
	assert.Equal(t, []catalog.ColumnID{table.Columns[1].ID}, idx.ColumnIDs)
}

func TestRoot_ShowTables_SortedByName(t *testing.T) {
	root := catalog.NewRoot()
	pkCol := func() []*catalog.Column {
		return []*catalog.Column{catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false))}
	}
	_, err := root.AddTable("zebra", pkCol())
	require.NoError(t, err)
	_, err = root.AddTable("apple", pkCol())
	require.NoError(t, err)

	assert.Equal(t, []string{"apple", "zebra"}, root.ShowTables())
}
