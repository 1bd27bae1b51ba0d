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

package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/exec"
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/storage/boltstore"
	"github.com/lewiszlw/KipSQL/storage/memstore"
	"github.com/lewiszlw/KipSQL/types"
)

// backends is the set of storage.Storage implementations every storage-
// agnostic property in this file must hold for, per spec.md §8's
// "the following properties hold regardless of storage backend".
func backends(t *testing.T) map[string]storage.Storage {
	t.Helper()
	boltPath := filepath.Join(t.TempDir(), "roundtrip.db")
	bolt, err := boltstore.Open(boltPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bolt.Close() })

	return map[string]storage.Storage{
		"memstore":  memstore.New(),
		"boltstore": bolt,
	}
}

func itemsColumns() []*catalog.Column {
	return []*catalog.Column{
		catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)),
		catalog.NewColumn("label", true, catalog.NewColumnDesc(types.Utf8, false, true)),
	}
}

func TestStorage_InsertThenScan_RoundTrips(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateTable("items", itemsColumns())
			require.NoError(t, err)

			table, ok := s.Table("items")
			require.True(t, ok)
			cols := table.AllColumnsByID()

			txn, ok := s.Transaction("items")
			require.True(t, ok)

			input := exec.NewValues(cols, [][]types.Value{
				{types.NewInteger(1), types.NewUtf8("first")},
				{types.NewInteger(2), types.NewUtf8("second")},
			})
			ins := exec.NewInsert(table, txn, input, false)
			_, err = exec.Collect(context.Background(), ins)
			require.NoError(t, err)
			assert.EqualValues(t, 2, ins.RowsAffected())

			readTxn, ok := s.Transaction("items")
			require.True(t, ok)
			scan, err := exec.NewTableScan(readTxn, storage.Bounds{}, nil)
			require.NoError(t, err)
			rows, err := exec.Collect(context.Background(), scan)
			require.NoError(t, err)
			require.Len(t, rows, 2)

			labels := map[string]bool{}
			for _, r := range rows {
				labels[r.Values[1].String()] = true
			}
			assert.True(t, labels["first"])
			assert.True(t, labels["second"])
		})
	}
}

func TestStorage_DuplicatePrimaryKey_Rejected(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateTable("items", itemsColumns())
			require.NoError(t, err)
			table, _ := s.Table("items")
			cols := table.AllColumnsByID()

			txn, _ := s.Transaction("items")
			ins := exec.NewInsert(table, txn, exec.NewValues(cols, [][]types.Value{
				{types.NewInteger(1), types.NewUtf8("first")},
			}), false)
			_, err = exec.Collect(context.Background(), ins)
			require.NoError(t, err)

			txn2, _ := s.Transaction("items")
			ins2 := exec.NewInsert(table, txn2, exec.NewValues(cols, [][]types.Value{
				{types.NewInteger(1), types.NewUtf8("clash")},
			}), false)
			_, err = exec.Collect(context.Background(), ins2)
			require.Error(t, err)
		})
	}
}

func TestStorage_Overwrite_ReplacesExistingRow(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			_, err := s.CreateTable("items", itemsColumns())
			require.NoError(t, err)
			table, _ := s.Table("items")
			cols := table.AllColumnsByID()

			txn, _ := s.Transaction("items")
			ins := exec.NewInsert(table, txn, exec.NewValues(cols, [][]types.Value{
				{types.NewInteger(1), types.NewUtf8("first")},
			}), false)
			_, err = exec.Collect(context.Background(), ins)
			require.NoError(t, err)

			txn2, _ := s.Transaction("items")
			ins2 := exec.NewInsert(table, txn2, exec.NewValues(cols, [][]types.Value{
				{types.NewInteger(1), types.NewUtf8("replaced")},
			}), true)
			_, err = exec.Collect(context.Background(), ins2)
			require.NoError(t, err)

			readTxn, _ := s.Transaction("items")
			scan, err := exec.NewTableScan(readTxn, storage.Bounds{}, nil)
			require.NoError(t, err)
			rows, err := exec.Collect(context.Background(), scan)
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "replaced", rows[0].Values[1].String())
		})
	}
}

func TestStorage_NotNullViolation_RejectsRow(t *testing.T) {
	for name, s := range backends(t) {
		s := s
		t.Run(name, func(t *testing.T) {
			cols := []*catalog.Column{
				catalog.NewColumn("id", false, catalog.NewColumnDesc(types.Integer, true, false)),
				catalog.NewColumn("required", false, catalog.NewColumnDesc(types.Utf8, false, false)),
			}
			_, err := s.CreateTable("strict", cols)
			require.NoError(t, err)
			table, _ := s.Table("strict")
			tableCols := table.AllColumnsByID()

			txn, _ := s.Transaction("strict")
			// Only the id column is supplied; "required" defaults to NULL
			// and must be rejected since it's declared NOT NULL.
			input := exec.NewValues(tableCols[:1], [][]types.Value{
				{types.NewInteger(1)},
			})
			ins := exec.NewInsert(table, txn, input, false)
			_, err = exec.Collect(context.Background(), ins)
			require.Error(t, err)
		})
	}
}
