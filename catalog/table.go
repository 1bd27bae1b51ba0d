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

package catalog

import (
	"strings"

	uuid "github.com/satori/go.uuid"

	"github.com/lewiszlw/KipSQL/dberr"
)

// TableID is the catalog-assigned identity of a table, a UUID minted at
// CREATE TABLE time. spec.md leaves the representation of create_table's
// TableId return value unspecified; a UUID gives it concrete, storage-
// backend-independent substance.
type TableID string

func newTableID() TableID {
	return TableID(uuid.NewV4().String())
}

// Table is the catalog entry for one table: its id, its ordered columns and
// its indices. Exactly one column must have Desc.IsPrimary set.
type Table struct {
	ID      TableID
	Name    string
	Columns []*Column
	Indices []*IndexMeta
}

// NewTable assigns column ids in declaration order and validates the
// exactly-one-primary-key invariant.
func NewTable(name string, columns []*Column) (*Table, error) {
	primaryCount := 0
	assigned := make([]*Column, len(columns))
	for i, c := range columns {
		col := c.WithID(ColumnID(i + 1))
		assigned[i] = col
		if col.Desc.IsPrimary {
			primaryCount++
		}
	}
	if primaryCount != 1 {
		return nil, dberr.ErrInternal.New("table " + name + " must declare exactly one primary key column")
	}
	return &Table{
		ID:      newTableID(),
		Name:    strings.ToLower(name),
		Columns: assigned,
	}, nil
}

// ColumnByName resolves a case-folded column name within this table.
func (t *Table) ColumnByName(name string) (*Column, bool) {
	name = strings.ToLower(name)
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// PrimaryColumn returns the table's single primary-key column.
func (t *Table) PrimaryColumn() *Column {
	for _, c := range t.Columns {
		if c.Desc.IsPrimary {
			return c
		}
	}
	return nil
}

// AllColumnsByID returns the table's columns ordered by catalog id, the
// order the insert operator reconstructs rows in.
func (t *Table) AllColumnsByID() []*Column {
	out := make([]*Column, len(t.Columns))
	copy(out, t.Columns)
	return out
}

// UniqueIndexFor returns the unique-index metadata covering exactly the
// given single column, if one was declared for it.
func (t *Table) UniqueIndexFor(id ColumnID) (*IndexMeta, bool) {
	for _, idx := range t.Indices {
		if idx.IsUnique && len(idx.ColumnIDs) == 1 && idx.ColumnIDs[0] == id {
			return idx, true
		}
	}
	return nil, false
}

// AddUniqueIndex registers a single-column unique index for every column on
// the table flagged IsUnique in its ColumnDesc, called once at table
// creation time.
func (t *Table) AddUniqueIndex() {
	nextID := IndexID(len(t.Indices) + 1)
	for _, c := range t.Columns {
		if c.Desc.IsUnique {
			t.Indices = append(t.Indices, &IndexMeta{
				ID:        nextID,
				Name:      "uniq_" + t.Name + "_" + c.Name,
				ColumnIDs: []ColumnID{c.ID},
				IsUnique:  true,
			})
			nextID++
		}
	}
}
