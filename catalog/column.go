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

// Package catalog holds the metadata model: columns, tables and the root
// catalog that indexes them by name.
package catalog

import (
	"strings"

	"github.com/lewiszlw/KipSQL/types"
)

// ColumnID identifies a column within a table once it has been assigned by
// the catalog. The zero value means "not yet assigned".
type ColumnID uint32

// ColumnDesc carries the declarative properties of a column that don't
// change with its position in a table.
type ColumnDesc struct {
	DataType  types.LogicalType
	IsPrimary bool
	IsUnique  bool
}

func NewColumnDesc(ty types.LogicalType, isPrimary, isUnique bool) ColumnDesc {
	return ColumnDesc{DataType: ty, IsPrimary: isPrimary, IsUnique: isUnique}
}

// Column is a catalog entry for a single column. Names are case-folded to
// lowercase at construction time and only the lowercased form is stored;
// the original casing is not kept, so display also shows the lowercase name.
type Column struct {
	ID       ColumnID
	hasID    bool
	Name     string
	Nullable bool
	Desc     ColumnDesc
}

func NewColumn(name string, nullable bool, desc ColumnDesc) *Column {
	return &Column{Name: strings.ToLower(name), Nullable: nullable, Desc: desc}
}

func (c *Column) WithID(id ColumnID) *Column {
	clone := *c
	clone.ID = id
	clone.hasID = true
	return &clone
}

func (c *Column) HasID() bool { return c.hasID }

func (c *Column) DataType() types.LogicalType { return c.Desc.DataType }

// WithNullable returns a copy of the column with nullable forced to the given
// value, used by the hash-join operator to build its synthesized,
// forced-nullable join schema without mutating either side's catalog.
func (c *Column) WithNullable(nullable bool) *Column {
	clone := *c
	clone.Nullable = nullable
	return &clone
}

// ColumnRef is the shared, reference-counted handle to a Column used
// throughout tuples and expressions. Go's garbage collector plays the role
// of the Rust Arc<ColumnCatalog> the original describes: callers never
// mutate through it, they replace it via WithID/WithNullable.
type ColumnRef = *Column
