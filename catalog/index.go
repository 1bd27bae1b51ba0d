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

import "github.com/lewiszlw/KipSQL/types"

// IndexID identifies an index within a table.
type IndexID uint32

// IndexMeta describes an index: the columns it covers and whether it
// enforces uniqueness.
type IndexMeta struct {
	ID        IndexID
	Name      string
	ColumnIDs []ColumnID
	IsUnique  bool
}

// Index is a single index entry: the indexed column values for one row.
type Index struct {
	ID           IndexID
	ColumnValues []types.Value
}
