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
	"sort"
	"strings"
	"sync"

	"github.com/lewiszlw/KipSQL/dberr"
)

// Root is the in-process registry of table metadata, shared read-only
// within a single query by the binder and read-write by DDL. It is safe for
// concurrent use.
type Root struct {
	mu     sync.RWMutex
	tables map[string]*Table
}

func NewRoot() *Root {
	return &Root{tables: make(map[string]*Table)}
}

// AddTable registers a new table, failing with ErrTableExists on a
// duplicate case-folded name.
func (r *Root) AddTable(name string, columns []*Column) (*Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(name)
	if _, ok := r.tables[key]; ok {
		return nil, dberr.ErrTableExists.New(name)
	}
	table, err := NewTable(name, columns)
	if err != nil {
		return nil, err
	}
	table.AddUniqueIndex()
	r.tables[key] = table
	return table, nil
}

func (r *Root) DropTable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.tables, strings.ToLower(name))
	return nil
}

func (r *Root) Table(name string) (*Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[strings.ToLower(name)]
	return t, ok
}

func (r *Root) ShowTables() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tables))
	for _, t := range r.tables {
		names = append(names, t.Name)
	}
	sort.Strings(names)
	return names
}
