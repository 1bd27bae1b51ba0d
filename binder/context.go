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

// Package binder resolves a parsed ast.Expr tree against a catalog into a
// typed expression.ScalarExpression tree, the way a planner would before
// handing work to the operator pipeline.
package binder

import (
	"strings"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/storage"
)

// JoinRole records which side of a join a bound table arrived from, purely
// informational for callers that need it (the binder itself resolves
// columns the same way regardless of role).
type JoinRole int

const (
	RoleNone JoinRole = iota
	RoleLeft
	RoleRight
)

// BoundTable is one entry of a BindContext's ordered table list: an alias
// (or the table's own name, if unaliased) paired with the catalog entry it
// resolves to.
type BoundTable struct {
	Alias string
	Table *catalog.Table
	Role  JoinRole
}

// BindContext is the binding environment threaded through one statement's
// worth of binding calls: the tables currently in scope, in FROM/JOIN
// order, and the projection-alias map accumulated so far in the same
// SELECT. The binder never mutates storage through this context.
type BindContext struct {
	Storage storage.Storage
	Tables  []BoundTable
	Aliases map[string]expression.ScalarExpression
}

func NewBindContext(s storage.Storage) *BindContext {
	return &BindContext{Storage: s, Aliases: map[string]expression.ScalarExpression{}}
}

// BindTable resolves a table by name against storage and adds it to scope
// under the given alias (the table's own name if alias is empty), failing
// InvalidTable if it doesn't exist.
func (c *BindContext) BindTable(name, alias string, role JoinRole) (*catalog.Table, error) {
	table, ok := c.Storage.Table(name)
	if !ok {
		return nil, dberr.ErrInvalidTable.New(name)
	}
	if alias == "" {
		alias = table.Name
	}
	c.Tables = append(c.Tables, BoundTable{Alias: strings.ToLower(alias), Table: table, Role: role})
	return table, nil
}

// tableByAlias looks up a bound table by its case-folded alias.
func (c *BindContext) tableByAlias(alias string) (*catalog.Table, bool) {
	alias = strings.ToLower(alias)
	for _, bt := range c.Tables {
		if bt.Alias == alias {
			return bt.Table, true
		}
	}
	return nil, false
}

// AddAlias registers a projection alias so later expressions in the same
// SELECT list can reference it unqualified, per spec.md §4.1's "alias map"
// fallback step in unqualified column resolution.
func (c *BindContext) AddAlias(name string, expr expression.ScalarExpression) {
	c.Aliases[strings.ToLower(name)] = expr
}
