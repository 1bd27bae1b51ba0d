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

package ast

import "github.com/lewiszlw/KipSQL/types"

// Statement is any top-level parsed statement the planner accepts.
type Statement interface {
	isStatement()
}

// ColumnDef is a single column in a CREATE TABLE statement.
type ColumnDef struct {
	Name      string
	Type      types.LogicalType
	Nullable  bool
	IsPrimary bool
	IsUnique  bool
}

type CreateTable struct {
	Table   string
	Columns []ColumnDef
}

type DropTable struct {
	Table string
}

// TableRef names one source in a FROM/JOIN clause, with an optional alias.
type TableRef struct {
	Table string
	Alias string
}

type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

// JoinClause is one `<join-type> JOIN <table> ON <cond>` step applied
// left-to-right against the accumulated FROM source.
type JoinClause struct {
	Type  JoinType
	Table TableRef
	On    Expr // nil for JoinCross
}

// SelectItem is one projected expression, with an optional output alias.
type SelectItem struct {
	Expr  Expr
	Alias string
}

type OrderByItem struct {
	Expr Expr
	Desc bool
}

type Select struct {
	Projection []SelectItem
	From       TableRef
	Joins      []JoinClause
	Where      Expr
	GroupBy    []Expr
	Having     Expr
	OrderBy    []OrderByItem
	Limit      *int64
	Offset     *int64
}

// InsertRow is one VALUES row: raw literals in target-column order.
type InsertRow struct {
	Values []Expr
}

type Insert struct {
	Table       string
	Columns     []string
	Rows        []InsertRow
	Select      *Select // non-nil for INSERT ... SELECT
	IsOverwrite bool
}

type Assignment struct {
	Column string
	Value  Expr
}

type Update struct {
	Table       string
	Assignments []Assignment
	Where       Expr
}

type Delete struct {
	Table string
	Where Expr
}

func (CreateTable) isStatement() {}
func (DropTable) isStatement()   {}
func (Select) isStatement()      {}
func (Insert) isStatement()      {}
func (Update) isStatement()      {}
func (Delete) isStatement()      {}
