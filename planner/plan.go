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

// Package planner performs the direct, rule-free AST→operator-tree
// translation that hands the binder's typed expressions to the exec
// pipeline. It is not a cost-based optimizer: one FROM/JOIN chain always
// becomes one left-deep chain of hash joins in statement order, and it does
// not reorder, push down, or rewrite for cost.
package planner

import (
	"github.com/lewiszlw/KipSQL/ast"
	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/exec"
	"github.com/lewiszlw/KipSQL/storage"
)

// Plan is the result of planning one statement. Operator is nil for DDL
// (CREATE/DROP TABLE), which the planner executes directly against
// storage. Columns names the output schema for IsQuery plans (SELECT);
// DML plans still return a drainable Operator (a sink) but IsQuery is
// false, signalling the caller to run it to completion and report rows
// affected rather than rows returned.
type Plan struct {
	Operator exec.Operator
	Columns  []*catalog.Column
	IsQuery  bool
}

// Build translates one parsed statement into a Plan against the given
// storage backend.
func Build(s storage.Storage, stmt ast.Statement) (*Plan, error) {
	switch n := stmt.(type) {
	case ast.CreateTable:
		return planCreateTable(s, n)
	case ast.DropTable:
		if err := s.DropTable(n.Table); err != nil {
			return nil, err
		}
		return &Plan{}, nil
	case ast.Select:
		return planSelect(s, n)
	case ast.Insert:
		return planInsert(s, n)
	case ast.Update:
		return planUpdate(s, n)
	case ast.Delete:
		return planDelete(s, n)
	default:
		return nil, dberr.ErrPlan.New("unknown statement type")
	}
}

func planCreateTable(s storage.Storage, n ast.CreateTable) (*Plan, error) {
	cols := make([]*catalog.Column, len(n.Columns))
	for i, cd := range n.Columns {
		desc := catalog.NewColumnDesc(cd.Type, cd.IsPrimary, cd.IsUnique)
		cols[i] = catalog.NewColumn(cd.Name, cd.Nullable, desc)
	}
	if _, err := s.CreateTable(n.Table, cols); err != nil {
		return nil, err
	}
	return &Plan{}, nil
}
