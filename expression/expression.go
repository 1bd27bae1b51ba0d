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

// Package expression implements the typed scalar expression tree the binder
// produces and the operator pipeline evaluates.
package expression

import (
	"fmt"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// ScalarExpression is the tagged-variant contract every node of the bound
// expression tree satisfies. ReturnType is total: every non-terminal
// expression carries a precomputed type consistent with its operator's
// promotion rule, computed once at bind time.
type ScalarExpression interface {
	ReturnType() types.LogicalType
	// EvalColumn evaluates the expression against a tuple, resolving
	// ColumnRef nodes by catalog.ColumnID rather than position so the same
	// expression evaluates correctly against tuples with wider synthesized
	// column sets (e.g. join outputs).
	EvalColumn(t tuple.Tuple) (types.Value, error)
	fmt.Stringer
}

// Constant wraps a literal value.
type Constant struct {
	Value types.Value
}

func NewConstant(v types.Value) *Constant { return &Constant{Value: v} }

func (c *Constant) ReturnType() types.LogicalType { return c.Value.LogicalType() }
func (c *Constant) EvalColumn(tuple.Tuple) (types.Value, error) {
	return c.Value, nil
}
func (c *Constant) String() string { return c.Value.String() }

// ColumnRef resolves by catalog.ColumnID against the tuple's column list at
// evaluation time; when the id is absent from the tuple's schema (a
// narrower projection than this expression expects) it yields NULL of the
// column's declared type rather than failing.
type ColumnRef struct {
	Column *catalog.Column
}

func NewColumnRef(c *catalog.Column) *ColumnRef { return &ColumnRef{Column: c} }

func (c *ColumnRef) ReturnType() types.LogicalType { return c.Column.DataType() }

func (c *ColumnRef) EvalColumn(t tuple.Tuple) (types.Value, error) {
	if !c.Column.HasID() {
		return types.None(c.Column.DataType()), nil
	}
	if v, ok := t.ValueOf(c.Column.ID); ok {
		return v, nil
	}
	return types.None(c.Column.DataType()), nil
}

func (c *ColumnRef) String() string { return c.Column.Name }

// InputRef is a positional reference into a tuple, used once planning has
// fixed a tuple's shape (e.g. after a projection).
type InputRef struct {
	Index int
	Ty    types.LogicalType
}

func NewInputRef(index int, ty types.LogicalType) *InputRef {
	return &InputRef{Index: index, Ty: ty}
}

func (r *InputRef) ReturnType() types.LogicalType { return r.Ty }

func (r *InputRef) EvalColumn(t tuple.Tuple) (types.Value, error) {
	if r.Index < 0 || r.Index >= len(t.Values) {
		return types.None(r.Ty), nil
	}
	return t.Values[r.Index], nil
}

func (r *InputRef) String() string { return fmt.Sprintf("$%d", r.Index) }

// Alias forwards evaluation and type to its inner expression, carrying only
// a display name of its own.
type Alias struct {
	Expr  ScalarExpression
	Name  string
}

func NewAlias(expr ScalarExpression, name string) *Alias {
	return &Alias{Expr: expr, Name: name}
}

func (a *Alias) ReturnType() types.LogicalType { return a.Expr.ReturnType() }
func (a *Alias) EvalColumn(t tuple.Tuple) (types.Value, error) {
	return a.Expr.EvalColumn(t)
}
func (a *Alias) String() string { return a.Expr.String() + " AS " + a.Name }
