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

package expression

import (
	"strings"

	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// AggKind enumerates the aggregate functions the binder recognizes.
type AggKind int

const (
	Count AggKind = iota
	Sum
	Min
	Max
	Avg
)

func (k AggKind) String() string {
	switch k {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case Min:
		return "min"
	case Max:
		return "max"
	case Avg:
		return "avg"
	default:
		return "?"
	}
}

// WildcardConstant is the sentinel argument COUNT(*) is rewritten to at bind
// time, giving downstream evaluation a uniform single-argument shape for
// every aggregate kind.
func WildcardConstant() ScalarExpression {
	return NewConstant(types.NewUtf8("*"))
}

// AggCall is not evaluated per-tuple via EvalColumn; it is surfaced to the
// aggregate operator, which owns accumulator state across the group. Its
// EvalColumn implementation only evaluates its arguments, for callers (like
// the planner) that need to see through to the underlying column.
type AggCall struct {
	Kind     AggKind
	Distinct bool
	Args     []ScalarExpression
	Ty       types.LogicalType
}

func NewAggCall(kind AggKind, distinct bool, args []ScalarExpression) *AggCall {
	ty := types.Integer
	if kind != Count && len(args) > 0 {
		ty = args[0].ReturnType()
	}
	return &AggCall{Kind: kind, Distinct: distinct, Args: args, Ty: ty}
}

func (a *AggCall) ReturnType() types.LogicalType { return a.Ty }

func (a *AggCall) EvalColumn(t tuple.Tuple) (types.Value, error) {
	if len(a.Args) == 0 {
		return types.None(a.Ty), nil
	}
	return a.Args[0].EvalColumn(t)
}

func (a *AggCall) String() string {
	args := make([]string, len(a.Args))
	for i, arg := range a.Args {
		args[i] = arg.String()
	}
	distinct := ""
	if a.Distinct {
		distinct = "DISTINCT "
	}
	return a.Kind.String() + "(" + distinct + strings.Join(args, ", ") + ")"
}
