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

package exec

import (
	"context"

	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// Filter evaluates a single Boolean predicate per input tuple, dropping
// NULL/false results and passing true results through unchanged. A
// non-Boolean predicate result is an invariant violation: Next returns it as
// an ErrNonBooleanUse error.
type Filter struct {
	child     Operator
	predicate expression.ScalarExpression
}

func NewFilter(child Operator, predicate expression.ScalarExpression) *Filter {
	return &Filter{child: child, predicate: predicate}
}

var _ Operator = (*Filter)(nil)

func (f *Filter) Name() string { return "filter" }

func (f *Filter) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, f, func(ctx context.Context) (*tuple.Tuple, error) {
		for {
			in, err := f.child.Next(ctx)
			if err != nil || in == nil {
				return nil, err
			}
			keep, err := EvalBoolean(f.predicate, *in)
			if err != nil {
				return nil, err
			}
			if keep {
				return in, nil
			}
		}
	})
}

func (f *Filter) Close() error { return f.child.Close() }

// EvalBoolean evaluates expr against t and requires a Boolean result,
// treating NULL as false per SQL WHERE-clause semantics; any other runtime
// type is the ErrNonBooleanUse invariant violation.
func EvalBoolean(expr expression.ScalarExpression, t tuple.Tuple) (bool, error) {
	v, err := expr.EvalColumn(t)
	if err != nil {
		return false, err
	}
	if v.IsNull() {
		return false, nil
	}
	if v.LogicalType() != types.Boolean {
		return false, dberr.ErrNonBooleanUse.New(expr.String())
	}
	return v.Raw().(bool), nil
}
