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
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"

	"context"
)

// Aggregate consumes its child to completion, grouping by an optional list
// of GROUP BY expressions (zero expressions means the whole input is one
// group) and maintaining one accumulator per AggCall per group, then
// streams one output tuple per group, optionally filtered by a HAVING
// predicate evaluated against the group's own output row.
type Aggregate struct {
	child      Operator
	groupExprs []expression.ScalarExpression
	aggCalls   []*expression.AggCall
	outCols    []*catalog.Column
	having     expression.ScalarExpression // nil means no HAVING clause

	built bool
	rows  []tuple.Tuple
	pos   int
}

func NewAggregate(child Operator, groupExprs []expression.ScalarExpression, aggCalls []*expression.AggCall, outCols []*catalog.Column, having expression.ScalarExpression) *Aggregate {
	return &Aggregate{child: child, groupExprs: groupExprs, aggCalls: aggCalls, outCols: outCols, having: having}
}

var _ Operator = (*Aggregate)(nil)

func (a *Aggregate) Name() string { return "aggregate" }

func (a *Aggregate) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, a, func(ctx context.Context) (*tuple.Tuple, error) {
		if !a.built {
			if err := a.build(ctx); err != nil {
				return nil, err
			}
			a.built = true
		}
		for a.pos < len(a.rows) {
			t := a.rows[a.pos]
			a.pos++
			if a.having == nil {
				return &t, nil
			}
			keep, err := EvalBoolean(a.having, t)
			if err != nil {
				return nil, err
			}
			if keep {
				return &t, nil
			}
		}
		return nil, nil
	})
}

type groupEntry struct {
	keyValues []types.Value
	accs      []*accState
}

func (a *Aggregate) build(ctx context.Context) error {
	groups := map[string]*groupEntry{}
	var order []string

	for {
		in, err := a.child.Next(ctx)
		if err != nil {
			return err
		}
		if in == nil {
			break
		}

		keyValues := make([]types.Value, len(a.groupExprs))
		for i, e := range a.groupExprs {
			v, err := e.EvalColumn(*in)
			if err != nil {
				return err
			}
			keyValues[i] = v
		}
		key := groupKey(keyValues)

		entry, ok := groups[key]
		if !ok {
			accs := make([]*accState, len(a.aggCalls))
			for i, call := range a.aggCalls {
				accs[i] = newAccState(call)
			}
			entry = &groupEntry{keyValues: keyValues, accs: accs}
			groups[key] = entry
			order = append(order, key)
		}

		for i, call := range a.aggCalls {
			if err := entry.accs[i].observe(*in); err != nil {
				return err
			}
		}
	}

	if len(order) == 0 && len(a.groupExprs) == 0 {
		// No rows and no GROUP BY still yields exactly one group, per
		// standard SQL aggregate semantics (e.g. COUNT(*) over an empty
		// table is 0, not zero rows).
		accs := make([]*accState, len(a.aggCalls))
		for i, call := range a.aggCalls {
			accs[i] = newAccState(call)
		}
		order = []string{""}
		groups[""] = &groupEntry{accs: accs}
	}

	for _, key := range order {
		entry := groups[key]
		values := make([]types.Value, 0, len(a.outCols))
		values = append(values, entry.keyValues...)
		for i, call := range a.aggCalls {
			v, err := entry.accs[i].finalize(call)
			if err != nil {
				return err
			}
			values = append(values, v)
		}
		a.rows = append(a.rows, tuple.Tuple{Columns: a.outCols, Values: values})
	}
	return nil
}

func (a *Aggregate) Close() error { return a.child.Close() }

// groupKey renders a group-by key vector into a string distinguishing both
// value and logical type, so e.g. the integer 1 and the string "1" never
// collide into the same group.
func groupKey(values []types.Value) string {
	var b strings.Builder
	for _, v := range values {
		b.WriteString(strconv.Itoa(int(v.LogicalType())))
		b.WriteByte(':')
		b.WriteString(v.String())
		b.WriteByte('\x1f')
	}
	return b.String()
}

// accState is the per-group, per-AggCall accumulator. Every aggregate
// function ignores NULL inputs except COUNT(*), which counts rows
// unconditionally via its wildcard sentinel argument.
type accState struct {
	kind      expression.AggKind
	distinct  bool
	wildcard  bool
	arg       expression.ScalarExpression
	count     int64
	sum       decimal.Decimal
	min, max  types.Value
	hasMinMax bool
	seen      map[string]bool
}

func newAccState(call *expression.AggCall) *accState {
	s := &accState{kind: call.Kind, distinct: call.Distinct, sum: decimal.Zero}
	if len(call.Args) > 0 {
		s.arg = call.Args[0]
	}
	if call.Kind == expression.Count && len(call.Args) == 1 {
		if c, ok := call.Args[0].(*expression.Constant); ok && c.Value.LogicalType() == types.Utf8 && c.Value.Raw() == "*" {
			s.wildcard = true
		}
	}
	if call.Distinct {
		s.seen = map[string]bool{}
	}
	return s
}

func (s *accState) observe(t tuple.Tuple) error {
	if s.wildcard {
		s.count++
		return nil
	}
	// AggCall.EvalColumn evaluates exactly its first argument, which is all
	// every supported aggregate kind needs.
	v, err := s.evalArg(t)
	if err != nil {
		return err
	}
	if v.IsNull() {
		return nil
	}
	if s.distinct {
		key := strconv.Itoa(int(v.LogicalType())) + ":" + v.String()
		if s.seen[key] {
			return nil
		}
		s.seen[key] = true
	}

	switch s.kind {
	case expression.Count:
		s.count++
	case expression.Sum, expression.Avg:
		d, err := v.Cast(types.Decimal)
		if err != nil {
			return err
		}
		s.sum = s.sum.Add(d.Raw().(decimal.Decimal))
		s.count++
	case expression.Min:
		if !s.hasMinMax || v.Compare(s.min) < 0 {
			s.min, s.hasMinMax = v, true
		}
	case expression.Max:
		if !s.hasMinMax || v.Compare(s.max) > 0 {
			s.max, s.hasMinMax = v, true
		}
	default:
		return dberr.ErrAggUnsupported.New(s.kind.String())
	}
	return nil
}

func (s *accState) evalArg(t tuple.Tuple) (types.Value, error) {
	if s.arg == nil {
		return types.Value{}, nil
	}
	return s.arg.EvalColumn(t)
}

func (s *accState) finalize(call *expression.AggCall) (types.Value, error) {
	switch s.kind {
	case expression.Count:
		return types.NewBigInt(s.count).Cast(call.Ty)
	case expression.Sum:
		if s.count == 0 {
			return types.None(call.Ty), nil
		}
		return types.NewDecimal(s.sum).Cast(call.Ty)
	case expression.Avg:
		if s.count == 0 {
			return types.None(call.Ty), nil
		}
		avg := s.sum.Div(decimal.NewFromInt(s.count))
		return types.NewDecimal(avg).Cast(call.Ty)
	case expression.Min:
		if !s.hasMinMax {
			return types.None(call.Ty), nil
		}
		return s.min.Cast(call.Ty)
	case expression.Max:
		if !s.hasMinMax {
			return types.None(call.Ty), nil
		}
		return s.max.Cast(call.Ty)
	default:
		return types.Value{}, dberr.ErrAggUnsupported.New(s.kind.String())
	}
}
