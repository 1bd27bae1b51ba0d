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

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// Projection evaluates an ordered list of scalar expressions against each
// input tuple, producing an output tuple whose columns are the
// caller-supplied outCols. It evaluates the expressions itself; it does not
// go through storage.ApplyProjection, which the storage iterators use for
// their own projected reads.
type Projection struct {
	child   Operator
	exprs   []expression.ScalarExpression
	outCols []*catalog.Column
}

func NewProjection(child Operator, exprs []expression.ScalarExpression, outCols []*catalog.Column) *Projection {
	return &Projection{child: child, exprs: exprs, outCols: outCols}
}

var _ Operator = (*Projection)(nil)

func (p *Projection) Name() string { return "projection" }

func (p *Projection) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, p, func(ctx context.Context) (*tuple.Tuple, error) {
		in, err := p.child.Next(ctx)
		if err != nil || in == nil {
			return nil, err
		}
		return p.project(*in)
	})
}

func (p *Projection) project(in tuple.Tuple) (*tuple.Tuple, error) {
	out := tuple.Tuple{ID: in.ID, Columns: p.outCols, Values: make([]types.Value, len(p.exprs))}
	for i, e := range p.exprs {
		v, err := e.EvalColumn(in)
		if err != nil {
			return nil, err
		}
		out.Values[i] = v
	}
	return &out, nil
}

func (p *Projection) Close() error { return p.child.Close() }
