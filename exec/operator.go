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

// Package exec implements the streaming, pull-based operator pipeline:
// insert, hash join, projection, filter, aggregate and scan, all pulling
// lazily from their children and/or a storage.Transaction. At most one
// tuple is ever in flight per operator; any error terminates the stream and
// any in-flight DML transaction is abandoned without a commit (spec.md
// §5, "Cancellation").
package exec

import (
	"context"

	"github.com/lewiszlw/KipSQL/internal/metrics"
	"github.com/lewiszlw/KipSQL/internal/tracing"
	"github.com/lewiszlw/KipSQL/tuple"
)

// Operator is the pull contract every node of the pipeline satisfies. Next
// returns (nil, nil) at end of stream and (nil, err) on failure; a caller
// must stop pulling after either. Operators do not catch or translate
// errors from their children (spec.md §7) — they propagate them as-is.
type Operator interface {
	Next(ctx context.Context) (*tuple.Tuple, error)
	Close() error
	// Name identifies the operator kind for tracing/metrics labels.
	Name() string
}

// Pull is the shared entry point every concrete operator's exported Next
// method funnels through: it opens a tracing span and bumps the
// tuples-pulled counter around the operator-specific pull function.
func Pull(ctx context.Context, op Operator, pull func(context.Context) (*tuple.Tuple, error)) (*tuple.Tuple, error) {
	span, ctx := tracing.StartSpan(ctx, op.Name())
	defer span.Finish()

	t, err := pull(ctx)
	if err == nil && t != nil {
		metrics.TuplesPulled.WithLabelValues(op.Name()).Inc()
	}
	return t, err
}

// Collect drains an operator to completion, for tests and the top-level
// engine.Run. Cancelling ctx stops the drain early without affecting the
// pulled-so-far results.
func Collect(ctx context.Context, op Operator) ([]tuple.Tuple, error) {
	var out []tuple.Tuple
	for {
		select {
		case <-ctx.Done():
			return out, ctx.Err()
		default:
		}
		t, err := op.Next(ctx)
		if err != nil {
			return out, err
		}
		if t == nil {
			return out, nil
		}
		out = append(out, *t)
	}
}
