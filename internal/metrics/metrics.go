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

// Package metrics exposes the handful of counters the engine keeps about
// its own operation: tuples pulled per operator kind, rows written, and
// transactions committed/aborted. These are grounded on the teacher's
// direct dependency on github.com/prometheus/client_golang; nothing here is
// wired to an HTTP /metrics endpoint since the wire protocol is explicitly
// out of scope (spec.md §6) — callers embedding the engine register these
// with their own prometheus.Registry if they want them exported.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RowsWritten = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kipsql",
		Name:      "rows_written_total",
		Help:      "Rows appended across all tables and storage backends.",
	})

	TransactionsCommitted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kipsql",
		Name:      "transactions_committed_total",
		Help:      "Transactions that reached Commit successfully.",
	})

	TransactionsAborted = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "kipsql",
		Name:      "transactions_aborted_total",
		Help:      "Transactions abandoned without committing, e.g. due to a cancelled pipeline.",
	})

	TuplesPulled = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kipsql",
		Name:      "tuples_pulled_total",
		Help:      "Tuples pulled from each operator kind's output stream.",
	}, []string{"operator"})
)

// Registry bundles the package's collectors behind a fresh
// prometheus.Registry for a host program that wants to export them; the
// package-level vars above remain independently usable (and safe to
// increment) whether or not a caller ever registers them.
func Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(RowsWritten, TransactionsCommitted, TransactionsAborted, TuplesPulled)
	return reg
}
