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

// Package engine is the top-level entry point: it wires a storage.Storage
// backend to the planner and operator pipeline behind one Run call, the
// concrete equivalent of a `run(sql)` surface for a host program that has
// already parsed its statement (SQL parsing is out of scope, see spec.md §1).
package engine

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lewiszlw/KipSQL/ast"
	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/exec"
	"github.com/lewiszlw/KipSQL/internal/config"
	"github.com/lewiszlw/KipSQL/planner"
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/tuple"
)

// Result is what Run returns: for a SELECT, Columns/Rows carry the result
// set; for DDL/DML, Columns is empty and RowsAffected counts tuples the
// sink operator consumed.
type Result struct {
	Columns      []*catalog.Column
	Rows         []tuple.Tuple
	RowsAffected int64
	IsQuery      bool
}

// Engine binds one storage.Storage backend to the binder/planner/exec
// pipeline. It holds no statement-scoped state itself; every Run call
// plans and drains its own operator tree.
type Engine struct {
	storage storage.Storage
	log     *logrus.Logger
}

// New constructs an Engine over the given storage backend, configured by
// cfg (nil is equivalent to config.Default()).
func New(s storage.Storage, cfg *config.Config) *Engine {
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(lvl)
	}
	return &Engine{storage: s, log: log}
}

// Run plans stmt against the engine's storage backend and drains the
// resulting operator tree to completion. A SELECT's rows are collected
// into Result.Rows; a DDL/DML statement's sink operator is drained for its
// side effects, and RowsAffected is the count of Insert/Update/Delete
// source tuples seen.
func (e *Engine) Run(ctx context.Context, stmt ast.Statement) (Result, error) {
	plan, err := planner.Build(e.storage, stmt)
	if err != nil {
		e.log.WithError(err).Debug("planning failed")
		return Result{}, dberr.Wrap(classOf(err), err)
	}
	if plan.Operator == nil {
		// DDL: planner.Build already executed it directly against storage.
		return Result{}, nil
	}

	rows, err := exec.Collect(ctx, plan.Operator)
	if err != nil {
		e.log.WithError(err).Debug("execution failed")
		return Result{}, dberr.Wrap(dberr.ClassExecutor, err)
	}

	if plan.IsQuery {
		return Result{Columns: plan.Columns, Rows: rows, IsQuery: true}, nil
	}

	var affected int64
	if counter, ok := plan.Operator.(interface{ RowsAffected() int64 }); ok {
		affected = counter.RowsAffected()
	} else {
		affected = int64(len(rows))
	}
	return Result{RowsAffected: affected}, nil
}

// classOf recovers the coarse error class a freshly-planned error belongs
// to for DatabaseError's sake: the binder's kinds map to ClassBind, and any
// other planning error that isn't already wrapped defaults to ClassPlan.
func classOf(err error) dberr.Class {
	if de, ok := err.(*dberr.DatabaseError); ok {
		return de.Class()
	}
	for _, k := range []interface{ Is(error) bool }{dberr.ErrInvalidTable, dberr.ErrInvalidColumn, dberr.ErrAmbiguousColumn, dberr.ErrUnsupportedExpr} {
		if k.Is(err) {
			return dberr.ClassBind
		}
	}
	return dberr.ClassPlan
}
