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

// Package dberr defines the public error taxonomy: BindError, TypeError,
// StorageError, ExecutorError and PlanError, each a family of
// gopkg.in/src-d/go-errors.v1 kinds so callers can match on either the
// precise kind or the coarse class.
package dberr

import "gopkg.in/src-d/go-errors.v1"

// Class is the coarse error family a Kind belongs to, used by DatabaseError
// for callers that only care about the category.
type Class string

const (
	ClassBind     Class = "BindError"
	ClassType     Class = "TypeError"
	ClassStorage  Class = "StorageError"
	ClassExecutor Class = "ExecutorError"
	ClassPlan     Class = "PlanError"
)

// BindError kinds.
var (
	ErrInvalidTable    = errors.NewKind("invalid table: %s")
	ErrInvalidColumn   = errors.NewKind("invalid column: %s")
	ErrAmbiguousColumn = errors.NewKind("ambiguous column: %s")
	ErrUnsupportedExpr = errors.NewKind("unsupported expression: %s")
)

// TypeError kinds.
var (
	ErrTypeMismatch  = errors.NewKind("cannot find a common type for %v and %v")
	ErrCastFailed    = errors.NewKind("cannot cast %v to %v")
	ErrNonBooleanUse = errors.NewKind("expression %s did not evaluate to a boolean")
)

// StorageError kinds.
var (
	ErrTableExists          = errors.NewKind("table already exists: %s")
	ErrTableNotFound        = errors.NewKind("table not found: %s")
	ErrDuplicatePrimaryKey  = errors.NewKind("duplicate primary key: %v")
	ErrDuplicateUniqueKey   = errors.NewKind("duplicate value for unique column: %v")
	ErrNotNullViolation     = errors.NewKind("column %s does not allow null values")
	ErrTransactionCommitted = errors.NewKind("transaction already committed")
)

// ExecutorError kinds.
var (
	ErrInternal       = errors.NewKind("internal error: %s")
	ErrCrossJoin      = errors.NewKind("cross join reached the hash join operator")
	ErrMissingOnCond  = errors.NewKind("hash join requires an On join condition")
	ErrAggUnsupported = errors.NewKind("unsupported aggregate function: %s")
)

// PlanError kinds.
var (
	ErrPlan = errors.NewKind("planning error: %s")
)

// DatabaseError is the union error surfaced to callers of the top-level
// engine entry point, wrapping whichever *errors.Kind actually fired.
type DatabaseError struct {
	class Class
	cause error
}

func Wrap(class Class, cause error) error {
	if cause == nil {
		return nil
	}
	return &DatabaseError{class: class, cause: cause}
}

func (e *DatabaseError) Error() string {
	return string(e.class) + ": " + e.cause.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.cause
}

func (e *DatabaseError) Class() Class {
	return e.class
}
