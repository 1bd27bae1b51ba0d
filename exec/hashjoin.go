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

	"github.com/mitchellh/hashstructure"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/dberr"
	"github.com/lewiszlw/KipSQL/expression"
	"github.com/lewiszlw/KipSQL/tuple"
	"github.com/lewiszlw/KipSQL/types"
)

// JoinType mirrors spec.md §4.5's JoinType ∈ {Inner, Left, Right, Full,
// Cross}; Cross never reaches HashJoin (it has no on-keys to hash) and is a
// planner error if it does.
type JoinType int

const (
	JoinInner JoinType = iota
	JoinLeft
	JoinRight
	JoinFull
	JoinCross
)

// OnKeyPair is one equality predicate participating in the hash partition:
// the left and right expressions evaluated to produce one component of the
// hash key.
type OnKeyPair struct {
	Left  expression.ScalarExpression
	Right expression.ScalarExpression
}

// JoinCondition is JoinCondition::On{on_keys, filter} | JoinCondition::None
// from spec.md §4.5. HasOn=false (JoinCondition::None) reaching HashJoin is
// a planner error, same as JoinCross.
type JoinCondition struct {
	HasOn  bool
	OnKeys []OnKeyPair
	Filter expression.ScalarExpression // nil means "no filter"
}

// joinsNullable returns (leftForceNullable, rightForceNullable) per
// spec.md's table: Inner→(false,false), Left→(false,true),
// Right→(true,false), Full→(true,true).
func joinsNullable(ty JoinType) (bool, bool) {
	switch ty {
	case JoinLeft:
		return false, true
	case JoinRight:
		return true, false
	case JoinFull:
		return true, true
	default:
		return false, false
	}
}

// HashJoin is the build/probe hash-join operator: it consumes the entire
// left stream to build a hash table keyed by the evaluated on-keys, then
// probes it with each right tuple, applying null-padding for outer
// variants and re-checking the filter (if any, and except for FULL joins) on
// every candidate before it yields a row. Programmer errors (Cross,
// JoinCondition::None reaching here) are invariant violations that
// NewHashJoin rejects with ErrCrossJoin / ErrMissingOnCond.
type HashJoin struct {
	left, right Operator
	ty          JoinType
	cond        JoinCondition

	leftForceNullable, rightForceNullable bool

	built        bool
	joinColumns  []*catalog.Column
	leftColsLen  int
	rightColsLen int
	leftMap      map[uint64][]tuple.Tuple
	usedSet      map[uint64]bool

	pending      []tuple.Tuple
	rightDone    bool
	tail         []tuple.Tuple
	tailFilled   bool
}

func NewHashJoin(left, right Operator, ty JoinType, cond JoinCondition) (*HashJoin, error) {
	if ty == JoinCross {
		return nil, dberr.ErrCrossJoin.New()
	}
	if !cond.HasOn {
		return nil, dberr.ErrMissingOnCond.New()
	}
	lfn, rfn := joinsNullable(ty)
	return &HashJoin{
		left: left, right: right, ty: ty, cond: cond,
		leftForceNullable: lfn, rightForceNullable: rfn,
		leftMap: map[uint64][]tuple.Tuple{},
		usedSet: map[uint64]bool{},
	}, nil
}

var _ Operator = (*HashJoin)(nil)

func (h *HashJoin) Name() string { return "hash_join" }

func (h *HashJoin) Next(ctx context.Context) (*tuple.Tuple, error) {
	return Pull(ctx, h, func(ctx context.Context) (*tuple.Tuple, error) {
		if !h.built {
			if err := h.build(ctx); err != nil {
				return nil, err
			}
			h.built = true
		}

		for {
			if len(h.pending) > 0 {
				t := h.pending[0]
				h.pending = h.pending[1:]
				return &t, nil
			}
			if !h.rightDone {
				if err := h.probeOne(ctx); err != nil {
					return nil, err
				}
				continue
			}
			if !h.tailFilled {
				h.fillTail()
				h.tailFilled = true
			}
			if len(h.tail) == 0 {
				return nil, nil
			}
			t := h.tail[0]
			h.tail = h.tail[1:]
			return &t, nil
		}
	})
}

// build consumes the left stream to completion: one hash bucket per on-key
// hash, with join_columns' left half filled from the first left tuple.
func (h *HashJoin) build(ctx context.Context) error {
	initialized := false
	for {
		in, err := h.left.Next(ctx)
		if err != nil {
			return err
		}
		if in == nil {
			return nil
		}
		hash, err := hashRow(h.cond.onLeftExprs(), *in)
		if err != nil {
			return err
		}
		if !initialized {
			h.columnsFilling(*in, h.leftForceNullable)
			h.leftColsLen = len(in.Columns)
			initialized = true
		}
		h.leftMap[hash] = append(h.leftMap[hash], *in)
	}
}

// probeOne pulls exactly one right tuple and fills h.pending with whatever
// it yields: matched joined rows, a null-padded row for unmatched
// Right/Full probes, or nothing for unmatched Inner/Left probes.
func (h *HashJoin) probeOne(ctx context.Context) error {
	in, err := h.right.Next(ctx)
	if err != nil {
		return err
	}
	if in == nil {
		h.rightDone = true
		return nil
	}
	rightColsLen := len(in.Columns)
	hash, err := hashRow(h.cond.onRightExprs(), *in)
	if err != nil {
		return err
	}
	if h.rightColsLen == 0 {
		h.columnsFilling(*in, h.rightForceNullable)
		h.rightColsLen = rightColsLen
	}

	var candidates []tuple.Tuple
	if leftTuples, ok := h.leftMap[hash]; ok {
		h.usedSet[hash] = true
		for _, lt := range leftTuples {
			candidates = append(candidates, h.combine(lt, *in))
		}
	} else if h.ty == JoinRight || h.ty == JoinFull {
		candidates = []tuple.Tuple{h.padLeft(*in)}
	}

	candidates, err = h.applyFilter(candidates, rightColsLen)
	if err != nil {
		return err
	}
	h.pending = append(h.pending, candidates...)
	return nil
}

// applyFilter re-verifies the filter (if any) on every candidate. Per
// spec.md's open question, FULL join skips filter re-application entirely —
// the reference behavior is preserved verbatim rather than "fixed".
func (h *HashJoin) applyFilter(candidates []tuple.Tuple, rightColsLen int) ([]tuple.Tuple, error) {
	if h.cond.Filter == nil || len(candidates) == 0 || h.ty == JoinFull {
		return candidates, nil
	}
	out := candidates[:0:0]
	for _, t := range candidates {
		keep, err := EvalBoolean(h.cond.Filter, t)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, t)
			continue
		}
		leftLen := len(t.Columns) - rightColsLen
		switch h.ty {
		case JoinLeft:
			nullPad(&t, leftLen, len(t.Columns))
			out = append(out, t)
		case JoinRight:
			nullPad(&t, 0, leftLen)
			out = append(out, t)
		default:
			// Inner: drop.
		}
	}
	return out, nil
}

func nullPad(t *tuple.Tuple, from, to int) {
	for i := from; i < to; i++ {
		t.Values[i] = types.None(t.Columns[i].DataType())
	}
}

// combine concatenates left.Values ++ right.Values under the shared
// join_columns schema.
func (h *HashJoin) combine(left, right tuple.Tuple) tuple.Tuple {
	values := make([]types.Value, 0, len(left.Values)+len(right.Values))
	values = append(values, left.Values...)
	values = append(values, right.Values...)
	return tuple.Tuple{Columns: h.joinColumns, Values: values}
}

// padLeft builds a row with NULLs of the declared types on the left half
// and the right tuple's actual values, for unmatched Right/Full probes.
func (h *HashJoin) padLeft(right tuple.Tuple) tuple.Tuple {
	values := make([]types.Value, 0, len(h.joinColumns))
	for _, c := range h.joinColumns[:h.leftColsLen] {
		values = append(values, types.None(c.DataType()))
	}
	values = append(values, right.Values...)
	return tuple.Tuple{Columns: h.joinColumns, Values: values}
}

// fillTail emits, for Left/Full joins, every left tuple whose hash bucket
// was never probed, each extended with NULLs on the right — in left-stream
// order within each bucket, buckets in map-iteration order (spec.md
// tolerates this: only the unmatched-left *tail* as a whole is ordered
// after probe-order, not within itself).
func (h *HashJoin) fillTail() {
	if h.ty != JoinLeft && h.ty != JoinFull {
		return
	}
	for hash, tuples := range h.leftMap {
		if h.usedSet[hash] {
			continue
		}
		for _, lt := range tuples {
			values := make([]types.Value, 0, len(h.joinColumns))
			values = append(values, lt.Values...)
			for _, c := range h.joinColumns[h.leftColsLen:] {
				values = append(values, types.None(c.DataType()))
			}
			h.tail = append(h.tail, tuple.Tuple{Columns: h.joinColumns, Values: values})
		}
	}
}

// columnsFilling appends one side's columns to join_columns, forcing their
// nullability per joins_nullable, the first time that side's first tuple is
// seen (left on build, right on the first probe).
func (h *HashJoin) columnsFilling(t tuple.Tuple, forceNullable bool) {
	for _, c := range t.Columns {
		h.joinColumns = append(h.joinColumns, c.WithNullable(forceNullable))
	}
}

func (c JoinCondition) onLeftExprs() []expression.ScalarExpression {
	out := make([]expression.ScalarExpression, len(c.OnKeys))
	for i, k := range c.OnKeys {
		out[i] = k.Left
	}
	return out
}

func (c JoinCondition) onRightExprs() []expression.ScalarExpression {
	out := make([]expression.ScalarExpression, len(c.OnKeys))
	for i, k := range c.OnKeys {
		out[i] = k.Right
	}
	return out
}

// hashRow evaluates each on-key expression against tuple and hashes the
// resulting value vector with github.com/mitchellh/hashstructure, a
// deterministic, allocation-light stand-in for the Rust reference's
// ahash::RandomState fixed-seed hasher: the same input always hashes
// identically within one query. Candidates pulled from a bucket are checked
// only by applyFilter's filter expression (when one is set and the join is
// not FULL); their on-key values are not compared again, so two key vectors
// whose hashes collide are joined as a match.
func hashRow(exprs []expression.ScalarExpression, t tuple.Tuple) (uint64, error) {
	values := make([]interface{}, len(exprs))
	for i, e := range exprs {
		v, err := e.EvalColumn(t)
		if err != nil {
			return 0, err
		}
		values[i] = v.Raw()
	}
	h, err := hashstructure.Hash(values, nil)
	if err != nil {
		return 0, dberr.ErrInternal.New(err.Error())
	}
	return h, nil
}

func (h *HashJoin) Close() error {
	lerr := h.left.Close()
	rerr := h.right.Close()
	if lerr != nil {
		return lerr
	}
	return rerr
}
