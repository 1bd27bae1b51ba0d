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

package memstore

import (
	"github.com/lewiszlw/KipSQL/storage"
	"github.com/lewiszlw/KipSQL/tuple"
)

// memIter is the projected-range iterator required by storage.Iter: it
// consumes `offset` rows from the snapshot, then yields up to `limit` rows
// after applying the projection list, per §4.3.
type memIter struct {
	rows        []tuple.Tuple
	pos         int
	offset      int64
	remaining   *int64
	projections storage.Projections
}

func newIter(rows []tuple.Tuple, bounds storage.Bounds, projections storage.Projections) *memIter {
	var offset int64
	if bounds.Offset != nil {
		offset = *bounds.Offset
	}
	var remaining *int64
	if bounds.Limit != nil {
		l := *bounds.Limit
		remaining = &l
	}
	return &memIter{rows: rows, offset: offset, remaining: remaining, projections: projections}
}

func (it *memIter) Next() (*tuple.Tuple, error) {
	for it.offset > 0 && it.pos < len(it.rows) {
		it.pos++
		it.offset--
	}
	if it.remaining != nil && *it.remaining <= 0 {
		return nil, nil
	}
	if it.pos >= len(it.rows) {
		return nil, nil
	}
	raw := it.rows[it.pos]
	it.pos++

	projected, err := storage.ApplyProjection(it.remaining, it.projections, raw)
	if err != nil {
		return nil, err
	}
	return &projected, nil
}

func (it *memIter) Close() error { return nil }
