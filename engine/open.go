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

package engine

import (
	"github.com/lewiszlw/KipSQL/internal/config"
	"github.com/lewiszlw/KipSQL/storage/boltstore"
	"github.com/lewiszlw/KipSQL/storage/memstore"
)

// OpenMemory builds an Engine over a fresh storage/memstore backend, its
// row slices preallocated per cfg.MemstoreCapacity.
func OpenMemory(cfg config.Config) *Engine {
	return New(memstore.NewWithCapacity(cfg.MemstoreCapacity), &cfg)
}

// OpenBolt builds an Engine over a storage/boltstore backend at
// cfg.BoltPath, reloading any tables already persisted there.
func OpenBolt(cfg config.Config) (*Engine, error) {
	store, err := boltstore.Open(cfg.BoltPath)
	if err != nil {
		return nil, err
	}
	return New(store, &cfg), nil
}
