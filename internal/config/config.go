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

// Package config loads the ambient, host-program-facing operational
// configuration a program embedding the engine needs: log verbosity, a
// starting capacity hint for storage/memstore's row slices, and the file
// path for storage/boltstore. This is not a SQL-facing config surface —
// there is still no way to tune query behavior from a config file — it is
// the same "how does a program wire up logging and a storage path" layer
// every embeddable library needs regardless of what its query language
// does or doesn't expose.
package config

import (
	"github.com/BurntSushi/toml"

	"github.com/lewiszlw/KipSQL/dberr"
)

// Config is the parsed shape of a KipSQL TOML config document.
type Config struct {
	LogLevel         string `toml:"log_level"`
	MemstoreCapacity int    `toml:"memstore_capacity_hint"`
	BoltPath         string `toml:"bolt_path"`
}

// Default returns the configuration used when a host program doesn't
// supply a config file at all.
func Default() Config {
	return Config{
		LogLevel:         "info",
		MemstoreCapacity: 0,
		BoltPath:         "kipsql.db",
	}
}

// Load parses a TOML document at path into a Config seeded with Default's
// values, so an incomplete document only overrides the keys it sets.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, dberr.ErrInternal.New("config load: " + err.Error())
	}
	return cfg, nil
}
