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

// Package display renders an engine.Result as an aligned text table, for a
// host program's REPL or log output. It is the one ambient concern this
// module builds on the standard library rather than a pack dependency; see
// DESIGN.md for why.
package display

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/lewiszlw/KipSQL/catalog"
	"github.com/lewiszlw/KipSQL/tuple"
)

// WriteTable renders columns as a header row followed by one row per
// tuple's Values, tab-aligned. A nil or empty rows slice still prints the
// header.
func WriteTable(w io.Writer, columns []*catalog.Column, rows []tuple.Tuple) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, c := range columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c.Name)
	}
	fmt.Fprintln(tw)

	for _, row := range rows {
		for i, v := range row.Values {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, v.String())
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
