// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sneller-labs/mkqsort/mkqsort"
	"github.com/sneller-labs/mkqsort/rowstore"
)

// parseKeySpec parses a comma-separated "col:dir[:abbrev]" list, e.g.
// "0:asc:abbrev,2:desc", into rowstore.KeySpecs. dir is "asc" or "desc";
// "abbrev" is only valid on the first key. Every key uses
// mkqsort.NullsLast, which is direction-relative: NULLs sort last on an
// asc key and first on a desc key.
func parseKeySpec(s string, numCols int) ([]rowstore.KeySpec, error) {
	toks := splitComma(s)
	if len(toks) == 0 {
		return nil, fmt.Errorf("empty key list")
	}
	keys := make([]rowstore.KeySpec, len(toks))
	for i, tok := range toks {
		parts := strings.Split(tok, ":")
		if len(parts) < 2 {
			return nil, fmt.Errorf("key %q: want col:dir[:abbrev]", tok)
		}
		col, err := strconv.Atoi(parts[0])
		if err != nil || col < 0 || col >= numCols {
			return nil, fmt.Errorf("key %q: bad column index", tok)
		}
		var dir mkqsort.Direction
		switch parts[1] {
		case "asc":
			dir = mkqsort.Ascending
		case "desc":
			dir = mkqsort.Descending
		default:
			return nil, fmt.Errorf("key %q: direction must be asc or desc", tok)
		}
		abbrev := len(parts) > 2 && parts[2] == "abbrev"
		if abbrev && i != 0 {
			return nil, fmt.Errorf("key %q: abbrev is only valid on the first key", tok)
		}
		keys[i] = rowstore.KeySpec{
			Column:     col,
			Direction:  dir,
			NullsOrder: mkqsort.NullsLast,
			Abbreviate: abbrev,
		}
	}
	return keys, nil
}

func splitComma(s string) []string {
	var out []string
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
