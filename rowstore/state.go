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

package rowstore

import (
	"fmt"

	"github.com/sneller-labs/mkqsort/mkqsort"
)

// BuildSortState wires table and keys into an mkqsort.SortState and the
// initial []SortTuple array, ready to pass to mkqsort.Sort. Row i of
// table becomes SortTuple{Payload: i}.
func BuildSortState(table *Table, keys []KeySpec, dup mkqsort.DuplicateHandler, interrupt mkqsort.InterruptChecker) (*mkqsort.SortState, []mkqsort.SortTuple, error) {
	if len(keys) < 2 {
		return nil, nil, fmt.Errorf("rowstore: need at least 2 keys, got %d", len(keys))
	}
	for i, k := range keys {
		if k.Column < 0 || k.Column >= len(table.Columns) {
			return nil, nil, fmt.Errorf("rowstore: key %d: column index %d out of range", i, k.Column)
		}
	}
	lead := &table.Columns[keys[0].Column]
	if lead.Kind == String && !keys[0].Abbreviate {
		return nil, nil, fmt.Errorf("rowstore: a String leading column must set KeySpec.Abbreviate")
	}
	if lead.Kind != String && keys[0].Abbreviate {
		return nil, nil, fmt.Errorf("rowstore: Abbreviate is only meaningful for a String leading column")
	}

	access := &tableAccessor{table: table, keys: keys}

	sortKeys := make([]mkqsort.SortKey, len(keys))
	for i, k := range keys {
		col := &table.Columns[k.Column]
		abbrev := i == 0 && k.Abbreviate
		compare := genericCompare(col, k)
		if abbrev {
			// Datum1 carries the order-preserving prefix key directly
			// (not a row index), so the shortcut comparator compares
			// prefixes numerically; GetDatum at depth 0 hands back row
			// indices, which only the tiebreak (CompareAbbrevFull)
			// resolves to real strings.
			compare = prefixCompare(k)
		}
		sortKeys[i] = mkqsort.SortKey{
			Direction:       k.Direction,
			NullsOrder:      k.NullsOrder,
			AbbrevConverter: abbrev,
			Compare:         compare,
		}
		if abbrev {
			sortKeys[i].CompareAbbrevFull = fullCompare(col, k)
		}
	}

	state := &mkqsort.SortState{
		NKeys:            len(keys),
		Keys:             sortKeys,
		Accessor:         access,
		DuplicateHandler: dup,
		CheckInterrupt:   interrupt,
		FullTupleCompare: tupleCompare(table, keys),
	}

	switch lead.Kind {
	case Int64:
		state.LeadingKind = mkqsort.Signed
		state.ApplySigned = genericCompare(lead, keys[0])
	case Uint64:
		state.LeadingKind = mkqsort.Unsigned
		state.ApplyUnsigned = genericCompare(lead, keys[0])
	default:
		state.LeadingKind = mkqsort.Generic
	}

	n := table.NumRows()
	tuples := make([]mkqsort.SortTuple, n)
	for i := range tuples {
		d1, n1 := uint64(0), lead.Nulls[i]
		if !n1 {
			if keys[0].Abbreviate {
				d1 = stringPrefixKey(lead.Strings[i])
			} else {
				d1 = encodeDatum(lead, i)
			}
		}
		tuples[i] = mkqsort.SortTuple{Datum1: d1, IsNull1: n1, Payload: i}
	}

	return state, tuples, nil
}

// genericCompare builds the per-key generic comparator: for a String
// column it resolves full values by row index; for everything else it
// decodes the lossless bit-packed datum directly.
func genericCompare(col *Column, k KeySpec) func(uint64, bool, uint64, bool) int {
	if col.Kind == String {
		return func(d1 uint64, n1 bool, d2 uint64, n2 bool) int {
			if n1 || n2 {
				return nullRelation(n1, n2, k.Direction, k.NullsOrder)
			}
			return compareColumnValue(col, int(d1), col, int(d2), k.Direction, k.NullsOrder)
		}
	}
	return func(d1 uint64, n1 bool, d2 uint64, n2 bool) int {
		return compareEncoded(col.Kind, d1, n1, d2, n2, k.Direction, k.NullsOrder)
	}
}

// prefixCompare compares two order-preserving string prefix keys
// directly (big-endian byte order == numeric order), with the usual
// null handling. It is only ever invoked on SortTuple.Datum1 itself
// (the depth-0 shortcut), never via the accessor.
func prefixCompare(k KeySpec) func(uint64, bool, uint64, bool) int {
	return func(d1 uint64, n1 bool, d2 uint64, n2 bool) int {
		if n1 || n2 {
			return nullRelation(n1, n2, k.Direction, k.NullsOrder)
		}
		return compareOrdered(d1, d2, k.Direction)
	}
}

// fullCompare resolves a String leading key's true value by row index,
// ignoring the (possibly colliding) prefix abbreviation entirely.
func fullCompare(col *Column, k KeySpec) func(uint64, bool, uint64, bool) int {
	return func(d1 uint64, n1 bool, d2 uint64, n2 bool) int {
		if n1 || n2 {
			return nullRelation(n1, n2, k.Direction, k.NullsOrder)
		}
		return compareColumnValue(col, int(d1), col, int(d2), k.Direction, k.NullsOrder)
	}
}

// tupleCompare compares two tuples across every configured key by row
// index, used for the non-Generic pre-order check; it
// never needs the accessor since Payload is already a row index.
func tupleCompare(table *Table, keys []KeySpec) func(t1, t2 *mkqsort.SortTuple) int {
	return func(t1, t2 *mkqsort.SortTuple) int {
		for _, k := range keys {
			col := &table.Columns[k.Column]
			if ret := compareColumnValue(col, t1.Payload, col, t2.Payload, k.Direction, k.NullsOrder); ret != 0 {
				return ret
			}
		}
		return 0
	}
}
