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

import "github.com/sneller-labs/mkqsort/mkqsort"

// tableAccessor implements mkqsort.KeyAccessor over a Table and a fixed
// list of KeySpecs, one per sort-key depth.
//
// Non-String columns hand back their lossless bit-packed encoding
// (encodeDatum), matching what was already stored as SortTuple.Datum1
// for the leading key, so the same Compare closure works whether it is
// invoked on Datum1 directly (the depth-0 shortcut) or via the
// accessor (any deeper depth). String columns cannot be packed
// losslessly into a uint64: the accessor instead hands back the row
// index itself, and the corresponding comparator resolves the real
// string through the table.
type tableAccessor struct {
	table *Table
	keys  []KeySpec
}

func (a *tableAccessor) GetDatum(t1, t2 *mkqsort.SortTuple, depth int, state *mkqsort.SortState) (uint64, bool, uint64, bool) {
	col := &a.table.Columns[a.keys[depth].Column]

	var d1 uint64
	n1 := col.Nulls[t1.Payload]
	if !n1 {
		d1 = rowDatum(col, t1.Payload)
	}

	if t2 == nil {
		return d1, n1, 0, false
	}

	var d2 uint64
	n2 := col.Nulls[t2.Payload]
	if !n2 {
		d2 = rowDatum(col, t2.Payload)
	}
	return d1, n1, d2, n2
}

// rowDatum returns the value the accessor hands to a comparator for a
// non-null row: the row index for String columns (resolved later
// through compareColumnValue), or the lossless bit encoding otherwise.
func rowDatum(col *Column, row int) uint64 {
	if col.Kind == String {
		return uint64(row)
	}
	return encodeDatum(col, row)
}
