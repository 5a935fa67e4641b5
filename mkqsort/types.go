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

package mkqsort

// Direction encodes the sorting direction of a key (SQL: ASC/DESC).
type Direction int

const (
	Ascending  Direction = 1  // sort ascending
	Descending Direction = -1 // sort descending
)

// NullsOrder encodes placement of NULLs relative to non-null values
// (SQL: NULLS FIRST/NULLS LAST).
type NullsOrder int

const (
	NullsFirst NullsOrder = iota // null values sort first
	NullsLast                    // null values sort last
)

// LeadingKind selects the specialized comparator used for the leading
// (depth 0) key, and whether the full-tuple pre-order check applies.
type LeadingKind int

const (
	// Unsigned compares Datum1 as an unsigned machine word.
	Unsigned LeadingKind = iota
	// Signed compares Datum1 as a signed machine word (two's complement).
	Signed
	// Int32 compares the low 32 bits of Datum1 as a signed int32.
	Int32
	// Generic defers entirely to SortKey.Compare/CompareAbbrevFull; no
	// full-tuple pre-order check is available in this mode.
	Generic
)
