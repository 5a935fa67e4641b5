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
	"bytes"
	"encoding/binary"
	"math"

	"golang.org/x/exp/constraints"

	"github.com/sneller-labs/mkqsort/mkqsort"
)

// nullRelation resolves a comparison where at least one side is NULL,
// the same direction/nulls-order interaction compareIonValues uses:
// NullsOrder is itself direction-relative, naming the NULL position in
// ascending order, so Descending reverses it: a descending nulls-first
// column puts its NULLs last, a descending nulls-last column puts them
// first.
func nullRelation(n1, n2 bool, dir mkqsort.Direction, nulls mkqsort.NullsOrder) int {
	if n1 && n2 {
		return 0
	}
	rel := 1
	if n1 {
		rel = -1
	}
	if (nulls == mkqsort.NullsLast) != (dir == mkqsort.Descending) {
		rel = -rel
	}
	return rel
}

// compareOrdered compares two non-null values of an ordered type,
// applying dir to the raw relation.
func compareOrdered[T constraints.Ordered](a, b T, dir mkqsort.Direction) int {
	switch {
	case a < b:
		return -1 * int(dir)
	case a > b:
		return 1 * int(dir)
	default:
		return 0
	}
}

func compareStrings(a, b string, dir mkqsort.Direction) int {
	return bytes.Compare([]byte(a), []byte(b)) * int(dir)
}

// compareColumnValue compares row i1 of c1 against row i2 of c2, both of
// the same Kind, honoring dir/nulls. c1 and c2 may be the same column
// (the common case) or two different tables' columns of matching type.
func compareColumnValue(c1 *Column, i1 int, c2 *Column, i2 int, dir mkqsort.Direction, nulls mkqsort.NullsOrder) int {
	n1, n2 := c1.Nulls[i1], c2.Nulls[i2]
	if n1 || n2 {
		return nullRelation(n1, n2, dir, nulls)
	}

	switch c1.Kind {
	case Bool:
		return compareOrdered(boolToInt(c1.Bools[i1]), boolToInt(c2.Bools[i2]), dir)
	case Int64:
		return compareOrdered(c1.Int64s[i1], c2.Int64s[i2], dir)
	case Uint64:
		return compareOrdered(c1.Uint64s[i1], c2.Uint64s[i2], dir)
	case Float64:
		return compareOrdered(c1.Float64s[i1], c2.Float64s[i2], dir)
	case String:
		return compareStrings(c1.Strings[i1], c2.Strings[i2], dir)
	case Timestamp:
		return compareOrdered(c1.Times[i1].UnixNano(), c2.Times[i2].UnixNano(), dir)
	default:
		panic("rowstore: unknown column kind")
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// compareEncoded compares two already-decoded datums for a non-String
// column kind, the inverse of encodeDatum. Used both as the Generic
// shortcut comparator (direct on SortTuple.Datum1, no accessor call)
// and as the deeper-depth generic comparator (datum resolved via
// GetDatum). String columns never reach this path: they compare by row
// index through compareColumnValue instead, since a string cannot be
// packed losslessly into a uint64.
func compareEncoded(kind ColumnKind, d1 uint64, n1 bool, d2 uint64, n2 bool, dir mkqsort.Direction, nulls mkqsort.NullsOrder) int {
	if n1 || n2 {
		return nullRelation(n1, n2, dir, nulls)
	}
	switch kind {
	case Bool:
		return compareOrdered(d1, d2, dir)
	case Int64:
		return compareOrdered(int64(d1), int64(d2), dir)
	case Uint64:
		return compareOrdered(d1, d2, dir)
	case Float64:
		return compareOrdered(math.Float64frombits(d1), math.Float64frombits(d2), dir)
	case Timestamp:
		return compareOrdered(int64(d1), int64(d2), dir)
	default:
		panic("rowstore: compareEncoded does not support column kind " + kind.String())
	}
}

// encodeDatum packs row i of a non-String column into mkqsort's uint64
// datum representation. The encoding is lossless, so an equal result
// here always means the underlying values are truly equal (no
// abbreviation, no tiebreak needed).
func encodeDatum(col *Column, i int) uint64 {
	switch col.Kind {
	case Bool:
		return uint64(boolToInt(col.Bools[i]))
	case Int64:
		return uint64(col.Int64s[i])
	case Uint64:
		return col.Uint64s[i]
	case Float64:
		return math.Float64bits(col.Float64s[i])
	case Timestamp:
		return uint64(col.Times[i].UnixNano())
	default:
		panic("rowstore: encodeDatum does not support column kind " + col.Kind.String())
	}
}

// stringPrefixKey packs the first 8 bytes of s (zero-padded if shorter)
// into a big-endian uint64, an order-preserving abbreviation: two
// strings whose prefix keys differ are correctly ordered by the prefix
// key alone, and only equal prefix keys (true equality, or the strings
// merely sharing an 8-byte prefix) require a CompareAbbrevFull
// resolution against the real string.
func stringPrefixKey(s string) uint64 {
	var buf [8]byte
	copy(buf[:], s)
	return binary.BigEndian.Uint64(buf[:])
}
