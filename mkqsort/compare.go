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

// checkDatumNull reports whether tuple t's key at depth is NULL. depth
// == 0 reads IsNull1 directly; deeper depths go through the accessor.
func checkDatumNull(t *SortTuple, depth int, state *SortState) bool {
	if depth == 0 {
		return t.IsNull1
	}
	_, n1, _, _ := state.Accessor.GetDatum(t, nil, depth, state)
	return n1
}

// compareByShortcut compares two tuples' leading key only, using the
// specialized comparator selected by state.LeadingKind.
func compareByShortcut(t1, t2 *SortTuple, state *SortState) int {
	switch state.LeadingKind {
	case Unsigned:
		return state.ApplyUnsigned(t1.Datum1, t1.IsNull1, t2.Datum1, t2.IsNull1)
	case Signed:
		return state.ApplySigned(t1.Datum1, t1.IsNull1, t2.Datum1, t2.IsNull1)
	case Int32:
		return state.ApplyInt32(t1.Datum1, t1.IsNull1, t2.Datum1, t2.IsNull1)
	default:
		return state.Keys[0].Compare(t1.Datum1, t1.IsNull1, t2.Datum1, t2.IsNull1)
	}
}

// compareDatumTiebreak resolves depth via the key accessor and applies
// either the abbreviated-full comparator (depth 0, abbreviated) or the
// plain generic comparator for that depth.
func compareDatumTiebreak(t1, t2 *SortTuple, depth int, state *SortState) int {
	key := &state.Keys[depth]
	d1, n1, d2, n2 := state.Accessor.GetDatum(t1, t2, depth, state)

	if depth == 0 && key.AbbrevConverter {
		return key.CompareAbbrevFull(d1, n1, d2, n2)
	}
	return key.Compare(d1, n1, d2, n2)
}

// compareDatum compares two tuples at exactly one depth: the shortcut
// for depth 0, falling through to the tiebreak when the shortcut is
// inconclusive (abbreviated key, equal abbreviations).
func compareDatum(t1, t2 *SortTuple, depth int, state *SortState) int {
	if depth == 0 {
		ret := compareByShortcut(t1, t2, state)
		if ret != 0 {
			return ret
		}
		if !state.Keys[0].AbbrevConverter {
			return 0
		}
	}
	return compareDatumTiebreak(t1, t2, depth, state)
}

// compareRangeFromDepth compares two tuples over every key in
// [depth, NKeys), returning the first non-zero result or 0 if they
// agree everywhere. Caller must guarantee the tuples already compare
// equal at every depth below depth. At depth 0 it also assumes the
// leading-key shortcut already compared equal: key 0 is re-checked only
// through CompareAbbrevFull when it is abbreviated, and skipped
// otherwise.
func compareRangeFromDepth(t1, t2 *SortTuple, depth int, state *SortState) int {
	if depth == 0 {
		key := &state.Keys[0]
		if key.AbbrevConverter {
			d1, n1, d2, n2 := state.Accessor.GetDatum(t1, t2, 0, state)
			if ret := key.CompareAbbrevFull(d1, n1, d2, n2); ret != 0 {
				return ret
			}
		}
		depth = 1
	}

	for ; depth < state.NKeys; depth++ {
		key := &state.Keys[depth]
		d1, n1, d2, n2 := state.Accessor.GetDatum(t1, t2, depth, state)
		if ret := key.Compare(d1, n1, d2, n2); ret != 0 {
			return ret
		}
	}
	return 0
}

// compareRange is compareRangeFromDepth, but starts with the leading
// shortcut at depth 0 (cheaper than going straight to the accessor).
func compareRange(t1, t2 *SortTuple, depth int, state *SortState) int {
	if depth == 0 {
		if ret := compareByShortcut(t1, t2, state); ret != 0 {
			return ret
		}
	}
	return compareRangeFromDepth(t1, t2, depth, state)
}
