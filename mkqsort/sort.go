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

// Debug enables the verification pass run after every recursive driver
// invocation (see verify.go). It is a package-level switch rather than
// a build tag so tests can flip it on without a separate build; leave
// it off in production, since the verification pass costs O(n)
// comparisons per recursive call.
var Debug = false

// insertionSortThreshold is the small-N cutoff below which the
// recursive driver falls back to insertion sort instead of
// partitioning. It is higher than the classic quicksort cutoff (7)
// because MKQS carries more per-call overhead to set up.
const insertionSortThreshold = 16

// Sort permutes x into non-decreasing order by the key sequence
// described in state, starting at depth 0. It returns nil on success,
// or a wrapped error if state.CheckInterrupt or
// state.DuplicateHandler reported one.
func Sort(x []SortTuple, state *SortState) error {
	state.validate()
	return sortTuples(x, 0, state, false)
}

// sortTuples is one recursive entry of the MKQS driver: it sorts x at
// depth and, when Debug is on, confirms its own sub-range came out
// non-decreasing at that depth before returning. Checking at every
// depth (not just 0) is what lets the verifier see a secondary-key
// bug: tuples inside an equal run are ties at depth 0, so only the
// deeper entries' checks can observe their order.
func sortTuples(x []SortTuple, depth int, state *SortState, seenNull bool) error {
	if err := sortRange(x, depth, state, seenNull); err != nil {
		return err
	}
	if Debug {
		verify(x, depth, state)
	}
	return nil
}

// sortRange is the driver loop behind sortTuples. The tail call on
// whichever of the less/greater partitions is larger is implemented as
// a loop (reassigning x and looping) to bound stack usage to O(log n);
// the recursive call into the equal partition, which advances depth
// instead of shrinking n, is a genuine call bounded by state.NKeys.
// Recursion goes through sortTuples so each sub-range is verified in
// Debug mode; the tail-loop sub-slices are covered by this entry's own
// verification, since they stay at the same depth within x.
func sortRange(x []SortTuple, depth int, state *SortState, seenNull bool) error {
	for {
		n := len(x)
		if n <= 1 || depth == state.NKeys {
			return nil
		}

		if state.CheckInterrupt != nil {
			if err := state.CheckInterrupt(); err != nil {
				return wrapInterrupt(depth, err)
			}
		}

		ordered, err := preOrdered(x, depth, state)
		if err != nil {
			return err
		}
		if ordered {
			return nil
		}

		if n < insertionSortThreshold && state.DuplicateHandler == nil {
			insertionSort(x, depth, state)
			return nil
		}

		pivotIdx := choosePivot(x, depth, state)
		swap(x, 0, pivotIdx)

		lessSize, equalSize, greaterSize, err := partition(x, depth, state, state.CheckInterrupt)
		if err != nil {
			return wrapInterrupt(depth, err)
		}

		equalSlice := x[lessSize : lessSize+equalSize]
		lessSlice := x[:lessSize]
		greaterSlice := x[lessSize+equalSize:]

		// Any tuple in the equal slice suffices to test null-ness at
		// this depth; they all compare equal here by construction.
		depthNull := checkDatumNull(&equalSlice[0], depth, state)

		if lessSize <= greaterSize {
			if err := sortTuples(lessSlice, depth, state, seenNull); err != nil {
				return err
			}
			if err := descendEqual(equalSlice, depth, state, seenNull, depthNull); err != nil {
				return err
			}
			x = greaterSlice
		} else {
			if err := sortTuples(greaterSlice, depth, state, seenNull); err != nil {
				return err
			}
			if err := descendEqual(equalSlice, depth, state, seenNull, depthNull); err != nil {
				return err
			}
			x = lessSlice
		}
	}
}

// descendEqual handles the partition's equal-at-this-depth run: either
// recurse at depth+1 (the radix-style key advance), or, at the deepest
// key, hand the run to the duplicate handler.
func descendEqual(equalSlice []SortTuple, depth int, state *SortState, seenNull, depthNull bool) error {
	seen := seenNull || depthNull
	if depth < state.NKeys-1 {
		return sortTuples(equalSlice, depth+1, state, seen)
	}
	if state.DuplicateHandler != nil && len(equalSlice) > 1 {
		if err := state.DuplicateHandler.HandleDuplicates(equalSlice, seen, state); err != nil {
			return wrapCollaborator(depth, err)
		}
	}
	return nil
}

// preOrdered runs the pre-order short-circuit: for specialized leading
// comparators it checks the whole tuple is non-decreasing (only at
// depth 0, since deeper keys were never compared by the fast path);
// for the generic comparator it requires a strictly increasing run at
// the current depth, since equal neighbors still need a deeper-key
// comparison to be correctly ordered. A configured DuplicateHandler
// tightens the full-tuple check to strict increase as well: equal
// neighbors form a run the handler must still see, so they cannot
// short-circuit.
func preOrdered(x []SortTuple, depth int, state *SortState) (bool, error) {
	n := len(x)

	if state.LeadingKind != Generic {
		if depth != 0 {
			return false, nil
		}
		for i := 0; i < n-1; i++ {
			if state.CheckInterrupt != nil {
				if err := state.CheckInterrupt(); err != nil {
					return false, wrapInterrupt(depth, err)
				}
			}
			dist := state.FullTupleCompare(&x[i], &x[i+1])
			if dist > 0 || (dist == 0 && state.DuplicateHandler != nil) {
				return false, nil
			}
		}
		return true, nil
	}

	for i := 0; i < n-1; i++ {
		if state.CheckInterrupt != nil {
			if err := state.CheckInterrupt(); err != nil {
				return false, wrapInterrupt(depth, err)
			}
		}
		if compareDatum(&x[i], &x[i+1], depth, state) >= 0 {
			return false, nil
		}
	}
	return true, nil
}

// insertionSort sorts x in place using compareRange at depth, the way
// the recursive driver falls back for small partitions that do not
// need duplicate-run handling.
func insertionSort(x []SortTuple, depth int, state *SortState) {
	for m := 0; m < len(x); m++ {
		for l := m; l > 0; l-- {
			if compareRange(&x[l-1], &x[l], depth, state) <= 0 {
				break
			}
			swap(x, l, l-1)
		}
	}
}
