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

// swap exchanges x[a] and x[b].
func swap(x []SortTuple, a, b int) {
	if a == b {
		return
	}
	x[a], x[b] = x[b], x[a]
}

// vecSwap exchanges the size tuples starting at a with the size tuples
// starting at b (the two ranges must be disjoint).
func vecSwap(x []SortTuple, a, b, size int) {
	for ; size > 0; size-- {
		swap(x, a, b)
		a++
		b++
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// partition performs the in-place three-way Bentley-McIlroy partition
// of x at the given depth, using x[0] as the pivot (the caller is
// expected to have already moved the chosen pivot index to 0). It
// returns (lessSize, equalSize, greaterSize) such that, after the
// call, x is laid out as [less | equal | greater] with those sizes in
// order.
//
// checkInterrupt is polled inside the two inner scan loops; a non-nil
// error aborts immediately, leaving x in an unspecified (but still a
// permutation of the original) order.
func partition(x []SortTuple, depth int, state *SortState, checkInterrupt InterruptChecker) (lessSize, equalSize, greaterSize int, err error) {
	n := len(x)
	pivot := &x[0]

	lessStart, lessEnd := 1, 1
	greaterStart, greaterEnd := n-1, n-1

	for {
		for lessEnd <= greaterStart {
			if checkInterrupt != nil {
				if err := checkInterrupt(); err != nil {
					return 0, 0, 0, err
				}
			}
			dist := compareDatum(&x[lessEnd], pivot, depth, state)
			if dist > 0 {
				break
			}
			if dist == 0 {
				swap(x, lessEnd, lessStart)
				lessStart++
			}
			lessEnd++
		}

		for lessEnd <= greaterStart {
			if checkInterrupt != nil {
				if err := checkInterrupt(); err != nil {
					return 0, 0, 0, err
				}
			}
			dist := compareDatum(&x[greaterStart], pivot, depth, state)
			if dist < 0 {
				break
			}
			if dist == 0 {
				swap(x, greaterStart, greaterEnd)
				greaterEnd--
			}
			greaterStart--
		}

		if lessEnd > greaterStart {
			break
		}
		swap(x, lessEnd, greaterStart)
		lessEnd++
		greaterStart--
	}

	// layout is now [left_equal | less | greater | right_equal];
	// fold the two equal edges into the middle.
	d := minInt(lessStart, lessEnd-lessStart)
	vecSwap(x, 0, lessEnd-d, d)

	d = minInt(greaterEnd-greaterStart, n-greaterEnd-1)
	vecSwap(x, lessEnd, n-d, d)

	lessSize = lessEnd - lessStart
	greaterSize = greaterEnd - greaterStart
	equalSize = n - lessSize - greaterSize
	return lessSize, equalSize, greaterSize, nil
}
