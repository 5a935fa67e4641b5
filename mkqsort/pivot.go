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

// medianOfThree returns whichever of a, b, c indexes the median tuple
// at depth, comparing with compareDatum.
func medianOfThree(x []SortTuple, a, b, c, depth int, state *SortState) int {
	ab := compareDatum(&x[a], &x[b], depth, state)
	if ab < 0 {
		bc := compareDatum(&x[b], &x[c], depth, state)
		if bc < 0 {
			return b
		}
		if compareDatum(&x[a], &x[c], depth, state) < 0 {
			return c
		}
		return a
	}
	bc := compareDatum(&x[b], &x[c], depth, state)
	if bc > 0 {
		return b
	}
	if compareDatum(&x[a], &x[c], depth, state) < 0 {
		return a
	}
	return c
}

// choosePivot picks an index to use as a partition pivot: the midpoint
// for small ranges, median-of-three for medium ranges, and a ninther
// (median of three medians-of-three) for large ranges.
func choosePivot(x []SortTuple, depth int, state *SortState) int {
	n := len(x)
	if n <= 7 {
		return n / 2
	}

	l, m, r := 0, n/2, n-1
	if n > 40 {
		d := n / 8
		l = medianOfThree(x, l, l+d, l+2*d, depth, state)
		m = medianOfThree(x, m-d, m, m+d, depth, state)
		r = medianOfThree(x, r-2*d, r-d, r, depth, state)
	}
	return medianOfThree(x, l, m, r, depth, state)
}
