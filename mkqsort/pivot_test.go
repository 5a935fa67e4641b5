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

import "testing"

func TestMedianOfThree(t *testing.T) {
	state := simpleState()
	cases := []struct {
		vals []int64
		want int64
	}{
		{[]int64{1, 2, 3}, 2},
		{[]int64{3, 2, 1}, 2},
		{[]int64{2, 1, 3}, 2},
		{[]int64{2, 3, 1}, 2},
		{[]int64{5, 5, 5}, 5},
	}
	for _, c := range cases {
		x := tuplesFromValues(c.vals...)
		idx := medianOfThree(x, 0, 1, 2, 0, state)
		if got := int64(x[idx].Datum1); got != c.want {
			t.Fatalf("medianOfThree(%v) = %d, want %d", c.vals, got, c.want)
		}
	}
}

func TestChoosePivotSizeClasses(t *testing.T) {
	state := simpleState()

	// n <= 7: midpoint, no comparisons needed to locate it.
	small := tuplesFromValues(9, 8, 7, 6, 5)
	if got, want := choosePivot(small, 0, state), len(small)/2; got != want {
		t.Fatalf("small: choosePivot = %d, want %d", got, want)
	}

	// 7 < n <= 40: a single median-of-three over {0, n/2, n-1}; the
	// returned index must be one of those three.
	vals := make([]int64, 20)
	for i := range vals {
		vals[i] = int64(20 - i)
	}
	mid := tuplesFromValues(vals...)
	idx := choosePivot(mid, 0, state)
	if idx != 0 && idx != len(mid)/2 && idx != len(mid)-1 {
		t.Fatalf("mid: choosePivot = %d, want one of {0, %d, %d}", idx, len(mid)/2, len(mid)-1)
	}

	// n > 40: a ninther; must still land on a valid index.
	vals = make([]int64, 100)
	for i := range vals {
		vals[i] = int64(i)
	}
	large := tuplesFromValues(vals...)
	idx = choosePivot(large, 0, state)
	if idx < 0 || idx >= len(large) {
		t.Fatalf("large: choosePivot out of range: %d", idx)
	}
}
