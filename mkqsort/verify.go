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

import "fmt"

// verify confirms x is non-decreasing at depth, according to
// compareDatum. In Debug mode it runs after every recursive driver
// invocation, on that invocation's sub-range at its own depth. It
// panics on the first violation: reaching here means either a
// collaborator comparator is not a valid total order, or there is a
// bug in the core itself, not something a caller can recover from.
func verify(x []SortTuple, depth int, state *SortState) {
	for i := 0; i < len(x)-1; i++ {
		if compareDatum(&x[i], &x[i+1], depth, state) > 0 {
			panic(fmt.Sprintf("mkqsort: output not ordered at depth %d, index %d", depth, i))
		}
	}
}
