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

package engine

import (
	"github.com/google/uuid"

	"github.com/sneller-labs/mkqsort/mkqsort"
)

// Batch is one independently-sortable slice of a table: a contiguous
// row range together with the SortState and initial tuples built for
// just that range. Batches are sorted concurrently and independently;
// the engine never merges values across batch boundaries, it only
// streams completed batches back out in row-index (program) order.
type Batch struct {
	ID     uuid.UUID
	Rows   indicesRange
	State  *mkqsort.SortState
	Tuples []mkqsort.SortTuple
}

// batchResult is what a worker hands back to the consumer once a
// Batch's Sort call returns (successfully or not).
type batchResult struct {
	id     uuid.UUID
	rows   indicesRange
	tuples []mkqsort.SortTuple
	err    error
}

// Split divides [0, numRows) into batches of at most batchSize rows
// each, in ascending row-index order. The last batch may be smaller.
func Split(numRows, batchSize int) []indicesRange {
	if batchSize <= 0 {
		batchSize = numRows
	}
	var ranges []indicesRange
	for start := 0; start < numRows; start += batchSize {
		end := minInt(start+batchSize, numRows) - 1
		ranges = append(ranges, indicesRange{start: start, end: end})
	}
	return ranges
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
