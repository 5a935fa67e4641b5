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

// Package engine drives rowstore tables through the mkqsort core across
// a worker pool: a table is split into independent, contiguous batches,
// each batch is sorted concurrently with the others, and finished
// batches are streamed to a Writer in row-range order.
//
// The engine does not merge values across batch boundaries, so the
// table as a whole ends up only partially ordered (each batch
// internally sorted) rather than globally sorted; callers that need a
// single total order across the whole table should use a batch size
// equal to the table's row count. A batch whose sort fails (e.g. a
// rowstore.UniqueChecker rejecting a duplicate) aborts the run without
// touching any other batch's already-sorted data; if that batch's
// output range has not yet been flushed, its rows are simply never
// written, since the stream cannot skip the resulting gap.
package engine
