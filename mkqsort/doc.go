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

/*
Package mkqsort implements a multi-key quicksort (MKQS): an in-place sort
of tuples by an ordered list of sort keys that blends Quicksort with a
radix-style key advance.

Overview

Like regular Quicksort, mkqsort partitions its input into values less
than and greater than a pivot (compared at the current key only); like
radix sort, once a sub-range is known to be equal at the current key it
moves on to the next key instead of re-comparing the whole tuple. This
pays off whenever the leading sort key has many duplicates, since the
bulk of the comparison work shifts to whichever key actually
discriminates the rows.

The implementation follows Bentley & McIlroy, "Engineering a Sort
Function" for the three-way partition, plus the key-advance-on-equal
discipline that turns it into a multi-key sort.

Design

There is exactly one entry point, Sort, operating on a caller-owned
[]SortTuple. The caller supplies a SortState describing the key list,
a KeyAccessor that resolves deeper keys from an opaque row handle
carried in each tuple, and optionally a DuplicateHandler invoked once
per maximal equal run at the last key.

Sort itself never allocates and never spawns a goroutine: it is meant
to be called once per independent batch from an outer, possibly
concurrent, driver (see the sibling engine package). Cancellation is
cooperative, via SortState.CheckInterrupt, not via context.Context,
since the recursive driver is not itself doing any I/O or blocking
work that context would naturally thread through.
*/
package mkqsort
