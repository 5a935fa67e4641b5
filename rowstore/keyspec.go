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

import "github.com/sneller-labs/mkqsort/mkqsort"

// KeySpec names one sort key: which table column it reads, and its
// ordering. Only KeySpec[0] consults Abbreviate.
type KeySpec struct {
	Column     int
	Direction  mkqsort.Direction
	NullsOrder mkqsort.NullsOrder

	// Abbreviate requests leading-key abbreviation for a String column:
	// Datum1 stores an order-preserving 8-byte prefix of the string
	// rather than the string itself. Ignored on any KeySpec other than
	// index 0. On index 0, BuildSortState requires it for a String
	// column and rejects it for any other column Kind.
	Abbreviate bool
}
