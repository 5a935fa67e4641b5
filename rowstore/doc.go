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

// Package rowstore is the concrete "row materialization" collaborator for
// mkqsort: an in-memory table of heterogeneous typed columns, a
// KeyAccessor that resolves column values at any sort-key depth, and the
// duplicate handlers a uniqueness check or a distinct-count would need on
// the equal runs mkqsort surfaces.
//
// Columns are homogeneously typed (one of Bool, Int64, Uint64, Float64,
// String, Timestamp) and individually nullable. The leading column's type
// picks mkqsort's LeadingKind: Int64 and Uint64 get the specialized
// shortcut comparators, everything else falls back to Generic. A String
// leading column must additionally be abbreviated: Datum1 stores the
// big-endian packing of the string's first 8 bytes instead of the string
// itself, an order-preserving stand-in that trades an occasional full
// re-compare (when two values share an 8-byte prefix) for a
// cache-resident leading key. siphash is used elsewhere in the package,
// for a short diagnostic fingerprint attached to duplicate-key errors;
// it plays no part in ordering.
package rowstore
