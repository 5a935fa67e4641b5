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

// SortTuple is the unit the core operates on. Datum1/IsNull1 are always
// the leading-key value used for fast-path comparisons, even when they
// are only an abbreviation of the true value (see SortKey.AbbrevConverter).
// Payload is an opaque handle the caller's KeyAccessor uses to recover
// the full row and any key beyond depth 0; mkqsort never interprets it.
type SortTuple struct {
	Datum1  uint64
	IsNull1 bool
	Payload int
}

// SortKey carries the per-key comparison metadata and comparator
// callbacks for one position in the key list.
type SortKey struct {
	Direction  Direction
	NullsOrder NullsOrder

	// AbbrevConverter, meaningful only on Keys[0], marks Datum1 as a
	// lossy abbreviation of the true leading-key value: equal
	// abbreviations must be confirmed with CompareAbbrevFull.
	AbbrevConverter bool

	// Compare is the generic comparator for this key, honoring
	// Direction and NullsOrder. Used at depth >= 1 always, and at
	// depth 0 when LeadingKind == Generic.
	Compare func(d1 uint64, n1 bool, d2 uint64, n2 bool) int

	// CompareAbbrevFull resolves the true leading-key value from the
	// stored abbreviation (plus payload, fetched by the accessor) and
	// compares it. Only consulted on Keys[0] when AbbrevConverter is true.
	CompareAbbrevFull func(d1 uint64, n1 bool, d2 uint64, n2 bool) int
}

// KeyAccessor extracts key values at a given depth. It must be pure:
// deterministic for a given (tuple, depth) pair, and must not mutate
// the tuple array being sorted. Passing two tuples at once lets an
// implementation share row-deserialization work between them; t2/n2
// are only meaningful when t2 is non-nil.
type KeyAccessor interface {
	GetDatum(t1, t2 *SortTuple, depth int, state *SortState) (d1 uint64, n1 bool, d2 uint64, n2 bool)
}

// KeyAccessorFunc adapts a plain function to KeyAccessor.
type KeyAccessorFunc func(t1, t2 *SortTuple, depth int, state *SortState) (uint64, bool, uint64, bool)

func (f KeyAccessorFunc) GetDatum(t1, t2 *SortTuple, depth int, state *SortState) (uint64, bool, uint64, bool) {
	return f(t1, t2, depth, state)
}

// DuplicateHandler is invoked at most once per maximal equal run at the
// deepest configured key. seenNull is true iff some key of the run,
// the deepest one included, is NULL (every tuple in the run is equal
// at every key, so this holds for all of them). Implementations may return
// an error (e.g. a uniqueness violation) which aborts the sort.
type DuplicateHandler interface {
	HandleDuplicates(run []SortTuple, seenNull bool, state *SortState) error
}

// DuplicateHandlerFunc adapts a plain function to DuplicateHandler.
type DuplicateHandlerFunc func(run []SortTuple, seenNull bool, state *SortState) error

func (f DuplicateHandlerFunc) HandleDuplicates(run []SortTuple, seenNull bool, state *SortState) error {
	return f(run, seenNull, state)
}

// InterruptChecker is polled by the core; a non-nil error aborts the
// sort immediately. A nil InterruptChecker disables the check.
type InterruptChecker func() error

// SortState is the immutable (from the core's point of view) context
// for one Sort call: the key list, the leading-key comparator
// selection, and the collaborator callbacks.
type SortState struct {
	NKeys       int
	Keys        []SortKey
	LeadingKind LeadingKind

	Accessor         KeyAccessor
	DuplicateHandler DuplicateHandler
	CheckInterrupt   InterruptChecker

	// ApplyUnsigned, ApplySigned, ApplyInt32 back the shortcut
	// comparator for LeadingKind == Unsigned/Signed/Int32
	// respectively; exactly one of them needs to be set, matching
	// LeadingKind. They see Keys[0].Direction/NullsOrder baked in by
	// the caller (mirroring the specialized qsort_tuple_*_compare
	// family this is modeled on).
	ApplyUnsigned func(d1 uint64, n1 bool, d2 uint64, n2 bool) int
	ApplySigned   func(d1 uint64, n1 bool, d2 uint64, n2 bool) int
	ApplyInt32    func(d1 uint64, n1 bool, d2 uint64, n2 bool) int

	// FullTupleCompare compares two tuples across every key in one
	// shot; required when LeadingKind != Generic, since the depth-0
	// pre-order check for that mode works off the whole tuple rather
	// than per-depth comparisons. The small-N insertion sort does not
	// use it (it uses compareRange).
	FullTupleCompare func(t1, t2 *SortTuple) int
}

// validate checks the invariants the core assumes and panics (a
// programmer error, see package doc) if they are violated.
func (s *SortState) validate() {
	if s.NKeys < 2 {
		panic(fmt.Sprintf("mkqsort: NKeys must be >= 2, got %d", s.NKeys))
	}
	if len(s.Keys) != s.NKeys {
		panic(fmt.Sprintf("mkqsort: len(Keys)=%d does not match NKeys=%d", len(s.Keys), s.NKeys))
	}
	if s.Accessor == nil {
		panic("mkqsort: SortState.Accessor must not be nil")
	}
	switch s.LeadingKind {
	case Unsigned:
		if s.ApplyUnsigned == nil {
			panic("mkqsort: LeadingKind == Unsigned requires ApplyUnsigned")
		}
	case Signed:
		if s.ApplySigned == nil {
			panic("mkqsort: LeadingKind == Signed requires ApplySigned")
		}
	case Int32:
		if s.ApplyInt32 == nil {
			panic("mkqsort: LeadingKind == Int32 requires ApplyInt32")
		}
	case Generic:
		if s.Keys[0].Compare == nil {
			panic("mkqsort: LeadingKind == Generic requires Keys[0].Compare")
		}
	default:
		panic(fmt.Sprintf("mkqsort: unknown LeadingKind %d", s.LeadingKind))
	}
	if s.LeadingKind != Generic && s.FullTupleCompare == nil {
		panic("mkqsort: non-Generic LeadingKind requires FullTupleCompare")
	}
}
