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

import (
	"errors"
	"math/rand"
	"testing"
)

// row is a tiny two-column fixture: a set of nullable int64 values per
// sort key depth. Tests build a []row table and SortTuple.Payload
// indexes into it.
type row struct {
	vals  []int64
	nulls []bool
}

// compareNullableInt64 implements the generic nulls-aware comparator
// shape every SortKey.Compare/CompareAbbrevFull in this package needs:
// direction flips the non-null ordering, nulls-first/last is itself
// direction-relative (a descending nulls-first column puts its NULLs
// last in the output, as assertSortedWithNulls expects).
func compareNullableInt64(d1 uint64, n1 bool, d2 uint64, n2 bool, dir Direction, nulls NullsOrder) int {
	if n1 || n2 {
		if n1 && n2 {
			return 0
		}
		rel := 1
		if n1 {
			rel = -1
		}
		if (nulls == NullsLast) != (dir == Descending) {
			rel = -rel
		}
		return rel
	}

	a, b := int64(d1), int64(d2)
	var rel int
	if a < b {
		rel = -1
	} else if a > b {
		rel = 1
	}
	return rel * int(dir)
}

func encodeInt64(v int64) uint64 { return uint64(v) }

// buildState wires a two-key int64 SortState (no abbreviation) over
// table, for the given leading kind, directions and nulls orders.
func buildState(table []row, leadingKind LeadingKind, dirs []Direction, nullsOrders []NullsOrder, dup DuplicateHandler) *SortState {
	nKeys := len(dirs)
	keys := make([]SortKey, nKeys)
	for i := range keys {
		dir, nullsOrder := dirs[i], nullsOrders[i]
		keys[i] = SortKey{
			Direction:  dir,
			NullsOrder: nullsOrder,
			Compare: func(d1 uint64, n1 bool, d2 uint64, n2 bool) int {
				return compareNullableInt64(d1, n1, d2, n2, dir, nullsOrder)
			},
		}
	}

	accessor := KeyAccessorFunc(func(t1, t2 *SortTuple, depth int, state *SortState) (uint64, bool, uint64, bool) {
		r1 := table[t1.Payload]
		d1, n1 := encodeInt64(r1.vals[depth]), r1.nulls[depth]
		var d2 uint64
		var n2 bool
		if t2 != nil {
			r2 := table[t2.Payload]
			d2, n2 = encodeInt64(r2.vals[depth]), r2.nulls[depth]
		}
		return d1, n1, d2, n2
	})

	state := &SortState{
		NKeys:            nKeys,
		Keys:             keys,
		LeadingKind:      leadingKind,
		Accessor:         accessor,
		DuplicateHandler: dup,
	}

	leadDir, leadNulls := dirs[0], nullsOrders[0]
	leadCompare := func(d1 uint64, n1 bool, d2 uint64, n2 bool) int {
		return compareNullableInt64(d1, n1, d2, n2, leadDir, leadNulls)
	}
	switch leadingKind {
	case Unsigned, Signed, Int32:
		switch leadingKind {
		case Unsigned:
			state.ApplyUnsigned = leadCompare
		case Signed:
			state.ApplySigned = leadCompare
		case Int32:
			state.ApplyInt32 = leadCompare
		}
		state.FullTupleCompare = func(t1, t2 *SortTuple) int {
			for depth := 0; depth < nKeys; depth++ {
				var d1, d2 uint64
				var n1, n2 bool
				if depth == 0 {
					d1, n1 = t1.Datum1, t1.IsNull1
					d2, n2 = t2.Datum1, t2.IsNull1
				} else {
					d1, n1, d2, n2 = accessor.GetDatum(t1, t2, depth, state)
				}
				if ret := compareNullableInt64(d1, n1, d2, n2, dirs[depth], nullsOrders[depth]); ret != 0 {
					return ret
				}
			}
			return 0
		}
	}

	return state
}

func tuplesFor(table []row) []SortTuple {
	x := make([]SortTuple, len(table))
	for i := range table {
		x[i] = SortTuple{
			Datum1:  encodeInt64(table[i].vals[0]),
			IsNull1: table[i].nulls[0],
			Payload: i,
		}
	}
	return x
}

func newRow(vals ...int64) row {
	return row{vals: vals, nulls: make([]bool, len(vals))}
}

func valuesOf(table []row, x []SortTuple, depth int) []int64 {
	out := make([]int64, len(x))
	for i, t := range x {
		out[i] = table[t.Payload].vals[depth]
	}
	return out
}

// --- scenario 1: partition equals-folding ---

func TestScenario1PartitionEqualsFolding(t *testing.T) {
	// n=20 clears insertionSortThreshold, forcing the real partition
	// path to fold both edges of equal-to-pivot runs into the middle.
	r := rand.New(rand.NewSource(99))
	table := make([]row, 20)
	for i := range table {
		table[i] = newRow(int64(r.Intn(3)), int64(i))
	}
	x := tuplesFor(table)
	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)

	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	assertSorted(t, table, x, []Direction{Ascending, Ascending})
}


// --- scenario 2: generic strict pre-order short circuit ---

func TestScenario2GenericPreOrderStrict(t *testing.T) {
	table := []row{newRow(1, 1), newRow(1, 2), newRow(1, 3), newRow(1, 4)}
	x := tuplesFor(table)
	state := buildState(table, Generic, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)

	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	got := valuesOf(table, x, 1)
	want := []int64{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// --- scenario 3: small-N insertion sort fallback ---

func TestScenario3InsertionSortFallback(t *testing.T) {
	table := []row{newRow(5, 5), newRow(4, 4), newRow(3, 3), newRow(2, 2), newRow(1, 1)}
	x := tuplesFor(table)
	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)

	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	got := valuesOf(table, x, 0)
	want := []int64{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// --- scenario 4: single equal K0 partition, random K1 ---

func TestScenario4DepthAdvanceOnConstantLeadingKey(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	perm := r.Perm(20)
	table := make([]row, 20)
	for i, v := range perm {
		table[i] = newRow(7, int64(v))
	}
	x := tuplesFor(table)
	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)

	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	got := valuesOf(table, x, 1)
	for i := 1; i < len(got); i++ {
		if got[i-1] > got[i] {
			t.Fatalf("not sorted by K1: %v", got)
		}
	}
}

// --- scenario 5: null placement + tiebreak ---

func TestScenario5NullPlacementAndTiebreak(t *testing.T) {
	nullRow := func(v1 int64) row {
		return row{vals: []int64{0, v1}, nulls: []bool{true, false}}
	}
	table := []row{nullRow(2), newRow(1, 1), nullRow(1), newRow(1, 2)}
	x := tuplesFor(table)
	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)

	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}

	type pair struct {
		null bool
		v1   int64
	}
	got := make([]pair, len(x))
	for i, tup := range x {
		r := table[tup.Payload]
		got[i] = pair{r.nulls[0], r.vals[1]}
	}
	want := []pair{{false, 1}, {false, 2}, {true, 1}, {true, 2}}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

// --- scenario 6: duplicate handler invoked once on full equal run ---

func TestScenario6DuplicateHandlerInvokedOnce(t *testing.T) {
	table := []row{newRow(1, 1), newRow(1, 1), newRow(1, 1)}
	x := tuplesFor(table)

	var calls int
	var gotLen int
	var gotSeenNull bool
	dup := DuplicateHandlerFunc(func(run []SortTuple, seenNull bool, state *SortState) error {
		calls++
		gotLen = len(run)
		gotSeenNull = seenNull
		return nil
	})

	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, dup)
	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if gotLen != 3 {
		t.Fatalf("handler run length %d, want 3", gotLen)
	}
	if gotSeenNull {
		t.Fatalf("seenNull true, want false")
	}
}

// --- P5: seenNull reflects NULLs above the deepest key ---

func TestDuplicateHandlerSeenNull(t *testing.T) {
	nullLead := func(v1 int64) row {
		return row{vals: []int64{0, v1}, nulls: []bool{true, false}}
	}
	// Two rows equal on the full key with a NULL leading key, plus two
	// unique rows that must not reach the handler at all.
	table := []row{nullLead(3), newRow(1, 1), nullLead(3), newRow(2, 2)}
	x := tuplesFor(table)

	var calls int
	var gotLen int
	var gotSeenNull bool
	dup := DuplicateHandlerFunc(func(run []SortTuple, seenNull bool, state *SortState) error {
		calls++
		gotLen = len(run)
		gotSeenNull = seenNull
		return nil
	})

	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, dup)
	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if gotLen != 2 {
		t.Fatalf("handler run length %d, want 2", gotLen)
	}
	if !gotSeenNull {
		t.Fatalf("seenNull false, want true (leading key of the run is NULL)")
	}
}

// --- scenario 6 variant: pre-sorted input must still reach the handler ---

func TestDuplicateHandlerCalledOnPreSortedInput(t *testing.T) {
	// Already sorted, so the full-tuple pre-order check would normally
	// short-circuit; a configured handler forbids that for equal runs.
	table := []row{newRow(1, 1), newRow(1, 1), newRow(2, 2), newRow(3, 3)}
	x := tuplesFor(table)

	var calls int
	dup := DuplicateHandlerFunc(func(run []SortTuple, seenNull bool, state *SortState) error {
		calls++
		if len(run) != 2 {
			t.Fatalf("run length %d, want 2", len(run))
		}
		return nil
	})

	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, dup)
	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
}

func TestDebugVerifier(t *testing.T) {
	Debug = true
	defer func() { Debug = false }()

	// Heavy leading-key duplication forces deep equal-partition
	// recursion, so the per-invocation checks run at depth 1 too.
	r := rand.New(rand.NewSource(5))
	table := make([]row, 64)
	for i := range table {
		table[i] = newRow(int64(r.Intn(8)), int64(r.Intn(8)))
	}
	x := tuplesFor(table)
	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)
	if err := Sort(x, state); err != nil {
		t.Fatalf("Sort: %v", err)
	}
}

func TestVerifyCatchesSecondaryKeyViolation(t *testing.T) {
	// Tied at K0, misordered at K1: invisible to a depth-0 check (the
	// pair compares equal there), caught at depth 1.
	table := []row{newRow(1, 2), newRow(1, 1)}
	x := tuplesFor(table)
	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)

	verify(x, 0, state)

	defer func() {
		if recover() == nil {
			t.Fatalf("verify at depth 1 did not panic on misordered secondary key")
		}
	}()
	verify(x, 1, state)
}

func TestDuplicateHandlerError(t *testing.T) {
	table := []row{newRow(1, 1), newRow(1, 1)}
	x := tuplesFor(table)
	sentinel := errors.New("boom")
	dup := DuplicateHandlerFunc(func(run []SortTuple, seenNull bool, state *SortState) error {
		return sentinel
	})
	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, dup)
	err := Sort(x, state)
	if !errors.Is(err, sentinel) {
		t.Fatalf("got %v, want wrapped %v", err, sentinel)
	}
}

func TestCancellation(t *testing.T) {
	table := make([]row, 50)
	r := rand.New(rand.NewSource(2))
	for i := range table {
		table[i] = newRow(int64(r.Intn(50)), int64(r.Intn(50)))
	}
	x := tuplesFor(table)

	n := 0
	state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)
	state.CheckInterrupt = func() error {
		n++
		if n > 3 {
			return errors.New("cancelled by test")
		}
		return nil
	}

	err := Sort(x, state)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("got %v, want wrapped ErrCancelled", err)
	}

	// I1: the slice must still be a permutation of the original
	// multiset even though sorting was aborted midway.
	seen := make(map[int]bool)
	for _, tup := range x {
		seen[tup.Payload] = true
	}
	if len(seen) != len(table) {
		t.Fatalf("array corrupted on cancellation: %d distinct payloads, want %d", len(seen), len(table))
	}
}

// --- boundary sizes ---

func TestBoundarySizes(t *testing.T) {
	for _, n := range []int{0, 1, 2, 15, 16, 17, 40, 41} {
		n := n
		t.Run("", func(t *testing.T) {
			r := rand.New(rand.NewSource(int64(n) + 7))
			table := make([]row, n)
			for i := range table {
				table[i] = newRow(int64(r.Intn(5)), int64(r.Intn(n+1)))
			}
			x := tuplesFor(table)
			state := buildState(table, Int32, []Direction{Ascending, Ascending}, []NullsOrder{NullsLast, NullsLast}, nil)
			if err := Sort(x, state); err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}
			assertSorted(t, table, x, []Direction{Ascending, Ascending})
		})
	}
}

func assertSorted(t *testing.T, table []row, x []SortTuple, dirs []Direction) {
	t.Helper()
	for i := 1; i < len(x); i++ {
		a := table[x[i-1].Payload]
		b := table[x[i].Payload]
		for k := range dirs {
			if a.vals[k] == b.vals[k] {
				continue
			}
			if dirs[k] == Ascending && a.vals[k] > b.vals[k] {
				t.Fatalf("not sorted at %d/%d: %v vs %v", i-1, i, a.vals, b.vals)
			}
			if dirs[k] == Descending && a.vals[k] < b.vals[k] {
				t.Fatalf("not sorted at %d/%d: %v vs %v", i-1, i, a.vals, b.vals)
			}
			break
		}
	}
}

// --- property: permutation + orderedness + idempotence over random input ---

func TestPropertiesRandom(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	dirs := []Direction{Ascending, Descending}
	nullsOrders := []NullsOrder{NullsLast, NullsFirst}

	for trial := 0; trial < 30; trial++ {
		n := r.Intn(60)
		table := make([]row, n)
		for i := range table {
			v0 := int64(r.Intn(6) - 3)
			v1 := int64(r.Intn(6) - 3)
			rr := newRow(v0, v1)
			if r.Intn(5) == 0 {
				rr.nulls[0] = true
			}
			table[i] = rr
		}

		x := tuplesFor(table)
		original := append([]SortTuple(nil), x...)

		state := buildState(table, Int32, dirs, nullsOrders, nil)
		if err := Sort(x, state); err != nil {
			t.Fatalf("trial %d: %v", trial, err)
		}

		// P1: permutation preserved
		if !samePayloadMultiset(original, x) {
			t.Fatalf("trial %d: permutation not preserved", trial)
		}

		// P2: orderedness, honoring nulls-last on K0
		assertSortedWithNulls(t, table, x, dirs, nullsOrders)

		// P3: idempotence
		again := append([]SortTuple(nil), x...)
		if err := Sort(again, state); err != nil {
			t.Fatalf("trial %d: re-sort: %v", trial, err)
		}
		for i := range again {
			if again[i].Payload != x[i].Payload {
				t.Fatalf("trial %d: not idempotent at %d", trial, i)
			}
		}
	}
}

func samePayloadMultiset(a, b []SortTuple) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[int]int)
	for _, t := range a {
		counts[t.Payload]++
	}
	for _, t := range b {
		counts[t.Payload]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

func assertSortedWithNulls(t *testing.T, table []row, x []SortTuple, dirs []Direction, nulls []NullsOrder) {
	t.Helper()
	for i := 1; i < len(x); i++ {
		a := table[x[i-1].Payload]
		b := table[x[i].Payload]
		for k := range dirs {
			an, bn := a.nulls[k], b.nulls[k]
			if an && bn {
				continue
			}
			if an != bn {
				aFirst := (nulls[k] == NullsFirst) == (dirs[k] == Ascending)
				if an && !aFirst {
					t.Fatalf("null ordering violated at %d/%d key %d", i-1, i, k)
				}
				if bn && aFirst {
					t.Fatalf("null ordering violated at %d/%d key %d", i-1, i, k)
				}
				break
			}
			if a.vals[k] == b.vals[k] {
				continue
			}
			if dirs[k] == Ascending && a.vals[k] > b.vals[k] {
				t.Fatalf("not sorted at %d/%d key %d: %v vs %v", i-1, i, k, a.vals, b.vals)
			}
			if dirs[k] == Descending && a.vals[k] < b.vals[k] {
				t.Fatalf("not sorted at %d/%d key %d: %v vs %v", i-1, i, k, a.vals, b.vals)
			}
			break
		}
	}
}
