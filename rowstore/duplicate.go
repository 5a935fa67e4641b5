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

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/dchest/siphash"

	"github.com/sneller-labs/mkqsort/mkqsort"
)

// ErrDuplicateKey is wrapped and returned by UniqueChecker when an equal
// run at the deepest sort key contains more than one row.
var ErrDuplicateKey = errors.New("rowstore: duplicate key")

const (
	fingerprintKey0 = 0x5ee71e2b00000003
	fingerprintKey1 = 0x5ee71e2b00000004
)

// rowFingerprint hashes the leading column's bytes for the first row of
// a duplicate run, purely to give ErrDuplicateKey a short, stable
// identifier in logs; it plays no role in ordering or equality.
func rowFingerprint(table *Table, keys []KeySpec, row int) uint64 {
	col := &table.Columns[keys[0].Column]
	if col.Nulls[row] {
		return 0
	}
	var buf [8]byte
	switch col.Kind {
	case String:
		return siphash.Hash(fingerprintKey0, fingerprintKey1, []byte(col.Strings[row]))
	case Int64:
		binary.BigEndian.PutUint64(buf[:], uint64(col.Int64s[row]))
	case Uint64:
		binary.BigEndian.PutUint64(buf[:], col.Uint64s[row])
	default:
		binary.BigEndian.PutUint64(buf[:], encodeDatum(col, row))
	}
	return siphash.Hash(fingerprintKey0, fingerprintKey1, buf[:])
}

// UniqueChecker is a DuplicateHandler that rejects any equal run longer
// than one row, modeling the check a CREATE UNIQUE INDEX build performs
// once rows have been grouped by full key.
type UniqueChecker struct {
	Table *Table
	Keys  []KeySpec
}

func (u *UniqueChecker) HandleDuplicates(run []mkqsort.SortTuple, seenNull bool, state *mkqsort.SortState) error {
	if len(run) <= 1 {
		return nil
	}
	fp := rowFingerprint(u.Table, u.Keys, run[0].Payload)
	return fmt.Errorf("%w: fingerprint %016x, %d rows, seenNull=%v", ErrDuplicateKey, fp, len(run), seenNull)
}

// CountingHandler is a DuplicateHandler that tallies how many rows fall
// into equal runs longer than one, e.g. to report a SELECT DISTINCT
// reduction ratio. Safe to share across concurrently sorted batches: the
// counters are updated atomically.
type CountingHandler struct {
	runs int64
	rows int64
}

func (c *CountingHandler) HandleDuplicates(run []mkqsort.SortTuple, seenNull bool, state *mkqsort.SortState) error {
	if len(run) <= 1 {
		return nil
	}
	atomic.AddInt64(&c.runs, 1)
	atomic.AddInt64(&c.rows, int64(len(run)))
	return nil
}

// Stats returns the number of duplicate runs observed and the total
// number of rows they contained.
func (c *CountingHandler) Stats() (runs, rows int64) {
	return atomic.LoadInt64(&c.runs), atomic.LoadInt64(&c.rows)
}
