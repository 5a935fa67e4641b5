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
	"fmt"
	"time"
)

// ColumnKind identifies the Go type backing a Column.
type ColumnKind int

const (
	Bool ColumnKind = iota
	Int64
	Uint64
	Float64
	String
	Timestamp
)

func (k ColumnKind) String() string {
	switch k {
	case Bool:
		return "bool"
	case Int64:
		return "int64"
	case Uint64:
		return "uint64"
	case Float64:
		return "float64"
	case String:
		return "string"
	case Timestamp:
		return "timestamp"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// Column is one homogeneously typed, individually nullable table column.
// Only the slice matching Kind is populated; the others are left nil.
type Column struct {
	Kind  ColumnKind
	Nulls []bool

	Bools   []bool
	Int64s  []int64
	Uint64s []uint64
	Float64s []float64
	Strings []string
	Times   []time.Time
}

// Len reports the number of rows in the column.
func (c *Column) Len() int { return len(c.Nulls) }

// BoolColumn, Int64Column, etc. build a Column from values with no nulls.
func BoolColumn(vals []bool) Column {
	return Column{Kind: Bool, Nulls: make([]bool, len(vals)), Bools: vals}
}

func Int64Column(vals []int64) Column {
	return Column{Kind: Int64, Nulls: make([]bool, len(vals)), Int64s: vals}
}

func Uint64Column(vals []uint64) Column {
	return Column{Kind: Uint64, Nulls: make([]bool, len(vals)), Uint64s: vals}
}

func Float64Column(vals []float64) Column {
	return Column{Kind: Float64, Nulls: make([]bool, len(vals)), Float64s: vals}
}

func StringColumn(vals []string) Column {
	return Column{Kind: String, Nulls: make([]bool, len(vals)), Strings: vals}
}

func TimestampColumn(vals []time.Time) Column {
	return Column{Kind: Timestamp, Nulls: make([]bool, len(vals)), Times: vals}
}

// SetNull marks row i of the column as NULL.
func (c *Column) SetNull(i int) { c.Nulls[i] = true }

// Table is a set of equal-length columns, row-addressed by index.
type Table struct {
	Columns []Column
}

// NumRows returns the row count, or 0 for an empty table.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return t.Columns[0].Len()
}

// Slice returns a Table view over rows [start, end), sharing the
// original column backing arrays. Mutating values through the slice
// (other than SetNull, which only ever narrows to true) is not safe
// once a Table has been sliced this way.
func (t *Table) Slice(start, end int) *Table {
	cols := make([]Column, len(t.Columns))
	for i, c := range t.Columns {
		cols[i] = Column{Kind: c.Kind, Nulls: c.Nulls[start:end]}
		switch c.Kind {
		case Bool:
			cols[i].Bools = c.Bools[start:end]
		case Int64:
			cols[i].Int64s = c.Int64s[start:end]
		case Uint64:
			cols[i].Uint64s = c.Uint64s[start:end]
		case Float64:
			cols[i].Float64s = c.Float64s[start:end]
		case String:
			cols[i].Strings = c.Strings[start:end]
		case Timestamp:
			cols[i].Times = c.Times[start:end]
		}
	}
	return &Table{Columns: cols}
}
