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

package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sneller-labs/mkqsort/rowstore"
)

// readCSV loads an RFC 4180 CSV file into a Table, skipping the header
// row. Columns named in intCols are parsed as int64 (an empty cell
// becomes NULL); every other column is kept as a string (an empty cell
// is NULL there too).
func readCSV(path string, intCols map[int]bool) (*rowstore.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	numCols := len(header)
	intVals := make([][]int64, numCols)
	intNulls := make([][]bool, numCols)
	strVals := make([][]string, numCols)
	strNulls := make([][]bool, numCols)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		for c := 0; c < numCols && c < len(record); c++ {
			empty := record[c] == ""
			if intCols[c] {
				var v int64
				if !empty {
					v, err = strconv.ParseInt(record[c], 10, 64)
					if err != nil {
						return nil, fmt.Errorf("column %d: %w", c, err)
					}
				}
				intVals[c] = append(intVals[c], v)
				intNulls[c] = append(intNulls[c], empty)
			} else {
				strVals[c] = append(strVals[c], record[c])
				strNulls[c] = append(strNulls[c], empty)
			}
		}
	}

	columns := make([]rowstore.Column, numCols)
	for c := 0; c < numCols; c++ {
		if intCols[c] {
			col := rowstore.Int64Column(intVals[c])
			col.Nulls = intNulls[c]
			columns[c] = col
		} else {
			col := rowstore.StringColumn(strVals[c])
			col.Nulls = strNulls[c]
			columns[c] = col
		}
	}
	return &rowstore.Table{Columns: columns}, nil
}
