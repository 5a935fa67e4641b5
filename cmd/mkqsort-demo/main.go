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

// mkqsort-demo runs the batch sort engine over a CSV file (or a
// generated dataset), prints the output row order, and logs timing and
// duplicate-run statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/sneller-labs/mkqsort/engine"
	"github.com/sneller-labs/mkqsort/mkqsort"
	"github.com/sneller-labs/mkqsort/rowstore"
)

func main() {
	csvPath := flag.String("csv", "", "CSV file to sort (first row is a header, skipped)")
	intCols := flag.String("int-cols", "", "comma-separated 0-based column indices to parse as int64 (others are treated as strings)")
	keySpec := flag.String("keys", "0:asc,1:asc", "comma-separated col:dir[:abbrev] sort key list (at least two keys), e.g. \"0:asc:abbrev,2:desc\"")
	workers := flag.Int("workers", 4, "number of batches sorted concurrently")
	batchSize := flag.Int("batch", 0, "rows per batch (0 = whole table as one batch)")
	limit := flag.Int("limit", 0, "max rows to print (0 = unlimited)")
	offset := flag.Int("offset", 0, "rows to skip before printing")
	dedupe := flag.String("dup", "none", "duplicate handling on the deepest key: none, count, or unique")
	genRows := flag.Int("gen", 0, "generate this many random rows instead of reading -csv")
	genCols := flag.Int("gen-cols", 2, "number of int64 columns to generate with -gen")
	flag.Parse()

	var table *rowstore.Table
	var err error
	switch {
	case *genRows > 0:
		table = generateTable(*genRows, *genCols)
	case *csvPath != "":
		table, err = readCSV(*csvPath, parseIntCols(*intCols))
	default:
		log.Fatal("one of -csv or -gen is required")
	}
	if err != nil {
		log.Fatalf("loading table: %s", err)
	}

	keys, err := parseKeySpec(*keySpec, len(table.Columns))
	if err != nil {
		log.Fatalf("parsing -keys: %s", err)
	}

	var newDup func(*rowstore.Table) mkqsort.DuplicateHandler
	var counting *rowstore.CountingHandler
	switch *dedupe {
	case "none":
	case "count":
		counting = &rowstore.CountingHandler{}
		newDup = func(*rowstore.Table) mkqsort.DuplicateHandler { return counting }
	case "unique":
		newDup = func(batch *rowstore.Table) mkqsort.DuplicateHandler {
			return &rowstore.UniqueChecker{Table: batch, Keys: keys}
		}
	default:
		log.Fatalf("unknown -dup mode %q", *dedupe)
	}

	cfg := engine.Config{
		Keys:                keys,
		BatchSize:           *batchSize,
		Workers:             *workers,
		NewDuplicateHandler: newDup,
	}
	if *limit > 0 || *offset > 0 {
		cfg.Limit = &engine.Limit{Limit: *limit, Offset: *offset}
		if *limit == 0 {
			cfg.Limit.Limit = table.NumRows()
		}
	}

	w := &printWriter{table: table}
	start := time.Now()
	stats, err := engine.Run(table, cfg, w)
	elapsed := time.Since(start)
	if err != nil {
		log.Fatalf("sort failed: %s", err)
	}

	log.Printf("sorted %d rows in %d batches in %s", stats.Rows, stats.Batches, elapsed)
	if counting != nil {
		runs, rows := counting.Stats()
		log.Printf("found %d duplicate runs covering %d rows", runs, rows)
	}
}

func parseIntCols(s string) map[int]bool {
	out := map[int]bool{}
	if s == "" {
		return out
	}
	for _, tok := range splitComma(s) {
		var idx int
		if _, err := fmt.Sscanf(tok, "%d", &idx); err == nil {
			out[idx] = true
		}
	}
	return out
}

func generateTable(rows, cols int) *rowstore.Table {
	r := rand.New(rand.NewSource(1))
	columns := make([]rowstore.Column, cols)
	for c := 0; c < cols; c++ {
		vals := make([]int64, rows)
		for i := range vals {
			vals[i] = int64(r.Intn(rows))
		}
		columns[c] = rowstore.Int64Column(vals)
	}
	return &rowstore.Table{Columns: columns}
}

// printWriter writes each output row's values to stdout, space
// separated, one row per line.
type printWriter struct {
	table *rowstore.Table
}

func (w *printWriter) WriteRow(globalRow int) error {
	for i, col := range w.table.Columns {
		if i > 0 {
			fmt.Print(" ")
		}
		if col.Nulls[globalRow] {
			fmt.Print("NULL")
			continue
		}
		switch col.Kind {
		case rowstore.Int64:
			fmt.Print(col.Int64s[globalRow])
		case rowstore.Uint64:
			fmt.Print(col.Uint64s[globalRow])
		case rowstore.Float64:
			fmt.Print(col.Float64s[globalRow])
		case rowstore.Bool:
			fmt.Print(col.Bools[globalRow])
		case rowstore.String:
			fmt.Print(col.Strings[globalRow])
		case rowstore.Timestamp:
			fmt.Print(col.Times[globalRow].Format(time.RFC3339))
		}
	}
	fmt.Println()
	return nil
}
