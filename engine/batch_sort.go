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

package engine

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sneller-labs/mkqsort/mkqsort"
	"github.com/sneller-labs/mkqsort/rowstore"
)

// Config controls how a table is split into batches and sorted.
type Config struct {
	// BatchSize is the maximum number of rows per batch. Zero or
	// negative means the whole table is a single batch.
	BatchSize int
	// Workers is the number of batches sorted concurrently. Zero or
	// negative means 1.
	Workers int
	// Keys describes the sort order applied within each batch.
	Keys []rowstore.KeySpec
	// NewDuplicateHandler, if set, is called once per batch with that
	// batch's own row-sliced Table, and the result is invoked for every
	// run of rows equal on the deepest configured key. Building a fresh
	// handler per batch keeps row-index-based handlers like
	// rowstore.UniqueChecker correctly scoped to that batch's local
	// indices; a handler that only aggregates stats, like
	// rowstore.CountingHandler, can safely be shared by returning the
	// same instance every time.
	NewDuplicateHandler func(batch *rowstore.Table) mkqsort.DuplicateHandler
	// Limit, if set, restricts which rows of the overall (program
	// order) output stream are actually delivered to the Writer.
	Limit *Limit
}

// Stats summarizes a completed Run.
type Stats struct {
	Rows    int
	Batches int
}

// Run splits table into batches per cfg, sorts each batch concurrently,
// and streams the result to w in row-range order. It returns once every
// batch has either been written or the run has been aborted by the
// first error encountered, which is returned.
func Run(table *rowstore.Table, cfg Config, w Writer) (Stats, error) {
	numRows := table.NumRows()
	ranges := Split(numRows, cfg.BatchSize)
	stats := Stats{Rows: numRows, Batches: len(ranges)}
	if len(ranges) == 0 {
		return stats, nil
	}

	batches := make([]Batch, len(ranges))
	for i, r := range ranges {
		sub := table.Slice(r.start, r.end+1)
		var dup mkqsort.DuplicateHandler
		if cfg.NewDuplicateHandler != nil {
			dup = cfg.NewDuplicateHandler(sub)
		}
		state, tuples, err := rowstore.BuildSortState(sub, cfg.Keys, dup, nil)
		if err != nil {
			return stats, fmt.Errorf("engine: batch %d: %w", i, err)
		}
		batches[i] = Batch{ID: uuid.New(), Rows: r, State: state, Tuples: tuples}
	}

	consumer := newOrderedConsumer(w, numRows, cfg.Limit)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool := newBatchPool(workers)

	poolErr := pool.Run(batches, func(res batchResult) {
		if res.err != nil {
			pool.fail(fmt.Errorf("batch %s (rows %d..%d): %w", res.id, res.rows.start, res.rows.end, res.err))
			return
		}
		if err := consumer.notify(res); err != nil {
			pool.fail(err)
		}
	})

	if poolErr != nil {
		return stats, fmt.Errorf("engine: %w", poolErr)
	}
	return stats, nil
}
