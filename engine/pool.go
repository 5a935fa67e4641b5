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
	"sync"

	"github.com/sneller-labs/mkqsort/mkqsort"
)

// batchPool runs a fixed list of Batches across a bounded number of
// worker goroutines, LIFO, and reports each completed batch to a
// resultFunc as soon as its Sort call returns. Unlike a dynamic
// work-stealing pool, the full job list is known up front: Run enqueues
// every batch before the first worker starts, so a worker that finds
// the queue empty is done and exits rather than waiting for more.
type batchPool struct {
	workers int
	wg      sync.WaitGroup

	mu      sync.Mutex
	pending []Batch
	closed  bool
	err     error
}

// newBatchPool creates a pool with the given worker concurrency.
func newBatchPool(workers int) *batchPool {
	if workers < 1 {
		workers = 1
	}
	return &batchPool{workers: workers}
}

// Run sorts every batch using up to p.workers goroutines, invoking
// resultFunc (from a worker goroutine) as each batch finishes. Run
// blocks until all batches have been processed or the pool has been
// closed early via fail, and returns the first error recorded, if any.
//
// Error policy is the resultFunc's: a callback that calls p.fail on a
// failed batch closes the pool, so queued batches that have not yet
// started are skipped, while batches already in flight run to
// completion and are still reported. This mirrors a build failing one
// index while leaving others unaffected.
func (p *batchPool) Run(batches []Batch, resultFunc func(batchResult)) error {
	p.mu.Lock()
	p.pending = append([]Batch(nil), batches...)
	p.mu.Unlock()

	p.wg.Add(p.workers)
	for i := 0; i < p.workers; i++ {
		go p.worker(resultFunc)
	}
	p.wg.Wait()

	p.mu.Lock()
	err := p.err
	p.mu.Unlock()
	return err
}

func (p *batchPool) worker(resultFunc func(batchResult)) {
	defer p.wg.Done()

	for {
		p.mu.Lock()
		if p.closed || len(p.pending) == 0 {
			p.mu.Unlock()
			return
		}
		n := len(p.pending)
		b := p.pending[n-1]
		p.pending = p.pending[:n-1]
		p.mu.Unlock()

		err := mkqsort.Sort(b.Tuples, b.State)
		resultFunc(batchResult{id: b.ID, rows: b.Rows, tuples: b.Tuples, err: err})
	}
}

// fail records the first error seen and stops handing out unstarted
// batches. Safe to call from multiple workers concurrently.
func (p *batchPool) fail(err error) {
	p.mu.Lock()
	if !p.closed {
		p.err = err
		p.closed = true
	}
	p.mu.Unlock()
}
