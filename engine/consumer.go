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
	"container/heap"
	"sync"
)

// Writer receives the final output row order, one call per row, in
// ascending stream position. globalRow identifies which row of the
// original table occupies that position.
type Writer interface {
	WriteRow(globalRow int) error
}

// Limit restricts which positions of the output stream reach the
// Writer, SQL LIMIT/OFFSET style: skip Offset rows, then deliver at
// most Limit rows. Batches outside the window are still sorted; their
// rows are just never written.
type Limit struct {
	Limit, Offset int
}

// window is the limit expressed as the inclusive range of stream
// positions to deliver, clamped to a numRows-row stream. An Offset at
// or past the end yields an empty window.
func (l *Limit) window(numRows int) indicesRange {
	w := indicesRange{start: l.Offset, end: l.Offset + l.Limit - 1}
	return w.intersect(indicesRange{start: 0, end: numRows - 1})
}

// orderedConsumer accepts batchResults as they complete, in whatever
// order the pool's workers finish them, and feeds them to a Writer in
// ascending row-range order once each batch's predecessor range has
// already been written. A batch's internal order is never altered:
// only full batches are reordered relative to each other.
type orderedConsumer struct {
	writer    Writer
	limit     indicesRange
	remaining indicesRange
	queue     batchRangeQueue
	mu        sync.Mutex
}

func newOrderedConsumer(writer Writer, numRows int, limit *Limit) *orderedConsumer {
	all := indicesRange{start: 0, end: numRows - 1}
	c := &orderedConsumer{
		writer:    writer,
		remaining: all,
		limit:     all,
	}
	if limit != nil {
		c.limit = limit.window(numRows)
	}
	heap.Init(&c.queue)
	return c
}

// notify records a completed batch and writes out every batch range
// that is now contiguous with the front of the remaining stream. It is
// safe to call concurrently from multiple pool workers; results that
// arrive out of order are buffered in c.queue until their turn comes.
func (c *orderedConsumer) notify(res batchResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	heap.Push(&c.queue, res)
	return c.drain()
}

func (c *orderedConsumer) drain() error {
	for len(c.queue) > 0 && c.queue[0].rows.start == c.remaining.start {
		res := heap.Pop(&c.queue).(batchResult)
		if err := c.writeBatch(res); err != nil {
			return err
		}
		c.remaining.start = res.rows.end + 1
	}
	return nil
}

func (c *orderedConsumer) writeBatch(res batchResult) error {
	w := res.rows.intersect(c.limit)
	for pos := w.start; pos <= w.end; pos++ {
		if err := c.writer.WriteRow(res.rows.start + res.tuples[pos-res.rows.start].Payload); err != nil {
			return err
		}
	}
	return nil
}
