// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// segmentSize is the number of cells per FAAQueue segment.
const segmentSize = 2

// FAAQueue is an unbounded lock-free FIFO queue indexed by fetch-and-add.
//
// Producers and consumers claim positions by blindly incrementing shared
// counters, so contention is limited to the atomic increment itself.
// Position p lives in cell p%segmentSize of segment p/segmentSize.
// Segments are allocated on demand and linked with CAS; head and tail are
// hints that only ever move forward and may lag behind the true ends.
//
// Each cell is written at most once: either by the enqueuer that owns the
// position or by a dequeuer that arrived first and marks it skipped. A
// skipped enqueuer retries with a fresh position.
//
// Memory: one segment per segmentSize positions, reclaimed by the GC once
// both hints have moved past it
type FAAQueue[T any] struct {
	_       pad
	enqIdx  atomix.Uint64 // Producer position (FAA)
	_       pad
	deqIdx  atomix.Uint64 // Consumer position (FAA)
	_       pad
	head    atomic.Pointer[segment[T]]
	_       pad
	tail    atomic.Pointer[segment[T]]
	_       pad
	skipped *box[T]
}

type segment[T any] struct {
	id    uint64
	next  atomic.Pointer[segment[T]]
	cells [segmentSize]atomic.Pointer[box[T]]
}

// NewFAAQueue creates an empty FAA-based queue.
func NewFAAQueue[T any]() *FAAQueue[T] {
	q := &FAAQueue[T]{skipped: &box[T]{marker: true}}
	first := &segment[T]{}
	q.head.Store(first)
	q.tail.Store(first)
	return q
}

// Enqueue adds an element to the queue. Always returns nil.
func (q *FAAQueue[T]) Enqueue(elem *T) error {
	b := &box[T]{elem: *elem}
	sw := spin.Wait{}
	for {
		tail := q.tail.Load()
		pos := q.enqIdx.AddAcqRel(1) - 1
		seg := q.findSegment(tail, pos/segmentSize)
		q.moveForward(&q.tail, seg)
		if seg.cells[pos%segmentSize].CompareAndSwap(nil, b) {
			return nil
		}
		// A dequeuer skipped this position before we filled it.
		sw.Once()
	}
}

// Dequeue removes and returns the element at the head of the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *FAAQueue[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		if !q.shouldTryDequeue() {
			var zero T
			return zero, ErrWouldBlock
		}
		head := q.head.Load()
		pos := q.deqIdx.AddAcqRel(1) - 1
		seg := q.findSegment(head, pos/segmentSize)
		q.moveForward(&q.head, seg)

		cell := &seg.cells[pos%segmentSize]
		if cell.CompareAndSwap(nil, q.skipped) {
			// Overtook the matching enqueue; the position is consumed.
			sw.Once()
			continue
		}
		return cell.Load().elem, nil
	}
}

// shouldTryDequeue reports whether a consistent snapshot of the counters
// shows more enqueue positions than dequeue positions.
func (q *FAAQueue[T]) shouldTryDequeue() bool {
	for {
		enq := q.enqIdx.LoadAcquire()
		deq := q.deqIdx.LoadAcquire()
		if enq == q.enqIdx.LoadAcquire() {
			return deq < enq
		}
	}
}

// findSegment walks from start to the segment with the given id, linking
// new segments as needed. The first successful linker wins; losers follow
// the winner's segment.
func (q *FAAQueue[T]) findSegment(start *segment[T], id uint64) *segment[T] {
	cur := start
	for cur.id < id {
		next := cur.next.Load()
		if next == nil {
			seg := &segment[T]{id: cur.id + 1}
			if cur.next.CompareAndSwap(nil, seg) {
				next = seg
			} else {
				next = cur.next.Load()
			}
		}
		cur = next
	}
	return cur
}

// moveForward advances a head or tail hint to target unless the hint is
// already at or past it.
func (q *FAAQueue[T]) moveForward(hint *atomic.Pointer[segment[T]], target *segment[T]) {
	for {
		cur := hint.Load()
		if cur.id >= target.id || hint.CompareAndSwap(cur, target) {
			return
		}
	}
}
