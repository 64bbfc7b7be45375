// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds

import (
	"fmt"
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Node states. A node leaves nodeLive exactly once, either when a dequeue
// extracts it or when Remove claims it.
const (
	nodeLive uint64 = iota
	nodeRemoved
)

// MSQueue is an unbounded lock-free FIFO queue supporting removal of an
// arbitrary element in linear time.
//
// Based on the Michael-Scott queue (PODC 1996). Every node carries an
// extraction flag; an element is logically gone as soon as its flag is set,
// even while the node is still linked. Remove then unlinks the node from its
// predecessor, and keeps going while the successor is also flagged, so a run
// of removed nodes collapses in one pass. The first and last nodes are
// never unlinked by Remove; Enqueue unlinks a flagged former last node once
// it has a successor.
//
// Memory: one node per element
type MSQueue[T comparable] struct {
	_    pad
	head atomic.Pointer[msNode[T]]
	_    pad
	tail atomic.Pointer[msNode[T]]
	_    pad
}

type msNode[T comparable] struct {
	elem  T
	next  atomic.Pointer[msNode[T]]
	state atomix.Uint64
}

// markRemoved reports whether this call moved the node out of nodeLive.
func (n *msNode[T]) markRemoved() bool {
	return n.state.CompareAndSwapAcqRel(nodeLive, nodeRemoved)
}

func (n *msNode[T]) removed() bool {
	return n.state.LoadAcquire() == nodeRemoved
}

// NewMSQueue creates an empty queue holding a single dummy node.
func NewMSQueue[T comparable]() *MSQueue[T] {
	q := &MSQueue[T]{}
	dummy := &msNode[T]{}
	q.head.Store(dummy)
	q.tail.Store(dummy)
	return q
}

// Enqueue adds an element to the queue. Always returns nil.
func (q *MSQueue[T]) Enqueue(elem *T) error {
	n := &msNode[T]{elem: *elem}
	sw := spin.Wait{}
	for {
		tail := q.tail.Load()
		if tail.next.CompareAndSwap(nil, n) {
			q.tail.CompareAndSwap(tail, n)
			if tail.removed() {
				q.unlink(tail)
			}
			return nil
		}
		// Help a lagging tail forward before retrying.
		if next := tail.next.Load(); next != nil {
			q.tail.CompareAndSwap(tail, next)
		}
		sw.Once()
	}
}

// Dequeue removes and returns the element at the head of the queue.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MSQueue[T]) Dequeue() (T, error) {
	sw := spin.Wait{}
	for {
		head := q.head.Load()
		next := head.next.Load()
		if next == nil {
			var zero T
			return zero, ErrWouldBlock
		}
		if tail := q.tail.Load(); tail == head {
			q.tail.CompareAndSwap(tail, next)
		}
		if q.head.CompareAndSwap(head, next) {
			if next.markRemoved() {
				return next.elem, nil
			}
			// Removed concurrently; it is now the dummy.
			continue
		}
		sw.Once()
	}
}

// Remove unlinks the first live node holding elem.
// Reports whether this call removed it.
func (q *MSQueue[T]) Remove(elem T) bool {
	n := q.head.Load()
	for {
		next := n.next.Load()
		if next == nil {
			return false
		}
		n = next
		if n.elem == elem && !n.removed() && q.unlink(n) {
			return true
		}
	}
}

// testHookRelink, if set, runs before each relink attempt in splice.
var testHookRelink func()

// unlink flags n and physically removes it, together with any flagged
// node that a relink puts back in its place. Reports whether this call
// flagged n.
func (q *MSQueue[T]) unlink(n *msNode[T]) bool {
	removed := n.markRemoved()
	pending := []*msNode[T]{n}
	for len(pending) > 0 {
		last := len(pending) - 1
		cur := pending[last]
		pending = q.splice(cur, pending[:last])
	}
	return removed
}

// splice relinks the predecessor of n around it until n is unreachable or
// the last node. Every flagged successor it writes into a predecessor is
// appended to flagged, since the write may have linked it back in after
// its own remover finished.
func (q *MSQueue[T]) splice(n *msNode[T], flagged []*msNode[T]) []*msNode[T] {
	for {
		next := n.next.Load()
		if next == nil {
			// Last node: Enqueue unlinks it once a successor exists.
			return flagged
		}
		prev := q.findPrevious(n)
		if prev == nil {
			return flagged
		}
		if h := testHookRelink; h != nil {
			h()
		}
		if prev.next.CompareAndSwap(n, next) && next.removed() {
			flagged = append(flagged, next)
		}
	}
}

// findPrevious returns the node linked before n, or nil if n is the head
// or no longer reachable.
func (q *MSQueue[T]) findPrevious(n *msNode[T]) *msNode[T] {
	cur := q.head.Load()
	for {
		next := cur.next.Load()
		if next == nil {
			return nil
		}
		if next == n {
			return cur
		}
		cur = next
	}
}

// Validate checks that tail is the last node and that no flagged node is
// linked between head and tail. Returns an error wrapping ErrInconsistent
// on violation. Must only be called while the queue is quiescent.
func (q *MSQueue[T]) Validate() error {
	head, tail := q.head.Load(), q.tail.Load()
	if tail.next.Load() != nil {
		return fmt.Errorf("%w: tail.next must be nil", ErrInconsistent)
	}
	for n := head; n != nil; n = n.next.Load() {
		if n != head && n != tail && n.removed() {
			return fmt.Errorf("%w: removed node with element %v found in the middle of the queue", ErrInconsistent, n.elem)
		}
	}
	return nil
}
