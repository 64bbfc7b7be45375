// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds

import (
	"container/heap"
	"math/rand/v2"
	"sync"

	"code.hybscloud.com/spin"
)

// MultiQueue is a relaxed concurrent priority queue made of independently
// locked binary heaps.
//
// Based on the MultiQueue of Rihani, Sanders and Dementiev (SPAA 2015).
// Add pushes into one random partition. Poll locks two distinct random
// partitions and pops the smaller of their tops. Locks are only ever
// tried, never waited on; a busy partition sends the caller to another
// random choice. There is no ordering guarantee across partitions, and
// Poll may report ErrWouldBlock while other partitions still hold items.
//
// MultiQueue is the one structure in this package that uses locks.
//
// Memory: one padded partition per workers*factor
type MultiQueue[T any] struct {
	partitions []mqPartition[T]
}

type mqPartition[T any] struct {
	mu   sync.Mutex
	heap mqHeap[T]
	_    pad
}

// mqHeap implements heap.Interface over a slice ordered by less.
type mqHeap[T any] struct {
	items []T
	less  func(a, b T) bool
}

func (h *mqHeap[T]) Len() int           { return len(h.items) }
func (h *mqHeap[T]) Less(i, j int) bool { return h.less(h.items[i], h.items[j]) }
func (h *mqHeap[T]) Swap(i, j int)      { h.items[i], h.items[j] = h.items[j], h.items[i] }
func (h *mqHeap[T]) Push(x any)         { h.items = append(h.items, x.(T)) }

func (h *mqHeap[T]) Pop() any {
	n := len(h.items) - 1
	x := h.items[n]
	var zero T
	h.items[n] = zero
	h.items = h.items[:n]
	return x
}

// NewMultiQueue creates a MultiQueue sized for workers concurrent users,
// with three partitions per worker. Use the Builder to choose a different
// factor. Panics if workers < 1.
func NewMultiQueue[T any](workers int, less func(a, b T) bool) *MultiQueue[T] {
	if workers < 1 {
		panic("lfds: workers must be >= 1")
	}
	return newMultiQueue(workers*defaultFactor, less)
}

func newMultiQueue[T any](partitions int, less func(a, b T) bool) *MultiQueue[T] {
	// Poll needs two distinct partitions.
	partitions = max(partitions, 2)
	q := &MultiQueue[T]{partitions: make([]mqPartition[T], partitions)}
	for i := range q.partitions {
		q.partitions[i].heap.less = less
	}
	return q
}

// Add inserts an element into a random partition. Always returns nil.
func (q *MultiQueue[T]) Add(elem *T) error {
	sw := spin.Wait{}
	for {
		p := &q.partitions[rand.IntN(len(q.partitions))]
		if !p.mu.TryLock() {
			sw.Once()
			continue
		}
		heap.Push(&p.heap, *elem)
		p.mu.Unlock()
		return nil
	}
}

// Poll removes and returns the smaller of the tops of two random partitions.
// Returns (zero-value, ErrWouldBlock) if both partitions are empty.
func (q *MultiQueue[T]) Poll() (T, error) {
	n := len(q.partitions)
	sw := spin.Wait{}
	for {
		i, j := rand.IntN(n), rand.IntN(n)
		if i == j {
			continue
		}
		// Lock in index order.
		if j < i {
			i, j = j, i
		}
		first, second := &q.partitions[i], &q.partitions[j]
		if !first.mu.TryLock() {
			sw.Once()
			continue
		}
		if !second.mu.TryLock() {
			first.mu.Unlock()
			sw.Once()
			continue
		}

		elem, err := pollSmaller(&first.heap, &second.heap)

		second.mu.Unlock()
		first.mu.Unlock()
		return elem, err
	}
}

func pollSmaller[T any](a, b *mqHeap[T]) (T, error) {
	switch {
	case a.Len() == 0 && b.Len() == 0:
		var zero T
		return zero, ErrWouldBlock
	case a.Len() == 0:
		return heap.Pop(b).(T), nil
	case b.Len() == 0:
		return heap.Pop(a).(T), nil
	case !a.less(b.items[0], a.items[0]):
		return heap.Pop(a).(T), nil
	default:
		return heap.Pop(b).(T), nil
	}
}
