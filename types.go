// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds

import "golang.org/x/sys/cpu"

// Stack is the interface for a concurrent LIFO stack.
//
// Stacks in this package are unbounded: Push never fails and always returns
// nil. Pop returns ErrWouldBlock when the stack is empty and never blocks.
//
// Example:
//
//	s := lfds.NewEliminationStack[int]()
//
//	v := 42
//	s.Push(&v)
//
//	elem, err := s.Pop()
//	if err == nil {
//	    fmt.Println(elem)
//	}
type Stack[T any] interface {
	// Push adds an element on top of the stack.
	// The element is copied; the caller may modify it after Push returns.
	Push(elem *T) error

	// Pop removes and returns the top element.
	// Returns (zero-value, ErrWouldBlock) if the stack is empty.
	Pop() (T, error)
}

// Queue is the combined producer-consumer interface for a FIFO queue.
//
// Queues in this package are unbounded, so the interface carries no
// capacity. Length is intentionally not provided because accurate counts in
// lock-free algorithms require expensive cross-core synchronization.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
}

// Producer is the interface for enqueueing elements.
type Producer[T any] interface {
	// Enqueue adds an element to the tail of the queue.
	// The element is copied into a node owned by the queue.
	// Unbounded queues always return nil.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements.
type Consumer[T any] interface {
	// Dequeue removes and returns the element at the head of the queue.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)
}

// RemovableQueue is a FIFO queue that also supports removal of an
// arbitrary element by value.
type RemovableQueue[T comparable] interface {
	Queue[T]

	// Remove unlinks the first live element equal to elem.
	// Reports whether this call removed it. Exactly one of several
	// concurrent Remove calls for the same single element reports true.
	Remove(elem T) bool

	// Validate checks the structural invariants of the queue and returns an
	// error wrapping ErrInconsistent on violation. It is meant for tests and
	// must only be called while no other operation is in progress.
	Validate() error
}

// PriorityQueue is the interface for a concurrent priority queue.
//
// Implementations may be relaxed: Poll returns a small element, not
// necessarily the smallest. Poll returns ErrWouldBlock when no element was
// found and never blocks.
type PriorityQueue[T any] interface {
	Add(elem *T) error
	Poll() (T, error)
}

// box holds one element behind a unique address. Structures compare boxes
// by identity against per-instance marker boxes. The marker field keeps the
// box non-zero-sized, since zero-sized allocations may share an address.
type box[T any] struct {
	elem   T
	marker bool
}

// pad is cache line padding to prevent false sharing.
type pad = cpu.CacheLinePad
