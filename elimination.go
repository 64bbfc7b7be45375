// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds

import (
	"math/rand/v2"
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// Elimination parameters. The rendezvous protocol relies on a small bounded
// retry window, so both are fixed at compile time.
const (
	eliminationArraySize  = 2
	eliminationWaitCycles = 8
)

// EliminationStack is an unbounded lock-free LIFO stack with elimination
// backoff.
//
// Based on Hendler, Shavit and Yerushalmi (SPAA 2004). A push that finds a
// free cell in the elimination array parks its element there for a few spin
// cycles; a concurrent pop that visits the cell takes the element directly
// and neither operation touches the shared top reference. Operations that
// fail to rendezvous fall back to the backing TreiberStack.
//
// A cell holds nil (empty), a pending push, or the stack's retrieved
// marker. Only the pusher that installed a value resets its cell to empty.
//
// Memory: one node per element plus a fixed array of padded cells
type EliminationStack[T any] struct {
	stack     TreiberStack[T]
	cells     [eliminationArraySize]eliminationCell[T]
	retrieved *box[T]
}

type eliminationCell[T any] struct {
	slot atomic.Pointer[box[T]]
	_    pad
}

// NewEliminationStack creates an empty elimination stack.
func NewEliminationStack[T any]() *EliminationStack[T] {
	return &EliminationStack[T]{
		retrieved: &box[T]{marker: true},
	}
}

// Push adds an element on top of the stack. Always returns nil.
func (s *EliminationStack[T]) Push(elem *T) error {
	x := &box[T]{elem: *elem}
	if s.tryPushElimination(x) {
		return nil
	}
	s.stack.push(&stackNode[T]{elem: x.elem})
	return nil
}

// tryPushElimination offers x in a random cell and reports whether a
// concurrent pop took it.
func (s *EliminationStack[T]) tryPushElimination(x *box[T]) bool {
	cell := &s.cells[rand.IntN(eliminationArraySize)]
	if !cell.slot.CompareAndSwap(nil, x) {
		return false
	}

	sw := spin.Wait{}
	for range eliminationWaitCycles {
		if cell.slot.CompareAndSwap(s.retrieved, nil) {
			return true
		}
		sw.Once()
	}

	if cell.slot.CompareAndSwap(x, nil) {
		return false
	}
	// A pop retrieved x after the last poll. The cell is ours until reset.
	cell.slot.Store(nil)
	return true
}

// Pop removes and returns the top element.
// Returns (zero-value, ErrWouldBlock) if the stack is empty.
func (s *EliminationStack[T]) Pop() (T, error) {
	if elem, ok := s.tryPopElimination(); ok {
		return elem, nil
	}
	return s.stack.Pop()
}

func (s *EliminationStack[T]) tryPopElimination() (T, bool) {
	var zero T
	cell := &s.cells[rand.IntN(eliminationArraySize)]
	x := cell.slot.Load()
	if x == nil || x == s.retrieved {
		return zero, false
	}
	if cell.slot.CompareAndSwap(x, s.retrieved) {
		return x.elem, true
	}
	return zero, false
}
