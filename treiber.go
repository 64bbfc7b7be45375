// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds

import (
	"sync/atomic"

	"code.hybscloud.com/spin"
)

// TreiberStack is an unbounded lock-free LIFO stack.
//
// Based on Treiber's stack (IBM RJ 5118, 1986): a singly linked list whose
// top reference is replaced with CAS. Nodes are never reused, so the
// garbage collector rules out ABA on the top reference.
//
// Memory: one node per element
type TreiberStack[T any] struct {
	_   pad
	top atomic.Pointer[stackNode[T]]
	_   pad
}

type stackNode[T any] struct {
	elem T
	next *stackNode[T]
}

// NewTreiberStack creates an empty Treiber stack.
func NewTreiberStack[T any]() *TreiberStack[T] {
	return &TreiberStack[T]{}
}

// Push adds an element on top of the stack. Always returns nil.
func (s *TreiberStack[T]) Push(elem *T) error {
	s.push(&stackNode[T]{elem: *elem})
	return nil
}

func (s *TreiberStack[T]) push(n *stackNode[T]) {
	sw := spin.Wait{}
	for {
		top := s.top.Load()
		n.next = top
		if s.top.CompareAndSwap(top, n) {
			return
		}
		sw.Once()
	}
}

// Pop removes and returns the top element.
// Returns (zero-value, ErrWouldBlock) if the stack is empty.
func (s *TreiberStack[T]) Pop() (T, error) {
	sw := spin.Wait{}
	for {
		top := s.top.Load()
		if top == nil {
			var zero T
			return zero, ErrWouldBlock
		}
		if s.top.CompareAndSwap(top, top.next) {
			return top.elem, nil
		}
		sw.Once()
	}
}
