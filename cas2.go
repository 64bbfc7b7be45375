// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// Transaction outcomes. A status word leaves statusUndecided exactly once;
// the first CAS wins and later attempts are no-ops.
const (
	statusUndecided uint64 = iota
	statusSuccess
	statusFailure
)

// CAS2Array is a fixed-size array whose slots can be updated two at a time
// with a single atomic transaction.
//
// CAS2 follows the descriptor-based scheme of Harris, Fraser and Pratt
// (DISC 2002). A transaction publishes a descriptor in its first slot, then
// couples the second slot to the descriptor's outcome with a
// double-compare single-swap (DCSS) descriptor. Any goroutine that finds a
// descriptor in a slot finishes that transaction before proceeding, so a
// stalled owner never blocks others.
//
// Slots hold boxed words compared by identity, which makes every value of
// T storable (including the zero value) and rules out ABA on slot CAS.
//
// Memory: one word per slot, plus one descriptor per in-flight CAS2
type CAS2Array[T comparable] struct {
	slots []atomic.Pointer[cas2Word[T]]
}

// cas2Word is the content of a slot: a plain value, or exactly one of the
// two descriptor kinds.
type cas2Word[T comparable] struct {
	value T
	cas2  *cas2Descriptor[T]
	dcss  *dcssDescriptor[T]
}

type cas2Descriptor[T comparable] struct {
	index1, index2     int
	expected1, update1 T
	expected2, update2 T
	status             atomix.Uint64
	word               *cas2Word[T] // installed at index1, then index2
	dcss               dcssDescriptor[T]
}

// dcssDescriptor swaps index2 from expected2 to the owner's word, but only
// while the owner is undecided.
type dcssDescriptor[T comparable] struct {
	owner  *cas2Descriptor[T]
	status atomix.Uint64
	word   *cas2Word[T]
}

// NewCAS2Array creates an array of size slots, each holding initial.
// Panics if size < 1.
func NewCAS2Array[T comparable](size int, initial T) *CAS2Array[T] {
	if size < 1 {
		panic("lfds: size must be >= 1")
	}
	a := &CAS2Array[T]{slots: make([]atomic.Pointer[cas2Word[T]], size)}
	for i := range a.slots {
		a.slots[i].Store(&cas2Word[T]{value: initial})
	}
	return a
}

// Len returns the number of slots.
func (a *CAS2Array[T]) Len() int {
	return len(a.slots)
}

// Get returns the value of slot index. A transaction found in flight is
// completed first, so Get never observes a half-applied CAS2.
//
// Panics if index is out of range.
func (a *CAS2Array[T]) Get(index int) T {
	if index < 0 || index >= len(a.slots) {
		panic("lfds: cas2 index out of range")
	}
	for {
		w := a.slots[index].Load()
		switch {
		case w.cas2 != nil:
			a.helpCAS2(w.cas2)
		case w.dcss != nil:
			a.helpDCSS(w.dcss)
		default:
			return w.value
		}
	}
}

// CAS2 atomically sets slot index1 to update1 and slot index2 to update2
// if they currently hold expected1 and expected2. Reports whether the
// update took place.
//
// Panics if index1 == index2 or either index is out of range.
func (a *CAS2Array[T]) CAS2(index1 int, expected1, update1 T, index2 int, expected2, update2 T) bool {
	if index1 == index2 {
		panic("lfds: cas2 indices must differ")
	}
	if index1 < 0 || index1 >= len(a.slots) || index2 < 0 || index2 >= len(a.slots) {
		panic("lfds: cas2 index out of range")
	}
	// Lower index first gives every transaction the same acquisition order.
	if index2 < index1 {
		index1, expected1, update1, index2, expected2, update2 = index2, expected2, update2, index1, expected1, update1
	}

	d := &cas2Descriptor[T]{
		index1:    index1,
		expected1: expected1,
		update1:   update1,
		index2:    index2,
		expected2: expected2,
		update2:   update2,
	}
	d.word = &cas2Word[T]{cas2: d}
	d.dcss.owner = d
	d.dcss.word = &cas2Word[T]{dcss: &d.dcss}

	a.helpCAS2(d)
	return d.status.LoadAcquire() == statusSuccess
}

// helpCAS2 drives d to a decided status and replaces d in both slots with
// the resulting plain values.
func (a *CAS2Array[T]) helpCAS2(d *cas2Descriptor[T]) {
	if d.status.LoadAcquire() == statusUndecided {
		outcome := statusFailure
		if a.installCAS2(d) && a.dcss(&d.dcss) {
			outcome = statusSuccess
		}
		d.status.CompareAndSwapAcqRel(statusUndecided, outcome)
	}

	v1, v2 := d.expected1, d.expected2
	if d.status.LoadAcquire() == statusSuccess {
		v1, v2 = d.update1, d.update2
	}
	a.slots[d.index1].CompareAndSwap(d.word, &cas2Word[T]{value: v1})
	a.slots[d.index2].CompareAndSwap(d.word, &cas2Word[T]{value: v2})
}

// installCAS2 places d.word in slot index1. Reports false on a value
// mismatch or if d was already decided as failed.
func (a *CAS2Array[T]) installCAS2(d *cas2Descriptor[T]) bool {
	slot := &a.slots[d.index1]
	for {
		w := slot.Load()
		// Status is read after the slot: an undecided status proves w
		// predates any cleanup of d.
		if st := d.status.LoadAcquire(); st != statusUndecided {
			return st == statusSuccess
		}
		switch {
		case w == d.word:
			return true
		case w.cas2 != nil:
			a.helpCAS2(w.cas2)
		case w.dcss != nil:
			a.helpDCSS(w.dcss)
		case w.value == d.expected1:
			if slot.CompareAndSwap(w, d.word) {
				return true
			}
		default:
			return false
		}
	}
}

// dcss runs the coupling step of dd and reports whether it succeeded.
func (a *CAS2Array[T]) dcss(dd *dcssDescriptor[T]) bool {
	a.helpDCSS(dd)
	return dd.status.LoadAcquire() == statusSuccess
}

// helpDCSS decides dd and replaces dd in slot index2 with the owner's word
// while the owner is undecided, or with expected2 once it is.
func (a *CAS2Array[T]) helpDCSS(dd *dcssDescriptor[T]) {
	if dd.status.LoadAcquire() == statusUndecided {
		outcome := statusFailure
		if a.installDCSS(dd) {
			outcome = statusSuccess
		}
		dd.status.CompareAndSwapAcqRel(statusUndecided, outcome)
	}

	owner := dd.owner
	next := &cas2Word[T]{value: owner.expected2}
	if owner.status.LoadAcquire() == statusUndecided {
		next = owner.word
	}
	a.slots[owner.index2].CompareAndSwap(dd.word, next)
}

func (a *CAS2Array[T]) installDCSS(dd *dcssDescriptor[T]) bool {
	owner := dd.owner
	slot := &a.slots[owner.index2]
	for {
		w := slot.Load()
		if st := dd.status.LoadAcquire(); st != statusUndecided {
			return st == statusSuccess
		}
		switch {
		case w == dd.word:
			return true
		case w.cas2 != nil:
			a.helpCAS2(w.cas2)
		case w.dcss != nil:
			a.helpDCSS(w.dcss)
		case w.value == owner.expected2:
			if slot.CompareAndSwap(w, dd.word) {
				return true
			}
		default:
			return false
		}
	}
}
