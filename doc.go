// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfds provides linearizable non-blocking concurrent data
// structures for shared-memory multi-core machines.
//
// The package offers:
//
//   - EliminationStack: Treiber stack with an elimination array
//   - TreiberStack: the plain CAS-based LIFO
//   - FAAQueue: unbounded FIFO indexed by fetch-and-add counters
//   - MSQueue: Michael-Scott FIFO with removal of arbitrary elements
//   - CAS2Array: array of slots with atomic two-slot compare-and-swap
//   - MultiQueue: relaxed concurrent priority queue
//
// # Quick Start
//
// Direct constructors:
//
//	s := lfds.NewEliminationStack[Event]()
//	q := lfds.NewFAAQueue[*Request]()
//	r := lfds.NewMSQueue[JobID]()
//	a := lfds.NewCAS2Array(16, 0)
//
// Builder API selects the algorithm from hints:
//
//	q := lfds.BuildQueue[Event](lfds.New())                         // → FAAQueue
//	r := lfds.BuildRemovableQueue[JobID](lfds.New().Removable())    // → MSQueue
//	s := lfds.BuildStack[Event](lfds.New())                         // → EliminationStack
//	s := lfds.BuildStack[Event](lfds.New().NoElimination())         // → TreiberStack
//	p := lfds.BuildPriorityQueue(lfds.New().Workers(8), less)       // → MultiQueue
//
// # Basic Usage
//
// Stacks and queues take elements by pointer and copy them in. They are
// unbounded, so Push and Enqueue always succeed:
//
//	value := 42
//	q.Enqueue(&value)
//
//	elem, err := q.Dequeue()
//	if lfds.IsWouldBlock(err) {
//	    // Queue is empty - try again later
//	}
//
// # Removable Queue
//
// [MSQueue.Remove] withdraws the first element equal to the argument that
// is still in the queue. Exactly one of several concurrent Remove calls on
// the same element reports true, and a removed element is never dequeued:
//
//	q.Enqueue(&id)
//	if q.Remove(id) {
//	    // cancelled before any consumer took it
//	}
//
// [MSQueue.Validate] checks structural invariants and reports violations
// wrapped in [ErrInconsistent]. Call it when the queue is quiescent.
//
// # Two-Slot Compare-and-Swap
//
// [CAS2Array.CAS2] updates two distinct slots atomically: both change or
// neither does. Readers never observe half of an update:
//
//	a := lfds.NewCAS2Array(2, 100)
//	from, to := a.Get(0), a.Get(1)
//	if a.CAS2(0, from, from-30, 1, to, to+30) {
//	    // transferred
//	}
//
// Every value of T, including the zero value, is storable. Equal or out of
// range indices panic.
//
// # Relaxed Priority Queue
//
// [MultiQueue] spreads elements over several lock-protected heaps. Poll
// returns the smaller top of two random partitions, so it returns a small
// element but not always the smallest. Package sssp builds a parallel
// shortest-path solver on top of any [PriorityQueue].
//
// # Error Handling
//
// Operations return [ErrWouldBlock] when a structure is empty. This error
// is sourced from [code.hybscloud.com/iox] for ecosystem consistency.
//
//	backoff := iox.Backoff{}
//	for {
//	    elem, err := s.Pop()
//	    if err == nil {
//	        backoff.Reset()
//	        handle(elem)
//	        continue
//	    }
//	    if !lfds.IsWouldBlock(err) {
//	        return err
//	    }
//	    backoff.Wait()
//	}
//
// For semantic error classification (delegates to iox):
//
//	lfds.IsWouldBlock(err)  // true if empty
//	lfds.IsSemantic(err)    // true if control flow signal
//	lfds.IsNonFailure(err)  // true if nil or ErrWouldBlock
//
// Contention is never reported. Failed CAS attempts retry internally.
//
// # Thread Safety
//
// Every operation of every structure is safe for any number of concurrent
// goroutines and is linearizable, except that MultiQueue.Poll is relaxed
// and Validate expects a quiescent queue. Length is intentionally not
// provided.
//
// # Memory Reclamation
//
// Nodes, segments and descriptors are reclaimed by the garbage collector.
// Each is freshly allocated and never reused while reachable, which rules
// out ABA on pointer compare-and-swap.
//
// # Race Detection
//
// Go's race detector is not designed for lock-free algorithm verification.
// It tracks explicit synchronization primitives (mutex, channels, WaitGroup)
// but cannot observe happens-before relationships established through
// atomix operations with explicit memory ordering.
//
// Concurrent stress tests skip under the race detector via [RaceEnabled];
// runnable examples with goroutines are excluded via //go:build !race.
// Linearizability is checked against sequential models by the tests.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors,
// [code.hybscloud.com/atomix] for atomic primitives with explicit
// memory ordering, [code.hybscloud.com/spin] for CPU pause instructions
// and [golang.org/x/sys/cpu] for cache-line padding.
package lfds
