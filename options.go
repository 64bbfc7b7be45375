// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds

// defaultFactor is the number of MultiQueue partitions per worker.
const defaultFactor = 3

// Options configures structure creation and algorithm selection.
type Options struct {
	// Queue selection
	removable bool // Arbitrary-element removal required

	// Stack selection
	noElimination bool // Plain Treiber stack

	// Priority queue sizing
	workers int
	factor  int
}

// Builder creates structures with fluent configuration.
//
// Builder selects an algorithm based on the requested capabilities.
//
// Example:
//
//	// FAA-based unbounded queue (default)
//	q := lfds.BuildQueue[Event](lfds.New())
//
//	// Michael-Scott queue with removal
//	q := lfds.BuildRemovableQueue[int](lfds.New().Removable())
//
//	// Relaxed priority queue for 8 workers, 4 partitions each
//	pq := lfds.BuildPriorityQueue(lfds.New().Workers(8).Factor(4), less)
type Builder struct {
	opts Options
}

// New creates a builder with default options.
//
// Defaults: FAA queue, elimination stack, one worker with three
// priority queue partitions per worker.
func New() *Builder {
	return &Builder{opts: Options{workers: 1, factor: defaultFactor}}
}

// Removable declares that elements must be removable by value.
// Selects the Michael-Scott queue with linear-time removal.
func (b *Builder) Removable() *Builder {
	b.opts.removable = true
	return b
}

// NoElimination selects the plain Treiber stack without an elimination
// array. Useful when pushes and pops rarely overlap.
func (b *Builder) NoElimination() *Builder {
	b.opts.noElimination = true
	return b
}

// Workers sets the expected number of concurrent priority queue users.
// Panics if n < 1.
func (b *Builder) Workers(n int) *Builder {
	if n < 1 {
		panic("lfds: workers must be >= 1")
	}
	b.opts.workers = n
	return b
}

// Factor sets the number of priority queue partitions per worker.
// Panics if n < 1.
func (b *Builder) Factor(n int) *Builder {
	if n < 1 {
		panic("lfds: factor must be >= 1")
	}
	b.opts.factor = n
	return b
}

// BuildQueue creates a Queue[T] with automatic algorithm selection.
//
// Algorithm selection:
//
//	Removable() → MSQueue (Michael-Scott with removal, needs comparable T)
//	default     → FAAQueue (segmented fetch-and-add queue)
//
// BuildQueue panics if Removable() was requested, because removal needs a
// comparable element type; use BuildRemovableQueue instead.
func BuildQueue[T any](b *Builder) Queue[T] {
	if b.opts.removable {
		panic("lfds: BuildQueue cannot satisfy Removable(), use BuildRemovableQueue")
	}
	return NewFAAQueue[T]()
}

// BuildRemovableQueue creates a RemovableQueue[T].
// Panics if builder is not configured with Removable().
func BuildRemovableQueue[T comparable](b *Builder) RemovableQueue[T] {
	if !b.opts.removable {
		panic("lfds: BuildRemovableQueue requires Removable()")
	}
	return NewMSQueue[T]()
}

// BuildStack creates a Stack[T].
//
//	NoElimination() → TreiberStack
//	default         → EliminationStack
func BuildStack[T any](b *Builder) Stack[T] {
	if b.opts.noElimination {
		return NewTreiberStack[T]()
	}
	return NewEliminationStack[T]()
}

// BuildPriorityQueue creates a MultiQueue with workers*factor partitions
// ordered by less.
func BuildPriorityQueue[T any](b *Builder, less func(x, y T) bool) PriorityQueue[T] {
	return newMultiQueue(b.opts.workers*b.opts.factor, less)
}
