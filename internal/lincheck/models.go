// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lincheck

import (
	"fmt"
	"slices"

	"github.com/eapache/queue"
)

// Operation names understood by the models.
const (
	OpEnqueue = "enqueue"
	OpDequeue = "dequeue"
	OpRemove  = "remove"
	OpPush    = "push"
	OpPop     = "pop"
	OpGet     = "get"
	OpCAS2    = "cas2"
)

// FIFO returns the model of a queue with enqueue, dequeue and remove.
//
//	enqueue(v)  -> any output
//	dequeue()   -> {Value, Ok}, Ok false when empty
//	remove(v)   -> {Ok}, removes the first occurrence of v
func FIFO() Model {
	return Model{
		Init: func() any { return queue.New() },
		Step: func(state any, in Input, out Output) (bool, any) {
			q := state.(*queue.Queue)
			switch in.Op {
			case OpEnqueue:
				next := cloneQueue(q, -1)
				next.Add(in.Args[0])
				return true, next
			case OpDequeue:
				if q.Length() == 0 {
					return !out.Ok, q
				}
				return out.Ok && out.Value == q.Peek().(int), cloneQueue(q, 0)
			case OpRemove:
				for i := range q.Length() {
					if q.Get(i).(int) == in.Args[0] {
						return out.Ok, cloneQueue(q, i)
					}
				}
				return !out.Ok, q
			}
			panic("lincheck: unknown queue operation " + in.Op)
		},
		Key: func(state any) string {
			q := state.(*queue.Queue)
			items := make([]int, q.Length())
			for i := range items {
				items[i] = q.Get(i).(int)
			}
			return fmt.Sprint(items)
		},
	}
}

// cloneQueue copies q, leaving out the element at index skip.
func cloneQueue(q *queue.Queue, skip int) *queue.Queue {
	next := queue.New()
	for i := range q.Length() {
		if i != skip {
			next.Add(q.Get(i))
		}
	}
	return next
}

// LIFO returns the model of a stack.
//
//	push(v) -> any output
//	pop()   -> {Value, Ok}, Ok false when empty
func LIFO() Model {
	return Model{
		Init: func() any { return []int(nil) },
		Step: func(state any, in Input, out Output) (bool, any) {
			s := state.([]int)
			switch in.Op {
			case OpPush:
				return true, append(slices.Clip(s), in.Args[0])
			case OpPop:
				if len(s) == 0 {
					return !out.Ok, s
				}
				return out.Ok && out.Value == s[len(s)-1], s[:len(s)-1]
			}
			panic("lincheck: unknown stack operation " + in.Op)
		},
		Key: func(state any) string { return fmt.Sprint(state.([]int)) },
	}
}

// Array returns the model of an array of size slots holding initial,
// updated two slots at a time.
//
//	get(i)                     -> {Value}
//	cas2(i1, e1, u1, i2, e2, u2) -> {Ok}
func Array(size, initial int) Model {
	return Model{
		Init: func() any {
			a := make([]int, size)
			for i := range a {
				a[i] = initial
			}
			return a
		},
		Step: func(state any, in Input, out Output) (bool, any) {
			a := state.([]int)
			switch in.Op {
			case OpGet:
				return out.Value == a[in.Args[0]], a
			case OpCAS2:
				i1, e1, u1 := in.Args[0], in.Args[1], in.Args[2]
				i2, e2, u2 := in.Args[3], in.Args[4], in.Args[5]
				if a[i1] != e1 || a[i2] != e2 {
					return !out.Ok, a
				}
				next := slices.Clone(a)
				next[i1], next[i2] = u1, u2
				return out.Ok, next
			}
			panic("lincheck: unknown array operation " + in.Op)
		},
		Key: func(state any) string { return fmt.Sprint(state.([]int)) },
	}
}
