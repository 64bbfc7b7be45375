// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds_test

import (
	"slices"
	"testing"

	"code.hybscloud.com/lfds"
)

// =============================================================================
// Builder API
// =============================================================================

func TestBuilderSelection(t *testing.T) {
	less := func(a, b int) bool { return a < b }

	if _, ok := lfds.BuildQueue[int](lfds.New()).(*lfds.FAAQueue[int]); !ok {
		t.Fatal("BuildQueue(New()): want *FAAQueue")
	}
	if _, ok := lfds.BuildRemovableQueue[int](lfds.New().Removable()).(*lfds.MSQueue[int]); !ok {
		t.Fatal("BuildRemovableQueue(Removable()): want *MSQueue")
	}
	if _, ok := lfds.BuildStack[int](lfds.New()).(*lfds.EliminationStack[int]); !ok {
		t.Fatal("BuildStack(New()): want *EliminationStack")
	}
	if _, ok := lfds.BuildStack[int](lfds.New().NoElimination()).(*lfds.TreiberStack[int]); !ok {
		t.Fatal("BuildStack(NoElimination()): want *TreiberStack")
	}
	if _, ok := lfds.BuildPriorityQueue(lfds.New().Workers(2).Factor(4), less).(*lfds.MultiQueue[int]); !ok {
		t.Fatal("BuildPriorityQueue: want *MultiQueue")
	}
}

func TestBuilderRoundTrip(t *testing.T) {
	q := lfds.BuildQueue[int](lfds.New())
	rq := lfds.BuildRemovableQueue[int](lfds.New().Removable())
	s := lfds.BuildStack[int](lfds.New())
	pq := lfds.BuildPriorityQueue(lfds.New(), func(a, b int) bool { return a < b })

	tests := []struct {
		name string
		put  func(v int) error
		take func() (int, error)
	}{
		{"Queue", func(v int) error { return q.Enqueue(&v) }, q.Dequeue},
		{"RemovableQueue", func(v int) error { return rq.Enqueue(&v) }, rq.Dequeue},
		{"Stack", func(v int) error { return s.Push(&v) }, s.Pop},
		{"PriorityQueue", func(v int) error { return pq.Add(&v) }, pq.Poll},
	}

	for tt := range slices.Values(tests) {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.put(42); err != nil {
				t.Fatalf("put: %v", err)
			}
			v, err := tt.take()
			if err != nil {
				t.Fatalf("take: %v", err)
			}
			if v != 42 {
				t.Fatalf("take: got %d, want 42", v)
			}
		})
	}
}

func TestBuilderPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"WorkersZero", func() { lfds.New().Workers(0) }},
		{"FactorZero", func() { lfds.New().Factor(0) }},
		{"BuildQueueRemovable", func() { lfds.BuildQueue[int](lfds.New().Removable()) }},
		{"BuildRemovableQueueDefault", func() { lfds.BuildRemovableQueue[int](lfds.New()) }},
		{"NewMultiQueueZeroWorkers", func() { lfds.NewMultiQueue(0, func(a, b int) bool { return a < b }) }},
	}

	for tt := range slices.Values(tests) {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if r := recover(); r == nil {
					t.Fatal("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
