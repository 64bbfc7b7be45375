// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfds_test

import (
	"fmt"
	"sync"
	"testing"

	"code.hybscloud.com/lfds"
	"code.hybscloud.com/lfds/sssp"
	"code.hybscloud.com/spin"
)

// =============================================================================
// Single-goroutine baselines
// =============================================================================

func BenchmarkTreiberStack_SingleOp(b *testing.B) {
	s := lfds.NewTreiberStack[int]()

	b.ResetTimer()
	for i := range b.N {
		v := i
		s.Push(&v)
		s.Pop()
	}
}

func BenchmarkEliminationStack_SingleOp(b *testing.B) {
	s := lfds.NewEliminationStack[int]()

	b.ResetTimer()
	for i := range b.N {
		v := i
		s.Push(&v)
		s.Pop()
	}
}

func BenchmarkFAAQueue_SingleOp(b *testing.B) {
	q := lfds.NewFAAQueue[int]()

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
		q.Dequeue()
	}
}

func BenchmarkMSQueue_SingleOp(b *testing.B) {
	q := lfds.NewMSQueue[int]()

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
		q.Dequeue()
	}
}

func BenchmarkMSQueue_Remove(b *testing.B) {
	q := lfds.NewMSQueue[int]()

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Enqueue(&v)
		q.Remove(v)
	}
}

func BenchmarkCAS2Array_SingleOp(b *testing.B) {
	a := lfds.NewCAS2Array(2, 0)

	b.ResetTimer()
	for i := range b.N {
		a.CAS2(0, i, i+1, 1, i, i+1)
	}
}

func BenchmarkMultiQueue_SingleOp(b *testing.B) {
	q := lfds.NewMultiQueue(1, func(x, y int) bool { return x < y })

	b.ResetTimer()
	for i := range b.N {
		v := i
		q.Add(&v)
		q.Poll()
	}
}

// =============================================================================
// Contention
// =============================================================================

// pushPop runs workers goroutines that each push then pop b.N/workers times.
func pushPop(b *testing.B, workers int, s lfds.Stack[int]) {
	ops := max(b.N/workers, 1)

	b.ResetTimer()
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range ops {
				v := w*ops + i
				s.Push(&v)
				s.Pop()
			}
		}()
	}
	wg.Wait()
}

func BenchmarkStack_ContentionLevels(b *testing.B) {
	for _, workers := range []int{2, 4, 8, 16} {
		b.Run(fmt.Sprintf("Treiber/Workers%d", workers), func(b *testing.B) {
			pushPop(b, workers, lfds.NewTreiberStack[int]())
		})
		b.Run(fmt.Sprintf("Elimination/Workers%d", workers), func(b *testing.B) {
			pushPop(b, workers, lfds.NewEliminationStack[int]())
		})
	}
}

// produceConsume splits workers into producers and consumers that move
// b.N elements through q.
func produceConsume(b *testing.B, workers int, q lfds.Queue[int]) {
	numProducers := max(workers/2, 1)
	numConsumers := max(workers-numProducers, 1)
	opsPerProducer := max(b.N/numProducers, 1)

	b.ResetTimer()

	var producerWg sync.WaitGroup
	var consumerWg sync.WaitGroup

	// Consumers (start first)
	done := make(chan struct{})
	for range numConsumers {
		consumerWg.Add(1)
		go func() {
			defer consumerWg.Done()
			sw := spin.Wait{}
			for {
				select {
				case <-done:
					for {
						if _, err := q.Dequeue(); err != nil {
							return
						}
					}
				default:
					if _, err := q.Dequeue(); err == nil {
						sw.Reset()
					} else {
						sw.Once()
					}
				}
			}
		}()
	}

	// Producers
	for p := range numProducers {
		producerWg.Add(1)
		go func() {
			defer producerWg.Done()
			base := p * opsPerProducer
			for i := range opsPerProducer {
				v := base + i
				q.Enqueue(&v)
			}
		}()
	}

	producerWg.Wait()
	close(done)
	consumerWg.Wait()
}

func BenchmarkQueue_ContentionLevels(b *testing.B) {
	for _, workers := range []int{2, 4, 8, 16} {
		b.Run(fmt.Sprintf("FAA/Workers%d", workers), func(b *testing.B) {
			produceConsume(b, workers, lfds.NewFAAQueue[int]())
		})
		b.Run(fmt.Sprintf("MS/Workers%d", workers), func(b *testing.B) {
			produceConsume(b, workers, lfds.NewMSQueue[int]())
		})
	}
}

func BenchmarkCAS2Array_Parallel(b *testing.B) {
	a := lfds.NewCAS2Array(64, 0)

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			i1, i2 := i%64, (i+1)%64
			v1, v2 := a.Get(i1), a.Get(i2)
			a.CAS2(i1, v1, v1+1, i2, v2, v2-1)
			i += 2
		}
	})
}

// =============================================================================
// Shortest paths
// =============================================================================

func BenchmarkShortestPathParallel(b *testing.B) {
	for _, workers := range []int{1, 4, 8} {
		b.Run(fmt.Sprintf("Workers%d", workers), func(b *testing.B) {
			for range b.N {
				b.StopTimer()
				nodes := gridGraph(64)
				b.StartTimer()
				sssp.ShortestPathParallel(nodes[0], workers)
			}
		})
	}
}

// gridGraph builds an n×n grid with edges to the right and downward
// neighbours.
func gridGraph(n int) []*sssp.Node {
	nodes := make([]*sssp.Node, n*n)
	for i := range nodes {
		nodes[i] = sssp.NewNode()
	}
	for r := range n {
		for c := range n {
			cur := nodes[r*n+c]
			if c+1 < n {
				cur.AddEdge(nodes[r*n+c+1], int64(1+(r*c)%7))
			}
			if r+1 < n {
				cur.AddEdge(nodes[(r+1)*n+c], int64(1+(r+c)%5))
			}
		}
	}
	return nodes
}
