// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sssp computes single-source shortest paths on graphs with
// non-negative edge weights.
//
// [ShortestPathParallel] runs a relaxed parallel Dijkstra: workers poll
// nodes from a concurrent priority queue, lower neighbour distances with
// CAS and push improved neighbours back. Any [lfds.PriorityQueue] works,
// including relaxed ones that do not always return the minimum, because a
// node is re-expanded whenever its distance improves.
//
// [ShortestPath] is the sequential reference.
package sssp

import (
	"container/heap"
	"math"
	"runtime"
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfds"
)

// Unreachable is the distance of a node not reachable from the start.
const Unreachable = math.MaxInt64

// Node is a graph vertex with an atomically updated tentative distance.
type Node struct {
	distance atomix.Int64
	edges    []Edge
}

// Edge is a directed weighted edge.
type Edge struct {
	To     *Node
	Weight int64
}

// NewNode creates an unreachable node without edges.
func NewNode() *Node {
	n := &Node{}
	n.distance.Store(Unreachable)
	return n
}

// AddEdge adds a directed edge from n to to.
// Not safe for use during a shortest path computation.
// Panics if weight < 0.
func (n *Node) AddEdge(to *Node, weight int64) {
	if weight < 0 {
		panic("sssp: negative edge weight")
	}
	n.edges = append(n.edges, Edge{To: to, Weight: weight})
}

// Edges returns the outgoing edges of n.
func (n *Node) Edges() []Edge {
	return n.edges
}

// Distance returns the current distance from the start node, or
// Unreachable.
func (n *Node) Distance() int64 {
	return n.distance.Load()
}

// relax lowers the distance of n to d. Reports whether it improved.
func (n *Node) relax(d int64) bool {
	for {
		cur := n.distance.Load()
		if cur <= d {
			return false
		}
		if n.distance.CompareAndSwapAcqRel(cur, d) {
			return true
		}
	}
}

// pathLength returns d + w, saturating at Unreachable.
func pathLength(d, w int64) int64 {
	if w >= Unreachable-d {
		return Unreachable
	}
	return d + w
}

func byDistance(a, b *Node) bool {
	return a.distance.Load() < b.distance.Load()
}

// ShortestPathParallel sets the distance of every node reachable from
// start, using one goroutine per worker and a MultiQueue sized for them.
// workers <= 0 means GOMAXPROCS.
func ShortestPathParallel(start *Node, workers int) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	q := lfds.BuildPriorityQueue(lfds.New().Workers(workers), byDistance)
	ShortestPathWith(start, workers, q)
}

// ShortestPathWith is ShortestPathParallel over a caller-supplied priority
// queue ordered by node distance. The queue must be empty.
func ShortestPathWith(start *Node, workers int, q lfds.PriorityQueue[*Node]) {
	if workers < 1 {
		panic("sssp: workers must be >= 1")
	}
	start.distance.Store(0)
	q.Add(&start)

	// Nodes queued or being expanded. Zero means the computation is done.
	var active atomix.Int64
	active.Store(1)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			backoff := iox.Backoff{}
			for {
				cur, err := q.Poll()
				if err != nil {
					if active.Load() == 0 {
						return
					}
					backoff.Wait()
					continue
				}
				backoff.Reset()

				d := cur.distance.Load()
				for _, e := range cur.edges {
					if e.To.relax(pathLength(d, e.Weight)) {
						active.Add(1)
						to := e.To
						q.Add(&to)
					}
				}
				active.Add(-1)
			}
		}()
	}
	wg.Wait()
}

// ShortestPath is the sequential Dijkstra reference for ShortestPathParallel.
func ShortestPath(start *Node) {
	start.distance.Store(0)
	h := &nodeHeap{start}
	for h.Len() > 0 {
		cur := heap.Pop(h).(*Node)
		d := cur.distance.Load()
		for _, e := range cur.edges {
			if e.To.relax(pathLength(d, e.Weight)) {
				heap.Push(h, e.To)
			}
		}
	}
}

type nodeHeap []*Node

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return byDistance(h[i], h[j]) }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(*Node)) }

func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old) - 1
	x := old[n]
	*h = old[:n]
	return x
}
