package graph

import (
	"sync"
	"sync/atomic"
)

// =============================================================================
// Graph Pool
// =============================================================================

// GraphPool recycles per-round graph copies and the int scratch slices of the
// flow engines.
//
// The pool is safe for concurrent use from multiple goroutines; the graphs it
// hands out are not.
//
//	pool := graph.GetPool()
//	g := pool.AcquireClone(base)
//	defer pool.Release(g)
type GraphPool struct {
	graphs sync.Pool
	ints   sync.Pool

	clones   atomic.Int64
	inUse    atomic.Int64
	scratch  atomic.Int64
	scratchN atomic.Int64
}

// PoolStats is a snapshot of pool usage.
type PoolStats struct {
	// Clones counts AcquireClone calls; InUse the clones not yet released.
	Clones int64
	InUse  int64

	// Scratch counts AcquireInts calls, ScratchInts the ints they handed out.
	Scratch     int64
	ScratchInts int64
}

// NewPool creates an empty pool.
func NewPool() *GraphPool {
	return &GraphPool{
		graphs: sync.Pool{
			New: func() any {
				return &Graph{adj: make([][]Edge, 0, 64)}
			},
		},
		ints: sync.Pool{
			New: func() any {
				s := make([]int, 0, 128)
				return &s
			},
		},
	}
}

// globalPool is the singleton pool instance.
var globalPool = NewPool()

// GetPool returns the global graph pool.
func GetPool() *GraphPool {
	return globalPool
}

// AcquireClone returns a pooled deep copy of src.
// Call Release when done; the copy must not be used afterwards.
func (p *GraphPool) AcquireClone(src *Graph) *Graph {
	g := p.graphs.Get().(*Graph)
	g.CopyFrom(src)
	p.clones.Add(1)
	p.inUse.Add(1)
	return g
}

// Release returns a graph to the pool. It is safe to pass nil.
func (p *GraphPool) Release(g *Graph) {
	if g == nil {
		return
	}
	g.Reset()
	p.graphs.Put(g)
	p.inUse.Add(-1)
}

// AcquireInts returns a pooled slice of length n filled with fill.
func (p *GraphPool) AcquireInts(n, fill int) *[]int {
	s := p.ints.Get().(*[]int)
	p.scratch.Add(1)
	p.scratchN.Add(int64(n))
	if cap(*s) < n {
		*s = make([]int, n)
	}
	*s = (*s)[:n]
	for i := range *s {
		(*s)[i] = fill
	}
	return s
}

// ReleaseInts returns a slice obtained from AcquireInts. It is safe to pass nil.
func (p *GraphPool) ReleaseInts(s *[]int) {
	if s == nil {
		return
	}
	*s = (*s)[:0]
	p.ints.Put(s)
}

// Stats returns the usage counters of the pool.
func (p *GraphPool) Stats() PoolStats {
	return PoolStats{
		Clones:      p.clones.Load(),
		InUse:       p.inUse.Load(),
		Scratch:     p.scratch.Load(),
		ScratchInts: p.scratchN.Load(),
	}
}
