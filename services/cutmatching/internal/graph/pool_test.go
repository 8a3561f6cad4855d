package graph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphPool_AcquireClone(t *testing.T) {
	src, err := FromAdjacency(cycle(5))
	require.NoError(t, err)
	src.Subdivide()

	pool := NewPool()
	g := pool.AcquireClone(src)

	assert.Equal(t, src.NodeCount(), g.NodeCount())
	assert.Equal(t, src.Edges(), g.Edges())
	assertMirrors(t, g)

	g.Residual().Push(0, 0, 1)
	assert.Equal(t, 1, src.EdgeAt(0, 0).Weight, "copy must not alias the source")

	pool.Release(g)
	pool.Release(nil)

	// A recycled graph carries nothing over.
	small, err := FromAdjacency([][]int{{1}, {0}})
	require.NoError(t, err)
	g2 := pool.AcquireClone(small)
	assert.Equal(t, 2, g2.NodeCount())
	assert.Equal(t, 1, g2.EdgeCount())
	assert.Equal(t, 1, g2.EdgeAt(0, 0).Weight)
	pool.Release(g2)
}

func TestGraphPool_Ints(t *testing.T) {
	pool := GetPool()

	s := pool.AcquireInts(4, -1)
	assert.Equal(t, []int{-1, -1, -1, -1}, *s)
	(*s)[0] = 9
	pool.ReleaseInts(s)
	pool.ReleaseInts(nil)

	s = pool.AcquireInts(300, 0)
	assert.Len(t, *s, 300)
	for _, v := range *s {
		assert.Equal(t, 0, v)
	}
	pool.ReleaseInts(s)
}

func TestGraphPool_Concurrent(t *testing.T) {
	src, err := FromAdjacency(cycle(8))
	require.NoError(t, err)

	pool := NewPool()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				g := pool.AcquireClone(src)
				g.Residual().Push(0, 0, 1)
				pool.Release(g)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, src.EdgeAt(0, 0).Weight)
}

func TestGraphPool_Stats(t *testing.T) {
	src, err := FromAdjacency(cycle(4))
	require.NoError(t, err)

	pool := NewPool()
	a := pool.AcquireClone(src)
	b := pool.AcquireClone(src)
	pool.Release(a)
	pool.ReleaseInts(pool.AcquireInts(10, 0))
	pool.ReleaseInts(pool.AcquireInts(6, 0))

	assert.Equal(t, PoolStats{Clones: 2, InUse: 1, Scratch: 2, ScratchInts: 16}, pool.Stats())

	pool.Release(b)
	pool.Release(nil)
	assert.Equal(t, int64(0), pool.Stats().InUse)
}
