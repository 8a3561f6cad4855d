package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Empty())

	q.Push(1)
	q.Push(2)
	q.Push(3)
	assert.Equal(t, 3, q.Len())

	assert.Equal(t, 1, q.Pop())
	assert.Equal(t, 2, q.Pop())
	assert.Equal(t, 1, q.Len())

	q.Reset()
	assert.True(t, q.Empty())
	q.Push(7)
	assert.Equal(t, 7, q.Pop())
}

func TestReachingTo(t *testing.T) {
	g := New(5)
	require.NoError(t, g.AddUndirectedEdge(0, 1, 1))
	require.NoError(t, g.AddUndirectedEdge(1, 2, 0))
	require.NoError(t, g.AddUndirectedEdge(0, 3, 2))

	assert.Equal(t, []int{0, 1, 3}, ReachingTo(g, 0))
	assert.Equal(t, []int{4}, ReachingTo(g, 4))
	assert.Equal(t, []int{2}, ReachingTo(g, 2))

	// Direction matters once weights diverge.
	r := g.Residual()
	r.Push(0, 0, 1) // 0->1 saturated, 1->0 now 2
	assert.Equal(t, []int{1}, ReachingTo(g, 1))
	assert.Equal(t, []int{0, 1, 3}, ReachingTo(g, 0))
}
