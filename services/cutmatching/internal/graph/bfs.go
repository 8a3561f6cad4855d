package graph

// =============================================================================
// Queue Implementation
// =============================================================================

// Queue provides an efficient FIFO queue for BFS traversal and the active
// node queue of push-relabel.
//
// It uses a slice with a head pointer to avoid repeated allocations; Reset
// keeps the underlying storage.
type Queue struct {
	data []int
	head int
}

// NewQueue creates a new Queue with the specified initial capacity.
func NewQueue(capacity int) *Queue {
	return &Queue{
		data: make([]int, 0, capacity),
	}
}

// Push adds an element to the end of the queue.
func (q *Queue) Push(v int) {
	q.data = append(q.data, v)
}

// Pop removes and returns the element at the front of the queue.
//
// Panics if the queue is empty. Always check Empty() before calling Pop().
func (q *Queue) Pop() int {
	v := q.data[q.head]
	q.head++
	return v
}

// Empty returns true if the queue contains no elements.
func (q *Queue) Empty() bool {
	return q.head >= len(q.data)
}

// Len returns the number of elements currently in the queue.
func (q *Queue) Len() int {
	return len(q.data) - q.head
}

// Reset clears the queue for reuse, keeping the underlying capacity.
func (q *Queue) Reset() {
	q.data = q.data[:0]
	q.head = 0
}

// =============================================================================
// Reachability
// =============================================================================

// ReachingTo returns the nodes that can reach `to` over entries with positive
// weight, in reverse BFS order starting at `to`. An entry u->v is usable when
// its own weight is positive, which is read through the mirror of v->u.
//
// On the residual graph of a maximum flow or preflow the complement of this
// set, taken from the sink, is the source side of a minimum cut.
func ReachingTo(g *Graph, to int) []int {
	visited := make([]bool, g.NodeCount())
	queue := NewQueue(g.NodeCount())

	visited[to] = true
	queue.Push(to)
	order := []int{to}

	for !queue.Empty() {
		v := queue.Pop()
		for _, e := range g.adj[v] {
			if visited[e.To] || g.adj[e.To][e.mirror].Weight <= 0 {
				continue
			}
			visited[e.To] = true
			queue.Push(e.To)
			order = append(order, e.To)
		}
	}
	return order
}
