// Package graph provides the undirected weighted graph used by the cut-matching
// game and its max-flow engines.
//
// # Edge Storage
//
// Every undirected edge (u, v) is stored twice: once in the adjacency list of
// u and once in the adjacency list of v. Each entry records the index of its
// partner ("mirror") in the other endpoint's list, so a flow algorithm holding
// an entry can update the reverse direction in O(1).
//
// A self-loop is a single entry whose mirror is itself. Self-loops can only
// come from construction input (FromAdjacency); AddUndirectedEdge rejects them.
//
// # Active Range
//
// Node ids are dense ints that are never recycled. The game only partitions
// the half-open range [firstActive, pastActive) of nodes; nodes outside the
// range (original vertices after subdivision, injected source and sink) take
// part in flow computations but never in cuts or matchings.
//
// # Thread Safety
//
// Graph is NOT thread-safe. Each round of the game works on its own copy
// obtained from a GraphPool.
package graph

import (
	"cutmatching/pkg/apperror"
	"cutmatching/pkg/logger"
)

// =============================================================================
// Edge
// =============================================================================

// Edge is one adjacency entry of an undirected edge.
type Edge struct {
	// To is the opposite endpoint.
	To int

	// Weight is the capacity in a plain graph and the residual capacity
	// in a flow context.
	Weight int

	// mirror is the index of the partner entry in the adjacency list of To.
	mirror int
}

// Neighbor describes an edge to create together with a new node.
type Neighbor struct {
	To     int
	Weight int
}

// UndirectedEdge is an edge reported once, with U <= V.
type UndirectedEdge struct {
	U      int
	V      int
	Weight int
}

// =============================================================================
// Graph
// =============================================================================

// Graph is an undirected weighted graph with a mirrored edge index.
type Graph struct {
	adj         [][]Edge
	firstActive int
	pastActive  int
}

// New creates a graph with n isolated nodes. All nodes are active.
func New(n int) *Graph {
	if n < 0 {
		n = 0
	}
	return &Graph{
		adj:        make([][]Edge, n),
		pastActive: n,
	}
}

// FromAdjacency builds a unit-weight graph from symmetric neighbour lists:
// every edge (u, v) must be listed at u and at v. A node listed in its own
// list becomes a self-loop stored as a single entry.
//
// Returns a MalformedInput error for out-of-range ids or asymmetric lists.
func FromAdjacency(lists [][]int) (*Graph, error) {
	weighted := make([][]Neighbor, len(lists))
	for u, list := range lists {
		weighted[u] = make([]Neighbor, len(list))
		for i, v := range list {
			weighted[u][i] = Neighbor{To: v, Weight: 1}
		}
	}
	return FromWeightedAdjacency(weighted)
}

// FromWeightedAdjacency is FromAdjacency with explicit weights. Both listings
// of an edge must carry the same weight.
func FromWeightedAdjacency(lists [][]Neighbor) (*Graph, error) {
	n := len(lists)
	type key struct{ u, v, w int }
	balance := make(map[key]int)

	g := New(n)
	for u, list := range lists {
		for _, nb := range list {
			v := nb.To
			if v < 0 || v >= n {
				return nil, apperror.Malformed("node %d lists neighbour %d outside [0, %d)", u, v, n)
			}
			if nb.Weight < 0 {
				return nil, apperror.Malformed("node %d lists negative weight %d", u, nb.Weight)
			}
			switch {
			case v == u:
				g.addSelfLoop(u, nb.Weight)
			case u < v:
				g.addEdge(u, v, nb.Weight)
				balance[key{u, v, nb.Weight}]++
			default:
				balance[key{v, u, nb.Weight}]--
			}
		}
	}

	for k, c := range balance {
		if c != 0 {
			return nil, apperror.Malformed("edge (%d, %d) with weight %d is not listed symmetrically", k.u, k.v, k.w)
		}
	}

	return g, nil
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	return len(g.adj)
}

// EdgeCount returns the number of undirected edges. Self-loops count once.
func (g *Graph) EdgeCount() int {
	entries, loops := 0, 0
	for u, list := range g.adj {
		for _, e := range list {
			if e.To == u {
				loops++
			} else {
				entries++
			}
		}
	}
	return entries/2 + loops
}

// Degree returns the number of adjacency entries of u.
func (g *Graph) Degree(u int) int {
	return len(g.adj[u])
}

// EdgeAt returns the i-th adjacency entry of u.
func (g *Graph) EdgeAt(u, i int) Edge {
	return g.adj[u][i]
}

// Neighbors returns a copy of the adjacency list of u.
func (g *Graph) Neighbors(u int) []Edge {
	out := make([]Edge, len(g.adj[u]))
	copy(out, g.adj[u])
	return out
}

// ActiveRange returns [firstActive, pastActive).
func (g *Graph) ActiveRange() (int, int) {
	return g.firstActive, g.pastActive
}

// ActiveCount returns the number of active nodes.
func (g *Graph) ActiveCount() int {
	return g.pastActive - g.firstActive
}

// IsActive reports whether u lies in the active range.
func (g *Graph) IsActive(u int) bool {
	return u >= g.firstActive && u < g.pastActive
}

// SetActiveRange sets the active range. It must satisfy
// 0 <= first <= past <= NodeCount().
func (g *Graph) SetActiveRange(first, past int) error {
	if first < 0 || first > past || past > len(g.adj) {
		return apperror.Newf(apperror.CodeInvalidArgument,
			"active range [%d, %d) is not within [0, %d]", first, past, len(g.adj))
	}
	g.firstActive, g.pastActive = first, past
	return nil
}

// Edges returns every undirected edge once, ordered by U and then by the
// adjacency order at U.
func (g *Graph) Edges() []UndirectedEdge {
	var out []UndirectedEdge
	for u, list := range g.adj {
		for _, e := range list {
			if e.To >= u {
				out = append(out, UndirectedEdge{U: u, V: e.To, Weight: e.Weight})
			}
		}
	}
	return out
}

// =============================================================================
// Mutation
// =============================================================================

// AddUndirectedEdge adds the edge (u, v) with weight w.
// Self-loops are rejected and never stored.
func (g *Graph) AddUndirectedEdge(u, v, w int) error {
	if err := g.checkNode(u); err != nil {
		return err
	}
	if err := g.checkNode(v); err != nil {
		return err
	}
	if u == v {
		logger.Warn("self-loop rejected", "node", u)
		return apperror.Newf(apperror.CodeSelfLoop, "self-loop at node %d", u).WithField("v")
	}
	g.addEdge(u, v, w)
	return nil
}

// DeleteUndirectedEdge removes one edge between u and v: exactly one entry
// from each endpoint (a single entry for a self-loop).
func (g *Graph) DeleteUndirectedEdge(u, v int) error {
	if err := g.checkNode(u); err != nil {
		return err
	}
	if err := g.checkNode(v); err != nil {
		return err
	}

	i := g.find(u, v)
	if i < 0 {
		return apperror.Newf(apperror.CodeEdgeNotFound, "no edge between %d and %d", u, v)
	}

	if u != v {
		g.removeEntry(v, g.adj[u][i].mirror)
	}
	g.removeEntry(u, i)
	return nil
}

// CreateNode appends a node connected to existing nodes and returns its id.
func (g *Graph) CreateNode(neighbors ...Neighbor) (int, error) {
	id := len(g.adj)
	for _, nb := range neighbors {
		if err := g.checkNode(nb.To); err != nil {
			return 0, err
		}
	}

	g.adj = append(g.adj, nil)
	for _, nb := range neighbors {
		g.addEdge(id, nb.To, nb.Weight)
	}
	return id, nil
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	c := &Graph{}
	c.CopyFrom(g)
	return c
}

// CopyFrom replaces the contents of g with a deep copy of src, reusing the
// storage g already holds.
func (g *Graph) CopyFrom(src *Graph) {
	if cap(g.adj) < len(src.adj) {
		g.adj = make([][]Edge, len(src.adj))
	} else {
		g.adj = g.adj[:len(src.adj)]
	}
	for u, list := range src.adj {
		g.adj[u] = append(g.adj[u][:0], list...)
	}
	g.firstActive, g.pastActive = src.firstActive, src.pastActive
}

// Reset removes all nodes, keeping allocated storage.
func (g *Graph) Reset() {
	g.adj = g.adj[:0]
	g.firstActive, g.pastActive = 0, 0
}

// =============================================================================
// Internal helpers
// =============================================================================

func (g *Graph) checkNode(u int) error {
	if u < 0 || u >= len(g.adj) {
		return apperror.Invariant("node %d out of range [0, %d)", u, len(g.adj))
	}
	return nil
}

func (g *Graph) addEdge(u, v, w int) {
	iu, iv := len(g.adj[u]), len(g.adj[v])
	g.adj[u] = append(g.adj[u], Edge{To: v, Weight: w, mirror: iv})
	g.adj[v] = append(g.adj[v], Edge{To: u, Weight: w, mirror: iu})
}

func (g *Graph) addSelfLoop(u, w int) {
	i := len(g.adj[u])
	g.adj[u] = append(g.adj[u], Edge{To: u, Weight: w, mirror: i})
}

// find returns the index of the first entry at u pointing to v, or -1.
func (g *Graph) find(u, v int) int {
	for i, e := range g.adj[u] {
		if e.To == v {
			return i
		}
	}
	return -1
}

// removeEntry swap-removes entry i from the list of u and repairs the mirror
// index of the partner of the entry that moved into slot i.
func (g *Graph) removeEntry(u, i int) {
	last := len(g.adj[u]) - 1
	if i != last {
		moved := g.adj[u][last]
		g.adj[u][i] = moved
		if moved.To == u && moved.mirror == last {
			g.adj[u][i].mirror = i
		} else {
			g.adj[moved.To][moved.mirror].mirror = i
		}
	}
	g.adj[u] = g.adj[u][:last]
}
