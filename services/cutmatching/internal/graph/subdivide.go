package graph

import (
	"cutmatching/pkg/apperror"
)

// Subdivide replaces every edge by a path of length two through a new node.
//
// Edges are snapshotted once each (the entry u->v with v <= u, u ascending,
// adjacency order within u) before any node is created. For an edge (u, v)
// a node w is appended with edges (u, w) and (w, v), both carrying the
// original weight; a self-loop at u becomes a single pendant edge (u, w).
//
// With N0 nodes and E edges beforehand, the result has N0+E nodes and the
// active range becomes [N0, N0+E), the subdivision nodes.
func (g *Graph) Subdivide() {
	n0 := len(g.adj)

	var snapshot []UndirectedEdge
	for u := 0; u < n0; u++ {
		for _, e := range g.adj[u] {
			if e.To <= u {
				snapshot = append(snapshot, UndirectedEdge{U: u, V: e.To, Weight: e.Weight})
			}
		}
	}

	for u := 0; u < n0; u++ {
		g.adj[u] = g.adj[u][:0]
	}

	for _, e := range snapshot {
		w := len(g.adj)
		g.adj = append(g.adj, nil)
		g.addEdge(e.U, w, e.Weight)
		if e.V != e.U {
			g.addEdge(w, e.V, e.Weight)
		}
	}

	g.firstActive, g.pastActive = n0, len(g.adj)
}

// InducedGraph returns the subgraph on subset, relabelled densely in subset
// order. Edges with both endpoints in the subset are kept with their weights.
// The induced graph has an empty active range.
func (g *Graph) InducedGraph(subset []int) (*Graph, error) {
	index := make([]int, len(g.adj))
	for i := range index {
		index[i] = -1
	}
	for i, u := range subset {
		if err := g.checkNode(u); err != nil {
			return nil, err
		}
		if index[u] >= 0 {
			return nil, apperror.Newf(apperror.CodeInvalidArgument, "node %d listed twice in subset", u)
		}
		index[u] = i
	}

	h := &Graph{adj: make([][]Edge, len(subset))}
	for i, u := range subset {
		for _, e := range g.adj[u] {
			j := index[e.To]
			switch {
			case j < 0:
			case e.To == u:
				h.addSelfLoop(i, e.Weight)
			case i < j:
				h.addEdge(i, j, e.Weight)
			}
		}
	}
	return h, nil
}

// AddSourceSink appends a source connected to every node of cut.A and a sink
// connected to every node of cut.B, each with unit capacity. The cut must
// partition the active range exactly.
func (g *Graph) AddSourceSink(cut Cut) (source, sink int, err error) {
	if err := cut.Validate(g.firstActive, g.pastActive); err != nil {
		return 0, 0, err
	}

	toSource := make([]Neighbor, len(cut.A))
	for i, u := range cut.A {
		toSource[i] = Neighbor{To: u, Weight: 1}
	}
	toSink := make([]Neighbor, len(cut.B))
	for i, u := range cut.B {
		toSink[i] = Neighbor{To: u, Weight: 1}
	}

	if source, err = g.CreateNode(toSource...); err != nil {
		return 0, 0, err
	}
	if sink, err = g.CreateNode(toSink...); err != nil {
		return 0, 0, err
	}
	return source, sink, nil
}

// CrossingEdges counts edges with exactly one endpoint in side.
// Ids outside the graph are ignored.
func (g *Graph) CrossingEdges(side []int) int {
	in := make([]bool, len(g.adj))
	for _, u := range side {
		if u >= 0 && u < len(g.adj) {
			in[u] = true
		}
	}

	crossing := 0
	for u, inside := range in {
		if !inside {
			continue
		}
		for _, e := range g.adj[u] {
			if !in[e.To] {
				crossing++
			}
		}
	}
	return crossing
}
