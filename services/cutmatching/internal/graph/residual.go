package graph

// ResidualAccess is the only way a flow engine mutates capacities. It exposes
// per-entry reads and writes plus the equal-and-opposite update of an entry
// and its mirror; it never adds or removes edges.
type ResidualAccess struct {
	g *Graph
}

// Residual returns the residual capability over g.
func (g *Graph) Residual() ResidualAccess {
	return ResidualAccess{g: g}
}

// Weight returns the residual capacity of the i-th entry of u.
func (r ResidualAccess) Weight(u, i int) int {
	return r.g.adj[u][i].Weight
}

// SetWeight overwrites the capacity of one entry. The mirror is untouched.
func (r ResidualAccess) SetWeight(u, i, w int) {
	r.g.adj[u][i].Weight = w
}

// Mirror returns the index of the partner of entry i of u in the list of
// its endpoint.
func (r ResidualAccess) Mirror(u, i int) int {
	return r.g.adj[u][i].mirror
}

// Push sends amount units along entry i of u: the entry loses amount and its
// mirror gains amount, keeping their sum constant.
func (r ResidualAccess) Push(u, i, amount int) {
	e := &r.g.adj[u][i]
	e.Weight -= amount
	r.g.adj[e.To][e.mirror].Weight += amount
}
