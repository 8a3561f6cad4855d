package converter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cutmatching/pkg/apperror"
	"cutmatching/services/cutmatching/internal/graph"
)

func neighborsOf(g *graph.Graph, u int) []int {
	var out []int
	for _, e := range g.Neighbors(u) {
		out = append(out, e.To)
	}
	return out
}

func TestReadChaco(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		nodes     int
		edges     int
		neighbors map[int][]int
	}{
		{
			name:      "triangle",
			input:     "3 3\n2 3\n1 3\n1 2\n",
			nodes:     3,
			edges:     3,
			neighbors: map[int][]int{0: {1, 2}, 1: {0, 2}, 2: {0, 1}},
		},
		{
			name:      "comments and trailing blank lines",
			input:     "% generated\n3 2\n% node 1\n2\n1 3\n2\n\n\n",
			nodes:     3,
			edges:     2,
			neighbors: map[int][]int{0: {1}, 1: {0, 2}, 2: {1}},
		},
		{
			name:      "isolated node",
			input:     "3 1\n2\n1\n\n",
			nodes:     3,
			edges:     1,
			neighbors: map[int][]int{2: nil},
		},
		{
			name:  "no trailing newline",
			input: "2 1\n2\n1",
			nodes: 2,
			edges: 1,
		},
		{
			name:      "vertex weights are skipped",
			input:     "2 1 10\n5 2\n7 1\n",
			nodes:     2,
			edges:     1,
			neighbors: map[int][]int{0: {1}, 1: {0}},
		},
		{
			name:  "empty graph",
			input: "0 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := ReadChaco(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.nodes, g.NodeCount())
			assert.Equal(t, tt.edges, g.EdgeCount())
			for u, want := range tt.neighbors {
				assert.Equal(t, want, neighborsOf(g, u), "node %d", u)
			}
		})
	}
}

func TestReadChaco_EdgeWeights(t *testing.T) {
	g, err := ReadChaco(strings.NewReader("3 2 1\n2 4\n1 4 3 2\n2 2\n"))
	require.NoError(t, err)

	assert.Equal(t, []graph.UndirectedEdge{
		{U: 0, V: 1, Weight: 4},
		{U: 1, V: 2, Weight: 2},
	}, g.Edges())
}

func TestReadChaco_SelfLoop(t *testing.T) {
	g, err := ReadChaco(strings.NewReader("2 2\n1 2\n1\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, g.EdgeCount())
	assert.Equal(t, 2, g.Degree(0))
}

func TestReadChaco_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"only comments", "% nothing\n"},
		{"header one field", "3\n"},
		{"header too many fields", "3 3 1 1\n"},
		{"bad node count", "x 3\n"},
		{"negative edge count", "2 -1\n"},
		{"unknown format", "2 1 2\n2\n1\n"},
		{"vertex sizes", "2 1 100\n1 2\n1 1\n"},
		{"too few lines", "3 2\n2\n1 3\n"},
		{"extra data", "2 1\n2\n1\n1\n"},
		{"neighbour zero", "2 1\n0\n1\n"},
		{"neighbour out of range", "2 1\n3\n1\n"},
		{"not a number", "2 1\nb\n1\n"},
		{"asymmetric", "3 2\n2 3\n1\n\n"},
		{"edge count mismatch", "3 3\n2\n1 3\n2\n"},
		{"odd weighted fields", "2 1 1\n2\n1 1\n"},
		{"bad weight", "2 1 1\n2 x\n1 1\n"},
		{"weight mismatch", "2 1 1\n2 3\n1 4\n"},
		{"missing vertex weight", "2 0 10\n\n1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadChaco(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Equal(t, apperror.CodeMalformedInput, apperror.Code(err), err.Error())
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cycle.graph")
	require.NoError(t, os.WriteFile(path, []byte("4 4\n2 4\n1 3\n2 4\n3 1\n"), 0o644))

	g, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 4, g.NodeCount())
	assert.Equal(t, 4, g.EdgeCount())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.graph"))
	require.Error(t, err)
	assert.Equal(t, apperror.CodeNotFound, apperror.Code(err))
}
