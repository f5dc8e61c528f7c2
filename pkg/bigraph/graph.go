package bigraph

import "fmt"

// VertexType marks which side of the bipartition a vertex belongs to.
type VertexType uint8

const (
	TypeA VertexType = 0
	TypeB VertexType = 1
)

// Edge is an undirected vertex pair.
type Edge struct {
	U, V int
}

// Graph is an immutable simple bipartite graph stored as flat adjacency
// slices. Neighbor lists are contiguous so that a random neighbor can
// be drawn by index in O(1), which the proposal step depends on.
type Graph struct {
	adjacency [][]int
	degrees   []int
	types     []VertexType
	numEdges  int
}

// NewFromEdgeList builds a graph over len(types) vertices from an
// undirected edge list. The caller guarantees there are no duplicate
// edges; vertex ids, self-loops and the bipartite type invariant are
// verified here.
func NewFromEdgeList(edges []Edge, types []VertexType) (*Graph, error) {
	n := len(types)
	if n == 0 {
		return nil, fmt.Errorf("graph must have at least one vertex")
	}

	g := &Graph{
		adjacency: make([][]int, n),
		degrees:   make([]int, n),
		types:     types,
		numEdges:  len(edges),
	}

	for _, e := range edges {
		if e.U < 0 || e.U >= n || e.V < 0 || e.V >= n {
			return nil, fmt.Errorf("edge (%d, %d) out of range for %d vertices", e.U, e.V, n)
		}
		if e.U == e.V {
			return nil, fmt.Errorf("self-loop on vertex %d", e.U)
		}
		if types[e.U] == types[e.V] {
			return nil, fmt.Errorf("edge (%d, %d) violates bipartite types", e.U, e.V)
		}
		g.degrees[e.U]++
		g.degrees[e.V]++
	}

	for v := 0; v < n; v++ {
		g.adjacency[v] = make([]int, 0, g.degrees[v])
	}
	for _, e := range edges {
		g.adjacency[e.U] = append(g.adjacency[e.U], e.V)
		g.adjacency[e.V] = append(g.adjacency[e.V], e.U)
	}

	return g, nil
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int { return len(g.types) }

// NumEdges returns the number of undirected edges.
func (g *Graph) NumEdges() int { return g.numEdges }

// Neighbors returns the neighbor list of v. The slice is owned by the
// graph and must not be modified.
func (g *Graph) Neighbors(v int) []int { return g.adjacency[v] }

// Degree returns the degree of v.
func (g *Graph) Degree(v int) int { return g.degrees[v] }

// Type returns the bipartition side of v.
func (g *Graph) Type(v int) VertexType { return g.types[v] }

// NumType returns the number of vertices on the given side.
func (g *Graph) NumType(t VertexType) int {
	count := 0
	for _, vt := range g.types {
		if vt == t {
			count++
		}
	}
	return count
}
