package bisbm

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mkarlsen/bisbm-service/pkg/bigraph"
)

// squareGraph is the 2+2 complete bipartite graph.
func squareGraph(t *testing.T) *bigraph.Graph {
	t.Helper()
	edges := []bigraph.Edge{{U: 0, V: 2}, {U: 0, V: 3}, {U: 1, V: 2}, {U: 1, V: 3}}
	graph, err := bigraph.NewFromEdgeList(edges, bigraph.TypesFromSizes(2, 2))
	if err != nil {
		t.Fatalf("failed to build square graph: %v", err)
	}
	return graph
}

// plantedGraph builds two disjoint K_{3,3} blocks joined by a single
// crossing edge. A vertices are 0..5, B vertices 6..11; the planted
// partition is A {0,1,2}|{3,4,5} and B {6,7,8}|{9,10,11}.
func plantedGraph(t *testing.T) *bigraph.Graph {
	t.Helper()
	var edges []bigraph.Edge
	for _, block := range [][2][]int{
		{{0, 1, 2}, {6, 7, 8}},
		{{3, 4, 5}, {9, 10, 11}},
	} {
		for _, a := range block[0] {
			for _, b := range block[1] {
				edges = append(edges, bigraph.Edge{U: a, V: b})
			}
		}
	}
	edges = append(edges, bigraph.Edge{U: 0, V: 9})

	graph, err := bigraph.NewFromEdgeList(edges, bigraph.TypesFromSizes(6, 6))
	if err != nil {
		t.Fatalf("failed to build planted graph: %v", err)
	}
	return graph
}

// randomBipartiteGraph samples a connected-ish random bipartite graph.
// Every A vertex gets at least one edge so degrees are rarely zero but
// isolated B vertices remain possible.
func randomBipartiteGraph(rng *rand.Rand, numA, numB int) (*bigraph.Graph, error) {
	seen := make(map[[2]int]bool)
	var edges []bigraph.Edge
	for a := 0; a < numA; a++ {
		b := numA + rng.Intn(numB)
		seen[[2]int{a, b}] = true
		edges = append(edges, bigraph.Edge{U: a, V: b})
	}
	extra := rng.Intn(numA*numB/2 + 1)
	for i := 0; i < extra; i++ {
		a := rng.Intn(numA)
		b := numA + rng.Intn(numB)
		if seen[[2]int{a, b}] {
			continue
		}
		seen[[2]int{a, b}] = true
		edges = append(edges, bigraph.Edge{U: a, V: b})
	}
	return bigraph.NewFromEdgeList(edges, bigraph.TypesFromSizes(numA, numB))
}

// randomMemberships assigns every vertex a uniform group on its side,
// forcing the first vertex of each group range so no group starts empty.
func randomMemberships(rng *rand.Rand, graph *bigraph.Graph, numGroupsA, numGroupsB int) []int {
	numA := graph.NumType(bigraph.TypeA)
	memberships := make([]int, graph.NumVertices())
	for v := range memberships {
		if graph.Type(v) == bigraph.TypeA {
			memberships[v] = rng.Intn(numGroupsA)
		} else {
			memberships[v] = numGroupsA + rng.Intn(numGroupsB)
		}
	}
	// Pin one vertex per group so every group is non-empty. Requires
	// numA >= numGroupsA and numB >= numGroupsB.
	for r := 0; r < numGroupsA; r++ {
		memberships[r] = r
	}
	for r := 0; r < numGroupsB; r++ {
		memberships[numA+r] = numGroupsA + r
	}
	return memberships
}

// randomSideMove proposes a random same-side move for a random vertex.
func randomSideMove(rng *rand.Rand, st *BlockState) Move {
	v := rng.Intn(st.Graph().NumVertices())
	var target int
	if st.Graph().Type(v) == bigraph.TypeA {
		target = rng.Intn(st.NumGroupsA())
	} else {
		target = st.NumGroupsA() + rng.Intn(st.NumGroupsB())
	}
	return Move{Vertex: v, Source: st.Membership(v), Target: target}
}

// assertConsistent checks every incremental tensor against a state
// rebuilt from scratch from the current memberships, plus the global
// invariants: sizes sum to N, k rows sum to degrees, m symmetric, mr
// row sums.
func assertConsistent(t *testing.T, st *BlockState) {
	t.Helper()
	graph := st.Graph()

	fresh, err := NewBlockState(graph, st.Memberships(), st.NumGroupsA(), st.NumGroupsB(), st.Epsilon(), nil)
	if err != nil {
		t.Fatalf("rebuilding state failed: %v", err)
	}

	sizeTotal := 0
	for r := 0; r < st.NumGroups(); r++ {
		sizeTotal += st.GroupSize(r)
		if st.GroupSize(r) != fresh.GroupSize(r) {
			t.Fatalf("n[%d] = %d, rebuilt %d", r, st.GroupSize(r), fresh.GroupSize(r))
		}
		if st.MR(r) != fresh.MR(r) {
			t.Fatalf("mr[%d] = %d, rebuilt %d", r, st.MR(r), fresh.MR(r))
		}
		rowSum := 0
		for c := 0; c < st.NumGroups(); c++ {
			rowSum += st.M(r, c)
			if st.M(r, c) != fresh.M(r, c) {
				t.Fatalf("m[%d][%d] = %d, rebuilt %d", r, c, st.M(r, c), fresh.M(r, c))
			}
			if st.M(r, c) != st.M(c, r) {
				t.Fatalf("m[%d][%d] = %d but m[%d][%d] = %d", r, c, st.M(r, c), c, r, st.M(c, r))
			}
		}
		if rowSum != st.MR(r) {
			t.Fatalf("sum of m[%d][.] = %d but mr[%d] = %d", r, rowSum, r, st.MR(r))
		}
	}
	if sizeTotal != graph.NumVertices() {
		t.Fatalf("group sizes sum to %d, want %d", sizeTotal, graph.NumVertices())
	}

	for v := 0; v < graph.NumVertices(); v++ {
		kSum := 0
		for r := 0; r < st.NumGroups(); r++ {
			kSum += st.KRow(v)[r]
			if st.KRow(v)[r] != fresh.KRow(v)[r] {
				t.Fatalf("k[%d][%d] = %d, rebuilt %d", v, r, st.KRow(v)[r], fresh.KRow(v)[r])
			}
		}
		if kSum != graph.Degree(v) {
			t.Fatalf("sum of k[%d][.] = %d, want degree %d", v, kSum, graph.Degree(v))
		}
		onA := st.Membership(v) < st.NumGroupsA()
		if onA != (graph.Type(v) == bigraph.TypeA) {
			t.Fatalf("vertex %d type %v assigned to group %d", v, graph.Type(v), st.Membership(v))
		}
	}
}

func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
