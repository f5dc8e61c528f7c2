package bisbm

import (
	"fmt"
	"math/rand"

	"github.com/mkarlsen/bisbm-service/pkg/bigraph"
	"github.com/mkarlsen/bisbm-service/pkg/logtable"
)

// BlockState is the mutable summary of a group assignment over a fixed
// bipartite graph. Groups 0..KA-1 hold type-A vertices, KA..KA+KB-1
// hold type-B vertices. It maintains, incrementally per move:
//
//	n[r]     group sizes
//	k[v][r]  per-vertex counts of neighbors in each group
//	m[r][s]  group-group edge endpoint counts (symmetric)
//	mr[r]    per-group stub totals, mr[r] = sum_s m[r][s]
//
// ApplyMove is the only mutator and runs in O(deg(v)+K). The state
// holds a read-only reference to the graph, which must outlive it.
type BlockState struct {
	graph *bigraph.Graph
	logs  *logtable.Table

	numGroupsA int
	numGroupsB int
	epsilon    float64

	memberships []int
	n           []int
	k           [][]int
	m           [][]int
	mr          []int

	// Constant over the run: depends only on the degree sequence.
	degreeCorrection float64
}

// NewBlockState builds the summary tensors from scratch by one pass
// over the adjacency. A nil logs table is replaced with one sized to
// 2E, the largest value any affinity cell can take.
func NewBlockState(graph *bigraph.Graph, memberships []int, numGroupsA, numGroupsB int, epsilon float64, logs *logtable.Table) (*BlockState, error) {
	numVertices := graph.NumVertices()
	if len(memberships) != numVertices {
		return nil, fmt.Errorf("membership vector has %d entries for %d vertices", len(memberships), numVertices)
	}
	if numGroupsA < 1 || numGroupsB < 1 {
		return nil, fmt.Errorf("need at least one group per side, got KA=%d KB=%d", numGroupsA, numGroupsB)
	}
	if epsilon <= 0 {
		return nil, fmt.Errorf("epsilon must be positive, got %g", epsilon)
	}
	if logs == nil {
		logs = logtable.New(2 * graph.NumEdges())
	}

	numGroups := numGroupsA + numGroupsB
	s := &BlockState{
		graph:       graph,
		logs:        logs,
		numGroupsA:  numGroupsA,
		numGroupsB:  numGroupsB,
		epsilon:     epsilon,
		memberships: make([]int, numVertices),
		n:           make([]int, numGroups),
		mr:          make([]int, numGroups),
	}
	copy(s.memberships, memberships)

	for v := 0; v < numVertices; v++ {
		r := s.memberships[v]
		if r < 0 || r >= numGroups {
			return nil, fmt.Errorf("vertex %d has group %d outside [0, %d)", v, r, numGroups)
		}
		if (r < numGroupsA) != (graph.Type(v) == bigraph.TypeA) {
			return nil, fmt.Errorf("vertex %d (type %d) assigned to group %d on the wrong side", v, graph.Type(v), r)
		}
		s.n[r]++
		s.degreeCorrection += logs.LogFact(graph.Degree(v))
	}

	// All k rows are dense and preallocated; the inner loop indexes them
	// without allocating.
	s.k = make([][]int, numVertices)
	for v := 0; v < numVertices; v++ {
		s.k[v] = make([]int, numGroups)
	}
	s.m = make([][]int, numGroups)
	for r := 0; r < numGroups; r++ {
		s.m[r] = make([]int, numGroups)
	}
	s.rebuild()

	return s, nil
}

// rebuild recomputes k, m, and mr from the membership vector. Outside
// of construction and shuffling this never runs; moves update the
// tensors incrementally.
func (s *BlockState) rebuild() {
	for v := range s.k {
		row := s.k[v]
		for r := range row {
			row[r] = 0
		}
	}
	for r := range s.m {
		row := s.m[r]
		for c := range row {
			row[c] = 0
		}
		s.mr[r] = 0
	}

	for v := 0; v < s.graph.NumVertices(); v++ {
		r := s.memberships[v]
		for _, u := range s.graph.Neighbors(v) {
			s.k[v][s.memberships[u]]++
			s.m[r][s.memberships[u]]++
		}
	}
	for r := range s.m {
		total := 0
		for _, c := range s.m[r] {
			total += c
		}
		s.mr[r] = total
	}
}

// ApplyMove moves mv.Vertex from mv.Source to mv.Target, updating all
// summary tensors in O(deg(v)+K). It returns false, without mutating,
// when the move would empty the source group; the caller treats that
// as a rejected proposal.
func (s *BlockState) ApplyMove(mv Move) bool {
	source, target, vertex := mv.Source, mv.Target, mv.Vertex

	s.n[source]--
	if s.n[source] == 0 {
		s.n[source]++
		return false
	}
	s.n[target]++

	ki := s.k[vertex]
	for i, kvi := range ki {
		if kvi != 0 {
			s.m[source][i] -= kvi
			s.m[target][i] += kvi
			s.m[i][source] = s.m[source][i]
			s.m[i][target] = s.m[target][i]
		}
	}

	deg := s.graph.Degree(vertex)
	s.mr[source] -= deg
	s.mr[target] += deg

	for _, u := range s.graph.Neighbors(vertex) {
		s.k[u][source]--
		s.k[u][target]++
	}

	s.memberships[vertex] = target
	return true
}

// ShuffleWithinTypes randomly permutes the membership labels within
// each side of the bipartition, then rebuilds the summary tensors.
func (s *BlockState) ShuffleWithinTypes(rng *rand.Rand) {
	var sideA, sideB []int
	for v := 0; v < s.graph.NumVertices(); v++ {
		if s.graph.Type(v) == bigraph.TypeA {
			sideA = append(sideA, v)
		} else {
			sideB = append(sideB, v)
		}
	}
	shuffleSide := func(vertices []int) {
		rng.Shuffle(len(vertices), func(i, j int) {
			vi, vj := vertices[i], vertices[j]
			s.memberships[vi], s.memberships[vj] = s.memberships[vj], s.memberships[vi]
		})
	}
	shuffleSide(sideA)
	shuffleSide(sideB)

	for r := range s.n {
		s.n[r] = 0
	}
	for _, r := range s.memberships {
		s.n[r]++
	}
	s.rebuild()
}

// Entropy computes the description length of the current state from
// scratch:
//
//	S = -E - sum_v log(deg(v)!) - 1/2 sum_{r,s} m[r][s] log(m[r][s] / (mr[r] mr[s]))
//
// Used once at the start of a run and by consistency checks; the
// annealer tracks entropy incrementally via the per-move delta.
func (s *BlockState) Entropy() float64 {
	entropy := -float64(s.graph.NumEdges()) - s.degreeCorrection
	for r := range s.m {
		for c, mrc := range s.m[r] {
			if mrc != 0 {
				entropy -= 0.5 * float64(mrc) * (s.logs.Log(mrc) - s.logs.Log(s.mr[r]) - s.logs.Log(s.mr[c]))
			}
		}
	}
	return entropy
}

// sideRange returns the half-open group id range [base, base+width)
// for the given side of the bipartition.
func (s *BlockState) sideRange(t bigraph.VertexType) (base, width int) {
	if t == bigraph.TypeA {
		return 0, s.numGroupsA
	}
	return s.numGroupsA, s.numGroupsB
}

// Graph returns the underlying graph.
func (s *BlockState) Graph() *bigraph.Graph { return s.graph }

// Logs returns the injected log table.
func (s *BlockState) Logs() *logtable.Table { return s.logs }

// NumGroups returns the total group count KA+KB.
func (s *BlockState) NumGroups() int { return s.numGroupsA + s.numGroupsB }

// NumGroupsA returns the number of type-A groups.
func (s *BlockState) NumGroupsA() int { return s.numGroupsA }

// NumGroupsB returns the number of type-B groups.
func (s *BlockState) NumGroupsB() int { return s.numGroupsB }

// Epsilon returns the proposal mixing parameter.
func (s *BlockState) Epsilon() float64 { return s.epsilon }

// Membership returns the current group of v.
func (s *BlockState) Membership(v int) int { return s.memberships[v] }

// Memberships returns a copy of the membership vector.
func (s *BlockState) Memberships() []int {
	out := make([]int, len(s.memberships))
	copy(out, s.memberships)
	return out
}

// GroupSize returns n[r].
func (s *BlockState) GroupSize(r int) int { return s.n[r] }

// M returns m[r][s].
func (s *BlockState) M(r, c int) int { return s.m[r][c] }

// MR returns mr[r].
func (s *BlockState) MR(r int) int { return s.mr[r] }

// KRow returns vertex v's group-degree profile. The slice is owned by
// the state and must not be modified.
func (s *BlockState) KRow(v int) []int { return s.k[v] }

// DegreeCorrection returns the constant degree-sequence entropy term.
func (s *BlockState) DegreeCorrection() float64 { return s.degreeCorrection }
