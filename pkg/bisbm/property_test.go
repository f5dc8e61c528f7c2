package bisbm

import (
	"math"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// randomScenario builds a random bipartite graph and a valid block
// state from a seed, so each property draw explores a fresh instance.
func randomScenario(seed int64) (*BlockState, *rand.Rand, error) {
	rng := rand.New(rand.NewSource(seed))
	numA := 2 + rng.Intn(7)
	numB := 2 + rng.Intn(7)
	graph, err := randomBipartiteGraph(rng, numA, numB)
	if err != nil {
		return nil, nil, err
	}
	groupsA := 1 + rng.Intn(numA)
	groupsB := 1 + rng.Intn(numB)
	st, err := NewBlockState(graph, randomMemberships(rng, graph, groupsA, groupsB), groupsA, groupsB, 0.5+rng.Float64(), nil)
	if err != nil {
		return nil, nil, err
	}
	return st, rng, nil
}

// TestBlockStateProperties verifies the state invariants over random
// graphs, partitions, and move sequences.
func TestBlockStateProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50

	properties := gopter.NewProperties(parameters)

	properties.Property("incremental tensors never drift from a rebuild", prop.ForAll(
		func(seed int64) bool {
			st, rng, err := randomScenario(seed)
			if err != nil {
				return false
			}
			for i := 0; i < 2*st.Graph().NumVertices(); i++ {
				st.ApplyMove(randomSideMove(rng, st))
			}
			fresh, err := NewBlockState(st.Graph(), st.Memberships(), st.NumGroupsA(), st.NumGroupsB(), st.Epsilon(), nil)
			if err != nil {
				return false
			}
			return snapshot(st).equal(snapshot(fresh))
		},
		gen.Int64(),
	))

	properties.Property("accepted moves are exactly reversible", prop.ForAll(
		func(seed int64) bool {
			st, rng, err := randomScenario(seed)
			if err != nil {
				return false
			}
			for i := 0; i < 20; i++ {
				mv := randomSideMove(rng, st)
				before := snapshot(st)
				if !st.ApplyMove(mv) {
					continue
				}
				if !st.ApplyMove(Move{Vertex: mv.Vertex, Source: mv.Target, Target: mv.Source}) {
					return false
				}
				if !before.equal(snapshot(st)) {
					return false
				}
				st.ApplyMove(mv) // walk on from the moved state
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("entropy delta agrees with recomputation", prop.ForAll(
		func(seed int64) bool {
			st, rng, err := randomScenario(seed)
			if err != nil {
				return false
			}
			strategy := &TiagoStrategy{}
			entropy := st.Entropy()
			for i := 0; i < 50; i++ {
				mv := strategy.Propose(st, rng)
				deltaS, _ := strategy.Evaluate(st, mv)
				if !st.ApplyMove(mv) {
					continue
				}
				entropy += deltaS
				recomputed := st.Entropy()
				if math.Abs(entropy-recomputed) > 1e-9*(1+math.Abs(recomputed)) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.Property("group sizes stay positive", prop.ForAll(
		func(seed int64) bool {
			st, rng, err := randomScenario(seed)
			if err != nil {
				return false
			}
			for i := 0; i < 100; i++ {
				st.ApplyMove(randomSideMove(rng, st))
			}
			for r := 0; r < st.NumGroups(); r++ {
				if st.GroupSize(r) < 1 {
					return false
				}
			}
			return true
		},
		gen.Int64(),
	))

	properties.TestingRun(t)
}
