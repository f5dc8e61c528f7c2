package bisbm

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// AffinityMatrix exposes the group-group edge count matrix as a dense
// gonum matrix, for diagnostics and downstream analysis.
func (s *BlockState) AffinityMatrix() *mat.Dense {
	numGroups := s.NumGroups()
	dense := mat.NewDense(numGroups, numGroups, nil)
	for r := 0; r < numGroups; r++ {
		for c := 0; c < numGroups; c++ {
			dense.Set(r, c, float64(s.m[r][c]))
		}
	}
	return dense
}

// FormatAffinityMatrix pretty-prints the affinity matrix.
func (s *BlockState) FormatAffinityMatrix() string {
	return fmt.Sprintf("%v", mat.Formatted(s.AffinityMatrix(), mat.Prefix(""), mat.Squeeze()))
}

// FormatMemberships renders a membership vector as the single
// whitespace-separated line the CLI prints on stdout.
func FormatMemberships(memberships []int) string {
	var b strings.Builder
	for i, mb := range memberships {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%d", mb)
	}
	return b.String()
}

// GroupSizes returns a copy of the n vector.
func (s *BlockState) GroupSizes() []int {
	sizes := make([]int, len(s.n))
	copy(sizes, s.n)
	return sizes
}
