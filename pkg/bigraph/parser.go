package bigraph

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadEdgeList reads whitespace-separated vertex id pairs, one
// undirected edge per non-empty line, zero-indexed.
func LoadEdgeList(path string) ([]Edge, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge list: %w", err)
	}
	defer file.Close()

	var edges []Edge
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected two vertex ids, got %q", lineNum, scanner.Text())
		}
		u, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid vertex id %q", lineNum, fields[0])
		}
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid vertex id %q", lineNum, fields[1])
		}
		edges = append(edges, Edge{U: u, V: v})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read edge list: %w", err)
	}
	if len(edges) == 0 {
		return nil, fmt.Errorf("edge list %s is empty", path)
	}

	return edges, nil
}

// LoadMemberships reads one integer group id per line, in vertex order.
func LoadMemberships(path string) ([]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open membership file: %w", err)
	}
	defer file.Close()

	var memberships []int
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		mb, err := strconv.Atoi(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid group id %q", lineNum, text)
		}
		if mb < 0 {
			return nil, fmt.Errorf("line %d: negative group id %d", lineNum, mb)
		}
		memberships = append(memberships, mb)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read membership file: %w", err)
	}
	if len(memberships) == 0 {
		return nil, fmt.Errorf("membership file %s is empty", path)
	}

	return memberships, nil
}

// TypesFromSizes expands per-side vertex counts into a type vector:
// the first na vertices are type A, the next nb are type B.
func TypesFromSizes(na, nb int) []VertexType {
	types := make([]VertexType, na+nb)
	for i := na; i < na+nb; i++ {
		types[i] = TypeB
	}
	return types
}

// MembershipsFromSizes expands per-group vertex counts into an initial
// membership vector: the first sizes[0] vertices belong to group 0, and
// so on.
func MembershipsFromSizes(sizes []int) []int {
	total := 0
	for _, s := range sizes {
		total += s
	}
	memberships := make([]int, total)
	shift := 0
	for r, s := range sizes {
		for i := 0; i < s; i++ {
			memberships[shift+i] = r
		}
		shift += s
	}
	return memberships
}
