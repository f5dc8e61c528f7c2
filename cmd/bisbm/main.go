// Command bisbm fits a degree-corrected bipartite stochastic block
// model by simulated annealing and prints the maximum-a-posteriori
// memberships on stdout, one whitespace-separated line. Diagnostics go
// to stderr.
//
// Vertex ids are zero-indexed contiguous integers; group memberships
// are zero-indexed contiguous integers; the graph is undirected and
// simple.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkarlsen/bisbm-service/pkg/bigraph"
	"github.com/mkarlsen/bisbm-service/pkg/bisbm"
)

// intList is a flag value accepting space- or comma-separated integers,
// e.g. -n "30 70" or -n 30,70.
type intList []int

func (l *intList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, " ")
}

func (l *intList) Set(value string) error {
	for _, field := range strings.FieldsFunc(value, func(r rune) bool { return r == ' ' || r == ',' }) {
		v, err := strconv.Atoi(field)
		if err != nil {
			return fmt.Errorf("invalid integer %q", field)
		}
		*l = append(*l, v)
	}
	return nil
}

// floatList is the float counterpart of intList.
type floatList []float64

func (l *floatList) String() string {
	parts := make([]string, len(*l))
	for i, v := range *l {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, " ")
}

func (l *floatList) Set(value string) error {
	for _, field := range strings.FieldsFunc(value, func(r rune) bool { return r == ' ' || r == ',' }) {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q", field)
		}
		*l = append(*l, v)
	}
	return nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("bisbm", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	edgeListPath := fs.String("e", "", "Path to edge list file.")
	membershipPath := fs.String("membership_path", "", "Path to membership file.")
	var blockSizes intList
	fs.Var(&blockSizes, "n", "Block sizes vector.")
	var typeSizes intList
	fs.Var(&typeSizes, "y", "Type sizes vector; exactly two values.")
	var groupCounts intList
	fs.Var(&groupCounts, "z", "Number of groups to infer per side; two values.")
	burnIn := fs.Int("b", 1000, "Burn-in time. Unused in maximize mode.")
	duration := fs.Int("t", 1000, "Number of annealing sweeps.")
	frequency := fs.Int("f", 10, "Sampling frequency. Unused in maximize mode.")
	stepsAwait := fs.Int("x", 1000, "Stop after this many successive sweeps without a change in the entropy extremes.")
	epsilon := fs.Float64("E", 1.0, "Epsilon for faster vertex proposal moves (Tiago Peixoto's prescription).")
	schedule := fs.String("c", "abrupt_cool", "Cooling schedule: exponential, linear, logarithmic, constant, abrupt_cool.")
	var kwargs floatList
	fs.Var(&kwargs, "a", "Cooling schedule kwargs as a list of floats.")
	maximize := fs.Bool("m", false, "Maximize likelihood instead of marginalizing.")
	randomize := fs.Bool("r", false, "Randomize initial block state.")
	seed := fs.Int64("d", 0, "Seed of the pseudo random number generator. Clock-derived when omitted.")
	logLevel := fs.String("log_level", "info", "Log level for stderr diagnostics.")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	epsilonSet, seeded := false, false
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "E":
			epsilonSet = true
		case "d":
			seeded = true
		}
	})

	config := bisbm.NewConfig()
	config.Set("logging.level", *logLevel)
	logger := config.CreateLogger()

	if !*maximize {
		logger.Error().Msg("only likelihood maximization is implemented; pass -m")
		return 1
	}
	if *edgeListPath == "" {
		logger.Error().Msg("edge_list_path is required (-e flag)")
		return 1
	}
	if len(typeSizes) != 2 {
		logger.Error().Msg("number of types must be equal to 2 (-y flag)")
		return 1
	}
	if !epsilonSet {
		logger.Error().Msg("an epsilon param is required (-E flag); for naive proposals assign a large value, e.g. -E 10000")
		return 1
	}
	if *epsilon <= 0 {
		logger.Error().Float64("epsilon", *epsilon).Msg("epsilon must be positive (-E flag)")
		return 1
	}

	if !seeded {
		*seed = time.Now().UnixNano()
	}

	numTypeA, numTypeB := typeSizes[0], typeSizes[1]
	numVertices := numTypeA + numTypeB

	memberships, sizes, counts, shuffled, err := resolveInitialState(
		logger, *membershipPath, blockSizes, groupCounts, numTypeA, numVertices, *randomize)
	if err != nil {
		logger.Error().Err(err).Msg("invalid initial state configuration")
		return 1
	}

	edges, err := bigraph.LoadEdgeList(*edgeListPath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load edge list")
		return 1
	}
	graph, err := bigraph.NewFromEdgeList(edges, bigraph.TypesFromSizes(numTypeA, numTypeB))
	if err != nil {
		logger.Error().Err(err).Msg("failed to build graph")
		return 1
	}

	strategy, err := bisbm.NewStrategy(bisbm.StrategyTiago)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build proposal strategy")
		return 1
	}
	cooling, err := bisbm.NewSchedule(*schedule, kwargs, *duration, *stepsAwait)
	if err != nil {
		logger.Error().Err(err).Msg("invalid cooling schedule")
		return 1
	}

	state, err := bisbm.NewBlockState(graph, memberships, counts[0], counts[1], *epsilon, nil)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build block state")
		return 1
	}

	rng := rand.New(rand.NewSource(*seed))
	if shuffled {
		state.ShuffleWithinTypes(rng)
	}

	logParameters(logger, *edgeListPath, state, sizes, typeSizes, counts,
		*burnIn, *duration, *frequency, *stepsAwait, *epsilon, shuffled, *schedule, kwargs, *seed)

	annealer := bisbm.NewAnnealer(strategy, cooling, *duration, *stepsAwait, logger)
	result := annealer.Run(state, rng)

	fmt.Println(bisbm.FormatMemberships(result.Memberships))
	logger.Info().Float64("acceptance_rate", result.AcceptanceRate).Msg("done")
	return 0
}

// resolveInitialState builds the initial membership vector, the group
// sizes, and the per-side group counts. A readable membership file
// wins and disables shuffling; otherwise the -n and -z vectors are
// required.
func resolveInitialState(logger zerolog.Logger, membershipPath string, blockSizes, groupCounts intList, numTypeA, numVertices int, randomize bool) (memberships []int, sizes []int, counts [2]int, shuffled bool, err error) {
	if membershipPath != "" {
		loaded, loadErr := bigraph.LoadMemberships(membershipPath)
		if loadErr == nil {
			if len(loaded) != numVertices {
				return nil, nil, counts, false, fmt.Errorf("membership file has %d entries for %d vertices", len(loaded), numVertices)
			}
			maxA, maxAll := 0, 0
			for v, mb := range loaded {
				if v < numTypeA && mb > maxA {
					maxA = mb
				}
				if mb > maxAll {
					maxAll = mb
				}
			}
			counts[0] = maxA + 1
			counts[1] = maxAll - maxA
			sizes = make([]int, counts[0]+counts[1])
			for _, mb := range loaded {
				if mb >= len(sizes) {
					return nil, nil, counts, false, fmt.Errorf("membership %d outside derived group range %d", mb, len(sizes))
				}
				sizes[mb]++
			}
			logger.Info().Str("path", membershipPath).Msg("read initial memberships from file")
			return loaded, sizes, counts, false, nil
		}
		logger.Warn().Err(loadErr).Msg("error loading memberships; falling back to block sizes")
	}

	if len(blockSizes) == 0 {
		return nil, nil, counts, false, fmt.Errorf("block sizes are required (-n flag)")
	}
	if len(groupCounts) != 2 {
		return nil, nil, counts, false, fmt.Errorf("number of groups per side is required (-z flag, two values)")
	}
	counts[0], counts[1] = groupCounts[0], groupCounts[1]
	if len(blockSizes) != counts[0]+counts[1] {
		return nil, nil, counts, false, fmt.Errorf("got %d block sizes for %d groups", len(blockSizes), counts[0]+counts[1])
	}
	total := 0
	for _, s := range blockSizes {
		total += s
	}
	if total != numVertices {
		return nil, nil, counts, false, fmt.Errorf("block sizes sum to %d but types sum to %d", total, numVertices)
	}

	return bigraph.MembershipsFromSizes(blockSizes), blockSizes, counts, randomize, nil
}

func logParameters(logger zerolog.Logger, edgeListPath string, state *bisbm.BlockState, sizes []int, typeSizes intList, counts [2]int, burnIn, duration, frequency, stepsAwait int, epsilon float64, randomize bool, schedule string, kwargs floatList, seed int64) {
	logger.Info().Str("edge_list_path", edgeListPath).Msg("input")
	logger.Info().Msgf("initial affinity matrix:\n%s", state.FormatAffinityMatrix())
	logger.Info().
		Ints("sizes", sizes).
		Int("burn_in", burnIn).
		Int("sampling_steps", duration).
		Int("sampling_frequency", frequency).
		Int("steps_await", stepsAwait).
		Float64("epsilon", epsilon).
		Bool("randomize", randomize).
		Ints("num_vertice_types", typeSizes).
		Ints("multipartite_blocks", counts[:]).
		Str("cooling_schedule", schedule).
		Floats64("cooling_schedule_kwargs", kwargs).
		Int64("seed", seed).
		Msg("parameters")
}
