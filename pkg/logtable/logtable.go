package logtable

import "math"

// Table caches log(n) and log(n!) for integer arguments up to a fixed
// bound, so that entropy terms in the MCMC inner loop are plain slice
// lookups. The bound should be at least 2E for a graph with E edges,
// since no cell of the affinity matrix can exceed the total stub count.
type Table struct {
	logs     []float64
	logFacts []float64
}

// New creates a table covering arguments 0..maxArg inclusive.
func New(maxArg int) *Table {
	if maxArg < 1 {
		maxArg = 1
	}

	t := &Table{
		logs:     make([]float64, maxArg+1),
		logFacts: make([]float64, maxArg+1),
	}

	// logs[0] stays 0: safe_log(0) = 0 by convention. Every place it is
	// consulted multiplies it by a zero coefficient.
	for i := 2; i <= maxArg; i++ {
		t.logs[i] = math.Log(float64(i))
		t.logFacts[i] = t.logFacts[i-1] + t.logs[i]
	}

	return t
}

// MaxArg returns the largest cached argument.
func (t *Table) MaxArg() int {
	return len(t.logs) - 1
}

// Log returns log(max(n, 1)). Arguments beyond the cached range fall
// back to direct computation.
func (t *Table) Log(n int) float64 {
	if n < len(t.logs) {
		if n < 0 {
			return 0
		}
		return t.logs[n]
	}
	return math.Log(float64(n))
}

// LogFact returns log(n!) = sum of log(i) for i in 1..n. Arguments
// beyond the cached range fall back to the log-gamma function.
func (t *Table) LogFact(n int) float64 {
	if n < len(t.logFacts) {
		if n < 0 {
			return 0
		}
		return t.logFacts[n]
	}
	lg, _ := math.Lgamma(float64(n) + 1)
	return lg
}

// XLogX returns n*log(n), with 0*log(0) = 0.
func (t *Table) XLogX(n int) float64 {
	return float64(n) * t.Log(n)
}
