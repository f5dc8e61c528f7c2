package bisbm

// Move describes a single-vertex group change proposed by a strategy.
// Source is the vertex's group at proposal time; Target may equal
// Source, in which case an accepted move is a no-op.
type Move struct {
	Vertex int
	Source int
	Target int
}

// Result is the output of an annealing run.
type Result struct {
	Memberships    []int   `json:"memberships"`
	Entropy        float64 `json:"entropy"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	Sweeps         int     `json:"sweeps"`
	Converged      bool    `json:"converged"`
	Statistics     Stats   `json:"statistics"`
}

// Stats contains run performance counters.
type Stats struct {
	Attempted      int     `json:"attempted"`
	Accepted       int     `json:"accepted"`
	EntropyMin     float64 `json:"entropy_min"`
	EntropyMax     float64 `json:"entropy_max"`
	InitialEntropy float64 `json:"initial_entropy"`
	RuntimeMS      int64   `json:"runtime_ms"`
}
