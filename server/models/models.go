package models

import (
	"time"

	"github.com/mkarlsen/bisbm-service/pkg/bigraph"
)

// Dataset is an uploaded bipartite graph.
type Dataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	NumTypeA  int       `json:"num_type_a"`
	NumTypeB  int       `json:"num_type_b"`
	NumEdges  int       `json:"num_edges"`
	CreatedAt time.Time `json:"created_at"`

	Graph *bigraph.Graph `json:"-"`
}

// JobStatus is the lifecycle state of an inference job.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobParameters are the annealing knobs, mirroring the CLI surface.
type JobParameters struct {
	GroupsA         int       `json:"groups_a"`
	GroupsB         int       `json:"groups_b"`
	Epsilon         float64   `json:"epsilon"`
	Duration        int       `json:"duration"`
	StepsAwait      int       `json:"steps_await"`
	CoolingSchedule string    `json:"cooling_schedule"`
	CoolingKwargs   []float64 `json:"cooling_kwargs,omitempty"`
	Seed            *int64    `json:"seed,omitempty"`
	Randomize       bool      `json:"randomize"`
}

// JobProgress reports coarse progress to pollers.
type JobProgress struct {
	Percentage int    `json:"percentage"`
	Message    string `json:"message"`
}

// JobResult is the summary stored on the job once it completes; the
// full membership vector is served by the result endpoint.
type JobResult struct {
	Entropy        float64 `json:"entropy"`
	AcceptanceRate float64 `json:"acceptance_rate"`
	Sweeps         int     `json:"sweeps"`
	Converged      bool    `json:"converged"`
}

// Job is a background annealing run over a dataset.
type Job struct {
	ID          string        `json:"id"`
	DatasetID   string        `json:"dataset_id"`
	Parameters  JobParameters `json:"parameters"`
	Status      JobStatus     `json:"status"`
	Progress    JobProgress   `json:"progress"`
	Error       string        `json:"error,omitempty"`
	Result      *JobResult    `json:"result,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
	StartedAt   *time.Time    `json:"started_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}

// Comparison is the NMI agreement between two completed jobs.
type Comparison struct {
	JobA string  `json:"job_a"`
	JobB string  `json:"job_b"`
	NMI  float64 `json:"nmi"`
}
