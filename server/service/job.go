package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mkarlsen/bisbm-service/pkg/bigraph"
	"github.com/mkarlsen/bisbm-service/pkg/bisbm"
	"github.com/mkarlsen/bisbm-service/server/models"
)

// JobService runs annealing jobs in the background. Each job owns its
// own block state and seeded RNG; the MCMC itself stays single
// threaded, concurrency lives only at the job level.
type JobService struct {
	jobs            map[string]*models.Job
	results         map[string]*bisbm.Result
	workers         chan struct{}
	datasetService  *DatasetService
	mutex           sync.RWMutex
	resultTTL       time.Duration
	cleanupInterval time.Duration
}

// NewJobService creates a new job service.
func NewJobService(datasetService *DatasetService, maxWorkers int, resultTTL, cleanupInterval time.Duration) *JobService {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	service := &JobService{
		jobs:            make(map[string]*models.Job),
		results:         make(map[string]*bisbm.Result),
		workers:         make(chan struct{}, maxWorkers),
		datasetService:  datasetService,
		resultTTL:       resultTTL,
		cleanupInterval: cleanupInterval,
	}

	go service.cleanupLoop()

	return service
}

// Submit validates parameters, creates a queued job, and starts
// background processing.
func (s *JobService) Submit(datasetID string, params models.JobParameters) (*models.Job, error) {
	dataset, err := s.datasetService.Get(datasetID)
	if err != nil {
		return nil, err
	}
	if err := validateParameters(dataset, params); err != nil {
		return nil, fmt.Errorf("invalid parameters: %w", err)
	}

	now := time.Now()
	job := &models.Job{
		ID:         uuid.New().String(),
		DatasetID:  datasetID,
		Parameters: params,
		Status:     models.JobStatusQueued,
		Progress:   models.JobProgress{Message: "Queued"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	s.mutex.Lock()
	s.jobs[job.ID] = job
	s.mutex.Unlock()

	log.Info().
		Str("job_id", job.ID).
		Str("dataset_id", datasetID).
		Int("groups_a", params.GroupsA).
		Int("groups_b", params.GroupsB).
		Msg("Job submitted")

	go s.processJob(job.ID)

	return job, nil
}

// Get retrieves a job by ID.
func (s *JobService) Get(jobID string) (*models.Job, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	return job, nil
}

// GetResult retrieves the full annealing result of a completed job.
func (s *JobService) GetResult(jobID string) (*bisbm.Result, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result, exists := s.results[jobID]
	if !exists {
		return nil, fmt.Errorf("result not found for job: %s", jobID)
	}
	return result, nil
}

// List returns all jobs for a dataset.
func (s *JobService) List(datasetID string) []*models.Job {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var jobs []*models.Job
	for _, job := range s.jobs {
		if job.DatasetID == datasetID {
			jobs = append(jobs, job)
		}
	}
	return jobs
}

// Cancel marks a queued job as cancelled. A running annealing loop is
// not interruptible; cancellation of a running job only flags it.
func (s *JobService) Cancel(jobID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if job.Status == models.JobStatusQueued || job.Status == models.JobStatusRunning {
		job.Status = models.JobStatusCancelled
		job.Progress.Message = "Cancelled"
		now := time.Now()
		job.CompletedAt = &now
		job.UpdatedAt = now

		log.Info().Str("job_id", jobID).Msg("Job cancelled")
	}

	return nil
}

// Compare computes the NMI agreement between the memberships of two
// completed jobs.
func (s *JobService) Compare(jobA, jobB string) (*models.Comparison, error) {
	resultA, err := s.GetResult(jobA)
	if err != nil {
		return nil, err
	}
	resultB, err := s.GetResult(jobB)
	if err != nil {
		return nil, err
	}

	nmi, err := bisbm.NormalizedMutualInfo(resultA.Memberships, resultB.Memberships)
	if err != nil {
		return nil, err
	}

	return &models.Comparison{JobA: jobA, JobB: jobB, NMI: nmi}, nil
}

func validateParameters(dataset *models.Dataset, params models.JobParameters) error {
	if params.GroupsA < 1 || params.GroupsB < 1 {
		return fmt.Errorf("need at least one group per side")
	}
	if params.GroupsA > dataset.NumTypeA || params.GroupsB > dataset.NumTypeB {
		return fmt.Errorf("more groups than vertices on a side")
	}
	if params.Epsilon <= 0 {
		return fmt.Errorf("epsilon must be positive")
	}
	if params.Duration < 1 {
		return fmt.Errorf("duration must be at least one sweep")
	}
	if params.StepsAwait < 1 {
		return fmt.Errorf("steps_await must be at least one sweep")
	}
	if params.CoolingSchedule == "" {
		return fmt.Errorf("cooling schedule is required")
	}
	_, err := bisbm.NewSchedule(params.CoolingSchedule, params.CoolingKwargs, params.Duration, params.StepsAwait)
	return err
}

// processJob runs the annealing in the background.
func (s *JobService) processJob(jobID string) {
	s.workers <- struct{}{}
	defer func() { <-s.workers }()

	s.mutex.RLock()
	job, exists := s.jobs[jobID]
	s.mutex.RUnlock()
	if !exists {
		log.Error().Str("job_id", jobID).Msg("Job not found during processing")
		return
	}
	if job.Status == models.JobStatusCancelled {
		return
	}

	startTime := time.Now()
	s.updateJob(jobID, func(j *models.Job) {
		j.Status = models.JobStatusRunning
		j.Progress = models.JobProgress{Percentage: 0, Message: "Annealing"}
		j.StartedAt = &startTime
	})

	dataset, err := s.datasetService.Get(job.DatasetID)
	if err != nil {
		s.failJob(jobID, fmt.Errorf("failed to get dataset: %w", err))
		return
	}

	result, err := runAnnealing(dataset.Graph, job.Parameters)
	if err != nil {
		s.failJob(jobID, err)
		return
	}

	s.mutex.Lock()
	if job, exists := s.jobs[jobID]; exists && job.Status != models.JobStatusCancelled {
		job.Status = models.JobStatusCompleted
		job.Progress = models.JobProgress{Percentage: 100, Message: "Complete"}
		now := time.Now()
		job.CompletedAt = &now
		job.UpdatedAt = now
		job.Result = &models.JobResult{
			Entropy:        result.Entropy,
			AcceptanceRate: result.AcceptanceRate,
			Sweeps:         result.Sweeps,
			Converged:      result.Converged,
		}
		s.results[jobID] = result
	}
	s.mutex.Unlock()

	log.Info().
		Str("job_id", jobID).
		Float64("entropy", result.Entropy).
		Float64("acceptance_rate", result.AcceptanceRate).
		Int("sweeps", result.Sweeps).
		Msg("Job completed")
}

func runAnnealing(graph *bigraph.Graph, params models.JobParameters) (*bisbm.Result, error) {
	sizes := balancedSizes(graph, params.GroupsA, params.GroupsB)

	config := bisbm.NewConfig()
	config.Set("algorithm.epsilon", params.Epsilon)
	config.Set("algorithm.cooling_schedule", params.CoolingSchedule)
	config.Set("algorithm.cooling_kwargs", params.CoolingKwargs)
	config.Set("algorithm.randomize", params.Randomize)
	config.Set("sampling.duration", params.Duration)
	config.Set("sampling.steps_await", params.StepsAwait)
	if params.Seed != nil {
		config.Set("algorithm.seed", *params.Seed)
	}

	return bisbm.Run(graph, bigraph.MembershipsFromSizes(sizes), params.GroupsA, params.GroupsB, config)
}

// balancedSizes spreads each side's vertices as evenly as possible
// over its groups for the initial assignment.
func balancedSizes(graph *bigraph.Graph, groupsA, groupsB int) []int {
	numA := graph.NumType(bigraph.TypeA)
	numB := graph.NumVertices() - numA

	sizes := make([]int, groupsA+groupsB)
	for i := 0; i < groupsA; i++ {
		sizes[i] = numA / groupsA
		if i < numA%groupsA {
			sizes[i]++
		}
	}
	for i := 0; i < groupsB; i++ {
		sizes[groupsA+i] = numB / groupsB
		if i < numB%groupsB {
			sizes[groupsA+i]++
		}
	}
	return sizes
}

func (s *JobService) updateJob(jobID string, apply func(*models.Job)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	job, exists := s.jobs[jobID]
	if !exists {
		return
	}
	apply(job)
	job.UpdatedAt = time.Now()
}

func (s *JobService) failJob(jobID string, err error) {
	s.updateJob(jobID, func(j *models.Job) {
		j.Status = models.JobStatusFailed
		j.Error = err.Error()
		j.Progress.Message = "Failed"
		now := time.Now()
		j.CompletedAt = &now
	})

	log.Error().Str("job_id", jobID).Err(err).Msg("Job failed")
}

func (s *JobService) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		s.cleanup()
	}
}

func (s *JobService) cleanup() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cutoff := time.Now().Add(-s.resultTTL)
	cleaned := 0
	for jobID, job := range s.jobs {
		if job.UpdatedAt.Before(cutoff) {
			delete(s.jobs, jobID)
			delete(s.results, jobID)
			cleaned++
		}
	}

	if cleaned > 0 {
		log.Info().Int("cleaned_jobs", cleaned).Msg("Job cleanup completed")
	}
}
