package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mkarlsen/bisbm-service/server/models"
	"github.com/mkarlsen/bisbm-service/server/service"
	"github.com/mkarlsen/bisbm-service/server/utils"
)

// Handlers bundles the API endpoints with their services.
type Handlers struct {
	datasets *service.DatasetService
	jobs     *service.JobService
}

// NewHandlers creates the handler set.
func NewHandlers(datasets *service.DatasetService, jobs *service.JobService) *Handlers {
	return &Handlers{datasets: datasets, jobs: jobs}
}

type uploadDatasetRequest struct {
	Name     string `json:"name"`
	EdgeList string `json:"edge_list"`
	NumTypeA int    `json:"num_type_a"`
	NumTypeB int    `json:"num_type_b"`
}

// UploadDataset stores a new bipartite edge list.
func (h *Handlers) UploadDataset(w http.ResponseWriter, r *http.Request) {
	var req uploadDatasetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	dataset, err := h.datasets.Upload(req.Name, req.EdgeList, req.NumTypeA, req.NumTypeB)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, dataset)
}

// ListDatasets returns all datasets.
func (h *Handlers) ListDatasets(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.datasets.List())
}

// GetDataset returns a single dataset.
func (h *Handlers) GetDataset(w http.ResponseWriter, r *http.Request) {
	dataset, err := h.datasets.Get(mux.Vars(r)["datasetId"])
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, dataset)
}

// DeleteDataset removes a dataset.
func (h *Handlers) DeleteDataset(w http.ResponseWriter, r *http.Request) {
	if err := h.datasets.Delete(mux.Vars(r)["datasetId"]); err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, nil)
}

// SubmitJob queues an annealing job on a dataset.
func (h *Handlers) SubmitJob(w http.ResponseWriter, r *http.Request) {
	var params models.JobParameters
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	job, err := h.jobs.Submit(mux.Vars(r)["datasetId"], params)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusAccepted, job)
}

// ListJobs returns all jobs for a dataset.
func (h *Handlers) ListJobs(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.jobs.List(mux.Vars(r)["datasetId"]))
}

// GetJob returns job status and progress.
func (h *Handlers) GetJob(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(mux.Vars(r)["jobId"])
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, job)
}

// GetJobResult returns the full result of a completed job, including
// the membership vector.
func (h *Handlers) GetJobResult(w http.ResponseWriter, r *http.Request) {
	result, err := h.jobs.GetResult(mux.Vars(r)["jobId"])
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// CancelJob cancels a queued or running job.
func (h *Handlers) CancelJob(w http.ResponseWriter, r *http.Request) {
	if err := h.jobs.Cancel(mux.Vars(r)["jobId"]); err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, nil)
}

// CompareJobs returns the NMI agreement between two completed jobs.
func (h *Handlers) CompareJobs(w http.ResponseWriter, r *http.Request) {
	jobA := r.URL.Query().Get("jobA")
	jobB := r.URL.Query().Get("jobB")
	if jobA == "" || jobB == "" {
		utils.WriteError(w, http.StatusBadRequest, "jobA and jobB query parameters are required")
		return
	}

	comparison, err := h.jobs.Compare(jobA, jobB)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, comparison)
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
