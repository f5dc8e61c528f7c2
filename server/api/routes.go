package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes registers the REST surface.
func SetupRoutes(router *mux.Router, handlers *Handlers) {
	api := router.PathPrefix("/api/v1").Subrouter()

	datasets := api.PathPrefix("/datasets").Subrouter()
	datasets.HandleFunc("", handlers.ListDatasets).Methods("GET")
	datasets.HandleFunc("", handlers.UploadDataset).Methods("POST")
	datasets.HandleFunc("/{datasetId}", handlers.GetDataset).Methods("GET")
	datasets.HandleFunc("/{datasetId}", handlers.DeleteDataset).Methods("DELETE")

	jobs := datasets.PathPrefix("/{datasetId}/jobs").Subrouter()
	jobs.HandleFunc("", handlers.ListJobs).Methods("GET")
	jobs.HandleFunc("", handlers.SubmitJob).Methods("POST")

	api.HandleFunc("/jobs/{jobId}", handlers.GetJob).Methods("GET")
	api.HandleFunc("/jobs/{jobId}", handlers.CancelJob).Methods("DELETE")
	api.HandleFunc("/jobs/{jobId}/result", handlers.GetJobResult).Methods("GET")

	api.HandleFunc("/comparisons", handlers.CompareJobs).Methods("GET")

	api.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
}
