package utils

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// APIResponse is the uniform envelope for all endpoints.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// WriteJSON writes a success response.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data}); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIResponse{Success: false, Error: message}); err != nil {
		log.Error().Err(err).Msg("Failed to encode error response")
	}
}
