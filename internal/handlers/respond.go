package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/hrdesk/internal/apperrors"
)

const maxBodyBytes = 1 << 20

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error.Printf("Failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

// writeError reports err with the status of its kind. Causes are logged, never sent.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := apperrors.StatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Debug.Printf("%s %s rejected: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	logger.Debug.Printf("Received request body: %s", string(body))

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, apperrors.Validation("Invalid " + name)
	}
	return id, nil
}
