package api

import (
	"encoding/json"
	"net/http"

	"github.com/mauriceverhoeven/zoneos/internal/apperrors"
)

// ErrorResponse is the flat error body: {"error": "<message>"}.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the body for successful action endpoints.
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WriteJSON sends a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// WriteError serializes any error into the flat error body using the
// AppError status code.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.EnsureAppError(err)
	_ = WriteJSON(w, appErr.StatusCode, ErrorResponse{Error: appErr.Message})
}

// WriteOK writes the {"status":"ok","message":...} action response.
func WriteOK(w http.ResponseWriter, message string) error {
	return WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok", Message: message})
}
