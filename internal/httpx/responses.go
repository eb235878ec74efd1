package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the envelope written for every failed request. Message is
// repeated at the top level for clients that read it from there.
type ErrorResponse struct {
	Error   ErrorResponseBody `json:"error"`
	Message string            `json:"message"`
}

type ErrorResponseBody struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

// MessageResponse is the envelope for operations that return no record.
type MessageResponse struct {
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func JSONError(w http.ResponseWriter, statusCode int, message string) {
	JSON(w, statusCode, ErrorResponse{
		Error: ErrorResponseBody{
			Message: message,
			Status:  statusCode,
		},
		Message: message,
	})
}

// NotFound answers unmatched routes with the error envelope.
func NotFound(w http.ResponseWriter, r *http.Request) {
	JSONError(w, http.StatusNotFound, "Not Found")
}
