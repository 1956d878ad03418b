package helpers

import (
	"encoding/json"
	"net/http"
)

// Error codes for API error responses. Use these with WriteJSONError.
const (
	ErrCodeBadRequest          = "bad_request"
	ErrCodeNotFound            = "not_found"
	ErrCodeConflict            = "conflict"
	ErrCodeUnprocessableEntity = "unprocessable_entity"
	ErrCodeInternalError       = "internal_error"
	ErrCodeUnavailable         = "service_unavailable"
)

// ErrorResponse is the body of every non-2xx API response.
// swagger:model ErrorResponse
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// MessageResponse is the body of successful roster mutations.
// swagger:model MessageResponse
type MessageResponse struct {
	Message string `json:"message"`
}

// WriteJSON sets Content-Type to application/json, writes statusCode, and encodes v.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteJSONMessage writes a MessageResponse with the given status.
func WriteJSONMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, MessageResponse{Message: message})
}

// WriteJSONError writes an ErrorResponse with the given status, code and human-readable detail.
func WriteJSONError(w http.ResponseWriter, statusCode int, code, detail string) {
	WriteJSON(w, statusCode, ErrorResponse{Detail: detail, Code: code})
}
