package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusCode)
//  3. Error is mapped via mapError to get user-friendly message
//  4. Technical error + context is logged with request ID for correlation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/schedfoundation/xerimport/internal/xer"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// mapError translates an internal error into a client-facing response body.
func mapError(err error) ErrorResponse {
	switch {
	case errors.Is(err, xer.ErrEmptyFile):
		return ErrorResponse{
			Message: "The uploaded file is empty.",
			Action:  "Export the schedule from Primavera P6 again and retry.",
			Code:    "XER_EMPTY_FILE",
		}
	case errors.Is(err, xer.ErrUnreadableFile):
		return ErrorResponse{
			Message: "The file could not be read as an XER schedule export.",
			Action:  "Check that the file is an XER export, not XML or a spreadsheet.",
			Code:    "XER_UNREADABLE",
		}
	default:
		return ErrorResponse{
			Message: "The request could not be completed.",
			Code:    "INTERNAL_ERROR",
		}
	}
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns the mapped response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	resp := mapError(err)
	resp.Error = resp.Message

	// Get request ID for correlation
	requestID := middleware.GetReqID(r.Context())

	// Log the technical error with context
	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", resp.Code,
		"request_id", requestID,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

// statusForError picks the HTTP status for an import failure.
func statusForError(err error) int {
	if errors.Is(err, xer.ErrEmptyFile) || errors.Is(err, xer.ErrUnreadableFile) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
