package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/playperu/geohunt/internal/apperr"
)

// ErrorResponse is returned for all error responses. Field names the
// offending request field for validation errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// appErrorResponse maps err to a status and body by its apperr code. It
// reports false for errors that are not client-facing.
func appErrorResponse(err error) (int, ErrorResponse, bool) {
	ae, ok := apperr.As(err)
	if !ok || ae.Code == apperr.CodeInternal {
		return http.StatusInternalServerError, ErrorResponse{}, false
	}

	status := http.StatusInternalServerError
	switch ae.Code {
	case apperr.CodeInvalidInput:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeConflict:
		status = http.StatusConflict
	}
	return status, ErrorResponse{Error: ae.Message, Field: ae.Field}, true
}

// writeAppError writes err as an ErrorResponse. Anything that is not a
// client-facing *apperr.Error is logged and reported as a bare 500.
func writeAppError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status, resp, ok := appErrorResponse(err)
	if !ok {
		logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, status, resp)
}
