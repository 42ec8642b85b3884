package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/hunt"
)

func TestWriteAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   ErrorResponse
	}{
		{"invalid input", apperr.InvalidInput("lat", "must be between -90 and 90"), http.StatusBadRequest, ErrorResponse{Error: "must be between -90 and 90", Field: "lat"}},
		{"not found", apperr.NotFound("question", 7), http.StatusNotFound, ErrorResponse{Error: "question not found: 7"}},
		{"conflict", hunt.ErrSessionActive, http.StatusConflict, ErrorResponse{Error: "session already active"}},
		{"wrapped", fmt.Errorf("starting: %w", hunt.ErrSessionNotActive), http.StatusConflict, ErrorResponse{Error: "session is not active"}},
		{"internal", apperr.Internal(errors.New("disk full")), http.StatusInternalServerError, ErrorResponse{Error: "internal error"}},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, ErrorResponse{Error: "internal error"}},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeAppError(rec, logger, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if body != tt.wantBody {
				t.Errorf("body = %+v, want %+v", body, tt.wantBody)
			}
		})
	}
}
