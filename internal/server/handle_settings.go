package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/geohunt/internal/hunt"
)

func handleGetSettings(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		settings, err := s.Settings(r.Context())
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, settings)
	}
}

func handlePutSettings(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hunt.Settings
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.SaveSettings(r.Context(), req); err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, req)
	}
}
