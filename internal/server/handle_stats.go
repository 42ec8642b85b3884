package server

import (
	"log/slog"
	"net/http"
	"time"
)

func handleStats(logger *slog.Logger, s Store, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := s.Stats(r.Context(), playerFrom(r), now())
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}
