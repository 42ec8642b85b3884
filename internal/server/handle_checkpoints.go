package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/hunt"
)

// CustomCheckpointRequest is the request body for POST /api/checkpoints/custom.
type CustomCheckpointRequest struct {
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
	QuestionID *int64   `json:"questionId"`
}

type CustomCheckpointResponse struct {
	ID         int64   `json:"id"`
	Lat        float64 `json:"lat"`
	Lng        float64 `json:"lng"`
	QuestionID int64   `json:"questionId"`
	Question   string  `json:"question"`
}

func toCustomCheckpointResponse(c hunt.CustomCheckpoint) CustomCheckpointResponse {
	return CustomCheckpointResponse{
		ID:         c.ID,
		Lat:        c.Position.Lat,
		Lng:        c.Position.Lng,
		QuestionID: c.Question.ID,
		Question:   c.Question.Prompt,
	}
}

func handleCreateCustomCheckpoint(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CustomCheckpointRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		pos, err := coordinate(req.Lat, req.Lng)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		if req.QuestionID == nil || *req.QuestionID <= 0 {
			writeAppError(w, logger, apperr.InvalidInput("questionId", "must be a positive integer"))
			return
		}

		c, err := s.CreateCustomCheckpoint(r.Context(), *req.QuestionID, pos)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, toCustomCheckpointResponse(c))
	}
}

func handleListCustomCheckpoints(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.CustomCheckpoints(r.Context())
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		resp := make([]CustomCheckpointResponse, 0, len(all))
		for _, c := range all {
			resp = append(resp, toCustomCheckpointResponse(c))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleAdminDeleteCustomCheckpoint(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := questionIDParam(r)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		if err := s.DeleteCustomCheckpoint(r.Context(), id); err != nil {
			writeAppError(w, logger, err)
			return
		}
		logger.Info("custom checkpoint deleted", "checkpoint_id", id, "admin", adminFrom(r).Email)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
