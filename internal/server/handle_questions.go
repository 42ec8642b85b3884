package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/hunt"
	"github.com/playperu/geohunt/internal/store"
)

// QuestionRequest is the request body for POST /api/admin/questions.
type QuestionRequest struct {
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Options    []string        `json:"options"`
	Points     *int            `json:"points"`
	Difficulty hunt.Difficulty `json:"difficulty"`
	Subject    string          `json:"subject,omitempty"`
}

func toAdminQuestionResponse(q hunt.Question) AdminQuestionResponse {
	return AdminQuestionResponse{QuestionResponse: toQuestionResponse(q), Answer: q.Answer, Subject: q.Subject}
}

func questionIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.InvalidInput("id", "must be a positive integer")
	}
	return id, nil
}

func questionFilter(r *http.Request) (store.QuestionFilter, error) {
	var f store.QuestionFilter
	q := r.URL.Query()
	f.Difficulty = hunt.Difficulty(q.Get("difficulty"))
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return f, apperr.InvalidInput("limit", "must be a positive integer")
		}
		f.Limit = n
	}
	return f, nil
}

func handleListQuestions(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := questionFilter(r)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		questions, err := s.ListQuestions(r.Context(), filter)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		resp := make([]QuestionResponse, 0, len(questions))
		for _, q := range questions {
			resp = append(resp, toQuestionResponse(q))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleGetQuestion(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := questionIDParam(r)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		q, err := s.Question(r.Context(), id)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, toQuestionResponse(q))
	}
}

func handleAdminListQuestions(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := questionFilter(r)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		questions, err := s.ListQuestions(r.Context(), filter)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		resp := make([]AdminQuestionResponse, 0, len(questions))
		for _, q := range questions {
			resp = append(resp, toAdminQuestionResponse(q))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleAdminCreateQuestion(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req QuestionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		q := hunt.Question{
			Prompt:     req.Question,
			Answer:     req.Answer,
			Options:    req.Options,
			Points:     10,
			Difficulty: req.Difficulty,
			Subject:    req.Subject,
		}
		if req.Points != nil {
			q.Points = *req.Points
		}
		if err := s.CreateQuestion(r.Context(), &q); err != nil {
			writeAppError(w, logger, err)
			return
		}

		logger.Info("question created", "question_id", q.ID, "admin", adminFrom(r).Email)
		writeJSON(w, http.StatusCreated, toAdminQuestionResponse(q))
	}
}

func handleAdminDeleteQuestion(logger *slog.Logger, s Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := questionIDParam(r)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		if err := s.DeleteQuestion(r.Context(), id); err != nil {
			writeAppError(w, logger, err)
			return
		}
		logger.Info("question deleted", "question_id", id, "admin", adminFrom(r).Email)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
