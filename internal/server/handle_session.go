package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/geo"
	"github.com/playperu/geohunt/internal/hunt"
	"github.com/playperu/geohunt/internal/position"
	"github.com/playperu/geohunt/internal/verify"
)

// StartSessionRequest is the request body for POST /session/start.
type StartSessionRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// CollectRequest is the request body for POST /session/collect. Either
// Answer or Image is set; Image is raw base64 or a data URL and must show
// the checkpoint's subject.
type CollectRequest struct {
	CheckpointID int64  `json:"checkpointId"`
	Answer       string `json:"answer,omitempty"`
	Image        string `json:"image,omitempty"`
	MediaType    string `json:"mediaType,omitempty"`
}

type CollectResponse struct {
	Outcome      hunt.Outcome    `json:"outcome"`
	CheckpointID int64           `json:"checkpointId"`
	Awarded      int             `json:"awarded"`
	Correct      bool            `json:"correct"`
	Confidence   float64         `json:"confidence,omitempty"`
	Feedback     string          `json:"feedback,omitempty"`
	Session      SessionResponse `json:"session"`
}

// observerFromQuery reads optional lat/lng query parameters. Both absent
// means the caller did not send a position.
func observerFromQuery(r *http.Request) (*geo.Coordinate, error) {
	q := r.URL.Query()
	rawLat, rawLng := q.Get("lat"), q.Get("lng")
	if rawLat == "" && rawLng == "" {
		return nil, nil
	}
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil {
		return nil, apperr.InvalidInput("lat", "must be a number")
	}
	lng, err := strconv.ParseFloat(rawLng, 64)
	if err != nil {
		return nil, apperr.InvalidInput("lng", "must be a number")
	}
	c := geo.Coordinate{Lat: lat, Lng: lng}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func handleStartSession(logger *slog.Logger, games *Registry, s Store, positions position.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StartSessionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		origin, err := coordinate(req.Lat, req.Lng)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}

		settings, err := s.Settings(r.Context())
		if err != nil {
			writeAppError(w, logger, err)
			return
		}

		player := playerFrom(r)
		sess, err := games.Get(player).Start(r.Context(), origin, settings)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}

		if err := positions.Put(r.Context(), player, position.Fix{Coordinate: origin, At: sess.StartedAt}); err != nil {
			logger.Warn("caching start position failed", "player", player, "error", err)
		}
		writeJSON(w, http.StatusOK, toSessionState(sess, &origin))
	}
}

func handleGetSession(logger *slog.Logger, games *Registry, positions position.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		observer, err := observerFromQuery(r)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}

		player := playerFrom(r)
		if observer == nil {
			fix, ok, err := positions.Get(r.Context(), player)
			if err != nil {
				logger.Warn("loading cached position failed", "player", player, "error", err)
			} else if ok {
				observer = &fix.Coordinate
			}
		}

		writeJSON(w, http.StatusOK, toSessionState(games.Get(player).Snapshot(), observer))
	}
}

func claimFrom(req CollectRequest) (hunt.Claim, error) {
	if req.Image != "" {
		image, mediaType, err := verify.DecodeImage(req.Image)
		if err != nil {
			return nil, apperr.InvalidInput("image", err.Error())
		}
		if req.MediaType != "" {
			mediaType = req.MediaType
		}
		return hunt.PhotoClaim{Image: image, MediaType: mediaType}, nil
	}
	if req.Answer == "" {
		return nil, apperr.InvalidInput("answer", "answer or image is required")
	}
	return hunt.AnswerClaim{Answer: req.Answer}, nil
}

func handleCollect(logger *slog.Logger, games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CollectRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.CheckpointID <= 0 {
			writeAppError(w, logger, apperr.InvalidInput("checkpointId", "is required"))
			return
		}
		claim, err := claimFrom(req)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}

		game, ok := games.Lookup(playerFrom(r))
		if !ok {
			writeAppError(w, logger, hunt.ErrSessionNotActive)
			return
		}
		attempt, err := game.AttemptCollect(r.Context(), req.CheckpointID, claim)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusOK, CollectResponse{
			Outcome:      attempt.Outcome,
			CheckpointID: attempt.CheckpointID,
			Awarded:      attempt.Awarded,
			Correct:      attempt.Verdict.Correct,
			Confidence:   attempt.Verdict.Confidence,
			Feedback:     attempt.Verdict.Feedback,
			Session:      toSessionResponse(attempt.Session),
		})
	}
}

func handleCloseSession(games *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := games.Get(playerFrom(r)).Close()
		writeJSON(w, http.StatusOK, toSessionResponse(sess))
	}
}
