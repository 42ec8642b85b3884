package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"

	"github.com/playperu/geohunt/internal/position"
)

// PositionRequest is a position fix sent by the client, either as the body
// of PUT /position or as one text frame on the position socket.
type PositionRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// updatePosition caches the fix and ranks the player's current checkpoint
// set against it.
func updatePosition(ctx context.Context, games *Registry, positions position.Store, player string, at time.Time, req PositionRequest) (SessionStateResponse, error) {
	c, err := coordinate(req.Lat, req.Lng)
	if err != nil {
		return SessionStateResponse{}, err
	}
	if err := positions.Put(ctx, player, position.Fix{Coordinate: c, At: at}); err != nil {
		return SessionStateResponse{}, err
	}
	return toSessionState(games.Get(player).Snapshot(), &c), nil
}

func handlePutPosition(logger *slog.Logger, games *Registry, positions position.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PositionRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		state, err := updatePosition(r.Context(), games, positions, playerFrom(r), time.Now(), req)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

// handlePositionWS streams position fixes in and ranked session state out.
// Malformed frames get an ErrorResponse frame and the socket stays open.
func handlePositionWS(logger *slog.Logger, games *Registry, positions position.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		player := playerFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Minute)
		defer cancel()

		for {
			typ, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("position socket read ended", "player", player, "error", err)
				return
			}
			if typ != websocket.MessageText {
				continue
			}

			var out any
			var req PositionRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				out = ErrorResponse{Error: "invalid position frame"}
			} else if state, err := updatePosition(ctx, games, positions, player, time.Now(), req); err != nil {
				out = socketError(logger, err)
			} else {
				out = state
			}

			data, _ := json.Marshal(out)
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Debug("position socket write failed", "player", player, "error", err)
				return
			}
		}
	}
}

func socketError(logger *slog.Logger, err error) ErrorResponse {
	if _, resp, ok := appErrorResponse(err); ok {
		return resp
	}
	logger.Error("position update failed", "error", err)
	return ErrorResponse{Error: "internal error"}
}
