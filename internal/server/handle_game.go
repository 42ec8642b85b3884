package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/geo"
	"github.com/playperu/geohunt/internal/hunt"
	"github.com/playperu/geohunt/internal/verify"
)

// GenerateRequest is the request body for POST /api/game/generate.
type GenerateRequest struct {
	Lat    *float64 `json:"lat"`
	Lng    *float64 `json:"lng"`
	Radius float64  `json:"radius"`
	Count  int      `json:"count"`
}

// VerifyRequest is the request body for POST /api/game/verify.
type VerifyRequest struct {
	QuestionID int64  `json:"questionId"`
	Answer     string `json:"answer"`
}

// VerifyPhotoRequest is the request body for POST /api/game/verify-photo.
// Image is raw base64 or a data URL.
type VerifyPhotoRequest struct {
	ItemName string `json:"itemName"`
	Image    string `json:"image"`
}

// coordinate turns optional lat/lng request fields into a validated
// coordinate.
func coordinate(lat, lng *float64) (geo.Coordinate, error) {
	if lat == nil {
		return geo.Coordinate{}, apperr.InvalidInput("lat", "is required")
	}
	if lng == nil {
		return geo.Coordinate{}, apperr.InvalidInput("lng", "is required")
	}
	c := geo.Coordinate{Lat: *lat, Lng: *lng}
	return c, c.Validate()
}

func handleGenerate(logger *slog.Logger, supply hunt.QuestionSupply) http.HandlerFunc {
	spawner := hunt.NewSpawner(supply, nil)
	return func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		origin, err := coordinate(req.Lat, req.Lng)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		if req.Radius <= 0 {
			writeAppError(w, logger, apperr.InvalidInput("radius", "must be positive"))
			return
		}

		cps, err := spawner.Spawn(r.Context(), origin, req.Radius, req.Count)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}

		resp := make([]CheckpointResponse, 0, len(cps))
		for _, cp := range cps {
			resp = append(resp, toCheckpointResponse(cp))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func handleVerify(logger *slog.Logger, text *verify.Text) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.QuestionID <= 0 {
			writeAppError(w, logger, apperr.InvalidInput("questionId", "is required"))
			return
		}

		res, err := text.Check(r.Context(), req.QuestionID, req.Answer)
		if err != nil {
			writeAppError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func handleVerifyPhoto(photo *verify.Photo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if photo == nil {
			writeError(w, http.StatusServiceUnavailable, "photo verification is not configured")
			return
		}

		var req VerifyPhotoRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.ItemName = strings.TrimSpace(req.ItemName)
		if req.ItemName == "" {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "is required", Field: "itemName"})
			return
		}
		image, mediaType, err := verify.DecodeImage(req.Image)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "image"})
			return
		}

		writeJSON(w, http.StatusOK, photo.Check(r.Context(), req.ItemName, image, mediaType))
	}
}
