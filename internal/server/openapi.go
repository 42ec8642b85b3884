package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/geohunt/internal/hunt"
	"github.com/playperu/geohunt/internal/store"
	"github.com/playperu/geohunt/internal/verify"
)

// HealthStatus is one entry of the /healthz response, keyed by check name.
type HealthStatus struct {
	Status string `json:"status"`
}

type playerParams struct {
	Player string `path:"player" pattern:"^[A-Za-z0-9_-]{1,64}$"`
}

type questionIDParams struct {
	ID int64 `path:"id"`
}

type questionListParams struct {
	Difficulty hunt.Difficulty `query:"difficulty" enum:"easy,medium,hard"`
	Limit      int             `query:"limit"`
}

type observerParams struct {
	Player string   `path:"player"`
	Lat    *float64 `query:"lat"`
	Lng    *float64 `query:"lng"`
}

type operation struct {
	method, path, summary, description string
	req                                []any
	resp                               map[int]any
	contentType                        string
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Geohunt API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the Geohunt checkpoint hunt.")

	ops := []operation{
		{
			method: http.MethodGet, path: "/healthz",
			summary:     "Health check",
			description: "Returns the health status of backend dependencies.",
			resp: map[int]any{
				http.StatusOK:                 map[string]HealthStatus{},
				http.StatusServiceUnavailable: map[string]HealthStatus{},
			},
		},
		{
			method: http.MethodPost, path: "/api/game/generate",
			summary:     "Generate checkpoints",
			description: "Spawns checkpoints around a position without starting a session.",
			req:         []any{GenerateRequest{}},
			resp: map[int]any{
				http.StatusOK:         []CheckpointResponse{},
				http.StatusBadRequest: ErrorResponse{},
			},
		},
		{
			method: http.MethodPost, path: "/api/game/verify",
			summary:     "Verify answer",
			description: "Checks an answer against a question, case-insensitively.",
			req:         []any{VerifyRequest{}},
			resp: map[int]any{
				http.StatusOK:         verify.AnswerResult{},
				http.StatusBadRequest: ErrorResponse{},
				http.StatusNotFound:   ErrorResponse{},
			},
		},
		{
			method: http.MethodPost, path: "/api/game/verify-photo",
			summary:     "Verify photo",
			description: "Asks the image classifier whether a photo shows the named item.",
			req:         []any{VerifyPhotoRequest{}},
			resp: map[int]any{
				http.StatusOK:                 verify.PhotoResult{},
				http.StatusBadRequest:         ErrorResponse{},
				http.StatusServiceUnavailable: ErrorResponse{},
			},
		},
		{
			method: http.MethodGet, path: "/api/questions",
			summary:     "List questions",
			description: "Returns the question pool without answers.",
			req:         []any{questionListParams{}},
			resp: map[int]any{
				http.StatusOK:         []QuestionResponse{},
				http.StatusBadRequest: ErrorResponse{},
			},
		},
		{
			method: http.MethodGet, path: "/api/questions/{id}",
			summary: "Get question",
			req:     []any{questionIDParams{}},
			resp: map[int]any{
				http.StatusOK:       QuestionResponse{},
				http.StatusNotFound: ErrorResponse{},
			},
		},
		{
			method: http.MethodGet, path: "/api/checkpoints/custom",
			summary: "List custom checkpoints",
			resp:    map[int]any{http.StatusOK: []CustomCheckpointResponse{}},
		},
		{
			method: http.MethodPost, path: "/api/checkpoints/custom",
			summary:     "Create custom checkpoint",
			description: "Pins a question at a position. Sessions started within range include it.",
			req:         []any{CustomCheckpointRequest{}},
			resp: map[int]any{
				http.StatusCreated:    CustomCheckpointResponse{},
				http.StatusBadRequest: ErrorResponse{},
				http.StatusNotFound:   ErrorResponse{},
			},
		},
		{
			method: http.MethodGet, path: "/api/settings",
			summary: "Get settings",
			resp:    map[int]any{http.StatusOK: hunt.Settings{}},
		},
		{
			method: http.MethodPut, path: "/api/settings",
			summary:     "Save settings",
			description: "Applies to sessions started afterwards.",
			req:         []any{hunt.Settings{}},
			resp: map[int]any{
				http.StatusOK:         hunt.Settings{},
				http.StatusBadRequest: ErrorResponse{},
			},
		},
		{
			method: http.MethodGet, path: "/api/players/{player}/session",
			summary:     "Get session",
			description: "Returns the player's session ranked against lat/lng, or the last cached position.",
			req:         []any{observerParams{}},
			resp: map[int]any{
				http.StatusOK:         SessionStateResponse{},
				http.StatusBadRequest: ErrorResponse{},
			},
		},
		{
			method: http.MethodPost, path: "/api/players/{player}/session/start",
			summary:     "Start session",
			description: "Spawns checkpoints around the given position and starts the countdown.",
			req:         []any{playerParams{}, StartSessionRequest{}},
			resp: map[int]any{
				http.StatusOK:         SessionStateResponse{},
				http.StatusBadRequest: ErrorResponse{},
				http.StatusNotFound:   ErrorResponse{},
				http.StatusConflict:   ErrorResponse{},
			},
		},
		{
			method: http.MethodPost, path: "/api/players/{player}/session/collect",
			summary:     "Collect checkpoint",
			description: "Submits an answer or a photo for a checkpoint of the active session.",
			req:         []any{playerParams{}, CollectRequest{}},
			resp: map[int]any{
				http.StatusOK:         CollectResponse{},
				http.StatusBadRequest: ErrorResponse{},
				http.StatusNotFound:   ErrorResponse{},
				http.StatusConflict:   ErrorResponse{},
			},
		},
		{
			method: http.MethodPost, path: "/api/players/{player}/session/close",
			summary:     "Close session",
			description: "Abandons the session and returns to the lobby.",
			req:         []any{playerParams{}},
			resp:        map[int]any{http.StatusOK: SessionResponse{}},
		},
		{
			method: http.MethodPut, path: "/api/players/{player}/position",
			summary:     "Report position",
			description: "Caches the player's position and returns the ranked checkpoints.",
			req:         []any{playerParams{}, PositionRequest{}},
			resp: map[int]any{
				http.StatusOK:         SessionStateResponse{},
				http.StatusBadRequest: ErrorResponse{},
			},
		},
		{
			method: http.MethodGet, path: "/api/players/{player}/position/ws",
			summary:     "Position socket",
			description: "WebSocket taking {lat,lng} frames and answering each with the ranked session state.",
			req:         []any{playerParams{}},
			resp:        map[int]any{http.StatusSwitchingProtocols: nil},
			contentType: "text/plain",
		},
		{
			method: http.MethodGet, path: "/api/players/{player}/events",
			summary:     "SSE event stream",
			description: "Server-Sent Events stream of the player's session changes.",
			req:         []any{playerParams{}},
			resp:        map[int]any{http.StatusOK: nil},
			contentType: "text/event-stream",
		},
		{
			method: http.MethodGet, path: "/api/players/{player}/stats",
			summary:     "Player stats",
			description: "Streak, totals and per-day points history.",
			req:         []any{playerParams{}},
			resp:        map[int]any{http.StatusOK: store.Stats{}},
		},
		{
			method: http.MethodPost, path: "/api/admin/login",
			summary:     "Admin login",
			description: "Authenticate with email and password. Sets admin_session cookie.",
			req:         []any{AdminLoginRequest{}},
			resp: map[int]any{
				http.StatusOK:           AdminMeResponse{},
				http.StatusUnauthorized: ErrorResponse{},
			},
		},
		{
			method: http.MethodPost, path: "/api/admin/logout",
			summary:     "Admin logout",
			description: "Clears admin session and cookie.",
			resp:        map[int]any{http.StatusOK: nil},
		},
		{
			method: http.MethodGet, path: "/api/admin/me",
			summary:     "Current admin",
			description: "Returns the currently authenticated admin. Requires admin_session cookie.",
			resp: map[int]any{
				http.StatusOK:           AdminMeResponse{},
				http.StatusUnauthorized: ErrorResponse{},
			},
		},
		{
			method: http.MethodGet, path: "/api/admin/questions",
			summary:     "List questions with answers",
			description: "Requires admin_session cookie.",
			req:         []any{questionListParams{}},
			resp: map[int]any{
				http.StatusOK:           []AdminQuestionResponse{},
				http.StatusUnauthorized: ErrorResponse{},
			},
		},
		{
			method: http.MethodPost, path: "/api/admin/questions",
			summary:     "Create question",
			description: "The answer must be one of the options. Requires admin_session cookie.",
			req:         []any{QuestionRequest{}},
			resp: map[int]any{
				http.StatusCreated:      AdminQuestionResponse{},
				http.StatusBadRequest:   ErrorResponse{},
				http.StatusUnauthorized: ErrorResponse{},
			},
		},
		{
			method: http.MethodDelete, path: "/api/admin/questions/{id}",
			summary:     "Delete question",
			description: "Requires admin_session cookie.",
			req:         []any{questionIDParams{}},
			resp: map[int]any{
				http.StatusOK:           map[string]string{},
				http.StatusNotFound:     ErrorResponse{},
				http.StatusUnauthorized: ErrorResponse{},
			},
		},
		{
			method: http.MethodDelete, path: "/api/admin/checkpoints/{id}",
			summary:     "Delete custom checkpoint",
			description: "Requires admin_session cookie.",
			req:         []any{questionIDParams{}},
			resp: map[int]any{
				http.StatusOK:           map[string]string{},
				http.StatusNotFound:     ErrorResponse{},
				http.StatusUnauthorized: ErrorResponse{},
			},
		},
	}

	for _, op := range ops {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		if op.description != "" {
			oc.SetDescription(op.description)
		}
		for _, req := range op.req {
			oc.AddReqStructure(req)
		}
		for status, resp := range op.resp {
			opts := []openapi.ContentOption{openapi.WithHTTPStatus(status)}
			if resp == nil && op.contentType != "" {
				opts = append(opts, openapi.WithContentType(op.contentType))
			}
			oc.AddRespStructure(resp, opts...)
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func handleSwaggerUI() http.Handler {
	return v5emb.New("Geohunt API", "/openapi.json", "/docs")
}
