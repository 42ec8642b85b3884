package server

import (
	"time"

	"github.com/playperu/geohunt/internal/geo"
	"github.com/playperu/geohunt/internal/hunt"
)

// CheckpointResponse is a checkpoint as the client sees it. The answer is
// never included.
type CheckpointResponse struct {
	ID        int64    `json:"id"`
	Lat       float64  `json:"lat"`
	Lng       float64  `json:"lng"`
	Question  string   `json:"question"`
	Options   []string `json:"options"`
	Points    int      `json:"points"`
	Subject   string   `json:"subject"`
	Custom    bool     `json:"custom,omitempty"`
	Collected bool     `json:"collected"`
}

type RankedCheckpoint struct {
	CheckpointResponse
	DistanceMeters float64 `json:"distanceMeters"`
	Near           bool    `json:"near"`
}

type SessionResponse struct {
	ID                   string               `json:"id"`
	Status               hunt.Status          `json:"status"`
	Score                int                  `json:"score"`
	RemainingSeconds     *int                 `json:"remainingSeconds"`
	CheckpointsCollected int                  `json:"checkpointsCollected"`
	CheckpointsTotal     int                  `json:"checkpointsTotal"`
	PendingAttempts      int                  `json:"pendingAttempts"`
	Settings             hunt.Settings        `json:"settings"`
	Origin               *geo.Coordinate      `json:"origin,omitempty"`
	StartedAt            *time.Time           `json:"startedAt,omitempty"`
	EndedAt              *time.Time           `json:"endedAt,omitempty"`
	Checkpoints          []CheckpointResponse `json:"checkpoints"`
}

// SessionStateResponse is the session plus the ranking against the
// observer's latest position. Ranking is empty when the position is unknown.
type SessionStateResponse struct {
	Session  SessionResponse    `json:"session"`
	Observer *geo.Coordinate    `json:"observer,omitempty"`
	Ranking  []RankedCheckpoint `json:"ranking"`
	Nearest  *RankedCheckpoint  `json:"nearest,omitempty"`
}

type QuestionResponse struct {
	ID         int64           `json:"id"`
	Question   string          `json:"question"`
	Options    []string        `json:"options"`
	Points     int             `json:"points"`
	Difficulty hunt.Difficulty `json:"difficulty"`
}

// AdminQuestionResponse includes the answer.
type AdminQuestionResponse struct {
	QuestionResponse
	Answer  string `json:"answer"`
	Subject string `json:"subject,omitempty"`
}

func toCheckpointResponse(cp hunt.Checkpoint) CheckpointResponse {
	options := cp.Options
	if options == nil {
		options = []string{}
	}
	return CheckpointResponse{
		ID:        cp.ID,
		Lat:       cp.Position.Lat,
		Lng:       cp.Position.Lng,
		Question:  cp.Prompt,
		Options:   options,
		Points:    cp.Points,
		Subject:   cp.Subject,
		Custom:    cp.Custom,
		Collected: cp.Collected,
	}
}

func toSessionResponse(s hunt.Session) SessionResponse {
	resp := SessionResponse{
		ID:                   s.ID,
		Status:               s.Status,
		Score:                s.Score,
		RemainingSeconds:     s.RemainingSeconds,
		CheckpointsCollected: s.CollectedCount(),
		CheckpointsTotal:     len(s.Checkpoints),
		PendingAttempts:      s.PendingAttempts,
		Settings:             s.Settings,
		Checkpoints:          make([]CheckpointResponse, 0, len(s.Checkpoints)),
	}
	if s.Status != hunt.StatusLobby {
		origin := s.Origin
		resp.Origin = &origin
	}
	if !s.StartedAt.IsZero() {
		t := s.StartedAt
		resp.StartedAt = &t
	}
	if !s.EndedAt.IsZero() {
		t := s.EndedAt
		resp.EndedAt = &t
	}
	for _, cp := range s.Checkpoints {
		resp.Checkpoints = append(resp.Checkpoints, toCheckpointResponse(cp))
	}
	return resp
}

func toRankedCheckpoint(r hunt.Ranked) RankedCheckpoint {
	return RankedCheckpoint{
		CheckpointResponse: toCheckpointResponse(r.Checkpoint),
		DistanceMeters:     r.DistanceMeters,
		Near:               r.Near,
	}
}

func toSessionState(s hunt.Session, observer *geo.Coordinate) SessionStateResponse {
	ranked := hunt.Rank(observer, s.Checkpoints)
	resp := SessionStateResponse{
		Session:  toSessionResponse(s),
		Observer: observer,
		Ranking:  make([]RankedCheckpoint, 0, len(ranked)),
	}
	for _, r := range ranked {
		resp.Ranking = append(resp.Ranking, toRankedCheckpoint(r))
	}
	if nearest, ok := hunt.Nearest(ranked); ok {
		n := toRankedCheckpoint(nearest)
		resp.Nearest = &n
	}
	return resp
}

func toQuestionResponse(q hunt.Question) QuestionResponse {
	return QuestionResponse{
		ID:         q.ID,
		Question:   q.Prompt,
		Options:    q.Options,
		Points:     q.Points,
		Difficulty: q.Difficulty,
	}
}
