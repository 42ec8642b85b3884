// Package hunt defines the core domain types of a scavenger-hunt session
// and the engine that drives it: checkpoint spawning, ranking against a
// moving observer, and the session state machine.
package hunt

import (
	"slices"
	"strings"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/geo"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Question is owned by the question store and read-only to the engine.
// Subject is what a photo claim for the question must show; when empty the
// spawner draws one from the photo catalog.
type Question struct {
	ID         int64
	Prompt     string
	Answer     string
	Options    []string
	Points     int
	Difficulty Difficulty
	Subject    string
}

// Validate checks the question invariants: non-empty prompt, the answer is
// one of the options, points are non-negative and the difficulty is known.
func (q *Question) Validate() error {
	q.Prompt = strings.TrimSpace(q.Prompt)
	q.Answer = strings.TrimSpace(q.Answer)
	q.Subject = strings.TrimSpace(q.Subject)
	if q.Prompt == "" {
		return apperr.InvalidInput("question", "is required")
	}
	if q.Answer == "" {
		return apperr.InvalidInput("answer", "is required")
	}
	if len(q.Options) == 0 {
		return apperr.InvalidInput("options", "at least one option is required")
	}
	if !slices.Contains(q.Options, q.Answer) {
		return apperr.InvalidInput("options", "must contain the answer")
	}
	if q.Points < 0 {
		return apperr.InvalidInput("points", "must not be negative")
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyEasy
	}
	if !q.Difficulty.Valid() {
		return apperr.InvalidInput("difficulty", "must be easy, medium or hard")
	}
	return nil
}

// Checkpoint is a spawned, geolocated collectible tied to one question.
// Its ID is the source question's ID. Subject is the item a photo claim is
// judged against.
type Checkpoint struct {
	ID        int64
	Position  geo.Coordinate
	Prompt    string
	Options   []string
	Points    int
	Subject   string
	Custom    bool
	Collected bool
}

// CustomCheckpoint is a player-placed checkpoint: a fixed position tied to
// one question. Sessions started within range of it include it as is.
type CustomCheckpoint struct {
	ID       int64
	Position geo.Coordinate
	Question Question
}

// Settings configure a session at start.
type Settings struct {
	TimeLimitMinutes int     `json:"timeLimitMinutes"`
	CheckpointCount  int     `json:"checkpointCount"`
	RadiusMeters     float64 `json:"radiusMeters"`
}

const (
	MinTimeLimitMinutes = 5
	MaxTimeLimitMinutes = 120
	MinCheckpointCount  = 1
	MaxCheckpointCount  = 20
	MinRadiusMeters     = 10
	MaxRadiusMeters     = 2000
)

// DefaultSettings apply when no settings have been stored.
func DefaultSettings() Settings {
	return Settings{TimeLimitMinutes: 30, CheckpointCount: 5, RadiusMeters: 500}
}

func (s Settings) Validate() error {
	if s.TimeLimitMinutes < MinTimeLimitMinutes || s.TimeLimitMinutes > MaxTimeLimitMinutes {
		return apperr.InvalidInput("timeLimitMinutes", "must be between 5 and 120")
	}
	if s.CheckpointCount < MinCheckpointCount || s.CheckpointCount > MaxCheckpointCount {
		return apperr.InvalidInput("checkpointCount", "must be between 1 and 20")
	}
	if s.RadiusMeters < MinRadiusMeters || s.RadiusMeters > MaxRadiusMeters {
		return apperr.InvalidInput("radiusMeters", "must be between 10 and 2000")
	}
	return nil
}

var (
	ErrSessionActive     = apperr.Conflict("session already active")
	ErrSessionNotActive  = apperr.Conflict("session is not active")
	ErrUnknownCheckpoint = &apperr.Error{Code: apperr.CodeNotFound, Message: "checkpoint not in session"}
	ErrNoQuestions       = &apperr.Error{Code: apperr.CodeNotFound, Message: "no questions available"}
)
