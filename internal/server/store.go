package server

import (
	"context"
	"time"

	"github.com/playperu/geohunt/internal/geo"
	"github.com/playperu/geohunt/internal/hunt"
	"github.com/playperu/geohunt/internal/store"
	"github.com/playperu/geohunt/internal/streak"
)

// Store is the persistence the HTTP layer needs. *store.Store implements it.
type Store interface {
	hunt.QuestionSupply
	hunt.CustomSupply

	ListQuestions(ctx context.Context, filter store.QuestionFilter) ([]hunt.Question, error)
	CreateQuestion(ctx context.Context, q *hunt.Question) error
	DeleteQuestion(ctx context.Context, id int64) error

	CreateCustomCheckpoint(ctx context.Context, questionID int64, pos geo.Coordinate) (hunt.CustomCheckpoint, error)
	DeleteCustomCheckpoint(ctx context.Context, id int64) error

	Settings(ctx context.Context) (hunt.Settings, error)
	SaveSettings(ctx context.Context, s hunt.Settings) error

	RecordCompletion(ctx context.Context, player, sessionID string, points int, today time.Time) (streak.State, error)
	Stats(ctx context.Context, player string, today time.Time) (store.Stats, error)

	Login(ctx context.Context, email, password string) (store.Admin, string, error)
	AdminFromSession(ctx context.Context, sessionID string) (store.Admin, error)
	DeleteAdminSession(ctx context.Context, sessionID string) error
}

var _ Store = (*store.Store)(nil)
