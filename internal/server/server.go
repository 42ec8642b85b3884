package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/playperu/geohunt/internal/handler/health"
	"github.com/playperu/geohunt/internal/hunt"
	"github.com/playperu/geohunt/internal/position"
	"github.com/playperu/geohunt/internal/verify"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Store     Store
	Positions position.Store
	// Classifier judges photo claims. Nil disables photo verification.
	Classifier   verify.Classifier
	TickInterval time.Duration
	Checks       map[string]health.Checker
	SPADir       string
	// Now is the clock used for streak days. Defaults to time.Now in UTC.
	Now func() time.Time
}

type Server struct {
	srv    *http.Server
	logger *slog.Logger
	games  *Registry
}

func New(addr string, logger *slog.Logger, deps Deps) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newStructuredLogger(logger))
	r.Use(middleware.Recoverer)

	a := newApp(logger, deps)
	addRoutes(r, a)

	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		logger: logger,
		games:  a.games,
	}
}

func (s *Server) Run(_ context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}

	err = s.srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	defer s.games.Close()
	return s.srv.Shutdown(ctx)
}

// app wires the domain services shared by the handlers.
type app struct {
	logger    *slog.Logger
	store     Store
	positions position.Store
	broker    *Broker
	games     *Registry
	text      *verify.Text
	photo     *verify.Photo
	checks    map[string]health.Checker
	spaDir    string
	now       func() time.Time
}

func newApp(logger *slog.Logger, deps Deps) *app {
	a := &app{
		logger:    logger,
		store:     deps.Store,
		positions: deps.Positions,
		broker:    NewBroker(),
		text:      &verify.Text{Questions: deps.Store},
		checks:    deps.Checks,
		spaDir:    deps.SPADir,
		now:       deps.Now,
	}
	if a.now == nil {
		a.now = func() time.Time { return time.Now().UTC() }
	}
	if a.positions == nil {
		a.positions = position.NewMemory(2 * time.Minute)
	}
	if deps.Classifier != nil {
		a.photo = &verify.Photo{Classifier: deps.Classifier, Logger: logger}
	}

	judge := &verify.Judge{Text: a.text, Photo: a.photo}
	spawner := hunt.NewSpawner(deps.Store, nil)
	spawner.Custom = deps.Store
	a.games = NewRegistry(func(player string) *hunt.Game {
		return hunt.NewGame(hunt.GameConfig{
			Spawner:      spawner,
			Verifier:     judge,
			TickInterval: deps.TickInterval,
			OnEvent:      a.onGameEvent(player),
			Logger:       logger.With("player", player),
		})
	})
	return a
}

// onGameEvent fans a player's session events out to SSE subscribers and
// records completed sessions for the streak.
func (a *app) onGameEvent(player string) func(hunt.Event) {
	return func(e hunt.Event) {
		if e.Type == hunt.EventCompleted {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_, err := a.store.RecordCompletion(ctx, player, e.Session.ID, e.Session.Score, a.now())
			cancel()
			if err != nil {
				a.logger.Error("recording completion failed", "player", player, "session_id", e.Session.ID, "error", err)
			}
		}

		sess := toSessionResponse(e.Session)
		a.broker.Publish(player, SSEEvent{
			Type:         string(e.Type),
			CheckpointID: e.CheckpointID,
			Session:      &sess,
		})
	}
}

func newStructuredLogger(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				logger.Info("http request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration_ms", time.Since(start).Milliseconds(),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
