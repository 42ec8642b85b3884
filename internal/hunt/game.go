package hunt

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/playperu/geohunt/internal/geo"
)

type EventType string

const (
	EventStarted   EventType = "session_started"
	EventCollected EventType = "checkpoint_collected"
	EventIncorrect EventType = "wrong_answer"
	EventCompleted EventType = "session_completed"
	EventExpired   EventType = "session_expired"
	EventClosed    EventType = "session_closed"
)

// Event is emitted after every state change, outside the game lock.
type Event struct {
	Type         EventType
	CheckpointID int64
	Session      Session
}

type Outcome string

const (
	OutcomeCollected        Outcome = "collected"
	OutcomeIncorrect        Outcome = "incorrect"
	OutcomeAlreadyCollected Outcome = "already_collected"
	// OutcomeDiscarded means the verdict arrived after the session it was
	// requested for had left Active.
	OutcomeDiscarded Outcome = "discarded"
)

// Attempt is the result of AttemptCollect.
type Attempt struct {
	Outcome      Outcome
	CheckpointID int64
	Awarded      int
	Verdict      Verdict
	Session      Session
}

type GameConfig struct {
	Spawner  *Spawner
	Verifier Verifier
	// TickInterval is the period of the countdown ticker. Zero disables the
	// ticker; callers then drive the countdown with Tick.
	TickInterval time.Duration
	Now          func() time.Time
	OnEvent      func(Event)
	Logger       *slog.Logger
}

// Game owns one player's session and serializes every transition on it.
type Game struct {
	spawner      *Spawner
	verifier     Verifier
	tickInterval time.Duration
	now          func() time.Time
	onEvent      func(Event)
	logger       *slog.Logger

	mu        sync.Mutex
	session   *Session
	stopTimer context.CancelFunc
}

func NewGame(cfg GameConfig) *Game {
	g := &Game{
		spawner:      cfg.Spawner,
		verifier:     cfg.Verifier,
		tickInterval: cfg.TickInterval,
		now:          cfg.Now,
		onEvent:      cfg.OnEvent,
		logger:       cfg.Logger,
		session:      NewSession(DefaultSettings()),
	}
	if g.now == nil {
		g.now = time.Now
	}
	if g.logger == nil {
		g.logger = slog.Default()
	}
	return g
}

// Start spawns checkpoints around origin and moves the session to Active.
// Starting from a terminal state discards the finished session first.
func (g *Game) Start(ctx context.Context, origin geo.Coordinate, settings Settings) (Session, error) {
	if err := origin.Validate(); err != nil {
		return Session{}, err
	}
	if err := settings.Validate(); err != nil {
		return Session{}, err
	}

	g.mu.Lock()
	active := g.session.Status == StatusActive
	g.mu.Unlock()
	if active {
		return Session{}, ErrSessionActive
	}

	// Spawning reads the store; the lock stays free so ticks and snapshots
	// are not held up.
	checkpoints, err := g.spawner.Spawn(ctx, origin, settings.RadiusMeters, settings.CheckpointCount)
	if err != nil {
		return Session{}, err
	}
	if len(checkpoints) == 0 {
		return Session{}, ErrNoQuestions
	}

	g.mu.Lock()
	if g.session.Status == StatusActive {
		g.mu.Unlock()
		return Session{}, ErrSessionActive
	}
	if g.session.Status.Terminal() {
		g.session = NewSession(settings)
	}
	if err := g.session.begin(origin, settings, checkpoints, g.now()); err != nil {
		g.mu.Unlock()
		return Session{}, err
	}
	snap := g.session.Clone()
	g.startTimerLocked(snap.ID)
	g.mu.Unlock()

	g.logger.Info("session started",
		"session_id", snap.ID,
		"checkpoints", len(snap.Checkpoints),
		"requested", settings.CheckpointCount,
		"remaining_seconds", *snap.RemainingSeconds,
	)
	g.emit(Event{Type: EventStarted, Session: snap})
	return snap, nil
}

// Tick advances the countdown of the current session by one second.
func (g *Game) Tick() Session {
	g.mu.Lock()
	id := g.session.ID
	g.mu.Unlock()

	g.tick(id)
	return g.Snapshot()
}

// tick reports whether the ticker for sessionID should keep running.
func (g *Game) tick(sessionID string) bool {
	g.mu.Lock()
	if g.session.ID != sessionID || g.session.Status != StatusActive {
		g.mu.Unlock()
		return false
	}
	if !g.session.tick(g.now()) {
		g.mu.Unlock()
		return true
	}
	g.stopTimerLocked()
	snap := g.session.Clone()
	g.mu.Unlock()

	g.logger.Info("session expired",
		"session_id", snap.ID,
		"collected", snap.CollectedCount(),
		"total", len(snap.Checkpoints),
		"score", snap.Score,
	)
	g.emit(Event{Type: EventExpired, Session: snap})
	return false
}

// AttemptCollect judges claim against checkpoint id and applies the verdict.
// The verifier runs without the lock held, so the countdown and Close stay
// responsive while a slow judgement is pending.
func (g *Game) AttemptCollect(ctx context.Context, id int64, claim Claim) (Attempt, error) {
	g.mu.Lock()
	if g.session.Status != StatusActive {
		g.mu.Unlock()
		return Attempt{}, ErrSessionNotActive
	}
	i := g.session.indexOf(id)
	if i < 0 {
		g.mu.Unlock()
		return Attempt{}, ErrUnknownCheckpoint
	}
	if g.session.Checkpoints[i].Collected {
		snap := g.session.Clone()
		g.mu.Unlock()
		return Attempt{Outcome: OutcomeAlreadyCollected, CheckpointID: id, Session: snap}, nil
	}
	cp := g.session.Checkpoints[i]
	cp.Options = slices.Clone(cp.Options)
	sessionID := g.session.ID
	g.session.PendingAttempts++
	g.mu.Unlock()

	verdict, verr := g.verifier.Verify(ctx, cp, claim)

	g.mu.Lock()
	current := g.session.ID == sessionID
	if current {
		g.session.PendingAttempts--
	}
	if verr != nil {
		g.mu.Unlock()
		return Attempt{}, verr
	}
	if !current || g.session.Status != StatusActive {
		snap := g.session.Clone()
		g.mu.Unlock()
		g.logger.Debug("discarding late verdict", "session_id", sessionID, "checkpoint_id", id)
		return Attempt{Outcome: OutcomeDiscarded, CheckpointID: id, Verdict: verdict, Session: snap}, nil
	}
	if !verdict.Correct {
		snap := g.session.Clone()
		g.mu.Unlock()
		g.emit(Event{Type: EventIncorrect, CheckpointID: id, Session: snap})
		return Attempt{Outcome: OutcomeIncorrect, CheckpointID: id, Verdict: verdict, Session: snap}, nil
	}

	collected, completed := g.session.collect(i, g.now())
	if completed {
		g.stopTimerLocked()
	}
	snap := g.session.Clone()
	g.mu.Unlock()

	if !collected {
		return Attempt{Outcome: OutcomeAlreadyCollected, CheckpointID: id, Verdict: verdict, Session: snap}, nil
	}

	g.emit(Event{Type: EventCollected, CheckpointID: id, Session: snap})
	if completed {
		g.logger.Info("session completed", "session_id", snap.ID, "score", snap.Score)
		g.emit(Event{Type: EventCompleted, Session: snap})
	}
	return Attempt{
		Outcome:      OutcomeCollected,
		CheckpointID: id,
		Awarded:      cp.Points,
		Verdict:      verdict,
		Session:      snap,
	}, nil
}

// Close abandons the current session without penalty and returns to a
// fresh Lobby. Verdicts still in flight for the old session are discarded.
func (g *Game) Close() Session {
	g.mu.Lock()
	g.stopTimerLocked()
	prev := g.session.ID
	g.session = NewSession(g.session.Settings)
	snap := g.session.Clone()
	g.mu.Unlock()

	g.logger.Info("session closed", "session_id", prev)
	g.emit(Event{Type: EventClosed, Session: snap})
	return snap
}

// Snapshot returns a copy of the current session.
func (g *Game) Snapshot() Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.session.Clone()
}

// Rank ranks the current checkpoint set for observer.
func (g *Game) Rank(observer *geo.Coordinate) []Ranked {
	snap := g.Snapshot()
	return Rank(observer, snap.Checkpoints)
}

// Stop halts the countdown ticker. Used at shutdown.
func (g *Game) Stop() {
	g.mu.Lock()
	g.stopTimerLocked()
	g.mu.Unlock()
}

func (g *Game) startTimerLocked(sessionID string) {
	g.stopTimerLocked()
	if g.tickInterval <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	g.stopTimer = cancel
	go g.runTimer(ctx, sessionID)
}

func (g *Game) stopTimerLocked() {
	if g.stopTimer != nil {
		g.stopTimer()
		g.stopTimer = nil
	}
}

func (g *Game) runTimer(ctx context.Context, sessionID string) {
	t := time.NewTicker(g.tickInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if !g.tick(sessionID) {
				return
			}
		}
	}
}

func (g *Game) emit(e Event) {
	if g.onEvent != nil {
		g.onEvent(e)
	}
}
