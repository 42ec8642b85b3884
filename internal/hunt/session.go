package hunt

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/geohunt/internal/geo"
)

type Status string

const (
	StatusLobby     Status = "lobby"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

// Terminal reports whether s is Completed or Expired.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusExpired
}

// Session is one play-through. Its methods are not safe for concurrent use;
// Game serializes access.
type Session struct {
	ID               string
	Status           Status
	Settings         Settings
	Origin           geo.Coordinate
	Checkpoints      []Checkpoint
	Score            int
	RemainingSeconds *int
	StartedAt        time.Time
	EndedAt          time.Time
	PendingAttempts  int
}

// NewSession returns a session in the Lobby with a fresh id.
func NewSession(settings Settings) *Session {
	return &Session{
		ID:       uuid.NewString(),
		Status:   StatusLobby,
		Settings: settings,
	}
}

// begin moves a Lobby session to Active over the spawned set.
func (s *Session) begin(origin geo.Coordinate, settings Settings, checkpoints []Checkpoint, now time.Time) error {
	if s.Status != StatusLobby {
		return ErrSessionActive
	}
	remaining := settings.TimeLimitMinutes * 60
	s.Status = StatusActive
	s.Settings = settings
	s.Origin = origin
	s.Checkpoints = checkpoints
	s.Score = 0
	s.RemainingSeconds = &remaining
	s.StartedAt = now
	return nil
}

// tick counts one second down. It reports whether this tick expired the
// session. Ticks outside Active are ignored.
func (s *Session) tick(now time.Time) bool {
	if s.Status != StatusActive || s.RemainingSeconds == nil {
		return false
	}
	if *s.RemainingSeconds > 0 {
		*s.RemainingSeconds--
	}
	if *s.RemainingSeconds == 0 {
		s.Status = StatusExpired
		s.EndedAt = now
		return true
	}
	return false
}

func (s *Session) indexOf(id int64) int {
	return slices.IndexFunc(s.Checkpoints, func(cp Checkpoint) bool { return cp.ID == id })
}

// collect marks checkpoint i collected and scores it. It reports whether the
// checkpoint was newly collected and whether the session is now Completed.
func (s *Session) collect(i int, now time.Time) (collected, completed bool) {
	if s.Checkpoints[i].Collected {
		return false, false
	}
	s.Checkpoints[i].Collected = true
	s.Score += s.Checkpoints[i].Points

	if s.CollectedCount() == len(s.Checkpoints) {
		s.Status = StatusCompleted
		s.EndedAt = now
		return true, true
	}
	return true, false
}

// CollectedCount is the number of collected checkpoints.
func (s *Session) CollectedCount() int {
	n := 0
	for _, cp := range s.Checkpoints {
		if cp.Collected {
			n++
		}
	}
	return n
}

// Clone returns a deep copy safe to hand out of the lock.
func (s *Session) Clone() Session {
	c := *s
	c.Checkpoints = make([]Checkpoint, len(s.Checkpoints))
	for i, cp := range s.Checkpoints {
		cp.Options = slices.Clone(cp.Options)
		c.Checkpoints[i] = cp
	}
	if s.RemainingSeconds != nil {
		r := *s.RemainingSeconds
		c.RemainingSeconds = &r
	}
	return c
}
