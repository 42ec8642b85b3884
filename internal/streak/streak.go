// Package streak tracks consecutive calendar days with at least one
// completed hunt. It never reads the wall clock; callers pass "today".
package streak

import "time"

// DateLayout is the persisted form of a calendar day.
const DateLayout = "2006-01-02"

// State is a player's running streak.
type State struct {
	CurrentStreak int        `json:"currentStreak"`
	LongestStreak int        `json:"longestStreak"`
	LastCompleted *time.Time `json:"lastCompletedDate"`
}

// Day truncates t to midnight UTC of its own calendar date, keeping the
// wall-clock date t carries in its location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a DateLayout string.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// RecordCompletion applies one full-session completion on today.
func RecordCompletion(today time.Time, s State) State {
	today = Day(today)
	yesterday := today.AddDate(0, 0, -1)

	switch {
	case s.LastCompleted == nil || Day(*s.LastCompleted).Equal(yesterday):
		s.CurrentStreak++
	case !Day(*s.LastCompleted).Equal(today):
		s.CurrentStreak = 1
	}
	// A second completion on the same day leaves CurrentStreak alone.

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	s.LastCompleted = &today
	return s
}

// Effective returns the streak as it should be displayed on today: a streak
// whose last completion is older than yesterday has lapsed.
func Effective(today time.Time, s State) int {
	if s.LastCompleted == nil {
		return 0
	}
	last := Day(*s.LastCompleted)
	today = Day(today)
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		return s.CurrentStreak
	}
	return 0
}
