package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/playperu/geohunt/internal/streak"
)

// DayPoints is the score earned on one calendar day.
type DayPoints struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// Stats summarizes a player's history.
type Stats struct {
	CurrentStreak     int         `json:"currentStreak"`
	LongestStreak     int         `json:"longestStreak"`
	LastCompletedDate *string     `json:"lastCompletedDate"`
	SessionsCompleted int         `json:"sessionsCompleted"`
	TotalPoints       int         `json:"totalPoints"`
	ActivityDates     []string    `json:"activityDates"`
	PointsHistory     []DayPoints `json:"pointsHistory"`
}

func loadStreak(ctx context.Context, db rowQuerier, player string) (streak.State, error) {
	var (
		st   streak.State
		last sql.NullString
	)
	err := db.QueryRowContext(ctx, `
		SELECT current_streak, longest_streak, last_completed
		FROM streaks WHERE player_id = ?
	`, player).Scan(&st.CurrentStreak, &st.LongestStreak, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return streak.State{}, nil
	}
	if err != nil {
		return streak.State{}, fmt.Errorf("loading streak: %w", err)
	}
	if last.Valid {
		day, err := streak.ParseDay(last.String)
		if err != nil {
			return streak.State{}, fmt.Errorf("parsing last completed date %q: %w", last.String, err)
		}
		st.LastCompleted = &day
	}
	return st, nil
}

// Streak returns the stored streak state of player.
func (s *Store) Streak(ctx context.Context, player string) (streak.State, error) {
	return loadStreak(ctx, s.db, player)
}

// RecordCompletion logs a completed session and advances the player's
// streak in one transaction. Recording the same session twice is a no-op
// that returns the current state.
func (s *Store) RecordCompletion(ctx context.Context, player, sessionID string, points int, today time.Time) (streak.State, error) {
	day := streak.Day(today).Format(streak.DateLayout)

	var out streak.State
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO completions (session_id, player_id, completed_on, points)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(session_id) DO NOTHING
		`, sessionID, player, day, points)
		if err != nil {
			return fmt.Errorf("recording completion: %w", err)
		}

		st, err := loadStreak(ctx, tx, player)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			out = st
			return nil
		}

		st = streak.RecordCompletion(today, st)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO streaks (player_id, current_streak, longest_streak, last_completed)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(player_id) DO UPDATE SET
				current_streak = excluded.current_streak,
				longest_streak = excluded.longest_streak,
				last_completed = excluded.last_completed
		`, player, st.CurrentStreak, st.LongestStreak, st.LastCompleted.Format(streak.DateLayout))
		if err != nil {
			return fmt.Errorf("saving streak: %w", err)
		}
		out = st
		return nil
	})
	if err != nil {
		return streak.State{}, err
	}

	s.logger.Info("completion recorded",
		"player", player,
		"session_id", sessionID,
		"points", points,
		"current_streak", out.CurrentStreak,
	)
	return out, nil
}

// Stats returns the streak and completion history of player as seen on today.
func (s *Store) Stats(ctx context.Context, player string, today time.Time) (Stats, error) {
	st, err := loadStreak(ctx, s.db, player)
	if err != nil {
		return Stats{}, err
	}

	out := Stats{
		CurrentStreak: streak.Effective(today, st),
		LongestStreak: st.LongestStreak,
		ActivityDates: []string{},
		PointsHistory: []DayPoints{},
	}
	if st.LastCompleted != nil {
		d := st.LastCompleted.Format(streak.DateLayout)
		out.LastCompletedDate = &d
	}

	sqlStr, args, err := sqlBuilder.
		Select("completed_on", "COUNT(*)", "SUM(points)").
		From("completions").
		Where(squirrel.Eq{"player_id": player}).
		GroupBy("completed_on").
		OrderBy("completed_on").
		ToSql()
	if err != nil {
		return Stats{}, fmt.Errorf("building query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return Stats{}, fmt.Errorf("loading completions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			day           string
			count, points int
		)
		if err := rows.Scan(&day, &count, &points); err != nil {
			return Stats{}, err
		}
		out.SessionsCompleted += count
		out.TotalPoints += points
		out.ActivityDates = append(out.ActivityDates, day)
		out.PointsHistory = append(out.PointsHistory, DayPoints{Date: day, Points: points})
	}
	return out, rows.Err()
}
