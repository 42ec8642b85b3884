package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/playperu/geohunt/internal/hunt"
)

// Settings returns the stored game settings, or hunt.DefaultSettings when
// none have been saved.
func (s *Store) Settings(ctx context.Context) (hunt.Settings, error) {
	var st hunt.Settings
	err := s.db.QueryRowContext(ctx, `
		SELECT time_limit_minutes, checkpoint_count, radius_meters
		FROM settings WHERE id = 1
	`).Scan(&st.TimeLimitMinutes, &st.CheckpointCount, &st.RadiusMeters)
	if errors.Is(err, sql.ErrNoRows) {
		return hunt.DefaultSettings(), nil
	}
	if err != nil {
		return hunt.Settings{}, fmt.Errorf("loading settings: %w", err)
	}
	return st, nil
}

// SaveSettings validates and stores st.
func (s *Store) SaveSettings(ctx context.Context, st hunt.Settings) error {
	if err := st.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (id, time_limit_minutes, checkpoint_count, radius_meters)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			time_limit_minutes = excluded.time_limit_minutes,
			checkpoint_count   = excluded.checkpoint_count,
			radius_meters      = excluded.radius_meters,
			updated_at         = strftime('%Y-%m-%dT%H:%M:%fZ', 'now')
	`, st.TimeLimitMinutes, st.CheckpointCount, st.RadiusMeters)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	return nil
}
