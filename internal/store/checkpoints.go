package store

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/geo"
	"github.com/playperu/geohunt/internal/hunt"
)

var customCheckpointColumns = []string{
	"c.id", "c.lat", "c.lng",
	"q.id", "q.question", "q.answer", "q.options", "q.points", "q.difficulty", "q.subject",
}

func scanCustomCheckpoint(row scanner) (hunt.CustomCheckpoint, error) {
	var (
		c       hunt.CustomCheckpoint
		options string
	)
	q := &c.Question
	if err := row.Scan(&c.ID, &c.Position.Lat, &c.Position.Lng,
		&q.ID, &q.Prompt, &q.Answer, &options, &q.Points, &q.Difficulty, &q.Subject); err != nil {
		return hunt.CustomCheckpoint{}, err
	}
	if err := decodeOptions(q, options); err != nil {
		return hunt.CustomCheckpoint{}, err
	}
	return c, nil
}

// CreateCustomCheckpoint pins question questionID at pos. An invalid
// position is InvalidInput and an unknown question NotFound.
func (s *Store) CreateCustomCheckpoint(ctx context.Context, questionID int64, pos geo.Coordinate) (hunt.CustomCheckpoint, error) {
	if err := pos.Validate(); err != nil {
		return hunt.CustomCheckpoint{}, err
	}
	q, err := s.Question(ctx, questionID)
	if err != nil {
		return hunt.CustomCheckpoint{}, err
	}

	sqlStr, args, err := sqlBuilder.Insert("custom_checkpoints").
		Columns("question_id", "lat", "lng").
		Values(questionID, pos.Lat, pos.Lng).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return hunt.CustomCheckpoint{}, fmt.Errorf("building insert: %w", err)
	}
	c := hunt.CustomCheckpoint{Position: pos, Question: q}
	if err := s.db.QueryRowContext(ctx, sqlStr, args...).Scan(&c.ID); err != nil {
		return hunt.CustomCheckpoint{}, fmt.Errorf("inserting custom checkpoint: %w", err)
	}
	s.logger.Info("custom checkpoint created", "checkpoint_id", c.ID, "question_id", questionID)
	return c, nil
}

// CustomCheckpoints returns every custom checkpoint with its question,
// ordered by id.
func (s *Store) CustomCheckpoints(ctx context.Context) ([]hunt.CustomCheckpoint, error) {
	sqlStr, args, err := sqlBuilder.Select(customCheckpointColumns...).
		From("custom_checkpoints c").
		Join("questions q ON q.id = c.question_id").
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []hunt.CustomCheckpoint{}
	for rows.Next() {
		c, err := scanCustomCheckpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// DeleteCustomCheckpoint removes custom checkpoint id, or returns an apperr
// NotFound error.
func (s *Store) DeleteCustomCheckpoint(ctx context.Context, id int64) error {
	sqlStr, args, err := sqlBuilder.Delete("custom_checkpoints").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("custom checkpoint", id)
	}
	return nil
}
