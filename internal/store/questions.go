package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/playperu/geohunt/internal/apperr"
	"github.com/playperu/geohunt/internal/hunt"
)

const maxListLimit = 500

var questionColumns = []string{"id", "question", "answer", "options", "points", "difficulty", "subject"}

// QuestionFilter narrows ListQuestions. Zero values mean no filter.
type QuestionFilter struct {
	Difficulty hunt.Difficulty
	Limit      int
}

type scanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row scanner) (hunt.Question, error) {
	var (
		q       hunt.Question
		options string
	)
	if err := row.Scan(&q.ID, &q.Prompt, &q.Answer, &options, &q.Points, &q.Difficulty, &q.Subject); err != nil {
		return hunt.Question{}, err
	}
	if err := decodeOptions(&q, options); err != nil {
		return hunt.Question{}, err
	}
	return q, nil
}

func decodeOptions(q *hunt.Question, raw string) error {
	if err := json.Unmarshal([]byte(raw), &q.Options); err != nil {
		return fmt.Errorf("decoding options of question %d: %w", q.ID, err)
	}
	return nil
}

func (s *Store) queryQuestions(ctx context.Context, query squirrel.SelectBuilder) ([]hunt.Question, error) {
	sqlStr, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building query: %w", err)
	}
	rows, err := s.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	questions := []hunt.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CreateQuestion validates q, inserts it and sets q.ID.
func (s *Store) CreateQuestion(ctx context.Context, q *hunt.Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	return insertQuestion(ctx, s.db, q)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertQuestion(ctx context.Context, db rowQuerier, q *hunt.Question) error {
	options, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("encoding options: %w", err)
	}
	sqlStr, args, err := sqlBuilder.Insert("questions").
		Columns("question", "answer", "options", "points", "difficulty", "subject").
		Values(q.Prompt, q.Answer, string(options), q.Points, string(q.Difficulty), q.Subject).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}
	if err := db.QueryRowContext(ctx, sqlStr, args...).Scan(&q.ID); err != nil {
		return fmt.Errorf("inserting question: %w", err)
	}
	return nil
}

// ImportQuestions inserts all questions in one transaction. Nothing is
// written if any question is invalid.
func (s *Store) ImportQuestions(ctx context.Context, questions []hunt.Question) (int, error) {
	for i := range questions {
		if err := questions[i].Validate(); err != nil {
			return 0, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i := range questions {
			if err := insertQuestion(ctx, tx, &questions[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("imported questions", "count", len(questions))
	return len(questions), nil
}

// Question returns the question with id, or an apperr NotFound error.
func (s *Store) Question(ctx context.Context, id int64) (hunt.Question, error) {
	sqlStr, args, err := sqlBuilder.Select(questionColumns...).
		From("questions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return hunt.Question{}, fmt.Errorf("building query: %w", err)
	}
	q, err := scanQuestion(s.db.QueryRowContext(ctx, sqlStr, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return hunt.Question{}, apperr.NotFound("question", id)
	}
	return q, err
}

// RandomQuestions returns up to count distinct questions in random order.
func (s *Store) RandomQuestions(ctx context.Context, count int) ([]hunt.Question, error) {
	if count < 1 {
		return []hunt.Question{}, nil
	}
	return s.queryQuestions(ctx, sqlBuilder.Select(questionColumns...).
		From("questions").
		OrderBy("RANDOM()").
		Limit(uint64(count)))
}

// ListQuestions returns questions ordered by id.
func (s *Store) ListQuestions(ctx context.Context, filter QuestionFilter) ([]hunt.Question, error) {
	query := sqlBuilder.Select(questionColumns...).From("questions")
	if filter.Difficulty != "" {
		if !filter.Difficulty.Valid() {
			return nil, apperr.InvalidInput("difficulty", "must be easy, medium or hard")
		}
		query = query.Where(squirrel.Eq{"difficulty": string(filter.Difficulty)})
	}
	limit := filter.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	return s.queryQuestions(ctx, query.OrderBy("id").Limit(uint64(limit)))
}

func (s *Store) CountQuestions(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n)
	return n, err
}

// DeleteQuestion removes question id, or returns an apperr NotFound error.
func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	sqlStr, args, err := sqlBuilder.Delete("questions").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}
	res, err := s.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return apperr.NotFound("question", id)
	}
	return nil
}

// DefaultQuestions is the starter set loaded into an empty store.
func DefaultQuestions() []hunt.Question {
	return []hunt.Question{
		{
			Prompt:     "What is the chemical symbol for Gold?",
			Answer:     "Au",
			Options:    []string{"Au", "Ag", "Fe", "Cu"},
			Points:     10,
			Difficulty: hunt.DifficultyEasy,
		},
		{
			Prompt:     "Which planet is known as the Red Planet?",
			Answer:     "Mars",
			Options:    []string{"Venus", "Mars", "Jupiter", "Saturn"},
			Points:     10,
			Difficulty: hunt.DifficultyEasy,
		},
		{
			Prompt:     "What is the powerhouse of the cell?",
			Answer:     "Mitochondria",
			Options:    []string{"Nucleus", "Mitochondria", "Ribosome", "Golgi"},
			Points:     15,
			Difficulty: hunt.DifficultyMedium,
		},
		{
			Prompt:     "What gas do plants absorb from the atmosphere?",
			Answer:     "Carbon Dioxide",
			Options:    []string{"Oxygen", "Nitrogen", "Carbon Dioxide", "Hydrogen"},
			Points:     10,
			Difficulty: hunt.DifficultyEasy,
		},
		{
			Prompt:     "How many bones are in the adult human body?",
			Answer:     "206",
			Options:    []string{"206", "208", "210", "205"},
			Points:     20,
			Difficulty: hunt.DifficultyHard,
		},
	}
}

// SeedDefaultQuestions loads DefaultQuestions when the store is empty and
// reports how many were inserted.
func (s *Store) SeedDefaultQuestions(ctx context.Context) (int, error) {
	n, err := s.CountQuestions(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting questions: %w", err)
	}
	if n > 0 {
		return 0, nil
	}
	return s.ImportQuestions(ctx, DefaultQuestions())
}
