// Command seed imports a question pool from a JSON file of
// [{"question", "answer", "choices", "points", "difficulty"}] objects.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/playperu/geohunt/internal/config"
	"github.com/playperu/geohunt/internal/database"
	"github.com/playperu/geohunt/internal/hunt"
	"github.com/playperu/geohunt/internal/migrations"
	"github.com/playperu/geohunt/internal/store"
)

type seedQuestion struct {
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Choices    []string        `json:"choices"`
	Points     *int            `json:"points"`
	Difficulty hunt.Difficulty `json:"difficulty"`
	Subject    string          `json:"subject"`
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	input := flag.String("input", "", "JSON file of questions (required)")
	flag.Parse()
	if *input == "" {
		fmt.Fprintln(os.Stderr, "error: -input flag is required")
		flag.PrintDefaults()
		os.Exit(2)
	}

	if err := run(ctx, os.Stdout, *input); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	questions, err := readQuestions(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	n, err := store.New(db, logger).ImportQuestions(ctx, questions)
	if err != nil {
		return fmt.Errorf("importing questions: %w", err)
	}
	logger.Info("questions imported", "count", n, "path", path, "db", cfg.DBPath)
	return nil
}

// readQuestions decodes the seed format. Points default to 10.
func readQuestions(r io.Reader) ([]hunt.Question, error) {
	var raw []seedQuestion
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, err
	}
	out := make([]hunt.Question, 0, len(raw))
	for _, s := range raw {
		q := hunt.Question{
			Prompt:     s.Question,
			Answer:     s.Answer,
			Options:    s.Choices,
			Points:     10,
			Difficulty: s.Difficulty,
			Subject:    s.Subject,
		}
		if s.Points != nil {
			q.Points = *s.Points
		}
		out = append(out, q)
	}
	return out, nil
}
