package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/playperu/geohunt/internal/config"
	"github.com/playperu/geohunt/internal/database"
	"github.com/playperu/geohunt/internal/handler/health"
	"github.com/playperu/geohunt/internal/migrations"
	"github.com/playperu/geohunt/internal/position"
	"github.com/playperu/geohunt/internal/server"
	"github.com/playperu/geohunt/internal/store"
	"github.com/playperu/geohunt/internal/verify"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	st := store.New(db, logger)
	if err := seed(ctx, logger, st, cfg); err != nil {
		return err
	}

	checks := map[string]health.Checker{
		"sqlite": database.Checker{DB: db},
	}

	// --- Redis (optional) ---
	var positions position.Store = position.NewMemory(cfg.PositionTTL)
	if cfg.RedisURL != "" {
		rdb, err := openRedis(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		cache := position.NewRedis(rdb, cfg.PositionTTL)
		positions = cache
		checks["redis"] = cache
		logger.Info("connected to redis")
	} else {
		logger.Info("REDIS_URL not set, caching positions in memory")
	}

	// --- Photo classifier (optional) ---
	var classifier verify.Classifier
	if cfg.PhotoVerification() {
		classifier = verify.NewHTTPClassifier(verify.ClassifierConfig{
			URL:     cfg.ClassifierURL,
			APIKey:  cfg.ClassifierAPIKey,
			Model:   cfg.ClassifierModel,
			Timeout: cfg.ClassifierTimeout,
			Logger:  logger,
		})
		logger.Info("photo verification enabled", "model", cfg.ClassifierModel)
	} else {
		logger.Info("CLASSIFIER_API_KEY not set, photo verification disabled")
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Store:        st,
		Positions:    positions,
		Classifier:   classifier,
		TickInterval: cfg.TickInterval,
		Checks:       checks,
		SPADir:       cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

// seed loads the default question pool into an empty store and creates the
// configured admin account.
func seed(ctx context.Context, logger *slog.Logger, st *store.Store, cfg *config.Config) error {
	if cfg.SeedQuestions {
		n, err := st.SeedDefaultQuestions(ctx)
		if err != nil {
			return fmt.Errorf("seeding questions: %w", err)
		}
		if n > 0 {
			logger.Info("seeded default questions", "count", n)
		}
	}

	if cfg.AdminEmail != "" {
		created, err := st.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("creating admin: %w", err)
		}
		if created {
			logger.Info("admin account created", "email", cfg.AdminEmail)
		}
	}
	return nil
}

func openRedis(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
