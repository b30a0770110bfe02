package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/lmittmann/tint"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizzler/internal/app"
	"quizzler/internal/config"
	"quizzler/internal/infra/memory"
	"quizzler/internal/infra/postgres"
	redisnotify "quizzler/internal/infra/redis"
	transport "quizzler/internal/transport/http"
)

// NewServeCmd builds the CLI subcommand to start the API server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyEnvOverrides(&cfg)

	logger := slog.New(tint.NewHandler(os.Stdout, &tint.Options{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if cfg.Postgres.URL != "" {
		if err := runMigrations(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	defaults := app.Defaults{
		TeamColor:      config.StringOr(cfg.Defaults.TeamColor, "#6A0DAD"),
		TimerSeconds:   config.IntOr(cfg.Defaults.TimerSeconds, 30),
		QuestionPoints: config.IntOr(cfg.Defaults.QuestionPoints, 10),
	}

	var teams app.TeamRepository
	var questions app.QuestionRepository
	var scores app.ScoreRepository
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		teams = postgres.NewTeamRepository(pool)
		questions = postgres.NewQuestionRepository(pool)
		scores = postgres.NewScoreRepository(pool)
	} else {
		// No database configured: run fully in memory (demo mode).
		logger.Warn("postgres url not configured, using in-memory store")
		store := memory.NewStore()
		teams = store
		questions = store.Questions()
		scores = store.Scores()
	}

	var notifier app.Notifier
	if cfg.Redis.Addr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		rn := redisnotify.NewNotifier(ctx, client, logger)
		defer rn.Close()
		notifier = rn
	} else {
		notifier = memory.NewHub()
	}

	service := app.NewQuizService(teams, questions, scores, notifier, defaults, cfg.Uploads.Dir, logger)
	handler := transport.NewHandler(service, logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      handler.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting quizzler", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server...")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// applyEnvOverrides lets deployment env vars win over the YAML file.
func applyEnvOverrides(cfg *config.Config) {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.Postgres.URL = url
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
	}
}
