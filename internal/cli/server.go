package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"progress-dashboard/internal/app"
	"progress-dashboard/internal/config"
	"progress-dashboard/internal/domain"
	"progress-dashboard/internal/infra/memory"
	pgloader "progress-dashboard/internal/infra/postgres"
	rediscache "progress-dashboard/internal/infra/redis"
	"progress-dashboard/internal/logging"
	transport "progress-dashboard/internal/transport/http"
)

type snapshotLoader interface {
	memory.AssignmentLoader
	memory.ActivityLoader
}

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func setup(configPath string) (config.Config, *zap.Logger, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return cfg, nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return cfg, nil, fmt.Errorf("build logger: %w", err)
	}
	return cfg, logger, nil
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, logger, err := setup(configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}

	var loader snapshotLoader
	switch {
	case cfg.Postgres.URL != "":
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()
		loader = pgloader.NewLoader(pool)
		logger.Info("serving snapshots from postgres")
	case cfg.SeedFile != "":
		snapshot, err := readSnapshot(cfg.SeedFile)
		if err != nil {
			return err
		}
		loader = memory.NewStaticLoader(snapshot)
		logger.Info("serving seed snapshot", zap.String("file", cfg.SeedFile),
			zap.Int("assignments", len(snapshot.Assignments)))
	default:
		loader = memory.NewStaticLoader(sampleSnapshot(time.Now()))
		logger.Info("serving built-in sample snapshot")
	}

	cacheTTL := config.TTLDuration(cfg.Cache.TTL, time.Minute)
	var (
		assignments app.AssignmentRepository
		activity    app.ActivityRepository
		progress    app.ProgressStore
	)
	if redisClient != nil {
		redisTTL := config.TTLDuration(cfg.Redis.TTL, 5*time.Minute)
		assignments = rediscache.NewAssignmentRepository(redisClient, loader, redisTTL)
		activity = rediscache.NewActivityRepository(redisClient, loader, redisTTL)
		progress = rediscache.NewProgressStore(redisClient, config.TTLDuration(cfg.Redis.ProgressTTL, 0))
	} else {
		assignments = memory.NewAssignmentRepository(loader, cacheTTL)
		activity = memory.NewActivityRepository(loader, cacheTTL)
		progress = memory.NewProgressStore()
	}

	service := app.NewDashboardService(assignments, activity, progress, logger)
	refresh := config.TTLDuration(cfg.Server.RefreshInterval, 30*time.Second)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, logger, refresh),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("starting dashboard service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleSnapshot is demo data relative to now so every status shows up.
func sampleSnapshot(now time.Time) domain.Snapshot {
	day := 24 * time.Hour
	repo := "https://github.com/ada/linked-lists"
	commits := make([]domain.Commit, 0, 12)
	for i := 0; i < 12; i++ {
		commits = append(commits, domain.Commit{
			Date:    domain.NewTimestamp(now.Add(-time.Duration(i*2) * day)),
			Author:  "ada",
			Message: fmt.Sprintf("step %d", i+1),
		})
	}
	web := domain.ClassRef{ID: "class-web", Name: "Web Development"}
	algo := domain.ClassRef{ID: "class-algo", Name: "Algorithms"}
	return domain.Snapshot{
		Classes: []domain.Class{
			{ID: web.ID, Name: web.Name, TeacherID: "t-1"},
			{ID: algo.ID, Name: algo.Name, TeacherID: "t-2"},
		},
		Assignments: []domain.Assignment{
			{
				ID: "a-1", Title: "Linked Lists", Description: "Implement a singly linked list",
				DueDate: domain.NewTimestamp(now.Add(day)), Points: 10, Class: algo, TeacherID: "t-2",
				StudentSubmissions: []domain.StudentSubmission{
					{StudentID: "s-1", Submitted: true, RepoURL: &repo},
					{StudentID: "s-2", Submitted: false},
				},
			},
			{
				ID: "a-2", Title: "Landing Page", Description: "Responsive HTML and CSS",
				DueDate: domain.NewTimestamp(now.Add(-3 * day)), Points: 20, Class: web, TeacherID: "t-1",
				StudentSubmissions: []domain.StudentSubmission{
					{StudentID: "s-2", Submitted: false},
				},
			},
			{
				ID: "a-3", Title: "REST API", Description: "Build a CRUD service",
				DueDate: domain.NewTimestamp(now.Add(10 * day)), Points: 30, Class: web, TeacherID: "t-1",
			},
		},
		Activity: []domain.StudentActivity{
			{
				StudentID: "s-1",
				Repos: []domain.Repository{
					{Name: "linked-lists", Commits: commits},
					{Name: "dotfiles"},
				},
				Profile: &domain.PracticeProfile{SolvedProblem: 42, SubmissionRate: 65},
			},
			{StudentID: "s-2", Repos: []domain.Repository{}},
		},
	}
}
