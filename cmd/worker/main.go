package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/mkravtsov/contentgen/internal/cache"
	"github.com/mkravtsov/contentgen/internal/config"
	"github.com/mkravtsov/contentgen/internal/database"
	"github.com/mkravtsov/contentgen/internal/generation"
	"github.com/mkravtsov/contentgen/internal/prompt"
	"github.com/mkravtsov/contentgen/internal/provider"
	"github.com/mkravtsov/contentgen/internal/queue"
	"github.com/mkravtsov/contentgen/internal/queue/workers"
	"github.com/mkravtsov/contentgen/internal/subject"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	promptRepo := prompt.NewPostgresRepository(db)
	contentRepo := generation.NewPostgresRepository(db)
	promptSvc := prompt.NewService(promptRepo, contentRepo)
	statsAgg := prompt.NewStatsAggregator(
		contentRepo,
		cache.NewCache(rdb),
		time.Duration(cfg.Generation.StatsCacheTTLSeconds)*time.Second,
	)
	registry := subject.NewStoreRegistry(db)
	linker := generation.NewLinker(promptSvc, registry, contentRepo, statsAgg)
	gateway := provider.NewGateway(cfg.Provider)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		},
		asynq.Config{
			Concurrency: cfg.Generation.WorkerConcurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	handlers := queue.NewHandlersRegistry()
	generationWorker := workers.NewGenerationWorker(gateway, linker)
	handlers.Register(queue.TypeGenerationRun, asynq.HandlerFunc(generationWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", cfg.Generation.WorkerConcurrency)
	if err := srv.Run(handlers.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
