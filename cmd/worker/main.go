package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"foliogen/internal/ai"
	"foliogen/internal/config"
	"foliogen/internal/database"
	"foliogen/internal/metrics"
	"foliogen/internal/storage"
	"foliogen/internal/tasks"
	"foliogen/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}
	logger.Info("database connection ready for worker")

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	logger.Info("storage client ready", slog.String("bucket", cfg.MinIO.Bucket))

	redisAddr := fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port)
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	keyPool := ai.NewKeyPool(cfg.AI.APIKeys)
	completer := ai.NewGroqClient(
		keyPool,
		cfg.AI.BaseURL,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
		logger,
	)
	aiService := ai.NewService(completer, cfg.AI.Model, cfg.AI.PortfolioModel, logger)

	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
	})

	portfolioHandler := worker.NewPortfolioTaskHandler(db, aiService, storageClient, redisClient, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypePortfolioGenerate, portfolioHandler)

	logger.Info("worker service started",
		slog.String("redis_addr", redisAddr),
		slog.Int("key_count", keyPool.Size()),
	)
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}
