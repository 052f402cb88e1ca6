package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/videotube/videotube/internal/config"
	"github.com/videotube/videotube/internal/services"
	"github.com/videotube/videotube/internal/workers"
	"github.com/videotube/videotube/pkg/cache"
	"github.com/videotube/videotube/pkg/logger"
	"github.com/videotube/videotube/pkg/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logger.NewLogger()
	logger.SetLevelName(cfg.Server.LogLevel)
	logger.Info("Starting VideoTube worker...")

	redisClient := cache.NewRedisClient(
		cfg.Redis.Addr(),
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
		cfg.Redis.MinIdleConns,
	)
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	topics := []string{
		cfg.Kafka.Topics.SubscriptionEvents,
		cfg.Kafka.Topics.UserEvents,
		cfg.Kafka.Topics.VideoEvents,
	}
	consumers := make([]workers.Consumer, 0, len(topics))
	for _, topic := range topics {
		consumer := queue.NewKafkaConsumer(cfg.Kafka.Brokers, topic, cfg.Kafka.GroupID, logger)
		defer consumer.Close()
		consumers = append(consumers, consumer)
	}

	stats := services.NewStatsCache(redisClient, cfg.Cache.ChannelStatsTTL, logger)
	worker := workers.NewEventWorker(stats, logger, consumers...)

	done := make(chan error, 1)
	go func() {
		done <- worker.Start(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("Shutting down worker...")
		cancel()
		<-done
	case err := <-done:
		if err != nil {
			logger.WithError(err).Error("Event worker stopped with error")
		}
	}

	logger.Info("Worker exited")
}
