package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	app "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/app/engine"
	eventpublisher "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/usecase/event-publisher"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/usecase/history"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/usecase/ledger"
	orderreader "github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/usecase/order-reader"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/usecase/orderbook"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/internal/usecase/snapshot"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/config"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/logger"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/postgresql"
	"github.com/walterthesmart/Advanced-On-Chain-Order-Book-DEX/pkg/redis"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	cfg = &config.Config{}
	if err := config.Load(cfg); err != nil {
		panic(err)
	}

	l, err := logger.NewLogger()
	if err != nil {
		panic(err)
	}

	log = l
}

func main() {
	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Initialize Redis client for snapshots
	redisConfig := cfg.RedisConfig
	rclient := redis.NewClient(log, &redisConfig)
	if err := rclient.Connect(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_redis",
		})
		return
	}

	// Only one engine instance may mutate a pair's book. The lock is held
	// for the lifetime of the process and released on shutdown.
	writerLockKey := "orderbook:writer:" + cfg.Pair
	acquired, err := rclient.SetNX(ctx, writerLockKey, uuid.NewString(), 0)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "acquire_writer_lock",
		})
		return
	}
	if !acquired {
		log.Warn("Another engine instance holds the writer lock", logger.Field{
			Key:   "key",
			Value: writerLockKey,
		})
		return
	}

	// Initialize Postgres client for order and trade history
	pgClient, err := postgresql.NewClient(ctx, cfg.PostgresConfig)
	if err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "connect_postgres",
		})
		return
	}
	defer pgClient.Close()

	if !postgresql.IsHealthy(ctx, pgClient) {
		log.Warn("Postgres failed its health check", logger.Field{
			Key:   "database",
			Value: cfg.PostgresConfig.Database,
		})
		return
	}

	// Initialize components
	settlement := ledger.NewInMemoryWithOpening(log, cfg.Ledger.OpeningBase, cfg.Ledger.OpeningQuote)
	book := orderbook.NewBook(settlement, log)
	reader := orderreader.NewReader(cfg.KafkaConfig, log)
	snapshotStore := snapshot.NewSnapshotStore(rclient, cfg.Pair, log)
	publisher := eventpublisher.NewPublisher(cfg.EventPublisher, log)
	archive := history.NewRepository(pgClient, log)

	engine := app.NewEngine(
		book,
		reader,
		snapshotStore,
		publisher,
		archive,
		log,
		cfg,
	)

	// Start the engine
	if err := engine.Start(ctx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "start_engine",
		})
		return
	}

	log.Info("Order book service started successfully", logger.Field{
		Key:   "pair",
		Value: cfg.Pair,
	})

	// Wait for shutdown signal
	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{
		Key:   "signal",
		Value: sig.String(),
	})

	// Cancel the main context to signal shutdown
	cancel()

	// Create a timeout context for graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Stop the engine gracefully
	if err := engine.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "stop_engine",
		})
	}

	if err := publisher.Close(); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "close_event_publisher",
		})
	}

	if _, err := rclient.Del(shutdownCtx, writerLockKey); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "release_writer_lock",
		})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{
			Key:   "action",
			Value: "disconnect_redis",
		})
	}

	log.Info("Order book service shutdown complete")
}
