// Command worker consumes raw record batches from Kafka, normalizes them,
// and persists the results for the API server to analyze.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/medequity/pharmarisk/internal/application/ingest"
	"github.com/medequity/pharmarisk/internal/config"
	"github.com/medequity/pharmarisk/internal/infrastructure/database/postgres"
	"github.com/medequity/pharmarisk/internal/infrastructure/database/postgres/repositories"
	"github.com/medequity/pharmarisk/internal/infrastructure/messaging/kafka"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/prometheus"
)

func main() {
	configPath := flag.String("config", "", "path to config file; env-only when empty")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = logger.Named("worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("worker exited", logging.Err(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	if err := postgres.MigrateUp(cfg.MigrationPath, cfg.Database, logger); err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	worker := ingest.NewWorker(
		repositories.NewRecordRepository(pool),
		prometheus.NewMetrics(),
		logger,
	)

	consumer := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: cfg.Kafka.Brokers,
		GroupID: cfg.Kafka.GroupID,
		Topic:   kafka.TopicRecordsIngested,
	}, logger)
	defer consumer.Close()

	logger.Info("consuming", logging.String("topic", kafka.TopicRecordsIngested))
	return consumer.Run(ctx, worker.Handle)
}
