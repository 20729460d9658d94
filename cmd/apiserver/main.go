// Command apiserver serves the analysis API over HTTP.  Events and patents
// are read from Postgres (populated by the ingest worker), results are
// memoized in Redis, and alerts are streamed to Kafka.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/medequity/pharmarisk/internal/application/alerting"
	"github.com/medequity/pharmarisk/internal/application/analysis"
	"github.com/medequity/pharmarisk/internal/application/approval"
	"github.com/medequity/pharmarisk/internal/application/cliff"
	"github.com/medequity/pharmarisk/internal/application/risk"
	"github.com/medequity/pharmarisk/internal/config"
	"github.com/medequity/pharmarisk/internal/infrastructure/database/postgres"
	"github.com/medequity/pharmarisk/internal/infrastructure/database/postgres/repositories"
	"github.com/medequity/pharmarisk/internal/infrastructure/database/redis"
	"github.com/medequity/pharmarisk/internal/infrastructure/messaging/kafka"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/logging"
	"github.com/medequity/pharmarisk/internal/infrastructure/monitoring/prometheus"
	httpiface "github.com/medequity/pharmarisk/internal/interfaces/http"
	"github.com/medequity/pharmarisk/internal/interfaces/http/handlers"
)

func main() {
	configPath := flag.String("config", "", "path to config file; env-only when empty")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger = logger.Named("apiserver")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("apiserver exited", logging.Err(err))
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
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

	recordRepo := repositories.NewRecordRepository(pool)
	companyRepo := repositories.NewCompanyRepository(pool)

	cache := redis.NewCache(cfg.Redis, logger)
	producer := kafka.NewProducer(kafka.ProducerConfig{
		Brokers:      cfg.Kafka.Brokers,
		BatchTimeout: cfg.Kafka.BatchTimeout,
		WriteTimeout: cfg.Kafka.WriteTimeout,
	}, logger)
	defer producer.Close()

	metrics := prometheus.NewMetrics()

	svc := analysis.NewService(
		companyRepo,
		analysis.NewStoreEventSource(recordRepo),
		analysis.NewStorePatentSource(recordRepo),
		risk.NewScorer(cfg.Analytics.Risk),
		approval.NewPredictor(cfg.Analytics.Approval),
		cliff.NewAnalyzer(cfg.Analytics.Cliff),
		alerting.NewGenerator(cfg.Analytics.Alerting),
		cache,
		producer,
		metrics,
		logger,
		analysis.Options{ResultTTL: cfg.Analytics.ResultTTL},
	)

	router := httpiface.NewRouter(httpiface.RouterDeps{
		Service: svc,
		Metrics: metrics,
		Logger:  logger,
		Mode:    cfg.Server.Mode,
		Pingers: map[string]handlers.Pinger{
			"postgres": poolPinger{pool: pool},
			"redis":    cache,
		},
	})
	server := httpiface.NewServer(httpiface.ServerConfig{
		Port:            cfg.Server.Port,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	return server.Run(ctx)
}

type poolPinger struct {
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (p poolPinger) Ping(ctx context.Context) error { return p.pool.Ping(ctx) }
