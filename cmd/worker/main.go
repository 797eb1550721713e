package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mutant-hq/mutant/internal/config"
	"github.com/mutant-hq/mutant/internal/db"
	mutantnats "github.com/mutant-hq/mutant/internal/nats"
	"github.com/mutant-hq/mutant/internal/worker"
)

func main() {
	// Setup logging
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Determine worker type from env or args
	workerType := os.Getenv("WORKER_TYPE")
	if workerType == "" {
		workerType = "all" // Run all worker types
	}

	// Connect to the job queue database (optional)
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		sqlDB, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to database, workers will run in limited mode")
		} else if err := sqlDB.Ping(); err != nil {
			log.Warn().Err(err).Msg("database ping failed, workers will run in limited mode")
			sqlDB.Close()
			sqlDB = nil
		} else {
			log.Info().Msg("connected to database")
			defer sqlDB.Close()
		}
	}

	// Run-history store shares the same database but uses its own pool
	var store *db.Store
	if sqlDB != nil {
		database, err := db.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("run history unavailable, results will not be persisted")
		} else {
			defer database.Close()
			store = db.NewStore(database)
		}
	}

	// Connect to NATS (optional)
	var natsClient *mutantnats.Client
	if cfg.NATSURL != "" {
		natsClient, err = mutantnats.NewClient(cfg.NATSURL)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to NATS, workers will poll database")
		} else {
			log.Info().Str("url", cfg.NATSURL).Msg("connected to NATS")
			defer natsClient.Close()
		}
	}

	// Create worker pool
	poolCfg := worker.PoolConfig{
		Config:     cfg,
		WorkerType: workerType,
		DB:         sqlDB,
		NATS:       natsClient,
		Store:      store,
	}

	pool, err := worker.NewPool(poolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create worker pool")
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("worker pool is shutting down...")
		cancel()
	}()

	log.Info().Str("type", workerType).Msg("starting worker pool")
	if err := pool.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("worker pool error")
	}

	log.Info().Msg("worker pool stopped")
}
