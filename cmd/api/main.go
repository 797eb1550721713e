package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mutant-hq/mutant/internal/api"
	"github.com/mutant-hq/mutant/internal/config"
	"github.com/mutant-hq/mutant/internal/db"
	"github.com/mutant-hq/mutant/internal/jobs"
	mutantnats "github.com/mutant-hq/mutant/internal/nats"
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

	ctx := context.Background()
	deps := api.Deps{}

	// Connect to Postgres (optional, API degrades to 503 on backed routes)
	if cfg.DatabaseURL != "" {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Warn().Err(err).Msg("run history unavailable, continuing without it")
		} else {
			defer database.Close()
			deps.Store = db.NewStore(database)
		}

		sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil || sqlDB.Ping() != nil {
			log.Warn().Msg("job queue unavailable, continuing without it")
		} else {
			defer sqlDB.Close()
			repo := jobs.NewRepository(sqlDB)
			deps.JobRepo = repo

			// NATS is optional, workers fall back to DB polling
			var natsClient *mutantnats.Client
			if cfg.NATSURL != "" {
				natsClient, err = mutantnats.NewClient(cfg.NATSURL)
				if err != nil {
					log.Warn().Err(err).Msg("NATS unavailable, jobs will be picked up by polling")
					natsClient = nil
				} else {
					defer natsClient.Close()
				}
			}
			deps.Pipeline = jobs.NewPipeline(repo, natsClient)
		}
	}

	// Create server
	srv, err := api.NewServer(cfg, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create server")
	}

	// Start server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info().Msg("server is shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Fatal().Err(err).Msg("could not gracefully shutdown the server")
		}
		close(done)
	}()

	log.Info().Int("port", cfg.Port).Msg("starting API server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("could not listen on port")
	}

	<-done
	log.Info().Msg("server stopped")
}
