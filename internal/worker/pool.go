package worker

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mutant-hq/mutant/internal/config"
	"github.com/mutant-hq/mutant/internal/db"
	"github.com/mutant-hq/mutant/internal/jobs"
	mutantnats "github.com/mutant-hq/mutant/internal/nats"
)

// WorkerType represents the type of worker
type WorkerType string

const (
	WorkerMutation WorkerType = "mutation"
	WorkerQuality  WorkerType = "quality"
	WorkerAll      WorkerType = "all"
)

// Pool manages a pool of workers
type Pool struct {
	cfg        *config.Config
	workerType WorkerType
	workers    []Worker
	nats       *mutantnats.Client
	repo       *jobs.Repository
	pipeline   *jobs.Pipeline
	db         *sql.DB
	store      *db.Store
}

// Worker is the interface all workers must implement
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	Config     *config.Config
	WorkerType string
	DB         *sql.DB
	NATS       *mutantnats.Client
	Store      *db.Store // Run-history store for persisting results
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) (*Pool, error) {
	p := &Pool{
		cfg:        cfg.Config,
		workerType: WorkerType(cfg.WorkerType),
		workers:    make([]Worker, 0),
		db:         cfg.DB,
		nats:       cfg.NATS,
		store:      cfg.Store,
	}

	// Initialize job repository if DB is available
	if cfg.DB != nil {
		p.repo = jobs.NewRepository(cfg.DB)
		p.pipeline = jobs.NewPipeline(p.repo, cfg.NATS)
	}

	if err := p.initWorkers(); err != nil {
		return nil, fmt.Errorf("failed to initialize workers: %w", err)
	}

	return p, nil
}

func (p *Pool) initWorkers() error {
	switch p.workerType {
	case WorkerAll:
		p.addWorker(jobs.JobTypeMutation)
		p.addWorker(jobs.JobTypeQuality)
	case WorkerMutation:
		p.addWorker(jobs.JobTypeMutation)
	case WorkerQuality:
		p.addWorker(jobs.JobTypeQuality)
	default:
		return fmt.Errorf("unknown worker type: %s", p.workerType)
	}

	return nil
}

func (p *Pool) addWorker(jobType jobs.JobType) {
	baseCfg := BaseWorkerConfig{
		Config:     p.cfg,
		JobType:    jobType,
		Repository: p.repo,
		NATS:       p.nats,
		Pipeline:   p.pipeline,
	}

	base := NewBaseWorker(baseCfg)

	var worker Worker
	switch jobType {
	case jobs.JobTypeMutation:
		worker = NewMutationWorker(base, p.store)
	case jobs.JobTypeQuality:
		worker = NewQualityWorker(base, p.store)
	}

	if worker != nil {
		p.workers = append(p.workers, worker)
	}
}

// Run starts all workers and blocks until context is cancelled
func (p *Pool) Run(ctx context.Context) error {
	if len(p.workers) == 0 {
		return fmt.Errorf("no workers configured")
	}

	// Set up NATS streams if connected
	if p.nats != nil && p.nats.IsConnected() {
		if err := p.nats.SetupStreams(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to setup NATS streams, workers will poll DB")
		} else {
			log.Info().Msg("NATS streams configured")
		}
	}

	errCh := make(chan error, len(p.workers))

	// Start all workers
	for _, w := range p.workers {
		go func(worker Worker) {
			log.Info().Str("worker", worker.Name()).Msg("starting worker")
			if err := worker.Run(ctx); err != nil {
				errCh <- fmt.Errorf("worker %s failed: %w", worker.Name(), err)
			}
		}(w)
	}

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		log.Info().Msg("context cancelled, stopping workers")
		return nil
	case err := <-errCh:
		return err
	}
}

// Pipeline returns the job pipeline manager
func (p *Pool) Pipeline() *jobs.Pipeline {
	return p.pipeline
}

// Repository returns the job repository
func (p *Pool) Repository() *jobs.Repository {
	return p.repo
}

// NATS returns the NATS client
func (p *Pool) NATS() *mutantnats.Client {
	return p.nats
}
