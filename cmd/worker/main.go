package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/postflow/modules/posting"
	"github.com/dmitrymomot/postflow/pkg/config"
	"github.com/dmitrymomot/postflow/pkg/events"
	"github.com/dmitrymomot/postflow/pkg/httpserver"
	"github.com/dmitrymomot/postflow/pkg/logger"
	"github.com/dmitrymomot/postflow/pkg/media"
	"github.com/dmitrymomot/postflow/pkg/pg"
	"github.com/dmitrymomot/postflow/pkg/queue"
	"github.com/dmitrymomot/postflow/pkg/timing"
)

type appConfig struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`

	HTTP    httpserver.Config
	Queue   queue.Config
	Timing  timing.Config
	Media   media.Config
	Posting posting.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		slog.Error("worker exited", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg appConfig
	if err := config.Load(&cfg); err != nil {
		return err
	}

	log := logger.New(logger.WithEnvironment(cfg.Environment, "postflow-worker"))
	logger.SetAsDefault(log)

	// A database outage must not take the ops surface down with it: without
	// Postgres the daemon still serves /healthz and reports NOT_READY.
	pool, pgErr := connectPostgres(ctx, log)
	if pool != nil {
		defer pool.Close()
	}

	eg, ctx := errgroup.WithContext(ctx)

	deps := &opsDeps{log: log}
	if pgErr != nil {
		log.WarnContext(ctx, "postgres unavailable, queue features disabled", logger.Error(pgErr))
		deps.ready = func(context.Context) error { return pgErr }
	} else {
		deps.ready = pg.Healthcheck(pool)
		if err := buildPipeline(ctx, eg, pool, cfg, log, deps); err != nil {
			return err
		}
	}

	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	eg.Go(func() error { return srv.Run(ctx, newRouter(ctx, deps)) })

	return eg.Wait()
}

func connectPostgres(ctx context.Context, log *slog.Logger) (*pgxpool.Pool, error) {
	var pgCfg pg.Config
	if err := config.Load(&pgCfg); err != nil {
		return nil, err
	}

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return nil, err
	}

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// buildPipeline wires storages, the event log, the timing components, the
// submission processor and the queue worker, and registers the long-running
// parts on the errgroup.
func buildPipeline(ctx context.Context, eg *errgroup.Group, pool *pgxpool.Pool, cfg appConfig, log *slog.Logger, deps *opsDeps) error {
	storage, err := queue.NewPostgresStorage(pool)
	if err != nil {
		return err
	}

	eventStorage, err := events.NewPostgresStorage(pool)
	if err != nil {
		return err
	}
	eventWriter, err := events.NewAsyncWriter(eventStorage, events.AsyncOptions{})
	if err != nil {
		return err
	}
	eventLog, err := events.NewLog(eventWriter)
	if err != nil {
		return err
	}

	engagementStore, err := timing.NewPostgresEngagementStore(pool)
	if err != nil {
		return err
	}
	recorder, err := timing.NewRecorder(engagementStore, timing.WithRecorderLogger(log))
	if err != nil {
		return err
	}
	optimizer, err := newOptimizer(engagementStore, cfg.Timing, log)
	if err != nil {
		return err
	}

	postStore, err := posting.NewPostgresPostStore(pool)
	if err != nil {
		return err
	}

	processorOpts := []posting.ProcessorOption{posting.WithProcessorLogger(log)}
	if resolver := newMediaResolver(ctx, cfg.Media, log); resolver != nil {
		processorOpts = append(processorOpts, posting.WithMediaResolver(resolver))
	}
	processor, err := posting.NewProcessor(unconfiguredAccounts{}, postStore, eventLog, processorOpts...)
	if err != nil {
		return err
	}

	registry := queue.NewRegistry()
	if err := registry.Register(posting.QueueName, processor.QueueProcessor(),
		queue.WithConcurrency(cfg.Posting.Concurrency)); err != nil {
		return err
	}

	worker, err := queue.NewWorker(storage, registry,
		queue.WithPollInterval(cfg.Queue.PollInterval),
		queue.WithReapAfter(cfg.Queue.ReapAfter),
		queue.WithReapInterval(cfg.Queue.ReapInterval),
		queue.WithWorkerLogger(log),
	)
	if err != nil {
		return err
	}

	enqueuer, err := queue.NewEnqueuer(storage)
	if err != nil {
		return err
	}
	scheduler, err := posting.NewScheduler(postStore, enqueuer, optimizer,
		posting.WithSchedulerLogger(log),
		posting.WithDefaultTimezone(cfg.Posting.DefaultTimezone),
	)
	if err != nil {
		return err
	}

	eg.Go(worker.Run(ctx))
	eg.Go(func() error {
		// Flush buffered audit events once the worker winds down.
		<-ctx.Done()
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Queue.ShutdownTimeout)
		defer cancel()
		return eventWriter.Close(closeCtx)
	})

	deps.worker = worker
	deps.registry = registry
	deps.recorder = recorder
	deps.scheduler = scheduler
	return nil
}

func newOptimizer(store timing.EngagementStore, cfg timing.Config, log *slog.Logger) (*timing.Optimizer, error) {
	opts := []timing.OptimizerOption{
		timing.WithMinSamples(cfg.MinSamples),
		timing.WithLookback(cfg.Lookback),
		timing.WithOptimizerLogger(log),
	}
	if cfg.HeuristicsPath != "" {
		heuristics, err := timing.LoadHeuristics(cfg.HeuristicsPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, timing.WithHeuristics(heuristics))
	}
	return timing.NewOptimizer(store, opts...)
}

// newMediaResolver picks the configured resolver. Media is optional: a
// missing or broken media configuration means posts go out text-only.
func newMediaResolver(ctx context.Context, cfg media.Config, log *slog.Logger) posting.MediaResolver {
	switch {
	case cfg.Bucket != "":
		resolver, err := media.NewS3Resolver(ctx, cfg.S3(), media.WithResolveTimeout(cfg.ResolveTimeout))
		if err != nil {
			log.WarnContext(ctx, "media resolver unavailable, posts go out text-only", logger.Error(err))
			return nil
		}
		return resolver
	case cfg.BaseURL != "":
		resolver, err := media.NewBaseURLResolver(cfg.BaseURL)
		if err != nil {
			log.WarnContext(ctx, "media resolver unavailable, posts go out text-only", logger.Error(err))
			return nil
		}
		return resolver
	default:
		return nil
	}
}

// unconfiguredAccounts stands in until a platform submission client is wired
// in. Every owner resolves to no active account, so submission jobs take the
// standard no-account retry path instead of crashing the worker.
type unconfiguredAccounts struct{}

func (unconfiguredAccounts) Resolve(context.Context, uuid.UUID) (posting.Submitter, error) {
	return nil, posting.ErrNoActiveAccount
}
