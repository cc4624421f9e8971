package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/neighborly/neighborly-api/internal/config"
	"github.com/neighborly/neighborly-api/internal/domain/ratelimit"
	"github.com/neighborly/neighborly-api/internal/domain/user"
	"github.com/neighborly/neighborly-api/internal/jobs"
	"github.com/neighborly/neighborly-api/internal/pkg/database"
	"github.com/neighborly/neighborly-api/internal/pkg/logger"
)

func main() {
	once := flag.Bool("once", false, "run every job once and exit")
	flag.Parse()

	cfg := config.Load()
	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Env,
		Service:     "neighborly-scheduler",
	})

	db, err := database.NewPostgres(cfg.Postgres())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	rdb, err := database.NewRedis(cfg.Redis())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(rdb)

	scheduler := jobs.NewScheduler(cfg.JobInterval,
		jobs.NewStrikeDecay(user.NewRepository(db), cfg.StrikeDecayAge, cfg.StrikeDecayPageSize),
		jobs.NewRateLimitCleanup(ratelimit.NewJanitor(rdb), cfg.RateLimitRetention, cfg.RateLimitCleanupBatch),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		log.Info().Msg("Running scheduled jobs once")
		scheduler.RunOnce(ctx)
		return
	}

	log.Info().Dur("interval", cfg.JobInterval).Msg("Scheduler started")
	scheduler.Start(ctx)
}
