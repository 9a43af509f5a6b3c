// Package scheduler runs background maintenance jobs against the tournament.
package scheduler

import (
	"context"
	"fmt"
	"swiss-tournament/internal/config"
	"swiss-tournament/internal/constants"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
)

type IntegrityChecker interface {
	CheckIntegrity(ctx context.Context) error
}

// IntegrityJob periodically reconciles player records against the match
// history.
type IntegrityJob struct {
	checker   IntegrityChecker
	interval  time.Duration
	logger    zerolog.Logger
	scheduler gocron.Scheduler
}

func NewIntegrityJob(checker IntegrityChecker, cfg *config.Config, logger zerolog.Logger) *IntegrityJob {
	return &IntegrityJob{
		checker:  checker,
		interval: cfg.IntegrityCheckInterval,
		logger:   logger,
	}
}

func (j *IntegrityJob) Start() error {
	if j.interval <= 0 {
		j.logger.Info().Msg("periodic integrity check disabled")
		return nil
	}

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(j.run),
		gocron.WithName("integrity-check"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("failed to schedule integrity check: %w", err)
	}

	sched.Start()
	j.scheduler = sched
	j.logger.Info().Dur("interval", j.interval).Msg("periodic integrity check scheduled")
	return nil
}

func (j *IntegrityJob) Stop() error {
	if j.scheduler == nil {
		return nil
	}
	err := j.scheduler.Shutdown()
	j.scheduler = nil
	return err
}

func (j *IntegrityJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), constants.DatabaseTimeout)
	defer cancel()

	start := time.Now()
	if err := j.checker.CheckIntegrity(ctx); err != nil {
		j.logger.Error().Err(err).Msg("scheduled integrity check found drift")
		return
	}
	j.logger.Debug().Dur("duration", time.Since(start)).Msg("scheduled integrity check passed")
}
