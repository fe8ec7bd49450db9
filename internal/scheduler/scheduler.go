// Package scheduler wires up the cron job that periodically re-runs the
// configured default extraction.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/worker"
)

type Scheduler struct {
	cron   *cron.Cron
	worker *worker.Worker
	query  scraper.Query
	spec   string
	log    zerolog.Logger
}

// New creates a Scheduler that fires every intervalHours hours.
func New(w *worker.Worker, query scraper.Query, intervalHours int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		worker: w,
		query:  query,
		spec:   fmt.Sprintf("@every %dh", intervalHours),
		log:    log,
	}
}

// Start registers the job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		id, err := s.worker.Dispatch(ctx, s.query)
		if err != nil {
			s.log.Error().Err(err).Msg("scheduled run dispatch failed")
			return
		}
		s.log.Info().Str("run", id).Msg("scheduled run dispatched")
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("scheduler started")
	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}
