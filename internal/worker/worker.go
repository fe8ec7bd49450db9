// Package worker executes extraction runs off the caller's request path and
// records their status for polling.
package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"go-jobscout-automation/internal/orchestrator"
	"go-jobscout-automation/internal/runs"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/store"
	"go-jobscout-automation/internal/telemetry"
)

// Runner is the orchestrator surface the worker drives.
type Runner interface {
	Run(ctx context.Context, query scraper.Query) ([]scraper.JobOffer, orchestrator.Summary)
}

// Notifier receives run outcomes; nil disables notifications.
// reporter.TelegramReporter satisfies it.
type Notifier interface {
	SendSummary(query scraper.Query, total int, perSite map[string]telemetry.SiteCounts) error
	SendError(err error) error
}

type Worker struct {
	runner   Runner
	store    *store.Store
	tracker  *runs.Tracker
	notifier Notifier
	log      zerolog.Logger
}

// New wires a worker. store, tracker and notifier may each be nil; the
// corresponding step is skipped.
func New(runner Runner, st *store.Store, tracker *runs.Tracker, notifier Notifier, log zerolog.Logger) *Worker {
	return &Worker{runner: runner, store: st, tracker: tracker, notifier: notifier, log: log}
}

// Dispatch registers a PENDING run and executes it in the background. The
// returned id is what callers poll. The run keeps going even when the caller
// abandons interest: it executes under its own context.
func (w *Worker) Dispatch(ctx context.Context, query scraper.Query) (string, error) {
	id := runs.NewRunID()
	if w.tracker != nil {
		if err := w.tracker.Put(ctx, runs.State{ID: id, Status: runs.StatusPending}); err != nil {
			return "", fmt.Errorf("register run: %w", err)
		}
	}

	go w.Execute(context.Background(), id, query)
	return id, nil
}

// Execute runs one extraction synchronously: orchestrate, persist, record,
// notify.
func (w *Worker) Execute(ctx context.Context, id string, query scraper.Query) {
	log := w.log.With().Str("run", id).Logger()
	log.Info().Str("technology", query.Technology).Str("experience", string(query.Experience)).Msg("run started")

	w.put(ctx, runs.State{ID: id, Status: runs.StatusStarted})

	offers, summary := w.runner.Run(ctx, query)

	written := len(offers)
	if w.store != nil {
		n, err := w.store.ReplaceOffers(ctx, offers)
		if err != nil {
			log.Error().Err(err).Msg("persisting offers failed")
			w.put(ctx, runs.State{ID: id, Status: runs.StatusFailure, Message: err.Error(), Offers: len(offers), PerSite: summary.Sites})
			w.notifyError(err)
			return
		}
		written = n
	}

	// Zero offers is a successful empty result, not an error.
	msg := fmt.Sprintf("found %d offers, stored %d", len(offers), written)
	w.put(ctx, runs.State{ID: id, Status: runs.StatusSuccess, Message: msg, Offers: len(offers), PerSite: summary.Sites})
	log.Info().Int("offers", len(offers)).Int("stored", written).Msg("run finished")

	if w.notifier != nil {
		if err := w.notifier.SendSummary(query, len(offers), summary.Sites); err != nil {
			log.Warn().Err(err).Msg("could not send run summary")
		}
	}
}

func (w *Worker) put(ctx context.Context, state runs.State) {
	if w.tracker == nil {
		return
	}
	if err := w.tracker.Put(ctx, state); err != nil {
		w.log.Warn().Err(err).Str("run", state.ID).Msg("could not record run state")
	}
}

func (w *Worker) notifyError(err error) {
	if w.notifier == nil {
		return
	}
	if sendErr := w.notifier.SendError(err); sendErr != nil {
		w.log.Warn().Err(sendErr).Msg("could not send error notification")
	}
}
