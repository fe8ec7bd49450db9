// Package orchestrator fans one extraction query out over the requested site
// extractors and merges their results.
package orchestrator

import (
	"context"

	"github.com/rs/zerolog"

	"go-jobscout-automation/internal/config"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/scraper/justjoinit"
	"go-jobscout-automation/internal/scraper/nofluffjobs"
	"go-jobscout-automation/internal/telemetry"
)

// Factory builds the extractor set for one run, wired to that run's recorder.
type Factory func(rec *telemetry.Recorder) map[scraper.Site]scraper.Scraper

// Summary reports aggregate counts for one run.
type Summary struct {
	Offers int                             `json:"offers"`
	Sites  map[string]telemetry.SiteCounts `json:"sites"`
}

type Orchestrator struct {
	log     zerolog.Logger
	factory Factory
}

func New(cfg *config.Config, log zerolog.Logger) *Orchestrator {
	return NewWithFactory(log, func(rec *telemetry.Recorder) map[scraper.Site]scraper.Scraper {
		return map[scraper.Site]scraper.Scraper{
			scraper.SiteJustJoinIT:  justjoinit.New(cfg, rec),
			scraper.SiteNoFluffJobs: nofluffjobs.New(cfg, rec),
		}
	})
}

// NewWithFactory injects a custom extractor set; tests use it.
func NewWithFactory(log zerolog.Logger, factory Factory) *Orchestrator {
	return &Orchestrator{log: log, factory: factory}
}

// Run processes the requested sites one after another and concatenates their
// offers in site-invocation order. One site's total failure is recorded and
// yields no offers for that site; it never aborts the remaining sites. No
// cross-site dedup happens here: the same posting on two portals carries two
// distinct URLs and produces two records.
func (o *Orchestrator) Run(ctx context.Context, query scraper.Query) ([]scraper.JobOffer, Summary) {
	rec := telemetry.NewRecorder(o.log)
	registry := o.factory(rec)

	sites := query.Sites
	if len(sites) == 0 {
		sites = scraper.AllSites()
	}

	var all []scraper.JobOffer
	for _, site := range sites {
		if ctx.Err() != nil {
			o.log.Warn().Err(ctx.Err()).Msg("run cancelled; returning partial results")
			break
		}
		extractor, ok := registry[site]
		if !ok {
			o.log.Warn().Str("site", string(site)).Msg("unknown site requested; skipping")
			continue
		}

		o.log.Info().Str("site", extractor.Name()).Msg("starting site extraction")
		offers, err := extractor.Scrape(ctx, query)
		if err != nil {
			rec.Site(extractor.Name()).SiteFailed(err)
			continue
		}
		all = append(all, offers...)
	}

	summary := Summary{Offers: len(all), Sites: rec.Counts()}
	o.log.Info().Int("offers", summary.Offers).Msg("run finished")
	return all, summary
}
