// Package telemetry is the run-scoped event recorder threaded through every
// extraction component. It captures (site, offer index, field, outcome)
// tuples for diagnosability without coupling extraction logic to a logging
// backend, and aggregates per-site counters for the run summary.
package telemetry

import (
	"sync"

	"github.com/rs/zerolog"
)

// SiteCounts aggregates one site's outcomes for a run.
type SiteCounts struct {
	Emitted        int  `json:"emitted"`
	Skipped        int  `json:"skipped"`
	FieldFallbacks int  `json:"field_fallbacks"`
	Failed         bool `json:"failed"`
}

// Recorder collects extraction events for one run.
type Recorder struct {
	log zerolog.Logger

	mu    sync.Mutex
	sites map[string]*SiteCounts
}

func NewRecorder(log zerolog.Logger) *Recorder {
	return &Recorder{log: log, sites: make(map[string]*SiteCounts)}
}

// Site returns a view scoped to one extractor.
func (r *Recorder) Site(name string) *SiteRecorder {
	r.mu.Lock()
	if _, ok := r.sites[name]; !ok {
		r.sites[name] = &SiteCounts{}
	}
	r.mu.Unlock()
	return &SiteRecorder{rec: r, site: name, log: r.log.With().Str("site", name).Logger()}
}

// Counts snapshots the per-site counters.
func (r *Recorder) Counts() map[string]SiteCounts {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]SiteCounts, len(r.sites))
	for name, counts := range r.sites {
		out[name] = *counts
	}
	return out
}

func (r *Recorder) update(site string, fn func(*SiteCounts)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.sites[site])
}

// SiteRecorder records one extractor's events.
type SiteRecorder struct {
	rec  *Recorder
	site string
	log  zerolog.Logger
}

// Log is the site-tagged logger for free-form progress messages.
func (s *SiteRecorder) Log() zerolog.Logger {
	return s.log
}

// OfferEmitted records one complete offer in the final output.
func (s *SiteRecorder) OfferEmitted(index int, url string) {
	s.rec.update(s.site, func(c *SiteCounts) { c.Emitted++ })
	s.log.Debug().Int("offer", index).Str("url", url).Str("outcome", "emitted").Msg("offer extracted")
}

// OfferSkipped records a card whose extraction failed; the run continues with
// the next card.
func (s *SiteRecorder) OfferSkipped(index int, err error) {
	s.rec.update(s.site, func(c *SiteCounts) { c.Skipped++ })
	s.log.Warn().Int("offer", index).Str("outcome", "skipped").Err(err).Msg("offer skipped")
}

// FieldFallback records a degraded-not-fatal step: the named field keeps its
// best already-known value and the offer is still emitted.
func (s *SiteRecorder) FieldFallback(index int, field string, err error) {
	s.rec.update(s.site, func(c *SiteCounts) { c.FieldFallbacks++ })
	s.log.Debug().Int("offer", index).Str("field", field).Str("outcome", "fallback").Err(err).Msg("field fallback")
}

// SiteFailed records a fatal-to-site failure; the site contributes an empty
// list and the run continues with the remaining sites.
func (s *SiteRecorder) SiteFailed(err error) {
	s.rec.update(s.site, func(c *SiteCounts) { c.Failed = true })
	s.log.Error().Str("outcome", "site_failed").Err(err).Msg("site extraction failed")
}
