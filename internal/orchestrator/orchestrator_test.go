package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/telemetry"
)

type fakeScraper struct {
	site   scraper.Site
	offers []scraper.JobOffer
	err    error
	calls  int
}

func (f *fakeScraper) Name() string       { return f.site.SourceName() }
func (f *fakeScraper) Site() scraper.Site { return f.site }

func (f *fakeScraper) Scrape(ctx context.Context, query scraper.Query) ([]scraper.JobOffer, error) {
	f.calls++
	return f.offers, f.err
}

func fakeOffer(url string) scraper.JobOffer {
	return scraper.JobOffer{Title: "Dev", Company: "ACME", Location: "Remote", URL: url}
}

func newTestOrchestrator(scrapers ...*fakeScraper) *Orchestrator {
	return NewWithFactory(zerolog.Nop(), func(rec *telemetry.Recorder) map[scraper.Site]scraper.Scraper {
		registry := make(map[scraper.Site]scraper.Scraper, len(scrapers))
		for _, s := range scrapers {
			registry[s.site] = s
		}
		return registry
	})
}

func TestRunMergesInInvocationOrder(t *testing.T) {
	jj := &fakeScraper{site: scraper.SiteJustJoinIT, offers: []scraper.JobOffer{fakeOffer("jj-1"), fakeOffer("jj-2")}}
	nfj := &fakeScraper{site: scraper.SiteNoFluffJobs, offers: []scraper.JobOffer{fakeOffer("nfj-1")}}

	offers, summary := newTestOrchestrator(jj, nfj).Run(context.Background(), scraper.Query{
		Sites: []scraper.Site{scraper.SiteJustJoinIT, scraper.SiteNoFluffJobs},
	})

	assert.Equal(t, []string{"jj-1", "jj-2", "nfj-1"}, urls(offers))
	assert.Equal(t, 3, summary.Offers)
	assert.Equal(t, 1, jj.calls)
	assert.Equal(t, 1, nfj.calls)
}

func TestRunOneSiteFailureDoesNotAbortSiblings(t *testing.T) {
	jj := &fakeScraper{site: scraper.SiteJustJoinIT, err: errors.New("listing never appeared")}
	nfj := &fakeScraper{site: scraper.SiteNoFluffJobs, offers: []scraper.JobOffer{fakeOffer("nfj-1")}}

	offers, summary := newTestOrchestrator(jj, nfj).Run(context.Background(), scraper.Query{
		Sites: []scraper.Site{scraper.SiteJustJoinIT, scraper.SiteNoFluffJobs},
	})

	assert.Equal(t, []string{"nfj-1"}, urls(offers))
	assert.Equal(t, 1, nfj.calls)
	assert.True(t, summary.Sites["JustJoin.IT"].Failed)
	assert.False(t, summary.Sites["NoFluffJobs"].Failed)
}

func TestRunAllSitesFailingIsEmptySuccess(t *testing.T) {
	jj := &fakeScraper{site: scraper.SiteJustJoinIT, err: errors.New("blocked")}
	nfj := &fakeScraper{site: scraper.SiteNoFluffJobs, err: errors.New("blocked")}

	offers, summary := newTestOrchestrator(jj, nfj).Run(context.Background(), scraper.Query{
		Sites: []scraper.Site{scraper.SiteJustJoinIT, scraper.SiteNoFluffJobs},
	})

	assert.Empty(t, offers)
	assert.Equal(t, 0, summary.Offers)
}

func TestRunDefaultsToAllSites(t *testing.T) {
	jj := &fakeScraper{site: scraper.SiteJustJoinIT}
	nfj := &fakeScraper{site: scraper.SiteNoFluffJobs}

	newTestOrchestrator(jj, nfj).Run(context.Background(), scraper.Query{})

	assert.Equal(t, 1, jj.calls)
	assert.Equal(t, 1, nfj.calls)
}

func TestRunSkipsUnknownSite(t *testing.T) {
	nfj := &fakeScraper{site: scraper.SiteNoFluffJobs, offers: []scraper.JobOffer{fakeOffer("nfj-1")}}

	offers, _ := newTestOrchestrator(nfj).Run(context.Background(), scraper.Query{
		Sites: []scraper.Site{scraper.Site("linkedin"), scraper.SiteNoFluffJobs},
	})

	assert.Equal(t, []string{"nfj-1"}, urls(offers))
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	jj := &fakeScraper{site: scraper.SiteJustJoinIT, offers: []scraper.JobOffer{fakeOffer("jj-1")}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	offers, _ := newTestOrchestrator(jj).Run(ctx, scraper.Query{Sites: []scraper.Site{scraper.SiteJustJoinIT}})

	assert.Empty(t, offers)
	assert.Equal(t, 0, jj.calls)
}

func urls(offers []scraper.JobOffer) []string {
	out := make([]string, 0, len(offers))
	for _, o := range offers {
		out = append(out, o.URL)
	}
	return out
}
