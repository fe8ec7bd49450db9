package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func offer(title, company, location, url string) JobOffer {
	return JobOffer{Title: title, Company: company, Location: location, URL: url}
}

func TestFinalizeDropsIncomplete(t *testing.T) {
	in := []JobOffer{
		offer("Backend Dev", "ACME", "Warszawa", "https://justjoin.it/job-offer/a"),
		offer("", "ACME", "Warszawa", "https://justjoin.it/job-offer/b"),
		offer("Frontend Dev", "", "Warszawa", "https://justjoin.it/job-offer/c"),
		offer("Data Engineer", "ACME", "", "https://justjoin.it/job-offer/d"),
		offer("SRE", "ACME", "Kraków", ""),
	}

	out := Finalize(SiteJustJoinIT, in)

	assert.Len(t, out, 1)
	assert.Equal(t, "Backend Dev", out[0].Title)
	for _, o := range out {
		assert.NotEmpty(t, o.Title)
		assert.NotEmpty(t, o.Company)
		assert.NotEmpty(t, o.URL)
		assert.NotEmpty(t, o.Location)
	}
}

func TestFinalizeDedupesByURL(t *testing.T) {
	in := []JobOffer{
		offer("Backend Dev", "ACME", "Warszawa", "https://justjoin.it/job-offer/a"),
		offer("Backend Dev (reposted)", "ACME", "Warszawa", "https://justjoin.it/job-offer/a"),
		offer("Frontend Dev", "Beta", "Kraków", "https://justjoin.it/job-offer/b"),
	}

	out := Finalize(SiteJustJoinIT, in)

	assert.Len(t, out, 2)
	// First occurrence wins, order preserved.
	assert.Equal(t, "Backend Dev", out[0].Title)
	assert.Equal(t, "Frontend Dev", out[1].Title)
}

func TestFinalizeStampsSource(t *testing.T) {
	out := Finalize(SiteNoFluffJobs, []JobOffer{
		offer("Backend Dev", "ACME", "Warszawa", "https://nofluffjobs.com/pl/job/a"),
	})
	assert.Equal(t, "NoFluffJobs", out[0].Source)

	out = Finalize(SiteJustJoinIT, []JobOffer{
		offer("Backend Dev", "ACME", "Warszawa", "https://justjoin.it/job-offer/a"),
	})
	assert.Equal(t, "JustJoin.IT", out[0].Source)
}

func TestParseSites(t *testing.T) {
	tests := []struct {
		name     string
		raw      []string
		expected []Site
	}{
		{"known sites", []string{"justjoinit", "nofluffjobs"}, []Site{SiteJustJoinIT, SiteNoFluffJobs}},
		{"normalized", []string{" JustJoinIT ", "NOFLUFFJOBS"}, []Site{SiteJustJoinIT, SiteNoFluffJobs}},
		{"dedup keeps first", []string{"justjoinit", "justjoinit"}, []Site{SiteJustJoinIT}},
		{"unknown dropped", []string{"linkedin", "nofluffjobs"}, []Site{SiteNoFluffJobs}},
		{"all unknown", []string{"linkedin"}, []Site{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSites(tt.raw))
		})
	}
}

func TestParseExperience(t *testing.T) {
	assert.Equal(t, ExperienceAll, ParseExperience(""))
	assert.Equal(t, ExperienceJunior, ParseExperience(" Junior "))
	assert.Equal(t, ExperienceSenior, ParseExperience("SENIOR"))

	assert.True(t, ParseExperience("mid").Valid())
	assert.False(t, ParseExperience("principal").Valid())
}

func TestSourceNames(t *testing.T) {
	assert.Equal(t, "JustJoin.IT", SiteJustJoinIT.SourceName())
	assert.Equal(t, "NoFluffJobs", SiteNoFluffJobs.SourceName())
}
