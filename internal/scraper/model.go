// Shared offer model and the contract every site extractor implements.
// Ensure consistency across portals.

package scraper

import (
	"context"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

// Site identifies a supported job portal.
type Site string

const (
	SiteJustJoinIT  Site = "justjoinit"
	SiteNoFluffJobs Site = "nofluffjobs"
)

// AllSites lists supported portals in default invocation order.
func AllSites() []Site {
	return []Site{SiteJustJoinIT, SiteNoFluffJobs}
}

// SourceName is the canonical label stamped on offers from this site.
func (s Site) SourceName() string {
	switch s {
	case SiteJustJoinIT:
		return "JustJoin.IT"
	case SiteNoFluffJobs:
		return "NoFluffJobs"
	}
	return string(s)
}

func (s Site) Valid() bool {
	return s == SiteJustJoinIT || s == SiteNoFluffJobs
}

// ParseSites normalizes raw site identifiers, dropping unknown ones.
func ParseSites(raw []string) []Site {
	out := make([]Site, 0, len(raw))
	seen := mapset.NewSet[Site]()
	for _, r := range raw {
		site := Site(strings.ToLower(strings.TrimSpace(r)))
		if !site.Valid() || !seen.Add(site) {
			continue
		}
		out = append(out, site)
	}
	return out
}

// Experience is the seniority filter applied to a search.
type Experience string

const (
	ExperienceAll    Experience = "all"
	ExperienceJunior Experience = "junior"
	ExperienceMid    Experience = "mid"
	ExperienceSenior Experience = "senior"
)

func (e Experience) Valid() bool {
	switch e {
	case ExperienceAll, ExperienceJunior, ExperienceMid, ExperienceSenior:
		return true
	}
	return false
}

// ParseExperience maps free-form input to a level, defaulting to all.
func ParseExperience(raw string) Experience {
	e := Experience(strings.ToLower(strings.TrimSpace(raw)))
	if e == "" {
		return ExperienceAll
	}
	return e
}

// Query drives URL construction and selects which extractors run.
type Query struct {
	Technology string
	Experience Experience
	Sites      []Site
}

// SalaryNotSpecified is the sentinel emitted when a card carries no salary range.
const SalaryNotSpecified = "not specified"

// JobOffer is the normalized record every extractor emits. URL is the unique
// identity key the persistence collaborator upserts by. DatePosted stays nil
// when the detail page yields no structured posting date, so storage can tell
// "unknown" from "parsed empty".
type JobOffer struct {
	Title      string  `json:"title"`
	Company    string  `json:"company"`
	Location   string  `json:"location"`
	Salary     string  `json:"salary"`
	Skills     string  `json:"skills"`
	URL        string  `json:"url"`
	Source     string  `json:"source"`
	DatePosted *string `json:"date_posted"`
}

// Complete reports whether the record satisfies the required-field invariant.
func (o JobOffer) Complete() bool {
	return o.Title != "" && o.Company != "" && o.URL != "" && o.Location != ""
}

// Scraper is implemented once per portal. Scrape never panics past its own
// boundary: a site-level failure comes back as an error with no offers, a
// partial harvest comes back as whatever was extracted before the failure.
type Scraper interface {
	Name() string
	Site() Site
	Scrape(ctx context.Context, query Query) ([]JobOffer, error)
}

// Finalize applies the common output contract to one site's raw harvest:
// records missing any of title, company, url or location are dropped, the URL
// must be unique within the batch, and Source is stamped with the site's
// canonical name. Input order is preserved.
func Finalize(site Site, offers []JobOffer) []JobOffer {
	seen := mapset.NewSet[string]()
	out := make([]JobOffer, 0, len(offers))
	for _, offer := range offers {
		if !offer.Complete() {
			continue
		}
		if !seen.Add(offer.URL) {
			continue
		}
		offer.Source = site.SourceName()
		out = append(out, offer)
	}
	return out
}
