// Package justjoinit extracts job offers from justjoin.it search listings.
package justjoinit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/config"
	"go-jobscout-automation/internal/debug"
	"go-jobscout-automation/internal/normalize"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/telemetry"
)

const (
	baseURL  = "https://justjoin.it"
	listPath = "/job-offers/all-locations"

	cookieTimeout  = 5 * time.Second
	listingTimeout = 20 * time.Second
	popoverTimeout = 3 * time.Second
	detailTimeout  = 5 * time.Second
)

type Scraper struct {
	cfg   *config.Config
	rec   *telemetry.Recorder
	sel   Selectors
	shots *debug.Screenshotter
}

func New(cfg *config.Config, rec *telemetry.Recorder) *Scraper {
	return &Scraper{
		cfg:   cfg,
		rec:   rec,
		sel:   DefaultSelectors(),
		shots: debug.NewScreenshotter(cfg.ScreenshotDir, rec.Site(scraper.SiteJustJoinIT.SourceName()).Log()),
	}
}

func (s *Scraper) Name() string { return scraper.SiteJustJoinIT.SourceName() }

func (s *Scraper) Site() scraper.Site { return scraper.SiteJustJoinIT }

// SearchURL builds the listing URL: the all-locations base, the lowercased
// technology path segment unless it is the "all" sentinel, the experience
// query parameter unless "all".
func SearchURL(technology string, experience scraper.Experience) string {
	url := baseURL + listPath
	tech := strings.ToLower(strings.TrimSpace(technology))
	if tech != "" && tech != "all" {
		url += "/" + tech
	}
	if experience != "" && experience != scraper.ExperienceAll {
		url += "?experience-level=" + string(experience)
	}
	return url
}

func (s *Scraper) Scrape(ctx context.Context, query scraper.Query) ([]scraper.JobOffer, error) {
	site := s.rec.Site(s.Name())
	log := site.Log()

	session, err := browser.Open(s.cfg.Identity(), log)
	if err != nil {
		return nil, fmt.Errorf("open browser session: %w", err)
	}
	defer session.Close()

	url := SearchURL(query.Technology, query.Experience)
	log.Info().Str("url", url).Msg("loading listing")

	if err := session.Navigate(url, browser.WaitDOMReady); err != nil {
		return nil, err
	}

	// The banner can swallow clicks on cards underneath it.
	session.DismissCookieBanner(s.sel.CookieAccept, cookieTimeout)

	if err := session.WaitAttached(s.sel.OfferLink, listingTimeout); err != nil {
		s.shots.Capture(session.Page(), "justjoinit-no-listing")
		return nil, fmt.Errorf("offer listing never appeared: %w", err)
	}

	cards, err := session.QueryAll(s.sel.OfferLink)
	if err != nil {
		return nil, fmt.Errorf("query offer cards: %w", err)
	}
	log.Info().Int("cards", len(cards)).Msg("listing loaded")

	offers := make([]scraper.JobOffer, 0, len(cards))
	for i, card := range cards {
		if ctx.Err() != nil {
			break
		}
		offer, err := s.extractCard(session, card, i, site)
		if err != nil {
			site.OfferSkipped(i, err)
			continue
		}
		offers = append(offers, *offer)
	}

	// Detail dates are recovered sequentially, one secondary page per offer.
	for i := range offers {
		if ctx.Err() != nil {
			break
		}
		date, err := scraper.FetchDatePosted(session, offers[i].URL, detailTimeout)
		if err != nil {
			site.FieldFallback(i, "date_posted", err)
			continue
		}
		offers[i].DatePosted = &date
		browser.RandomDelay(100, 300)
	}

	final := scraper.Finalize(scraper.SiteJustJoinIT, offers)
	for i, offer := range final {
		site.OfferEmitted(i, offer.URL)
	}
	log.Info().Int("offers", len(final)).Msg("extraction finished")
	return final, nil
}

func (s *Scraper) extractCard(session *browser.Session, card playwright.Locator, index int, site *telemetry.SiteRecorder) (*scraper.JobOffer, error) {
	href, err := card.GetAttribute("href")
	if err != nil {
		return nil, fmt.Errorf("card link: %w", err)
	}
	if href == "" {
		return nil, fmt.Errorf("card link empty")
	}
	link := baseURL + href

	rawTitle, err := card.Locator(s.sel.Title).First().InnerText()
	if err != nil {
		return nil, fmt.Errorf("title: %w", err)
	}
	title := normalize.CleanText(rawTitle)

	// The company name has no stable class of its own; it is the paragraph
	// next to the building icon. Brittle, but that is what the site gives us.
	rawCompany, err := card.Locator(s.sel.Company).First().InnerText()
	if err != nil {
		return nil, fmt.Errorf("company: %w", err)
	}
	company := normalize.CleanText(rawCompany)

	// The inline locality suffixes a "+N more" count after a comma.
	rawLocation, err := card.Locator(s.sel.Location).First().InnerText()
	if err != nil {
		return nil, fmt.Errorf("location: %w", err)
	}
	location := normalize.PrimaryLocality(rawLocation)
	location = s.expandLocations(session, card, location, index, site)

	salary := scraper.SalaryNotSpecified
	salaryEl := card.Locator(s.sel.Salary)
	if n, _ := salaryEl.Count(); n > 0 {
		if text, err := salaryEl.First().InnerText(); err == nil && normalize.CleanText(text) != "" {
			salary = normalize.CleanText(text)
		}
	}

	tags, err := card.Locator(s.sel.SkillChip).AllInnerTexts()
	if err != nil {
		site.FieldFallback(index, "skills", err)
		tags = nil
	}

	return &scraper.JobOffer{
		Title:    title,
		Company:  company,
		Location: location,
		Salary:   salary,
		Skills:   normalize.JoinSkills(normalize.FilterSkills(tags)),
		URL:      link,
	}, nil
}

// expandLocations clicks the card's "show more locations" control when
// present and unions the popover localities with the primary one. Every
// failure on this path silently keeps the already-captured location.
func (s *Scraper) expandLocations(session *browser.Session, card playwright.Locator, primary string, index int, site *telemetry.SiteRecorder) string {
	button := card.Locator(s.sel.MultiLocationButton)
	if n, err := button.Count(); err != nil || n == 0 {
		return primary
	}
	if err := button.First().Click(); err != nil {
		site.FieldFallback(index, "location", err)
		return primary
	}

	// The popover mounts at document level, not inside the card.
	popover := session.Page().Locator(s.sel.Popover).Last()
	if err := popover.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(popoverTimeout.Milliseconds())),
	}); err != nil {
		site.FieldFallback(index, "location", err)
		return primary
	}

	raw, err := popover.Locator(s.sel.PopoverLocality).AllInnerTexts()
	if err != nil {
		site.FieldFallback(index, "location", err)
		return primary
	}

	localities := make([]string, 0, len(raw)+1)
	localities = append(localities, primary)
	for _, loc := range raw {
		localities = append(localities, normalize.PrimaryLocality(loc))
	}
	if joined := normalize.JoinLocalities(localities); joined != "" {
		return joined
	}
	return primary
}
