// Package nofluffjobs extracts job offers from nofluffjobs.com search listings.
package nofluffjobs

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/playwright-community/playwright-go"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/config"
	"go-jobscout-automation/internal/debug"
	"go-jobscout-automation/internal/normalize"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/telemetry"
)

const (
	baseURL      = "https://nofluffjobs.com"
	localePrefix = "/pl/"

	cookieTimeout    = 7 * time.Second
	listingTimeout   = 15 * time.Second
	containerTimeout = 15 * time.Second
	popoverSettleMs  = 500
	detailTimeout    = 5 * time.Second

	// The listing may render a secondary/recommended list below the search
	// results. Only the first containers hold genuine results; anything
	// beyond is sponsored content we must not mix in.
	maxResultContainers = 2

	// Badge text the site prepends to fresh postings' titles.
	newBadge = "NOWA"
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
		shots: debug.NewScreenshotter(cfg.ScreenshotDir, rec.Site(scraper.SiteNoFluffJobs.SourceName()).Log()),
	}
}

func (s *Scraper) Name() string { return scraper.SiteNoFluffJobs.SourceName() }

func (s *Scraper) Site() scraper.Site { return scraper.SiteNoFluffJobs }

// SearchURL builds the listing URL: the technology as a capitalized path
// segment under the locale prefix, seniority as a criteria query parameter
// unless "all".
func SearchURL(technology string, experience scraper.Experience) string {
	url := baseURL + localePrefix + capitalize(technology)
	if experience != "" && experience != scraper.ExperienceAll {
		url += "?criteria=seniority%3D" + string(experience)
	}
	return url
}

// capitalize uppercases the first rune and lowercases the rest.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
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

	session.DismissCookieBanner(s.sel.CookieAccept, cookieTimeout)

	if err := session.WaitAttached(s.sel.ListContainer, listingTimeout); err != nil {
		s.shots.Capture(session.Page(), "nofluffjobs-no-listing")
		return nil, fmt.Errorf("result containers never appeared: %w", err)
	}

	cards, err := s.collectCards(session)
	if err != nil {
		s.shots.Capture(session.Page(), "nofluffjobs-no-cards")
		return nil, err
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

	final := scraper.Finalize(scraper.SiteNoFluffJobs, offers)
	for i, offer := range final {
		site.OfferEmitted(i, offer.URL)
	}
	log.Info().Int("offers", len(final)).Msg("extraction finished")
	return final, nil
}

// collectCards harvests offer anchors scoped inside the genuine result
// containers, never page-global.
func (s *Scraper) collectCards(session *browser.Session) ([]playwright.Locator, error) {
	containers, err := session.QueryAll(s.sel.ListContainer)
	if err != nil {
		return nil, fmt.Errorf("query result containers: %w", err)
	}
	if len(containers) == 0 {
		return nil, fmt.Errorf("no result containers on page")
	}
	if len(containers) > maxResultContainers {
		containers = containers[:maxResultContainers]
	}

	var cards []playwright.Locator
	for _, container := range containers {
		if err := container.WaitFor(playwright.LocatorWaitForOptions{
			State:   playwright.WaitForSelectorStateVisible,
			Timeout: playwright.Float(float64(containerTimeout.Milliseconds())),
		}); err != nil {
			return nil, fmt.Errorf("result container never became visible: %w", err)
		}
		anchors, err := container.Locator(s.sel.OfferLink).All()
		if err != nil {
			return nil, fmt.Errorf("query offer anchors: %w", err)
		}
		cards = append(cards, anchors...)
	}
	return cards, nil
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
	title := normalize.CleanText(strings.ReplaceAll(rawTitle, newBadge, ""))

	rawCompany, err := card.Locator(s.sel.Company).First().InnerText()
	if err != nil {
		return nil, fmt.Errorf("company: %w", err)
	}
	company := normalize.CleanText(rawCompany)

	location, err := s.extractLocation(session, card, index, site)
	if err != nil {
		return nil, err
	}

	salary := scraper.SalaryNotSpecified
	salaryEl := card.Locator(s.sel.Salary)
	if n, _ := salaryEl.Count(); n > 0 {
		if text, err := salaryEl.First().InnerText(); err == nil && normalize.CleanText(text) != "" {
			salary = normalize.CleanText(text)
		}
	}

	// Tile tags carry no UI chrome here, so no noise filtering is applied.
	// That asymmetry with justjoin.it is deliberate per-site tuning.
	tags, err := card.Locator(s.sel.SkillTile).AllInnerTexts()
	if err != nil {
		site.FieldFallback(index, "skills", err)
		tags = nil
	}
	skills := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = normalize.CleanText(tag); tag != "" {
			skills = append(skills, tag)
		}
	}

	return &scraper.JobOffer{
		Title:    title,
		Company:  company,
		Location: location,
		Salary:   salary,
		Skills:   normalize.JoinSkills(skills),
		URL:      link,
	}, nil
}

// extractLocation reads the inline summary text (e.g. "Remote +5") and then
// tries to hover the element so its popover reveals every locality. Any
// failure on the enhancement path silently preserves the summary text.
func (s *Scraper) extractLocation(session *browser.Session, card playwright.Locator, index int, site *telemetry.SiteRecorder) (string, error) {
	locationEl := card.Locator(s.sel.Location)
	summary, err := locationEl.First().InnerText()
	if err != nil {
		return "", fmt.Errorf("location: %w", err)
	}
	location := normalize.CleanText(summary)

	if err := s.hoverLocalities(session, card, locationEl, &location); err != nil {
		site.FieldFallback(index, "location", err)
	}
	return location, nil
}

func (s *Scraper) hoverLocalities(session *browser.Session, card, locationEl playwright.Locator, location *string) error {
	if err := locationEl.First().ScrollIntoViewIfNeeded(); err != nil {
		return err
	}
	if err := locationEl.First().Hover(); err != nil {
		return err
	}
	// Give the popover a moment to render.
	session.Page().WaitForTimeout(popoverSettleMs)

	// The popover mounts inside the card's own subtree.
	popover := card.Locator(s.sel.PopoverBody)
	if n, err := popover.Count(); err != nil || n == 0 {
		return err
	}

	// Each link inside the popover is one locality; pages without links list
	// the localities as plain text lines.
	anchors, err := popover.Locator(s.sel.PopoverLink).AllTextContents()
	if err != nil {
		return err
	}
	localities := make([]string, 0, len(anchors))
	for _, text := range anchors {
		if text = normalize.CleanText(text); text != "" {
			localities = append(localities, text)
		}
	}

	if len(localities) == 0 {
		text, err := popover.InnerText()
		if err != nil {
			return err
		}
		localities = normalize.SplitLines(text)
	}

	if joined := normalize.JoinLocalities(localities); joined != "" {
		*location = joined
	}
	return nil
}
