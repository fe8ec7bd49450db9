// Package browser owns the headless browser process and page lifecycle for a
// single extraction run.
package browser

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

// Desktop Chrome identity presented to the portals. Paired with the disabled
// automation flag below it keeps the runs off the cheap anti-bot checks.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/117.0.0.0 Safari/537.36"

const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultElementTimeout    = 10 * time.Second
)

// Identity configures the client fingerprint and default timeouts applied to
// every subsequent operation on the session.
type Identity struct {
	UserAgent         string
	Headless          bool
	NavigationTimeout time.Duration
	ElementTimeout    time.Duration
}

// DefaultIdentity returns the stealth headless profile.
func DefaultIdentity() Identity {
	return Identity{
		UserAgent:         defaultUserAgent,
		Headless:          true,
		NavigationTimeout: DefaultNavigationTimeout,
		ElementTimeout:    DefaultElementTimeout,
	}
}

func (i Identity) withDefaults() Identity {
	if i.UserAgent == "" {
		i.UserAgent = defaultUserAgent
	}
	if i.NavigationTimeout <= 0 {
		i.NavigationTimeout = DefaultNavigationTimeout
	}
	if i.ElementTimeout <= 0 {
		i.ElementTimeout = DefaultElementTimeout
	}
	return i
}

// WaitPolicy selects the navigation readiness signal.
type WaitPolicy string

const (
	// WaitDOMReady waits for the HTML structure only. Extractors then wait for
	// a concrete selector, which is more reliable than load-state heuristics.
	WaitDOMReady WaitPolicy = "dom_ready"
	// WaitNetworkIdle is unreliable on pages with persistent background
	// polling and must never be the default.
	WaitNetworkIdle WaitPolicy = "network_idle"
)

func (w WaitPolicy) state() *playwright.WaitUntilState {
	if w == WaitNetworkIdle {
		return playwright.WaitUntilStateNetworkidle
	}
	return playwright.WaitUntilStateDomcontentloaded
}

// Session is one isolated browser instance. It is exclusively owned by the
// run that opened it and must be closed on every exit path.
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	ctx     playwright.BrowserContext
	page    playwright.Page
	log     zerolog.Logger
}

// Open launches a headless chromium process with the given identity and one
// primary page for listing navigation.
func Open(identity Identity, log zerolog.Logger) (*Session, error) {
	identity = identity.withDefaults()

	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("start playwright driver: %w", err)
	}

	chromium, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(identity.Headless),
		Args:     []string{"--disable-blink-features=AutomationControlled"},
	})
	if err != nil {
		pw.Stop()
		return nil, fmt.Errorf("launch chromium: %w", err)
	}

	browserCtx, err := chromium.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(identity.UserAgent),
	})
	if err != nil {
		chromium.Close()
		pw.Stop()
		return nil, fmt.Errorf("create browser context: %w", err)
	}
	browserCtx.SetDefaultNavigationTimeout(float64(identity.NavigationTimeout.Milliseconds()))
	browserCtx.SetDefaultTimeout(float64(identity.ElementTimeout.Milliseconds()))

	page, err := browserCtx.NewPage()
	if err != nil {
		browserCtx.Close()
		chromium.Close()
		pw.Stop()
		return nil, fmt.Errorf("open page: %w", err)
	}

	return &Session{pw: pw, browser: chromium, ctx: browserCtx, page: page, log: log}, nil
}

// Page exposes the primary listing page.
func (s *Session) Page() playwright.Page {
	return s.page
}

// Navigate loads url on the primary page under the given wait policy.
func (s *Session) Navigate(url string, wait WaitPolicy) error {
	if _, err := s.page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: wait.state(),
	}); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// DismissCookieBanner clicks the consent button if it shows up within the
// timeout. Best-effort: the page stays usable without it, so failure is
// logged and never fatal.
func (s *Session) DismissCookieBanner(selector string, timeout time.Duration) {
	button := s.page.Locator(selector)
	if err := button.WaitFor(playwright.LocatorWaitForOptions{
		State:   playwright.WaitForSelectorStateVisible,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		s.log.Debug().Str("selector", selector).Err(err).Msg("cookie banner not shown")
		return
	}
	if err := button.Click(); err != nil {
		s.log.Warn().Str("selector", selector).Err(err).Msg("cookie banner click failed")
		return
	}
	s.log.Debug().Str("selector", selector).Msg("cookie banner dismissed")
}

// WaitAttached blocks until at least one match for selector is attached.
func (s *Session) WaitAttached(selector string, timeout time.Duration) error {
	_, err := s.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return fmt.Errorf("wait for %s: %w", selector, err)
	}
	return nil
}

// QueryAll returns the currently attached matches for selector on the primary
// page. No match is an empty slice, not an error.
func (s *Session) QueryAll(selector string) ([]playwright.Locator, error) {
	return s.page.Locator(selector).All()
}

// OpenDetail opens a secondary page for a per-offer detail lookup. Callers
// close it before opening the next one; detail lookups are sequential.
func (s *Session) OpenDetail(url string, wait WaitPolicy) (playwright.Page, error) {
	page, err := s.ctx.NewPage()
	if err != nil {
		return nil, fmt.Errorf("open detail page: %w", err)
	}
	if _, err := page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: wait.state(),
	}); err != nil {
		page.Close()
		return nil, fmt.Errorf("navigate detail %s: %w", url, err)
	}
	return page, nil
}

// Close releases all pages and the browser process.
func (s *Session) Close() {
	if s.ctx != nil {
		s.ctx.Close()
	}
	if s.browser != nil {
		s.browser.Close()
	}
	if s.pw != nil {
		s.pw.Stop()
	}
}
