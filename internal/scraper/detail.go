package scraper

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/jsonld"
)

// StructuredDataSelector matches the schema.org script tag on detail pages.
const StructuredDataSelector = `script[type="application/ld+json"]`

// FetchDatePosted opens the offer's own page on a secondary tab and reads the
// posting date from its structured-data block. The tab is closed before the
// caller moves to the next offer.
func FetchDatePosted(session *browser.Session, url string, timeout time.Duration) (string, error) {
	page, err := session.OpenDetail(url, browser.WaitDOMReady)
	if err != nil {
		return "", err
	}
	defer page.Close()

	handle, err := page.WaitForSelector(StructuredDataSelector, playwright.PageWaitForSelectorOptions{
		State:   playwright.WaitForSelectorStateAttached,
		Timeout: playwright.Float(float64(timeout.Milliseconds())),
	})
	if err != nil {
		return "", fmt.Errorf("structured-data block never attached: %w", err)
	}

	raw, err := handle.TextContent()
	if err != nil {
		return "", fmt.Errorf("read structured-data block: %w", err)
	}

	return jsonld.DatePosted(raw)
}
