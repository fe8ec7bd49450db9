// Package debug captures post-mortem screenshots when a site-level failure
// needs a look at what the page actually rendered.
package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
)

type Screenshotter struct {
	outputDir string
	log       zerolog.Logger
}

func NewScreenshotter(outputDir string, log zerolog.Logger) *Screenshotter {
	if outputDir == "" {
		outputDir = filepath.Join("logs", "screenshots")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Warn().Err(err).Str("dir", outputDir).Msg("could not create screenshot directory")
	}
	return &Screenshotter{outputDir: outputDir, log: log}
}

// Capture saves a timestamped full-page screenshot. Failure to capture is
// only logged; the caller is already on an error path.
func (s *Screenshotter) Capture(page playwright.Page, name string) {
	filename := fmt.Sprintf("%s_%s.png", name, time.Now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(s.outputDir, filename)

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		s.log.Warn().Err(err).Str("name", name).Msg("failed to capture screenshot")
		return
	}
	s.log.Info().Str("path", path).Msg("screenshot saved")
}
