package nofluffjobs

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobscout-automation/internal/config"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/telemetry"
)

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name       string
		technology string
		experience scraper.Experience
		expected   string
	}{
		{
			name:       "technology capitalized into path",
			technology: "python",
			experience: scraper.ExperienceAll,
			expected:   "https://nofluffjobs.com/pl/Python",
		},
		{
			name:       "mixed case normalized",
			technology: "jAVA",
			experience: scraper.ExperienceAll,
			expected:   "https://nofluffjobs.com/pl/Java",
		},
		{
			name:       "seniority criteria appended",
			technology: "go",
			experience: scraper.ExperienceMid,
			expected:   "https://nofluffjobs.com/pl/Go?criteria=seniority%3Dmid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SearchURL(tt.technology, tt.experience))
		})
	}
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Python", capitalize("python"))
	assert.Equal(t, "Java", capitalize("JAVA"))
	assert.Equal(t, "C++", capitalize("c++"))
	assert.Equal(t, "", capitalize("  "))
}

func TestDefaultSelectorsCoverAllFields(t *testing.T) {
	sel := DefaultSelectors()
	assert.NotEmpty(t, sel.CookieAccept)
	assert.NotEmpty(t, sel.ListContainer)
	assert.NotEmpty(t, sel.OfferLink)
	assert.NotEmpty(t, sel.Title)
	assert.NotEmpty(t, sel.Company)
	assert.NotEmpty(t, sel.Location)
	assert.NotEmpty(t, sel.PopoverBody)
	assert.NotEmpty(t, sel.Salary)
	assert.NotEmpty(t, sel.SkillTile)
}

// Integration test: drives a real browser against the live site.
func TestScrapeReal(t *testing.T) {
	if os.Getenv("JOBSCOUT_E2E") == "" {
		t.Skip("set JOBSCOUT_E2E=1 to run browser integration tests")
	}

	cfg := &config.Config{ScreenshotDir: t.TempDir()}
	rec := telemetry.NewRecorder(zerolog.Nop())
	s := New(cfg, rec)

	offers, err := s.Scrape(context.Background(), scraper.Query{
		Technology: "python",
		Experience: scraper.ExperienceAll,
	})
	require.NoError(t, err)

	seen := map[string]bool{}
	for _, offer := range offers {
		assert.NotEmpty(t, offer.Title)
		assert.NotContains(t, offer.Title, "NOWA")
		assert.NotEmpty(t, offer.Company)
		assert.NotEmpty(t, offer.Location)
		assert.Contains(t, offer.URL, "https://nofluffjobs.com")
		assert.False(t, seen[offer.URL], "duplicate URL in one run: %s", offer.URL)
		seen[offer.URL] = true
	}
}
