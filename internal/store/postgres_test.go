package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobscout-automation/internal/scraper"
)

// Needs a live postgres; set DATABASE_URL to enable.
func openTestStore(t *testing.T) *Store {
	t.Helper()
	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		t.Skip("DATABASE_URL not set; skipping postgres integration test")
	}

	st, err := Connect(context.Background(), connString)
	require.NoError(t, err)
	t.Cleanup(st.Close)

	require.NoError(t, st.EnsureSchema(context.Background()))
	return st
}

func TestReplaceOffersClearsPreviousRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	date := "2026-08-01"
	first := []scraper.JobOffer{
		{Title: "Go Developer", Company: "ACME", Location: "Warszawa", Salary: "20 000 PLN",
			Skills: "Go, Docker", URL: "https://test/offer/1", Source: "JustJoin.IT", DatePosted: &date},
		{Title: "Backend Engineer", Company: "Initech", Location: "Remote", Salary: "not specified",
			Skills: "", URL: "https://test/offer/2", Source: "NoFluffJobs"},
	}

	written, err := st.ReplaceOffers(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	second := []scraper.JobOffer{
		{Title: "Platform Engineer", Company: "Globex", Location: "Kraków",
			URL: "https://test/offer/3", Source: "JustJoin.IT"},
	}

	written, err = st.ReplaceOffers(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	offers, err := st.RecentOffers(ctx, 20)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, "https://test/offer/3", offers[0].URL)
	assert.Nil(t, offers[0].DatePosted)
}

func TestRecentOffersRoundTripsDatePosted(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	date := "2026-08-15"
	_, err := st.ReplaceOffers(ctx, []scraper.JobOffer{
		{Title: "Go Developer", Company: "ACME", Location: "Warszawa",
			URL: "https://test/offer/date", Source: "JustJoin.IT", DatePosted: &date},
	})
	require.NoError(t, err)

	offers, err := st.RecentOffers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.NotNil(t, offers[0].DatePosted)
	assert.Equal(t, "2026-08-15", *offers[0].DatePosted)
}
