package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"go-jobscout-automation/internal/config"
	"go-jobscout-automation/internal/orchestrator"
	"go-jobscout-automation/internal/reporter"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/store"
)

func main() {
	technology := flag.String("technology", "", "technology to search for (default from config)")
	experience := flag.String("experience", "", "seniority filter: all, junior, mid, senior")
	sites := flag.String("sites", "", "comma-separated portals: justjoinit, nofluffjobs")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	level := zerolog.InfoLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().Level(level)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}

	query := cfg.DefaultQuery()
	if *technology != "" {
		query.Technology = *technology
	}
	if *experience != "" {
		query.Experience = scraper.ParseExperience(*experience)
		if !query.Experience.Valid() {
			logger.Fatal().Str("experience", *experience).Msg("experience must be one of all, junior, mid, senior")
		}
	}
	if *sites != "" {
		query.Sites = scraper.ParseSites(strings.Split(*sites, ","))
		if len(query.Sites) == 0 {
			logger.Fatal().Str("sites", *sites).Msg("no known portal in sites")
		}
	}

	ctx := context.Background()
	logger.Info().
		Str("technology", query.Technology).
		Str("experience", string(query.Experience)).
		Msg("starting extraction")

	orch := orchestrator.New(cfg, logger)
	offers, summary := orch.Run(ctx, query)

	for name, counts := range summary.Sites {
		logger.Info().
			Str("site", name).
			Int("offers", counts.Emitted).
			Int("skipped", counts.Skipped).
			Int("fallbacks", counts.FieldFallbacks).
			Bool("failed", counts.Failed).
			Msg("site summary")
	}

	saveOffers(logger, offers)

	if cfg.DatabaseURL != "" {
		st, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not connect to database")
		}
		defer st.Close()
		if err := st.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("could not ensure schema")
		}
		written, err := st.ReplaceOffers(ctx, offers)
		if err != nil {
			logger.Fatal().Err(err).Msg("could not persist offers")
		}
		logger.Info().Int("stored", written).Msg("offers persisted")
	}

	if cfg.TelegramToken != "" {
		rep, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Warn().Err(err).Msg("could not init telegram reporter")
		} else if err := rep.SendSummary(query, len(offers), summary.Sites); err != nil {
			logger.Warn().Err(err).Msg("could not send telegram summary")
		}
	}

	logger.Info().Int("offers", len(offers)).Msg("execution finished")
}

// saveOffers writes the run's results to logs/job-search-YYYY-MM-DD.json.
func saveOffers(logger zerolog.Logger, offers []scraper.JobOffer) {
	if len(offers) == 0 {
		logger.Info().Msg("no offers to save")
		return
	}

	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		logger.Warn().Err(err).Msg("failed to create logs directory")
		return
	}

	filename := fmt.Sprintf("job-search-%s.json", time.Now().Format("2006-01-02"))
	path := filepath.Join(logDir, filename)

	data, err := json.MarshalIndent(offers, "", " ")
	if err != nil {
		logger.Warn().Err(err).Msg("failed to marshal offers")
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Warn().Err(err).Msg("failed to write results file")
		return
	}
	logger.Info().Str("path", path).Msg("results saved")
}
