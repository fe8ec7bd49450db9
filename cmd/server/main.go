package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"go-jobscout-automation/internal/config"
	"go-jobscout-automation/internal/orchestrator"
	"go-jobscout-automation/internal/reporter"
	"go-jobscout-automation/internal/runs"
	"go-jobscout-automation/internal/scheduler"
	"go-jobscout-automation/internal/scraper"
	"go-jobscout-automation/internal/store"
	"go-jobscout-automation/internal/worker"
)

type scrapeRequest struct {
	Technology string   `json:"technology"`
	Experience string   `json:"experience"`
	Sites      []string `json:"sites"`
}

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("could not load config")
	}
	if cfg.DatabaseURL == "" {
		logger.Fatal().Msg("DATABASE_URL is required")
	}
	if cfg.RedisURL == "" {
		logger.Fatal().Msg("REDIS_URL is required")
	}

	ctx := context.Background()

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to database")
	}
	defer st.Close()
	if err := st.EnsureSchema(ctx); err != nil {
		logger.Fatal().Err(err).Msg("could not ensure schema")
	}

	rdb, err := runs.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not connect to redis")
	}
	tracker := runs.NewTracker(rdb)

	var notifier worker.Notifier
	if cfg.TelegramToken != "" {
		rep, err := reporter.NewTelegramReporter(cfg.TelegramToken, cfg.TelegramChatID)
		if err != nil {
			logger.Warn().Err(err).Msg("could not init telegram reporter; continuing without")
		} else {
			notifier = rep
		}
	}

	orch := orchestrator.New(cfg, logger)
	w := worker.New(orch, st, tracker, notifier, logger)

	if cfg.ScrapeIntervalHours > 0 {
		sched := scheduler.New(w, cfg.DefaultQuery(), cfg.ScrapeIntervalHours, logger)
		if err := sched.Start(ctx); err != nil {
			logger.Fatal().Err(err).Msg("could not start scheduler")
		}
		defer sched.Stop()
	}

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "JobScout extraction API is running!",
			"status":  "healthy",
		})
	})

	api := r.Group("/api")

	api.POST("/scrape", func(c *gin.Context) {
		var req scrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		query := cfg.DefaultQuery()
		if req.Technology != "" {
			query.Technology = req.Technology
		}
		if req.Experience != "" {
			query.Experience = scraper.ParseExperience(req.Experience)
			if !query.Experience.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "experience must be one of all, junior, mid, senior"})
				return
			}
		}
		if len(req.Sites) > 0 {
			query.Sites = scraper.ParseSites(req.Sites)
			if len(query.Sites) == 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "no known portal in sites"})
				return
			}
		}

		id, err := w.Dispatch(c.Request.Context(), query)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"task_id": id})
	})

	api.GET("/scrape/:id", func(c *gin.Context) {
		state, err := tracker.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, runs.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "unknown task id"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": state.Status, "result": state})
	})

	api.GET("/offers", func(c *gin.Context) {
		offers, err := st.RecentOffers(c.Request.Context(), 20)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"offers": offers})
	})

	logger.Info().Str("port", cfg.Port).Msg("server listening")
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}
