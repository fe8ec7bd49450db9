// Load envs from .env
// Load YAML config
// Validate config
// Provide default values

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"go-jobscout-automation/internal/browser"
	"go-jobscout-automation/internal/scraper"
)

type Config struct {
	//Browser identity
	UserAgent            string `yaml:"user_agent"`
	Headful              bool   `yaml:"headful" env:"HEADFUL"`
	NavigationTimeoutSec int    `yaml:"navigation_timeout_sec"`
	ElementTimeoutSec    int    `yaml:"element_timeout_sec"`

	//Default search for scheduled runs
	Technology string   `yaml:"technology"`
	Experience string   `yaml:"experience"`
	Sites      []string `yaml:"sites"`

	//Collaborators; empty disables the corresponding integration
	DatabaseURL    string `yaml:"database_url" env:"DATABASE_URL"`
	RedisURL       string `yaml:"redis_url" env:"REDIS_URL"`
	TelegramToken  string `yaml:"telegram_token" env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID int64  `yaml:"telegram_chat_id" env:"TELEGRAM_CHAT_ID"`

	//Server
	Port                string `yaml:"port" env:"PORT"`
	ScrapeIntervalHours int    `yaml:"scrape_interval_hours" env:"SCRAPE_INTERVAL_HOURS"`

	//Paths
	ScreenshotDir string `yaml:"screenshot_dir"`
}

const defaultConfigPath = "configs/config.yaml"

func Load() (*Config, error) {
	return LoadFrom(defaultConfigPath)
}

func LoadFrom(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	//Override with env vars
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.TelegramToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
		}
		cfg.TelegramChatID = id
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("HEADFUL"); v != "" {
		cfg.Headful = v == "1" || v == "true"
	}
	if v := os.Getenv("SCRAPE_INTERVAL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours < 0 {
			return nil, fmt.Errorf("SCRAPE_INTERVAL_HOURS must be a non-negative integer, got %q", v)
		}
		cfg.ScrapeIntervalHours = hours
	}

	//Set default values if not set
	if cfg.Technology == "" {
		cfg.Technology = "all"
	}
	if cfg.Experience == "" {
		cfg.Experience = string(scraper.ExperienceAll)
	}
	if len(cfg.Sites) == 0 {
		for _, site := range scraper.AllSites() {
			cfg.Sites = append(cfg.Sites, string(site))
		}
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "logs/screenshots"
	}

	//Validate
	if !scraper.ParseExperience(cfg.Experience).Valid() {
		return nil, fmt.Errorf("experience must be one of all, junior, mid, senior; got %q", cfg.Experience)
	}
	if len(scraper.ParseSites(cfg.Sites)) == 0 {
		return nil, fmt.Errorf("sites contains no known portal: %v", cfg.Sites)
	}

	return cfg, nil
}

// Identity maps the browser settings onto a session identity.
func (c *Config) Identity() browser.Identity {
	identity := browser.DefaultIdentity()
	if c.UserAgent != "" {
		identity.UserAgent = c.UserAgent
	}
	identity.Headless = !c.Headful
	if c.NavigationTimeoutSec > 0 {
		identity.NavigationTimeout = time.Duration(c.NavigationTimeoutSec) * time.Second
	}
	if c.ElementTimeoutSec > 0 {
		identity.ElementTimeout = time.Duration(c.ElementTimeoutSec) * time.Second
	}
	return identity
}

// DefaultQuery is the configured search used by scheduled runs.
func (c *Config) DefaultQuery() scraper.Query {
	return scraper.Query{
		Technology: c.Technology,
		Experience: scraper.ParseExperience(c.Experience),
		Sites:      scraper.ParseSites(c.Sites),
	}
}
