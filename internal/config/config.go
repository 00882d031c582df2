package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// DefaultUser is the account whose repositories make up the portfolio
const DefaultUser = "serper"

// Config holds the application configuration
type Config struct {
	GitHubUser        string
	GitHubToken       string
	GitHubAPIURL      string
	HostingSuffix     string
	ReadmeConcurrency int
	ListenAddr        string
	Env               string
	// Collector specific configuration
	NATSUrl      string
	NATSSubject  string
	CronSchedule string
	RunOnStartup bool
}

// IsDev reports whether the development logging and server settings apply
func (c *Config) IsDev() bool {
	return c.Env == "dev"
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		GitHubUser:    os.Getenv("GITHUB_USER"),
		GitHubToken:   os.Getenv("GITHUB_TOKEN"),
		GitHubAPIURL:  os.Getenv("GITHUB_API_URL"),
		HostingSuffix: os.Getenv("HOSTING_SUFFIX"),
		ListenAddr:    os.Getenv("LISTEN_ADDR"),
		Env:           os.Getenv("APP_ENV"),
		NATSUrl:       os.Getenv("NATS_URL"),
		NATSSubject:   os.Getenv("NATS_SUBJECT"),
		CronSchedule:  os.Getenv("CRON_SCHEDULE"),
	}

	// Set defaults
	if cfg.GitHubUser == "" {
		cfg.GitHubUser = DefaultUser
	}
	if cfg.HostingSuffix == "" {
		cfg.HostingSuffix = ".github.io"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.Env == "" {
		cfg.Env = "production"
	}
	if cfg.NATSUrl == "" {
		cfg.NATSUrl = "nats://localhost:4222"
	}
	if cfg.NATSSubject == "" {
		cfg.NATSSubject = "portfolio.snapshots"
	}
	if cfg.CronSchedule == "" {
		cfg.CronSchedule = "0 * * * *" // Hourly
	}

	cfg.ReadmeConcurrency = 1
	if v := os.Getenv("README_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("README_CONCURRENCY must be an integer: %w", err)
		}
		if n < 1 {
			return nil, fmt.Errorf("README_CONCURRENCY must be at least 1, got %d", n)
		}
		cfg.ReadmeConcurrency = n
	}

	// Validate the schedule up front so the collector fails fast
	if _, err := cron.ParseStandard(cfg.CronSchedule); err != nil {
		return nil, fmt.Errorf("invalid CRON_SCHEDULE %q: %w", cfg.CronSchedule, err)
	}

	// Check if we should run on startup
	if os.Getenv("RUN_ON_STARTUP") == "true" {
		cfg.RunOnStartup = true
	}

	return cfg, nil
}
