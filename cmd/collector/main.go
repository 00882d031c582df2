package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/serper/portfolio/internal/collector"
	"github.com/serper/portfolio/internal/config"
	"github.com/serper/portfolio/internal/logger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New(false).Fatal("failed to load configuration", zap.Error(err))
	}

	l := logger.New(cfg.IsDev()).With(zap.String("service", "portfolio-collector"))
	defer func() { _ = l.Sync() }()

	// Create collector and publisher
	c, err := collector.New(cfg, l)
	if err != nil {
		l.Fatal("failed to create collector", zap.Error(err))
	}

	publisher, err := collector.NewPublisher(cfg, l)
	if err != nil {
		l.Fatal("failed to create publisher", zap.Error(err))
	}
	defer publisher.Close()

	job := collector.NewJob(cfg.GitHubUser, c, publisher, l)
	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := job.Run(ctx); err != nil {
			l.Error("collection failed", zap.Error(err))
		}
	}

	// Create cron scheduler
	scheduler := cron.New()

	if _, err := scheduler.AddFunc(cfg.CronSchedule, run); err != nil {
		l.Fatal("failed to add cron job", zap.Error(err))
	}

	// Start cron scheduler
	scheduler.Start()
	l.Info("cron scheduler started", zap.String("schedule", cfg.CronSchedule))

	// Run immediately on startup if configured
	if cfg.RunOnStartup {
		l.Info("running initial collection on startup")
		run()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	l.Info("shutting down")
	<-scheduler.Stop().Done()
}
