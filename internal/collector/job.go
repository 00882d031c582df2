package collector

import (
	"context"
	"time"

	"github.com/serper/portfolio/internal/portfolio"
	"go.uber.org/zap"
)

// Source produces the repositories of one fetch cycle
type Source interface {
	Collect(ctx context.Context) ([]portfolio.Repository, error)
}

// Sink receives finished snapshots
type Sink interface {
	Publish(snapshot portfolio.Snapshot) error
}

// Job runs one collect-and-publish cycle, typically from a cron schedule
type Job struct {
	user   string
	source Source
	sink   Sink
	logger *zap.Logger
	now    func() time.Time
}

// NewJob creates a Job publishing the snapshots of user
func NewJob(user string, source Source, sink Sink, logger *zap.Logger) *Job {
	return &Job{
		user:   user,
		source: source,
		sink:   sink,
		logger: logger,
		now:    time.Now,
	}
}

// Run collects the repositories and publishes them as a snapshot
func (j *Job) Run(ctx context.Context) error {
	start := j.now()

	repos, err := j.source.Collect(ctx)
	if err != nil {
		return err
	}

	snapshot := portfolio.NewSnapshot(j.user, repos, j.now())
	if err := j.sink.Publish(snapshot); err != nil {
		return err
	}

	j.logger.Info("collection cycle finished",
		zap.Int("repositories", len(snapshot.Repositories)),
		zap.Strings("technologies", snapshot.Technologies),
		zap.Duration("took", j.now().Sub(start)),
	)
	return nil
}
