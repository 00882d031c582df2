package collector

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/serper/portfolio/internal/config"
	"github.com/serper/portfolio/internal/portfolio"
	"go.uber.org/zap"
)

// Publisher publishes portfolio snapshots to a NATS subject
type Publisher struct {
	nc      *nats.Conn
	subject string
	logger  *zap.Logger
}

// NewPublisher connects to the configured NATS server
func NewPublisher(cfg *config.Config, logger *zap.Logger) (*Publisher, error) {
	nc, err := nats.Connect(cfg.NATSUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &Publisher{
		nc:      nc,
		subject: cfg.NATSSubject,
		logger:  logger,
	}, nil
}

// Publish sends the snapshot as JSON
func (p *Publisher) Publish(snapshot portfolio.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	if err := p.nc.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}

	p.logger.Info("published snapshot",
		zap.String("subject", p.subject),
		zap.Int("repositories", len(snapshot.Repositories)),
	)
	return nil
}

// Close cleanly shuts down the NATS connection
func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}
