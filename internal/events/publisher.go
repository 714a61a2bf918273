// Package events publishes document-change notifications to NATS so
// downstream consumers (site builders, caches) can react to normalized
// output without polling the tree.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/docnorm/internal/config"
	"git.home.luguber.info/inful/docnorm/internal/errors"
	"git.home.luguber.info/inful/docnorm/internal/logfields"
)

// DocumentChangedEvent describes one normalized document whose content
// differs from its input.
type DocumentChangedEvent struct {
	RunID     string    `json:"run_id"`
	RelPath   string    `json:"rel_path"`
	Diagrams  int       `json:"diagrams,omitempty"`
	Relocated int       `json:"relocated,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher sends change events over a JetStream subject.
type Publisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewPublisher connects to NATS using the events configuration.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, errors.New(errors.CategoryConfig, "event publishing is disabled")
	}

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "connect to NATS")
	}
	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, errors.CategoryExternal, "create JetStream context")
	}

	slog.Info("Event publisher connected", logfields.URL(cfg.URL), slog.String("subject", cfg.Subject))
	return &Publisher{conn: conn, js: js, subject: cfg.Subject}, nil
}

// PublishChanged sends one event per changed document.
func (p *Publisher) PublishChanged(ctx context.Context, event *DocumentChangedEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event.Timestamp = time.Now()
	data, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "marshal event")
	}
	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return errors.Wrap(err, errors.CategoryExternal, "publish event")
	}

	slog.Debug("Published change event", logfields.RelPath(event.RelPath), logfields.RunID(event.RunID))
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
