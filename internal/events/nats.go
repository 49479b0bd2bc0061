package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const (
	// DefaultSubjectPrefix is the root subject; events go to <prefix>.<game code>.phase
	DefaultSubjectPrefix = "mindmeld.sessions"

	natsMaxReconnects  = 10
	natsReconnectWait  = 2 * time.Second
	natsConnectTimeout = 5 * time.Second
)

// Connect dials NATS with reconnect handling that reports through logger
func Connect(url string, logger zerolog.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("mindmeld"),
		nats.Timeout(natsConnectTimeout),
		nats.MaxReconnects(natsMaxReconnects),
		nats.ReconnectWait(natsReconnectWait),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn().Err(err).Msg("disconnected from NATS")
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info().Str("url", nc.ConnectedUrl()).Msg("reconnected to NATS")
		}),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			logger.Error().Err(err).Msg("NATS error")
		}),
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return nc, nil
}

// NATSConfig holds configuration for the NATS publisher
type NATSConfig struct {
	Conn *nats.Conn

	// SubjectPrefix defaults to DefaultSubjectPrefix
	SubjectPrefix string
}

// NATSPublisher publishes phase changes as JSON on core NATS subjects
type NATSPublisher struct {
	conn   *nats.Conn
	prefix string
}

// NewNATS creates a new NATS-backed publisher
func NewNATS(cfg *NATSConfig) (*NATSPublisher, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.Conn == nil {
		return nil, errors.New("nats connection cannot be nil")
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}

	return &NATSPublisher{
		conn:   cfg.Conn,
		prefix: prefix,
	}, nil
}

// Subject returns the subject a game's phase changes are published on
func Subject(prefix, gameCode string) string {
	return fmt.Sprintf("%s.%s.phase", prefix, gameCode)
}

func (p *NATSPublisher) PublishPhaseChanged(ctx context.Context, event *PhaseChanged) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal phase change: %w", err)
	}

	if err := p.conn.Publish(Subject(p.prefix, event.GameCode), data); err != nil {
		return fmt.Errorf("failed to publish phase change: %w", err)
	}

	return nil
}
