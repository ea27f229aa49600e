package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// NatsPublisher publishes JSON payloads to a NATS server
type NatsPublisher struct {
	conn   *nats.Conn
	logger *logrus.Logger
}

func NewNatsPublisher(url string, logger *logrus.Logger) (*NatsPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("fasohabita-server"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.WithError(err).Warn("Disconnected from NATS")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.WithField("url", nc.ConnectedUrl()).Info("Reconnected to NATS")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	return &NatsPublisher{conn: conn, logger: logger}, nil
}

func (p *NatsPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	return p.conn.Publish(subject, payload)
}

// Close flushes pending messages and closes the connection
func (p *NatsPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// LogPublisher writes events to the log; used when no broker is configured
type LogPublisher struct {
	logger *logrus.Logger
}

func NewLogPublisher(logger *logrus.Logger) *LogPublisher {
	if logger == nil {
		logger = logrus.New()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	p.logger.WithFields(logrus.Fields{
		"subject": subject,
		"payload": string(payload),
	}).Info("Listing event")
	return nil
}

func (p *LogPublisher) Close() error { return nil }
