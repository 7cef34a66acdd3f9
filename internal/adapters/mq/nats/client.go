// Package nats carries ingest batches and asynchronous search requests over
// NATS JetStream.
package nats

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Config holds NATS client configuration.
type Config struct {
	URL           string
	StreamName    string
	RetryAttempts int
	RetryDelay    time.Duration
	AckWait       time.Duration
	MaxDeliver    int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		URL:           nats.DefaultURL,
		StreamName:    "scout",
		RetryAttempts: 3,
		RetryDelay:    time.Second,
		AckWait:       30 * time.Second,
		MaxDeliver:    3,
	}
}

// corePublisher is the plain NATS publish used for subjects outside the
// stream, such as client inboxes.
type corePublisher interface {
	Publish(subject string, data []byte) error
}

// Client wraps NATS JetStream functionality.
type Client struct {
	nc     *nats.Conn
	core   corePublisher
	js     jetstream.JetStream
	config Config
}

// NewClient creates a new NATS client with JetStream support.
func NewClient(cfg Config) (*Client, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name("scout"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(cfg.RetryAttempts),
		nats.ReconnectWait(cfg.RetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return &Client{nc: nc, core: nc, js: js, config: cfg}, nil
}

// CreateStream creates or updates the stream holding all scout subjects.
func (c *Client) CreateStream(ctx context.Context, subjects []string) error {
	_, err := c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:      c.config.StreamName,
		Subjects:  subjects,
		Retention: jetstream.WorkQueuePolicy,
		Storage:   jetstream.FileStorage,
		MaxAge:    24 * time.Hour,
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// Publish publishes a message to a subject. Stream subjects go through
// JetStream and wait for the ack; any other subject is a core NATS publish.
func (c *Client) Publish(ctx context.Context, subject string, data []byte) error {
	if !IsStreamSubject(subject) {
		if err := c.core.Publish(subject, data); err != nil {
			return fmt.Errorf("failed to publish message to %s: %w", subject, err)
		}
		return nil
	}
	if _, err := c.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// MessageHandler is called with the payload of each delivered message.
type MessageHandler func(ctx context.Context, data []byte) error

// Subscribe creates a durable consumer and feeds its messages to handler.
// Handler errors wrapping ErrMalformed terminate the message; other errors
// request redelivery.
func (c *Client) Subscribe(ctx context.Context, subject, consumerName string, handler MessageHandler) (jetstream.ConsumeContext, error) {
	consumer, err := c.js.CreateOrUpdateConsumer(ctx, c.config.StreamName, jetstream.ConsumerConfig{
		Durable:       consumerName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		AckWait:       c.config.AckWait,
		MaxDeliver:    c.config.MaxDeliver,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	consumeCtx, err := consumer.Consume(func(msg jetstream.Msg) {
		if err := handler(ctx, msg.Data()); err != nil {
			if errors.Is(err, ErrMalformed) {
				_ = msg.Term()
				return
			}
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}
	return consumeCtx, nil
}

// Close drains and closes the NATS connection.
func (c *Client) Close() {
	if c.nc != nil {
		_ = c.nc.Drain()
	}
}

// IsConnected returns true if connected to NATS.
func (c *Client) IsConnected() bool {
	return c.nc != nil && c.nc.IsConnected()
}
