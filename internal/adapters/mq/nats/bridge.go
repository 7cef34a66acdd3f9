package nats

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Durable consumer names.
const (
	ingestConsumer = "scout-ingest"
	searchConsumer = "scout-search"
)

// Publisher sends raw payloads to a subject.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// IngestFunc stores a batch of raw records.
type IngestFunc func(ctx context.Context, batchID string, records []model.PlayerSeasonRecord) error

// Submitter queues a search job.
type Submitter interface {
	Submit(ctx context.Context, job model.SearchJob) (string, error)
}

// Bridge turns bus messages into service calls.
type Bridge struct {
	client *Client
	ingest IngestFunc
	submit Submitter
	logger logger.Logger

	mu       sync.Mutex
	consumes []jetstream.ConsumeContext
}

// NewBridge creates a bridge. client may be nil in tests that drive the
// handlers directly.
func NewBridge(client *Client, ingest IngestFunc, submit Submitter) *Bridge {
	return &Bridge{
		client: client,
		ingest: ingest,
		submit: submit,
		logger: logger.Get().Named("nats"),
	}
}

// Start creates the stream and subscribes to the ingest and search subjects.
func (b *Bridge) Start(ctx context.Context) error {
	if b.client == nil {
		return fmt.Errorf("nats bridge has no client")
	}
	if err := b.client.CreateStream(ctx, Subjects()); err != nil {
		return err
	}
	subs := []struct {
		subject, consumer string
		handler           MessageHandler
	}{
		{SubjectRecordsIngest, ingestConsumer, b.HandleIngest},
		{SubjectSearchRequest, searchConsumer, b.HandleSearchRequest},
	}
	for _, s := range subs {
		cc, err := b.client.Subscribe(ctx, s.subject, s.consumer, s.handler)
		if err != nil {
			b.Stop()
			return fmt.Errorf("subscribe %s: %w", s.subject, err)
		}
		b.mu.Lock()
		b.consumes = append(b.consumes, cc)
		b.mu.Unlock()
		b.logger.Info(ctx, "subscribed", logger.String("subject", s.subject), logger.String("consumer", s.consumer))
	}
	return nil
}

// Stop stops all consumers.
func (b *Bridge) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, cc := range b.consumes {
		cc.Stop()
	}
	b.consumes = nil
}

// HandleIngest processes one scout.records.ingest payload.
func (b *Bridge) HandleIngest(ctx context.Context, data []byte) error {
	msg, err := DecodeIngest(data)
	if err != nil {
		metrics.RecordBusMessage(SubjectRecordsIngest, "malformed")
		b.logger.Warn(ctx, "dropping ingest message", logger.Error(err))
		return err
	}
	if err := b.ingest(ctx, msg.BatchID, msg.Records); err != nil {
		metrics.RecordBusMessage(SubjectRecordsIngest, "error")
		b.logger.Error(ctx, "ingest failed", logger.String("batch_id", msg.BatchID), logger.Error(err))
		return err
	}
	metrics.RecordBusMessage(SubjectRecordsIngest, "ok")
	return nil
}

// HandleSearchRequest queues one scout.search.request payload for the
// worker pool.
func (b *Bridge) HandleSearchRequest(ctx context.Context, data []byte) error {
	msg, err := DecodeSearchRequest(data)
	if err != nil {
		metrics.RecordBusMessage(SubjectSearchRequest, "malformed")
		b.logger.Warn(ctx, "dropping search request", logger.Error(err))
		return err
	}
	replyTo := msg.ReplyTo
	if replyTo == "" {
		replyTo = SubjectSearchResult
	}
	id, err := b.submit.Submit(ctx, model.SearchJob{ID: msg.ID, Query: msg.Query, ReplyTo: replyTo})
	if err != nil {
		metrics.RecordBusMessage(SubjectSearchRequest, "error")
		b.logger.Warn(ctx, "search request not queued", logger.String("id", msg.ID), logger.Error(err))
		return err
	}
	metrics.RecordBusMessage(SubjectSearchRequest, "ok")
	b.logger.Debug(ctx, "search queued", logger.String("id", id))
	return nil
}

// ResultPublisher publishes finished asynchronous searches.
type ResultPublisher struct {
	pub Publisher
	now func() time.Time
}

// NewResultPublisher creates a ResultPublisher on pub.
func NewResultPublisher(pub Publisher) *ResultPublisher {
	return &ResultPublisher{pub: pub, now: time.Now}
}

// PublishResult encodes result, or searchErr when it is set, and publishes
// it to subject.
func (p *ResultPublisher) PublishResult(ctx context.Context, subject, jobID string, result any, searchErr error) error {
	msg := SearchResultMsg{ID: jobID, CompletedAt: p.now().UTC()}
	if searchErr != nil {
		msg.Error = searchErr.Error()
	} else {
		raw, err := Encode(result)
		if err != nil {
			return fmt.Errorf("encode result %s: %w", jobID, err)
		}
		msg.Result = raw
	}
	data, err := Encode(msg)
	if err != nil {
		return fmt.Errorf("encode result message %s: %w", jobID, err)
	}
	if err := p.pub.Publish(ctx, subject, data); err != nil {
		metrics.RecordBusMessage(subject, "error")
		return err
	}
	metrics.RecordBusMessage(subject, "ok")
	return nil
}
