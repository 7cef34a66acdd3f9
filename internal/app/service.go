// Package service wires the similarity engine, the record store and the
// asynchronous search pipeline into the operations the transports expose.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scout/internal/adapters/mq/queue"
	workerpool "github.com/okian/scout/internal/adapters/mq/worker"
	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/dedupe"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/normalize"
	"github.com/okian/scout/internal/domain/pool"
	"github.com/okian/scout/internal/domain/similarity"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize  = 1024
	defaultDedupeSize = 50_000
	defaultMaxTopN    = 100
)

// ResultPublisher delivers the outcome of an asynchronous search.
type ResultPublisher interface {
	PublishResult(ctx context.Context, subject, jobID string, result any, searchErr error) error
}

// IngestReport summarizes one ingest call.
type IngestReport struct {
	BatchID         string `json:"batch_id"`
	Received        int    `json:"received"`
	Inserted        int    `json:"inserted"`
	Updated         int    `json:"updated"`
	Duplicate       bool   `json:"duplicate"`
	SnapshotVersion uint64 `json:"snapshot_version"`
	TotalRecords    int    `json:"total_records"`
}

// Service implements the operations behind the HTTP, NATS and MCP adapters.
type Service struct {
	mu       sync.RWMutex
	ingestMu sync.Mutex

	// Core components
	catalog    *catalog.Catalog
	store      repository.Store
	snapshots  *repository.SnapshotHolder
	normalizer *normalize.Normalizer
	engine     *similarity.Engine
	filter     *pool.Filter
	deduper    dedupe.Deduper
	jobs       queue.Queue
	workerPool *workerpool.Pool
	results    ResultPublisher

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	maxTopN     int
	now         func() time.Time

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of search workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the search queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many ingest batch ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxTopN caps the number of matches one search returns.
func WithMaxTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxTopN = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the position-group catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithStore sets the raw record store. The service closes it on Stop.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithNormalizer sets the cohort normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithEngine sets the similarity engine.
func WithEngine(e *similarity.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithPoolFilter sets the search-pool filter.
func WithPoolFilter(f *pool.Filter) Option {
	return func(s *Service) {
		if f != nil {
			s.filter = f
		}
	}
}

// WithResultPublisher sets where asynchronous search results go.
func WithResultPublisher(p ResultPublisher) Option {
	return func(s *Service) {
		s.results = p
	}
}

// WithClock sets the clock used for ages and snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Components not supplied through options get
// their defaults: the built-in catalog, an in-memory store and a default
// engine.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		dedupeSize:  defaultDedupeSize,
		maxTopN:     defaultMaxTopN,
		now:         time.Now,
		snapshots:   repository.NewSnapshotHolder(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}
	if err := s.catalog.Validate(); err != nil {
		return nil, err
	}
	if s.store == nil {
		s.store = repository.NewMemoryStore()
	}
	if s.normalizer == nil {
		s.normalizer = normalize.New(normalize.WithCatalog(s.catalog))
	}
	if s.filter == nil {
		s.filter = pool.New()
	}
	if s.engine == nil {
		e, err := similarity.New(similarity.WithLogger(s.logger.Named("engine")))
		if err != nil {
			return nil, err
		}
		s.engine = e
	}
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s, nil
}

// Start loads any persisted records into a snapshot and starts the worker
// pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	s.logger.Info(ctx, "starting scout service...")

	s.ingestMu.Lock()
	_, err := s.rebuild(ctx)
	s.ingestMu.Unlock()
	if err != nil {
		return fmt.Errorf("load records: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(runCtx, s.workerCount, s.jobs, workerpool.HandlerFunc(s.HandleJob))
	s.workerPool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "scout service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("records", s.snapshots.Load().Len()),
	)
	return nil
}

// Stop drains the worker pool and closes the store.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping scout service...")

	var errs []error
	if err := s.workerPool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.cancel()
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}

	s.started = false
	s.logger.Info(ctx, "scout service stopped")
	return errors.Join(errs...)
}

// Ingest prepares and stores a batch of raw records, then re-normalizes the
// whole dataset and publishes it as a new snapshot. A batch id seen before
// is acknowledged without being applied again; an empty id gets a fresh one.
func (s *Service) Ingest(ctx context.Context, batchID string, records []model.PlayerSeasonRecord) (IngestReport, error) {
	if len(records) == 0 {
		return IngestReport{}, ErrEmptyBatch
	}
	if batchID == "" {
		batchID = uuid.NewString()
	}
	report := IngestReport{BatchID: batchID, Received: len(records)}

	if !s.deduper.Claim(ctx, batchID) {
		metrics.RecordIngestDuplicate()
		s.logger.Debug(ctx, "duplicate batch", logger.String("batch_id", batchID))
		report.Duplicate = true
		snap := s.snapshots.Load()
		report.SnapshotVersion, report.TotalRecords = snap.Version, snap.Len()
		return report, nil
	}

	prepared := normalize.PrepareAll(records, s.catalog, s.now())

	s.ingestMu.Lock()
	defer s.ingestMu.Unlock()

	res, err := s.store.Upsert(ctx, prepared)
	if err != nil {
		s.deduper.Release(ctx, batchID)
		reason := "store"
		if errors.Is(err, repository.ErrInvalidRecord) {
			reason = "invalid"
		}
		metrics.RecordRecordRejected(reason)
		metrics.RecordErrorByComponent("service", "ingest_"+reason)
		return report, fmt.Errorf("ingest %s: %w", batchID, err)
	}
	metrics.RecordRecordsIngested(len(prepared))
	report.Inserted, report.Updated = res.Inserted, res.Updated

	snap, err := s.rebuild(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "snapshot")
		return report, fmt.Errorf("rebuild snapshot after %s: %w", batchID, err)
	}
	report.SnapshotVersion, report.TotalRecords = snap.Version, snap.Len()

	s.logger.Info(ctx, "batch ingested",
		logger.String("batch_id", batchID),
		logger.Int("inserted", res.Inserted),
		logger.Int("updated", res.Updated),
		logger.Int("total", snap.Len()),
	)
	return report, nil
}

// rebuild normalizes every stored record and publishes the result.
// Callers hold ingestMu.
func (s *Service) rebuild(ctx context.Context) (*repository.Snapshot, error) {
	start := time.Now()
	all, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.normalizer.Normalize(ctx, all)
	if err != nil {
		return nil, err
	}
	snap := repository.NewSnapshot(s.snapshots.NextVersion(), s.now(), res.Records, res.Cohorts)
	if !s.snapshots.Publish(snap) {
		return nil, fmt.Errorf("snapshot %d is older than the published one", snap.Version)
	}

	var normalized, skipped int
	for _, c := range res.Cohorts {
		if c.Normalized {
			normalized++
		} else {
			skipped++
		}
	}
	metrics.RecordSnapshotPublished(time.Since(start), normalized, skipped)
	metrics.UpdateTotalRecords(snap.Len())
	return snap, nil
}

// Snapshot returns the current read-only dataset.
func (s *Service) Snapshot() *repository.Snapshot {
	return s.snapshots.Load()
}

// Catalog returns the position-group catalog.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// Submit queues a search for the worker pool and returns its job id.
func (s *Service) Submit(ctx context.Context, job model.SearchJob) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return "", ErrNotStarted
	}
	if err := job.Query.Validate(); err != nil {
		return "", err
	}
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if err := s.jobs.Enqueue(ctx, job); err != nil {
		if errors.Is(err, queue.ErrFull) {
			return "", fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return "", err
	}
	return job.ID, nil
}

// HandleJob runs one queued search and publishes its outcome when the job
// names a reply subject.
func (s *Service) HandleJob(ctx context.Context, job model.SearchJob) error { //nolint:gocritic // hugeParam: jobs are passed by value through the queue
	resp, searchErr := s.Search(ctx, job.Query)
	resp.ID = job.ID
	if job.ReplyTo == "" || s.results == nil {
		if searchErr != nil {
			return fmt.Errorf("search job %s: %w", job.ID, searchErr)
		}
		return nil
	}
	var result any
	if searchErr == nil {
		result = resp
	}
	return s.results.PublishResult(ctx, job.ReplyTo, job.ID, result, searchErr)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshots.Load()
	stats := map[string]any{
		"started":          s.started,
		"workerCount":      s.workerCount,
		"queueSize":        s.queueSize,
		"dedupeSize":       s.dedupeSize,
		"dedupeEntries":    s.deduper.Len(),
		"snapshotVersion":  snap.Version,
		"records":          snap.Len(),
		"groups":           snap.GroupSizes(),
		"leagueFilters":    s.filter.Leagues(),
		"snapshotBuiltAt":  snap.BuiltAt,
		"normalizedGroups": snap.Cohorts,
	}
	if s.started {
		queueLen := s.jobs.Len()
		stats["queueLength"] = queueLen
		stats["activeWorkers"] = s.workerPool.Active()
		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.workerPool.Size())
	}
	return stats
}
