package loadgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/scout/pkg/logger"
)

// HTTPClient wraps http.Client with timeout.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Get performs a GET request against path.
func (c *HTTPClient) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body against path.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

// decodeResponse reads and closes the body, decoding it into v on 200.
func decodeResponse(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// submitBatches posts batches concurrently using a worker pool.
func submitBatches(ctx context.Context, cfg *Config, client *HTTPClient, batches []Batch, stats *Stats) {
	log := logger.Named("loadgen")
	log.Info(ctx, "submitting batches", logger.Int("batches", len(batches)), logger.Int("workers", cfg.Workers))

	var submitted, successful, duplicate, failed atomic.Int64
	var lastReport atomic.Int64

	batchChan := make(chan Batch, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range batchChan {
				if ctx.Err() != nil {
					return
				}
				var report ingestReport
				resp, err := client.Post(ctx, "/records", b)
				if err == nil {
					err = decodeResponse(resp, &report)
				}
				submitted.Add(1)
				switch {
				case err != nil:
					failed.Add(1)
					log.Warn(ctx, "batch failed", logger.String("batch_id", b.BatchID), logger.Error(err))
				case report.Duplicate:
					duplicate.Add(1)
				default:
					successful.Add(1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if cfg.Verbose && now-last >= int64(reportInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Int("submitted", int(submitted.Load())),
						logger.Int("total", len(batches)),
						logger.Int("failed", int(failed.Load())),
					)
				}
			}
		}()
	}

	go func() {
		defer close(batchChan)
		for _, b := range batches {
			select {
			case <-ctx.Done():
				return
			case batchChan <- b:
			}
		}
	}()
	wg.Wait()

	stats.BatchesSubmitted = int(submitted.Load())
	stats.BatchesSuccessful = int(successful.Load())
	stats.BatchesDuplicate = int(duplicate.Load())
	stats.BatchesFailed = int(failed.Load())

	log.Info(ctx, "batch submission completed",
		logger.Int("successful", stats.BatchesSuccessful),
		logger.Int("duplicate", stats.BatchesDuplicate),
		logger.Int("failed", stats.BatchesFailed),
	)
}
