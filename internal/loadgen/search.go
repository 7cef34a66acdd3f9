package loadgen

import (
	"context"
	"sync"
	"sync/atomic"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
)

// searchOutcome is one verified search.
type searchOutcome struct {
	Query      model.SearchQuery
	Response   service.SearchResponse
	Violations []string
	Err        error
}

// searchTargets picks up to n player ids spread evenly over records, latest
// season only.
func searchTargets(records []model.PlayerSeasonRecord, n int) []int64 {
	seen := make(map[int64]struct{})
	var ids []int64
	for i := range records {
		if _, ok := seen[records[i].PlayerID]; ok {
			continue
		}
		seen[records[i].PlayerID] = struct{}{}
		ids = append(ids, records[i].PlayerID)
	}
	if n <= 0 || n >= len(ids) {
		return ids
	}
	out := make([]int64, 0, n)
	step := float64(len(ids)) / float64(n)
	for i := 0; i < n; i++ {
		out = append(out, ids[int(float64(i)*step)])
	}
	return out
}

// runSearches issues searches concurrently and verifies every response.
func runSearches(ctx context.Context, cfg *Config, client *HTTPClient, targets []int64, stats *Stats) []searchOutcome {
	log := logger.Named("loadgen")
	log.Info(ctx, "running searches", logger.Int("searches", len(targets)), logger.Int("workers", cfg.Workers))

	outcomes := make([]searchOutcome, len(targets))
	var failed, withMatch, violations atomic.Int64

	idx := make(chan int, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idx {
				if ctx.Err() != nil {
					return
				}
				q := model.SearchQuery{
					PlayerID:   targets[i],
					Mode:       model.ModeSimilar,
					MinMinutes: cfg.MinMinutesFilter,
				}
				if cfg.UpgradeEveryNth > 0 && i%cfg.UpgradeEveryNth == cfg.UpgradeEveryNth-1 {
					q.Mode = model.ModeUpgrade
				}
				out := searchOutcome{Query: q}
				resp, err := client.Post(ctx, "/search", q)
				if err == nil {
					err = decodeResponse(resp, &out.Response)
				}
				if err != nil {
					out.Err = err
					failed.Add(1)
					log.Warn(ctx, "search failed", logger.Any("player_id", targets[i]), logger.Error(err))
				} else {
					out.Violations = Verify(q, &out.Response)
					if len(out.Response.Matches) > 0 {
						withMatch.Add(1)
					}
					if len(out.Violations) > 0 {
						violations.Add(int64(len(out.Violations)))
						log.Error(ctx, "search violated ranking rules",
							logger.Any("player_id", targets[i]),
							logger.Any("violations", out.Violations),
						)
					}
				}
				outcomes[i] = out
			}
		}()
	}
	go func() {
		defer close(idx)
		for i := range targets {
			select {
			case <-ctx.Done():
				return
			case idx <- i:
			}
		}
	}()
	wg.Wait()

	stats.SearchesRun = len(targets)
	stats.SearchesFailed = int(failed.Load())
	stats.SearchesWithMatch = int(withMatch.Load())
	stats.Violations = int(violations.Load())
	return outcomes
}
