package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/normalize"
)

func rec(player int64, season int, group string, minutes float64) model.PlayerSeasonRecord {
	return model.PlayerSeasonRecord{
		PlayerID:        player,
		PlayerName:      fmt.Sprintf("Player %d", player),
		CompetitionID:   51,
		SeasonID:        season,
		CanonicalSeason: season,
		PositionGroup:   group,
		Minutes:         minutes,
		Metrics:         map[string]float64{"npg_90": 0.1 * float64(player)},
	}
}

func TestMemoryStore_BasicOperations(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(WithInitialCapacity(8))

	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("expected count 0, got %d", n)
	}

	res, err := store.Upsert(ctx, []model.PlayerSeasonRecord{rec(2, 317, "Striker", 900), rec(1, 317, "Winger", 1200)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Inserted != 2 || res.Updated != 0 {
		t.Errorf("expected 2 inserted, got %+v", res)
	}

	updated := rec(1, 317, "Winger", 1500)
	updated.Z = map[string]float64{"npg_90": 1.2}
	res, err = store.Upsert(ctx, []model.PlayerSeasonRecord{updated})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Inserted != 0 || res.Updated != 1 {
		t.Errorf("expected 1 updated, got %+v", res)
	}

	got, err := store.Get(ctx, model.RecordKey{PlayerID: 1, CompetitionID: 51, SeasonID: 317})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Minutes != 1500 {
		t.Errorf("expected minutes 1500, got %v", got.Minutes)
	}
	if got.Z != nil {
		t.Error("derived z-scores must not be stored")
	}

	all, err := store.All(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 || all[0].PlayerID != 1 || all[1].PlayerID != 2 {
		t.Errorf("expected records ordered by key, got %v", all)
	}

	// Mutating a returned record must not leak into the store.
	all[0].Metrics["npg_90"] = 99
	again, _ := store.Get(ctx, all[0].Key())
	if again.Metrics["npg_90"] == 99 {
		t.Error("store returned a shared metrics map")
	}
}

func TestMemoryStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, model.RecordKey{PlayerID: 9, CompetitionID: 1, SeasonID: 1})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	bad := []model.PlayerSeasonRecord{rec(1, 317, "Winger", 900), rec(0, 317, "Winger", 900)}
	if _, err := store.Upsert(ctx, bad); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
	if n, _ := store.Count(ctx); n != 0 {
		t.Errorf("a rejected batch must not be partially applied, got %d records", n)
	}

	negative := rec(3, 317, "Winger", -5)
	if _, err := store.Upsert(ctx, []model.PlayerSeasonRecord{negative}); !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord for negative minutes, got %v", err)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}
	if _, err := store.Upsert(ctx, []model.PlayerSeasonRecord{rec(4, 317, "Winger", 900)}); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestMemoryStore_ConcurrentUpserts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				r := rec(int64(w*1000+i+1), 317, "Winger", 900)
				if _, err := store.Upsert(ctx, []model.PlayerSeasonRecord{r}); err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				_, _ = store.All(ctx)
			}
		}(w)
	}
	wg.Wait()

	if n, _ := store.Count(ctx); n != 400 {
		t.Errorf("expected 400 records, got %d", n)
	}
}

func TestSnapshot_Indexes(t *testing.T) {
	records := []model.PlayerSeasonRecord{
		rec(2, 317, "Striker", 900),
		rec(1, 281, "Winger", 2000),
		rec(1, 317, "Winger", 1200),
		rec(3, 317, "", 500),
	}
	cohorts := []normalize.CohortStats{{Group: "Winger", Size: 2}}
	s := NewSnapshot(4, time.Unix(100, 0), records, cohorts)

	if s.Len() != 4 {
		t.Errorf("expected 4 records, got %d", s.Len())
	}
	if got := s.Player(1); len(got) != 2 || got[0].SeasonID != 281 {
		t.Errorf("expected two seasons in key order, got %v", got)
	}
	if got := s.Group("Winger"); len(got) != 2 {
		t.Errorf("expected 2 wingers, got %d", len(got))
	}
	if sizes := s.GroupSizes(); sizes["Striker"] != 1 || len(sizes) != 2 {
		t.Errorf("unexpected group sizes %v", sizes)
	}
	latest, ok := s.Latest(1)
	if !ok || latest.SeasonID != 317 {
		t.Errorf("expected latest season 317, got %+v", latest)
	}
	if _, ok := s.Latest(42); ok {
		t.Error("unknown player must not have a latest season")
	}
	if r, ok := s.Get(model.RecordKey{PlayerID: 2, CompetitionID: 51, SeasonID: 317}); !ok || r.PositionGroup != "Striker" {
		t.Errorf("expected striker record, got %+v", r)
	}
	// The input slice order is not the snapshot's concern.
	records[0].PlayerID = 77
	if _, ok := s.Get(model.RecordKey{PlayerID: 2, CompetitionID: 51, SeasonID: 317}); !ok {
		t.Error("snapshot must not alias the input slice")
	}
}

func TestSnapshotHolder_Publish(t *testing.T) {
	h := NewSnapshotHolder()
	if h.Load() == nil || h.Load().Len() != 0 {
		t.Fatal("expected an empty initial snapshot")
	}

	v1, v2 := h.NextVersion(), h.NextVersion()
	newer := NewSnapshot(v2, time.Now(), []model.PlayerSeasonRecord{rec(1, 317, "Winger", 900)}, nil)
	older := NewSnapshot(v1, time.Now(), nil, nil)

	if !h.Publish(newer) {
		t.Error("expected newer snapshot to publish")
	}
	if h.Publish(older) {
		t.Error("an older snapshot must not replace a newer one")
	}
	if h.Load().Version != v2 {
		t.Errorf("expected version %d, got %d", v2, h.Load().Version)
	}
}
