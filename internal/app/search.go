package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/archetype"
	"github.com/okian/scout/internal/domain/catalog"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/pool"
	"github.com/okian/scout/internal/domain/rolegate"
	"github.com/okian/scout/internal/domain/similarity"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Archetype sources.
const (
	ArchetypeDetected  = "detected"
	ArchetypeRequested = "requested"
)

// PoolSummary describes the filtered search pool.
type PoolSummary struct {
	Size       int    `json:"size"`
	Seasons    []int  `json:"seasons,omitempty"`
	League     string `json:"league,omitempty"`
	UnknownAge int    `json:"unknown_age"`
}

// SearchResponse is the outcome of one search.
type SearchResponse struct {
	ID              string                   `json:"id"`
	Target          model.PlayerSeasonRecord `json:"target"`
	PositionGroup   string                   `json:"position_group"`
	Archetype       string                   `json:"archetype,omitempty"`
	ArchetypeSource string                   `json:"archetype_source,omitempty"`
	ArchetypeScores []archetype.Score        `json:"archetype_scores,omitempty"`
	Mode            model.SearchMode         `json:"mode"`
	Status          similarity.Status        `json:"status"`
	Matches         []model.MatchResult      `json:"matches"`
	Pool            PoolSummary              `json:"pool"`
	Diagnostics     similarity.Diagnostics   `json:"diagnostics"`
	SnapshotVersion uint64                   `json:"snapshot_version"`
}

// ArchetypeReport is the archetype detection for one player-season.
type ArchetypeReport struct {
	Record        model.PlayerSeasonRecord `json:"record"`
	PositionGroup string                   `json:"position_group"`
	Detection     archetype.Detection      `json:"detection"`
}

// PlayerLookup is the outcome of a name lookup.
type PlayerLookup struct {
	Match       *model.PlayerSeasonRecord  `json:"match,omitempty"`
	Seasons     []model.PlayerSeasonRecord `json:"seasons,omitempty"`
	Suggestions []pool.Suggestion          `json:"suggestions,omitempty"`
}

// Search resolves the target, detects or looks up its archetype, filters
// the pool and runs the similarity engine. Data problems come back as the
// response Status; errors are reserved for invalid queries, unknown
// players and cancellation.
func (s *Service) Search(ctx context.Context, q model.SearchQuery) (SearchResponse, error) {
	start := time.Now()
	if err := q.Validate(); err != nil {
		return SearchResponse{}, err
	}
	snap := s.snapshots.Load()
	target, err := s.resolveTarget(snap, &q)
	if err != nil {
		metrics.RecordErrorByComponent("service", "target_not_found")
		return SearchResponse{}, err
	}

	resp := SearchResponse{
		ID:              uuid.NewString(),
		Target:          target.Clone(),
		PositionGroup:   target.PositionGroup,
		Mode:            q.Mode,
		SnapshotVersion: snap.Version,
	}

	group, _ := s.catalog.Group(target.PositionGroup)
	arch, err := s.pickArchetype(target, group, q.Archetype, &resp)
	if err != nil {
		return SearchResponse{}, err
	}

	criteria := pool.Criteria{Seasons: q.Seasons, League: q.League}
	if q.MinAge != nil && q.MaxAge != nil {
		criteria.Age = &pool.AgeRange{Min: *q.MinAge, Max: *q.MaxAge}
	}
	sel, err := s.filter.Apply(snap.Records(), criteria)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("%w: %w", model.ErrInvalidQuery, err)
	}
	resp.Pool = PoolSummary{Size: len(sel.Records), Seasons: sel.Seasons, League: q.League, UnknownAge: sel.UnknownAge}

	topN := q.TopN
	if topN > s.maxTopN {
		topN = s.maxTopN
	}
	res, err := s.engine.Search(ctx, similarity.Query{
		Target:     target,
		Pool:       sel.Records,
		Group:      group,
		Archetype:  arch,
		Mode:       q.Mode,
		TopN:       topN,
		MinMinutes: q.MinMinutes,
	})
	if err != nil {
		return SearchResponse{}, err
	}
	resp.Status = res.Status
	resp.Matches = res.Matches
	resp.Diagnostics = res.Diagnostics

	s.recordSearchMetrics(ctx, string(q.Mode), &res, time.Since(start))
	s.logger.Debug(ctx, "search finished",
		logger.String("target", target.Key().String()),
		logger.String("status", string(res.Status)),
		logger.Int("matches", len(res.Matches)),
		logger.Int("compared", res.Diagnostics.Compared),
	)
	return resp, nil
}

// resolveTarget finds the query's target record by key, by latest season of
// a player id, or by name.
func (s *Service) resolveTarget(snap *repository.Snapshot, q *model.SearchQuery) (*model.PlayerSeasonRecord, error) {
	if q.PlayerID > 0 {
		if q.CompetitionID > 0 && q.SeasonID > 0 {
			key := model.RecordKey{PlayerID: q.PlayerID, CompetitionID: q.CompetitionID, SeasonID: q.SeasonID}
			if r, ok := snap.Get(key); ok {
				return r, nil
			}
			return nil, &PlayerNotFoundError{Query: key.String()}
		}
		if r, ok := snap.Latest(q.PlayerID); ok {
			return r, nil
		}
		return nil, &PlayerNotFoundError{Query: fmt.Sprintf("%d", q.PlayerID)}
	}
	match, suggestions := pool.FindByName(snap.Records(), q.PlayerName)
	if match == nil {
		return nil, &PlayerNotFoundError{Query: q.PlayerName, Suggestions: suggestions}
	}
	r, _ := snap.Latest(match.PlayerID)
	return r, nil
}

// pickArchetype returns the requested archetype or the detected one. A nil
// archetype with a nil error means none could be determined.
func (s *Service) pickArchetype(target *model.PlayerSeasonRecord, group *catalog.PositionGroup, requested string, resp *SearchResponse) (*catalog.Archetype, error) {
	if group == nil {
		return nil, nil
	}
	if requested != "" {
		a, ok := group.Archetype(requested)
		if !ok {
			return nil, fmt.Errorf("%w: %q in %s: %w", model.ErrInvalidQuery, requested, group.Name, ErrUnknownArchetype)
		}
		resp.Archetype, resp.ArchetypeSource = a.Name, ArchetypeRequested
		return a, nil
	}
	det := archetype.Detect(target, group.Archetypes)
	resp.ArchetypeScores = det.Scores
	if !det.Found {
		return nil, nil
	}
	metrics.RecordArchetypeDetection(group.Name)
	resp.Archetype, resp.ArchetypeSource = det.Best.Name, ArchetypeDetected
	return det.Best, nil
}

func (s *Service) recordSearchMetrics(ctx context.Context, mode string, res *similarity.Result, took time.Duration) {
	metrics.RecordSearch(mode, string(res.Status))
	metrics.RecordSearchLatency(mode, float64(took.Microseconds())/1000)
	metrics.RecordCandidatesEvaluated(res.Diagnostics.Compared)
	for _, tier := range res.Diagnostics.Covariance {
		metrics.RecordCovarianceTier(tier)
	}
	decision := gateDecision(res.Diagnostics.Gate)
	if decision == "" {
		return
	}
	if err := metrics.RecordRoleGateDecision(decision); err != nil {
		s.logger.Debug(ctx, "gate decision not recorded", logger.String("decision", decision), logger.Error(err))
	}
}

// gateDecision maps a gate outcome to its metric label. Degenerate
// clustering is a fallback; unmet preconditions are a skip. An outcome
// from a search that never reached the gate has no label.
func gateDecision(gate rolegate.Outcome) string {
	switch {
	case gate.Reason == "":
		return ""
	case gate.CacheHit:
		return metrics.GateCacheHit
	case gate.Applied:
		return metrics.GateApplied
	case gate.Reason == rolegate.ReasonDegenerate:
		return metrics.GateFallback
	default:
		return metrics.GateSkipped
	}
}

// DetectArchetype scores the archetypes of a player-season's position
// group. Zero competition or season ids select the player's latest season.
// A record outside every position group yields Found=false.
func (s *Service) DetectArchetype(_ context.Context, key model.RecordKey) (ArchetypeReport, error) {
	snap := s.snapshots.Load()
	q := model.SearchQuery{PlayerID: key.PlayerID, CompetitionID: key.CompetitionID, SeasonID: key.SeasonID}
	if key.PlayerID <= 0 {
		return ArchetypeReport{}, fmt.Errorf("%w: player_id is required", model.ErrInvalidQuery)
	}
	target, err := s.resolveTarget(snap, &q)
	if err != nil {
		return ArchetypeReport{}, err
	}
	report := ArchetypeReport{Record: target.Clone(), PositionGroup: target.PositionGroup}
	group, ok := s.catalog.Group(target.PositionGroup)
	if !ok {
		return report, nil
	}
	report.Detection = archetype.Detect(target, group.Archetypes)
	if report.Detection.Found {
		metrics.RecordArchetypeDetection(group.Name)
	}
	return report, nil
}

// FindPlayer looks a player up by name: an exact case-insensitive match
// returns every season of that player, otherwise partial matches come back
// as suggestions.
func (s *Service) FindPlayer(_ context.Context, name string) (PlayerLookup, error) {
	if strings.TrimSpace(name) == "" {
		return PlayerLookup{}, fmt.Errorf("%w: name is required", model.ErrInvalidQuery)
	}
	snap := s.snapshots.Load()
	match, suggestions := pool.FindByName(snap.Records(), name)
	if match == nil {
		if len(suggestions) == 0 {
			return PlayerLookup{}, &PlayerNotFoundError{Query: name}
		}
		return PlayerLookup{Suggestions: suggestions}, nil
	}
	latest, _ := snap.Latest(match.PlayerID)
	m := latest.Clone()
	return PlayerLookup{Match: &m, Seasons: snap.Player(match.PlayerID)}, nil
}
