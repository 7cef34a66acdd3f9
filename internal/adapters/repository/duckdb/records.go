package duckdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/okian/scout/internal/adapters/repository"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/metrics"
)

const upsertPlayerSeason = `
	INSERT INTO player_seasons (player_id, competition_id, season_id, player_name, team_name, league_name,
		season_name, canonical_season, birth_date, age, primary_position, position_group, minutes, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	ON CONFLICT (player_id, competition_id, season_id) DO UPDATE SET
		player_name = EXCLUDED.player_name,
		team_name = EXCLUDED.team_name,
		league_name = EXCLUDED.league_name,
		season_name = EXCLUDED.season_name,
		canonical_season = EXCLUDED.canonical_season,
		birth_date = EXCLUDED.birth_date,
		age = EXCLUDED.age,
		primary_position = EXCLUDED.primary_position,
		position_group = EXCLUDED.position_group,
		minutes = EXCLUDED.minutes,
		updated_at = CURRENT_TIMESTAMP
`

const selectPlayerSeasons = `
	SELECT player_id, competition_id, season_id, player_name, team_name, league_name,
		season_name, canonical_season, birth_date, age, primary_position, position_group, minutes
	FROM player_seasons
`

// RecordRepo is a repository.Store backed by DuckDB.
type RecordRepo struct {
	client *Client
}

var _ repository.Store = (*RecordRepo)(nil)

// NewRecordRepo creates the schema if needed and returns the repository.
func NewRecordRepo(ctx context.Context, client *Client) (*RecordRepo, error) {
	if err := InitializeSchema(ctx, client); err != nil {
		return nil, err
	}
	return &RecordRepo{client: client}, nil
}

// Upsert implements repository.Store. The batch is written in one
// transaction; a record's metric set is replaced as a whole.
func (r *RecordRepo) Upsert(ctx context.Context, records []model.PlayerSeasonRecord) (repository.UpsertResult, error) {
	for i := range records {
		if err := repository.Validate(&records[i]); err != nil {
			return repository.UpsertResult{}, err
		}
	}

	tx, err := r.client.DB().BeginTx(ctx, nil)
	if err != nil {
		return repository.UpsertResult{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var res repository.UpsertResult
	for i := range records {
		rec := &records[i]
		var existing int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM player_seasons WHERE player_id = ? AND competition_id = ? AND season_id = ?",
			rec.PlayerID, rec.CompetitionID, rec.SeasonID,
		).Scan(&existing); err != nil {
			return repository.UpsertResult{}, fmt.Errorf("failed to look up %s: %w", rec.Key(), err)
		}
		if existing > 0 {
			res.Updated++
		} else {
			res.Inserted++
		}

		var age any
		if rec.Age != nil {
			age = *rec.Age
		}
		if _, err := tx.ExecContext(ctx, upsertPlayerSeason,
			rec.PlayerID, rec.CompetitionID, rec.SeasonID, rec.PlayerName, rec.TeamName, rec.LeagueName,
			rec.SeasonName, rec.CanonicalSeason, rec.BirthDate, age, rec.PrimaryPosition, rec.PositionGroup, rec.Minutes,
		); err != nil {
			return repository.UpsertResult{}, fmt.Errorf("failed to upsert %s: %w", rec.Key(), err)
		}
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM player_season_metrics WHERE player_id = ? AND competition_id = ? AND season_id = ?",
			rec.PlayerID, rec.CompetitionID, rec.SeasonID,
		); err != nil {
			return repository.UpsertResult{}, fmt.Errorf("failed to clear metrics of %s: %w", rec.Key(), err)
		}
		for metric, value := range rec.Metrics {
			if !model.IsFinite(value) {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO player_season_metrics (player_id, competition_id, season_id, metric, value) VALUES (?, ?, ?, ?, ?)",
				rec.PlayerID, rec.CompetitionID, rec.SeasonID, metric, value,
			); err != nil {
				return repository.UpsertResult{}, fmt.Errorf("failed to insert metric %s of %s: %w", metric, rec.Key(), err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return repository.UpsertResult{}, fmt.Errorf("failed to commit: %w", err)
	}
	if n, err := r.Count(ctx); err == nil {
		metrics.UpdateTotalRecords(n)
	}
	return res, nil
}

// Get implements repository.Store.
func (r *RecordRepo) Get(ctx context.Context, key model.RecordKey) (model.PlayerSeasonRecord, error) {
	rows, err := r.client.DB().QueryContext(ctx,
		selectPlayerSeasons+" WHERE player_id = ? AND competition_id = ? AND season_id = ?",
		key.PlayerID, key.CompetitionID, key.SeasonID)
	if err != nil {
		return model.PlayerSeasonRecord{}, fmt.Errorf("failed to query %s: %w", key, err)
	}
	recs, err := scanPlayerSeasons(rows)
	if err != nil {
		return model.PlayerSeasonRecord{}, err
	}
	if len(recs) == 0 {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.PlayerSeasonRecord{}, fmt.Errorf("%w: %s", repository.ErrNotFound, key)
	}
	rec := recs[0]

	mrows, err := r.client.DB().QueryContext(ctx,
		"SELECT metric, value FROM player_season_metrics WHERE player_id = ? AND competition_id = ? AND season_id = ?",
		key.PlayerID, key.CompetitionID, key.SeasonID)
	if err != nil {
		return model.PlayerSeasonRecord{}, fmt.Errorf("failed to query metrics of %s: %w", key, err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var metric string
		var value float64
		if err := mrows.Scan(&metric, &value); err != nil {
			return model.PlayerSeasonRecord{}, fmt.Errorf("failed to scan metric: %w", err)
		}
		rec.Metrics[metric] = value
	}
	return rec, mrows.Err()
}

// All implements repository.Store.
func (r *RecordRepo) All(ctx context.Context) ([]model.PlayerSeasonRecord, error) {
	rows, err := r.client.DB().QueryContext(ctx,
		selectPlayerSeasons+" ORDER BY player_id, competition_id, season_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query player seasons: %w", err)
	}
	recs, err := scanPlayerSeasons(rows)
	if err != nil {
		return nil, err
	}
	index := make(map[model.RecordKey]int, len(recs))
	for i := range recs {
		index[recs[i].Key()] = i
	}

	mrows, err := r.client.DB().QueryContext(ctx,
		"SELECT player_id, competition_id, season_id, metric, value FROM player_season_metrics")
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer mrows.Close()
	for mrows.Next() {
		var key model.RecordKey
		var metric string
		var value float64
		if err := mrows.Scan(&key.PlayerID, &key.CompetitionID, &key.SeasonID, &metric, &value); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		if i, ok := index[key]; ok {
			recs[i].Metrics[metric] = value
		}
	}
	return recs, mrows.Err()
}

// Count implements repository.Store.
func (r *RecordRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.client.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM player_seasons").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count player seasons: %w", err)
	}
	return n, nil
}

// Close implements repository.Store.
func (r *RecordRepo) Close() error {
	return r.client.Close()
}

func scanPlayerSeasons(rows *sql.Rows) ([]model.PlayerSeasonRecord, error) {
	defer rows.Close()
	var out []model.PlayerSeasonRecord
	for rows.Next() {
		var rec model.PlayerSeasonRecord
		var name, team, league, season, birth, position, group sql.NullString
		var canonical, age sql.NullInt64
		if err := rows.Scan(
			&rec.PlayerID, &rec.CompetitionID, &rec.SeasonID, &name, &team, &league,
			&season, &canonical, &birth, &age, &position, &group, &rec.Minutes,
		); err != nil {
			return nil, fmt.Errorf("failed to scan player season: %w", err)
		}
		rec.PlayerName = name.String
		rec.TeamName = team.String
		rec.LeagueName = league.String
		rec.SeasonName = season.String
		rec.CanonicalSeason = int(canonical.Int64)
		rec.BirthDate = birth.String
		rec.PrimaryPosition = position.String
		rec.PositionGroup = group.String
		if age.Valid {
			a := int(age.Int64)
			rec.Age = &a
		}
		rec.Metrics = make(map[string]float64)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate player seasons: %w", err)
	}
	return out, nil
}
