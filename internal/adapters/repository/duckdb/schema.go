package duckdb

import (
	"context"
	"fmt"
)

// CreatePlayerSeasonsTable creates the player-season identity table.
const CreatePlayerSeasonsTable = `
CREATE TABLE IF NOT EXISTS player_seasons (
    player_id BIGINT NOT NULL,
    competition_id INTEGER NOT NULL,
    season_id INTEGER NOT NULL,
    player_name VARCHAR,
    team_name VARCHAR,
    league_name VARCHAR,
    season_name VARCHAR,
    canonical_season INTEGER,
    birth_date VARCHAR,
    age INTEGER,
    primary_position VARCHAR,
    position_group VARCHAR,
    minutes DOUBLE NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (player_id, competition_id, season_id)
);
`

// CreatePlayerSeasonMetricsTable creates the long-format metric table.
const CreatePlayerSeasonMetricsTable = `
CREATE TABLE IF NOT EXISTS player_season_metrics (
    player_id BIGINT NOT NULL,
    competition_id INTEGER NOT NULL,
    season_id INTEGER NOT NULL,
    metric VARCHAR NOT NULL,
    value DOUBLE NOT NULL,
    PRIMARY KEY (player_id, competition_id, season_id, metric)
);
`

// InitializeSchema creates all required tables.
func InitializeSchema(ctx context.Context, c *Client) error {
	for _, schema := range []string{CreatePlayerSeasonsTable, CreatePlayerSeasonMetricsTable} {
		if err := c.Exec(ctx, schema); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// DropAllTables drops all tables.
func DropAllTables(ctx context.Context, c *Client) error {
	for _, table := range []string{"player_season_metrics", "player_seasons"} {
		if err := c.Exec(ctx, "DROP TABLE IF EXISTS "+table); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
