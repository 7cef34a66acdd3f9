package mcp

import (
	"context"
	"fmt"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"
)

// Tool names.
const (
	ToolFindSimilar     = "find_similar_players"
	ToolDetectArchetype = "detect_archetype"
	ToolLookupPlayer    = "lookup_player"
)

// FindSimilarArgs are the find_similar_players arguments.
type FindSimilarArgs struct {
	PlayerID      int64   `json:"player_id,omitempty" jsonschema:"Player id; either this or player_name is required"`
	PlayerName    string  `json:"player_name,omitempty" jsonschema:"Exact player name, case-insensitive"`
	CompetitionID int     `json:"competition_id,omitempty" jsonschema:"Competition of the target season (0 = latest)"`
	SeasonID      int     `json:"season_id,omitempty" jsonschema:"Season of the target (0 = latest)"`
	Archetype     string  `json:"archetype,omitempty" jsonschema:"Archetype name; detected when empty"`
	Mode          string  `json:"mode,omitempty" jsonschema:"similar or upgrade (default similar)"`
	TopN          int     `json:"top_n,omitempty" jsonschema:"Number of matches (default 10)"`
	MinMinutes    float64 `json:"min_minutes,omitempty" jsonschema:"Minimum minutes played by candidates (default 600)"`
	Seasons       int     `json:"seasons,omitempty" jsonschema:"Restrict candidates to the most recent N seasons"`
	League        string  `json:"league,omitempty" jsonschema:"Named league filter: All Leagues, Domestic Leagues, Scottish Leagues or Premiership & Championship"`
	MinAge        *int    `json:"min_age,omitempty" jsonschema:"Minimum candidate age, needs max_age"`
	MaxAge        *int    `json:"max_age,omitempty" jsonschema:"Maximum candidate age, needs min_age"`
}

func (a *FindSimilarArgs) query() model.SearchQuery {
	return model.SearchQuery{
		PlayerID:      a.PlayerID,
		CompetitionID: a.CompetitionID,
		SeasonID:      a.SeasonID,
		PlayerName:    a.PlayerName,
		Archetype:     a.Archetype,
		Mode:          model.SearchMode(a.Mode),
		TopN:          a.TopN,
		MinMinutes:    a.MinMinutes,
		Seasons:       a.Seasons,
		League:        a.League,
		MinAge:        a.MinAge,
		MaxAge:        a.MaxAge,
	}
}

// DetectArchetypeArgs are the detect_archetype arguments.
type DetectArchetypeArgs struct {
	PlayerID      int64 `json:"player_id" jsonschema:"Player id (required)"`
	CompetitionID int   `json:"competition_id,omitempty" jsonschema:"Competition id (0 = latest season)"`
	SeasonID      int   `json:"season_id,omitempty" jsonschema:"Season id (0 = latest season)"`
}

// LookupPlayerArgs are the lookup_player arguments.
type LookupPlayerArgs struct {
	Name string `json:"name" jsonschema:"Player name; partial names return suggestions"`
}

func (s *Server) registerTools() {
	addTool(s, &sdk.Tool{
		Name:        ToolFindSimilar,
		Description: "Find stylistic clones or upgrades for a player-season, ranked True Clone first",
	}, func(ctx context.Context, _ *sdk.CallToolRequest, args FindSimilarArgs) (*sdk.CallToolResult, any, error) {
		resp, err := s.deps.Search(ctx, args.query())
		if err != nil {
			return s.fail(ctx, ToolFindSimilar, err), nil, nil
		}
		s.logger.Debug(ctx, "tool call",
			logger.String("tool", ToolFindSimilar),
			logger.String("status", string(resp.Status)),
			logger.Int("matches", len(resp.Matches)),
		)
		return toolJSON(resp)
	})

	addTool(s, &sdk.Tool{
		Name:        ToolDetectArchetype,
		Description: "Score every archetype of a player's position group, best first",
	}, func(ctx context.Context, _ *sdk.CallToolRequest, args DetectArchetypeArgs) (*sdk.CallToolResult, any, error) {
		if args.PlayerID <= 0 {
			return s.fail(ctx, ToolDetectArchetype, fmt.Errorf("player_id is required")), nil, nil
		}
		report, err := s.deps.DetectArchetype(ctx, model.RecordKey{
			PlayerID:      args.PlayerID,
			CompetitionID: args.CompetitionID,
			SeasonID:      args.SeasonID,
		})
		if err != nil {
			return s.fail(ctx, ToolDetectArchetype, err), nil, nil
		}
		return toolJSON(report)
	})

	addTool(s, &sdk.Tool{
		Name:        ToolLookupPlayer,
		Description: "Look a player up by name and list their seasons, or suggest close names",
	}, func(ctx context.Context, _ *sdk.CallToolRequest, args LookupPlayerArgs) (*sdk.CallToolResult, any, error) {
		lookup, err := s.deps.FindPlayer(ctx, args.Name)
		if err != nil {
			return s.fail(ctx, ToolLookupPlayer, err), nil, nil
		}
		return toolJSON(lookup)
	})
}

func (s *Server) fail(ctx context.Context, tool string, err error) *sdk.CallToolResult {
	metrics.RecordErrorByComponent("mcp", tool)
	s.logger.Debug(ctx, "tool failed", logger.String("tool", tool), logger.Error(err))
	return toolError(err)
}
