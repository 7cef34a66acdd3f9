package loadgen

import (
	"fmt"

	service "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/domain/model"
	"github.com/okian/scout/internal/domain/ranking"
	"github.com/okian/scout/internal/domain/scoring"
	"github.com/okian/scout/internal/domain/similarity"
)

// Verify checks a search response against the ranking rules every result
// must obey and returns one message per violation.
func Verify(q model.SearchQuery, resp *service.SearchResponse) []string {
	var out []string
	if resp.Status != similarity.StatusOK && len(resp.Matches) > 0 {
		out = append(out, fmt.Sprintf("status %s carries %d matches", resp.Status, len(resp.Matches)))
	}
	if q.TopN > 0 && len(resp.Matches) > q.TopN {
		out = append(out, fmt.Sprintf("%d matches exceed top_n %d", len(resp.Matches), q.TopN))
	}

	seen := make(map[model.RecordKey]struct{}, len(resp.Matches))
	for i := range resp.Matches {
		m := &resp.Matches[i]
		key := m.Record.Key()
		if m.Record.PlayerID == resp.Target.PlayerID {
			out = append(out, fmt.Sprintf("match %d is the target player %d", i, m.Record.PlayerID))
		}
		if _, dup := seen[key]; dup {
			out = append(out, fmt.Sprintf("match %d repeats %s", i, key))
		}
		seen[key] = struct{}{}
		if m.SimilarityScore < 0 || m.SimilarityScore > scoring.MaxScore {
			out = append(out, fmt.Sprintf("match %d similarity %.3f outside [0, %g]", i, m.SimilarityScore, scoring.MaxScore))
		}
		if m.Coverage < 0 || m.Coverage > 1 {
			out = append(out, fmt.Sprintf("match %d coverage %.3f outside [0, 1]", i, m.Coverage))
		}
		switch m.Tier {
		case model.TierClone:
			if len(m.FailReasons) > 0 {
				out = append(out, fmt.Sprintf("clone %d has fail reasons %v", i, m.FailReasons))
			}
		case model.TierNextBest:
			if len(m.FailReasons) == 0 {
				out = append(out, fmt.Sprintf("next best %d has no fail reasons", i))
			}
		default:
			out = append(out, fmt.Sprintf("match %d has unknown tier %q", i, m.Tier))
		}
	}
	if !ranking.IsSorted(resp.Matches, resp.Mode) {
		out = append(out, "matches are not in ranking order")
	}
	return out
}
