package model

import "fmt"

// Tier labels a candidate as a tight clone or a looser neighbour.
type Tier string

// Match tiers.
const (
	TierClone    Tier = "True Clone"
	TierNextBest Tier = "Next Best Fit"
)

// Rank orders tiers with clones first.
func (t Tier) Rank() int {
	if t == TierClone {
		return 0
	}
	return 1
}

// SearchMode selects the primary ranking score.
type SearchMode string

// Search modes.
const (
	ModeSimilar SearchMode = "similar"
	ModeUpgrade SearchMode = "upgrade"
)

// ParseSearchMode maps an empty string to ModeSimilar and rejects unknown modes.
func ParseSearchMode(s string) (SearchMode, error) {
	switch SearchMode(s) {
	case "", ModeSimilar:
		return ModeSimilar, nil
	case ModeUpgrade:
		return ModeUpgrade, nil
	default:
		return "", fmt.Errorf("unknown search mode %q", s)
	}
}

// MatchResult is a candidate annotated by one search.
type MatchResult struct {
	Record             PlayerSeasonRecord `json:"record"`
	SimilarityScore    float64            `json:"similarity_score"`
	UpgradeScore       *float64           `json:"upgrade_score,omitempty"`
	Distance           float64            `json:"distance"`
	StyleSimilarity    float64            `json:"style_similarity"`
	OutputSimilarity   *float64           `json:"output_similarity,omitempty"`
	Coverage           float64            `json:"coverage"`
	DefiningMatchCount int                `json:"defining_match_count"`
	DefiningK          int                `json:"defining_k"`
	DefiningMatchScore float64            `json:"defining_match_score"`
	Tier               Tier               `json:"match_tier"`
	FailReasons        []string           `json:"fail_reasons,omitempty"`
	WhySimilar         []string           `json:"why_similar,omitempty"`
	WhyDifferent       []string           `json:"why_different,omitempty"`
}

// PrimaryScore is the score the ranker sorts on for mode. In upgrade mode a
// row without an upgrade score returns -1 so it sorts after scored rows.
func (m *MatchResult) PrimaryScore(mode SearchMode) float64 {
	if mode != ModeUpgrade {
		return m.SimilarityScore
	}
	if m.UpgradeScore == nil {
		return -1
	}
	return *m.UpgradeScore
}
