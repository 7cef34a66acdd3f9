package catalog

// Position group names used by the default catalog.
const (
	Goalkeeper       = "Goalkeeper"
	Fullback         = "Fullback"
	CenterBack       = "Center Back"
	CenterMidfielder = "Center Midfielder"
	Winger           = "Winger"
	Striker          = "Striker"
)

// DefaultNegativeMetrics lists metrics where a lower raw value is better.
func DefaultNegativeMetrics() []string {
	return []string{"turnovers_90", "dispossessions_90", "dribbled_past_90", "fouls_90"}
}

// Default returns the built-in catalog. Each call returns a fresh copy.
func Default() *Catalog {
	return &Catalog{Groups: []PositionGroup{
		goalkeepers(),
		fullbacks(),
		centerBacks(),
		centerMidfielders(),
		wingers(),
		strikers(),
	}}
}

func goalkeepers() PositionGroup {
	return PositionGroup{
		Name:      Goalkeeper,
		Positions: []string{"Goalkeeper"},
		Archetypes: []Archetype{
			{
				Name:        "Sweeper-Keeper",
				Description: "Starts play from the back and defends the space behind a high line.",
				IdentityMetrics: []string{"avg_pass_length", "long_ball_ratio", "op_xgbuildup_90",
					"defensive_actions_outside_box_90", "padj_interceptions_90", "carries_90", "passing_ratio"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Shot-Stopper",
				Description: "Reflex keeper valued for saves and command of the six-yard box.",
				IdentityMetrics: []string{"psxg_net_90", "save_ratio", "op_saves_90", "aerial_ratio",
					"aerial_wins_90", "padj_clearances_90", "penalty_save_ratio"},
				KeyWeight: 1.6,
			},
		},
		Radars: []Radar{
			{Name: "shot_stopping", Metrics: []string{"psxg_net_90", "save_ratio", "op_saves_90", "penalty_save_ratio", "cross_claim_ratio"}},
			{Name: "aerial_command", Metrics: []string{"aerial_wins_90", "aerial_ratio", "cross_claim_ratio", "padj_clearances_90", "avg_x_defensive_action"}},
			{Name: "distribution", Metrics: []string{"passing_ratio", "long_ball_ratio", "avg_pass_length", "op_xgbuildup_90", "launches_ratio"}},
			{Name: "sweeping", Metrics: []string{"defensive_actions_outside_box_90", "avg_x_defensive_action", "padj_interceptions_90", "pressures_90"}},
		},
	}
}

func fullbacks() PositionGroup {
	return PositionGroup{
		Name:      Fullback,
		Positions: []string{"Left Back", "Left Wing Back", "Right Back", "Right Wing Back"},
		Archetypes: []Archetype{
			{
				Name:        "Attacking Fullback",
				Description: "Overlaps to supply crosses and chances from wide areas.",
				IdentityMetrics: []string{"xa_90", "crosses_90", "op_passes_into_box_90", "deep_progressions_90",
					"key_passes_90", "op_xgbuildup_90", "dribbles_90", "fouls_won_90"},
				KeyWeight: 1.5,
			},
			{
				Name:        "Defensive Fullback",
				Description: "Stays home, wins duels and protects the flank.",
				IdentityMetrics: []string{"padj_tackles_and_interceptions_90", "challenge_ratio", "aggressive_actions_90",
					"pressures_90", "aerial_wins_90", "aerial_ratio", "dribbled_past_90", "padj_clearances_90"},
				KeyWeight: 1.5,
			},
			{
				Name:        "Modern Wingback",
				Description: "Covers the whole flank, contributing in both boxes.",
				IdentityMetrics: []string{"deep_progressions_90", "crosses_90", "dribbles_90", "padj_tackles_and_interceptions_90",
					"pressures_90", "xa_90", "pressure_regains_90", "op_xgbuildup_90"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Inverted Fullback",
				Description: "Tucks into midfield in possession to help circulate the ball.",
				IdentityMetrics: []string{"passing_ratio", "deep_progressions_90", "op_xgbuildup_90", "carries_90",
					"forward_pass_proportion", "padj_tackles_90", "padj_interceptions_90", "dribble_ratio"},
				KeyWeight: 1.7,
			},
		},
		Radars: []Radar{
			{Name: "defensive_actions", Metrics: []string{"padj_tackles_and_interceptions_90", "challenge_ratio", "dribbled_past_90", "pressures_90", "aggressive_actions_90"}},
			{Name: "duels", Metrics: []string{"aerial_wins_90", "aerial_ratio", "aggressive_actions_90", "fouls_won_90", "carries_90", "carry_length"}},
			{Name: "progression_creation", Metrics: []string{"deep_progressions_90", "carries_90", "dribbles_90", "xa_90", "op_passes_into_box_90"}},
			{Name: "crossing", Metrics: []string{"crosses_90", "crossing_ratio", "box_cross_ratio", "key_passes_90"}},
			{Name: "passing", Metrics: []string{"passing_ratio", "op_xgbuildup_90", "key_passes_90", "forward_pass_proportion"}},
			{Name: "work_rate", Metrics: []string{"pressures_90", "pressure_regains_90", "turnovers_90", "dribbled_past_90"}},
		},
	}
}

func centerBacks() PositionGroup {
	return PositionGroup{
		Name:      CenterBack,
		Positions: []string{"Centre Back", "Left Centre Back", "Right Centre Back"},
		Archetypes: []Archetype{
			{
				Name:        "Ball-Playing Defender",
				Description: "Breaks lines with passes and carries from the back.",
				IdentityMetrics: []string{"op_xgbuildup_90", "passing_ratio", "long_balls_90", "long_ball_ratio",
					"forward_pass_proportion", "carries_90", "deep_progressions_90", "op_f3_passes_90"},
				KeyWeight: 1.5,
			},
			{
				Name:        "Stopper",
				Description: "Steps out aggressively to engage attackers early.",
				IdentityMetrics: []string{"aggressive_actions_90", "padj_tackles_90", "challenge_ratio", "pressures_90",
					"aerial_wins_90", "fouls_90", "pressure_regains_90", "dribbled_past_90"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Covering Defender",
				Description: "Reads danger and sweeps behind the defensive line.",
				IdentityMetrics: []string{"padj_interceptions_90", "padj_clearances_90", "dribbled_past_90", "pressure_regains_90",
					"aerial_ratio", "passing_ratio", "turnovers_90", "average_x_defensive_action"},
				KeyWeight: 1.5,
			},
			{
				Name:        "No-Nonsense Defender",
				Description: "Clears first and keeps possession risk low.",
				IdentityMetrics: []string{"padj_clearances_90", "aerial_wins_90", "aerial_ratio", "padj_tackles_90",
					"aggressive_actions_90", "op_xgbuildup_90", "passing_ratio", "turnovers_90"},
				KeyWeight: 1.7,
			},
		},
		Radars: []Radar{
			{Name: "ground_defending", Metrics: []string{"padj_tackles_90", "challenge_ratio", "aggressive_actions_90", "pressures_90"}},
			{Name: "aerial_duels", Metrics: []string{"aerial_wins_90", "aerial_ratio", "padj_clearances_90", "fouls_won_90", "carries_90", "carry_length"}},
			{Name: "passing_distribution", Metrics: []string{"passing_ratio", "pass_length", "long_balls_90", "long_ball_ratio", "forward_pass_proportion"}},
			{Name: "ball_progression", Metrics: []string{"carries_90", "carry_length", "deep_progressions_90", "op_xgbuildup_90"}},
			{Name: "defensive_positioning", Metrics: []string{"padj_interceptions_90", "dribbled_past_90", "pressure_regains_90", "turnovers_90"}},
			{Name: "on_ball_security", Metrics: []string{"turnovers_90", "op_xgbuildup_90", "fouls_90", "passing_ratio"}},
		},
	}
}

func centerMidfielders() PositionGroup {
	return PositionGroup{
		Name: CenterMidfielder,
		Positions: []string{"Centre Attacking Midfielder", "Centre Defensive Midfielder", "Left Centre Midfielder",
			"Left Defensive Midfielder", "Right Centre Midfielder", "Right Defensive Midfielder"},
		Archetypes: []Archetype{
			{
				Name:        "Deep-Lying Playmaker (Regista)",
				Description: "Dictates tempo from deep with range of passing.",
				IdentityMetrics: []string{"op_xgbuildup_90", "long_balls_90", "long_ball_ratio", "forward_pass_proportion",
					"passing_ratio", "through_balls_90", "op_f3_passes_90", "carries_90"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Box-to-Box Midfielder (B2B)",
				Description: "Covers ground in both directions, arriving in the box late.",
				IdentityMetrics: []string{"deep_progressions_90", "carries_90", "padj_tackles_and_interceptions_90", "pressures_90",
					"npg_90", "touches_inside_box_90", "op_xgchain_90", "offensive_duels_90"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Ball-Winning Midfielder (Destroyer)",
				Description: "Breaks up play with tackles, interceptions and pressure.",
				IdentityMetrics: []string{"padj_tackles_90", "padj_interceptions_90", "pressure_regains_90", "challenge_ratio",
					"aggressive_actions_90", "fouls_90", "dribbled_past_90"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Advanced Playmaker (Mezzala)",
				Description: "Drifts into half-spaces to create and shoot.",
				IdentityMetrics: []string{"xa_90", "key_passes_90", "op_passes_into_box_90", "through_balls_90",
					"dribbles_90", "np_shots_90", "op_xgbuildup_90", "deep_progressions_90"},
				KeyWeight: 1.5,
			},
			{
				Name:        "Holding Midfielder (Anchor)",
				Description: "Screens the back line and recycles possession safely.",
				IdentityMetrics: []string{"padj_interceptions_90", "passing_ratio", "op_xgbuildup_90", "pressures_90",
					"challenge_ratio", "turnovers_90", "padj_clearances_90", "s_pass_length"},
				KeyWeight: 1.5,
			},
			{
				Name:        "Attacking Midfielder (8.5 Role)",
				Description: "Hybrid eight who lives between the lines and threatens goal.",
				IdentityMetrics: []string{"npg_90", "np_xg_90", "xa_90", "key_passes_90",
					"touches_inside_box_90", "np_shots_90", "op_passes_into_box_90", "dribbles_90"},
				KeyWeight: 1.6,
			},
		},
		Radars: []Radar{
			{Name: "defending", Metrics: []string{"padj_tackles_and_interceptions_90", "challenge_ratio", "dribbled_past_90", "aggressive_actions_90", "pressures_90"}},
			{Name: "duels", Metrics: []string{"aerial_wins_90", "aerial_ratio", "fouls_won_90", "challenge_ratio", "carries_90", "carry_length", "aggressive_actions_90"}},
			{Name: "passing", Metrics: []string{"passing_ratio", "forward_pass_proportion", "long_balls_90", "long_ball_ratio", "op_xgbuildup_90"}},
			{Name: "creation", Metrics: []string{"key_passes_90", "xa_90", "through_balls_90", "op_xgbuildup_90", "op_passes_into_box_90"}},
			{Name: "progression", Metrics: []string{"deep_progressions_90", "carries_90", "carry_length", "dribbles_90", "dribble_ratio"}},
			{Name: "attacking", Metrics: []string{"npg_90", "np_xg_90", "np_shots_90", "touches_inside_box_90", "np_xg_per_shot"}},
		},
	}
}

func wingers() PositionGroup {
	return PositionGroup{
		Name: Winger,
		Positions: []string{"Left Attacking Midfielder", "Left Midfielder", "Left Wing",
			"Right Attacking Midfielder", "Right Midfielder", "Right Wing"},
		Archetypes: []Archetype{
			{
				Name:        "Goal-Scoring Winger",
				Description: "Attacks the box from wide and finishes chances.",
				IdentityMetrics: []string{"npg_90", "np_xg_90", "np_shots_90", "touches_inside_box_90", "np_xg_per_shot",
					"dribbles_90", "over_under_performance_90", "npxgxa_90", "op_passes_into_box_90"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Creative Playmaker",
				Description: "Creates from the flank with passes, crosses and dribbles.",
				IdentityMetrics: []string{"xa_90", "key_passes_90", "op_passes_into_box_90", "through_balls_90", "op_xgbuildup_90",
					"deep_progressions_90", "crosses_90", "dribbles_90", "fouls_won_90"},
				KeyWeight: 1.5,
			},
			{
				Name:        "Traditional Winger",
				Description: "Hugs the touchline, beats the full-back and crosses.",
				IdentityMetrics: []string{"crosses_90", "crossing_ratio", "dribbles_90", "carry_length",
					"deep_progressions_90", "fouls_won_90", "op_passes_into_box_90", "turnovers_90"},
				KeyWeight: 1.5,
			},
			{
				Name:        "Inverted Winger",
				Description: "Cuts inside on the stronger foot to carry and combine.",
				IdentityMetrics: []string{"dribbles_90", "dribble_ratio", "carries_90", "carry_length",
					"deep_progressions_90", "op_xgbuildup_90", "op_passes_into_box_90", "xa_90"},
				KeyWeight: 1.6,
			},
		},
		Radars: []Radar{
			{Name: "goal_threat", Metrics: []string{"npg_90", "np_xg_90", "np_shots_90", "touches_inside_box_90", "conversion_ratio", "np_xg_per_shot"}},
			{Name: "creation", Metrics: []string{"key_passes_90", "xa_90", "op_passes_into_box_90", "through_balls_90", "op_xgbuildup_90", "passing_ratio"}},
			{Name: "progression", Metrics: []string{"dribbles_90", "dribble_ratio", "carries_90", "carry_length", "deep_progressions_90", "fouls_won_90"}},
			{Name: "crossing", Metrics: []string{"crosses_90", "crossing_ratio", "box_cross_ratio", "op_passes_into_box_90", "key_passes_90", "xa_90"}},
			{Name: "defensive", Metrics: []string{"pressures_90", "pressure_regains_90", "padj_tackles_90", "padj_interceptions_90", "dribbled_past_90", "aggressive_actions_90"}},
			{Name: "duels", Metrics: []string{"aerial_wins_90", "aerial_ratio", "challenge_ratio", "fouls_won_90", "carries_90", "carry_length", "turnovers_90"}},
		},
	}
}

func strikers() PositionGroup {
	return PositionGroup{
		Name:      Striker,
		Positions: []string{"Centre Forward", "Left Centre Forward", "Right Centre Forward", "Secondary Striker"},
		Archetypes: []Archetype{
			{
				Name:        "Poacher (Fox in the Box)",
				Description: "Clinical penalty-box finisher with little build-up involvement.",
				IdentityMetrics: []string{"npg_90", "np_xg_90", "np_shots_90", "touches_inside_box_90",
					"conversion_ratio", "np_xg_per_shot", "shot_touch_ratio", "op_xgchain_90"},
				KeyWeight: 1.7,
			},
			{
				Name:        "Target Man",
				Description: "Aerial focal point who holds the ball up for runners.",
				IdentityMetrics: []string{"aerial_wins_90", "aerial_ratio", "fouls_won_90", "op_xgbuildup_90",
					"carries_90", "touches_inside_box_90", "long_balls_90", "passing_ratio"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Complete Forward",
				Description: "Scores, creates, carries and competes in the air.",
				IdentityMetrics: []string{"npg_90", "key_passes_90", "dribbles_90", "deep_progressions_90",
					"op_xgbuildup_90", "aerial_wins_90", "op_xgchain_90", "npxgxa_90"},
				KeyWeight: 1.6,
			},
			{
				Name:        "False 9",
				Description: "Drops off the line to link play and create.",
				IdentityMetrics: []string{"op_xgbuildup_90", "key_passes_90", "through_balls_90", "dribbles_90",
					"carries_90", "xa_90", "forward_pass_proportion", "passing_ratio"},
				KeyWeight: 1.5,
			},
			{
				Name:        "Advanced Forward",
				Description: "Runs in behind and carries the ball into the box.",
				IdentityMetrics: []string{"deep_progressions_90", "through_balls_90", "np_shots_90", "touches_inside_box_90",
					"npg_90", "np_xg_90", "dribbles_90", "npxgxa_90"},
				KeyWeight: 1.6,
			},
			{
				Name:        "Pressing Forward",
				Description: "Leads the press and forces turnovers high up the pitch.",
				IdentityMetrics: []string{"pressures_90", "pressure_regains_90", "counterpressures_90", "aggressive_actions_90",
					"padj_tackles_90", "fouls_90", "fhalf_pressures_90", "fhalf_counterpressures_90"},
				KeyWeight: 1.5,
			},
		},
		Radars: []Radar{
			{Name: "finishing", Metrics: []string{"npg_90", "np_xg_90", "np_shots_90", "conversion_ratio", "np_xg_per_shot", "touches_inside_box_90"}},
			{Name: "box_presence", Metrics: []string{"touches_inside_box_90", "passes_inside_box_90", "positive_outcome_90", "shot_touch_ratio", "op_passes_into_box_90", "np_xg_per_shot"}},
			{Name: "creation", Metrics: []string{"key_passes_90", "xa_90", "op_passes_into_box_90", "through_balls_90", "op_xgbuildup_90", "passing_ratio"}},
			{Name: "dribbling", Metrics: []string{"dribbles_90", "dribble_ratio", "carries_90", "carry_length", "turnovers_90", "deep_progressions_90"}},
			{Name: "aerial", Metrics: []string{"aerial_wins_90", "aerial_ratio", "aggressive_actions_90", "challenge_ratio", "carries_90", "carry_length", "fouls_won_90"}},
			{Name: "defensive", Metrics: []string{"pressures_90", "pressure_regains_90", "counterpressures_90", "aggressive_actions_90", "padj_tackles_90", "dribbled_past_90"}},
		},
	}
}
