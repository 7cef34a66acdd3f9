package loadgen

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultPlayersPerGroup = 60
	DefaultSeasons         = 2
	DefaultBatchSize       = 100
	DefaultSearches        = 60
	DefaultUpgradeEveryNth = 3
	DefaultMinMinutes      = 600
	PercentageMultiplier   = 100
	reportInterval         = time.Second
)

// Generated data ranges.
const (
	minMinutesPlayed  = 300
	maxMinutesPlayed  = 3300
	firstSeasonYear   = 2021
	firstSeasonID     = 300
	playerIDStride    = 100000
	identityBoost     = 1.5
	seasonDrift       = 0.25
	metricNoise       = 0.6
	baseMetricValue   = 2.0
	metricValueScale  = 0.5
	ratioMetricScale  = 0.08
	ratioMetricCenter = 0.5
	minBirthYear      = 1990
	birthYearSpan     = 16
)
