// Package model defines shared data structures.
package model

import "time"

// Game modes.
const (
	ModeClassic = "classic"
	ModeChase   = "chase"
)

// Config defines game settings.
type Config struct {
	Mode      string
	Lang      string
	LineWords int
	Lines     int
	Duration  time.Duration

	CapsPct  float64
	PunctPct float64
	PunctSet string

	FocusWeak  bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int

	PlayerStart float64
	PlayerStep  float64
	ChaserStep  float64
	FPS         int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Mode        string
	Lang        string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// GameResult captures a finished game.
type GameResult struct {
	StartedAt      time.Time
	EndedAt        time.Time
	Mode           string
	Lang           string
	WordListPath   string
	TypedChars     int
	Mistakes       int
	LinesCompleted int
	DurationMs     int64
	WPM            int
	Caught         bool
	Distance       float64
}

// CharStats stores per-character stats for a game.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across games.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// GameAggregate summarizes a game for reporting.
type GameAggregate struct {
	GameID     int64
	EndedAt    time.Time
	Mode       string
	TypedChars int
	Mistakes   int
	DurationMs int64
	Caught     bool
	Distance   float64
}
