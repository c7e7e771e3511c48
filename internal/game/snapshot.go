package game

import (
	"time"

	"github.com/verte-zerg/typechase/internal/typing"
)

// Snapshot is a read-only copy of everything the presentation needs for one
// frame. Mutating it does not affect the game.
type Snapshot struct {
	Mode          string
	Lines         [][]string
	Correct       [][][]bool
	Cursor        typing.Cursor
	Mistake       bool
	AwaitingSpace bool

	Player      float64
	Chaser      float64
	PlayerStart float64

	GameOver bool
	Reason   EndReason

	Elapsed   time.Duration
	Remaining time.Duration
	WPM       int

	TypedChars int
	Mistakes   int
}

// ElapsedSeconds returns the elapsed time truncated to whole seconds.
func (s Snapshot) ElapsedSeconds() int {
	return int(s.Elapsed / time.Second)
}

// Gap returns how far the chaser is behind the player.
func (s Snapshot) Gap() float64 {
	if s.Chaser >= s.Player {
		return 0
	}
	return s.Player - s.Chaser
}

// Snapshot copies the current state.
func (g *Game) Snapshot() Snapshot {
	snap := Snapshot{
		Mode:          g.cfg.Mode,
		Lines:         g.session.Lines(),
		Correct:       g.session.Correctness(),
		Cursor:        g.session.Cursor(),
		Mistake:       g.session.Mistake(),
		AwaitingSpace: g.session.AwaitingSpace(),
		Player:        g.race.Player(),
		Chaser:        g.race.Chaser(),
		PlayerStart:   g.cfg.Race.PlayerStart,
		GameOver:      g.Over(),
		Reason:        g.reason,
		Elapsed:       g.elapsed,
		WPM:           g.wpm,
		TypedChars:    g.typedChars,
		Mistakes:      g.mistakes,
	}
	if g.cfg.Duration > 0 {
		snap.Remaining = max(g.cfg.Duration-g.elapsed, 0)
	}
	return snap
}
