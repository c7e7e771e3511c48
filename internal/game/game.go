// Package game ties a typing session, the chase race and the game clock into
// one explicit state record driven by two transitions: HandleKey for key
// presses and Tick for animation frames.
package game

import (
	"sort"
	"time"

	"github.com/verte-zerg/typechase/internal/model"
	"github.com/verte-zerg/typechase/internal/race"
	"github.com/verte-zerg/typechase/internal/stats"
	"github.com/verte-zerg/typechase/internal/typing"
)

// EndReason explains why a game is over.
type EndReason int

const (
	// NotOver is the reason of a game still in progress.
	NotOver EndReason = iota
	// Caught means the chaser reached the player.
	Caught
	// TimeUp means the classic timer ran out.
	TimeUp
	// TextDone means every buffered letter was typed.
	TextDone
)

func (r EndReason) String() string {
	switch r {
	case Caught:
		return "caught"
	case TimeUp:
		return "time up"
	case TextDone:
		return "text done"
	default:
		return "in progress"
	}
}

// Config holds the settings of a single game.
type Config struct {
	Mode         string
	Lang         string
	WordListPath string
	LineWords    int
	Lines        int
	// Duration limits classic games; zero means untimed.
	Duration time.Duration
	Race     race.Config
}

type charStat struct {
	correct      int
	incorrect    int
	latencySumMs int64
	latencyCount int64
}

// Game is the state of one game from start to game over.
type Game struct {
	cfg     Config
	session *typing.Session
	race    *race.Race

	startedAt     time.Time
	endedAt       time.Time
	elapsed       time.Duration
	prevCorrectAt time.Time

	typedChars int
	mistakes   int
	wpm        int

	reason    EndReason
	charStats map[rune]*charStat
}

// New starts a fresh game at now with words drawn from source.
func New(cfg Config, source typing.WordSource, now time.Time) *Game {
	session := typing.NewSession(source, typing.Options{
		LineWords:    cfg.LineWords,
		Lines:        cfg.Lines,
		RequireSpace: cfg.Mode == model.ModeChase,
	})
	return newWithSession(cfg, session, now)
}

// NewFromLines starts a game over a fixed text.
func NewFromLines(cfg Config, lines [][]string, now time.Time) *Game {
	session := typing.NewSessionFromLines(lines, typing.Options{
		RequireSpace: cfg.Mode == model.ModeChase,
	})
	return newWithSession(cfg, session, now)
}

func newWithSession(cfg Config, session *typing.Session, now time.Time) *Game {
	g := &Game{
		cfg:       cfg,
		session:   session,
		race:      race.New(cfg.Race),
		startedAt: now,
		charStats: map[rune]*charStat{},
	}
	if cfg.Mode == model.ModeChase {
		g.race.Start()
	}
	if session.Complete() {
		g.end(TextDone, now)
	}
	return g
}

// HandleKey applies one key press received at now. It is a no-op once the
// game is over.
func (g *Game) HandleKey(key rune, now time.Time) typing.Outcome {
	if g.Over() {
		return typing.Ignored
	}
	expected, ok := g.session.Expected()
	if !ok {
		return typing.Ignored
	}
	outcome := g.session.HandleKey(key)
	switch outcome {
	case typing.Correct:
		g.typedChars++
		g.recordCorrect(expected, now)
		if g.cfg.Mode == model.ModeChase {
			g.race.AdvancePlayer()
		}
	case typing.Space:
		g.typedChars++
		g.recordCorrect(expected, now)
	case typing.Mistake:
		// Classic text has no word gaps; a stray space flags the cursor
		// without counting as a miss.
		if key == ' ' && g.cfg.Mode != model.ModeChase {
			break
		}
		g.mistakes++
		g.charEntry(expected).incorrect++
	}
	g.updateClock(now)
	if g.session.Complete() {
		g.end(TextDone, now)
	}
	return outcome
}

// Tick advances the game clock and the chaser. It returns true while the
// host should schedule another tick.
func (g *Game) Tick(now time.Time) bool {
	if g.Over() {
		return false
	}
	g.updateClock(now)
	switch g.cfg.Mode {
	case model.ModeChase:
		g.race.Tick()
		if g.race.GameOver() {
			g.end(Caught, now)
			return false
		}
	default:
		if g.cfg.Duration > 0 && g.elapsed >= g.cfg.Duration {
			g.end(TimeUp, now)
			return false
		}
	}
	return true
}

func (g *Game) updateClock(now time.Time) {
	if now.Before(g.startedAt) {
		return
	}
	g.elapsed = now.Sub(g.startedAt)
	g.wpm = stats.WPM(g.typedChars, g.elapsed.Milliseconds())
}

func (g *Game) end(reason EndReason, now time.Time) {
	if g.reason != NotOver {
		return
	}
	g.reason = reason
	if now.Before(g.startedAt) {
		now = g.startedAt
	}
	g.endedAt = now
	if reason == TimeUp && g.cfg.Duration > 0 {
		g.elapsed = g.cfg.Duration
		g.wpm = stats.WPM(g.typedChars, g.elapsed.Milliseconds())
	}
}

func (g *Game) recordCorrect(expected rune, now time.Time) {
	entry := g.charEntry(expected)
	entry.correct++
	if !g.prevCorrectAt.IsZero() {
		entry.latencySumMs += now.Sub(g.prevCorrectAt).Milliseconds()
		entry.latencyCount++
	}
	g.prevCorrectAt = now
}

func (g *Game) charEntry(expected rune) *charStat {
	entry, ok := g.charStats[expected]
	if !ok {
		entry = &charStat{}
		g.charStats[expected] = entry
	}
	return entry
}

// Over reports whether the game has ended.
func (g *Game) Over() bool {
	return g.reason != NotOver
}

// Result summarizes the finished game for persistence. Per-char stats are
// sorted by character.
func (g *Game) Result() (model.GameResult, []model.CharStats) {
	endedAt := g.endedAt
	if endedAt.IsZero() {
		endedAt = g.startedAt.Add(g.elapsed)
	}
	distance := 0.0
	if g.cfg.Mode == model.ModeChase {
		distance = g.race.Player() - g.cfg.Race.PlayerStart
	}
	result := model.GameResult{
		StartedAt:      g.startedAt,
		EndedAt:        endedAt,
		Mode:           g.cfg.Mode,
		Lang:           g.cfg.Lang,
		WordListPath:   g.cfg.WordListPath,
		TypedChars:     g.typedChars,
		Mistakes:       g.mistakes,
		LinesCompleted: g.session.CompletedLines(),
		DurationMs:     g.elapsed.Milliseconds(),
		WPM:            g.wpm,
		Caught:         g.reason == Caught,
		Distance:       distance,
	}

	chars := make([]model.CharStats, 0, len(g.charStats))
	for ch, entry := range g.charStats {
		chars = append(chars, model.CharStats{
			Char:         string(ch),
			Correct:      entry.correct,
			Incorrect:    entry.incorrect,
			LatencySumMs: entry.latencySumMs,
			LatencyCount: entry.latencyCount,
		})
	}
	sort.Slice(chars, func(i, j int) bool { return chars[i].Char < chars[j].Char })
	return result, chars
}
