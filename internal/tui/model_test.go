package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/typechase/internal/game"
	"github.com/verte-zerg/typechase/internal/generator"
	"github.com/verte-zerg/typechase/internal/model"
	"github.com/verte-zerg/typechase/internal/store"
)

var testStart = time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

func newTestModel(t *testing.T) (*Model, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "typechase.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	cfg := model.Config{
		Mode:        model.ModeChase,
		Lang:        "en",
		LineWords:   3,
		Lines:       3,
		PlayerStart: 2,
		PlayerStep:  1,
		ChaserStep:  1,
		FPS:         60,
	}
	source := generator.NewSource(generator.NewWithSeed(1), []string{"go"}, generator.Options{})
	m := NewModel(cfg, st, source, "embedded:en", false)
	m.now = func() time.Time { return testStart }
	m.newGame()
	return m, st
}

func typeRune(m *Model, r rune) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestStaleTickIsDropped(t *testing.T) {
	m, _ := newTestModel(t)
	stale := m.generation
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
	if m.generation != stale+1 {
		t.Fatalf("expected generation bump on new game, got %d", m.generation)
	}
	_, cmd := m.Update(tickMsg{generation: stale, at: testStart.Add(time.Second)})
	if cmd != nil {
		t.Fatalf("stale tick must not reschedule")
	}
	if snap := m.game.Snapshot(); snap.Chaser != 0 {
		t.Fatalf("stale tick moved the chaser to %v", snap.Chaser)
	}
	_, cmd = m.Update(tickMsg{generation: m.generation, at: testStart.Add(time.Second)})
	if cmd == nil {
		t.Fatalf("expected current tick to reschedule")
	}
	if snap := m.game.Snapshot(); snap.Chaser != 1 {
		t.Fatalf("expected chaser at 1, got %v", snap.Chaser)
	}
}

func TestCaughtGameSavesOnceAndIgnoresKeys(t *testing.T) {
	m, st := newTestModel(t)
	typeRune(m, 'g')
	if snap := m.game.Snapshot(); snap.Player != 3 || snap.TypedChars != 1 {
		t.Fatalf("expected player at 3 after one letter, got %+v", snap)
	}

	var cmd tea.Cmd
	for i := 0; i < 3; i++ {
		_, cmd = m.Update(tickMsg{generation: m.generation, at: testStart.Add(time.Duration(i+1) * time.Second)})
	}
	if cmd != nil {
		t.Fatalf("expected no tick after game over")
	}
	if !m.game.Over() || m.game.Snapshot().Reason != game.Caught {
		t.Fatalf("expected caught, got %v", m.game.Snapshot().Reason)
	}
	if !m.keys.Restart.Enabled() {
		t.Fatalf("expected restart enabled after game over")
	}

	m.Update(tickMsg{generation: m.generation, at: testStart.Add(5 * time.Second)})
	typeRune(m, 'o')
	if snap := m.game.Snapshot(); snap.TypedChars != 1 || snap.Player != 3 {
		t.Fatalf("keys after game over changed state: %+v", snap)
	}

	games, err := st.ListGames(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("expected one saved game, got %d", len(games))
	}
	if !games[0].Caught || games[0].Distance != 1 || games[0].Mode != model.ModeChase {
		t.Fatalf("unexpected saved game: %+v", games[0])
	}
	if m.bestDistance != 1 || !m.hasLast {
		t.Fatalf("expected footer stats refreshed, got best=%v hasLast=%v", m.bestDistance, m.hasLast)
	}

	stale := m.generation
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil || m.generation != stale+1 || m.game.Over() {
		t.Fatalf("expected enter to start a fresh game")
	}
	if m.keys.Restart.Enabled() {
		t.Fatalf("expected restart disabled while playing")
	}
}

func TestEnterWhilePlayingIsAMistake(t *testing.T) {
	m, _ := newTestModel(t)
	generation := m.generation
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.generation != generation {
		t.Fatalf("enter must not restart a running game")
	}
	if snap := m.game.Snapshot(); !snap.Mistake || snap.Mistakes != 1 {
		t.Fatalf("expected enter to count as a mistake, got %+v", snap)
	}
}

func TestControlKeysAreMistakes(t *testing.T) {
	m, _ := newTestModel(t)
	typeRune(m, 'g')
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	snap := m.game.Snapshot()
	if !snap.Mistake || snap.Mistakes != 2 {
		t.Fatalf("expected two mistakes, got %+v", snap)
	}
	if snap.Cursor.Letter != 1 || snap.Player != 3 {
		t.Fatalf("control keys must not move the cursor or player: %+v", snap)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if got := m.game.Snapshot().Mistakes; got != 2 {
		t.Fatalf("arrow keys are not presses, got %d mistakes", got)
	}
}

func TestEmptyGameIsNotSaved(t *testing.T) {
	m, st := newTestModel(t)
	for m.game.Tick(testStart) {
	}
	m.finishGame()
	games, err := st.ListGames(context.Background(), model.StatsConfig{})
	if err != nil {
		t.Fatalf("list games: %v", err)
	}
	if len(games) != 0 {
		t.Fatalf("expected untouched game to be skipped, got %d", len(games))
	}
}

func TestViewShowsTrackAndOverlay(t *testing.T) {
	m, _ := newTestModel(t)
	if out := m.View(); !strings.Contains(out, "lead 2") {
		t.Fatalf("expected chase track in view: %s", out)
	}
	for m.game.Tick(testStart) {
	}
	if out := m.View(); !strings.Contains(out, "Caught!") {
		t.Fatalf("expected game over overlay: %s", out)
	}
}
