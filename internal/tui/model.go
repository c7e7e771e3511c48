// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/typechase/internal/game"
	"github.com/verte-zerg/typechase/internal/generator"
	"github.com/verte-zerg/typechase/internal/model"
	"github.com/verte-zerg/typechase/internal/race"
	statsPkg "github.com/verte-zerg/typechase/internal/stats"
	"github.com/verte-zerg/typechase/internal/store"
)

const defaultFPS = 60

// tickMsg is one animation frame. Frames scheduled by an earlier game carry
// an older generation and are dropped.
type tickMsg struct {
	generation int
	at         time.Time
}

// Model implements the Bubble Tea typing UI.
type Model struct {
	config            model.Config
	gameConfig        game.Config
	store             *store.Store
	source            *generator.Source
	weakNoticePrinted bool
	now               func() time.Time

	game       *game.Game
	generation int
	saved      bool

	keys  keyMap
	help  help.Model
	track progress.Model

	width  int
	height int

	lastWPM float64
	lastAcc float64
	hasLast bool

	allWPM       float64
	allAcc       float64
	allTyped     int
	allMistakes  int
	allDuration  int64
	bestDistance float64
}

var (
	correctStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	pendingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	cursorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Background(lipgloss.Color("#303030")).Underline(true)
	mistakeStyle      = cursorStyle.Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	statStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	footerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	overlayTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	overlayStyle      = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 3)
)

// NewModel constructs a typing TUI model and starts the first game.
func NewModel(cfg model.Config, st *store.Store, source *generator.Source, wordListPath string, weakNoticePrinted bool) *Model {
	track := progress.New(progress.WithSolidFill("#C89A3A"), progress.WithoutPercentage())
	track.Width = 40
	m := &Model{
		config:            cfg,
		gameConfig:        gameConfigFor(cfg, wordListPath),
		store:             st,
		source:            source,
		weakNoticePrinted: weakNoticePrinted,
		now:               time.Now,
		keys:              newKeyMap(),
		help:              help.New(),
		track:             track,
	}
	m.loadFooterStats()
	m.newGame()
	return m
}

func gameConfigFor(cfg model.Config, wordListPath string) game.Config {
	gc := game.Config{
		Mode:         cfg.Mode,
		Lang:         cfg.Lang,
		WordListPath: wordListPath,
		LineWords:    cfg.LineWords,
		Lines:        cfg.Lines,
		Race: race.Config{
			PlayerStart: cfg.PlayerStart,
			PlayerStep:  cfg.PlayerStep,
			ChaserStep:  cfg.ChaserStep,
		},
	}
	if cfg.Mode == model.ModeClassic {
		gc.Duration = cfg.Duration
	}
	return gc
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.scheduleTick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.track.Width = max(10, min(60, msg.Width/2))
		return m, nil
	case tickMsg:
		if msg.generation != m.generation {
			return m, nil
		}
		if m.game.Tick(msg.at) {
			return m, m.scheduleTick()
		}
		m.finishGame()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.NewGame):
		m.newGame()
		return m, m.scheduleTick()
	case m.game.Over() && key.Matches(msg, m.keys.Restart):
		m.newGame()
		return m, m.scheduleTick()
	}
	switch msg.Type {
	case tea.KeySpace:
		m.handleRunes([]rune{' '})
	case tea.KeyRunes:
		if !msg.Alt {
			m.handleRunes(msg.Runes)
		}
	default:
		if r, ok := controlRunes[msg.Type]; ok {
			m.handleRunes([]rune{r})
		}
	}
	return m, nil
}

// controlRunes are non-printable keys that still count as presses; they never
// match a letter.
var controlRunes = map[tea.KeyType]rune{
	tea.KeyBackspace: '\b',
	tea.KeyTab:       '\t',
	tea.KeyEnter:     '\r',
}

func (m *Model) handleRunes(runes []rune) {
	for _, r := range runes {
		if m.game.Over() {
			return
		}
		m.game.HandleKey(r, m.now())
	}
	if m.game.Over() {
		m.finishGame()
	}
}

// newGame replaces the current game wholesale. Bumping the generation
// cancels any tick still in flight for the old game.
func (m *Model) newGame() {
	m.generation++
	m.game = game.New(m.gameConfig, m.source, m.now())
	m.saved = false
	m.keys.Restart.SetEnabled(false)
}

func (m *Model) scheduleTick() tea.Cmd {
	if m.game.Over() {
		return nil
	}
	fps := m.config.FPS
	if fps <= 0 {
		fps = defaultFPS
	}
	generation := m.generation
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return tickMsg{generation: generation, at: t}
	})
}

// View implements tea.Model.
func (m *Model) View() string {
	snap := m.game.Snapshot()
	sections := []string{m.renderHeader(snap)}
	if snap.Mode == model.ModeChase {
		sections = append(sections, m.renderTrack(snap))
	}
	contentWidth := 0
	if m.width > 0 {
		contentWidth = max(1, int(float64(m.width)*0.70))
	}
	sections = append(sections, "", m.renderLines(snap, contentWidth))
	if snap.GameOver {
		sections = append(sections, "", m.renderGameOver(snap))
	}
	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderHeader(snap game.Snapshot) string {
	clock := fmt.Sprintf("%ds", snap.ElapsedSeconds())
	if snap.Mode == model.ModeClassic && m.gameConfig.Duration > 0 {
		clock = fmt.Sprintf("%ds left", int((snap.Remaining+time.Second-1)/time.Second))
	}
	return titleStyle.Render("typechase") + "  " +
		statStyle.Render(fmt.Sprintf("%s · %s · %d WPM", snap.Mode, clock, snap.WPM))
}

// renderTrack draws the lead of the player over the chaser as a bar: full
// at the starting lead or more, empty when caught.
func (m *Model) renderTrack(snap game.Snapshot) string {
	lead := 1.0
	if snap.PlayerStart > 0 {
		lead = min(1, snap.Gap()/snap.PlayerStart)
	}
	return m.track.ViewAs(lead) + " " + statStyle.Render(fmt.Sprintf("lead %.0f", snap.Gap()))
}

// renderLines shows the previous, current and next buffered lines.
func (m *Model) renderLines(snap game.Snapshot, width int) string {
	if len(snap.Lines) == 0 {
		return ""
	}
	first := max(0, min(snap.Cursor.Line, len(snap.Lines)-1)-1)
	last := min(len(snap.Lines), first+3)
	rendered := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		cur := noCursor
		if i == snap.Cursor.Line && !snap.GameOver {
			cur = lineCursor{word: snap.Cursor.Word, letter: snap.Cursor.Letter, mistake: snap.Mistake}
		}
		var marks [][]bool
		if i < len(snap.Correct) {
			marks = snap.Correct[i]
		}
		rendered = append(rendered, wrapStyledRunes(buildLineRunes(snap.Lines[i], marks, cur), width))
	}
	return strings.Join(rendered, "\n")
}

func (m *Model) renderGameOver(snap game.Snapshot) string {
	title := "Game over"
	switch snap.Reason {
	case game.Caught:
		title = "Caught!"
	case game.TimeUp:
		title = "Time's up"
	case game.TextDone:
		title = "Finished"
	}
	lines := []string{
		overlayTitleStyle.Render(title),
		"",
		fmt.Sprintf("WPM       %d", snap.WPM),
		fmt.Sprintf("Time      %ds", snap.ElapsedSeconds()),
		fmt.Sprintf("Typed     %d", snap.TypedChars),
		fmt.Sprintf("Mistakes  %d", snap.Mistakes),
	}
	if snap.Mode == model.ModeChase {
		lines = append(lines, fmt.Sprintf("Distance  %.0f", snap.Player-snap.PlayerStart))
	}
	lines = append(lines, "", footerStyle.Render("enter: new game"))
	return overlayStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) renderFooter() string {
	segments := []string{m.help.View(m.keys)}
	if m.hasLast {
		segments = append(segments, fmt.Sprintf("Last %.1f WPM · %.1f%%", m.lastWPM, m.lastAcc*100))
	}
	segments = append(segments, fmt.Sprintf("All-time %.1f WPM · %.1f%%", m.allWPM, m.allAcc*100))
	if m.bestDistance > 0 {
		segments = append(segments, fmt.Sprintf("Best distance %.0f", m.bestDistance))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func (m *Model) loadFooterStats() {
	ctx := context.Background()
	games, err := m.store.ListGames(ctx, model.StatsConfig{Mode: m.config.Mode, Lang: m.config.Lang})
	if err != nil {
		logErrf("failed to load game stats: %v\n", err)
		return
	}
	if len(games) == 0 {
		return
	}
	last := games[len(games)-1]
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(last.TypedChars, last.Mistakes, last.DurationMs)
	m.hasLast = true
	for _, g := range games {
		m.allTyped += g.TypedChars
		m.allMistakes += g.Mistakes
		m.allDuration += g.DurationMs
		m.bestDistance = max(m.bestDistance, g.Distance)
	}
	m.recomputeAllTime()
}

func (m *Model) recomputeAllTime() {
	m.allWPM, _, m.allAcc = statsPkg.SessionMetrics(m.allTyped, m.allMistakes, m.allDuration)
}

// finishGame stores the finished game once and refreshes footer stats.
func (m *Model) finishGame() {
	if m.saved || !m.game.Over() {
		return
	}
	m.saved = true
	m.keys.Restart.SetEnabled(true)

	result, chars := m.game.Result()
	if result.TypedChars == 0 && result.Mistakes == 0 {
		return
	}
	ctx := context.Background()
	if _, err := m.store.InsertGame(ctx, result, chars); err != nil {
		logErrf("failed to save game: %v\n", err)
	}
	m.lastWPM, _, m.lastAcc = statsPkg.SessionMetrics(result.TypedChars, result.Mistakes, result.DurationMs)
	m.hasLast = true
	m.allTyped += result.TypedChars
	m.allMistakes += result.Mistakes
	m.allDuration += result.DurationMs
	m.bestDistance = max(m.bestDistance, result.Distance)
	m.recomputeAllTime()

	if m.config.FocusWeak {
		m.refreshWeakSet()
	}
}

func (m *Model) refreshWeakSet() {
	ctx := context.Background()
	aggs, err := m.store.GetWeakChars(ctx, m.config.WeakWindow, m.config.Lang)
	if err != nil {
		logErrf("failed to load weak chars: %v\n", err)
		return
	}
	weakSet := statsPkg.SelectWeakChars(aggs, m.config.WeakTop)
	if len(weakSet) == 0 && !m.weakNoticePrinted {
		logErrln("no stats available for weak-char focus yet; using normal generator")
		m.weakNoticePrinted = true
	}
	m.source.SetWeakSet(weakSet)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
