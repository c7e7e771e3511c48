// Package main provides the CLI entrypoint for typechase.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typechase/internal/config"
	"github.com/verte-zerg/typechase/internal/generator"
	"github.com/verte-zerg/typechase/internal/model"
	"github.com/verte-zerg/typechase/internal/race"
	"github.com/verte-zerg/typechase/internal/stats"
	"github.com/verte-zerg/typechase/internal/store"
	"github.com/verte-zerg/typechase/internal/tui"
	"github.com/verte-zerg/typechase/internal/wordlist"
)

const (
	defaultMode        = model.ModeChase
	defaultLang        = "en"
	defaultLineWords   = 15
	defaultLines       = 3
	defaultDuration    = 30 * time.Second
	defaultCaps        = 0.0
	defaultPunct       = 0.0
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultFPS         = 60
	defaultCurveWindow = 20
	defaultStatsWidth  = 80
)

const defaultPunctSet = ".,!?;:\"'()-"

var (
	playMode        string
	playLang        string
	playLineWords   int
	playLines       int
	playDuration    time.Duration
	playCaps        float64
	playPunct       float64
	playPunctSet    string
	playFocusWeak   bool
	playWeakTop     int
	playWeakFactor  float64
	playWeakWindow  int
	playPlayerStart float64
	playPlayerStep  float64
	playChaserStep  float64
	playFPS         int

	statsMode        string
	statsLang        string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typechase",
		Short:         "Typing game: outrun the chaser or beat the clock",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	raceDefaults := race.DefaultConfig()
	rootCmd.Flags().StringVar(&playMode, "mode", defaultMode, "game mode: chase or classic")
	rootCmd.Flags().StringVar(&playLang, "lang", defaultLang, "language code (default: en)")
	rootCmd.Flags().IntVar(&playLineWords, "line-words", defaultLineWords, "words per line")
	rootCmd.Flags().IntVar(&playLines, "lines", defaultLines, "lines buffered at game start")
	rootCmd.Flags().DurationVar(&playDuration, "duration", defaultDuration, "classic mode time limit")
	rootCmd.Flags().Float64Var(&playCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&playPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&playPunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&playFocusWeak, "focus-weak", false, "bias words toward weak characters")
	rootCmd.Flags().IntVar(&playWeakTop, "weak-top", defaultWeakTop, "number of weak characters to focus on")
	rootCmd.Flags().Float64Var(&playWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak characters")
	rootCmd.Flags().IntVar(&playWeakWindow, "weak-window", defaultWeakWindow, "number of recent games to compute weak chars")
	rootCmd.Flags().Float64Var(&playPlayerStart, "player-start", raceDefaults.PlayerStart, "player head start on the track")
	rootCmd.Flags().Float64Var(&playPlayerStep, "player-step", raceDefaults.PlayerStep, "player advance per correct letter")
	rootCmd.Flags().Float64Var(&playChaserStep, "chaser-step", raceDefaults.ChaserStep, "chaser advance per frame")
	rootCmd.Flags().IntVar(&playFPS, "fps", defaultFPS, "animation frames per second")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	gc := fileCfg.Game
	applyStringConfig(cmd, "mode", &playMode, gc.Mode)
	applyStringConfig(cmd, "lang", &playLang, gc.Lang)
	applyIntConfig(cmd, "line-words", &playLineWords, gc.LineWords)
	applyIntConfig(cmd, "lines", &playLines, gc.Lines)
	if err := applyDurationConfig(cmd, "duration", &playDuration, gc.Duration); err != nil {
		return err
	}
	applyFloatConfig(cmd, "caps", &playCaps, gc.CapsPct)
	applyFloatConfig(cmd, "punct", &playPunct, gc.PunctPct)
	applyStringConfig(cmd, "punct-set", &playPunctSet, gc.PunctSet)
	applyBoolConfig(cmd, "focus-weak", &playFocusWeak, gc.FocusWeak)
	applyIntConfig(cmd, "weak-top", &playWeakTop, gc.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &playWeakFactor, gc.WeakFactor)
	applyIntConfig(cmd, "weak-window", &playWeakWindow, gc.WeakWindow)
	applyFloatConfig(cmd, "player-start", &playPlayerStart, gc.PlayerStart)
	applyFloatConfig(cmd, "player-step", &playPlayerStep, gc.PlayerStep)
	applyFloatConfig(cmd, "chaser-step", &playChaserStep, gc.ChaserStep)
	applyIntConfig(cmd, "fps", &playFPS, gc.FPS)

	cfg := model.Config{
		Mode:        strings.ToLower(strings.TrimSpace(playMode)),
		Lang:        playLang,
		LineWords:   playLineWords,
		Lines:       playLines,
		Duration:    playDuration,
		CapsPct:     playCaps,
		PunctPct:    playPunct,
		PunctSet:    playPunctSet,
		FocusWeak:   playFocusWeak,
		WeakTop:     playWeakTop,
		WeakFactor:  playWeakFactor,
		WeakWindow:  playWeakWindow,
		PlayerStart: playPlayerStart,
		PlayerStep:  playPlayerStep,
		ChaserStep:  playChaserStep,
		FPS:         playFPS,
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	wordPath := config.DefaultWordListPath(cfg.Lang)
	wordsList, usedPath, err := wordlist.Resolve(wordPath, cfg.Lang)
	if err != nil {
		return wordListLoadError(cfg.Lang, wordPath, installedLangs(config.DefaultWordListDir()), err)
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	weakSet := map[rune]struct{}{}
	weakNoticePrinted := false
	if cfg.FocusWeak {
		aggs, err := st.GetWeakChars(context.Background(), cfg.WeakWindow, cfg.Lang)
		if err != nil {
			logErrf("failed to load weak chars: %v\n", err)
		} else {
			weakSet = stats.SelectWeakChars(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no stats available for weak-char focus yet; using normal generator")
				weakNoticePrinted = true
			}
		}
	}

	source := generator.NewSource(generator.New(), wordsList, generator.Options{
		CapsPct:    cfg.CapsPct,
		PunctPct:   cfg.PunctPct,
		PunctSet:   []rune(cfg.PunctSet),
		WeakSet:    weakSet,
		WeakFactor: cfg.WeakFactor,
	})
	program := tea.NewProgram(tui.NewModel(cfg, st, source, usedPath, weakNoticePrinted), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := writeConfigTemplate(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

// writeConfigTemplate creates the commented template unless a config exists.
func writeConfigTemplate(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	return writeLangs(cmd.OutOrStdout(), installedLangs(config.DefaultWordListDir()))
}

// writeLangs prints installed languages; en is always listed since the
// embedded list backs it.
func writeLangs(w io.Writer, installed []string) error {
	hasEnglish := false
	for _, lang := range installed {
		if lang == "en" {
			hasEnglish = true
		}
	}
	lines := make([]string, 0, len(installed)+1)
	if !hasEnglish {
		lines = append(lines, "en (embedded)")
	}
	lines = append(lines, installed...)
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// installedLangs lists <lang>.txt files in the word list directory. A
// missing or unreadable directory yields no languages.
func installedLangs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logErrf("failed to read wordlist directory: %v\n", err)
		}
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".txt") {
			continue
		}
		if name == "ATTRIBUTION.txt" || name == "LICENSE.txt" {
			continue
		}
		langs = append(langs, strings.TrimSuffix(name, ".txt"))
	}
	sort.Strings(langs)
	return langs
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMode, "mode", "", "mode filter (chase or classic)")
	cmd.Flags().StringVar(&statsLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N games")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := statsConfig()
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build stats: %w", err)
	}
	return writeReport(cmd.OutOrStdout(), report, cfg.CurveWindow, statsWidth())
}

func statsConfig() (model.StatsConfig, error) {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return model.StatsConfig{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	mode := strings.ToLower(strings.TrimSpace(statsMode))
	if mode != "" && mode != model.ModeChase && mode != model.ModeClassic {
		return model.StatsConfig{}, fmt.Errorf("--mode must be %q or %q", model.ModeChase, model.ModeClassic)
	}
	if statsLast < 0 {
		return model.StatsConfig{}, fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return model.StatsConfig{}, fmt.Errorf("--curve-window must be > 0")
	}
	return model.StatsConfig{
		Mode:        mode,
		Lang:        statsLang,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}, nil
}

func writeReport(w io.Writer, report stats.Report, window, width int) error {
	if err := stats.RenderSummary(w, report.Games); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(report.Games) == 0 {
		return nil
	}
	if err := stats.RenderTrend(w, report.Games, window, width); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(w, "Characters (last %d games)\n", len(report.WindowGameIDs)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderCharTable(w, report.CharAggsRecent); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func statsWidth() int {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return defaultStatsWidth
	}
	width, _, err := term.GetSize(fd)
	if err != nil || width <= 0 {
		return defaultStatsWidth
	}
	return width
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

// applyDurationConfig parses a Go duration string such as "45s" from the
// config file.
func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil {
		return nil
	}
	if cmd.Flags().Changed(name) {
		return nil
	}
	parsed, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid %s in config: %w", name, err)
	}
	*target = parsed
	return nil
}

func defaultConfigTemplate() string {
	raceDefaults := race.DefaultConfig()
	return fmt.Sprintf(`# typechase configuration
# Uncomment a value to enable it. CLI flags override config values.

[game]
# mode = %q          # "chase" or "classic"
# lang = %q              # Language code
# line-words = %d            # Words per line
# lines = %d                  # Lines buffered at game start
# duration = %q          # Classic mode time limit
# caps = %.2f              # Probability of capitalized first letter (0-1)
# punct = %.2f             # Punctuation probability per word (0-1)
# punct-set = %q  # Punctuation set
# focus-weak = false         # Bias words toward weak characters
# weak-top = %d               # Number of weak characters to focus on
# weak-factor = %.1f         # Weight factor for weak characters
# weak-window = %d           # Number of recent games to compute weak chars
# player-start = %.1f       # Player head start on the track
# player-step = %.1f         # Player advance per correct letter
# chaser-step = %.2f        # Chaser advance per frame
# fps = %d                   # Animation frames per second
`,
		defaultMode,
		defaultLang,
		defaultLineWords,
		defaultLines,
		defaultDuration.String(),
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
		raceDefaults.PlayerStart,
		raceDefaults.PlayerStep,
		raceDefaults.ChaserStep,
		defaultFPS,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Mode != model.ModeChase && cfg.Mode != model.ModeClassic {
		return fmt.Errorf("--mode must be %q or %q", model.ModeChase, model.ModeClassic)
	}
	if strings.TrimSpace(cfg.Lang) == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	if cfg.LineWords <= 0 {
		return fmt.Errorf("--line-words must be > 0")
	}
	if cfg.Lines < 1 {
		return fmt.Errorf("--lines must be > 0")
	}
	if cfg.Mode == model.ModeClassic && cfg.Duration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	if cfg.CapsPct < 0 || cfg.CapsPct > 1 {
		return fmt.Errorf("--caps must be between 0 and 1")
	}
	if cfg.PunctPct < 0 || cfg.PunctPct > 1 {
		return fmt.Errorf("--punct must be between 0 and 1")
	}
	if cfg.PunctPct > 0 && cfg.PunctSet == "" {
		return fmt.Errorf("--punct-set must not be empty")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	if cfg.PlayerStart <= 0 {
		return fmt.Errorf("--player-start must be > 0")
	}
	if cfg.PlayerStep < 0 {
		return fmt.Errorf("--player-step must be >= 0")
	}
	if cfg.ChaserStep <= 0 {
		return fmt.Errorf("--chaser-step must be > 0")
	}
	if cfg.FPS <= 0 || cfg.FPS > 240 {
		return fmt.Errorf("--fps must be between 1 and 240")
	}
	return nil
}

// suggestLangs returns installed languages that fuzzily match lang, best
// match first.
func suggestLangs(lang string, installed []string) []string {
	matches := fuzzy.Find(lang, installed)
	out := make([]string, 0, len(matches))
	for _, match := range matches {
		out = append(out, match.Str)
	}
	return out
}

func wordListLoadError(lang, path string, installed []string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
	}
	if suggestions := suggestLangs(lang, installed); len(suggestions) > 0 {
		lines = append(lines, fmt.Sprintf("Did you mean: %s", strings.Join(suggestions, ", ")))
	}
	lines = append(lines,
		"Run: typechase langs",
		fmt.Sprintf("Add words: one word per line in %s", path),
	)
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
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
