// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/verte-zerg/typechase/internal/model"
)

const (
	sparkChars   = " .:-=+*#%@"
	charsPerWord = 5.0
	msPerMinute  = 60000.0
)

// WPM returns round((typedChars / 5) / elapsed minutes). Zero elapsed time
// or zero characters yield 0.
func WPM(typedChars int, elapsedMs int64) int {
	if typedChars <= 0 || elapsedMs <= 0 {
		return 0
	}
	minutes := float64(elapsedMs) / msPerMinute
	return int(math.Round((float64(typedChars) / charsPerWord) / minutes))
}

// SessionMetrics computes WPM, CPM, and accuracy for a game.
func SessionMetrics(correct, incorrect int, durationMs int64) (wpm, cpm, accuracy float64) {
	if durationMs <= 0 {
		return 0, 0, 0
	}
	minutes := float64(durationMs) / msPerMinute
	wpm = (float64(correct) / charsPerWord) / minutes
	cpm = float64(correct) / minutes
	den := float64(correct + incorrect)
	if den > 0 {
		accuracy = float64(correct) / den
	}
	return wpm, cpm, accuracy
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 || len(values) == 0 {
		copy(out, values)
		return out
	}
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// Downsample averages values into at most width buckets.
func Downsample(values []float64, width int) []float64 {
	if width <= 0 || len(values) <= width {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		start := i * len(values) / width
		end := (i + 1) * len(values) / width
		var sum float64
		for _, v := range values[start:end] {
			sum += v
		}
		out[i] = sum / float64(end-start)
	}
	return out
}

// RenderSummary prints a summary for games.
func RenderSummary(w io.Writer, games []model.GameAggregate) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	var totalWPM, totalAcc float64
	bestWPM := 0.0
	chases, caught := 0, 0
	bestDistance := 0.0
	for _, g := range games {
		wpm, _, acc := SessionMetrics(g.TypedChars, g.Mistakes, g.DurationMs)
		totalWPM += wpm
		totalAcc += acc
		bestWPM = math.Max(bestWPM, wpm)
		if g.Mode == model.ModeChase {
			chases++
			if g.Caught {
				caught++
			}
			bestDistance = math.Max(bestDistance, g.Distance)
		}
	}
	count := float64(len(games))
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d", len(games)),
		fmt.Sprintf("Avg WPM: %.2f", totalWPM/count),
		fmt.Sprintf("Best WPM: %.2f", bestWPM),
		fmt.Sprintf("Avg Accuracy: %.2f%%", (totalAcc/count)*100),
	}
	if chases > 0 {
		lines = append(lines,
			fmt.Sprintf("Chases: %d (caught %d)", chases, caught),
			fmt.Sprintf("Best Distance: %.0f", bestDistance),
		)
	}
	lines = append(lines, "")
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderTrend prints a smoothed WPM sparkline fitted to width columns.
func RenderTrend(w io.Writer, games []model.GameAggregate, window, width int) error {
	if len(games) == 0 {
		return nil
	}
	wpms := make([]float64, len(games))
	for i, g := range games {
		wpms[i], _, _ = SessionMetrics(g.TypedChars, g.Mistakes, g.DurationMs)
	}
	smoothed := MovingAverage(wpms, window)
	minVal, maxVal := smoothed[0], smoothed[0]
	for _, v := range smoothed {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if _, err := fmt.Fprintf(w, "WPM trend (window %d, %.1f..%.1f)\n", window, minVal, maxVal); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, Sparkline(Downsample(smoothed, width))); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCharTable prints per-character aggregates, weakest first.
func RenderCharTable(w io.Writer, aggs []model.CharAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No character stats found.")
		return err
	}
	type row struct {
		char      string
		acc       float64
		latency   float64
		correct   int
		incorrect int
	}
	rows := make([]row, 0, len(aggs))
	for _, agg := range aggs {
		charLabel := agg.Char
		if charLabel == " " {
			charLabel = "<space>"
		}
		rows = append(rows, row{
			char:      charLabel,
			acc:       accuracy(agg),
			latency:   avgLatency(agg),
			correct:   agg.Correct,
			incorrect: agg.Incorrect,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].acc == rows[j].acc {
			return rows[i].char < rows[j].char
		}
		return rows[i].acc < rows[j].acc
	})

	if _, err := fmt.Fprintln(w, "Per-Character"); err != nil {
		return err
	}
	table := newTextTable(
		column{title: "Char"},
		column{title: "Accuracy", right: true},
		column{title: "Avg Latency (ms)", right: true},
		column{title: "Correct", right: true},
		column{title: "Incorrect", right: true},
	)
	for _, r := range rows {
		table.add(
			r.char,
			fmt.Sprintf("%.2f%%", r.acc*100),
			fmt.Sprintf("%.1f", r.latency),
			fmt.Sprintf("%d", r.correct),
			fmt.Sprintf("%d", r.incorrect),
		)
	}
	if err := table.write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func avgLatency(agg model.CharAggregate) float64 {
	if agg.LatencyCount == 0 {
		return 0
	}
	return float64(agg.LatencySumMs) / float64(agg.LatencyCount)
}
