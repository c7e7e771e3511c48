package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/typechase/internal/model"
)

func TestWPM(t *testing.T) {
	if got := WPM(0, 60000); got != 0 {
		t.Fatalf("expected 0 WPM for no characters, got %d", got)
	}
	if got := WPM(5, 60000); got != 1 {
		t.Fatalf("expected 1 WPM, got %d", got)
	}
	if got := WPM(50, 0); got != 0 {
		t.Fatalf("expected 0 WPM before time elapses, got %d", got)
	}
	if got := WPM(200, 30000); got != 80 {
		t.Fatalf("expected 80 WPM, got %d", got)
	}
	// 7/5 words in one minute rounds to 1.
	if got := WPM(7, 60000); got != 1 {
		t.Fatalf("expected rounding to 1, got %d", got)
	}
}

func TestSessionMetrics(t *testing.T) {
	wpm, cpm, acc := SessionMetrics(100, 25, 60000)
	if wpm != 20 || cpm != 100 || acc != 0.8 {
		t.Fatalf("unexpected metrics: %v %v %v", wpm, cpm, acc)
	}
	wpm, cpm, acc = SessionMetrics(100, 0, 0)
	if wpm != 0 || cpm != 0 || acc != 0 {
		t.Fatalf("expected zero metrics for zero duration")
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSparklineAndDownsample(t *testing.T) {
	if got := Sparkline([]float64{1, 1, 1}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 10}); got != " @" {
		t.Fatalf("expected min/max sparkline, got %q", got)
	}
	down := Downsample([]float64{1, 3, 5, 7}, 2)
	if len(down) != 2 || down[0] != 2 || down[1] != 6 {
		t.Fatalf("unexpected downsample: %v", down)
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No games found.") {
		t.Fatalf("expected empty message, got %q", buf.String())
	}

	buf.Reset()
	games := []model.GameAggregate{
		{Mode: model.ModeChase, TypedChars: 100, Mistakes: 0, DurationMs: 60000, Caught: true, Distance: 80},
		{Mode: model.ModeClassic, TypedChars: 200, Mistakes: 0, DurationMs: 60000},
	}
	if err := RenderSummary(&buf, games); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	for _, needle := range []string{"Games: 2", "Avg WPM: 30.00", "Best WPM: 40.00", "Chases: 1 (caught 1)", "Best Distance: 80"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("summary missing %q: %s", needle, out)
		}
	}
}

func TestRenderCharTableSortsWeakestFirst(t *testing.T) {
	var buf bytes.Buffer
	err := RenderCharTable(&buf, []model.CharAggregate{
		{Char: "a", Correct: 10},
		{Char: " ", Correct: 1, Incorrect: 1},
	})
	if err != nil {
		t.Fatalf("render table: %v", err)
	}
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected table output, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[2], "<space>") {
		t.Fatalf("expected weakest char first, got %q", lines[2])
	}
}

func TestSelectWeakChars(t *testing.T) {
	aggs := []model.CharAggregate{
		{Char: "a", Correct: 9, Incorrect: 1},
		{Char: "b", Correct: 5, Incorrect: 5},
		{Char: "c", Correct: 9, Incorrect: 1, LatencySumMs: 3000, LatencyCount: 10},
		{Char: " ", Correct: 0, Incorrect: 9},
		{Char: "z", Correct: 0, Incorrect: 1},
	}
	weak := SelectWeakChars(aggs, 2)
	if len(weak) != 2 {
		t.Fatalf("expected 2 weak chars, got %v", weak)
	}
	if _, ok := weak['b']; !ok {
		t.Fatalf("expected b to be weak")
	}
	if _, ok := weak['c']; !ok {
		t.Fatalf("expected slower c to beat a on latency")
	}
	if len(SelectWeakChars(nil, 3)) != 0 {
		t.Fatalf("expected empty set for no stats")
	}
}
