package typing

import "testing"

type stubSource struct {
	calls int
}

func (s *stubSource) RandomWords(count int) []string {
	s.calls++
	words := make([]string, count)
	for i := range words {
		words[i] = "ab"
	}
	return words
}

func typeString(s *Session, text string) {
	for _, r := range text {
		s.HandleKey(r)
	}
}

func TestTypingWordMarksAllLetters(t *testing.T) {
	for _, word := range []string{"a", "cat", "typewriter"} {
		s := NewSessionFromLines([][]string{{word, "next"}}, Options{})
		typeString(s, word)
		marks := s.Correctness()[0][0]
		if len(marks) != len([]rune(word)) {
			t.Fatalf("expected %d marks, got %d", len(word), len(marks))
		}
		for i, ok := range marks {
			if !ok {
				t.Fatalf("expected letter %d of %q marked correct", i, word)
			}
		}
		if s.Mistake() {
			t.Fatalf("expected no mistake after typing %q", word)
		}
	}
}

func TestMismatchSetsMistakeWithoutAdvancing(t *testing.T) {
	for _, prefix := range []string{"", "c", "ca", "cat", "catd", "catdog", "catdogf"} {
		s := NewSessionFromLines([][]string{{"cat", "dog"}, {"fish"}}, Options{})
		typeString(s, prefix)
		before := s.Cursor()
		if got := s.HandleKey('x'); got != Mistake {
			t.Fatalf("prefix %q: expected mistake outcome, got %v", prefix, got)
		}
		if !s.Mistake() {
			t.Fatalf("prefix %q: expected mistake flag", prefix)
		}
		if s.Cursor() != before {
			t.Fatalf("prefix %q: cursor moved from %+v to %+v", prefix, before, s.Cursor())
		}
	}
}

func TestSpaceMidWordIsMistake(t *testing.T) {
	s := NewSessionFromLines([][]string{{"cat", "dog"}}, Options{RequireSpace: true})
	typeString(s, "c")
	if got := s.HandleKey(' '); got != Mistake {
		t.Fatalf("expected mistake for early space, got %v", got)
	}
	if s.Cursor() != (Cursor{Line: 0, Word: 0, Letter: 1}) {
		t.Fatalf("unexpected cursor %+v", s.Cursor())
	}
}

func TestCorrectKeyClearsMistake(t *testing.T) {
	s := NewSessionFromLines([][]string{{"cat"}}, Options{})
	s.HandleKey('z')
	if !s.Mistake() {
		t.Fatalf("expected mistake")
	}
	s.HandleKey('c')
	if s.Mistake() {
		t.Fatalf("expected mistake cleared by correct key")
	}
}

func TestWordAdvanceWithoutSpace(t *testing.T) {
	s := NewSessionFromLines([][]string{{"cat", "dog"}}, Options{})
	typeString(s, "cat")
	if s.Cursor() != (Cursor{Line: 0, Word: 1, Letter: 0}) {
		t.Fatalf("expected cursor at next word, got %+v", s.Cursor())
	}
}

func TestRequireSpaceAwaitsDelimiter(t *testing.T) {
	s := NewSessionFromLines([][]string{{"cat", "dog"}}, Options{RequireSpace: true})
	typeString(s, "cat")
	if s.Cursor() != (Cursor{Line: 0, Word: 0, Letter: 3}) {
		t.Fatalf("expected cursor awaiting space, got %+v", s.Cursor())
	}
	if !s.AwaitingSpace() {
		t.Fatalf("expected awaiting space")
	}
	if exp, ok := s.Expected(); !ok || exp != ' ' {
		t.Fatalf("expected space to be expected, got %q", exp)
	}
	if got := s.HandleKey('d'); got != Mistake {
		t.Fatalf("expected mistake when skipping space, got %v", got)
	}
	if got := s.HandleKey(' '); got != Space {
		t.Fatalf("expected space outcome, got %v", got)
	}
	if s.Mistake() {
		t.Fatalf("expected space to clear mistake")
	}
	if s.Cursor() != (Cursor{Line: 0, Word: 1, Letter: 0}) {
		t.Fatalf("expected cursor at next word, got %+v", s.Cursor())
	}
}

func TestLastLineAdvancesPastBuffer(t *testing.T) {
	s := NewSessionFromLines([][]string{{"ab"}, {"cd"}}, Options{})
	typeString(s, "ab")
	if s.Cursor() != (Cursor{Line: 1, Word: 0, Letter: 0}) {
		t.Fatalf("expected cursor (1,0,0), got %+v", s.Cursor())
	}
	typeString(s, "cd")
	if s.Cursor() != (Cursor{Line: 2, Word: 0, Letter: 0}) {
		t.Fatalf("expected cursor (2,0,0), got %+v", s.Cursor())
	}
	if !s.Complete() {
		t.Fatalf("expected session complete")
	}
	if len(s.Lines()) != 2 {
		t.Fatalf("fixed text must not grow, got %d lines", len(s.Lines()))
	}
	if got := s.HandleKey('a'); got != Ignored {
		t.Fatalf("expected keys ignored after completion, got %v", got)
	}
}

func TestSecondLineOfThreeAppendsLine(t *testing.T) {
	src := &stubSource{}
	s := NewSession(src, Options{LineWords: 1, Lines: 3})
	if len(s.Lines()) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(s.Lines()))
	}
	typeString(s, "ab")
	if len(s.Lines()) != 3 {
		t.Fatalf("expected no fetch after first line, got %d lines", len(s.Lines()))
	}
	if s.Cursor() != (Cursor{Line: 1, Word: 0, Letter: 0}) {
		t.Fatalf("expected cursor (1,0,0), got %+v", s.Cursor())
	}
	typeString(s, "ab")
	if len(s.Lines()) != 4 {
		t.Fatalf("expected buffer to grow to 4 lines, got %d", len(s.Lines()))
	}
	if s.Cursor() != (Cursor{Line: 2, Word: 0, Letter: 0}) {
		t.Fatalf("expected cursor (2,0,0), got %+v", s.Cursor())
	}
	if src.calls != 4 {
		t.Fatalf("expected 4 source calls, got %d", src.calls)
	}
	lines := s.Lines()
	if lines[0][0] != "ab" || lines[1][0] != "ab" {
		t.Fatalf("existing lines must be kept: %v", lines)
	}
	if !s.Correctness()[0][0][1] {
		t.Fatalf("existing correctness must be kept")
	}
}

func TestEndlessSessionKeepsLookahead(t *testing.T) {
	s := NewSession(&stubSource{}, Options{LineWords: 2, Lines: 3, RequireSpace: true})
	for i := 0; i < 10; i++ {
		typeString(s, "ab ab")
		if s.Complete() {
			t.Fatalf("endless session must not complete")
		}
		if len(s.Lines())-s.Cursor().Line < 2 {
			t.Fatalf("expected lookahead line, cursor %+v lines %d", s.Cursor(), len(s.Lines()))
		}
	}
	if s.CompletedLines() != 10 {
		t.Fatalf("expected 10 completed lines, got %d", s.CompletedLines())
	}
}

func TestScenarioCatDogFish(t *testing.T) {
	s := NewSessionFromLines([][]string{{"cat", "dog"}, {"fish"}}, Options{RequireSpace: true})
	typeString(s, "cat dog")
	typeString(s, "fish")
	for i, line := range s.Correctness() {
		for j, word := range line {
			for k, ok := range word {
				if !ok {
					t.Fatalf("expected cell (%d,%d,%d) correct", i, j, k)
				}
			}
		}
	}
	if !s.Complete() {
		t.Fatalf("expected cursor past the final letter, got %+v", s.Cursor())
	}
	if s.Mistake() {
		t.Fatalf("expected no mistake")
	}
}

func TestSnapshotCopiesAreIndependent(t *testing.T) {
	s := NewSessionFromLines([][]string{{"cat"}}, Options{})
	grid := s.Correctness()
	grid[0][0][0] = true
	lines := s.Lines()
	lines[0][0] = "dog"
	if s.Correctness()[0][0][0] {
		t.Fatalf("grid copy leaked into session")
	}
	if s.Lines()[0][0] != "cat" {
		t.Fatalf("lines copy leaked into session")
	}
}

func TestUnicodeLetters(t *testing.T) {
	s := NewSessionFromLines([][]string{{"straße"}}, Options{})
	typeString(s, "straße")
	if !s.Complete() {
		t.Fatalf("expected multi-byte word to complete, cursor %+v", s.Cursor())
	}
}

func TestSingleLineBufferKeepsGrowing(t *testing.T) {
	src := &stubSource{}
	s := NewSession(src, Options{LineWords: 1, Lines: 1})
	for i := 0; i < 3; i++ {
		typeString(s, "ab")
		if s.Complete() {
			t.Fatalf("single-line session completed after %d lines", i+1)
		}
	}
	if len(s.Lines()) != 4 || s.Cursor() != (Cursor{Line: 3}) {
		t.Fatalf("expected 4 lines with cursor on line 3, got %d %+v", len(s.Lines()), s.Cursor())
	}
}
