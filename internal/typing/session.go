// Package typing implements the typing session state: buffered lines of
// words, a letter cursor, a per-letter correctness grid and the mistake flag.
//
// A session is a plain mutable record. It is not safe for concurrent use; the
// host delivers key events one at a time.
package typing

// WordSource supplies random words on demand.
type WordSource interface {
	RandomWords(count int) []string
}

// Cursor points at the next expected letter.
type Cursor struct {
	Line   int
	Word   int
	Letter int
}

// Outcome classifies the effect of a single key press.
type Outcome int

const (
	// Ignored means the key had no effect (session complete or cursor invalid).
	Ignored Outcome = iota
	// Correct means the key matched the expected letter.
	Correct
	// Space means a space finished the current word.
	Space
	// Mistake means the key did not match.
	Mistake
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Space:
		return "space"
	case Mistake:
		return "mistake"
	default:
		return "ignored"
	}
}

// Options tunes session behavior.
type Options struct {
	// LineWords is the number of words per generated line.
	LineWords int
	// Lines is the number of lines generated up front.
	Lines int
	// RequireSpace makes the cursor stop after the last letter of a word
	// until a space is typed. The last word of a line never needs one.
	RequireSpace bool
}

// Session holds the typing state for one game.
type Session struct {
	source WordSource
	opts   Options

	lines   [][][]rune
	correct [][][]bool

	cursor  Cursor
	mistake bool
}

// NewSession builds a session with opts.Lines lines of opts.LineWords words
// drawn from source. The source is kept to extend the buffer as lines are
// completed.
func NewSession(source WordSource, opts Options) *Session {
	if opts.Lines < 1 {
		opts.Lines = 1
	}
	if opts.LineWords < 1 {
		opts.LineWords = 1
	}
	s := &Session{source: source, opts: opts}
	for i := 0; i < opts.Lines; i++ {
		s.appendLine(source.RandomWords(opts.LineWords))
	}
	return s
}

// NewSessionFromLines builds a session over a fixed text. It never grows.
func NewSessionFromLines(lines [][]string, opts Options) *Session {
	s := &Session{opts: opts}
	for _, line := range lines {
		s.appendLine(line)
	}
	return s
}

func (s *Session) appendLine(words []string) {
	line := make([][]rune, 0, len(words))
	marks := make([][]bool, 0, len(words))
	for _, w := range words {
		runes := []rune(w)
		if len(runes) == 0 {
			continue
		}
		line = append(line, runes)
		marks = append(marks, make([]bool, len(runes)))
	}
	if len(line) == 0 {
		return
	}
	s.lines = append(s.lines, line)
	s.correct = append(s.correct, marks)
}

// HandleKey consumes one keystroke and advances the cursor on a match.
func (s *Session) HandleKey(key rune) Outcome {
	if s.Complete() || !s.valid() {
		return Ignored
	}
	line := s.lines[s.cursor.Line]
	word := line[s.cursor.Word]

	if s.cursor.Letter == len(word) {
		if key != ' ' {
			s.mistake = true
			return Mistake
		}
		s.mistake = false
		s.cursor.Word++
		s.cursor.Letter = 0
		return Space
	}

	if key != word[s.cursor.Letter] {
		s.mistake = true
		return Mistake
	}

	s.correct[s.cursor.Line][s.cursor.Word][s.cursor.Letter] = true
	s.mistake = false

	switch {
	case s.cursor.Letter+1 < len(word):
		s.cursor.Letter++
	case s.cursor.Word+1 < len(line):
		if s.opts.RequireSpace {
			s.cursor.Letter = len(word)
		} else {
			s.cursor.Word++
			s.cursor.Letter = 0
		}
	default:
		s.advanceLine()
	}
	return Correct
}

// advanceLine moves to the start of the next line. Finishing the
// second-to-last buffered line (or the only one) appends one fresh line so
// that one line of lookahead is always visible; consumed lines are kept.
func (s *Session) advanceLine() {
	if s.source != nil && s.cursor.Line >= len(s.lines)-2 {
		s.appendLine(s.source.RandomWords(s.opts.LineWords))
	}
	s.cursor.Line++
	s.cursor.Word = 0
	s.cursor.Letter = 0
}

func (s *Session) valid() bool {
	c := s.cursor
	if c.Line < 0 || c.Line >= len(s.lines) {
		return false
	}
	if c.Word < 0 || c.Word >= len(s.lines[c.Line]) {
		return false
	}
	return c.Letter >= 0 && c.Letter <= len(s.lines[c.Line][c.Word])
}

// Complete reports whether every buffered letter has been typed.
func (s *Session) Complete() bool {
	return s.cursor.Line >= len(s.lines)
}

// Cursor returns the current cursor.
func (s *Session) Cursor() Cursor {
	return s.cursor
}

// Mistake reports whether the last key was a mismatch.
func (s *Session) Mistake() bool {
	return s.mistake
}

// AwaitingSpace reports whether the cursor sits after a finished word.
func (s *Session) AwaitingSpace() bool {
	if s.Complete() || !s.valid() {
		return false
	}
	return s.cursor.Letter == len(s.lines[s.cursor.Line][s.cursor.Word])
}

// Expected returns the letter the cursor waits for. A space is returned while
// awaiting the trailing space; ok is false once the session is complete.
func (s *Session) Expected() (rune, bool) {
	if s.Complete() || !s.valid() {
		return 0, false
	}
	word := s.lines[s.cursor.Line][s.cursor.Word]
	if s.cursor.Letter == len(word) {
		return ' ', true
	}
	return word[s.cursor.Letter], true
}

// CompletedLines returns the number of fully typed lines.
func (s *Session) CompletedLines() int {
	if s.cursor.Line > len(s.lines) {
		return len(s.lines)
	}
	return s.cursor.Line
}

// Lines returns a copy of the buffered words.
func (s *Session) Lines() [][]string {
	out := make([][]string, len(s.lines))
	for i, line := range s.lines {
		words := make([]string, len(line))
		for j, w := range line {
			words[j] = string(w)
		}
		out[i] = words
	}
	return out
}

// Correctness returns a copy of the correctness grid.
func (s *Session) Correctness() [][][]bool {
	out := make([][][]bool, len(s.correct))
	for i, line := range s.correct {
		words := make([][]bool, len(line))
		for j, marks := range line {
			words[j] = append([]bool(nil), marks...)
		}
		out[i] = words
	}
	return out
}
