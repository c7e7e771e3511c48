package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// lineCursor marks where the cursor sits inside a rendered line. A word of -1
// means the cursor is on another line.
type lineCursor struct {
	word    int
	letter  int
	mistake bool
}

var noCursor = lineCursor{word: -1}

// buildLineRunes styles one buffered line. Letters typed correctly use
// correctStyle, the cursor letter uses cursorStyle (mistakeStyle after a
// mismatch) and everything else is pending. When the cursor waits for the
// trailing space it is drawn on the gap after the word.
func buildLineRunes(words []string, marks [][]bool, cur lineCursor) []styledRune {
	out := make([]styledRune, 0, len(words)*6)
	for w, word := range words {
		if w > 0 {
			style := pendingStyle
			if cur.word == w-1 && cur.letter == len([]rune(words[w-1])) {
				style = cursorStyleFor(cur.mistake)
			}
			out = append(out, styledRune{s: style.Render(" "), width: 1, isSpace: true})
		}
		for l, letter := range []rune(word) {
			style := pendingStyle
			switch {
			case cur.word == w && cur.letter == l:
				style = cursorStyleFor(cur.mistake)
			case w < len(marks) && l < len(marks[w]) && marks[w][l]:
				style = correctStyle
			case cur.word == w:
				style = currentWordStyle
			}
			out = append(out, styledRune{
				s:     style.Render(string(letter)),
				width: runewidth.RuneWidth(letter),
			})
		}
	}
	return out
}

func cursorStyleFor(mistake bool) lipgloss.Style {
	if mistake {
		return mistakeStyle
	}
	return cursorStyle
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

// wrapStyledRunes breaks a line at spaces so it fits width cells; a word
// wider than width is broken mid-word.
func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
