package stats

import (
	"bytes"
	"testing"
)

func TestTextTableAlignsColumns(t *testing.T) {
	table := newTextTable(
		column{title: "Char"},
		column{title: "Accuracy", right: true},
		column{title: "Correct", right: true},
	)
	table.add("a", "97.50%", "12")
	table.add("<space>", "8.00%", "3")

	lines := table.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Char    Accuracy Correct" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "a         97.50%      12" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "<space>    8.00%       3" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableWideCharacters(t *testing.T) {
	table := newTextTable(column{title: "Char"}, column{title: "N", right: true})
	table.add("語", "1")
	table.add("a", "2")
	lines := table.lines()
	if lines[1] != "語   1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "a    2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestTextTableShortRowAndWrite(t *testing.T) {
	table := newTextTable(column{title: "A"}, column{title: "B", right: true})
	table.add("x")
	var buf bytes.Buffer
	if err := table.write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	if buf.String() != "A B\nx  \n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
