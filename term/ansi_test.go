package term

import (
	"testing"

	"tcore/buffer"
)

func TestSeqMoveCursorIsOneBased(t *testing.T) {
	got := seqMoveCursor(buffer.Pos(9, 5))
	want := "\x1b[6;10H"
	if got != want {
		t.Errorf("seqMoveCursor = %q, want %q", got, want)
	}
}

func TestSeqSetForegroundRGB(t *testing.T) {
	got := seqSetForeground(buffer.RGB(10, 20, 30))
	want := "\x1b[38;2;10;20;30m"
	if got != want {
		t.Errorf("seqSetForeground(RGB) = %q, want %q", got, want)
	}
}

func TestSeqSetForegroundDefaultIsEmpty(t *testing.T) {
	if got := seqSetForeground(buffer.Default()); got != "" {
		t.Errorf("seqSetForeground(Default) = %q, want empty", got)
	}
}

func TestParseCursorReport(t *testing.T) {
	row, col, ok := parseCursorReport("6;10R")
	if !ok || row != 6 || col != 10 {
		t.Errorf("parseCursorReport = (%d,%d,%v), want (6,10,true)", row, col, ok)
	}

	if _, _, ok := parseCursorReport("garbage"); ok {
		t.Errorf("parseCursorReport should reject malformed input")
	}
}

func TestACSByteKnownGlyph(t *testing.T) {
	b, ok := ACSByte('─')
	if !ok || b != 'q' {
		t.Errorf("ACSByte('─') = (%q,%v), want ('q',true)", b, ok)
	}
	if _, ok := ACSByte('x'); ok {
		t.Errorf("ACSByte('x') should not match a line-drawing glyph")
	}
}

func TestSeqScrollLinesDirection(t *testing.T) {
	if got := seqScrollLines(2); got != "\n\n" {
		t.Errorf("seqScrollLines(2) = %q, want two newlines", got)
	}
	if got := seqScrollLines(-2); got != "\x1bM\x1bM" {
		t.Errorf("seqScrollLines(-2) = %q, want two reverse-index sequences", got)
	}
	if got := seqScrollLines(0); got != "" {
		t.Errorf("seqScrollLines(0) = %q, want empty", got)
	}
}
