package screen

import (
	"strings"
	"testing"

	"tcore/buffer"
	"tcore/term"
)

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func mustSizeT(t *testing.T, cols, rows int) buffer.Size {
	t.Helper()
	s, err := buffer.NewSize(cols, rows)
	if err != nil {
		t.Fatalf("NewSize: %v", err)
	}
	return s
}

// TestHelloCompositor is end-to-end scenario 1 from spec.md §8: start on
// an 80x24 virtual device, write "Hi" at (10,5), refresh; front must equal
// back and the device must have received the bytes for 'H' then 'i' at
// 1-based columns 11,12 on row 6.
func TestHelloCompositor(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 80, 24))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 80, 24), filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())

	c.SetCharacter(10, 5, buffer.NewStyledChar('H'))
	c.SetCharacter(11, 5, buffer.NewStyledChar('i'))
	must(t, c.Refresh(Complete))

	out := string(dev.Written())
	if !strings.Contains(out, "\x1b[6;11H") {
		t.Errorf("expected a cursor move to row 6 col 11, got %q", out)
	}
	if !strings.Contains(out, "H") || !strings.Contains(out, "i") {
		t.Errorf("expected 'H' and 'i' to be written, got %q", out)
	}

	c.mu.Lock()
	front, back := c.front, c.back
	c.mu.Unlock()
	if front.DiffCount(back) != 0 {
		t.Errorf("front and back must match after refresh")
	}
}

// TestDoubleWidthReplacementClearsShadow is end-to-end scenario 2.
func TestDoubleWidthReplacementClearsShadow(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 80, 24))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 80, 24), filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())

	c.SetCharacter(5, 3, buffer.NewStyledChar('中'))
	must(t, c.Refresh(Complete))

	dev.Reset()
	c.SetCharacter(5, 3, buffer.NewStyledChar('A'))
	must(t, c.Refresh(Delta))

	// The cursor is already on the shadow cell (6,3) after writing 'A' at
	// (5,3), so the space that clears it follows 'A' with no cursor move.
	out := string(dev.Written())
	if !strings.Contains(out, "\x1b[4;6HA ") {
		t.Errorf("expected 'A' at (5,3) (1-based 4;6H) followed by a space over the shadow cell (6,3), got %q", out)
	}
}

// TestRefreshIdempotence: two consecutive refresh(Automatic) with no
// intervening change must emit zero cell writes on the second call; the
// only output left is the hide-cursor sequence that settling the (hidden)
// cursor sends on every refresh.
func TestRefreshIdempotence(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 20, 10))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 20, 10), filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())

	c.SetCharacter(1, 1, buffer.NewStyledChar('x'))
	must(t, c.Refresh(Automatic))

	dev.Reset()
	must(t, c.Refresh(Automatic))
	if got := string(dev.Written()); got != "\x1b[?25l" {
		t.Errorf("expected only the hide-cursor sequence on idempotent refresh, got %q", got)
	}
}

// TestDeltaMinimality: if exactly one cell differs, Delta emits at most
// one cursor move and one cell write.
func TestDeltaMinimality(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 20, 10))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 20, 10), filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())
	must(t, c.Refresh(Complete))

	dev.Reset()
	c.SetCharacter(3, 2, buffer.NewStyledChar('z'))
	must(t, c.Refresh(Delta))

	out := string(dev.Written())
	if strings.Count(out, "\x1b[3;4H") != 1 {
		t.Errorf("expected exactly one cursor move, got %q", out)
	}
	if strings.Count(out, "z") != 1 {
		t.Errorf("expected exactly one 'z' write, got %q", out)
	}
}

// TestDiffThresholdChoosesComplete: if >=75% of cells differ, Automatic
// must behave like Complete (reset SGR at the start).
func TestDiffThresholdChoosesComplete(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 10, 10))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 10, 10), filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())
	must(t, c.Refresh(Complete))
	dev.Reset()

	for row := 0; row < 10; row++ {
		for col := 0; col < 8; col++ {
			c.SetCharacter(col, row, buffer.NewStyledChar('#'))
		}
	}
	must(t, c.Refresh(Automatic))

	out := string(dev.Written())
	if !strings.HasPrefix(out, "\x1b[0m") {
		t.Errorf("expected Automatic to choose Complete (leading SGR reset), got %q", out)
	}
}

// TestResizeRoundTrip is end-to-end scenario 6.
func TestResizeRoundTrip(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 80, 24))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 80, 24), filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())

	c.SetCharacter(10, 5, buffer.NewStyledChar('x'))
	must(t, c.Refresh(Complete))

	dev.SetSize(mustSizeT(t, 120, 40))
	newSize, resized := c.DoResizeIfNecessary()
	if !resized {
		t.Fatalf("expected a pending resize to be applied")
	}
	if newSize.Columns != 120 || newSize.Rows != 40 {
		t.Errorf("got size %v, want 120x40", newSize)
	}

	c.mu.Lock()
	cell, err := c.back.Get(buffer.Pos(10, 5))
	c.mu.Unlock()
	must(t, err)
	if cell.Rune() != 'x' {
		t.Errorf("expected preserved cell at (10,5), got %+v", cell)
	}

	must(t, c.Refresh(Complete))
}

func TestRefreshOutsideStartedIsNoop(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 10, 10))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 10, 10), filler, buffer.DefaultTabPolicy(), nil, nil)

	c.SetCharacter(1, 1, buffer.NewStyledChar('y'))
	must(t, c.Refresh(Complete))
	if len(dev.Written()) != 0 {
		t.Errorf("expected no output before Start, got %q", dev.Written())
	}
}

func TestScrollHintAccumulatesThenInvalidates(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 10, 10))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 10, 10), filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())

	c.ScrollLines(0, 9, 1)
	c.ScrollLines(0, 9, 2)
	if c.scroll.state != hintScroll || c.scroll.distance != 3 {
		t.Errorf("expected accumulated scroll hint distance 3, got %+v", c.scroll)
	}

	c.ScrollLines(2, 5, 1)
	if c.scroll.state != hintInvalid {
		t.Errorf("expected a differing range to invalidate the hint, got %+v", c.scroll)
	}
}
