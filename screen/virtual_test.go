package screen

import (
	"testing"

	"tcore/buffer"
	"tcore/input"
	"tcore/term"
)

func newTestVirtualScreen(t *testing.T, real, minimum buffer.Size) (*Compositor, *VirtualScreen) {
	t.Helper()
	dev := term.NewVirtualDevice(real)
	filler := buffer.NewStyledChar(' ')
	c := New(dev, real, filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())
	vs := NewVirtualScreen(c, minimum, filler, buffer.DefaultTabPolicy(), false)
	return c, vs
}

func TestVirtualScreenLogicalSizeIsMaxOfMinimumAndReal(t *testing.T) {
	_, vs := newTestVirtualScreen(t, mustSizeT(t, 40, 10), mustSizeT(t, 80, 24))
	got := vs.LogicalSize()
	if got.Columns != 80 || got.Rows != 24 {
		t.Errorf("got %v, want 80x24", got)
	}

	_, vs2 := newTestVirtualScreen(t, mustSizeT(t, 100, 30), mustSizeT(t, 80, 24))
	got2 := vs2.LogicalSize()
	if got2.Columns != 100 || got2.Rows != 30 {
		t.Errorf("got %v, want 100x30 (real larger than minimum)", got2)
	}
}

func TestVirtualScreenScrollInterceptsAltArrow(t *testing.T) {
	_, vs := newTestVirtualScreen(t, mustSizeT(t, 40, 10), mustSizeT(t, 80, 24))

	consumed := vs.HandleInput(input.NewKeyEvent(input.KeyArrowDown, input.ModAlt))
	if !consumed {
		t.Fatalf("expected Alt+ArrowDown to be consumed")
	}
	if vs.viewport.Row != 1 {
		t.Errorf("got viewport row %d, want 1", vs.viewport.Row)
	}

	passthrough := vs.HandleInput(input.NewKeyEvent(input.KeyArrowDown, 0))
	if passthrough {
		t.Errorf("expected a plain ArrowDown (no modifier) to pass through")
	}
}

func TestVirtualScreenScrollOnCtrlConfig(t *testing.T) {
	dev := term.NewVirtualDevice(mustSizeT(t, 40, 10))
	filler := buffer.NewStyledChar(' ')
	c := New(dev, mustSizeT(t, 40, 10), filler, buffer.DefaultTabPolicy(), nil, nil)
	must(t, c.Start())
	vs := NewVirtualScreen(c, mustSizeT(t, 80, 24), filler, buffer.DefaultTabPolicy(), true)

	if vs.HandleInput(input.NewKeyEvent(input.KeyArrowDown, input.ModAlt)) {
		t.Errorf("Alt should not trigger scrolling when scroll_on_ctrl is set")
	}
	if !vs.HandleInput(input.NewKeyEvent(input.KeyArrowDown, input.ModCtrl)) {
		t.Errorf("Ctrl+ArrowDown should trigger scrolling when scroll_on_ctrl is set")
	}
}

func TestVirtualScreenViewportClampedToLogicalBounds(t *testing.T) {
	_, vs := newTestVirtualScreen(t, mustSizeT(t, 40, 10), mustSizeT(t, 80, 24))

	for i := 0; i < 100; i++ {
		vs.HandleInput(input.NewKeyEvent(input.KeyArrowUp, input.ModAlt))
	}
	if vs.viewport.Row != 0 {
		t.Errorf("viewport row should clamp at 0, got %d", vs.viewport.Row)
	}

	for i := 0; i < 100; i++ {
		vs.HandleInput(input.NewKeyEvent(input.KeyArrowDown, input.ModAlt))
	}
	cols, rows := vs.contentArea()
	maxRow := vs.logical.Size().Rows - rows
	if vs.viewport.Row != maxRow {
		t.Errorf("viewport row should clamp at %d, got %d (content cols=%d)", maxRow, vs.viewport.Row, cols)
	}
}

func TestVirtualScreenCursorHiddenOutsideViewport(t *testing.T) {
	_, vs := newTestVirtualScreen(t, mustSizeT(t, 40, 10), mustSizeT(t, 80, 24))

	farAway := buffer.Pos(79, 23)
	vs.SetCursor(&farAway)
	vs.Render()

	if vs.comp.cursor != nil {
		t.Errorf("expected the real cursor to be hidden while the logical cursor is outside the viewport")
	}
}

func TestVirtualScreenNoFrameWhenRealMeetsMinimum(t *testing.T) {
	_, vs := newTestVirtualScreen(t, mustSizeT(t, 80, 24), mustSizeT(t, 80, 24))
	reserveRight, reserveBottom := vs.hasFrame()
	if reserveRight || reserveBottom {
		t.Errorf("expected no frame when real size already meets minimum")
	}
}
