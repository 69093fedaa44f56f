package screen

import (
	"tcore/buffer"
	"tcore/input"
)

// shadeGlyphs are the block-shade glyphs used to draw proportional scroll
// indicators, consistent with the teacher's use of Unicode box-drawing
// glyphs elsewhere in its renderer (AhnafCodes-basementui go/tui/render.go).
const (
	shadeLight = '░'
	shadeSolid = '█'
	frameLine  = '─'
)

// VirtualScreen implements C6: it wraps a real, device-backed Compositor
// and presents a logical drawing surface of size max(minimum, real size).
// When the logical area is larger than what the device can actually show,
// it maintains a scrollable viewport into that surface, draws a status
// line/scroll-indicator frame along the reserved edges, and intercepts
// scroll-trigger input before it reaches the embedding application.
type VirtualScreen struct {
	comp      *Compositor
	filler    buffer.StyledChar
	tabPolicy buffer.TabPolicy
	minimum   buffer.Size

	logical  *buffer.ScreenBuffer
	viewport buffer.Position
	cursor   *buffer.Position

	scrollOnCtrl bool
}

// NewVirtualScreen builds a VirtualScreen over comp, whose logical size is
// immediately max(minimum, comp.Size()).
func NewVirtualScreen(comp *Compositor, minimum buffer.Size, filler buffer.StyledChar, tabPolicy buffer.TabPolicy, scrollOnCtrl bool) *VirtualScreen {
	logicalSize := maxSize(minimum, comp.Size())
	return &VirtualScreen{
		comp:         comp,
		filler:       filler,
		tabPolicy:    tabPolicy,
		minimum:      minimum,
		logical:      buffer.NewScreenBuffer(logicalSize, filler),
		scrollOnCtrl: scrollOnCtrl,
	}
}

func maxSize(a, b buffer.Size) buffer.Size {
	cols, rows := a.Columns, a.Rows
	if b.Columns > cols {
		cols = b.Columns
	}
	if b.Rows > rows {
		rows = b.Rows
	}
	s, _ := buffer.NewSize(cols, rows)
	return s
}

// LogicalSize returns the current logical drawing surface size.
func (v *VirtualScreen) LogicalSize() buffer.Size { return v.logical.Size() }

// SetCharacter writes sc into the logical surface at (col,row), expanding
// a tab cluster to blank cells the same way Compositor.SetCharacter does.
func (v *VirtualScreen) SetCharacter(col, row int, sc buffer.StyledChar) {
	if sc.Cluster() == "\t" {
		width := v.tabPolicy.ExpandedWidth(col)
		blank := sc.WithCharacter(' ')
		for i := 0; i < width; i++ {
			v.logical.Set(buffer.Pos(col+i, row), blank)
		}
		return
	}
	v.logical.Set(buffer.Pos(col, row), sc)
}

// SetCursor sets the logical cursor position; nil hides it.
func (v *VirtualScreen) SetCursor(pos *buffer.Position) {
	v.cursor = pos
}

// ResyncLogicalSize grows the logical surface to max(minimum, real size)
// after the wrapped compositor's real size changes (call after
// Compositor.DoResizeIfNecessary reports a resize).
func (v *VirtualScreen) ResyncLogicalSize() {
	newSize := maxSize(v.minimum, v.comp.Size())
	if newSize == v.logical.Size() {
		return
	}
	v.logical = v.logical.Resize(newSize, v.filler)
}

func (v *VirtualScreen) hasFrame() (reserveRight, reserveBottom bool) {
	real := v.comp.Size()
	logical := v.logical.Size()
	return logical.Columns > real.Columns, logical.Rows > real.Rows
}

func (v *VirtualScreen) contentArea() (cols, rows int) {
	real := v.comp.Size()
	reserveRight, reserveBottom := v.hasFrame()
	cols, rows = real.Columns, real.Rows
	if reserveRight {
		cols--
	}
	if reserveBottom {
		rows--
	}
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return cols, rows
}

func (v *VirtualScreen) clampViewport() {
	cols, rows := v.contentArea()
	logical := v.logical.Size()

	maxCol := logical.Columns - cols
	if maxCol < 0 {
		maxCol = 0
	}
	maxRow := logical.Rows - rows
	if maxRow < 0 {
		maxRow = 0
	}

	col, row := v.viewport.Column, v.viewport.Row
	if col < 0 {
		col = 0
	}
	if col > maxCol {
		col = maxCol
	}
	if row < 0 {
		row = 0
	}
	if row > maxRow {
		row = maxRow
	}
	v.viewport = buffer.Pos(col, row)
}

// scrollTriggerModifier reports which modifier (Alt by default, Ctrl when
// scroll_on_ctrl is set) arms the viewport-scrolling interception.
func (v *VirtualScreen) scrollTriggerModifier() input.Modifier {
	if v.scrollOnCtrl {
		return input.ModCtrl
	}
	return input.ModAlt
}

// HandleInput intercepts scroll-trigger key combinations (arrow keys,
// Page Up/Down, Space, each chorded with the scroll-trigger modifier) and
// moves the viewport, reporting true when the event was consumed. Any
// other event, and every event while the real size already meets the
// logical size, is left untouched for the caller to handle.
func (v *VirtualScreen) HandleInput(ev input.KeyEvent) bool {
	if reserveRight, reserveBottom := v.hasFrame(); !reserveRight && !reserveBottom {
		return false
	}
	mod := v.scrollTriggerModifier()
	if !ev.Modifiers.Has(mod) {
		return false
	}
	_, rows := v.contentArea()

	switch ev.Kind {
	case input.KeyArrowUp:
		v.viewport = buffer.Pos(v.viewport.Column, v.viewport.Row-1)
	case input.KeyArrowDown:
		v.viewport = buffer.Pos(v.viewport.Column, v.viewport.Row+1)
	case input.KeyArrowLeft:
		v.viewport = buffer.Pos(v.viewport.Column-1, v.viewport.Row)
	case input.KeyArrowRight:
		v.viewport = buffer.Pos(v.viewport.Column+1, v.viewport.Row)
	case input.KeyPageUp:
		v.viewport = buffer.Pos(v.viewport.Column, v.viewport.Row-rows)
	case input.KeyPageDown:
		v.viewport = buffer.Pos(v.viewport.Column, v.viewport.Row+rows)
	case input.KeyCharacter:
		if ev.Character != ' ' {
			return false
		}
		v.viewport = buffer.Pos(v.viewport.Column, v.viewport.Row+rows)
	default:
		return false
	}
	v.clampViewport()
	return true
}

// Render blits the viewport-sized window of the logical surface into the
// wrapped compositor's back buffer, draws the status-line/scroll-indicator
// frame along any reserved edge, and translates the logical cursor into
// viewport coordinates (hiding it if it currently falls outside the
// viewport). It does not call Compositor.Refresh; the caller decides when.
func (v *VirtualScreen) Render() {
	v.clampViewport()
	cols, rows := v.contentArea()
	real := v.comp.Size()
	reserveRight, reserveBottom := v.hasFrame()

	rect := buffer.Rect{Origin: v.viewport, Size: mustSize(cols, rows)}
	v.comp.back.CopyFrom(v.logical, rect, buffer.Pos(0, 0))

	if reserveBottom {
		v.drawHorizontalIndicator(cols, real)
	}
	if reserveRight {
		v.drawVerticalIndicator(rows, real)
	}

	v.translateCursor(cols, rows)
}

func mustSize(cols, rows int) buffer.Size {
	s, err := buffer.NewSize(cols, rows)
	if err != nil {
		return buffer.Size{}
	}
	return s
}

func (v *VirtualScreen) drawHorizontalIndicator(cols int, real buffer.Size) {
	row := real.Rows - 1
	logicalCols := v.logical.Size().Columns
	if logicalCols == 0 || cols == 0 {
		return
	}
	thumbStart := v.viewport.Column * cols / logicalCols
	thumbEnd := (v.viewport.Column + cols) * cols / logicalCols
	if thumbEnd <= thumbStart {
		thumbEnd = thumbStart + 1
	}
	for col := 0; col < cols; col++ {
		glyph := rune(frameLine)
		if col >= thumbStart && col < thumbEnd {
			glyph = shadeSolid
		}
		v.comp.back.Set(buffer.Pos(col, row), v.filler.WithCharacter(glyph))
	}
}

func (v *VirtualScreen) drawVerticalIndicator(rows int, real buffer.Size) {
	col := real.Columns - 1
	logicalRows := v.logical.Size().Rows
	if logicalRows == 0 || rows == 0 {
		return
	}
	thumbStart := v.viewport.Row * rows / logicalRows
	thumbEnd := (v.viewport.Row + rows) * rows / logicalRows
	if thumbEnd <= thumbStart {
		thumbEnd = thumbStart + 1
	}
	for row := 0; row < rows; row++ {
		glyph := shadeLight
		if row >= thumbStart && row < thumbEnd {
			glyph = shadeSolid
		}
		v.comp.back.Set(buffer.Pos(col, row), v.filler.WithCharacter(glyph))
	}
}

func (v *VirtualScreen) translateCursor(cols, rows int) {
	if v.cursor == nil {
		v.comp.SetCursor(nil)
		return
	}
	col := v.cursor.Column - v.viewport.Column
	row := v.cursor.Row - v.viewport.Row
	if col < 0 || col >= cols || row < 0 || row >= rows {
		v.comp.SetCursor(nil)
		return
	}
	pos := buffer.Pos(col, row)
	v.comp.SetCursor(&pos)
}
