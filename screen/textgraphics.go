package screen

import "tcore/buffer"

// TextGraphics is the drawing façade new_text_graphics() returns: a thin
// wrapper over the compositor's back buffer offering string/line/rectangle
// primitives, generalizing the teacher's Screen.DrawText
// (AhnafCodes-basementui go/tui/screen.go) to width-aware multi-cell
// writes and basic shape drawing.
type TextGraphics struct {
	c *Compositor
}

// SetCharacter writes a single styled character at (col,row).
func (g *TextGraphics) SetCharacter(col, row int, sc buffer.StyledChar) {
	g.c.SetCharacter(col, row, sc)
}

// PutString writes s starting at (col,row), expanding tabs per the
// compositor's tab policy and advancing by each cluster's rune width.
// Embedded newlines move to the start column of the next row.
func (g *TextGraphics) PutString(col, row int, s string, style buffer.StyledChar) {
	g.c.mu.Lock()
	defer g.c.mu.Unlock()

	startCol := col
	for _, r := range s {
		if r == '\n' {
			row++
			col = startCol
			continue
		}
		sc := style.WithCharacter(r)
		g.c.setCharacterLocked(col, row, sc)
		if r == '\t' {
			col += g.c.tabPolicy.ExpandedWidth(col)
			continue
		}
		w := sc.Width()
		if w <= 0 {
			w = 1
		}
		col += w
	}
}

// DrawLine draws a straight line from (x0,y0) to (x1,y1) using Bresenham's
// algorithm, writing ch in style at every touched cell.
func (g *TextGraphics) DrawLine(x0, y0, x1, y1 int, ch rune, style buffer.StyledChar) {
	sc := style.WithCharacter(ch)

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	x, y := x0, y0
	for {
		g.c.SetCharacter(x, y, sc)
		if x == x1 && y == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// DrawRectangle draws the outline of a rectangle whose opposite corners
// are (x0,y0) and (x1,y1).
func (g *TextGraphics) DrawRectangle(x0, y0, x1, y1 int, ch rune, style buffer.StyledChar) {
	g.DrawLine(x0, y0, x1, y0, ch, style)
	g.DrawLine(x0, y1, x1, y1, ch, style)
	g.DrawLine(x0, y0, x0, y1, ch, style)
	g.DrawLine(x1, y0, x1, y1, ch, style)
}

// FillRectangle fills the rectangle whose opposite corners are (x0,y0)
// and (x1,y1) with ch in style.
func (g *TextGraphics) FillRectangle(x0, y0, x1, y1 int, ch rune, style buffer.StyledChar) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	sc := style.WithCharacter(ch)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			g.c.SetCharacter(x, y, sc)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
