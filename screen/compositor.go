// Package screen implements the screen compositor (C5) and its virtual
// scrolling overlay (C6): front/back buffer diffing against a term.Device,
// generalizing the teacher's tui.Screen (AhnafCodes-basementui
// go/tui/screen.go) double-buffer-and-diff loop into the spec's
// Automatic/Delta/Complete refresh kinds and Idle/Started state machine.
package screen

import (
	"sync"
	"time"

	"tcore/buffer"
	"tcore/input"
	"tcore/log"
	"tcore/term"
)

// RefreshKind selects how Refresh reconciles the back buffer against the
// device: Complete repaints every non-filler cell; Delta emits only
// changed cells (and an outstanding scroll hint, if the device supports
// hardware scrolling); Automatic picks one of the two per §4.5's
// full-redraw/diff-ratio rule.
type RefreshKind int

const (
	Automatic RefreshKind = iota
	Delta
	Complete
)

// diffRatioThreshold is the fraction of differing cells above which
// Automatic prefers Complete over Delta (spec.md §4.5/§8).
const diffRatioThreshold = 0.75

type scrollHintState int

const (
	hintNone scrollHintState = iota
	hintScroll
	hintInvalid
)

type scrollHint struct {
	state               scrollHintState
	first, last, distance int
}

// Compositor owns a front/back buffer pair over a term.Device, a cursor
// position, a tab policy, and the Idle/Started lifecycle of spec.md §4.5.
type Compositor struct {
	mu sync.Mutex

	device  term.Device
	decoder *input.Decoder
	sink    log.Sink

	front, back *buffer.ScreenBuffer
	filler      buffer.StyledChar
	tabPolicy   buffer.TabPolicy

	cursor     *buffer.Position
	started    bool
	fullRedraw bool
	scroll     scrollHint

	resizeHandle term.ListenerHandle
	pendingSize  *buffer.Size
}

// New builds a Compositor of the given size, backed by device. decoder
// may be nil if the caller never intends to call Stop with pending input
// to drain.
func New(device term.Device, size buffer.Size, filler buffer.StyledChar, tabPolicy buffer.TabPolicy, decoder *input.Decoder, sink log.Sink) *Compositor {
	if sink == nil {
		sink = log.Nop
	}
	return &Compositor{
		device:    device,
		decoder:   decoder,
		sink:      sink,
		front:     buffer.NewScreenBuffer(size, filler),
		back:      buffer.NewScreenBuffer(size, filler),
		filler:    filler,
		tabPolicy: tabPolicy,
	}
}

// Start enters the alternate screen, clears the device, arms a full
// redraw, and applies the current cursor visibility. Valid from Idle;
// a second call while already Started is a no-op.
func (c *Compositor) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return nil
	}
	if err := c.device.EnterAlternateScreen(); err != nil {
		return err
	}
	if err := c.device.Clear(); err != nil {
		return err
	}
	c.resizeHandle = c.device.AddResizeListener(func(newSize buffer.Size) {
		c.mu.Lock()
		size := newSize
		c.pendingSize = &size
		c.mu.Unlock()
	})
	c.fullRedraw = true
	c.started = true
	if err := c.device.SetVisible(c.cursor != nil); err != nil {
		return err
	}
	return nil
}

// Stop drains any pending input until EOF or emptiness, then leaves the
// alternate screen. A no-op outside Started.
func (c *Compositor) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}
	if c.decoder != nil {
		for {
			_, ok, err := c.decoder.ReadWithTimeout(10 * time.Millisecond)
			if err != nil || !ok {
				break
			}
		}
	}
	c.device.RemoveResizeListener(c.resizeHandle)
	c.started = false
	return c.device.LeaveAlternateScreen()
}

// Clear fills the back buffer with the default filler, invalidates any
// scroll hint, and arms a full redraw.
func (c *Compositor) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.back.Fill(c.filler)
	c.scroll = scrollHint{}
	c.fullRedraw = true
}

// SetCharacter writes sc into the back buffer at (col,row). A tab
// character in sc's cluster expands to the configured number of blank
// cells (holding sc's colors/modifiers) starting at col, per §4.5.
func (c *Compositor) SetCharacter(col, row int, sc buffer.StyledChar) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setCharacterLocked(col, row, sc)
}

func (c *Compositor) setCharacterLocked(col, row int, sc buffer.StyledChar) {
	if sc.Cluster() == "\t" {
		width := c.tabPolicy.ExpandedWidth(col)
		blank := sc.WithCharacter(' ')
		for i := 0; i < width; i++ {
			c.back.Set(buffer.Pos(col+i, row), blank)
		}
		return
	}
	c.back.Set(buffer.Pos(col, row), sc)
}

// SetCursor clamps pos to the buffer bounds and moves the logical cursor
// there; a nil pos hides it.
func (c *Compositor) SetCursor(pos *buffer.Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if pos == nil {
		c.cursor = nil
		return
	}
	size := c.back.Size()
	col, row := pos.Column, pos.Row
	if col < 0 {
		col = 0
	}
	if col >= size.Columns {
		col = size.Columns - 1
	}
	if row < 0 {
		row = 0
	}
	if row >= size.Rows {
		row = size.Rows - 1
	}
	clamped := buffer.Pos(col, row)
	c.cursor = &clamped
}

// ScrollLines scrolls the back buffer and records a scroll hint for the
// next Delta refresh. Repeated hints over the same (first,last) range
// accumulate distance; a hint over a different range invalidates any
// prior hint, forcing a plain cell diff next time.
func (c *Compositor) ScrollLines(first, last, distance int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.back.ScrollLines(first, last, distance, c.filler)

	switch c.scroll.state {
	case hintNone:
		c.scroll = scrollHint{state: hintScroll, first: first, last: last, distance: distance}
	case hintScroll:
		if c.scroll.first == first && c.scroll.last == last {
			c.scroll.distance += distance
		} else {
			c.scroll = scrollHint{state: hintInvalid}
		}
	case hintInvalid:
		// stays invalid
	}
}

// NewTextGraphics returns a drawing façade backed by this compositor's
// back buffer.
func (c *Compositor) NewTextGraphics() *TextGraphics {
	return &TextGraphics{c: c}
}

// DoResizeIfNecessary rebuilds both buffers to the most recently observed
// device size, if a resize notification arrived since the last call.
// Returns the new size and true if a resize was applied.
func (c *Compositor) DoResizeIfNecessary() (buffer.Size, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pendingSize == nil {
		return buffer.Size{}, false
	}
	newSize := *c.pendingSize
	c.pendingSize = nil

	c.front = c.front.Resize(newSize, c.filler)
	c.back = c.back.Resize(newSize, c.filler)
	c.fullRedraw = true
	if c.cursor != nil {
		col, row := c.cursor.Column, c.cursor.Row
		if col >= newSize.Columns {
			col = newSize.Columns - 1
		}
		if row >= newSize.Rows {
			row = newSize.Rows - 1
		}
		clamped := buffer.Pos(col, row)
		c.cursor = &clamped
	}
	return newSize, true
}

// Size returns the compositor's current buffer dimensions.
func (c *Compositor) Size() buffer.Size {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.back.Size()
}

// Refresh reconciles the back buffer against the device per kind.
// Outside Started it is a no-op (draw operations still mutate the back
// buffer; only Refresh itself is suppressed).
func (c *Compositor) Refresh(kind RefreshKind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.started {
		return nil
	}

	var err error
	switch kind {
	case Complete:
		err = c.refreshCompleteLocked()
	case Delta:
		err = c.refreshDeltaLocked()
	default:
		total := c.back.Size().Area()
		threshold := int(diffRatioThreshold * float64(total))
		if c.fullRedraw || c.back.IsVeryDifferent(c.front, threshold) {
			err = c.refreshCompleteLocked()
		} else {
			err = c.refreshDeltaLocked()
		}
	}
	if err != nil {
		// DeviceIo failures abort the refresh mid-cell; the compositor
		// stays Started so the caller may retry (spec.md §7). A
		// best-effort flush pushes out whatever was already written.
		_ = c.device.Flush()
		c.sink.Error("screen: refresh aborted mid-cell", err)
	}
	return err
}

type attrState struct {
	fg, bg buffer.Color
	mods   buffer.StyleModifier
	armed  bool
}

func (c *Compositor) applyAttrDelta(st *attrState, sc buffer.StyledChar) error {
	if !st.armed || sc.Foreground() != st.fg {
		if err := c.device.SetForeground(sc.Foreground()); err != nil {
			return err
		}
	}
	if !st.armed || sc.Background() != st.bg {
		if err := c.device.SetBackground(sc.Background()); err != nil {
			return err
		}
	}
	if !st.armed || sc.Modifiers() != st.mods {
		prev := st.mods
		if !st.armed {
			prev = 0
		}
		for _, m := range allModifierBits {
			was, now := prev.Has(m), sc.Modifiers().Has(m)
			if was == now {
				continue
			}
			var err error
			if now {
				err = c.device.EnableSGR(m)
			} else {
				err = c.device.DisableSGR(m)
			}
			if err != nil {
				return err
			}
		}
	}
	st.fg, st.bg, st.mods, st.armed = sc.Foreground(), sc.Background(), sc.Modifiers(), true
	return nil
}

var allModifierBits = []buffer.StyleModifier{
	buffer.ModifierBold, buffer.ModifierReverse, buffer.ModifierUnderline,
	buffer.ModifierBlink, buffer.ModifierItalic, buffer.ModifierCrossedOut,
	buffer.ModifierBordered, buffer.ModifierFraktur, buffer.ModifierCircled,
}

func (c *Compositor) refreshCompleteLocked() error {
	if err := c.device.ResetSGR(); err != nil {
		return err
	}
	var st attrState
	curPos := buffer.Pos(-1, -1)

	size := c.back.Size()
	for row := 0; row < size.Rows; row++ {
		for col := 0; col < size.Columns; col++ {
			p := buffer.Pos(col, row)
			cell, _ := c.back.Get(p)
			if cell == c.filler {
				continue
			}
			if curPos != p {
				if err := c.device.SetPosition(p); err != nil {
					return err
				}
			}
			if err := c.applyAttrDelta(&st, cell); err != nil {
				return err
			}
			if err := c.device.PutString(cell.Cluster()); err != nil {
				return err
			}
			curPos = buffer.Pos(col+cell.Width(), row)
		}
	}

	c.front = buffer.NewScreenBuffer(size, c.filler)
	c.front.CopyFrom(c.back, buffer.Rect{Origin: buffer.Pos(0, 0), Size: size}, buffer.Pos(0, 0))
	c.fullRedraw = false
	c.scroll = scrollHint{}
	return c.settleCursorLocked()
}

func (c *Compositor) refreshDeltaLocked() error {
	size := c.back.Size()

	if c.scroll.state == hintScroll && c.device.SupportsScrolling() && c.scroll.distance != 0 {
		if err := c.device.ScrollLines(c.scroll.first, c.scroll.last, c.scroll.distance); err != nil {
			return err
		}
		c.front.ScrollLines(c.scroll.first, c.scroll.last, c.scroll.distance, c.filler)
	}
	c.scroll = scrollHint{}

	var st attrState
	curPos := buffer.Pos(-1, -1)

	for row := 0; row < size.Rows; row++ {
		for col := 0; col < size.Columns; col++ {
			p := buffer.Pos(col, row)
			backCell, _ := c.back.Get(p)
			frontCell, _ := c.front.Get(p)
			if backCell == frontCell {
				continue
			}

			if curPos != p {
				if err := c.device.SetPosition(p); err != nil {
					return err
				}
			}
			if err := c.applyAttrDelta(&st, backCell); err != nil {
				return err
			}
			if err := c.device.PutString(backCell.Cluster()); err != nil {
				return err
			}
			curPos = buffer.Pos(col+backCell.Width(), row)
			c.front.Set(p, backCell)

			if frontCell.Width() == 2 && backCell.Width() != 2 {
				shadow := buffer.Pos(col+1, row)
				if size.Contains(shadow) {
					space := backCell.WithCharacter(' ')
					if curPos != shadow {
						if err := c.device.SetPosition(shadow); err != nil {
							return err
						}
					}
					if err := c.device.PutString(" "); err != nil {
						return err
					}
					curPos = buffer.Pos(shadow.Column+1, shadow.Row)
					c.front.Set(shadow, space)
				}
			}
		}
	}

	return c.settleCursorLocked()
}

// settleCursorLocked positions the hardware cursor to match the logical
// cursor, nudging it onto the left half of a double-width glyph if the
// cell immediately to its left spans two columns (§4.5).
func (c *Compositor) settleCursorLocked() error {
	if c.cursor == nil {
		return c.device.SetVisible(false)
	}
	pos := *c.cursor
	if pos.Column > 0 {
		left, err := c.back.Get(buffer.Pos(pos.Column-1, pos.Row))
		if err == nil && left.Width() == 2 {
			pos = buffer.Pos(pos.Column-1, pos.Row)
		}
	}
	if err := c.device.SetPosition(pos); err != nil {
		return err
	}
	return c.device.SetVisible(true)
}
