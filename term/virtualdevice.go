package term

import (
	"bytes"
	"sync"

	"tcore/buffer"
	"tcore/errs"
)

// VirtualDevice is an in-memory Device implementation with no real tty
// behind it, used by tests and by any higher layer that wants to drive
// the compositor against a recorded byte stream (e.g. a telnet-backed
// device living outside this module's scope can embed the same pattern).
// It satisfies the full Device contract purely in terms of an
// accumulating byte buffer, so assertions can inspect exactly what the
// compositor would have written to a real terminal.
type VirtualDevice struct {
	mu  sync.Mutex
	buf bytes.Buffer

	size        buffer.Size
	inAltScreen bool
	cursorShown bool
	cursorPos   buffer.Position
	colors      int

	registry *resizeRegistry
}

// NewVirtualDevice creates an in-memory device of the given size,
// advertising 256-color support by default.
func NewVirtualDevice(size buffer.Size) *VirtualDevice {
	return &VirtualDevice{
		size:        size,
		cursorShown: true,
		colors:      256,
		registry:    newResizeRegistry(nopSinkForTests{}),
	}
}

type nopSinkForTests struct{}

func (nopSinkForTests) Warn(string, ...any)         {}
func (nopSinkForTests) Error(string, error, ...any) {}

// Written returns everything written to the device so far.
func (d *VirtualDevice) Written() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]byte, d.buf.Len())
	copy(out, d.buf.Bytes())
	return out
}

// Reset clears the recorded output, useful between test phases.
func (d *VirtualDevice) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.Reset()
}

// SetSize changes the device's reported size and notifies listeners, as
// if a real terminal had just been resized.
func (d *VirtualDevice) SetSize(size buffer.Size) {
	d.size = size
	d.registry.notify(size)
}

func (d *VirtualDevice) write(s string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.buf.WriteString(s)
	return nil
}

func (d *VirtualDevice) EnterAlternateScreen() error {
	if d.inAltScreen {
		return errs.InvalidState("already inside the alternate screen")
	}
	d.inAltScreen = true
	return d.write(seqEnterAltScreen)
}

func (d *VirtualDevice) LeaveAlternateScreen() error {
	if !d.inAltScreen {
		return errs.InvalidState("not inside the alternate screen")
	}
	d.inAltScreen = false
	return d.write(seqLeaveAltScreen)
}

func (d *VirtualDevice) Clear() error { return d.write(seqClearScreen) }
func (d *VirtualDevice) Flush() error { return nil }
func (d *VirtualDevice) Dispose() error {
	if d.inAltScreen {
		_ = d.write(seqLeaveAltScreen)
		d.inAltScreen = false
	}
	return nil
}

func (d *VirtualDevice) SetPosition(p buffer.Position) error {
	d.cursorPos = p
	return d.write(seqMoveCursor(p))
}

func (d *VirtualDevice) Position() buffer.Position { return d.cursorPos }

func (d *VirtualDevice) SetVisible(visible bool) error {
	d.cursorShown = visible
	if visible {
		return d.write(seqShowCursor)
	}
	return d.write(seqHideCursor)
}

func (d *VirtualDevice) PutChar(r rune) error { return d.write(string(r)) }
func (d *VirtualDevice) PutString(s string) error { return d.write(s) }

func (d *VirtualDevice) SetForeground(c buffer.Color) error {
	if d.colors < (1 << 24) {
		c = c.NearestIndexed()
	}
	return d.write(seqSetForeground(c))
}

func (d *VirtualDevice) SetBackground(c buffer.Color) error {
	if d.colors < (1 << 24) {
		c = c.NearestIndexed()
	}
	return d.write(seqSetBackground(c))
}

func (d *VirtualDevice) EnableSGR(m buffer.StyleModifier) error  { return d.write(seqEnableSGR(m)) }
func (d *VirtualDevice) DisableSGR(m buffer.StyleModifier) error { return d.write(seqDisableSGR(m)) }
func (d *VirtualDevice) ResetSGR() error                         { return d.write(seqResetSGR) }

func (d *VirtualDevice) Size() (buffer.Size, error) { return d.size, nil }

func (d *VirtualDevice) SupportsScrolling() bool { return true }

func (d *VirtualDevice) ScrollLines(first, last, distance int) error {
	if distance == 0 {
		return nil
	}
	if err := d.write(seqScrollRegion(first, last)); err != nil {
		return err
	}
	if err := d.write(seqScrollLines(distance)); err != nil {
		return err
	}
	return d.write(seqResetScrollRegion)
}

func (d *VirtualDevice) Colors() int { return d.colors }

func (d *VirtualDevice) AddResizeListener(l ResizeListener) ListenerHandle {
	return d.registry.add(l)
}

func (d *VirtualDevice) RemoveResizeListener(h ListenerHandle) {
	d.registry.remove(h)
}
