// Package term implements the terminal device abstraction (C3): a byte
// sink/source that emits ANSi control sequences, manages raw-mode
// lifecycle, and notifies listeners of size changes. Concrete
// implementations include a real tty, an in-memory virtual device for
// tests, and (by satisfying the same interface) network-backed devices
// such as a telnet server living outside this module's scope.
package term

import "tcore/buffer"

// ResizeListener is invoked whenever a Device observes its size change.
// A panicking listener must not prevent other listeners from running;
// callers are expected to recover around each invocation (see resize.go).
type ResizeListener func(newSize buffer.Size)

// ListenerHandle identifies a registered ResizeListener so it can later
// be removed; Go function values are not comparable, so registration
// returns an opaque handle rather than requiring the listener itself.
type ListenerHandle uint64

// Device is the polymorphic terminal device contract implemented by a
// real tty, an in-memory virtual device, or a network-backed one.
type Device interface {
	// EnterAlternateScreen switches to the secondary terminal buffer.
	// Returns an errs.KindInvalidState error if already inside the
	// alternate screen.
	EnterAlternateScreen() error
	// LeaveAlternateScreen returns to the primary buffer. Returns an
	// errs.KindInvalidState error if not currently inside the alternate
	// screen.
	LeaveAlternateScreen() error
	// Clear erases the screen (CSI 2 J).
	Clear() error
	// Flush pushes any buffered output to the underlying stream.
	Flush() error
	// Dispose idempotently tears the device down: restores tty settings,
	// leaves the alternate screen if needed, and releases resources.
	Dispose() error

	// SetPosition moves the hardware cursor to (col, row), 0-based.
	SetPosition(p buffer.Position) error
	// Position returns the last cursor position this device was told to
	// move to.
	Position() buffer.Position
	// SetVisible shows or hides the cursor.
	SetVisible(visible bool) error

	// PutChar writes a single rune at the current cursor position,
	// advancing the cursor.
	PutChar(r rune) error
	// PutString writes a string starting at the current cursor position.
	PutString(s string) error

	// SetForeground selects c as the foreground color for subsequent
	// drawing.
	SetForeground(c buffer.Color) error
	// SetBackground selects c as the background color.
	SetBackground(c buffer.Color) error
	// EnableSGR turns on a style modifier.
	EnableSGR(m buffer.StyleModifier) error
	// DisableSGR turns off a style modifier.
	DisableSGR(m buffer.StyleModifier) error
	// ResetSGR resets all style and color state to defaults.
	ResetSGR() error

	// Size returns the device's current size.
	Size() (buffer.Size, error)
	// SupportsScrolling reports whether ScrollLines is implemented by
	// emitting a real scroll-region sequence rather than a caller having
	// to fall back to a full repaint.
	SupportsScrolling() bool
	// ScrollLines asks the device to shift rows [first,last] by distance
	// using a hardware scroll region, per spec.md §4.3/§6.
	ScrollLines(first, last, distance int) error

	// Colors returns how many colors this device supports (e.g. 16, 256,
	// or 1<<24), used to decide whether an RGB Color must degrade via
	// Color.NearestIndexed.
	Colors() int

	// AddResizeListener registers a callback invoked when size changes,
	// returning a handle that can later be passed to
	// RemoveResizeListener.
	AddResizeListener(l ResizeListener) ListenerHandle
	// RemoveResizeListener unregisters a previously added listener. Safe
	// to call with a handle that was never registered or already removed.
	RemoveResizeListener(h ListenerHandle)
}
