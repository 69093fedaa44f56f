//go:build unix

package term

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// rawState is Cooked → Saved → Raw → Disposed, per spec.md §4.3. It
// generalizes the teacher's one-shot golang.org/x/term.MakeRaw/Restore
// pair (AhnafCodes-basementui/go/tui/term.go) into an explicit state
// machine, because the spec requires independently toggling canonical
// mode, echo and signal generation (catch_special_characters) — MakeRaw
// disables all three unconditionally.
type rawState int

const (
	stateCooked rawState = iota
	stateSaved
	stateRaw
	stateDisposed
)

// ttyRawMode owns one fd's termios lifecycle.
type ttyRawMode struct {
	fd       int
	state    rawState
	original unix.Termios
}

func newTTYRawMode(fd int) *ttyRawMode {
	return &ttyRawMode{fd: fd, state: stateCooked}
}

// Acquire saves the current termios settings and transitions Raw,
// disabling canonical mode and echo, and — unless catchSpecial is false —
// disabling signal generation (ISIG) so Ctrl-C etc. arrive as ordinary
// bytes instead of killing the process.
func (m *ttyRawMode) Acquire(catchSpecial bool) error {
	if m.state != stateCooked {
		return fmt.Errorf("rawmode: Acquire called from state %d, want Cooked", m.state)
	}
	termios, err := unix.IoctlGetTermios(m.fd, ioctlGetTermios)
	if err != nil {
		return fmt.Errorf("rawmode: get termios: %w", err)
	}
	m.original = *termios
	m.state = stateSaved

	raw := *termios
	raw.Lflag &^= unix.ICANON | unix.ECHO
	if catchSpecial {
		raw.Lflag &^= unix.ISIG
	}
	raw.Iflag &^= unix.IXON | unix.ICRNL
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(m.fd, ioctlSetTermios, &raw); err != nil {
		return fmt.Errorf("rawmode: set termios: %w", err)
	}
	m.state = stateRaw
	return nil
}

// Dispose restores the original termios settings. It is idempotent: a
// second call when already Disposed (or never Acquired) is a no-op.
func (m *ttyRawMode) Dispose() error {
	if m.state != stateRaw && m.state != stateSaved {
		m.state = stateDisposed
		return nil
	}
	err := unix.IoctlSetTermios(m.fd, ioctlSetTermios, &m.original)
	m.state = stateDisposed
	if err != nil {
		return fmt.Errorf("rawmode: restore termios: %w", err)
	}
	return nil
}

// IsRaw reports whether the fd is currently in raw mode.
func (m *ttyRawMode) IsRaw() bool { return m.state == stateRaw }
