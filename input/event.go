// Package input implements the input decoder (C4): turning a stream of
// bytes arriving from a terminal device into structured key and mouse
// events via an ordered set of pattern matchers.
package input

import "tcore/buffer"

// Key identifies the kind of key a KeyEvent represents.
type Key int

const (
	KeyUnknown Key = iota
	KeyCharacter
	KeyEnter
	KeyTab
	KeyBackspace
	KeyEscape
	KeyArrowUp
	KeyArrowDown
	KeyArrowLeft
	KeyArrowRight
	KeyInsert
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyReverseTab
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyCursorLocationReport
	KeyMouseEvent
	KeyEOF
)

// Modifier is a bitset of the three modifier keys spec.md tracks.
type Modifier uint8

const (
	ModCtrl Modifier = 1 << iota
	ModAlt
	ModShift
)

func (m Modifier) Has(bit Modifier) bool { return m&bit != 0 }

// canonicalChar gives the C0 character KeyEnter/KeyTab/KeyBackspace carry
// per spec.md §3 ("Character events with kind Enter/Tab/Backspace carry
// their canonical C0 character").
func canonicalChar(k Key) rune {
	switch k {
	case KeyEnter:
		return '\r'
	case KeyTab:
		return '\t'
	case KeyBackspace:
		return 0x7f
	default:
		return 0
	}
}

// KeyEvent is a decoded input event: a key kind, an optional character
// (meaningful for KeyCharacter and the C0-carrying kinds above), and a
// modifier set.
type KeyEvent struct {
	Kind      Key
	Character rune
	Modifiers Modifier

	// CursorReport holds the (col, row) parsed from a CursorLocationReport
	// event, already converted from the wire protocol's 1-based row/col to
	// 0-based coordinates by the decoder.
	CursorReport buffer.Position

	// The following three fields are populated when Kind == KeyMouseEvent;
	// use Mouse() to read them back as a MouseEvent.
	MouseAction   MouseAction
	MouseButton   int
	MousePosition buffer.Position
}

// NewKeyEvent builds a plain KeyEvent of the given kind, auto-filling the
// canonical C0 character for Enter/Tab/Backspace.
func NewKeyEvent(kind Key, mods Modifier) KeyEvent {
	return KeyEvent{Kind: kind, Character: canonicalChar(kind), Modifiers: mods}
}

// NewCharacterEvent builds a KeyCharacter event.
func NewCharacterEvent(r rune, mods Modifier) KeyEvent {
	return KeyEvent{Kind: KeyCharacter, Character: r, Modifiers: mods}
}

// MouseAction classifies a MouseEvent.
type MouseAction int

const (
	MouseButtonDown MouseAction = iota
	MouseButtonRelease
	MouseScrollUp
	MouseScrollDown
	MouseDrag
	MouseMove
)

// MouseEvent extends KeyEvent with the mouse-specific fields of spec.md §3.
type MouseEvent struct {
	KeyEvent
	Action   MouseAction
	Button   int // 0 = none, 1..5
	Position buffer.Position
}

// Mouse reconstructs the MouseEvent view of e, reporting false if e is not
// a KeyMouseEvent.
func (e KeyEvent) Mouse() (MouseEvent, bool) {
	if e.Kind != KeyMouseEvent {
		return MouseEvent{}, false
	}
	return MouseEvent{KeyEvent: e, Action: e.MouseAction, Button: e.MouseButton, Position: e.MousePosition}, true
}
