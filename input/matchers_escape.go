package input

import (
	"strconv"
	"strings"
)

// escapeMatcher recognizes CSI and SS3 escape sequences: arrow/navigation
// keys, function keys, the xterm modifier encoding, cursor location
// reports, and the legacy ESC [ [ A..E function-key encoding some
// terminals still send. It also handles the "ESC ESC ..." convention a
// few terminals use to signal Alt held down across an otherwise-ordinary
// sequence, and falls back to Alt+character / bare Escape for anything
// else starting with 0x1b.
type escapeMatcher struct{}

var csiFinalKey = map[byte]Key{
	'A': KeyArrowUp,
	'B': KeyArrowDown,
	'C': KeyArrowRight,
	'D': KeyArrowLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'S': KeyF4,
	'Z': KeyReverseTab,
}

var ss3FinalKey = map[byte]Key{
	'A': KeyArrowUp,
	'B': KeyArrowDown,
	'C': KeyArrowRight,
	'D': KeyArrowLeft,
	'H': KeyHome,
	'F': KeyEnd,
	'P': KeyF1,
	'Q': KeyF2,
	'R': KeyF3,
	'S': KeyF4,
}

var legacyF1ToF5 = map[byte]Key{
	'A': KeyF1,
	'B': KeyF2,
	'C': KeyF3,
	'D': KeyF4,
	'E': KeyF5,
}

var tildeKey = map[int]Key{
	1:  KeyHome,
	2:  KeyInsert,
	3:  KeyDelete,
	4:  KeyEnd,
	5:  KeyPageUp,
	6:  KeyPageDown,
	11: KeyF1,
	12: KeyF2,
	13: KeyF3,
	14: KeyF4,
	15: KeyF5,
	17: KeyF6,
	18: KeyF7,
	19: KeyF8,
	20: KeyF9,
	21: KeyF10,
	23: KeyF11,
	24: KeyF12,
	25: KeyF13,
	26: KeyF14,
	28: KeyF15,
	29: KeyF16,
	31: KeyF17,
	32: KeyF18,
	33: KeyF19,
}

// modifierFromParam decodes the xterm modifier parameter: the wire value
// is 1 + (shift?1:0) + (alt?2:0) + (ctrl?4:0).
func modifierFromParam(v int) Modifier {
	if v <= 1 {
		return 0
	}
	bits := v - 1
	var m Modifier
	if bits&1 != 0 {
		m |= ModShift
	}
	if bits&2 != 0 {
		m |= ModAlt
	}
	if bits&4 != 0 {
		m |= ModCtrl
	}
	return m
}

func (escapeMatcher) Match(pending []byte) MatchResult {
	if len(pending) == 0 || pending[0] != 0x1b {
		return noMatch()
	}
	if len(pending) == 1 {
		return partial()
	}

	// "ESC ESC <rest>": treat <rest> as the inner sequence with an added
	// Alt modifier, per the PuTTY/xterm convention for Alt+special-key.
	if pending[1] == 0x1b {
		inner := escapeMatcher{}.Match(pending[1:])
		switch inner.Status {
		case Full:
			ev := inner.Event
			ev.Modifiers |= ModAlt
			return full(1+inner.Consumed, ev)
		case Partial:
			return partial()
		default:
			return noMatch()
		}
	}

	switch pending[1] {
	case '[':
		return matchCSI(pending)
	case 'O':
		return matchSS3(pending)
	}

	// Alt+character: ESC followed by an ordinary literal byte run.
	inner := literalMatcher{}.Match(pending[1:])
	switch inner.Status {
	case Full:
		ev := inner.Event
		ev.Modifiers |= ModAlt
		return full(1+inner.Consumed, ev)
	case Partial:
		return partial()
	default:
		// A lone ESC not followed by anything recognizable is itself a
		// complete Escape keypress; the decoder resolves the ambiguity
		// against a timeout before committing to this.
		return full(1, NewKeyEvent(KeyEscape, 0))
	}
}

func matchCSI(pending []byte) MatchResult {
	// pending[0]=ESC, pending[1]='['
	if len(pending) == 2 {
		return partial()
	}

	if pending[2] == '[' {
		if len(pending) == 3 {
			return partial()
		}
		if k, ok := legacyF1ToF5[pending[3]]; ok {
			return full(4, NewKeyEvent(k, 0))
		}
		return noMatch()
	}

	// Scan parameter bytes (digits and ';') until a final byte in
	// 0x40-0x7e.
	i := 2
	for i < len(pending) && (pending[i] >= '0' && pending[i] <= '9' || pending[i] == ';') {
		i++
	}
	if i >= len(pending) {
		return partial()
	}
	final := pending[i]
	if final < 0x40 || final > 0x7e {
		return noMatch()
	}

	params := strings.Split(string(pending[2:i]), ";")
	consumed := i + 1

	if final == 'R' {
		row, col, ok := parseCursorReport(string(pending[2:i]))
		if !ok {
			return noMatch()
		}
		ev := NewKeyEvent(KeyCursorLocationReport, 0)
		ev.CursorReport.Column = col
		ev.CursorReport.Row = row
		return full(consumed, ev)
	}

	if final == '~' {
		n, mods, ok := parseTildeParams(params)
		if !ok {
			return noMatch()
		}
		k, ok := tildeKey[n]
		if !ok {
			return noMatch()
		}
		return full(consumed, NewKeyEvent(k, mods))
	}

	k, ok := csiFinalKey[final]
	if !ok {
		return noMatch()
	}
	mods := modifierFromCSIParams(params)
	return full(consumed, NewKeyEvent(k, mods))
}

func matchSS3(pending []byte) MatchResult {
	// pending[0]=ESC, pending[1]='O'
	if len(pending) == 2 {
		return partial()
	}
	final := pending[2]
	k, ok := ss3FinalKey[final]
	if !ok {
		return noMatch()
	}
	// ESC O A..D with Ctrl held is how some terminals (PuTTY) send
	// Ctrl+Arrow, since the arrow keys have no SS3 modifier encoding.
	mods := Modifier(0)
	if final == 'A' || final == 'B' || final == 'C' || final == 'D' {
		mods = ModCtrl
	}
	return full(3, NewKeyEvent(k, mods))
}

// parseCursorReport parses the "row;col" body of a CSI cursor position
// report (the trailing 'R' final byte is stripped by the caller) into
// 0-based coordinates.
func parseCursorReport(body string) (row, col int, ok bool) {
	parts := strings.SplitN(body, ";", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	r, err1 := strconv.Atoi(parts[0])
	c, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || r < 1 || c < 1 {
		return 0, 0, false
	}
	return r - 1, c - 1, true
}

func modifierFromCSIParams(params []string) Modifier {
	if len(params) < 2 {
		return 0
	}
	v, err := strconv.Atoi(params[1])
	if err != nil {
		return 0
	}
	return modifierFromParam(v)
}

func parseTildeParams(params []string) (n int, mods Modifier, ok bool) {
	if len(params) == 0 || params[0] == "" {
		return 0, 0, false
	}
	n, err := strconv.Atoi(params[0])
	if err != nil {
		return 0, 0, false
	}
	if len(params) > 1 {
		if v, err := strconv.Atoi(params[1]); err == nil {
			mods = modifierFromParam(v)
		}
	}
	return n, mods, true
}
