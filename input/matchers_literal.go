package input

import "unicode/utf8"

// literalMatcher recognizes the single C0 controls with a fixed meaning
// (Enter, Tab, Backspace) plus bare printable runes and their Ctrl/Alt
// variants. It never reports Partial for anything that isn't itself a
// valid UTF-8 prefix, so the decoder can fall back to it whenever the
// escape and mouse matchers have both given up.
type literalMatcher struct{}

func (literalMatcher) Match(pending []byte) MatchResult {
	if len(pending) == 0 {
		return partial()
	}

	b0 := pending[0]

	switch b0 {
	case '\r':
		return full(1, NewKeyEvent(KeyEnter, 0))
	case '\n':
		return full(1, NewKeyEvent(KeyEnter, 0))
	case '\t':
		return full(1, NewKeyEvent(KeyTab, 0))
	case 0x7f, 0x08:
		return full(1, NewKeyEvent(KeyBackspace, 0))
	}

	// Ctrl+Space: 0x00 is ^@, the one Ctrl-chord that doesn't fall in the
	// 0x01-0x1a letter range below.
	if b0 == 0x00 {
		return full(1, NewCharacterEvent(' ', ModCtrl))
	}

	// Ctrl+letter: 0x01-0x1a map to Ctrl-a .. Ctrl-z, excluding the
	// controls already claimed above (Tab=0x09, Enter=0x0d) and leaving
	// ESC (0x1b) to the escape matcher.
	if b0 >= 0x01 && b0 <= 0x1a && b0 != 0x09 && b0 != 0x0d {
		return full(1, NewCharacterEvent(rune('a'+b0-1), ModCtrl))
	}
	if b0 == 0x1c || b0 == 0x1d || b0 == 0x1e || b0 == 0x1f {
		return full(1, NewCharacterEvent(rune(b0+0x40), ModCtrl))
	}

	if b0 == 0x1b {
		// A lone, unresolved ESC is left to the escape matcher: it owns
		// everything starting with 0x1b so that CSI/SS3 sequences and a
		// standalone Escape keypress don't race each other here.
		return noMatch()
	}

	if b0 < 0x20 {
		return noMatch()
	}

	if b0 < utf8.RuneSelf {
		return full(1, NewCharacterEvent(rune(b0), 0))
	}

	if !utf8.FullRune(pending) {
		return partial()
	}
	r, n := utf8.DecodeRune(pending)
	if r == utf8.RuneError {
		return noMatch()
	}
	return full(n, NewCharacterEvent(r, 0))
}
