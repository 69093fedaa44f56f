package term

import (
	"github.com/gdamore/encoding"
	"golang.org/x/text/encoding/charmap"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// Charset identifies a named byte encoding used for terminal output when
// the device is not configured for UTF-8 (spec.md §6 "Character
// encoding").
type Charset string

const (
	CharsetUTF8      Charset = "UTF-8"
	CharsetISO8859_1 Charset = "ISO8859-1"
	CharsetCP437     Charset = "CP437"
)

func lookupEncoding(cs Charset) xencoding.Encoding {
	switch cs {
	case CharsetISO8859_1:
		return charmap.ISO8859_1
	case CharsetCP437:
		return encoding.CP437
	default:
		return nil
	}
}

// EncodeString transliterates s into cs's byte encoding. For CharsetUTF8
// (the default) this is a no-op copy. Runes the target charset cannot
// represent fall back to '?', matching x/text's standard encoder
// behavior.
func EncodeString(cs Charset, s string) []byte {
	enc := lookupEncoding(cs)
	if enc == nil {
		return []byte(s)
	}
	out, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}

// acsGlyphs maps Unicode box-drawing/arrow glyphs to the corresponding
// VT100 alternate-character-set byte, per spec.md §4.3/§6. A device
// bracketed write of one of these bytes must be wrapped in
// "ESC ( 0" ... "ESC ( B" (AltCharsetOn/AltCharsetOff below).
var acsGlyphs = map[rune]byte{
	'─': 'q', '│': 'x', '┌': 'l', '┐': 'k', '└': 'm', '┘': 'j',
	'├': 't', '┤': 'u', '┬': 'w', '┴': 'v', '┼': 'n',
	'°': 'f', '±': 'g', '·': '~', '≤': 'y', '≥': 'z', 'π': '{',
	'→': '+', '←': ',', '↑': '-', '↓': '.', '█': '0', '♦': '`',
	'▒': 'a', '␉': 'b', '␌': 'c', '␍': 'd', '␊': 'e',
}

const (
	// AltCharsetOn switches into the VT100 line-drawing character set.
	AltCharsetOn = "\x1b(0"
	// AltCharsetOff returns to the normal (ASCII/UTF-8) character set.
	AltCharsetOff = "\x1b(B"
)

// ACSByte returns the VT100 alternate-character-set byte for r and true,
// or (0, false) if r has no line-drawing equivalent.
func ACSByte(r rune) (byte, bool) {
	b, ok := acsGlyphs[r]
	return b, ok
}
