package buffer

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorKind distinguishes the three ways a Color can be specified.
type ColorKind uint8

const (
	// ColorDefault defers to whatever the terminal's default foreground
	// or background is; it emits no color SGR tail at all.
	ColorDefault ColorKind = iota
	// ColorIndexed selects one of the 256 palette entries.
	ColorIndexed
	// ColorRGB selects a 24-bit true color.
	ColorRGB
)

// Color is an immutable terminal color: the default, one of 256 indexed
// palette entries (the first 16 of which are the named ANSI colors), or a
// 24-bit RGB triple.
type Color struct {
	kind    ColorKind
	index   uint8
	r, g, b uint8
}

// Default returns the terminal's default color.
func Default() Color { return Color{kind: ColorDefault} }

// Indexed returns the palette color at the given index (0..255).
func Indexed(index uint8) Color { return Color{kind: ColorIndexed, index: index} }

// RGB returns a 24-bit true color.
func RGB(r, g, b uint8) Color { return Color{kind: ColorRGB, r: r, g: g, b: b} }

// Kind reports which of the three variants this color is.
func (c Color) Kind() ColorKind { return c.kind }

// IsDefault reports whether this is the terminal-default color.
func (c Color) IsDefault() bool { return c.kind == ColorDefault }

// ForegroundSGRTail returns the byte sequence that follows "ESC [" to
// select this color as a foreground, e.g. "38;2;R;G;B" for RGB or
// "38;5;N" for an indexed color 16..255 (indexes 0..15 use the classic
// 30-37/90-97 codes, see ansi16Tail). Returns "" for ColorDefault.
func (c Color) ForegroundSGRTail() string {
	switch c.kind {
	case ColorIndexed:
		if c.index < 16 {
			return ansi16Tail(c.index, false)
		}
		return fmt.Sprintf("38;5;%d", c.index)
	case ColorRGB:
		return fmt.Sprintf("38;2;%d;%d;%d", c.r, c.g, c.b)
	default:
		return ""
	}
}

// BackgroundSGRTail is the background analogue of ForegroundSGRTail.
func (c Color) BackgroundSGRTail() string {
	switch c.kind {
	case ColorIndexed:
		if c.index < 16 {
			return ansi16Tail(c.index, true)
		}
		return fmt.Sprintf("48;5;%d", c.index)
	case ColorRGB:
		return fmt.Sprintf("48;2;%d;%d;%d", c.r, c.g, c.b)
	default:
		return ""
	}
}

// ansi16Tail renders one of the first 16 palette entries using the
// classic 30-37/90-97 (fg) or 40-47/100-107 (bg) SGR ranges, rather than
// the 38;5;N form, for maximum compatibility with older terminals.
func ansi16Tail(index uint8, background bool) string {
	base := 30
	if index >= 8 {
		base = 90
		index -= 8
	}
	if background {
		base += 10
	}
	return fmt.Sprintf("%d", base+int(index))
}

// namedANSI16 are the conventional RGB approximations of the first 16
// indexed colors; they form the first 16 entries of the palette that
// NearestIndexed searches.
var namedANSI16 = [16]colorful.Color{
	mustHex("#000000"), // 0 black
	mustHex("#800000"), // 1 red
	mustHex("#008000"), // 2 green
	mustHex("#808000"), // 3 yellow
	mustHex("#000080"), // 4 blue
	mustHex("#800080"), // 5 magenta
	mustHex("#008080"), // 6 cyan
	mustHex("#c0c0c0"), // 7 white
	mustHex("#808080"), // 8 bright black (grey)
	mustHex("#ff0000"), // 9 bright red
	mustHex("#00ff00"), // 10 bright green
	mustHex("#ffff00"), // 11 bright yellow
	mustHex("#0000ff"), // 12 bright blue
	mustHex("#ff00ff"), // 13 bright magenta
	mustHex("#00ffff"), // 14 bright cyan
	mustHex("#ffffff"), // 15 bright white
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// xterm256Palette is built once, at package initialization, as the full
// 256-entry xterm color cube (16
// named colors, a 6x6x6 color cube, and a 24-step grayscale ramp) as
// go-colorful colors, used for nearest-match searches.
var xterm256Palette = buildXterm256Palette()

func buildXterm256Palette() [256]colorful.Color {
	var pal [256]colorful.Color
	copy(pal[:16], namedANSI16[:])

	steps := [6]uint8{0, 95, 135, 175, 215, 255}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				pal[idx] = colorful.Color{
					R: float64(steps[r]) / 255,
					G: float64(steps[g]) / 255,
					B: float64(steps[b]) / 255,
				}
				idx++
			}
		}
	}
	for i := 0; i < 24; i++ {
		level := float64(8+i*10) / 255
		pal[232+i] = colorful.Color{R: level, G: level, B: level}
	}
	return pal
}

// NearestIndexed returns the 256-color palette index whose conventional
// RGB value is closest (by CIE76 distance) to this color. If the color is
// already indexed or default, it is returned unchanged. This is used when
// a Device advertises fewer than 1<<24 colors (Device.Colors()) and an RGB
// Color must be degraded before it can be emitted.
func (c Color) NearestIndexed() Color {
	if c.kind != ColorRGB {
		return c
	}
	target := colorful.Color{
		R: float64(c.r) / 255,
		G: float64(c.g) / 255,
		B: float64(c.b) / 255,
	}
	best := 0
	bestDist := -1.0
	for i, candidate := range xterm256Palette {
		d := target.DistanceLab(candidate)
		if bestDist < 0 || d < bestDist {
			bestDist = d
			best = i
		}
	}
	return Indexed(uint8(best))
}
