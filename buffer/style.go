package buffer

// StyleModifier is a single terminal text attribute, drawn from the SGR
// enable/disable table in spec.md §6.
type StyleModifier uint16

const (
	ModifierBold StyleModifier = 1 << iota
	ModifierReverse
	ModifierUnderline
	ModifierBlink
	ModifierItalic
	ModifierCrossedOut
	ModifierBordered
	ModifierFraktur
	ModifierCircled
)

// sgrEnableCode and sgrDisableCode give the "ESC [ N m" tail used to turn
// a modifier on or off, per spec.md §6.
var sgrEnableCode = map[StyleModifier]int{
	ModifierBold:       1,
	ModifierReverse:    7,
	ModifierUnderline:  4,
	ModifierBlink:      5,
	ModifierItalic:     3,
	ModifierCrossedOut: 9,
	ModifierBordered:   51,
	ModifierFraktur:    20,
	ModifierCircled:    52,
}

var sgrDisableCode = map[StyleModifier]int{
	ModifierBold:       22,
	ModifierReverse:    27,
	ModifierUnderline:  24,
	ModifierBlink:      25,
	ModifierItalic:     23,
	ModifierCrossedOut: 29,
	ModifierBordered:   54,
	ModifierFraktur:    23,
	ModifierCircled:    54,
}

// allModifiers enumerates every modifier bit, in a stable order used
// whenever modifiers must be walked deterministically (attribute diffing).
var allModifiers = []StyleModifier{
	ModifierBold, ModifierReverse, ModifierUnderline, ModifierBlink,
	ModifierItalic, ModifierCrossedOut, ModifierBordered, ModifierFraktur,
	ModifierCircled,
}

// Has reports whether m includes the given modifier bit.
func (m StyleModifier) Has(bit StyleModifier) bool { return m&bit != 0 }

// Set returns m with bit turned on.
func (m StyleModifier) Set(bit StyleModifier) StyleModifier { return m | bit }

// Clear returns m with bit turned off.
func (m StyleModifier) Clear(bit StyleModifier) StyleModifier { return m &^ bit }

// EnableSGRTail returns the "ESC [ N m" tail that enables this modifier.
func (m StyleModifier) EnableSGRTail() int { return sgrEnableCode[m] }

// DisableSGRTail returns the "ESC [ N m" tail that disables this modifier.
func (m StyleModifier) DisableSGRTail() int { return sgrDisableCode[m] }

// StyledChar is an immutable bundle of a grapheme cluster plus its
// foreground color, background color, and set of style modifiers.
// Equality is by all fields. The zero value holds an empty cluster (width
// 0) with default colors and no modifiers; it is not a space.
type StyledChar struct {
	cluster    string // the grapheme cluster, stored pre-decoded as UTF-8
	foreground Color
	background Color
	modifiers  StyleModifier
}

// NewStyledChar builds a StyledChar from a single rune with default
// colors and no modifiers.
func NewStyledChar(r rune) StyledChar {
	return StyledChar{cluster: string(r)}
}

// NewStyledCluster builds a StyledChar from an already-assembled grapheme
// cluster (primary rune plus any combining marks).
func NewStyledCluster(cluster []rune) StyledChar {
	return StyledChar{cluster: string(cluster)}
}

// Cluster returns the grapheme cluster as a string.
func (c StyledChar) Cluster() string { return c.cluster }

// Rune returns the cluster's primary rune, or 0 if the cluster is empty.
func (c StyledChar) Rune() rune {
	for _, r := range c.cluster {
		return r
	}
	return 0
}

// Foreground returns the cell's foreground color.
func (c StyledChar) Foreground() Color { return c.foreground }

// Background returns the cell's background color.
func (c StyledChar) Background() Color { return c.background }

// Modifiers returns the cell's style modifier set.
func (c StyledChar) Modifiers() StyleModifier { return c.modifiers }

// Width returns the cell's terminal column width in {0, 1, 2}.
func (c StyledChar) Width() int {
	var cluster []rune
	for _, r := range c.cluster {
		cluster = append(cluster, r)
	}
	return ClusterWidth(cluster)
}

// WithCharacter returns a copy of c with its grapheme cluster replaced.
func (c StyledChar) WithCharacter(r rune) StyledChar {
	c.cluster = string(r)
	return c
}

// WithCluster returns a copy of c with its grapheme cluster replaced.
func (c StyledChar) WithCluster(cluster []rune) StyledChar {
	c.cluster = string(cluster)
	return c
}

// WithForeground returns a copy of c with its foreground color replaced.
func (c StyledChar) WithForeground(fg Color) StyledChar {
	c.foreground = fg
	return c
}

// WithBackground returns a copy of c with its background color replaced.
func (c StyledChar) WithBackground(bg Color) StyledChar {
	c.background = bg
	return c
}

// WithModifier returns a copy of c with bit added to its modifier set.
func (c StyledChar) WithModifier(bit StyleModifier) StyledChar {
	c.modifiers = c.modifiers.Set(bit)
	return c
}

// WithoutModifier returns a copy of c with bit removed from its modifier set.
func (c StyledChar) WithoutModifier(bit StyleModifier) StyledChar {
	c.modifiers = c.modifiers.Clear(bit)
	return c
}

// WithModifiers returns a copy of c with its entire modifier set replaced.
func (c StyledChar) WithModifiers(mods StyleModifier) StyledChar {
	c.modifiers = mods
	return c
}

// TabKind selects how the compositor, its text graphics and the virtual
// screen expand a tab character into spaces.
type TabKind uint8

const (
	// TabReplace expands a tab to a fixed number of spaces.
	TabReplace TabKind = iota
	// TabAlignTo4 expands a tab to the next column that is a multiple of 4.
	TabAlignTo4
	// TabAlignTo8 expands a tab to the next column that is a multiple of 8.
	TabAlignTo8
)

// TabPolicy configures tab expansion. Width is only meaningful when Kind
// is TabReplace.
type TabPolicy struct {
	Kind  TabKind
	Width int
}

// DefaultTabPolicy replaces tabs with a single space, matching the
// teacher's lack of any tab handling as the conservative default.
func DefaultTabPolicy() TabPolicy {
	return TabPolicy{Kind: TabReplace, Width: 1}
}

// ExpandedWidth returns how many columns a tab at the given starting
// column should occupy under this policy.
func (p TabPolicy) ExpandedWidth(column int) int {
	switch p.Kind {
	case TabAlignTo4:
		return 4 - (column % 4)
	case TabAlignTo8:
		return 8 - (column % 8)
	default:
		if p.Width <= 0 {
			return 1
		}
		return p.Width
	}
}
