package input

// MatchStatus classifies the outcome of feeding a byte run to a Matcher,
// per spec.md §4.4's "pattern matcher output" triple.
type MatchStatus int

const (
	// NoMatch means the bytes seen so far cannot be the prefix of
	// anything this matcher recognizes.
	NoMatch MatchStatus = iota
	// Partial means the bytes seen so far are a valid prefix, but more
	// bytes are needed before a decision can be made.
	Partial
	// Full means the bytes seen so far are a complete match.
	Full
)

// MatchResult is what a Matcher reports after inspecting a byte run.
type MatchResult struct {
	Status MatchStatus
	// Event is populated when Status == Full.
	Event KeyEvent
	// Mouse is populated alongside Event when the full match is a mouse
	// sequence; Event.Kind is then KeyMouseEvent and Event carries the
	// same action, button and position.
	Mouse *MouseEvent
	// Consumed is the number of leading bytes of the input this match
	// claims, valid when Status == Full.
	Consumed int
}

// Matcher recognizes one family of input sequences (a literal byte, a
// CSI/SS3 escape sequence, an SGR mouse report, ...). Match is given the
// full pending byte run collected so far and decides whether it is a
// dead end, an as-yet-incomplete prefix, or a complete event.
type Matcher interface {
	Match(pending []byte) MatchResult
}

func noMatch() MatchResult    { return MatchResult{Status: NoMatch} }
func partial() MatchResult    { return MatchResult{Status: Partial} }
func full(n int, e KeyEvent) MatchResult {
	return MatchResult{Status: Full, Event: e, Consumed: n}
}
func fullMouse(n int, m MouseEvent) MatchResult {
	m.Kind = KeyMouseEvent
	ev := m.KeyEvent
	ev.Kind = KeyMouseEvent
	ev.MouseAction = m.Action
	ev.MouseButton = m.Button
	ev.MousePosition = m.Position
	return MatchResult{Status: Full, Mouse: &m, Event: ev, Consumed: n}
}
