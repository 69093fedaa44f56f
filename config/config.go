// Package config holds the options the core recognizes, per spec.md §6's
// configuration table. Nothing here parses a config file: the teacher's
// own NewScreen() takes no configuration at all, so there is no existing
// file-format convention in the pack to imitate, and the spec names none
// either. Options are constructed programmatically by the embedding
// application.
package config

import (
	"tcore/buffer"
	"tcore/errs"
)

// CtrlCBehavior selects what happens when the decoder sees Ctrl-C.
type CtrlCBehavior uint8

const (
	// CtrlCTrap delivers Ctrl-C as an ordinary KeyEvent.
	CtrlCTrap CtrlCBehavior = iota
	// CtrlCKillsApplication restores the tty and exits with status 1.
	CtrlCKillsApplication
)

// MouseCaptureMode selects which mouse button transitions are reported.
type MouseCaptureMode uint8

const (
	MouseCaptureClick MouseCaptureMode = iota
	MouseCaptureClickRelease
	MouseCaptureClickReleaseDrag
	MouseCaptureClickReleaseDragMove
	MouseCaptureClickAutodetect
)

// Options holds every knob spec.md §6 names. The zero value is not valid;
// use Defaults() and override individual fields.
type Options struct {
	// DefaultCharacter fills blank cells on start/resize.
	DefaultCharacter buffer.StyledChar
	// TabBehavior controls tab expansion.
	TabBehavior buffer.TabPolicy
	// CtrlCBehavior controls what Ctrl-C does.
	CtrlCBehavior CtrlCBehavior
	// SttyCommandOverride holds a replacement stty command path. No code
	// in this module reads it: term sets raw mode through termios ioctls
	// only and has no stty-command path.
	SttyCommandOverride string
	// CatchSpecialCharacters, when false, leaves signal generation (ISIG)
	// enabled so Ctrl-C/Ctrl-Z keep their usual effect at the tty layer.
	CatchSpecialCharacters bool
	// InputTimeoutUnits is the escape-sequence continuation wait, in
	// quarter-seconds, 0-240 (max 60s).
	InputTimeoutUnits int
	// MouseCaptureMode names which mouse transitions should be reported.
	// No code in this module reads it or enables terminal mouse
	// reporting; input.Decoder decodes SGR mouse reports whenever the
	// terminal sends them.
	MouseCaptureMode MouseCaptureMode

	// ScrollOnCtrl, when true, has the virtual screen use Ctrl instead of
	// Alt as the scroll-trigger modifier.
	ScrollOnCtrl bool
	// MinimumSize is the smallest logical size the virtual screen presents.
	MinimumSize buffer.Size
}

// Defaults returns the conservative defaults: a blank-space filler,
// single-space tab replacement, Ctrl-C trapped as an event, special
// characters caught (signals suppressed), no escape-sequence wait, and
// click-only mouse capture.
func Defaults() Options {
	size, _ := buffer.NewSize(80, 24)
	return Options{
		DefaultCharacter:       buffer.NewStyledChar(' '),
		TabBehavior:            buffer.DefaultTabPolicy(),
		CtrlCBehavior:          CtrlCTrap,
		CatchSpecialCharacters: true,
		InputTimeoutUnits:      0,
		MouseCaptureMode:       MouseCaptureClick,
		ScrollOnCtrl:           false,
		MinimumSize:            size,
	}
}

// Validate rejects option combinations the core cannot act on.
func (o Options) Validate() error {
	if o.InputTimeoutUnits < 0 || o.InputTimeoutUnits > 240 {
		return errs.InvalidArgument("input_timeout_units must be within 0..240 quarter-seconds")
	}
	if o.MinimumSize.Columns < 0 || o.MinimumSize.Rows < 0 {
		return errs.InvalidArgument("minimum_size must not be negative")
	}
	switch o.CtrlCBehavior {
	case CtrlCTrap, CtrlCKillsApplication:
	default:
		return errs.InvalidArgument("unrecognized ctrl_c_behavior")
	}
	switch o.MouseCaptureMode {
	case MouseCaptureClick, MouseCaptureClickRelease, MouseCaptureClickReleaseDrag,
		MouseCaptureClickReleaseDragMove, MouseCaptureClickAutodetect:
	default:
		return errs.InvalidArgument("unrecognized mouse_capture_mode")
	}
	return nil
}
