// Package errs defines the error kinds from spec.md §7, implemented as
// plain Go error values (no third-party error-wrapping library), wrapped
// with fmt.Errorf("...: %w", ...) at each propagation boundary — the
// teacher's own style of error handling (bare `error`, no wrapping
// library) generalized rather than replaced.
package errs

import "fmt"

// Kind classifies an error per spec.md §7. TimeoutElapsed is deliberately
// absent: the spec treats it as a `nil`/`false` result, never an error
// value. ProtocolParseFailure is also absent: the decoder resyncs
// silently and never surfaces it as an error.
type Kind int

const (
	// KindDeviceIO marks a read/write failure on the underlying byte
	// stream.
	KindDeviceIO Kind = iota
	// KindInvalidState marks an operation invalid in the device/
	// compositor's current state (e.g. entering the alternate screen
	// twice).
	KindInvalidState
	// KindInvalidArgument marks a negative size, out-of-range read, or
	// similarly malformed argument.
	KindInvalidArgument
	// KindFatal marks an unrecoverable failure during teardown (e.g. tty
	// settings could not be restored). Fatal errors are logged via a
	// caller-supplied sink, never returned from a dispose/drop path.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindDeviceIO:
		return "device_io"
	case KindInvalidState:
		return "invalid_state"
	case KindInvalidArgument:
		return "invalid_argument"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers can
// discriminate failure classes with errors.As.
type Error struct {
	Kind  Kind
	Msg   string
	Cause error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given kind with no underlying cause.
func New(kind Kind, msg string) error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error of the given kind wrapping cause.
func Wrap(kind Kind, msg string, cause error) error {
	return &Error{Kind: kind, Msg: msg, Cause: cause}
}

// DeviceIO is shorthand for Wrap(KindDeviceIO, ...).
func DeviceIO(msg string, cause error) error { return Wrap(KindDeviceIO, msg, cause) }

// InvalidState is shorthand for New(KindInvalidState, ...).
func InvalidState(msg string) error { return New(KindInvalidState, msg) }

// InvalidArgument is shorthand for New(KindInvalidArgument, ...).
func InvalidArgument(msg string) error { return New(KindInvalidArgument, msg) }
